package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recruiting-ops/funnel-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analytics HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		pipe, err := initPipeline()
		if err != nil {
			return err
		}

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		return server.New(serverCfg, st, pipe).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
