// Package server exposes the dataset store and analytics over HTTP. The
// dashboard frontend is a separate deployment, so every endpoint speaks JSON
// and CORS is configured from the server config.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/config"
	"github.com/recruiting-ops/funnel-cli/internal/pipeline"
	"github.com/recruiting-ops/funnel-cli/internal/store"
)

// Server wires the store and the processing pipeline behind an HTTP API.
type Server struct {
	cfg  config.ServerConfig
	st   store.Store
	pipe *pipeline.Pipeline
}

// New builds a Server.
func New(cfg config.ServerConfig, st store.Store, pipe *pipeline.Pipeline) *Server {
	return &Server{cfg: cfg, st: st, pipe: pipe}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/datasets", func(r chi.Router) {
		r.Get("/", s.handleListDatasets)
		r.Post("/", s.handleCreateDataset)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteDataset)
			r.Get("/options", s.handleDatasetOptions)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/compare", s.handleCompare)
			r.Post("/stages", s.handleStages)
		})
	})

	return r
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
