// Package pipeline runs the full processing chain for one dataset: enrich
// each application (age, identity key, disqualification, funnel stages),
// then resolve applications into unique candidates. The CLI commands and the
// HTTP server both go through here so a dataset always produces the same
// tables regardless of entry point.
package pipeline

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/analytics"
	"github.com/recruiting-ops/funnel-cli/internal/config"
	"github.com/recruiting-ops/funnel-cli/internal/funnel"
	"github.com/recruiting-ops/funnel-cli/internal/model"
	"github.com/recruiting-ops/funnel-cli/internal/resolve"
)

// Pipeline holds the knobs that affect processing: the age reference date
// and the gatekeeper name set.
type Pipeline struct {
	enricher *funnel.Enricher
	matcher  *funnel.Matcher
}

// New builds a pipeline. ref is the date ages are computed against;
// gatekeepers may be nil to use the defaults.
func New(ref time.Time, gatekeepers []string) *Pipeline {
	m := funnel.DefaultMatcher
	if len(gatekeepers) > 0 {
		m = funnel.NewMatcher(gatekeepers)
	}
	return &Pipeline{
		enricher: funnel.NewEnricher(ref, m),
		matcher:  m,
	}
}

// FromConfig builds a pipeline from the analytics section of the config.
func FromConfig(cfg config.AnalyticsConfig) (*Pipeline, error) {
	ref := time.Now().UTC()
	if cfg.ReferenceDate != "" {
		parsed, err := time.Parse("2006-01-02", cfg.ReferenceDate)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: parse reference date %q", cfg.ReferenceDate)
		}
		ref = parsed
	}
	return New(ref, cfg.Gatekeepers), nil
}

// Run processes raw application rows into the resolved tables.
func (p *Pipeline) Run(apps []model.Application) resolve.Result {
	enriched := p.enricher.EnrichAll(apps)
	result := resolve.Resolve(enriched, p.matcher)

	zap.L().Info("pipeline: dataset processed",
		zap.Int("applications", result.Metrics.TotalApplications),
		zap.Int("candidates", result.Metrics.UniqueCandidates),
		zap.Int("duplicates", result.Metrics.DuplicateApplications),
	)
	return result
}

// Analyze runs the pipeline and wraps the result for aggregate queries.
func (p *Pipeline) Analyze(apps []model.Application) *analytics.Analytics {
	res := p.Run(apps)
	return analytics.New(res)
}
