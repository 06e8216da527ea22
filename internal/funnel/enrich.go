package funnel

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/identity"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// Enricher turns raw applications into enriched records: derived age,
// identity key, disqualification reason, funnel stages, and date buckets.
// Ref pins the age reference date so output is reproducible across runs.
type Enricher struct {
	Ref     time.Time
	Matcher *Matcher
}

// NewEnricher builds an Enricher; a nil matcher falls back to the default
// gatekeepers.
func NewEnricher(ref time.Time, m *Matcher) *Enricher {
	if m == nil {
		m = DefaultMatcher
	}
	return &Enricher{Ref: ref, Matcher: m}
}

// EnrichAll classifies every application. The input is not mutated; each
// output record carries a cleaned copy of its source row.
func (e *Enricher) EnrichAll(apps []model.Application) []model.EnrichedApplication {
	out := make([]model.EnrichedApplication, 0, len(apps))
	for i := range apps {
		out = append(out, e.enrich(apps[i], i))
	}
	zap.L().Debug("enriched applications", zap.Int("count", len(out)))
	return out
}

func (e *Enricher) enrich(app model.Application, idx int) model.EnrichedApplication {
	// An offer on record means the person was hired regardless of what the
	// status column says; this overwrite happens before any classification.
	if app.OfferSentAt != nil {
		app.Status = model.StatusHired
	}

	age := identity.Age(app.DateOfBirth, e.Ref)

	enriched := model.EnrichedApplication{
		Application:            app,
		Index:                  idx,
		Age:                    age,
		IdentityKey:            identity.KeyFromDOB(app.Name, app.DateOfBirth, app.Nationality, app.CountryOfResidence),
		DisqualificationReason: DisqualificationReason(&app, age),
		Stages:                 Classify(&app, e.Matcher),
		StatusPriority:         model.StatusPriority(app.Status),
		InterviewScheduledNoFeedback: app.InterviewCreatedAt != nil &&
			strings.TrimSpace(app.InterviewFeedback) == "",
	}

	if app.CreatedAt != nil {
		t := *app.CreatedAt
		enriched.Month = model.MonthBucket(t)
		enriched.Quarter = model.QuarterBucket(t)
		enriched.Year = t.Year()
		enriched.Week = model.WeekBucket(t)
	}

	return enriched
}
