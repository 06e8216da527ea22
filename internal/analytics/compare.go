package analytics

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// NamedFilter pairs a display name with a filter, one per comparison column.
type NamedFilter struct {
	Name   string     `json:"name" yaml:"name"`
	Filter FilterSpec `json:"filter" yaml:"filter"`
}

// ComparisonResult is the full analysis of one filtered slice.
type ComparisonResult struct {
	Name              string                      `json:"name"`
	FilterDescription string                      `json:"filter_description"`
	Funnel            FunnelMetrics               `json:"funnel"`
	Summary           SummaryMetrics              `json:"summary"`
	CandidatesByStage map[string][]StageCandidate `json:"candidates_by_stage"`
}

// Compare evaluates each named filter against the dataset concurrently and
// returns results in input order.
func (a *Analytics) Compare(ctx context.Context, filters []NamedFilter) ([]ComparisonResult, error) {
	if len(filters) == 0 {
		return nil, eris.New("analytics: no comparison filters given")
	}

	results := make([]ComparisonResult, len(filters))
	g, ctx := errgroup.WithContext(ctx)
	for i, nf := range filters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "analytics: comparison canceled")
			}
			results[i] = a.compareOne(nf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analytics) compareOne(nf NamedFilter) ComparisonResult {
	filtered := nf.Filter.Apply(a.Candidates)
	if filtered == nil {
		filtered = []model.Candidate{}
	}
	return ComparisonResult{
		Name:              nf.Name,
		FilterDescription: nf.Filter.Description(),
		Funnel:            a.Funnel(filtered),
		Summary:           a.Summary(filtered),
		CandidatesByStage: a.CandidatesByStageDetailed(filtered),
	}
}
