package analytics

import "github.com/recruiting-ops/funnel-cli/internal/model"

// Report bundles every aggregate for one filtered view of a dataset. The
// analyze command and the HTTP analyze endpoint both return this shape.
type Report struct {
	Summary           SummaryMetrics       `json:"summary"`
	Funnel            FunnelMetrics        `json:"funnel"`
	SourcePerformance []SourceRow          `json:"source_performance"`
	AgeDistribution   []AgeRow             `json:"age_distribution"`
	Unqualified       UnqualifiedBreakdown `json:"unqualified"`
	Timeline          TimeSeries           `json:"timeline"`
}

// Report computes all aggregates for the filtered candidates; nil means the
// whole table.
func (a *Analytics) Report(filtered []model.Candidate) Report {
	return Report{
		Summary:           a.Summary(filtered),
		Funnel:            a.Funnel(filtered),
		SourcePerformance: a.SourcePerformance(filtered),
		AgeDistribution:   a.AgeDistribution(filtered),
		Unqualified:       a.Unqualified(filtered),
		Timeline:          a.Timeline(filtered, false),
	}
}
