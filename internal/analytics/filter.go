// Package analytics computes the read-side aggregates: funnel counts and
// conversions, summary KPIs, source performance, age distribution,
// disqualification breakdowns, and time series. Everything operates over the
// immutable candidate and application tables produced by resolve; nothing
// here recomputes identity or stage logic.
package analytics

import (
	"strings"
	"time"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// Filter sentinels. An empty slice, a nil filter, or the sentinel value all
// mean "no restriction".
const (
	AllSources = "All Sources"
	AllDates   = "All"
)

// DateRangeType selects which pre-bucketed date column a filter matches
// against, or a custom absolute range.
type DateRangeType string

const (
	DateRangeWeek    DateRangeType = "week"
	DateRangeMonth   DateRangeType = "month"
	DateRangeQuarter DateRangeType = "quarter"
	DateRangeYear    DateRangeType = "year"
	DateRangeCustom  DateRangeType = "custom"
)

// FilterSpec restricts the candidate table by source, job title, and
// first-application date. Zero value means no filtering. Filters compose:
// all present clauses must match.
type FilterSpec struct {
	Sources     []string      `json:"sources,omitempty" yaml:"sources"`
	JobTitles   []string      `json:"job_titles,omitempty" yaml:"job_titles"`
	DateType    DateRangeType `json:"date_type,omitempty" yaml:"date_type"`
	DateValues  []string      `json:"date_values,omitempty" yaml:"date_values"`
	CustomStart *time.Time    `json:"custom_start,omitempty" yaml:"custom_start"`
	CustomEnd   *time.Time    `json:"custom_end,omitempty" yaml:"custom_end"`
}

// Description renders the filter for display next to comparison results.
func (f FilterSpec) Description() string {
	var parts []string
	if len(f.Sources) > 0 && !contains(f.Sources, AllSources) {
		parts = append(parts, "Sources: "+strings.Join(f.Sources, ", "))
	}
	if len(f.JobTitles) > 0 {
		parts = append(parts, "Jobs: "+strings.Join(f.JobTitles, ", "))
	}
	switch {
	case f.DateType == DateRangeCustom && f.CustomStart != nil && f.CustomEnd != nil:
		parts = append(parts, "Date: "+f.CustomStart.Format("2006-01-02")+" to "+f.CustomEnd.Format("2006-01-02"))
	case f.DateType != "" && len(f.DateValues) > 0 && !contains(f.DateValues, AllDates):
		parts = append(parts, dateTypeLabel(f.DateType)+": "+strings.Join(f.DateValues, ", "))
	}
	if len(parts) == 0 {
		return "All Data"
	}
	return strings.Join(parts, "; ")
}

// Apply returns the candidates matching the filter. The input slice is
// never modified; an unrestricted filter returns the input as-is, so
// applying the same filter twice is idempotent.
func (f FilterSpec) Apply(candidates []model.Candidate) []model.Candidate {
	out := filterBySources(candidates, f.Sources)
	out = filterByJobTitles(out, f.JobTitles)
	out = f.filterByDate(out)
	return out
}

// filterBySources keeps candidates whose earliest source is in the set.
func filterBySources(candidates []model.Candidate, sources []string) []model.Candidate {
	if len(sources) == 0 || contains(sources, AllSources) {
		return candidates
	}
	var out []model.Candidate
	for _, c := range candidates {
		if contains(sources, c.Source) {
			out = append(out, c)
		}
	}
	return out
}

// filterByJobTitles keeps candidates whose concatenated job-title list
// contains any selected title as a substring.
func filterByJobTitles(candidates []model.Candidate, titles []string) []model.Candidate {
	if len(titles) == 0 {
		return candidates
	}
	var out []model.Candidate
	for _, c := range candidates {
		for _, t := range titles {
			if strings.Contains(c.AllJobTitles, t) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (f FilterSpec) filterByDate(candidates []model.Candidate) []model.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	if f.DateType == DateRangeCustom {
		if f.CustomStart == nil || f.CustomEnd == nil {
			return candidates
		}
		var out []model.Candidate
		for _, c := range candidates {
			if c.FirstApplication == nil {
				continue
			}
			d := dateOnly(*c.FirstApplication)
			if !d.Before(dateOnly(*f.CustomStart)) && !d.After(dateOnly(*f.CustomEnd)) {
				out = append(out, c)
			}
		}
		return out
	}

	if len(f.DateValues) == 0 || contains(f.DateValues, AllDates) {
		return candidates
	}

	key := func(c model.Candidate) (string, bool) {
		switch f.DateType {
		case DateRangeWeek:
			return c.Week, true
		case DateRangeMonth:
			return c.Month, true
		case DateRangeQuarter:
			return c.Quarter, true
		case DateRangeYear:
			if c.Year == 0 {
				return "", true
			}
			return yearString(c.Year), true
		default:
			return "", false
		}
	}

	var out []model.Candidate
	for _, c := range candidates {
		k, known := key(c)
		if !known {
			// Unknown date type: no restriction, matching the source's
			// fall-through behavior.
			return candidates
		}
		if k != "" && contains(f.DateValues, k) {
			out = append(out, c)
		}
	}
	return out
}

func dateTypeLabel(t DateRangeType) string {
	switch t {
	case DateRangeWeek:
		return "Week"
	case DateRangeMonth:
		return "Month"
	case DateRangeQuarter:
		return "Quarter"
	case DateRangeYear:
		return "Year"
	default:
		return "Date"
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func yearString(year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}
