// Package resolve collapses enriched applications into one candidate per
// person and flags duplicate / reapplication patterns on the application
// table. Everything here is a pure transform over immutable inputs.
package resolve

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/funnel"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// Metrics summarizes the deduplication outcome for the whole dataset.
type Metrics struct {
	TotalApplications        int     `json:"total_applications"`
	UniqueCandidates         int     `json:"unique_candidates"`
	DuplicateApplications    int     `json:"duplicate_applications"`
	ApplicationsPerCandidate float64 `json:"applications_per_candidate"`
}

// Result holds the resolved candidate table, the application table with
// duplicate/reapplication flags set, and the dataset metrics.
type Result struct {
	Candidates   []model.Candidate
	Applications []model.EnrichedApplication
	Metrics      Metrics
}

// Resolve groups applications by identity key and produces one candidate per
// group. Candidate order follows the earliest application of each group so
// output is deterministic. A nil matcher falls back to the default
// gatekeepers.
func Resolve(apps []model.EnrichedApplication, m *funnel.Matcher) Result {
	if m == nil {
		m = funnel.DefaultMatcher
	}
	groups := make(map[string][]model.EnrichedApplication)
	var order []string
	for _, app := range apps {
		if _, seen := groups[app.IdentityKey]; !seen {
			order = append(order, app.IdentityKey)
		}
		groups[app.IdentityKey] = append(groups[app.IdentityKey], app)
	}

	candidates := make([]model.Candidate, 0, len(groups))
	for _, key := range order {
		candidates = append(candidates, resolveGroup(key, groups[key], m))
	}

	flagged := flagReapplications(apps, groups)

	metrics := Metrics{
		TotalApplications:     len(apps),
		UniqueCandidates:      len(groups),
		DuplicateApplications: len(apps) - len(groups),
	}
	if metrics.UniqueCandidates > 0 {
		metrics.ApplicationsPerCandidate = round2(float64(metrics.TotalApplications) / float64(metrics.UniqueCandidates))
	}

	zap.L().Info("resolved candidates",
		zap.Int("applications", metrics.TotalApplications),
		zap.Int("candidates", metrics.UniqueCandidates),
		zap.Int("duplicates", metrics.DuplicateApplications),
	)

	return Result{Candidates: candidates, Applications: flagged, Metrics: metrics}
}

// resolveGroup builds the candidate record for one person's applications.
func resolveGroup(key string, group []model.EnrichedApplication, m *funnel.Matcher) model.Candidate {
	apps := make([]model.EnrichedApplication, len(group))
	copy(apps, group)
	sortByCreated(apps)

	isHired := false
	hasUnqualified := false
	for i := range apps {
		if apps[i].HiringSignal() {
			isHired = true
		}
		if strings.TrimSpace(apps[i].Status) == model.StatusUnqualified {
			hasUnqualified = true
		}
	}

	var representative *model.EnrichedApplication
	var stages model.FunnelStages
	var primaryStatus string

	switch {
	case hasUnqualified && !isHired:
		// Unqualified override: any unqualified application sinks the whole
		// candidate unless they were actually hired. Base the record on the
		// earliest unqualified application.
		for i := range apps {
			if strings.TrimSpace(apps[i].Status) == model.StatusUnqualified {
				representative = &apps[i]
				break
			}
		}
		stages = model.AppliedOnly()
		primaryStatus = model.StatusUnqualified

	default:
		representative = pickRepresentative(apps)
		primaryStatus = representative.Status
		if isHired {
			// Hired override: every stage is true, whatever the individual
			// applications classified to.
			stages = model.AllStages()
		} else {
			stages = model.AppliedOnly()
			for i := range apps {
				stages = stages.Merge(apps[i].Stages)
			}
			stages.Hired = false
		}
	}

	c := model.Candidate{
		IdentityKey:        key,
		Name:               representative.Name,
		Age:                representative.Age,
		Nationality:        representative.Nationality,
		CountryOfResidence: representative.CountryOfResidence,
		AgeGroup:           representative.AgeGroup,
		SpeakArabic:        representative.SpeakArabic,
		IQRating:           representative.IQRating,
		NumApplications:    len(apps),
		PrimaryStatus:      primaryStatus,
		IsHired:            isHired,
		CompletenessScore:  representative.CompletenessScore(),
		Stages:             stages,
	}
	if representative.DateOfBirth != nil {
		c.DateOfBirth = representative.DateOfBirth.Format("2006-01-02")
	}

	mergeGroupFields(&c, apps, m)
	return c
}

// pickRepresentative selects the application with the highest status
// priority, tie-broken by completeness score. Earlier applications win
// remaining ties.
func pickRepresentative(apps []model.EnrichedApplication) *model.EnrichedApplication {
	best := &apps[0]
	for i := 1; i < len(apps); i++ {
		a := &apps[i]
		if a.StatusPriority > best.StatusPriority ||
			(a.StatusPriority == best.StatusPriority &&
				a.CompletenessScore() > best.CompletenessScore()) {
			best = a
		}
	}
	return best
}

// mergeGroupFields fills the candidate fields that always cover the whole
// group regardless of which application was chosen representative.
func mergeGroupFields(c *model.Candidate, apps []model.EnrichedApplication, m *funnel.Matcher) {
	var statuses, titles []string
	seenSources := map[string]struct{}{}
	var sources []string
	var reasons []string

	for i := range apps {
		a := &apps[i]
		statuses = append(statuses, a.Status)
		if t := strings.TrimSpace(a.JobTitle); t != "" {
			titles = append(titles, t)
		}
		if s := strings.TrimSpace(a.Source); s != "" {
			if _, ok := seenSources[s]; !ok {
				seenSources[s] = struct{}{}
				sources = append(sources, s)
			}
		}
		if a.DisqualificationReason != "" && a.DisqualificationReason != "Not Unqualified" {
			reasons = append(reasons, a.DisqualificationReason)
		}

		if a.TestGorillaScore != nil && *a.TestGorillaScore > c.BestScore {
			c.BestScore = *a.TestGorillaScore
		}
		if a.MaidsccScore != nil {
			if *a.MaidsccScore > c.BestScore {
				c.BestScore = *a.MaidsccScore
			}
			if *a.MaidsccScore > c.BestMaidsccScore {
				c.BestMaidsccScore = *a.MaidsccScore
			}
		}

		if a.InterviewCreatedAt != nil {
			c.HasInterview = true
		}
		if strings.TrimSpace(a.InterviewFeedback) != "" {
			c.HasFeedback = true
		}
		if a.OfferSentAt != nil {
			c.HasOffer = true
		}
		if rejectedByGatekeepers(a, m) {
			c.RejectedByGatekeepers = true
		}

		if a.CreatedAt != nil {
			if c.FirstApplication == nil || a.CreatedAt.Before(*c.FirstApplication) {
				t := *a.CreatedAt
				c.FirstApplication = &t
			}
			if c.LastApplication == nil || a.CreatedAt.After(*c.LastApplication) {
				t := *a.CreatedAt
				c.LastApplication = &t
			}
		}
	}

	c.AllStatuses = strings.Join(statuses, ", ")
	c.AllJobTitles = strings.Join(titles, ", ")
	c.Sources = strings.Join(sources, ", ")
	c.Source = strings.TrimSpace(apps[0].Source)
	c.HasAnyTestScore = c.BestScore > 0
	c.HasConflictingStatuses = len(uniqueStrings(statuses)) > 1

	if len(reasons) > 0 {
		c.DisqualificationReason = reasons[0]
	} else {
		c.DisqualificationReason = "Not Unqualified"
	}

	if c.FirstApplication != nil {
		t := *c.FirstApplication
		c.Month = model.MonthBucket(t)
		c.Quarter = model.QuarterBucket(t)
		c.Year = t.Year()
		c.Week = model.WeekBucket(t)
	}
}

// rejectedByGatekeepers mirrors the classifier's gatekeeper-rejection check
// for candidate-level reporting.
func rejectedByGatekeepers(a *model.EnrichedApplication, m *funnel.Matcher) bool {
	feedbackBy := strings.TrimSpace(a.InterviewFeedbackBy)
	if a.InterviewStatus == model.InterviewRejected &&
		(m.IsGatekeeper(feedbackBy) || m.MentionedIn(a.Interviewers)) {
		return true
	}
	status := strings.TrimSpace(a.Status)
	if (status == model.StatusFailedManagerLower || status == model.StatusFailedManagerTitle) &&
		m.IsGatekeeper(feedbackBy) {
		return true
	}
	return false
}

// flagReapplications returns a copy of the application table with duplicate
// and reapplication flags set: every application after a person's earliest
// is a duplicate; gaps of at most 30 days flag a same-month reapplication,
// gaps over 365 days a reapplication after a year.
func flagReapplications(apps []model.EnrichedApplication, groups map[string][]model.EnrichedApplication) []model.EnrichedApplication {
	out := make([]model.EnrichedApplication, len(apps))
	copy(out, apps)

	byIndex := make(map[int]*model.EnrichedApplication, len(out))
	for i := range out {
		byIndex[out[i].Index] = &out[i]
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sorted := make([]model.EnrichedApplication, len(group))
		copy(sorted, group)
		sortByCreated(sorted)

		for i := 1; i < len(sorted); i++ {
			if app := byIndex[sorted[i].Index]; app != nil {
				app.IsDuplicate = true
			}
		}

		var dated []model.EnrichedApplication
		for _, a := range sorted {
			if a.CreatedAt != nil {
				dated = append(dated, a)
			}
		}
		for i := 1; i < len(dated); i++ {
			gap := dated[i].CreatedAt.Sub(*dated[i-1].CreatedAt)
			app := byIndex[dated[i].Index]
			if app == nil {
				continue
			}
			if gap <= 30*24*time.Hour {
				app.SameMonthReapplication = true
			}
			if gap > 365*24*time.Hour {
				app.ReapplicationAfterYear = true
			}
		}
	}

	return out
}

// sortByCreated orders applications by creation time, missing timestamps
// first, original order as the tie-break.
func sortByCreated(apps []model.EnrichedApplication) {
	sort.SliceStable(apps, func(i, j int) bool {
		ti, tj := apps[i].CreatedAt, apps[j].CreatedAt
		switch {
		case ti == nil && tj == nil:
			return apps[i].Index < apps[j].Index
		case ti == nil:
			return true
		case tj == nil:
			return false
		default:
			return ti.Before(*tj)
		}
	})
}

func uniqueStrings(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
