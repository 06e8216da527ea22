package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/recruiting-ops/funnel-cli/internal/model"
	"github.com/recruiting-ops/funnel-cli/internal/resolve"
)

// Analytics answers aggregate queries over one resolved dataset. Methods take
// an optional pre-filtered candidate slice; passing nil means the full table.
type Analytics struct {
	Applications []model.EnrichedApplication
	Candidates   []model.Candidate
	Metrics      resolve.Metrics
}

// New wraps a resolution result for querying.
func New(res resolve.Result) *Analytics {
	return &Analytics{
		Applications: res.Applications,
		Candidates:   res.Candidates,
		Metrics:      res.Metrics,
	}
}

func (a *Analytics) master(filtered []model.Candidate) []model.Candidate {
	if filtered != nil {
		return filtered
	}
	return a.Candidates
}

// appsFor returns the applications belonging to the given candidates,
// in original order.
func (a *Analytics) appsFor(candidates []model.Candidate) []model.EnrichedApplication {
	keys := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		keys[c.IdentityKey] = struct{}{}
	}
	var out []model.EnrichedApplication
	for _, app := range a.Applications {
		if _, ok := keys[app.IdentityKey]; ok {
			out = append(out, app)
		}
	}
	return out
}

// StageCount is one row of the funnel, in stage order.
type StageCount struct {
	Stage model.Stage `json:"stage"`
	Count int         `json:"count"`
}

// Conversion is the percentage of candidates in From that reached To,
// rounded to two decimals.
type Conversion struct {
	From model.Stage `json:"from"`
	To   model.Stage `json:"to"`
	Rate float64     `json:"rate"`
}

// FunnelMetrics holds per-stage counts and adjacent-stage conversion rates
// over qualified candidates only.
type FunnelMetrics struct {
	Funnel      []StageCount `json:"funnel"`
	Conversions []Conversion `json:"conversions"`
}

// Funnel counts qualified candidates per stage and derives adjacent
// conversions. A conversion is omitted when its source stage is empty.
func (a *Analytics) Funnel(filtered []model.Candidate) FunnelMetrics {
	qualified := qualifiedOnly(a.master(filtered))

	counts := make([]StageCount, len(model.Stages))
	for i, s := range model.Stages {
		counts[i] = StageCount{Stage: s}
	}
	counts[0].Count = len(qualified)
	for _, c := range qualified {
		for i, s := range model.Stages[1:] {
			if c.Stages.Reached(s) {
				counts[i+1].Count++
			}
		}
	}

	var conversions []Conversion
	for i := 0; i < len(counts)-1; i++ {
		from, to := counts[i], counts[i+1]
		if from.Count == 0 {
			continue
		}
		rate := float64(to.Count) / float64(from.Count) * 100
		conversions = append(conversions, Conversion{
			From: from.Stage,
			To:   to.Stage,
			Rate: round2(rate),
		})
	}

	return FunnelMetrics{Funnel: counts, Conversions: conversions}
}

// stageLabel names each stage in reporting output. Applied is relabeled to
// make the qualified-only restriction visible.
func stageLabel(s model.Stage) string {
	if s == model.StageApplied {
		return "Applied (Qualified)"
	}
	return string(s)
}

// CandidatesByStage lists qualified candidate names per stage.
func (a *Analytics) CandidatesByStage(filtered []model.Candidate) map[string][]string {
	qualified := qualifiedOnly(a.master(filtered))

	out := make(map[string][]string, len(model.Stages))
	for _, s := range model.Stages {
		names := []string{}
		for _, c := range qualified {
			if s == model.StageApplied || c.Stages.Reached(s) {
				names = append(names, c.Name)
			}
		}
		out[stageLabel(s)] = names
	}
	return out
}

// StageCandidate is the per-candidate detail attached to a stage listing.
type StageCandidate struct {
	Name          string `json:"name"`
	IdentityKey   string `json:"identity_key"`
	Age           *int   `json:"age,omitempty"`
	PrimaryStatus string `json:"primary_status"`
	JobTitles     string `json:"job_titles"`
}

// CandidatesByStageDetailed is CandidatesByStage with candidate detail rows
// instead of bare names.
func (a *Analytics) CandidatesByStageDetailed(filtered []model.Candidate) map[string][]StageCandidate {
	qualified := qualifiedOnly(a.master(filtered))

	out := make(map[string][]StageCandidate, len(model.Stages))
	for _, s := range model.Stages {
		rows := []StageCandidate{}
		for _, c := range qualified {
			if s != model.StageApplied && !c.Stages.Reached(s) {
				continue
			}
			rows = append(rows, StageCandidate{
				Name:          c.Name,
				IdentityKey:   c.IdentityKey,
				Age:           c.Age,
				PrimaryStatus: c.PrimaryStatus,
				JobTitles:     c.AllJobTitles,
			})
		}
		out[stageLabel(s)] = rows
	}
	return out
}

// SummaryMetrics are the headline KPIs over one (possibly filtered) slice of
// the dataset.
type SummaryMetrics struct {
	TotalApplications         int     `json:"total_applications"`
	UniqueCandidates          int     `json:"unique_candidates"`
	ApplicationsPerCandidate  float64 `json:"applications_per_candidate"`
	DuplicateApplications     int     `json:"duplicate_applications"`
	TotalUnqualified          int     `json:"total_unqualified"`
	UnqualifiedRate           float64 `json:"unqualified_rate"`
	QualifiedCandidates       int     `json:"qualified_candidates"`
	QualificationRate         float64 `json:"qualification_rate"`
	TotalHired                int     `json:"total_hired"`
	OverallHireRate           float64 `json:"overall_hire_rate"`
	HireRateFromQualified     float64 `json:"hire_rate_from_qualified"`
	TotalRejected             int     `json:"total_rejected"`
	AvgAge                    float64 `json:"avg_calculated_age"`
	InterviewsWithoutFeedback int     `json:"interviews_without_feedback"`
	ReapplicationsAfterYear   int     `json:"reapplications_after_year"`
}

// Summary computes the headline KPIs. Rates are percentages rounded to one
// decimal; ratios to two. Zero denominators yield zero, never NaN.
func (a *Analytics) Summary(filtered []model.Candidate) SummaryMetrics {
	master := a.master(filtered)
	if len(master) == 0 {
		return SummaryMetrics{}
	}

	apps := a.appsFor(master)
	totalApps := len(apps)
	unique := len(master)

	var unqualified, hired int
	var ageSum float64
	var ageCount int
	for _, c := range master {
		if !c.Qualified() {
			unqualified++
		}
		if c.Stages.Hired {
			hired++
		}
		if c.Age != nil {
			ageSum += float64(*c.Age)
			ageCount++
		}
	}
	qualified := unique - unqualified

	var rejected, noFeedback, reapplications int
	for _, app := range apps {
		if app.Status == model.StatusRejected {
			rejected++
		}
		if app.InterviewScheduledNoFeedback {
			noFeedback++
		}
		if app.ReapplicationAfterYear {
			reapplications++
		}
	}

	m := SummaryMetrics{
		TotalApplications:         totalApps,
		UniqueCandidates:          unique,
		DuplicateApplications:     totalApps - unique,
		TotalUnqualified:          unqualified,
		QualifiedCandidates:       qualified,
		TotalHired:                hired,
		TotalRejected:             rejected,
		InterviewsWithoutFeedback: noFeedback,
		ReapplicationsAfterYear:   reapplications,
	}
	if unique > 0 {
		m.ApplicationsPerCandidate = round2(float64(totalApps) / float64(unique))
		m.UnqualifiedRate = round1(float64(unqualified) / float64(unique) * 100)
		m.QualificationRate = round1(float64(qualified) / float64(unique) * 100)
		m.OverallHireRate = round1(float64(hired) / float64(unique) * 100)
	}
	if qualified > 0 {
		m.HireRateFromQualified = round1(float64(hired) / float64(qualified) * 100)
	}
	if ageCount > 0 {
		m.AvgAge = round1(ageSum / float64(ageCount))
	}
	return m
}

// SourceRow is the per-source performance report. Counts of candidates are
// unique people; TotalApplications counts rows.
type SourceRow struct {
	Source                   string  `json:"source"`
	TotalApplications        int     `json:"total_applications"`
	UniqueCandidates         int     `json:"unique_candidates"`
	QualifiedCandidates      int     `json:"qualified_candidates"`
	QualificationRate        float64 `json:"qualification_rate"`
	Hired                    int     `json:"hired"`
	HireRate                 float64 `json:"hire_rate"`
	HireRateFromQualified    float64 `json:"hire_rate_from_qualified"`
	AvgIQScore               float64 `json:"avg_iq_score"`
	AvgAge                   float64 `json:"avg_calculated_age"`
	ApplicationsPerCandidate float64 `json:"applications_per_candidate"`
}

// SourcePerformance reports acquisition quality per application source.
// Candidate attribution is by substring against the candidate's full source
// list, so a candidate who applied through two sources counts toward both.
// Rows are ordered by unique candidates descending.
func (a *Analytics) SourcePerformance(filtered []model.Candidate) []SourceRow {
	master := a.master(filtered)
	apps := a.appsFor(master)

	var sources []string
	seen := make(map[string]struct{})
	for _, app := range apps {
		if app.Source == "" {
			continue
		}
		if _, ok := seen[app.Source]; !ok {
			seen[app.Source] = struct{}{}
			sources = append(sources, app.Source)
		}
	}

	rows := make([]SourceRow, 0, len(sources))
	for _, source := range sources {
		var totalApps int
		var scoreSum float64
		var scoreCount int
		for _, app := range apps {
			if app.Source != source {
				continue
			}
			totalApps++
			if app.TestGorillaScore != nil {
				scoreSum += *app.TestGorillaScore
				scoreCount++
			}
			if app.MaidsccScore != nil {
				scoreSum += *app.MaidsccScore
				scoreCount++
			}
		}

		var unique, qualified, hired int
		var ageSum float64
		var ageCount int
		for _, c := range master {
			if !sourceMentioned(c.Sources, source) {
				continue
			}
			unique++
			if c.Qualified() {
				qualified++
			}
			if c.Stages.Hired {
				hired++
			}
			if c.Age != nil {
				ageSum += float64(*c.Age)
				ageCount++
			}
		}

		row := SourceRow{
			Source:              source,
			TotalApplications:   totalApps,
			UniqueCandidates:    unique,
			QualifiedCandidates: qualified,
			Hired:               hired,
		}
		if unique > 0 {
			row.QualificationRate = round1(float64(qualified) / float64(unique) * 100)
			row.HireRate = round1(float64(hired) / float64(unique) * 100)
			row.ApplicationsPerCandidate = round2(float64(totalApps) / float64(unique))
		}
		if qualified > 0 {
			row.HireRateFromQualified = round1(float64(hired) / float64(qualified) * 100)
		}
		if scoreCount > 0 {
			row.AvgIQScore = round1(scoreSum / float64(scoreCount))
		}
		if ageCount > 0 {
			row.AvgAge = round1(ageSum / float64(ageCount))
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UniqueCandidates > rows[j].UniqueCandidates
	})
	return rows
}

// ageBuckets partition [0, 100) left-inclusive; an age outside the range is
// not reported.
var (
	ageBucketBounds = []int{0, 18, 22, 24, 26, 27, 30, 35, 100}
	ageBucketLabels = []string{"<18", "18-21", "22-23", "24-25", "26", "27-29", "30-34", "35+"}
)

func ageBucket(age int) (string, bool) {
	for i := 0; i < len(ageBucketLabels); i++ {
		if age >= ageBucketBounds[i] && age < ageBucketBounds[i+1] {
			return ageBucketLabels[i], true
		}
	}
	return "", false
}

// AgeRow is the per-bucket age distribution report.
type AgeRow struct {
	AgeGroup        string  `json:"age_group"`
	TotalCandidates int     `json:"total_candidates"`
	Unqualified     int     `json:"unqualified"`
	Hired           int     `json:"hired"`
	Qualified       int     `json:"qualified"`
	UnqualifiedRate float64 `json:"unqualified_rate"`
	HireRate        float64 `json:"hire_rate"`
}

// AgeDistribution buckets candidates with a computed age and reports
// qualification and hire rates per bucket, in bucket order. Empty buckets
// are omitted.
func (a *Analytics) AgeDistribution(filtered []model.Candidate) []AgeRow {
	master := a.master(filtered)

	byLabel := make(map[string]*AgeRow)
	for _, c := range master {
		if c.Age == nil {
			continue
		}
		label, ok := ageBucket(*c.Age)
		if !ok {
			continue
		}
		row := byLabel[label]
		if row == nil {
			row = &AgeRow{AgeGroup: label}
			byLabel[label] = row
		}
		row.TotalCandidates++
		if !c.Qualified() {
			row.Unqualified++
		}
		if c.Stages.Hired {
			row.Hired++
		}
	}

	var rows []AgeRow
	for _, label := range ageBucketLabels {
		row := byLabel[label]
		if row == nil {
			continue
		}
		row.Qualified = row.TotalCandidates - row.Unqualified
		if row.TotalCandidates > 0 {
			row.UnqualifiedRate = round1(float64(row.Unqualified) / float64(row.TotalCandidates) * 100)
			row.HireRate = round1(float64(row.Hired) / float64(row.TotalCandidates) * 100)
		}
		rows = append(rows, *row)
	}
	return rows
}

// UnqualifiedBreakdown counts unqualified applications along several
// dimensions. Counting is per application, not per candidate.
type UnqualifiedBreakdown struct {
	ByAgeGroup        map[string]int `json:"by_age_group"`
	ByCalculatedAge   map[string]int `json:"by_calculated_age"`
	ByCountry         map[string]int `json:"by_country"`
	ByNationality     map[string]int `json:"by_nationality"`
	ByArabic          map[string]int `json:"by_arabic_speaking"`
	BySource          map[string]int `json:"by_source"`
	ByReason          map[string]int `json:"by_disqualification_reason"`
	TotalUnqualified  int            `json:"total_unqualified"`
	PercentageOfTotal float64        `json:"percentage_of_total"`
}

// Unqualified breaks down applications whose status is Unqualified.
func (a *Analytics) Unqualified(filtered []model.Candidate) UnqualifiedBreakdown {
	apps := a.appsFor(a.master(filtered))

	b := UnqualifiedBreakdown{
		ByAgeGroup:      map[string]int{},
		ByCalculatedAge: map[string]int{},
		ByCountry:       map[string]int{},
		ByNationality:   map[string]int{},
		ByArabic:        map[string]int{},
		BySource:        map[string]int{},
		ByReason:        map[string]int{},
	}

	for _, app := range apps {
		if app.Status != model.StatusUnqualified {
			continue
		}
		b.TotalUnqualified++
		countNonEmpty(b.ByAgeGroup, app.AgeGroup)
		countNonEmpty(b.ByCountry, app.CountryOfResidence)
		countNonEmpty(b.ByNationality, app.Nationality)
		countNonEmpty(b.ByArabic, app.SpeakArabic)
		countNonEmpty(b.BySource, app.Source)
		countNonEmpty(b.ByReason, app.DisqualificationReason)
		if app.Age != nil {
			if label, ok := ageBucket(*app.Age); ok {
				b.ByCalculatedAge[label]++
			}
		}
	}

	if len(apps) > 0 {
		b.PercentageOfTotal = float64(b.TotalUnqualified) / float64(len(apps)) * 100
	}
	return b
}

// TimeSeries reports monthly application volume and monthly hire rate.
// The hire rate for a month is the percentage of that month's applications
// whose status is Hired.
type TimeSeries struct {
	MonthlyApplications map[string]int     `json:"monthly_applications"`
	MonthlyHiringRate   map[string]float64 `json:"monthly_hiring_rate"`
}

// Timeline groups applications by creation month. Applications without a
// creation date are skipped. qualifiedOnly drops Unqualified rows first.
func (a *Analytics) Timeline(filtered []model.Candidate, qualifiedOnly bool) TimeSeries {
	apps := a.appsFor(a.master(filtered))

	ts := TimeSeries{
		MonthlyApplications: map[string]int{},
		MonthlyHiringRate:   map[string]float64{},
	}
	hiredByMonth := map[string]int{}
	for _, app := range apps {
		if app.CreatedAt == nil {
			continue
		}
		if qualifiedOnly && app.Status == model.StatusUnqualified {
			continue
		}
		month := app.Month
		ts.MonthlyApplications[month]++
		if app.Status == model.StatusHired {
			hiredByMonth[month]++
		}
	}
	for month, total := range ts.MonthlyApplications {
		ts.MonthlyHiringRate[month] = float64(hiredByMonth[month]) / float64(total) * 100
	}
	return ts
}

// DateOptions lists the distinct date buckets present in the dataset, each
// sorted ascending, for building filter inputs.
type DateOptions struct {
	Weeks    []string `json:"weeks"`
	Months   []string `json:"months"`
	Quarters []string `json:"quarters"`
	Years    []int    `json:"years"`
}

// DateRangeOptions collects buckets from both the candidate and application
// tables, so months present only in non-representative applications still
// appear.
func (a *Analytics) DateRangeOptions() DateOptions {
	weeks := make(map[string]struct{})
	months := make(map[string]struct{})
	quarters := make(map[string]struct{})
	years := make(map[int]struct{})

	for _, c := range a.Candidates {
		addBucket(weeks, c.Week)
		addBucket(months, c.Month)
		addBucket(quarters, c.Quarter)
		if c.Year != 0 {
			years[c.Year] = struct{}{}
		}
	}
	for _, app := range a.Applications {
		addBucket(months, app.Month)
		addBucket(quarters, app.Quarter)
	}

	return DateOptions{
		Weeks:    sortedKeys(weeks),
		Months:   sortedKeys(months),
		Quarters: sortedKeys(quarters),
		Years:    sortedInts(years),
	}
}

func qualifiedOnly(candidates []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Qualified() {
			out = append(out, c)
		}
	}
	return out
}

func sourceMentioned(sources, source string) bool {
	return source != "" && strings.Contains(sources, source)
}

func countNonEmpty(m map[string]int, key string) {
	if key != "" {
		m[key]++
	}
}

func addBucket(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
