package model

import (
	"fmt"
	"time"
)

// EnrichedApplication is an Application plus every derived column the
// pipeline attaches: age, identity key, disqualification reason, funnel
// stage booleans, duplicate/reapplication flags, and date buckets.
// Enrichment produces a new record; nothing downstream mutates it.
type EnrichedApplication struct {
	Application

	// Index is the row's position in the original upload, used as the
	// application id and as the tie-break for "first application".
	Index int `json:"index"`

	Age                    *int         `json:"age,omitempty"`
	IdentityKey            string       `json:"identity_key"`
	DisqualificationReason string       `json:"disqualification_reason"`
	Stages                 FunnelStages `json:"stages"`
	StatusPriority         int          `json:"status_priority"`

	Month   string `json:"month"`
	Quarter string `json:"quarter"`
	Year    int    `json:"year,omitempty"`
	Week    string `json:"week"`

	IsDuplicate                  bool `json:"is_duplicate"`
	SameMonthReapplication       bool `json:"same_month_reapplication"`
	ReapplicationAfterYear       bool `json:"reapplication_after_year"`
	InterviewScheduledNoFeedback bool `json:"interview_scheduled_no_feedback"`
}

// MonthBucket formats a timestamp as a YYYY-MM month key.
func MonthBucket(t time.Time) string {
	return t.Format("2006-01")
}

// QuarterBucket formats a timestamp as a YYYYQn quarter key.
func QuarterBucket(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// WeekBucket returns the Monday of the timestamp's week as YYYY-MM-DD.
func WeekBucket(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}
