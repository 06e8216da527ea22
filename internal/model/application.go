// Package model defines the application and candidate records the pipeline
// operates on. Raw rows arrive sparse: any field may be missing, and string
// fields carry whatever the tracking system exported.
package model

import (
	"strings"
	"time"
)

// Application statuses that carry special meaning in the funnel rules.
// The export is free text, so variants are matched exactly where the rules
// require it (note the two case variants of the failed-manager status).
const (
	StatusHired               = "Hired"
	StatusInterviewing        = "Interviewing"
	StatusRejected            = "Rejected"
	StatusArchived            = "Archived"
	StatusUnqualified         = "Unqualified"
	StatusApplied             = "Applied"
	StatusFailedTestBA        = "Failed at Test Business Analyst"
	StatusFailedManagerLower  = "Failed department manager interview"
	StatusFailedManagerTitle  = "Failed Department Manager Interview"
	StatusNeverBooked         = "Never Booked an Interview"
	StatusNeverDidTest        = "Never did the Test"
	StatusMirasCall           = "Mira's Call for Interview Booking"
	StatusOfferSent           = "Offer Sent"
	StatusOfferAccepted       = "Offer Accepted"
	StatusOfferWithdrawn      = "Offer Withdrawn"
	InterviewRejected         = "Rejected"
	InterviewRejectedNoEmail  = "Reject Without Email"
	InterviewFailedTestBA     = "Failed at Test Business Analyst"
)

// statusPriority ranks application statuses for representative selection
// within a candidate group. Unknown statuses rank below everything.
var statusPriority = map[string]int{
	StatusHired:              5,
	StatusInterviewing:       4,
	StatusRejected:           3,
	StatusFailedTestBA:       3,
	StatusFailedManagerLower: 3,
	StatusFailedManagerTitle: 3,
	StatusArchived:           2,
	StatusNeverBooked:        2,
	StatusUnqualified:        1,
	StatusApplied:            1,
}

// StatusPriority returns the selection rank for an application status.
func StatusPriority(status string) int {
	return statusPriority[strings.TrimSpace(status)]
}

// Application is one raw row of the recruitment export. Pointer fields are
// nil when the source cell was empty or unparsable.
type Application struct {
	Name               string     `json:"name"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Nationality        string     `json:"nationality"`
	CountryOfResidence string     `json:"country_of_residence"`
	AgeGroup           string     `json:"age_group"`
	SpeakArabic        string     `json:"speak_arabic"`

	Status          string `json:"status"`
	InterviewStatus string `json:"interview_status"`

	JobTitle string `json:"job_title"`
	Source   string `json:"source"`

	TestGorillaScore *float64 `json:"test_gorilla_score,omitempty"`
	MaidsccScore     *float64 `json:"maidscc_score,omitempty"`
	IQRating         string   `json:"iq_rating"`

	InterviewFeedbackBy   string `json:"interview_feedback_by"`
	Interviewers          string `json:"interviewers"`
	InterviewFeedback     string `json:"interview_feedback"`
	InterviewFeedbackType string `json:"interview_feedback_type"`

	CreatedAt          *time.Time `json:"created_at,omitempty"`
	ModifiedAt         *time.Time `json:"modified_at,omitempty"`
	InterviewCreatedAt *time.Time `json:"interview_created_at,omitempty"`
	OfferSentAt        *time.Time `json:"offer_sent_at,omitempty"`
	OfferAcceptedAt    *time.Time `json:"offer_accepted_at,omitempty"`
	HiredAt            *time.Time `json:"hired_at,omitempty"`
	TestGorillaDoneAt  *time.Time `json:"test_gorilla_done_at,omitempty"`
	SparkhireDoneAt    *time.Time `json:"sparkhire_done_at,omitempty"`
}

// HasTestScore reports whether either test provider recorded a score.
func (a *Application) HasTestScore() bool {
	return a.TestGorillaScore != nil || a.MaidsccScore != nil
}

// HiringSignal reports whether the application itself shows the person was
// hired: an explicit Hired status, any offer timestamp, or an Offer-* status.
func (a *Application) HiringSignal() bool {
	switch strings.TrimSpace(a.Status) {
	case StatusHired, StatusOfferSent, StatusOfferAccepted, StatusOfferWithdrawn:
		return true
	}
	return a.OfferSentAt != nil || a.OfferAcceptedAt != nil || a.HiredAt != nil
}

// CompletenessScore counts how many of the fields that matter for
// representative selection are populated. Used as the tie-break after
// status priority.
func (a *Application) CompletenessScore() int {
	n := 0
	for _, s := range []string{
		a.Name, a.Nationality, a.CountryOfResidence, a.AgeGroup, a.SpeakArabic,
		a.Status, a.JobTitle, a.Source, a.IQRating, a.InterviewFeedbackBy,
		a.InterviewStatus, a.InterviewFeedback, a.Interviewers,
	} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	for _, t := range []*time.Time{
		a.DateOfBirth, a.InterviewCreatedAt, a.OfferSentAt,
		a.TestGorillaDoneAt, a.SparkhireDoneAt,
	} {
		if t != nil {
			n++
		}
	}
	for _, f := range []*float64{a.TestGorillaScore, a.MaidsccScore} {
		if f != nil {
			n++
		}
	}
	return n
}
