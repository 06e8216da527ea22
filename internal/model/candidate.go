package model

import "time"

// Candidate is one resolved person, merged from all applications sharing an
// identity key. Descriptive fields come from the chosen representative
// application; scalar merges (best score, date range, concatenated lists)
// always cover the whole group.
type Candidate struct {
	IdentityKey string `json:"identity_key"`

	Name               string `json:"name"`
	DateOfBirth        string `json:"date_of_birth"`
	Age                *int   `json:"age,omitempty"`
	Nationality        string `json:"nationality"`
	CountryOfResidence string `json:"country_of_residence"`
	AgeGroup           string `json:"age_group"`
	SpeakArabic        string `json:"speak_arabic"`

	DisqualificationReason string `json:"disqualification_reason"`
	NumApplications        int    `json:"num_applications"`
	PrimaryStatus          string `json:"primary_status"`
	AllStatuses            string `json:"all_statuses"`
	AllJobTitles           string `json:"all_job_titles"`

	// Source is the earliest application's source; Sources concatenates
	// every distinct source seen across the group.
	Source  string `json:"source"`
	Sources string `json:"sources"`

	FirstApplication *time.Time `json:"first_application,omitempty"`
	LastApplication  *time.Time `json:"last_application,omitempty"`
	Month            string     `json:"month"`
	Quarter          string     `json:"quarter"`
	Year             int        `json:"year,omitempty"`
	Week             string     `json:"week"`

	// BestScore is the max across both test providers over the group;
	// BestMaidsccScore is kept separately for provider-level reporting.
	BestScore        float64 `json:"best_score"`
	BestMaidsccScore float64 `json:"best_maidscc_score"`
	IQRating         string  `json:"iq_rating"`

	HasInterview           bool `json:"has_interview"`
	HasFeedback            bool `json:"has_feedback"`
	HasOffer               bool `json:"has_offer"`
	IsHired                bool `json:"is_hired"`
	HasConflictingStatuses bool `json:"has_conflicting_statuses"`
	RejectedByGatekeepers  bool `json:"rejected_by_gatekeepers"`
	HasAnyTestScore        bool `json:"has_any_test_score"`
	CompletenessScore      int  `json:"completeness_score"`

	Stages FunnelStages `json:"stages"`
}

// Qualified reports whether the candidate survived the unqualified override.
func (c *Candidate) Qualified() bool {
	return c.PrimaryStatus != StatusUnqualified
}
