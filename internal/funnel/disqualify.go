package funnel

import (
	"strings"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// Disqualification reason codes. ReasonNotUnqualified is the sentinel for
// rows the classifier does not judge.
const (
	ReasonNotUnqualified       = "Not Unqualified"
	ReasonRejectionTestFailure = "Unqualified with Rejection/Test Failure"
	ReasonAgeTooOld            = "Age >= 27"
	ReasonAgeTooYoung          = "Age < 18"
	ReasonAgeMissing           = "Age Missing or Invalid"
	ReasonResidence            = "Country of Residence not Lebanon"
	ReasonNoArabic             = "Does not speak Arabic"
	ReasonNationality          = "Nationality not Lebanon"
	ReasonUnknown              = "Unqualified - Unknown Reason"
)

// disqualifyRule is one entry of the ordered rule table: the first rule
// whose predicate fires decides the reason.
type disqualifyRule struct {
	reason string
	match  func(in disqualifyInput) bool
}

type disqualifyInput struct {
	status          string
	interviewStatus string
	age             *int
	residence       string
	nationality     string
	speakArabic     string
}

// disqualifyRules are evaluated top-down. Order is load-bearing: the
// rejection/test-failure combination outranks everything, and the
// "not Unqualified" sentinel guards all later rules.
var disqualifyRules = []disqualifyRule{
	{ReasonRejectionTestFailure, func(in disqualifyInput) bool {
		if in.status != model.StatusUnqualified {
			return false
		}
		switch in.interviewStatus {
		case model.InterviewRejected, model.InterviewRejectedNoEmail, model.InterviewFailedTestBA:
			return true
		}
		return false
	}},
	{ReasonNotUnqualified, func(in disqualifyInput) bool {
		return in.status != model.StatusUnqualified
	}},
	{ReasonAgeTooOld, func(in disqualifyInput) bool {
		return in.age != nil && *in.age >= 27
	}},
	{ReasonAgeTooYoung, func(in disqualifyInput) bool {
		return in.age != nil && *in.age < 18
	}},
	// An age of exactly 0 is treated the same as a missing birth date.
	{ReasonAgeMissing, func(in disqualifyInput) bool {
		return in.age == nil || *in.age == 0
	}},
	{ReasonResidence, func(in disqualifyInput) bool {
		return in.residence != "lebanon"
	}},
	{ReasonNoArabic, func(in disqualifyInput) bool {
		switch in.speakArabic {
		case "yes", "true", "1":
			return false
		}
		return true
	}},
	{ReasonNationality, func(in disqualifyInput) bool {
		return in.nationality != "lebanon" && in.nationality != "lebanese"
	}},
	{ReasonUnknown, func(in disqualifyInput) bool { return true }},
}

// DisqualificationReason classifies one application. Pure: malformed or
// missing fields degrade to the most specific applicable reason, never an
// error. age must already be computed against the pinned reference date.
func DisqualificationReason(app *model.Application, age *int) string {
	in := disqualifyInput{
		status:          strings.TrimSpace(app.Status),
		interviewStatus: strings.TrimSpace(app.InterviewStatus),
		age:             age,
		residence:       strings.ToLower(strings.TrimSpace(app.CountryOfResidence)),
		nationality:     strings.ToLower(strings.TrimSpace(app.Nationality)),
		speakArabic:     strings.ToLower(strings.TrimSpace(app.SpeakArabic)),
	}
	for _, rule := range disqualifyRules {
		if rule.match(in) {
			return rule.reason
		}
	}
	return ReasonUnknown
}
