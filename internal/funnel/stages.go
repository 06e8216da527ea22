package funnel

import (
	"strings"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// stageInput collects the normalized fields the stage rules inspect, so each
// rule reads like the business statement it encodes.
type stageInput struct {
	status          string
	interviewStatus string
	feedbackBy      string
	interviewers    string

	testGorilla *float64
	maidscc     *float64

	hasFeedbackType bool
	offerSent       bool
}

func newStageInput(app *model.Application) stageInput {
	return stageInput{
		status:          strings.TrimSpace(app.Status),
		interviewStatus: strings.TrimSpace(app.InterviewStatus),
		feedbackBy:      strings.TrimSpace(app.InterviewFeedbackBy),
		interviewers:    strings.TrimSpace(app.Interviewers),
		testGorilla:     app.TestGorillaScore,
		maidscc:         app.MaidsccScore,
		hasFeedbackType: strings.TrimSpace(app.InterviewFeedbackType) != "",
		offerSent:       app.OfferSentAt != nil,
	}
}

func (in stageInput) hasAnyScore() bool {
	return in.testGorilla != nil || in.maidscc != nil
}

func (in stageInput) failedManagerInterview() bool {
	return in.status == model.StatusFailedManagerLower || in.status == model.StatusFailedManagerTitle
}

// gorillaBelow reports a Test Gorilla score absent or below the threshold.
// Missing scores satisfy "absent or below" by rule.
func (in stageInput) gorillaBelow(threshold float64) bool {
	return in.testGorilla == nil || *in.testGorilla < threshold
}

func (in stageInput) gorillaAtLeast(threshold float64) bool {
	return in.testGorilla != nil && *in.testGorilla >= threshold
}

// stageRule is one named predicate of an ordered rule table. Naming every
// carve-out keeps the evaluation order inspectable and each rule
// independently testable.
type stageRule struct {
	name  string
	match func(in stageInput, m *Matcher) bool
}

func anyRule(rules []stageRule, in stageInput, m *Matcher) bool {
	for _, r := range rules {
		if r.match(in, m) {
			return true
		}
	}
	return false
}

// Statuses that imply the candidate at least received the test invitation,
// even when no score was recorded.
var testRelatedStatuses = map[string]struct{}{
	model.StatusFailedTestBA:       {},
	model.StatusRejected:           {},
	model.StatusInterviewing:       {},
	model.StatusFailedManagerLower: {},
	model.StatusFailedManagerTitle: {},
	model.StatusNeverBooked:        {},
	model.StatusMirasCall:          {},
}

// rejectedBare: a rejection with no score, no interviewer, and no feedback
// type. Treated as a test-phase rejection since no interview evidence exists.
func rejectedBare(in stageInput) bool {
	return in.status == model.StatusRejected &&
		!in.hasAnyScore() &&
		in.interviewers == "" &&
		!in.hasFeedbackType
}

// neverDidTestWithRejection: "Never did the Test" closed out by a rejection.
func neverDidTestWithRejection(in stageInput) bool {
	if in.status != model.StatusNeverDidTest {
		return false
	}
	return in.interviewStatus == model.InterviewRejected ||
		in.interviewStatus == model.InterviewRejectedNoEmail
}

// unqualifiedWithRejection: the Unqualified + rejection/test-failure combo
// shared with the disqualification classifier.
func unqualifiedWithRejection(in stageInput) bool {
	if in.status != model.StatusUnqualified {
		return false
	}
	switch in.interviewStatus {
	case model.InterviewRejected, model.InterviewRejectedNoEmail, model.InterviewFailedTestBA:
		return true
	}
	return false
}

// rejectedByGatekeeper: the interview-status rejection is attributed to a
// gatekeeper, by feedback author or by mention in the interviewer list, or a
// failed-manager status carries gatekeeper feedback. Gatekeeper rejections
// are test-phase outcomes, so they count as having done the test.
func rejectedByGatekeeper(in stageInput, m *Matcher) bool {
	if in.interviewStatus == model.InterviewRejected && m.IsGatekeeper(in.feedbackBy) {
		return true
	}
	if in.interviewStatus == model.InterviewRejected && m.MentionedIn(in.interviewers) {
		return true
	}
	return in.failedManagerInterview() && m.IsGatekeeper(in.feedbackBy)
}

// failedTestRules list every way an application that did the test still
// failed it. Evaluated as "any match fails the stage".
var failedTestRules = []stageRule{
	{"failed test status", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusFailedTestBA
	}},
	{"unqualified status", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusUnqualified
	}},
	{"still applied", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusApplied
	}},
	{"never did test", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusNeverDidTest
	}},
	// A gatekeeper rejection only fails the test when the Gorilla score is
	// absent or below 80; at 80+ the rejection moves to the interview phase.
	{"gatekeeper rejection below 80 (author)", func(in stageInput, m *Matcher) bool {
		return in.interviewStatus == model.InterviewRejected &&
			m.IsGatekeeper(in.feedbackBy) && in.gorillaBelow(80)
	}},
	{"gatekeeper rejection below 80 (interviewer list)", func(in stageInput, m *Matcher) bool {
		return in.interviewStatus == model.InterviewRejected &&
			m.MentionedIn(in.interviewers) && in.gorillaBelow(80)
	}},
	{"gatekeeper failed-manager status", func(in stageInput, m *Matcher) bool {
		return m.IsGatekeeper(in.feedbackBy) && in.failedManagerInterview()
	}},
	{"booking call without any score", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusMirasCall && !in.hasAnyScore()
	}},
	{"rejected with score but no interviewer", func(in stageInput, _ *Matcher) bool {
		return in.status == model.StatusRejected && in.hasAnyScore() &&
			in.feedbackBy == "" && in.interviewers == ""
	}},
	{"gatekeeper gorilla 60-80 rejection", func(in stageInput, m *Matcher) bool {
		return in.status == model.StatusRejected &&
			in.testGorilla != nil && *in.testGorilla >= 60 && *in.testGorilla < 80 &&
			m.InvolvedIn(in.feedbackBy, in.interviewers)
	}},
}

// failedInterviewRules list every way a booked interview still failed.
var failedInterviewRules = []stageRule{
	{"rejected by real interviewer", func(in stageInput, m *Matcher) bool {
		return in.interviewStatus == model.InterviewRejected &&
			m.HasOtherInterviewer(in.feedbackBy, in.interviewers)
	}},
	{"failed manager interview", func(in stageInput, m *Matcher) bool {
		return in.failedManagerInterview() &&
			m.HasOtherInterviewer(in.feedbackBy, in.interviewers)
	}},
	{"rejected status with real interviewer", func(in stageInput, m *Matcher) bool {
		return in.status == model.StatusRejected &&
			m.HasOtherInterviewer(in.feedbackBy, in.interviewers)
	}},
	// The 80+ Gorilla score rejected by the primary gatekeeper reaches the
	// booked-interview stage but always fails it.
	{"high score rejected by primary gatekeeper", func(in stageInput, m *Matcher) bool {
		return highScoreRejectedByPrimary(in, m)
	}},
	{"rejected with score and real interviewer", func(in stageInput, m *Matcher) bool {
		return in.status == model.StatusRejected && in.hasAnyScore() &&
			m.HasOtherInterviewer(in.feedbackBy, in.interviewers)
	}},
}

func highScoreRejectedByPrimary(in stageInput, m *Matcher) bool {
	return in.status == model.StatusRejected &&
		in.gorillaAtLeast(80) &&
		in.feedbackBy == m.Primary()
}

// Classify computes the seven funnel stage booleans for one application.
// Each stage requires the previous stage; two short-circuits bypass the
// chain: hired applications get every stage, immediately-unqualified ones
// get Applied only. Pure function, never errors.
func Classify(app *model.Application, m *Matcher) model.FunnelStages {
	in := newStageInput(app)

	// Hired short-circuit.
	if in.status == model.StatusHired || in.offerSent {
		return model.AllStages()
	}

	// Immediate-unqualified short-circuit.
	if in.status == model.StatusUnqualified {
		return model.AppliedOnly()
	}

	stages := model.FunnelStages{Applied: true}

	// Received Test: a score, a test-related terminal status, a never-did-
	// the-test record (rejected or not), or a bare rejection with no
	// interview evidence.
	_, testRelated := testRelatedStatuses[in.status]
	stages.ReceivedTest = in.hasAnyScore() ||
		testRelated ||
		in.status == model.StatusNeverDidTest ||
		neverDidTestWithRejection(in) ||
		rejectedBare(in)

	// Did Test: a gatekeeper rejection proves the test happened; otherwise
	// every known "never reached the test" pattern must be absent. A
	// never-booked application counts only when a gatekeeper was involved.
	neverBookedUnescalated := in.status == model.StatusNeverBooked &&
		!m.InvolvedIn(in.feedbackBy, in.interviewers)
	stages.DidTest = stages.ReceivedTest &&
		(rejectedByGatekeeper(in, m) ||
			(in.status != model.StatusNeverDidTest &&
				!neverBookedUnescalated &&
				!neverDidTestWithRejection(in) &&
				!unqualifiedWithRejection(in) &&
				!rejectedBare(in)))

	stages.PassedTest = stages.DidTest && !anyRule(failedTestRules, in, m)

	// Booked Interview: someone beyond the gatekeepers was involved, or the
	// high-score rejection carve-out applies.
	stages.BookedInterview = stages.PassedTest &&
		(m.HasOtherInterviewer(in.feedbackBy, in.interviewers) ||
			highScoreRejectedByPrimary(in, m))

	stages.PassedInterview = stages.BookedInterview && !anyRule(failedInterviewRules, in, m)

	// Hired is only reachable through the short-circuit.
	stages.Hired = false

	return stages
}
