package model

// Stage is one of the seven ordered recruitment funnel milestones.
type Stage string

const (
	StageApplied         Stage = "Applied"
	StageReceivedTest    Stage = "Received Test"
	StageDidTest         Stage = "Did Test"
	StagePassedTest      Stage = "Passed Test"
	StageBookedInterview Stage = "Booked Interview"
	StagePassedInterview Stage = "Passed Interview"
	StageHired           Stage = "Hired"
)

// Stages lists the funnel milestones in pipeline order.
var Stages = []Stage{
	StageApplied,
	StageReceivedTest,
	StageDidTest,
	StagePassedTest,
	StageBookedInterview,
	StagePassedInterview,
	StageHired,
}

// FunnelStages records which milestones one application (or one resolved
// candidate) reached.
type FunnelStages struct {
	Applied         bool `json:"applied"`
	ReceivedTest    bool `json:"received_test"`
	DidTest         bool `json:"did_test"`
	PassedTest      bool `json:"passed_test"`
	BookedInterview bool `json:"booked_interview"`
	PassedInterview bool `json:"passed_interview"`
	Hired           bool `json:"hired"`
}

// AllStages is the fully-hired funnel: every milestone reached.
func AllStages() FunnelStages {
	return FunnelStages{
		Applied: true, ReceivedTest: true, DidTest: true, PassedTest: true,
		BookedInterview: true, PassedInterview: true, Hired: true,
	}
}

// AppliedOnly is the funnel of a candidate who never progressed past applying.
func AppliedOnly() FunnelStages {
	return FunnelStages{Applied: true}
}

// Reached reports whether the given stage was reached.
func (f FunnelStages) Reached(s Stage) bool {
	switch s {
	case StageApplied:
		return f.Applied
	case StageReceivedTest:
		return f.ReceivedTest
	case StageDidTest:
		return f.DidTest
	case StagePassedTest:
		return f.PassedTest
	case StageBookedInterview:
		return f.BookedInterview
	case StagePassedInterview:
		return f.PassedInterview
	case StageHired:
		return f.Hired
	}
	return false
}

// Merge ORs another application's stage results into this one. Stage order is
// not re-enforced here: each application's result is already
// monotone, and the merged view reflects the union of what any application
// reached.
func (f FunnelStages) Merge(other FunnelStages) FunnelStages {
	return FunnelStages{
		Applied:         f.Applied || other.Applied,
		ReceivedTest:    f.ReceivedTest || other.ReceivedTest,
		DidTest:         f.DidTest || other.DidTest,
		PassedTest:      f.PassedTest || other.PassedTest,
		BookedInterview: f.BookedInterview || other.BookedInterview,
		PassedInterview: f.PassedInterview || other.PassedInterview,
		Hired:           f.Hired || other.Hired,
	}
}
