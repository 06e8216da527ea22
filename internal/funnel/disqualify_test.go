package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

func age(n int) *int { return &n }

// qualifiedProfile returns an application that passes every demographic rule.
func qualifiedProfile(status string) model.Application {
	return model.Application{
		Status:             status,
		Nationality:        "Lebanon",
		CountryOfResidence: "Lebanon",
		SpeakArabic:        "Yes",
	}
}

func TestDisqualificationReason_NotUnqualified(t *testing.T) {
	app := qualifiedProfile(model.StatusHired)
	assert.Equal(t, ReasonNotUnqualified, DisqualificationReason(&app, age(25)))
}

func TestDisqualificationReason_RejectionComboOutranksStatusGuard(t *testing.T) {
	// The rejection/test-failure combination fires even before the
	// "not Unqualified" sentinel is consulted.
	app := qualifiedProfile(model.StatusUnqualified)
	app.InterviewStatus = model.InterviewRejected
	assert.Equal(t, ReasonRejectionTestFailure, DisqualificationReason(&app, age(25)))

	app.InterviewStatus = model.InterviewRejectedNoEmail
	assert.Equal(t, ReasonRejectionTestFailure, DisqualificationReason(&app, age(25)))

	app.InterviewStatus = model.InterviewFailedTestBA
	assert.Equal(t, ReasonRejectionTestFailure, DisqualificationReason(&app, age(25)))
}

func TestDisqualificationReason_AgeRules(t *testing.T) {
	app := qualifiedProfile(model.StatusUnqualified)

	assert.Equal(t, ReasonAgeTooOld, DisqualificationReason(&app, age(27)))
	assert.Equal(t, ReasonAgeTooOld, DisqualificationReason(&app, age(40)))
	assert.Equal(t, ReasonAgeTooYoung, DisqualificationReason(&app, age(17)))
	assert.Equal(t, ReasonAgeMissing, DisqualificationReason(&app, nil))

	// Age zero hits the under-18 rule first; it never reaches the
	// missing-age rule.
	assert.Equal(t, ReasonAgeTooYoung, DisqualificationReason(&app, age(0)))
}

func TestDisqualificationReason_DemographicRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Application)
		want   string
	}{
		{"residence outside lebanon", func(a *model.Application) {
			a.CountryOfResidence = "France"
		}, ReasonResidence},
		{"residence case-insensitive", func(a *model.Application) {
			a.CountryOfResidence = "LEBANON "
		}, ReasonUnknown},
		{"no arabic", func(a *model.Application) {
			a.SpeakArabic = "No"
		}, ReasonNoArabic},
		{"arabic empty counts as no", func(a *model.Application) {
			a.SpeakArabic = ""
		}, ReasonNoArabic},
		{"nationality not lebanese", func(a *model.Application) {
			a.Nationality = "Jordan"
		}, ReasonNationality},
		{"nationality lebanese variant accepted", func(a *model.Application) {
			a.Nationality = "Lebanese"
		}, ReasonUnknown},
		{"everything fine falls through to unknown", func(a *model.Application) {}, ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := qualifiedProfile(model.StatusUnqualified)
			tt.mutate(&app)
			assert.Equal(t, tt.want, DisqualificationReason(&app, age(22)))
		})
	}
}

func TestDisqualificationReason_RuleOrder(t *testing.T) {
	// Age outranks residence, residence outranks language, language
	// outranks nationality.
	app := qualifiedProfile(model.StatusUnqualified)
	app.CountryOfResidence = "France"
	app.SpeakArabic = "No"
	app.Nationality = "Jordan"

	assert.Equal(t, ReasonAgeTooOld, DisqualificationReason(&app, age(30)))

	assert.Equal(t, ReasonResidence, DisqualificationReason(&app, age(22)))

	app.CountryOfResidence = "Lebanon"
	assert.Equal(t, ReasonNoArabic, DisqualificationReason(&app, age(22)))

	app.SpeakArabic = "Yes"
	assert.Equal(t, ReasonNationality, DisqualificationReason(&app, age(22)))
}
