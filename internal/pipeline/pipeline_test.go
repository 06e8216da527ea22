package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruiting-ops/funnel-cli/internal/config"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

func TestFromConfig_ReferenceDate(t *testing.T) {
	p, err := FromConfig(config.AnalyticsConfig{ReferenceDate: "2024-06-15"})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestFromConfig_BadReferenceDate(t *testing.T) {
	_, err := FromConfig(config.AnalyticsConfig{ReferenceDate: "15/06/2024"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	p := New(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)
	dob := time.Date(2002, 1, 10, 0, 0, 0, 0, time.UTC)

	base := model.Application{
		Name:               "Jane Doe",
		DateOfBirth:        &dob,
		Nationality:        "Lebanon",
		CountryOfResidence: "Lebanon",
		SpeakArabic:        "Yes",
		Status:             model.StatusApplied,
	}
	second := base
	second.Status = model.StatusHired

	res := p.Run([]model.Application{base, second})
	assert.Equal(t, 2, res.Metrics.TotalApplications)
	assert.Equal(t, 1, res.Metrics.UniqueCandidates)
	require.Len(t, res.Candidates, 1)
	assert.True(t, res.Candidates[0].IsHired)
}

func TestAnalyze(t *testing.T) {
	p := New(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)

	a := p.Analyze([]model.Application{
		{Name: "Jane Doe", Status: model.StatusApplied},
	})
	require.NotNil(t, a)
	s := a.Summary(nil)
	assert.Equal(t, 1, s.TotalApplications)
	assert.Equal(t, 1, s.UniqueCandidates)
}

func TestRun_CustomGatekeepers(t *testing.T) {
	p := New(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), []string{"Dana Khoury"})
	gorilla := 85.0

	res := p.Run([]model.Application{{
		Name:                "Jane Doe",
		Status:              model.StatusRejected,
		InterviewStatus:     model.InterviewRejected,
		InterviewFeedbackBy: "Dana Khoury",
		TestGorillaScore:    &gorilla,
	}})
	require.Len(t, res.Candidates, 1)
	assert.True(t, res.Candidates[0].RejectedByGatekeepers)
}
