package funnel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

var refDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestEnrich_OfferOverridesStatus(t *testing.T) {
	sent := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e := NewEnricher(refDate, nil)

	got := e.EnrichAll([]model.Application{{
		Status:      model.StatusApplied,
		OfferSentAt: &sent,
	}})
	require.Len(t, got, 1)

	assert.Equal(t, model.StatusHired, got[0].Status)
	assert.Equal(t, model.AllStages(), got[0].Stages)
	assert.Equal(t, 5, got[0].StatusPriority)
}

func TestEnrich_AgeAndIdentity(t *testing.T) {
	dob := time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC)
	e := NewEnricher(refDate, nil)

	got := e.EnrichAll([]model.Application{{
		Name:               "Jane Doe",
		DateOfBirth:        &dob,
		Nationality:        "Lebanon",
		CountryOfResidence: "Lebanon",
		SpeakArabic:        "Yes",
		Status:             model.StatusApplied,
	}})
	require.Len(t, got, 1)

	require.NotNil(t, got[0].Age)
	assert.Equal(t, 24, *got[0].Age)
	assert.Len(t, got[0].IdentityKey, 32)
	assert.Equal(t, ReasonNotUnqualified, got[0].DisqualificationReason)
}

func TestEnrich_DateBuckets(t *testing.T) {
	// 2024-03-13 is a Wednesday; its week starts Monday 2024-03-11.
	created := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	e := NewEnricher(refDate, nil)

	got := e.EnrichAll([]model.Application{{Status: model.StatusApplied, CreatedAt: &created}})
	require.Len(t, got, 1)

	assert.Equal(t, "2024-03", got[0].Month)
	assert.Equal(t, "2024Q1", got[0].Quarter)
	assert.Equal(t, 2024, got[0].Year)
	assert.Equal(t, "2024-03-11", got[0].Week)
}

func TestEnrich_NoCreatedAtLeavesBucketsEmpty(t *testing.T) {
	e := NewEnricher(refDate, nil)
	got := e.EnrichAll([]model.Application{{Status: model.StatusApplied}})
	require.Len(t, got, 1)

	assert.Empty(t, got[0].Month)
	assert.Zero(t, got[0].Year)
}

func TestEnrich_InterviewScheduledNoFeedback(t *testing.T) {
	scheduled := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	e := NewEnricher(refDate, nil)

	got := e.EnrichAll([]model.Application{
		{Status: model.StatusInterviewing, InterviewCreatedAt: &scheduled},
		{Status: model.StatusInterviewing, InterviewCreatedAt: &scheduled, InterviewFeedback: "strong"},
		{Status: model.StatusInterviewing},
	})
	require.Len(t, got, 3)

	assert.True(t, got[0].InterviewScheduledNoFeedback)
	assert.False(t, got[1].InterviewScheduledNoFeedback)
	assert.False(t, got[2].InterviewScheduledNoFeedback)
}

func TestEnrich_PreservesInputOrder(t *testing.T) {
	e := NewEnricher(refDate, nil)
	got := e.EnrichAll([]model.Application{
		{Name: "A", Status: model.StatusApplied},
		{Name: "B", Status: model.StatusApplied},
	})
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 1, got[1].Index)
}
