package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusPriority(t *testing.T) {
	assert.Equal(t, 5, StatusPriority(StatusHired))
	assert.Equal(t, 4, StatusPriority(StatusInterviewing))
	assert.Equal(t, 3, StatusPriority(StatusRejected))
	assert.Equal(t, 1, StatusPriority(StatusApplied))
	assert.Equal(t, 5, StatusPriority("  Hired  "))
	assert.Zero(t, StatusPriority("Some New Status"))
}

func TestHiringSignal(t *testing.T) {
	now := time.Now()

	assert.True(t, (&Application{Status: StatusHired}).HiringSignal())
	assert.True(t, (&Application{Status: StatusOfferSent}).HiringSignal())
	assert.True(t, (&Application{Status: StatusOfferWithdrawn}).HiringSignal())
	assert.True(t, (&Application{Status: StatusApplied, OfferSentAt: &now}).HiringSignal())
	assert.True(t, (&Application{Status: StatusRejected, HiredAt: &now}).HiringSignal())
	assert.False(t, (&Application{Status: StatusApplied}).HiringSignal())
	assert.False(t, (&Application{Status: StatusRejected}).HiringSignal())
}

func TestCompletenessScore(t *testing.T) {
	empty := &Application{}
	assert.Zero(t, empty.CompletenessScore())

	score := 85.0
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	fuller := &Application{
		Name:             "Jane Doe",
		Status:           StatusApplied,
		Source:           "LinkedIn",
		DateOfBirth:      &dob,
		TestGorillaScore: &score,
	}
	sparser := &Application{Name: "Jane Doe", Status: StatusApplied}

	assert.Greater(t, fuller.CompletenessScore(), sparser.CompletenessScore())
	assert.Equal(t, 5, fuller.CompletenessScore())
}

func TestHasTestScore(t *testing.T) {
	score := 60.0
	assert.False(t, (&Application{}).HasTestScore())
	assert.True(t, (&Application{TestGorillaScore: &score}).HasTestScore())
	assert.True(t, (&Application{MaidsccScore: &score}).HasTestScore())
}
