package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFunnelStages_Merge(t *testing.T) {
	a := FunnelStages{Applied: true, ReceivedTest: true}
	b := FunnelStages{Applied: true, DidTest: true, PassedTest: true}

	merged := a.Merge(b)
	assert.True(t, merged.Applied)
	assert.True(t, merged.ReceivedTest)
	assert.True(t, merged.DidTest)
	assert.True(t, merged.PassedTest)
	assert.False(t, merged.BookedInterview)
	assert.False(t, merged.Hired)

	// Merge is symmetric.
	assert.Equal(t, merged, b.Merge(a))
}

func TestFunnelStages_Reached(t *testing.T) {
	all := AllStages()
	for _, s := range Stages {
		assert.True(t, all.Reached(s), string(s))
	}

	applied := AppliedOnly()
	assert.True(t, applied.Reached(StageApplied))
	assert.False(t, applied.Reached(StageReceivedTest))
	assert.False(t, applied.Reached(StageHired))

	assert.False(t, all.Reached(Stage("Bogus")))
}

func TestDateBuckets(t *testing.T) {
	// 2024-03-13 is a Wednesday.
	wed := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03", MonthBucket(wed))
	assert.Equal(t, "2024Q1", QuarterBucket(wed))
	assert.Equal(t, "2024-03-11", WeekBucket(wed))

	// A Monday is its own week start; Sunday belongs to the prior Monday.
	mon := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", WeekBucket(mon))
	assert.Equal(t, "2024-03-11", WeekBucket(sun))

	assert.Equal(t, "2024Q4", QuarterBucket(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)))
}
