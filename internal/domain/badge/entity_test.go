package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	streakBadge := Badge{Requirement: RequirementStreak, RequiredAmount: 7}
	levelBadge := Badge{Requirement: RequirementLevel, RequiredAmount: 20}
	answersBadge := Badge{Requirement: RequirementAnswersGiven, RequiredAmount: 10}

	assert.InDelta(t, 3.0/7.0, streakBadge.Progress(3, 1), 1e-9)
	assert.Equal(t, 1.0, streakBadge.Progress(7, 1))
	assert.Equal(t, 1.0, streakBadge.Progress(12, 1), "progress caps at 1")

	assert.InDelta(t, 0.5, levelBadge.Progress(0, 10), 1e-9)

	// Non-live requirement kinds display as 0.
	assert.Equal(t, 0.0, answersBadge.Progress(5, 5))
}

func TestProgress_DegenerateThreshold(t *testing.T) {
	b := Badge{Requirement: RequirementStreak, RequiredAmount: 0}
	assert.Equal(t, 0.0, b.Progress(3, 1))
}
