// internal/generator/fallback_test.go
package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/workout"
)

func fallbackRequest(muscles ...string) *workout.Request {
	return &workout.Request{
		TargetMuscles: muscles,
		FitnessLevel:  workout.LevelBeginner,
		Duration:      30,
		Equipment:     []string{"bodyweight"},
		Goals:         []string{"fitness"},
	}
}

func TestSynthesizeNeverEmpty(t *testing.T) {
	s := NewSynthesizer(3)

	plan := s.Synthesize(fallbackRequest("chest"), apperrors.CodeMalformedJSON)
	require.NotNil(t, plan)
	assert.NotEmpty(t, plan.Exercises)
	assert.NotEmpty(t, plan.ID)
	assert.True(t, plan.Fallback)
}

func TestSynthesizeDescriptionCarriesDegradedMarker(t *testing.T) {
	s := NewSynthesizer(3)

	plan := s.Synthesize(fallbackRequest("abs"), apperrors.CodeEmptyResponse)
	assert.Contains(t, plan.Description, DegradedMarker)
	assert.Contains(t, plan.Description, string(apperrors.CodeEmptyResponse))
}

func TestSynthesizeExerciseCounts(t *testing.T) {
	s := NewSynthesizer(3)

	plan := s.Synthesize(fallbackRequest("chest"), apperrors.CodeMalformedJSON)
	assert.Len(t, plan.Exercises, 3)

	plan = s.Synthesize(fallbackRequest("fullbody"), apperrors.CodeMalformedJSON)
	assert.Len(t, plan.Exercises, 2)

	plan = s.Synthesize(fallbackRequest("chest", "legs"), apperrors.CodeMalformedJSON)
	assert.Len(t, plan.Exercises, 6)
}

func TestSynthesizeMapsMusclesToBodyParts(t *testing.T) {
	s := NewSynthesizer(3)

	// quads and hamstrings both map to legs, so only one group is used
	plan := s.Synthesize(fallbackRequest("quads", "hamstrings"), apperrors.CodeMalformedJSON)
	assert.Len(t, plan.Exercises, 3)
}

func TestSynthesizeAggregates(t *testing.T) {
	s := NewSynthesizer(3)

	plan := s.Synthesize(fallbackRequest("legs"), apperrors.CodeMalformedJSON)

	wantSeconds := 0
	wantCalories := 0.0
	for _, ex := range plan.Exercises {
		work := workSecondsOf(ex)
		sec := ex.Sets * (work + ex.RestSeconds)
		wantSeconds += sec
		wantCalories += float64(sec) / 60.0 * (3.0 + 1.5*float64(ex.Difficulty))
	}

	assert.Equal(t, (wantSeconds+59)/60, plan.EstimatedTime)
	assert.InDelta(t, wantCalories, float64(plan.TotalCalories), 1.0)
	assert.GreaterOrEqual(t, plan.Difficulty, 1)
	assert.LessOrEqual(t, plan.Difficulty, 5)
}

func TestSynthesizeRandomizedSelection(t *testing.T) {
	s := NewSynthesizer(3)

	distinct := map[string]bool{}
	for i := 0; i < 20; i++ {
		plan := s.Synthesize(fallbackRequest("legs"), apperrors.CodeMalformedJSON)
		names := make([]string, len(plan.Exercises))
		for j, ex := range plan.Exercises {
			names[j] = ex.Name
		}
		distinct[strings.Join(names, "|")] = true
	}
	assert.Greater(t, len(distinct), 1, "selection order should vary")
}

func TestSynthesizeUnknownMusclesFallThroughToFullBody(t *testing.T) {
	s := NewSynthesizer(3)

	plan := s.Synthesize(fallbackRequest("neck"), apperrors.CodeMalformedJSON)
	assert.NotEmpty(t, plan.Exercises)
}
