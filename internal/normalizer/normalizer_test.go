// internal/normalizer/normalizer_test.go
package normalizer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout-service/internal/clients/textgen"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
	"workout-service/internal/workout"
)

func testRequest() *workout.Request {
	return &workout.Request{
		TargetMuscles: []string{"abs"},
		FitnessLevel:  workout.LevelBeginner,
		Duration:      20,
		Equipment:     []string{"bodyweight"},
		Goals:         []string{"fitness"},
	}
}

func completion(text string) *textgen.Completion {
	return &textgen.Completion{Text: text, FinishReason: textgen.FinishReasonStop}
}

func fullResponse() map[string]interface{} {
	return map[string]interface{}{
		"workoutTitle":  "Core Crusher",
		"estimatedTime": 20,
		"difficulty":    3,
		"exercises": []map[string]interface{}{
			{
				"name": "Plank", "sets": 3, "reps": "30 seconds", "restTime": 45,
				"targetMuscles": []string{"abs", "core"}, "difficulty": 2,
				"instructions": []string{"Hold a straight line from head to heels"},
				"tips":         []string{"Don't let hips sag"},
			},
			{
				"name": "Crunches", "sets": 3, "reps": "15", "restTime": 30,
				"targetMuscles": []string{"abs"}, "difficulty": 3,
				"instructions": []string{"Curl shoulders toward hips"},
				"tips":         []string{"Keep lower back on the floor"},
			},
			{
				"name": "Leg Raises", "sets": 3, "reps": "12", "restTime": 30,
				"targetMuscles": []string{"abs"}, "difficulty": 4,
				"instructions": []string{"Raise legs to vertical"},
				"tips":         []string{"Move slowly on the way down"},
			},
		},
		"cooldown":      []string{"Child's pose 60 seconds"},
		"totalCalories": 120,
		"equipment":     []string{"bodyweight"},
	}
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func newNormalizer(t *testing.T) *Normalizer {
	return New(nil, logger.NewTestLogger(t))
}

func TestNormalizeFullResponse(t *testing.T) {
	n := newNormalizer(t)

	plan, err := n.Normalize(context.Background(), completion(marshal(t, fullResponse())), testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Core Crusher", plan.Title)
	assert.Len(t, plan.Exercises, 3)
	assert.Equal(t, 20, plan.EstimatedTime)
	assert.Equal(t, 120, plan.TotalCalories)
	// rounded mean of 2, 3, 4
	assert.Equal(t, 3, plan.Difficulty)
	assert.Equal(t, "30 seconds", plan.Exercises[0].Reps)
	assert.Equal(t, "15", plan.Exercises[1].Reps)
	assert.NotZero(t, plan.CreatedAt)
}

func TestNormalizeAppliesOptionalDefaults(t *testing.T) {
	n := newNormalizer(t)

	resp := map[string]interface{}{
		"workoutTitle": "Sparse",
		"exercises": []map[string]interface{}{
			{"name": "Push-up"},
		},
	}

	plan, err := n.Normalize(context.Background(), completion(marshal(t, resp)), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 30, plan.EstimatedTime)
	assert.Equal(t, 150, plan.TotalCalories)
	assert.Equal(t, []string{"bodyweight"}, plan.Equipment)
	assert.NotEmpty(t, plan.Cooldown)
	assert.Equal(t, 2, plan.Difficulty)

	ex := plan.Exercises[0]
	assert.Equal(t, 3, ex.Sets)
	assert.Equal(t, "10 reps", ex.Reps)
	assert.Equal(t, 30, ex.RestSeconds)
	assert.Equal(t, []string{"abs"}, ex.TargetMuscles)
	assert.Equal(t, 2, ex.Difficulty)
	assert.Len(t, ex.Instructions, 1)
	assert.Len(t, ex.Tips, 1)
}

func TestNormalizeEmptyResponse(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.Normalize(context.Background(), completion("   \n\t"), testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEmptyResponse, apperrors.CodeOf(err))
}

func TestNormalizeMalformedJSONBoundsPreview(t *testing.T) {
	n := newNormalizer(t)

	raw := "definitely not json " + strings.Repeat("x", 5000)
	_, err := n.Normalize(context.Background(), completion(raw), testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMalformedJSON, apperrors.CodeOf(err))

	var genErr *apperrors.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.LessOrEqual(t, len(genErr.Details), 2*200+len(" ... "))
	assert.NotContains(t, genErr.Details, strings.Repeat("x", 500))
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	n := newNormalizer(t)

	raw := "Here is your plan:\n```json\n" + marshal(t, fullResponse()) + "\n```"
	plan, err := n.Normalize(context.Background(), completion(raw), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Core Crusher", plan.Title)
}

func TestNormalizeMissingTitle(t *testing.T) {
	n := newNormalizer(t)

	resp := map[string]interface{}{
		"exercises": []map[string]interface{}{{"name": "Plank"}},
	}
	_, err := n.Normalize(context.Background(), completion(marshal(t, resp)), testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))
}

func TestNormalizeMissingExerciseNameFailsWholePlan(t *testing.T) {
	n := newNormalizer(t)

	resp := fullResponse()
	resp["exercises"] = []map[string]interface{}{
		{"name": "Plank"},
		{"sets": 3},
	}
	_, err := n.Normalize(context.Background(), completion(marshal(t, resp)), testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))

	var genErr *apperrors.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Details, "exercises[1].name")
}

func TestNormalizeEmptyExerciseList(t *testing.T) {
	n := newNormalizer(t)

	resp := map[string]interface{}{
		"workoutTitle": "Hollow",
		"exercises":    []interface{}{},
	}
	_, err := n.Normalize(context.Background(), completion(marshal(t, resp)), testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEmptyExerciseList, apperrors.CodeOf(err))
}

func TestNormalizeTruncatedButParseable(t *testing.T) {
	n := newNormalizer(t)

	c := &textgen.Completion{Text: marshal(t, fullResponse()), FinishReason: textgen.FinishReasonLength}
	plan, err := n.Normalize(context.Background(), c, testRequest())
	require.NoError(t, err)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "token limit")
}

func TestNormalizeTruncatedAndUnparseable(t *testing.T) {
	n := newNormalizer(t)

	c := &textgen.Completion{Text: `{"workoutTitle":"Cut off`, FinishReason: textgen.FinishReasonLength}
	_, err := n.Normalize(context.Background(), c, testRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTruncated, apperrors.CodeOf(err))
}

func TestStarCoercion(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
	}{
		{"★★★☆☆", 3},
		{"★★★★★★", 5},
		{"", 2},
		{"   ", 2},
		{float64(4), 4},
		{float64(0), 1},
		{float64(9), 5},
		{"3", 3},
		{"no stars here", 2},
		{nil, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, starCount(tt.in, 2), "input %v", tt.in)
	}
}

func TestIntOrScan(t *testing.T) {
	assert.Equal(t, 45, intOrScan("about 45 minutes", 30))
	assert.Equal(t, 30, intOrScan("no digits at all", 30))
	assert.Equal(t, 12, intOrScan(float64(12), 30))
	assert.Equal(t, 30, intOrScan(nil, 30))
	assert.Equal(t, 150, intOrScan("burns 150 kcal roughly", 99))
}

func TestNormalizeEndToEndScenario(t *testing.T) {
	n := newNormalizer(t)

	plan, err := n.Normalize(context.Background(), completion(marshal(t, fullResponse())), testRequest())
	require.NoError(t, err)

	assert.Len(t, plan.Exercises, 3)
	assert.NotZero(t, plan.EstimatedTime)
	assert.GreaterOrEqual(t, plan.Difficulty, 1)
	assert.LessOrEqual(t, plan.Difficulty, 5)
}
