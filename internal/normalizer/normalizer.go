// internal/normalizer/normalizer.go

// Package normalizer converts the untrusted text a generation model returns
// into a canonical workout plan. The model output is treated as hostile:
// anything recoverable is repaired with documented defaults, anything
// unrecoverable becomes one of a closed set of typed failures.
package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"workout-service/internal/clients/textgen"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
	"workout-service/internal/common/metrics"
	"workout-service/internal/workout"
)

// Plan-level defaults for absent presentation fields.
const (
	defaultEstimatedTime = 30
	defaultCalories      = 150
	defaultEquipment     = "bodyweight"
)

// Per-exercise defaults.
const (
	defaultSets        = 3
	defaultReps        = "10 reps"
	defaultRestSeconds = 30
	defaultDifficulty  = 2
	defaultMuscleTag   = "general"
)

var defaultCooldown = []string{
	"Slow walk in place for 2 minutes",
	"Full-body stretch, hold each position 20 seconds",
}

// ImageClient produces one illustration per prompt. Implemented by
// imagegen.Client; a test double suffices in tests.
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Normalizer validates and repairs raw model responses.
type Normalizer struct {
	images ImageClient
	logger logger.Logger
}

// New creates a Normalizer. images may be nil when illustration support is
// disabled; requests asking for images then get text-only plans.
func New(images ImageClient, log logger.Logger) *Normalizer {
	return &Normalizer{
		images: images,
		logger: log.With(map[string]interface{}{
			"component": "normalizer",
		}),
	}
}

// Normalize converts a completion into a canonical plan or a typed failure.
// Truncated output that still parses is returned best-effort with a warning
// attached; truncated output that no longer parses fails as Truncated
// rather than MalformedJSON, so the caller suggests a smaller request.
func (n *Normalizer) Normalize(ctx context.Context, completion *textgen.Completion, req *workout.Request) (*workout.Plan, error) {
	raw := strings.TrimSpace(completion.Text)
	truncated := completion.FinishReason == textgen.FinishReasonLength

	if raw == "" {
		return nil, n.fail(apperrors.NewEmptyResponseError())
	}

	doc, err := parseObject(raw)
	if err != nil {
		if truncated {
			return nil, n.fail(apperrors.NewTruncatedError())
		}
		return nil, n.fail(apperrors.NewMalformedJSONError(apperrors.Preview(raw, 200)))
	}

	plan, err := n.buildPlan(doc, req)
	if err != nil {
		return nil, n.fail(err)
	}

	if truncated {
		plan.Warnings = append(plan.Warnings, "response was cut off at the token limit; consider a shorter duration or fewer target muscles")
	}

	if req.IncludeImages && n.images != nil {
		n.attachImages(ctx, plan)
	}

	return plan, nil
}

// parseObject parses raw as a JSON object, tolerating markdown code fences
// and prose around the object, which chat models add routinely.
func parseObject(raw string) (map[string]interface{}, error) {
	candidate := raw
	if start := strings.Index(candidate, "{"); start >= 0 {
		if end := strings.LastIndex(candidate, "}"); end > start {
			candidate = candidate[start : end+1]
		}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// buildPlan applies the two-tier field policy: title and a non-empty
// exercises array are mandatory, presentation fields are defaulted. The
// parsed document is never mutated.
func (n *Normalizer) buildPlan(doc map[string]interface{}, req *workout.Request) (*workout.Plan, error) {
	title := stringOf(doc["workoutTitle"])
	if title == "" {
		title = stringOf(doc["title"])
	}
	if title == "" {
		return nil, apperrors.NewMissingFieldError("workoutTitle")
	}

	rawExercises, ok := doc["exercises"].([]interface{})
	if !ok {
		return nil, apperrors.NewMissingFieldError("exercises")
	}
	if len(rawExercises) == 0 {
		return nil, apperrors.NewEmptyExerciseListError()
	}

	exercises := make([]workout.Exercise, 0, len(rawExercises))
	for i, rawEx := range rawExercises {
		ex, err := n.buildExercise(rawEx, i, req)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}

	equipment := stringSlice(doc["equipment"])
	if len(equipment) == 0 {
		equipment = []string{defaultEquipment}
	}

	cooldown := stringSlice(doc["cooldown"])
	if len(cooldown) == 0 {
		cooldown = append([]string(nil), defaultCooldown...)
	}

	plan := &workout.Plan{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   stringOf(doc["description"]),
		EstimatedTime: intOrScan(doc["estimatedTime"], defaultEstimatedTime),
		Difficulty:    meanDifficulty(exercises),
		Exercises:     exercises,
		Cooldown:      cooldown,
		TotalCalories: intOrScan(doc["totalCalories"], defaultCalories),
		Equipment:     equipment,
		CreatedAt:     time.Now().UTC(),
	}
	return plan, nil
}

// buildExercise repairs one exercise entry. A missing name is the one
// unrecoverable case; everything else gets a documented default so a single
// bad entry cannot discard an otherwise usable plan.
func (n *Normalizer) buildExercise(raw interface{}, index int, req *workout.Request) (workout.Exercise, error) {
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return workout.Exercise{}, apperrors.NewMissingFieldError(fmt.Sprintf("exercises[%d].name", index))
	}

	name := stringOf(doc["name"])
	if name == "" {
		return workout.Exercise{}, apperrors.NewMissingFieldError(fmt.Sprintf("exercises[%d].name", index))
	}

	sets := intOrScan(doc["sets"], defaultSets)
	if sets <= 0 {
		sets = defaultSets
	}

	reps := stringOf(doc["reps"])
	if reps == "" {
		reps = defaultReps
	}

	rest := intOrScan(doc["restTime"], defaultRestSeconds)
	if rest < 0 {
		rest = defaultRestSeconds
	}

	muscles := stringSlice(doc["targetMuscles"])
	if len(muscles) == 0 {
		muscles = []string{genericMuscleTag(req)}
	}

	instructions := stringSlice(doc["instructions"])
	if len(instructions) == 0 {
		instructions = []string{fmt.Sprintf("Perform %s with controlled form through the full range of motion.", name)}
	}

	tips := stringSlice(doc["tips"])
	if len(tips) == 0 {
		tips = []string{"Keep your core engaged and breathe steadily."}
	}

	return workout.Exercise{
		Name:          name,
		Sets:          sets,
		Reps:          reps,
		RestSeconds:   rest,
		TargetMuscles: muscles,
		Difficulty:    starCount(doc["difficulty"], defaultDifficulty),
		Instructions:  instructions,
		Tips:          tips,
	}, nil
}

func genericMuscleTag(req *workout.Request) string {
	if len(req.TargetMuscles) > 0 {
		return req.TargetMuscles[0]
	}
	return defaultMuscleTag
}

// meanDifficulty is the rounded mean of exercise difficulties; the plan
// aggregate is always derived, never taken from the model.
func meanDifficulty(exercises []workout.Exercise) int {
	if len(exercises) == 0 {
		return defaultDifficulty
	}
	sum := 0
	for _, ex := range exercises {
		sum += ex.Difficulty
	}
	return clampStars(int(math.Round(float64(sum) / float64(len(exercises)))))
}

func (n *Normalizer) fail(err error) error {
	code := apperrors.CodeOf(err)
	metrics.NormalizationFailures.WithLabelValues(string(code)).Inc()
	n.logger.Warn("normalization failed", map[string]interface{}{
		"kind": string(code),
	})
	return err
}
