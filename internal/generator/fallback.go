// internal/generator/fallback.go
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/workout"
)

// DegradedMarker appears in the description of every plan produced by the
// offline synthesizer, followed by the error category that caused it.
const DegradedMarker = "offline backup plan"

const fullBodyExerciseCount = 2

// Synthesizer builds deterministic workout plans from the static exercise
// table. It performs no I/O and never fails; it is the terminal fallback
// when the generation pipeline cannot produce an AI plan.
type Synthesizer struct {
	perBodyPart int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSynthesizer(perBodyPart int) *Synthesizer {
	if perBodyPart <= 0 {
		perBodyPart = 3
	}
	return &Synthesizer{
		perBodyPart: perBodyPart,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Synthesize builds a plan for the request. cause names the failure the
// plan is compensating for and ends up in the description.
func (s *Synthesizer) Synthesize(req *workout.Request, cause apperrors.Code) *workout.Plan {
	parts := bodyPartsOf(req.TargetMuscles)

	var exercises []workout.Exercise
	for _, part := range parts {
		count := s.perBodyPart
		if part == "fullbody" {
			count = fullBodyExerciseCount
		}
		for _, entry := range s.pick(part, count) {
			exercises = append(exercises, workout.Exercise{
				Name:          entry.Name,
				Sets:          entry.Sets,
				Reps:          entry.Reps,
				RestSeconds:   entry.RestSeconds,
				TargetMuscles: append([]string(nil), entry.Muscles...),
				Difficulty:    entry.Difficulty,
				Instructions:  []string{entry.Instruction},
				Tips:          []string{entry.Tip},
			})
		}
	}

	totalSeconds := 0
	difficultySum := 0
	calories := 0.0
	for _, ex := range exercises {
		workSeconds := workSecondsOf(ex)
		exSeconds := ex.Sets * (workSeconds + ex.RestSeconds)
		totalSeconds += exSeconds
		difficultySum += ex.Difficulty
		minutes := float64(exSeconds) / 60.0
		calories += minutes * (3.0 + 1.5*float64(ex.Difficulty))
	}

	difficulty := 2
	if len(exercises) > 0 {
		difficulty = int(math.Round(float64(difficultySum) / float64(len(exercises))))
	}

	return &workout.Plan{
		ID:            uuid.New().String(),
		Title:         fmt.Sprintf("%s Workout (%s)", titleFor(parts), req.FitnessLevel),
		Description:   fmt.Sprintf("This is an %s generated after the AI service failed (%s). All exercises are equipment-free.", DegradedMarker, cause),
		EstimatedTime: int(math.Ceil(float64(totalSeconds) / 60.0)),
		Difficulty:    difficulty,
		Exercises:     exercises,
		Cooldown: []string{
			"Walk in place for 2 minutes",
			"Stretch each worked muscle for 20 seconds",
		},
		TotalCalories: int(math.Round(calories)),
		Equipment:     []string{"bodyweight"},
		Fallback:      true,
		CreatedAt:     time.Now().UTC(),
	}
}

// pick selects up to count distinct exercises from one body part's table in
// randomized order.
func (s *Synthesizer) pick(part string, count int) []staticExercise {
	table := exerciseTable[part]
	if len(table) == 0 {
		table = exerciseTable["fullbody"]
	}

	s.mu.Lock()
	order := s.rng.Perm(len(table))
	s.mu.Unlock()

	if count > len(table) {
		count = len(table)
	}
	out := make([]staticExercise, 0, count)
	for _, idx := range order[:count] {
		out = append(out, table[idx])
	}
	return out
}

// bodyPartsOf maps the request's target muscles back to table body parts,
// deduplicated in first-seen order.
func bodyPartsOf(muscles []string) []string {
	if len(muscles) == 0 {
		return []string{"fullbody"}
	}
	seen := make(map[string]bool)
	var parts []string
	for _, m := range muscles {
		part := m
		if _, ok := exerciseTable[part]; !ok {
			part = workout.MuscleGroupOf(strings.ToLower(m))
		}
		if !seen[part] {
			seen[part] = true
			parts = append(parts, part)
		}
	}
	return parts
}

// workSecondsOf estimates how long one set takes from the table entry the
// exercise came from; unknown exercises get a nominal 40 seconds.
func workSecondsOf(ex workout.Exercise) int {
	for _, table := range exerciseTable {
		for _, entry := range table {
			if entry.Name == ex.Name {
				return entry.WorkSeconds
			}
		}
	}
	return 40
}

func titleFor(parts []string) string {
	if len(parts) != 1 {
		return "Mixed"
	}
	p := parts[0]
	if p == "" {
		return "Mixed"
	}
	return strings.ToUpper(p[:1]) + p[1:]
}
