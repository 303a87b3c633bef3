// internal/workout/validate.go
package workout

import (
	"fmt"
	"strings"

	apperrors "workout-service/internal/common/errors"
)

const (
	MinDuration = 5
	MaxDuration = 120
)

// Validate checks the request against the acceptance rules. A failing
// request is rejected before any upstream call is made.
func (r *Request) Validate() error {
	var problems []string

	if len(r.TargetMuscles) == 0 {
		problems = append(problems, "targetMuscles must not be empty")
	}
	for _, m := range r.TargetMuscles {
		if strings.TrimSpace(m) == "" {
			problems = append(problems, "targetMuscles must not contain blank entries")
			break
		}
	}

	if !ValidLevel(string(r.FitnessLevel)) {
		problems = append(problems, fmt.Sprintf("fitnessLevel must be one of beginner, intermediate, advanced (got %q)", r.FitnessLevel))
	}

	if r.Duration < MinDuration || r.Duration > MaxDuration {
		problems = append(problems, fmt.Sprintf("duration must be between %d and %d minutes (got %d)", MinDuration, MaxDuration, r.Duration))
	}

	if len(r.Equipment) == 0 {
		problems = append(problems, "equipment must not be empty")
	}
	if len(r.Goals) == 0 {
		problems = append(problems, "goals must not be empty")
	}

	if len(problems) > 0 {
		return apperrors.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}
