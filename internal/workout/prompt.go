// internal/workout/prompt.go
package workout

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the trainer prompt sent to the text-generation model.
// The model is told to answer with JSON only; the normalizer still treats
// the reply as untrusted.
func BuildPrompt(req *Request) string {
	var parts []string

	parts = append(parts, "You are a certified personal trainer. Create a workout plan matching the constraints below.")
	parts = append(parts, fmt.Sprintf("\nTarget muscles: %s", strings.Join(req.TargetMuscles, ", ")))
	parts = append(parts, fmt.Sprintf("Fitness level: %s", req.FitnessLevel))
	parts = append(parts, fmt.Sprintf("Duration: %d minutes", req.Duration))
	parts = append(parts, fmt.Sprintf("Available equipment: %s", strings.Join(req.Equipment, ", ")))
	parts = append(parts, fmt.Sprintf("Goals: %s", strings.Join(req.Goals, ", ")))

	if len(req.Limitations) > 0 {
		parts = append(parts, fmt.Sprintf("Physical limitations to respect: %s", strings.Join(req.Limitations, ", ")))
	}

	parts = append(parts, "\nRespond with a single JSON object and nothing else. Schema:")
	parts = append(parts, `{
  "workoutTitle": string,
  "estimatedTime": number (minutes),
  "difficulty": number (1-5),
  "exercises": [
    {
      "name": string,
      "sets": number,
      "reps": string,
      "restTime": number (seconds),
      "targetMuscles": [string],
      "difficulty": number (1-5),
      "instructions": [string],
      "tips": [string]
    }
  ],
  "cooldown": [string],
  "totalCalories": number,
  "equipment": [string]
}`)

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Every exercise must be performable with the listed equipment")
	parts = append(parts, "- Scale sets, reps and rest to the fitness level")
	parts = append(parts, "- Keep the total time close to the requested duration")
	parts = append(parts, "- Do not include markdown, code fences or commentary")

	return strings.Join(parts, "\n")
}
