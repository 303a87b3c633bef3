// internal/normalizer/safenames.go
package normalizer

import (
	"strings"

	"workout-service/internal/workout"
)

// safeNames rewrites exercise names that are known to trip the image
// backend's content policy. Lookup-based, so novel problematic terms will
// still slip through; those fall back to a generic per-group name below.
var safeNames = map[string]string{
	"skull crushers":       "lying triceps extensions",
	"skullcrushers":        "lying triceps extensions",
	"dead bugs":            "supine limb raises",
	"deadbug":              "supine limb raises",
	"hip thrusts":          "glute bridges",
	"guillotine press":     "wide-grip bench press",
	"suicides":             "shuttle sprints",
	"gun walks":            "lateral band walks",
	"pistol squats":        "single-leg squats",
	"monster walks":        "resistance band side steps",
	"good mornings":        "hip hinges",
	"man makers":           "burpee rows",
	"face pulls":           "rear delt cable pulls",
	"inverted body blasts": "incline rows",
}

// genericExercises names a harmless substitute per muscle group, used on a
// second attempt after the remapped name is still rejected.
var genericExercises = map[string]string{
	"chest":     "push-up",
	"back":      "bodyweight row",
	"shoulders": "shoulder press",
	"abs":       "plank",
	"legs":      "bodyweight squat",
	"fullbody":  "jumping jack",
}

// SafeName returns the policy-safe rendering of an exercise name.
func SafeName(name string) string {
	if safe, ok := safeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return safe
	}
	return name
}

// GenericNameFor returns a generic substitute exercise for the muscle list.
func GenericNameFor(muscles []string) string {
	group := "fullbody"
	if len(muscles) > 0 {
		group = workout.MuscleGroupOf(strings.ToLower(muscles[0]))
	}
	return genericExercises[group]
}
