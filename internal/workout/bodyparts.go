// internal/workout/bodyparts.go
package workout

// bodyPartMuscles maps body-part ids from the request surface to concrete
// target muscle lists for the generation prompt.
var bodyPartMuscles = map[string][]string{
	"chest":     {"chest", "triceps"},
	"back":      {"back", "lats", "biceps"},
	"shoulders": {"shoulders", "traps"},
	"arms":      {"biceps", "triceps", "forearms"},
	"abs":       {"abs", "obliques", "core"},
	"legs":      {"quads", "hamstrings", "glutes", "calves"},
	"fullbody":  {"chest", "back", "shoulders", "legs", "core"},
}

// ExpandBodyParts resolves body-part ids to muscle lists. Unknown ids pass
// through unchanged so callers can target specific muscles directly.
// Duplicates are removed, first-seen order preserved.
func ExpandBodyParts(parts []string) []string {
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		muscles, ok := bodyPartMuscles[p]
		if !ok {
			muscles = []string{p}
		}
		for _, m := range muscles {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// KnownBodyPart reports whether id has a muscle expansion.
func KnownBodyPart(id string) bool {
	_, ok := bodyPartMuscles[id]
	return ok
}

// MuscleGroupOf maps a muscle back to its broad group, used when a generic
// substitute exercise is needed.
func MuscleGroupOf(muscle string) string {
	switch muscle {
	case "chest", "triceps":
		return "chest"
	case "back", "lats", "biceps", "forearms":
		return "back"
	case "shoulders", "traps":
		return "shoulders"
	case "abs", "obliques", "core":
		return "abs"
	case "quads", "hamstrings", "glutes", "calves":
		return "legs"
	default:
		return "fullbody"
	}
}
