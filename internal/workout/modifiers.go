// internal/workout/modifiers.go
package workout

// Modifier adjusts a previous request for regeneration.
type Modifier string

const (
	ModifierHarder  Modifier = "harder"
	ModifierEasier  Modifier = "easier"
	ModifierShorter Modifier = "shorter"
	ModifierLonger  Modifier = "longer"
)

const (
	modifierDurationStep = 15
	modifierMinDuration  = 15
	modifierMaxDuration  = 90
)

var levelOrder = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

func levelIndex(l FitnessLevel) int {
	for i, v := range levelOrder {
		if v == l {
			return i
		}
	}
	return 0
}

// ApplyModifier returns a copy of req shifted by the modifier. Level shifts
// clamp to [beginner, advanced]; duration shifts move in 15-minute steps
// clamped to [15, 90]. Unknown modifiers return the request unchanged.
func ApplyModifier(req Request, mod Modifier) Request {
	switch mod {
	case ModifierHarder:
		if i := levelIndex(req.FitnessLevel); i < len(levelOrder)-1 {
			req.FitnessLevel = levelOrder[i+1]
		}
	case ModifierEasier:
		if i := levelIndex(req.FitnessLevel); i > 0 {
			req.FitnessLevel = levelOrder[i-1]
		}
	case ModifierShorter:
		req.Duration -= modifierDurationStep
		if req.Duration < modifierMinDuration {
			req.Duration = modifierMinDuration
		}
	case ModifierLonger:
		req.Duration += modifierDurationStep
		if req.Duration > modifierMaxDuration {
			req.Duration = modifierMaxDuration
		}
	}
	return req
}
