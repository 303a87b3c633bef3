// internal/workout/models.go
package workout

import (
	"time"
)

// FitnessLevel is the experience level a plan is tuned for.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// ValidLevel reports whether s is one of the known fitness levels.
func ValidLevel(s string) bool {
	switch FitnessLevel(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Request describes one workout generation request.
type Request struct {
	TargetMuscles []string     `json:"targetMuscles"`
	FitnessLevel  FitnessLevel `json:"fitnessLevel"`
	Duration      int          `json:"duration"` // minutes
	Equipment     []string     `json:"equipment"`
	Goals         []string     `json:"goals"`
	Limitations   []string     `json:"limitations,omitempty"`
	IncludeImages bool         `json:"includeImages,omitempty"`
}

// Exercise is one canonical exercise entry in a plan.
type Exercise struct {
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          string   `json:"reps"`
	RestSeconds   int      `json:"restTime"`
	TargetMuscles []string `json:"targetMuscles"`
	Difficulty    int      `json:"difficulty"` // 1..5
	Instructions  []string `json:"instructions"`
	Tips          []string `json:"tips"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// Plan is the canonical workout plan the service produces.
type Plan struct {
	ID            string     `json:"id"`
	Title         string     `json:"workoutTitle"`
	Description   string     `json:"description,omitempty"`
	EstimatedTime int        `json:"estimatedTime"` // minutes
	Difficulty    int        `json:"difficulty"`    // 1..5
	Exercises     []Exercise `json:"exercises"`
	Cooldown      []string   `json:"cooldown,omitempty"`
	TotalCalories int        `json:"totalCalories"`
	Equipment     []string   `json:"equipment"`
	Warnings      []string   `json:"warnings,omitempty"`
	Fallback      bool       `json:"fallback,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// HistoryRecord is one completed-workout entry.
type HistoryRecord struct {
	ID          string    `json:"id"`
	PlanID      string    `json:"planId"`
	CompletedAt time.Time `json:"completedAt"`
	Rating      int       `json:"rating,omitempty"` // 1..5
	Notes       string    `json:"notes,omitempty"`
}

// Preferences are the stored per-user defaults applied to requests that
// omit fields.
type Preferences struct {
	FitnessLevel FitnessLevel `json:"fitnessLevel"`
	Duration     int          `json:"duration"`
	Equipment    []string     `json:"equipment"`
	Goals        []string     `json:"goals"`
}

// DefaultPreferences returns the defaults used when no stored preferences
// exist.
func DefaultPreferences() Preferences {
	return Preferences{
		FitnessLevel: LevelBeginner,
		Duration:     30,
		Equipment:    []string{"bodyweight"},
		Goals:        []string{"fitness"},
	}
}

// ApplyPreferences fills absent request fields from prefs.
func ApplyPreferences(req *Request, prefs Preferences) {
	if req.FitnessLevel == "" {
		req.FitnessLevel = prefs.FitnessLevel
	}
	if req.Duration == 0 {
		req.Duration = prefs.Duration
	}
	if len(req.Equipment) == 0 {
		req.Equipment = append([]string(nil), prefs.Equipment...)
	}
	if len(req.Goals) == 0 {
		req.Goals = append([]string(nil), prefs.Goals...)
	}
}
