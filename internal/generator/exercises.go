// internal/generator/exercises.go
package generator

// staticExercise is one entry in the offline exercise table. WorkSeconds is
// the nominal time one set takes, used for duration and calorie estimates.
type staticExercise struct {
	Name        string
	Sets        int
	Reps        string
	RestSeconds int
	WorkSeconds int
	Difficulty  int
	Muscles     []string
	Instruction string
	Tip         string
}

// exerciseTable backs the deterministic fallback synthesizer. No entry
// requires equipment beyond bodyweight, so a degraded plan is always
// performable.
var exerciseTable = map[string][]staticExercise{
	"chest": {
		{"Push-up", 3, "12 reps", 45, 40, 2, []string{"chest", "triceps"},
			"Lower your chest to just above the floor, then press back up.",
			"Keep your body in a straight line from head to heels."},
		{"Incline Push-up", 3, "15 reps", 40, 40, 1, []string{"chest", "shoulders"},
			"Place hands on an elevated surface and perform a push-up.",
			"The higher the surface, the easier the movement."},
		{"Wide Push-up", 3, "10 reps", 45, 40, 2, []string{"chest"},
			"Set hands wider than shoulder width and lower under control.",
			"Stop if you feel strain in the front of the shoulder."},
		{"Decline Push-up", 3, "8 reps", 60, 40, 3, []string{"chest", "shoulders"},
			"Elevate your feet and lower your chest toward the floor.",
			"Brace your core to avoid arching the lower back."},
		{"Chest Squeeze Press", 3, "12 reps", 40, 35, 1, []string{"chest"},
			"Press palms together at chest height and hold the squeeze.",
			"Breathe steadily through the hold."},
	},
	"back": {
		{"Superman Hold", 3, "20 seconds", 40, 20, 1, []string{"back"},
			"Lie face down and lift arms and legs off the floor.",
			"Look at the floor to keep your neck neutral."},
		{"Reverse Snow Angel", 3, "10 reps", 45, 40, 2, []string{"back", "shoulders"},
			"Face down, sweep straight arms from hips to overhead.",
			"Keep arms hovering off the floor the whole set."},
		{"Doorway Row", 3, "12 reps", 45, 40, 2, []string{"back", "biceps"},
			"Hold a door frame, lean back, and pull your chest forward.",
			"Squeeze shoulder blades together at the top."},
		{"Prone Y Raise", 3, "12 reps", 40, 35, 2, []string{"back", "traps"},
			"Face down, raise arms in a Y shape with thumbs up.",
			"Lift from the shoulder blades, not the hands."},
		{"Bird Dog", 3, "10 reps per side", 40, 45, 1, []string{"back", "core"},
			"From all fours, extend opposite arm and leg together.",
			"Move slowly and keep hips level."},
	},
	"shoulders": {
		{"Pike Push-up", 3, "8 reps", 60, 40, 3, []string{"shoulders", "triceps"},
			"From a hip-high pike, lower the crown of your head to the floor.",
			"Elbows track back, not flared out."},
		{"Arm Circles", 3, "30 seconds", 30, 30, 1, []string{"shoulders"},
			"Extend arms to the sides and draw small fast circles.",
			"Keep shoulders pressed down away from ears."},
		{"Wall Handstand Hold", 3, "20 seconds", 60, 20, 4, []string{"shoulders"},
			"Walk feet up a wall into a supported handstand and hold.",
			"Come down as soon as form breaks."},
		{"Lateral Raise Hold", 3, "30 seconds", 40, 30, 2, []string{"shoulders"},
			"Hold arms straight out at shoulder height.",
			"Use light objects for extra load if available."},
		{"Shoulder Tap", 3, "16 taps", 40, 35, 2, []string{"shoulders", "core"},
			"In a plank, tap the opposite shoulder with each hand.",
			"Keep hips still while tapping."},
	},
	"arms": {
		{"Diamond Push-up", 3, "8 reps", 60, 40, 3, []string{"triceps", "chest"},
			"Form a diamond with your hands under your chest and press.",
			"Keep elbows close to your sides."},
		{"Chair Dip", 3, "10 reps", 45, 40, 2, []string{"triceps"},
			"Hands on a chair behind you, lower hips and press back up.",
			"Keep shoulders away from your ears."},
		{"Towel Curl", 3, "12 reps", 40, 35, 1, []string{"biceps"},
			"Loop a towel under one foot and curl against its resistance.",
			"Resist on the way down as well."},
		{"Plank-up", 3, "10 reps", 50, 45, 3, []string{"triceps", "core"},
			"Move from forearm plank to straight-arm plank and back.",
			"Alternate the leading arm each rep."},
		{"Wall Push-off", 3, "15 reps", 30, 30, 1, []string{"triceps", "chest"},
			"Fall toward a wall and push explosively back to standing.",
			"Keep wrists stacked under shoulders on contact."},
	},
	"abs": {
		{"Plank", 3, "30 seconds", 40, 30, 2, []string{"abs", "core"},
			"Hold a straight line on forearms and toes.",
			"Squeeze glutes to keep hips from sagging."},
		{"Crunch", 3, "15 reps", 35, 35, 1, []string{"abs"},
			"Curl shoulders toward hips, then lower with control.",
			"Keep your lower back pressed into the floor."},
		{"Leg Raise", 3, "12 reps", 45, 40, 3, []string{"abs"},
			"Lying flat, raise straight legs to vertical and lower slowly.",
			"Bend knees slightly if your back arches."},
		{"Bicycle Crunch", 3, "20 reps", 40, 40, 2, []string{"abs", "obliques"},
			"Alternate elbow to opposite knee in a pedaling motion.",
			"Rotate from the torso, not the neck."},
		{"Side Plank", 3, "20 seconds per side", 40, 40, 3, []string{"obliques", "core"},
			"Stack feet and hold a straight line on one forearm.",
			"Push the floor away to avoid sinking into the shoulder."},
	},
	"legs": {
		{"Bodyweight Squat", 3, "15 reps", 45, 45, 1, []string{"quads", "glutes"},
			"Sit back and down until thighs are parallel, then stand.",
			"Drive through your heels on the way up."},
		{"Reverse Lunge", 3, "10 reps per side", 45, 50, 2, []string{"quads", "glutes", "hamstrings"},
			"Step back into a lunge and return to standing.",
			"Keep the front knee over the ankle."},
		{"Glute Bridge", 3, "15 reps", 40, 40, 1, []string{"glutes", "hamstrings"},
			"Lying on your back, drive hips up and squeeze at the top.",
			"Pause one second at the top of each rep."},
		{"Wall Sit", 3, "30 seconds", 50, 30, 2, []string{"quads"},
			"Slide down a wall until knees are at ninety degrees and hold.",
			"Keep your whole back flat against the wall."},
		{"Calf Raise", 3, "20 reps", 30, 30, 1, []string{"calves"},
			"Rise onto the balls of your feet and lower slowly.",
			"Use a step for a longer range of motion."},
		{"Jump Squat", 3, "10 reps", 60, 35, 4, []string{"quads", "glutes"},
			"Squat down and jump explosively, landing softly.",
			"Skip the jump if your knees complain."},
	},
	"fullbody": {
		{"Burpee", 3, "10 reps", 60, 45, 4, []string{"chest", "legs", "core"},
			"Squat, kick back to a plank, return, and jump up.",
			"Step back instead of jumping to reduce impact."},
		{"Mountain Climber", 3, "30 seconds", 45, 30, 2, []string{"core", "legs"},
			"From a plank, drive knees toward your chest alternately.",
			"Keep hips level with your shoulders."},
		{"Jumping Jack", 3, "30 seconds", 30, 30, 1, []string{"legs", "shoulders"},
			"Jump feet out while raising arms overhead, then return.",
			"Land softly on the balls of your feet."},
		{"Bear Crawl", 3, "20 seconds", 45, 20, 3, []string{"core", "shoulders", "legs"},
			"Crawl forward on hands and feet with knees just off the floor.",
			"Keep your back flat like a tabletop."},
		{"Inchworm", 3, "8 reps", 40, 40, 2, []string{"core", "hamstrings", "shoulders"},
			"Walk hands out to a plank, then walk feet toward hands.",
			"Bend knees as much as your hamstrings need."},
	},
}
