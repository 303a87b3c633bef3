// internal/storage/storage_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout-service/internal/workout"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testPlan(id string) *workout.Plan {
	return &workout.Plan{
		ID:    id,
		Title: "Plan " + id,
		Exercises: []workout.Exercise{
			{Name: "Push-up", Sets: 3, Reps: "12", RestSeconds: 45,
				TargetMuscles: []string{"chest"}, Difficulty: 2,
				Instructions: []string{"Press"}, Tips: []string{"Breathe"}},
		},
		EstimatedTime: 30,
		Difficulty:    2,
		TotalCalories: 150,
		Equipment:     []string{"bodyweight"},
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGetPlan(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	plan := testPlan("p1")
	require.NoError(t, db.SavePlan(ctx, plan))

	got, err := db.GetPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, plan.Title, got.Title)
	assert.Equal(t, plan.Exercises, got.Exercises)
}

func TestGetPlanNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePlanIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	plan := testPlan("p1")
	require.NoError(t, db.SavePlan(ctx, plan))

	plan.Title = "Renamed"
	require.NoError(t, db.SavePlan(ctx, plan))

	got, err := db.GetPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestListPlansNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := testPlan("old")
	old.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.SavePlan(ctx, old))
	require.NoError(t, db.SavePlan(ctx, testPlan("new")))

	plans, err := db.ListPlans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "new", plans[0].ID)
}

func TestDeletePlan(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SavePlan(ctx, testPlan("p1")))
	require.NoError(t, db.DeletePlan(ctx, "p1"))

	_, err := db.GetPlan(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeletePlan(ctx, "p1"), ErrNotFound)
}

func TestFavoritesLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	plan := testPlan("p1")
	require.NoError(t, db.SavePlan(ctx, plan))
	require.NoError(t, db.AddFavorite(ctx, plan))

	fav, err := db.IsFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, fav)

	favorites, err := db.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "p1", favorites[0].ID)

	require.NoError(t, db.RemoveFavorite(ctx, "p1"))
	fav, err = db.IsFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, fav)

	assert.ErrorIs(t, db.RemoveFavorite(ctx, "p1"), ErrNotFound)
}

func TestFavoriteSnapshotSurvivesPlanDeletion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	plan := testPlan("p1")
	require.NoError(t, db.SavePlan(ctx, plan))
	require.NoError(t, db.AddFavorite(ctx, plan))
	require.NoError(t, db.DeletePlan(ctx, "p1"))

	// Deleting the plan also removes the favorite reference; the snapshot
	// mechanism matters for favorites added from non-persisted plans.
	favorites, err := db.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	ghost := testPlan("ghost")
	require.NoError(t, db.AddFavorite(ctx, ghost))
	favorites, err = db.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Plan ghost", favorites[0].Title)
}

func TestHistoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec := &workout.HistoryRecord{
		PlanID: "p1",
		Rating: 4,
		Notes:  "good burn",
	}
	require.NoError(t, db.RecordHistory(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CompletedAt.IsZero())

	records, err := db.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PlanID)
	assert.Equal(t, 4, records[0].Rating)
	assert.Equal(t, "good burn", records[0].Notes)
}

func TestListHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	older := &workout.HistoryRecord{PlanID: "p1", CompletedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &workout.HistoryRecord{PlanID: "p2", CompletedAt: time.Now().UTC()}
	require.NoError(t, db.RecordHistory(ctx, older))
	require.NoError(t, db.RecordHistory(ctx, newer))

	records, err := db.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p2", records[0].PlanID)
}
