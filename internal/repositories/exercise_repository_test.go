package repositories

import (
	"context"
	"testing"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/internal/testutil"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, repo *ExerciseRepository) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), []models.Exercise{
		{Name: "Bench Press", SetsType: models.SetsTypeWeightedRepetitions, Difficulty: models.DifficultyBeginner, MuscleGroup: "chest", Equipment: "barbell", BodyRegion: models.BodyRegionUpper},
		{Name: "Push Up", SetsType: models.SetsTypeRepetitions, Difficulty: models.DifficultyNovice, MuscleGroup: "chest", Equipment: "bodyweight", BodyRegion: models.BodyRegionUpper},
		{Name: "Plank", SetsType: models.SetsTypeTime, Difficulty: models.DifficultyNovice, MuscleGroup: "abdominals", Equipment: "bodyweight", BodyRegion: models.BodyRegionMid},
	})
	require.NoError(t, err)
}

func TestExerciseRepository_FindByName(t *testing.T) {
	ctx := context.Background()
	repo := NewExerciseRepository(testutil.NewTestDB(t))
	seedCatalog(t, repo)

	exercise, err := repo.FindByName(ctx, "Plank")
	require.NoError(t, err)
	assert.Equal(t, models.SetsTypeTime, exercise.SetsType)

	_, err = repo.FindByName(ctx, "Handstand")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestExerciseRepository_FindWithFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewExerciseRepository(testutil.NewTestDB(t))
	seedCatalog(t, repo)

	tests := []struct {
		name    string
		filters map[string]string
		want    []string
	}{
		{name: "No filters", filters: nil, want: []string{"Bench Press", "Plank", "Push Up"}},
		{name: "Muscle group", filters: map[string]string{"muscle_group": "chest"}, want: []string{"Bench Press", "Push Up"}},
		{name: "Combined", filters: map[string]string{"muscle_group": "chest", "equipment": "bodyweight"}, want: []string{"Push Up"}},
		{name: "By name", filters: map[string]string{"exercise_name": "Plank"}, want: []string{"Plank"}},
		{name: "No match", filters: map[string]string{"difficulty": "grandmaster"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exercises, err := repo.FindWithFilters(ctx, tt.filters)
			require.NoError(t, err)

			names := make([]string, 0, len(exercises))
			for _, e := range exercises {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestExerciseRepository_FindWithFilters_UnknownKey(t *testing.T) {
	repo := NewExerciseRepository(testutil.NewTestDB(t))

	_, err := repo.FindWithFilters(context.Background(), map[string]string{"name; DROP TABLE exercises": "x"})
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestExerciseRepository_Upsert_UpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewExerciseRepository(testutil.NewTestDB(t))
	seedCatalog(t, repo)

	_, err := repo.Upsert(ctx, []models.Exercise{
		{Name: "Plank", SetsType: models.SetsTypeTime, Difficulty: models.DifficultyBeginner, MuscleGroup: "core", BodyRegion: models.BodyRegionMid},
	})
	require.NoError(t, err)

	exercise, err := repo.FindByName(ctx, "Plank")
	require.NoError(t, err)
	assert.Equal(t, "core", exercise.MuscleGroup)
	assert.Equal(t, models.DifficultyBeginner, exercise.Difficulty)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	found, err := repo.FindByNames(ctx, []string{"Plank", "Push Up", "Lunge"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Contains(t, found, "Push Up")
}

func TestExerciseRepository_Upsert_Invalid(t *testing.T) {
	repo := NewExerciseRepository(testutil.NewTestDB(t))

	_, err := repo.Upsert(context.Background(), []models.Exercise{{Name: "Mystery", SetsType: "laps"}})
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}
