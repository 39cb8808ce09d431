package database_test

import (
	"testing"

	"github.com/AlbertoMK/tier-app/internal/database"
	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedExercises_IsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedExercises(db))
	require.NoError(t, database.SeedExercises(db))

	var count int64
	require.NoError(t, db.Model(&models.Exercise{}).Count(&count).Error)
	assert.EqualValues(t, len(database.DefaultExercises()), count)
}

func TestSeedExercises_KeepsExistingRows(t *testing.T) {
	db := testutil.NewTestDB(t)

	custom := models.Exercise{Name: "Plank", SetsType: models.SetsTypeTime, MuscleGroup: "core"}
	require.NoError(t, db.Create(&custom).Error)
	require.NoError(t, database.SeedExercises(db))

	var plank models.Exercise
	require.NoError(t, db.Where("name = ?", "Plank").First(&plank).Error)
	assert.Equal(t, "core", plank.MuscleGroup)
}

func TestDefaultExercises_AreValid(t *testing.T) {
	for _, exercise := range database.DefaultExercises() {
		assert.NoError(t, exercise.Validate(), exercise.Name)
	}
}

func TestNewGormConfig(t *testing.T) {
	tests := []struct {
		env string
	}{
		{env: "development"},
		{env: "production"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := database.NewGormConfig(tt.env)
			assert.True(t, cfg.TranslateError)
			assert.NotNil(t, cfg.Logger)
			assert.Equal(t, "UTC", cfg.NowFunc().Location().String())
		})
	}
}
