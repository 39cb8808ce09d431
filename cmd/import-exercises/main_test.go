package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseExerciseRows(t *testing.T) {
	rows := [][]string{
		{"Name", "Sets_Type", "Difficulty", "Muscle_Group", "Equipment", "Arm", "Grip", "Body_Region"},
		{"Goblet Squat", "weighted_repetitions", "Beginner", "quadriceps", "kettlebell", "double_arm", "", "lower_body"},
		{"Side Plank", "time", "novice", "obliques", "bodyweight", "one_arm"},
		{"", "", ""},
		{"Mystery", "laps", "", "", "", "", "", ""},
		{"Goblet Squat", "weighted_repetitions"},
		{"", "time"},
	}

	exercises, errs := parseExerciseRows("Legs", rows)

	require.Len(t, exercises, 2)
	assert.Equal(t, "Goblet Squat", exercises[0].Name)
	assert.Equal(t, models.DifficultyBeginner, exercises[0].Difficulty)
	assert.Equal(t, models.BodyRegionLower, exercises[0].BodyRegion)
	assert.Equal(t, "Side Plank", exercises[1].Name)
	assert.Equal(t, "", exercises[1].BodyRegion, "short rows leave trailing columns empty")

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "row 5")
	assert.Contains(t, errs[1].Error(), "duplicate")
	assert.Contains(t, errs[2].Error(), "missing exercise name")
}

func TestParseExerciseRows_MissingColumns(t *testing.T) {
	_, errs := parseExerciseRows("Sheet1", [][]string{{"difficulty", "sets_type"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "exercise_name")

	exercises, errs := parseExerciseRows("Sheet1", nil)
	assert.Empty(t, exercises)
	assert.Empty(t, errs)
}

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"exercise_name", "sets_type", "muscle_group"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Burpee", "repetitions", "full"}))

	_, err := f.NewSheet("Cardio")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Cardio", "A1", &[]interface{}{"exercise_name", "sets_type"}))
	require.NoError(t, f.SetSheetRow("Cardio", "A2", &[]interface{}{"Rowing", "time_distance"}))
	require.NoError(t, f.SetSheetRow("Cardio", "A3", &[]interface{}{"Cycling", "time_distance"}))

	path := filepath.Join(t.TempDir(), "exercises.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t)

	exercises, errs, err := readWorkbook(path, "")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Len(t, exercises, 3)

	exercises, _, err = readWorkbook(path, "Cardio")
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	assert.Equal(t, "Rowing", exercises[0].Name)

	_, _, err = readWorkbook(path, "Nope")
	assert.Error(t, err)

	_, _, err = readWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}

func TestRootCmd_DryRun(t *testing.T) {
	path := writeWorkbook(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{path, "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Parsed 3 exercises (0 rows skipped).")
}
