package models

import "testing"

func TestSet_Valid(t *testing.T) {
	tests := []struct {
		name     string
		set      Set
		setsType string
		want     bool
	}{
		{name: "Weighted reps", set: Set{Reps: 8, Weight: 60, SetType: SetTypeNormal}, setsType: SetsTypeWeightedRepetitions, want: true},
		{name: "Weighted reps without weight", set: Set{Reps: 8, SetType: SetTypeNormal}, setsType: SetsTypeWeightedRepetitions, want: false},
		{name: "Bodyweight reps", set: Set{Reps: 12, SetType: SetTypeWarmup}, setsType: SetsTypeRepetitions, want: true},
		{name: "Timed hold", set: Set{Duration: 60, SetType: SetTypeFailure}, setsType: SetsTypeTime, want: true},
		{name: "Run without distance", set: Set{Duration: 1200, SetType: SetTypeNormal}, setsType: SetsTypeTimeDistance, want: false},
		{name: "Run", set: Set{Duration: 1200, Distance: 5, SetType: SetTypeNormal}, setsType: SetsTypeTimeDistance, want: true},
		{name: "Unknown set type", set: Set{Reps: 5, SetType: "superset"}, setsType: SetsTypeRepetitions, want: false},
		{name: "Negative reps", set: Set{Reps: -1, SetType: SetTypeNormal}, setsType: SetsTypeRepetitions, want: false},
		{name: "Unknown sets type", set: Set{Reps: 5, SetType: SetTypeNormal}, setsType: "laps", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Valid(tt.setsType); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.setsType, got, tt.want)
			}
		})
	}
}

func TestRoutineExercise_SetsRoundTripThroughColumn(t *testing.T) {
	entry := &RoutineExercise{
		ExerciseName: "Back Squat",
		Sets: []Set{
			{Reps: 5, Weight: 100, SetType: SetTypeNormal},
			{Reps: 3, Weight: 110, SetType: SetTypeFailure},
		},
	}

	if err := entry.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave() error = %v", err)
	}

	loaded := &RoutineExercise{ExerciseName: entry.ExerciseName, SetsJSON: entry.SetsJSON}
	if err := loaded.AfterFind(nil); err != nil {
		t.Fatalf("AfterFind() error = %v", err)
	}

	if len(loaded.Sets) != 2 || loaded.Sets[1].Weight != 110 || loaded.Sets[1].SetType != SetTypeFailure {
		t.Errorf("Sets = %+v, want the two saved sets", loaded.Sets)
	}
}

func TestRoutineExercise_EmptySets(t *testing.T) {
	entry := &RoutineExercise{ExerciseName: "Plank"}
	if err := entry.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave() error = %v", err)
	}
	if entry.SetsJSON != "[]" {
		t.Errorf("SetsJSON = %q, want %q", entry.SetsJSON, "[]")
	}

	missingName := &RoutineExercise{}
	if err := missingName.BeforeSave(nil); err == nil {
		t.Error("BeforeSave() expected error for missing exercise name")
	}
}

func TestExercise_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		ex      Exercise
		wantErr bool
	}{
		{name: "Valid", ex: Exercise{Name: "Push Up", SetsType: SetsTypeRepetitions, Difficulty: DifficultyBeginner, BodyRegion: BodyRegionUpper}},
		{name: "Missing name", ex: Exercise{SetsType: SetsTypeRepetitions}, wantErr: true},
		{name: "Bad sets type", ex: Exercise{Name: "Push Up", SetsType: "reps"}, wantErr: true},
		{name: "Bad difficulty", ex: Exercise{Name: "Push Up", SetsType: SetsTypeRepetitions, Difficulty: "hard"}, wantErr: true},
		{name: "Bad arm", ex: Exercise{Name: "Curl", SetsType: SetsTypeWeightedRepetitions, Arm: "three_arm"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
