package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Routine struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Name       string            `gorm:"type:varchar(100);not null" json:"routine_name"`
	Owner      string            `gorm:"type:varchar(30);not null;index" json:"owner"`
	CopiedFrom *uint             `gorm:"index" json:"copied_from,omitempty"`
	Exercises  []RoutineExercise `gorm:"foreignKey:RoutineID;constraint:OnDelete:CASCADE" json:"exercise_sets"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Routine) TableName() string {
	return "routines"
}

// RoutineExercise is one ordered entry of a routine. Sets are persisted as
// JSON text and the catalog Exercise is attached on read. A position is used
// at most once per routine.
type RoutineExercise struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	RoutineID    uint      `gorm:"not null;index:idx_routine_entry_position,unique" json:"-"`
	Position     int       `gorm:"not null;index:idx_routine_entry_position,unique" json:"position"`
	ExerciseName string    `gorm:"type:varchar(100);not null" json:"exercise_name"`
	SetsJSON     string    `gorm:"column:sets;type:text;default:'[]'" json:"-"`
	Sets         []Set     `gorm:"-" json:"sets"`
	Exercise     *Exercise `gorm:"-" json:"exercise,omitempty"`
}

func (RoutineExercise) TableName() string {
	return "routine_exercises"
}

// BeforeSave serializes Sets into the sets column.
func (re *RoutineExercise) BeforeSave(tx *gorm.DB) error {
	if re.ExerciseName == "" {
		return gorm.ErrInvalidData
	}
	sets := re.Sets
	if sets == nil {
		sets = []Set{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return err
	}
	re.SetsJSON = string(data)
	return nil
}

// AfterFind restores Sets from the sets column.
func (re *RoutineExercise) AfterFind(tx *gorm.DB) error {
	re.Sets = []Set{}
	if re.SetsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(re.SetsJSON), &re.Sets)
}

type Set struct {
	Reps     int     `json:"reps,omitempty"`
	Weight   float64 `json:"weight,omitempty"`   // kg
	Distance float64 `json:"distance,omitempty"` // km
	Duration int     `json:"duration,omitempty"` // seconds
	SetType  string  `json:"set_type"`
}

const (
	SetTypeWarmup  = "warmup"
	SetTypeFailure = "failure"
	SetTypeNormal  = "normal"
	SetTypeDropset = "dropset"
)

var validSetTypes = map[string]bool{
	SetTypeWarmup:  true,
	SetTypeFailure: true,
	SetTypeNormal:  true,
	SetTypeDropset: true,
}

// Valid reports whether the set carries the measurements its exercise's sets
// type requires.
func (s Set) Valid(setsType string) bool {
	if !validSetTypes[s.SetType] {
		return false
	}
	if s.Reps < 0 || s.Weight < 0 || s.Distance < 0 || s.Duration < 0 {
		return false
	}
	switch setsType {
	case SetsTypeWeightedRepetitions:
		return s.Reps > 0 && s.Weight > 0
	case SetsTypeRepetitions:
		return s.Reps > 0
	case SetsTypeTime:
		return s.Duration > 0
	case SetsTypeTimeDistance:
		return s.Duration > 0 && s.Distance > 0
	}
	return false
}

// PopularRoutine is a routine name with the number of routines using it.
type PopularRoutine struct {
	Name  string `json:"routine_name"`
	Count int64  `json:"count"`
}
