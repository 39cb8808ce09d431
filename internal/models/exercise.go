package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Exercise struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"exercise_name"`
	SetsType    string    `gorm:"type:varchar(30);not null;index" json:"sets_type"`
	Difficulty  string    `gorm:"type:varchar(20);index" json:"difficulty,omitempty"`
	MuscleGroup string    `gorm:"type:varchar(30);index" json:"muscle_group,omitempty"`
	Equipment   string    `gorm:"type:varchar(30);index" json:"equipment,omitempty"`
	Arm         string    `gorm:"type:varchar(20)" json:"arm,omitempty"`
	Grip        string    `gorm:"type:varchar(30)" json:"grip,omitempty"`
	BodyRegion  string    `gorm:"type:varchar(20);index" json:"body_region,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

// How an exercise's sets are measured
const (
	SetsTypeWeightedRepetitions = "weighted_repetitions"
	SetsTypeRepetitions         = "repetitions"
	SetsTypeTime                = "time"
	SetsTypeTimeDistance        = "time_distance"
)

const (
	DifficultyNovice       = "novice"
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
	DifficultyLegendary    = "legendary"
	DifficultyMaster       = "master"
	DifficultyGrandmaster  = "grandmaster"
)

const (
	BodyRegionLower = "lower_body"
	BodyRegionMid   = "mid_section"
	BodyRegionUpper = "upper_body"
	BodyRegionFull  = "full_body"
)

const (
	ArmNone   = "no_arm"
	ArmSingle = "one_arm"
	ArmDouble = "double_arm"
)

var validSetsTypes = map[string]bool{
	SetsTypeWeightedRepetitions: true,
	SetsTypeRepetitions:         true,
	SetsTypeTime:                true,
	SetsTypeTimeDistance:        true,
}

var validDifficulties = map[string]bool{
	"":                     true,
	DifficultyNovice:       true,
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
	DifficultyExpert:       true,
	DifficultyLegendary:    true,
	DifficultyMaster:       true,
	DifficultyGrandmaster:  true,
}

var validBodyRegions = map[string]bool{
	"":              true,
	BodyRegionLower: true,
	BodyRegionMid:   true,
	BodyRegionUpper: true,
	BodyRegionFull:  true,
}

var validArms = map[string]bool{
	"":        true,
	ArmNone:   true,
	ArmSingle: true,
	ArmDouble: true,
}

// ExerciseFilterColumns maps catalog filter keys onto table columns.
var ExerciseFilterColumns = map[string]string{
	"exercise_name": "name",
	"sets_type":     "sets_type",
	"difficulty":    "difficulty",
	"muscle_group":  "muscle_group",
	"equipment":     "equipment",
	"arm":           "arm",
	"grip":          "grip",
	"body_region":   "body_region",
}

// Validate reports the first attribute outside its allowed values. The
// error wraps gorm.ErrInvalidData.
func (e *Exercise) Validate() error {
	switch {
	case e.Name == "":
		return fmt.Errorf("%w: exercise name is required", gorm.ErrInvalidData)
	case !validSetsTypes[e.SetsType]:
		return fmt.Errorf("%w: unknown sets type %q", gorm.ErrInvalidData, e.SetsType)
	case !validDifficulties[e.Difficulty]:
		return fmt.Errorf("%w: unknown difficulty %q", gorm.ErrInvalidData, e.Difficulty)
	case !validBodyRegions[e.BodyRegion]:
		return fmt.Errorf("%w: unknown body region %q", gorm.ErrInvalidData, e.BodyRegion)
	case !validArms[e.Arm]:
		return fmt.Errorf("%w: unknown arm %q", gorm.ErrInvalidData, e.Arm)
	}
	return nil
}

// BeforeSave hook for validation
func (e *Exercise) BeforeSave(tx *gorm.DB) error {
	return e.Validate()
}

func (Exercise) TableName() string {
	return "exercises"
}
