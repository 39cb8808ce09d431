package database

import (
	"fmt"
	"time"

	"github.com/AlbertoMK/tier-app/internal/config"
	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), NewGormConfig(cfg.AppEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

// NewGormConfig returns the gorm settings shared by the server, the import
// tool and the tests. Driver errors are translated so unique violations
// arrive as gorm.ErrDuplicatedKey.
func NewGormConfig(appEnv string) *gorm.Config {
	logLevel := gormlogger.Error
	if appEnv == "development" {
		logLevel = gormlogger.Info
	}

	return &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Desugar()),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Exercise{},
		&models.Routine{},
		&models.RoutineExercise{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedExercises inserts the built-in catalog. Existing names are left alone.
func SeedExercises(db *gorm.DB) error {
	logger.Info("Checking exercise catalog...")

	exercises := DefaultExercises()
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&exercises)
	if result.Error != nil {
		return fmt.Errorf("failed to seed exercises: %w", result.Error)
	}

	logger.Info("Exercise catalog seeded", "inserted", result.RowsAffected)
	return nil
}

// DefaultExercises is the catalog a fresh installation starts with.
func DefaultExercises() []models.Exercise {
	return []models.Exercise{
		{Name: "Back Squat", SetsType: models.SetsTypeWeightedRepetitions, Difficulty: models.DifficultyIntermediate, MuscleGroup: "quadriceps", Equipment: "barbell", Arm: models.ArmNone, BodyRegion: models.BodyRegionLower},
		{Name: "Deadlift", SetsType: models.SetsTypeWeightedRepetitions, Difficulty: models.DifficultyAdvanced, MuscleGroup: "hamstrings", Equipment: "barbell", Arm: models.ArmDouble, Grip: "overhand", BodyRegion: models.BodyRegionFull},
		{Name: "Bench Press", SetsType: models.SetsTypeWeightedRepetitions, Difficulty: models.DifficultyBeginner, MuscleGroup: "chest", Equipment: "barbell", Arm: models.ArmDouble, Grip: "overhand", BodyRegion: models.BodyRegionUpper},
		{Name: "Dumbbell Row", SetsType: models.SetsTypeWeightedRepetitions, Difficulty: models.DifficultyBeginner, MuscleGroup: "lats", Equipment: "dumbbell", Arm: models.ArmSingle, Grip: "neutral", BodyRegion: models.BodyRegionUpper},
		{Name: "Pull Up", SetsType: models.SetsTypeRepetitions, Difficulty: models.DifficultyIntermediate, MuscleGroup: "lats", Equipment: "bodyweight", Arm: models.ArmDouble, Grip: "overhand", BodyRegion: models.BodyRegionUpper},
		{Name: "Push Up", SetsType: models.SetsTypeRepetitions, Difficulty: models.DifficultyNovice, MuscleGroup: "chest", Equipment: "bodyweight", Arm: models.ArmDouble, BodyRegion: models.BodyRegionUpper},
		{Name: "Plank", SetsType: models.SetsTypeTime, Difficulty: models.DifficultyNovice, MuscleGroup: "abdominals", Equipment: "bodyweight", Arm: models.ArmNone, BodyRegion: models.BodyRegionMid},
		{Name: "Running", SetsType: models.SetsTypeTimeDistance, Difficulty: models.DifficultyNovice, MuscleGroup: "cardio", Equipment: "none", Arm: models.ArmNone, BodyRegion: models.BodyRegionFull},
	}
}
