package repositories

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// FindByName retrieves a catalog exercise by its exact name
func (r *ExerciseRepository) FindByName(ctx context.Context, name string) (*models.Exercise, error) {
	var exercise models.Exercise
	err := conn(ctx, r.db).Where("name = ?", name).First(&exercise).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "Exercise not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get exercise")
	}

	return &exercise, nil
}

// FindByNames returns the exercises among names that exist, keyed by name
func (r *ExerciseRepository) FindByNames(ctx context.Context, names []string) (map[string]*models.Exercise, error) {
	found := make(map[string]*models.Exercise, len(names))
	if len(names) == 0 {
		return found, nil
	}

	var exercises []models.Exercise
	if err := conn(ctx, r.db).Where("name IN ?", names).Find(&exercises).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get exercises")
	}

	for i := range exercises {
		found[exercises[i].Name] = &exercises[i]
	}
	return found, nil
}

// FindWithFilters lists exercises matching every filter. Keys are the
// catalog's JSON attribute names; an unknown key is a validation error.
func (r *ExerciseRepository) FindWithFilters(ctx context.Context, filters map[string]string) ([]models.Exercise, error) {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		if _, ok := models.ExerciseFilterColumns[key]; !ok {
			return nil, errors.New(errors.ErrCodeValidation, "Unknown exercise filter: "+key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	query := conn(ctx, r.db).Model(&models.Exercise{})
	for _, key := range keys {
		query = query.Where(clause.Eq{Column: clause.Column{Name: models.ExerciseFilterColumns[key]}, Value: filters[key]})
	}

	exercises := []models.Exercise{}
	if err := query.Order("name ASC").Find(&exercises).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list exercises")
	}

	return exercises, nil
}

// FindAll lists the whole catalog ordered by name
func (r *ExerciseRepository) FindAll(ctx context.Context) ([]models.Exercise, error) {
	return r.FindWithFilters(ctx, nil)
}

// Upsert inserts exercises, overwriting the attributes of names that already
// exist. Returns the number of rows written.
func (r *ExerciseRepository) Upsert(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sets_type", "difficulty", "muscle_group", "equipment", "arm", "grip", "body_region", "updated_at",
		}),
	}).Create(&exercises)

	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrInvalidData) {
			return 0, errors.Wrap(result.Error, errors.ErrCodeValidation, "invalid exercise data")
		}
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to save exercises")
	}

	return result.RowsAffected, nil
}

// Count returns the catalog size
func (r *ExerciseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Exercise{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count exercises")
	}
	return count, nil
}
