package repositories

import (
	"context"
	stderrors "errors"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoutineRepository struct {
	db *gorm.DB
}

func NewRoutineRepository(db *gorm.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return withinTransaction(ctx, r.db, fn)
}

// Create stores a routine together with its exercise entries
func (r *RoutineRepository) Create(ctx context.Context, routine *models.Routine) error {
	if err := conn(ctx, r.db).Create(routine).Error; err != nil {
		if stderrors.Is(err, gorm.ErrInvalidData) {
			return errors.Wrap(err, errors.ErrCodeValidation, "invalid routine data")
		}
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeValidation, "Routine entry positions must be unique")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create routine")
	}
	return nil
}

func orderedEntries(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID loads a routine and its entries in position order
func (r *RoutineRepository) FindByID(ctx context.Context, id uint) (*models.Routine, error) {
	var routine models.Routine
	err := conn(ctx, r.db).
		Preload("Exercises", orderedEntries).
		First(&routine, id).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "Routine not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get routine")
	}

	return &routine, nil
}

// FindByOwner lists a user's routines, oldest first
func (r *RoutineRepository) FindByOwner(ctx context.Context, owner string) ([]models.Routine, error) {
	routines := []models.Routine{}
	err := conn(ctx, r.db).
		Preload("Exercises", orderedEntries).
		Where("owner = ?", owner).
		Order("id ASC").
		Find(&routines).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list routines")
	}

	return routines, nil
}

// UpdateName renames a routine
func (r *RoutineRepository) UpdateName(ctx context.Context, id uint, name string) error {
	result := conn(ctx, r.db).Model(&models.Routine{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to rename routine")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "Routine not found")
	}
	return nil
}

// Delete removes a routine and its entries
func (r *RoutineRepository) Delete(ctx context.Context, id uint) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := conn(ctx, r.db)

		if err := tx.Where("routine_id = ?", id).Delete(&models.RoutineExercise{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete routine entries")
		}

		result := tx.Delete(&models.Routine{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete routine")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotFound, "Routine not found")
		}
		return nil
	})
}

// AddExercise appends entry after the routine's last position. On postgres the
// routine row is locked first so concurrent appends take turns.
func (r *RoutineRepository) AddExercise(ctx context.Context, routineID uint, entry *models.RoutineExercise) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := conn(ctx, r.db)

		if tx.Dialector.Name() == "postgres" {
			var locked models.Routine
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("id = ?", routineID).
				Take(&locked).Error
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.ErrCodeNotFound, "Routine not found")
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock routine")
			}
		}

		var last int
		err := tx.Model(&models.RoutineExercise{}).
			Where("routine_id = ?", routineID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to read routine positions")
		}

		entry.ID = 0
		entry.RoutineID = routineID
		entry.Position = last + 1

		if err := tx.Create(entry).Error; err != nil {
			if stderrors.Is(err, gorm.ErrInvalidData) {
				return errors.Wrap(err, errors.ErrCodeValidation, "invalid routine entry")
			}
			if isUniqueViolation(err) {
				return errors.New(errors.ErrCodeAlreadyExists, "Routine changed while adding the exercise, try again")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add exercise to routine")
		}
		return nil
	})
}

// RemoveExercise deletes the entry at position. Remaining positions are kept.
func (r *RoutineRepository) RemoveExercise(ctx context.Context, routineID uint, position int) error {
	result := conn(ctx, r.db).
		Where("routine_id = ? AND position = ?", routineID, position).
		Delete(&models.RoutineExercise{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove exercise from routine")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "Routine entry not found")
	}
	return nil
}

// CountByOwner returns how many routines owner has
func (r *RoutineRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Routine{}).Where("owner = ?", owner).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count routines")
	}
	return count, nil
}

// FindPopularNames returns the most used routine names, most frequent first
func (r *RoutineRepository) FindPopularNames(ctx context.Context, limit int) ([]models.PopularRoutine, error) {
	popular := []models.PopularRoutine{}
	err := conn(ctx, r.db).Model(&models.Routine{}).
		Select("name, COUNT(*) AS count").
		Group("name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&popular).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list popular routines")
	}

	return popular, nil
}
