package services

import (
	"context"
	"fmt"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/internal/security"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"github.com/AlbertoMK/tier-app/pkg/logger"
)

type RoutineStore interface {
	Create(ctx context.Context, routine *models.Routine) error
	FindByID(ctx context.Context, id uint) (*models.Routine, error)
	FindByOwner(ctx context.Context, owner string) ([]models.Routine, error)
	UpdateName(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
	AddExercise(ctx context.Context, routineID uint, entry *models.RoutineExercise) error
	RemoveExercise(ctx context.Context, routineID uint, position int) error
	CountByOwner(ctx context.Context, owner string) (int64, error)
	FindPopularNames(ctx context.Context, limit int) ([]models.PopularRoutine, error)
}

type ExerciseCatalog interface {
	FindByName(ctx context.Context, name string) (*models.Exercise, error)
	FindByNames(ctx context.Context, names []string) (map[string]*models.Exercise, error)
	FindWithFilters(ctx context.Context, filters map[string]string) ([]models.Exercise, error)
}

// FriendChecker answers whether two users are friends.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

// RoutineEntry is an exercise with its planned sets, as submitted by a user.
type RoutineEntry struct {
	ExerciseName string       `json:"exercise_name"`
	Sets         []models.Set `json:"sets"`
}

const (
	routineNameMaxLength = 100
	defaultPopularLimit  = 10
)

type RoutineService struct {
	routines  RoutineStore
	exercises ExerciseCatalog
	friends   FriendChecker
}

func NewRoutineService(routines RoutineStore, exercises ExerciseCatalog, friends FriendChecker) *RoutineService {
	return &RoutineService{
		routines:  routines,
		exercises: exercises,
		friends:   friends,
	}
}

// ListExercises returns the catalog entries matching filters
func (s *RoutineService) ListExercises(ctx context.Context, filters map[string]string) ([]models.Exercise, error) {
	return s.exercises.FindWithFilters(ctx, filters)
}

func (s *RoutineService) GetExercise(ctx context.Context, name string) (*models.Exercise, error) {
	return s.exercises.FindByName(ctx, name)
}

// CreateRoutine stores a new routine for owner. Every entry must name a
// catalog exercise and carry sets valid for its sets type.
func (s *RoutineService) CreateRoutine(ctx context.Context, owner, name string, entries []RoutineEntry) (*models.Routine, error) {
	name = security.CleanDisplayText(name, routineNameMaxLength)
	if name == "" {
		return nil, missingField("routine_name")
	}

	routine := &models.Routine{Name: name, Owner: owner}
	for i, entry := range entries {
		if _, err := s.validateEntry(ctx, entry); err != nil {
			return nil, err
		}
		routine.Exercises = append(routine.Exercises, models.RoutineExercise{
			Position:     i + 1,
			ExerciseName: entry.ExerciseName,
			Sets:         entry.Sets,
		})
	}

	if err := s.routines.Create(ctx, routine); err != nil {
		return nil, err
	}

	logger.Info("Routine created", "owner", owner, "routine_id", routine.ID)
	return s.load(ctx, routine.ID)
}

// GetRoutine returns one of caller's routines with catalog data attached.
func (s *RoutineService) GetRoutine(ctx context.Context, caller string, id uint) (*models.Routine, error) {
	routine, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachExercises(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// ListRoutines returns all of owner's routines with catalog data attached.
func (s *RoutineService) ListRoutines(ctx context.Context, owner string) ([]models.Routine, error) {
	routines, err := s.routines.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range routines {
		if err := s.attachExercises(ctx, &routines[i]); err != nil {
			return nil, err
		}
	}
	return routines, nil
}

func (s *RoutineService) RenameRoutine(ctx context.Context, caller string, id uint, name string) (*models.Routine, error) {
	name = security.CleanDisplayText(name, routineNameMaxLength)
	if name == "" {
		return nil, missingField("routine_name")
	}
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	if err := s.routines.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *RoutineService) DeleteRoutine(ctx context.Context, caller string, id uint) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.routines.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Routine deleted", "owner", caller, "routine_id", id)
	return nil
}

// AddExercise appends an entry at the end of the routine.
func (s *RoutineService) AddExercise(ctx context.Context, caller string, id uint, entry RoutineEntry) (*models.Routine, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	if _, err := s.validateEntry(ctx, entry); err != nil {
		return nil, err
	}

	err := s.routines.AddExercise(ctx, id, &models.RoutineExercise{
		ExerciseName: entry.ExerciseName,
		Sets:         entry.Sets,
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// RemoveExercise drops the entry at position. Other positions are unchanged.
func (s *RoutineService) RemoveExercise(ctx context.Context, caller string, id uint, position int) (*models.Routine, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	if err := s.routines.RemoveExercise(ctx, id, position); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *RoutineService) CountRoutines(ctx context.Context, owner string) (int64, error) {
	return s.routines.CountByOwner(ctx, owner)
}

// ListPopular returns the most used routine names across all users.
func (s *RoutineService) ListPopular(ctx context.Context, limit int) ([]models.PopularRoutine, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	return s.routines.FindPopularNames(ctx, limit)
}

// ShareWithFriend copies one of owner's routines into friend's account.
func (s *RoutineService) ShareWithFriend(ctx context.Context, owner string, id uint, friend string) (*models.Routine, error) {
	if friend == "" {
		return nil, missingField("friend")
	}
	if friend == owner {
		return nil, errors.New(errors.ErrCodeSelfRequest, "Cannot share a routine with yourself")
	}

	source, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.friends.AreFriends(ctx, owner, friend)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNoFriendship, "Users are not friends")
	}

	sourceID := source.ID
	copied := &models.Routine{
		Name:       source.Name,
		Owner:      friend,
		CopiedFrom: &sourceID,
	}
	for _, entry := range source.Exercises {
		copied.Exercises = append(copied.Exercises, models.RoutineExercise{
			Position:     entry.Position,
			ExerciseName: entry.ExerciseName,
			Sets:         entry.Sets,
		})
	}

	if err := s.routines.Create(ctx, copied); err != nil {
		return nil, err
	}

	logger.Info("Routine shared", "owner", owner, "friend", friend, "routine_id", id, "copy_id", copied.ID)
	return s.load(ctx, copied.ID)
}

// owned loads routine id and checks it belongs to caller.
func (s *RoutineService) owned(ctx context.Context, caller string, id uint) (*models.Routine, error) {
	routine, err := s.routines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if routine.Owner != caller {
		return nil, errors.New(errors.ErrCodeForbidden, "Routine belongs to another user")
	}
	return routine, nil
}

func (s *RoutineService) load(ctx context.Context, id uint) (*models.Routine, error) {
	routine, err := s.routines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachExercises(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// attachExercises resolves every entry to its catalog exercise.
func (s *RoutineService) attachExercises(ctx context.Context, routine *models.Routine) error {
	names := make([]string, 0, len(routine.Exercises))
	for _, entry := range routine.Exercises {
		names = append(names, entry.ExerciseName)
	}

	catalog, err := s.exercises.FindByNames(ctx, names)
	if err != nil {
		return err
	}

	for i := range routine.Exercises {
		routine.Exercises[i].Exercise = catalog[routine.Exercises[i].ExerciseName]
	}
	return nil
}

func (s *RoutineService) validateEntry(ctx context.Context, entry RoutineEntry) (*models.Exercise, error) {
	if entry.ExerciseName == "" {
		return nil, missingField("exercise_name")
	}

	exercise, err := s.exercises.FindByName(ctx, entry.ExerciseName)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeNotFound, "Exercise not found: "+entry.ExerciseName)
		}
		return nil, err
	}

	for i, set := range entry.Sets {
		if !set.Valid(exercise.SetsType) {
			return nil, errors.New(errors.ErrCodeValidation,
				fmt.Sprintf("Set %d of %s is not valid for %s", i+1, exercise.Name, exercise.SetsType))
		}
	}

	return exercise, nil
}
