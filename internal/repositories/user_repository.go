package repositories

import (
	"context"
	stderrors "errors"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := conn(ctx, r.db).Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errors.New(errors.ErrCodeAlreadyExists, "Username is already taken")
		}
		if stderrors.Is(result.Error, gorm.ErrInvalidData) {
			return errors.Wrap(result.Error, errors.ErrCodeValidation, "invalid user data")
		}
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// FindByUsername retrieves a user by username. Matching is case-sensitive.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := conn(ctx, r.db).Where("username = ?", username).First(&user)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "User not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// FindByUsernames retrieves the users that exist among usernames, ordered by username
func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	users := []models.User{}
	if len(usernames) == 0 {
		return users, nil
	}

	err := conn(ctx, r.db).
		Where("username IN ?", usernames).
		Order("username ASC").
		Find(&users).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get users")
	}

	return users, nil
}

// FindAll retrieves every user ordered by username
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	if err := conn(ctx, r.db).Order("username ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list users")
	}

	return users, nil
}
