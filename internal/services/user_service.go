package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/internal/security"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"github.com/AlbertoMK/tier-app/pkg/logger"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
}

// SessionTokens issues and verifies opaque session tokens bound to a username.
type SessionTokens interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

const msgInvalidToken = "Token not valid or not present"

type UserService struct {
	users  UserStore
	tokens SessionTokens
	now    func() time.Time
}

func NewUserService(users UserStore, tokens SessionTokens) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates an account after checking the username and password
// policy. The password is stored as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, username, password string, dateOfBirth time.Time) (*models.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, missingField("username")
	}
	if password == "" {
		return nil, missingField("password")
	}
	if n := utf8.RuneCountInString(username); n < models.UsernameMinLength {
		return nil, errors.New(errors.ErrCodeValidation, "Username too short. Min 5 characters")
	} else if n > models.UsernameMaxLength {
		return nil, errors.New(errors.ErrCodeValidation, "Username too long. Max 30 characters")
	}
	if utf8.RuneCountInString(password) < models.PasswordMinLength {
		return nil, errors.New(errors.ErrCodeValidation, "Password too short. Min 8 characters")
	}
	if dateOfBirth.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "Users need to indicate its date of birth.")
	}
	if dateOfBirth.After(s.now()) {
		return nil, errors.New(errors.ErrCodeValidation, "Date of birth cannot be in the future")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		DateOfBirth:  dateOfBirth,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "username", username)
	return user, nil
}

// Login checks the credentials and returns a new session token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", missingField("username")
	}
	if password == "" {
		return "", missingField("password")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return "", errors.New(errors.ErrCodeNotFound, "Username not found")
		}
		return "", err
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Login failed", "username", username)
		return "", errors.New(errors.ErrCodeUnauthorized, "Incorrect password for given username")
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue session token")
	}

	logger.Info("User logged in", "username", username)
	return token, nil
}

// Authenticate resolves a session token to the username it was issued for.
// Tokens of deleted accounts are refused.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, msgInvalidToken)
	}

	username, err := s.tokens.Verify(token)
	if err != nil {
		logger.Debug("Rejected session token", "error", err)
		return "", errors.New(errors.ErrCodeUnauthorized, msgInvalidToken)
	}

	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return "", errors.New(errors.ErrCodeUnauthorized, msgInvalidToken)
		}
		return "", err
	}

	return username, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeNotFound, "Username not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}
