package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"gorm.io/gorm"
)

// FriendRepository persists pending friend requests and confirmed
// friendships. Pair uniqueness is enforced by unique indexes and a request is
// only inserted while no friendship exists, so a lost race surfaces as
// DUPLICATE_REQUEST or ALREADY_FRIENDS.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// WithinTransaction runs fn atomically; repository calls made with the ctx
// passed to fn share the transaction.
func (r *FriendRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return withinTransaction(ctx, r.db, fn)
}

// LockPair serializes writers touching the unordered pair a, b until the
// surrounding transaction ends. On postgres this is a transaction-scoped
// advisory lock; sqlite already serializes write transactions.
func (r *FriendRepository) LockPair(ctx context.Context, a, b string) error {
	tx := conn(ctx, r.db)
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	low, high := models.OrderedPair(a, b)
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))", low, high).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock friend pair")
	}
	return nil
}

// AddFriendRequest stores a pending request from requester to requested. The
// insert only happens while the pair has no friendship, so a request can never
// coexist with a friendship for the same pair.
func (r *FriendRepository) AddFriendRequest(ctx context.Context, requester, requested string, at time.Time) error {
	if requester == "" || requested == "" || requester == requested {
		return errors.Wrap(gorm.ErrInvalidData, errors.ErrCodeValidation, "invalid friend request")
	}
	request := models.NewFriendRequest(requester, requested, at)

	result := conn(ctx, r.db).Exec(
		`INSERT INTO friend_requests (requester, requested, pair_low, pair_high, created_at)
		SELECT ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM friendships WHERE user_low = ? AND user_high = ?)`,
		request.Requester, request.Requested, request.PairLow, request.PairHigh, request.CreatedAt,
		request.PairLow, request.PairHigh,
	)

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errors.New(errors.ErrCodeDuplicateRequest, "a friend request between these users already exists")
		}
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create friend request")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyFriends, "users are already friends")
	}

	return nil
}

// DeleteFriendRequest removes the request in the exact requester -> requested direction
func (r *FriendRepository) DeleteFriendRequest(ctx context.Context, requester, requested string) error {
	result := conn(ctx, r.db).
		Where("requester = ? AND requested = ?", requester, requested).
		Delete(&models.FriendRequest{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete friend request")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNoPendingRequest, "friend request not found")
	}

	return nil
}

// FindFriendRequestsByRequester lists requests the user has sent
func (r *FriendRepository) FindFriendRequestsByRequester(ctx context.Context, username string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := conn(ctx, r.db).
		Where("requester = ?", username).
		Order("created_at ASC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get outgoing friend requests")
	}

	return requests, nil
}

// FindFriendRequestsByRequested lists requests the user has received
func (r *FriendRepository) FindFriendRequestsByRequested(ctx context.Context, username string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := conn(ctx, r.db).
		Where("requested = ?", username).
		Order("created_at ASC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get incoming friend requests")
	}

	return requests, nil
}

// FindFriendRequestBetween returns the pending request for the unordered
// pair, in whichever direction it was sent, or nil.
func (r *FriendRepository) FindFriendRequestBetween(ctx context.Context, a, b string) (*models.FriendRequest, error) {
	low, high := models.OrderedPair(a, b)

	var requests []models.FriendRequest
	err := conn(ctx, r.db).
		Where("pair_low = ? AND pair_high = ?", low, high).
		Limit(1).
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check existing friend request")
	}
	if len(requests) == 0 {
		return nil, nil
	}

	return &requests[0], nil
}

// AddFriendship records a confirmed friendship
func (r *FriendRepository) AddFriendship(ctx context.Context, a, b string) error {
	if err := conn(ctx, r.db).Create(models.NewFriendship(a, b)).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeAlreadyFriends, "users are already friends")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friendship")
	}
	return nil
}

// DeleteFriendship removes a friendship
func (r *FriendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	low, high := models.OrderedPair(a, b)

	result := conn(ctx, r.db).
		Where("user_low = ? AND user_high = ?", low, high).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNoFriendship, "friendship not found")
	}

	return nil
}

// FindFriends returns the usernames of user's friends, sorted
func (r *FriendRepository) FindFriends(ctx context.Context, username string) ([]string, error) {
	var friendships []models.Friendship

	err := conn(ctx, r.db).
		Where("user_low = ? OR user_high = ?", username, username).
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	friends := make([]string, 0, len(friendships))
	for i := range friendships {
		friends = append(friends, friendships[i].Other(username))
	}
	sort.Strings(friends)

	return friends, nil
}

// AreFriends checks if two users are friends
func (r *FriendRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	low, high := models.OrderedPair(a, b)

	var count int64
	err := conn(ctx, r.db).Model(&models.Friendship{}).
		Where("user_low = ? AND user_high = ?", low, high).
		Count(&count).Error

	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}
