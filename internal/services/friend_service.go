package services

import (
	"context"
	"time"

	"github.com/AlbertoMK/tier-app/internal/metrics"
	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
	"github.com/AlbertoMK/tier-app/pkg/logger"
)

// Directory resolves usernames to accounts.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}

// FriendStore is the durable record of pending requests and friendships.
// Implementations must reject a second request for the same unordered pair
// with DUPLICATE_REQUEST and a second friendship with ALREADY_FRIENDS, and
// must report a missing row on delete with NO_PENDING_REQUEST or
// NO_EXISTING_FRIENDSHIP.
//
// AddFriendRequest must refuse with ALREADY_FRIENDS while the pair has a
// friendship. LockPair serializes writers of one pair for the rest of the
// transaction it is called in.
type FriendStore interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	LockPair(ctx context.Context, a, b string) error
	AddFriendRequest(ctx context.Context, requester, requested string, at time.Time) error
	DeleteFriendRequest(ctx context.Context, requester, requested string) error
	FindFriendRequestsByRequester(ctx context.Context, username string) ([]models.FriendRequest, error)
	FindFriendRequestsByRequested(ctx context.Context, username string) ([]models.FriendRequest, error)
	FindFriendRequestBetween(ctx context.Context, a, b string) (*models.FriendRequest, error)
	AddFriendship(ctx context.Context, a, b string) error
	DeleteFriendship(ctx context.Context, a, b string) error
	FindFriends(ctx context.Context, username string) ([]string, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

// PendingRequest is one side of a pending friend request as seen by a user.
type PendingRequest struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

const msgUsernamesNotFound = "Usernames not found"

// FriendService runs the friend request workflow:
//
//	NONE --send(A->B)--> PENDING(A->B) --accept--> FRIENDS
//	PENDING(A->B) --reject/remove--> NONE
//	FRIENDS --removeFriendship--> NONE
//
// It keeps no state of its own. Its checks are advisory; the pair lock, the
// store's unique indexes and its guarded request insert decide concurrent
// races.
type FriendService struct {
	directory Directory
	store     FriendStore
	now       func() time.Time
}

func NewFriendService(directory Directory, store FriendStore) *FriendService {
	return &FriendService{
		directory: directory,
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Send creates a pending request from requester to requested.
func (s *FriendService) Send(ctx context.Context, requester, requested string) (err error) {
	defer func() { s.record("send", err) }()

	if requested == "" {
		return missingField("requested")
	}
	if requester == requested {
		return errors.New(errors.ErrCodeSelfRequest, "Cannot send a friend request to yourself")
	}
	if err := s.requireUsers(ctx, requester, requested); err != nil {
		return err
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.LockPair(ctx, requester, requested); err != nil {
			return err
		}

		friends, err := s.store.AreFriends(ctx, requester, requested)
		if err != nil {
			return err
		}
		if friends {
			return alreadyFriends()
		}

		existing, err := s.store.FindFriendRequestBetween(ctx, requester, requested)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateRequest()
		}

		return s.store.AddFriendRequest(ctx, requester, requested, s.now())
	})
	if err != nil {
		return conflictError(err)
	}

	logger.Info("Friend request sent", "requester", requester, "requested", requested)
	return nil
}

// Accept turns the pending request requester -> requested into a friendship.
// The friendship is written before the request is deleted, in one
// transaction.
func (s *FriendService) Accept(ctx context.Context, requested, requester string) (err error) {
	defer func() { s.record("accept", err) }()

	if requester == "" {
		return missingField("requester")
	}
	if err := s.requireUsers(ctx, requested, requester); err != nil {
		return err
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.LockPair(ctx, requester, requested); err != nil {
			return err
		}
		if err := s.requirePending(ctx, requester, requested); err != nil {
			return err
		}
		if err := s.store.AddFriendship(ctx, requester, requested); err != nil {
			return err
		}
		return s.store.DeleteFriendRequest(ctx, requester, requested)
	})
	if err != nil {
		return conflictError(err)
	}

	logger.Info("Friend request accepted", "requester", requester, "requested", requested)
	return nil
}

// Reject drops the pending request requester -> requested.
func (s *FriendService) Reject(ctx context.Context, requested, requester string) (err error) {
	defer func() { s.record("reject", err) }()

	if requester == "" {
		return missingField("requester")
	}
	if err := s.requireUsers(ctx, requested, requester); err != nil {
		return err
	}

	if err := s.store.DeleteFriendRequest(ctx, requester, requested); err != nil {
		return conflictError(err)
	}

	logger.Info("Friend request rejected", "requester", requester, "requested", requested)
	return nil
}

// RemoveRequest cancels the caller's own outgoing request to counterpart.
func (s *FriendService) RemoveRequest(ctx context.Context, caller, counterpart string) (err error) {
	defer func() { s.record("remove_request", err) }()

	if counterpart == "" {
		return missingField("requested")
	}
	if err := s.requireUsers(ctx, caller, counterpart); err != nil {
		return err
	}

	if err := s.store.DeleteFriendRequest(ctx, caller, counterpart); err != nil {
		if errors.Is(err, errors.ErrCodeNoPendingRequest) {
			return errors.New(errors.ErrCodeNoExistingRequest, "There is no friend request to remove")
		}
		return err
	}

	logger.Info("Friend request removed", "requester", caller, "requested", counterpart)
	return nil
}

// ListIncoming returns the requests other users have sent to caller.
func (s *FriendService) ListIncoming(ctx context.Context, caller string) ([]PendingRequest, error) {
	requests, err := s.store.FindFriendRequestsByRequested(ctx, caller)
	if err != nil {
		s.logFailure("list_incoming", caller, err)
		return nil, err
	}

	pending := make([]PendingRequest, 0, len(requests))
	for _, r := range requests {
		pending = append(pending, PendingRequest{Username: r.Requester, CreatedAt: r.CreatedAt})
	}
	return pending, nil
}

// ListOutgoing returns the requests caller has sent and are still pending.
func (s *FriendService) ListOutgoing(ctx context.Context, caller string) ([]PendingRequest, error) {
	requests, err := s.store.FindFriendRequestsByRequester(ctx, caller)
	if err != nil {
		s.logFailure("list_outgoing", caller, err)
		return nil, err
	}

	pending := make([]PendingRequest, 0, len(requests))
	for _, r := range requests {
		pending = append(pending, PendingRequest{Username: r.Requested, CreatedAt: r.CreatedAt})
	}
	return pending, nil
}

// ListFriends returns the usernames caller is friends with.
func (s *FriendService) ListFriends(ctx context.Context, caller string) ([]string, error) {
	friends, err := s.store.FindFriends(ctx, caller)
	if err != nil {
		s.logFailure("list_friends", caller, err)
		return nil, err
	}
	return friends, nil
}

// ListFriendAccounts resolves caller's friends to their accounts. Friends
// whose account no longer exists are skipped.
func (s *FriendService) ListFriendAccounts(ctx context.Context, caller string) ([]models.User, error) {
	friends, err := s.ListFriends(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.directory.FindByUsernames(ctx, friends)
}

// AreFriends reports whether a and b have a confirmed friendship.
func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	return s.store.AreFriends(ctx, a, b)
}

// RemoveFriendship unfriends caller and friend.
func (s *FriendService) RemoveFriendship(ctx context.Context, caller, friend string) (err error) {
	defer func() { s.record("remove_friendship", err) }()

	if friend == "" {
		return missingField("friend")
	}

	if err := s.store.DeleteFriendship(ctx, caller, friend); err != nil {
		if errors.Is(err, errors.ErrCodeNoFriendship) {
			return errors.New(errors.ErrCodeNoFriendship, "Users are not friends")
		}
		return err
	}

	logger.Info("Friendship removed", "user", caller, "friend", friend)
	return nil
}

// requireUsers fails with the same NotFound message whichever user is
// missing.
func (s *FriendService) requireUsers(ctx context.Context, usernames ...string) error {
	for _, username := range usernames {
		if _, err := s.directory.FindByUsername(ctx, username); err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return errors.New(errors.ErrCodeNotFound, msgUsernamesNotFound)
			}
			return err
		}
	}
	return nil
}

// requirePending checks for the request in the exact requester -> requested
// direction.
func (s *FriendService) requirePending(ctx context.Context, requester, requested string) error {
	request, err := s.store.FindFriendRequestBetween(ctx, requester, requested)
	if err != nil {
		return err
	}
	if request == nil || request.Requester != requester {
		return noPendingRequest()
	}
	return nil
}

func (s *FriendService) record(operation string, err error) {
	metrics.RecordFriendOperation(operation, err)
	if err != nil {
		s.logFailure(operation, "", err)
	}
}

func (s *FriendService) logFailure(operation, username string, err error) {
	if errors.CodeOf(err) == errors.ErrCodeInternalError {
		logger.Error("Friend operation failed", "operation", operation, "username", username, "error", err)
		return
	}
	logger.Debug("Friend operation refused", "operation", operation, "code", errors.CodeOf(err))
}

func missingField(name string) error {
	return errors.New(errors.ErrCodeMissingField, "Missing attribute: "+name)
}

func noPendingRequest() error {
	return errors.New(errors.ErrCodeNoPendingRequest, "There is no pending friend request from this user")
}

func alreadyFriends() error {
	return errors.New(errors.ErrCodeAlreadyFriends, "Users are already friends")
}

func duplicateRequest() error {
	return errors.New(errors.ErrCodeDuplicateRequest, "A friend request between these users already exists")
}

// conflictError replaces the store's wording for a lost race with the
// message the same refusal gets on the normal path.
func conflictError(err error) error {
	switch errors.CodeOf(err) {
	case errors.ErrCodeNoPendingRequest:
		return noPendingRequest()
	case errors.ErrCodeAlreadyFriends:
		return alreadyFriends()
	case errors.ErrCodeDuplicateRequest:
		return duplicateRequest()
	}
	return err
}
