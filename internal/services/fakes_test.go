package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/pkg/errors"
)

type fakeDirectory struct {
	users map[string]models.User
	err   error
}

func newFakeDirectory(usernames ...string) *fakeDirectory {
	d := &fakeDirectory{users: map[string]models.User{}}
	for _, name := range usernames {
		d.users[name] = models.User{Username: name, DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	}
	return d
}

func (d *fakeDirectory) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	user, ok := d.users[username]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "User not found")
	}
	return &user, nil
}

func (d *fakeDirectory) FindByUsernames(_ context.Context, usernames []string) ([]models.User, error) {
	users := []models.User{}
	for _, name := range usernames {
		if user, ok := d.users[name]; ok {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

type pairKey struct{ low, high string }

func keyOf(a, b string) pairKey {
	low, high := models.OrderedPair(a, b)
	return pairKey{low, high}
}

// fakeFriendStore mirrors the repository contract in memory. Transactions
// snapshot the maps and restore them when fn fails.
type fakeFriendStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	requests    map[pairKey]models.FriendRequest
	friendships map[pairKey]bool
	failWith    error
	locks       int
}

func newFakeFriendStore() *fakeFriendStore {
	return &fakeFriendStore{
		requests:    map[pairKey]models.FriendRequest{},
		friendships: map[pairKey]bool{},
	}
}

func (f *fakeFriendStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	requests := make(map[pairKey]models.FriendRequest, len(f.requests))
	for k, v := range f.requests {
		requests[k] = v
	}
	friendships := make(map[pairKey]bool, len(f.friendships))
	for k, v := range f.friendships {
		friendships[k] = v
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.requests, f.friendships = requests, friendships
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeFriendStore) LockPair(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks++
	return nil
}

func (f *fakeFriendStore) storageError() error {
	if f.failWith != nil {
		return errors.Wrap(f.failWith, errors.ErrCodeInternalError, "storage failure")
	}
	return nil
}

func (f *fakeFriendStore) AddFriendRequest(_ context.Context, requester, requested string, at time.Time) error {
	if err := f.storageError(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyOf(requester, requested)
	if f.friendships[key] {
		return errors.New(errors.ErrCodeAlreadyFriends, "users are already friends")
	}
	if _, ok := f.requests[key]; ok {
		return errors.New(errors.ErrCodeDuplicateRequest, "duplicate")
	}
	f.requests[key] = *models.NewFriendRequest(requester, requested, at)
	return nil
}

func (f *fakeFriendStore) DeleteFriendRequest(_ context.Context, requester, requested string) error {
	if err := f.storageError(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyOf(requester, requested)
	req, ok := f.requests[key]
	if !ok || req.Requester != requester {
		return errors.New(errors.ErrCodeNoPendingRequest, "friend request not found")
	}
	delete(f.requests, key)
	return nil
}

func (f *fakeFriendStore) filterRequests(match func(models.FriendRequest) bool) []models.FriendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.FriendRequest
	for _, r := range f.requests {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeFriendStore) FindFriendRequestsByRequester(_ context.Context, username string) ([]models.FriendRequest, error) {
	if err := f.storageError(); err != nil {
		return nil, err
	}
	return f.filterRequests(func(r models.FriendRequest) bool { return r.Requester == username }), nil
}

func (f *fakeFriendStore) FindFriendRequestsByRequested(_ context.Context, username string) ([]models.FriendRequest, error) {
	if err := f.storageError(); err != nil {
		return nil, err
	}
	return f.filterRequests(func(r models.FriendRequest) bool { return r.Requested == username }), nil
}

func (f *fakeFriendStore) FindFriendRequestBetween(_ context.Context, a, b string) (*models.FriendRequest, error) {
	if err := f.storageError(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if req, ok := f.requests[keyOf(a, b)]; ok {
		return &req, nil
	}
	return nil, nil
}

func (f *fakeFriendStore) AddFriendship(_ context.Context, a, b string) error {
	if err := f.storageError(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyOf(a, b)
	if f.friendships[key] {
		return errors.New(errors.ErrCodeAlreadyFriends, "users are already friends")
	}
	f.friendships[key] = true
	return nil
}

func (f *fakeFriendStore) DeleteFriendship(_ context.Context, a, b string) error {
	if err := f.storageError(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyOf(a, b)
	if !f.friendships[key] {
		return errors.New(errors.ErrCodeNoFriendship, "friendship not found")
	}
	delete(f.friendships, key)
	return nil
}

func (f *fakeFriendStore) FindFriends(_ context.Context, username string) ([]string, error) {
	if err := f.storageError(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	friends := []string{}
	for key := range f.friendships {
		switch username {
		case key.low:
			friends = append(friends, key.high)
		case key.high:
			friends = append(friends, key.low)
		}
	}
	sort.Strings(friends)
	return friends, nil
}

func (f *fakeFriendStore) AreFriends(_ context.Context, a, b string) (bool, error) {
	if err := f.storageError(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.friendships[keyOf(a, b)], nil
}

func (f *fakeFriendStore) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// forceRequest stores a request without the store's checks.
func (f *fakeFriendStore) forceRequest(requester, requested string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[keyOf(requester, requested)] = *models.NewFriendRequest(requester, requested, time.Now())
}

// staleFriendStore answers FindFriendRequestBetween from a fixed view, as a
// reader that looked before a concurrent writer committed would.
type staleFriendStore struct {
	*fakeFriendStore
	between *models.FriendRequest
}

func (s *staleFriendStore) FindFriendRequestBetween(context.Context, string, string) (*models.FriendRequest, error) {
	return s.between, nil
}
