package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest is a pending, directional request. PairLow/PairHigh hold the
// unordered pair so the unique index rejects a second request in either
// direction.
type FriendRequest struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Requester string    `gorm:"type:varchar(30);not null;index" json:"requester"`
	Requested string    `gorm:"type:varchar(30);not null;index" json:"requested"`
	PairLow   string    `gorm:"type:varchar(30);not null;index:idx_friend_request_pair,unique" json:"-"`
	PairHigh  string    `gorm:"type:varchar(30);not null;index:idx_friend_request_pair,unique" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFriendRequest(requester, requested string, at time.Time) *FriendRequest {
	low, high := OrderedPair(requester, requested)
	return &FriendRequest{
		Requester: requester,
		Requested: requested,
		PairLow:   low,
		PairHigh:  high,
		CreatedAt: at,
	}
}

// BeforeCreate keeps the pair columns in sync with the direction columns.
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Requester == "" || r.Requested == "" || r.Requester == r.Requested {
		return gorm.ErrInvalidData
	}
	r.PairLow, r.PairHigh = OrderedPair(r.Requester, r.Requested)
	return nil
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is a confirmed symmetric relation stored once per pair.
type Friendship struct {
	ID        uint      `gorm:"primaryKey"`
	UserLow   string    `gorm:"type:varchar(30);not null;index:idx_friendship_pair,unique"`
	UserHigh  string    `gorm:"type:varchar(30);not null;index:idx_friendship_pair,unique;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func NewFriendship(a, b string) *Friendship {
	low, high := OrderedPair(a, b)
	return &Friendship{UserLow: low, UserHigh: high}
}

// Other returns the counterpart of username in the friendship.
func (f *Friendship) Other(username string) string {
	if f.UserLow == username {
		return f.UserHigh
	}
	return f.UserLow
}

func (Friendship) TableName() string {
	return "friendships"
}

// OrderedPair returns a and b in byte order. Usernames are case-sensitive, so
// no folding is applied.
func OrderedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}
