package models

import (
	"testing"
	"time"
)

func TestOrderedPair(t *testing.T) {
	tests := []struct {
		a, b      string
		low, high string
	}{
		{a: "alice", b: "bob", low: "alice", high: "bob"},
		{a: "bob", b: "alice", low: "alice", high: "bob"},
		{a: "Alice", b: "alice", low: "Alice", high: "alice"},
		{a: "same1", b: "same1", low: "same1", high: "same1"},
	}

	for _, tt := range tests {
		low, high := OrderedPair(tt.a, tt.b)
		if low != tt.low || high != tt.high {
			t.Errorf("OrderedPair(%q, %q) = (%q, %q), want (%q, %q)", tt.a, tt.b, low, high, tt.low, tt.high)
		}
	}
}

func TestNewFriendRequest_PairIsDirectionIndependent(t *testing.T) {
	at := time.Now()
	ab := NewFriendRequest("alice", "bobby", at)
	ba := NewFriendRequest("bobby", "alice", at)

	if ab.PairLow != ba.PairLow || ab.PairHigh != ba.PairHigh {
		t.Errorf("pairs differ: (%s,%s) vs (%s,%s)", ab.PairLow, ab.PairHigh, ba.PairLow, ba.PairHigh)
	}
	if ab.Requester != "alice" || ab.Requested != "bobby" {
		t.Errorf("direction lost: %s -> %s", ab.Requester, ab.Requested)
	}
	if !ab.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", ab.CreatedAt, at)
	}
}

func TestFriendRequest_BeforeCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     FriendRequest
		wantErr bool
	}{
		{name: "Valid", req: FriendRequest{Requester: "zelda", Requested: "alice"}},
		{name: "Self request", req: FriendRequest{Requester: "alice", Requested: "alice"}, wantErr: true},
		{name: "Missing requested", req: FriendRequest{Requester: "alice"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.BeforeCreate(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BeforeCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (tt.req.PairLow != "alice" || tt.req.PairHigh != "zelda") {
				t.Errorf("pair = (%s,%s), want (alice,zelda)", tt.req.PairLow, tt.req.PairHigh)
			}
		})
	}
}

func TestFriendship_Other(t *testing.T) {
	f := NewFriendship("mallory", "alice")

	if f.UserLow != "alice" || f.UserHigh != "mallory" {
		t.Fatalf("NewFriendship() = (%s,%s), want (alice,mallory)", f.UserLow, f.UserHigh)
	}
	if got := f.Other("alice"); got != "mallory" {
		t.Errorf("Other(alice) = %q, want mallory", got)
	}
	if got := f.Other("mallory"); got != "alice" {
		t.Errorf("Other(mallory) = %q, want alice", got)
	}
}
