// Package tracker keeps, per user, the last time a non-empty cart was seen.
//
// "Last seen with items" is used as a stand-in for "last cart change": a user
// who keeps items in the cart without touching it accrues inactivity, and a
// user who empties the cart is forgotten. Entries live for the process
// lifetime only.
package tracker

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the shard count used by New.
const DefaultShards = 32

type shard struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time // userID -> last observation of a non-empty cart
}

// Store is a sharded map of user inactivity. Each shard has its own lock, so
// the read-then-overwrite in RecordCartActive is atomic per user while users
// on different shards proceed in parallel.
type Store struct {
	shards []*shard
}

func New() *Store {
	return NewWithShards(DefaultShards)
}

func NewWithShards(n int) *Store {
	if n < 1 {
		n = 1
	}
	s := &Store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{lastSeen: make(map[string]time.Time)}
	}
	return s
}

func (s *Store) shardFor(userID string) *shard {
	return s.shards[xxhash.Sum64String(userID)%uint64(len(s.shards))]
}

// RecordCartEmpty forgets the user. Calling it for an unknown user is a no-op.
func (s *Store) RecordCartEmpty(userID string) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.lastSeen, userID)
}

// RecordCartActive returns whole seconds elapsed since the previous non-empty
// observation (0 for a first observation) and stores now as the new one.
func (s *Store) RecordCartActive(userID string, now time.Time) int64 {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var seconds int64
	if prev, ok := sh.lastSeen[userID]; ok {
		if elapsed := now.Sub(prev); elapsed > 0 {
			seconds = int64(elapsed / time.Second)
		}
	}
	sh.lastSeen[userID] = now
	return seconds
}

// LastSeen returns the stored observation without modifying it.
func (s *Store) LastSeen(userID string) (time.Time, bool) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	ts, ok := sh.lastSeen[userID]
	return ts, ok
}

// Len returns the number of tracked users.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.lastSeen)
		sh.mu.Unlock()
	}
	return n
}
