package dompower

import "sync"

// TokenStore holds the client's current token pair. It is a guarded
// cell, not a state machine: reads and writes move whole pairs, so a
// reader can never observe an access token from one rotation paired
// with a refresh token from another.
type TokenStore struct {
	mu   sync.RWMutex
	pair TokenPair
}

// NewTokenStore creates a store seeded with the given pair. An empty or
// half-filled pair leaves the store unauthenticated.
func NewTokenStore(pair TokenPair) *TokenStore {
	s := &TokenStore{}
	if pair.valid() {
		s.pair = pair
	}
	return s
}

// Current returns a snapshot of the stored pair. ok is false until a
// complete pair has been set.
func (s *TokenStore) Current() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.pair.valid()
}

// Replace installs a new pair, swapping both values at once.
func (s *TokenStore) Replace(pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}
