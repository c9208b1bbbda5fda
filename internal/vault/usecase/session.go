package usecase

import (
	"sync"

	"github.com/google/uuid"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// SessionManager is the exclusive holder of unlocked master keys. It is
// created once per process, injected into every use case that needs key
// material, and never persists anything: a restart is an implicit lock.
//
// Alongside master keys it holds the per-share pending item keys produced by
// share resolution, so that accept does not need the link password a second
// time. Pending keys live and die with the session: locking a user discards
// both their master key and their pending keys.
type SessionManager struct {
	mu      sync.RWMutex
	keys    map[uuid.UUID]cryptoDomain.SealedKey
	pending map[uuid.UUID]map[uuid.UUID]cryptoDomain.ItemKey
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		keys:    make(map[uuid.UUID]cryptoDomain.SealedKey),
		pending: make(map[uuid.UUID]map[uuid.UUID]cryptoDomain.ItemKey),
	}
}

// Hold stores the master key for a user, replacing any previous key.
func (s *SessionManager) Hold(userID uuid.UUID, key cryptoDomain.SealedKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[userID] = key
}

// Release discards the user's master key and all their pending item keys.
// Releasing an already-locked user is a no-op.
func (s *SessionManager) Release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, userID)
	for _, itemKey := range s.pending[userID] {
		itemKey.Destroy()
	}
	delete(s.pending, userID)
}

// MasterKey returns the user's master key, or ErrVaultLocked if none is held.
func (s *SessionManager) MasterKey(userID uuid.UUID) (cryptoDomain.SealedKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[userID]
	if !ok {
		return cryptoDomain.SealedKey{}, vaultDomain.ErrVaultLocked
	}
	return key, nil
}

// IsUnlocked reports whether a master key is held for the user.
func (s *SessionManager) IsUnlocked(userID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.keys[userID]
	return ok
}

// HoldPendingKey stores an unwrapped item key from a resolved share until the
// user accepts it. A second resolve for the same share replaces the key.
func (s *SessionManager) HoldPendingKey(userID, shareID uuid.UUID, key cryptoDomain.ItemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userPending, ok := s.pending[userID]
	if !ok {
		userPending = make(map[uuid.UUID]cryptoDomain.ItemKey)
		s.pending[userID] = userPending
	}
	if previous, ok := userPending[shareID]; ok {
		previous.Destroy()
	}
	userPending[shareID] = key
}

// TakePendingKey removes and returns the pending item key for a share.
// The caller owns the key afterwards and must destroy it when done.
func (s *SessionManager) TakePendingKey(userID, shareID uuid.UUID) (cryptoDomain.ItemKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userPending, ok := s.pending[userID]
	if !ok {
		return cryptoDomain.ItemKey{}, false
	}
	key, ok := userPending[shareID]
	if !ok {
		return cryptoDomain.ItemKey{}, false
	}
	delete(userPending, shareID)
	return key, true
}
