// internal/assets/memory.go
package assets

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/javajoker/artmarket-backend/internal/engine"
)

// MemoryRegistry is an in-process asset registry used by tests and
// memory-backed deployments.
type MemoryRegistry struct {
	mu     sync.RWMutex
	owners map[uint64]uuid.UUID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{owners: make(map[uint64]uuid.UUID)}
}

func (r *MemoryRegistry) Mint(owner uuid.UUID, tokenID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owners[tokenID]; exists {
		return fmt.Errorf("token %d already minted", tokenID)
	}
	r.owners[tokenID] = owner
	return nil
}

func (r *MemoryRegistry) OwnerOf(tokenID uint64) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[tokenID]
	if !ok {
		return uuid.Nil, fmt.Errorf("token %d not minted", tokenID)
	}
	return owner, nil
}

func (r *MemoryRegistry) Transfer(from, to uuid.UUID, tokenID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[tokenID]
	if !ok {
		return fmt.Errorf("token %d not minted", tokenID)
	}
	if owner != from {
		return fmt.Errorf("token %d is not held by %s", tokenID, from)
	}
	r.owners[tokenID] = to
	return nil
}

// MemoryRoleStore is the in-process capability store counterpart.
type MemoryRoleStore struct {
	mu     sync.RWMutex
	grants map[uuid.UUID]map[engine.Role]bool
}

func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{grants: make(map[uuid.UUID]map[engine.Role]bool)}
}

func (s *MemoryRoleStore) HasRole(identity uuid.UUID, role engine.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[identity][role], nil
}

func (s *MemoryRoleStore) GrantRole(identity uuid.UUID, role engine.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grants[identity] == nil {
		s.grants[identity] = make(map[engine.Role]bool)
	}
	s.grants[identity][role] = true
	return nil
}
