// internal/assets/memory_test.go
package assets

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/javajoker/artmarket-backend/internal/engine"
)

func TestMemoryRegistryOwnership(t *testing.T) {
	r := NewMemoryRegistry()
	alice := uuid.New()
	bob := uuid.New()

	_, err := r.OwnerOf(1)
	assert.Error(t, err)

	assert.NoError(t, r.Mint(alice, 1))
	assert.Error(t, r.Mint(bob, 1))

	owner, err := r.OwnerOf(1)
	assert.NoError(t, err)
	assert.Equal(t, alice, owner)

	// Transfers only apply from the current holder.
	assert.Error(t, r.Transfer(bob, alice, 1))
	assert.NoError(t, r.Transfer(alice, bob, 1))

	owner, _ = r.OwnerOf(1)
	assert.Equal(t, bob, owner)
}

func TestMemoryRoleStore(t *testing.T) {
	s := NewMemoryRoleStore()
	alice := uuid.New()

	has, err := s.HasRole(alice, engine.RoleArtist)
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, s.GrantRole(alice, engine.RoleArtist))

	has, _ = s.HasRole(alice, engine.RoleArtist)
	assert.True(t, has)

	has, _ = s.HasRole(alice, engine.RoleVerifier)
	assert.False(t, has)
}
