// internal/engine/artist.go
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// RegisterArtist grants the caller the artist role and records their public
// profile. Registration is permanent; a second call fails AlreadyRegistered.
func (e *Engine) RegisterArtist(caller uuid.UUID, name, imageRef string) (*Artist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	has, err := e.roles.HasRole(caller, RoleArtist)
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	if has {
		return nil, ErrAlreadyRegistered
	}

	artist := &Artist{
		Identity: caller,
		Name:     name,
		ImageRef: imageRef,
	}
	e.artists[caller] = artist
	e.artistList = append(e.artistList, caller)

	if err := e.roles.GrantRole(caller, RoleArtist); err != nil {
		// Undo the append so a failed grant leaves no trace.
		delete(e.artists, caller)
		e.artistList = e.artistList[:len(e.artistList)-1]
		return nil, fmt.Errorf("grant artist role: %w", err)
	}

	e.log.WithFields(map[string]interface{}{
		"identity": caller,
		"name":     name,
	}).Info("artist registered")

	out := *artist
	return &out, nil
}

// RegisterVerifier grants the caller the verifier role.
func (e *Engine) RegisterVerifier(caller uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	has, err := e.roles.HasRole(caller, RoleVerifier)
	if err != nil {
		return fmt.Errorf("role lookup: %w", err)
	}
	if has {
		return ErrAlreadyRegistered
	}

	if err := e.roles.GrantRole(caller, RoleVerifier); err != nil {
		return fmt.Errorf("grant verifier role: %w", err)
	}

	e.log.WithField("identity", caller).Info("verifier registered")
	return nil
}

// LoginArtist returns the caller's artist record. It is a query, not a
// mutation; callers without the artist role get NotAuthorized.
func (e *Engine) LoginArtist(caller uuid.UUID) (*Artist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	artist, ok := e.artists[caller]
	if !ok {
		return nil, ErrNotAuthorized
	}
	out := *artist
	return &out, nil
}

// ListArtists returns every registered artist in registration order.
func (e *Engine) ListArtists() []Artist {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Artist, 0, len(e.artistList))
	for _, id := range e.artistList {
		out = append(out, *e.artists[id])
	}
	return out
}
