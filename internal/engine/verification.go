// internal/engine/verification.go
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// RequestVerification enqueues an artwork into the pending verification set.
// Only the owning artist may request; an already-verified artwork is
// rejected. Duplicate requests for the same artwork are tolerated.
func (e *Engine) RequestVerification(caller uuid.UUID, artworkID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	artwork, ok := e.artworks[artworkID]
	if !ok {
		return ErrNotFound
	}
	if artwork.Artist != caller {
		return ErrNotAuthorized
	}
	if artwork.Verified {
		return ErrAlreadyVerified
	}

	e.pendingVerification = append(e.pendingVerification, artworkID)

	e.log.WithField("artwork_id", artworkID).Info("verification requested")
	return nil
}

// VerifyArtwork marks an artwork verified and removes every pending request
// for it. Verifier role required.
func (e *Engine) VerifyArtwork(caller uuid.UUID, artworkID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	has, err := e.roles.HasRole(caller, RoleVerifier)
	if err != nil {
		return fmt.Errorf("role lookup: %w", err)
	}
	if !has {
		return ErrNotAuthorized
	}

	artwork, ok := e.artworks[artworkID]
	if !ok {
		return ErrNotFound
	}
	if artwork.Verified {
		return ErrAlreadyVerified
	}

	artwork.Verified = true
	// The pending set may hold the id more than once if the artist
	// re-requested; drain every occurrence.
	for containsID(e.pendingVerification, artworkID) {
		e.pendingVerification = removeID(e.pendingVerification, artworkID)
	}

	e.log.WithFields(map[string]interface{}{
		"artwork_id": artworkID,
		"verifier":   caller,
	}).Info("artwork verified")
	return nil
}

// PendingVerificationRequests returns the full artwork records for every
// pending request. Verifier-only query.
func (e *Engine) PendingVerificationRequests(caller uuid.UUID) ([]OriginalArtwork, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	has, err := e.roles.HasRole(caller, RoleVerifier)
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	if !has {
		return nil, ErrNotAuthorized
	}

	out := make([]OriginalArtwork, 0, len(e.pendingVerification))
	for _, id := range e.pendingVerification {
		out = append(out, *e.artworks[id])
	}
	return out, nil
}
