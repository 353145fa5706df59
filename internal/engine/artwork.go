// internal/engine/artwork.go
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// AddArtwork creates an original artwork owned by the calling artist and
// mints count instances against it, each for sale at the given price.
// Minting registers token ownership with the external asset registry under
// the caller's identity.
func (e *Engine) AddArtwork(caller uuid.UUID, price int64, count int, description, imageRef string) (*OriginalArtwork, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	has, err := e.roles.HasRole(caller, RoleArtist)
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	if !has {
		return nil, ErrNotAuthorized
	}

	e.nextArtworkID++
	artwork := &OriginalArtwork{
		ID:          e.nextArtworkID,
		Artist:      caller,
		Description: description,
		ImageRef:    imageRef,
	}
	e.artworks[artwork.ID] = artwork

	if err := e.mintInstances(artwork, caller, price, count); err != nil {
		delete(e.artworks, artwork.ID)
		e.nextArtworkID--
		return nil, err
	}

	e.log.WithFields(map[string]interface{}{
		"artwork_id": artwork.ID,
		"artist":     caller,
		"count":      count,
	}).Info("artwork added")

	out := *artwork
	return &out, nil
}

// IncreaseArtworkCount mints additional instances under an existing
// original. The supplied price applies to the new instances only.
func (e *Engine) IncreaseArtworkCount(caller uuid.UUID, artworkID uint64, price int64, increase int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	artwork, ok := e.artworks[artworkID]
	if !ok {
		return ErrNotFound
	}
	if artwork.Artist != caller {
		return ErrNotAuthorized
	}

	if err := e.mintInstances(artwork, caller, price, increase); err != nil {
		return err
	}

	e.log.WithFields(map[string]interface{}{
		"artwork_id": artworkID,
		"increase":   increase,
	}).Info("artwork count increased")
	return nil
}

// mintInstances is the single path that creates instance rows and their
// external registry ownership, keeping InstanceCount and the number of
// minted rows in lockstep. A registry failure rolls the batch back so the
// operation stays all-or-nothing.
func (e *Engine) mintInstances(artwork *OriginalArtwork, owner uuid.UUID, price int64, n int) error {
	minted := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		e.nextTokenID++
		tokenID := e.nextTokenID
		e.instances[tokenID] = &ArtworkInstance{
			TokenID:   tokenID,
			ArtworkID: artwork.ID,
			Price:     price,
			ForSale:   true,
		}
		artwork.InstanceCount++
		minted = append(minted, tokenID)
	}

	for _, tokenID := range minted {
		if err := e.assets.Mint(owner, tokenID); err != nil {
			for _, id := range minted {
				delete(e.instances, id)
			}
			artwork.InstanceCount -= uint64(len(minted))
			e.nextTokenID -= uint64(len(minted))
			return fmt.Errorf("mint token %d: %w", tokenID, err)
		}
	}
	return nil
}

// ListArtworks returns every original artwork ordered by identifier.
func (e *Engine) ListArtworks() []OriginalArtwork {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]OriginalArtwork, 0, len(e.artworks))
	for id := uint64(1); id <= e.nextArtworkID; id++ {
		if a, ok := e.artworks[id]; ok {
			out = append(out, *a)
		}
	}
	return out
}

// ListInstances returns every minted instance ordered by token identifier.
func (e *Engine) ListInstances() []ArtworkInstance {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ArtworkInstance, 0, len(e.instances))
	for id := uint64(1); id <= e.nextTokenID; id++ {
		if inst, ok := e.instances[id]; ok {
			out = append(out, *inst)
		}
	}
	return out
}
