// internal/engine/types.go
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Role is a capability held by an identity in the external role store.
type Role string

const (
	RoleArtist   Role = "artist"
	RoleVerifier Role = "verifier"
)

// Artist is created once per identity and never mutated afterwards.
type Artist struct {
	Identity uuid.UUID `json:"identity"`
	Name     string    `json:"name"`
	ImageRef string    `json:"image_ref"`
}

// OriginalArtwork is the authored design an artist owns. InstanceCount stays
// in lockstep with the number of instances minted against it.
type OriginalArtwork struct {
	ID            uint64    `json:"id"`
	Artist        uuid.UUID `json:"artist"`
	Description   string    `json:"description"`
	ImageRef      string    `json:"image_ref"`
	Verified      bool      `json:"verified"`
	InstanceCount uint64    `json:"instance_count"`
}

// ArtworkInstance is one sellable unit minted against an original. Ownership
// of the token lives in the external asset registry, not here.
type ArtworkInstance struct {
	TokenID   uint64 `json:"token_id"`
	ArtworkID uint64 `json:"artwork_id"`
	Price     int64  `json:"price"`
	ForSale   bool   `json:"for_sale"`
}

type OrderStatus string

const (
	OrderReadyForShipping OrderStatus = "ready_for_shipping"
	OrderShipped          OrderStatus = "shipped"
	OrderDelivered        OrderStatus = "delivered"
)

type Order struct {
	ID                  uint64      `json:"id"`
	TokenID             uint64      `json:"token_id"`
	Buyer               uuid.UUID   `json:"buyer"`
	Status              OrderStatus `json:"status"`
	ShippingDestination string      `json:"shipping_destination"`
}

// AuctionItem is an ascending-bid listing. HighestBidder is uuid.Nil until
// the first accepted bid; HighestBid never decreases after that.
type AuctionItem struct {
	ID            uint64    `json:"id"`
	TokenID       uint64    `json:"token_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	MinBid        int64     `json:"min_bid"`
	HighestBid    int64     `json:"highest_bid"`
	HighestBidder uuid.UUID `json:"highest_bidder"`
}

// HasBid reports whether a qualifying bid was ever accepted.
func (a *AuctionItem) HasBid() bool {
	return a.HighestBidder != uuid.Nil
}
