// internal/engine/auction.go
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// PutUpForAuction lists an instance for a timed ascending-bid auction
// running one fixed window from now. The caller must be the instance's
// current registry owner, and the instance must not be in direct sale or
// already committed to an open order or auction.
func (e *Engine) PutUpForAuction(caller uuid.UUID, tokenID uint64, minBid int64) (*AuctionItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[tokenID]
	if !ok {
		return nil, ErrNotFound
	}

	owner, err := e.assets.OwnerOf(tokenID)
	if err != nil {
		return nil, fmt.Errorf("owner lookup for token %d: %w", tokenID, err)
	}
	if caller != owner {
		return nil, ErrNotAuthorized
	}
	if inst.ForSale {
		return nil, ErrAlreadyForSale
	}
	if e.tokenCommitted(tokenID) {
		return nil, ErrAlreadyForSale
	}

	now := e.now()
	e.nextAuctionID++
	auction := &AuctionItem{
		ID:      e.nextAuctionID,
		TokenID: tokenID,
		Start:   now,
		End:     now.Add(e.cfg.AuctionWindow),
		MinBid:  minBid,
	}
	e.auctions[auction.ID] = auction
	e.activeAuctions = append(e.activeAuctions, auction.ID)

	e.log.WithFields(map[string]interface{}{
		"auction_id": auction.ID,
		"token_id":   tokenID,
		"min_bid":    minBid,
		"end":        auction.End,
	}).Info("auction opened")

	out := *auction
	return &out, nil
}

// Bid escrows the attached amount and records it as the new highest bid.
// A previous highest bidder is refunded before the new bid is recorded,
// bounding the engine's liability to one outstanding bid per auction.
// Bids are accepted through the end instant inclusive.
func (e *Engine) Bid(caller uuid.UUID, auctionID uint64, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction, ok := e.activeAuction(auctionID)
	if !ok {
		return ErrNotFound
	}

	now := e.now()
	if now.Before(auction.Start) || now.After(auction.End) {
		return ErrAuctionNotActive
	}
	if amount <= auction.HighestBid || amount < auction.MinBid {
		return ErrBidTooLow
	}

	if err := e.treasury.Escrow(caller, amount); err != nil {
		e.log.WithError(err).WithField("bidder", caller).Warn("bid escrow failed")
		return ErrInsufficientPayment
	}

	if auction.HasBid() {
		if err := e.treasury.Pay(auction.HighestBidder, auction.HighestBid); err != nil {
			return fmt.Errorf("refund outbid %s on auction %d: %w", auction.HighestBidder, auctionID, err)
		}
	}

	auction.HighestBid = amount
	auction.HighestBidder = caller

	e.log.WithFields(map[string]interface{}{
		"auction_id": auctionID,
		"bidder":     caller,
		"amount":     amount,
	}).Info("bid accepted")
	return nil
}

// EndAuctionSeller finalizes an expired auction on behalf of the instance's
// current owner. With no recorded bid the auction is simply delisted and the
// instance left unlisted, ready to be auctioned again.
func (e *Engine) EndAuctionSeller(caller uuid.UUID, auctionID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction, ok := e.activeAuction(auctionID)
	if !ok {
		return ErrNotFound
	}
	if e.now().Before(auction.End) {
		return ErrAuctionStillActive
	}

	seller, err := e.assets.OwnerOf(auction.TokenID)
	if err != nil {
		return fmt.Errorf("owner lookup for token %d: %w", auction.TokenID, err)
	}
	if caller != seller {
		return ErrNotAuthorized
	}

	return e.finalizeAuction(auction, seller)
}

// EndAuctionBuyer finalizes an expired auction on behalf of the recorded
// highest bidder.
func (e *Engine) EndAuctionBuyer(caller uuid.UUID, auctionID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction, ok := e.activeAuction(auctionID)
	if !ok {
		return ErrNotFound
	}
	if e.now().Before(auction.End) {
		return ErrAuctionStillActive
	}
	if !auction.HasBid() || caller != auction.HighestBidder {
		return ErrNotAuthorized
	}

	seller, err := e.assets.OwnerOf(auction.TokenID)
	if err != nil {
		return fmt.Errorf("owner lookup for token %d: %w", auction.TokenID, err)
	}

	return e.finalizeAuction(auction, seller)
}

// finalizeAuction removes the auction from the active set, then transfers
// ownership to the winner and pays the seller the winning amount out of the
// holding account. Both finalization paths settle identically.
func (e *Engine) finalizeAuction(auction *AuctionItem, seller uuid.UUID) error {
	e.activeAuctions = removeID(e.activeAuctions, auction.ID)

	if !auction.HasBid() {
		e.log.WithField("auction_id", auction.ID).Info("auction expired without bids")
		return nil
	}

	if err := e.assets.Transfer(seller, auction.HighestBidder, auction.TokenID); err != nil {
		return fmt.Errorf("transfer token %d: %w", auction.TokenID, err)
	}
	if err := e.treasury.Pay(seller, auction.HighestBid); err != nil {
		return fmt.Errorf("pay seller for auction %d: %w", auction.ID, err)
	}

	e.log.WithFields(map[string]interface{}{
		"auction_id": auction.ID,
		"winner":     auction.HighestBidder,
		"amount":     auction.HighestBid,
	}).Info("auction finalized")
	return nil
}

func (e *Engine) activeAuction(auctionID uint64) (*AuctionItem, bool) {
	if !containsID(e.activeAuctions, auctionID) {
		return nil, false
	}
	return e.auctions[auctionID], true
}

// tokenCommitted reports whether the token sits in an open order or a
// running auction.
func (e *Engine) tokenCommitted(tokenID uint64) bool {
	for _, id := range e.activeOrders {
		if e.orders[id].TokenID == tokenID {
			return true
		}
	}
	for _, id := range e.activeAuctions {
		if e.auctions[id].TokenID == tokenID {
			return true
		}
	}
	return false
}

// ListActiveAuctions returns the running auctions ordered by identifier.
func (e *Engine) ListActiveAuctions() []AuctionItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]AuctionItem, 0, len(e.activeAuctions))
	for id := uint64(1); id <= e.nextAuctionID; id++ {
		if containsID(e.activeAuctions, id) {
			out = append(out, *e.auctions[id])
		}
	}
	return out
}
