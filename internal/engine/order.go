// internal/engine/order.go
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// BuyArtwork settles a direct sale. The attached payment is escrowed into
// the holding account as the final precondition; the order record is then
// created and the instance withdrawn from sale before the seller's share is
// paid out. The remainder of the escrowed amount stays in the holding
// account until delivery is confirmed.
func (e *Engine) BuyArtwork(caller uuid.UUID, tokenID uint64, shippingDestination string, payment int64) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[tokenID]
	if !ok {
		return nil, ErrNotFound
	}
	if !inst.ForSale {
		return nil, ErrNotForSale
	}
	if payment < inst.Price {
		return nil, ErrInsufficientPayment
	}

	seller, err := e.assets.OwnerOf(tokenID)
	if err != nil {
		return nil, fmt.Errorf("owner lookup for token %d: %w", tokenID, err)
	}

	// Atomic check-and-debit of the buyer's funds. Nothing has been
	// mutated yet, so a funds failure aborts cleanly.
	if err := e.treasury.Escrow(caller, payment); err != nil {
		e.log.WithError(err).WithField("buyer", caller).Warn("purchase escrow failed")
		return nil, ErrInsufficientPayment
	}

	inst.ForSale = false
	e.nextOrderID++
	order := &Order{
		ID:                  e.nextOrderID,
		TokenID:             tokenID,
		Buyer:               caller,
		Status:              OrderReadyForShipping,
		ShippingDestination: shippingDestination,
	}
	e.orders[order.ID] = order
	e.activeOrders = append(e.activeOrders, order.ID)

	sellerShare := inst.Price * e.cfg.SellerSharePercent / 100
	if err := e.treasury.Pay(seller, sellerShare); err != nil {
		return nil, fmt.Errorf("pay seller share for order %d: %w", order.ID, err)
	}

	e.log.WithFields(map[string]interface{}{
		"order_id":     order.ID,
		"token_id":     tokenID,
		"buyer":        caller,
		"seller":       seller,
		"seller_share": sellerShare,
	}).Info("instance purchased")

	out := *order
	return &out, nil
}

// StartedShipping moves an order from ReadyForShipping to Shipped. Only the
// current registry owner of the order's instance may call.
func (e *Engine) StartedShipping(caller uuid.UUID, orderID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.activeOrder(orderID)
	if !ok || order.Status != OrderReadyForShipping {
		return ErrNotFound
	}

	owner, err := e.assets.OwnerOf(order.TokenID)
	if err != nil {
		return fmt.Errorf("owner lookup for token %d: %w", order.TokenID, err)
	}
	if caller != owner {
		return ErrNotAuthorized
	}

	order.Status = OrderShipped

	e.log.WithField("order_id", orderID).Info("order shipped")
	return nil
}

// DeliveryConfirmation finishes an order. Only the buyer may confirm. The
// order is settled and ownership transferred to the buyer before any value
// moves: the pre-transfer owner receives their share of the listed price and
// the original artist the royalty, both out of the holding account.
func (e *Engine) DeliveryConfirmation(caller uuid.UUID, orderID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.activeOrder(orderID)
	if !ok || order.Status != OrderShipped {
		return ErrNotFound
	}
	if caller != order.Buyer {
		return ErrNotAuthorized
	}

	inst := e.instances[order.TokenID]
	artwork := e.artworks[inst.ArtworkID]

	seller, err := e.assets.OwnerOf(order.TokenID)
	if err != nil {
		return fmt.Errorf("owner lookup for token %d: %w", order.TokenID, err)
	}

	order.Status = OrderDelivered
	e.activeOrders = removeID(e.activeOrders, orderID)

	if err := e.assets.Transfer(seller, order.Buyer, order.TokenID); err != nil {
		return fmt.Errorf("transfer token %d: %w", order.TokenID, err)
	}

	ownerShare := inst.Price * e.cfg.OwnerSharePercent / 100
	royalty := inst.Price * e.cfg.RoyaltyPercent / 100
	if err := e.treasury.Pay(seller, ownerShare); err != nil {
		return fmt.Errorf("pay owner share for order %d: %w", orderID, err)
	}
	if err := e.treasury.Pay(artwork.Artist, royalty); err != nil {
		return fmt.Errorf("pay royalty for order %d: %w", orderID, err)
	}

	e.log.WithFields(map[string]interface{}{
		"order_id":    orderID,
		"token_id":    order.TokenID,
		"owner_share": ownerShare,
		"royalty":     royalty,
	}).Info("delivery confirmed")
	return nil
}

// activeOrder resolves an order id against the active subset. Settled
// orders keep their arena entry but are no longer addressable.
func (e *Engine) activeOrder(orderID uint64) (*Order, bool) {
	if !containsID(e.activeOrders, orderID) {
		return nil, false
	}
	return e.orders[orderID], true
}

// ListActiveOrders returns the open orders ordered by identifier.
func (e *Engine) ListActiveOrders() []Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Order, 0, len(e.activeOrders))
	for id := uint64(1); id <= e.nextOrderID; id++ {
		if containsID(e.activeOrders, id) {
			out = append(out, *e.orders[id])
		}
	}
	return out
}
