// internal/engine/engine.go
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AssetRegistry is the external non-fungible ownership ledger. All three
// calls fail loudly when the stated precondition does not hold (for example
// Transfer when from does not own the token), aborting the enclosing
// engine operation.
type AssetRegistry interface {
	Mint(owner uuid.UUID, tokenID uint64) error
	OwnerOf(tokenID uint64) (uuid.UUID, error)
	Transfer(from, to uuid.UUID, tokenID uint64) error
}

// RoleStore is the external capability store.
type RoleStore interface {
	HasRole(identity uuid.UUID, role Role) (bool, error)
	GrantRole(identity uuid.UUID, role Role) error
}

// Treasury is the value-transfer primitive. Escrow atomically moves funds
// from an identity into the marketplace holding account and is the only
// treasury call allowed to fail for business reasons (insufficient funds);
// Pay moves funds out of the holding account.
type Treasury interface {
	Escrow(from uuid.UUID, amount int64) error
	Pay(to uuid.UUID, amount int64) error
}

// Config carries the settlement parameters. The three percentages are shares
// of the listed price and must sum to 100: the seller share is paid out at
// purchase time, the owner share and the artist royalty at delivery.
type Config struct {
	SellerSharePercent int64
	OwnerSharePercent  int64
	RoyaltyPercent     int64
	AuctionWindow      time.Duration
}

func (c Config) validate() error {
	if c.SellerSharePercent < 0 || c.OwnerSharePercent < 0 || c.RoyaltyPercent < 0 {
		return errors.New("fee shares must not be negative")
	}
	if c.SellerSharePercent+c.OwnerSharePercent+c.RoyaltyPercent != 100 {
		return errors.New("fee shares must sum to 100")
	}
	if c.AuctionWindow <= 0 {
		return errors.New("auction window must be positive")
	}
	return nil
}

// Engine is the authoritative marketplace ledger. Every arena is keyed by
// its permanent identifier; the active subsets (pending verifications,
// open orders, running auctions) are tracked separately so that removal
// never disturbs the identifier-to-record mapping.
//
// One mutex serializes whole operations. Within an operation the order is
// always: validate every precondition, apply every internal mutation, and
// only then issue external transfers and ownership moves, so a call that
// reenters through a collaborator observes fully consistent state.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	assets   AssetRegistry
	roles    RoleStore
	treasury Treasury
	log      *logrus.Entry
	now      func() time.Time

	artists    map[uuid.UUID]*Artist
	artistList []uuid.UUID

	artworks      map[uint64]*OriginalArtwork
	nextArtworkID uint64

	instances   map[uint64]*ArtworkInstance
	nextTokenID uint64

	// Unordered pending set; removal is swap-and-shrink.
	pendingVerification []uint64

	orders       map[uint64]*Order
	activeOrders []uint64
	nextOrderID  uint64

	auctions       map[uint64]*AuctionItem
	activeAuctions []uint64
	nextAuctionID  uint64
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithClock overrides the time source, used by auction expiry tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(cfg Config, assets AssetRegistry, roles RoleStore, treasury Treasury, log *logrus.Entry, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if assets == nil || roles == nil || treasury == nil {
		return nil, errors.New("engine requires an asset registry, a role store and a treasury")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	e := &Engine{
		cfg:       cfg,
		assets:    assets,
		roles:     roles,
		treasury:  treasury,
		log:       log,
		now:       time.Now,
		artists:   make(map[uuid.UUID]*Artist),
		artworks:  make(map[uint64]*OriginalArtwork),
		instances: make(map[uint64]*ArtworkInstance),
		orders:    make(map[uint64]*Order),
		auctions:  make(map[uint64]*AuctionItem),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// removeID drops one occurrence of id from the unordered set s by swapping
// it with the last entry and shrinking. Position of the survivors changes;
// their identity does not.
func removeID(s []uint64, id uint64) []uint64 {
	for i, v := range s {
		if v == id {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}

func containsID(s []uint64, id uint64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
