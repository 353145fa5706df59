// internal/engine/engine_test.go
package engine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/artmarket-backend/internal/assets"
	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/ledger"
)

type EngineTestSuite struct {
	suite.Suite
	engine   *engine.Engine
	registry *assets.MemoryRegistry
	treasury *ledger.MemoryLedger
	now      time.Time

	artist   uuid.UUID
	verifier uuid.UUID
	buyer    uuid.UUID
	bidderA  uuid.UUID
	bidderB  uuid.UUID
}

func (suite *EngineTestSuite) SetupTest() {
	suite.registry = assets.NewMemoryRegistry()
	suite.treasury = ledger.NewMemoryLedger()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	eng, err := engine.New(engine.Config{
		SellerSharePercent: 30,
		OwnerSharePercent:  68,
		RoyaltyPercent:     2,
		AuctionWindow:      72 * time.Hour,
	}, suite.registry, assets.NewMemoryRoleStore(), suite.treasury,
		logrus.NewEntry(log),
		engine.WithClock(func() time.Time { return suite.now }))
	suite.Require().NoError(err)
	suite.engine = eng

	suite.artist = uuid.New()
	suite.verifier = uuid.New()
	suite.buyer = uuid.New()
	suite.bidderA = uuid.New()
	suite.bidderB = uuid.New()
}

func (suite *EngineTestSuite) advance(d time.Duration) {
	suite.now = suite.now.Add(d)
}

func (suite *EngineTestSuite) balance(of uuid.UUID) int64 {
	b, err := suite.treasury.Balance(of)
	suite.Require().NoError(err)
	return b
}

func (suite *EngineTestSuite) holding() int64 {
	h, err := suite.treasury.HoldingBalance()
	suite.Require().NoError(err)
	return h
}

// registerArtist registers the suite artist and returns one listed instance.
func (suite *EngineTestSuite) listInstance(price int64) uint64 {
	_, err := suite.engine.RegisterArtist(suite.artist, "Mona", "images/mona.png")
	suite.Require().NoError(err)

	artwork, err := suite.engine.AddArtwork(suite.artist, price, 1, "Study in oil", "images/study.png")
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), artwork.InstanceCount)

	instances := suite.engine.ListInstances()
	suite.Require().Len(instances, 1)
	suite.Require().True(instances[0].ForSale)
	return instances[0].TokenID
}

func (suite *EngineTestSuite) TestRegisterArtistOnce() {
	artist, err := suite.engine.RegisterArtist(suite.artist, "Mona", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.artist, artist.Identity)

	_, err = suite.engine.RegisterArtist(suite.artist, "Mona again", "")
	assert.ErrorIs(suite.T(), err, engine.ErrAlreadyRegistered)

	listed := suite.engine.ListArtists()
	assert.Len(suite.T(), listed, 1)
	assert.Equal(suite.T(), "Mona", listed[0].Name)
}

func (suite *EngineTestSuite) TestLoginArtist() {
	_, err := suite.engine.LoginArtist(suite.artist)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)

	_, err = suite.engine.RegisterArtist(suite.artist, "Mona", "")
	suite.Require().NoError(err)

	artist, err := suite.engine.LoginArtist(suite.artist)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Mona", artist.Name)
}

func (suite *EngineTestSuite) TestAddArtworkRequiresArtistRole() {
	_, err := suite.engine.AddArtwork(suite.buyer, 10, 1, "", "")
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)
}

func (suite *EngineTestSuite) TestMintingKeepsCountInLockstep() {
	tokenID := suite.listInstance(10)

	owner, err := suite.registry.OwnerOf(tokenID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.artist, owner)

	err = suite.engine.IncreaseArtworkCount(suite.artist, 1, 25, 3)
	suite.Require().NoError(err)

	artworks := suite.engine.ListArtworks()
	suite.Require().Len(artworks, 1)
	assert.Equal(suite.T(), uint64(4), artworks[0].InstanceCount)
	assert.Len(suite.T(), suite.engine.ListInstances(), 4)

	// The later mint carries its own price.
	instances := suite.engine.ListInstances()
	assert.Equal(suite.T(), int64(10), instances[0].Price)
	assert.Equal(suite.T(), int64(25), instances[3].Price)
}

func (suite *EngineTestSuite) TestIncreaseCountOnlyByAuthor() {
	suite.listInstance(10)

	err := suite.engine.IncreaseArtworkCount(suite.buyer, 1, 10, 1)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)

	err = suite.engine.IncreaseArtworkCount(suite.artist, 99, 10, 1)
	assert.ErrorIs(suite.T(), err, engine.ErrNotFound)
}

func (suite *EngineTestSuite) TestVerificationWorkflow() {
	suite.listInstance(10)
	suite.Require().NoError(suite.engine.RegisterVerifier(suite.verifier))

	// Only the author may request verification.
	err := suite.engine.RequestVerification(suite.buyer, 1)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)

	suite.Require().NoError(suite.engine.RequestVerification(suite.artist, 1))

	// Only a verifier may see the queue.
	_, err = suite.engine.PendingVerificationRequests(suite.artist)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)

	pending, err := suite.engine.PendingVerificationRequests(suite.verifier)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	assert.Equal(suite.T(), uint64(1), pending[0].ID)

	suite.Require().NoError(suite.engine.VerifyArtwork(suite.verifier, 1))

	artworks := suite.engine.ListArtworks()
	assert.True(suite.T(), artworks[0].Verified)

	pending, err = suite.engine.PendingVerificationRequests(suite.verifier)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), pending)

	// A verified artwork cannot be queued again.
	err = suite.engine.RequestVerification(suite.artist, 1)
	assert.ErrorIs(suite.T(), err, engine.ErrAlreadyVerified)
}

func (suite *EngineTestSuite) TestDuplicateVerificationRequests() {
	suite.listInstance(10)
	suite.Require().NoError(suite.engine.RegisterVerifier(suite.verifier))

	// Re-requesting the same artwork is tolerated and queues duplicates.
	suite.Require().NoError(suite.engine.RequestVerification(suite.artist, 1))
	suite.Require().NoError(suite.engine.RequestVerification(suite.artist, 1))
	suite.Require().NoError(suite.engine.RequestVerification(suite.artist, 1))

	pending, err := suite.engine.PendingVerificationRequests(suite.verifier)
	suite.Require().NoError(err)
	assert.Len(suite.T(), pending, 3)

	// Verifying drains every queued occurrence, not just the first.
	suite.Require().NoError(suite.engine.VerifyArtwork(suite.verifier, 1))

	pending, err = suite.engine.PendingVerificationRequests(suite.verifier)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), pending)

	assert.ErrorIs(suite.T(), suite.engine.VerifyArtwork(suite.verifier, 1), engine.ErrAlreadyVerified)
}

func (suite *EngineTestSuite) TestVerifyArtworkRequiresVerifierRole() {
	suite.listInstance(10)
	suite.Require().NoError(suite.engine.RequestVerification(suite.artist, 1))

	err := suite.engine.VerifyArtwork(suite.artist, 1)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)
}

func (suite *EngineTestSuite) TestPurchaseSplitsPrice() {
	tokenID := suite.listInstance(10)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 10))

	order, err := suite.engine.BuyArtwork(suite.buyer, tokenID, "12 Rue de Rivoli, Paris", 10)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), engine.OrderReadyForShipping, order.Status)

	// 30% to the seller at purchase, the rest held until delivery.
	assert.Equal(suite.T(), int64(0), suite.balance(suite.buyer))
	assert.Equal(suite.T(), int64(3), suite.balance(suite.artist))
	assert.Equal(suite.T(), int64(7), suite.holding())

	instances := suite.engine.ListInstances()
	assert.False(suite.T(), instances[0].ForSale)

	suite.Require().NoError(suite.engine.StartedShipping(suite.artist, order.ID))
	suite.Require().NoError(suite.engine.DeliveryConfirmation(suite.buyer, order.ID))

	// 68% owner share on delivery; the 2% royalty of a price of 10 rounds
	// down to zero and the remainder stays in the holding account.
	assert.Equal(suite.T(), int64(9), suite.balance(suite.artist))
	assert.Equal(suite.T(), int64(1), suite.holding())

	owner, err := suite.registry.OwnerOf(tokenID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.buyer, owner)

	// The order is settled, so the lifecycle stops addressing it.
	assert.ErrorIs(suite.T(), suite.engine.DeliveryConfirmation(suite.buyer, order.ID), engine.ErrNotFound)
	assert.Empty(suite.T(), suite.engine.ListActiveOrders())
}

func (suite *EngineTestSuite) TestRoyaltyPaidToOriginalArtist() {
	tokenID := suite.listInstance(1000)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 1000))

	order, err := suite.engine.BuyArtwork(suite.buyer, tokenID, "Berlin", 1000)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.engine.StartedShipping(suite.artist, order.ID))
	suite.Require().NoError(suite.engine.DeliveryConfirmation(suite.buyer, order.ID))

	// 300 at purchase plus 680 owner share plus 20 royalty.
	assert.Equal(suite.T(), int64(1000), suite.balance(suite.artist))
	assert.Equal(suite.T(), int64(0), suite.holding())
}

func (suite *EngineTestSuite) TestPurchaseOverpaymentStaysEscrowed() {
	tokenID := suite.listInstance(10)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 15))

	_, err := suite.engine.BuyArtwork(suite.buyer, tokenID, "Lisbon", 15)
	suite.Require().NoError(err)

	// Shares are computed from the listed price, not the attached payment.
	assert.Equal(suite.T(), int64(3), suite.balance(suite.artist))
	assert.Equal(suite.T(), int64(12), suite.holding())
}

func (suite *EngineTestSuite) TestPurchaseRejections() {
	tokenID := suite.listInstance(10)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 100))

	_, err := suite.engine.BuyArtwork(suite.buyer, 99, "x", 10)
	assert.ErrorIs(suite.T(), err, engine.ErrNotFound)

	_, err = suite.engine.BuyArtwork(suite.buyer, tokenID, "x", 9)
	assert.ErrorIs(suite.T(), err, engine.ErrInsufficientPayment)

	// Unfunded buyers fail at escrow with nothing mutated.
	broke := uuid.New()
	_, err = suite.engine.BuyArtwork(broke, tokenID, "x", 10)
	assert.ErrorIs(suite.T(), err, engine.ErrInsufficientPayment)
	assert.True(suite.T(), suite.engine.ListInstances()[0].ForSale)

	_, err = suite.engine.BuyArtwork(suite.buyer, tokenID, "x", 10)
	suite.Require().NoError(err)

	// Sold means no longer for sale.
	_, err = suite.engine.BuyArtwork(suite.bidderA, tokenID, "x", 10)
	assert.ErrorIs(suite.T(), err, engine.ErrNotForSale)
}

func (suite *EngineTestSuite) TestOrderLifecycleAuthorization() {
	tokenID := suite.listInstance(10)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 10))

	order, err := suite.engine.BuyArtwork(suite.buyer, tokenID, "Oslo", 10)
	suite.Require().NoError(err)

	// Delivery cannot be confirmed before shipping.
	assert.ErrorIs(suite.T(), suite.engine.DeliveryConfirmation(suite.buyer, order.ID), engine.ErrNotFound)

	// Only the current owner ships.
	assert.ErrorIs(suite.T(), suite.engine.StartedShipping(suite.buyer, order.ID), engine.ErrNotAuthorized)
	suite.Require().NoError(suite.engine.StartedShipping(suite.artist, order.ID))

	// Shipping twice falls out of the ready state.
	assert.ErrorIs(suite.T(), suite.engine.StartedShipping(suite.artist, order.ID), engine.ErrNotFound)

	// Only the buyer confirms delivery.
	assert.ErrorIs(suite.T(), suite.engine.DeliveryConfirmation(suite.artist, order.ID), engine.ErrNotAuthorized)
	suite.Require().NoError(suite.engine.DeliveryConfirmation(suite.buyer, order.ID))
}

func (suite *EngineTestSuite) TestAuctionLifecycle() {
	tokenID := suite.soldInstance(10)

	auction, err := suite.engine.PutUpForAuction(suite.buyer, tokenID, 50)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.now.Add(72*time.Hour), auction.End)

	suite.Require().NoError(suite.treasury.Deposit(suite.bidderA, 100))
	suite.Require().NoError(suite.treasury.Deposit(suite.bidderB, 150))

	suite.Require().NoError(suite.engine.Bid(suite.bidderA, auction.ID, 100))
	assert.Equal(suite.T(), int64(0), suite.balance(suite.bidderA))

	// Not above the current highest bid.
	assert.ErrorIs(suite.T(), suite.engine.Bid(suite.bidderB, auction.ID, 90), engine.ErrBidTooLow)

	// Outbidding refunds the previous bidder in full.
	suite.Require().NoError(suite.engine.Bid(suite.bidderB, auction.ID, 150))
	assert.Equal(suite.T(), int64(100), suite.balance(suite.bidderA))
	assert.Equal(suite.T(), int64(0), suite.balance(suite.bidderB))

	// Nobody can finalize before expiry.
	assert.ErrorIs(suite.T(), suite.engine.EndAuctionSeller(suite.buyer, auction.ID), engine.ErrAuctionStillActive)
	assert.ErrorIs(suite.T(), suite.engine.EndAuctionBuyer(suite.bidderB, auction.ID), engine.ErrAuctionStillActive)

	suite.advance(73 * time.Hour)

	// Only the winner may finalize from the buyer side.
	assert.ErrorIs(suite.T(), suite.engine.EndAuctionBuyer(suite.bidderA, auction.ID), engine.ErrNotAuthorized)
	suite.Require().NoError(suite.engine.EndAuctionBuyer(suite.bidderB, auction.ID))

	owner, err := suite.registry.OwnerOf(tokenID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.bidderB, owner)
	assert.Equal(suite.T(), int64(150), suite.balance(suite.buyer))

	// Finalizing again fails: the auction is no longer active.
	assert.ErrorIs(suite.T(), suite.engine.EndAuctionBuyer(suite.bidderB, auction.ID), engine.ErrNotFound)
	assert.Empty(suite.T(), suite.engine.ListActiveAuctions())
}

func (suite *EngineTestSuite) TestBidWindowBoundaries() {
	tokenID := suite.soldInstance(10)

	auction, err := suite.engine.PutUpForAuction(suite.buyer, tokenID, 50)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.treasury.Deposit(suite.bidderA, 500))

	// Below the minimum.
	assert.ErrorIs(suite.T(), suite.engine.Bid(suite.bidderA, auction.ID, 49), engine.ErrBidTooLow)

	// The end instant itself still accepts bids.
	suite.now = auction.End
	suite.Require().NoError(suite.engine.Bid(suite.bidderA, auction.ID, 50))

	// One tick later the window is closed.
	suite.advance(time.Nanosecond)
	assert.ErrorIs(suite.T(), suite.engine.Bid(suite.bidderA, auction.ID, 60), engine.ErrAuctionNotActive)
}

func (suite *EngineTestSuite) TestBidRequiresFunds() {
	tokenID := suite.soldInstance(10)

	auction, err := suite.engine.PutUpForAuction(suite.buyer, tokenID, 50)
	suite.Require().NoError(err)

	err = suite.engine.Bid(suite.bidderA, auction.ID, 60)
	assert.ErrorIs(suite.T(), err, engine.ErrInsufficientPayment)
	assert.False(suite.T(), suite.engine.ListActiveAuctions()[0].HasBid())
}

func (suite *EngineTestSuite) TestAuctionRejectsListedInstance() {
	tokenID := suite.listInstance(10)

	// Still in direct sale.
	_, err := suite.engine.PutUpForAuction(suite.artist, tokenID, 50)
	assert.ErrorIs(suite.T(), err, engine.ErrAlreadyForSale)

	_, err = suite.engine.PutUpForAuction(suite.artist, 99, 50)
	assert.ErrorIs(suite.T(), err, engine.ErrNotFound)
}

func (suite *EngineTestSuite) TestAuctionRejectsCommittedInstance() {
	tokenID := suite.soldInstance(10)

	_, err := suite.engine.PutUpForAuction(suite.buyer, tokenID, 50)
	suite.Require().NoError(err)

	// One open auction per token.
	_, err = suite.engine.PutUpForAuction(suite.buyer, tokenID, 60)
	assert.ErrorIs(suite.T(), err, engine.ErrAlreadyForSale)

	// Only the registry owner lists.
	_, err = suite.engine.PutUpForAuction(suite.bidderA, tokenID, 50)
	assert.ErrorIs(suite.T(), err, engine.ErrNotAuthorized)
}

func (suite *EngineTestSuite) TestAuctionWithoutBidsDelists() {
	tokenID := suite.soldInstance(10)

	auction, err := suite.engine.PutUpForAuction(suite.buyer, tokenID, 50)
	suite.Require().NoError(err)

	suite.advance(73 * time.Hour)

	// The buyer side needs a recorded bid.
	assert.ErrorIs(suite.T(), suite.engine.EndAuctionBuyer(suite.bidderA, auction.ID), engine.ErrNotAuthorized)

	suite.Require().NoError(suite.engine.EndAuctionSeller(suite.buyer, auction.ID))

	// Ownership and funds are untouched; the instance can be listed again.
	owner, err := suite.registry.OwnerOf(tokenID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.buyer, owner)

	_, err = suite.engine.PutUpForAuction(suite.buyer, tokenID, 40)
	assert.NoError(suite.T(), err)
}

// soldInstance runs a full direct sale so the buyer owns an unlisted token.
func (suite *EngineTestSuite) soldInstance(price int64) uint64 {
	tokenID := suite.listInstance(price)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, price))

	order, err := suite.engine.BuyArtwork(suite.buyer, tokenID, "Vienna", price)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.engine.StartedShipping(suite.artist, order.ID))
	suite.Require().NoError(suite.engine.DeliveryConfirmation(suite.buyer, order.ID))
	return tokenID
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
