// internal/handlers/handlers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/artmarket-backend/internal/assets"
	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/handlers"
	"github.com/javajoker/artmarket-backend/internal/ledger"
	"github.com/javajoker/artmarket-backend/internal/middleware"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	treasury *ledger.MemoryLedger

	artist uuid.UUID
	buyer  uuid.UUID
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handler-test-secret")

	suite.treasury = ledger.NewMemoryLedger()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	eng, err := engine.New(engine.Config{
		SellerSharePercent: 30,
		OwnerSharePercent:  68,
		RoyaltyPercent:     2,
		AuctionWindow:      72 * time.Hour,
	}, assets.NewMemoryRegistry(), assets.NewMemoryRoleStore(), suite.treasury, logrus.NewEntry(log))
	suite.Require().NoError(err)

	artistHandler := handlers.NewArtistHandler(eng)
	artworkHandler := handlers.NewArtworkHandler(eng)
	tradeHandler := handlers.NewTradeHandler(eng)

	suite.router = gin.New()
	v1 := suite.router.Group("/v1")
	{
		v1.GET("/artists", artistHandler.ListArtists)
		v1.GET("/instances", artworkHandler.ListInstances)
		v1.GET("/orders", tradeHandler.ListOrders)
		v1.GET("/auctions", tradeHandler.ListAuctions)

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/artists", artistHandler.RegisterArtist)
			protected.GET("/artists/me", artistHandler.Me)
			protected.POST("/artworks", artworkHandler.AddArtwork)
			protected.POST("/instances/:id/purchase", tradeHandler.BuyArtwork)
			protected.POST("/instances/:id/auction", tradeHandler.PutUpForAuction)
			protected.POST("/orders/:id/shipped", tradeHandler.StartedShipping)
			protected.POST("/orders/:id/delivered", tradeHandler.DeliveryConfirmation)
			protected.POST("/auctions/:id/bids", tradeHandler.Bid)
		}
	}

	suite.artist = uuid.New()
	suite.buyer = uuid.New()
}

func (suite *HandlerTestSuite) request(method, path string, as uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		token, err := utils.GenerateJWT(as, "tester", 1)
		suite.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *HandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	response := suite.decode(w)
	errObj, ok := response["error"].(map[string]interface{})
	suite.Require().True(ok, "response carries no error object")
	code, _ := errObj["code"].(string)
	return code
}

func (suite *HandlerTestSuite) registerArtist() {
	w := suite.request("POST", "/v1/artists", suite.artist, map[string]interface{}{
		"name":      "Mona",
		"image_ref": "images/mona.png",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) addArtwork(price int64, count int) {
	w := suite.request("POST", "/v1/artworks", suite.artist, map[string]interface{}{
		"price":       price,
		"count":       count,
		"description": "Study in oil",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestAuthRequired() {
	w := suite.request("POST", "/v1/artists", uuid.Nil, map[string]interface{}{"name": "Mona"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestRegisterArtist() {
	suite.registerArtist()

	// Registering again conflicts.
	w := suite.request("POST", "/v1/artists", suite.artist, map[string]interface{}{"name": "Mona"})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "ALREADY_REGISTERED", suite.errorCode(w))

	w = suite.request("GET", "/v1/artists", uuid.Nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))
	assert.Len(suite.T(), response["data"].([]interface{}), 1)
}

func (suite *HandlerTestSuite) TestArtistMe() {
	w := suite.request("GET", "/v1/artists/me", suite.artist, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	suite.registerArtist()

	w = suite.request("GET", "/v1/artists/me", suite.artist, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestAddArtworkValidation() {
	suite.registerArtist()

	// Count and price are required and positive.
	w := suite.request("POST", "/v1/artworks", suite.artist, map[string]interface{}{
		"price": 0,
		"count": 1,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestPurchaseFlow() {
	suite.registerArtist()
	suite.addArtwork(10, 1)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 10))

	w := suite.request("POST", "/v1/instances/1/purchase", suite.buyer, map[string]interface{}{
		"shipping_destination": "12 Rue de Rivoli, Paris",
		"payment":              10,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Buying the same instance again conflicts.
	w = suite.request("POST", "/v1/instances/1/purchase", suite.buyer, map[string]interface{}{
		"shipping_destination": "x",
		"payment":              10,
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "NOT_FOR_SALE", suite.errorCode(w))

	// Ship as the artist, confirm as the buyer.
	w = suite.request("POST", "/v1/orders/1/shipped", suite.buyer, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.request("POST", "/v1/orders/1/shipped", suite.artist, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request("POST", "/v1/orders/1/delivered", suite.buyer, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// 30% at purchase plus 68% at delivery of a price of 10.
	balance, err := suite.treasury.Balance(suite.artist)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(9), balance)

	w = suite.request("GET", "/v1/orders", uuid.Nil, nil)
	response := suite.decode(w)
	assert.Empty(suite.T(), response["data"])
}

func (suite *HandlerTestSuite) TestPurchaseErrorMapping() {
	suite.registerArtist()
	suite.addArtwork(10, 1)

	w := suite.request("POST", "/v1/instances/99/purchase", suite.buyer, map[string]interface{}{
		"shipping_destination": "x",
		"payment":              10,
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// Unfunded buyer maps to payment required.
	w = suite.request("POST", "/v1/instances/1/purchase", suite.buyer, map[string]interface{}{
		"shipping_destination": "x",
		"payment":              10,
	})
	assert.Equal(suite.T(), http.StatusPaymentRequired, w.Code)
	assert.Equal(suite.T(), "INSUFFICIENT_PAYMENT", suite.errorCode(w))

	w = suite.request("POST", "/v1/instances/not-a-number/purchase", suite.buyer, map[string]interface{}{
		"shipping_destination": "x",
		"payment":              10,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAuctionOverHTTP() {
	suite.registerArtist()
	suite.addArtwork(10, 1)
	suite.Require().NoError(suite.treasury.Deposit(suite.buyer, 10))

	// Full direct sale so the buyer owns an unlisted instance.
	for _, step := range []struct {
		path string
		as   uuid.UUID
		body interface{}
	}{
		{"/v1/instances/1/purchase", suite.buyer, map[string]interface{}{"shipping_destination": "x", "payment": 10}},
		{"/v1/orders/1/shipped", suite.artist, nil},
		{"/v1/orders/1/delivered", suite.buyer, nil},
	} {
		w := suite.request("POST", step.path, step.as, step.body)
		suite.Require().Less(w.Code, 300, fmt.Sprintf("%s: %s", step.path, w.Body.String()))
	}

	w := suite.request("POST", "/v1/instances/1/auction", suite.buyer, map[string]interface{}{"min_bid": 50})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	bidder := uuid.New()
	suite.Require().NoError(suite.treasury.Deposit(bidder, 100))

	w = suite.request("POST", "/v1/auctions/1/bids", bidder, map[string]interface{}{"amount": 40})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "BID_TOO_LOW", suite.errorCode(w))

	w = suite.request("POST", "/v1/auctions/1/bids", bidder, map[string]interface{}{"amount": 100})
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.request("GET", "/v1/auctions", uuid.Nil, nil)
	response := suite.decode(w)
	assert.Len(suite.T(), response["data"].([]interface{}), 1)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
