// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/artmarket-backend/internal/assets"
	"github.com/javajoker/artmarket-backend/internal/config"
	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/handlers"
	"github.com/javajoker/artmarket-backend/internal/ledger"
	"github.com/javajoker/artmarket-backend/internal/middleware"
	"github.com/javajoker/artmarket-backend/internal/services"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Engine collaborators: the "memory" backend keeps every arena in
	// process memory and is meant for tests and local development, the
	// "postgres" backend persists ownership, roles and the money ledger.
	var (
		registry  engine.AssetRegistry
		roleStore engine.RoleStore
		treasury  ledger.Ledger
	)
	switch cfg.Market.Backend {
	case "memory":
		registry = assets.NewMemoryRegistry()
		roleStore = assets.NewMemoryRoleStore()
		treasury = ledger.NewMemoryLedger()
	default:
		registry = assets.NewPostgresRegistry(db)
		roleStore = assets.NewPostgresRoleStore(db)
		treasury = ledger.NewPostgresLedger(db)
	}

	marketEngine, err := engine.New(engine.Config{
		SellerSharePercent: cfg.Market.SellerSharePercent,
		OwnerSharePercent:  cfg.Market.OwnerSharePercent,
		RoyaltyPercent:     cfg.Market.RoyaltyPercent,
		AuctionWindow:      time.Duration(cfg.Market.AuctionWindowHours) * time.Hour,
	}, registry, roleStore, treasury, logrus.WithField("component", "engine"))
	if err != nil {
		return nil, err
	}

	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	authService := services.NewAuthService(db, cfg)
	paymentService := services.NewPaymentService(db, treasury, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	artistHandler := handlers.NewArtistHandler(marketEngine)
	artworkHandler := handlers.NewArtworkHandler(marketEngine)
	tradeHandler := handlers.NewTradeHandler(marketEngine)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	storageHandler := handlers.NewStorageHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Artist and verifier registry
		artists := v1.Group("/artists")
		{
			artists.GET("", artistHandler.ListArtists)

			protected := artists.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", artistHandler.RegisterArtist)
				protected.GET("/me", artistHandler.Me)
			}
		}
		v1.POST("/verifiers", middleware.AuthRequired(), artistHandler.RegisterVerifier)

		// Artworks and minted instances
		artworks := v1.Group("/artworks")
		{
			artworks.GET("", middleware.OptionalAuth(), artworkHandler.ListArtworks)

			protected := artworks.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", artworkHandler.AddArtwork)
				protected.POST("/:id/instances", artworkHandler.IncreaseCount)
				protected.POST("/:id/verification-requests", artworkHandler.RequestVerification)
			}
		}
		v1.GET("/instances", middleware.OptionalAuth(), artworkHandler.ListInstances)

		// Verification workflow
		verification := v1.Group("/verification-requests")
		verification.Use(middleware.AuthRequired())
		{
			verification.GET("", artworkHandler.ListVerificationRequests)
			verification.POST("/:id/approve", artworkHandler.VerifyArtwork)
		}

		// Direct sales and shipping lifecycle
		instances := v1.Group("/instances")
		instances.Use(middleware.AuthRequired())
		{
			instances.POST("/:id/purchase", tradeHandler.BuyArtwork)
			instances.POST("/:id/auction", tradeHandler.PutUpForAuction)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", middleware.OptionalAuth(), tradeHandler.ListOrders)

			protected := orders.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:id/shipped", tradeHandler.StartedShipping)
				protected.POST("/:id/delivered", tradeHandler.DeliveryConfirmation)
			}
		}

		// Auctions
		auctions := v1.Group("/auctions")
		{
			auctions.GET("", middleware.OptionalAuth(), tradeHandler.ListAuctions)

			protected := auctions.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:id/bids", tradeHandler.Bid)
				protected.POST("/:id/end-seller", tradeHandler.EndAuctionSeller)
				protected.POST("/:id/end-buyer", tradeHandler.EndAuctionBuyer)
			}
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/deposits", paymentHandler.CreateDeposit)
			payments.POST("/deposits/confirm", paymentHandler.ConfirmDeposit)
			payments.GET("/balance", paymentHandler.GetBalance)
		}

		// Image storage
		storage := v1.Group("/storage")
		storage.Use(middleware.AuthRequired())
		{
			storage.POST("/images", middleware.UploadRateLimit(), storageHandler.UploadImage)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r, nil
}
