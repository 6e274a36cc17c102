package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/RoiLaboratories/taxifi/internal/handler"
	"github.com/RoiLaboratories/taxifi/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	RideHandler    *handler.RideHandler
	WalletHandler  *handler.WalletHandler
	SavingsHandler *handler.SavingsHandler
	BonusHandler   *handler.BonusHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Auth and user routes.
		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.UserHandler.Register)
		}
		users := api.Group("/users")
		{
			users.GET("/:id", deps.UserHandler.GetUser)
		}

		// Ride routes.
		ride := api.Group("/ride")
		{
			ride.POST("/request", deps.RideHandler.RequestRide)
			ride.POST("/:id/accept", deps.RideHandler.AcceptRide)
			ride.POST("/:id/start", deps.RideHandler.StartRide)
			ride.POST("/:id/complete", deps.RideHandler.CompleteRide)
			ride.POST("/:id/cancel", deps.RideHandler.CancelRide)
			ride.POST("/:id/rate", deps.RideHandler.RateRide)
			ride.GET("/:id", deps.RideHandler.GetRide)
		}

		// Wallet routes.
		wallet := api.Group("/wallet")
		{
			wallet.POST("/fund", deps.WalletHandler.Fund)
			wallet.POST("/withdraw", deps.WalletHandler.Withdraw)
			wallet.POST("/transfer", deps.WalletHandler.Transfer)
			wallet.GET("/transactions/:userId/:type", deps.WalletHandler.GetTransactions)
			wallet.GET("/:userId", deps.WalletHandler.GetBalance)
		}

		// Drive & Save routes.
		savings := api.Group("/drive-and-save")
		{
			savings.POST("/start", deps.SavingsHandler.StartPlan)
			savings.POST("/:planId/withdraw", deps.SavingsHandler.WithdrawSavings)
			savings.GET("/wallet/:driverId", deps.SavingsHandler.GetWallet)
			savings.GET("/history/:driverId", deps.SavingsHandler.GetHistory)
			savings.GET("/:driverId", deps.SavingsHandler.GetActivePlan)
		}

		// Bonus routes.
		bonus := api.Group("/bonus")
		{
			bonus.POST("/check-eligibility", deps.BonusHandler.CheckEligibility)
			bonus.PUT("/update-amount", deps.BonusHandler.UpdateBonusAmount)
		}
	}

	return router
}
