package api

import (
	"github.com/gin-gonic/gin"

	"parkfinder/internal/api/handlers"
	"parkfinder/internal/api/middleware"
	"parkfinder/internal/metrics"
)

type Router struct {
	auth                middleware.Authenticator
	accountHandler      *handlers.AccountHandler
	searchHandler       *handlers.SearchHandler
	parkingHandler      *handlers.ParkingHandler
	tripHandler         *handlers.TripHandler
	notificationHandler *handlers.NotificationHandler
}

func NewRouter(
	auth middleware.Authenticator,
	accountHandler *handlers.AccountHandler,
	searchHandler *handlers.SearchHandler,
	parkingHandler *handlers.ParkingHandler,
	tripHandler *handlers.TripHandler,
	notificationHandler *handlers.NotificationHandler,
) *Router {
	return &Router{
		auth:                auth,
		accountHandler:      accountHandler,
		searchHandler:       searchHandler,
		parkingHandler:      parkingHandler,
		tripHandler:         tripHandler,
		notificationHandler: notificationHandler,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	engine.POST("/api/register", r.accountHandler.Register)
	engine.POST("/api/login", r.accountHandler.Login)
	engine.GET("/api/addresses/search", r.searchHandler.Search)

	// Protected routes
	api := engine.Group("/api")
	api.Use(middleware.TokenAuth(r.auth))
	{
		api.POST("/logout", r.accountHandler.Logout)
		api.GET("/preferences", r.accountHandler.GetPreferences)
		api.PUT("/preferences", r.accountHandler.UpdatePreferences)

		api.GET("/parking/options", r.parkingHandler.ListOptions)
		api.POST("/parking/recommend", r.parkingHandler.Recommend)

		api.GET("/trips/:id", r.tripHandler.GetTrip)
		api.POST("/trips/:id/position", r.tripHandler.UpdatePosition)
		api.POST("/trips/:id/reroute/accept", r.tripHandler.AcceptReroute)
		api.POST("/trips/:id/reroute/decline", r.tripHandler.DeclineReroute)
		api.POST("/trips/:id/complete", r.tripHandler.Complete)

		api.GET("/notifications", r.notificationHandler.List)
	}
}
