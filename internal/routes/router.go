package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"routesync/internal/auth"
	"routesync/internal/config"
	"routesync/internal/delivery/http/handler"
	"routesync/internal/infrastructure/database/sqlite"
	"routesync/internal/infrastructure/remote/postgres"
	"routesync/internal/logger"
	"routesync/internal/middleware"
	"routesync/internal/session"
	"routesync/internal/tracking"
	fleetUsecase "routesync/internal/usecase/fleet"
	tripUsecase "routesync/internal/usecase/trip"
)

// Deps carries the wired core the router exposes.
type Deps struct {
	LocalDB   *sqlite.DB
	RemoteDB  *postgres.DB
	Fleets    *fleetUsecase.Service
	Trips     *tripUsecase.Service
	Sessions  *session.Store
	Auth      *auth.Service
	Collector *tracking.Collector
}

func SetupRoutes(cfg *config.Config, deps *Deps) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		if err := deps.RemoteDB.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Remote store connection failed",
			})
			return
		}
		if err := deps.LocalDB.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Local cache connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	fleetHandler := handler.NewFleetHandler(deps.Fleets, deps.Auth, deps.Sessions)
	tripHandler := handler.NewTripHandler(deps.Trips, deps.Sessions, deps.Collector)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	watchHandler := handler.NewWatchHandler(deps.Trips)

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		fleetHandler.RegisterRoutes(v1)
		tripHandler.RegisterRoutes(v1)
		sessionHandler.RegisterRoutes(v1)
		watchHandler.RegisterRoutes(v1)
	}

	logger.Info("All routes initialized")
	return router
}
