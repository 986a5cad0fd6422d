package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"routesync/internal/auth"
	"routesync/internal/config"
	"routesync/internal/infrastructure/database/sqlite"
	"routesync/internal/infrastructure/remote/postgres"
	"routesync/internal/logger"
	"routesync/internal/routes"
	"routesync/internal/session"
	"routesync/internal/tracking"
	fleetUsecase "routesync/internal/usecase/fleet"
	tripUsecase "routesync/internal/usecase/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.RemoteDB.Host == "" || cfg.RemoteDB.DBName == "" {
		logger.Fatal("Remote store configuration is missing. Please set REMOTE_DB_HOST and REMOTE_DB_NAME environment variables.")
	}

	remoteDB, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to remote store", zap.Error(err))
	}
	defer func() {
		if err := remoteDB.Close(); err != nil {
			logger.Error("Failed to close remote store connection", zap.Error(err))
		}
	}()

	localDB, err := sqlite.Open(cfg.Cache.Path)
	if err != nil {
		logger.Fatal("Failed to open local cache", zap.Error(err))
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			logger.Error("Failed to close local cache", zap.Error(err))
		}
	}()

	remoteStore := postgres.NewStore(remoteDB)
	fleetStore := sqlite.NewFleetStore(localDB)
	tripStore := sqlite.NewTripStore(localDB)

	sessions, err := session.NewStore(localDB)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}

	authService := auth.NewService(sessions, &cfg.JWT)
	fleetService := fleetUsecase.NewService(remoteStore, fleetStore, remoteStore, fleetStore)
	tripService := tripUsecase.NewService(remoteStore, tripStore)

	filter := tracking.NewFilter(cfg.Tracking.MinDistanceMeters)
	collector := tracking.NewCollector(tripService, filter, cfg.Tracking.FixBufferSize)
	collector.Start()
	defer collector.Stop()

	var provider *tracking.LocationProvider
	if cfg.MQTT.Broker != "" {
		provider, err = tracking.NewLocationProvider(&cfg.MQTT, collector)
		if err != nil {
			logger.Fatal("Failed to build location provider", zap.Error(err))
		}
		if err := provider.Start(); err != nil {
			logger.Fatal("Failed to start location provider", zap.Error(err))
		}
		defer func() {
			if err := provider.Stop(); err != nil {
				logger.Error("Failed to stop location provider", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("MQTT broker not configured; location ingestion disabled")
	}

	router := routes.SetupRoutes(cfg, &routes.Deps{
		LocalDB:   localDB,
		RemoteDB:  remoteDB,
		Fleets:    fleetService,
		Trips:     tripService,
		Sessions:  sessions,
		Auth:      authService,
		Collector: collector,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
