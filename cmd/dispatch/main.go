package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openride/dispatch/internal/pkg/config"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/health"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/middleware"
	natspkg "github.com/openride/dispatch/internal/pkg/nats"
	"github.com/openride/dispatch/internal/pkg/server"
	locationhandler "github.com/openride/dispatch/services/location/handler"
	locationrepo "github.com/openride/dispatch/services/location/repository"
	locationusecase "github.com/openride/dispatch/services/location/usecase"
	"github.com/openride/dispatch/services/trips/gateway"
	tripshandler "github.com/openride/dispatch/services/trips/handler"
	tripsrepo "github.com/openride/dispatch/services/trips/repository"
	tripsusecase "github.com/openride/dispatch/services/trips/usecase"
	usershandler "github.com/openride/dispatch/services/users/handler"
	usersrepo "github.com/openride/dispatch/services/users/repository"
	usersusecase "github.com/openride/dispatch/services/users/usecase"
)

const appName = "dispatch"

func main() {
	configs := config.InitConfig("config/dispatch.env")

	appLogger, err := logger.New(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()
	logger.SetGlobalLogger(appLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment))

	// PostgreSQL
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresClient.Close()

	if err := postgresClient.Migrate(configs.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run migrations", logger.Err(err))
	}

	// Redis
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer redisClient.Close()

	// NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	defer natsClient.Close()

	// Repositories
	tripRepo := tripsrepo.NewTripRepository(postgresClient.GetDB())
	userRepo := usersrepo.NewUserRepository(postgresClient.GetDB())
	locationRepo := locationrepo.NewLocationRepository(redisClient,
		time.Duration(configs.Location.EntryTTLMinutes)*time.Minute)

	// Gateway
	tripGW := gateway.NewTripGW(natsClient)

	// Usecases
	tripUC := tripsusecase.NewTripUC(configs, tripRepo, tripGW)
	userUC := usersusecase.NewUserUC(configs, userRepo)
	locationUC := locationusecase.NewLocationUC(configs, locationRepo)

	// Echo router
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.RequestLoggerMiddleware())

	health.RegisterHealthEndpoints(e, appName)

	tripshandler.NewHandler(tripUC).RegisterRoutes(e, configs.JWT)
	usershandler.NewHandler(userUC).RegisterRoutes(e, configs.JWT)
	locationhandler.NewHandler(locationUC).RegisterRoutes(e, configs.JWT)

	// Cleanup runs after the HTTP server has drained.
	shutdownManager := server.NewShutdownManager(appLogger)
	shutdownManager.Register(func(context.Context) error {
		natsClient.Close()
		return nil
	})
	shutdownManager.Register(func(context.Context) error {
		return redisClient.Close()
	})
	shutdownManager.Register(func(context.Context) error {
		return postgresClient.Close()
	})

	srv := server.NewGracefulServer(e, appLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		logger.Error("Server shutdown error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := shutdownManager.Shutdown(ctx); err != nil {
		logger.Error("Component shutdown error", logger.Err(err))
	}
}
