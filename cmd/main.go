package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/careerbridge/careerbridge-backend/internal/db"
	"github.com/careerbridge/careerbridge-backend/internal/gateway"
	"github.com/careerbridge/careerbridge-backend/internal/handlers"
	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/middleware"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
	"github.com/careerbridge/careerbridge-backend/internal/realtime/bus"
	"github.com/careerbridge/careerbridge-backend/internal/repos"
	"github.com/careerbridge/careerbridge-backend/internal/server"
	"github.com/careerbridge/careerbridge-backend/internal/services"
	"github.com/careerbridge/careerbridge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	jobRepo := repos.NewJobRepo(thePG, log)
	jobViewRepo := repos.NewJobViewRepo(thePG, log)
	applicationRepo := repos.NewApplicationRepo(thePG, log)
	interviewRepo := repos.NewInterviewRepo(thePG, log)
	savedJobRepo := repos.NewSavedJobRepo(thePG, log)

	// Realtime fan-out
	log.Info("Setting up analytics hub...")
	hub := realtime.NewHub(log)
	localSink := realtime.HubSink{Hub: hub}

	var sink realtime.EventSink = localSink
	if analyticsBus, busErr := bus.NewRedisBus(log); busErr != nil {
		log.Warn("Redis bus unavailable, running single-instance fan-out", "error", busErr)
	} else {
		if fwErr := analyticsBus.StartForwarder(context.Background(), func(env bus.Envelope) {
			localSink.Deliver(context.Background(), env.Rooms, env.Event)
		}); fwErr != nil {
			log.Warn("Redis forwarder failed to start, running single-instance fan-out", "error", fwErr)
			_ = analyticsBus.Close()
		} else {
			sink = bus.NewSink(analyticsBus, localSink, log)
			defer analyticsBus.Close()
		}
	}
	publisher := realtime.NewPublisher(sink, log)

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	analyticsService := services.NewAnalyticsService(thePG, log, jobRepo, jobViewRepo, applicationRepo, interviewRepo, savedJobRepo)
	activityService := services.NewActivityService(thePG, log, jobRepo, jobViewRepo, applicationRepo, interviewRepo, savedJobRepo, publisher)

	// Gateway
	gw := gateway.New(log, hub, authService)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	activityHandler := handlers.NewActivityHandler(activityService)
	socketHandler := handlers.NewSocketHandler(gw)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		AnalyticsHandler: analyticsHandler,
		ActivityHandler:  activityHandler,
		SocketHandler:    socketHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
