package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contract-registry-api/config"
	"contract-registry-api/db"
	"contract-registry-api/handler"
	"contract-registry-api/logger"
	"contract-registry-api/repository"
	"contract-registry-api/router"
	"contract-registry-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	contractRepo := repository.NewContractRepository(database)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, service.LogMailer{})
	contractService := service.NewContractService(contractRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	profileHandler := handler.NewProfileHandler(userService)
	contractHandler := handler.NewContractHandler(contractService)
	uploadHandler := handler.NewUploadHandler(contractService)

	r := router.NewRouter(authHandler, userHandler, profileHandler, contractHandler, uploadHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
