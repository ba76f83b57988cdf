package main

import (
	"context" // Context for Redis ping

	"voucher_market/internal/api"        // HTTP handlers and routes
	"voucher_market/internal/config"     // Configuration
	"voucher_market/internal/db"         // Database connection
	"voucher_market/internal/repository" // Relational store
	"voucher_market/internal/service"    // Business services

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Redis is optional; without it list responses are not cached
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	store := repository.NewGormStore(gdb)
	codes := service.NewCodeGenerator(store)
	guard := service.NewGuard(store)
	router, err := api.NewRouter(api.Services{
		Store:        store,
		Guard:        guard,
		Registration: service.NewRegistrationService(store, codes, cfg.DefaultPassword, cfg.BcryptCost),
		Orders:       service.NewOrderService(store, codes, guard),
		Redemptions:  service.NewRedemptionService(store, guard),
		Vouchers:     service.NewVoucherService(store, codes, guard),
		Commissions:  service.NewCommissionService(store, guard),
	}, api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: []string{"127.0.0.1"},
		Redis:          redisClient,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := router.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
