package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "agrichain/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"agrichain/internal/auth"
	"agrichain/internal/cache"
	"agrichain/internal/config"
	"agrichain/internal/db"
	"agrichain/internal/handler"
	"agrichain/internal/mlclient"
	"agrichain/internal/model"
	"agrichain/internal/repository"
	"agrichain/internal/router"
	"agrichain/internal/service"
)

// @title AgriChain API
// @version 1.0
// @description Farm-to-distributor supply-chain tracking API with crop listings, shipments, transactions, and price prediction.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Checkpoint{},
			&model.Shipment{},
			&model.Transaction{},
			&model.PriceHistory{},
			&model.Crop{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Crop{},
		&model.Shipment{},
		&model.Checkpoint{},
		&model.Transaction{},
		&model.PriceHistory{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	cropRepo := repository.NewCropRepository(gormDB)
	shipmentRepo := repository.NewShipmentRepository(gormDB)
	txnRepo := repository.NewTransactionRepository(gormDB)
	priceHistoryRepo := repository.NewPriceHistoryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize ML client and start the health poller
	mlClient := mlclient.New(cfg.MLServiceURL)
	healthMonitor := mlclient.NewHealthMonitor(mlClient)
	if err := healthMonitor.Start(context.Background(), cfg.MLHealthInterval); err != nil {
		log.Fatalf("start ml health monitor: %v", err)
	}
	defer healthMonitor.Stop()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	priceService := service.NewPriceService(mlClient, healthMonitor, priceHistoryRepo, cacheClient)
	cropService := service.NewCropService(cropRepo, priceService)
	shipmentService := service.NewShipmentService(shipmentRepo, cropRepo)
	txnService := service.NewTransactionService(txnRepo, cropRepo)

	// Register routes
	router.Register(e, cfg, authService, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Crop:        handler.NewCropHandler(cropService),
		Shipment:    handler.NewShipmentHandler(shipmentService),
		Transaction: handler.NewTransactionHandler(txnService),
		Price:       handler.NewPriceHandler(priceService),
		QR:          handler.NewQRHandler(),
	})

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
