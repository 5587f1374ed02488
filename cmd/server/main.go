package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/config"
	"github.com/yukikurage/family-ledger-api/internal/database"
	"github.com/yukikurage/family-ledger-api/internal/handlers"
	"github.com/yukikurage/family-ledger-api/internal/logger"
	"github.com/yukikurage/family-ledger-api/internal/metrics"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"github.com/yukikurage/family-ledger-api/internal/routes"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

func main() {
	// Amounts are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	// Initialize services
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	membership := services.NewMembershipService(familyRepo)
	authService := services.NewAuthService(userRepo, tokens, cfg.DefaultResetPassword)
	familyService := services.NewFamilyService(familyRepo, userRepo, membership)
	recordService := services.NewRecordService(recordRepo, membership)
	categoryService := services.NewCategoryService(categoryRepo, membership)
	statisticsService := services.NewStatisticsService(statsRepo, membership)
	adminService := services.NewAdminService(userRepo, familyRepo, recordRepo, categoryRepo, membership)

	// Seed the system admin
	if _, err := adminService.EnsureSystemAdmin(context.Background(), cfg.AdminPhone, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.Error("Failed to seed system admin", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(log), m.Middleware())

	routes.Setup(r, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		User:     handlers.NewUserHandler(authService, familyService),
		Record:   handlers.NewRecordHandler(recordService),
		Category: handlers.NewCategoryHandler(categoryService),
		Family:   handlers.NewFamilyHandler(familyService, statisticsService),
		Admin:    handlers.NewAdminHandler(adminService),
		Health:   handlers.NewHealthHandler(db),
	}, routes.Services{
		Auth:   authService,
		Record: recordService,
	}, m)

	// Start server
	addr := ":" + cfg.Port
	log.Info("Starting server", "addr", addr, "driver", cfg.DBDriver)
	if err := r.Run(addr); err != nil {
		log.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
