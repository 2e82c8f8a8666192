package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/config"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/infrastructure/database"
	"github.com/sangkips/restaurant-billing/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/middleware"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/routes"
	"github.com/sangkips/restaurant-billing/pkg/logger"
	"github.com/sangkips/restaurant-billing/pkg/printer"
	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	loc, _ := cfg.App.Location()

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed the sample menu on an empty database
	if _, err := database.SeedSampleMenu(db, log); err != nil {
		log.WithError(err).Warn("Failed to seed sample menu")
	}

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer, printing disabled")
		thermalPrinter = printer.NewNullPrinter()
	}

	header := entity.BillHeader{
		StoreName: cfg.Billing.StoreName,
		Address:   cfg.Billing.StoreAddress,
		Phone:     cfg.Billing.StorePhone,
		GSTIN:     cfg.Billing.GSTIN,
		Currency:  cfg.Billing.Currency,
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo, log)
	orderService := service.NewOrderService(orderRepo, menuRepo, cfg.Billing.DefaultGSTRate, log)
	reportService := service.NewReportService(reportRepo, loc, cfg.Billing.StoreName, log)
	billService := service.NewBillService(thermalPrinter, orderRepo, header, cfg.Printer.Width, loc, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:  handler.NewHealthHandler(db, version),
		Menu:    handler.NewMenuHandler(menuService),
		Order:   handler.NewOrderHandler(orderService, loc),
		Printer: handler.NewPrinterHandler(billService),
		Report:  handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Close()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{
			"service": cfg.App.Name,
			"port":    cfg.App.Port,
			"env":     cfg.App.Env,
			"printer": thermalPrinter.Type(),
		}).Info("Starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
