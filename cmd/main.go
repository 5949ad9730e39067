package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medifind-service/internal/handler"
	"medifind-service/internal/middleware"
	"medifind-service/internal/repository"
	"medifind-service/internal/service"
	"medifind-service/pkg/config"
	"medifind-service/pkg/database"
	"medifind-service/pkg/gemini"
	"medifind-service/pkg/jwtutil"
	"medifind-service/pkg/logger"
	"medifind-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting MediFind service...", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	log.Info("Database connection established and migrations completed")

	if cfg.AI.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set, AI endpoints will fail")
	}
	ai, err := gemini.NewClient(context.Background(), cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		log.Fatal("Failed to create AI client", zap.Error(err))
	}

	tokens := jwtutil.NewJWTUtil(cfg.JWT.SigningKey, cfg.JWT.ExpirationHours)

	users := repository.NewUserRepo(db)
	shops := repository.NewShopRepo(db)
	orders := repository.NewOrderRepo(db)

	h := &handler.Handler{
		ServiceName: cfg.ServiceName,
		DB:          sqlDB,
		Auth:        service.NewAuthService(users, tokens),
		Shops:       service.NewShopService(shops),
		Discovery:   service.NewDiscoveryService(shops),
		Orders:      service.NewOrderService(orders, shops),
		Admin:       service.NewAdminService(users, shops),
		AI:          service.NewAIService(ai),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewValidator()

	// Global middleware, order matters. Metrics wraps Recover so recovered
	// panics are counted as 500.
	e.Use(prometheus.MetricsMiddleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.Server.CORSOrigin},
	}))
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	handler.RegisterRoutes(e, h, middleware.AuthMiddleware(tokens))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	_ = log.Sync()
}
