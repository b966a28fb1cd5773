package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/auth"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart and checkout backend for the storefront.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.

func main() {
	cfg := config.MustLoad()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	response.SetDebug(cfg.IsDevelopment())
	utils.SetDBTimeout(cfg.Database.QueryTimeout)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel, cfg.Env, health.Version)
	if err != nil {
		slog.Error("Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	cartLocker := repository.NewCartLocker(redisClient, cfg.CartLock)

	tokens := auth.NewTokenManager([]byte(cfg.Security.JWTKey),
		auth.WithTTL(cfg.Security.JWTExpiry),
		auth.WithIssuer(cfg.Security.JWTIssuer),
	)

	var notifier service.OrderNotifier
	if cfg.SendGrid.APIKey != "" {
		notifier = service.NewEmailOrderNotifier(
			sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName))
	} else {
		slog.Warn("SendGrid API key not set, order confirmations are disabled")
		notifier = service.NewNoopNotifier()
	}

	userService := service.NewUserService(repos.User, rateLimiter, tokens)
	productService := service.NewProductService(repos.Product)
	cartService := service.NewCartService(repos.Cart, repos.Product, cartLocker)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, cartLocker, notifier)

	healthChecks, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := &api.Router{
		Auth:           handlers.NewAuthHandler(userService),
		Product:        handlers.NewProductHandler(productService),
		Cart:           handlers.NewCartHandler(cartService),
		Order:          handlers.NewOrderHandler(orderService),
		AuthMiddleware: middleware.NewAuthMiddleware(userService),
		Health:         healthChecks.Handler(),
	}

	slog.Info("Storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	server := http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      otelhttp.NewHandler(router.Handler(), health.ServiceName),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("Tracer shutdown failed", slog.String("error", err.Error()))
	}
}
