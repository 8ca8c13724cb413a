package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/pricewise/internal/auth"
	"github.com/mmynk/pricewise/internal/config"
	"github.com/mmynk/pricewise/internal/metrics"
	"github.com/mmynk/pricewise/internal/middleware"
	"github.com/mmynk/pricewise/internal/models"
	"github.com/mmynk/pricewise/internal/seed"
	"github.com/mmynk/pricewise/internal/service"
	"github.com/mmynk/pricewise/internal/storage/sqlite"
	"github.com/mmynk/pricewise/pkg/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// `server hash-password <password>` prints a bcrypt hash for ADMIN_PASSWORD_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := auth.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.LoadOrEnv()
	logger := logging.New(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Storage.DatabasePath)

	ctx := context.Background()
	if cfg.Seed.Path != "" {
		f, err := seed.Load(cfg.Seed.Path)
		if err == nil {
			err = f.Apply(ctx, store)
		}
		if err != nil {
			logger.Error("Failed to apply seed", "path", cfg.Seed.Path, "error", err)
			os.Exit(1)
		}
		logger.Info("Seed applied", "path", cfg.Seed.Path, "organizations", len(f.Organizations))
	}

	if _, err := store.GetOrganization(ctx, cfg.Organization.DefaultID); err != nil {
		logger.Warn("Default organization not found; requests must name one",
			"organization_id", cfg.Organization.DefaultID,
			"error", err,
		)
	}

	mux := http.NewServeMux()

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor(logger)}
	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(registry)
		interceptors = append(interceptors, m.Interceptor())
		mux.Handle(cfg.Observability.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		logger.Info("Metrics enabled", "path", cfg.Observability.Metrics.Path)
	}
	withInterceptors := connect.WithInterceptors(interceptors...)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration())
	authenticator := auth.NewPasswordAuthenticator(&models.Admin{
		ID:             cfg.Auth.AdminEmail,
		Email:          cfg.Auth.AdminEmail,
		OrganizationID: cfg.Organization.DefaultID,
		PasswordHash:   cfg.Auth.AdminPasswordHash,
	})
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPasswordHash == "" {
		logger.Warn("No admin configured; delivery settings cannot be changed")
	}

	// Register Connect services
	pricingSvc := service.NewPricingService(store, m, service.PricingOptions{
		DefaultOrganizationID: cfg.Organization.DefaultID,
		StrictPreview:         cfg.Pricing.StrictPreview,
	}, logger)
	// Auth runs first so RPC logs carry the user and organization
	mux.Handle(service.NewPricingServiceHandler(pricingSvc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
		withInterceptors,
	))

	settingsSvc := service.NewSettingsService(store, cfg.Organization.DefaultID, logger)
	mux.Handle(service.NewSettingsServiceHandler(settingsSvc, middleware.RequireAuth(jwtManager), withInterceptors))

	authSvc := service.NewAuthService(authenticator, jwtManager, logger)
	mux.Handle(service.NewAuthServiceHandler(authSvc, withInterceptors))

	// Add logging and CORS middleware
	handler := middleware.RequestLogger(middleware.CORS(cfg.Server.AllowedOrigin, mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
