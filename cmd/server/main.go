package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"missionctl/internal/api"
	"missionctl/internal/api/handlers"
	"missionctl/internal/api/middleware"
	"missionctl/internal/engine/ingest"
	"missionctl/internal/pkg/logger"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/config"
	"missionctl/internal/platform/database"
	"missionctl/internal/platform/repositories"
	"missionctl/internal/platform/tenant"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	// Best-effort .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// Repositories
	tokenRepo := repositories.NewAPITokenRepository(db)
	limitRepo := repositories.NewRateLimitRepository(db)

	// Services
	sessionSvc := auth.NewSessionService(cfg.JWT)
	resolver := tenant.NewResolver(cfg.Auth.Required)
	ingestSvc := ingest.NewService(ingest.NewRepository(db), resolver)

	// Handlers
	openClawHandler := handlers.NewOpenClawHandler(tokenRepo, limitRepo, resolver, ingestSvc, cfg.RateLimit.PerMinute)
	apiTokenHandler := handlers.NewAPITokenHandler(tokenRepo)
	boardHandler := handlers.NewBoardHandler(ingestSvc)
	healthHandler := handlers.NewHealthHandler(db)
	metricsHandler := handlers.NewMetricsHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionSvc)
	tenantMiddleware := middleware.NewTenantMiddleware(resolver)

	router := api.NewRouter(&api.Dependencies{
		OpenClawHandler:  openClawHandler,
		APITokenHandler:  apiTokenHandler,
		BoardHandler:     boardHandler,
		HealthHandler:    healthHandler,
		MetricsHandler:   metricsHandler,
		AuthMiddleware:   authMiddleware,
		TenantMiddleware: tenantMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().
		Str("addr", addr).
		Bool("auth_required", cfg.Auth.Required).
		Int("rate_limit_per_minute", cfg.RateLimit.PerMinute).
		Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
