package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bazario/bazario-api/internal/config"
	"github.com/bazario/bazario-api/internal/domain/admin"
	"github.com/bazario/bazario-api/internal/domain/auth"
	"github.com/bazario/bazario-api/internal/domain/credit"
	"github.com/bazario/bazario-api/internal/domain/listing"
	"github.com/bazario/bazario-api/internal/domain/pack"
	"github.com/bazario/bazario-api/internal/domain/payment"
	"github.com/bazario/bazario-api/internal/domain/profile"
	"github.com/bazario/bazario-api/internal/domain/user"
	"github.com/bazario/bazario-api/internal/middleware"
	"github.com/bazario/bazario-api/internal/pkg/database"
	"github.com/bazario/bazario-api/internal/pkg/imaging"
	"github.com/bazario/bazario-api/internal/pkg/jwt"
	"github.com/bazario/bazario-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg)

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting Bazario API")

	// Database
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Redis (optional, profile cache degrades to DB reads without it)
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	// Object storage
	store, err := storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Shared services
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	processor := imaging.NewProcessor(imaging.DefaultConfig())

	// Repositories
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	packRepo := pack.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// Services
	creditService := credit.NewService(db)
	profileService := profile.NewService(profileRepo, redisClient, cfg.ProfileCacheTTL)
	authService := auth.NewService(db, userRepo, profileRepo, jwtService, cfg.StartingCredits)
	listingService := listing.NewService(db, listingRepo, creditService, store, processor, profileService, cfg.MaxListingImages)
	paymentService := payment.NewService(db, paymentRepo, packRepo, creditService, profileService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	listingHandler := listing.NewHandler(listingService)
	packHandler := pack.NewHandler(packRepo)
	paymentHandler := payment.NewHandler(paymentService)
	adminHandler := admin.NewHandler(userRepo, profileService, creditService, listingService, paymentService, packRepo)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authMW := middleware.Auth(jwtService)
	optionalAuthMW := middleware.OptionalAuth(jwtService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/profiles", profileHandler.Routes(authMW))
		r.Mount("/listings", listingHandler.Routes(authMW, optionalAuthMW))
		r.Mount("/packs", packHandler.Routes())
		r.With(authMW).Post("/packs/{id}/purchase", paymentHandler.Purchase)
		r.Mount("/transactions", paymentHandler.Routes(authMW))
	})

	r.Mount("/api/admin", adminHandler.Routes(authMW))

	// Server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
