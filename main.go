package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/netcode-labs/auth-service/internal/config"
	"github.com/netcode-labs/auth-service/internal/db"
	"github.com/netcode-labs/auth-service/internal/handler"
	"github.com/netcode-labs/auth-service/internal/logger"
	"github.com/netcode-labs/auth-service/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.App)
	ctx := log.WithContext(context.Background())

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	users := db.NewUsers(pool)
	if err := users.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user schema")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	codec := service.NewTokenCodec([]byte(cfg.Auth.JWTSecret))
	authService := service.NewAuthService(
		users,
		db.NewTokens(rdb),
		db.NewDenylist(rdb),
		codec,
		cfg.Auth.JWTIssuer,
		cfg.Auth.AccessTTL,
	)
	userService := service.NewUserService(users)

	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		log.Info().Msg("admin credentials not configured, skipping admin seed")
	} else if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	authHandler := handler.NewAuthHandler(authService, userService, cfg.App.Debug)
	router := handler.NewRouter(cfg, log, authService, authHandler)

	log.Info().Str("port", cfg.App.Port).Str("stage", cfg.App.Stage).Msg("starting auth service")
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
