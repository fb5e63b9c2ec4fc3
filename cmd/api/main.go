package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studykit/planner-api/internal/api"
	"github.com/studykit/planner-api/internal/api/handler"
	"github.com/studykit/planner-api/internal/core/service"
	"github.com/studykit/planner-api/internal/infrastructure/ai/openai"
	"github.com/studykit/planner-api/internal/infrastructure/config"
	mongodb "github.com/studykit/planner-api/internal/infrastructure/db/mongo"
	redisdb "github.com/studykit/planner-api/internal/infrastructure/db/redis"
	"github.com/studykit/planner-api/internal/infrastructure/queue"
	"github.com/studykit/planner-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Planner API
// @version         1.0
// @description     Account, timetable, and AI chat backend for the planner client.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	timetableRepo := mongodb.NewTimetableRepository(db)
	chatRepo := mongodb.NewChatRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":     userRepo.EnsureIndexes,
		"timetable": timetableRepo.EnsureIndexes,
		"chat":      chatRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	tokens := service.NewTokenService(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	authService := service.NewAuthService(userRepo, tokens, log)
	timetableService := service.NewTimetableService(timetableRepo, log)

	completionClient := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temp,
	})
	completionCache := redisdb.NewCompletionCache(rdb, log)

	historyWriter := queue.NewDispatcher(0, chatRepo, log)
	historyWriter.Start(ctx)

	chatService := service.NewChatService(completionClient, chatRepo, completionCache, historyWriter, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Tokens:      tokens,
		Timetable:   timetableService,
		Chat:        chatService,
		Mongo:       db,
		Redis:       rdb,
		FrontendURL: cfg.FrontendURL,
		Cookies: handler.CookieConfig{
			Secure:     cfg.IsProduction(),
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		},
		Logger: log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
