package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/feedback-quiz-bot/internal/config"
	"github.com/aliskhannn/feedback-quiz-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/feedback-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/feedback-quiz-bot/internal/feedbackapi"
	"github.com/aliskhannn/feedback-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/feedback-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/feedback-quiz-bot/internal/infra/redis"
	"github.com/aliskhannn/feedback-quiz-bot/internal/logger"
	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
	"github.com/aliskhannn/feedback-quiz-bot/internal/storage"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	identities, identityCheck, closeStore, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	api := feedbackapi.New(feedbackapi.Config{
		BaseURL: cfg.FeedbackAPI.BaseURL,
		Timeout: cfg.FeedbackAPI.Timeout,
	})

	sessions := storage.NewSessionStorage()
	quizService := service.NewQuizService(api, identities, sessions, lg)
	identityService := service.NewIdentityService(identities)
	janitor := service.NewSessionJanitor(sessions, cfg.Quiz.SessionTTL, cfg.Quiz.SweepInterval, lg)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, quizService, identityService)

	ops := httpapi.NewServer(cfg.HTTP.Addr, map[string]httpapi.Check{
		"identity_store": identityCheck,
		"feedback_api":   api.Health,
	}, lg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })
	g.Go(func() error { return ops.Run(gctx) })
	g.Go(func() error { return janitor.Start(gctx) })

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown complete")
	return nil
}

// openIdentityStore connects the configured identity backend.
func openIdentityStore(
	ctx context.Context, cfg *config.Config,
) (service.IdentityRepository, httpapi.Check, func(), error) {
	switch cfg.Identity.Backend {
	case config.IdentityBackendRedis:
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis: %w", err)
		}

		store := redis.NewIdentityStore(client)
		return store, store.Ping, func() { _ = client.Close() }, nil

	default:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
			ApplicationName: "feedback-quiz-bot",
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres: %w", err)
		}

		return repository.NewIdentityRepository(pool), pool.Ping, pool.Close, nil
	}
}
