package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudgear/qlineup_bot/internal/app"
	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/config"
	"github.com/mudgear/qlineup_bot/internal/lineup"
	"github.com/mudgear/qlineup_bot/internal/repository"
	"github.com/mudgear/qlineup_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting q line-up bot",
		zap.String("environment", cfg.Environment),
		zap.String("channel", cfg.LineupChannel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	slotRepo := repository.NewSlotRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)

	directory := app.NewDirectory(memberRepo, locationRepo, logger)
	if err := directory.Refresh(ctx); err != nil {
		logger.Fatal("Failed to load directory", zap.Error(err))
	}
	if err := directory.Start(cfg.DirectoryRefreshSpec); err != nil {
		logger.Fatal("Failed to schedule directory refresh", zap.Error(err))
	}
	defer directory.Stop()

	lineupService := service.NewLineupService(slotRepo, logger)
	client := chat.NewRetryingClient(chat.NewSlackClient(cfg.SlackBotToken))
	renderer := lineup.NewRenderer(lineupService, logger)
	patcher := lineup.NewPatcher(logger)
	dispatcher := lineup.NewDispatcher(lineupService, client, directory, renderer, patcher, logger)

	scheduler := app.NewScheduler(dispatcher, cfg.LineupChannel, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Q line-up bot running")

	<-ctx.Done()
	logger.Info("Shutting down")
}
