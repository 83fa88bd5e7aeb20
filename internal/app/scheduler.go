package app

import (
	"context"
	"time"

	"github.com/mudgear/qlineup_bot/internal/lineup"
	"go.uber.org/zap"
)

// lineupHorizonWeeks is how far ahead each posted board reaches.
const lineupHorizonWeeks = 3

// Scheduler runs the background task that posts a fresh line-up board to
// the configured channel once a week, so the community always has claim
// buttons for the coming weeks.
type Scheduler struct {
	dispatcher *lineup.Dispatcher
	channel    string
	logger     *zap.Logger
	stopChan   chan struct{}
}

func NewScheduler(dispatcher *lineup.Dispatcher, channel string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		channel:    channel,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the posting task.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting line-up scheduler")
	go s.runPostingTask(ctx)
}

// Stop halts the posting task.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping line-up scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runPostingTask(ctx context.Context) {
	// First post right away, then weekly.
	s.postLineup(ctx)

	ticker := time.NewTicker(7 * 24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.postLineup(ctx)
		case <-s.stopChan:
			s.logger.Info("Line-up posting task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Line-up posting task cancelled")
			return
		}
	}
}

func (s *Scheduler) postLineup(ctx context.Context) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, lineupHorizonWeeks*7)

	_, err := s.dispatcher.PostLineup(ctx, s.channel, lineup.ScopeAll, start, end)
	if err != nil {
		s.logger.Error("Failed to post scheduled line-up", zap.Error(err))
		return
	}
}
