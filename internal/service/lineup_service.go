package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mudgear/qlineup_bot/internal/lineup"
	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/mudgear/qlineup_bot/internal/repository"
	"go.uber.org/zap"
)

// LineupService is the business layer over the slot repository. It joins
// claimant names into the stored representation, maps the repository's
// insert outcome onto lineup.ErrSlotTaken and logs every mutation. It
// satisfies lineup.SlotStore.
type LineupService struct {
	slotRepo *repository.SlotRepository
	logger   *zap.Logger
}

func NewLineupService(slotRepo *repository.SlotRepository, logger *zap.Logger) *LineupService {
	return &LineupService{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// FindBySlot returns the stored row for a slot, or nil when open.
func (s *LineupService) FindBySlot(ctx context.Context, location string, date time.Time) (*model.Slot, error) {
	return s.slotRepo.FindBySlot(ctx, location, date)
}

// FindRange returns stored slots for every location in [start, end).
func (s *LineupService) FindRange(ctx context.Context, start, end time.Time) ([]*model.Slot, error) {
	return s.slotRepo.FindRange(ctx, start, end)
}

// FindRangeByLocation returns stored slots for one location in [start, end).
func (s *LineupService) FindRangeByLocation(ctx context.Context, location string, start, end time.Time) ([]*model.Slot, error) {
	return s.slotRepo.FindRangeByLocation(ctx, location, start, end)
}

// Claim assigns claimants to an open slot. Only the call whose insert
// created the row wins; everyone else gets lineup.ErrSlotTaken.
func (s *LineupService) Claim(ctx context.Context, location string, date time.Time, claimants []string) error {
	inserted, err := s.slotRepo.Claim(ctx, location, date, model.JoinClaimants(claimants))
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	if !inserted {
		return fmt.Errorf("%w: %s %s", lineup.ErrSlotTaken, location, date.Format("2006-01-02"))
	}

	s.logger.Info("Slot claimed",
		zap.String("location", location),
		zap.Time("date", date),
		zap.Strings("claimants", claimants))

	return nil
}

// Close marks a slot unavailable, overwriting any existing claimants with
// the closed marker. Closing an already-closed slot is idempotent.
func (s *LineupService) Close(ctx context.Context, location string, date time.Time) error {
	existing, err := s.slotRepo.FindBySlot(ctx, location, date)
	if err != nil {
		return fmt.Errorf("close slot: %w", err)
	}

	if err := s.slotRepo.Close(ctx, location, date); err != nil {
		return fmt.Errorf("close slot: %w", err)
	}

	if existing != nil && !existing.Closed && existing.Claimants != "" {
		// Observed behavior carried over from the original board: close
		// discards whoever held the slot. Log it so the loss is traceable.
		s.logger.Warn("Closing discarded existing claimants",
			zap.String("location", location),
			zap.Time("date", date),
			zap.String("claimants", existing.Claimants))
	} else {
		s.logger.Info("Slot closed",
			zap.String("location", location),
			zap.Time("date", date))
	}

	return nil
}

// Clear deletes the slot's row, returning it to the open state.
func (s *LineupService) Clear(ctx context.Context, location string, date time.Time) error {
	if err := s.slotRepo.Clear(ctx, location, date); err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}

	s.logger.Info("Slot cleared",
		zap.String("location", location),
		zap.Time("date", date))

	return nil
}
