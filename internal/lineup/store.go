package lineup

import (
	"context"
	"time"

	"github.com/mudgear/qlineup_bot/internal/model"
)

// SlotStore is the persistence boundary for slot claims. It is the sole
// source of truth for whether a slot is taken; neither the rendered
// document nor any in-memory cache may be trusted for conflict detection.
type SlotStore interface {
	// FindBySlot returns the stored row for a slot, or nil when open.
	FindBySlot(ctx context.Context, location string, date time.Time) (*model.Slot, error)

	// FindRange returns stored slots for every location in [start, end).
	FindRange(ctx context.Context, start, end time.Time) ([]*model.Slot, error)

	// FindRangeByLocation returns stored slots for one location in [start, end).
	FindRangeByLocation(ctx context.Context, location string, start, end time.Time) ([]*model.Slot, error)

	// Claim assigns claimants to an open slot. Returns ErrSlotTaken when a
	// row for the slot already exists; only the call that inserted the row
	// is the winner.
	Claim(ctx context.Context, location string, date time.Time, claimants []string) error

	// Close marks the slot unavailable, overwriting any claimants with
	// the closed marker.
	Close(ctx context.Context, location string, date time.Time) error

	// Clear deletes the slot's row, reopening it.
	Clear(ctx context.Context, location string, date time.Time) error
}
