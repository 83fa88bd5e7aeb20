package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/mudgear/qlineup_bot/internal/repository/base"
)

// SlotRepository persists sign-up slots. The unique constraint on
// (location, date) is the final arbiter of who holds a slot; callers must
// not rely on a prior read to detect conflicts.
type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

const slotColumns = `id, location, date, claimants, closed, created_at, updated_at`

// FindBySlot returns the stored row for a (location, date), or nil if the
// slot is open.
func (r *SlotRepository) FindBySlot(ctx context.Context, location string, date time.Time) (*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM lineup_slots
		WHERE location = $1 AND date = $2
	`

	var slot model.Slot
	err := r.QueryRow(ctx, query, location, date).Scan(
		&slot.ID,
		&slot.Location,
		&slot.Date,
		&slot.Claimants,
		&slot.Closed,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}

	return &slot, nil
}

// FindRange returns all stored slots for every location in [start, end).
func (r *SlotRepository) FindRange(ctx context.Context, start, end time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM lineup_slots
		WHERE date >= $1 AND date < $2
		ORDER BY date, location
	`

	rows, err := r.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("find slots in range: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// FindRangeByLocation returns stored slots for one location in [start, end).
func (r *SlotRepository) FindRangeByLocation(ctx context.Context, location string, start, end time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM lineup_slots
		WHERE location = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := r.Query(ctx, query, location, start, end)
	if err != nil {
		return nil, fmt.Errorf("find slots by location: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Claim inserts a row for the slot if and only if none exists. It reports
// whether this call was the one that inserted; false means another claimant
// already holds the slot. The conflict check and the insert are a single
// statement, so two concurrent claims cannot both win.
func (r *SlotRepository) Claim(ctx context.Context, location string, date time.Time, claimants string) (bool, error) {
	query := `
		INSERT INTO lineup_slots (location, date, claimants)
		VALUES ($1, $2, $3)
		ON CONFLICT (location, date) DO NOTHING
	`

	affected, err := r.ExecAffected(ctx, query, location, date, claimants)
	if err != nil {
		return false, fmt.Errorf("claim slot: %w", err)
	}

	return affected > 0, nil
}

// Close upserts the slot's row with the closed marker, overwriting any
// existing claimants.
func (r *SlotRepository) Close(ctx context.Context, location string, date time.Time) error {
	query := `
		INSERT INTO lineup_slots (location, date, claimants, closed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (location, date) DO UPDATE
		SET claimants = EXCLUDED.claimants, closed = TRUE, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, location, date, model.ClosedMarker); err != nil {
		return fmt.Errorf("close slot: %w", err)
	}

	return nil
}

// Clear deletes the slot's row, returning it to the implicit open state.
// Clearing an already-open slot is a no-op.
func (r *SlotRepository) Clear(ctx context.Context, location string, date time.Time) error {
	query := `
		DELETE FROM lineup_slots
		WHERE location = $1 AND date = $2
	`

	if _, err := r.ExecAffected(ctx, query, location, date); err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}

	return nil
}

func scanSlots(rows pgx.Rows) ([]*model.Slot, error) {
	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.Location,
			&slot.Date,
			&slot.Claimants,
			&slot.Closed,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
