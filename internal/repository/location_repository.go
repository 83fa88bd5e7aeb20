package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/mudgear/qlineup_bot/internal/repository/base"
)

// LocationRepository persists the configured workout locations and their
// weekly schedules.
type LocationRepository struct {
	*base.Repository
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{Repository: base.NewRepository(pool)}
}

// ListActive returns every active location ordered by slug.
func (r *LocationRepository) ListActive(ctx context.Context) ([]*model.Location, error) {
	query := `
		SELECT id, slug, name, weekdays, is_active, created_at
		FROM locations
		WHERE is_active
		ORDER BY slug
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*model.Location
	for rows.Next() {
		var (
			loc      model.Location
			weekdays string
		)
		err := rows.Scan(
			&loc.ID,
			&loc.Slug,
			&loc.Name,
			&weekdays,
			&loc.IsActive,
			&loc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}

		loc.Weekdays, err = parseWeekdays(weekdays)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", loc.Slug, err)
		}
		locations = append(locations, &loc)
	}

	return locations, rows.Err()
}

// parseWeekdays decodes the stored comma-joined weekday numbers
// (0 = Sunday, 6 = Saturday).
func parseWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", p)
		}
		days = append(days, time.Weekday(n))
	}

	return days, nil
}
