package model

import "time"

// Location is a workout site with a fixed weekly meeting schedule.
type Location struct {
	ID        int64          `json:"id"`
	Slug      string         `json:"slug"` // short stable identifier used in tokens, e.g. "gem"
	Name      string         `json:"name"` // display name shown on the board
	Weekdays  []time.Weekday `json:"weekdays"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

// MeetsOn reports whether the location's weekly schedule includes the weekday.
func (l *Location) MeetsOn(day time.Weekday) bool {
	for _, w := range l.Weekdays {
		if w == day {
			return true
		}
	}
	return false
}
