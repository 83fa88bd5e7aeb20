package model

import (
	"strings"
	"time"
)

// ClosedMarker is the literal claimants value stored for a closed slot.
const ClosedMarker = "closed"

// Slot is one exclusive (location, date) unit of the sign-up board.
// A (location, date) pair with no stored row is implicitly open; the
// database enforces at most one row per pair.
type Slot struct {
	ID        int64     `json:"id"`
	Location  string    `json:"location"`  // location slug, e.g. "gem"
	Date      time.Time `json:"date"`      // calendar date, midnight UTC
	Claimants string    `json:"claimants"` // comma-joined display names, or ClosedMarker
	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClaimantList splits the stored claimants back into individual names.
func (s *Slot) ClaimantList() []string {
	if s.Claimants == "" || s.Claimants == ClosedMarker {
		return nil
	}
	parts := strings.Split(s.Claimants, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// JoinClaimants produces the stored claimants representation.
func JoinClaimants(names []string) string {
	return strings.Join(names, ", ")
}
