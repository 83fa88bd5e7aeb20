package model

import "time"

// Member is a community participant known to the bot. Name is the
// community nickname used when linkifying free-text claimants; PlatformID
// is the chat platform's user id used to build mentions.
type Member struct {
	ID         int64     `json:"id"`
	PlatformID string    `json:"platform_id"`
	Name       string    `json:"name"`
	RealName   string    `json:"real_name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
