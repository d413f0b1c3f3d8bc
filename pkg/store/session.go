package store

import "time"

// Session is the per-connection metadata tracked while a chat socket is open.
type Session struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	StartedAt    time.Time `json:"started_at"`
	MessageCount int       `json:"message_count"`
	LastQuery    string    `json:"last_query"`
}
