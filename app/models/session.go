package models

import "time"

// Session is the server-side half of a dashboard login.
type Session struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
}
