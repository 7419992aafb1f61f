package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Session represents one tracked poker game
type Session struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	Date          Date             `db:"date" json:"date"`
	Location      string           `db:"location" json:"location"`
	Status        SessionStatus    `db:"status" json:"status"`
	DurationHours *decimal.Decimal `db:"duration_hours" json:"durationHours,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}

// IsCompleted reports whether the session has been settled
func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}
