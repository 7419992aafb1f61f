package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a person who plays in sessions
type Player struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Nickname  *string   `db:"nickname" json:"nickname,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DisplayName returns the nickname when set, otherwise the name
func (p *Player) DisplayName() string {
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	return p.Name
}
