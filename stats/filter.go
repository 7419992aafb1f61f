package stats

import (
	"bankroll/models"

	"github.com/google/uuid"
)

// DateRange is an inclusive civil date window. A zero bound is unbounded on that side.
type DateRange struct {
	From models.Date `json:"from,omitempty"`
	To   models.Date `json:"to,omitempty"`
}

// IsUnbounded reports whether neither bound is set
func (r DateRange) IsUnbounded() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether d falls inside the range.
// Undated values only match an unbounded range.
func (r DateRange) Contains(d models.Date) bool {
	if r.IsUnbounded() {
		return true
	}
	if d.IsZero() {
		return false
	}
	if !r.From.IsZero() && d < r.From {
		return false
	}
	if !r.To.IsZero() && d > r.To {
		return false
	}
	return true
}

// FilterSessions returns the sessions inside the range, preserving order
func FilterSessions(sessions []*models.Session, r DateRange) []*models.Session {
	filtered := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if r.Contains(s.Date) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ScopeTransactions keeps only rows that belong to one of the given sessions
func ScopeTransactions(rows []*models.TransactionRow, sessions []*models.Session) []*models.TransactionRow {
	ids := make(map[uuid.UUID]struct{}, len(sessions))
	for _, s := range sessions {
		ids[s.ID] = struct{}{}
	}

	scoped := make([]*models.TransactionRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if _, ok := ids[row.SessionID]; ok {
			scoped = append(scoped, row)
		}
	}
	return scoped
}

// sessionIndex maps session IDs to sessions
func sessionIndex(sessions []*models.Session) map[uuid.UUID]*models.Session {
	index := make(map[uuid.UUID]*models.Session, len(sessions))
	for _, s := range sessions {
		if s != nil {
			index[s.ID] = s
		}
	}
	return index
}

// sessionDate returns the date of a session, or the zero date when unknown
func sessionDate(index map[uuid.UUID]*models.Session, id uuid.UUID) models.Date {
	if s, ok := index[id]; ok {
		return s.Date
	}
	return ""
}
