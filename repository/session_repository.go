package repository

import (
	"context"
	"errors"
	"fmt"

	"bankroll/database"
	"bankroll/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SessionRepository implements the SessionRepository interface
type SessionRepository struct {
	q queryable
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

// newSessionRepositoryWithTx creates a new session repository with a transaction
func newSessionRepositoryWithTx(tx queryable) *SessionRepository {
	return &SessionRepository{q: tx}
}

// Dates and amounts are read back as text so they never pass through a time zone or float
const sessionColumns = `
	id,
	to_char(date, 'YYYY-MM-DD'),
	location,
	status::text,
	duration_hours::text,
	created_at
`

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate retrieves a session and locks the row for the rest of the transaction
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *SessionRepository) get(ctx context.Context, query string, id uuid.UUID) (*models.Session, error) {
	session, err := scanSession(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return session, nil
}

// Create inserts a new session. ID is generated when unset and status defaults to active.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Status == "" {
		session.Status = models.SessionStatusActive
	}

	var date *string
	if !session.Date.IsZero() {
		d := session.Date.String()
		date = &d
	}

	query := `
		INSERT INTO sessions (id, date, location, status, duration_hours)
		VALUES ($1, $2::date, $3, $4::session_status, $5::numeric)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.ID,
		date,
		session.Location,
		string(session.Status),
		numericArg(session.DurationHours),
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", database.MapError(err))
	}
	return nil
}

// FindByDateAndLocation retrieves the oldest session held at location on date
func (r *SessionRepository) FindByDateAndLocation(ctx context.Context, date models.Date, location string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE date = $1::date AND location = $2
		ORDER BY created_at ASC
		LIMIT 1`

	session, err := scanSession(r.q.QueryRow(ctx, query, date.String(), location))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session on %s at %q: %w", date, location, err)
	}
	return session, nil
}

// List returns all sessions, newest first
func (r *SessionRepository) List(ctx context.Context) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY date DESC NULLS LAST, created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// UpdateLocation changes a session's location
func (r *SessionRepository) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	tag, err := r.q.Exec(ctx, `UPDATE sessions SET location = $2 WHERE id = $1`, id, location)
	if err != nil {
		return fmt.Errorf("failed to update location of session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// UpdateStatus changes a session's status and duration
func (r *SessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus, durationHours *decimal.Decimal) error {
	query := `
		UPDATE sessions
		SET status = $2::session_status, duration_hours = $3::numeric
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, string(status), numericArg(durationHours))
	if err != nil {
		return fmt.Errorf("failed to update status of session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// Delete removes a session; its transactions go with it
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var (
		session  models.Session
		date     *string
		status   string
		duration *string
	)
	if err := row.Scan(&session.ID, &date, &session.Location, &status, &duration, &session.CreatedAt); err != nil {
		return nil, err
	}
	if date != nil {
		session.Date = models.Date(*date)
	}
	session.Status = models.SessionStatus(status)
	if duration != nil {
		d := models.ParseMoney(*duration)
		session.DurationHours = &d
	}
	return &session, nil
}

// numericArg passes an optional decimal as text so NULL survives the round trip
func numericArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
