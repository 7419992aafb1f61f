package service

import (
	"context"
	"io"

	"bankroll/events"
	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByID retrieves a player, returning nil when not found
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)

	// GetByName retrieves a player by exact name, returning nil when not found
	GetByName(ctx context.Context, name string) (*models.Player, error)

	// Create inserts a new player; a duplicate name yields database.ErrUniqueViolation
	Create(ctx context.Context, player *models.Player) error

	// List returns all players ordered by name
	List(ctx context.Context) ([]*models.Player, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// GetByID retrieves a session, returning nil when not found
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)

	// GetByIDForUpdate retrieves a session and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Session, error)

	// Create inserts a new session
	Create(ctx context.Context, session *models.Session) error

	// FindByDateAndLocation retrieves the session held at location on date, returning nil when not found
	FindByDateAndLocation(ctx context.Context, date models.Date, location string) (*models.Session, error)

	// List returns all sessions, newest first
	List(ctx context.Context) ([]*models.Session, error)

	// UpdateLocation changes a session's location
	UpdateLocation(ctx context.Context, id uuid.UUID, location string) error

	// UpdateStatus changes a session's status and recorded duration
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus, durationHours *decimal.Decimal) error

	// Delete removes a session and, by cascade, its transactions
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the interface for buy-in/cash-out rows
type TransactionRepository interface {
	// Get retrieves the row for a player in a session, returning nil when not found
	Get(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error)

	// Create inserts a row; an existing pair yields database.ErrUniqueViolation
	Create(ctx context.Context, tx *models.Transaction) error

	// AddBuyIn adds amount to the row's buy-in, returning nil when the row does not exist
	AddBuyIn(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error)

	// SetCashOut replaces the row's cash-out, returning nil when the row does not exist
	SetCashOut(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error)

	// Delete removes the row, reporting whether it existed
	Delete(ctx context.Context, sessionID, playerID uuid.UUID) (bool, error)

	// Upsert inserts the row or overwrites the amounts of an existing pair
	Upsert(ctx context.Context, tx *models.Transaction) error

	// ListRows returns every row joined with its player's name
	ListRows(ctx context.Context) ([]*models.TransactionRow, error)

	// ListRowsBySession returns a session's rows joined with player names
	ListRowsBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.TransactionRow, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// SessionService defines the interface for session lifecycle operations
type SessionService interface {
	// CreateSession opens a new active session; an empty date means today
	CreateSession(ctx context.Context, date string, location string) (*models.Session, error)

	// AddPlayerToSession adds a 0/0 row for the player; adding twice is not an error
	AddPlayerToSession(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error)

	// AddBuyIn adds a positive amount to a player's buy-in
	AddBuyIn(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error)

	// SetCashOut records a player's final cash-out
	SetCashOut(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error)

	// RemovePlayerFromSession deletes a player's row
	RemovePlayerFromSession(ctx context.Context, sessionID, playerID uuid.UUID) error

	// UpdateSessionLocation renames where an active session is held
	UpdateSessionLocation(ctx context.Context, sessionID uuid.UUID, location string) (*models.Session, error)

	// CompleteSession closes a balanced session, optionally recording its duration
	CompleteSession(ctx context.Context, sessionID uuid.UUID, durationHours *decimal.Decimal) (*models.Session, error)

	// ReopenSession moves a completed session back to active
	ReopenSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error)

	// DeleteSession removes an active session with its rows
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// PlayerService defines the interface for player operations
type PlayerService interface {
	// CreatePlayer registers a new player with a unique name
	CreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error)

	// GetOrCreatePlayer returns the player with that name, creating it when missing
	GetOrCreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error)

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)

	// ListPlayers returns all players ordered by name
	ListPlayers(ctx context.Context) ([]*models.Player, error)
}

// LeaderboardQuery selects the range and ordering of a leaderboard
type LeaderboardQuery struct {
	Range     stats.DateRange
	SortKey   stats.SortKey
	Direction stats.SortDirection
}

// StatsService defines the interface for read-side statistics
type StatsService interface {
	// GetDashboard assembles summary, leaderboard and both series for a range
	GetDashboard(ctx context.Context, opts stats.DashboardOptions) (*models.Dashboard, error)

	// GetLeaderboard returns the ranked leaderboard for a range
	GetLeaderboard(ctx context.Context, query LeaderboardQuery) ([]*models.LeaderboardEntry, error)

	// GetPlayerStandings returns every player, including those without rows, sorted by profit
	GetPlayerStandings(ctx context.Context) ([]*models.LeaderboardEntry, error)

	// GetPlayerStats returns a player's history and extremes
	GetPlayerStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error)

	// GetSessionSummaries lists sessions newest first with their totals
	GetSessionSummaries(ctx context.Context) ([]*models.SessionSummary, error)

	// GetSessionStats returns a session with its rows and settlement totals
	GetSessionStats(ctx context.Context, sessionID uuid.UUID) (*models.SessionStats, error)

	// GetLatestTopEarner returns the best result of the most recent completed session
	GetLatestTopEarner(ctx context.Context) (*models.TopEarner, error)
}

// ImportResult counts what an import wrote
type ImportResult struct {
	Rows            int
	Skipped         int
	PlayersCreated  int
	SessionsCreated int
	Transactions    int
}

// ImportService defines the interface for loading historical data
type ImportService interface {
	// ImportCSV loads one CSV of date,location,player,nickname,buy_in,cash_out rows in a single transaction
	ImportCSV(ctx context.Context, source string, r io.Reader) (*ImportResult, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	PlayerRepository() PlayerRepository
	SessionRepository() SessionRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
