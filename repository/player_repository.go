package repository

import (
	"context"
	"errors"
	"fmt"

	"bankroll/database"
	"bankroll/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

const playerColumns = `id, name, nickname, created_at`

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

// GetByName retrieves a player by exact name
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE name = $1`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by name %q: %w", name, err)
	}
	return player, nil
}

// Create inserts a new player. ID and CreatedAt are filled in when unset.
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}

	query := `
		INSERT INTO players (id, name, nickname)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, player.ID, player.Name, player.Nickname).Scan(&player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player %q: %w", player.Name, database.MapError(err))
	}
	return nil
}

// List returns all players ordered by name
func (r *PlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY name ASC, id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var player models.Player
	if err := row.Scan(&player.ID, &player.Name, &player.Nickname, &player.CreatedAt); err != nil {
		return nil, err
	}
	return &player, nil
}
