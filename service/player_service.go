package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bankroll/database"
	"bankroll/events"
	"bankroll/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// playerService implements the PlayerService interface
type playerService struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerService creates a new player service
func NewPlayerService(uowFactory UnitOfWorkFactory) PlayerService {
	return &playerService{
		uowFactory: uowFactory,
	}
}

// CreatePlayer registers a player; names are unique
func (s *playerService) CreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := createPlayer(ctx, uow, name, nickname)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"playerID": player.ID,
		"name":     player.Name,
	}).Info("Player created")

	return player, nil
}

// GetOrCreatePlayer returns the existing player with that name or creates one
func (s *playerService) GetOrCreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.PlayerRepository().GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	player, err := createPlayer(ctx, uow, name, nickname)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return player, nil
}

// GetPlayer retrieves a player by ID
func (s *playerService) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// ListPlayers returns all players ordered by name
func (s *playerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	players, err := uow.PlayerRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// createPlayer inserts a player inside an open unit of work and queues its event
func createPlayer(ctx context.Context, uow UnitOfWork, name string, nickname string) (*models.Player, error) {
	player := &models.Player{
		ID:   uuid.New(),
		Name: name,
	}
	if nick := strings.TrimSpace(nickname); nick != "" {
		player.Nickname = &nick
	}

	if err := uow.PlayerRepository().Create(ctx, player); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, ErrPlayerExists
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	uow.EventBus().Publish(events.PlayerCreatedEvent{
		PlayerID: player.ID,
		Name:     player.Name,
	})
	return player, nil
}
