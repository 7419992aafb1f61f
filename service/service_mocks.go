package service

import (
	"context"
	"io"

	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, date string, location string) (*models.Session, error) {
	args := m.Called(ctx, date, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) AddPlayerToSession(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockSessionService) AddBuyIn(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID, playerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockSessionService) SetCashOut(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID, playerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockSessionService) RemovePlayerFromSession(ctx context.Context, sessionID, playerID uuid.UUID) error {
	args := m.Called(ctx, sessionID, playerID)
	return args.Error(0)
}

func (m *MockSessionService) UpdateSessionLocation(ctx context.Context, sessionID uuid.UUID, location string) (*models.Session, error) {
	args := m.Called(ctx, sessionID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) CompleteSession(ctx context.Context, sessionID uuid.UUID, durationHours *decimal.Decimal) (*models.Session, error) {
	args := m.Called(ctx, sessionID, durationHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) ReopenSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockPlayerService is a mock implementation of PlayerService
type MockPlayerService struct {
	mock.Mock
}

func (m *MockPlayerService) CreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error) {
	args := m.Called(ctx, name, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerService) GetOrCreatePlayer(ctx context.Context, name string, nickname string) (*models.Player, error) {
	args := m.Called(ctx, name, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerService) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetDashboard(ctx context.Context, opts stats.DashboardOptions) (*models.Dashboard, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

func (m *MockStatsService) GetLeaderboard(ctx context.Context, query LeaderboardQuery) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockStatsService) GetPlayerStandings(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockStatsService) GetPlayerStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockStatsService) GetSessionSummaries(ctx context.Context) ([]*models.SessionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SessionSummary), args.Error(1)
}

func (m *MockStatsService) GetSessionStats(ctx context.Context, sessionID uuid.UUID) (*models.SessionStats, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionStats), args.Error(1)
}

func (m *MockStatsService) GetLatestTopEarner(ctx context.Context) (*models.TopEarner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopEarner), args.Error(1)
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportCSV(ctx context.Context, source string, r io.Reader) (*ImportResult, error) {
	args := m.Called(ctx, source, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ImportResult), args.Error(1)
}
