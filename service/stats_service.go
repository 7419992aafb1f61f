package service

import (
	"context"
	"fmt"
	"time"

	"bankroll/infrastructure/observability"
	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// statsService implements the StatsService interface.
// Every read loads sessions and rows in one transaction so the views are consistent.
type statsService struct {
	uowFactory UnitOfWorkFactory
	recorder   StatsRecorder
}

// StatsRecorder receives how long each stats view took to load and build
type StatsRecorder interface {
	RecordStatsBuild(view string, duration time.Duration)
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// observe records a view's build time, falling back to the global metrics provider
func (s *statsService) observe(view string, start time.Time) {
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.RecordStatsBuild(view, elapsed)
		return
	}
	observability.GetMetrics().RecordStatsBuild(view, elapsed)
}

type snapshot struct {
	sessions []*models.Session
	rows     []*models.TransactionRow
	players  []*models.Player
}

func (s *statsService) load(ctx context.Context, withPlayers bool) (*snapshot, error) {
	start := time.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sessions, err := uow.SessionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	rows, err := uow.TransactionRepository().ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	snap := &snapshot{sessions: sessions, rows: rows}
	if withPlayers {
		snap.players, err = uow.PlayerRepository().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"sessions":    len(sessions),
		"rows":        len(rows),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Loaded stats snapshot")

	return snap, nil
}

// GetDashboard assembles the dashboard for a range
func (s *statsService) GetDashboard(ctx context.Context, opts stats.DashboardOptions) (*models.Dashboard, error) {
	defer s.observe("dashboard", time.Now())

	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return stats.BuildDashboard(snap.sessions, snap.rows, opts), nil
}

// GetLeaderboard returns the ranked leaderboard for a range
func (s *statsService) GetLeaderboard(ctx context.Context, query LeaderboardQuery) ([]*models.LeaderboardEntry, error) {
	defer s.observe("leaderboard", time.Now())

	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}

	filtered := stats.FilterSessions(snap.sessions, query.Range)
	entries := stats.Aggregate(stats.ScopeTransactions(snap.rows, filtered))
	return stats.SortLeaderboard(entries, query.SortKey, query.Direction), nil
}

// GetPlayerStandings returns every player with their all-time aggregate
func (s *statsService) GetPlayerStandings(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	defer s.observe("standings", time.Now())

	snap, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	return stats.PlayerStandings(snap.players, snap.rows), nil
}

// GetPlayerStats returns a player's history and extremes
func (s *statsService) GetPlayerStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error) {
	defer s.observe("player", time.Now())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	sessions, err := uow.SessionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	rows, err := uow.TransactionRepository().ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return stats.PlayerDetail(player, sessions, rows), nil
}

// GetSessionSummaries lists sessions newest first with totals
func (s *statsService) GetSessionSummaries(ctx context.Context) ([]*models.SessionSummary, error) {
	defer s.observe("sessions", time.Now())

	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return stats.SessionSummaries(snap.sessions, snap.rows), nil
}

// GetSessionStats returns a session with its rows and settlement totals
func (s *statsService) GetSessionStats(ctx context.Context, sessionID uuid.UUID) (*models.SessionStats, error) {
	defer s.observe("session", time.Now())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	rows, err := uow.TransactionRepository().ListRowsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session transactions: %w", err)
	}

	return stats.SessionDetail(session, rows), nil
}

// GetLatestTopEarner returns the best result of the newest completed session, or nil
func (s *statsService) GetLatestTopEarner(ctx context.Context) (*models.TopEarner, error) {
	defer s.observe("latest_top_earner", time.Now())

	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return stats.LatestTopEarner(snap.sessions, snap.rows), nil
}
