package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatsRecorder struct {
	mock.Mock
}

func (m *mockStatsRecorder) RecordStatsBuild(view string, duration time.Duration) {
	m.Called(view, duration)
}

// statsFixture holds two dated sessions: Alice +50/+0, Bob -50/-10, Carol +10
func statsFixture() ([]*models.Session, []*models.TransactionRow) {
	s1 := testSession(models.SessionStatusCompleted)
	s1.Date = "2024-01-01"
	s2 := testSession(models.SessionStatusCompleted)
	s2.Date = "2024-01-08"

	alice := testRow(s1.ID, "Alice", "100", "150")
	bob := testRow(s1.ID, "Bob", "100", "50")
	alice2 := testRow(s2.ID, "Alice", "50", "50")
	alice2.PlayerID = alice.PlayerID
	bob2 := testRow(s2.ID, "Bob", "50", "40")
	bob2.PlayerID = bob.PlayerID
	carol := testRow(s2.ID, "Carol", "0", "10")

	return []*models.Session{s2, s1}, []*models.TransactionRow{alice, bob, alice2, bob2, carol}
}

func expectSnapshot(m *testMocks, ctx context.Context, sessions []*models.Session, rows []*models.TransactionRow) {
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.sessions.On("List", ctx).Return(sessions, nil)
	m.transactions.On("ListRows", ctx).Return(rows, nil)
}

func TestStatsService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewStatsService(m.factory)
	sessions, rows := statsFixture()
	expectSnapshot(m, ctx, sessions, rows)

	dashboard, err := svc.GetDashboard(ctx, stats.DashboardOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Summary.TotalSessions)
	assert.True(t, dashboard.Summary.MoneyCirculated.Equal(rows[0].BuyIn.Add(rows[1].BuyIn).Add(rows[2].BuyIn).Add(rows[3].BuyIn)))
	require.NotEmpty(t, dashboard.Leaderboard)
	assert.Equal(t, "Alice", dashboard.Leaderboard[0].Name)
	assert.Len(t, dashboard.MoneyOnTable, 2)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestStatsService_GetLeaderboard_AppliesRange(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewStatsService(m.factory)
	sessions, rows := statsFixture()
	expectSnapshot(m, ctx, sessions, rows)

	entries, err := svc.GetLeaderboard(ctx, LeaderboardQuery{
		Range:     stats.DateRange{From: "2024-01-05"},
		SortKey:   stats.SortByProfit,
		Direction: stats.SortDesc,
	})

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Carol", entries[0].Name)
	assert.Equal(t, "Bob", entries[2].Name)
	assert.Equal(t, "-10", entries[2].TotalProfit.String())
}

func TestStatsService_GetPlayerStats(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown player", func(t *testing.T) {
		m := newTestMocks()
		svc := NewStatsService(m.factory)
		id := uuid.New()

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByID", ctx, id).Return(nil, nil)

		_, err := svc.GetPlayerStats(ctx, id)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("history", func(t *testing.T) {
		m := newTestMocks()
		svc := NewStatsService(m.factory)
		sessions, rows := statsFixture()
		alice := &models.Player{ID: rows[0].PlayerID, Name: "Alice"}

		expectSnapshot(m, ctx, sessions, rows)
		m.players.On("GetByID", ctx, alice.ID).Return(alice, nil)

		ps, err := svc.GetPlayerStats(ctx, alice.ID)

		require.NoError(t, err)
		assert.Equal(t, "50", ps.TotalProfit.String())
		assert.Len(t, ps.History, 2)
	})
}

func TestStatsService_GetSessionStats(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewStatsService(m.factory)
	sessions, rows := statsFixture()
	s1 := sessions[1]

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.sessions.On("GetByID", ctx, s1.ID).Return(s1, nil)
	m.transactions.On("ListRowsBySession", ctx, s1.ID).Return(rows[:2], nil)

	detail, err := svc.GetSessionStats(ctx, s1.ID)

	require.NoError(t, err)
	assert.True(t, detail.Balanced)
	assert.Equal(t, "200", detail.TotalBuyIns.String())
}

func TestStatsService_LoadError(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewStatsService(m.factory)

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.sessions.On("List", ctx).Return(nil, errors.New("connection reset"))

	_, err := svc.GetSessionSummaries(ctx)
	assert.ErrorContains(t, err, "failed to list sessions")
}

func TestStatsService_RecordsBuildDuration(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	recorder := new(mockStatsRecorder)
	svc := &statsService{uowFactory: m.factory, recorder: recorder}
	sessions, rows := statsFixture()
	expectSnapshot(m, ctx, sessions, rows)

	recorder.On("RecordStatsBuild", "dashboard", mock.AnythingOfType("time.Duration")).Return().Once()
	recorder.On("RecordStatsBuild", "leaderboard", mock.AnythingOfType("time.Duration")).Return().Once()

	_, err := svc.GetDashboard(ctx, stats.DashboardOptions{})
	require.NoError(t, err)
	_, err = svc.GetLeaderboard(ctx, LeaderboardQuery{SortKey: stats.SortByProfit, Direction: stats.SortDesc})
	require.NoError(t, err)

	recorder.AssertExpectations(t)
}
