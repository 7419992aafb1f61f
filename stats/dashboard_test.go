package stats

import (
	"testing"
	"time"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard_WorkedExample(t *testing.T) {
	sessions, rows := exampleData()

	dash := BuildDashboard(sessions, rows, DashboardOptions{SortKey: SortByProfit, Direction: SortDesc})

	require.NotNil(t, dash.Summary)
	assert.Equal(t, 2, dash.Summary.TotalSessions)
	assertMoney(t, "250", dash.Summary.MoneyCirculated)

	require.NotNil(t, dash.Summary.TopWinner)
	assert.Equal(t, playerA, dash.Summary.TopWinner.PlayerID)

	require.NotNil(t, dash.Summary.LatestTopEarner)
	assert.Equal(t, sessionTwo, dash.Summary.LatestTopEarner.SessionID)
	assert.Equal(t, playerA, dash.Summary.LatestTopEarner.PlayerID)
	assertMoney(t, "0", dash.Summary.LatestTopEarner.NetProfit)

	require.Len(t, dash.Summary.RecentSessions, 2)
	assert.Equal(t, sessionTwo, dash.Summary.RecentSessions[0].ID)

	require.Len(t, dash.Leaderboard, 2)
	assert.Equal(t, 1, dash.Leaderboard[0].Rank)
	assert.Equal(t, "Alice", dash.Leaderboard[0].Name)
	assert.Equal(t, "Bob", dash.Leaderboard[1].Name)

	assert.Len(t, dash.MoneyOnTable, 2)
	assert.Len(t, dash.TopPlayers, 2)
}

func TestBuildDashboard_RangeDropsEarlierSessionEverywhere(t *testing.T) {
	sessions, rows := exampleData()

	dash := BuildDashboard(sessions, rows, DashboardOptions{
		Range: DateRange{From: "2024-01-05", To: "2024-01-31"},
	})

	assert.Equal(t, 1, dash.Summary.TotalSessions)
	assertMoney(t, "150", dash.Summary.MoneyCirculated)

	alice := entryFor(dash.Leaderboard, playerA)
	require.NotNil(t, alice)
	assertMoney(t, "0", alice.TotalProfit)
	assert.Equal(t, 1, alice.SessionsPlayed)
	assert.Equal(t, 0, alice.WinningSessions)

	bob := entryFor(dash.Leaderboard, playerB)
	require.NotNil(t, bob)
	assertMoney(t, "-20", bob.TotalProfit)

	require.Len(t, dash.MoneyOnTable, 1)
	assert.Equal(t, models.Date("2024-01-08"), dash.MoneyOnTable[0].Date)
	assertMoney(t, "150", dash.MoneyOnTable[0].Cumulative)

	for _, s := range dash.TopPlayers {
		require.Len(t, s.Points, 1)
		assert.Equal(t, models.Date("2024-01-08"), s.Points[0].Date)
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	dash := BuildDashboard(nil, nil, DashboardOptions{})

	assert.Equal(t, 0, dash.Summary.TotalSessions)
	assert.True(t, dash.Summary.MoneyCirculated.IsZero())
	assert.Nil(t, dash.Summary.TopWinner)
	assert.Nil(t, dash.Summary.LatestTopEarner)
	assert.Empty(t, dash.Leaderboard)
	assert.Empty(t, dash.MoneyOnTable)
	assert.Empty(t, dash.TopPlayers)
}

func TestLatestTopEarner(t *testing.T) {
	sessionThree := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	t.Run("skips active sessions", func(t *testing.T) {
		sessions, rows := exampleData()
		active := newSession(sessionThree, "2024-02-01", models.SessionStatusActive)
		sessions = append(sessions, active)
		rows = append(rows, newRow(sessionThree, playerB, "Bob", "10", "500"))

		top := LatestTopEarner(sessions, rows)
		require.NotNil(t, top)
		assert.Equal(t, sessionTwo, top.SessionID)
	})

	t.Run("skips completed sessions without rows", func(t *testing.T) {
		sessions, rows := exampleData()
		sessions = append(sessions, newSession(sessionThree, "2024-02-01", models.SessionStatusCompleted))

		top := LatestTopEarner(sessions, rows)
		require.NotNil(t, top)
		assert.Equal(t, sessionTwo, top.SessionID)
	})

	t.Run("same date breaks on creation time", func(t *testing.T) {
		sessions, rows := exampleData()
		later := newSession(sessionThree, "2024-01-08", models.SessionStatusCompleted)
		later.CreatedAt = later.CreatedAt.Add(time.Hour)
		sessions = append(sessions, later)
		rows = append(rows,
			newRow(sessionThree, playerC, "Cara", "20", "60"),
			newRow(sessionThree, playerA, "Alice", "60", "20"),
		)

		top := LatestTopEarner(sessions, rows)
		require.NotNil(t, top)
		assert.Equal(t, sessionThree, top.SessionID)
		assert.Equal(t, "Cara", top.Name)
		assertMoney(t, "40", top.NetProfit)
	})

	t.Run("sums duplicate rows and keeps the first player on ties", func(t *testing.T) {
		sessions := []*models.Session{newSession(sessionOne, "2024-01-01", models.SessionStatusCompleted)}
		rows := []*models.TransactionRow{
			newRow(sessionOne, playerA, "Alice", "10", "30"),
			newRow(sessionOne, playerB, "Bob", "10", "20"),
			newRow(sessionOne, playerB, "Bob", "0", "10"),
		}

		top := LatestTopEarner(sessions, rows)
		require.NotNil(t, top)
		assert.Equal(t, playerA, top.PlayerID)
	})

	t.Run("nil without completed sessions", func(t *testing.T) {
		assert.Nil(t, LatestTopEarner(nil, nil))
	})
}

func TestRecentSessions(t *testing.T) {
	var sessions []*models.Session
	dates := []string{"2024-01-03", "", "2024-01-09", "2024-01-01", "2024-01-07", "2024-01-05", "2024-01-08"}
	for _, d := range dates {
		sessions = append(sessions, newSession(uuid.New(), d, models.SessionStatusCompleted))
	}

	recent := RecentSessions(sessions, RecentSessionLimit)
	require.Len(t, recent, RecentSessionLimit)
	got := make([]string, 0, len(recent))
	for _, s := range recent {
		got = append(got, s.Date.String())
	}
	assert.Equal(t, []string{"2024-01-09", "2024-01-08", "2024-01-07", "2024-01-05", "2024-01-03"}, got)

	all := RecentSessions(sessions, -1)
	require.Len(t, all, len(sessions))
	assert.True(t, all[len(all)-1].Date.IsZero(), "undated sessions sort last")
}
