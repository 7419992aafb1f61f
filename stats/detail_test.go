package stats

import (
	"testing"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerDetail(t *testing.T) {
	sessions, rows := exampleData()
	alice := &models.Player{ID: playerA, Name: "Alice"}

	stats := PlayerDetail(alice, sessions, rows)

	assertMoney(t, "50", stats.TotalProfit)
	assert.Equal(t, 2, stats.SessionsPlayed)
	assert.Equal(t, 1, stats.WinningSessions)
	assert.InDelta(t, 50.0, stats.WinRate, 0.001)

	require.Len(t, stats.History, 2)
	assert.Equal(t, sessionOne, stats.History[0].SessionID)
	assertMoney(t, "50", stats.History[0].Cumulative)
	assertMoney(t, "50", stats.History[1].Cumulative)

	require.NotNil(t, stats.BestWin)
	require.NotNil(t, stats.WorstLoss)
	require.NotNil(t, stats.AverageProfit)
	assertMoney(t, "50", *stats.BestWin)
	assertMoney(t, "0", *stats.WorstLoss)
	assertMoney(t, "25", *stats.AverageProfit)
}

func TestPlayerDetail_NoSessions(t *testing.T) {
	sessions, rows := exampleData()
	cara := &models.Player{ID: playerC, Name: "Cara"}

	stats := PlayerDetail(cara, sessions, rows)

	assert.True(t, stats.TotalProfit.IsZero())
	assert.Equal(t, 0, stats.SessionsPlayed)
	assert.Empty(t, stats.History)
	assert.Nil(t, stats.BestWin)
	assert.Nil(t, stats.WorstLoss)
	assert.Nil(t, stats.AverageProfit)
}

func TestPlayerDetail_IgnoresUndatedSessions(t *testing.T) {
	undatedID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	sessions, rows := exampleData()
	sessions = append(sessions, newSession(undatedID, "", models.SessionStatusActive))
	rows = append(rows, newRow(undatedID, playerA, "Alice", "10", "1000"))

	stats := PlayerDetail(&models.Player{ID: playerA, Name: "Alice"}, sessions, rows)

	require.Len(t, stats.History, 2)
	assertMoney(t, "50", stats.TotalProfit)
}

func TestSessionDetail(t *testing.T) {
	sessions, rows := exampleData()
	s2 := sessions[1]
	duration := decimal.NewFromInt(4)
	s2.DurationHours = &duration

	detail := SessionDetail(s2, rows)

	assert.Len(t, detail.Transactions, 2)
	assertMoney(t, "150", detail.TotalBuyIns)
	assertMoney(t, "130", detail.TotalCashOuts)
	assertMoney(t, "-20", detail.TableProfit)
	assert.False(t, detail.Balanced)
	require.NotNil(t, detail.Hourly)
	assertMoney(t, "-5", *detail.Hourly)
}

func TestSessionDetail_NoHourlyWithoutDuration(t *testing.T) {
	sessions, rows := exampleData()

	detail := SessionDetail(sessions[0], rows)

	assert.False(t, detail.Balanced)
	assertMoney(t, "50", detail.TableProfit)
	assert.Nil(t, detail.Hourly)

	zero := decimal.Zero
	sessions[0].DurationHours = &zero
	assert.Nil(t, SessionDetail(sessions[0], rows).Hourly)
}

func TestSessionSummaries(t *testing.T) {
	sessions, rows := exampleData()

	summaries := SessionSummaries(sessions, rows)

	require.Len(t, summaries, 2)
	assert.Equal(t, sessionTwo, summaries[0].Session.ID)
	assert.Equal(t, 2, summaries[0].PlayerCount)
	assertMoney(t, "150", summaries[0].TotalBuyIns)
	assertMoney(t, "100", summaries[1].TotalBuyIns)
	assertMoney(t, "150", summaries[1].TotalCashOuts)
}
