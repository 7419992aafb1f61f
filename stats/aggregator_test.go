package stats

import (
	"testing"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_WorkedExample(t *testing.T) {
	_, rows := exampleData()

	entries := Aggregate(rows)
	require.Len(t, entries, 2)

	alice := entryFor(entries, playerA)
	require.NotNil(t, alice)
	assert.Equal(t, "Alice", alice.Name)
	assertMoney(t, "50", alice.TotalProfit)
	assert.Equal(t, 2, alice.SessionsPlayed)
	assert.Equal(t, 1, alice.WinningSessions)
	assert.Equal(t, 50.0, alice.WinRate)

	bob := entryFor(entries, playerB)
	require.NotNil(t, bob)
	assertMoney(t, "-20", bob.TotalProfit)
	assert.Equal(t, 1, bob.SessionsPlayed, "0/0 row must not count as played")
	assert.Equal(t, 0, bob.WinningSessions)
	assert.Equal(t, 0.0, bob.WinRate)
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	_, rows := exampleData()

	entries := Aggregate(rows)
	require.Len(t, entries, 2)
	assert.Equal(t, playerA, entries[0].PlayerID)
	assert.Equal(t, playerB, entries[1].PlayerID)
}

func TestAggregate_ConservesProfit(t *testing.T) {
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "Alice", "100", "37.25"),
		newRow(sessionOne, playerB, "Bob", "40", "102.75"),
		newRow(sessionOne, playerC, "", "0", "0"),
		newRow(sessionTwo, playerA, "Alice", "20", "0"),
		newRow(sessionTwo, playerC, "", "10.10", "30.10"),
	}

	entries := Aggregate(rows)

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.TotalProfit)
	}
	net := decimal.Zero
	for _, r := range rows {
		net = net.Add(r.NetProfit)
	}
	assert.True(t, total.Equal(net), "aggregated %s, rows %s", total, net)
}

func TestAggregate_ZeroRowsNeverCountAsPlayed(t *testing.T) {
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "Alice", "0", "0"),
		newRow(sessionTwo, playerA, "Alice", "0", "0"),
	}

	entries := Aggregate(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].SessionsPlayed)
	assert.Equal(t, 0, entries[0].WinningSessions)
	assert.Equal(t, 0.0, entries[0].WinRate)
	assertMoney(t, "0", entries[0].TotalProfit)
}

func TestAggregate_PairsSumAcrossDuplicateRows(t *testing.T) {
	// Two rows for the same pair: one loses 30, the other wins 50, net +20 is one winning session
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "Alice", "30", "0"),
		newRow(sessionOne, playerA, "Alice", "0", "50"),
	}

	entries := Aggregate(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].SessionsPlayed)
	assert.Equal(t, 1, entries[0].WinningSessions)
	assert.Equal(t, 100.0, entries[0].WinRate)
}

func TestAggregate_BreakEvenIsNotAWin(t *testing.T) {
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "Alice", "50", "50"),
	}

	entries := Aggregate(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].SessionsPlayed)
	assert.Equal(t, 0, entries[0].WinningSessions)
}

func TestAggregate_UnknownPlayerName(t *testing.T) {
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "", "10", "20"),
		newRow(sessionOne, playerB, "   ", "10", "0"),
	}

	entries := Aggregate(rows)
	require.Len(t, entries, 2)
	assert.Equal(t, UnknownPlayerName, entries[0].Name)
	assert.Equal(t, UnknownPlayerName, entries[1].Name)
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]*models.TransactionRow{}))
}

func TestAggregate_MalformedAmountsCoerceToZero(t *testing.T) {
	raw := models.RawTransaction{
		ID:         uuid.New(),
		SessionID:  sessionOne,
		PlayerID:   playerA,
		BuyIn:      strPtr("abc"),
		CashOut:    nil,
		NetProfit:  strPtr("not-a-number"),
		PlayerName: nil,
	}
	entries := Aggregate([]*models.TransactionRow{models.NewTransactionRow(raw)})
	require.Len(t, entries, 1)
	assertMoney(t, "0", entries[0].TotalProfit)
	assert.Equal(t, 0, entries[0].SessionsPlayed)
	assert.Equal(t, UnknownPlayerName, entries[0].Name)
}

func TestSortLeaderboard(t *testing.T) {
	idX := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idY := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	idZ := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	entries := []*models.LeaderboardEntry{
		{PlayerID: idX, Name: "Xavier", TotalProfit: decimal.NewFromInt(100), SessionsPlayed: 2, WinningSessions: 1, WinRate: 50},
		{PlayerID: idY, Name: "Yolanda", TotalProfit: decimal.NewFromInt(100), SessionsPlayed: 4, WinningSessions: 2, WinRate: 50},
		{PlayerID: idZ, Name: "Zed", TotalProfit: decimal.NewFromInt(-40), SessionsPlayed: 4, WinningSessions: 3, WinRate: 75},
	}

	tests := []struct {
		name     string
		key      SortKey
		dir      SortDirection
		expected []uuid.UUID
	}{
		{"profit desc breaks ties toward more sessions", SortByProfit, SortDesc, []uuid.UUID{idY, idX, idZ}},
		{"profit asc still breaks ties toward more sessions", SortByProfit, SortAsc, []uuid.UUID{idZ, idY, idX}},
		{"win rate desc", SortByWinRate, SortDesc, []uuid.UUID{idZ, idY, idX}},
		{"win rate asc ties toward more sessions", SortByWinRate, SortAsc, []uuid.UUID{idY, idX, idZ}},
		{"sessions desc ties toward more profit", SortBySessions, SortDesc, []uuid.UUID{idY, idZ, idX}},
		{"sessions asc ties toward more profit", SortBySessions, SortAsc, []uuid.UUID{idX, idY, idZ}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortLeaderboard(entries, tt.key, tt.dir)
			require.Len(t, sorted, len(tt.expected))
			for i, id := range tt.expected {
				assert.Equal(t, id, sorted[i].PlayerID, "position %d", i)
				assert.Equal(t, i+1, sorted[i].Rank)
			}
		})
	}
}

func TestSortLeaderboard_DoesNotMutateInput(t *testing.T) {
	_, rows := exampleData()
	entries := Aggregate(rows)

	sorted := SortLeaderboard(entries, SortByProfit, SortAsc)

	assert.Equal(t, playerA, entries[0].PlayerID)
	assert.Equal(t, 0, entries[0].Rank)
	assert.Equal(t, playerB, sorted[0].PlayerID)
}

func TestSortLeaderboard_Deterministic(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{PlayerID: playerC, Name: "Same", TotalProfit: decimal.NewFromInt(10), SessionsPlayed: 1},
		{PlayerID: playerA, Name: "Same", TotalProfit: decimal.NewFromInt(10), SessionsPlayed: 1},
		{PlayerID: playerB, Name: "Another", TotalProfit: decimal.NewFromInt(10), SessionsPlayed: 1},
	}

	first := SortLeaderboard(entries, SortByProfit, SortDesc)
	reversed := []*models.LeaderboardEntry{entries[2], entries[1], entries[0]}
	second := SortLeaderboard(reversed, SortByProfit, SortDesc)

	for i := range first {
		assert.Equal(t, first[i].PlayerID, second[i].PlayerID)
	}
	assert.Equal(t, playerB, first[0].PlayerID)
	assert.Equal(t, playerA, first[1].PlayerID)
}

func TestParseSortKeyAndDirection(t *testing.T) {
	assert.Equal(t, SortByProfit, ParseSortKey(""))
	assert.Equal(t, SortByProfit, ParseSortKey("bogus"))
	assert.Equal(t, SortByWinRate, ParseSortKey("winRate"))
	assert.Equal(t, SortBySessions, ParseSortKey("sessions"))
	assert.Equal(t, SortDesc, ParseSortDirection(""))
	assert.Equal(t, SortAsc, ParseSortDirection("ASC"))
}

func TestPlayerStandings_IncludesPlayersWithoutRows(t *testing.T) {
	_, rows := exampleData()
	players := []*models.Player{
		{ID: playerA, Name: "Alice"},
		{ID: playerB, Name: "Bob"},
		{ID: playerC, Name: "Carol"},
	}

	standings := PlayerStandings(players, rows)
	require.Len(t, standings, 3)
	assert.Equal(t, playerA, standings[0].PlayerID)
	assert.Equal(t, playerC, standings[1].PlayerID)
	assert.Equal(t, playerB, standings[2].PlayerID)
	assert.Equal(t, 0, standings[1].SessionsPlayed)
}

func strPtr(s string) *string {
	return &s
}
