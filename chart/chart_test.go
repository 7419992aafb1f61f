package chart

import (
	"bytes"
	"image/png"
	"testing"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestLeaderboardTable(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{Rank: 1, PlayerID: uuid.New(), Name: "Alice", TotalProfit: decimal.NewFromInt(50), SessionsPlayed: 2, WinningSessions: 1, WinRate: 50},
		{Rank: 2, PlayerID: uuid.New(), Name: "A very long player name", TotalProfit: decimal.Zero},
		{Rank: 3, PlayerID: uuid.New(), Name: "Bob", TotalProfit: decimal.NewFromInt(-20), SessionsPlayed: 1},
	}

	data, err := NewTableRenderer().Leaderboard(entries, "Leaderboard")
	require.NoError(t, err)

	w, h := decodeSize(t, data)
	assert.Equal(t, 460, w)
	assert.Equal(t, 30+25+30+3*26+15, h)
}

func TestLeaderboardTable_Empty(t *testing.T) {
	data, err := NewTableRenderer().Leaderboard(nil, "Leaderboard")
	require.NoError(t, err)

	_, h := decodeSize(t, data)
	assert.GreaterOrEqual(t, h, 120)
}

func TestMoneyOnTableChart(t *testing.T) {
	points := []*models.BankrollPoint{
		{SessionID: uuid.New(), Date: "2024-01-01", Cumulative: decimal.NewFromInt(100)},
		{SessionID: uuid.New(), Date: "2024-01-08", Cumulative: decimal.NewFromInt(150)},
	}

	data, err := NewLineChartRenderer().MoneyOnTable(points)
	require.NoError(t, err)

	w, h := decodeSize(t, data)
	assert.Equal(t, 800, w)
	assert.Equal(t, 420, h)
}

func TestPlayerComparisonChart(t *testing.T) {
	series := []*models.PlayerSeries{
		{
			Name:  "Alice",
			Final: decimal.NewFromInt(50),
			Points: []*models.PlayerSeriesPoint{
				{Date: "2024-01-01", Cumulative: decimal.NewFromInt(50), HasParticipation: true},
				{Date: "2024-01-08", Cumulative: decimal.NewFromInt(50), HasParticipation: true},
			},
		},
		{
			Name:  "Bob",
			Final: decimal.NewFromInt(-20),
			Points: []*models.PlayerSeriesPoint{
				{Date: "2024-01-01", Cumulative: decimal.Zero},
				{Date: "2024-01-08", Cumulative: decimal.NewFromInt(-20), HasParticipation: true},
			},
		},
	}

	data, err := NewLineChartRenderer().PlayerComparison(series, "Top Players")
	require.NoError(t, err)
	decodeSize(t, data)

	empty, err := NewLineChartRenderer().PlayerComparison(nil, "Top Players")
	require.NoError(t, err)
	decodeSize(t, empty)
}

func TestValueBounds(t *testing.T) {
	flat := []Series{{Points: []Point{{Date: "2024-01-01", Value: 5}}}}
	lo, hi := valueBounds(flat, false)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = valueBounds(flat, true)
	assert.Less(t, lo, 0.0)
	assert.Greater(t, hi, 5.0)
}

func TestShortMoney(t *testing.T) {
	assert.Equal(t, "$350", shortMoney(350))
	assert.Equal(t, "-$1.5k", shortMoney(-1500))
	assert.Equal(t, "$2.0M", shortMoney(2_000_000))
}

func TestCollectDates(t *testing.T) {
	series := []Series{
		{Points: []Point{{Date: "2024-01-08"}, {Date: "2024-01-01"}}},
		{Points: []Point{{Date: "2024-01-03"}, {Date: "2024-01-08"}}},
	}
	assert.Equal(t, []models.Date{"2024-01-01", "2024-01-03", "2024-01-08"}, collectDates(series))
}
