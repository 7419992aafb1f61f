package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaderboardEntry represents a player's aggregate standing
type LeaderboardEntry struct {
	Rank            int             `json:"rank"`
	PlayerID        uuid.UUID       `json:"playerId"`
	Name            string          `json:"name"`
	TotalProfit     decimal.Decimal `json:"totalProfit"`
	SessionsPlayed  int             `json:"sessionsPlayed"`
	WinningSessions int             `json:"winningSessions"`
	WinRate         float64         `json:"winRate"` // Percentage (0-100)
}

// BankrollPoint is one point of the money-on-the-table series.
// Cumulative holds that session's own buy-in volume.
type BankrollPoint struct {
	SessionID  uuid.UUID       `json:"sessionId"`
	Date       Date            `json:"date"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// PlayerSeriesPoint is one point of a player's cumulative profit series
type PlayerSeriesPoint struct {
	Date             Date            `json:"date"`
	Net              decimal.Decimal `json:"net"`
	Cumulative       decimal.Decimal `json:"cumulative"`
	HasParticipation bool            `json:"hasParticipation"`
}

// PlayerSeries is a player's cumulative profit over time
type PlayerSeries struct {
	PlayerID uuid.UUID            `json:"playerId"`
	Name     string               `json:"name"`
	Points   []*PlayerSeriesPoint `json:"points"`
	Final    decimal.Decimal      `json:"final"`
}

// TopEarner is the best result of a single session
type TopEarner struct {
	SessionID uuid.UUID       `json:"sessionId"`
	Date      Date            `json:"date"`
	Location  string          `json:"location"`
	PlayerID  uuid.UUID       `json:"playerId"`
	Name      string          `json:"name"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// DashboardSummary holds the headline numbers for a date range
type DashboardSummary struct {
	TotalSessions   int               `json:"totalSessions"`
	MoneyCirculated decimal.Decimal   `json:"moneyCirculated"`
	TopWinner       *LeaderboardEntry `json:"topWinner,omitempty"`
	LatestTopEarner *TopEarner        `json:"latestTopEarner,omitempty"`
	RecentSessions  []*Session        `json:"recentSessions"`
}

// Dashboard is everything the home view renders
type Dashboard struct {
	Summary      *DashboardSummary   `json:"summary"`
	Leaderboard  []*LeaderboardEntry `json:"leaderboard"`
	MoneyOnTable []*BankrollPoint    `json:"moneyOnTable"`
	TopPlayers   []*PlayerSeries     `json:"topPlayers"`
}

// PlayerSessionResult is a player's net result in one dated session
type PlayerSessionResult struct {
	SessionID  uuid.UUID       `json:"sessionId"`
	Date       Date            `json:"date"`
	Location   string          `json:"location"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// PlayerStats represents detailed statistics for a single player
type PlayerStats struct {
	Player          *Player                `json:"player"`
	TotalProfit     decimal.Decimal        `json:"totalProfit"`
	SessionsPlayed  int                    `json:"sessionsPlayed"`
	WinningSessions int                    `json:"winningSessions"`
	WinRate         float64                `json:"winRate"`
	BestWin         *decimal.Decimal       `json:"bestWin,omitempty"`
	WorstLoss       *decimal.Decimal       `json:"worstLoss,omitempty"`
	AverageProfit   *decimal.Decimal       `json:"averageProfit,omitempty"`
	History         []*PlayerSessionResult `json:"history"`
}

// SessionStats represents a session with its settlement totals
type SessionStats struct {
	Session       *Session          `json:"session"`
	Transactions  []*TransactionRow `json:"transactions"`
	TotalBuyIns   decimal.Decimal   `json:"totalBuyIns"`
	TotalCashOuts decimal.Decimal   `json:"totalCashOuts"`
	TableProfit   decimal.Decimal   `json:"tableProfit"`
	Balanced      bool              `json:"balanced"`
	Hourly        *decimal.Decimal  `json:"hourly,omitempty"`
}

// SessionSummary is a row of the sessions list
type SessionSummary struct {
	Session       *Session        `json:"session"`
	PlayerCount   int             `json:"playerCount"`
	TotalBuyIns   decimal.Decimal `json:"totalBuyIns"`
	TotalCashOuts decimal.Decimal `json:"totalCashOuts"`
}
