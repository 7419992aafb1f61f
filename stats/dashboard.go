package stats

import (
	"sort"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTopN is the number of players shown in comparison charts
	DefaultTopN = 5

	// RecentSessionLimit is the number of sessions listed on the dashboard
	RecentSessionLimit = 5
)

// DashboardOptions controls how the dashboard is assembled
type DashboardOptions struct {
	Range     DateRange
	SortKey   SortKey
	Direction SortDirection
	TopN      int
}

// BuildDashboard runs the whole pipeline: filter sessions, scope rows,
// aggregate the leaderboard, build both series and the summary.
func BuildDashboard(sessions []*models.Session, rows []*models.TransactionRow, opts DashboardOptions) *models.Dashboard {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	filtered := FilterSessions(sessions, opts.Range)
	scoped := ScopeTransactions(rows, filtered)
	entries := Aggregate(scoped)

	return &models.Dashboard{
		Summary:      Summarize(filtered, scoped, entries),
		Leaderboard:  SortLeaderboard(entries, opts.SortKey, opts.Direction),
		MoneyOnTable: MoneyOnTable(scoped, filtered),
		TopPlayers:   TopPlayers(PlayerSeries(scoped, filtered), topN),
	}
}

// Summarize computes the headline numbers for already filtered sessions and scoped rows.
// Money circulated counts buy-ins only.
func Summarize(sessions []*models.Session, rows []*models.TransactionRow, entries []*models.LeaderboardEntry) *models.DashboardSummary {
	summary := &models.DashboardSummary{
		TotalSessions:   len(sessions),
		MoneyCirculated: decimal.Zero,
		RecentSessions:  RecentSessions(sessions, RecentSessionLimit),
	}

	for _, row := range rows {
		if row != nil {
			summary.MoneyCirculated = summary.MoneyCirculated.Add(row.BuyIn)
		}
	}

	if ranked := SortLeaderboard(entries, SortByProfit, SortDesc); len(ranked) > 0 {
		summary.TopWinner = ranked[0]
	}

	summary.LatestTopEarner = LatestTopEarner(sessions, rows)
	return summary
}

// RecentSessions returns up to limit sessions, newest first. Undated sessions sort last.
func RecentSessions(sessions []*models.Session, limit int) []*models.Session {
	recent := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			recent = append(recent, s)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return newerSession(recent[i], recent[j])
	})
	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// LatestTopEarner finds the most recent completed session with rows and
// returns the player with the highest net in it.
func LatestTopEarner(sessions []*models.Session, rows []*models.TransactionRow) *models.TopEarner {
	bySession := make(map[uuid.UUID][]*models.TransactionRow)
	for _, row := range rows {
		if row != nil {
			bySession[row.SessionID] = append(bySession[row.SessionID], row)
		}
	}

	var latest *models.Session
	for _, s := range sessions {
		if s == nil || !s.IsCompleted() || len(bySession[s.ID]) == 0 {
			continue
		}
		if latest == nil || newerSession(s, latest) {
			latest = s
		}
	}
	if latest == nil {
		return nil
	}

	nets := make(map[uuid.UUID]decimal.Decimal)
	names := make(map[uuid.UUID]string)
	order := make([]uuid.UUID, 0)
	for _, row := range bySession[latest.ID] {
		if _, ok := nets[row.PlayerID]; !ok {
			order = append(order, row.PlayerID)
			names[row.PlayerID] = playerName(row)
		}
		nets[row.PlayerID] = nets[row.PlayerID].Add(row.NetProfit)
	}

	best := order[0]
	for _, id := range order[1:] {
		if nets[id].GreaterThan(nets[best]) {
			best = id
		}
	}

	return &models.TopEarner{
		SessionID: latest.ID,
		Date:      latest.Date,
		Location:  latest.Location,
		PlayerID:  best,
		Name:      names[best],
		NetProfit: nets[best],
	}
}

func newerSession(a, b *models.Session) bool {
	if a.Date != b.Date {
		if a.Date.IsZero() {
			return false
		}
		if b.Date.IsZero() {
			return true
		}
		return a.Date > b.Date
	}
	return a.CreatedAt.After(b.CreatedAt)
}
