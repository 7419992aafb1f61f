package stats

import (
	"sort"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerDetail computes a player's history and per-session extremes.
// Rows belonging to other players are ignored; undated sessions are left out
// of the history and the per-session figures.
func PlayerDetail(player *models.Player, sessions []*models.Session, rows []*models.TransactionRow) *models.PlayerStats {
	index := sessionIndex(sessions)

	own := make([]*models.TransactionRow, 0)
	for _, row := range rows {
		if row != nil && row.PlayerID == player.ID {
			own = append(own, row)
		}
	}

	stats := &models.PlayerStats{
		Player:      player,
		TotalProfit: decimal.Zero,
		History:     make([]*models.PlayerSessionResult, 0),
	}
	if entries := Aggregate(own); len(entries) > 0 {
		stats.SessionsPlayed = entries[0].SessionsPlayed
		stats.WinningSessions = entries[0].WinningSessions
		stats.WinRate = entries[0].WinRate
	}

	nets := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0)
	for _, row := range own {
		if _, ok := nets[row.SessionID]; !ok {
			order = append(order, row.SessionID)
		}
		nets[row.SessionID] = nets[row.SessionID].Add(row.NetProfit)
	}

	for _, id := range order {
		s, ok := index[id]
		if !ok || s.Date.IsZero() {
			continue
		}
		stats.History = append(stats.History, &models.PlayerSessionResult{
			SessionID: id,
			Date:      s.Date,
			Location:  s.Location,
			Net:       nets[id],
		})
	}
	sort.SliceStable(stats.History, func(i, j int) bool {
		return stats.History[i].Date < stats.History[j].Date
	})

	if len(stats.History) == 0 {
		return stats
	}

	best := stats.History[0].Net
	worst := stats.History[0].Net
	running := decimal.Zero
	for _, h := range stats.History {
		running = running.Add(h.Net)
		h.Cumulative = running
		if h.Net.GreaterThan(best) {
			best = h.Net
		}
		if h.Net.LessThan(worst) {
			worst = h.Net
		}
	}
	avg := running.Div(decimal.NewFromInt(int64(len(stats.History))))

	stats.TotalProfit = running
	stats.BestWin = &best
	stats.WorstLoss = &worst
	stats.AverageProfit = &avg
	return stats
}

// SessionDetail totals a session's rows. Hourly is only set when a positive duration is recorded.
func SessionDetail(session *models.Session, rows []*models.TransactionRow) *models.SessionStats {
	stats := &models.SessionStats{
		Session:       session,
		Transactions:  make([]*models.TransactionRow, 0, len(rows)),
		TotalBuyIns:   decimal.Zero,
		TotalCashOuts: decimal.Zero,
	}

	for _, row := range rows {
		if row == nil || row.SessionID != session.ID {
			continue
		}
		stats.Transactions = append(stats.Transactions, row)
		stats.TotalBuyIns = stats.TotalBuyIns.Add(row.BuyIn)
		stats.TotalCashOuts = stats.TotalCashOuts.Add(row.CashOut)
	}

	stats.TableProfit = stats.TotalCashOuts.Sub(stats.TotalBuyIns)
	stats.Balanced = stats.TotalBuyIns.Equal(stats.TotalCashOuts)

	if session.DurationHours != nil && session.DurationHours.IsPositive() {
		hourly := stats.TableProfit.Div(*session.DurationHours)
		stats.Hourly = &hourly
	}
	return stats
}

// SessionSummaries totals each session's rows for the sessions list, newest first
func SessionSummaries(sessions []*models.Session, rows []*models.TransactionRow) []*models.SessionSummary {
	bySession := make(map[uuid.UUID][]*models.TransactionRow)
	for _, row := range rows {
		if row != nil {
			bySession[row.SessionID] = append(bySession[row.SessionID], row)
		}
	}

	ordered := RecentSessions(sessions, -1)
	summaries := make([]*models.SessionSummary, 0, len(ordered))
	for _, s := range ordered {
		detail := SessionDetail(s, bySession[s.ID])
		summaries = append(summaries, &models.SessionSummary{
			Session:       s,
			PlayerCount:   len(detail.Transactions),
			TotalBuyIns:   detail.TotalBuyIns,
			TotalCashOuts: detail.TotalCashOuts,
		})
	}
	return summaries
}
