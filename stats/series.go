package stats

import (
	"sort"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyOnTable sums buy-ins per session and orders the sessions by date.
// Sessions without a date are dropped. Each point holds that session's own volume.
func MoneyOnTable(rows []*models.TransactionRow, sessions []*models.Session) []*models.BankrollPoint {
	index := sessionIndex(sessions)
	totals := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0)

	for _, row := range rows {
		if row == nil {
			continue
		}
		if _, ok := totals[row.SessionID]; !ok {
			order = append(order, row.SessionID)
		}
		totals[row.SessionID] = totals[row.SessionID].Add(row.BuyIn)
	}

	points := make([]*models.BankrollPoint, 0, len(order))
	for _, id := range order {
		date := sessionDate(index, id)
		if date.IsZero() {
			continue
		}
		points = append(points, &models.BankrollPoint{
			SessionID:  id,
			Date:       date,
			Cumulative: totals[id],
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

type playerSession struct {
	date         models.Date
	net          decimal.Decimal
	participated bool
}

type playerAccumulator struct {
	id       uuid.UUID
	name     string
	sessions []*playerSession
	bySesh   map[uuid.UUID]*playerSession
}

// PlayerSeries builds each player's cumulative profit series.
// A series starts at the player's first session with a non-zero buy-in or
// cash-out; rows dated earlier are ignored and players who never took part get
// no series. From that date onward, every other session date with no row for
// that player gets a flat point marked as non-participating.
func PlayerSeries(rows []*models.TransactionRow, sessions []*models.Session) []*models.PlayerSeries {
	index := sessionIndex(sessions)
	players := make(map[uuid.UUID]*playerAccumulator)
	order := make([]uuid.UUID, 0)
	dateSet := make(map[models.Date]struct{})

	for _, row := range rows {
		if row == nil {
			continue
		}
		date := sessionDate(index, row.SessionID)
		if date.IsZero() {
			continue
		}
		dateSet[date] = struct{}{}

		acc, ok := players[row.PlayerID]
		if !ok {
			acc = &playerAccumulator{
				id:     row.PlayerID,
				name:   playerName(row),
				bySesh: make(map[uuid.UUID]*playerSession),
			}
			players[row.PlayerID] = acc
			order = append(order, row.PlayerID)
		}

		ps, ok := acc.bySesh[row.SessionID]
		if !ok {
			ps = &playerSession{date: date}
			acc.bySesh[row.SessionID] = ps
			acc.sessions = append(acc.sessions, ps)
		}
		ps.net = ps.net.Add(row.NetProfit)
		if row.HasVolume() {
			ps.participated = true
		}
	}

	dates := make([]models.Date, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	result := make([]*models.PlayerSeries, 0, len(order))
	for _, id := range order {
		if series := buildPlayerSeries(players[id], dates); series != nil {
			result = append(result, series)
		}
	}
	return result
}

func buildPlayerSeries(acc *playerAccumulator, dates []models.Date) *models.PlayerSeries {
	sort.SliceStable(acc.sessions, func(i, j int) bool {
		return acc.sessions[i].date < acc.sessions[j].date
	})

	first, ok := firstParticipation(acc.sessions)
	if !ok {
		return nil
	}

	played := make(map[models.Date]struct{}, len(acc.sessions))
	points := make([]*models.PlayerSeriesPoint, 0, len(dates))
	for _, ps := range acc.sessions {
		if ps.date < first {
			continue
		}
		played[ps.date] = struct{}{}
		points = append(points, &models.PlayerSeriesPoint{
			Date:             ps.date,
			Net:              ps.net,
			HasParticipation: ps.participated,
		})
	}

	for _, d := range dates {
		if d < first {
			continue
		}
		if _, ok := played[d]; ok {
			continue
		}
		points = append(points, &models.PlayerSeriesPoint{
			Date:             d,
			Net:              decimal.Zero,
			HasParticipation: false,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	running := decimal.Zero
	for _, p := range points {
		running = running.Add(p.Net)
		p.Cumulative = running
	}

	return &models.PlayerSeries{
		PlayerID: acc.id,
		Name:     acc.name,
		Points:   points,
		Final:    running,
	}
}

// TopPlayers returns the n series with the highest final cumulative value.
// Equal finals keep their input order.
func TopPlayers(series []*models.PlayerSeries, n int) []*models.PlayerSeries {
	ranked := make([]*models.PlayerSeries, 0, len(series))
	for _, s := range series {
		if s != nil {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Final.GreaterThan(ranked[j].Final)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// firstParticipation expects sessions sorted by date.
func firstParticipation(sessions []*playerSession) (models.Date, bool) {
	for _, ps := range sessions {
		if ps.participated {
			return ps.date, true
		}
	}
	return "", false
}
