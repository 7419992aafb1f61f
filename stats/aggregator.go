package stats

import (
	"sort"
	"strings"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownPlayerName labels rows whose player could not be joined
const UnknownPlayerName = "Unknown"

// SortKey selects the leaderboard column to order by
type SortKey string

const (
	SortByProfit   SortKey = "profit"
	SortByWinRate  SortKey = "winRate"
	SortBySessions SortKey = "sessions"
)

// SortDirection is ascending or descending
type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

// ParseSortKey maps user input to a SortKey, defaulting to profit
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winrate", "win_rate", "win-rate":
		return SortByWinRate
	case "sessions", "sessionsplayed", "sessions_played":
		return SortBySessions
	default:
		return SortByProfit
	}
}

// ParseSortDirection maps user input to a SortDirection, defaulting to descending
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

type pairKey struct {
	player  uuid.UUID
	session uuid.UUID
}

// Aggregate folds transaction rows into per-player leaderboard entries.
// Every row's net profit counts toward the total; only (player, session)
// pairs where money moved count as played, and a played pair is a win when
// its summed net is positive. Entries are returned in first-seen order.
func Aggregate(rows []*models.TransactionRow) []*models.LeaderboardEntry {
	entries := make(map[uuid.UUID]*models.LeaderboardEntry)
	order := make([]uuid.UUID, 0)

	outcome := make(map[pairKey]decimal.Decimal)
	pairs := make([]pairKey, 0)
	volume := make(map[pairKey]bool)

	for _, row := range rows {
		if row == nil {
			continue
		}
		key := pairKey{player: row.PlayerID, session: row.SessionID}
		if _, seen := outcome[key]; !seen {
			pairs = append(pairs, key)
		}
		outcome[key] = outcome[key].Add(row.NetProfit)
		if row.HasVolume() {
			volume[key] = true
		}

		entry, ok := entries[row.PlayerID]
		if !ok {
			entry = &models.LeaderboardEntry{
				PlayerID:    row.PlayerID,
				Name:        playerName(row),
				TotalProfit: decimal.Zero,
			}
			entries[row.PlayerID] = entry
			order = append(order, row.PlayerID)
		}
		entry.TotalProfit = entry.TotalProfit.Add(row.NetProfit)
	}

	for _, key := range pairs {
		if !volume[key] {
			continue
		}
		entry := entries[key.player]
		entry.SessionsPlayed++
		if outcome[key].IsPositive() {
			entry.WinningSessions++
		}
	}

	result := make([]*models.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		entry.WinRate = winRate(entry.WinningSessions, entry.SessionsPlayed)
		result = append(result, entry)
	}
	return result
}

// SortLeaderboard returns a ranked copy of entries ordered by key and direction.
// Ties break toward more sessions played (or higher profit when sorting by
// sessions) regardless of direction, then by name and player ID.
func SortLeaderboard(entries []*models.LeaderboardEntry, key SortKey, dir SortDirection) []*models.LeaderboardEntry {
	sorted := make([]*models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		clone := *e
		sorted = append(sorted, &clone)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareEntries(sorted[i], sorted[j], key, dir) < 0
	})

	for i, e := range sorted {
		e.Rank = i + 1
	}
	return sorted
}

func compareEntries(a, b *models.LeaderboardEntry, key SortKey, dir SortDirection) int {
	var primary int
	switch key {
	case SortByWinRate:
		primary = compareFloat(a.WinRate, b.WinRate)
	case SortBySessions:
		primary = compareInt(a.SessionsPlayed, b.SessionsPlayed)
	default:
		primary = a.TotalProfit.Cmp(b.TotalProfit)
	}
	if dir != SortAsc {
		primary = -primary
	}
	if primary != 0 {
		return primary
	}

	var tie int
	if key == SortBySessions {
		tie = b.TotalProfit.Cmp(a.TotalProfit)
	} else {
		tie = compareInt(b.SessionsPlayed, a.SessionsPlayed)
	}
	if tie != 0 {
		return tie
	}

	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.PlayerID.String(), b.PlayerID.String())
}

// PlayerStandings aggregates rows and adds zeroed entries for players without any
func PlayerStandings(players []*models.Player, rows []*models.TransactionRow) []*models.LeaderboardEntry {
	entries := Aggregate(rows)
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		seen[e.PlayerID] = struct{}{}
	}
	for _, p := range players {
		if p == nil {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		entries = append(entries, &models.LeaderboardEntry{
			PlayerID:    p.ID,
			Name:        p.Name,
			TotalProfit: decimal.Zero,
		})
	}
	return SortLeaderboard(entries, SortByProfit, SortDesc)
}

func playerName(row *models.TransactionRow) string {
	if strings.TrimSpace(row.PlayerName) == "" {
		return UnknownPlayerName
	}
	return row.PlayerName
}

func winRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(wins) / float64(played) * 100
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
