package web

import (
	"net/http"
	"strconv"

	"bankroll/service"
	"bankroll/stats"
)

// dashboardOptions reads range and sort parameters:
// range=all|7d|30d|90d, from/to=YYYY-MM-DD, sort=profit|winRate|sessions, dir=desc|asc, top=N
func (s *Server) dashboardOptions(r *http.Request) (stats.DashboardOptions, error) {
	q := r.URL.Query()

	dateRange, err := stats.ResolveRange(q.Get("range"), q.Get("from"), q.Get("to"), s.clock)
	if err != nil {
		return stats.DashboardOptions{}, err
	}

	opts := stats.DashboardOptions{
		Range:     dateRange,
		SortKey:   stats.ParseSortKey(q.Get("sort")),
		Direction: stats.ParseSortDirection(q.Get("dir")),
	}

	if top := q.Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 1 || n > 20 {
			return stats.DashboardOptions{}, badRequest("top must be between 1 and 20")
		}
		opts.TopN = n
	}

	return opts, nil
}

func (s *Server) leaderboardQuery(r *http.Request) (service.LeaderboardQuery, error) {
	opts, err := s.dashboardOptions(r)
	if err != nil {
		return service.LeaderboardQuery{}, err
	}
	return service.LeaderboardQuery{
		Range:     opts.Range,
		SortKey:   opts.SortKey,
		Direction: opts.Direction,
	}, nil
}
