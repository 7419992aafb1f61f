package web

import (
	"net/http"

	"bankroll/models"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboardOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dashboard, err := s.stats.GetDashboard(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	query, err := s.leaderboardQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.stats.GetLeaderboard(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	standings, err := s.stats.GetPlayerStandings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(standings))
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := s.stats.GetPlayerStats(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.stats.GetSessionSummaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(summaries))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := s.stats.GetSessionStats(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleMoneyOnTableChart(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := s.chartDashboard(w, r)
	if !ok {
		return
	}

	png, err := s.lines.MoneyOnTable(dashboard.MoneyOnTable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePNG(w, png)
}

func (s *Server) handlePlayersChart(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := s.chartDashboard(w, r)
	if !ok {
		return
	}

	png, err := s.lines.PlayerComparison(dashboard.TopPlayers, "Top Players")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePNG(w, png)
}

func (s *Server) handleLeaderboardChart(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := s.chartDashboard(w, r)
	if !ok {
		return
	}

	png, err := s.tables.Leaderboard(dashboard.Leaderboard, "Leaderboard")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePNG(w, png)
}

func (s *Server) chartDashboard(w http.ResponseWriter, r *http.Request) (*models.Dashboard, bool) {
	opts, err := s.dashboardOptions(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	dashboard, err := s.stats.GetDashboard(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return dashboard, true
}

// nonNil keeps empty lists encoding as [] instead of null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
