package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// read side
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/players", s.handleListPlayers)
	mux.HandleFunc("GET /api/players/{id}", s.handleGetPlayer)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)

	// charts
	mux.HandleFunc("GET /api/charts/money-on-table.png", s.handleMoneyOnTableChart)
	mux.HandleFunc("GET /api/charts/players.png", s.handlePlayersChart)
	mux.HandleFunc("GET /api/charts/leaderboard.png", s.handleLeaderboardChart)

	// mutations
	mux.HandleFunc("POST /api/players", s.handleCreatePlayer)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("PATCH /api/sessions/{id}", s.handleUpdateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/players", s.handleAddPlayer)
	mux.HandleFunc("DELETE /api/sessions/{id}/players/{playerId}", s.handleRemovePlayer)
	mux.HandleFunc("POST /api/sessions/{id}/players/{playerId}/buy-in", s.handleBuyIn)
	mux.HandleFunc("PUT /api/sessions/{id}/players/{playerId}/cash-out", s.handleCashOut)
	mux.HandleFunc("POST /api/sessions/{id}/complete", s.handleComplete)
	mux.HandleFunc("POST /api/sessions/{id}/reopen", s.handleReopen)

	if s.feed != nil {
		mux.Handle("GET /api/events", s.feed)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
