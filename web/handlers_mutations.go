package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createPlayerRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

type createSessionRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`
}

type updateSessionRequest struct {
	Location string `json:"location"`
}

type addPlayerRequest struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type amountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type completeRequest struct {
	DurationHours *decimal.Decimal `json:"durationHours"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	player, err := s.players.CreatePlayer(r.Context(), req.Name, req.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.sessions.CreateSession(r.Context(), req.Date, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.sessions.UpdateSessionLocation(r.Context(), id, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.sessions.DeleteSession(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.PlayerID == uuid.Nil {
		writeError(w, r, badRequest("playerId is required"))
		return
	}

	tx, err := s.sessions.AddPlayerToSession(r.Context(), sessionID, req.PlayerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, playerID, err := sessionPlayerIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.sessions.RemovePlayerFromSession(r.Context(), sessionID, playerID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuyIn(w http.ResponseWriter, r *http.Request) {
	sessionID, playerID, amount, err := s.amountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.sessions.AddBuyIn(r.Context(), sessionID, playerID, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCashOut(w http.ResponseWriter, r *http.Request) {
	sessionID, playerID, amount, err := s.amountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.sessions.SetCashOut(r.Context(), sessionID, playerID, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req completeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	session, err := s.sessions.CompleteSession(r.Context(), id, req.DurationHours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleReopen(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.sessions.ReopenSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) amountRequest(r *http.Request) (uuid.UUID, uuid.UUID, decimal.Decimal, error) {
	sessionID, playerID, err := sessionPlayerIDs(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, err
	}

	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, err
	}
	if req.Amount == nil {
		return uuid.Nil, uuid.Nil, decimal.Zero, badRequest("amount is required")
	}
	return sessionID, playerID, *req.Amount, nil
}

func sessionPlayerIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	sessionID, err := pathUUID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	playerID, err := pathUUID(r, "playerId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return sessionID, playerID, nil
}
