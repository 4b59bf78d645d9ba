package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"example.com/scoreboard/internal/scoreboard"
)

// Scoreboard is what the handlers need from the scoreboard service.
type Scoreboard interface {
	StartNewMatch(homeTeam, awayTeam string) (scoreboard.MatchID, error)
	UpdateScore(id scoreboard.MatchID, homeScore, awayScore int) error
	FinishMatch(id scoreboard.MatchID) error
	FindByID(id scoreboard.MatchID) (scoreboard.Match, bool)
	Board() scoreboard.Board
}

type MatchHandler struct {
	Board Scoreboard
	Log   *slog.Logger
}

type StartMatchRequest struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
}

type StartMatchResponse struct {
	ID scoreboard.MatchID `json:"id"`
}

type UpdateScoreRequest struct {
	HomeScore *int `json:"homeScore"`
	AwayScore *int `json:"awayScore"`
}

// Routes registers the REST API. Mutating routes require an operator token.
func Routes(mux *http.ServeMux, matches *MatchHandler, authH *AuthHandler, v Verifier) {
	protect := AuthMiddleware(v)

	mux.HandleFunc("GET /api/summary", matches.Summary)
	mux.HandleFunc("GET /api/matches/{id}", matches.Get)
	mux.Handle("POST /api/matches", protect(http.HandlerFunc(matches.Start)))
	mux.Handle("PUT /api/matches/{id}/score", protect(http.HandlerFunc(matches.UpdateScore)))
	mux.Handle("DELETE /api/matches/{id}", protect(http.HandlerFunc(matches.Finish)))
	mux.HandleFunc("POST /api/auth/login", authH.Login)
}

func (h *MatchHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Board.Board().Snapshot())
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDFromPath(w, r)
	if !ok {
		return
	}
	m, found := h.Board.FindByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "match not found")
		return
	}
	writeJSON(w, http.StatusOK, m.View())
}

func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	id, err := h.Board.StartNewMatch(req.HomeTeam, req.AwayTeam)
	if err != nil {
		h.logReject(r, "start", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StartMatchResponse{ID: id})
}

func (h *MatchHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		writeError(w, http.StatusBadRequest, "bad_request", "homeScore and awayScore are required")
		return
	}

	if err := h.Board.UpdateScore(id, *req.HomeScore, *req.AwayScore); err != nil {
		h.logReject(r, "update score", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDFromPath(w, r)
	if !ok {
		return
	}
	if err := h.Board.FinishMatch(id); err != nil {
		h.logReject(r, "finish", err)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) logReject(r *http.Request, op string, err error) {
	if h.Log == nil {
		return
	}
	operator, _ := OperatorFromContext(r.Context())
	h.Log.Info("request rejected", "op", op, "operator", operator, "err", err)
}

func matchIDFromPath(w http.ResponseWriter, r *http.Request) (scoreboard.MatchID, bool) {
	n, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "match id must be an integer")
		return 0, false
	}
	return scoreboard.MatchID(n), true
}
