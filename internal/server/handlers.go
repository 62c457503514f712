package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/session"
)

type startRoundRequest struct {
	UserID string `json:"user_id"`
}

type checkGuessRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Guess    string `json:"guess"`
}

type saveScoreRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type checkGuessResponse struct {
	Correct bool   `json:"correct"`
	Color   string `json:"color"`
}

type statsResponse struct {
	Username string `json:"username"`
	Correct  int    `json:"correct"`
	Wrong    int    `json:"wrong"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()
	router.POST("/start_round", s.handleStartRound)
	router.POST("/check_guess", s.handleCheckGuess)
	router.POST("/save_score", s.handleSaveScore)
	router.GET("/get_stats", s.handleGetStats)
	router.GET("/leaderboard", s.handleLeaderboard)
	router.GET("/health", s.handleHealth)
	router.GET("/ws", s.handleWS)
	return router
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req startRoundRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.service.StartRound(req.UserID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Round started. Make your guess!"})
}

func (s *Server) handleCheckGuess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req checkGuessRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.service.CheckGuess(r.Context(), req.UserID, req.Username, req.Guess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, checkGuessResponse{Correct: res.Correct, Color: res.Color.String()})
}

func (s *Server) handleSaveScore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req saveScoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.service.SaveScore(r.Context(), req.UserID, req.Username); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Score saved!"})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record, err := s.service.Stats(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{
		Username: record.DisplayName,
		Correct:  record.Correct,
		Wrong:    record.Wrong,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n := queryInt(r, "n")
	minAttempts := queryInt(r, "min_attempts")

	entries, err := s.service.Leaderboard(r.Context(), n, minAttempts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.hub.HandleWS(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// writeError maps protocol errors onto status codes. The original game
// client treats every rejected request as a 400, so NoActiveRound stays a
// 400 rather than a 404 or 409.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrNoActiveRound):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: session.ErrNoActiveRound.Error()})
	case errors.Is(err, ledger.ErrUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: ledger.ErrUnavailable.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
