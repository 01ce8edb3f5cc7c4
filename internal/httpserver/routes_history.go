// internal/httpserver/routes_history.go
//
// HTTP routes for finished matches:
//   - GET /history/leaderboard?difficulty=easy&limit=20 → best won matches
//
// Results are written by the session finish hook (history.Store.Recorder).

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/history"
	"github.com/robalobadob/duosweeper/internal/match"
)

func (s *Server) mountHistory() {
	s.r.Route("/history", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// lbRes is returned by /history/leaderboard.
type lbRes struct {
	Difficulty string          `json:"difficulty"`
	Top        []history.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		httpError(w, "history_disabled", http.StatusServiceUnavailable)
		return
	}
	d := match.Easy
	if q := r.URL.Query().Get("difficulty"); q != "" {
		var ok bool
		if d, ok = match.ParseDifficulty(q); !ok {
			httpError(w, "bad_difficulty", http.StatusBadRequest)
			return
		}
	}
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > 100 {
			httpError(w, "bad_limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rows, err := s.history.Leaderboard(r.Context(), d, limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		httpError(w, "db_error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Difficulty: d.String(), Top: rows})
}
