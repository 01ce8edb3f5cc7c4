// internal/httpserver/routes_match.go
//
// HTTP routes for live matches:
//   - POST /match                → create a match, returns its id and both seat tokens
//   - GET  /match/{id}           → public view of both boards
//   - GET  /match/{id}/log       → audit lines
//   - GET  /match/{id}/question  → question behind a revealed cell (seat)
//   - POST /match/{id}/reveal    → reveal a cell (seat)
//   - POST /match/{id}/flag      → toggle a flag (seat)
//   - POST /match/{id}/question  → answer a question cell (seat)
//   - POST /match/{id}/surprise  → activate a surprise cell (seat)
//   - POST /match/{id}/finalize  → acknowledge a cleared board (seat)
//
// A "daily" match seeds its boards from the date so everybody plays the same layout.

package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/daily"
	"github.com/robalobadob/duosweeper/internal/match"
	"github.com/robalobadob/duosweeper/internal/question"
	"github.com/robalobadob/duosweeper/internal/session"
	"github.com/robalobadob/duosweeper/internal/store"
)

func (s *Server) mountMatch() {
	s.r.Post("/match", s.handleNewMatch)
	s.r.Route("/match/{id}", func(r chi.Router) {
		r.Get("/", s.handleView)
		r.Get("/log", s.handleLog)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSeat)
			r.Get("/question", s.handleShowQuestion)
			r.Post("/reveal", s.handleCellAction((*session.Session).Reveal))
			r.Post("/flag", s.handleCellAction((*session.Session).Flag))
			r.Post("/question", s.handleAnswer)
			r.Post("/surprise", s.handleCellAction((*session.Session).ActivateSurprise))
			r.Post("/finalize", s.handleFinalize)
		})
	})
}

// ------------------------------ create -------------------------------------

type newMatchReq struct {
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Difficulty string `json:"difficulty"` // easy | medium | hard (or 1..3)
	Daily      bool   `json:"daily"`
}

type newMatchRes struct {
	ID    string            `json:"id"`
	Date  string            `json:"date,omitempty"`
	Seats map[string]string `json:"seats"` // "1" and "2" → bearer tokens
	View  session.View      `json:"view"`
}

func (s *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	var req newMatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, "bad_json", http.StatusBadRequest)
		return
	}
	d := match.Easy
	if strings.TrimSpace(req.Difficulty) != "" {
		var ok bool
		if d, ok = match.ParseDifficulty(req.Difficulty); !ok {
			httpError(w, "bad_difficulty", http.StatusBadRequest)
			return
		}
	}
	p1, p2 := seatName(req.Player1, "Player 1"), seatName(req.Player2, "Player 2")

	id := store.NewID()
	res := newMatchRes{ID: id, Seats: map[string]string{}}
	var rng *rand.Rand
	if req.Daily {
		now := s.now()
		res.Date = daily.DateKey(now)
		rng = rand.New(rand.NewSource(daily.Seed(now, s.cfg.DailySalt)))
	}

	cfg := session.Config{
		ID:           id,
		Player1:      p1,
		Player2:      p2,
		Difficulty:   d,
		Pool:         question.Pool(),
		Rand:         rng,
		AutoFinalize: s.cfg.AutoFinalize,
	}
	if s.history != nil {
		cfg.Sink = s.history.Sink(id)
		cfg.OnFinish = s.history.Recorder()
	}
	sess := session.New(cfg)
	if _, err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("match", id).Msg("save match")
		httpError(w, "save_failed", http.StatusInternalServerError)
		return
	}

	for seat := 1; seat <= 2; seat++ {
		tok, _, err := s.signSeat(id, seat)
		if err != nil {
			log.Error().Err(err).Str("match", id).Msg("sign seat")
			httpError(w, "sign_failed", http.StatusInternalServerError)
			return
		}
		res.Seats[strconv.Itoa(seat)] = tok
	}
	res.View = sess.View()

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}

// seatName trims a player name, falling back to def when blank.
func seatName(name, def string) string {
	if name = strings.TrimSpace(name); name == "" {
		return def
	}
	return name
}

// ------------------------------- read --------------------------------------

// withSession runs fn under the match's lock, mapping lookup failures to 404.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) bool {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, "not_found", http.StatusNotFound)
		return false
	}
	if err := e.Do(fn); err != nil {
		writeActionError(w, err)
		return false
	}
	return true
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var v session.View
	if s.withSession(w, r, func(sess *session.Session) error {
		v = sess.View()
		return nil
	}) {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// handleLog serves the live log, or the stored one once the match left memory.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if e, err := s.store.Get(r.Context(), id); err == nil {
		var lines []string
		_ = e.Do(func(sess *session.Session) error {
			lines = sess.Lines()
			return nil
		})
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "lines": lines})
		return
	}
	if s.history == nil || !store.ValidID(id) {
		httpError(w, "not_found", http.StatusNotFound)
		return
	}
	lines, err := s.history.Lines(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("match", id).Msg("load audit lines")
		httpError(w, "db_error", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		httpError(w, "not_found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "lines": lines})
}

func (s *Server) handleShowQuestion(w http.ResponseWriter, r *http.Request) {
	row, err1 := strconv.Atoi(r.URL.Query().Get("row"))
	col, err2 := strconv.Atoi(r.URL.Query().Get("col"))
	if err1 != nil || err2 != nil {
		httpError(w, "bad_cell", http.StatusBadRequest)
		return
	}
	var q *question.Question
	if s.withSession(w, r, func(sess *session.Session) error {
		var err error
		q, err = sess.Question(seatFrom(r.Context()), row, col)
		return err
	}) {
		_ = json.NewEncoder(w).Encode(q)
	}
}

// ------------------------------ actions ------------------------------------

type cellReq struct {
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Answer string `json:"answer,omitempty"`
}

func decodeCell(w http.ResponseWriter, r *http.Request) (cellReq, bool) {
	var req cellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, "bad_json", http.StatusBadRequest)
		return req, false
	}
	if req.Row == nil || req.Col == nil {
		httpError(w, "bad_cell", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

type actionRes struct {
	Result session.ActionResult `json:"result"`
	View   session.View         `json:"view"`
}

type cellAction func(sess *session.Session, player, row, col int) (session.ActionResult, error)

func (s *Server) handleCellAction(act cellAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCell(w, r)
		if !ok {
			return
		}
		s.runAction(w, r, func(sess *session.Session) (session.ActionResult, error) {
			return act(sess, seatFrom(r.Context()), *req.Row, *req.Col)
		})
	}
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCell(w, r)
	if !ok {
		return
	}
	if !question.ValidLetter(req.Answer) {
		httpError(w, "bad_answer", http.StatusBadRequest)
		return
	}
	s.runAction(w, r, func(sess *session.Session) (session.ActionResult, error) {
		return sess.AnswerQuestion(seatFrom(r.Context()), *req.Row, *req.Col, req.Answer)
	})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, func(sess *session.Session) (session.ActionResult, error) {
		return sess.Finalize()
	})
}

func (s *Server) runAction(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (session.ActionResult, error)) {
	var res actionRes
	if s.withSession(w, r, func(sess *session.Session) error {
		out, err := fn(sess)
		if err != nil {
			return err
		}
		res = actionRes{Result: out, View: sess.View()}
		return nil
	}) {
		_ = json.NewEncoder(w).Encode(res)
	}
}

// writeActionError maps session errors to HTTP statuses.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotYourTurn):
		httpError(w, "not_your_turn", http.StatusConflict)
	case errors.Is(err, session.ErrGameOver):
		httpError(w, "game_over", http.StatusConflict)
	case errors.Is(err, session.ErrAlreadyRevealed):
		httpError(w, "already_revealed", http.StatusConflict)
	case errors.Is(err, session.ErrNotActivatable):
		httpError(w, "not_activatable", http.StatusConflict)
	case errors.Is(err, session.ErrAlreadyActivated):
		httpError(w, "already_activated", http.StatusConflict)
	case errors.Is(err, session.ErrNotWon):
		httpError(w, "not_won", http.StatusConflict)
	case errors.Is(err, session.ErrOutOfBounds):
		httpError(w, "out_of_bounds", http.StatusBadRequest)
	case errors.Is(err, session.ErrBadPlayer):
		httpError(w, "bad_seat", http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("match action")
		httpError(w, "server_error", http.StatusInternalServerError)
	}
}
