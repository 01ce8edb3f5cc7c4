package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/config"
	"github.com/robalobadob/duosweeper/internal/history"
	"github.com/robalobadob/duosweeper/internal/question"
	"github.com/robalobadob/duosweeper/internal/session"
	"github.com/robalobadob/duosweeper/internal/store"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, withHistory bool) *Server {
	t.Helper()
	require.NoError(t, question.Init())
	var hist *history.Store
	if withHistory {
		var err error
		hist, err = history.Open(filepath.Join(t.TempDir(), "h.db"))
		require.NoError(t, err)
		t.Cleanup(func() { hist.Close() })
	}
	s := New(store.NewMemoryStore(), hist, config.Config{
		JWTSecret:    "test-secret",
		SeatTokenTTL: time.Hour,
		DailySalt:    "salt",
		ClientOrigin: "http://example.test",
	})
	s.now = func() time.Time { return testNow }
	return s
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func createMatch(t *testing.T, s *Server, req newMatchReq) newMatchRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/match", "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res newMatchRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

// findCell looks up the first cell of kind k on player's board.
func findCell(t *testing.T, s *Server, id string, player int, k board.Kind) board.Pos {
	t.Helper()
	e, err := s.store.Get(context.Background(), id)
	require.NoError(t, err)
	var pos board.Pos
	found := false
	require.NoError(t, e.Do(func(sess *session.Session) error {
		for r, row := range sess.Match().Grid(player).Snapshot() {
			for c, cell := range row {
				if !found && cell.Kind == k {
					pos, found = board.Pos{Row: r, Col: c}, true
				}
			}
		}
		return nil
	}))
	require.True(t, found, "no %s cell", k)
	return pos
}

func TestDiagnostics(t *testing.T) {
	s := newTestServer(t, true)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"matches":0}`, rec.Body.String())
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = do(t, s, http.MethodGet, "/questions/count", "", nil)
	assert.JSONEq(t, `{"count":16}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = do(t, s, http.MethodOptions, "/match", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateMatch(t *testing.T) {
	s := newTestServer(t, false)
	res := createMatch(t, s, newMatchReq{Player1: " Alice ", Difficulty: "medium"})

	assert.True(t, store.ValidID(res.ID))
	assert.Len(t, res.Seats, 2)
	assert.Equal(t, [2]string{"Alice", "Player 2"}, res.View.Players)
	assert.Equal(t, "medium", res.View.Difficulty)
	assert.Equal(t, 8, res.View.Lives)
	assert.Len(t, res.View.Boards[0], 13)

	rec := do(t, s, http.MethodGet, "/match/"+res.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var v session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, res.ID, v.ID)

	rec = do(t, s, http.MethodPost, "/match", "", newMatchReq{Difficulty: "insane"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_difficulty", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/match/"+store.NewID(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatTokensGateActions(t *testing.T) {
	s := newTestServer(t, false)
	res := createMatch(t, s, newMatchReq{})
	other := createMatch(t, s, newMatchReq{})
	path := "/match/" + res.ID + "/reveal"
	cell := map[string]int{"row": 0, "col": 0}

	rec := do(t, s, http.MethodPost, path, "", cell)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, path, "garbage", cell)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, other.Seats["1"], cell)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, s, http.MethodPost, path, res.Seats["2"], cell)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_your_turn", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, res.Seats["1"], map[string]int{"row": 0})
	assert.Equal(t, "bad_cell", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, path, res.Seats["1"], map[string]int{"row": 40, "col": 0})
	assert.Equal(t, "out_of_bounds", errorCode(t, rec))

	s.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	rec = do(t, s, http.MethodPost, path, res.Seats["1"], cell)
	assert.Equal(t, "invalid_token", errorCode(t, rec), "expired")
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "bearer  abc ")
	assert.Equal(t, "abc", bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))
}

func TestPlayThroughHTTP(t *testing.T) {
	s := newTestServer(t, true)
	res := createMatch(t, s, newMatchReq{Player1: "Alice", Player2: "Bob"})
	base := "/match/" + res.ID

	num := findCell(t, s, res.ID, 1, board.Number)
	rec := do(t, s, http.MethodPost, base+"/reveal", res.Seats["1"], map[string]int{"row": num.Row, "col": num.Col})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out actionRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Result.Score)
	assert.Equal(t, 2, out.Result.CurrentPlayer)
	assert.Equal(t, "number", out.View.Boards[0][num.Row][num.Col].Kind)

	mine := findCell(t, s, res.ID, 2, board.Mine)
	rec = do(t, s, http.MethodPost, base+"/flag", res.Seats["2"], map[string]int{"row": mine.Row, "col": mine.Col})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "flag", out.Result.Action)
	assert.Equal(t, 2, out.Result.Score)

	rec = do(t, s, http.MethodPost, base+"/surprise", res.Seats["1"], map[string]int{"row": num.Row, "col": num.Col})
	assert.Equal(t, "not_activatable", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, base+"/question", res.Seats["1"], map[string]any{"row": 0, "col": 0, "answer": "Z"})
	assert.Equal(t, "bad_answer", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, base+"/finalize", res.Seats["1"], nil)
	assert.Equal(t, "not_won", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, base+"/log", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logRes struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logRes))
	assert.Equal(t, "Match started: Alice vs Bob on easy", logRes.Lines[0])

	// once evicted from memory the log comes from the database
	require.NoError(t, s.store.Delete(context.Background(), res.ID))
	rec = do(t, s, http.MethodGet, base+"/log", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, logRes.Lines, stored.Lines)
}

func TestSweepEvictsFinishedMatches(t *testing.T) {
	s := newTestServer(t, true)
	s.cfg.FinishedTTL = time.Minute
	res := createMatch(t, s, newMatchReq{})
	other := createMatch(t, s, newMatchReq{})
	base := "/match/" + res.ID

	num := findCell(t, s, res.ID, 1, board.Number)
	rec := do(t, s, http.MethodPost, base+"/reveal", res.Seats["1"], map[string]int{"row": num.Row, "col": num.Col})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPost, base+"/flag", res.Seats["2"], map[string]int{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	e, err := s.store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.NoError(t, e.Do(func(sess *session.Session) error {
		sess.Match().SetSharedLives(1)
		return nil
	}))
	mine := findCell(t, s, res.ID, 1, board.Mine)
	rec = do(t, s, http.MethodPost, base+"/reveal", res.Seats["1"], map[string]int{"row": mine.Row, "col": mine.Col})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out actionRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Result.GameOver)

	s.now = time.Now
	assert.Zero(t, s.sweep(), "inside the grace period")
	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, s.sweep())

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, base, "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/match/"+other.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, base+"/log", "", nil).Code, "log served from history")
}

func TestShowAndAnswerQuestion(t *testing.T) {
	s := newTestServer(t, false)
	res := createMatch(t, s, newMatchReq{})
	base := "/match/" + res.ID
	q := findCell(t, s, res.ID, 1, board.Question)

	rec := do(t, s, http.MethodGet, base+"/question?row=0&col=x", res.Seats["1"], nil)
	assert.Equal(t, "bad_cell", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, base+"/reveal", res.Seats["1"], map[string]int{"row": q.Row, "col": q.Col})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, base+"/flag", res.Seats["2"], map[string]int{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	path := base + "/question?row=" + strconv.Itoa(q.Row) + "&col=" + strconv.Itoa(q.Col)
	rec = do(t, s, http.MethodGet, path, res.Seats["1"], nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var shown map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shown))
	assert.NotEmpty(t, shown["text"])
	assert.NotContains(t, shown, "Correct", "the answer never leaves the server")

	rec = do(t, s, http.MethodPost, base+"/question", res.Seats["1"], map[string]any{"row": q.Row, "col": q.Col, "answer": "a"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out actionRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "question", out.Result.Action)
	assert.True(t, out.View.Boards[0][q.Row][q.Col].Activated)
}

func TestDailyMatchesShareBoards(t *testing.T) {
	s := newTestServer(t, false)
	a := createMatch(t, s, newMatchReq{Daily: true, Difficulty: "hard"})
	b := createMatch(t, s, newMatchReq{Daily: true, Difficulty: "hard"})
	assert.Equal(t, "2024-05-01", a.Date)

	snap := func(id string) [][]board.Cell {
		e, err := s.store.Get(context.Background(), id)
		require.NoError(t, err)
		var out [][]board.Cell
		require.NoError(t, e.Do(func(sess *session.Session) error {
			out = sess.Match().Grid(1).Snapshot()
			return nil
		}))
		return out
	}
	assert.Equal(t, snap(a.ID), snap(b.ID))
}

func TestLeaderboard(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/history/leaderboard", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s := newTestServer(t, true)
	require.NoError(t, s.history.RecordResult(context.Background(), session.Summary{
		MatchID: "x", Player1: "A", Player2: "B", Difficulty: 2, Won: true, Winner: 1, Score: 33,
	}))

	rec = do(t, s, http.MethodGet, "/history/leaderboard?difficulty=medium&limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lb lbRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lb))
	assert.Equal(t, "medium", lb.Difficulty)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 33, lb.Top[0].Score)

	rec = do(t, s, http.MethodGet, "/history/leaderboard?limit=0", "", nil)
	assert.Equal(t, "bad_limit", errorCode(t, rec))
}
