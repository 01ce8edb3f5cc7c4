// internal/match/match.go
//
// Match state machine for a two-board, two-player game.
// Responsibilities:
//   - Own one grid per player, the turn pointer and the shared score/life pools.
//   - Gate reveal/flag on the active player (CanRevealCell / CanFlagCell).
//   - Detect board clears (gameWon) and life exhaustion (gameOver, loss).
//   - Notify observers synchronously after every state change.
//
// State transitions:
//   - Active → Lost when DecreaseSharedLives drives the pool to zero.
//   - Active → Won when a reveal clears the active board. This only sets gameWon;
//     the caller finalizes with EndGame, so reveals stay legal until then.
//
// A Match is not safe for concurrent use; callers serialize mutations.

package match

import (
	"math/rand"
	"time"

	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/question"
)

// Status is the coarse lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Match holds the authoritative state of one game.
type Match struct {
	player1Name string
	player2Name string
	difficulty  Difficulty

	grids [2]*board.Grid

	currentPlayer int
	sharedLives   int
	totalLives    int
	combinedScore int

	gameOver bool
	gameWon  bool
	winner   int

	observers    []observerEntry
	nextObserver ObserverID
}

// New builds a match and allocates both boards independently from pool.
// A nil rng is replaced by a time-seeded source.
func New(player1, player2 string, d Difficulty, pool []question.Question, rng *rand.Rand) *Match {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	st := d.Settings()
	m := &Match{
		player1Name:   player1,
		player2Name:   player2,
		difficulty:    d,
		currentPlayer: 1,
		sharedLives:   st.Lives,
		totalLives:    st.Lives,
	}
	for i := range m.grids {
		g := board.NewGrid(st.Rows, st.Cols, rand.New(rand.NewSource(rng.Int63())))
		g.Allocate(st.Mines, st.Questions, st.Surprises, pool)
		m.grids[i] = g
	}
	return m
}

func (m *Match) Player1Name() string    { return m.player1Name }
func (m *Match) Player2Name() string    { return m.player2Name }
func (m *Match) Difficulty() Difficulty { return m.difficulty }
func (m *Match) CurrentPlayer() int     { return m.currentPlayer }
func (m *Match) SharedLives() int       { return m.sharedLives }
func (m *Match) TotalLives() int        { return m.totalLives }
func (m *Match) CombinedScore() int     { return m.combinedScore }
func (m *Match) GameOver() bool         { return m.gameOver }
func (m *Match) GameWon() bool          { return m.gameWon }

// Winner is 0 for no winner; it is only meaningful once GameWon or GameOver is true.
func (m *Match) Winner() int { return m.winner }

// PlayerName returns the name of player 1 or 2, "" otherwise.
func (m *Match) PlayerName(player int) string {
	switch player {
	case 1:
		return m.player1Name
	case 2:
		return m.player2Name
	}
	return ""
}

// Grid returns the board owned by player 1 or 2, nil otherwise.
func (m *Match) Grid(player int) *board.Grid {
	if player != 1 && player != 2 {
		return nil
	}
	return m.grids[player-1]
}

func (m *Match) activeGrid() *board.Grid { return m.grids[m.currentPlayer-1] }

// Status reports Active, Won (board cleared, finalized or not) or Lost.
func (m *Match) Status() Status {
	switch {
	case m.gameWon:
		return StatusWon
	case m.gameOver:
		return StatusLost
	}
	return StatusActive
}

// SwitchTurn hands the move to the other player.
func (m *Match) SwitchTurn() {
	if m.gameOver {
		return
	}
	m.currentPlayer = 3 - m.currentPlayer
	p, name := m.currentPlayer, m.PlayerName(m.currentPlayer)
	m.notify(func(o Observer) { o.OnTurnChanged(p, name) })
}

// RevealCell reveals (row, col) on the active player's board and reports a mine hit.
// Clearing the board sets GameWon and Winner but leaves GameOver to EndGame.
func (m *Match) RevealCell(row, col int) bool {
	if m.gameOver {
		return false
	}
	g := m.activeGrid()
	hit := g.Reveal(row, col)
	if !hit && g.IsFullyCleared() {
		m.gameWon = true
		m.winner = m.currentPlayer
	}
	p := m.currentPlayer
	m.notify(func(o Observer) { o.OnCellRevealed(row, col, p) })
	return hit
}

// CheckBoardCleared records a win for the current player when their board was cleared by
// something other than RevealCell (a reward effect). It reports GameWon.
func (m *Match) CheckBoardCleared() bool {
	if m.gameOver || m.gameWon {
		return m.gameWon
	}
	if m.activeGrid().IsFullyCleared() {
		m.gameWon = true
		m.winner = m.currentPlayer
	}
	return m.gameWon
}

// FlagCell toggles the flag at (row, col) on the active player's board.
func (m *Match) FlagCell(row, col int) {
	if m.gameOver {
		return
	}
	m.activeGrid().ToggleFlag(row, col)
}

// CanRevealCell reports whether player may reveal right now.
func (m *Match) CanRevealCell(row, col, player int) bool {
	return !m.gameOver && player == m.currentPlayer
}

// CanFlagCell reports whether player may toggle the flag at (row, col).
func (m *Match) CanFlagCell(row, col, player int) bool {
	if m.gameOver || player != m.currentPlayer {
		return false
	}
	c, ok := m.activeGrid().Cell(row, col)
	return ok && (c.State == board.Hidden || c.State == board.Flagged)
}

// DecreaseSharedLives removes one shared life and reports whether the match ended.
// Reaching zero lives ends the match as a loss with no winner. A finished match is
// left untouched.
func (m *Match) DecreaseSharedLives() bool {
	if m.gameOver {
		return m.sharedLives <= 0
	}
	m.sharedLives--
	if m.sharedLives < 0 {
		m.sharedLives = 0
	}
	lives, total := m.sharedLives, m.totalLives
	m.notify(func(o Observer) { o.OnLivesChanged(lives, total) })

	if m.sharedLives > 0 {
		return false
	}
	m.gameOver = true
	m.gameWon = false
	m.winner = 0
	m.notify(func(o Observer) { o.OnGameOver(false, 0) })
	return true
}

// AddSharedScore adds delta (possibly negative) to the combined score.
func (m *Match) AddSharedScore(delta int) {
	m.combinedScore += delta
	score := m.combinedScore
	m.notify(func(o Observer) { o.OnScoreChanged(score) })
}

// AddSharedLife adds one life unless the pool is full and reports whether it was added.
// Observers are notified either way.
func (m *Match) AddSharedLife() bool {
	added := false
	if m.sharedLives < m.totalLives {
		m.sharedLives++
		added = true
	}
	lives, total := m.sharedLives, m.totalLives
	m.notify(func(o Observer) { o.OnLivesChanged(lives, total) })
	return added
}

// SetSharedLives sets the pool, clamped to [0, TotalLives].
func (m *Match) SetSharedLives(n int) {
	m.sharedLives = min(max(n, 0), m.totalLives)
	lives, total := m.sharedLives, m.totalLives
	m.notify(func(o Observer) { o.OnLivesChanged(lives, total) })
}

// RevealAllCells discloses both boards for the end-of-match view. No per-cell
// notifications are sent.
func (m *Match) RevealAllCells() {
	for _, g := range m.grids {
		g.RevealAll()
	}
}

// EndGame finalizes the match. A win keeps the winner recorded by RevealCell (or the
// current player if none was recorded); a loss clears it. It is a no-op once GameOver.
func (m *Match) EndGame(won bool) {
	if m.gameOver {
		return
	}
	m.gameOver = true
	if won {
		m.gameWon = true
		if m.winner == 0 {
			m.winner = m.currentPlayer
		}
	} else {
		m.gameWon = false
		m.winner = 0
	}
	w, winner := m.gameWon, m.winner
	m.notify(func(o Observer) { o.OnGameOver(w, winner) })
}
