// internal/session/session.go
//
// Session is the controller that sits between players and a Match.
// Responsibilities:
//   - Consult the turn/flag predicates before every mutation.
//   - Score each accepted action through scoring.Rules and apply the deltas to the
//     shared pools (lives beyond the cap turn into points).
//   - Switch turns after every accepted action.
//   - Finalize wins (life bonus, reveal all) and disclose the boards on a loss.
//   - Narrate the match into an audit sink and the structured log.
//
// A Session is not safe for concurrent use; store.Entry serializes access.

package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/audit"
	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/match"
	"github.com/robalobadob/duosweeper/internal/question"
	"github.com/robalobadob/duosweeper/internal/scoring"
)

var (
	ErrGameOver         = errors.New("game over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrBadPlayer        = errors.New("player must be 1 or 2")
	ErrOutOfBounds      = errors.New("cell out of bounds")
	ErrAlreadyRevealed  = errors.New("cell already revealed")
	ErrNotActivatable   = errors.New("cell cannot be activated")
	ErrAlreadyActivated = errors.New("cell already activated")
	ErrNotWon           = errors.New("board not cleared")
)

// Summary describes a finished match.
type Summary struct {
	MatchID    string           `json:"matchId"`
	Player1    string           `json:"player1"`
	Player2    string           `json:"player2"`
	Difficulty match.Difficulty `json:"difficulty"`
	Won        bool             `json:"won"`
	Winner     int              `json:"winner"`
	Score      int              `json:"score"`
	Lives      int              `json:"lives"`
	Moves      int              `json:"moves"`
	Duration   time.Duration    `json:"durationNs"`
}

// Config carries everything New needs.
type Config struct {
	ID         string
	Player1    string
	Player2    string
	Difficulty match.Difficulty
	Pool       []question.Question

	// Rand drives board allocation and coin flips; nil means time-seeded.
	Rand *rand.Rand
	// Sink receives audit lines in addition to the session's own log.
	Sink audit.Sink
	// AutoFinalize ends a won match as soon as the board is cleared.
	AutoFinalize bool
	// OnFinish is called once when the match is over.
	OnFinish func(Summary)
}

// Session owns one match and its scoring.
type Session struct {
	id      string
	m       *match.Match
	rules   *scoring.Rules
	lines   *audit.Log
	sink    audit.Sink
	logger  zerolog.Logger
	started time.Time

	autoFinalize bool
	onFinish     func(Summary)
	finished     bool
	finishedAt   time.Time
	moves        int
}

// New starts a match. Unknown difficulties fall back to Easy.
func New(cfg Config) *Session {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := cfg.Difficulty
	if !d.Valid() {
		d = match.Easy
	}

	lines := audit.NewLog()
	sink := audit.Sink(lines)
	if cfg.Sink != nil {
		sink = audit.Multi{lines, cfg.Sink}
	}

	s := &Session{
		id:           cfg.ID,
		m:            match.New(cfg.Player1, cfg.Player2, d, cfg.Pool, rng),
		rules:        scoring.New(rand.New(rand.NewSource(rng.Int63())), sink),
		lines:        lines,
		sink:         sink,
		logger:       log.With().Str("match", cfg.ID).Logger(),
		started:      time.Now(),
		autoFinalize: cfg.AutoFinalize,
		onFinish:     cfg.OnFinish,
	}
	s.m.AddObserver(narrator{sink: sink, m: s.m})
	s.m.AddObserver(logObserver{logger: s.logger})

	s.logger.Info().
		Str("difficulty", d.String()).
		Str("player1", cfg.Player1).
		Str("player2", cfg.Player2).
		Msg("match started")
	sink.AppendLine("Match started: " + cfg.Player1 + " vs " + cfg.Player2 + " on " + d.String())
	return s
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Match() *match.Match { return s.m }

// Finished reports whether the match is over and has been recorded.
func (s *Session) Finished() bool { return s.finished }

// FinishedAt is the time the match ended; zero while it is still running.
func (s *Session) FinishedAt() time.Time { return s.finishedAt }

// Lines returns the in-memory audit log.
func (s *Session) Lines() []string { return s.lines.Lines() }

// Question returns the question behind a revealed Question cell on player's board.
func (s *Session) Question(player, row, col int) (*question.Question, error) {
	g := s.m.Grid(player)
	if g == nil {
		return nil, ErrBadPlayer
	}
	c, ok := g.Cell(row, col)
	if !ok {
		return nil, ErrOutOfBounds
	}
	if c.Kind != board.Question || c.State != board.Revealed || c.Question == nil {
		return nil, ErrNotActivatable
	}
	q := *c.Question
	return &q, nil
}

func (s *Session) summary() Summary {
	return Summary{
		MatchID:    s.id,
		Player1:    s.m.Player1Name(),
		Player2:    s.m.Player2Name(),
		Difficulty: s.m.Difficulty(),
		Won:        s.m.GameWon(),
		Winner:     s.m.Winner(),
		Score:      s.m.CombinedScore(),
		Lives:      s.m.SharedLives(),
		Moves:      s.moves,
		Duration:   time.Since(s.started),
	}
}

// finish runs once, after the match reached GameOver.
func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.finishedAt = time.Now()
	s.m.RevealAllCells()
	sum := s.summary()
	s.logger.Info().
		Bool("won", sum.Won).
		Int("winner", sum.Winner).
		Int("score", sum.Score).
		Int("moves", sum.Moves).
		Msg("match finished")
	if s.onFinish != nil {
		s.onFinish(sum)
	}
}
