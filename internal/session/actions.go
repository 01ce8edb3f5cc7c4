package session

import (
	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/match"
	"github.com/robalobadob/duosweeper/internal/scoring"
)

// ActionResult reports what one accepted action did.
type ActionResult struct {
	Action   string            `json:"action"`
	Player   int               `json:"player"`
	Row      int               `json:"row"`
	Col      int               `json:"col"`
	Outcomes []scoring.Outcome `json:"outcomes"`
	MineHit  bool              `json:"mineHit"`
	// Correct is set for question answers.
	Correct bool `json:"correct"`
	// EffectAt is where a reward effect landed, if any.
	EffectAt *board.Pos `json:"effectAt,omitempty"`

	Score         int          `json:"score"`
	Lives         int          `json:"lives"`
	CurrentPlayer int          `json:"currentPlayer"`
	Status        match.Status `json:"status"`
	GameOver      bool         `json:"gameOver"`
}

func (s *Session) checkTurn(player, row, col int) (*board.Grid, board.Cell, error) {
	if s.m.GameOver() {
		return nil, board.Cell{}, ErrGameOver
	}
	g := s.m.Grid(player)
	if g == nil {
		return nil, board.Cell{}, ErrBadPlayer
	}
	if !s.m.CanRevealCell(row, col, player) {
		return nil, board.Cell{}, ErrNotYourTurn
	}
	c, ok := g.Cell(row, col)
	if !ok {
		return nil, board.Cell{}, ErrOutOfBounds
	}
	return g, c, nil
}

// apply adds an outcome to the shared pools. Lives gained at a full pool are converted
// into points. It reports whether the pools ran dry.
func (s *Session) apply(res *ActionResult, o scoring.Outcome) bool {
	res.Outcomes = append(res.Outcomes, o)
	d := s.m.Difficulty()
	if o.Score != 0 {
		s.m.AddSharedScore(o.Score)
	}
	for i := 0; i < o.Lives; i++ {
		if !s.m.AddSharedLife() {
			extra := s.rules.ExcessLife(d)
			res.Outcomes = append(res.Outcomes, extra)
			s.m.AddSharedScore(extra.Score)
		}
	}
	for i := 0; i > o.Lives; i-- {
		if s.m.DecreaseSharedLives() {
			return true
		}
	}
	return false
}

// complete ends the turn: a loss finishes the match, a cleared board is finalized when
// AutoFinalize is on, otherwise the turn passes.
func (s *Session) complete(res *ActionResult) {
	s.moves++
	switch {
	case s.m.GameOver():
		s.finish()
	case s.m.GameWon() && s.autoFinalize:
		s.finalize(res)
	default:
		s.m.SwitchTurn()
	}
	res.Score = s.m.CombinedScore()
	res.Lives = s.m.SharedLives()
	res.CurrentPlayer = s.m.CurrentPlayer()
	res.Status = s.m.Status()
	res.GameOver = s.m.GameOver()
}

// Reveal opens a cell on the player's own board.
func (s *Session) Reveal(player, row, col int) (ActionResult, error) {
	g, c, err := s.checkTurn(player, row, col)
	if err != nil {
		return ActionResult{}, err
	}
	if c.State == board.Revealed {
		return ActionResult{}, ErrAlreadyRevealed
	}
	res := ActionResult{Action: "reveal", Player: player, Row: row, Col: col}
	res.MineHit = s.m.RevealCell(row, col)

	// First-click relocation may have changed the kind.
	c, _ = g.Cell(row, col)
	s.apply(&res, s.rules.Move(s.m.Difficulty(), c.Kind, scoring.ActionReveal))
	s.complete(&res)
	return res, nil
}

// Flag toggles a flag on the player's own board.
func (s *Session) Flag(player, row, col int) (ActionResult, error) {
	_, c, err := s.checkTurn(player, row, col)
	if err != nil {
		return ActionResult{}, err
	}
	if !s.m.CanFlagCell(row, col, player) {
		return ActionResult{}, ErrAlreadyRevealed
	}
	a := scoring.ActionFlag
	if c.State == board.Flagged {
		a = scoring.ActionUnflag
	}
	res := ActionResult{Action: a.String(), Player: player, Row: row, Col: col}
	s.m.FlagCell(row, col)
	s.apply(&res, s.rules.Move(s.m.Difficulty(), c.Kind, a))
	s.complete(&res)
	return res, nil
}

// AnswerQuestion activates a revealed Question cell with the chosen option letter.
//
// The activation cost is always charged together with +1 or -3 for the answer. Questions
// with a known level then add the solution-used reward, which may grant a board effect.
func (s *Session) AnswerQuestion(player, row, col int, letter string) (ActionResult, error) {
	g, c, err := s.checkTurn(player, row, col)
	if err != nil {
		return ActionResult{}, err
	}
	if c.Kind != board.Question || c.State != board.Revealed {
		return ActionResult{}, ErrNotActivatable
	}
	if c.QuestionOpened {
		return ActionResult{}, ErrAlreadyActivated
	}
	g.MarkQuestionOpened(row, col)

	res := ActionResult{Action: "question", Player: player, Row: row, Col: col}
	d := s.m.Difficulty()
	q := c.Question
	res.Correct = q != nil && q.IsCorrect(letter)

	if s.apply(&res, s.rules.Question(d, res.Correct)) || q == nil || !q.Level.Valid() {
		s.complete(&res)
		return res, nil
	}
	o := s.rules.SolutionUsed(d, q.Level, res.Correct)
	if !s.apply(&res, o) {
		s.applyEffect(&res, g, o.Effect)
	}
	s.complete(&res)
	return res, nil
}

func (s *Session) applyEffect(res *ActionResult, g *board.Grid, e scoring.Effect) {
	var (
		p  board.Pos
		ok bool
	)
	switch e {
	case scoring.EffectRevealMine:
		p, ok = g.FlagHiddenMine()
	case scoring.EffectRevealArea:
		p, ok = g.RevealArea()
	default:
		return
	}
	if ok {
		res.EffectAt = &p
		s.m.CheckBoardCleared()
	}
}

// ActivateSurprise triggers a revealed Surprise cell.
func (s *Session) ActivateSurprise(player, row, col int) (ActionResult, error) {
	g, c, err := s.checkTurn(player, row, col)
	if err != nil {
		return ActionResult{}, err
	}
	if c.Kind != board.Surprise || c.State != board.Revealed {
		return ActionResult{}, ErrNotActivatable
	}
	if c.SurpriseActivated {
		return ActionResult{}, ErrAlreadyActivated
	}
	g.MarkSurpriseActivated(row, col)

	res := ActionResult{Action: "surprise", Player: player, Row: row, Col: col}
	o := s.rules.Surprise(s.m.Difficulty())
	res.Correct = o.Correct
	s.apply(&res, o)
	s.complete(&res)
	return res, nil
}

// Finalize acknowledges a cleared board: the remaining lives are paid out as points,
// the match ends as a win and both boards are disclosed.
func (s *Session) Finalize() (ActionResult, error) {
	if s.m.GameOver() {
		return ActionResult{}, ErrGameOver
	}
	if !s.m.GameWon() {
		return ActionResult{}, ErrNotWon
	}
	res := ActionResult{Action: "finalize", Player: s.m.Winner()}
	s.finalize(&res)
	res.Score = s.m.CombinedScore()
	res.Lives = s.m.SharedLives()
	res.CurrentPlayer = s.m.CurrentPlayer()
	res.Status = s.m.Status()
	res.GameOver = s.m.GameOver()
	return res, nil
}

func (s *Session) finalize(res *ActionResult) {
	bonus := s.rules.LifeBonus(s.m.Difficulty(), s.m.SharedLives())
	res.Outcomes = append(res.Outcomes, bonus)
	if bonus.Score != 0 {
		s.m.AddSharedScore(bonus.Score)
	}
	s.m.EndGame(true)
	s.finish()
}
