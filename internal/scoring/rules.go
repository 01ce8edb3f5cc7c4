// internal/scoring/rules.go
//
// Scoring policy: translates game actions into (score delta, life delta) pairs.
// Responsibilities:
//   - Fixed outcomes for reveal/flag/unflag per cell kind.
//   - Activation of Question and Surprise cells (difficulty-scaled cost, coin-flip surprise).
//   - The solution-used table (see solution.go).
//   - End-of-match life bonus and conversion of lives gained at a full pool.
//
// Rules hold no game state. Every evaluation appends exactly one audit line.
// Random branches use independent fair coins.

package scoring

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/robalobadob/duosweeper/internal/audit"
	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/match"
)

// Action is a player move on a cell.
type Action int

const (
	ActionReveal Action = iota + 1
	ActionFlag
	ActionUnflag
)

func (a Action) String() string {
	switch a {
	case ActionReveal:
		return "reveal"
	case ActionFlag:
		return "flag"
	case ActionUnflag:
		return "unflag"
	}
	return "unknown"
}

// Effect is an extra board action granted by a solution reward.
type Effect int

const (
	EffectNone Effect = iota
	EffectRevealMine
	EffectRevealArea
)

func (e Effect) String() string {
	switch e {
	case EffectRevealMine:
		return "reveal one mine"
	case EffectRevealArea:
		return "reveal 3x3 area"
	}
	return ""
}

// Outcome is the result of one scoring evaluation.
type Outcome struct {
	Score  int    `json:"score"`
	Lives  int    `json:"lives"`
	Effect Effect `json:"effect,omitempty"`
	// Correct reports whether the move was the right call.
	Correct bool `json:"correct"`
	// Line is the audit text that was appended for this outcome.
	Line string `json:"line"`
}

// Rules evaluates the scoring policy.
type Rules struct {
	flip func() bool
	sink audit.Sink
}

// New builds Rules drawing coins from rng (time-seeded when nil) and writing to sink
// (discarded when nil).
func New(rng *rand.Rand, sink audit.Sink) *Rules {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return NewWithCoin(func() bool { return rng.Intn(2) == 0 }, sink)
}

// NewWithCoin builds Rules around an explicit coin.
func NewWithCoin(flip func() bool, sink audit.Sink) *Rules {
	if sink == nil {
		sink = audit.Discard{}
	}
	return &Rules{flip: flip, sink: sink}
}

func (r *Rules) emit(o Outcome, format string, args ...any) Outcome {
	o.Line = fmt.Sprintf(format, args...) + fmt.Sprintf(": %+d pts, %+d lives", o.Score, o.Lives)
	if o.Effect != EffectNone {
		o.Line += ", " + o.Effect.String()
	}
	r.sink.AppendLine(o.Line)
	return o
}

// Move scores a reveal, flag or unflag on a cell of the given kind.
//
//	mine:   flag +1, unflag -1, reveal costs a life
//	others: reveal +1, flag -3, unflag 0
func (r *Rules) Move(d match.Difficulty, kind board.Kind, a Action) Outcome {
	var o Outcome
	switch kind {
	case board.Mine:
		switch a {
		case ActionFlag:
			o = Outcome{Score: 1, Correct: true}
		case ActionUnflag:
			o = Outcome{Score: -1}
		case ActionReveal:
			o = Outcome{Lives: -1}
		}
	default:
		switch a {
		case ActionReveal:
			o = Outcome{Score: 1, Correct: true}
		case ActionFlag:
			o = Outcome{Score: -3}
		case ActionUnflag:
			o = Outcome{Correct: true}
		}
	}
	verdict := "incorrect"
	if o.Correct {
		verdict = "correct"
	}
	return r.emit(o, "[%s] %s %s (%s)", d, a, kind, verdict)
}

// ActivationCost is the price of opening a Question or Surprise cell.
func ActivationCost(d match.Difficulty) int {
	switch d {
	case match.Medium:
		return 8
	case match.Hard:
		return 12
	}
	return 5
}

// surpriseStake is the points won or lost by a surprise.
func surpriseStake(d match.Difficulty) int {
	switch d {
	case match.Medium:
		return 12
	case match.Hard:
		return 16
	}
	return 8
}

// Question scores a plain question answer: the activation cost, then +1 when correct
// or -3 when not.
func (r *Rules) Question(d match.Difficulty, correct bool) Outcome {
	o := Outcome{Score: -ActivationCost(d) - 3, Correct: correct}
	verdict := "incorrect"
	if correct {
		o.Score = -ActivationCost(d) + 1
		verdict = "correct"
	}
	return r.emit(o, "[%s] question answered %s (cost %d)", d, verdict, ActivationCost(d))
}

// Surprise pays the activation cost and flips one coin: good adds a life and the stake,
// bad removes a life and the stake.
func (r *Rules) Surprise(d match.Difficulty) Outcome {
	cost, stake := ActivationCost(d), surpriseStake(d)
	if r.flip() {
		return r.emit(Outcome{Score: stake - cost, Lives: 1, Correct: true},
			"[%s] surprise good (cost %d)", d, cost)
	}
	return r.emit(Outcome{Score: -stake - cost, Lives: -1},
		"[%s] surprise bad (cost %d)", d, cost)
}

// LifeBonus converts the lives left at the end of a won match into points.
func (r *Rules) LifeBonus(d match.Difficulty, lives int) Outcome {
	lives = max(lives, 0)
	return r.emit(Outcome{Score: lives * ActivationCost(d), Correct: true},
		"[%s] %d remaining lives converted", d, lives)
}

// ExcessLife converts one life gained while the pool was already full into points.
func (r *Rules) ExcessLife(d match.Difficulty) Outcome {
	return r.emit(Outcome{Score: ActivationCost(d), Correct: true},
		"[%s] life over the cap converted", d)
}
