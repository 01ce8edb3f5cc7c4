package scoring

import (
	"github.com/robalobadob/duosweeper/internal/match"
	"github.com/robalobadob/duosweeper/internal/question"
)

// branch is one possible reward or penalty.
type branch struct {
	score, lives int
	effect       Effect
}

// solution is a table cell. When coin is set, alt is chosen on a tails flip.
type solution struct {
	base branch
	alt  branch
	coin bool
}

type solutionKey struct {
	d       match.Difficulty
	level   question.Level
	correct bool
}

func fixed(score, lives int) solution { return solution{base: branch{score: score, lives: lives}} }

func either(a, b branch) solution { return solution{base: a, alt: b, coin: true} }

// solutionTable is keyed by game difficulty × question level × correctness.
var solutionTable = map[solutionKey]solution{
	{match.Easy, question.LevelEasy, true}:    fixed(3, 1),
	{match.Easy, question.LevelEasy, false}:   either(branch{score: -3}, branch{}),
	{match.Easy, question.LevelMedium, true}:  {base: branch{score: 6, effect: EffectRevealMine}},
	{match.Easy, question.LevelMedium, false}: either(branch{score: -6}, branch{}),
	{match.Easy, question.LevelHard, true}:    {base: branch{score: 10, effect: EffectRevealArea}},
	{match.Easy, question.LevelHard, false}:   fixed(-10, 0),
	{match.Easy, question.LevelExpert, true}:  fixed(15, 2),
	{match.Easy, question.LevelExpert, false}: fixed(-15, -1),

	{match.Medium, question.LevelEasy, true}:    fixed(8, 1),
	{match.Medium, question.LevelEasy, false}:   fixed(-8, 0),
	{match.Medium, question.LevelMedium, true}:  fixed(10, 1),
	{match.Medium, question.LevelMedium, false}: either(branch{score: -10, lives: -1}, branch{}),
	{match.Medium, question.LevelHard, true}:    fixed(15, 1),
	{match.Medium, question.LevelHard, false}:   fixed(-15, -1),
	{match.Medium, question.LevelExpert, true}:  fixed(20, 2),
	{match.Medium, question.LevelExpert, false}: either(branch{score: -20, lives: -1}, branch{score: -20, lives: -2}),

	{match.Hard, question.LevelEasy, true}:    fixed(10, 1),
	{match.Hard, question.LevelEasy, false}:   fixed(-10, -1),
	{match.Hard, question.LevelMedium, true}:  either(branch{score: 15, lives: 1}, branch{score: 15, lives: 2}),
	{match.Hard, question.LevelMedium, false}: either(branch{score: -15, lives: -1}, branch{score: -15, lives: -2}),
	{match.Hard, question.LevelHard, true}:    fixed(20, 2),
	{match.Hard, question.LevelHard, false}:   fixed(-20, -2),
	{match.Hard, question.LevelExpert, true}:  fixed(40, 3),
	{match.Hard, question.LevelExpert, false}: fixed(-40, -3),
}

// SolutionUsed scores an answered question by its level. Unknown combinations score zero.
// It comes on top of Question, which already holds the activation cost.
func (r *Rules) SolutionUsed(d match.Difficulty, level question.Level, correct bool) Outcome {
	s, ok := solutionTable[solutionKey{d, level, correct}]
	b := s.base
	if ok && s.coin && !r.flip() {
		b = s.alt
	}
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	return r.emit(Outcome{Score: b.score, Lives: b.lives, Effect: b.effect, Correct: correct},
		"[%s] %s question solved %s", d, level, verdict)
}
