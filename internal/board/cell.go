// internal/board/cell.go
//
// Cell type definitions for a single player's grid.
// Defines:
//   - Kind: the variant tag (Empty, Number, Mine, Question, Surprise).
//   - State: Hidden, Revealed or Flagged.
//   - Cell: the tag plus per-variant payload.

package board

import "github.com/robalobadob/duosweeper/internal/question"

// Kind tags the variant stored in a Cell.
type Kind uint8

const (
	Empty Kind = iota
	Number
	Mine
	Question
	Surprise
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Number:
		return "number"
	case Mine:
		return "mine"
	case Question:
		return "question"
	case Surprise:
		return "surprise"
	}
	return "unknown"
}

// special reports whether k is placed by allocation rather than derived from adjacency.
func (k Kind) special() bool {
	return k == Mine || k == Question || k == Surprise
}

// State is the visibility of a cell.
type State uint8

const (
	Hidden State = iota
	Revealed
	Flagged
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	}
	return "unknown"
}

// Cell is one grid position.
//
// Adjacent is only meaningful for Number cells. Question carries the pool entry for Question
// cells (nil when allocation had an empty pool). QuestionOpened and SurpriseActivated are the
// one-shot activation flags of their respective kinds.
type Cell struct {
	Kind              Kind
	State             State
	Adjacent          int
	Question          *question.Question
	QuestionOpened    bool
	SurpriseActivated bool
}

// Activated reports whether a Question or Surprise cell has been used.
func (c Cell) Activated() bool {
	switch c.Kind {
	case Question:
		return c.QuestionOpened
	case Surprise:
		return c.SurpriseActivated
	}
	return false
}

// reset turns the cell back into a hidden Empty cell.
func (c *Cell) reset() {
	*c = Cell{}
}

// convert changes the variant while keeping the visibility state.
func (c *Cell) convert(k Kind) {
	st := c.State
	*c = Cell{Kind: k, State: st}
}
