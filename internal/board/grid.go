// internal/board/grid.go
//
// Grid owns the rows×cols matrix of cells for one player.
// Responsibilities:
//   - Reveal with first-click mine relocation and cascading for Empty cells.
//   - Flag toggling, clear detection, adjacency queries.
//   - One-shot activation bookkeeping for Question and Surprise cells.
//
// Coordinates outside the grid are never an error: every operation treats them
// as a no-op returning its neutral value.

package board

import (
	"math/rand"
	"time"
)

// Grid is a single player's board. It is not safe for concurrent use.
type Grid struct {
	rows, cols     int
	cells          [][]Cell
	firstClickDone bool

	mines, questions, surprises int

	rng *rand.Rand
}

// Pos is a (row, col) coordinate.
type Pos struct {
	Row, Col int
}

// NewGrid builds a rows×cols grid of hidden Empty cells.
// A nil rng is replaced by a time-seeded source.
func NewGrid(rows, cols int, rng *rand.Rand) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells, rng: rng}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// FirstClickDone reports whether a reveal has already been processed.
func (g *Grid) FirstClickDone() bool { return g.firstClickDone }

// Configured returns the special-cell counts requested by the last Allocate call.
func (g *Grid) Configured() (mines, questions, surprises int) {
	return g.mines, g.questions, g.surprises
}

// InBounds reports whether (row, col) lies on the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Cell returns a copy of the cell at (row, col).
func (g *Grid) Cell(row, col int) (Cell, bool) {
	if !g.InBounds(row, col) {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// Snapshot returns a deep copy of the cell matrix.
func (g *Grid) Snapshot() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		out[r] = append([]Cell(nil), g.cells[r]...)
	}
	return out
}

// Counts tallies the special cells currently on the grid.
func (g *Grid) Counts() (mines, questions, surprises int) {
	for r := range g.cells {
		for c := range g.cells[r] {
			switch g.cells[r][c].Kind {
			case Mine:
				mines++
			case Question:
				questions++
			case Surprise:
				surprises++
			}
		}
	}
	return
}

// neighbors returns the in-bounds positions around (row, col), excluding itself.
func (g *Grid) neighbors(row, col int) []Pos {
	out := make([]Pos, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if r, c := row+dr, col+dc; g.InBounds(r, c) {
				out = append(out, Pos{r, c})
			}
		}
	}
	return out
}

// CountAdjacentMines counts Mine cells among the up-to-8 neighbours.
func (g *Grid) CountAdjacentMines(row, col int) int {
	if !g.InBounds(row, col) {
		return 0
	}
	n := 0
	for _, p := range g.neighbors(row, col) {
		if g.cells[p.Row][p.Col].Kind == Mine {
			n++
		}
	}
	return n
}

// Reveal opens the cell at (row, col) and reports whether it was a mine.
//
// A flagged target is unflagged first. The first reveal ever processed by the grid moves a
// mine away from the target when possible. Revealing an Empty cell cascades.
func (g *Grid) Reveal(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	c := &g.cells[row][col]
	if c.State == Flagged {
		c.State = Hidden
	}
	if c.State == Revealed {
		return false
	}
	if !g.firstClickDone {
		g.firstClickDone = true
		if c.Kind == Mine {
			g.relocateMine(row, col)
		}
	}

	c.State = Revealed
	switch c.Kind {
	case Mine:
		return true
	case Empty:
		g.cascade(row, col)
	}
	return false
}

// ToggleFlag flips Hidden↔Flagged. Revealed cells are left untouched.
func (g *Grid) ToggleFlag(row, col int) {
	if !g.InBounds(row, col) {
		return
	}
	c := &g.cells[row][col]
	switch c.State {
	case Hidden:
		c.State = Flagged
	case Flagged:
		c.State = Hidden
	}
}

// IsFullyCleared reports whether every non-mine cell is revealed.
func (g *Grid) IsFullyCleared() bool {
	for r := range g.cells {
		for c := range g.cells[r] {
			cell := g.cells[r][c]
			if cell.Kind != Mine && cell.State != Revealed {
				return false
			}
		}
	}
	return true
}

// RevealAll forces every cell to Revealed without cascading or scoring.
func (g *Grid) RevealAll() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].State = Revealed
		}
	}
}

// HiddenCount returns how many non-mine cells are still not revealed.
func (g *Grid) HiddenCount() int {
	n := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			if cell := g.cells[r][c]; cell.Kind != Mine && cell.State != Revealed {
				n++
			}
		}
	}
	return n
}

// MarkQuestionOpened sets the one-shot flag of a revealed Question cell.
// It returns false when the cell is not a revealed, unopened Question.
func (g *Grid) MarkQuestionOpened(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	c := &g.cells[row][col]
	if c.Kind != Question || c.State != Revealed || c.QuestionOpened {
		return false
	}
	c.QuestionOpened = true
	return true
}

// MarkSurpriseActivated sets the one-shot flag of a revealed Surprise cell.
// It returns false when the cell is not a revealed, unused Surprise.
func (g *Grid) MarkSurpriseActivated(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	c := &g.cells[row][col]
	if c.Kind != Surprise || c.State != Revealed || c.SurpriseActivated {
		return false
	}
	c.SurpriseActivated = true
	return true
}

// FlagHiddenMine marks one random hidden mine as Flagged, without it counting as a hit.
// ok is false when no mine is left hidden.
func (g *Grid) FlagHiddenMine() (p Pos, ok bool) {
	var hidden []Pos
	for r := range g.cells {
		for c := range g.cells[r] {
			if cell := g.cells[r][c]; cell.Kind == Mine && cell.State == Hidden {
				hidden = append(hidden, Pos{r, c})
			}
		}
	}
	if len(hidden) == 0 {
		return Pos{}, false
	}
	p = hidden[g.rng.Intn(len(hidden))]
	g.cells[p.Row][p.Col].State = Flagged
	return p, true
}

// RevealArea discloses the 3×3 block centred on a random hidden cell. Mines inside the block
// are shown but never count as hits; Empty cells cascade as usual.
func (g *Grid) RevealArea() (center Pos, ok bool) {
	var hidden []Pos
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].State != Revealed {
				hidden = append(hidden, Pos{r, c})
			}
		}
	}
	if len(hidden) == 0 {
		return Pos{}, false
	}
	center = hidden[g.rng.Intn(len(hidden))]
	area := append(g.neighbors(center.Row, center.Col), center)
	for _, p := range area {
		c := &g.cells[p.Row][p.Col]
		if c.State == Revealed {
			continue
		}
		c.State = Revealed
		if c.Kind == Empty {
			g.cascade(p.Row, p.Col)
		}
	}
	return center, true
}
