package board

import "github.com/robalobadob/duosweeper/internal/question"

// Allocate places exactly mines Mine cells, questions Question cells and surprises Surprise
// cells at uniformly random positions, then derives Number cells from adjacency.
//
// Question cells draw from a shuffled copy of pool, cycling once it is exhausted.
// When the grid has fewer cells than requested the fill is best effort: what does not fit
// is left out and the remaining cells stay ordinary.
func (g *Grid) Allocate(mines, questions, surprises int, pool []question.Question) {
	g.mines, g.questions, g.surprises = max(mines, 0), max(questions, 0), max(surprises, 0)
	g.firstClickDone = false
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].reset()
		}
	}

	qs := &questionCycle{pool: append([]question.Question(nil), pool...)}
	g.rng.Shuffle(len(qs.pool), func(i, j int) { qs.pool[i], qs.pool[j] = qs.pool[j], qs.pool[i] })

	perm := g.rng.Perm(g.rows * g.cols)
	next := 0
	place := func(n int, k Kind) {
		for i := 0; i < n && next < len(perm); i++ {
			p := perm[next]
			next++
			g.setSpecial(p/g.cols, p%g.cols, k, qs)
		}
	}
	place(g.mines, Mine)
	place(g.questions, Question)
	place(g.surprises, Surprise)

	g.computeAdjacency()
	g.repair(qs)
	g.computeAdjacency()
}

// questionCycle hands out pool entries round-robin.
type questionCycle struct {
	pool []question.Question
	next int
}

func (qc *questionCycle) take() *question.Question {
	if len(qc.pool) == 0 {
		return nil
	}
	q := qc.pool[qc.next%len(qc.pool)]
	qc.next++
	return &q
}

func (g *Grid) setSpecial(row, col int, k Kind, qs *questionCycle) {
	c := &g.cells[row][col]
	c.convert(k)
	if k == Question {
		c.Question = qs.take()
	}
}

// computeAdjacency turns every non-special cell into Number or Empty from its mine count.
func (g *Grid) computeAdjacency() {
	for r := range g.cells {
		for c := range g.cells[r] {
			cell := &g.cells[r][c]
			if cell.Kind.special() {
				continue
			}
			if n := g.CountAdjacentMines(r, c); n > 0 {
				cell.Kind, cell.Adjacent = Number, n
			} else {
				cell.Kind, cell.Adjacent = Empty, 0
			}
		}
	}
}

// repair verifies the special-cell counts and converts cells until they match the targets.
// Missing cells are taken from Empty/Number cells in row-major order; excess cells revert to Empty.
func (g *Grid) repair(qs *questionCycle) {
	mines, questions, surprises := g.Counts()
	fix := func(have, want int, k Kind) {
		for have < want {
			p, ok := g.firstOrdinary()
			if !ok {
				return
			}
			g.setSpecial(p.Row, p.Col, k, qs)
			have++
		}
		for have > want {
			p, ok := g.firstOfKind(k)
			if !ok {
				return
			}
			g.cells[p.Row][p.Col].convert(Empty)
			have--
		}
	}
	fix(mines, g.mines, Mine)
	fix(questions, g.questions, Question)
	fix(surprises, g.surprises, Surprise)
}

func (g *Grid) firstOrdinary() (Pos, bool) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if !g.cells[r][c].Kind.special() {
				return Pos{r, c}, true
			}
		}
	}
	return Pos{}, false
}

func (g *Grid) firstOfKind(k Kind) (Pos, bool) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].Kind == k {
				return Pos{r, c}, true
			}
		}
	}
	return Pos{}, false
}

// relocateMine moves the mine at the target to the first ordinary cell, scanning row-major and
// skipping the target's 3×3 neighbourhood. When only Question or Surprise cells remain outside
// the neighbourhood the first of those takes the mine instead. The target becomes Empty and
// adjacency is recomputed. If no non-mine cell qualifies the mine stays where it is.
func (g *Grid) relocateMine(row, col int) {
	dst, ok := g.relocationTarget(row, col, false)
	if !ok {
		if dst, ok = g.relocationTarget(row, col, true); !ok {
			return
		}
	}
	g.cells[dst.Row][dst.Col].convert(Mine)
	g.cells[row][col].convert(Empty)
	g.computeAdjacency()
}

func (g *Grid) relocationTarget(row, col int, allowSpecial bool) (Pos, bool) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if abs(r-row) <= 1 && abs(c-col) <= 1 {
				continue
			}
			k := g.cells[r][c].Kind
			if k == Mine || (!allowSpecial && k.special()) {
				continue
			}
			return Pos{r, c}, true
		}
	}
	return Pos{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
