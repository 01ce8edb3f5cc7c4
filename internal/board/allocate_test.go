package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duosweeper/internal/question"
)

func testPool(n int) []question.Question {
	out := make([]question.Question, n)
	for i := range out {
		out[i] = question.Question{ID: i + 1, Text: "q", Correct: "A", Level: question.LevelEasy}
	}
	return out
}

func TestAllocateExactCounts(t *testing.T) {
	cases := []struct {
		name                       string
		rows, cols                 int
		mines, questions, surprise int
	}{
		{"easy", 9, 9, 10, 6, 2},
		{"medium", 13, 13, 26, 7, 3},
		{"hard", 16, 16, 44, 11, 4},
		{"full board", 3, 3, 5, 2, 2},
		{"only mines", 4, 4, 16, 0, 0},
		{"nothing special", 5, 5, 0, 0, 0},
		{"single row", 1, 10, 3, 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(1); seed <= 25; seed++ {
				g := NewGrid(tc.rows, tc.cols, rand.New(rand.NewSource(seed)))
				g.Allocate(tc.mines, tc.questions, tc.surprise, testPool(3))
				m, q, s := g.Counts()
				require.Equal(t, tc.mines, m, "seed %d mines", seed)
				require.Equal(t, tc.questions, q, "seed %d questions", seed)
				require.Equal(t, tc.surprise, s, "seed %d surprises", seed)
			}
		})
	}
}

func TestAllocateAdjacencyCorrect(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := NewGrid(13, 13, rand.New(rand.NewSource(seed)))
		g.Allocate(26, 7, 3, testPool(7))
		for r := 0; r < g.Rows(); r++ {
			for c := 0; c < g.Cols(); c++ {
				cell, _ := g.Cell(r, c)
				n := g.CountAdjacentMines(r, c)
				switch cell.Kind {
				case Number:
					assert.Equal(t, n, cell.Adjacent, "seed %d (%d,%d)", seed, r, c)
					assert.Greater(t, n, 0)
				case Empty:
					assert.Equal(t, 0, n, "seed %d (%d,%d) should be a number", seed, r, c)
				}
				assert.Equal(t, Hidden, cell.State)
			}
		}
	}
}

func TestAllocateQuestionPoolCycles(t *testing.T) {
	g := NewGrid(9, 9, rand.New(rand.NewSource(3)))
	g.Allocate(10, 5, 2, testPool(2))

	seen := map[int]int{}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell, _ := g.Cell(r, c)
			if cell.Kind != Question {
				assert.Nil(t, cell.Question)
				continue
			}
			require.NotNil(t, cell.Question)
			seen[cell.Question.ID]++
		}
	}
	require.Len(t, seen, 2)
	assert.ElementsMatch(t, []int{2, 3}, []int{seen[1], seen[2]})
}

func TestAllocateDoesNotMutatePool(t *testing.T) {
	pool := testPool(5)
	g := NewGrid(9, 9, rand.New(rand.NewSource(9)))
	g.Allocate(10, 6, 2, pool)
	for i, q := range pool {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestAllocateEmptyPoolLeavesNilPayload(t *testing.T) {
	g := NewGrid(5, 5, rand.New(rand.NewSource(4)))
	g.Allocate(3, 4, 0, nil)
	_, q, _ := g.Counts()
	assert.Equal(t, 4, q)
	for _, row := range g.Snapshot() {
		for _, cell := range row {
			if cell.Kind == Question {
				assert.Nil(t, cell.Question)
			}
		}
	}
}

func TestAllocateOversubscribedIsBestEffort(t *testing.T) {
	g := NewGrid(2, 2, rand.New(rand.NewSource(5)))
	g.Allocate(3, 2, 1, testPool(1))
	m, q, s := g.Counts()
	assert.Equal(t, 3, m)
	assert.Equal(t, 1, q)
	assert.Equal(t, 0, s)

	cm, cq, cs := g.Configured()
	assert.Equal(t, []int{3, 2, 1}, []int{cm, cq, cs}, "configured counts are kept as requested")
}

func TestAllocateResetsPreviousBoard(t *testing.T) {
	g := NewGrid(9, 9, rand.New(rand.NewSource(6)))
	g.Allocate(10, 6, 2, nil)
	g.Reveal(4, 4)
	require.True(t, g.FirstClickDone())

	g.Allocate(5, 0, 0, nil)
	assert.False(t, g.FirstClickDone())
	m, q, s := g.Counts()
	assert.Equal(t, []int{5, 0, 0}, []int{m, q, s})
	for _, row := range g.Snapshot() {
		for _, cell := range row {
			assert.Equal(t, Hidden, cell.State)
		}
	}
}

func TestRepairFillsMissingAndRemovesExcess(t *testing.T) {
	g := layoutGrid(t,
		"**.",
		"...",
		"..?",
	)
	g.mines, g.questions, g.surprises = 1, 2, 1
	g.repair(&questionCycle{pool: testPool(1)})
	g.computeAdjacency()

	m, q, s := g.Counts()
	assert.Equal(t, []int{1, 2, 1}, []int{m, q, s})
	// (0,0) loses its mine first, then is the first ordinary cell for the missing question.
	first, _ := g.Cell(0, 0)
	second, _ := g.Cell(0, 1)
	third, _ := g.Cell(0, 2)
	assert.Equal(t, Question, first.Kind)
	assert.NotNil(t, first.Question)
	assert.Equal(t, Mine, second.Kind)
	assert.Equal(t, Surprise, third.Kind)
}

func TestFirstClickNeverHitsMine(t *testing.T) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			g := NewGrid(9, 9, rand.New(rand.NewSource(int64(r*9+c+1))))
			g.Allocate(10, 6, 2, testPool(6))
			// Force a mine under the first click to exercise relocation.
			if cell, _ := g.Cell(r, c); cell.Kind != Mine {
				g.cells[r][c].convert(Mine)
				g.mines++
				g.computeAdjacency()
			}
			wantMines, wantQ, wantS := g.Counts()

			hit := g.Reveal(r, c)
			require.False(t, hit, "first click at (%d,%d) hit a mine", r, c)
			cell, _ := g.Cell(r, c)
			assert.NotEqual(t, Mine, cell.Kind)
			assert.Equal(t, Revealed, cell.State)

			m, q, s := g.Counts()
			assert.Equal(t, []int{wantMines, wantQ, wantS}, []int{m, q, s}, "relocation keeps counts")
			for _, p := range g.neighbors(r, c) {
				moved, _ := g.Cell(p.Row, p.Col)
				if moved.Kind == Number {
					assert.Equal(t, g.CountAdjacentMines(p.Row, p.Col), moved.Adjacent)
				}
			}
		}
	}
}

func TestFirstClickOnlyOnce(t *testing.T) {
	g := layoutGrid(t, "*....", ".....", ".....")
	g.firstClickDone = false
	assert.False(t, g.Reveal(2, 4))
	assert.True(t, g.Reveal(0, 0), "second click does not relocate")
}

func TestFirstClickRelocationScansRowMajor(t *testing.T) {
	g := layoutGrid(t,
		"*...",
		"....",
		"....",
	)
	g.firstClickDone = false
	assert.False(t, g.Reveal(0, 0))
	moved, _ := g.Cell(0, 2)
	assert.Equal(t, Mine, moved.Kind, "first cell outside the 3×3 neighbourhood")
	origin, _ := g.Cell(0, 0)
	assert.Equal(t, Empty, origin.Kind)
}

func TestFirstClickRelocatesOntoSpecialWhenNothingElseFits(t *testing.T) {
	g := layoutGrid(t, "*.??")
	g.firstClickDone = false
	assert.False(t, g.Reveal(0, 0), "the mine moves even when only special cells are free")
	origin, _ := g.Cell(0, 0)
	assert.Equal(t, Empty, origin.Kind)
	moved, _ := g.Cell(0, 2)
	assert.Equal(t, Mine, moved.Kind)
	kept, _ := g.Cell(0, 3)
	assert.Equal(t, Question, kept.Kind)
}

func TestFirstClickPrefersOrdinaryOverSpecial(t *testing.T) {
	g := layoutGrid(t, "*.?.")
	g.firstClickDone = false
	assert.False(t, g.Reveal(0, 0))
	skipped, _ := g.Cell(0, 2)
	assert.Equal(t, Question, skipped.Kind)
	moved, _ := g.Cell(0, 3)
	assert.Equal(t, Mine, moved.Kind)
}

func TestSingleCellGridCannotRelocate(t *testing.T) {
	g := NewGrid(1, 1, rand.New(rand.NewSource(1)))
	g.Allocate(1, 0, 0, nil)
	m, _, _ := g.Counts()
	require.Equal(t, 1, m)

	assert.True(t, g.Reveal(0, 0), "no cell outside the neighbourhood, the mine stays")
	cell, _ := g.Cell(0, 0)
	assert.Equal(t, Mine, cell.Kind)
	assert.Equal(t, Revealed, cell.State)
}
