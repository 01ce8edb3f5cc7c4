package board

// cascade floods outward from a freshly revealed Empty cell.
//
// Hidden neighbours are revealed: Empty ones are pushed for further expansion, Number,
// Question and Surprise cells stop the flood. Mines and flagged cells are never touched.
// A cell is marked Revealed before it is pushed, so no cell is processed twice.
func (g *Grid) cascade(row, col int) int {
	revealed := 0
	stack := []Pos{{row, col}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range g.neighbors(p.Row, p.Col) {
			c := &g.cells[n.Row][n.Col]
			if c.State != Hidden {
				continue
			}
			switch c.Kind {
			case Mine:
				continue
			case Empty:
				c.State = Revealed
				stack = append(stack, n)
			case Number, Question, Surprise:
				c.State = Revealed
			}
			revealed++
		}
	}
	return revealed
}
