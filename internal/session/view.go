package session

import (
	"github.com/robalobadob/duosweeper/internal/board"
	"github.com/robalobadob/duosweeper/internal/match"
)

// CellView is the client-safe rendering of a cell. Hidden and flagged cells do not
// leak their kind.
type CellView struct {
	State     string `json:"state"`
	Kind      string `json:"kind,omitempty"`
	Adjacent  int    `json:"adjacent,omitempty"`
	Activated bool   `json:"activated,omitempty"`
}

// View is a read-only snapshot of the whole match.
type View struct {
	ID            string          `json:"id"`
	Difficulty    string          `json:"difficulty"`
	Players       [2]string       `json:"players"`
	CurrentPlayer int             `json:"currentPlayer"`
	Score         int             `json:"score"`
	Lives         int             `json:"lives"`
	TotalLives    int             `json:"totalLives"`
	Status        match.Status    `json:"status"`
	GameOver      bool            `json:"gameOver"`
	Winner        int             `json:"winner"`
	Boards        [2][][]CellView `json:"boards"`
}

// View renders the match.
func (s *Session) View() View {
	v := View{
		ID:            s.id,
		Difficulty:    s.m.Difficulty().String(),
		Players:       [2]string{s.m.Player1Name(), s.m.Player2Name()},
		CurrentPlayer: s.m.CurrentPlayer(),
		Score:         s.m.CombinedScore(),
		Lives:         s.m.SharedLives(),
		TotalLives:    s.m.TotalLives(),
		Status:        s.m.Status(),
		GameOver:      s.m.GameOver(),
		Winner:        s.m.Winner(),
	}
	for p := 1; p <= 2; p++ {
		v.Boards[p-1] = renderGrid(s.m.Grid(p))
	}
	return v
}

func renderGrid(g *board.Grid) [][]CellView {
	snap := g.Snapshot()
	out := make([][]CellView, len(snap))
	for r, row := range snap {
		out[r] = make([]CellView, len(row))
		for c, cell := range row {
			cv := CellView{State: cell.State.String()}
			if cell.State == board.Revealed {
				cv.Kind = cell.Kind.String()
				cv.Adjacent = cell.Adjacent
				cv.Activated = cell.Activated()
			}
			out[r][c] = cv
		}
	}
	return out
}
