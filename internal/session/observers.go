package session

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/duosweeper/internal/audit"
	"github.com/robalobadob/duosweeper/internal/match"
)

// narrator writes match-level events to the audit sink. Score and life changes are
// already described by the scoring lines, so only turns, reveals and the end are narrated.
type narrator struct {
	sink audit.Sink
	m    *match.Match
}

func (n narrator) OnScoreChanged(int)      {}
func (n narrator) OnLivesChanged(int, int) {}

func (n narrator) OnTurnChanged(player int, name string) {
	n.sink.AppendLine(fmt.Sprintf("Turn: player %d (%s)", player, name))
}

func (n narrator) OnGameOver(won bool, winner int) {
	if won {
		n.sink.AppendLine(fmt.Sprintf("Game over: board cleared by %s, final score %d",
			n.m.PlayerName(winner), n.m.CombinedScore()))
		return
	}
	n.sink.AppendLine(fmt.Sprintf("Game over: out of lives, final score %d", n.m.CombinedScore()))
}

func (n narrator) OnCellRevealed(row, col, player int) {
	n.sink.AppendLine(fmt.Sprintf("%s revealed (%d,%d)", n.m.PlayerName(player), row, col))
}

// logObserver mirrors notifications into the structured log at debug level.
type logObserver struct {
	logger zerolog.Logger
}

func (l logObserver) OnScoreChanged(score int) {
	l.logger.Debug().Int("score", score).Msg("score changed")
}

func (l logObserver) OnLivesChanged(lives, total int) {
	l.logger.Debug().Int("lives", lives).Int("total", total).Msg("lives changed")
}

func (l logObserver) OnTurnChanged(player int, name string) {
	l.logger.Debug().Int("player", player).Str("name", name).Msg("turn changed")
}

func (l logObserver) OnGameOver(won bool, winner int) {
	l.logger.Debug().Bool("won", won).Int("winner", winner).Msg("game over")
}

func (l logObserver) OnCellRevealed(row, col, player int) {
	l.logger.Debug().Int("row", row).Int("col", col).Int("player", player).Msg("cell revealed")
}
