package history

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/session"
)

const writeTimeout = 2 * time.Second

// MatchSink persists the audit lines of one match. Write failures are logged and dropped.
type MatchSink struct {
	store   *Store
	matchID string
}

func (s *Store) Sink(matchID string) MatchSink {
	return MatchSink{store: s, matchID: matchID}
}

func (m MatchSink) AppendLine(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := m.store.AppendLine(ctx, m.matchID, line); err != nil {
		log.Error().Err(err).Str("match", m.matchID).Msg("append audit line")
	}
}

// Recorder returns a session finish hook that stores the summary.
func (s *Store) Recorder() func(session.Summary) {
	return func(sum session.Summary) {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.RecordResult(ctx, sum); err != nil {
			log.Error().Err(err).Str("match", sum.MatchID).Msg("record match result")
		}
	}
}
