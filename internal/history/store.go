// internal/history/store.go
//
// Durable record of matches: the audit trail of every match and one result row per
// finished match, plus the per-difficulty leaderboard.

package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/duosweeper/internal/match"
	"github.com/robalobadob/duosweeper/internal/session"
)

type Store struct{ db *sql.DB }

// Open opens the database at dsn and applies pending migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// AppendLine adds one audit line for a match.
func (s *Store) AppendLine(ctx context.Context, matchID, line string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_lines(match_id, line) VALUES(?, ?)`, matchID, line)
	return err
}

// Lines returns a match's audit lines in insertion order.
func (s *Store) Lines(ctx context.Context, matchID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line FROM audit_lines WHERE match_id=? ORDER BY id ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// RecordResult stores a finished match. Recording the same match twice is ignored.
func (s *Store) RecordResult(ctx context.Context, r session.Summary) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO match_results
            (match_id, player1, player2, difficulty, won, winner, score, lives, moves, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.Player1, r.Player2, int(r.Difficulty), won, r.Winner,
		r.Score, r.Lives, r.Moves, r.Duration.Milliseconds(),
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	MatchID    string `json:"matchId"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Winner     int    `json:"winner"`
	Score      int    `json:"score"`
	Lives      int    `json:"lives"`
	DurationMs int64  `json:"durationMs"`
}

// Leaderboard returns the best won matches for a difficulty: highest score first, then
// fastest, then oldest. The default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, d match.Difficulty, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT match_id, player1, player2, winner, score, lives, duration_ms
        FROM match_results
        WHERE difficulty=? AND won=1
        ORDER BY score DESC, duration_ms ASC, created_at ASC
        LIMIT ?`, int(d), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.MatchID, &r.Player1, &r.Player2, &r.Winner, &r.Score, &r.Lives, &r.DurationMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
