// internal/question/bank.go
//
// Default question bank management.
//
// Responsibilities:
//   - Load the embedded question bank exactly once (sync.Once).
//   - Parse pipe-delimited entries: id|level|text|A|B|C|D|correct.
//   - Hand out defensive copies of the pool for board allocation.
//
// Malformed lines are skipped; an empty bank is an error.

package question

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/duosweeper/assets"
)

var (
	initOnce   sync.Once
	pool       []Question
	byID       map[int]Question
	initialErr error
)

// ErrEmptyBank is returned when no usable question could be loaded.
var ErrEmptyBank = errors.New("question: bank is empty")

// Init loads the embedded bank exactly once.
func Init() error {
	initOnce.Do(func() {
		lines, err := assets.QuestionLines()
		if err != nil {
			initialErr = fmt.Errorf("read question bank: %w", err)
			return
		}
		pool = ParseLines(lines)
		byID = make(map[int]Question, len(pool))
		for _, q := range pool {
			byID[q.ID] = q
		}
		if len(pool) == 0 {
			initialErr = ErrEmptyBank
		}
	})
	return initialErr
}

// ParseLines converts bank lines into questions, skipping malformed ones.
func ParseLines(lines []string) []Question {
	out := make([]Question, 0, len(lines))
	for _, line := range lines {
		if q, err := ParseLine(line); err == nil {
			out = append(out, q)
		}
	}
	return out
}

// ParseLine parses a single id|level|text|A|B|C|D|correct entry.
func ParseLine(line string) (Question, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 8 {
		return Question{}, fmt.Errorf("question: want 8 fields, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return Question{}, fmt.Errorf("question: bad id %q: %w", parts[0], err)
	}
	lvl, ok := ParseLevel(parts[1])
	if !ok {
		return Question{}, fmt.Errorf("question: bad level %q", parts[1])
	}
	correct := strings.ToUpper(parts[7])
	if len(correct) != 1 || correct[0] < 'A' || correct[0] > 'D' {
		return Question{}, fmt.Errorf("question: bad answer %q", parts[7])
	}
	q := Question{ID: id, Text: parts[2], Correct: correct, Level: lvl}
	copy(q.Options[:], parts[3:7])
	return q, nil
}

// Pool returns a copy of the loaded bank. Callers may shuffle it freely.
func Pool() []Question {
	return append([]Question(nil), pool...)
}

// Lookup finds a question by id.
func Lookup(id int) (Question, bool) {
	q, ok := byID[id]
	return q, ok
}

// Count returns the number of loaded questions.
func Count() int { return len(pool) }
