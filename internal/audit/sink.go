// internal/audit/sink.go
//
// Append-only receivers for human-readable audit lines.
//
// Scoring and match narration write through the Sink interface, which has a single
// "append line" operation with no result. Implementations:
//   - Log:     in-memory, concurrency-safe via RWMutex (tests, live match view).
//   - Multi:   fan-out to several sinks in order.
//   - Discard: drops everything.
// The SQLite-backed sink lives in internal/history.

package audit

import "sync"

// Sink receives audit lines. AppendLine must not fail loudly; implementations
// handle their own errors.
type Sink interface {
	AppendLine(line string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) AppendLine(line string) { f(line) }

// Discard drops every line.
type Discard struct{}

func (Discard) AppendLine(string) {}

// Multi forwards each line to every sink in order.
type Multi []Sink

func (m Multi) AppendLine(line string) {
	for _, s := range m {
		if s != nil {
			s.AppendLine(line)
		}
	}
}

// Log keeps lines in memory.
type Log struct {
	mu    sync.RWMutex // guards lines
	lines []string
}

// NewLog constructs an empty in-memory log.
func NewLog() *Log { return &Log{} }

// AppendLine adds line to the end of the log.
func (l *Log) AppendLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// Lines returns a copy of every line in append order.
func (l *Log) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.lines...)
}

// Len returns the number of lines.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}
