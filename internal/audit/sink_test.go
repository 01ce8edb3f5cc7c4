package audit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAppendsInOrder(t *testing.T) {
	l := NewLog()
	l.AppendLine("a")
	l.AppendLine("b")
	assert.Equal(t, []string{"a", "b"}, l.Lines())
	assert.Equal(t, 2, l.Len())

	lines := l.Lines()
	lines[0] = "mutated"
	assert.Equal(t, "a", l.Lines()[0])
}

func TestLogConcurrentAppends(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AppendLine("x")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewLog(), NewLog()
	var seen []string
	m := Multi{a, nil, b, SinkFunc(func(s string) { seen = append(seen, s) }), Discard{}}
	m.AppendLine("hello")
	assert.Equal(t, []string{"hello"}, a.Lines())
	assert.Equal(t, []string{"hello"}, b.Lines())
	assert.Equal(t, []string{"hello"}, seen)
}
