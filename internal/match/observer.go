package match

// Observer receives synchronous notifications after each state change.
// Implementations must not call back into the Match from a callback.
type Observer interface {
	OnScoreChanged(score int)
	OnLivesChanged(lives, total int)
	OnTurnChanged(player int, name string)
	OnGameOver(won bool, winner int)
	OnCellRevealed(row, col, player int)
}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	ScoreChanged func(score int)
	LivesChanged func(lives, total int)
	TurnChanged  func(player int, name string)
	GameOver     func(won bool, winner int)
	CellRevealed func(row, col, player int)
}

func (f ObserverFuncs) OnScoreChanged(score int) {
	if f.ScoreChanged != nil {
		f.ScoreChanged(score)
	}
}

func (f ObserverFuncs) OnLivesChanged(lives, total int) {
	if f.LivesChanged != nil {
		f.LivesChanged(lives, total)
	}
}

func (f ObserverFuncs) OnTurnChanged(player int, name string) {
	if f.TurnChanged != nil {
		f.TurnChanged(player, name)
	}
}

func (f ObserverFuncs) OnGameOver(won bool, winner int) {
	if f.GameOver != nil {
		f.GameOver(won, winner)
	}
}

func (f ObserverFuncs) OnCellRevealed(row, col, player int) {
	if f.CellRevealed != nil {
		f.CellRevealed(row, col, player)
	}
}

// ObserverID is the handle returned by AddObserver.
type ObserverID int

type observerEntry struct {
	id  ObserverID
	obs Observer
}

// AddObserver registers o and returns a handle for RemoveObserver.
// Observers are notified in registration order.
func (m *Match) AddObserver(o Observer) ObserverID {
	m.nextObserver++
	m.observers = append(m.observers, observerEntry{id: m.nextObserver, obs: o})
	return m.nextObserver
}

// RemoveObserver unregisters the observer behind id. It reports whether id was registered.
func (m *Match) RemoveObserver(id ObserverID) bool {
	for i, e := range m.observers {
		if e.id == id {
			m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Match) notify(fn func(Observer)) {
	for _, e := range m.observers {
		fn(e.obs)
	}
}
