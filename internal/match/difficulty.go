package match

import "strings"

// Difficulty selects board size, special-cell counts and the shared life pool.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

// Settings is the resource table of one difficulty tier.
type Settings struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	Mines     int `json:"mines"`
	Questions int `json:"questions"`
	Surprises int `json:"surprises"`
	Lives     int `json:"lives"`
}

var settings = map[Difficulty]Settings{
	Easy:   {Rows: 9, Cols: 9, Mines: 10, Questions: 6, Surprises: 2, Lives: 10},
	Medium: {Rows: 13, Cols: 13, Mines: 26, Questions: 7, Surprises: 3, Lives: 8},
	Hard:   {Rows: 16, Cols: 16, Mines: 44, Questions: 11, Surprises: 4, Lives: 6},
}

// Settings returns the table row for d. Unknown values fall back to Easy.
func (d Difficulty) Settings() Settings {
	if s, ok := settings[d]; ok {
		return s
	}
	return settings[Easy]
}

// Valid reports whether d is one of Easy, Medium or Hard.
func (d Difficulty) Valid() bool {
	_, ok := settings[d]
	return ok
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// ParseDifficulty accepts "1".."3" or the tier name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "easy":
		return Easy, true
	case "2", "medium":
		return Medium, true
	case "3", "hard":
		return Hard, true
	}
	return 0, false
}
