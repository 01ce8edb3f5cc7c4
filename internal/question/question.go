// internal/question/question.go
//
// Question pool entries consumed by board allocation.
// Defines:
//   - Level: the difficulty of a question (used by the solution-used table).
//   - Question: id, text, four options and the correct option letter.

package question

import "strings"

// Level is the difficulty a question was authored at.
type Level int

const (
	LevelEasy Level = iota + 1
	LevelMedium
	LevelHard
	LevelExpert
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelEasy:
		return "easy"
	case LevelMedium:
		return "medium"
	case LevelHard:
		return "hard"
	case LevelExpert:
		return "expert"
	}
	return "unknown"
}

func (l Level) Valid() bool { return l >= LevelEasy && l <= LevelExpert }

// ParseLevel maps a name or 1..4 digit to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "easy":
		return LevelEasy, true
	case "2", "medium":
		return LevelMedium, true
	case "3", "hard":
		return LevelHard, true
	case "4", "expert":
		return LevelExpert, true
	}
	return 0, false
}

// Question is a single multiple-choice entry. Correct holds "A".."D".
type Question struct {
	ID      int       `json:"id"`
	Text    string    `json:"text"`
	Options [4]string `json:"options"`
	Correct string    `json:"-"`
	Level   Level     `json:"level"`
}

// IsCorrect reports whether letter (case-insensitive) names the correct option.
func (q Question) IsCorrect(letter string) bool {
	return strings.EqualFold(strings.TrimSpace(letter), q.Correct)
}

// ValidLetter reports whether letter names one of the options A..D (any case).
func ValidLetter(letter string) bool {
	l := strings.ToUpper(strings.TrimSpace(letter))
	return len(l) == 1 && l[0] >= 'A' && l[0] <= 'D'
}

// Option returns the text behind an option letter, or "" for an unknown letter.
func (q Question) Option(letter string) string {
	if !ValidLetter(letter) {
		return ""
	}
	return q.Options[strings.ToUpper(strings.TrimSpace(letter))[0]-'A']
}
