package models

// Difficulty is the three-way grading a user gives after recalling a card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the three recognized gradings.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// Correct reports whether the grading counts as a correct recall.
// Only a hard answer counts as incorrect.
func (d Difficulty) Correct() bool {
	return d != DifficultyHard
}

// Grade maps the grading onto the 0-5 SM-2 quality scale.
func (d Difficulty) Grade() int {
	switch d {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 0
	default:
		return 3
	}
}
