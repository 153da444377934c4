package models

// Default SM-2 parameters for a card that has never been answered.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MinInterval       = 1
	MaxInterval       = 90
)

// ProgressRecord tracks a card's learning statistics and review schedule.
// One record per card, created lazily on the first answer. Dates are
// stored as ISO date strings (YYYY-MM-DD) and compared lexically; an
// empty NextReviewDate means the card was never scheduled.
type ProgressRecord struct {
	CardID         int        `json:"card_id" db:"card_id"`
	CorrectCount   int        `json:"correct_count" db:"correct_count"`
	IncorrectCount int        `json:"incorrect_count" db:"incorrect_count"`
	Streak         int        `json:"streak" db:"streak"` // consecutive correct answers
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	Interval       int        `json:"interval" db:"interval"` // days
	NextReviewDate string     `json:"next_review_date" db:"next_review_date"`
	Favorite       bool       `json:"favorite" db:"favorite"`
	Passed         bool       `json:"passed" db:"passed"`
	LastStudyDate  string     `json:"last_study_date" db:"last_study_date"`
	LastDifficulty Difficulty `json:"last_difficulty" db:"last_difficulty"`
}

// NewProgressRecord returns a fresh record with SM-2 starting values.
func NewProgressRecord(cardID int) *ProgressRecord {
	return &ProgressRecord{
		CardID:     cardID,
		EaseFactor: DefaultEaseFactor,
		Interval:   MinInterval,
	}
}

// TotalAnswers returns the number of recorded answers for the card.
func (p *ProgressRecord) TotalAnswers() int {
	return p.CorrectCount + p.IncorrectCount
}

// IncorrectRate returns the fraction of answers that were incorrect,
// or 0 when the card has never been answered.
func (p *ProgressRecord) IncorrectRate() float64 {
	total := p.TotalAnswers()
	if total == 0 {
		return 0
	}
	return float64(p.IncorrectCount) / float64(total)
}

// IsNew reports whether the card counts as never studied.
func (p *ProgressRecord) IsNew() bool {
	return p.CorrectCount == 0 && p.IncorrectCount == 0
}

// DueOn reports whether the card is due for review on the given date.
// Passed cards are never due.
func (p *ProgressRecord) DueOn(today string) bool {
	return p.NextReviewDate != "" && p.NextReviewDate <= today && !p.Passed
}

// ProgressMap is the in-memory progress store, keyed by card ID.
type ProgressMap map[int]*ProgressRecord

// Get returns the record for a card, or nil when the card has no
// progress yet.
func (m ProgressMap) Get(cardID int) *ProgressRecord {
	return m[cardID]
}
