package database

import (
	"fmt"

	"github.com/example/flashbot/pkg/models"
)

// ProgressRepository handles database operations for progress records
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// LoadAll returns the whole progress store keyed by card ID
func (r *ProgressRepository) LoadAll() (models.ProgressMap, error) {
	var records []models.ProgressRecord
	err := DB.Select(&records, `
		SELECT card_id, correct_count, incorrect_count, streak, ease_factor,
		       interval, next_review_date, favorite, passed, last_study_date, last_difficulty
		FROM progress
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %v", err)
	}

	progress := make(models.ProgressMap, len(records))
	for i := range records {
		rec := records[i]
		progress[rec.CardID] = &rec
	}
	return progress, nil
}

// Get returns the record for one card
func (r *ProgressRepository) Get(cardID int) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	err := DB.Get(&record, `
		SELECT card_id, correct_count, incorrect_count, streak, ease_factor,
		       interval, next_review_date, favorite, passed, last_study_date, last_difficulty
		FROM progress WHERE card_id = $1
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for card %d: %v", cardID, err)
	}
	return &record, nil
}

// SaveProgress creates or updates a progress record. Idempotent:
// re-saving the same record is safe.
func (r *ProgressRepository) SaveProgress(record *models.ProgressRecord) error {
	if Type() == "postgres" {
		// PostgreSQL supports ON CONFLICT with RETURNING
		_, err := DB.Exec(`
			INSERT INTO progress (
				card_id, correct_count, incorrect_count, streak, ease_factor,
				interval, next_review_date, favorite, passed, last_study_date, last_difficulty
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (card_id) DO UPDATE SET
				correct_count = EXCLUDED.correct_count,
				incorrect_count = EXCLUDED.incorrect_count,
				streak = EXCLUDED.streak,
				ease_factor = EXCLUDED.ease_factor,
				interval = EXCLUDED.interval,
				next_review_date = EXCLUDED.next_review_date,
				favorite = EXCLUDED.favorite,
				passed = EXCLUDED.passed,
				last_study_date = EXCLUDED.last_study_date,
				last_difficulty = EXCLUDED.last_difficulty,
				updated_at = NOW()
		`, record.CardID, record.CorrectCount, record.IncorrectCount, record.Streak,
			record.EaseFactor, record.Interval, record.NextReviewDate,
			record.Favorite, record.Passed, record.LastStudyDate, record.LastDifficulty)
		if err != nil {
			return fmt.Errorf("failed to save progress for card %d: %v", record.CardID, err)
		}
		return nil
	}

	// SQLite: check for an existing row, then insert or update
	var existing int
	err := DB.Get(&existing, "SELECT card_id FROM progress WHERE card_id = $1", record.CardID)
	if err == nil {
		_, err = DB.Exec(`
			UPDATE progress SET
				correct_count = $1,
				incorrect_count = $2,
				streak = $3,
				ease_factor = $4,
				interval = $5,
				next_review_date = $6,
				favorite = $7,
				passed = $8,
				last_study_date = $9,
				last_difficulty = $10,
				updated_at = CURRENT_TIMESTAMP
			WHERE card_id = $11
		`, record.CorrectCount, record.IncorrectCount, record.Streak,
			record.EaseFactor, record.Interval, record.NextReviewDate,
			record.Favorite, record.Passed, record.LastStudyDate, record.LastDifficulty,
			record.CardID)
		if err != nil {
			return fmt.Errorf("failed to update progress for card %d: %v", record.CardID, err)
		}
		return nil
	}

	_, err = DB.Exec(`
		INSERT INTO progress (
			card_id, correct_count, incorrect_count, streak, ease_factor,
			interval, next_review_date, favorite, passed, last_study_date, last_difficulty
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, record.CardID, record.CorrectCount, record.IncorrectCount, record.Streak,
		record.EaseFactor, record.Interval, record.NextReviewDate,
		record.Favorite, record.Passed, record.LastStudyDate, record.LastDifficulty)
	if err != nil {
		return fmt.Errorf("failed to insert progress for card %d: %v", record.CardID, err)
	}
	return nil
}

// Delete removes the record for one card
func (r *ProgressRepository) Delete(cardID int) error {
	_, err := DB.Exec("DELETE FROM progress WHERE card_id = $1", cardID)
	return err
}

// CountDue returns how many cards are due for review on the given date
func (r *ProgressRepository) CountDue(today string) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM progress
		WHERE next_review_date != '' AND next_review_date <= $1 AND NOT passed
	`, today)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %v", err)
	}
	return count, nil
}
