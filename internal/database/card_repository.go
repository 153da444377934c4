package database

import (
	"fmt"

	"github.com/example/flashbot/pkg/models"
)

// CardRepository handles database operations for cards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// GetAll returns every card in stable card order
func (r *CardRepository) GetAll() ([]models.Card, error) {
	var cards []models.Card
	err := DB.Select(&cards, "SELECT id, deck_path, fields FROM cards ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %v", err)
	}
	return cards, nil
}

// GetByID returns a single card
func (r *CardRepository) GetByID(id int) (*models.Card, error) {
	var card models.Card
	err := DB.Get(&card, "SELECT id, deck_path, fields FROM cards WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get card %d: %v", id, err)
	}
	return &card, nil
}

// Count returns the number of stored cards
func (r *CardRepository) Count() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM cards")
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %v", err)
	}
	return count, nil
}

// Upsert creates or replaces a card, keeping its stable ID
func (r *CardRepository) Upsert(card *models.Card) (created bool, err error) {
	var existing int
	err = DB.Get(&existing, "SELECT id FROM cards WHERE id = $1", card.ID)
	if err == nil {
		_, err = DB.Exec(
			"UPDATE cards SET deck_path = $1, fields = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
			card.DeckPath, card.Fields, card.ID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update card %d: %v", card.ID, err)
		}
		return false, nil
	}

	_, err = DB.Exec(
		"INSERT INTO cards (id, deck_path, fields) VALUES ($1, $2, $3)",
		card.ID, card.DeckPath, card.Fields,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert card %d: %v", card.ID, err)
	}
	return true, nil
}

// DeleteAll removes every card. Used when re-importing a deck file.
func (r *CardRepository) DeleteAll() error {
	if _, err := DB.Exec("DELETE FROM progress"); err != nil {
		return fmt.Errorf("failed to clear progress: %v", err)
	}
	if _, err := DB.Exec("DELETE FROM cards"); err != nil {
		return fmt.Errorf("failed to clear cards: %v", err)
	}
	return nil
}
