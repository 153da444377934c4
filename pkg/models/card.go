package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldMap holds a card's named text fields. It is stored as a JSON
// column in the database.
type FieldMap map[string]string

// Value implements driver.Valuer for database storage.
func (m FieldMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %v", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval.
func (m *FieldMap) Scan(src interface{}) error {
	if src == nil {
		*m = FieldMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for fields: %T", src)
	}
	if len(data) == 0 {
		*m = FieldMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Card represents a single flashcard. Cards are loaded once per run and
// are immutable during a study session. ID doubles as the stable card
// order (it is the row number assigned at import time).
type Card struct {
	ID       int      `json:"id" db:"id"`
	DeckPath string   `json:"deck_path" db:"deck_path"` // slash-delimited, may be empty
	Fields   FieldMap `json:"fields" db:"fields"`
}

// InDeck reports whether the card belongs to the given deck or one of
// its subdecks. An empty deck path matches every card.
func (c Card) InDeck(path string) bool {
	if path == "" {
		return true
	}
	return c.DeckPath == path || strings.HasPrefix(c.DeckPath, path+"/")
}
