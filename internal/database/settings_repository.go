package database

import (
	"fmt"
)

// SettingsRepository handles the key/value settings table
type SettingsRepository struct{}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// GetAll returns every stored setting
func (r *SettingsRepository) GetAll() (map[string]string, error) {
	var rows []settingRow
	err := DB.Select(&rows, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %v", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Set stores one setting value
func (r *SettingsRepository) Set(key, value string) error {
	if Type() == "postgres" {
		_, err := DB.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %v", key, err)
		}
		return nil
	}

	var existing string
	err := DB.Get(&existing, "SELECT key FROM settings WHERE key = $1", key)
	if err == nil {
		_, err = DB.Exec("UPDATE settings SET value = $1, updated_at = CURRENT_TIMESTAMP WHERE key = $2", value, key)
	} else {
		_, err = DB.Exec("INSERT INTO settings (key, value) VALUES ($1, $2)", key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %v", key, err)
	}
	return nil
}
