package deck

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/flashbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// CardWriter is the storage the importer writes into.
type CardWriter interface {
	Upsert(card *models.Card) (created bool, err error)
	DeleteAll() error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	SheetName  string // Name of the sheet to import (Excel only)
	DeckColumn string // Header name of the deck path column
	IDColumn   string // Header name of the optional stable ID column
	StartRow   int    // The row to start importing from (1-based index)
	Replace    bool   // Drop existing cards and progress first
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:  "Sheet1",
		DeckColumn: "Deck",
		IDColumn:   "ID",
		StartRow:   2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportCards imports cards from an Excel or CSV file. The first row
// carries the field names; the deck column becomes the card's deck path
// and every other column becomes a card field.
func ImportCards(config ImportConfig, repo CardWriter) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s contains no rows", config.FilePath)
	}

	header := rows[0]
	if config.Replace {
		if err := repo.DeleteAll(); err != nil {
			return nil, err
		}
	}

	result := &ImportResult{Errors: make([]string, 0)}

	// Reserve every explicit ID up front so a fallback row ID can never
	// collide with a later row's explicit one.
	taken := explicitIDs(rows, header, config)
	nextID := 1

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		for taken[nextID] {
			nextID++
		}
		card, err := parseRow(row, header, config, nextID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if card == nil {
			result.Skipped++
			continue
		}
		taken[card.ID] = true

		created, err := repo.Upsert(card)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// explicitIDs collects the IDs the data rows declare themselves.
// Unparseable values are left for the main pass to report.
func explicitIDs(rows [][]string, header []string, config ImportConfig) map[int]bool {
	idCol := -1
	for col, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), config.IDColumn) {
			idCol = col
		}
	}

	taken := make(map[int]bool)
	if idCol < 0 {
		return taken
	}
	for i, row := range rows {
		if i < config.StartRow-1 || idCol >= len(row) {
			continue
		}
		if id, err := strconv.Atoi(strings.TrimSpace(row[idCol])); err == nil && id >= 1 {
			taken[id] = true
		}
	}
	return taken
}

// parseRow maps one data row onto a card. Returns nil when the row is
// effectively empty.
func parseRow(row []string, header []string, config ImportConfig, fallbackID int) (*models.Card, error) {
	card := &models.Card{ID: fallbackID, Fields: models.FieldMap{}}
	empty := true

	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var value string
		if col < len(row) {
			value = strings.TrimSpace(row[col])
		}

		switch {
		case strings.EqualFold(name, config.IDColumn):
			if value == "" {
				continue
			}
			id, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid card ID %q", value)
			}
			if id < 1 {
				return nil, fmt.Errorf("card ID must be positive, got %d", id)
			}
			card.ID = id
		case strings.EqualFold(name, config.DeckColumn):
			card.DeckPath = value
		default:
			card.Fields[name] = value
			if value != "" {
				empty = false
			}
		}
	}

	if empty {
		return nil, nil
	}
	return card, nil
}

// readExcel loads rows from an Excel file
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV loads rows from a CSV file
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
