// Package stats derives summary counts from the card set and the
// progress store. Everything is recomputed on demand: the store mutates
// between calls (answers, toggles) and no caching is allowed.
package stats

import (
	"math"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/pkg/models"
)

// Calculate walks the card set once and aggregates learning state as of
// the given date.
func Calculate(cards []models.Card, progress models.ProgressMap, today string) models.Statistics {
	s := models.Statistics{Total: len(cards)}

	for _, card := range cards {
		prog := progress.Get(card.ID)
		if prog == nil || prog.IsNew() {
			s.NewCards++
		}
		if prog == nil {
			continue
		}
		if !prog.IsNew() {
			s.Studied++
		}
		if prog.Passed {
			s.Passed++
		}
		if prog.DueOn(today) {
			s.DueForReview++
		}
		s.TotalCorrect += prog.CorrectCount
		s.TotalIncorrect += prog.IncorrectCount
	}

	if total := s.TotalCorrect + s.TotalIncorrect; total > 0 {
		s.Accuracy = int(math.Round(float64(s.TotalCorrect) / float64(total) * 100))
	}
	return s
}

// TodayNewCount returns how many new cards today's session may draw,
// bounded by the daily cap.
func TodayNewCount(s models.Statistics, settings *config.Settings) int {
	limit := settings.NewCardsPerDay()
	if s.NewCards < limit {
		return s.NewCards
	}
	return limit
}
