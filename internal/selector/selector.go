// Package selector builds ordered card subsets for each study mode.
// All functions are pure: they never mutate the card list or the
// progress store.
package selector

import (
	"math/rand"
	"sort"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/pkg/models"
)

// Weak-point selection thresholds.
const (
	weakPointMinAnswers = 2
	weakPointRate       = 0.3
	weakPointLimit      = 20
)

// ForMode returns the candidate cards for a plain study mode.
// An empty result is not an error; callers decide how to report it.
func ForMode(mode models.StudyMode, cards []models.Card, progress models.ProgressMap, settings *config.Settings, today string) []models.Card {
	switch mode {
	case models.ModeReview:
		return dueCards(cards, progress, today)
	case models.ModeNew:
		newCards := newCards(cards, progress)
		limit := settings.NewCardsPerDay()
		if len(newCards) > limit {
			newCards = newCards[:limit]
		}
		return newCards
	case models.ModeWeakPoint:
		return WeakPoints(cards, progress)
	default:
		out := make([]models.Card, len(cards))
		copy(out, cards)
		return out
	}
}

// Filtered composes the custom study filters in their fixed order:
// deck scope, stable card order, index slice, mode, favorite, not-passed.
// The slice applies before the mode filter, so a review/new filter
// operates only on the sliced range.
func Filtered(criteria models.FilterCriteria, cards []models.Card, progress models.ProgressMap, today string) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.InDeck(criteria.DeckPath) {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if criteria.StartIndex >= 1 {
		idx := criteria.StartIndex - 1
		if idx >= len(out) {
			out = nil
		} else if criteria.Count >= 1 && idx+criteria.Count < len(out) {
			out = out[idx : idx+criteria.Count]
		} else {
			out = out[idx:]
		}
	} else if criteria.Count >= 1 && criteria.Count < len(out) {
		out = out[:criteria.Count]
	}

	switch criteria.Mode {
	case models.ModeReview:
		out = dueCards(out, progress, today)
	case models.ModeNew:
		out = newCards(out, progress)
	}

	if criteria.FavoriteOnly {
		kept := out[:0]
		for _, c := range out {
			if p := progress.Get(c.ID); p != nil && p.Favorite {
				kept = append(kept, c)
			}
		}
		out = kept
	}
	if criteria.NotPassedOnly {
		kept := out[:0]
		for _, c := range out {
			if p := progress.Get(c.ID); p == nil || !p.Passed {
				kept = append(kept, c)
			}
		}
		out = kept
	}

	return out
}

// WeakPoints returns cards answered at least twice with an incorrect
// rate of 30% or more, hardest first, capped at 20.
func WeakPoints(cards []models.Card, progress models.ProgressMap) []models.Card {
	var weak []models.Card
	for _, c := range cards {
		p := progress.Get(c.ID)
		if p == nil || p.TotalAnswers() < weakPointMinAnswers {
			continue
		}
		if p.IncorrectRate() >= weakPointRate {
			weak = append(weak, c)
		}
	}

	sort.SliceStable(weak, func(i, j int) bool {
		return progress.Get(weak[i].ID).IncorrectRate() > progress.Get(weak[j].ID).IncorrectRate()
	})

	if len(weak) > weakPointLimit {
		weak = weak[:weakPointLimit]
	}
	return weak
}

// Shuffle returns a uniformly shuffled copy of cards using the
// Fisher-Yates algorithm. The input is left untouched. A nil rng falls
// back to the package-global source.
func Shuffle(cards []models.Card, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}

func dueCards(cards []models.Card, progress models.ProgressMap, today string) []models.Card {
	var due []models.Card
	for _, c := range cards {
		if p := progress.Get(c.ID); p != nil && p.DueOn(today) {
			due = append(due, c)
		}
	}
	return due
}

func newCards(cards []models.Card, progress models.ProgressMap) []models.Card {
	var fresh []models.Card
	for _, c := range cards {
		if p := progress.Get(c.ID); p == nil || p.IsNew() {
			fresh = append(fresh, c)
		}
	}
	return fresh
}
