package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/pkg/models"
)

// SM2 implements the spaced-repetition algorithm: a SuperMemo-2 variant
// with a three-way difficulty grading and per-difficulty interval
// multipliers.
type SM2 struct {
	// Lower bound for the easiness factor
	MinEaseFactor float64
	// Interval bounds in days
	MinInterval int
	MaxInterval int
	// Settings supply the per-difficulty interval multipliers
	Settings *config.Settings
	// Now is the clock used for "today"; injectable for tests
	Now func() time.Time
}

// New creates an SM2 scheduler with the standard bounds.
func New(settings *config.Settings) *SM2 {
	return &SM2{
		MinEaseFactor: models.MinEaseFactor,
		MinInterval:   models.MinInterval,
		MaxInterval:   models.MaxInterval,
		Settings:      settings,
		Now:           time.Now,
	}
}

// Schedule computes the next review schedule for a graded answer. The
// input record is not mutated; the returned copy carries the updated
// ease factor, interval and next review date. Deterministic for
// identical inputs and clock.
func (sm *SM2) Schedule(prog models.ProgressRecord, difficulty models.Difficulty) (models.ProgressRecord, error) {
	if !difficulty.Valid() {
		return prog, fmt.Errorf("invalid difficulty: %q", difficulty)
	}
	if prog.CorrectCount < 0 || prog.IncorrectCount < 0 || prog.Streak < 0 {
		return prog, fmt.Errorf("negative counts in progress record for card %d", prog.CardID)
	}

	ease := prog.EaseFactor
	if ease == 0 {
		ease = models.DefaultEaseFactor
	}
	interval := prog.Interval
	if interval == 0 {
		interval = sm.MinInterval
	}

	grade := difficulty.Grade()

	ease = ease + (0.1 - float64(5-grade)*(0.08+float64(5-grade)*0.02))
	if ease < sm.MinEaseFactor {
		ease = sm.MinEaseFactor
	}

	if grade < 3 {
		// Failed recall restarts the schedule
		interval = 1
	} else {
		switch interval {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Round(float64(interval) * ease))
		}
		interval = int(math.Round(float64(interval) * sm.Settings.Multiplier(difficulty)))
	}

	if interval < sm.MinInterval {
		interval = sm.MinInterval
	}
	if interval > sm.MaxInterval {
		interval = sm.MaxInterval
	}

	prog.EaseFactor = ease
	prog.Interval = interval
	prog.NextReviewDate = models.DateAfterDays(sm.Now(), interval)
	return prog, nil
}
