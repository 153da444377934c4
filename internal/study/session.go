// Package study owns the live study session: the current card pointer,
// the per-card answer log and the session counters. It consumes the
// scheduler and writes through to the progress store.
package study

import (
	"log"
	"math"
	"time"

	"github.com/example/flashbot/internal/spaced_repetition"
	"github.com/example/flashbot/pkg/models"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Saver persists progress records. Saves are write-through: a failed
// save is reported but never rolls back in-memory state.
type Saver interface {
	SaveProgress(record *models.ProgressRecord) error
}

// sessionAnswer is the current answer for a card within the session.
// A newer answer fully replaces an older one.
type sessionAnswer struct {
	correct    bool
	difficulty models.Difficulty
}

// Engine drives one study session at a time over a selected, ordered
// card set. Not safe for concurrent use; callers serialize access.
type Engine struct {
	scheduler *spaced_repetition.SM2
	store     Saver
	progress  models.ProgressMap

	state     State
	mode      models.StudyMode
	cards     []models.Card
	index     int
	answers   map[int]sessionAnswer
	startedAt time.Time
	correct   int
	incorrect int

	// todayStudied counts cards answered for the first time today,
	// across sessions. todayDate is the day it belongs to; the count
	// resets when the clock crosses into a new day.
	todayStudied int
	todayDate    string

	// Now is the clock used for "today" and elapsed time; injectable
	// for tests.
	Now func() time.Time
}

// NewEngine creates an idle engine over the shared progress store.
func NewEngine(scheduler *spaced_repetition.SM2, store Saver, progress models.ProgressMap) *Engine {
	return &Engine{
		scheduler: scheduler,
		store:     store,
		progress:  progress,
		state:     StateIdle,
		Now:       time.Now,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Mode returns the mode the active session was started with.
func (e *Engine) Mode() models.StudyMode { return e.mode }

// Progress returns the shared progress store the engine writes into.
func (e *Engine) Progress() models.ProgressMap { return e.progress }

// TodayStudyCount returns how many distinct cards received their first
// session answer today.
func (e *Engine) TodayStudyCount() int {
	if e.todayDate != models.DateOf(e.Now()) {
		return 0
	}
	return e.todayStudied
}

// Start begins a session over the given cards. Returns
// ErrEmptySelection when cards is empty; the session stays idle.
func (e *Engine) Start(mode models.StudyMode, cards []models.Card) error {
	if e.state != StateIdle {
		return &InvalidStateError{Op: "Start", State: e.state}
	}
	if len(cards) == 0 {
		return ErrEmptySelection
	}
	e.mode = mode
	e.cards = cards
	e.index = 0
	e.answers = make(map[int]sessionAnswer)
	e.startedAt = e.Now()
	e.correct = 0
	e.incorrect = 0
	e.state = StateActive
	return nil
}

// Current returns the card under the session pointer.
func (e *Engine) Current() (models.Card, error) {
	if e.state != StateActive {
		return models.Card{}, &InvalidStateError{Op: "Current", State: e.state}
	}
	return e.cards[e.index], nil
}

// Index returns the 0-based position of the current card.
func (e *Engine) Index() int { return e.index }

// Len returns how many cards the session holds.
func (e *Engine) Len() int { return len(e.cards) }

// Answer records a grading for the current card: it reverses any prior
// answer for the card in this session, applies the new one, reschedules
// the card and writes the record through to the store. The in-memory
// update is atomic; a failed save is logged and does not roll it back.
func (e *Engine) Answer(difficulty models.Difficulty) error {
	if e.state != StateActive {
		return &InvalidStateError{Op: "Answer", State: e.state}
	}

	card := e.cards[e.index]
	prog := e.progress.Get(card.ID)
	if prog == nil {
		prog = models.NewProgressRecord(card.ID)
	}

	// Validate and schedule against a copy first so no partial update
	// is observable if the input is bad.
	next := *prog
	next.LastStudyDate = models.DateOf(e.Now())
	next.LastDifficulty = difficulty

	prev, reanswer := e.answers[card.ID]
	if reanswer {
		// Cancel the statistical effect of the earlier answer.
		if prev.correct {
			next.CorrectCount = saturatingDec(next.CorrectCount)
			next.Streak = saturatingDec(next.Streak)
		} else {
			next.IncorrectCount = saturatingDec(next.IncorrectCount)
		}
	}

	if difficulty.Correct() {
		next.CorrectCount++
		next.Streak++
	} else {
		next.IncorrectCount++
		next.Streak = 0
	}

	next, err := e.scheduler.Schedule(next, difficulty)
	if err != nil {
		return err
	}

	// Commit: counters, answer log and store update together.
	if reanswer {
		if prev.correct {
			e.correct = saturatingDec(e.correct)
		} else {
			e.incorrect = saturatingDec(e.incorrect)
		}
	} else {
		if e.todayDate != next.LastStudyDate {
			e.todayDate = next.LastStudyDate
			e.todayStudied = 0
		}
		e.todayStudied++
	}
	if difficulty.Correct() {
		e.correct++
	} else {
		e.incorrect++
	}
	e.answers[card.ID] = sessionAnswer{correct: difficulty.Correct(), difficulty: difficulty}

	*prog = next
	e.progress[card.ID] = prog
	e.persist(prog)
	return nil
}

// Advance moves the pointer to the next card. Moving past the last
// card finishes the session.
func (e *Engine) Advance() error {
	if e.state != StateActive {
		return &InvalidStateError{Op: "Advance", State: e.state}
	}
	if e.index+1 >= len(e.cards) {
		e.state = StateFinished
		return nil
	}
	e.index++
	return nil
}

// Retreat moves the pointer back one card; a no-op at the first card.
func (e *Engine) Retreat() error {
	if e.state != StateActive {
		return &InvalidStateError{Op: "Retreat", State: e.state}
	}
	if e.index > 0 {
		e.index--
	}
	return nil
}

// Finish explicitly ends the session and returns its summary.
func (e *Engine) Finish() (models.SessionSummary, error) {
	if e.state != StateActive {
		return models.SessionSummary{}, &InvalidStateError{Op: "Finish", State: e.state}
	}
	e.state = StateFinished
	return e.summary(), nil
}

// Summary returns the frozen counters of a finished session.
func (e *Engine) Summary() (models.SessionSummary, error) {
	if e.state != StateFinished {
		return models.SessionSummary{}, &InvalidStateError{Op: "Summary", State: e.state}
	}
	return e.summary(), nil
}

func (e *Engine) summary() models.SessionSummary {
	total := e.correct + e.incorrect
	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(float64(e.correct) / float64(total) * 100))
	}
	return models.SessionSummary{
		Correct:        e.correct,
		Incorrect:      e.incorrect,
		Accuracy:       accuracy,
		ElapsedSeconds: int(e.Now().Sub(e.startedAt).Seconds()),
	}
}

// Exit discards the session state. Progress already written to the
// store stays written.
func (e *Engine) Exit() error {
	if e.state == StateIdle {
		return &InvalidStateError{Op: "Exit", State: e.state}
	}
	e.mode = ""
	e.cards = nil
	e.index = 0
	e.answers = nil
	e.startedAt = time.Time{}
	e.correct = 0
	e.incorrect = 0
	e.state = StateIdle
	return nil
}

// ToggleFavorite flips the favorite flag on the current card and writes
// it through. Independent of the scheduler.
func (e *Engine) ToggleFavorite() error {
	return e.toggle("ToggleFavorite", func(p *models.ProgressRecord) { p.Favorite = !p.Favorite })
}

// TogglePassed flips the passed flag on the current card and writes it
// through. A passed card is excluded from review selection.
func (e *Engine) TogglePassed() error {
	return e.toggle("TogglePassed", func(p *models.ProgressRecord) { p.Passed = !p.Passed })
}

func (e *Engine) toggle(op string, apply func(*models.ProgressRecord)) error {
	if e.state != StateActive {
		return &InvalidStateError{Op: op, State: e.state}
	}
	card := e.cards[e.index]
	prog := e.progress.Get(card.ID)
	if prog == nil {
		prog = models.NewProgressRecord(card.ID)
		e.progress[card.ID] = prog
	}
	apply(prog)
	e.persist(prog)
	return nil
}

// persist writes a record through to the store. Failures are reported
// and swallowed: the session continues on the updated in-memory state.
func (e *Engine) persist(prog *models.ProgressRecord) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveProgress(prog); err != nil {
		log.Printf("Failed to save progress for card %d: %v", prog.CardID, err)
	}
}

func saturatingDec(v int) int {
	if v <= 0 {
		return 0
	}
	return v - 1
}
