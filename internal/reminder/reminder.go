package reminder

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/pkg/models"
	"github.com/go-co-op/gocron"
)

// Default hour window for sending reminders
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier interface for sending due-card reminders
type Notifier interface {
	SendDueReminder(count int) error
}

// Reminder manages the scheduled due-card check
type Reminder struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	progress  *database.ProgressRepository
}

// New creates a new reminder instance
func New(notifier Notifier) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		progress:  database.NewProgressRepository(),
	}
}

// Start begins the hourly due-card check
func (r *Reminder) Start() {
	r.scheduler.Every(1).Hour().Do(r.checkAndNotify)
	r.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// checkAndNotify counts due cards and notifies when inside the
// configured hour window
func (r *Reminder) checkAndNotify() {
	currentHour := time.Now().Hour()

	startHour := envHour("REMINDER_START_HOUR", DefaultStartHour)
	endHour := envHour("REMINDER_END_HOUR", DefaultEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping",
			currentHour, startHour, endHour)
		return
	}

	if err := r.RunManualCheck(); err != nil {
		log.Printf("Error running due-card check: %v", err)
	}
}

// RunManualCheck counts due cards now and sends a reminder when any
// are waiting
func (r *Reminder) RunManualCheck() error {
	today := models.DateOf(time.Now())
	count, err := r.progress.CountDue(today)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return r.notifier.SendDueReminder(count)
}

func envHour(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
		return h
	}
	return def
}
