package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/pkg/models"
)

var t0 = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testScheduler(settings *config.Settings) *SM2 {
	if settings == nil {
		settings = config.NewSettings(nil)
	}
	sm := New(settings)
	sm.Now = func() time.Time { return t0 }
	return sm
}

func record(interval int, ease float64) models.ProgressRecord {
	return models.ProgressRecord{CardID: 1, EaseFactor: ease, Interval: interval}
}

func TestScheduleNormalOnFreshCard(t *testing.T) {
	sm := testScheduler(nil)

	got, err := sm.Schedule(record(1, 2.5), models.DifficultyNormal)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if !approx(got.EaseFactor, 2.36) {
		t.Errorf("ease factor = %v, want 2.36", got.EaseFactor)
	}
	if got.Interval != 1 {
		t.Errorf("interval = %d, want 1", got.Interval)
	}
	if got.NextReviewDate != "2026-01-16" {
		t.Errorf("next review date = %q, want 2026-01-16", got.NextReviewDate)
	}
}

func TestScheduleEasyGrowsInterval(t *testing.T) {
	sm := testScheduler(nil)

	got, err := sm.Schedule(record(6, 2.5), models.DifficultyEasy)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	// ease 2.5+0.1=2.6; round(6*2.6)=16; x1.5 -> 24
	if !approx(got.EaseFactor, 2.6) {
		t.Errorf("ease factor = %v, want 2.6", got.EaseFactor)
	}
	if got.Interval != 24 {
		t.Errorf("interval = %d, want 24", got.Interval)
	}
	if got.NextReviewDate != "2026-02-08" {
		t.Errorf("next review date = %q, want 2026-02-08", got.NextReviewDate)
	}
}

func TestScheduleHardResetsInterval(t *testing.T) {
	sm := testScheduler(nil)

	got, err := sm.Schedule(record(30, 2.5), models.DifficultyHard)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.Interval != 1 {
		t.Errorf("interval = %d, want 1", got.Interval)
	}
	// ease 2.5 + (0.1 - 5*(0.08+5*0.02)) = 1.7
	if !approx(got.EaseFactor, 1.7) {
		t.Errorf("ease factor = %v, want 1.7", got.EaseFactor)
	}
	if got.NextReviewDate != "2026-01-16" {
		t.Errorf("next review date = %q, want 2026-01-16", got.NextReviewDate)
	}
}

func TestScheduleSecondIntervalBecomesSix(t *testing.T) {
	sm := testScheduler(nil)

	got, err := sm.Schedule(record(2, 2.5), models.DifficultyNormal)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.Interval != 6 {
		t.Errorf("interval = %d, want 6", got.Interval)
	}
}

func TestScheduleEaseFactorFloor(t *testing.T) {
	sm := testScheduler(nil)

	prog := record(1, 1.3)
	for i := 0; i < 5; i++ {
		var err error
		prog, err = sm.Schedule(prog, models.DifficultyHard)
		if err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if prog.EaseFactor < 1.3 {
			t.Fatalf("ease factor dropped below floor: %v", prog.EaseFactor)
		}
	}
	if !approx(prog.EaseFactor, 1.3) {
		t.Errorf("ease factor = %v, want to settle at 1.3", prog.EaseFactor)
	}
}

func TestScheduleIntervalClamp(t *testing.T) {
	sm := testScheduler(nil)

	got, err := sm.Schedule(record(89, 2.5), models.DifficultyEasy)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.Interval != 90 {
		t.Errorf("interval = %d, want clamp at 90", got.Interval)
	}
}

func TestScheduleBounds(t *testing.T) {
	sm := testScheduler(nil)
	difficulties := []models.Difficulty{models.DifficultyEasy, models.DifficultyNormal, models.DifficultyHard}

	for interval := 1; interval <= 90; interval++ {
		for _, ease := range []float64{1.3, 1.5, 2.0, 2.5, 3.0} {
			for _, d := range difficulties {
				got, err := sm.Schedule(record(interval, ease), d)
				if err != nil {
					t.Fatalf("Schedule(interval=%d, ease=%v, %s): %v", interval, ease, d, err)
				}
				if got.Interval < 1 || got.Interval > 90 {
					t.Fatalf("interval %d out of [1,90] for interval=%d ease=%v %s", got.Interval, interval, ease, d)
				}
				if got.EaseFactor < 1.3 {
					t.Fatalf("ease factor %v below 1.3 for interval=%d ease=%v %s", got.EaseFactor, interval, ease, d)
				}
			}
		}
	}
}

func TestScheduleDeterministic(t *testing.T) {
	sm := testScheduler(nil)

	first, err := sm.Schedule(record(10, 2.1), models.DifficultyNormal)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	second, err := sm.Schedule(record(10, 2.1), models.DifficultyNormal)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if first != second {
		t.Errorf("same inputs gave different results: %+v vs %+v", first, second)
	}
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	sm := testScheduler(nil)

	prog := record(6, 2.5)
	if _, err := sm.Schedule(prog, models.DifficultyEasy); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if prog.Interval != 6 || prog.EaseFactor != 2.5 || prog.NextReviewDate != "" {
		t.Errorf("input record was mutated: %+v", prog)
	}
}

func TestScheduleCustomMultiplier(t *testing.T) {
	settings := config.NewSettings(map[string]string{"easyMultiplier": "2.0"})
	sm := testScheduler(settings)

	got, err := sm.Schedule(record(6, 2.5), models.DifficultyEasy)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	// round(6*2.6)=16; x2.0 -> 32
	if got.Interval != 32 {
		t.Errorf("interval = %d, want 32", got.Interval)
	}
}

func TestScheduleInvalidDifficulty(t *testing.T) {
	sm := testScheduler(nil)

	if _, err := sm.Schedule(record(1, 2.5), "impossible"); err == nil {
		t.Error("Schedule should reject an unknown difficulty")
	}
}

func TestScheduleNegativeCounts(t *testing.T) {
	sm := testScheduler(nil)

	prog := record(1, 2.5)
	prog.CorrectCount = -1
	if _, err := sm.Schedule(prog, models.DifficultyNormal); err == nil {
		t.Error("Schedule should reject negative counts")
	}
}
