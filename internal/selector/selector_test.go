package selector

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/pkg/models"
)

const today = "2026-01-15"

func makeCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{ID: i + 1, Fields: models.FieldMap{"Front": "f"}}
	}
	return cards
}

func cardIDs(cards []models.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func answered(cardID, correct, incorrect int) *models.ProgressRecord {
	p := models.NewProgressRecord(cardID)
	p.CorrectCount = correct
	p.IncorrectCount = incorrect
	return p
}

func due(cardID int, date string) *models.ProgressRecord {
	p := answered(cardID, 1, 0)
	p.NextReviewDate = date
	return p
}

func TestForModeNewCap(t *testing.T) {
	cards := makeCards(25)
	settings := config.NewSettings(nil)

	got := ForMode(models.ModeNew, cards, models.ProgressMap{}, settings, today)
	if len(got) != config.DefaultNewCardsPerDay {
		t.Fatalf("new selection returned %d cards, want %d", len(got), config.DefaultNewCardsPerDay)
	}
	// Stable card order: the first 20 by ID
	for i, c := range got {
		if c.ID != i+1 {
			t.Fatalf("card %d has ID %d, want %d", i, c.ID, i+1)
		}
	}
}

func TestForModeNewCustomCap(t *testing.T) {
	cards := makeCards(25)
	settings := config.NewSettings(map[string]string{"newCardsPerDay": "5"})

	got := ForMode(models.ModeNew, cards, models.ProgressMap{}, settings, today)
	if len(got) != 5 {
		t.Fatalf("new selection returned %d cards, want 5", len(got))
	}
}

func TestForModeNewSkipsAnsweredCards(t *testing.T) {
	cards := makeCards(3)
	progress := models.ProgressMap{
		1: answered(1, 1, 0),
		2: answered(2, 0, 0), // zero counts still counts as new
	}

	got := ForMode(models.ModeNew, cards, progress, config.NewSettings(nil), today)
	if want := []int{2, 3}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("new selection = %v, want %v", cardIDs(got), want)
	}
}

func TestForModeReviewDueBoundary(t *testing.T) {
	cards := makeCards(4)
	progress := models.ProgressMap{
		1: due(1, "2026-01-15"), // today: due
		2: due(2, "2026-01-16"), // tomorrow: not due
		3: due(3, "2026-01-01"), // overdue: due
	}

	got := ForMode(models.ModeReview, cards, progress, config.NewSettings(nil), today)
	if want := []int{1, 3}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("review selection = %v, want %v", cardIDs(got), want)
	}
}

func TestForModeReviewExcludesPassed(t *testing.T) {
	cards := makeCards(2)
	passed := due(1, "2026-01-01")
	passed.Passed = true
	progress := models.ProgressMap{
		1: passed,
		2: due(2, "2026-01-01"),
	}

	got := ForMode(models.ModeReview, cards, progress, config.NewSettings(nil), today)
	if want := []int{2}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("review selection = %v, want %v", cardIDs(got), want)
	}
}

func TestForModeReviewHasNoCap(t *testing.T) {
	cards := makeCards(50)
	progress := models.ProgressMap{}
	for _, c := range cards {
		progress[c.ID] = due(c.ID, "2026-01-01")
	}

	got := ForMode(models.ModeReview, cards, progress, config.NewSettings(nil), today)
	if len(got) != 50 {
		t.Errorf("review selection returned %d cards, want all 50", len(got))
	}
}

func TestForModeAllReturnsCopy(t *testing.T) {
	cards := makeCards(3)
	got := ForMode(models.ModeAll, cards, models.ProgressMap{}, config.NewSettings(nil), today)
	if len(got) != 3 {
		t.Fatalf("all selection returned %d cards, want 3", len(got))
	}
	got[0].ID = 99
	if cards[0].ID != 1 {
		t.Error("mutating the selection leaked into the input card list")
	}
}

func TestFilteredDeckScope(t *testing.T) {
	cards := []models.Card{
		{ID: 1, DeckPath: "lang"},
		{ID: 2, DeckPath: "lang/verbs"},
		{ID: 3, DeckPath: "language"}, // prefix of the name, not of the path
		{ID: 4, DeckPath: ""},
	}

	got := Filtered(models.FilterCriteria{DeckPath: "lang"}, cards, models.ProgressMap{}, today)
	if want := []int{1, 2}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("deck filter = %v, want %v", cardIDs(got), want)
	}
}

func TestFilteredSliceBeforeModeFilter(t *testing.T) {
	cards := makeCards(10)
	progress := models.ProgressMap{
		3: due(3, "2026-01-01"),
		7: due(7, "2026-01-01"),
	}

	// Slice keeps cards 1-5; the review filter then sees card 3 only.
	// Card 7 is due but fell outside the slice.
	criteria := models.FilterCriteria{Mode: models.ModeReview, StartIndex: 1, Count: 5}
	got := Filtered(criteria, cards, progress, today)
	if want := []int{3}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("filtered selection = %v, want %v", cardIDs(got), want)
	}
}

func TestFilteredStartIndexOnly(t *testing.T) {
	cards := makeCards(5)
	got := Filtered(models.FilterCriteria{StartIndex: 3}, cards, models.ProgressMap{}, today)
	if want := []int{3, 4, 5}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("filtered selection = %v, want %v", cardIDs(got), want)
	}
}

func TestFilteredCountOnly(t *testing.T) {
	cards := makeCards(5)
	got := Filtered(models.FilterCriteria{Count: 2}, cards, models.ProgressMap{}, today)
	if want := []int{1, 2}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("filtered selection = %v, want %v", cardIDs(got), want)
	}
}

func TestFilteredStartIndexPastEnd(t *testing.T) {
	cards := makeCards(3)
	got := Filtered(models.FilterCriteria{StartIndex: 10}, cards, models.ProgressMap{}, today)
	if len(got) != 0 {
		t.Errorf("filtered selection = %v, want empty", cardIDs(got))
	}
}

func TestFilteredFavoriteAndNotPassed(t *testing.T) {
	cards := makeCards(4)
	fav := answered(1, 1, 0)
	fav.Favorite = true
	favPassed := answered(2, 1, 0)
	favPassed.Favorite = true
	favPassed.Passed = true
	progress := models.ProgressMap{1: fav, 2: favPassed, 3: answered(3, 1, 0)}

	got := Filtered(models.FilterCriteria{FavoriteOnly: true}, cards, progress, today)
	if want := []int{1, 2}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("favorite filter = %v, want %v", cardIDs(got), want)
	}

	got = Filtered(models.FilterCriteria{FavoriteOnly: true, NotPassedOnly: true}, cards, progress, today)
	if want := []int{1}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("favorite+not-passed filter = %v, want %v", cardIDs(got), want)
	}

	// Cards without progress pass the not-passed filter
	got = Filtered(models.FilterCriteria{NotPassedOnly: true}, cards, progress, today)
	if want := []int{1, 3, 4}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("not-passed filter = %v, want %v", cardIDs(got), want)
	}
}

func TestWeakPointsSelection(t *testing.T) {
	cards := makeCards(4)
	progress := models.ProgressMap{
		1: answered(1, 1, 4), // rate 0.8, included
		2: answered(2, 0, 1), // only 1 answer, excluded
		3: answered(3, 7, 3), // rate 0.3, included
		4: answered(4, 9, 1), // rate 0.1, excluded
	}

	got := WeakPoints(cards, progress)
	// Sorted by incorrect rate descending
	if want := []int{1, 3}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Errorf("weak points = %v, want %v", cardIDs(got), want)
	}
}

func TestWeakPointsCap(t *testing.T) {
	cards := makeCards(30)
	progress := models.ProgressMap{}
	for _, c := range cards {
		progress[c.ID] = answered(c.ID, 1, 4)
	}

	got := WeakPoints(cards, progress)
	if len(got) != weakPointLimit {
		t.Errorf("weak points returned %d cards, want cap %d", len(got), weakPointLimit)
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	cards := makeCards(20)
	before := cardIDs(cards)

	Shuffle(cards, rand.New(rand.NewSource(1)))
	if !reflect.DeepEqual(cardIDs(cards), before) {
		t.Error("Shuffle mutated the input card list")
	}
}

func TestShuffleKeepsAllCards(t *testing.T) {
	cards := makeCards(20)
	got := Shuffle(cards, rand.New(rand.NewSource(1)))

	if len(got) != len(cards) {
		t.Fatalf("shuffle returned %d cards, want %d", len(got), len(cards))
	}
	seen := make(map[int]bool)
	for _, c := range got {
		seen[c.ID] = true
	}
	for _, c := range cards {
		if !seen[c.ID] {
			t.Fatalf("card %d missing after shuffle", c.ID)
		}
	}
}
