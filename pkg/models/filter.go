package models

// StudyMode selects which cards a study session is built from.
type StudyMode string

const (
	// ModeAll studies every card regardless of schedule.
	ModeAll StudyMode = "all"
	// ModeNew studies cards with no recorded answers, capped by the
	// newCardsPerDay setting.
	ModeNew StudyMode = "new"
	// ModeReview studies cards whose next review date has arrived.
	ModeReview StudyMode = "review"
	// ModeWeakPoint studies cards with a high incorrect rate.
	ModeWeakPoint StudyMode = "weak"
	// ModeFiltered studies a custom-filtered selection.
	ModeFiltered StudyMode = "filtered"
)

// FilterCriteria describes a custom card selection. The zero value
// selects every card in original order.
type FilterCriteria struct {
	// DeckPath restricts cards to a deck and its subdecks; empty means
	// all decks.
	DeckPath string
	// Mode applies the all/new/review filter after slicing.
	Mode StudyMode
	// StartIndex is a 1-based position into the deck-filtered, ordered
	// card list; 0 means unset.
	StartIndex int
	// Count limits how many cards the slice keeps; 0 means unset.
	Count int
	// FavoriteOnly keeps only favorited cards.
	FavoriteOnly bool
	// NotPassedOnly drops cards marked passed.
	NotPassedOnly bool
	// Shuffle randomizes the final order.
	Shuffle bool
}
