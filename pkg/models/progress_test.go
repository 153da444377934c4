package models

import (
	"testing"
	"time"
)

func TestDueOn(t *testing.T) {
	p := NewProgressRecord(1)
	if p.DueOn("2026-01-15") {
		t.Error("a never-scheduled card must not be due")
	}

	p.NextReviewDate = "2026-01-15"
	if !p.DueOn("2026-01-15") {
		t.Error("a card scheduled for today is due")
	}
	if p.DueOn("2026-01-14") {
		t.Error("a card scheduled for tomorrow is not due")
	}

	p.Passed = true
	if p.DueOn("2026-01-15") {
		t.Error("a passed card is never due")
	}
}

func TestIncorrectRate(t *testing.T) {
	p := NewProgressRecord(1)
	if got := p.IncorrectRate(); got != 0 {
		t.Errorf("rate = %v, want 0 for an unanswered card", got)
	}

	p.CorrectCount = 1
	p.IncorrectCount = 4
	if got := p.IncorrectRate(); got != 0.8 {
		t.Errorf("rate = %v, want 0.8", got)
	}
}

func TestInDeck(t *testing.T) {
	card := Card{ID: 1, DeckPath: "lang/verbs"}

	if !card.InDeck("") {
		t.Error("empty deck scope matches every card")
	}
	if !card.InDeck("lang") || !card.InDeck("lang/verbs") {
		t.Error("card must match its own deck and every ancestor")
	}
	if card.InDeck("lang/verb") {
		t.Error("deck matching is path-segment based, not plain prefix")
	}
}

func TestDateAfterDays(t *testing.T) {
	t0 := time.Date(2026, 1, 30, 23, 0, 0, 0, time.UTC)
	if got := DateAfterDays(t0, 3); got != "2026-02-02" {
		t.Errorf("DateAfterDays = %q, want 2026-02-02", got)
	}
	if got := DateOf(t0); got != "2026-01-30" {
		t.Errorf("DateOf = %q, want 2026-01-30", got)
	}
}

func TestFieldMapRoundTrip(t *testing.T) {
	fields := FieldMap{"Front": "cat", "Back": "feline"}

	value, err := fields.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var got FieldMap
	if err := got.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got["Front"] != "cat" || got["Back"] != "feline" {
		t.Errorf("round trip lost data: %v", got)
	}

	var empty FieldMap
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if empty == nil {
		t.Error("scanning NULL should yield an empty map, not nil")
	}
}
