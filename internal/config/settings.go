package config

import (
	"strconv"
	"strings"

	"github.com/example/flashbot/pkg/models"
)

// Setting keys consumed by the scheduler and card selector.
const (
	KeyNewCardsPerDay   = "newCardsPerDay"
	KeyEasyMultiplier   = "easyMultiplier"
	KeyNormalMultiplier = "normalMultiplier"
	KeyHardMultiplier   = "hardMultiplier"
	KeyShuffleCards     = "shuffleCards"
)

// Defaults used when a setting is unset or not parseable.
const (
	DefaultNewCardsPerDay   = 20
	DefaultEasyMultiplier   = 1.5
	DefaultNormalMultiplier = 1.0
	DefaultHardMultiplier   = 0.5
	DefaultShuffleCards     = true
)

// Settings provides typed access to the stored key/value configuration.
// Values are kept as strings; unset or malformed values fall back to the
// documented defaults.
type Settings struct {
	values map[string]string
}

// NewSettings wraps a raw key/value map. A nil map yields all defaults.
func NewSettings(values map[string]string) *Settings {
	if values == nil {
		values = map[string]string{}
	}
	return &Settings{values: values}
}

// Set overrides a single value in memory.
func (s *Settings) Set(key, value string) {
	s.values[key] = value
}

// Number returns the setting parsed as a float, or def when the value
// is missing or not numeric.
func (s *Settings) Number(key string, def float64) float64 {
	raw, ok := s.values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return v
}

// Int returns the setting parsed as an integer, or def on failure.
func (s *Settings) Int(key string, def int) int {
	return int(s.Number(key, float64(def)))
}

// Bool returns the setting parsed as a boolean, or def on failure.
func (s *Settings) Bool(key string, def bool) bool {
	raw, ok := s.values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// NewCardsPerDay returns the daily cap on new cards.
func (s *Settings) NewCardsPerDay() int {
	return s.Int(KeyNewCardsPerDay, DefaultNewCardsPerDay)
}

// ShuffleCards reports whether study sessions shuffle their cards.
func (s *Settings) ShuffleCards() bool {
	return s.Bool(KeyShuffleCards, DefaultShuffleCards)
}

// Multiplier returns the interval multiplier for a difficulty grading.
func (s *Settings) Multiplier(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyEasy:
		return s.Number(KeyEasyMultiplier, DefaultEasyMultiplier)
	case models.DifficultyHard:
		return s.Number(KeyHardMultiplier, DefaultHardMultiplier)
	default:
		return s.Number(KeyNormalMultiplier, DefaultNormalMultiplier)
	}
}
