package game

import (
	"strings"
	"time"
)

// Difficulty selects the round timer duration for a session.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps user input to a difficulty tier.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", ErrUnknownDifficulty
	}
}

// Settings holds the tuning knobs for the round loop and ability engine.
type Settings struct {
	EasyDuration   time.Duration
	MediumDuration time.Duration
	HardDuration   time.Duration
	GraceDuration  time.Duration

	CorrectPoints   int
	IncorrectPoints int
	MaxIncorrect    int

	MeterThreshold    int
	MeterTickAmount   int
	MeterTickInterval time.Duration
	CorrectMeterBonus int

	ExtendAmount   time.Duration
	CooldownAmount time.Duration
}

// DefaultSettings returns the stock game balance.
func DefaultSettings() Settings {
	return Settings{
		EasyDuration:      60 * time.Second,
		MediumDuration:    45 * time.Second,
		HardDuration:      20 * time.Second,
		GraceDuration:     10 * time.Second,
		CorrectPoints:     10,
		IncorrectPoints:   5,
		MaxIncorrect:      3,
		MeterThreshold:    100,
		MeterTickAmount:   15,
		MeterTickInterval: 5 * time.Second,
		CorrectMeterBonus: 20,
		ExtendAmount:      10 * time.Second,
		CooldownAmount:    5 * time.Second,
	}
}

// RoundDuration resolves the round timer total for a difficulty tier.
func (s Settings) RoundDuration(d Difficulty) (time.Duration, error) {
	switch d {
	case DifficultyEasy:
		return s.EasyDuration, nil
	case DifficultyMedium:
		return s.MediumDuration, nil
	case DifficultyHard:
		return s.HardDuration, nil
	default:
		return 0, ErrUnknownDifficulty
	}
}
