package war

import (
	"fmt"

	"war-lite/card"
)

const (
	DefaultMaxRounds   = 10000
	DefaultWarFaceDown = 3
)

type Config struct {
	// Rounds before the game is declared a draw (0 => DefaultMaxRounds)
	MaxRounds int

	// Cards each side lays face down during a war (0 => DefaultWarFaceDown)
	WarFaceDown int

	// RNG seed (0 => time-based)
	Seed int64

	// Optional: fixed deck order, dealt without shuffling. Must be a full deck.
	Deck card.CardList
}

func (c Config) validate() error {
	if c.MaxRounds < 0 {
		return fmt.Errorf("MaxRounds must be >= 0")
	}
	if c.WarFaceDown < 0 {
		return fmt.Errorf("WarFaceDown must be >= 0")
	}
	if len(c.Deck) > 0 && !c.Deck.IsFullDeck() {
		return fmt.Errorf("deck override must hold 52 unique cards, got %d", len(c.Deck))
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.WarFaceDown == 0 {
		c.WarFaceDown = DefaultWarFaceDown
	}
	return c
}
