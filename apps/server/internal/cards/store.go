// Package cards persists playing cards and builds decks on top of a Store.
package cards

import (
	"context"
	"errors"
	"fmt"
	"log"

	"war-lite/card"
)

var ErrInvalidCard = errors.New("invalid card")

// StoredCard is a card row together with the ID its store assigned.
type StoredCard struct {
	ID int64
	card.Card
}

// Store is the card persistence contract consumed by pages and deck setup.
type Store interface {
	Create(ctx context.Context, c card.Card) (StoredCard, error)
	CreateMany(ctx context.Context, cs []card.Card) error
	List(ctx context.Context) ([]StoredCard, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// CreateDeck stores one card for every (suit, rank) pair. It does not look at
// what is already stored: calling it twice leaves 104 rows.
func CreateDeck(ctx context.Context, s Store) error {
	if err := s.CreateMany(ctx, card.NewDeck()); err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

// EnsureDeck creates a deck only when the store holds no cards.
func EnsureDeck(ctx context.Context, s Store) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count cards: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := CreateDeck(ctx, s); err != nil {
		return false, err
	}
	log.Printf("[Cards] Created a fresh deck of %d cards", card.NewDeck().Count())
	return true, nil
}

func validate(c card.Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidCard, byte(c))
	}
	return nil
}

// decodeRow rebuilds a card from its stored suit code and rank label.
func decodeRow(suitCode int, rankLabel string) (card.Card, error) {
	s, err := card.SuitFromCode(suitCode)
	if err != nil {
		return card.CardInvalid, err
	}
	r, err := card.ParseRank(rankLabel)
	if err != nil {
		return card.CardInvalid, err
	}
	return card.New(s, r), nil
}
