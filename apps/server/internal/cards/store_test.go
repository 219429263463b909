package cards

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"war-lite/card"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestCreateDeckCount(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := CreateDeck(ctx, s); err != nil {
				t.Fatalf("CreateDeck failed: %v", err)
			}
			n, err := s.Count(ctx)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != 52 {
				t.Fatalf("expected 52 cards, got %d", n)
			}

			rows, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			got := make(card.CardList, 0, len(rows))
			for _, row := range rows {
				got = append(got, row.Card)
			}
			if !got.IsFullDeck() {
				t.Fatalf("expected every (suit, rank) pair exactly once")
			}
		})
	}
}

func TestCreateDeckIsAdditive(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 2; i++ {
				if err := CreateDeck(ctx, s); err != nil {
					t.Fatalf("CreateDeck failed: %v", err)
				}
			}
			if n, _ := s.Count(ctx); n != 104 {
				t.Fatalf("expected 104 cards after two decks, got %d", n)
			}
		})
	}
}

func TestEnsureDeckIsIdempotent(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := EnsureDeck(ctx, s)
			if err != nil || !created {
				t.Fatalf("expected first EnsureDeck to create, got created=%v err=%v", created, err)
			}
			created, err = EnsureDeck(ctx, s)
			if err != nil || created {
				t.Fatalf("expected second EnsureDeck to be a no-op, got created=%v err=%v", created, err)
			}
			if n, _ := s.Count(ctx); n != 52 {
				t.Fatalf("expected 52 cards, got %d", n)
			}
		})
	}
}

func TestCreateRoundTripsSuitAndRank(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			jack, err := s.Create(ctx, card.New(card.Club, card.Jack))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if jack.ID == 0 {
				t.Fatalf("expected store-assigned id")
			}
			if jack.Ranking() != 11 {
				t.Fatalf("expected jack ranking 11, got %d", jack.Ranking())
			}

			rows, err := s.List(ctx)
			if err != nil || len(rows) != 1 {
				t.Fatalf("expected one row, got %d (%v)", len(rows), err)
			}
			if rows[0].Suit() != card.Club || rows[0].Rank() != card.Jack || rows[0].ID != jack.ID {
				t.Fatalf("unexpected stored card: %+v", rows[0])
			}
		})
	}
}

func TestCreateRejectsInvalidCard(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Create(ctx, card.CardInvalid); !errors.Is(err, ErrInvalidCard) {
				t.Fatalf("expected ErrInvalidCard, got %v", err)
			}
			if err := s.CreateMany(ctx, []card.Card{card.CardClub2, card.CardRear}); !errors.Is(err, ErrInvalidCard) {
				t.Fatalf("expected ErrInvalidCard, got %v", err)
			}
			if n, _ := s.Count(ctx); n != 0 {
				t.Fatalf("expected nothing stored after rejected batch, got %d", n)
			}
		})
	}
}
