package card

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRanking_Jack(t *testing.T) {
	c := New(Club, Jack)
	if got := c.Ranking(); got != 11 {
		t.Fatalf("expected jack ranking 11, got %d", got)
	}
}

func TestRanking_StrictlyIncreasingTwoToAce(t *testing.T) {
	want := 2
	for _, r := range Ranks {
		if r.Ranking() != want {
			t.Fatalf("rank %s: expected ranking %d, got %d", r, want, r.Ranking())
		}
		want++
	}
	if Ace.Ranking() != 14 {
		t.Fatalf("expected ace ranking 14, got %d", Ace.Ranking())
	}
}

func TestRanking_IndependentOfSuit(t *testing.T) {
	for _, r := range Ranks {
		base := New(Diamond, r).Ranking()
		for _, s := range Suits {
			if got := New(s, r).Ranking(); got != base {
				t.Fatalf("%s of %s: expected ranking %d, got %d", r, s, base, got)
			}
		}
	}
}

func TestWarResult_Tie(t *testing.T) {
	five := New(Club, Five)
	five2 := New(Heart, Five)
	if got := five.WarResult(five2); got != 0 {
		t.Fatalf("expected tie, got %d", got)
	}
}

func TestWarResult_LossAndWin(t *testing.T) {
	four := New(Spade, Four)
	six := New(Spade, Six)
	if got := four.WarResult(six); got != -1 {
		t.Fatalf("expected four to lose against six, got %d", got)
	}
	if got := six.WarResult(four); got != 1 {
		t.Fatalf("expected six to beat four, got %d", got)
	}
}

func TestWarResult_Antisymmetric(t *testing.T) {
	deck := NewDeck()
	for _, a := range deck {
		for _, b := range deck {
			ab, ba := a.WarResult(b), b.WarResult(a)
			if a.Ranking() == b.Ranking() {
				if ab != 0 || ba != 0 {
					t.Fatalf("%s vs %s: expected tie both ways, got %d/%d", a, b, ab, ba)
				}
				continue
			}
			if ab != -ba {
				t.Fatalf("%s vs %s: expected opposite results, got %d/%d", a, b, ab, ba)
			}
		}
	}
}

func TestNewDeck_FiftyTwoUniqueCards(t *testing.T) {
	deck := NewDeck()
	if deck.Count() != 52 {
		t.Fatalf("expected 52 cards, got %d", deck.Count())
	}
	if !deck.IsFullDeck() {
		t.Fatalf("expected every (suit, rank) pair exactly once")
	}
	if deck[0] != CardDiamond2 || deck[51] != CardSpadeA {
		t.Fatalf("unexpected deck order: first=%s last=%s", deck[0], deck[51])
	}
}

func TestIsFullDeck_RejectsDuplicates(t *testing.T) {
	deck := NewDeck()
	deck[1] = deck[0]
	if deck.IsFullDeck() {
		t.Fatalf("expected duplicate card to be rejected")
	}
}

func TestParseCard(t *testing.T) {
	cases := []struct {
		in   string
		want Card
	}{
		{"As", CardSpadeA},
		{"Td", CardDiamondT},
		{"10h", CardHeartT},
		{"2c", CardClub2},
		{"qH", CardHeartQ},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.in)
		if err != nil {
			t.Fatalf("ParseCard(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCard(%q) = %s, want %s", tc.in, got, tc.want)
		}
		if back, _ := ParseCard(got.String()); back != got {
			t.Fatalf("String/ParseCard mismatch for %s", got)
		}
	}

	if _, err := ParseCard("1x"); !errors.Is(err, ErrInvalidSuit) {
		t.Fatalf("expected ErrInvalidSuit, got %v", err)
	}
	if _, err := ParseCard("1s"); !errors.Is(err, ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
}

func TestParseLabels(t *testing.T) {
	r, err := ParseRank("Jack")
	if err != nil || r != Jack {
		t.Fatalf("expected jack, got %v (%v)", r, err)
	}
	if _, err := ParseRank("joker"); !errors.Is(err, ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
	s, err := ParseSuit("clubs")
	if err != nil || s != Club {
		t.Fatalf("expected club, got %v (%v)", s, err)
	}
	if s, err := SuitFromCode(4); err != nil || s != Spade {
		t.Fatalf("expected spade for code 4, got %v (%v)", s, err)
	}
	if _, err := SuitFromCode(9); !errors.Is(err, ErrInvalidSuit) {
		t.Fatalf("expected ErrInvalidSuit, got %v", err)
	}
}

func TestCardListPop(t *testing.T) {
	var pile CardList
	pile.Init([]Card{CardClub2, CardHeartK, CardSpadeA})
	if c := pile.PopCard(); c != CardClub2 {
		t.Fatalf("expected top card 2c, got %s", c)
	}
	cards, ok := pile.PopCards(2)
	if !ok || len(cards) != 2 || pile.Count() != 0 {
		t.Fatalf("expected to pop remaining two cards, got %v ok=%v left=%d", cards, ok, pile.Count())
	}
	if _, ok := pile.PopCards(1); ok {
		t.Fatalf("expected pop from empty pile to fail")
	}
	if c := pile.PopCard(); c != CardInvalid {
		t.Fatalf("expected CardInvalid from empty pile, got %s", c)
	}
}

func TestShuffle_SeededIsDeterministic(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical shuffles, differ at %d: %s vs %s", i, a[i], b[i])
		}
	}
	if !a.IsFullDeck() {
		t.Fatalf("shuffle must keep a full deck")
	}
}
