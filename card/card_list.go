package card

import "math/rand"

type CardList []Card

// NewDeck returns one card for every (suit, rank) pair: 52 cards in suit-major
// order, ranks ascending.
func NewDeck() CardList {
	deck := make(CardList, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, New(s, r))
		}
	}
	return deck
}

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) CardsBytes() []byte {
	return Cards2bytes(ds)
}

// Shuffle permutes the list using rng; a nil rng uses the global source.
func (ds CardList) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	}
	if rng == nil {
		rand.Shuffle(len(ds), swap)
		return
	}
	rng.Shuffle(len(ds), swap)
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// PopCard takes the top card (front of the list).
func (ds *CardList) PopCard() Card {
	if ds.Count() == 0 {
		return CardInvalid
	}
	c := (*ds)[0]
	*ds = (*ds)[1:]
	return c
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size < 0 || size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// IsFullDeck reports whether the list holds each of the 52 cards exactly once.
func (ds CardList) IsFullDeck() bool {
	if len(ds) != len(Suits)*len(Ranks) {
		return false
	}
	seen := make(map[Card]bool, len(ds))
	for _, c := range ds {
		if !c.Valid() || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
