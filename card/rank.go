package card

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRank = errors.New("invalid rank")

// Rank 点数
//
// The numeric value is the ranking used in War: two=2 ... ace=14.
type Rank byte

const RankInvalid Rank = 0

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from lowest to highest.
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankLabels = [...]string{
	Two:   "two",
	Three: "three",
	Four:  "four",
	Five:  "five",
	Six:   "six",
	Seven: "seven",
	Eight: "eight",
	Nine:  "nine",
	Ten:   "ten",
	Jack:  "jack",
	Queen: "queen",
	King:  "king",
	Ace:   "ace",
}

func (r Rank) Valid() bool { return r >= Two && r <= Ace }

// Ranking is the War strength of the rank, independent of suit.
func (r Rank) Ranking() int {
	if !r.Valid() {
		return 0
	}
	return int(r)
}

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankLabels[r]
}

// short is the rank part of short card notation (2..9, T, J, Q, K, A).
func (r Rank) short() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	if r.Valid() {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// ParseRank accepts a rank label such as "jack" or "two".
func ParseRank(raw string) (Rank, error) {
	label := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range Ranks {
		if rankLabels[r] == label {
			return r, nil
		}
	}
	return RankInvalid, fmt.Errorf("%w: %q", ErrInvalidRank, raw)
}
