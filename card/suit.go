package card

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSuit = errors.New("invalid suit")

// Suit 花色
//
// The numeric value is the persisted code.
type Suit byte

const (
	SuitInvalid Suit = iota
	Diamond          // ♦️
	Club             // ♣️
	Heart            // ♥️
	Spade            // ♠️
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Diamond, Club, Heart, Spade}

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "diamond"
	case Club:
		return "club"
	case Heart:
		return "heart"
	case Spade:
		return "spade"
	}
	return "?"
}

func (s Suit) Symbol() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	}
	return "?"
}

// Code returns the value stored for the suit.
func (s Suit) Code() int { return int(s) }

func (s Suit) Valid() bool { return s >= Diamond && s <= Spade }

// letter is the single-character suit used in short card notation.
func (s Suit) letter() byte {
	switch s {
	case Diamond:
		return 'd'
	case Club:
		return 'c'
	case Heart:
		return 'h'
	case Spade:
		return 's'
	}
	return '?'
}

// ParseSuit accepts a suit label ("club", "Clubs") or its numeric code ("2").
func ParseSuit(raw string) (Suit, error) {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.TrimSuffix(label, "s")
	switch label {
	case "diamond", "1":
		return Diamond, nil
	case "club", "2":
		return Club, nil
	case "heart", "3":
		return Heart, nil
	case "spade", "4":
		return Spade, nil
	}
	return SuitInvalid, fmt.Errorf("%w: %q", ErrInvalidSuit, raw)
}

// SuitFromCode converts a persisted suit code back to a Suit.
func SuitFromCode(code int) (Suit, error) {
	s := Suit(code)
	if code < 0 || code > 0xFF || !s.Valid() {
		return SuitInvalid, fmt.Errorf("%w: code %d", ErrInvalidSuit, code)
	}
	return s, nil
}
