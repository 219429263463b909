package card

import (
	"fmt"
	"strings"
)

// Card 牌
//
// 编码规则:
// - 高4位: 花色 (1:Diamond, 2:Club, 3:Heart, 4:Spade)
// - 低4位: 点数 (2..10, 11:J, 12:Q, 13:K, 14:A)
type Card byte

// New builds a card from its suit and rank. It returns CardInvalid when
// either part is out of range.
func New(s Suit, r Rank) Card {
	if !s.Valid() || !r.Valid() {
		return CardInvalid
	}
	return Card(byte(s)<<4 | byte(r))
}

func (c Card) Valid() bool {
	return c.Suit().Valid() && c.Rank().Valid()
}

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	if c == CardRear {
		return "Rear"
	}
	return c.Rank().short() + string(c.Suit().letter())
}

// Label renders the card the way pages show it, e.g. "jack of club".
func (c Card) Label() string {
	return fmt.Sprintf("%s of %s", c.Rank(), c.Suit())
}

// Rank 获取点数 2-14
func (c Card) Rank() Rank {
	if c == CardInvalid || c == CardRear {
		return RankInvalid
	}
	return Rank(c & 0x0F)
}

func (c Card) Suit() Suit {
	if c == CardRear {
		return SuitInvalid
	}
	return Suit(c >> 4)
}

// Ranking returns the War strength of the card, ignoring suit.
func (c Card) Ranking() int {
	return c.Rank().Ranking()
}

// WarResult compares c against other from c's point of view:
// -1 when c ranks lower, 0 on a tie (a war), 1 when c ranks higher.
func (c Card) WarResult(other Card) int {
	a, b := c.Ranking(), other.Ranking()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseCard 将字符串 (如 "As", "Td", "10h") 转换为 Card
func ParseCard(cardStr string) (Card, error) {
	cardStr = strings.TrimSpace(cardStr)
	if len(cardStr) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %s", cardStr)
	}

	var s Suit
	switch cardStr[len(cardStr)-1] {
	case 's', 'S':
		s = Spade
	case 'h', 'H':
		s = Heart
	case 'c', 'C':
		s = Club
	case 'd', 'D':
		s = Diamond
	default:
		return CardInvalid, fmt.Errorf("%w: %c", ErrInvalidSuit, cardStr[len(cardStr)-1])
	}

	rankStr := strings.ToUpper(cardStr[:len(cardStr)-1])
	var r Rank
	switch rankStr {
	case "A":
		r = Ace
	case "K":
		r = King
	case "Q":
		r = Queen
	case "J":
		r = Jack
	case "T", "10":
		r = Ten
	case "2", "3", "4", "5", "6", "7", "8", "9":
		r = Rank(rankStr[0] - '0')
	default:
		return CardInvalid, fmt.Errorf("%w: %s", ErrInvalidRank, rankStr)
	}

	return New(s, r), nil
}

// ParseCards parses a list of short card strings.
func ParseCards(raw []string) (CardList, error) {
	out := make(CardList, 0, len(raw))
	for _, s := range raw {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
