package war

import "war-lite/card"

// Side identifies one of the two players.
type Side int8

const (
	SideNone Side = -1
	SideA    Side = 0
	SideB    Side = 1
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	}
	return "none"
}

func (s Side) other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Flip is one face-up comparison. Result is from side A's point of view.
type Flip struct {
	A      card.Card
	B      card.Card
	Result int
}

// Round is the outcome of one PlayRound call: the opening flip plus any wars
// it triggered.
type Round struct {
	Number   int
	Flips    []Flip
	FaceDown int // cards each side laid face down across the round's wars
	Winner   Side
	Won      int  // cards collected by the winner
	Forfeit  bool // loser could not finish a war
	PileA    int
	PileB    int
	GameOver bool
}

// Wars is the number of tied flips in this round.
func (r Round) Wars() int {
	n := 0
	for _, f := range r.Flips {
		if f.Result == 0 {
			n++
		}
	}
	return n
}

type Result struct {
	Winner Side // SideNone on a draw
	Rounds int
	Wars   int
}

func (r Result) Draw() bool { return r.Winner == SideNone }
