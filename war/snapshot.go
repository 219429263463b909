package war

import "war-lite/card"

type Snapshot struct {
	Round  int
	Wars   int
	Ended  bool
	Winner Side

	PileA []card.Card
	PileB []card.Card
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Snapshot{
		Round:  g.round,
		Wars:   g.wars,
		Ended:  g.ended,
		Winner: g.winner,
		PileA:  append([]card.Card{}, g.piles[SideA]...),
		PileB:  append([]card.Card{}, g.piles[SideB]...),
	}
}
