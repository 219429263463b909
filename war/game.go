package war

import (
	"math/rand"
	"sync"
	"time"

	"war-lite/card"
)

type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	piles  [2]card.CardList
	round  int
	wars   int
	ended  bool
	winner Side
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		winner: SideNone,
	}
	g.deal()
	return g, nil
}

// deal splits the deck alternately between the two sides, 26 cards each.
func (g *Game) deal() {
	var deck card.CardList
	if len(g.cfg.Deck) > 0 {
		deck.Init(g.cfg.Deck)
	} else {
		deck = card.NewDeck()
		deck.Shuffle(g.rng)
	}
	g.piles[SideA] = make(card.CardList, 0, deck.Count())
	g.piles[SideB] = make(card.CardList, 0, deck.Count())
	for i, c := range deck {
		g.piles[Side(i%2)].Add(c)
	}
}

// PlayRound flips one card per side. The higher ranking takes both; on a tie
// each side lays WarFaceDown cards face down and flips again until the tie
// breaks. A side that cannot finish a war forfeits the game.
func (g *Game) PlayRound() (Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return Round{}, ErrGameOver
	}

	g.round++
	rd := Round{Number: g.round, Winner: SideNone}
	var pot [2]card.CardList

	for {
		if g.piles[SideA].Count() == 0 || g.piles[SideB].Count() == 0 {
			g.forfeitLocked(&rd, &pot)
			break
		}

		a := g.piles[SideA].PopCard()
		b := g.piles[SideB].PopCard()
		pot[SideA].Add(a)
		pot[SideB].Add(b)
		res := a.WarResult(b)
		rd.Flips = append(rd.Flips, Flip{A: a, B: b, Result: res})

		if res != 0 {
			rd.Winner = SideA
			if res < 0 {
				rd.Winner = SideB
			}
			g.collectLocked(&rd, rd.Winner, &pot)
			break
		}

		g.wars++
		// war needs WarFaceDown cards down plus one more to flip
		need := g.cfg.WarFaceDown + 1
		if g.piles[SideA].Count() < need || g.piles[SideB].Count() < need {
			g.forfeitLocked(&rd, &pot)
			break
		}
		downA, _ := g.piles[SideA].PopCards(g.cfg.WarFaceDown)
		downB, _ := g.piles[SideB].PopCards(g.cfg.WarFaceDown)
		pot[SideA].Add(downA...)
		pot[SideB].Add(downB...)
		rd.FaceDown += g.cfg.WarFaceDown
	}

	if !g.ended {
		switch {
		case g.piles[SideA].Count() == 0:
			g.finishLocked(SideB)
		case g.piles[SideB].Count() == 0:
			g.finishLocked(SideA)
		case g.round >= g.cfg.MaxRounds:
			g.finishLocked(SideNone)
		}
	}

	rd.PileA = g.piles[SideA].Count()
	rd.PileB = g.piles[SideB].Count()
	rd.GameOver = g.ended
	return rd, nil
}

// collectLocked moves the pot to the bottom of the winner's pile: the
// winner's cards first, each side in the order they were played.
func (g *Game) collectLocked(rd *Round, winner Side, pot *[2]card.CardList) {
	loser := winner.other()
	g.piles[winner].Add(pot[winner]...)
	g.piles[winner].Add(pot[loser]...)
	rd.Won = pot[winner].Count() + pot[loser].Count()
	pot[SideA], pot[SideB] = nil, nil
}

// forfeitLocked ends the game when a side cannot keep playing. The side
// holding more cards takes everything; equal stacks give the cards back and
// draw the game.
func (g *Game) forfeitLocked(rd *Round, pot *[2]card.CardList) {
	a := g.piles[SideA].Count()
	b := g.piles[SideB].Count()
	rd.Forfeit = true
	switch {
	case a > b:
		rd.Winner = SideA
	case b > a:
		rd.Winner = SideB
	default:
		g.piles[SideA].Add(pot[SideA]...)
		g.piles[SideB].Add(pot[SideB]...)
		g.finishLocked(SideNone)
		return
	}
	loser := rd.Winner.other()
	g.collectLocked(rd, rd.Winner, pot)
	rest, _ := g.piles[loser].PopCards(g.piles[loser].Count())
	g.piles[rd.Winner].Add(rest...)
	rd.Won += len(rest)
	g.finishLocked(rd.Winner)
}

func (g *Game) finishLocked(winner Side) {
	g.ended = true
	g.winner = winner
}

// PlayToEnd plays rounds until the game ends, calling onRound (if non-nil)
// after each one.
func (g *Game) PlayToEnd(onRound func(Round)) (Result, error) {
	for {
		rd, err := g.PlayRound()
		if err != nil {
			return Result{}, err
		}
		if onRound != nil {
			onRound(rd)
		}
		if rd.GameOver {
			return g.Result(), nil
		}
	}
}

// Result reports the outcome so far; Winner stays SideNone until the game ends.
func (g *Game) Result() Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Result{Winner: g.winner, Rounds: g.round, Wars: g.wars}
}

func (g *Game) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}
