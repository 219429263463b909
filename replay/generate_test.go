package replay

import (
	"encoding/base64"
	"reflect"
	"testing"

	"war-lite/card"
	"war-lite/codec"
)

func TestGenerateReplayTape_IsDeterministic(t *testing.T) {
	spec := GameSpec{Seed: 42, MaxRounds: 500}

	tapeA, err := GenerateReplayTape(spec)
	if err != nil {
		t.Fatalf("GenerateReplayTape A failed: %v", err)
	}
	tapeB, err := GenerateReplayTape(spec)
	if err != nil {
		t.Fatalf("GenerateReplayTape B failed: %v", err)
	}

	if !reflect.DeepEqual(tapeA, tapeB) {
		t.Fatalf("expected deterministic replay tape for the same GameSpec")
	}
	if len(tapeA.Events) < 3 {
		t.Fatalf("expected start, round and end events, got %d", len(tapeA.Events))
	}
	if tapeA.Events[0].Type != codec.TypeGameStart {
		t.Fatalf("expected first event gameStart, got %s", tapeA.Events[0].Type)
	}
	last := tapeA.Events[len(tapeA.Events)-1]
	if last.Type != codec.TypeGameEnd {
		t.Fatalf("expected last event gameEnd, got %s", last.Type)
	}
	for i, e := range tapeA.Events {
		if e.Seq != uint64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, e.Seq)
		}
	}
}

func TestGenerateReplayTape_EnvelopesDecode(t *testing.T) {
	tape, err := GenerateReplayTape(GameSpec{Seed: 7, MaxRounds: 5})
	if err != nil {
		t.Fatalf("GenerateReplayTape failed: %v", err)
	}
	for _, e := range tape.Events {
		raw, err := base64.StdEncoding.DecodeString(e.EnvelopeB64)
		if err != nil {
			t.Fatalf("event %d: bad base64: %v", e.Seq, err)
		}
		env, err := codec.Decode(raw)
		if err != nil {
			t.Fatalf("event %d: decode failed: %v", e.Seq, err)
		}
		if env.Type != e.Type || env.Seq != e.Seq || env.GameID != tape.GameID {
			t.Fatalf("event %d: envelope header mismatch: %+v", e.Seq, env)
		}
	}
	wire := ToWireReplayTape(tape)
	if len(wire.Events) != len(tape.Events) || wire.GameID != tape.GameID {
		t.Fatalf("wire tape does not mirror tape")
	}
}

func TestGenerateReplayTape_FixedDeck(t *testing.T) {
	deck := card.Cards2strings(card.NewDeck())
	tape, err := GenerateReplayTape(GameSpec{Deck: deck, MaxRounds: 1})
	if err != nil {
		t.Fatalf("GenerateReplayTape failed: %v", err)
	}
	round := tape.Events[1]
	if round.Type != codec.TypeRound {
		t.Fatalf("expected round event, got %s", round.Type)
	}
	// suit-major deck deals 2d to a and 3d to b
	if round.Value["winner"] != "b" {
		t.Fatalf("expected side b to win the first flip, got %v", round.Value["winner"])
	}
}

func TestGenerateReplayTape_ReturnsReplayErrorOnBadDeck(t *testing.T) {
	_, err := GenerateReplayTape(GameSpec{Deck: []string{"As", "Zz"}})
	if err == nil {
		t.Fatalf("expected replay generation to fail on bad deck")
	}
	replayErr, ok := err.(*ReplayError)
	if !ok {
		t.Fatalf("expected ReplayError type, got %T", err)
	}
	if replayErr.Reason != "invalid_deck" {
		t.Fatalf("unexpected reason: %s", replayErr.Reason)
	}

	_, err = GenerateReplayTape(GameSpec{Deck: []string{"As", "Kd"}})
	if replayErr, ok := err.(*ReplayError); !ok || replayErr.Reason != "invalid_deck" {
		t.Fatalf("expected invalid_deck for short deck, got %v", err)
	}
}
