package replay

import (
	"encoding/base64"
	"fmt"

	"war-lite/card"
	"war-lite/codec"
	"war-lite/war"
)

const (
	tapeVersion   = 1
	defaultGameID = "replay_local"
	defaultSeed   = 1
)

// GenerateReplayTape plays the game described by spec to the end. The same
// spec always yields the same tape.
func GenerateReplayTape(spec GameSpec) (*ReplayTape, error) {
	cfg, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	game, err := war.NewGame(cfg)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	builder := newTapeBuilder(defaultGameID)
	if err := builder.push(codec.TypeGameStart, codec.GameStartPayload(game.Snapshot())); err != nil {
		return nil, err
	}

	var (
		step    int32
		pushErr error
	)
	res, err := game.PlayToEnd(func(rd war.Round) {
		if pushErr == nil {
			pushErr = builder.push(codec.TypeRound, codec.RoundPayload(rd))
		}
		step++
	})
	if err != nil {
		return nil, &ReplayError{StepIndex: step, Reason: "play_failed", Message: err.Error()}
	}
	if pushErr != nil {
		return nil, pushErr
	}
	if err := builder.push(codec.TypeGameEnd, codec.GameEndPayload(res)); err != nil {
		return nil, err
	}

	return &ReplayTape{
		TapeVersion: tapeVersion,
		GameID:      defaultGameID,
		Events:      builder.events,
	}, nil
}

func normalizeSpec(spec GameSpec) (war.Config, error) {
	cfg := war.Config{
		Seed:        spec.Seed,
		MaxRounds:   spec.MaxRounds,
		WarFaceDown: spec.WarFaceDown,
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	if spec.MaxRounds < 0 {
		return cfg, &ReplayError{StepIndex: -1, Reason: "invalid_max_rounds", Message: "max_rounds must be >= 0"}
	}
	if len(spec.Deck) > 0 {
		deck, err := card.ParseCards(spec.Deck)
		if err != nil {
			return cfg, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: err.Error()}
		}
		if !deck.IsFullDeck() {
			return cfg, &ReplayError{
				StepIndex: -1,
				Reason:    "invalid_deck",
				Message:   fmt.Sprintf("deck must list 52 unique cards, got %d", len(deck)),
			}
		}
		cfg.Deck = deck
	}
	return cfg, nil
}

type tapeBuilder struct {
	gameID string
	seq    uint64
	events []ReplayEvent
}

func newTapeBuilder(gameID string) *tapeBuilder {
	return &tapeBuilder{
		gameID: gameID,
		events: make([]ReplayEvent, 0, 64),
	}
}

func (b *tapeBuilder) push(eventType string, payload map[string]any) error {
	b.seq++
	bin, err := codec.Encode(codec.Envelope{
		GameID:     b.gameID,
		Seq:        b.seq,
		Type:       eventType,
		ServerTsMs: int64(b.seq),
		Payload:    payload,
	})
	if err != nil {
		return &ReplayError{StepIndex: int32(b.seq), Reason: "encode_failed", Message: err.Error()}
	}
	b.events = append(b.events, ReplayEvent{
		Type:        eventType,
		Seq:         b.seq,
		Value:       payload,
		EnvelopeB64: base64.StdEncoding.EncodeToString(bin),
	})
	return nil
}
