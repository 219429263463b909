// Package codec encodes War game events as protobuf envelopes. Payloads are
// carried in a google.protobuf.Struct so browser clients can decode them with
// the well-known types alone.
package codec

import (
	"encoding/base64"
	"fmt"

	"war-lite/card"
	"war-lite/war"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TypeGameStart = "gameStart"
	TypeRound     = "round"
	TypeGameEnd   = "gameEnd"
	TypeError     = "error"
)

// Envelope is the decoded form of one server message.
type Envelope struct {
	GameID     string
	Seq        uint64
	Type       string
	ServerTsMs int64
	Payload    map[string]any
}

var marshalOpts = proto.MarshalOptions{Deterministic: true}

// Encode serializes env. Map ordering is deterministic so equal envelopes
// produce equal bytes.
func Encode(env Envelope) ([]byte, error) {
	msg, err := toStruct(env)
	if err != nil {
		return nil, err
	}
	return marshalOpts.Marshal(msg)
}

func toStruct(env Envelope) (*structpb.Struct, error) {
	payload := env.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	msg, err := structpb.NewStruct(map[string]any{
		"game_id":      env.GameID,
		"seq":          float64(env.Seq),
		"type":         env.Type,
		"server_ts_ms": float64(env.ServerTsMs),
		"payload":      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", env.Type, err)
	}
	return msg, nil
}

func Decode(data []byte) (Envelope, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	fields := msg.GetFields()
	env := Envelope{
		GameID:     fields["game_id"].GetStringValue(),
		Seq:        uint64(fields["seq"].GetNumberValue()),
		Type:       fields["type"].GetStringValue(),
		ServerTsMs: int64(fields["server_ts_ms"].GetNumberValue()),
	}
	if p := fields["payload"].GetStructValue(); p != nil {
		env.Payload = p.AsMap()
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// GameStartPayload carries the dealt piles twice: as short card strings for
// display and as packed card bytes (base64 inside the Struct) for replay.
func GameStartPayload(snap war.Snapshot) map[string]any {
	return map[string]any{
		"pile_a":       len(snap.PileA),
		"pile_b":       len(snap.PileB),
		"deal_a":       stringsToValues(card.Cards2strings(snap.PileA)),
		"deal_b":       stringsToValues(card.Cards2strings(snap.PileB)),
		"deal_bytes_a": card.CardList(snap.PileA).CardsBytes(),
		"deal_bytes_b": card.CardList(snap.PileB).CardsBytes(),
	}
}

// DealFromPayload unpacks a "deal_bytes_*" field of a decoded gameStart payload.
func DealFromPayload(payload map[string]any, key string) (card.CardList, error) {
	raw, ok := payload[key].(string)
	if !ok {
		return nil, fmt.Errorf("payload field %q missing", key)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("payload field %q: %w", key, err)
	}
	out := make(card.CardList, 0, len(data))
	for _, b := range data {
		c := card.Card(b)
		if !c.Valid() {
			return nil, fmt.Errorf("payload field %q: invalid card 0x%02x", key, b)
		}
		out = append(out, c)
	}
	return out, nil
}

func stringsToValues(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func RoundPayload(rd war.Round) map[string]any {
	flips := make([]any, 0, len(rd.Flips))
	for _, f := range rd.Flips {
		flips = append(flips, map[string]any{
			"a":      cardToValue(f.A),
			"b":      cardToValue(f.B),
			"result": f.Result,
		})
	}
	return map[string]any{
		"round":     rd.Number,
		"flips":     flips,
		"face_down": rd.FaceDown,
		"wars":      rd.Wars(),
		"winner":    rd.Winner.String(),
		"won":       rd.Won,
		"forfeit":   rd.Forfeit,
		"pile_a":    rd.PileA,
		"pile_b":    rd.PileB,
		"game_over": rd.GameOver,
	}
}

func GameEndPayload(res war.Result) map[string]any {
	return map[string]any{
		"winner": res.Winner.String(),
		"rounds": res.Rounds,
		"wars":   res.Wars,
		"draw":   res.Draw(),
	}
}

func ErrorPayload(code int, msg string) map[string]any {
	return map[string]any{
		"code":    code,
		"message": msg,
	}
}

func cardToValue(c card.Card) map[string]any {
	return map[string]any{
		"card":    c.String(),
		"suit":    c.Suit().String(),
		"rank":    c.Rank().String(),
		"ranking": c.Ranking(),
	}
}
