package replay

type GameSpec struct {
	Seed        int64    `json:"seed"`
	Deck        []string `json:"deck,omitempty"`
	MaxRounds   int      `json:"max_rounds,omitempty"`
	WarFaceDown int      `json:"war_face_down,omitempty"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	GameID      string        `json:"game_id"`
	Events      []ReplayEvent `json:"events"`
}

type ReplayEvent struct {
	Type        string         `json:"type"`
	Seq         uint64         `json:"seq"`
	Value       map[string]any `json:"value,omitempty"`
	EnvelopeB64 string         `json:"envelope_b64,omitempty"`
}
