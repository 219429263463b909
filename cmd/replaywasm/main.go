//go:build js && wasm

// Command replaywasm exposes War replay generation to the browser as
// window.__warReplay(requestJSON) -> responseJSON.
package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"war-lite/replay"
)

type replayRequest struct {
	Spec replay.GameSpec `json:"spec"`
}

type replayResponse struct {
	OK    bool                   `json:"ok"`
	Tape  *replay.WireReplayTape `json:"tape,omitempty"`
	Error *replay.ReplayError    `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__warReplay", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 || args[0].Type() != js.TypeString {
			return encode(failure("invalid_request", "expected a JSON string argument"))
		}
		return encode(generate(args[0].String()))
	}))

	select {}
}

func generate(raw string) replayResponse {
	var req replayRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return failure("invalid_json", err.Error())
	}

	tape, err := replay.GenerateReplayTape(req.Spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return replayResponse{Error: replayErr}
		}
		return failure("replay_generation_failed", err.Error())
	}
	return replayResponse{OK: true, Tape: replay.ToWireReplayTape(tape)}
}

func failure(reason, msg string) replayResponse {
	return replayResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: reason, Message: msg}}
}

func encode(resp replayResponse) string {
	b, err := json.Marshal(resp)
	if err != nil {
		b, _ = json.Marshal(failure("marshal_failed", err.Error()))
	}
	return string(b)
}
