package codec

import (
	"encoding/json"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

// DecodeClient parses a client frame on the server side.
func DecodeClient(data []byte) (types.ClientMessage, bool) {
	var m types.ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return types.ClientMessage{}, false
	}
	switch m.Type {
	case types.TypeState:
		return types.ClientMessage{Type: types.TypeState}, true
	case types.TypePick:
		if m.Seq < 0 || m.PackID == "" || m.CardName == "" {
			return types.ClientMessage{}, false
		}
		return m, true
	default:
		return types.ClientMessage{}, false
	}
}

func EncodeServer(m types.ServerMessage) []byte {
	// ServerMessage holds only strings, ints and slices; Marshal cannot fail.
	payload, _ := json.Marshal(m)
	return payload
}

func StateMessage(s types.Snapshot) types.ServerMessage {
	return types.ServerMessage{Type: types.TypeState, State: &s}
}

func ErrorMessage(msg string) types.ServerMessage {
	return types.ServerMessage{Type: types.TypeError, Message: msg}
}
