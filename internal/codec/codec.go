// Package codec turns session commands into frames and frames into validated
// notifications. Anything that fails validation is reported as not ok and must
// be dropped by the caller.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

var ErrInvalidPick = errors.New("invalid pick command")

type Kind int

const (
	KindState Kind = iota + 1
	KindPickAccepted
	KindRoundAdvanced
	KindDraftCompleted
	KindSeatOccupied
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return types.TypeState
	case KindPickAccepted:
		return types.TypePickAccepted
	case KindRoundAdvanced:
		return types.TypeRoundAdvanced
	case KindDraftCompleted:
		return types.TypeDraftCompleted
	case KindSeatOccupied:
		return types.TypeSeatOccupied
	case KindError:
		return types.TypeError
	default:
		return "unknown"
	}
}

// Notification is a decoded server frame. Snapshot is set for state and
// pick_accepted, and for draft_completed when the server attached one.
type Notification struct {
	Kind     Kind
	Snapshot *types.Snapshot
	PackNo   int
	PickNo   int
	Message  string
	Redirect string
}

var stateFrame = []byte(`{"type":"state"}`)

// EncodeState returns the resync request frame.
func EncodeState() []byte {
	out := make([]byte, len(stateFrame))
	copy(out, stateFrame)
	return out
}

func EncodePick(cmd types.PickCommand) ([]byte, error) {
	if cmd.Seq < 0 || cmd.PackID == "" || cmd.CardName == "" {
		return nil, fmt.Errorf("%w: seq=%d pack=%q card=%q", ErrInvalidPick, cmd.Seq, cmd.PackID, cmd.CardName)
	}
	return json.Marshal(types.ClientMessage{
		Type:     types.TypePick,
		Seq:      cmd.Seq,
		PackID:   cmd.PackID,
		CardName: cmd.CardName,
	})
}

// Decode parses a server frame. ok is false for garbled, partial or unknown frames.
func Decode(data []byte) (Notification, bool) {
	var m types.ServerMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return Notification{}, false
	}

	switch m.Type {
	case types.TypeState, types.TypePickAccepted:
		if !ValidSnapshot(m.State) {
			return Notification{}, false
		}
		kind := KindState
		if m.Type == types.TypePickAccepted {
			kind = KindPickAccepted
		}
		return Notification{Kind: kind, Snapshot: m.State}, true

	case types.TypeRoundAdvanced:
		if m.PackNo == nil || m.PickNo == nil || *m.PackNo < 0 || *m.PickNo < 0 {
			return Notification{}, false
		}
		return Notification{Kind: KindRoundAdvanced, PackNo: *m.PackNo, PickNo: *m.PickNo}, true

	case types.TypeDraftCompleted:
		n := Notification{Kind: KindDraftCompleted}
		// A malformed attached state only loses the snapshot, not the completion.
		if m.State != nil && ValidSnapshot(m.State) {
			n.Snapshot = m.State
		}
		return n, true

	case types.TypeSeatOccupied:
		return Notification{Kind: KindSeatOccupied, Message: m.Message, Redirect: m.Redirect}, true

	case types.TypeError:
		return Notification{Kind: KindError, Message: m.Message}, true

	default:
		return Notification{}, false
	}
}

func ValidSnapshot(s *types.Snapshot) bool {
	if s == nil {
		return false
	}
	if s.PackNo < 0 || s.PickNo < 0 || s.NextSeq < 0 {
		return false
	}
	if s.State != types.DraftActive && s.State != types.DraftDone {
		return false
	}
	if s.ActivePack != nil {
		if s.ActivePack.PackID == "" {
			return false
		}
		for _, c := range s.ActivePack.Cards {
			if c == "" {
				return false
			}
		}
	}
	return true
}
