package types

// Client -> Server
//   state: {}
//   pick:  seq, pack_id, card_name
//
// Server -> Client
//   state, pick_accepted: state (Snapshot)
//   round_advanced:       pack_no, pick_no
//   draft_completed:      state (optional)
//   seat_occupied:        message, redirect (optional)
//   error:                message

const (
	TypeState          = "state"
	TypePick           = "pick"
	TypePickAccepted   = "pick_accepted"
	TypeRoundAdvanced  = "round_advanced"
	TypeDraftCompleted = "draft_completed"
	TypeSeatOccupied   = "seat_occupied"
	TypeError          = "error"
)

type ClientMessage struct {
	Type     string `json:"type"`
	Seq      int    `json:"seq,omitempty"`
	PackID   string `json:"pack_id,omitempty"`
	CardName string `json:"card_name,omitempty"`
}

type ServerMessage struct {
	Type     string    `json:"type"`
	State    *Snapshot `json:"state,omitempty"`
	PackNo   *int      `json:"pack_no,omitempty"`
	PickNo   *int      `json:"pick_no,omitempty"`
	Message  string    `json:"message,omitempty"`
	Redirect string    `json:"redirect,omitempty"`
}

// PickCommand is the intent behind a pick frame.
type PickCommand struct {
	Seq      int
	PackID   string
	CardName string
}
