package types

import (
	"errors"
	"fmt"
)

var ErrEmptyRoom = errors.New("room id is empty")
var ErrNegativeSeat = errors.New("seat must be >= 0")

// DraftState is the server's coarse lifecycle marker.
type DraftState string

const (
	DraftActive DraftState = "active"
	DraftDone   DraftState = "done"
)

// Identity addresses one seat in one room. A controller is bound to exactly one.
type Identity struct {
	RoomID string
	Seat   int
}

func (id Identity) Validate() error {
	if id.RoomID == "" {
		return ErrEmptyRoom
	}
	if id.Seat < 0 {
		return fmt.Errorf("seat %d: %w", id.Seat, ErrNegativeSeat)
	}
	return nil
}

func (id Identity) String() string {
	return fmt.Sprintf("%s#%d", id.RoomID, id.Seat)
}

type ActivePack struct {
	PackID string   `json:"pack_id"`
	Cards  []string `json:"cards"`
}

// Snapshot is the complete server-asserted draft state for one seat. Clients
// replace it wholesale; it is never merged.
type Snapshot struct {
	PackNo     int         `json:"pack_no"`
	PickNo     int         `json:"pick_no"`
	ActivePack *ActivePack `json:"active_pack"`
	Pool       []string    `json:"pool"`
	CanPick    bool        `json:"can_pick"`
	NextSeq    int         `json:"next_seq"`
	State      DraftState  `json:"state"`
}

// HasPack reports whether a non-empty pack is on offer.
func (s *Snapshot) HasPack() bool {
	return s != nil && s.ActivePack != nil && len(s.ActivePack.Cards) > 0
}

// PackID returns the offered pack id or "" when none is offered.
func (s *Snapshot) PackID() string {
	if s == nil || s.ActivePack == nil {
		return ""
	}
	return s.ActivePack.PackID
}

// Clone returns a deep copy so cached snapshots never alias decoder buffers.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Pool = append([]string(nil), s.Pool...)
	if s.ActivePack != nil {
		c.ActivePack = &ActivePack{
			PackID: s.ActivePack.PackID,
			Cards:  append([]string(nil), s.ActivePack.Cards...),
		}
	}
	return &c
}
