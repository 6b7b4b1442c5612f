// Package store holds the last server snapshot for a seat alongside the
// client-only interaction state layered on top of it.
package store

import (
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

const NoSelection = -1

const StatusComplete = "draft complete"

// Local is the interaction state that never leaves the client.
type Local struct {
	Selected    int
	PendingPick bool
}

type Store struct {
	snapshot *types.Snapshot
	local    Local
	status   string
	complete bool
}

func New() *Store {
	return &Store{local: Local{Selected: NoSelection}}
}

func (s *Store) Snapshot() *types.Snapshot { return s.snapshot }
func (s *Store) Local() Local { return s.local }
func (s *Store) Status() string { return s.status }
func (s *Store) Complete() bool { return s.complete }

func (s *Store) SetStatus(status string) { s.status = status }

// Replace swaps in snap wholesale and releases the pick gate. The selection
// survives only while it still points into the same pack.
func (s *Store) Replace(snap *types.Snapshot) {
	prev := s.snapshot.PackID()
	s.snapshot = snap.Clone()
	s.local.PendingPick = false

	sel := s.local.Selected
	if sel == NoSelection {
		return
	}
	if s.snapshot.PackID() != prev || !s.snapshot.HasPack() || sel >= len(s.snapshot.ActivePack.Cards) {
		s.local.Selected = NoSelection
	}
}

// CanInteract reports whether pick controls are live. A completed draft
// never accepts picks, even if the last snapshot still shows a pack.
func (s *Store) CanInteract() bool {
	return !s.complete && s.snapshot.HasPack() && s.snapshot.CanPick && !s.local.PendingPick
}

func (s *Store) Select(i int) bool {
	if !s.CanInteract() || i < 0 || i >= len(s.snapshot.ActivePack.Cards) {
		return false
	}
	s.local.Selected = i
	return true
}

func (s *Store) ClearSelection() { s.local.Selected = NoSelection }

// BeginPick captures the selected card from the current snapshot, clears the
// selection and latches the pick gate, all in one step.
func (s *Store) BeginPick() (types.PickCommand, bool) {
	if !s.CanInteract() {
		return types.PickCommand{}, false
	}
	sel := s.local.Selected
	cards := s.snapshot.ActivePack.Cards
	if sel == NoSelection || sel >= len(cards) {
		return types.PickCommand{}, false
	}
	cmd := types.PickCommand{
		Seq:      s.snapshot.NextSeq,
		PackID:   s.snapshot.ActivePack.PackID,
		CardName: cards[sel],
	}
	s.local.Selected = NoSelection
	s.local.PendingPick = true
	return cmd, true
}

func (s *Store) ClearPending() { s.local.PendingPick = false }

// MarkComplete records the terminal draft_completed notification.
func (s *Store) MarkComplete() {
	s.complete = true
	s.local.PendingPick = false
	s.local.Selected = NoSelection
	s.status = StatusComplete
}
