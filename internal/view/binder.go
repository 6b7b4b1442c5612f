package view

import (
	"strings"

	"github.com/DoyleJ11/cube-draft/internal/store"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

// Binder routes gestures into the store. Render is called after every state
// change; Dispatch hands a pick to the transport side.
type Binder struct {
	Store    *store.Store
	Render   func()
	Dispatch func(types.PickCommand) bool
}

func (b *Binder) Select(i int) bool {
	if !b.Store.Select(i) {
		return false
	}
	b.Render()
	return true
}

// SelectByName selects an exact folded match, or else the only card whose
// folded name starts with name.
func (b *Binder) SelectByName(name string) bool {
	snap := b.Store.Snapshot()
	if !snap.HasPack() {
		return false
	}
	want := FoldName(name)
	if want == "" {
		return false
	}
	prefix := -1
	for i, card := range snap.ActivePack.Cards {
		got := FoldName(card)
		if got == want {
			return b.Select(i)
		}
		if strings.HasPrefix(got, want) {
			if prefix == -1 {
				prefix = i
			} else {
				prefix = -2
			}
		}
	}
	if prefix < 0 {
		return false
	}
	return b.Select(prefix)
}

// Confirm disables the pick UI before the command leaves, so a second confirm
// finds the gate already latched. It reports whether the pick was handed to
// the transport.
func (b *Binder) Confirm() bool {
	cmd, ok := b.Store.BeginPick()
	if !ok {
		return false
	}
	b.Render()
	return b.Dispatch(cmd)
}
