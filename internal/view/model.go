// Package view turns session state into a complete view model on every call
// and binds user gestures back to the store. Build never looks at a previous
// render.
package view

import (
	"github.com/DoyleJ11/cube-draft/internal/store"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

type Screen int

const (
	ScreenWaiting Screen = iota
	ScreenPack
	ScreenNextPack
	ScreenComplete
)

const (
	PlaceholderWaiting  = "waiting for draft state…"
	PlaceholderNextPack = "waiting for next pack"
	PlaceholderComplete = "draft complete"
)

type Card struct {
	Index    int
	Name     string
	Image    string
	Fallback string
	Selected bool
	Enabled  bool
}

type Model struct {
	Screen         Screen
	Placeholder    string
	Status         string
	PackNo         int
	PickNo         int
	PackID         string
	Cards          []Card
	Pool           []string
	Pending        bool
	Interactive    bool
	ConfirmEnabled bool
}

type Input struct {
	Snapshot *types.Snapshot
	Local    store.Local
	Status     string
	Complete   bool
	Terminated bool
}

// Build is a pure function of its input.
func Build(in Input, images Images) Model {
	m := Model{Status: in.Status, Pending: in.Local.PendingPick}
	snap := in.Snapshot
	if snap == nil {
		m.Screen = ScreenWaiting
		m.Placeholder = PlaceholderWaiting
		if in.Complete {
			m.Screen = ScreenComplete
			m.Placeholder = PlaceholderComplete
		}
		return m
	}

	m.PackNo = snap.PackNo
	m.PickNo = snap.PickNo
	m.Pool = append([]string(nil), snap.Pool...)

	if in.Complete {
		m.Screen = ScreenComplete
		m.Placeholder = PlaceholderComplete
		return m
	}

	if !snap.HasPack() {
		if snap.State == types.DraftDone {
			m.Screen = ScreenComplete
			m.Placeholder = PlaceholderComplete
		} else {
			m.Screen = ScreenNextPack
			m.Placeholder = PlaceholderNextPack
		}
		return m
	}

	m.Screen = ScreenPack
	m.PackID = snap.ActivePack.PackID
	m.Interactive = snap.CanPick && !in.Local.PendingPick && !in.Terminated
	m.Cards = make([]Card, len(snap.ActivePack.Cards))
	for i, name := range snap.ActivePack.Cards {
		c := Card{
			Index:    i,
			Name:     name,
			Selected: i == in.Local.Selected,
			Enabled:  m.Interactive,
		}
		if url, ok := lookup(images, name); ok {
			c.Image = url
		} else {
			c.Fallback = "[" + name + "]"
		}
		m.Cards[i] = c
	}
	sel := in.Local.Selected
	m.ConfirmEnabled = m.Interactive && sel != store.NoSelection && sel < len(m.Cards)
	return m
}

func lookup(images Images, name string) (string, bool) {
	if images == nil {
		return "", false
	}
	return images.Lookup(name)
}
