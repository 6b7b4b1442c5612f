package view

import (
	"fmt"
	"io"
	"strings"
)

// Render writes m as plain text. Output depends only on m.
func Render(w io.Writer, m Model) error {
	var b strings.Builder
	if m.Status != "" {
		fmt.Fprintf(&b, "status: %s\n", m.Status)
	}

	switch m.Screen {
	case ScreenWaiting, ScreenNextPack, ScreenComplete:
		fmt.Fprintf(&b, "%s\n", m.Placeholder)
	case ScreenPack:
		fmt.Fprintf(&b, "pack %d, pick %d (%s)\n", m.PackNo+1, m.PickNo+1, m.PackID)
		for _, c := range m.Cards {
			mark := " "
			if c.Selected {
				mark = "x"
			}
			label := c.Name
			if c.Fallback != "" {
				label = c.Fallback
			}
			if c.Enabled {
				fmt.Fprintf(&b, "  %2d) [%s] %s\n", c.Index+1, mark, label)
			} else {
				fmt.Fprintf(&b, "  %2d)  -  %s\n", c.Index+1, label)
			}
		}
		switch {
		case m.Pending:
			b.WriteString("pick sent, waiting for server…\n")
		case m.ConfirmEnabled:
			b.WriteString("confirm to pick the marked card\n")
		case m.Interactive:
			b.WriteString("select a card\n")
		default:
			b.WriteString("picking disabled\n")
		}
	}

	if m.Screen != ScreenWaiting {
		fmt.Fprintf(&b, "pool (%d): %s\n", len(m.Pool), strings.Join(m.Pool, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
