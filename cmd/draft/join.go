package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/cube-draft/internal/metrics"
	"github.com/DoyleJ11/cube-draft/internal/session"
	"github.com/DoyleJ11/cube-draft/internal/transport"
	"github.com/DoyleJ11/cube-draft/internal/view"
)

func newJoinCmd(a *app) *cobra.Command {
	var noImages bool
	cmd := &cobra.Command{
		Use:   "join ROOM SEAT",
		Short: "Join a draft seat and pick cards interactively",
		Long: `Join a draft seat. Commands on stdin:
  select N | select NAME   choose a card by number or (prefix of) name
  confirm                  submit the selected card
  refresh                  ask the server for fresh state
  quit                     leave the draft`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seat, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("seat %q: %w", args[1], err)
			}
			var images view.Images
			if !noImages {
				images = view.Scryfall{}
			}
			return a.join(cmd.Context(), args[0], seat, images, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&noImages, "no-images", false, "skip card image lookup")
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	bind(a.v, cmd.Flags().Lookup("metrics-addr"), "metrics_addr")
	return cmd
}

func (a *app) join(ctx context.Context, room string, seat int, images view.Images, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mount := session.NewMount(session.Options{
		Opener:    &transport.WebSocket{BaseURL: a.cfg.ServerURL, Log: a.log},
		BaseDelay: a.cfg.Reconnect.BaseDelay,
		MaxDelay:  a.cfg.Reconnect.MaxDelay,
		Images:    images,
		Navigate: func(target string) {
			fmt.Fprintf(out, "redirected to %s\n", target)
		},
		Log: a.log,
	})
	c, err := mount.Render(ctx, room, seat)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Frames closes when the controller terminates.
		defer cancel()
		for m := range c.Frames() {
			if err := view.Render(out, m); err != nil {
				return err
			}
		}
		return nil
	})

	lines := make(chan string)
	go scanLines(gctx, in, lines)

	g.Go(func() error {
		defer mount.Close()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				quit, msg := gesture(c, line)
				if msg != "" {
					fmt.Fprintln(out, msg)
				}
				if quit {
					return nil
				}
			}
		}
	})

	if addr := a.cfg.MetricsAddr; addr != "" {
		g.Go(func() error {
			a.log.Info("serving metrics", zap.String("addr", addr))
			return metrics.NewExporter(addr).Run(gctx)
		})
	}

	return g.Wait()
}

// scanLines forwards input lines until r ends or ctx is cancelled. A read
// already in progress still blocks until r yields or closes.
func scanLines(ctx context.Context, r io.Reader, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}

// controls is the gesture surface of a session controller.
type controls interface {
	Select(index int) bool
	SelectByName(name string) bool
	Confirm() bool
	Refresh()
}

// gesture applies one input line. Card numbers on screen start at 1.
func gesture(c controls, line string) (quit bool, msg string) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "":
		return false, ""
	case "select", "s":
		if rest == "" {
			return false, "select what?"
		}
		if n, err := strconv.Atoi(rest); err == nil {
			if !c.Select(n - 1) {
				return false, fmt.Sprintf("cannot select card %d", n)
			}
			return false, ""
		}
		if !c.SelectByName(rest) {
			return false, fmt.Sprintf("no single card matches %q", rest)
		}
		return false, ""
	case "confirm", "c":
		if !c.Confirm() {
			return false, "nothing to confirm"
		}
		return false, ""
	case "refresh", "r":
		c.Refresh()
		return false, ""
	case "quit", "q", "exit":
		return true, ""
	default:
		return false, fmt.Sprintf("unknown command %q", verb)
	}
}
