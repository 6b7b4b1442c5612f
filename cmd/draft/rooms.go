package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/cube-draft/internal/identity"
	"github.com/DoyleJ11/cube-draft/internal/rooms"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

func newRoomsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Create, list and delete draft rooms",
	}
	cmd.AddCommand(newRoomsCreateCmd(a), newRoomsListCmd(a), newRoomsDeleteCmd(a))
	return cmd
}

func (a *app) roomsClient() (*rooms.Client, error) {
	dev, err := identity.Load(a.cfg.DeviceFile)
	if err != nil {
		return nil, err
	}
	return rooms.New(a.cfg.ServerURL, dev), nil
}

func newRoomsCreateCmd(a *app) *cobra.Command {
	var (
		cubeFile string
		req      types.CreateRoomRequest
		noShuf   bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room from a cube list (one card per line)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(cubeFile)
			if err != nil {
				return err
			}
			defer f.Close()
			cards, err := readCube(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", cubeFile, err)
			}
			if !noShuf {
				rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
			}
			need := req.Seats * req.Packs * req.PackSize
			if len(cards) < need {
				return fmt.Errorf("cube has %d cards, draft needs %d", len(cards), need)
			}
			req.Cards = cards[:need]

			c, err := a.roomsClient()
			if err != nil {
				return err
			}
			id, err := c.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().StringVar(&cubeFile, "cube", "", "cube list file")
	cmd.Flags().IntVar(&req.Seats, "seats", 8, "number of seats")
	cmd.Flags().IntVar(&req.Packs, "packs", 3, "packs per seat")
	cmd.Flags().IntVar(&req.PackSize, "pack-size", 15, "cards per pack")
	cmd.Flags().BoolVar(&noShuf, "no-shuffle", false, "deal the cube in file order")
	_ = cmd.MarkFlagRequired("cube")
	return cmd
}

func newRoomsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.roomsClient()
			if err != nil {
				return err
			}
			list, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			return printRooms(cmd.OutOrStdout(), list)
		},
	}
}

func newRoomsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ROOM",
		Short: "Delete a room you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.roomsClient()
			if err != nil {
				return err
			}
			return c.Delete(cmd.Context(), args[0])
		},
	}
}

// readCube returns non-blank lines, skipping # comments.
func readCube(r io.Reader) ([]string, error) {
	var cards []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cards = append(cards, line)
	}
	return cards, sc.Err()
}

func printRooms(w io.Writer, list []types.Room) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tSEATS\tPACKS\tSTATE\tOCCUPIED\tMINE")
	for _, r := range list {
		mine := ""
		if r.Mine {
			mine = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%s\t%d\t%s\n", r.ID, r.Seats, r.Packs, r.PackSize, r.State, len(r.Occupied), mine)
	}
	return tw.Flush()
}
