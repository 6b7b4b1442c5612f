package main

import (
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/cube-draft/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development session server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return httpapi.Serve(cmd.Context(), a.cfg.ListenAddr, a.log)
		},
	}
	cmd.Flags().String("listen", "", "listen address")
	bind(a.v, cmd.Flags().Lookup("listen"), "listen_addr")
	return cmd
}
