package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/config"
	"github.com/DoyleJ11/cube-draft/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "draft:", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v       *viper.Viper
	cfgPath string
	envFile string

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "draft",
		Short:         "Cube draft client and development session server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.String("server", "", "session server base URL")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("log-dev", false, "human-readable development logs")
	flags.String("device-file", "", "where the device id is stored")
	bind(a.v, flags.Lookup("server"), "server_url")
	bind(a.v, flags.Lookup("log-level"), "log_level")
	bind(a.v, flags.Lookup("log-dev"), "log_dev")
	bind(a.v, flags.Lookup("device-file"), "device_file")

	root.AddCommand(newJoinCmd(a))
	root.AddCommand(newRoomsCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgPath, a.envFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}
