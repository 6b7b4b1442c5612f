package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/config"
	"github.com/DoyleJ11/cube-draft/internal/httpapi"
	"github.com/DoyleJ11/cube-draft/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.New(), *cfgPath, ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := httpapi.Serve(ctx, cfg.ListenAddr, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
