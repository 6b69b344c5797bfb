package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smoke/internal/desktop"
	"smoke/internal/smoke"
)

func main() {
	cfg, err := smoke.LoadConfig(os.Getenv("SMOKE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := smoke.NewLogger(os.Stderr, &cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Headless() {
		err = smoke.RenderSnapshot(ctx, &cfg, log)
	} else {
		err = desktop.Run(ctx, &cfg, log)
	}
	if err != nil {
		log.Error("smoke failed", "err", err)
		stop()
		os.Exit(1)
	}
}
