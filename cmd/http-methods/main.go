package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/internal/cli"
	"github.com/samvad-hq/http-methods/internal/config"
	"github.com/samvad-hq/http-methods/internal/logger"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "http-methods start failed: %v\n", err)
		os.Exit(app.ExitConfigError)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return 0, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("http-methods starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(cli.Deps{
		Config: cfg,
		NewInvoker: func(ctx context.Context) (*app.Invoker, error) {
			return app.NewInvoker(ctx, cfg, log)
		},
		Version:   version,
		BuildTime: buildTime,
	})
	return cli.Execute(ctx, root, os.Stderr), nil
}
