package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/analysis"
	"github.com/spacesedan/emotiscope/internal/clients"
	"github.com/spacesedan/emotiscope/internal/history"
	"github.com/spacesedan/emotiscope/internal/logging"
)

const usageText = `Usage: emotiscope [flags] <command> [args]

Commands:
  analyze <text>   analyze text and record it
  history          list recent analyses, newest first
  show <n>         show analysis n from the history
  stats            average scores across the history
  clear [-y]       delete the history
  repl             interactive session (default)
`

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLoggerTo(os.Stderr, logging.LevelFromEnv())

	cfg := config.GetAppConfig()

	fs := flag.NewFlagSet("emotiscope", flag.ExitOnError)
	ephemeral := fs.Bool("ephemeral", false, "keep history in memory only")
	backend := fs.String("backend", cfg.History.Backend, "history backend: file, valkey, dynamodb or memory")
	endpoint := fs.String("endpoint", cfg.Analyzer.Endpoint, "analyzer /analyze URL")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText+"\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg.History.Backend = *backend
	if *ephemeral {
		cfg.History.Backend = "memory"
	}
	cfg.Analyzer.Endpoint = *endpoint

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(start(ctx, cfg, fs.Args()))
}

func start(ctx context.Context, cfg config.AppConfig, args []string) int {
	historyBackend, closeBackend, err := openHistoryBackend(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to open history backend",
			slog.String("backend", cfg.History.Backend),
			slog.String("error", err.Error()))
		return 1
	}
	defer closeBackend()

	store := history.NewStore(historyBackend)
	if _, err := store.Restore(ctx); err != nil {
		slog.Warn("[Main] Could not restore history, starting empty",
			slog.String("error", err.Error()))
	}

	opts, closePublisher := serviceOptions(cfg)
	defer closePublisher()

	remote := clients.GetEmotionClient(cfg.Analyzer)
	service := analysis.NewService(remote, store, opts...)

	return newApp(service, remote, os.Stdin, os.Stdout).run(ctx, args)
}
