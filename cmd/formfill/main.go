package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill"
	"github.com/goliatone/go-formfill/pkg/config"
	"github.com/goliatone/go-formfill/pkg/logger"
	"github.com/goliatone/go-formfill/pkg/renderers/tui"
	"github.com/goliatone/go-formfill/pkg/session"
)

func main() {
	cfg, err := config.Load(config.StoreFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	endpoint := flag.String("endpoint", cfg.APIEndpoint, "Form service base URL")
	source := flag.String("source", cfg.FormSource, `Form source: "http" or file:<path>`)
	storeDir := flag.String("store-dir", cfg.Store.Dir, "Directory holding the saved login")
	flag.Parse()

	cfg.APIEndpoint = strings.TrimRight(strings.TrimSpace(*endpoint), "/")
	cfg.FormSource = strings.TrimSpace(*source)
	cfg.Store.Dir = strings.TrimSpace(*storeDir)
	if cfg.Store.Driver == config.StoreFile && cfg.Store.Dir == "" {
		dir, err := session.DefaultDir()
		if err != nil {
			log.Fatalf("store dir: %v", err)
		}
		cfg.Store.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Prompts own the terminal, so logs go to stderr at warn unless asked
	// otherwise.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	backend, closeBackend, err := formfill.Backend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeBackend() }()

	store := session.New(backend, session.WithLogger(zl))
	if err := store.Load(ctx); err != nil {
		return err
	}

	client, source, err := formfill.Gateway(cfg, zl, nil)
	if err != nil {
		return err
	}

	app, err := tui.New(store, client, source,
		tui.WithPromptDriver(tui.NewSurveyDriver(os.Stdout)),
		tui.WithLogger(zl),
	)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
