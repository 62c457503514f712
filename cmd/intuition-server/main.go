package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/xoldn/intuition/internal/ledger"
	"github.com/xoldn/intuition/internal/ledger/memory"
	"github.com/xoldn/intuition/internal/ledger/sqlite"
	"github.com/xoldn/intuition/internal/outcome"
	"github.com/xoldn/intuition/internal/server"
	"github.com/xoldn/intuition/internal/session"
)

var CLI struct {
	Config    string `short:"c" long:"config" default:"intuition.hcl" help:"Path to HCL configuration file"`
	Addr      string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel  string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Memory    bool   `short:"m" long:"memory" help:"Keep scores in memory instead of SQLite"`
	StorePath string `long:"store" help:"Path to the score database (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Load configuration
	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.StorePath != "" {
		cfg.Storage.Path = CLI.StorePath
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	addr := cfg.GetServerAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	ttl, _ := cfg.Game.TTL()
	sweep, _ := cfg.Game.Sweep()

	// Open the score store
	var store ledger.Store
	if CLI.Memory {
		store = memory.New()
		logger.Info("using in-memory score store")
	} else {
		sqlStore, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			logger.Error("Failed to open score store", "error", err, "path", cfg.Storage.Path)
			ctx.Exit(1)
		}
		store = sqlStore
		logger.Info("opened score store", "path", cfg.Storage.Path)
	}
	defer store.Close()

	logger.Info("Starting Intuition Server",
		"addr", addr,
		"sessionTTL", ttl,
		"leaderboardSize", cfg.Game.LeaderboardSize)

	sessions := session.NewManager(outcome.NewCryptoDrawer(), quartz.NewReal(), ttl, sweep, logger)
	hub := server.NewHub(logger)
	service := server.NewService(sessions, store, hub, cfg.Game.LeaderboardSize, cfg.Game.MinAttempts, logger)
	srv := server.NewServer(addr, service, hub, logger)

	// Handle graceful shutdown
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return sessions.Run(gCtx) })
	g.Go(func() error { return srv.Serve(gCtx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}
