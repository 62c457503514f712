package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/xoldn/intuition/internal/bot"
	"github.com/xoldn/intuition/internal/server"
)

var CLI struct {
	Config        string `short:"c" long:"config" default:"intuition.hcl" help:"Path to HCL configuration file"`
	Token         string `long:"token" env:"BOT_TOKEN" help:"Telegram bot token (overrides config)"`
	GameURL       string `long:"game-url" env:"GAME_URL" help:"URL of the web game client (overrides config)"`
	GameShortName string `long:"game-short-name" env:"GAME_SHORT_NAME" help:"Game short name registered with BotFather (overrides config)"`
	LogLevel      string `short:"l" long:"log-level" default:"info" help:"Log level"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	token := CLI.Token
	gameURL := CLI.GameURL
	shortName := CLI.GameShortName
	if cfg.Bot != nil {
		if token == "" {
			token = cfg.Bot.Token
		}
		if gameURL == "" {
			gameURL = cfg.Bot.GameURL
		}
		if shortName == "" {
			shortName = cfg.Bot.GameShortName
		}
	}

	logger := log.New(os.Stderr)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	b, err := bot.New(token, gameURL, shortName, logger)
	if err != nil {
		logger.Error("Failed to start bot", "error", err)
		ctx.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(runCtx); err != nil {
		logger.Error("Bot failed", "error", err)
		ctx.Exit(1)
	}
}
