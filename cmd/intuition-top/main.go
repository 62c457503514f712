package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xoldn/intuition/internal/tui"
)

var CLI struct {
	URL      string        `short:"u" long:"url" default:"http://localhost:8080" help:"Base URL of the game server"`
	Interval time.Duration `short:"i" long:"interval" default:"2s" help:"How often to refresh the leaderboard"`
}

func main() {
	ctx := kong.Parse(&CLI)

	fetcher := &tui.APIFetcher{BaseURL: CLI.URL}
	model := tui.NewTopModel(fetcher, CLI.Interval)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}
