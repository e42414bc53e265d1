package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Gumball-code/ggpoker/internal/server"
	"github.com/Gumball-code/ggpoker/internal/tui"
)

var CLI struct {
	Server string `short:"s" long:"server" default:"ws://localhost:8080/ws" help:"Server WebSocket URL"`
	Name   string `short:"n" long:"name" help:"Display name to register on connect"`
}

func main() {
	kctx := kong.Parse(&CLI)

	lipgloss.SetColorProfile(termenv.ColorProfile())

	client, err := tui.Dial(CLI.Server)
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = client.Close() }()

	if CLI.Name != "" {
		if _, err := client.Send(server.MessageTypeSetUsername, server.SetUsernameData{Name: CLI.Name}); err != nil {
			fmt.Printf("Failed to set name: %v\n", err)
			kctx.Exit(1)
		}
	}

	p := tea.NewProgram(tui.NewModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Client error: %v\n", err)
		kctx.Exit(1)
	}
}
