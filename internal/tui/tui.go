package tui

import (
	"fmt"
	"os"

	"batchman/config"
	"batchman/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI interface
func Run() error {
	// Check if we're running in a terminal
	if !isTerminal() {
		return fmt.Errorf("batchman TUI requires a terminal. Use subcommands for non-interactive mode")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m := NewModel(cfg, func(apiKey string) Backend {
		return api.NewClient(apiKey)
	})

	// Create program with options that work better across different terminals
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}

	if os.Getenv("TERM") != "" {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(m, opts...)

	_, err = p.Run()
	return err
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
