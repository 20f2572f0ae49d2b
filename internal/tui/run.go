package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/gradebook/internal/gradebook"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser until the user quits or ctx is canceled.
func Run(ctx context.Context, book *gradebook.Weighted, opts ...Option) error {
	if book == nil {
		return fmt.Errorf("gradebook is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	program := tea.NewProgram(newModel(book, cfg), programOpts...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
