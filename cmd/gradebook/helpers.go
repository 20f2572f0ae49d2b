package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/gradebook/internal/config"
	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/service"
	"github.com/Veraticus/gradebook/internal/storage"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// workspace is a loaded gradebook together with the store it came from.
type workspace struct {
	cfg   *config.Config
	store service.Store
	book  *gradebook.Weighted
}

// openWorkspace loads the configuration, opens the configured backend and
// reads the roster from it. A data file that stops at a malformed record
// still yields the students read before it.
func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	book, err := store.Load(ctx, cfg.InitialWeights())
	if err != nil {
		if book == nil || !errors.Is(err, storage.ErrMalformedRecord) {
			_ = store.Close()
			return nil, fmt.Errorf("failed to load gradebook: %w", err)
		}
		slog.Warn("Stopped reading data at a malformed record", "error", err, "students", book.Len())
	}

	return &workspace{cfg: cfg, store: store, book: book}, nil
}

// initStore opens the configured storage backend.
func initStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	switch cfg.Data.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			return nil, err
		}

		// Run migrations
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return storage.NewTextStore(cfg.Data.Path)
	}
}

func (w *workspace) save(ctx context.Context) error {
	if err := w.store.Save(ctx, w.book); err != nil {
		return fmt.Errorf("failed to save gradebook: %w", err)
	}
	return nil
}

// keepsBreakdown reports whether the backend persists subject grades,
// category grades and weights. The text file only keeps overall grades.
func (w *workspace) keepsBreakdown() bool {
	return w.cfg.Data.Backend == config.BackendSQLite
}

func (w *workspace) Close() error {
	return w.store.Close()
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (want %s, %s or %s)", format, formatText, formatJSON, formatYAML)
	}
}

// encode writes v to w as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
