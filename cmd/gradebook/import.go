package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func importCmd() *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import students from a roster file",
		Long: `Merge students from a roster file into the gradebook.

Files ending in .yaml, .yml or .json hold a list of students:

  - name: Ada
    id: 1
    grades: [85, 92.5]
    subjects:
      - name: Math
        grades: [92.5]

Any other file is read in the gradebook data format, one
"name,id,grade,grade..." line per student. Students whose ID is already
on the roster are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			records, err := readRoster(cmd, args[0])
			if err != nil {
				return err
			}

			ws, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			var bar interface{ Add(int) error }
			if !noProgress {
				bar = cli.NewImportProgress(cmd.ErrOrStderr(), len(records))
			}

			imported := 0
			for _, rec := range records {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := validateRecord(rec); err != nil {
					common.LogError(err, "Skipping invalid roster entry", common.Fields{"student_id": rec.ID})
				} else if _, err := ws.book.AddStudents([]model.StudentRecord{rec}); err != nil {
					common.LogError(err, "Skipping imported student", common.Fields{"student_id": rec.ID})
				} else {
					imported++
					common.LogDebug("Imported student", common.Fields{"student_id": rec.ID, "name": rec.Name})
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}

			if err := ws.save(ctx); err != nil {
				return err
			}

			summary := cli.FormatSuccess(fmt.Sprintf("Imported %d of %d students", imported, len(records)))
			if skipped := len(records) - imported; skipped > 0 {
				summary += "\n" + cli.FormatWarning(fmt.Sprintf("%d students were skipped", skipped))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Import Summary", summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not show a progress bar")

	return cmd
}

// readRoster reads the students held in path.
func readRoster(cmd *cobra.Command, path string) ([]model.StudentRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		var records []model.StudentRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidInput, path, err)
		}
		return records, nil
	default:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		store, err := storage.NewTextStore(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		book, err := store.Load(cmd.Context(), nil)
		if err != nil {
			if book == nil {
				return nil, fmt.Errorf("failed to read roster: %w", err)
			}
			slog.Warn("Stopped reading roster at a malformed record", "path", path, "error", err)
		}

		students := book.Students()
		records := make([]model.StudentRecord, 0, len(students))
		for _, s := range students {
			records = append(records, s.Record())
		}
		return records, nil
	}
}
