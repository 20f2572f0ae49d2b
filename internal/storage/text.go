package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
)

const fieldSeparator = ","

// TextStore persists the roster as one line per student:
//
//	name,id,grade1,grade2,...
//	name,id,No grades
//
// Only names, ids and overall grades are kept. Subject grades, category
// grades and weights live in memory only with this backend.
type TextStore struct {
	path string
}

// NewTextStore creates a store backed by the file at path. The file does not
// need to exist yet.
func NewTextStore(path string) (*TextStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &TextStore{path: path}, nil
}

// Path returns the backing file path.
func (s *TextStore) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *TextStore) Close() error {
	return nil
}

// Save overwrites the file with the current roster.
func (s *TextStore) Save(ctx context.Context, book *gradebook.Weighted) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBook(book); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close data file: %w", closeErr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, student := range book.Students() {
		if _, err := w.WriteString(formatLine(student) + "\n"); err != nil {
			return fmt.Errorf("failed to write student %d: %w", student.ID(), err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush data file: %w", err)
	}

	slog.Info("Saved gradebook", "path", s.path, "students", book.Len())
	return nil
}

func formatLine(s *model.Student) string {
	fields := []string{s.Name(), strconv.Itoa(s.ID())}
	grades := s.Grades()
	if len(grades) == 0 {
		fields = append(fields, model.NoGradesMarker)
	}
	for _, g := range grades {
		fields = append(fields, strconv.FormatFloat(g, 'f', -1, 64))
	}
	return strings.Join(fields, fieldSeparator)
}

// Load reads the roster from the file. A missing file yields an empty
// roster. Blank and short lines, unparseable or out-of-range grades, and
// repeated ids are skipped. A non-numeric id stops the load: the students
// read so far are returned together with an error wrapping
// ErrMalformedRecord.
func (s *TextStore) Load(ctx context.Context, defaults model.Weights) (*gradebook.Weighted, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	book, err := gradebook.NewWeighted(nil, defaults)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("Data file does not exist, starting with an empty gradebook", "path", s.path)
		return book, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return book, err
		}
		if err := loadLine(book, scanner.Text()); err != nil {
			return book, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return book, fmt.Errorf("failed to read data file: %w", err)
	}

	slog.Info("Loaded gradebook", "path", s.path, "students", book.Len())
	return book, nil
}

func loadLine(book *gradebook.Weighted, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	parts := strings.Split(line, fieldSeparator)
	if len(parts) < 2 {
		return nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("%w: invalid student id %q", ErrMalformedRecord, parts[1])
	}

	if _, err := book.AddStudent(parts[0], id); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) || errors.Is(err, common.ErrInvalidInput) {
			slog.Warn("Skipping student record", "student_id", id, "error", err)
			return nil
		}
		return err
	}

	for _, token := range parts[2:] {
		token = strings.TrimSpace(token)
		if token == model.NoGradesMarker {
			continue
		}
		g, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		if err := book.AddGrade(id, g); err != nil {
			slog.Debug("Skipping grade", "student_id", id, "grade", token, "error", err)
		}
	}
	return nil
}
