package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements service.Store on a SQLite database. Unlike
// TextStore it keeps subject grades, category grades and category weights.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance. Call Migrate before
// the first Load or Save.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection also keeps an in-memory database alive between calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Save replaces the stored gradebook with book in a single transaction.
// A save that finds the database busy is retried with backoff.
func (s *SQLiteStorage) Save(ctx context.Context, book *gradebook.Weighted) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBook(book); err != nil {
		return err
	}

	snap := book.Snapshot()
	err := common.WithRetry(ctx, func() error {
		if err := s.saveSnapshot(ctx, snap); err != nil {
			if isBusy(err) {
				return err
			}
			return common.Permanent(err)
		}
		return nil
	}, saveRetry)
	if err != nil {
		return err
	}

	slog.Info("Saved gradebook", "path", s.dbPath, "students", len(snap.Students))
	return nil
}

var saveRetry = common.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

func (s *SQLiteStorage) saveSnapshot(ctx context.Context, snap gradebook.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"category_grades", "subject_grades", "grades", "students", "category_weights"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := saveStudentsTx(ctx, tx, snap.Students); err != nil {
		return err
	}
	if err := saveCategoriesTx(ctx, tx, snap.Categories); err != nil {
		return err
	}
	if err := saveWeightsTx(ctx, tx, snap.Weights); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit gradebook: %w", err)
	}
	return nil
}

// isBusy reports whether err is SQLite refusing the write because another
// connection holds the lock.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func saveStudentsTx(ctx context.Context, tx *sql.Tx, students []model.StudentRecord) error {
	for pos, rec := range students {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO students (id, name, position) VALUES (?, ?, ?)`,
			rec.ID, rec.Name, pos,
		); err != nil {
			return fmt.Errorf("failed to save student %d: %w", rec.ID, err)
		}

		for i, g := range rec.Grades {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grades (student_id, position, value) VALUES (?, ?, ?)`,
				rec.ID, i, g,
			); err != nil {
				return fmt.Errorf("failed to save grade for student %d: %w", rec.ID, err)
			}
		}

		for subjectPos, subject := range rec.Subjects {
			for i, g := range subject.Grades {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO subject_grades (student_id, subject, subject_position, position, value)
					VALUES (?, ?, ?, ?, ?)`,
					rec.ID, subject.Name, subjectPos, i, g,
				); err != nil {
					return fmt.Errorf("failed to save %s grade for student %d: %w", subject.Name, rec.ID, err)
				}
			}
		}
	}
	return nil
}

func saveCategoriesTx(ctx context.Context, tx *sql.Tx, categories []gradebook.CategoryRecord) error {
	positions := make(map[int]int)
	for _, rec := range categories {
		pos := positions[rec.StudentID]
		positions[rec.StudentID]++

		for i, g := range rec.Grades {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO category_grades (student_id, category, category_position, position, value)
				VALUES (?, ?, ?, ?, ?)`,
				rec.StudentID, rec.Category, pos, i, g,
			); err != nil {
				return fmt.Errorf("failed to save %s grade for student %d: %w", rec.Category, rec.StudentID, err)
			}
		}
	}
	return nil
}

func saveWeightsTx(ctx context.Context, tx *sql.Tx, weights []model.CategoryWeight) error {
	for _, w := range weights {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_weights (category, weight) VALUES (?, ?)`,
			w.Category, w.Weight,
		); err != nil {
			return fmt.Errorf("failed to save weight for %s: %w", w.Category, err)
		}
	}
	return nil
}

// Load restores the stored gradebook. Stored weights take precedence over
// defaults; defaults apply only when the database has none.
func (s *SQLiteStorage) Load(ctx context.Context, defaults model.Weights) (*gradebook.Weighted, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	book, err := gradebook.Restore(snap, defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	slog.Info("Loaded gradebook", "path", s.dbPath, "students", book.Len())
	return book, nil
}

func (s *SQLiteStorage) loadSnapshot(ctx context.Context) (gradebook.Snapshot, error) {
	var snap gradebook.Snapshot

	students, err := s.loadStudents(ctx)
	if err != nil {
		return snap, err
	}
	snap.Students = students

	index := make(map[int]int, len(students))
	for i, rec := range students {
		index[rec.ID] = i
	}

	if err := s.loadGrades(ctx, snap.Students, index); err != nil {
		return snap, err
	}
	if err := s.loadSubjectGrades(ctx, snap.Students, index); err != nil {
		return snap, err
	}

	if snap.Categories, err = s.loadCategoryGrades(ctx); err != nil {
		return snap, err
	}
	if snap.Weights, err = s.loadWeights(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *SQLiteStorage) loadStudents(ctx context.Context) ([]model.StudentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM students ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var students []model.StudentRecord
	for rows.Next() {
		var rec model.StudentRecord
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, rec)
	}
	return students, rows.Err()
}

func (s *SQLiteStorage) loadGrades(ctx context.Context, students []model.StudentRecord, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT student_id, value FROM grades ORDER BY student_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int
		var value float64
		if err := rows.Scan(&id, &value); err != nil {
			return fmt.Errorf("failed to scan grade: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("%w: grade for unknown student %d", ErrMalformedRecord, id)
		}
		students[i].Grades = append(students[i].Grades, value)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadSubjectGrades(ctx context.Context, students []model.StudentRecord, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, subject, value FROM subject_grades
		ORDER BY student_id, subject_position, position`)
	if err != nil {
		return fmt.Errorf("failed to query subject grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int
		var subject string
		var value float64
		if err := rows.Scan(&id, &subject, &value); err != nil {
			return fmt.Errorf("failed to scan subject grade: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("%w: subject grade for unknown student %d", ErrMalformedRecord, id)
		}

		subjects := students[i].Subjects
		if n := len(subjects); n == 0 || subjects[n-1].Name != subject {
			subjects = append(subjects, model.SubjectRecord{Name: subject})
		}
		last := &subjects[len(subjects)-1]
		last.Grades = append(last.Grades, value)
		students[i].Subjects = subjects
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadCategoryGrades(ctx context.Context) ([]gradebook.CategoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, category, value FROM category_grades
		ORDER BY student_id, category_position, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []gradebook.CategoryRecord
	for rows.Next() {
		var rec gradebook.CategoryRecord
		var value float64
		if err := rows.Scan(&rec.StudentID, &rec.Category, &value); err != nil {
			return nil, fmt.Errorf("failed to scan category grade: %w", err)
		}

		n := len(records)
		if n == 0 || records[n-1].StudentID != rec.StudentID || records[n-1].Category != rec.Category {
			records = append(records, rec)
			n++
		}
		records[n-1].Grades = append(records[n-1].Grades, value)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) loadWeights(ctx context.Context) ([]model.CategoryWeight, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, weight FROM category_weights ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var weights []model.CategoryWeight
	for rows.Next() {
		var w model.CategoryWeight
		if err := rows.Scan(&w.Category, &w.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan category weight: %w", err)
		}
		weights = append(weights, w)
	}
	return weights, rows.Err()
}
