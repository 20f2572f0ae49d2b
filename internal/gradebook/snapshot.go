package gradebook

import (
	"fmt"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// CategoryRecord is the persisted form of one student's grades in one
// category.
type CategoryRecord struct {
	Category  string    `json:"category" yaml:"category"`
	Grades    []float64 `json:"grades" yaml:"grades"`
	StudentID int       `json:"student_id" yaml:"student_id"`
}

// Snapshot is a detached copy of the whole weighted gradebook state.
type Snapshot struct {
	Students   []model.StudentRecord  `json:"students" yaml:"students"`
	Weights    []model.CategoryWeight `json:"weights,omitempty" yaml:"weights,omitempty"`
	Categories []CategoryRecord       `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Snapshot copies the current state. Students and categories keep their
// insertion order; weights are ordered by name.
func (w *Weighted) Snapshot() Snapshot {
	snap := Snapshot{
		Students: make([]model.StudentRecord, 0, len(w.students)),
		Weights:  w.weights.Sorted(),
	}
	for _, s := range w.students {
		snap.Students = append(snap.Students, s.Record())
		for _, category := range w.categoryOrder[s.ID()] {
			snap.Categories = append(snap.Categories, CategoryRecord{
				StudentID: s.ID(),
				Category:  category,
				Grades:    w.CategoryGrades(s.ID(), category),
			})
		}
	}
	return snap
}

// Restore rebuilds a weighted gradebook from a snapshot. When the snapshot
// carries no weights, fallback is used instead. Category grades are taken
// as recorded; they are already part of each student's overall grades.
func Restore(snap Snapshot, fallback model.Weights) (*Weighted, error) {
	weights := fallback
	if len(snap.Weights) > 0 {
		weights = model.WeightsFromList(snap.Weights)
	}

	book := New()
	for _, rec := range snap.Students {
		if err := book.addRecord(rec); err != nil {
			return nil, err
		}
	}

	w, err := NewWeighted(book, weights)
	if err != nil {
		return nil, err
	}

	for _, rec := range snap.Categories {
		if _, err := w.FindByID(rec.StudentID); err != nil {
			return nil, fmt.Errorf("category %q: %w", rec.Category, err)
		}
		category := strings.TrimSpace(rec.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: student %d has an unnamed category", common.ErrInvalidInput, rec.StudentID)
		}
		for _, g := range rec.Grades {
			if err := model.ValidateGrade(g); err != nil {
				return nil, fmt.Errorf("student %d category %q: %w", rec.StudentID, category, err)
			}
		}
		w.appendCategoryGrades(rec.StudentID, category, rec.Grades...)
	}

	return w, nil
}
