// Package testutil provides a fluent builder for the rosters used in tests.
//
// Example usage:
//
//	book := testutil.NewRosterBuilder(t).
//		WithStudent("Ada", 1, 85, 92).
//		WithCategoryGrades(1, "Homework", 80, 90).
//		Build()
package testutil

import (
	"testing"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
)

// RosterBuilder collects students and grades and applies them in order.
type RosterBuilder struct {
	t       testing.TB
	weights model.Weights
	steps   []func(*gradebook.Weighted) error
}

// NewRosterBuilder starts an empty roster with the default category weights.
func NewRosterBuilder(t testing.TB) *RosterBuilder {
	t.Helper()
	return &RosterBuilder{
		t:       t,
		weights: model.DefaultWeights(),
	}
}

// WithWeights replaces the initial category weights.
func (b *RosterBuilder) WithWeights(weights model.Weights) *RosterBuilder {
	b.weights = weights
	return b
}

// WithStudent adds a student with the given overall grades.
func (b *RosterBuilder) WithStudent(name string, id int, grades ...float64) *RosterBuilder {
	b.steps = append(b.steps, func(book *gradebook.Weighted) error {
		if _, err := book.AddStudent(name, id); err != nil {
			return err
		}
		for _, g := range grades {
			if err := book.AddGrade(id, g); err != nil {
				return err
			}
		}
		return nil
	})
	return b
}

// WithSubjectGrades records grades under a subject for an added student.
func (b *RosterBuilder) WithSubjectGrades(id int, subject string, grades ...float64) *RosterBuilder {
	b.steps = append(b.steps, func(book *gradebook.Weighted) error {
		for _, g := range grades {
			if err := book.AddSubjectGrade(id, subject, g); err != nil {
				return err
			}
		}
		return nil
	})
	return b
}

// WithCategoryGrades records grades under a category for an added student.
func (b *RosterBuilder) WithCategoryGrades(id int, category string, grades ...float64) *RosterBuilder {
	b.steps = append(b.steps, func(book *gradebook.Weighted) error {
		for _, g := range grades {
			if err := book.AddCategoryGrade(id, category, g); err != nil {
				return err
			}
		}
		return nil
	})
	return b
}

// Build creates the roster, failing the test on any rejected step.
func (b *RosterBuilder) Build() *gradebook.Weighted {
	b.t.Helper()

	book, err := gradebook.NewWeighted(nil, b.weights)
	if err != nil {
		b.t.Fatalf("failed to create gradebook: %v", err)
	}
	for i, step := range b.steps {
		if err := step(book); err != nil {
			b.t.Fatalf("failed to apply roster step %d: %v", i+1, err)
		}
	}
	return book
}

// ClassOfThree is Ada, Grace and Linus with averages 70, 90 and 80.
func ClassOfThree(t testing.TB) *gradebook.Weighted {
	t.Helper()
	return NewRosterBuilder(t).
		WithStudent("Ada", 1, 70).
		WithStudent("Grace", 2, 90).
		WithStudent("Linus", 3, 80).
		Build()
}
