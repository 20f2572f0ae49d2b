package gradebook

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Weighted extends a Gradebook with per-category grades and category
// weights. Roster operations are promoted from the embedded Gradebook.
type Weighted struct {
	*Gradebook
	weights        model.Weights
	categoryGrades map[int]map[string][]float64
	categoryOrder  map[int][]string
}

// NewWeighted wraps book with the given initial weights. A nil book starts
// an empty roster.
func NewWeighted(book *Gradebook, initial model.Weights) (*Weighted, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("invalid initial weights: %w", err)
	}
	if book == nil {
		book = New()
	}
	return &Weighted{
		Gradebook:      book,
		weights:        initial.Clone(),
		categoryGrades: make(map[int]map[string][]float64),
		categoryOrder:  make(map[int][]string),
	}, nil
}

// AddCategoryGrade records value under category for the student and also
// appends it to the student's overall grades.
func (w *Weighted) AddCategoryGrade(id int, category string, value float64) error {
	s, err := w.FindByID(id)
	if err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidInput)
	}
	if err := s.AddGrade(value); err != nil {
		return err
	}

	w.appendCategoryGrades(id, category, value)
	slog.Debug("added category grade", "student_id", id, "category", category, "grade", value)
	return nil
}

func (w *Weighted) appendCategoryGrades(id int, category string, values ...float64) {
	cats, ok := w.categoryGrades[id]
	if !ok {
		cats = make(map[string][]float64)
		w.categoryGrades[id] = cats
	}
	if _, ok := cats[category]; !ok {
		w.categoryOrder[id] = append(w.categoryOrder[id], category)
	}
	cats[category] = append(cats[category], values...)
}

// WeightedAverage is the weight-normalized mean of the student's category
// averages, over categories that have both grades and a configured weight.
// Without any usable category it falls back to the plain average.
func (w *Weighted) WeightedAverage(id int) (float64, error) {
	s, err := w.FindByID(id)
	if err != nil {
		return 0, err
	}
	return w.weightedAverage(s), nil
}

func (w *Weighted) weightedAverage(s *model.Student) float64 {
	cats := w.categoryGrades[s.ID()]
	if len(cats) == 0 {
		return s.Average()
	}

	var sum, total float64
	for _, category := range w.categoryOrder[s.ID()] {
		grades := cats[category]
		weight, ok := w.weights[category]
		if !ok || len(grades) == 0 {
			continue
		}
		sum += model.Mean(grades) * weight
		total += weight
	}

	if total == 0 {
		return s.Average()
	}
	return sum / total
}

// WeightedLetterGrade buckets WeightedAverage.
func (w *Weighted) WeightedLetterGrade(id int) (model.LetterGrade, error) {
	avg, err := w.WeightedAverage(id)
	if err != nil {
		return "", err
	}
	return model.LetterFor(avg), nil
}

// SetCategoryWeight sets or replaces a category weight. Weights across
// categories are not required to sum to 1.
func (w *Weighted) SetCategoryWeight(category string, weight float64) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidInput)
	}
	if err := model.ValidateWeight(weight); err != nil {
		return err
	}
	w.weights[category] = weight
	slog.Debug("set category weight", "category", category, "weight", weight)
	return nil
}

// Weights returns a copy of the configured weights.
func (w *Weighted) Weights() model.Weights {
	return w.weights.Clone()
}

// SortedWeights returns the configured weights ordered by category name.
func (w *Weighted) SortedWeights() []model.CategoryWeight {
	return w.weights.Sorted()
}

// RankByWeightedAverage orders students by descending weighted average.
// Ties keep insertion order.
func (w *Weighted) RankByWeightedAverage() []Ranking {
	return rank(w.students, w.weightedAverage)
}

// Categories lists the categories the student has grades in, in first-use
// order.
func (w *Weighted) Categories(id int) []string {
	return slices.Clone(w.categoryOrder[id])
}

// CategoryGrades returns a copy of the student's grades in category.
func (w *Weighted) CategoryGrades(id int, category string) []float64 {
	return slices.Clone(w.categoryGrades[id][category])
}

// CategoryAverage is the mean of the student's grades in category.
func (w *Weighted) CategoryAverage(id int, category string) float64 {
	return model.Mean(w.categoryGrades[id][category])
}
