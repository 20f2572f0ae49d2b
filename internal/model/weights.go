package model

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
)

// Weight bounds, inclusive.
const (
	MinWeight = 0.0
	MaxWeight = 1.0
)

// Weights maps a category name to its weight in [0,1]. Weights are not
// required to sum to 1; weighted averages normalize by the weights used.
type Weights map[string]float64

// CategoryWeight is one entry of Weights, used where order matters.
type CategoryWeight struct {
	Category string  `json:"category" yaml:"category" mapstructure:"category"`
	Weight   float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// DefaultWeights returns the weights a new weighted gradebook starts with.
func DefaultWeights() Weights {
	return Weights{
		"Homework": 0.30,
		"Tests":    0.50,
		"Projects": 0.20,
	}
}

// ValidateWeight rejects weights outside [MinWeight, MaxWeight] and NaN.
func ValidateWeight(weight float64) error {
	if math.IsNaN(weight) || weight < MinWeight || weight > MaxWeight {
		return fmt.Errorf("%w: weight %v must be between %.1f and %.1f", common.ErrOutOfRange, weight, MinWeight, MaxWeight)
	}
	return nil
}

// Validate checks every category name and weight.
func (w Weights) Validate() error {
	for category, weight := range w {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidInput)
		}
		if err := ValidateWeight(weight); err != nil {
			return fmt.Errorf("category %q: %w", category, err)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	if w == nil {
		return Weights{}
	}
	return maps.Clone(w)
}

// Sorted returns the entries ordered by category name.
func (w Weights) Sorted() []CategoryWeight {
	names := slices.Sorted(maps.Keys(w))
	out := make([]CategoryWeight, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryWeight{Category: name, Weight: w[name]})
	}
	return out
}

// WeightsFromList builds Weights from ordered entries; later entries win.
func WeightsFromList(entries []CategoryWeight) Weights {
	w := make(Weights, len(entries))
	for _, e := range entries {
		w[strings.TrimSpace(e.Category)] = e.Weight
	}
	return w
}
