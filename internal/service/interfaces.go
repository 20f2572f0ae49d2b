// Package service defines the interfaces shared between the gradebook and
// its persistence backends.
package service

import (
	"context"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
)

// Store defines the contract for our persistence layer.
type Store interface {
	// Load reads the stored roster. defaults are the category weights used
	// when the backend has none of its own.
	Load(ctx context.Context, defaults model.Weights) (*gradebook.Weighted, error)
	// Save replaces the stored roster with book.
	Save(ctx context.Context, book *gradebook.Weighted) error
	Close() error
}
