// Package report builds the class report and renders it as plain text.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
)

// Report is everything the class report shows, computed once.
type Report struct {
	GeneratedAt      time.Time                 `json:"generated_at" yaml:"generated_at"`
	Distribution     gradebook.Distribution    `json:"distribution" yaml:"distribution"`
	Weights          []model.CategoryWeight    `json:"weights" yaml:"weights"`
	Rankings         []gradebook.Ranking       `json:"rankings" yaml:"rankings"`
	WeightedRankings []gradebook.Ranking       `json:"weighted_rankings" yaml:"weighted_rankings"`
	Students         []gradebook.StudentDetail `json:"students" yaml:"students"`
	Statistics       gradebook.ClassStatistics `json:"statistics" yaml:"statistics"`
}

// Build gathers the report for book.
func Build(book *gradebook.Weighted, generatedAt time.Time) *Report {
	return &Report{
		GeneratedAt:      generatedAt,
		Statistics:       book.Statistics(),
		Weights:          book.SortedWeights(),
		Rankings:         book.RankByAverage(),
		WeightedRankings: book.RankByWeightedAverage(),
		Distribution:     book.Distribution(),
		Students:         book.Details(),
	}
}

// DefaultFilename names a report file after its generation time.
func DefaultFilename(generatedAt time.Time) string {
	return fmt.Sprintf("gradebook_report_%d.txt", generatedAt.UnixMilli())
}

// WriteFile renders r as text into path, or into DefaultFilename when path
// is empty. It returns the path written.
func WriteFile(path string, r *Report) (written string, err error) {
	if path == "" {
		path = DefaultFilename(r.GeneratedAt)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	if _, err := f.WriteString(NewTextFormatter().Format(r)); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Exported report", "path", path, "students", r.Statistics.StudentCount)
	return path, nil
}
