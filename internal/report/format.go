package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
)

// Formatter renders a report.
type Formatter interface {
	Format(r *Report) string
}

// TextFormatter renders a report as plain text for files and pipes.
type TextFormatter struct{}

// NewTextFormatter creates a plain text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format renders every report section under "=== TITLE ===" headings.
func (f *TextFormatter) Format(r *Report) string {
	if r == nil {
		return "No report available\n"
	}

	var b strings.Builder
	b.WriteString(Heading("GRADEBOOK REPORT"))
	fmt.Fprintf(&b, "Generated on: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	sections := []struct {
		title string
		body  string
	}{
		{"CLASS STATISTICS", FormatStatistics(r.Statistics)},
		{"CATEGORY WEIGHTS", FormatWeights(r.Weights)},
		{"REGULAR RANKINGS", FormatRankings(r.Rankings, "Average")},
		{"WEIGHTED RANKINGS", FormatRankings(r.WeightedRankings, "Weighted Average")},
		{"GRADE DISTRIBUTION", FormatDistribution(r.Distribution)},
		{"STUDENT DETAILS", formatDetails(r.Students)},
	}
	for _, s := range sections {
		b.WriteString(Heading(s.title))
		b.WriteString(s.body)
		b.WriteString("\n")
	}
	return b.String()
}

// Heading renders a section title line.
func Heading(title string) string {
	return "=== " + title + " ===\n"
}

// FormatStatistics renders the class statistics block.
func FormatStatistics(stats gradebook.ClassStatistics) string {
	if stats.StudentCount == 0 {
		return "No students in the gradebook.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Number of students: %d\n", stats.StudentCount)
	fmt.Fprintf(&b, "Total grades entered: %d\n", stats.GradeCount)
	fmt.Fprintf(&b, "Class average: %.2f\n", stats.ClassAverage)
	fmt.Fprintf(&b, "Highest average: %.2f\n", stats.HighestAverage)
	fmt.Fprintf(&b, "Lowest average: %.2f\n", stats.LowestAverage)
	return b.String()
}

// FormatWeights renders one "Category: 30.0%" line per weight.
func FormatWeights(weights []model.CategoryWeight) string {
	if len(weights) == 0 {
		return "No category weights configured.\n"
	}

	var b strings.Builder
	for _, w := range weights {
		fmt.Fprintf(&b, "%s: %.1f%%\n", w.Category, w.Weight*100)
	}
	return b.String()
}

// FormatRankings renders ranked rows; label names the score column.
func FormatRankings(rows []gradebook.Ranking, label string) string {
	if len(rows) == 0 {
		return "No students to rank.\n"
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%d. %s (ID: %d) - %s: %.2f (%s)\n", r.Rank, r.Name, r.ID, label, r.Average, r.Letter)
	}
	return b.String()
}

// FormatDistribution renders the per-letter counts from A down to F.
func FormatDistribution(d gradebook.Distribution) string {
	var b strings.Builder
	for _, l := range model.Letters {
		fmt.Fprintf(&b, "%s: %d students\n", l.RangeLabel(), d[l])
	}
	return b.String()
}

// FormatDetail renders one student's full breakdown. The weighted average
// and category breakdown only appear once the student has category grades.
func FormatDetail(d gradebook.StudentDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s (ID: %d)\n", d.Name, d.ID)
	fmt.Fprintf(&b, "Overall Average: %.2f (%s)\n", d.Average, d.Letter)
	if len(d.Categories) > 0 {
		fmt.Fprintf(&b, "Weighted Average: %.2f (%s)\n", d.WeightedAverage, d.WeightedLetter)
	}
	fmt.Fprintf(&b, "Overall Grades: [%s]\n", model.FormatGrades(d.Grades))

	if len(d.Subjects) > 0 {
		b.WriteString("Subject Breakdown:\n")
		for _, s := range d.Subjects {
			fmt.Fprintf(&b, "  %s: %.2f (%s) - [%s]\n", s.Name, s.Average, s.Letter, model.FormatGrades(s.Grades))
		}
	}

	writeCategories(&b, d.Categories)
	return b.String()
}

// FormatWeightedDetail renders the regular and weighted averages side by
// side with the category breakdown.
func FormatWeightedDetail(d gradebook.StudentDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s (ID: %d)\n", d.Name, d.ID)
	fmt.Fprintf(&b, "Regular Average: %.2f (%s)\n", d.Average, d.Letter)
	fmt.Fprintf(&b, "Weighted Average: %.2f (%s)\n", d.WeightedAverage, d.WeightedLetter)
	writeCategories(&b, d.Categories)
	return b.String()
}

func writeCategories(b *strings.Builder, categories []gradebook.CategoryDetail) {
	if len(categories) == 0 {
		return
	}

	b.WriteString("Category Breakdown:\n")
	for _, c := range categories {
		weight := "unweighted"
		if c.Weighted {
			weight = fmt.Sprintf("%.1f%%", c.Weight*100)
		}
		fmt.Fprintf(b, "  %s (%s): %.2f - [%s]\n", c.Name, weight, c.Average, model.FormatGrades(c.Grades))
	}
}

func formatDetails(details []gradebook.StudentDetail) string {
	if len(details) == 0 {
		return "No students in the gradebook.\n"
	}

	var b strings.Builder
	for i, d := range details {
		fmt.Fprintf(&b, "%d. %s---\n", i+1, FormatDetail(d))
	}
	return b.String()
}
