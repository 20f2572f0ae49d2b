package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func createTestBook(t *testing.T) *gradebook.Weighted {
	t.Helper()
	return testutil.NewRosterBuilder(t).
		WithStudent("Ada", 1, 70).
		WithStudent("Grace", 2).
		WithSubjectGrades(1, "Math", 80).
		WithCategoryGrades(2, "Tests", 95).
		WithCategoryGrades(2, "Labs", 40).
		Build()
}

func TestBuild(t *testing.T) {
	r := Build(createTestBook(t), generatedAt)

	assert.Equal(t, generatedAt, r.GeneratedAt)
	assert.Equal(t, 2, r.Statistics.StudentCount)
	assert.Equal(t, 4, r.Statistics.GradeCount)
	require.Len(t, r.Rankings, 2)
	require.Len(t, r.WeightedRankings, 2)
	assert.Equal(t, 1, r.Rankings[0].ID)
	assert.Equal(t, 2, r.WeightedRankings[0].ID)
	assert.Len(t, r.Weights, 3)
	assert.Len(t, r.Students, 2)
	assert.Equal(t, 1, r.Distribution[model.GradeC])
	assert.Equal(t, 1, r.Distribution[model.GradeD])
}

func TestTextFormatter_Format(t *testing.T) {
	out := NewTextFormatter().Format(Build(createTestBook(t), generatedAt))

	for _, want := range []string{
		"=== GRADEBOOK REPORT ===",
		"Generated on: 2026-03-14T09:30:00Z",
		"=== CLASS STATISTICS ===",
		"Number of students: 2",
		"Total grades entered: 4",
		"Class average: 71.25",
		"=== CATEGORY WEIGHTS ===",
		"Homework: 30.0%",
		"Tests: 50.0%",
		"=== REGULAR RANKINGS ===",
		"1. Ada (ID: 1) - Average: 75.00 (C)",
		"2. Grace (ID: 2) - Average: 67.50 (D)",
		"=== WEIGHTED RANKINGS ===",
		"1. Grace (ID: 2) - Weighted Average: 95.00 (A)",
		"=== GRADE DISTRIBUTION ===",
		"A (90-100): 0 students",
		"C (70-79): 1 students",
		"=== STUDENT DETAILS ===",
		"1. Student: Ada (ID: 1)",
		"Subject Breakdown:\n  Math: 80.00 (B) - [80.0]",
		"Category Breakdown:\n  Tests (50.0%): 95.00 - [95.0]\n  Labs (unweighted): 40.00 - [40.0]",
		"---",
	} {
		assert.Contains(t, out, want)
	}

	assert.Less(t, strings.Index(out, "REGULAR RANKINGS"), strings.Index(out, "WEIGHTED RANKINGS"))
}

func TestTextFormatter_FormatEmpty(t *testing.T) {
	book, err := gradebook.NewWeighted(nil, nil)
	require.NoError(t, err)

	out := NewTextFormatter().Format(Build(book, generatedAt))
	assert.Contains(t, out, "No students in the gradebook.")
	assert.Contains(t, out, "No category weights configured.")
	assert.Contains(t, out, "No students to rank.")
	assert.Contains(t, out, "F (0-59): 0 students")

	assert.Equal(t, "No report available\n", NewTextFormatter().Format(nil))
}

func TestFormatDetail_NoGrades(t *testing.T) {
	out := FormatDetail(gradebook.StudentDetail{Name: "Linus", ID: 3, Letter: model.GradeF, WeightedLetter: model.GradeF})
	assert.Equal(t, "Student: Linus (ID: 3)\n"+
		"Overall Average: 0.00 (F)\n"+
		"Overall Grades: [No grades]\n", out)
}

func TestFormatWeightedDetail(t *testing.T) {
	book := createTestBook(t)
	d, err := book.Detail(2)
	require.NoError(t, err)

	assert.Equal(t, "Student: Grace (ID: 2)\n"+
		"Regular Average: 67.50 (D)\n"+
		"Weighted Average: 95.00 (A)\n"+
		"Category Breakdown:\n"+
		"  Tests (50.0%): 95.00 - [95.0]\n"+
		"  Labs (unweighted): 40.00 - [40.0]\n", FormatWeightedDetail(d))

	d, err = book.Detail(1)
	require.NoError(t, err)
	assert.NotContains(t, FormatDetail(d), "Weighted Average")
	assert.Contains(t, FormatWeightedDetail(d), "Weighted Average: 75.00 (C)")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	r := Build(createTestBook(t), generatedAt)

	written, err := WriteFile(path, r)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, NewTextFormatter().Format(r), string(data))
}

func TestWriteFile_DefaultName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	r := Build(createTestBook(t), generatedAt)

	written, err := WriteFile("", r)
	require.NoError(t, err)
	assert.Equal(t, "gradebook_report_1773480600000.txt", written)
	assert.FileExists(t, written)
}

func TestWriteFile_BadPath(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "missing", "r.txt"), Build(createTestBook(t), generatedAt))
	assert.Error(t, err)
}
