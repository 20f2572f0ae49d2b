package gradebook

import (
	"math"
	"testing"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWeighted(t *testing.T, grades ...[]float64) *Weighted {
	t.Helper()
	w, err := NewWeighted(newBook(t, grades...), model.DefaultWeights())
	require.NoError(t, err)
	return w
}

func TestNewWeighted(t *testing.T) {
	w, err := NewWeighted(nil, model.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, model.DefaultWeights(), w.Weights())

	_, err = NewWeighted(nil, model.Weights{"Tests": 2})
	assert.ErrorIs(t, err, common.ErrOutOfRange)
}

func TestNewWeighted_CopiesInitialWeights(t *testing.T) {
	initial := model.Weights{"Labs": 0.5}
	w, err := NewWeighted(nil, initial)
	require.NoError(t, err)

	initial["Labs"] = 0.9
	assert.Equal(t, 0.5, w.Weights()["Labs"])

	got := w.Weights()
	got["Labs"] = 0.1
	assert.Equal(t, 0.5, w.Weights()["Labs"])
}

func TestWeighted_WeightedAverage(t *testing.T) {
	w := newWeighted(t, nil)

	require.NoError(t, w.AddCategoryGrade(1, "Homework", 80))
	require.NoError(t, w.AddCategoryGrade(1, "Homework", 90))
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 70))

	avg, err := w.WeightedAverage(1)
	require.NoError(t, err)
	// (85*0.30 + 70*0.50) / (0.30+0.50)
	assert.InDelta(t, 75.625, avg, 1e-9)

	letter, err := w.WeightedLetterGrade(1)
	require.NoError(t, err)
	assert.Equal(t, model.GradeC, letter)

	// Category grades are mirrored into the overall grades.
	s, err := w.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{80, 90, 70}, s.Grades())
	assert.InDelta(t, 80.0, s.Average(), 1e-9)
}

func TestWeighted_WeightedAverage_FallsBackWithoutCategories(t *testing.T) {
	w := newWeighted(t, []float64{60, 90})

	avg, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.Equal(t, 75.0, avg)
}

func TestWeighted_WeightedAverage_NoOverlappingWeights(t *testing.T) {
	w := newWeighted(t, []float64{100})
	require.NoError(t, w.AddCategoryGrade(1, "Labs", 50))

	avg, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(avg))
	assert.Equal(t, 75.0, avg)
}

func TestWeighted_WeightedAverage_ZeroWeights(t *testing.T) {
	w, err := NewWeighted(newBook(t, nil), model.Weights{"Labs": 0})
	require.NoError(t, err)
	require.NoError(t, w.AddCategoryGrade(1, "Labs", 40))
	require.NoError(t, w.AddGrade(1, 80))

	avg, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.Equal(t, 60.0, avg)
}

func TestWeighted_WeightedAverage_IgnoresUnweightedCategories(t *testing.T) {
	w := newWeighted(t, nil)
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 90))
	require.NoError(t, w.AddCategoryGrade(1, "Labs", 10))

	avg, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, avg, 1e-9)
}

func TestWeighted_WeightedAverage_UnknownStudent(t *testing.T) {
	w := newWeighted(t)

	_, err := w.WeightedAverage(3)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = w.WeightedLetterGrade(3)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestWeighted_AddCategoryGrade_Rejects(t *testing.T) {
	w := newWeighted(t, nil)

	assert.ErrorIs(t, w.AddCategoryGrade(1, "Tests", 101), common.ErrOutOfRange)
	assert.ErrorIs(t, w.AddCategoryGrade(1, " ", 50), common.ErrInvalidInput)
	assert.ErrorIs(t, w.AddCategoryGrade(2, "Tests", 50), common.ErrNotFound)

	assert.Empty(t, w.Categories(1))
	s, err := w.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 0, s.GradeCount())
}

func TestWeighted_SetCategoryWeight(t *testing.T) {
	w := newWeighted(t)

	require.NoError(t, w.SetCategoryWeight("Tests", 1.0))
	require.NoError(t, w.SetCategoryWeight("Labs", 0))
	assert.ErrorIs(t, w.SetCategoryWeight("Labs", 1.01), common.ErrOutOfRange)
	assert.ErrorIs(t, w.SetCategoryWeight("Labs", -0.2), common.ErrOutOfRange)
	assert.ErrorIs(t, w.SetCategoryWeight("", 0.2), common.ErrInvalidInput)

	assert.Equal(t, model.Weights{
		"Homework": 0.30,
		"Tests":    1.0,
		"Projects": 0.20,
		"Labs":     0,
	}, w.Weights())

	sorted := w.SortedWeights()
	require.Len(t, sorted, 4)
	assert.Equal(t, "Homework", sorted[0].Category)
	assert.Equal(t, "Tests", sorted[3].Category)
}

func TestWeighted_SetCategoryWeight_ChangesAverage(t *testing.T) {
	w := newWeighted(t, nil)
	require.NoError(t, w.AddCategoryGrade(1, "Homework", 100))
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 50))

	before, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.InDelta(t, 68.75, before, 1e-9)

	require.NoError(t, w.SetCategoryWeight("Homework", 0.5))
	after, err := w.WeightedAverage(1)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, after, 1e-9)
}

func TestWeighted_RankByWeightedAverage(t *testing.T) {
	w := newWeighted(t, nil, nil, []float64{85})

	// Plain averages: 1 -> 80, 2 -> 70, 3 -> 85.
	// Weighted, once Homework drops to 0: 1 -> 60, 2 -> 90, 3 -> 85.
	require.NoError(t, w.AddCategoryGrade(1, "Homework", 100))
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 60))
	require.NoError(t, w.AddCategoryGrade(2, "Tests", 90))
	require.NoError(t, w.AddCategoryGrade(2, "Homework", 50))
	require.NoError(t, w.SetCategoryWeight("Homework", 0))

	rows := w.RankByWeightedAverage()
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[0].ID)
	assert.Equal(t, 3, rows[1].ID)
	assert.Equal(t, 1, rows[2].ID)
	assert.InDelta(t, 90.0, rows[0].Average, 1e-9)
	assert.InDelta(t, 60.0, rows[2].Average, 1e-9)

	regular := w.RankByAverage()
	assert.Equal(t, 3, regular[0].ID)
}

func TestWeighted_CategoryAccessors(t *testing.T) {
	w := newWeighted(t, nil)
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 70))
	require.NoError(t, w.AddCategoryGrade(1, "Homework", 80))
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 90))

	assert.Equal(t, []string{"Tests", "Homework"}, w.Categories(1))
	assert.Equal(t, []float64{70, 90}, w.CategoryGrades(1, "Tests"))
	assert.Equal(t, 80.0, w.CategoryAverage(1, "Tests"))
	assert.Equal(t, 0.0, w.CategoryAverage(1, "Projects"))
	assert.Empty(t, w.CategoryGrades(1, "Projects"))
	assert.Empty(t, w.Categories(9))

	grades := w.CategoryGrades(1, "Tests")
	grades[0] = 0
	assert.Equal(t, []float64{70, 90}, w.CategoryGrades(1, "Tests"))
}

func TestWeighted_Detail(t *testing.T) {
	w := newWeighted(t, nil)
	require.NoError(t, w.AddSubjectGrade(1, "Math", 95))
	require.NoError(t, w.AddCategoryGrade(1, "Tests", 70))
	require.NoError(t, w.AddCategoryGrade(1, "Labs", 100))

	d, err := w.Detail(1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", d.Name)
	assert.Equal(t, []float64{95, 70, 100}, d.Grades)
	assert.InDelta(t, 88.333, d.Average, 0.001)
	assert.Equal(t, model.GradeB, d.Letter)
	assert.InDelta(t, 70.0, d.WeightedAverage, 1e-9)
	assert.Equal(t, model.GradeC, d.WeightedLetter)

	require.Len(t, d.Subjects, 1)
	assert.Equal(t, SubjectDetail{Name: "Math", Grades: []float64{95}, Average: 95, Letter: model.GradeA}, d.Subjects[0])

	require.Len(t, d.Categories, 2)
	assert.Equal(t, CategoryDetail{Name: "Tests", Grades: []float64{70}, Average: 70, Weight: 0.5, Weighted: true}, d.Categories[0])
	assert.Equal(t, CategoryDetail{Name: "Labs", Grades: []float64{100}, Average: 100}, d.Categories[1])

	_, err = w.Detail(2)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Len(t, w.Details(), 1)
}
