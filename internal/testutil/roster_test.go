package testutil

import (
	"testing"

	"github.com/Veraticus/gradebook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterBuilder(t *testing.T) {
	book := NewRosterBuilder(t).
		WithWeights(model.Weights{"Labs": 0.5}).
		WithStudent("Ada", 1, 85).
		WithSubjectGrades(1, "Math", 90).
		WithCategoryGrades(1, "Labs", 70, 80).
		Build()

	student, err := book.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{85, 90, 70, 80}, student.Grades())
	assert.Equal(t, []float64{90}, student.SubjectGrades("Math"))
	assert.Equal(t, []float64{70, 80}, book.CategoryGrades(1, "Labs"))
	assert.Equal(t, model.Weights{"Labs": 0.5}, book.Weights())
}

func TestClassOfThree(t *testing.T) {
	rankings := ClassOfThree(t).RankByAverage()
	require.Len(t, rankings, 3)
	assert.Equal(t, "Grace", rankings[0].Name)
	assert.Equal(t, "Linus", rankings[1].Name)
	assert.Equal(t, "Ada", rankings[2].Name)
}
