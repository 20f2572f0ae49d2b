package model

import (
	"math"
	"testing"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudent_AddGrade(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantCount int
		wantErr   bool
	}{
		{name: "lower bound", value: 0, wantCount: 1},
		{name: "upper bound", value: 100, wantCount: 1},
		{name: "fractional", value: 87.25, wantCount: 1},
		{name: "negative", value: -0.5, wantCount: 0, wantErr: true},
		{name: "above max", value: 100.01, wantCount: 0, wantErr: true},
		{name: "not a number", value: math.NaN(), wantCount: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStudent("Ada", 1)
			err := s.AddGrade(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrOutOfRange)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, s.GradeCount())
		})
	}
}

func TestStudent_Average(t *testing.T) {
	s := NewStudent("Ada", 1)
	assert.Equal(t, 0.0, s.Average())
	assert.Equal(t, GradeF, s.LetterGrade())

	require.NoError(t, s.AddGrade(100))
	require.NoError(t, s.AddGrade(80))
	assert.Equal(t, 90.0, s.Average())
	assert.Equal(t, GradeA, s.LetterGrade())
}

func TestStudent_AddGradeForSubject(t *testing.T) {
	s := NewStudent("Grace", 2)

	require.NoError(t, s.AddGradeForSubject("Math", 90))
	require.NoError(t, s.AddGradeForSubject("Physics", 70))
	require.NoError(t, s.AddGradeForSubject("Math", 80))

	assert.Equal(t, []string{"Math", "Physics"}, s.Subjects())
	assert.Equal(t, []float64{90, 80}, s.SubjectGrades("Math"))
	assert.Equal(t, 2, s.SubjectGradeCount("Math"))
	assert.Equal(t, 85.0, s.SubjectAverage("Math"))
	assert.Equal(t, GradeB, s.SubjectLetterGrade("Math"))
	assert.Equal(t, GradeC, s.SubjectLetterGrade("Physics"))

	// Subject grades also count toward the overall average.
	assert.Equal(t, []float64{90, 70, 80}, s.Grades())
	assert.Equal(t, 80.0, s.Average())

	assert.Equal(t, 0.0, s.SubjectAverage("History"))
	assert.Equal(t, 0, s.SubjectGradeCount("History"))
	assert.Empty(t, s.SubjectGrades("History"))
}

func TestStudent_AddGradeForSubject_Rejects(t *testing.T) {
	s := NewStudent("Grace", 2)

	err := s.AddGradeForSubject("Math", 150)
	assert.ErrorIs(t, err, common.ErrOutOfRange)

	err = s.AddGradeForSubject("   ", 50)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	assert.Empty(t, s.Subjects())
	assert.Equal(t, 0, s.GradeCount())
}

func TestStudent_GettersReturnCopies(t *testing.T) {
	s := NewStudent("Linus", 3)
	require.NoError(t, s.AddGradeForSubject("Art", 75))

	grades := s.Grades()
	grades[0] = 0
	subjects := s.Subjects()
	subjects[0] = "Changed"
	subjectGrades := s.SubjectGrades("Art")
	subjectGrades[0] = 0

	assert.Equal(t, []float64{75}, s.Grades())
	assert.Equal(t, []string{"Art"}, s.Subjects())
	assert.Equal(t, []float64{75}, s.SubjectGrades("Art"))
}

func TestStudent_Formatting(t *testing.T) {
	s := NewStudent("Ada", 7)
	assert.Equal(t, NoGradesMarker, s.FormatGrades())
	assert.Equal(t, "Student: Ada (ID: 7) - Average: 0.00 (F) - Grades: [No grades]", s.String())

	require.NoError(t, s.AddGrade(85))
	require.NoError(t, s.AddGrade(92.5))
	assert.Equal(t, "85.0, 92.5", s.FormatGrades())
	assert.Equal(t, "Student: Ada (ID: 7) - Average: 88.75 (B) - Grades: [85.0, 92.5]", s.String())
}

func TestStudent_RecordRoundTrip(t *testing.T) {
	s := NewStudent("Ada", 7)
	require.NoError(t, s.AddGrade(60))
	require.NoError(t, s.AddGradeForSubject("Math", 95))
	require.NoError(t, s.AddGradeForSubject("Art", 72.5))

	rec := s.Record()
	assert.Equal(t, "Ada", rec.Name)
	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, []float64{60, 95, 72.5}, rec.Grades)
	require.Len(t, rec.Subjects, 2)

	restored, err := RestoreStudent(rec)
	require.NoError(t, err)
	assert.Equal(t, s.Grades(), restored.Grades())
	assert.Equal(t, s.Subjects(), restored.Subjects())
	assert.Equal(t, s.SubjectGrades("Math"), restored.SubjectGrades("Math"))
	assert.Equal(t, s.Average(), restored.Average())

	// The snapshot is detached from the student.
	rec.Grades[0] = 0
	assert.Equal(t, 60.0, s.Grades()[0])
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		want error
		name string
	}{
		{name: "Ada Lovelace"},
		{name: "O'Brien-Smith"},
		{name: "", want: common.ErrInvalidInput},
		{name: "   ", want: common.ErrInvalidInput},
		{name: "Smith, John", want: ErrInvalidName},
		{name: "Ada\nLovelace", want: ErrInvalidName},
		{name: "Ada\r", want: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStudentRecord_MirrorSubjectGrades(t *testing.T) {
	tests := []struct {
		name string
		rec  StudentRecord
		want []float64
	}{
		{
			name: "subject grades only",
			rec:  StudentRecord{Name: "Ada", ID: 1, Subjects: []SubjectRecord{{Name: "Math", Grades: []float64{90, 100}}}},
			want: []float64{90, 100},
		},
		{
			name: "already counted",
			rec: StudentRecord{Name: "Ada", ID: 1, Grades: []float64{60, 95, 72.5}, Subjects: []SubjectRecord{
				{Name: "Math", Grades: []float64{95}},
				{Name: "Art", Grades: []float64{72.5}},
			}},
			want: []float64{60, 95, 72.5},
		},
		{
			name: "repeated value counted once per occurrence",
			rec: StudentRecord{Name: "Ada", ID: 1, Grades: []float64{80}, Subjects: []SubjectRecord{
				{Name: "Math", Grades: []float64{80, 80}},
			}},
			want: []float64{80, 80},
		},
		{
			name: "no subjects",
			rec:  StudentRecord{Name: "Ada", ID: 1, Grades: []float64{70}},
			want: []float64{70},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rec.MirrorSubjectGrades()
			assert.Equal(t, tt.want, got.Grades)
			assert.Equal(t, len(tt.rec.Subjects), len(got.Subjects))
		})
	}
}

func TestStudentRecord_MirrorSubjectGradesDetached(t *testing.T) {
	rec := StudentRecord{Name: "Ada", ID: 1, Grades: []float64{50}, Subjects: []SubjectRecord{
		{Name: "Math", Grades: []float64{90}},
	}}

	got := rec.MirrorSubjectGrades()
	got.Grades[0] = 0
	got.Subjects[0].Grades[0] = 0

	assert.Equal(t, []float64{50}, rec.Grades)
	assert.Equal(t, []float64{90}, rec.Subjects[0].Grades)
}

func TestRestoreStudent_Invalid(t *testing.T) {
	tests := []struct {
		want error
		name string
		rec  StudentRecord
	}{
		{
			name: "missing name",
			rec:  StudentRecord{ID: 1},
			want: common.ErrInvalidInput,
		},
		{
			name: "comma in name",
			rec:  StudentRecord{Name: "Smith, John", ID: 1},
			want: ErrInvalidName,
		},
		{
			name: "grade out of range",
			rec:  StudentRecord{Name: "Ada", ID: 1, Grades: []float64{101}},
			want: common.ErrOutOfRange,
		},
		{
			name: "subject grade out of range",
			rec: StudentRecord{Name: "Ada", ID: 1, Subjects: []SubjectRecord{
				{Name: "Math", Grades: []float64{-1}},
			}},
			want: common.ErrOutOfRange,
		},
		{
			name: "duplicate subject",
			rec: StudentRecord{Name: "Ada", ID: 1, Subjects: []SubjectRecord{
				{Name: "Math"}, {Name: "Math"},
			}},
			want: common.ErrDuplicateEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreStudent(tt.rec)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
