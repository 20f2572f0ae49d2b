package model

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
)

// Grade bounds, inclusive.
const (
	MinGrade = 0.0
	MaxGrade = 100.0
)

// NoGradesMarker is shown, and persisted, for a student without grades.
const NoGradesMarker = "No grades"

// ValidateGrade rejects values outside [MinGrade, MaxGrade] and NaN.
func ValidateGrade(value float64) error {
	if math.IsNaN(value) || value < MinGrade || value > MaxGrade {
		return fmt.Errorf("%w: grade %v must be between %.0f and %.0f", common.ErrOutOfRange, value, MinGrade, MaxGrade)
	}
	return nil
}

// ErrInvalidName marks a student name that cannot be stored one record per
// line with comma separated fields.
var ErrInvalidName = fmt.Errorf("%w: invalid student name", common.ErrInvalidInput)

// reservedNameChars may not appear in a student name.
const reservedNameChars = ",\r\n"

// ValidateName rejects blank names and names containing a comma or a line
// break.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: student name cannot be empty", common.ErrInvalidInput)
	}
	if strings.ContainsAny(name, reservedNameChars) {
		return fmt.Errorf("%w: %q contains a comma or line break", ErrInvalidName, name)
	}
	return nil
}

// Student is a single gradebook entry. The id is only unique within a
// gradebook, which enforces it on insertion.
type Student struct {
	subjectGrades map[string][]float64
	name          string
	grades        []float64
	subjects      []string
	id            int
}

// NewStudent creates a student without grades.
func NewStudent(name string, id int) *Student {
	return &Student{
		name:          name,
		id:            id,
		subjectGrades: make(map[string][]float64),
	}
}

// Name returns the student's name.
func (s *Student) Name() string {
	return s.name
}

// ID returns the student's id.
func (s *Student) ID() int {
	return s.id
}

// AddGrade appends an overall grade. Out-of-range values are not stored.
func (s *Student) AddGrade(value float64) error {
	if err := ValidateGrade(value); err != nil {
		return err
	}
	s.grades = append(s.grades, value)
	return nil
}

// AddGradeForSubject appends value to the subject's list, creating it on
// first use, and to the overall grades.
func (s *Student) AddGradeForSubject(subject string, value float64) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return fmt.Errorf("%w: subject name cannot be empty", common.ErrInvalidInput)
	}
	if err := ValidateGrade(value); err != nil {
		return err
	}

	if _, ok := s.subjectGrades[subject]; !ok {
		s.subjects = append(s.subjects, subject)
	}
	s.subjectGrades[subject] = append(s.subjectGrades[subject], value)
	s.grades = append(s.grades, value)
	return nil
}

// Average is the mean of the overall grades, 0 when there are none.
func (s *Student) Average() float64 {
	return Mean(s.grades)
}

// LetterGrade buckets Average.
func (s *Student) LetterGrade() LetterGrade {
	return LetterFor(s.Average())
}

// SubjectAverage is the mean of one subject's grades, 0 for unknown subjects.
func (s *Student) SubjectAverage(subject string) float64 {
	return Mean(s.subjectGrades[subject])
}

// SubjectLetterGrade buckets SubjectAverage.
func (s *Student) SubjectLetterGrade(subject string) LetterGrade {
	return LetterFor(s.SubjectAverage(subject))
}

// Grades returns a copy of the overall grades in insertion order.
func (s *Student) Grades() []float64 {
	return slices.Clone(s.grades)
}

// GradeCount is the number of overall grades.
func (s *Student) GradeCount() int {
	return len(s.grades)
}

// Subjects returns the subject names in first-use order.
func (s *Student) Subjects() []string {
	return slices.Clone(s.subjects)
}

// SubjectGrades returns a copy of one subject's grades.
func (s *Student) SubjectGrades(subject string) []float64 {
	return slices.Clone(s.subjectGrades[subject])
}

// SubjectGradeCount is the number of grades recorded for subject.
func (s *Student) SubjectGradeCount(subject string) int {
	return len(s.subjectGrades[subject])
}

// FormatGrades renders the overall grades as "85.0, 92.5" or NoGradesMarker.
func (s *Student) FormatGrades() string {
	return FormatGrades(s.grades)
}

// FormatGrades renders values with one decimal, comma separated.
func FormatGrades(values []float64) string {
	if len(values) == 0 {
		return NoGradesMarker
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ", ")
}

// String implements fmt.Stringer with the one-line summary used in listings.
func (s *Student) String() string {
	return fmt.Sprintf("Student: %s (ID: %d) - Average: %.2f (%s) - Grades: [%s]",
		s.name, s.id, s.Average(), s.LetterGrade(), s.FormatGrades())
}

// SubjectRecord is the persisted form of one subject's grades.
type SubjectRecord struct {
	Name   string    `json:"name" yaml:"name" validate:"notblank"`
	Grades []float64 `json:"grades" yaml:"grades" validate:"dive,gte=0,lte=100"`
}

// StudentRecord is a value snapshot of a Student.
type StudentRecord struct {
	Name     string          `json:"name" yaml:"name" validate:"notblank"`
	Grades   []float64       `json:"grades" yaml:"grades" validate:"dive,gte=0,lte=100"`
	Subjects []SubjectRecord `json:"subjects,omitempty" yaml:"subjects,omitempty" validate:"dive"`
	ID       int             `json:"id" yaml:"id"`
}

// Record returns a snapshot of the student that shares no memory with it.
func (s *Student) Record() StudentRecord {
	rec := StudentRecord{
		Name:   s.name,
		ID:     s.id,
		Grades: s.Grades(),
	}
	for _, subject := range s.subjects {
		rec.Subjects = append(rec.Subjects, SubjectRecord{
			Name:   subject,
			Grades: s.SubjectGrades(subject),
		})
	}
	return rec
}

// MirrorSubjectGrades returns a copy of rec whose overall grades also hold
// every subject grade. Subject grades already present in Grades are matched
// one for one and not added again, so a record taken with Student.Record is
// returned unchanged.
func (rec StudentRecord) MirrorSubjectGrades() StudentRecord {
	out := rec
	out.Grades = slices.Clone(rec.Grades)
	out.Subjects = make([]SubjectRecord, 0, len(rec.Subjects))

	unmatched := make(map[float64]int, len(rec.Grades))
	for _, g := range rec.Grades {
		unmatched[g]++
	}
	for _, subject := range rec.Subjects {
		for _, g := range subject.Grades {
			if unmatched[g] > 0 {
				unmatched[g]--
				continue
			}
			out.Grades = append(out.Grades, g)
		}
		out.Subjects = append(out.Subjects, SubjectRecord{
			Name:   subject.Name,
			Grades: slices.Clone(subject.Grades),
		})
	}
	return out
}

// RestoreStudent rebuilds a student from a snapshot. Subject grades are
// restored as recorded and are not mirrored into the overall list again.
func RestoreStudent(rec StudentRecord) (*Student, error) {
	if err := ValidateName(rec.Name); err != nil {
		return nil, fmt.Errorf("student %d: %w", rec.ID, err)
	}

	s := NewStudent(rec.Name, rec.ID)
	for _, g := range rec.Grades {
		if err := s.AddGrade(g); err != nil {
			return nil, fmt.Errorf("student %d: %w", rec.ID, err)
		}
	}

	for _, subject := range rec.Subjects {
		name := strings.TrimSpace(subject.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: student %d has an unnamed subject", common.ErrInvalidInput, rec.ID)
		}
		if _, dup := s.subjectGrades[name]; dup {
			return nil, fmt.Errorf("%w: student %d subject %q", common.ErrDuplicateEntry, rec.ID, name)
		}
		for _, g := range subject.Grades {
			if err := ValidateGrade(g); err != nil {
				return nil, fmt.Errorf("student %d subject %q: %w", rec.ID, name, err)
			}
		}
		s.subjects = append(s.subjects, name)
		s.subjectGrades[name] = slices.Clone(subject.Grades)
	}

	return s, nil
}
