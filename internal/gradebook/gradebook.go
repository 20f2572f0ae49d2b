// Package gradebook holds the roster of students and the statistics computed
// over it, with an optional category-weighted view.
package gradebook

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Gradebook is an insertion-ordered roster of students with unique ids.
// It is not safe for concurrent use.
type Gradebook struct {
	students []*model.Student
}

// New returns an empty gradebook.
func New() *Gradebook {
	return &Gradebook{}
}

// AddStudent appends a new student. It fails if the id is already taken.
func (g *Gradebook) AddStudent(name string, id int) (*model.Student, error) {
	name = strings.TrimSpace(name)
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := g.FindByID(id); err == nil {
		return nil, fmt.Errorf("%w: student with ID %d already exists", common.ErrDuplicateEntry, id)
	}

	s := model.NewStudent(name, id)
	g.students = append(g.students, s)
	slog.Debug("added student", "student_id", id, "name", name)
	return s, nil
}

// AddStudents adds every record whose id is free, keeping insertion order.
// Subject grades missing from a record's overall grades are added to them.
// Records that fail are skipped; their errors are joined in the result.
func (g *Gradebook) AddStudents(records []model.StudentRecord) (int, error) {
	var errs []error
	added := 0
	for _, rec := range records {
		if err := g.addRecord(rec.MirrorSubjectGrades()); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}

func (g *Gradebook) addRecord(rec model.StudentRecord) error {
	if _, err := g.FindByID(rec.ID); err == nil {
		return fmt.Errorf("%w: student with ID %d already exists", common.ErrDuplicateEntry, rec.ID)
	}
	s, err := model.RestoreStudent(rec)
	if err != nil {
		return err
	}
	g.students = append(g.students, s)
	return nil
}

// FindByID returns the student with id.
func (g *Gradebook) FindByID(id int) (*model.Student, error) {
	for _, s := range g.students {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: student with ID %d", common.ErrNotFound, id)
}

// AddGrade records an overall grade for a student.
func (g *Gradebook) AddGrade(id int, value float64) error {
	s, err := g.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.AddGrade(value); err != nil {
		return err
	}
	slog.Debug("added grade", "student_id", id, "grade", value)
	return nil
}

// AddSubjectGrade records a grade under a subject for a student.
func (g *Gradebook) AddSubjectGrade(id int, subject string, value float64) error {
	s, err := g.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.AddGradeForSubject(subject, value); err != nil {
		return err
	}
	slog.Debug("added subject grade", "student_id", id, "subject", subject, "grade", value)
	return nil
}

// Students returns the students in insertion order. The slice is a copy;
// the students themselves are only mutable through validated methods.
func (g *Gradebook) Students() []*model.Student {
	return slices.Clone(g.students)
}

// Len is the number of students.
func (g *Gradebook) Len() int {
	return len(g.students)
}

// Ranking is one row of a ranked listing.
type Ranking struct {
	Name    string            `json:"name" yaml:"name"`
	Letter  model.LetterGrade `json:"letter" yaml:"letter"`
	Average float64           `json:"average" yaml:"average"`
	ID      int               `json:"id" yaml:"id"`
	Rank    int               `json:"rank" yaml:"rank"`
}

// RankByAverage orders students by descending average. Ties keep
// insertion order.
func (g *Gradebook) RankByAverage() []Ranking {
	return rank(g.students, func(s *model.Student) float64 { return s.Average() })
}

func rank(students []*model.Student, score func(*model.Student) float64) []Ranking {
	rows := make([]Ranking, 0, len(students))
	for _, s := range students {
		avg := score(s)
		rows = append(rows, Ranking{
			Name:    s.Name(),
			ID:      s.ID(),
			Average: avg,
			Letter:  model.LetterFor(avg),
		})
	}

	slices.SortStableFunc(rows, func(a, b Ranking) int {
		return cmp.Compare(b.Average, a.Average)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Distribution counts students per letter grade.
type Distribution map[model.LetterGrade]int

// Distribution buckets every student by current letter grade. All five
// letters are present, zero or not.
func (g *Gradebook) Distribution() Distribution {
	d := make(Distribution, len(model.Letters))
	for _, l := range model.Letters {
		d[l] = 0
	}
	for _, s := range g.students {
		d[s.LetterGrade()]++
	}
	return d
}

// ClassStatistics summarizes the roster. ClassAverage is the mean of the
// per-student averages, not of every individual grade.
type ClassStatistics struct {
	StudentCount   int     `json:"student_count" yaml:"student_count"`
	GradeCount     int     `json:"grade_count" yaml:"grade_count"`
	ClassAverage   float64 `json:"class_average" yaml:"class_average"`
	HighestAverage float64 `json:"highest_average" yaml:"highest_average"`
	LowestAverage  float64 `json:"lowest_average" yaml:"lowest_average"`
}

// Statistics computes the class statistics; an empty roster yields zeros.
func (g *Gradebook) Statistics() ClassStatistics {
	stats := ClassStatistics{StudentCount: len(g.students)}
	if len(g.students) == 0 {
		return stats
	}

	averages := make([]float64, 0, len(g.students))
	for _, s := range g.students {
		averages = append(averages, s.Average())
		stats.GradeCount += s.GradeCount()
	}

	stats.ClassAverage = model.Mean(averages)
	stats.HighestAverage = slices.Max(averages)
	stats.LowestAverage = slices.Min(averages)
	return stats
}
