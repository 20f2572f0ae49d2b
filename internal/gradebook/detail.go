package gradebook

import "github.com/Veraticus/gradebook/internal/model"

// SubjectDetail is a per-subject breakdown row.
type SubjectDetail struct {
	Name    string            `json:"name" yaml:"name"`
	Letter  model.LetterGrade `json:"letter" yaml:"letter"`
	Grades  []float64         `json:"grades" yaml:"grades"`
	Average float64           `json:"average" yaml:"average"`
}

// CategoryDetail is a per-category breakdown row. Weight is 0 and Weighted
// false when the category has no configured weight.
type CategoryDetail struct {
	Name     string    `json:"name" yaml:"name"`
	Grades   []float64 `json:"grades" yaml:"grades"`
	Average  float64   `json:"average" yaml:"average"`
	Weight   float64   `json:"weight" yaml:"weight"`
	Weighted bool      `json:"weighted" yaml:"weighted"`
}

// StudentDetail is everything known about one student, computed once.
type StudentDetail struct {
	Name            string            `json:"name" yaml:"name"`
	Letter          model.LetterGrade `json:"letter" yaml:"letter"`
	WeightedLetter  model.LetterGrade `json:"weighted_letter" yaml:"weighted_letter"`
	Grades          []float64         `json:"grades" yaml:"grades"`
	Subjects        []SubjectDetail   `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Categories      []CategoryDetail  `json:"categories,omitempty" yaml:"categories,omitempty"`
	ID              int               `json:"id" yaml:"id"`
	Average         float64           `json:"average" yaml:"average"`
	WeightedAverage float64           `json:"weighted_average" yaml:"weighted_average"`
}

// Detail builds the breakdown for one student.
func (w *Weighted) Detail(id int) (StudentDetail, error) {
	s, err := w.FindByID(id)
	if err != nil {
		return StudentDetail{}, err
	}
	return w.detail(s), nil
}

// Details builds the breakdown for every student in insertion order.
func (w *Weighted) Details() []StudentDetail {
	out := make([]StudentDetail, 0, len(w.students))
	for _, s := range w.students {
		out = append(out, w.detail(s))
	}
	return out
}

func (w *Weighted) detail(s *model.Student) StudentDetail {
	weighted := w.weightedAverage(s)
	d := StudentDetail{
		Name:            s.Name(),
		ID:              s.ID(),
		Grades:          s.Grades(),
		Average:         s.Average(),
		Letter:          s.LetterGrade(),
		WeightedAverage: weighted,
		WeightedLetter:  model.LetterFor(weighted),
	}

	for _, subject := range s.Subjects() {
		d.Subjects = append(d.Subjects, SubjectDetail{
			Name:    subject,
			Grades:  s.SubjectGrades(subject),
			Average: s.SubjectAverage(subject),
			Letter:  s.SubjectLetterGrade(subject),
		})
	}

	for _, category := range w.categoryOrder[s.ID()] {
		weight, ok := w.weights[category]
		d.Categories = append(d.Categories, CategoryDetail{
			Name:     category,
			Grades:   w.CategoryGrades(s.ID(), category),
			Average:  w.CategoryAverage(s.ID(), category),
			Weight:   weight,
			Weighted: ok,
		})
	}

	return d
}
