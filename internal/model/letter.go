package model

// LetterGrade is the coarse A-F bucket derived from a numeric average.
type LetterGrade string

// Letter grades, best first.
const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// Letters lists every letter grade from best to worst.
var Letters = []LetterGrade{GradeA, GradeB, GradeC, GradeD, GradeF}

// LetterFor buckets an average: >=90 A, >=80 B, >=70 C, >=60 D, otherwise F.
func LetterFor(average float64) LetterGrade {
	switch {
	case average >= 90:
		return GradeA
	case average >= 80:
		return GradeB
	case average >= 70:
		return GradeC
	case average >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// RangeLabel returns the human label for the bucket, e.g. "A (90-100)".
func (g LetterGrade) RangeLabel() string {
	switch g {
	case GradeA:
		return "A (90-100)"
	case GradeB:
		return "B (80-89)"
	case GradeC:
		return "C (70-79)"
	case GradeD:
		return "D (60-69)"
	case GradeF:
		return "F (0-59)"
	default:
		return string(g)
	}
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
