package analytics

import "math"

// GradeBoundary is one row of the grade table.
type GradeBoundary struct {
	Grade       string
	MinPercent  float64
	Description string
}

// gradeTable is ordered best-first. The assigned grade is the first
// entry whose threshold the percentage meets.
var gradeTable = []GradeBoundary{
	{"A*", 90, "Outstanding"},
	{"A", 80, "Excellent"},
	{"B", 70, "Very good"},
	{"C", 60, "Good"},
	{"D", 50, "Satisfactory"},
	{"E", 40, "Pass"},
	{"F", 30, "Weak pass"},
	{"G", 20, "Marginal"},
	{"U", 0, "Ungraded"},
}

// GradeBoundaries returns a copy of the grade table, best-first.
func GradeBoundaries() []GradeBoundary {
	out := make([]GradeBoundary, len(gradeTable))
	copy(out, gradeTable)
	return out
}

// ProjectGrade places a percentage on the grade table and, when a
// higher grade exists, converts the percentage gap to it into whole
// marks on this paper, rounded up.
func ProjectGrade(percentage, totalMarks float64) GradeProjection {
	idx := len(gradeTable) - 1
	for i, b := range gradeTable {
		if percentage >= b.MinPercent {
			idx = i
			break
		}
	}

	proj := GradeProjection{
		Grade:       gradeTable[idx].Grade,
		Description: gradeTable[idx].Description,
		Percentage:  percentage,
	}
	if idx > 0 {
		next := gradeTable[idx-1]
		proj.NextGrade = next.Grade
		proj.NextThreshold = next.MinPercent
		if totalMarks > 0 {
			gap := (next.MinPercent - percentage) / 100 * totalMarks
			proj.MarksToNextGrade = int(math.Ceil(gap))
		}
	}
	return proj
}
