package models

import (
	"fmt"
	"time"
)

const (
	SemesterOdd  = "odd"  // July–December
	SemesterEven = "even" // January–June
)

// AcademicYearAt returns the "YYYY/YYYY" academic year containing t.
// The academic year runs July through June.
func AcademicYearAt(t time.Time) string {
	y := t.Year()
	if t.Month() >= time.July {
		return fmt.Sprintf("%d/%d", y, y+1)
	}
	return fmt.Sprintf("%d/%d", y-1, y)
}

func SemesterAt(t time.Time) string {
	if t.Month() >= time.July {
		return SemesterOdd
	}
	return SemesterEven
}
