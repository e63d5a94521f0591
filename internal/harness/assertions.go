package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/gradebook/internal/backup"
	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/report"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // assertion type
	Target   string // what was checked, e.g. "Ayu Daily/Math"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s %s\n", e.Type, e.Target)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	Query Query
	Names *backup.Names
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertAverage:
			err = assertAverage(result, a, actx.Names)
		case AssertFinal:
			err = assertFinal(result, a, actx.Names)
		case AssertCell:
			err = assertCell(result, a, actx.Names)
		case AssertRows:
			err = assertRows(result, a)
		case AssertAttendance:
			err = assertAttendance(result, a, actx)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// row finds the report row of a student by name or number.
func row(result *Result, names *backup.Names, student string) (report.StudentScores, error) {
	id, err := names.Student(student)
	if err != nil {
		return report.StudentScores{}, err
	}
	for _, r := range result.Scores.Rows {
		if r.Student.ID == id {
			return r, nil
		}
	}
	return report.StudentScores{}, fmt.Errorf("student %q is not in the report", student)
}

func assertAverage(result *Result, a Assertion, names *backup.Names) error {
	r, err := row(result, names, a.Student)
	if err != nil {
		return err
	}
	categoryID, err := names.Category(a.Category)
	if err != nil {
		return err
	}
	subjectID, err := names.Subject(a.Subject)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s %s/%s", a.Student, a.Category, a.Subject)
	got, ok := r.Average(categoryID, subjectID)
	switch {
	case a.Absent && ok:
		return &AssertionError{Type: a.Type, Target: target, Expected: "no average", Actual: model.FormatNumber(got)}
	case a.Absent:
		return nil
	case !ok:
		return &AssertionError{Type: a.Type, Target: target, Expected: model.FormatNumber(*a.Expect), Actual: "no average"}
	}
	return compare(a.Type, target, *a.Expect, got)
}

func assertFinal(result *Result, a Assertion, names *backup.Names) error {
	r, err := row(result, names, a.Student)
	if err != nil {
		return err
	}
	subjectID, err := names.Subject(a.Subject)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s %s", a.Student, a.Subject)
	got, ok := r.Final(subjectID)
	if !ok {
		return &AssertionError{Type: a.Type, Target: target, Expected: model.FormatNumber(*a.Expect), Actual: "subject not in report"}
	}
	return compare(a.Type, target, *a.Expect, got)
}

func assertCell(result *Result, a Assertion, names *backup.Names) error {
	r, err := row(result, names, a.Student)
	if err != nil {
		return err
	}
	col := slices.Index(result.Table.Header, a.Column)
	if col < 0 {
		return &AssertionError{Type: a.Type, Target: a.Column, Expected: "column in table", Actual: strings.Join(result.Table.Header, ", ")}
	}
	idx := slices.IndexFunc(result.Scores.Rows, func(s report.StudentScores) bool { return s.Student.ID == r.Student.ID })
	got := result.Table.Rows[idx][col]
	if got != a.Value {
		return &AssertionError{Type: a.Type, Target: a.Student + " " + a.Column, Expected: a.Value, Actual: got}
	}
	return nil
}

func assertRows(result *Result, a Assertion) error {
	if got := len(result.Scores.Rows); got != *a.Count {
		return &AssertionError{Type: a.Type, Target: "report", Expected: fmt.Sprint(*a.Count), Actual: fmt.Sprint(got)}
	}
	return nil
}

func assertAttendance(result *Result, a Assertion, actx *AssertionContext) error {
	studentID, err := actx.Names.Student(a.Student)
	if err != nil {
		return err
	}
	subjectID, err := subjectOrAll(actx.Names, actx.Query.Subject)
	if err != nil {
		return err
	}
	q := report.AttendanceQuery{
		ClassID:   result.Scores.ClassID,
		SubjectID: subjectID,
		From:      actx.Query.From,
		To:        actx.Query.To,
	}
	rep := report.BuildAttendanceReport(&result.Dataset, q)
	for _, r := range rep.Rows {
		if r.Student.ID == studentID {
			return compare(a.Type, a.Student, *a.Expect, model.Round(r.Percentage))
		}
	}
	return fmt.Errorf("student %q is not in the attendance report", a.Student)
}

// compare treats two NaNs as equal.
func compare(typ, target string, want, got float64) error {
	if want == got || (math.IsNaN(want) && math.IsNaN(got)) {
		return nil
	}
	return &AssertionError{Type: typ, Target: target, Expected: model.FormatNumber(want), Actual: model.FormatNumber(got)}
}
