package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and applies NFC normalisation so
// that visually identical names compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeClass normalises the free-text fields of c in place.
func NormalizeClass(c *Class) {
	c.Name = Normalize(c.Name)
	c.Teacher = Normalize(c.Teacher)
}

// NormalizeSubject normalises the free-text fields of s in place.
func NormalizeSubject(s *Subject) {
	s.Name = Normalize(s.Name)
	s.Code = Normalize(s.Code)
	s.Description = Normalize(s.Description)
}

// NormalizeStudent normalises the free-text fields of s in place.
func NormalizeStudent(s *Student) {
	s.Name = Normalize(s.Name)
	s.StudentNumber = Normalize(s.StudentNumber)
}

// NormalizeCategory normalises the free-text fields of c in place.
func NormalizeCategory(c *Category) {
	c.Name = Normalize(c.Name)
	c.Description = Normalize(c.Description)
}
