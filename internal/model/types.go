package model

// Class is a homeroom group of students.
type Class struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name" validate:"required"`
	Teacher string `json:"teacher" yaml:"teacher"`
}

// Subject is a taught subject, independent of any class.
type Subject struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

// Student belongs to at most one class. StudentNumber is display-only and
// not guaranteed unique.
type Student struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name" validate:"required"`
	StudentNumber string `json:"nis" yaml:"nis"`
	ClassID       string `json:"classId" yaml:"classId"`
}

// Category is a grading component type such as "Daily Test" or "Midterm".
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
}

// Weight assigns a percentage to a category.
type Weight struct {
	ID         string  `json:"id" yaml:"id"`
	CategoryID string  `json:"categoryId" yaml:"categoryId" validate:"required"`
	Percentage float64 `json:"weight" yaml:"weight" validate:"gte=0,lte=100"`
}

// Score is one assessment result for a student.
// At most one Score exists per (StudentID, CategoryID, SubjectID, Assessment).
type Score struct {
	ID         string `json:"id" yaml:"id"`
	StudentID  string `json:"studentId" yaml:"studentId" validate:"required"`
	CategoryID string `json:"categoryId" yaml:"categoryId" validate:"required"`
	SubjectID  string `json:"subjectId" yaml:"subjectId" validate:"required"`
	Assessment string `json:"assessmentName" yaml:"assessmentName" validate:"required"`
	Value      Value  `json:"value" yaml:"value" validate:"gte=0,lte=100"`
}

// ScoreKey identifies the slot a Score occupies.
type ScoreKey struct {
	StudentID  string
	CategoryID string
	SubjectID  string
	Assessment string
}

// Key returns the uniqueness key of the score.
func (s Score) Key() ScoreKey {
	return ScoreKey{
		StudentID:  s.StudentID,
		CategoryID: s.CategoryID,
		SubjectID:  s.SubjectID,
		Assessment: s.Assessment,
	}
}

// AttendanceStatus is one of the four fixed attendance outcomes.
// The string values are the persisted ones.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "hadir"
	StatusSick    AttendanceStatus = "sakit"
	StatusExcused AttendanceStatus = "ijin"
	StatusAbsent  AttendanceStatus = "alfa"
)

// AttendanceStatuses lists the statuses in report column order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusSick, StatusExcused, StatusAbsent}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusSick, StatusExcused, StatusAbsent:
		return true
	default:
		return false
	}
}

// Label returns the English name of the status.
func (s AttendanceStatus) Label() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusSick:
		return "sick"
	case StatusExcused:
		return "excused"
	case StatusAbsent:
		return "absent"
	default:
		return string(s)
	}
}

// ParseAttendanceStatus accepts either the persisted value or the English label.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	for _, st := range AttendanceStatuses {
		if s == string(st) || s == st.Label() {
			return st, true
		}
	}
	return "", false
}

// AttendanceRecord is one student's attendance for one lesson.
// Date uses the yyyy-MM-dd layout so that string comparison orders dates.
type AttendanceRecord struct {
	ID        string           `json:"id" yaml:"id"`
	StudentID string           `json:"studentId" yaml:"studentId" validate:"required"`
	ClassID   string           `json:"classId" yaml:"classId" validate:"required"`
	SubjectID string           `json:"subjectId" yaml:"subjectId" validate:"required"`
	Date      string           `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Status    AttendanceStatus `json:"status" yaml:"status" validate:"attendance"`
	Notes     string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// JournalEntry is a daily teaching journal entry.
type JournalEntry struct {
	ID        string `json:"id" yaml:"id"`
	Date      string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	ClassID   string `json:"class" yaml:"class" validate:"required"`
	SubjectID string `json:"subject" yaml:"subject" validate:"required"`
	Material  string `json:"material" yaml:"material" validate:"required"`
	Method    string `json:"method" yaml:"method"`
	Notes     string `json:"notes" yaml:"notes"`
}

// Schedule is one weekly timetable slot.
type Schedule struct {
	ID        string `json:"id" yaml:"id"`
	SubjectID string `json:"subject" yaml:"subject" validate:"required"`
	Day       string `json:"day" yaml:"day" validate:"weekday"`
	ClassID   string `json:"classId" yaml:"classId" validate:"required"`
	StartTime string `json:"startTime" yaml:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" yaml:"endTime" validate:"required,datetime=15:04"`
}

// Weekdays lists the accepted schedule days in week order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex returns the position of day in Weekdays, or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}
