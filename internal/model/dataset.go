package model

// Dataset is a point-in-time copy of every collection.
//
// Aggregation is a pure function of a Dataset; callers read a fresh one for
// each run instead of caching it. Revision identifies the store state the
// dataset was read at.
type Dataset struct {
	Revision    int64              `json:"-" yaml:"-"`
	Classes     []Class            `json:"classes" yaml:"classes"`
	Students    []Student          `json:"students" yaml:"students"`
	Subjects    []Subject          `json:"subjects" yaml:"subjects"`
	Categories  []Category         `json:"categories" yaml:"categories"`
	Weights     []Weight           `json:"weights" yaml:"weights"`
	Scores      []Score            `json:"scores" yaml:"scores"`
	Assessments AssessmentMap      `json:"assessments" yaml:"assessments"`
	Attendance  []AttendanceRecord `json:"attendance" yaml:"attendance"`
	Journals    []JournalEntry     `json:"journals" yaml:"journals"`
	Schedules   []Schedule         `json:"schedules" yaml:"schedules"`
}

// StudentsInClass returns the students whose ClassID is classID, in stored order.
func (d *Dataset) StudentsInClass(classID string) []Student {
	var out []Student
	for _, s := range d.Students {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out
}

// FindClass returns the class with id.
func (d *Dataset) FindClass(id string) (Class, bool) {
	for _, c := range d.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return Class{}, false
}

// FindSubject returns the subject with id.
func (d *Dataset) FindSubject(id string) (Subject, bool) {
	for _, s := range d.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// FindCategory returns the category with id.
func (d *Dataset) FindCategory(id string) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// FindStudent returns the student with id.
func (d *Dataset) FindStudent(id string) (Student, bool) {
	for _, s := range d.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// WeightTable maps category ID to percentage. When several weights name the
// same category the last one in stored order wins.
func (d *Dataset) WeightTable() map[string]float64 {
	table := make(map[string]float64, len(d.Weights))
	for _, w := range d.Weights {
		table[w.CategoryID] = w.Percentage
	}
	return table
}
