package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// Seed is a hand-written starter gradebook. Records refer to classes,
// subjects, categories and students by name rather than by ID.
type Seed struct {
	Classes    []SeedClass      `yaml:"classes"`
	Subjects   []SeedSubject    `yaml:"subjects"`
	Categories []SeedCategory   `yaml:"categories"`
	Students   []SeedStudent    `yaml:"students"`
	Scores     []SeedScore      `yaml:"scores"`
	Attendance []SeedAttendance `yaml:"attendance"`
	Journals   []SeedJournal    `yaml:"journals"`
	Schedules  []SeedSchedule   `yaml:"schedules"`
}

// SeedClass is a class to create.
type SeedClass struct {
	Name    string `yaml:"name"`
	Teacher string `yaml:"teacher"`
}

// SeedSubject is a subject to create.
type SeedSubject struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// SeedCategory is a category to create, with an optional weight.
type SeedCategory struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Weight      *float64 `yaml:"weight"`
}

// SeedStudent is a student to create in the named class.
type SeedStudent struct {
	Name  string `yaml:"name"`
	NIS   string `yaml:"nis"`
	Class string `yaml:"class"`
}

// SeedScore records one score. Student matches a name or a NIS.
type SeedScore struct {
	Student    string  `yaml:"student"`
	Category   string  `yaml:"category"`
	Subject    string  `yaml:"subject"`
	Assessment string  `yaml:"assessment"`
	Value      float64 `yaml:"value"`
}

// SeedAttendance is one lesson's attendance sheet. Marks maps student names
// to statuses; unlisted students are present.
type SeedAttendance struct {
	Class   string            `yaml:"class"`
	Subject string            `yaml:"subject"`
	Date    string            `yaml:"date"`
	Marks   map[string]string `yaml:"marks"`
}

// SeedJournal is a teaching journal entry.
type SeedJournal struct {
	Date     string `yaml:"date"`
	Class    string `yaml:"class"`
	Subject  string `yaml:"subject"`
	Material string `yaml:"material"`
	Method   string `yaml:"method"`
	Notes    string `yaml:"notes"`
}

// SeedSchedule is a weekly timetable slot.
type SeedSchedule struct {
	Day     string `yaml:"day"`
	Class   string `yaml:"class"`
	Subject string `yaml:"subject"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// LoadSeed reads and parses a YAML seed file. Unknown fields are rejected.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses YAML seed data. Unknown fields are rejected.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return &seed, nil
}

// SeedResult counts the records created by ApplySeed.
type SeedResult struct {
	Classes    int `json:"classes"`
	Subjects   int `json:"subjects"`
	Categories int `json:"categories"`
	Weights    int `json:"weights"`
	Students   int `json:"students"`
	Scores     int `json:"scores"`
	Attendance int `json:"attendance"`
	Journals   int `json:"journals"`
	Schedules  int `json:"schedules"`
}

// ApplySeed creates the seed's records through svc in dependency order.
// Names resolve against records that already exist as well as those the
// seed creates. ApplySeed stops at the first error; records created before
// it are kept.
func ApplySeed(ctx context.Context, svc *gradebook.Service, seed *Seed) (SeedResult, error) {
	var res SeedResult

	for _, c := range seed.Classes {
		if _, err := svc.AddClass(ctx, model.Class{Name: c.Name, Teacher: c.Teacher}); err != nil {
			return res, fmt.Errorf("seed class %q: %w", c.Name, err)
		}
		res.Classes++
	}
	for _, s := range seed.Subjects {
		if _, err := svc.AddSubject(ctx, model.Subject{Name: s.Name, Code: s.Code, Description: s.Description}); err != nil {
			return res, fmt.Errorf("seed subject %q: %w", s.Name, err)
		}
		res.Subjects++
	}
	for _, c := range seed.Categories {
		cat, err := svc.AddCategory(ctx, model.Category{Name: c.Name, Description: c.Description})
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		res.Categories++
		if c.Weight != nil {
			if _, err := svc.SetWeight(ctx, cat.ID, *c.Weight); err != nil {
				return res, fmt.Errorf("seed weight for %q: %w", c.Name, err)
			}
			res.Weights++
		}
	}

	names, err := loadNames(ctx, svc)
	if err != nil {
		return res, err
	}

	for _, st := range seed.Students {
		classID := ""
		if st.Class != "" {
			if classID, err = names.Class(st.Class); err != nil {
				return res, fmt.Errorf("seed student %q: %w", st.Name, err)
			}
		}
		if _, err := svc.AddStudent(ctx, model.Student{Name: st.Name, StudentNumber: st.NIS, ClassID: classID}); err != nil {
			return res, fmt.Errorf("seed student %q: %w", st.Name, err)
		}
		res.Students++
	}

	if names, err = loadNames(ctx, svc); err != nil {
		return res, err
	}

	for _, sc := range seed.Scores {
		score, err := names.score(sc)
		if err != nil {
			return res, fmt.Errorf("seed score %s/%s/%s: %w", sc.Student, sc.Subject, sc.Assessment, err)
		}
		if _, err := svc.RecordScore(ctx, score); err != nil {
			return res, fmt.Errorf("seed score %s/%s/%s: %w", sc.Student, sc.Subject, sc.Assessment, err)
		}
		res.Scores++
	}

	for _, a := range seed.Attendance {
		sheet, err := names.sheet(a)
		if err != nil {
			return res, fmt.Errorf("seed attendance %s %s: %w", a.Class, a.Date, err)
		}
		recs, err := svc.RecordAttendance(ctx, sheet)
		if err != nil {
			return res, fmt.Errorf("seed attendance %s %s: %w", a.Class, a.Date, err)
		}
		res.Attendance += len(recs)
	}

	for _, j := range seed.Journals {
		classID, subjectID, err := names.classSubject(j.Class, j.Subject)
		if err != nil {
			return res, fmt.Errorf("seed journal %s: %w", j.Date, err)
		}
		entry := model.JournalEntry{Date: j.Date, ClassID: classID, SubjectID: subjectID, Material: j.Material, Method: j.Method, Notes: j.Notes}
		if _, err := svc.AddJournal(ctx, entry); err != nil {
			return res, fmt.Errorf("seed journal %s: %w", j.Date, err)
		}
		res.Journals++
	}

	for _, sch := range seed.Schedules {
		classID, subjectID, err := names.classSubject(sch.Class, sch.Subject)
		if err != nil {
			return res, fmt.Errorf("seed schedule %s %s: %w", sch.Day, sch.Start, err)
		}
		slot := model.Schedule{Day: sch.Day, ClassID: classID, SubjectID: subjectID, StartTime: sch.Start, EndTime: sch.End}
		if _, err := svc.AddSchedule(ctx, slot); err != nil {
			return res, fmt.Errorf("seed schedule %s %s: %w", sch.Day, sch.Start, err)
		}
		res.Schedules++
	}

	slog.Info("seed applied",
		"classes", res.Classes,
		"students", res.Students,
		"scores", res.Scores,
		"attendance", res.Attendance,
	)
	return res, nil
}

// Names resolves record names to stored IDs. Students resolve by name or
// by student number. The first record with a given name wins.
type Names struct {
	classes    map[string]string
	subjects   map[string]string
	categories map[string]string
	students   map[string]string // by name and by NIS
}

// NewNames indexes the records of ds by name.
func NewNames(ds *model.Dataset) *Names {
	n := &Names{
		classes:    make(map[string]string),
		subjects:   make(map[string]string),
		categories: make(map[string]string),
		students:   make(map[string]string),
	}
	for _, c := range ds.Classes {
		putFirst(n.classes, c.Name, c.ID)
	}
	for _, s := range ds.Subjects {
		putFirst(n.subjects, s.Name, s.ID)
	}
	for _, c := range ds.Categories {
		putFirst(n.categories, c.Name, c.ID)
	}
	for _, s := range ds.Students {
		putFirst(n.students, s.Name, s.ID)
		if s.StudentNumber != "" {
			putFirst(n.students, s.StudentNumber, s.ID)
		}
	}
	return n
}

func loadNames(ctx context.Context, svc *gradebook.Service) (*Names, error) {
	ds, err := svc.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return NewNames(&ds), nil
}

// Class returns the ID of the class called name.
func (n *Names) Class(name string) (string, error) { return lookup(n.classes, "class", name) }

// Subject returns the ID of the subject called name.
func (n *Names) Subject(name string) (string, error) { return lookup(n.subjects, "subject", name) }

// Category returns the ID of the category called name.
func (n *Names) Category(name string) (string, error) {
	return lookup(n.categories, "category", name)
}

// Student returns the ID of the student with the given name or number.
func (n *Names) Student(name string) (string, error) { return lookup(n.students, "student", name) }

func putFirst(m map[string]string, key, id string) {
	key = model.Normalize(key)
	if _, ok := m[key]; !ok {
		m[key] = id
	}
}

func lookup(m map[string]string, entity, name string) (string, error) {
	id, ok := m[model.Normalize(name)]
	if !ok {
		return "", &gradebook.NotFoundError{Entity: entity, ID: name}
	}
	return id, nil
}

func (n *Names) classSubject(class, subject string) (string, string, error) {
	classID, err := lookup(n.classes, "class", class)
	if err != nil {
		return "", "", err
	}
	subjectID, err := lookup(n.subjects, "subject", subject)
	if err != nil {
		return "", "", err
	}
	return classID, subjectID, nil
}

func (n *Names) score(sc SeedScore) (model.Score, error) {
	studentID, err := lookup(n.students, "student", sc.Student)
	if err != nil {
		return model.Score{}, err
	}
	categoryID, err := lookup(n.categories, "category", sc.Category)
	if err != nil {
		return model.Score{}, err
	}
	subjectID, err := lookup(n.subjects, "subject", sc.Subject)
	if err != nil {
		return model.Score{}, err
	}
	return model.Score{
		StudentID:  studentID,
		CategoryID: categoryID,
		SubjectID:  subjectID,
		Assessment: sc.Assessment,
		Value:      model.Value(sc.Value),
	}, nil
}

func (n *Names) sheet(a SeedAttendance) (gradebook.AttendanceSheet, error) {
	classID, subjectID, err := n.classSubject(a.Class, a.Subject)
	if err != nil {
		return gradebook.AttendanceSheet{}, err
	}
	sheet := gradebook.AttendanceSheet{
		ClassID:   classID,
		SubjectID: subjectID,
		Date:      a.Date,
		Marks:     make(map[string]gradebook.AttendanceMark, len(a.Marks)),
	}
	for student, status := range a.Marks {
		studentID, err := lookup(n.students, "student", student)
		if err != nil {
			return gradebook.AttendanceSheet{}, err
		}
		st, ok := model.ParseAttendanceStatus(status)
		if !ok {
			return gradebook.AttendanceSheet{}, &model.ValidationError{
				Entity: "attendance",
				Fields: map[string]string{"status": fmt.Sprintf("status %q must be one of hadir, sakit, ijin, alfa", status)},
			}
		}
		sheet.Marks[studentID] = gradebook.AttendanceMark{Status: st}
	}
	return sheet, nil
}
