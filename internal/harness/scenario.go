package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gradebook/internal/backup"
)

// Scenario defines one grading scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario pins down.
	Description string `yaml:"description"`

	// SeedFile is a seed YAML path, relative to the scenario file.
	// Exactly one of SeedFile and Data is set.
	SeedFile string `yaml:"seed_file,omitempty"`

	// Data is an inline seed.
	Data *backup.Seed `yaml:"data,omitempty"`

	// Steps change the seeded gradebook before the report is built.
	Steps []Step `yaml:"steps,omitempty"`

	// Report selects the class and subjects of the report under test.
	Report Query `yaml:"report"`

	// Assertions validate the report.
	Assertions []Assertion `yaml:"assertions"`
}

// Query selects a report by record names.
type Query struct {
	Class   string `yaml:"class"`
	Subject string `yaml:"subject,omitempty"` // a subject name or "all" (default)
	From    string `yaml:"from,omitempty"`    // attendance only, yyyy-mm-dd
	To      string `yaml:"to,omitempty"`
}

// Step is one change applied after seeding.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	Student    string   `yaml:"student,omitempty"`
	Class      string   `yaml:"class,omitempty"`
	Category   string   `yaml:"category,omitempty"`
	Subject    string   `yaml:"subject,omitempty"`
	Assessment string   `yaml:"assessment,omitempty"`
	NewName    string   `yaml:"new_name,omitempty"`
	Value      *float64 `yaml:"value,omitempty"`
	Weight     *float64 `yaml:"weight,omitempty"`
}

// Step operations.
const (
	OpRecordScore      = "record_score"
	OpSetWeight        = "set_weight"
	OpDeleteWeight     = "delete_weight"
	OpRenameAssessment = "rename_assessment"
	OpDeleteAssessment = "delete_assessment"
	OpDeleteStudent    = "delete_student"
	OpDeleteClass      = "delete_class"
)

// Assertion checks one value of the report.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Student  string `yaml:"student,omitempty"`
	Category string `yaml:"category,omitempty"`
	Subject  string `yaml:"subject,omitempty"`

	// Column is the table header of a cell assertion.
	Column string `yaml:"column,omitempty"`

	// Expect is the expected number for average, final and attendance.
	Expect *float64 `yaml:"expect,omitempty"`

	// Absent expects an average to be missing.
	Absent bool `yaml:"absent,omitempty"`

	// Value is the expected rendered text of a cell.
	Value string `yaml:"value,omitempty"`

	// Count is the expected number of rows.
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertAverage    = "average"
	AssertFinal      = "final"
	AssertCell       = "cell"
	AssertRows       = "rows"
	AssertAttendance = "attendance"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A seed_file is loaded relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.SeedFile != "" {
		seedPath := scenario.SeedFile
		if !filepath.IsAbs(seedPath) {
			seedPath = filepath.Join(filepath.Dir(path), seedPath)
		}
		seed, err := backup.LoadSeed(seedPath)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		scenario.Data = seed
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.SeedFile == "") == (s.Data == nil) {
		return fmt.Errorf("exactly one of seed_file and data is required")
	}
	if s.Report.Class == "" {
		return fmt.Errorf("report.class is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st Step) error {
	need := func(field, v string) error {
		if v == "" {
			return fmt.Errorf("steps[%d]: %s requires %s", i, st.Op, field)
		}
		return nil
	}
	var err error
	switch st.Op {
	case OpRecordScore:
		for _, f := range [][2]string{{"student", st.Student}, {"category", st.Category}, {"subject", st.Subject}, {"assessment", st.Assessment}} {
			if err = need(f[0], f[1]); err != nil {
				return err
			}
		}
		if st.Value == nil {
			return fmt.Errorf("steps[%d]: %s requires value", i, st.Op)
		}
	case OpSetWeight:
		if err = need("category", st.Category); err != nil {
			return err
		}
		if st.Weight == nil {
			return fmt.Errorf("steps[%d]: %s requires weight", i, st.Op)
		}
	case OpDeleteWeight:
		err = need("category", st.Category)
	case OpRenameAssessment:
		for _, f := range [][2]string{{"category", st.Category}, {"subject", st.Subject}, {"assessment", st.Assessment}, {"new_name", st.NewName}} {
			if err = need(f[0], f[1]); err != nil {
				return err
			}
		}
	case OpDeleteAssessment:
		for _, f := range [][2]string{{"category", st.Category}, {"subject", st.Subject}, {"assessment", st.Assessment}} {
			if err = need(f[0], f[1]); err != nil {
				return err
			}
		}
	case OpDeleteStudent:
		err = need("student", st.Student)
	case OpDeleteClass:
		err = need("class", st.Class)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", i, st.Op)
	}
	return err
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case AssertAverage:
		if a.Student == "" || a.Category == "" || a.Subject == "" {
			return fmt.Errorf("assertions[%d]: average requires student, category and subject", i)
		}
		if (a.Expect == nil) == !a.Absent {
			return fmt.Errorf("assertions[%d]: average requires exactly one of expect and absent", i)
		}
	case AssertFinal:
		if a.Student == "" || a.Subject == "" || a.Expect == nil {
			return fmt.Errorf("assertions[%d]: final requires student, subject and expect", i)
		}
	case AssertCell:
		if a.Student == "" || a.Column == "" {
			return fmt.Errorf("assertions[%d]: cell requires student and column", i)
		}
	case AssertRows:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: rows requires count", i)
		}
	case AssertAttendance:
		if a.Student == "" || a.Expect == nil {
			return fmt.Errorf("assertions[%d]: attendance requires student and expect", i)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
