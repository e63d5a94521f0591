package backup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
)

//go:embed schema.cue
var schemaSource string

// FormatVersion is written to every exported document.
const FormatVersion = "1.0.0"

// Document is the JSON backup format.
type Document struct {
	Classes     []model.Class            `json:"classes"`
	Students    []model.Student          `json:"students"`
	Subjects    []model.Subject          `json:"subjects"`
	Categories  []model.Category         `json:"categories"`
	Weights     []model.Weight           `json:"weights"`
	Scores      []model.Score            `json:"scores"`
	Assessments model.AssessmentMap      `json:"assessments"`
	Attendance  []model.AttendanceRecord `json:"attendance"`
	Journals    []model.JournalEntry     `json:"journals"`
	Schedules   []model.Schedule         `json:"schedules"`
	ExportDate  string                   `json:"exportDate"`
	Version     string                   `json:"version"`
}

// InvalidDocumentError reports a backup document rejected before any write.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return "invalid backup document: " + e.Reason
}

// IsInvalidDocument returns true if err wraps an InvalidDocumentError.
func IsInvalidDocument(err error) bool {
	var ide *InvalidDocumentError
	return errors.As(err, &ide)
}

// Export reads every collection and returns the backup document as indented
// JSON. now is recorded as the export date.
func Export(ctx context.Context, records *store.Records, now time.Time) ([]byte, error) {
	ds, err := records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	doc := Document{
		Classes:     nonNil(ds.Classes),
		Students:    nonNil(ds.Students),
		Subjects:    nonNil(ds.Subjects),
		Categories:  nonNil(ds.Categories),
		Weights:     nonNil(ds.Weights),
		Scores:      nonNil(ds.Scores),
		Assessments: ds.Assessments,
		Attendance:  nonNil(ds.Attendance),
		Journals:    nonNil(ds.Journals),
		Schedules:   nonNil(ds.Schedules),
		ExportDate:  now.UTC().Format(time.RFC3339),
		Version:     FormatVersion,
	}
	if doc.Assessments == nil {
		doc.Assessments = model.AssessmentMap{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	slog.Debug("backup exported", "revision", ds.Revision, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// FileName returns the default backup file name for now.
func FileName(now time.Time) string {
	return "gradebook_backup_" + now.Format("2006-01-02") + ".json"
}

// ImportResult counts the records written by Import.
type ImportResult struct {
	Classes    int      `json:"classes"`
	Students   int      `json:"students"`
	Subjects   int      `json:"subjects"`
	Categories int      `json:"categories"`
	Weights    int      `json:"weights"`
	Scores     int      `json:"scores"`
	Kept       []string `json:"kept,omitempty"` // optional collections absent from the document
}

// Import validates data as a backup document and replaces the stored
// collections with its contents in one atomic write.
//
// classes, students, categories, weights and scores must be present as
// arrays. subjects is replaced even when absent. assessments, attendance,
// journals and schedules are replaced only when the document carries them.
func Import(ctx context.Context, records *store.Records, data []byte) (ImportResult, error) {
	if err := CheckDocument(data); err != nil {
		return ImportResult{}, err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return ImportResult{}, &InvalidDocumentError{Reason: err.Error()}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{}, &InvalidDocumentError{Reason: err.Error()}
	}

	b := records.Batch()
	store.Stage(b, records.Classes, doc.Classes)
	store.Stage(b, records.Students, doc.Students)
	store.Stage(b, records.Subjects, doc.Subjects)
	store.Stage(b, records.Categories, doc.Categories)
	store.Stage(b, records.Weights, doc.Weights)
	store.Stage(b, records.Scores, doc.Scores)

	res := ImportResult{
		Classes:    len(doc.Classes),
		Students:   len(doc.Students),
		Subjects:   len(doc.Subjects),
		Categories: len(doc.Categories),
		Weights:    len(doc.Weights),
		Scores:     len(doc.Scores),
	}

	optional := []struct {
		key   string
		stage func()
	}{
		{store.KeyAssessments, func() { b.StageAssessments(doc.Assessments) }},
		{store.KeyAttendance, func() { store.Stage(b, records.Attendance, doc.Attendance) }},
		{store.KeyJournals, func() { store.Stage(b, records.Journals, doc.Journals) }},
		{store.KeySchedules, func() { store.Stage(b, records.Schedules, doc.Schedules) }},
	}
	for _, o := range optional {
		if _, ok := present[o.key]; ok {
			o.stage()
		} else {
			res.Kept = append(res.Kept, o.key)
		}
	}

	if err := b.Commit(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	slog.Info("backup imported",
		"classes", res.Classes,
		"students", res.Students,
		"scores", res.Scores,
		"version", doc.Version,
	)
	return res, nil
}

// CheckDocument validates data against the backup schema without writing.
func CheckDocument(data []byte) error {
	if !json.Valid(data) {
		return &InvalidDocumentError{Reason: "not valid JSON"}
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile backup schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Backup"))

	value := cctx.CompileBytes(data, cue.Filename("backup.json"))
	if err := value.Err(); err != nil {
		return &InvalidDocumentError{Reason: err.Error()}
	}
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &InvalidDocumentError{Reason: err.Error()}
	}

	// Checked again so the error names the missing key.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return &InvalidDocumentError{Reason: err.Error()}
	}
	for _, key := range RequiredCollections {
		raw, ok := top[key]
		if !ok || len(raw) == 0 || raw[0] != '[' {
			return &InvalidDocumentError{Reason: fmt.Sprintf("missing required array %q", key)}
		}
	}
	return nil
}

// RequiredCollections must be present as arrays in every backup document.
var RequiredCollections = []string{
	store.KeyClasses, store.KeyStudents, store.KeyCategories, store.KeyWeights, store.KeyScores,
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
