package report

import (
	"log/slog"
	"slices"

	"github.com/roach88/gradebook/internal/model"
)

// AllSubjects selects every known subject in a ScoreQuery.
const AllSubjects = "all"

// ScoreQuery selects the population and subjects of a score report.
type ScoreQuery struct {
	ClassID   string
	SubjectID string // AllSubjects or a subject ID
}

// Average is one category-subject average.
type Average struct {
	CategoryID string
	SubjectID  string
	Value      float64 // whole number, or NaN when a contributing score is NaN
	Count      int     // number of scores in the group
}

// FinalGrade is the weighted grade for one subject.
type FinalGrade struct {
	SubjectID   string
	Value       float64
	TotalWeight float64 // sum of the weights that contributed; 0 means no data
}

// StudentScores is one report row.
type StudentScores struct {
	Student  model.Student
	Averages []Average    // category order, then subject order; absent groups omitted
	Finals   []FinalGrade // one per subject in scope, subject order
	raw      map[model.ScoreKey]float64
}

// Average returns the category-subject average for the pair, if present.
func (s StudentScores) Average(categoryID, subjectID string) (float64, bool) {
	for _, a := range s.Averages {
		if a.CategoryID == categoryID && a.SubjectID == subjectID {
			return a.Value, true
		}
	}
	return 0, false
}

// Final returns the final grade for subjectID, if the subject is in scope.
func (s StudentScores) Final(subjectID string) (float64, bool) {
	for _, f := range s.Finals {
		if f.SubjectID == subjectID {
			return f.Value, true
		}
	}
	return 0, false
}

// Raw returns the recorded value for one assessment, if present.
func (s StudentScores) Raw(categoryID, subjectID, assessment string) (float64, bool) {
	v, ok := s.raw[model.ScoreKey{
		StudentID:  s.Student.ID,
		CategoryID: categoryID,
		SubjectID:  subjectID,
		Assessment: assessment,
	}]
	return v, ok
}

// ScoreReport is the output of BuildScoreReport.
type ScoreReport struct {
	ClassID    string
	ClassName  string
	Revision   int64
	Subjects   []model.Subject  // subjects in scope, stored order
	Categories []model.Category // every category, stored order
	Rows       []StudentScores  // class roster, stored order

	assessments map[pair][]string
}

// Assessments returns the assessment column names for a (category, subject)
// pair: registered names in registration order, followed by any other names
// found on scores for the pair, sorted.
func (r ScoreReport) Assessments(categoryID, subjectID string) []string {
	return r.assessments[pair{categoryID, subjectID}]
}

// Empty reports whether the report has no rows.
func (r ScoreReport) Empty() bool { return len(r.Rows) == 0 }

type pair struct {
	categoryID string
	subjectID  string
}

type groupKey struct {
	studentID  string
	categoryID string
	subjectID  string
}

// BuildScoreReport computes category-subject averages and final weighted
// grades for every student in q.ClassID.
//
// An unknown class or a class with no students yields an empty report. An
// unknown subject ID yields rows with no averages and no finals.
func BuildScoreReport(ds *model.Dataset, q ScoreQuery) ScoreReport {
	rep := ScoreReport{
		ClassID:    q.ClassID,
		Revision:   ds.Revision,
		Categories: slices.Clone(ds.Categories),
	}
	if c, ok := ds.FindClass(q.ClassID); ok {
		rep.ClassName = c.Name
	}

	students := ds.StudentsInClass(q.ClassID)
	rep.Subjects = subjectsInScope(ds, q.SubjectID)
	rep.assessments = assessmentColumns(ds, rep.Categories, rep.Subjects)

	if len(students) == 0 {
		slog.Debug("score report: no students", "class", q.ClassID)
		return rep
	}

	// Group every score once; the per-student loops below only look up.
	groups := make(map[groupKey][]float64)
	raw := make(map[model.ScoreKey]float64)
	for _, sc := range ds.Scores {
		k := groupKey{sc.StudentID, sc.CategoryID, sc.SubjectID}
		groups[k] = append(groups[k], sc.Value.Float())
		raw[sc.Key()] = sc.Value.Float() // duplicates: last stored wins for display
	}

	weights := ds.WeightTable()

	rep.Rows = make([]StudentScores, 0, len(students))
	for _, st := range students {
		row := StudentScores{Student: st, raw: raw}

		for _, cat := range rep.Categories {
			for _, subj := range rep.Subjects {
				values := groups[groupKey{st.ID, cat.ID, subj.ID}]
				if len(values) == 0 {
					continue
				}
				row.Averages = append(row.Averages, Average{
					CategoryID: cat.ID,
					SubjectID:  subj.ID,
					Value:      model.Round(mean(values)),
					Count:      len(values),
				})
			}
		}

		for _, subj := range rep.Subjects {
			row.Finals = append(row.Finals, finalGrade(row.Averages, subj.ID, weights))
		}

		rep.Rows = append(rep.Rows, row)
	}

	slog.Debug("score report built",
		"class", q.ClassID,
		"subject", q.SubjectID,
		"students", len(rep.Rows),
		"subjects", len(rep.Subjects),
		"revision", ds.Revision,
	)
	return rep
}

// finalGrade combines the averages for subjectID using the weight table.
func finalGrade(averages []Average, subjectID string, weights map[string]float64) FinalGrade {
	var weightedSum, totalWeight float64
	for _, a := range averages {
		if a.SubjectID != subjectID {
			continue
		}
		w, ok := weights[a.CategoryID]
		if !ok {
			continue
		}
		weightedSum += a.Value * (w / 100)
		totalWeight += w
	}

	fg := FinalGrade{SubjectID: subjectID, TotalWeight: totalWeight}
	if totalWeight > 0 {
		fg.Value = model.Round(weightedSum / (totalWeight / 100))
	}
	return fg
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func subjectsInScope(ds *model.Dataset, subjectID string) []model.Subject {
	if subjectID == AllSubjects {
		return slices.Clone(ds.Subjects)
	}
	if s, ok := ds.FindSubject(subjectID); ok {
		return []model.Subject{s}
	}
	return nil
}

func assessmentColumns(ds *model.Dataset, categories []model.Category, subjects []model.Subject) map[pair][]string {
	extra := make(map[pair][]string)
	for _, sc := range ds.Scores {
		p := pair{sc.CategoryID, sc.SubjectID}
		if ds.Assessments.Has(p.categoryID, p.subjectID, sc.Assessment) || slices.Contains(extra[p], sc.Assessment) {
			continue
		}
		extra[p] = append(extra[p], sc.Assessment)
	}

	cols := make(map[pair][]string)
	for _, cat := range categories {
		for _, subj := range subjects {
			p := pair{cat.ID, subj.ID}
			names := slices.Clone(ds.Assessments.Names(cat.ID, subj.ID))
			unregistered := extra[p]
			slices.Sort(unregistered)
			names = append(names, unregistered...)
			if len(names) > 0 {
				cols[p] = names
			}
		}
	}
	return cols
}
