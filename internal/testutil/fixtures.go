package testutil

import "github.com/roach88/gradebook/internal/model"

// GradebookDataset returns a small, fully populated dataset:
//
//   - class 7A with students Ayu (st-1) and Budi (st-2); class 7B with Citra (st-3)
//   - subjects Math and Physics
//   - categories Daily (weight 40), Exam (weight 60) and Project (no weight)
//   - Ayu: Daily/Math Quiz 1 = 80, Quiz 2 = 90; Exam/Math UTS = 75;
//     Project/Math Poster = 100
//   - Budi: Daily/Math Quiz 1 = 70; Daily/Physics Quiz 1 = 65
//
// Ayu therefore has Daily/Math average 85 and a Math final grade of 79.
func GradebookDataset() model.Dataset {
	assessments := model.AssessmentMap{}
	assessments.Add("cat-daily", "subj-math", "Quiz 1")
	assessments.Add("cat-daily", "subj-math", "Quiz 2")
	assessments.Add("cat-exam", "subj-math", "UTS")
	assessments.Add("cat-project", "subj-math", "Poster")
	assessments.Add("cat-daily", "subj-physics", "Quiz 1")

	return model.Dataset{
		Classes: []model.Class{
			{ID: "class-7a", Name: "7A", Teacher: "Bu Sari"},
			{ID: "class-7b", Name: "7B", Teacher: "Pak Joko"},
		},
		Students: []model.Student{
			{ID: "st-1", Name: "Ayu", StudentNumber: "1001", ClassID: "class-7a"},
			{ID: "st-2", Name: "Budi", StudentNumber: "1002", ClassID: "class-7a"},
			{ID: "st-3", Name: "Citra", StudentNumber: "1003", ClassID: "class-7b"},
		},
		Subjects: []model.Subject{
			{ID: "subj-math", Name: "Math", Code: "MTK"},
			{ID: "subj-physics", Name: "Physics", Code: "FIS"},
		},
		Categories: []model.Category{
			{ID: "cat-daily", Name: "Daily"},
			{ID: "cat-exam", Name: "Exam"},
			{ID: "cat-project", Name: "Project"},
		},
		Weights: []model.Weight{
			{ID: "w-1", CategoryID: "cat-daily", Percentage: 40},
			{ID: "w-2", CategoryID: "cat-exam", Percentage: 60},
		},
		Scores: []model.Score{
			{ID: "sc-1", StudentID: "st-1", CategoryID: "cat-daily", SubjectID: "subj-math", Assessment: "Quiz 1", Value: 80},
			{ID: "sc-2", StudentID: "st-1", CategoryID: "cat-daily", SubjectID: "subj-math", Assessment: "Quiz 2", Value: 90},
			{ID: "sc-3", StudentID: "st-1", CategoryID: "cat-exam", SubjectID: "subj-math", Assessment: "UTS", Value: 75},
			{ID: "sc-4", StudentID: "st-1", CategoryID: "cat-project", SubjectID: "subj-math", Assessment: "Poster", Value: 100},
			{ID: "sc-5", StudentID: "st-2", CategoryID: "cat-daily", SubjectID: "subj-math", Assessment: "Quiz 1", Value: 70},
			{ID: "sc-6", StudentID: "st-2", CategoryID: "cat-daily", SubjectID: "subj-physics", Assessment: "Quiz 1", Value: 65},
		},
		Assessments: assessments,
		Attendance: []model.AttendanceRecord{
			{ID: "at-1", StudentID: "st-1", ClassID: "class-7a", SubjectID: "subj-math", Date: "2024-07-01", Status: model.StatusPresent},
			{ID: "at-2", StudentID: "st-1", ClassID: "class-7a", SubjectID: "subj-math", Date: "2024-07-02", Status: model.StatusPresent},
			{ID: "at-3", StudentID: "st-2", ClassID: "class-7a", SubjectID: "subj-math", Date: "2024-07-01", Status: model.StatusSick},
			{ID: "at-4", StudentID: "st-2", ClassID: "class-7a", SubjectID: "subj-math", Date: "2024-07-02", Status: model.StatusPresent},
			{ID: "at-5", StudentID: "st-2", ClassID: "class-7a", SubjectID: "subj-math", Date: "2024-08-01", Status: model.StatusAbsent},
		},
	}
}
