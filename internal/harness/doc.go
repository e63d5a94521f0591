// Package harness runs grading scenarios: small, self-contained gradebooks
// described in YAML together with the grades they must produce.
//
// A scenario pins down grading policy. It seeds a fresh in-memory database,
// applies optional steps, builds the score report for one class and checks
// the result against assertions and, optionally, a golden CSV file.
//
// # Scenario Format
//
//	name: weighted_final
//	description: "Daily 40 and Exam 60 combine into one final grade"
//	seed_file: seeds/basic.yaml   # or an inline data: block
//	steps:
//	  - op: set_weight
//	    category: Exam
//	    weight: 0
//	report:
//	  class: 7A
//	  subject: all
//	assertions:
//	  - type: average
//	    student: Ayu
//	    category: Daily
//	    subject: Math
//	    expect: 85
//	  - type: final
//	    student: Ayu
//	    subject: Math
//	    expect: 79
//
// Records are referenced by name, students also by number, exactly as in a
// seed file.
//
// # Assertion Types
//
//   - average: the category-subject average of a student, or absent: true
//   - final: the final grade of a student for a subject
//   - cell: one rendered cell of the score table, by column header
//   - rows: the number of students in the report
//   - attendance: a student's attendance percentage for report.subject
//     between report.from and report.to, rounded to a whole number
//
// # Deterministic Runs
//
// IDs come from a sequence generator and every run starts from an empty
// database, so the rendered table is identical across runs and can be
// compared with a golden file.
package harness
