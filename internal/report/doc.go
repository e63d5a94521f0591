// Package report derives grade and attendance reports from a dataset.
//
// Everything here is a pure function of a model.Dataset plus query
// parameters: nothing is cached and nothing is written back. Callers read a
// fresh dataset for every run so that deleted categories or newly recorded
// scores are always reflected.
//
// # Score aggregation
//
// Scores are grouped per (student, category, subject) ignoring the
// assessment name. Each non-empty group yields a category-subject average,
// the mean rounded half-up to a whole number. Empty groups are absent, not
// zero. The final grade for a subject combines the averages of categories
// that have a weight:
//
//	weightedSum += average * (weight / 100)
//	totalWeight += weight
//	final = round(weightedSum / (totalWeight / 100))   // 0 when totalWeight == 0
//
// Categories without a weight are left out of both sums, so the final grade
// is renormalised over the weights actually present.
//
// # Attendance aggregation
//
// Attendance records are counted per student by status and ranked by the
// present ratio, kept as a float for sorting and rounded only when rendered.
package report
