// Package gradebook implements the teacher-facing record operations: classes,
// students, subjects, categories, weights, assessments, scores, attendance,
// journals and schedules.
//
// Every operation persists immediately through a store.Records. Writes are
// serialised by the Service; cascades that touch more than one collection are
// committed as a single store.Batch.
//
// Referential checks apply on write only. Records left dangling by a
// non-cascading delete (scores of a deleted subject, for example) are kept and
// ignored by the report package.
package gradebook
