// Package model provides the gradebook entity types.
//
// This package contains type definitions, the assessment-name mapping, entry
// validation and text normalisation. All other internal packages import model;
// model imports nothing internal.
//
// Key design constraints:
//   - Every entity carries an opaque string ID assigned at creation time
//   - JSON tags match the persisted collection shape (camelCase)
//   - Score values are float64 and may be NaN when decoded from malformed data
//   - Required fields are declared with validate tags, not checked ad hoc
package model
