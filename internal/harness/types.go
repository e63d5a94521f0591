package harness

import (
	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/report"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	// Scores is the score report for the scenario's class.
	Scores report.ScoreReport `json:"-"`

	// Table is Scores flattened, as exported to CSV.
	Table report.Table `json:"-"`

	// Dataset is the final state of the gradebook.
	Dataset model.Dataset `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
