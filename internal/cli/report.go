package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/report"
)

// NewReportCommand creates the report command group.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or export score and attendance reports",
	}
	cmd.AddCommand(newReportScoresCommand(opts))
	cmd.AddCommand(newReportAttendanceCommand(opts))
	return cmd
}

// exportFlags are the output flags shared by report commands.
type exportFlags struct {
	csv bool
	out string
}

func (e *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&e.csv, "csv", false, "write CSV instead of a table")
	cmd.Flags().StringVar(&e.out, "out", "", `CSV file path, "-" for stdout (default: a timestamped file in export_dir)`)
}

// tableView is the JSON form of a report table.
type tableView struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// exportResult is printed after a CSV file is written.
type exportResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

func (r exportResult) String() string { return fmt.Sprintf("Wrote %d rows to %s", r.Rows, r.Path) }

// emit renders t as a table, or exports it as CSV when requested.
func (o *RootOptions) emit(out *OutputFormatter, t report.Table, revision int64, prefix, label string, e exportFlags) error {
	if !e.csv {
		view := tableView{Title: t.Title, Header: t.Header, Rows: t.Rows}
		if view.Rows == nil {
			view.Rows = [][]string{}
		}
		return out.Render(view, revision, func(w io.Writer) error {
			fmt.Fprintln(w, t.Title)
			return writeTable(w, t.Header, t.Rows)
		})
	}
	if e.out == "-" {
		return report.WriteCSV(out.Writer, t)
	}

	path := e.out
	if path == "" {
		if err := os.MkdirAll(o.ExportDir, 0o755); err != nil {
			return WrapExitError(ExitFailure, ErrCodeWriteFailed, fmt.Errorf("create export dir: %w", err))
		}
		path = filepath.Join(o.ExportDir, report.ExportFileName(prefix, label, o.Now()))
	}
	if err := writeCSVFile(path, t); err != nil {
		return WrapExitError(ExitFailure, ErrCodeWriteFailed, err)
	}
	slog.Debug("report exported", "path", path, "rows", len(t.Rows))
	return out.Success(exportResult{Path: path, Rows: len(t.Rows)})
}

func writeCSVFile(path string, t report.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return report.WriteCSV(f, t)
}

func newReportScoresCommand(opts *RootOptions) *cobra.Command {
	var q report.ScoreQuery
	var e exportFlags
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Per-student averages and weighted final grades",
		Long: `Average every student's scores per category and subject, then combine the
averages into a final grade per subject using the category weights.

Categories without a weight are left out. When the weights do not add up to
100 the final grade is scaled to the weights that are set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				if _, ok := ds.FindClass(q.ClassID); !ok {
					return &gradebook.NotFoundError{Entity: "class", ID: q.ClassID}
				}
				if q.SubjectID != report.AllSubjects {
					if _, ok := ds.FindSubject(q.SubjectID); !ok {
						return &gradebook.NotFoundError{Entity: "subject", ID: q.SubjectID}
					}
				}
				rep := report.BuildScoreReport(&ds, q)
				label := rep.ClassName
				if q.SubjectID != report.AllSubjects && len(rep.Subjects) == 1 {
					label += " " + rep.Subjects[0].Name
				}
				return opts.emit(out, report.BuildScoreTable(rep), rep.Revision, "scores", label, e)
			})
		},
	}
	cmd.Flags().StringVar(&q.ClassID, "class", "", "class ID (required)")
	cmd.Flags().StringVar(&q.SubjectID, "subject", report.AllSubjects, `subject ID or "all"`)
	_ = cmd.MarkFlagRequired("class")
	e.register(cmd)
	return cmd
}

func newReportAttendanceCommand(opts *RootOptions) *cobra.Command {
	var q report.AttendanceQuery
	var e exportFlags
	cmd := &cobra.Command{
		Use:           "attendance",
		Short:         "Attendance counts and percentage per student",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []string{q.From, q.To} {
				if d == "" {
					continue
				}
				if _, err := time.Parse(dateLayout, d); err != nil {
					return opts.formatter(cmd).Fail(usageError("invalid date %q: want yyyy-mm-dd", d))
				}
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				if _, ok := ds.FindClass(q.ClassID); !ok {
					return &gradebook.NotFoundError{Entity: "class", ID: q.ClassID}
				}
				label := report.AllSubjects
				if q.SubjectID != report.AllSubjects {
					subj, ok := ds.FindSubject(q.SubjectID)
					if !ok {
						return &gradebook.NotFoundError{Entity: "subject", ID: q.SubjectID}
					}
					label = subj.Name
				}
				rep := report.BuildAttendanceReport(&ds, q)
				return opts.emit(out, report.BuildAttendanceTable(rep), rep.Revision, "attendance", rep.ClassName+" "+label, e)
			})
		},
	}
	cmd.Flags().StringVar(&q.ClassID, "class", "", "class ID (required)")
	cmd.Flags().StringVar(&q.SubjectID, "subject", "", `subject ID or "all" (required)`)
	cmd.Flags().StringVar(&q.From, "from", "", "first date, yyyy-mm-dd (inclusive)")
	cmd.Flags().StringVar(&q.To, "to", "", "last date, yyyy-mm-dd (inclusive)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("subject")
	e.register(cmd)
	return cmd
}
