package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// NewAssessmentCommand creates the assessment command group.
func NewAssessmentCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Manage assessment names per category and subject",
	}
	cmd.AddCommand(newAssessmentAddCommand(opts))
	cmd.AddCommand(newAssessmentListCommand(opts))
	cmd.AddCommand(newAssessmentRenameCommand(opts))
	cmd.AddCommand(newAssessmentDeleteCommand(opts))
	return cmd
}

// pairFlags are the --category and --subject flags shared by assessment commands.
type pairFlags struct {
	category string
	subject  string
}

func (p *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.category, "category", "", "category ID (required)")
	cmd.Flags().StringVar(&p.subject, "subject", "", "subject ID (required)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("subject")
}

type assessmentResult struct {
	CategoryID string `json:"categoryId"`
	SubjectID  string `json:"subjectId"`
	Name       string `json:"name"`
	Changed    bool   `json:"changed"`
	Scores     int    `json:"scores,omitempty"`
}

func newAssessmentAddCommand(opts *RootOptions) *cobra.Command {
	var pair pairFlags
	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Register an assessment name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddAssessment(ctx, pair.category, pair.subject, args[0])
				if err != nil {
					return err
				}
				res := assessmentResult{CategoryID: pair.category, SubjectID: pair.subject, Name: model.Normalize(args[0]), Changed: added}
				return out.Render(res, 0, func(w io.Writer) error {
					if !added {
						_, err := fmt.Fprintf(w, "Assessment %q already exists\n", res.Name)
						return err
					}
					_, err := fmt.Fprintf(w, "Added assessment %q\n", res.Name)
					return err
				})
			})
		},
	}
	pair.register(cmd)
	return cmd
}

func newAssessmentListCommand(opts *RootOptions) *cobra.Command {
	var pair pairFlags
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List assessment names in column order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				names, err := svc.ListAssessments(ctx, pair.category, pair.subject)
				if err != nil {
					return err
				}
				if names == nil {
					names = []string{}
				}
				return out.Render(names, 0, func(w io.Writer) error {
					for _, n := range names {
						if _, err := fmt.Fprintln(w, n); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	pair.register(cmd)
	return cmd
}

func newAssessmentRenameCommand(opts *RootOptions) *cobra.Command {
	var pair pairFlags
	cmd := &cobra.Command{
		Use:           "rename <old> <new>",
		Short:         "Rename an assessment and move its scores",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				moved, err := svc.RenameAssessment(ctx, pair.category, pair.subject, args[0], args[1])
				if err != nil {
					return err
				}
				res := assessmentResult{CategoryID: pair.category, SubjectID: pair.subject, Name: model.Normalize(args[1]), Changed: true, Scores: moved}
				return out.Render(res, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Renamed %q to %q (%d scores)\n", model.Normalize(args[0]), res.Name, moved)
					return err
				})
			})
		},
	}
	pair.register(cmd)
	return cmd
}

func newAssessmentDeleteCommand(opts *RootOptions) *cobra.Command {
	var pair pairFlags
	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete an assessment and its scores",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				removed, err := svc.DeleteAssessment(ctx, pair.category, pair.subject, args[0])
				if err != nil {
					return err
				}
				res := assessmentResult{CategoryID: pair.category, SubjectID: pair.subject, Name: model.Normalize(args[0]), Changed: true, Scores: removed}
				return out.Render(res, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted assessment %q (%d scores)\n", res.Name, removed)
					return err
				})
			})
		},
	}
	pair.register(cmd)
	return cmd
}

// NewScoreCommand creates the score command group.
func NewScoreCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Record and list scores",
	}
	cmd.AddCommand(newScoreRecordCommand(opts))
	cmd.AddCommand(newScoreListCommand(opts))
	cmd.AddCommand(newScoreDeleteCommand(opts))
	return cmd
}

func newScoreRecordCommand(opts *RootOptions) *cobra.Command {
	var sc model.Score
	var value float64
	cmd := &cobra.Command{
		Use:           "record",
		Short:         "Record or replace a score",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.Value = model.Value(value)
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				recorded, err := svc.RecordScore(ctx, sc)
				if err != nil {
					return err
				}
				return out.Render(recorded, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Recorded %s for %q (%s)\n", recorded.Value, recorded.Assessment, recorded.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&sc.StudentID, "student", "", "student ID (required)")
	cmd.Flags().StringVar(&sc.CategoryID, "category", "", "category ID (required)")
	cmd.Flags().StringVar(&sc.SubjectID, "subject", "", "subject ID (required)")
	cmd.Flags().StringVar(&sc.Assessment, "assessment", "", "assessment name (required)")
	cmd.Flags().Float64Var(&value, "value", 0, "score from 0 to 100")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newScoreListCommand(opts *RootOptions) *cobra.Command {
	var f gradebook.ScoreFilter
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored scores",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				scores, err := svc.ListScores(ctx, f)
				if err != nil {
					return err
				}
				if scores == nil {
					scores = []model.Score{}
				}
				names := newNameLookup(&ds)
				return out.Render(scores, ds.Revision, func(w io.Writer) error {
					rows := make([][]string, 0, len(scores))
					for _, sc := range scores {
						rows = append(rows, []string{
							sc.ID,
							names.get(sc.StudentID),
							names.get(sc.CategoryID),
							names.get(sc.SubjectID),
							sc.Assessment,
							sc.Value.String(),
						})
					}
					return writeTable(w, []string{"ID", "STUDENT", "CATEGORY", "SUBJECT", "ASSESSMENT", "VALUE"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&f.ClassID, "class", "", "only students of this class ID")
	cmd.Flags().StringVar(&f.StudentID, "student", "", "student ID")
	cmd.Flags().StringVar(&f.CategoryID, "category", "", "category ID")
	cmd.Flags().StringVar(&f.SubjectID, "subject", "", "subject ID")
	cmd.Flags().StringVar(&f.Assessment, "assessment", "", "assessment name")
	return cmd
}

func newScoreDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a score",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteScore(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("score", args[0]))
			})
		},
	}
}
