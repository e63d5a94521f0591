package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// NewSubjectCommand creates the subject command group.
func NewSubjectCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}
	cmd.AddCommand(newSubjectAddCommand(opts))
	cmd.AddCommand(newSubjectListCommand(opts))
	cmd.AddCommand(newSubjectUpdateCommand(opts))
	cmd.AddCommand(newSubjectDeleteCommand(opts))
	return cmd
}

func newSubjectAddCommand(opts *RootOptions) *cobra.Command {
	var subj model.Subject
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a subject",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddSubject(ctx, subj)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added subject %s (%s)\n", added.Name, added.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&subj.Name, "name", "", "subject name (required)")
	cmd.Flags().StringVar(&subj.Code, "code", "", "short code")
	cmd.Flags().StringVar(&subj.Description, "description", "", "description")
	return cmd
}

func newSubjectListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List subjects by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				subjects, err := svc.ListSubjects(ctx)
				if err != nil {
					return err
				}
				sortByName(subjects, func(s model.Subject) string { return s.Name })
				return out.Render(subjects, 0, func(w io.Writer) error {
					rows := make([][]string, 0, len(subjects))
					for _, s := range subjects {
						rows = append(rows, []string{s.ID, s.Name, s.Code, s.Description})
					}
					return writeTable(w, []string{"ID", "NAME", "CODE", "DESCRIPTION"}, rows)
				})
			})
		},
	}
}

func newSubjectUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, code, description string
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a subject",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				subj, ok := ds.FindSubject(args[0])
				if !ok {
					return &gradebook.NotFoundError{Entity: "subject", ID: args[0]}
				}
				if cmd.Flags().Changed("name") {
					subj.Name = name
				}
				if cmd.Flags().Changed("code") {
					subj.Code = code
				}
				if cmd.Flags().Changed("description") {
					subj.Description = description
				}
				updated, err := svc.UpdateSubject(ctx, subj)
				if err != nil {
					return err
				}
				return out.Render(updated, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated subject %s (%s)\n", updated.Name, updated.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "subject name")
	cmd.Flags().StringVar(&code, "code", "", "short code")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newSubjectDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a subject",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteSubject(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("subject", args[0]))
			})
		},
	}
}

// NewCategoryCommand creates the category command group.
func NewCategoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage grading categories",
	}
	cmd.AddCommand(newCategoryAddCommand(opts))
	cmd.AddCommand(newCategoryListCommand(opts))
	cmd.AddCommand(newCategoryUpdateCommand(opts))
	cmd.AddCommand(newCategoryDeleteCommand(opts))
	return cmd
}

func newCategoryAddCommand(opts *RootOptions) *cobra.Command {
	var c model.Category
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a grading category",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddCategory(ctx, c)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added category %s (%s)\n", added.Name, added.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "category name (required)")
	cmd.Flags().StringVar(&c.Description, "description", "", "description")
	return cmd
}

func newCategoryListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List categories with their effective weight",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				categories := ds.Categories
				sortByName(categories, func(c model.Category) string { return c.Name })
				weights := ds.WeightTable()
				return out.Render(categories, ds.Revision, func(w io.Writer) error {
					rows := make([][]string, 0, len(categories))
					for _, c := range categories {
						weight := "-"
						if pct, ok := weights[c.ID]; ok {
							weight = percent(pct)
						}
						rows = append(rows, []string{c.ID, c.Name, weight, c.Description})
					}
					return writeTable(w, []string{"ID", "NAME", "WEIGHT", "DESCRIPTION"}, rows)
				})
			})
		},
	}
}

func newCategoryUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a grading category",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				c, ok := ds.FindCategory(args[0])
				if !ok {
					return &gradebook.NotFoundError{Entity: "category", ID: args[0]}
				}
				if cmd.Flags().Changed("name") {
					c.Name = name
				}
				if cmd.Flags().Changed("description") {
					c.Description = description
				}
				updated, err := svc.UpdateCategory(ctx, c)
				if err != nil {
					return err
				}
				return out.Render(updated, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated category %s (%s)\n", updated.Name, updated.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newCategoryDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a grading category",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteCategory(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("category", args[0]))
			})
		},
	}
}

// NewWeightCommand creates the weight command group.
func NewWeightCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Manage category weights",
	}
	cmd.AddCommand(newWeightSetCommand(opts))
	cmd.AddCommand(newWeightListCommand(opts))
	cmd.AddCommand(newWeightDeleteCommand(opts))
	return cmd
}

// weightResult pairs a changed weight with the resulting total.
type weightResult struct {
	Weight model.Weight           `json:"weight"`
	Status gradebook.WeightStatus `json:"status"`
}

func newWeightSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <category-id> <percentage>",
		Short:         "Set the weight of a category",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return opts.formatter(cmd).Fail(usageError("invalid percentage %q", args[1]))
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				wt, err := svc.SetWeight(ctx, args[0], pct)
				if err != nil {
					return err
				}
				status, err := svc.WeightStatus(ctx)
				if err != nil {
					return err
				}
				res := weightResult{Weight: wt, Status: status}
				return out.Render(res, 0, func(w io.Writer) error {
					fmt.Fprintf(w, "Weight of %s set to %s\n", wt.CategoryID, percent(wt.Percentage))
					return writeWeightStatus(w, status)
				})
			})
		},
	}
}

func newWeightListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List weights and their total",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				status, err := svc.WeightStatus(ctx)
				if err != nil {
					return err
				}
				data := struct {
					Weights []model.Weight         `json:"weights"`
					Status  gradebook.WeightStatus `json:"status"`
				}{ds.Weights, status}
				names := newNameLookup(&ds)
				return out.Render(data, ds.Revision, func(w io.Writer) error {
					rows := make([][]string, 0, len(ds.Weights))
					for _, wt := range ds.Weights {
						rows = append(rows, []string{wt.ID, names.get(wt.CategoryID), percent(wt.Percentage)})
					}
					if err := writeTable(w, []string{"ID", "CATEGORY", "WEIGHT"}, rows); err != nil {
						return err
					}
					return writeWeightStatus(w, status)
				})
			})
		},
	}
}

func newWeightDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a weight",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteWeight(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("weight", args[0]))
			})
		},
	}
}

func writeWeightStatus(w io.Writer, st gradebook.WeightStatus) error {
	if st.Complete {
		_, err := fmt.Fprintf(w, "Total: %s\n", percent(st.Total))
		return err
	}
	_, err := fmt.Fprintf(w, "Warning: %s\n", st.Message)
	return err
}

// percent renders a weight without rounding.
func percent(p float64) string { return model.FormatNumber(p) + "%" }
