package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// NewClassCommand creates the class command group.
func NewClassCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Manage classes",
	}
	cmd.AddCommand(newClassAddCommand(opts))
	cmd.AddCommand(newClassListCommand(opts))
	cmd.AddCommand(newClassUpdateCommand(opts))
	cmd.AddCommand(newClassDeleteCommand(opts))
	return cmd
}

func newClassAddCommand(opts *RootOptions) *cobra.Command {
	var c model.Class
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a class",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddClass(ctx, c)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added class %s (%s)\n", added.Name, added.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "class name (required)")
	cmd.Flags().StringVar(&c.Teacher, "teacher", "", "homeroom teacher")
	return cmd
}

func newClassListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List classes by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				classes, err := svc.ListClasses(ctx)
				if err != nil {
					return err
				}
				sortByName(classes, func(c model.Class) string { return c.Name })
				return out.Render(classes, 0, func(w io.Writer) error {
					rows := make([][]string, 0, len(classes))
					for _, c := range classes {
						rows = append(rows, []string{c.ID, c.Name, c.Teacher})
					}
					return writeTable(w, []string{"ID", "NAME", "TEACHER"}, rows)
				})
			})
		},
	}
}

func newClassUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, teacher string
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a class",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				c, ok := ds.FindClass(args[0])
				if !ok {
					return &gradebook.NotFoundError{Entity: "class", ID: args[0]}
				}
				if cmd.Flags().Changed("name") {
					c.Name = name
				}
				if cmd.Flags().Changed("teacher") {
					c.Teacher = teacher
				}
				updated, err := svc.UpdateClass(ctx, c)
				if err != nil {
					return err
				}
				return out.Render(updated, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated class %s (%s)\n", updated.Name, updated.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "class name")
	cmd.Flags().StringVar(&teacher, "teacher", "", "homeroom teacher")
	return cmd
}

func newClassDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a class and its students",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteClass(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("class", args[0]))
			})
		},
	}
}

// NewStudentCommand creates the student command group.
func NewStudentCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students",
	}
	cmd.AddCommand(newStudentAddCommand(opts))
	cmd.AddCommand(newStudentListCommand(opts))
	cmd.AddCommand(newStudentUpdateCommand(opts))
	cmd.AddCommand(newStudentDeleteCommand(opts))
	return cmd
}

func newStudentAddCommand(opts *RootOptions) *cobra.Command {
	var st model.Student
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a student",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddStudent(ctx, st)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added student %s (%s)\n", added.Name, added.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&st.Name, "name", "", "student name (required)")
	cmd.Flags().StringVar(&st.StudentNumber, "nis", "", "student number")
	cmd.Flags().StringVar(&st.ClassID, "class", "", "class ID")
	return cmd
}

func newStudentListCommand(opts *RootOptions) *cobra.Command {
	var classID string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List students by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				students, err := svc.ListStudents(ctx, classID)
				if err != nil {
					return err
				}
				sortByName(students, func(s model.Student) string { return s.Name })
				names := newNameLookup(&ds)
				return out.Render(students, 0, func(w io.Writer) error {
					rows := make([][]string, 0, len(students))
					for _, s := range students {
						rows = append(rows, []string{s.ID, s.Name, s.StudentNumber, names.get(s.ClassID)})
					}
					return writeTable(w, []string{"ID", "NAME", "NIS", "CLASS"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "only students of this class ID")
	return cmd
}

func newStudentUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, nis, classID string
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a student",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				st, ok := ds.FindStudent(args[0])
				if !ok {
					return &gradebook.NotFoundError{Entity: "student", ID: args[0]}
				}
				if cmd.Flags().Changed("name") {
					st.Name = name
				}
				if cmd.Flags().Changed("nis") {
					st.StudentNumber = nis
				}
				if cmd.Flags().Changed("class") {
					st.ClassID = classID
				}
				updated, err := svc.UpdateStudent(ctx, st)
				if err != nil {
					return err
				}
				return out.Render(updated, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated student %s (%s)\n", updated.Name, updated.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "student name")
	cmd.Flags().StringVar(&nis, "nis", "", "student number")
	cmd.Flags().StringVar(&classID, "class", "", "class ID (empty to unassign)")
	return cmd
}

func newStudentDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a student",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteStudent(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("student", args[0]))
			})
		},
	}
}

// deletion is the payload of delete commands.
type deletion struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

func (d deletion) String() string { return fmt.Sprintf("Deleted %s %s", d.Entity, d.ID) }

func deleted(entity, id string) deletion { return deletion{Entity: entity, ID: id} }
