package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/model"
)

// dateLayout is the yyyy-MM-dd layout used for every stored date.
const dateLayout = "2006-01-02"

// NewAttendanceCommand creates the attendance command group.
func NewAttendanceCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Record and list attendance",
	}
	cmd.AddCommand(newAttendanceRecordCommand(opts))
	cmd.AddCommand(newAttendanceListCommand(opts))
	cmd.AddCommand(newAttendanceDeleteCommand(opts))
	return cmd
}

// parseMarks turns student=status flags into attendance marks.
func parseMarks(values []string) (map[string]gradebook.AttendanceMark, error) {
	marks := make(map[string]gradebook.AttendanceMark, len(values))
	for _, v := range values {
		id, raw, ok := strings.Cut(v, "=")
		if !ok || id == "" {
			return nil, usageError("invalid mark %q: want student-id=status", v)
		}
		status, ok := model.ParseAttendanceStatus(raw)
		if !ok {
			// Left to validation so the error lists the accepted values.
			status = model.AttendanceStatus(raw)
		}
		marks[id] = gradebook.AttendanceMark{Status: status}
	}
	return marks, nil
}

func newAttendanceRecordCommand(opts *RootOptions) *cobra.Command {
	var sheet gradebook.AttendanceSheet
	var marks []string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one lesson's attendance for a class",
		Long: `Record attendance for every student in a class. Students without a --mark
are present. Recording the same class, subject and date again replaces the
previous sheet.`,
		Example:       "  gradebook attendance record --class id-1 --subject id-3 --mark id-11=sick",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMarks(marks)
			if err != nil {
				return opts.formatter(cmd).Fail(err)
			}
			sheet.Marks = m
			if sheet.Date == "" {
				sheet.Date = opts.Now().Format(dateLayout)
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				created, err := svc.RecordAttendance(ctx, sheet)
				if err != nil {
					return err
				}
				return out.Render(created, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Recorded attendance for %d students on %s\n", len(created), sheet.Date)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&sheet.ClassID, "class", "", "class ID (required)")
	cmd.Flags().StringVar(&sheet.SubjectID, "subject", "", "subject ID (required)")
	cmd.Flags().StringVar(&sheet.Date, "date", "", "lesson date, yyyy-mm-dd (default today)")
	cmd.Flags().StringArrayVar(&marks, "mark", nil, "student-id=status (hadir|sakit|ijin|alfa or present|sick|excused|absent)")
	return cmd
}

func newAttendanceListCommand(opts *RootOptions) *cobra.Command {
	var f gradebook.AttendanceFilter
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List attendance records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				records, err := svc.ListAttendance(ctx, f)
				if err != nil {
					return err
				}
				if records == nil {
					records = []model.AttendanceRecord{}
				}
				names := newNameLookup(&ds)
				return out.Render(records, ds.Revision, func(w io.Writer) error {
					rows := make([][]string, 0, len(records))
					for _, r := range records {
						rows = append(rows, []string{
							r.ID, r.Date, names.get(r.ClassID), names.get(r.SubjectID),
							names.get(r.StudentID), r.Status.Label(), r.Notes,
						})
					}
					return writeTable(w, []string{"ID", "DATE", "CLASS", "SUBJECT", "STUDENT", "STATUS", "NOTES"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&f.ClassID, "class", "", "class ID")
	cmd.Flags().StringVar(&f.SubjectID, "subject", "", "subject ID")
	cmd.Flags().StringVar(&f.Date, "date", "", "lesson date, yyyy-mm-dd")
	return cmd
}

func newAttendanceDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an attendance record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteAttendance(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("attendance record", args[0]))
			})
		},
	}
}

// NewJournalCommand creates the journal command group.
func NewJournalCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Keep a teaching journal",
	}
	cmd.AddCommand(newJournalAddCommand(opts))
	cmd.AddCommand(newJournalListCommand(opts))
	cmd.AddCommand(newJournalUpdateCommand(opts))
	cmd.AddCommand(newJournalDeleteCommand(opts))
	return cmd
}

func journalFlags(cmd *cobra.Command, j *model.JournalEntry) {
	cmd.Flags().StringVar(&j.Date, "date", "", "lesson date, yyyy-mm-dd (default today)")
	cmd.Flags().StringVar(&j.ClassID, "class", "", "class ID")
	cmd.Flags().StringVar(&j.SubjectID, "subject", "", "subject ID")
	cmd.Flags().StringVar(&j.Material, "material", "", "material taught")
	cmd.Flags().StringVar(&j.Method, "method", "", "teaching method")
	cmd.Flags().StringVar(&j.Notes, "notes", "", "notes")
}

func newJournalAddCommand(opts *RootOptions) *cobra.Command {
	var j model.JournalEntry
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a journal entry",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if j.Date == "" {
				j.Date = opts.Now().Format(dateLayout)
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddJournal(ctx, j)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added journal entry for %s (%s)\n", added.Date, added.ID)
					return err
				})
			})
		},
	}
	journalFlags(cmd, &j)
	return cmd
}

func newJournalListCommand(opts *RootOptions) *cobra.Command {
	var f gradebook.JournalFilter
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List journal entries, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				entries, err := svc.ListJournals(ctx, f)
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []model.JournalEntry{}
				}
				names := newNameLookup(&ds)
				return out.Render(entries, ds.Revision, func(w io.Writer) error {
					rows := make([][]string, 0, len(entries))
					for _, j := range entries {
						rows = append(rows, []string{j.ID, j.Date, names.get(j.ClassID), names.get(j.SubjectID), j.Material, j.Method})
					}
					return writeTable(w, []string{"ID", "DATE", "CLASS", "SUBJECT", "MATERIAL", "METHOD"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&f.ClassID, "class", "", "class ID")
	cmd.Flags().StringVar(&f.SubjectID, "subject", "", "subject ID")
	return cmd
}

func newJournalUpdateCommand(opts *RootOptions) *cobra.Command {
	var changes model.JournalEntry
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a journal entry",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				entries, err := svc.ListJournals(ctx, gradebook.JournalFilter{})
				if err != nil {
					return err
				}
				var j model.JournalEntry
				found := false
				for _, e := range entries {
					if e.ID == args[0] {
						j, found = e, true
						break
					}
				}
				if !found {
					return &gradebook.NotFoundError{Entity: "journal", ID: args[0]}
				}
				flags := cmd.Flags()
				for name, apply := range map[string]func(){
					"date":     func() { j.Date = changes.Date },
					"class":    func() { j.ClassID = changes.ClassID },
					"subject":  func() { j.SubjectID = changes.SubjectID },
					"material": func() { j.Material = changes.Material },
					"method":   func() { j.Method = changes.Method },
					"notes":    func() { j.Notes = changes.Notes },
				} {
					if flags.Changed(name) {
						apply()
					}
				}
				updated, err := svc.UpdateJournal(ctx, j)
				if err != nil {
					return err
				}
				return out.Render(updated, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated journal entry %s\n", updated.ID)
					return err
				})
			})
		},
	}
	journalFlags(cmd, &changes)
	return cmd
}

func newJournalDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a journal entry",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteJournal(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("journal", args[0]))
			})
		},
	}
}

// NewScheduleCommand creates the schedule command group.
func NewScheduleCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the weekly timetable",
	}
	cmd.AddCommand(newScheduleAddCommand(opts))
	cmd.AddCommand(newScheduleDeleteCommand(opts))
	cmd.AddCommand(newScheduleWeekCommand(opts))
	return cmd
}

func newScheduleAddCommand(opts *RootOptions) *cobra.Command {
	var sch model.Schedule
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a timetable slot",
		Example:       "  gradebook schedule add --class id-1 --subject id-3 --day Monday --start 07:30 --end 09:00",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				added, err := svc.AddSchedule(ctx, sch)
				if err != nil {
					return err
				}
				return out.Render(added, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added %s %s-%s (%s)\n", added.Day, added.StartTime, added.EndTime, added.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&sch.ClassID, "class", "", "class ID (required)")
	cmd.Flags().StringVar(&sch.SubjectID, "subject", "", "subject ID (required)")
	cmd.Flags().StringVar(&sch.Day, "day", "", "weekday, Monday to Sunday")
	cmd.Flags().StringVar(&sch.StartTime, "start", "", "start time, HH:MM")
	cmd.Flags().StringVar(&sch.EndTime, "end", "", "end time, HH:MM")
	return cmd
}

func newScheduleDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a timetable slot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.DeleteSchedule(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted("schedule", args[0]))
			})
		},
	}
}

func newScheduleWeekCommand(opts *RootOptions) *cobra.Command {
	var classID string
	cmd := &cobra.Command{
		Use:           "week",
		Short:         "Show the timetable by weekday",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				ds, err := svc.Dataset(ctx)
				if err != nil {
					return err
				}
				week, err := svc.WeeklySchedule(ctx, classID)
				if err != nil {
					return err
				}
				if week == nil {
					week = []gradebook.DaySchedule{}
				}
				names := newNameLookup(&ds)
				return out.Render(week, ds.Revision, func(w io.Writer) error {
					var rows [][]string
					for _, d := range week {
						for _, s := range d.Slots {
							rows = append(rows, []string{d.Day, s.StartTime + "-" + s.EndTime, names.get(s.ClassID), names.get(s.SubjectID), s.ID})
						}
					}
					return writeTable(w, []string{"DAY", "TIME", "CLASS", "SUBJECT", "ID"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "only this class ID")
	return cmd
}
