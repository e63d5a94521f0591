package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/backup"
	"github.com/roach88/gradebook/internal/gradebook"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import and seed the whole gradebook",
	}
	cmd.AddCommand(newBackupExportCommand(opts))
	cmd.AddCommand(newBackupImportCommand(opts))
	cmd.AddCommand(newBackupSeedCommand(opts))
	return cmd
}

// savedFile is printed after a backup file is written.
type savedFile struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

func (f savedFile) String() string { return "Wrote backup to " + f.Path }

func newBackupExportCommand(opts *RootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Write every collection to a JSON backup",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				data, err := backup.Export(ctx, svc.Records(), opts.Now())
				if err != nil {
					return err
				}
				if outPath == "-" {
					_, err := out.Writer.Write(data)
					return err
				}
				path := outPath
				if path == "" {
					if err := os.MkdirAll(opts.ExportDir, 0o755); err != nil {
						return WrapExitError(ExitFailure, ErrCodeWriteFailed, fmt.Errorf("create export dir: %w", err))
					}
					path = filepath.Join(opts.ExportDir, backup.FileName(opts.Now()))
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return WrapExitError(ExitFailure, ErrCodeWriteFailed, fmt.Errorf("write backup: %w", err))
				}
				slog.Debug("backup written", "path", path, "bytes", len(data))
				return out.Success(savedFile{Path: path, Bytes: len(data)})
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", `file path, "-" for stdout (default: a dated file in export_dir)`)
	return cmd
}

func newBackupImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the gradebook with a JSON backup",
		Long: `Replace the stored collections with the contents of a backup file.

The file must contain classes, students, categories, weights and scores.
Attendance, journals, schedules and assessment names are replaced only when
the file carries them. An invalid file changes nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				out.VerboseLog("Reading backup %s", args[0])
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read backup: %w", err)
				}
				res, err := backup.Import(ctx, svc.Records(), data)
				if err != nil {
					return err
				}
				return out.Render(res, 0, func(w io.Writer) error {
					fmt.Fprintf(w, "Imported %d classes, %d students, %d subjects, %d categories, %d weights, %d scores\n",
						res.Classes, res.Students, res.Subjects, res.Categories, res.Weights, res.Scores)
					if len(res.Kept) > 0 {
						fmt.Fprintf(w, "Kept existing %s\n", strings.Join(res.Kept, ", "))
					}
					return nil
				})
			})
		},
	}
}

func newBackupSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "seed <file.yaml>",
		Short:         "Add records from a YAML seed file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := backup.LoadSeed(args[0])
			if err != nil {
				return opts.formatter(cmd).Fail(err)
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				out.VerboseLog("Seeding from %s", args[0])
				res, err := backup.ApplySeed(ctx, svc, seed)
				if err != nil {
					return err
				}
				return out.Render(res, 0, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Seeded %d classes, %d subjects, %d categories, %d students, %d scores\n",
						res.Classes, res.Subjects, res.Categories, res.Students, res.Scores)
					return err
				})
			})
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Count the records in each collection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				st, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				return out.Render(st, st.Revision, func(w io.Writer) error {
					rows := [][]string{
						{"classes", fmt.Sprint(st.Classes)},
						{"students", fmt.Sprint(st.Students)},
						{"subjects", fmt.Sprint(st.Subjects)},
						{"categories", fmt.Sprint(st.Categories)},
						{"weights", fmt.Sprint(st.Weights)},
						{"scores", fmt.Sprint(st.Scores)},
						{"assessments", fmt.Sprint(st.Assessments)},
						{"attendance", fmt.Sprint(st.Attendance)},
						{"journals", fmt.Sprint(st.Journals)},
						{"schedules", fmt.Sprint(st.Schedules)},
					}
					return writeTable(w, []string{"COLLECTION", "COUNT"}, rows)
				})
			})
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:           "reset",
		Short:         "Delete every record",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return opts.formatter(cmd).Fail(usageError("reset deletes every record; pass --yes to confirm"))
			}
			return opts.withService(cmd, func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error {
				if err := svc.Reset(ctx); err != nil {
					return err
				}
				return out.Success("Gradebook reset")
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every record")
	return cmd
}
