package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/config"
	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/ids"
	"github.com/roach88/gradebook/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string
	ConfigFile string

	// ExportDir is resolved from configuration; files written without an
	// explicit --out land here.
	ExportDir string

	// Now and IDs are replaced in tests for deterministic output.
	Now func() time.Time
	IDs ids.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gradebook CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts. Tests use
// it to inject a clock and an ID generator.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = ids.UUIDv7{}
	}

	cmd := &cobra.Command{
		Use:   "gradebook",
		Short: "gradebook - a teacher's class gradebook",
		Long: `Keep classes, students, subjects and scores in a local SQLite file and
turn them into weighted final grades and attendance summaries.

Scores are grouped per category and subject, averaged, and combined using the
category weights. Reports can be printed or exported as CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "gradebook.db", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./gradebook.yaml if present)")

	// Add subcommands
	cmd.AddCommand(NewClassCommand(opts))
	cmd.AddCommand(NewStudentCommand(opts))
	cmd.AddCommand(NewSubjectCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewWeightCommand(opts))
	cmd.AddCommand(NewAssessmentCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewAttendanceCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Flag and argument errors from cobra itself.
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitCommandError
}

// resolve merges configuration into opts and sets up logging. Flags given on
// the command line win over configured values.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{ConfigFile: o.ConfigFile})
	if err != nil {
		return o.formatter(cmd).Fail(WrapExitError(ExitCommandError, ErrCodeConfig, err))
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("db") {
		o.DB = cfg.DB
	}
	o.ExportDir = cfg.ExportDir

	// Validate format flag
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	setupLogging(cmd.ErrOrStderr(), o.Verbose)
	return nil
}

// setupLogging installs the default slog handler on w.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// withService opens the database, runs fn and closes the database. Errors
// from fn are reported through the formatter.
func (o *RootOptions) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *gradebook.Service, out *OutputFormatter) error) error {
	out := o.formatter(cmd)

	st, err := store.Open(o.DB)
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError, ErrCodeDatabase, err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Debug("database ready", "path", o.DB)

	svc := gradebook.New(store.NewRecords(st), gradebook.WithIDGenerator(o.IDs))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fn(ctx, svc, out); err != nil {
		return out.Fail(err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// usageError reports a missing or malformed argument.
func usageError(format string, args ...any) error {
	return WrapExitError(ExitCommandError, ErrCodeUsage, fmt.Errorf(format, args...))
}
