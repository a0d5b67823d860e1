package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jetscape/softhadron/lib"
	"github.com/jetscape/softhadron/lib/catalog"
	"github.com/jetscape/softhadron/lib/particlization"
	"github.com/jetscape/softhadron/lib/task"
	"github.com/jetscape/softhadron/lib/writer"
)

// RunResult is the output of the run command.
type RunResult struct {
	RunID   string `json:"run_id" yaml:"run_id"`
	Engine  string `json:"engine" yaml:"engine"`
	Events  int    `json:"events" yaml:"events"`
	First   int    `json:"first" yaml:"first"`
	Output  string `json:"output" yaml:"output"`
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

func (r RunResult) String() string {
	s := fmt.Sprintf("Run %s wrote %d event(s) from engine '%s' to %s.",
		r.RunID, r.Events, r.Engine, r.Output)
	if r.Catalog != "" {
		s += fmt.Sprintf(" Catalogued in %s.", r.Catalog)
	}
	return s
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &argFlags{}
	cmd := &cobra.Command{
		Use:   "run <config.xml>",
		Short: "Run a particlization engine and write its hadrons",
		Long: `Runs the engine named in the <SoftParticlization><iS3D> block once per
event and writes every event's hadrons to the output file. Files ending in
.gz or .zst are compressed. Interrupting the run finishes the current event
and closes the output cleanly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, flags, args[0], cmd)
		},
	}
	flags.register(cmd)
	return cmd
}

func runRun(opts *RootOptions, flags *argFlags, configFile string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := slog.Default()

	args, err := flags.loadArgs(cmd, configFile)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "could not read configuration", err)
	}
	if _, err := lib.Check(lib.CrashOnError, args); err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "configuration is not valid", err)
	}

	runID := args.RunID
	if runID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, "could not create run ID", err)
		}
		runID = id.String()
	}
	log = log.With("run", runID)
	log.Info("starting run", "config", configFile, "args", args.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := particlization.NewAdapter(args.Engine)
	adapter.SetLogger(log)
	defer func() {
		if cerr := adapter.Close(); cerr != nil {
			log.Error("error closing engine", "error", cerr)
		}
	}()

	w, err := writer.Open(args.OutputFile,
		writer.WithRunID(runID), writer.WithLogger(log))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "could not open output file", err)
	}
	defer w.Close()
	writers := []task.EventWriter{w}

	if args.Catalog != "" {
		c, err := catalog.Open(args.Catalog)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeIO, "could not open catalog", err)
		}
		defer c.Close()
		if err := c.BeginRun(ctx, runID, args.OutputFile); err != nil {
			return f.Fail(ExitCommandError, ErrCodeIO, "could not register run", err)
		}
		writers = append(writers, c)
	}

	runner := &task.Runner{
		Tasks:   []interface{}{adapter},
		Writers: writers,
		Events:  args.NEvents,
		First:   args.FirstEvent,
		Logger:  log,
	}
	if err := runner.Run(ctx); err != nil {
		return f.Fail(ExitFailure, ErrCodeRun, "run failed", err)
	}

	return f.Success(RunResult{
		RunID:   runID,
		Engine:  args.Engine.String("engine", ""),
		Events:  args.NEvents,
		First:   args.FirstEvent,
		Output:  args.OutputFile,
		Catalog: args.Catalog,
	})
}
