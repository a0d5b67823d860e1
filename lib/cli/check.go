package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jetscape/softhadron/lib"
	"github.com/jetscape/softhadron/lib/particlization"
)

// argFlags are the command-line flags which overwrite values in the
// configuration file.
type argFlags struct {
	events  int
	first   int
	output  string
	catalog string
	runID   string
}

func (a *argFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&a.events, "events", "n", 0, "number of events (overrides nEvents)")
	cmd.Flags().IntVar(&a.first, "first", 0, "number of the first event (overrides firstEvent)")
	cmd.Flags().StringVarP(&a.output, "output", "o", "", "output file (overrides outputFilename)")
	cmd.Flags().StringVar(&a.catalog, "catalog", "", "SQLite event catalog (overrides catalog)")
	cmd.Flags().StringVar(&a.runID, "run-id", "", "run ID (overrides runID, default is a new UUIDv7)")
}

// raw returns the flags the user actually set.
func (a *argFlags) raw(cmd *cobra.Command) *lib.RawArgs {
	raw := &lib.RawArgs{}
	fl := cmd.Flags()
	if fl.Changed("events") {
		raw.NEvents = &a.events
	}
	if fl.Changed("first") {
		raw.FirstEvent = &a.first
	}
	if fl.Changed("output") {
		raw.OutputFile = &a.output
	}
	if fl.Changed("catalog") {
		raw.Catalog = &a.catalog
	}
	if fl.Changed("run-id") {
		raw.RunID = &a.runID
	}
	return raw
}

// loadArgs reads the config file and applies command-line overrides.
func (a *argFlags) loadArgs(cmd *cobra.Command, configFile string) (*lib.Args, error) {
	raw, err := lib.ParseConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	raw.Overwrite(a.raw(cmd))
	return raw.Process(), nil
}

// CheckResult is the output of the check command.
type CheckResult struct {
	Config   string   `json:"config" yaml:"config"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Engine   string   `json:"engine,omitempty" yaml:"engine,omitempty"`
	Events   int      `json:"events" yaml:"events"`
	Output   string   `json:"output" yaml:"output"`
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func (r CheckResult) String() string {
	if r.Valid {
		return fmt.Sprintf("No errors detected in %s: %d event(s) from engine '%s' to %s.",
			r.Config, r.Events, r.Engine, r.Output)
	}
	return fmt.Sprintf("%s has %d problem(s):\n  %s", r.Config,
		len(r.Problems), strings.Join(r.Problems, "\n  "))
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &argFlags{}
	cmd := &cobra.Command{
		Use:   "check <config.xml>",
		Short: "Check a run configuration for errors without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, flags, args[0], cmd)
		},
	}
	flags.register(cmd)
	return cmd
}

func runCheck(opts *RootOptions, flags *argFlags, configFile string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	args, err := flags.loadArgs(cmd, configFile)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "could not read configuration", err)
	}
	f.VerboseLog("checking %s", args)

	res := CheckResult{
		Config:   configFile,
		Events:   args.NEvents,
		Output:   args.OutputFile,
		Problems: lib.Problems(args),
	}
	if args.Engine != nil {
		res.Engine = args.Engine.String("engine", "")
		if res.Engine != "" && !knownEngine(res.Engine) {
			res.Problems = append(res.Problems, fmt.Sprintf(
				"engine '%s' is unknown, the known engines are %v",
				res.Engine, particlization.Engines()))
		}
	}
	res.Valid = len(res.Problems) == 0

	if err := f.Success(res); err != nil {
		return err
	}
	if !res.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not valid", configFile))
	}
	return nil
}

func knownEngine(name string) bool {
	for _, e := range particlization.Engines() {
		if e == name {
			return true
		}
	}
	return false
}
