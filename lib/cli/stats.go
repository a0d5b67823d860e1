package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jetscape/softhadron/lib/eventio"
	"github.com/jetscape/softhadron/lib/format"
	"github.com/jetscape/softhadron/lib/stats"
)

// StatsResult is the output of the stats command.
type StatsResult struct {
	File   string          `json:"file" yaml:"file"`
	RunID  string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Run    stats.Run       `json:"run" yaml:"run"`
	Events []stats.Summary `json:"events" yaml:"events"`
	// Missing lists selected event numbers that aren't in the file.
	Missing []int `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func (r StatsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d event(s), %d hadron(s), %.3g per event (weighted %.3g)\n",
		r.File, r.Run.Events, r.Run.Hadrons, r.Run.MeanHadrons, r.Run.WeightedMean)
	fmt.Fprintf(&b, "%8s %10s %8s %12s %10s %10s", "event", "weight", "hadrons",
		"sum E", "<pt>", "<y>")
	for _, s := range r.Events {
		fmt.Fprintf(&b, "\n%8d %10.4g %8d %12.6g %10.4g %10.4g",
			s.Event, s.Weight, s.Hadrons, s.SumE, s.MeanPt, s.MeanRapidity)
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "\nselected but not found: %v", r.Missing)
	}
	return b.String()
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var sel string
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize the events in a soft hadron file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], sel, cmd)
		},
	}
	cmd.Flags().StringVar(&sel, "select", "", `event numbers to summarize, e.g. "0..99 - 13"`)
	return cmd
}

func runStats(opts *RootOptions, file, sel string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var selection *format.Selection
	if sel != "" {
		var err error
		if selection, err = format.ParseSelection(sel); err != nil {
			return f.Fail(ExitCommandError, ErrCodeConfig, "bad --select", err)
		}
	}

	r, err := eventio.Open(file)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "could not open file", err)
	}
	defer r.Close()

	res := StatsResult{File: file, RunID: r.Header().RunID, Events: []stats.Summary{}}
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return f.Fail(ExitFailure, ErrCodeIO, "could not read file", err)
		}
		if selection.Contains(ev.Number) {
			res.Events = append(res.Events, stats.Summarize(ev))
		}
	}
	res.Run = stats.Combine(res.Events)
	res.Missing = missing(selection, res.Events)
	f.VerboseLog("summarized %d event(s) of %s", len(res.Events), file)

	return f.Success(res)
}

// missing returns the numbers in selection that no summary has.
func missing(selection *format.Selection, found []stats.Summary) []int {
	seen := make(map[int]bool, len(found))
	for _, s := range found {
		seen[s.Event] = true
	}
	var out []int
	for _, n := range selection.Numbers() {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}
