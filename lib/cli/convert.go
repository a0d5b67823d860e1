package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jetscape/softhadron/lib/eventio"
	"github.com/jetscape/softhadron/lib/format"
	"github.com/jetscape/softhadron/lib/writer"
)

// ConvertResult is the output of the convert command.
type ConvertResult struct {
	Input     string `json:"input" yaml:"input"`
	Output    string `json:"output" yaml:"output"`
	Selection string `json:"selection" yaml:"selection"`
	Read      int    `json:"read" yaml:"read"`
	Written   int    `json:"written" yaml:"written"`
}

func (r ConvertResult) String() string {
	return fmt.Sprintf("Wrote %d of %d event(s) from %s to %s.",
		r.Written, r.Read, r.Input, r.Output)
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var sel string
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-write a soft hadron file, optionally recompressing or selecting events",
		Long: `Reads every event in <in> and writes it to <out>. The output is
compressed if its name ends in .gz or .zst. The run ID and the comments in
the header and between events are kept, so converting a file written by
"run" without --select gives a file that "confirm" accepts. Comments inside
an event block are dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], sel, cmd)
		},
	}
	cmd.Flags().StringVar(&sel, "select", "", `event numbers to keep, e.g. "0..99 - 13"`)
	return cmd
}

func runConvert(opts *RootOptions, in, out, sel string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var selection *format.Selection
	if sel != "" {
		var err error
		if selection, err = format.ParseSelection(sel); err != nil {
			return f.Fail(ExitCommandError, ErrCodeConfig, "bad --select", err)
		}
	}

	r, err := eventio.Open(in)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "could not open input", err)
	}
	defer r.Close()

	hd := r.Header()
	w, err := writer.Open(out, writer.WithRunID(hd.RunID))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "could not open output", err)
	}
	defer w.Close()

	w.Init()
	for _, c := range hd.Comments {
		w.WriteComment(c)
	}

	res := ConvertResult{Input: in, Output: out, Selection: selection.String()}
	for {
		ev, err := r.Next()
		if err != nil && !errors.Is(err, io.EOF) {
			return f.Fail(ExitFailure, ErrCodeIO, "could not read input", err)
		}
		for _, c := range r.Comments() {
			w.WriteComment(c)
		}
		if err != nil {
			break
		}
		res.Read++

		if !selection.Contains(ev.Number) {
			continue
		}
		w.Exec(ev)
		if !w.GetStatus() {
			return f.Fail(ExitFailure, ErrCodeIO, "could not write output", w.Err())
		}
		res.Written++
	}

	if err := w.Close(); err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "could not close output", err)
	}
	slog.Debug("converted", "in", in, "out", out, "read", res.Read, "written", res.Written)
	return f.Success(res)
}
