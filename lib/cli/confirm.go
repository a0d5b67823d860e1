package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jetscape/softhadron/lib/eventio"
)

// ConfirmResult is the output of the confirm command.
type ConfirmResult struct {
	A         string `json:"a" yaml:"a"`
	B         string `json:"b" yaml:"b"`
	Identical bool   `json:"identical" yaml:"identical"`
	Lines     int    `json:"lines" yaml:"lines"`
	// FirstDiff is the first line number that differs, or 0.
	FirstDiff int    `json:"first_diff,omitempty" yaml:"first_diff,omitempty"`
	LineA     string `json:"line_a,omitempty" yaml:"line_a,omitempty"`
	LineB     string `json:"line_b,omitempty" yaml:"line_b,omitempty"`
}

func (r ConfirmResult) String() string {
	if r.Identical {
		return fmt.Sprintf("No differences detected: %s and %s decode to the same %d line(s).",
			r.A, r.B, r.Lines)
	}
	return fmt.Sprintf("%s and %s differ at line %d:\n  < %s\n  > %s",
		r.A, r.B, r.FirstDiff, r.LineA, r.LineB)
}

// NewConfirmCommand creates the confirm command.
func NewConfirmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <a> <b>",
		Short: "Check that two soft hadron files decode to the same text",
		Long: `Decompresses both files if needed and compares them line by line. A
plain file and its .gz or .zst twin written by the same run are identical.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirm(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runConfirm(opts *RootOptions, a, b string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	res, err := compareFiles(a, b)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "could not compare files", err)
	}
	if err := f.Success(res); err != nil {
		return err
	}
	if !res.Identical {
		return NewExitError(ExitFailure, fmt.Sprintf(
			"%s and %s differ at line %d", a, b, res.FirstDiff))
	}
	return nil
}

func compareFiles(a, b string) (ConfirmResult, error) {
	res := ConfirmResult{A: a, B: b}

	ra, err := eventio.OpenDecoded(a)
	if err != nil {
		return res, err
	}
	defer ra.Close()
	rb, err := eventio.OpenDecoded(b)
	if err != nil {
		return res, err
	}
	defer rb.Close()

	sa, sb := newLineScanner(ra), newLineScanner(rb)
	for {
		okA, okB := sa.Scan(), sb.Scan()
		if err := sa.Err(); err != nil {
			return res, fmt.Errorf("reading %s: %w", a, err)
		}
		if err := sb.Err(); err != nil {
			return res, fmt.Errorf("reading %s: %w", b, err)
		}
		if !okA && !okB {
			res.Identical = true
			return res, nil
		}

		res.Lines++
		la, lb := lineOrEOF(sa, okA), lineOrEOF(sb, okB)
		if okA != okB || la != lb {
			res.FirstDiff, res.LineA, res.LineB = res.Lines, la, lb
			return res, nil
		}
	}
}

func newLineScanner(rd io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), eventio.DefaultConfig.MaxLineSize)
	return sc
}

func lineOrEOF(sc *bufio.Scanner, ok bool) string {
	if !ok {
		return "<EOF>"
	}
	return sc.Text()
}
