package lib

/* check.go contains the core functions of softhadron's "check" mode. */

import (
	"fmt"
	"log/slog"
	"strings"
)

// Check tests args for errors that can be found without running anything.
// With CrashOnError the first problem is returned as an error. With
// WarnOnError every problem is logged, and ok is false if there were any.
func Check(strictness CheckStrictness, args *Args) (ok bool, err error) {
	problems := Problems(args)
	if len(problems) == 0 {
		return true, nil
	}

	if strictness == CrashOnError {
		return false, fmt.Errorf("invalid configuration: %s", problems[0])
	}
	for _, p := range problems {
		slog.Warn("configuration problem", "problem", p)
	}
	return false, nil
}

// Problems lists everything wrong with args. It is empty if args can be run.
func Problems(args *Args) []string {
	var problems []string
	if args.NEvents <= 0 {
		problems = append(problems, fmt.Sprintf(
			"nEvents is %d, but at least one event must be run", args.NEvents))
	}
	if args.FirstEvent < 0 {
		problems = append(problems, fmt.Sprintf(
			"firstEvent is %d, but event numbers can't be negative",
			args.FirstEvent))
	}
	if args.OutputFile == "" {
		problems = append(problems, "no outputFilename was given")
	}
	if err := CheckRunID(args.RunID); err != nil {
		problems = append(problems, err.Error())
	}
	if args.Engine == nil {
		problems = append(problems, fmt.Sprintf(
			"there is no <%s> block", strings.Join(EnginePath, "><")))
	} else if args.Engine.String("engine", "") == "" {
		problems = append(problems, fmt.Sprintf(
			"<%s> doesn't name an <engine>", strings.Join(EnginePath, "><")))
	}
	return problems
}
