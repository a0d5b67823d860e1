package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jetscape/softhadron/lib/cli"
	g_error "github.com/jetscape/softhadron/lib/error"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			g_error.Internal("%v", r)
		}
	}()

	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// cobra's own flag and argument errors.
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'softhadron --help' for usage.\n", err)
		os.Exit(cli.ExitCommandError)
	}
	fmt.Fprintln(os.Stderr, "softhadron:", err)
	os.Exit(exitErr.Code)
}
