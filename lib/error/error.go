/*package error contains simple functions for reporting fatal softhadron
errors from places that cannot return them, such as package init blocks and
the top of main.
*/
package error

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Exit is called after a fatal report. Tests replace it.
var Exit = os.Exit

// External reports an error to stderr and exits. It should be used when the
// error is something a user could reasonably fix through changes to their
// configuration, data, or environment. It has the same signature as the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "softhadron exited early with the following error:\n"+format+"\n", a...)
	Exit(1)
}

// Internal reports an error to stderr along with a stack trace and exits. It
// should be used when the error requires a code dive to fix.
func Internal(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, "softhadron exited early with an internal error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	Exit(2)
}
