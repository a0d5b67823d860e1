/*package lib contains the pieces of softhadron that are shared by the
command line tool and the library packages: the constants describing the text
format and the run arguments read from the XML configuration. Almost all of
the real work is done by lib/'s subpackages.
*/
package lib

var (
	// FormatVersion is the version of the text format. It should change
	// whenever the column layout or the event delimiters change.
	FormatVersion = 1
	// FormatName is the first token of the header line.
	FormatName = "softhadron ascii"

	// CommentPrefix starts comment lines and event delimiters.
	CommentPrefix = "# "
	// EventKeyword opens an event block: "# event <n> weight ..."
	EventKeyword = "event"
	// EndKeyword closes an event block: "# end <n>"
	EndKeyword = "end"
	// RunKeyword labels the run ID line in the header: "# run <id>"
	RunKeyword = "run"
	// ColumnsKeyword labels the column legend in the header.
	ColumnsKeyword = "columns:"

	// Columns gives the fields of every hadron line, in order.
	Columns = []string{
		"index", "pid", "status", "E", "px", "py", "pz", "t", "x", "y", "z",
	}
)
