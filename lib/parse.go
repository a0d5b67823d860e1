package lib

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jetscape/softhadron/lib/config"
)

// Default XML paths.
var (
	EnginePath = []string{"SoftParticlization", "iS3D"}
)

// RawArgs stores the unprocessed values which the user assigned to each
// configuration variable. Unset values are nil.
type RawArgs struct {
	NEvents    *int
	FirstEvent *int
	OutputFile *string
	Catalog    *string
	RunID      *string
	Engine     *config.Element
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	NEvents    int
	FirstEvent int
	OutputFile string
	Catalog    string
	RunID      string
	Engine     *config.Element
}

// ParseConfigFile reads arguments from an XML config file.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	root, err := config.Load(fileName)
	if err != nil {
		return nil, err
	}
	return ParseConfig(root)
}

// ParseConfig reads arguments from a parsed XML document. Only keys which
// are present in the document are set.
func ParseConfig(root *config.Element) (*RawArgs, error) {
	args := &RawArgs{}

	if root.Has("nEvents") {
		n, err := root.Int("nEvents", 0)
		if err != nil {
			return nil, err
		}
		args.NEvents = &n
	}
	if root.Has("firstEvent") {
		n, err := root.Int("firstEvent", 0)
		if err != nil {
			return nil, err
		}
		args.FirstEvent = &n
	}
	if root.Has("outputFilename") {
		s := root.String("outputFilename", "")
		args.OutputFile = &s
	}
	if root.Has("catalog") {
		s := root.String("catalog", "")
		args.Catalog = &s
	}
	if root.Has("runID") {
		s := root.String("runID", "")
		args.RunID = &s
	}
	args.Engine = root.Path(EnginePath...)

	return args, nil
}

// Overwrite arguments in arg1 which have been set in arg2.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	if arg2 == nil {
		return
	}
	if arg2.NEvents != nil {
		arg1.NEvents = arg2.NEvents
	}
	if arg2.FirstEvent != nil {
		arg1.FirstEvent = arg2.FirstEvent
	}
	if arg2.OutputFile != nil {
		arg1.OutputFile = arg2.OutputFile
	}
	if arg2.Catalog != nil {
		arg1.Catalog = arg2.Catalog
	}
	if arg2.RunID != nil {
		arg1.RunID = arg2.RunID
	}
	if arg2.Engine != nil {
		arg1.Engine = arg2.Engine
	}
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Unset values get their defaults, and nothing is
// validated here. That is Check's job.
func (args *RawArgs) Process() *Args {
	out := &Args{NEvents: 1, Engine: args.Engine}
	if args.NEvents != nil {
		out.NEvents = *args.NEvents
	}
	if args.FirstEvent != nil {
		out.FirstEvent = *args.FirstEvent
	}
	if args.OutputFile != nil {
		out.OutputFile = *args.OutputFile
	}
	if args.Catalog != nil {
		out.Catalog = *args.Catalog
	}
	if args.RunID != nil {
		out.RunID = *args.RunID
	}
	return out
}

func (args *Args) String() string {
	return fmt.Sprintf("events=%d first=%d output=%q catalog=%q run=%q",
		args.NEvents, args.FirstEvent, args.OutputFile, args.Catalog, args.RunID)
}

// CheckRunID returns an error if id can't be stored as the single token of a
// "# run" header line. The empty ID is valid and means "no run ID".
func CheckRunID(id string) error {
	if i := strings.IndexFunc(id, badRunIDRune); i >= 0 {
		return fmt.Errorf("runID %q contains whitespace or a control "+
			"character at byte %d", id, i)
	}
	return nil
}

// CleanRunID replaces every character CheckRunID rejects with '_'.
func CleanRunID(id string) string {
	return strings.Map(func(r rune) rune {
		if badRunIDRune(r) {
			return '_'
		}
		return r
	}, id)
}

func badRunIDRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
