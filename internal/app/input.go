package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/pouriyajamshidi/flagshape"
)

var (
	// ErrUsageRequested indicates usage help was requested
	ErrUsageRequested = errors.New("usage requested")

	// ErrVersionRequested indicates version display was requested
	ErrVersionRequested = errors.New("version requested")

	// ErrUpdateCheckRequested indicates update check was requested
	ErrUpdateCheckRequested = errors.New("update check requested")
)

// Config contains everything needed for one run of flagshape.
type Config struct {
	// Manifest files, in the order they were given
	Paths []string

	// Print canonical definitions instead of shapes
	Canonical bool

	// Log diagnostics at debug level
	Debug bool

	// Output options
	PrinterConfig flagshape.PrinterConfig
}

// valueFlags lists the flags that consume the following argument.
var valueFlags = []string{"csv", "db", "package"}

// permuteArgs moves flags in front of the manifest paths, since flag parsing
// stops just before the first non-flag argument.
// see: https://pkg.go.dev/flag
func permuteArgs(args []string) error {
	var flagArgs []string
	var nonFlagArgs []string

	for i := 0; i < len(args); i++ {
		v := args[i]
		if len(v) < 2 || v[0] != '-' {
			nonFlagArgs = append(nonFlagArgs, v)
			continue
		}

		optionName := v[1:]
		if optionName[0] == '-' {
			optionName = optionName[1:]
		}

		if !slices.Contains(valueFlags, optionName) {
			flagArgs = append(flagArgs, v)
			continue
		}

		// out of index
		if len(args) <= i+1 {
			return ErrUsageRequested
		}
		// the next flag has come
		optionVal := args[i+1]
		if len(optionVal) > 0 && optionVal[0] == '-' {
			return ErrUsageRequested
		}
		flagArgs = append(flagArgs, args[i:i+2]...)
		i++
	}
	permutedArgs := slices.Concat(flagArgs, nonFlagArgs)

	// replace args in place
	copy(args, permutedArgs)

	return nil
}

// newFlagSet declares the command-line flags of flagshape.
func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("flagshape", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Bool("j", false, "output in JSON format.")
	fs.Bool("pretty", false, "use indentation when using json output format. No effect without the '-j' flag.")
	fs.Bool("no-color", false, "do not colorize output.")
	fs.Bool("flat", false, "do not list the variants of commands with conflicting flags.")
	fs.String("csv", "", "path and file name to store the options to a CSV file.")
	fs.String("db", "", "path and file name to store the options to a sqlite3 database.")
	fs.Bool("go", false, "generate Go structs with a Validate method for each command.")
	fs.String("package", "", "package name of the generated Go source. No effect without the '-go' flag.")
	fs.Bool("canonical", false, "print the canonical form of every flag definition and exit.")
	fs.Bool("debug", false, "log diagnostics while loading manifests.")
	fs.Bool("v", false, "show version and exit.")
	fs.Bool("u", false, "check for updates and exit.")

	return fs
}

// ProcessUserInput parses command-line flags. Returns ErrUsageRequested,
// ErrVersionRequested, or ErrUpdateCheckRequested for special control flow.
func ProcessUserInput(args []string) (Config, error) {
	fs := newFlagSet()

	args = slices.Clone(args)
	if err := permuteArgs(args); err != nil {
		return Config{}, err
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, ErrUsageRequested
		}
		return Config{}, fmt.Errorf("%w: %w", ErrUsageRequested, err)
	}

	if boolFlag(fs, "v") {
		return Config{}, ErrVersionRequested
	}

	if boolFlag(fs, "u") {
		return Config{}, ErrUpdateCheckRequested
	}

	if fs.NArg() == 0 {
		return Config{}, ErrUsageRequested
	}

	outputs := 0
	for _, set := range []bool{
		boolFlag(fs, "j"),
		boolFlag(fs, "go"),
		stringFlag(fs, "csv") != "",
		stringFlag(fs, "db") != "",
	} {
		if set {
			outputs++
		}
	}
	if outputs > 1 {
		return Config{}, fmt.Errorf("%w: only one of -j, -go, -csv and -db can be specified", ErrUsageRequested)
	}

	config := Config{
		Paths:     fs.Args(),
		Canonical: boolFlag(fs, "canonical"),
		Debug:     boolFlag(fs, "debug"),
		PrinterConfig: flagshape.PrinterConfig{
			OutputJSON:    boolFlag(fs, "j"),
			PrettyJSON:    boolFlag(fs, "pretty"),
			OutputGo:      boolFlag(fs, "go"),
			GoPackage:     stringFlag(fs, "package"),
			NoColor:       boolFlag(fs, "no-color"),
			HideVariants:  boolFlag(fs, "flat"),
			OutputDBPath:  stringFlag(fs, "db"),
			OutputCSVPath: stringFlag(fs, "csv"),
		},
	}

	return config, nil
}

func boolFlag(fs *flag.FlagSet, name string) bool {
	getter, ok := fs.Lookup(name).Value.(flag.Getter)
	if !ok {
		return false
	}
	v, _ := getter.Get().(bool)
	return v
}

func stringFlag(fs *flag.FlagSet, name string) string {
	return fs.Lookup(name).Value.String()
}
