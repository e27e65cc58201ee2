package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

const usageText = `Usage: ./petlik [OPTIONS]
	Options:
	-h, --help : printing program usage
	-g         : printing generated instructions
	-gf        : printing generated instructions ONLY, without executing them
	-config F  : reading configuration from F instead of petlik.toml
	-o F       : writing the compiled program image to F, without executing it
	-load F    : executing the program image F instead of standard input
	-dump      : printing non-zero counters to standard error after execution
	-noopt     : compiling every loop as a DJZ/JMP iteration
	-trace     : logging every executed instruction
	-v         : raising log verbosity, may be repeated
`

// errInvalidArguments is reported for unknown flags and positional arguments.
var errInvalidArguments = errors.New("invalid program arguments")

// options holds the parsed command line.
type options struct {
	help        bool
	listing     bool // -g
	listingOnly bool // -gf

	configPath string
	imageOut   string
	imageIn    string
	dump       bool
	noOpt      bool
	trace      bool
	verbosity  verbosityFlag
}

// execute reports whether the compiled program should run.
func (o *options) execute() bool {
	return !o.listingOnly && o.imageOut == ""
}

// verbosityFlag counts repeated -v flags.
type verbosityFlag int

func (v *verbosityFlag) String() string {
	return strconv.Itoa(int(*v))
}

func (v *verbosityFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if b {
		*v++
	}
	return nil
}

func (v *verbosityFlag) IsBoolFlag() bool {
	return true
}

// spellings lists the accepted argument spellings and whether each takes
// a value. Forms the flag package would also take, such as "--g",
// "-g=false" or a bare "--", are rejected.
var spellings = map[string]bool{
	"-h":      false,
	"--help":  false,
	"-g":      false,
	"-gf":     false,
	"-config": true,
	"-o":      true,
	"-load":   true,
	"-dump":   false,
	"-noopt":  false,
	"-trace":  false,
	"-v":      false,
}

// checkSpellings rejects any flag not written exactly as listed in
// spellings. Values of flags that take one are skipped.
func checkSpellings(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) == 0 || arg[0] != '-' {
			continue
		}
		takesValue, ok := spellings[arg]
		if !ok {
			return fmt.Errorf("%w: unknown argument %q", errInvalidArguments, arg)
		}
		if takesValue {
			i++
		}
	}
	return nil
}

// parseOptions parses the program arguments. Any unknown flag or positional
// argument yields errInvalidArguments.
func parseOptions(args []string) (*options, error) {
	var o options

	fs := flag.NewFlagSet("petlik", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVar(&o.help, "h", false, "print usage")
	fs.BoolVar(&o.help, "help", false, "print usage")
	fs.BoolVar(&o.listing, "g", false, "print generated instructions")
	fs.BoolVar(&o.listingOnly, "gf", false, "print generated instructions without executing them")
	fs.StringVar(&o.configPath, "config", "", "configuration file")
	fs.StringVar(&o.imageOut, "o", "", "write the program image and exit")
	fs.StringVar(&o.imageIn, "load", "", "execute a program image")
	fs.BoolVar(&o.dump, "dump", false, "print counters after execution")
	fs.BoolVar(&o.noOpt, "noopt", false, "disable the loop optimization")
	fs.BoolVar(&o.trace, "trace", false, "log executed instructions")
	fs.Var(&o.verbosity, "v", "log verbosity")

	if err := checkSpellings(args); err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errInvalidArguments, fs.Arg(0))
	}
	if o.imageIn != "" && o.imageOut != "" {
		return nil, fmt.Errorf("%w: -o and -load cannot be combined", errInvalidArguments)
	}
	return &o, nil
}
