package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tliron/commonlog"

	"github.com/chazu/petlik/cache"
	"github.com/chazu/petlik/compiler"
	"github.com/chazu/petlik/manifest"
	"github.com/chazu/petlik/pkg/bytecode"
	"github.com/chazu/petlik/vm"
)

var log = commonlog.GetLogger("petlik.cli")

// traceVerbosity is the lowest verbosity at which debug messages, and so
// instruction traces, are written.
const traceVerbosity = 2

// cli is one invocation of the petlik command.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	workDir string
}

// run executes the command line and returns the process exit code.
func (c *cli) run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(c.stderr, "Invalid program arguments")
		fmt.Fprint(c.stderr, usageText)
		return 1
	}
	if opts.help {
		fmt.Fprint(c.stdout, usageText)
		return 0
	}

	m, err := c.loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(c.stderr, "petlik: %v\n", err)
		return 1
	}
	applyOverrides(m, opts)
	commonlog.Configure(m.Log.Verbosity, nil)

	runID := uuid.New()
	log.Infof("run %s: optimize=%t trace=%t cache=%t", runID, m.Compile.Optimize, m.Run.Trace, m.Cache.Enabled)

	prog, err := c.program(m, opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "petlik: %v\n", err)
		return 1
	}

	if opts.listing || opts.listingOnly {
		if err := prog.WriteListing(c.stdout, m.ListingOptions()); err != nil {
			fmt.Fprintf(c.stderr, "petlik: writing listing: %v\n", err)
			return 1
		}
	}

	if opts.imageOut != "" {
		if err := c.writeImage(opts.imageOut, prog); err != nil {
			fmt.Fprintf(c.stderr, "petlik: %v\n", err)
			return 1
		}
		log.Infof("run %s: wrote image %s", runID, opts.imageOut)
	}

	if !opts.execute() {
		return 0
	}

	interp := vm.NewInterpreter(c.stdout)
	interp.Trace = m.Run.Trace
	stats, err := interp.Run(prog)
	if err != nil {
		fmt.Fprintf(c.stderr, "petlik: %v\n", err)
		return 1
	}
	log.Infof("run %s: halted after %d steps, %d printed", runID, stats.Steps, stats.Printed)

	if opts.dump {
		writeCounterTable(c.stderr, interp.Bank, stats)
	}
	return 0
}

// path resolves p against the working directory of the invocation.
func (c *cli) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.workDir, p)
}

// loadConfig reads the file given with -config, or the nearest petlik.toml
// above the working directory, or falls back to the defaults.
func (c *cli) loadConfig(configPath string) (*manifest.Manifest, error) {
	if configPath != "" {
		return manifest.LoadFile(c.path(configPath))
	}

	m, err := manifest.FindAndLoad(c.workDir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return manifest.Default(), nil
	}
	return m, nil
}

// applyOverrides lets command-line flags win over the configuration file.
func applyOverrides(m *manifest.Manifest, opts *options) {
	if opts.noOpt {
		m.Compile.Optimize = false
	}
	if opts.trace {
		m.Run.Trace = true
	}
	if opts.verbosity > 0 {
		m.Log.Verbosity = int(opts.verbosity)
	}
	if m.Run.Trace && m.Log.Verbosity < traceVerbosity {
		m.Log.Verbosity = traceVerbosity
	}
}

// program loads the image given with -load, or compiles standard input.
func (c *cli) program(m *manifest.Manifest, opts *options) (*bytecode.Program, error) {
	if opts.imageIn != "" {
		data, err := os.ReadFile(c.path(opts.imageIn))
		if err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		prog, err := bytecode.DecodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", opts.imageIn, err)
		}
		return prog, nil
	}

	source, err := io.ReadAll(c.stdin)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return c.compile(m, source)
}

// compile compiles source, going through the program cache when enabled.
// Cache failures are logged and never fail the run.
func (c *cli) compile(m *manifest.Manifest, source []byte) (*bytecode.Program, error) {
	opts := compiler.Options{Optimize: m.Compile.Optimize}
	if !m.Cache.Enabled {
		return compileSource(source, opts)
	}

	store, err := cache.Open(c.path(m.CachePath()))
	if err != nil {
		log.Warningf("cache unavailable: %s", err)
		return compileSource(source, opts)
	}
	defer store.Close()

	key := cache.Key(source, opts.Optimize)
	prog, ok, err := store.Lookup(key)
	if err != nil {
		log.Warningf("cache lookup: %s", err)
	} else if ok {
		return prog, nil
	}

	prog, err = compileSource(source, opts)
	if err != nil {
		return nil, err
	}
	pruneCache(store, m)
	if err := store.Store(key, prog); err != nil {
		log.Warningf("cache store: %s", err)
	}
	return prog, nil
}

// pruneCache drops entries older than cache.max_age, if one is set.
func pruneCache(store *cache.Store, m *manifest.Manifest) {
	maxAge, err := m.CacheMaxAge()
	if err != nil || maxAge == 0 {
		return
	}
	removed, err := store.Prune(time.Now().Add(-maxAge))
	if err != nil {
		log.Warningf("cache prune: %s", err)
		return
	}
	if n, err := store.Count(); err == nil {
		log.Debugf("pruned %d cached programs, %d left", removed, n)
	}
}

func compileSource(source []byte, opts compiler.Options) (*bytecode.Program, error) {
	prog, err := compiler.CompileBytes(source, opts)
	if err != nil {
		if errors.Is(err, compiler.ErrInvalidEncoding) {
			return nil, fmt.Errorf("reading program: %w", err)
		}
		return nil, fmt.Errorf("compile: %w", err)
	}
	return prog, nil
}

func (c *cli) writeImage(path string, prog *bytecode.Program) error {
	data, err := bytecode.EncodeImage(prog)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path(path), data, 0o644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}

// writeCounterTable renders the non-zero counters of bank as a table.
func writeCounterTable(w io.Writer, bank *vm.Bank, stats vm.RunStats) {
	t := table.NewWriter()
	t.SetTitle("Counters")
	t.AppendHeader(table.Row{"Counter", "Value", "Groups"})

	for _, cv := range bank.Snapshot() {
		t.AppendRow(table.Row{cv.Var.String(), cv.Value, bank.Get(cv.Var).Len()})
	}

	t.AppendFooter(table.Row{"steps", stats.Steps, ""})
	fmt.Fprintln(w, t.Render())
}
