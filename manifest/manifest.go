// Package manifest handles petlik.toml configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/petlik/pkg/bytecode"
)

// FileName is the name of the configuration file searched for by FindAndLoad.
const FileName = "petlik.toml"

// Manifest represents a petlik.toml configuration.
type Manifest struct {
	Compile CompileConfig `toml:"compile"`
	Listing ListingConfig `toml:"listing"`
	Run     RunConfig     `toml:"run"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory containing the petlik.toml file (set at load time).
	// Empty for the built-in defaults.
	Dir string `toml:"-"`
}

// CompileConfig configures code generation.
type CompileConfig struct {
	Optimize bool `toml:"optimize"`
}

// ListingConfig configures the instruction listing printed by -g and -gf.
type ListingConfig struct {
	Header string `toml:"header"`
	Indent int    `toml:"indent"`
}

// RunConfig configures execution.
type RunConfig struct {
	Trace bool `toml:"trace"`
}

// CacheConfig configures the compiled-program cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	// MaxAge is a time.ParseDuration string such as "720h". Entries older
	// than this are pruned whenever a new program is stored. Empty keeps
	// entries forever.
	MaxAge string `toml:"max_age"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no petlik.toml is found.
func Default() *Manifest {
	return &Manifest{
		Compile: CompileConfig{Optimize: true},
		Listing: ListingConfig{
			Header: bytecode.DefaultListingHeader,
			Indent: bytecode.DefaultListingIndent,
		},
		Cache: CacheConfig{Path: filepath.Join(".petlik", "cache.db")},
	}
}

// Load parses a petlik.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path. Keys missing from the
// file keep their Default values.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a petlik.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate rejects values no component can use.
func (m *Manifest) Validate() error {
	if m.Listing.Indent < 0 {
		return fmt.Errorf("listing.indent must not be negative, got %d", m.Listing.Indent)
	}
	if m.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", m.Log.Verbosity)
	}
	if m.Cache.Enabled && m.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when the cache is enabled")
	}
	if _, err := m.CacheMaxAge(); err != nil {
		return err
	}
	return nil
}

// CacheMaxAge returns the parsed cache.max_age, or zero when unset.
func (m *Manifest) CacheMaxAge() (time.Duration, error) {
	if m.Cache.MaxAge == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(m.Cache.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("cache.max_age: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cache.max_age must be positive, got %s", m.Cache.MaxAge)
	}
	return d, nil
}

// ListingOptions returns the listing layout configured in [listing].
func (m *Manifest) ListingOptions() bytecode.ListingOptions {
	return bytecode.ListingOptions{Header: m.Listing.Header, Indent: m.Listing.Indent}
}

// CachePath returns the cache database path. Relative paths are resolved
// against the manifest directory, or the working directory for defaults.
func (m *Manifest) CachePath() string {
	if filepath.IsAbs(m.Cache.Path) || m.Dir == "" {
		return m.Cache.Path
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}
