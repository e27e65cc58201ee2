// Package cache stores compiled petlik programs in SQLite, keyed by the hash
// of their source and compile options.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/petlik/pkg/bytecode"
)

var log = commonlog.GetLogger("petlik.cache")

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

// Key returns the cache key of source compiled with or without the loop
// optimization: the hex SHA-256 of one options byte followed by the source.
func Key(source []byte, optimize bool) string {
	h := sha256.New()
	if optimize {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// ---------------------------------------------------------------------------
// Store: SQLite-backed program images
// ---------------------------------------------------------------------------

// Store is a compiled-program cache. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache database at path. Missing parent
// directories are created.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		key TEXT PRIMARY KEY,
		image BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened cache %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Lookup returns the program stored under key. The boolean is false on a
// miss. An entry whose image no longer decodes is dropped and reported as
// a miss.
func (s *Store) Lookup(key string) (*bytecode.Program, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow("SELECT image FROM programs WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("miss %s", short(key))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying program: %w", err)
	}

	prog, err := bytecode.DecodeImage(data)
	if err != nil {
		log.Warningf("dropping corrupt entry %s: %s", short(key), err)
		if _, err := s.db.Exec("DELETE FROM programs WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("deleting corrupt program: %w", err)
		}
		return nil, false, nil
	}

	log.Debugf("hit %s (%d instructions)", short(key), prog.Len())
	return prog, true, nil
}

// Store saves prog under key, replacing any previous entry.
func (s *Store) Store(key string, prog *bytecode.Program) error {
	data, err := bytecode.EncodeImage(prog)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO programs (key, image, created) VALUES (?, ?, ?)",
		key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving program: %w", err)
	}

	log.Debugf("stored %s (%d bytes)", short(key), len(data))
	return nil
}

// Count returns the number of cached programs.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM programs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting programs: %w", err)
	}
	return n, nil
}

// Prune deletes entries created at or before cutoff, at one-second
// resolution, and returns how many were removed.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM programs WHERE created <= ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning programs: %w", err)
	}
	return res.RowsAffected()
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
