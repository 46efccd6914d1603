// Package store loads and saves the jot history.
//
// The history is read in full when the program starts and written back in
// full when it exits. The backend is picked from the path's extension:
// .json is JSON, .db/.sqlite/.sqlite3 is a SQLite database, anything else
// is YAML.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/jotledger/internal/model"
)

// Load and save error classes.
var (
	ErrReadHistory      = errors.New("could not read history")
	ErrMalformedHistory = errors.New("history is malformed")
	ErrEncodeHistory    = errors.New("could not encode history")
	ErrWriteHistory     = errors.New("could not write history")
)

// Store persists a whole JotHistory.
type Store interface {
	// Load returns the stored history. If nothing is stored yet, a new
	// history starting today is created, persisted and returned.
	Load(today model.Date) (*model.JotHistory, error)

	// Save replaces the stored history with h.
	Save(h *model.JotHistory) error

	// Close releases any resources held by the store.
	Close() error
}

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// newFileMode is the mode of a history file created by Save.
const newFileMode fs.FileMode = 0o644

// Format is a file serialization format.
type Format int

// Supported file formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

// Open returns the store for path, chosen by its extension.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	case ".json":
		return NewFileStore(path, FormatJSON), nil
	default:
		return NewFileStore(path, FormatYAML), nil
	}
}

// FileStore keeps the history in a single YAML or JSON file.
type FileStore struct {
	path   string
	format Format
}

// NewFileStore returns a store for the file at path.
func NewFileStore(path string, format Format) *FileStore {
	return &FileStore{path: path, format: format}
}

// Load reads and decodes the history file. A missing file is created with a
// fresh history; any other read failure or bad content is an error.
func (s *FileStore) Load(today model.Date) (*model.JotHistory, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		h := model.NewHistory(today)
		if err := s.Save(h); err != nil {
			return nil, err
		}
		slog.Info("created new history file", "path", s.path)
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w from '%s': %w", ErrReadHistory, s.path, err)
	}

	h, err := s.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse '%s': %w", ErrMalformedHistory, s.path, err)
	}
	slog.Debug("loaded history", "path", s.path, "sets", h.Len())
	return h, nil
}

// Save encodes h and replaces the file contents. The new contents are
// written to a temporary file next to the history file and renamed over it,
// so an interrupted save leaves the previous history intact. A symlinked
// history path is resolved first so the link target is what gets replaced,
// and an existing file keeps its permission bits.
func (s *FileStore) Save(h *model.JotHistory) error {
	data, err := s.encode(h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeHistory, err)
	}

	target, perm, err := s.target()
	if err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrWriteHistory, s.path, err)
	}
	slog.Debug("saved history", "path", s.path, "target", target, "sets", h.Len())
	return nil
}

// target returns the real file a save should replace and the permissions
// it should end up with. A path that does not exist yet is written as-is
// with mode 0644.
func (s *FileStore) target() (string, fs.FileMode, error) {
	resolved, err := filepath.EvalSymlinks(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.path, newFileMode, nil
	}
	if err != nil {
		return "", 0, err
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", 0, err
	}
	return resolved, fi.Mode().Perm(), nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) encode(h *model.JotHistory) ([]byte, error) {
	if s.format == FormatJSON {
		return json.MarshalIndent(h, "", "  ")
	}
	return yaml.Marshal(h)
}

func (s *FileStore) decode(data []byte) (*model.JotHistory, error) {
	var h model.JotHistory
	var err error
	if s.format == FormatJSON {
		err = json.Unmarshal(data, &h)
	} else {
		err = yaml.Unmarshal(data, &h)
	}
	if err != nil {
		return nil, err
	}
	// An empty YAML document never reaches UnmarshalYAML.
	if h.Len() == 1 && h.Current().Interval == nil {
		return nil, model.ErrEmptyHistory
	}
	return &h, nil
}
