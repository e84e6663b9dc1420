package cache

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"lyricbar/internal/logging"
)

// Store provides the on-disk lyrics cache rooted at a fixed directory.
// The root is injected at construction so tests can point it at an isolated
// temporary directory.
type Store struct {
	root           string
	logger         *slog.Logger
	writeLock      *flock.Flock
	validateOnLoad bool
}

// NewStore creates a cache store over the given root directory. The root is
// not created until EnsureRoot or the first Save. When validateOnLoad is set,
// entries that are not valid UTF-8 are treated as absent on load.
func NewStore(root string, validateOnLoad bool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		root:           filepath.Clean(root),
		logger:         logging.NewComponentLogger(logger, "cache"),
		writeLock:      flock.New(filepath.Clean(root) + ".lock"),
		validateOnLoad: validateOnLoad,
	}
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// Exists reports whether a cache entry is present for the key. Missing
// artist or title always yields false. Only existence is checked, not
// content validity.
func (s *Store) Exists(artist, title string) bool {
	if artist == "" || title == "" {
		return false
	}
	return unix.Access(s.EntryPath(artist, title), unix.F_OK) == nil
}

// Load returns the cached lyrics for the key, or ok=false when the entry is
// missing or unreadable. I/O failures degrade to "not cached" with a logged
// diagnostic.
func (s *Store) Load(artist, title string) (string, bool) {
	if artist == "" || title == "" {
		return "", false
	}

	path := s.EntryPath(artist, title)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("cache entry unreadable",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return "", false
	}

	text := string(data)
	if s.validateOnLoad && !utf8.ValidString(text) {
		s.logger.Warn("cache entry is not a valid text string",
			logging.String(logging.FieldEventType, "cache_entry_invalid"),
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldErrorHint, "remove the entry to allow a fresh lookup"))
		return "", false
	}
	return text, true
}

// Save persists lyrics for the key, overwriting any prior entry. The write
// goes through a temporary file and rename so a crash never leaves a
// truncated entry. Failures are logged and reported as false; the caller's
// already-emitted result is unaffected.
func (s *Store) Save(artist, title, text string) bool {
	if artist == "" || title == "" {
		return false
	}

	if err := s.EnsureRoot(); err != nil {
		s.logger.Error("cache root unavailable",
			logging.String(logging.FieldEventType, "cache_root_failed"),
			logging.String(logging.FieldPath, s.root),
			logging.Error(err))
		return false
	}

	// Serialize writers across processes sharing the cache. A lock failure
	// downgrades to an unsynchronized write rather than losing the lyrics.
	if err := s.writeLock.Lock(); err != nil {
		s.logger.Warn("cache write lock unavailable",
			logging.String(logging.FieldPath, s.writeLock.Path()),
			logging.Error(err))
	} else {
		defer func() {
			if err := s.writeLock.Unlock(); err != nil {
				s.logger.Warn("cache write unlock failed", logging.Error(err))
			}
		}()
	}

	path := s.EntryPath(artist, title)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text), 0o644); err != nil {
		s.logger.Error("could not open cache file for writing",
			logging.String(logging.FieldEventType, "cache_write_failed"),
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return false
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		s.logger.Error("could not finalize cache file",
			logging.String(logging.FieldEventType, "cache_write_failed"),
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return false
	}

	s.logger.Debug("saved lyrics to cache",
		logging.String(logging.FieldArtist, artist),
		logging.String(logging.FieldTitle, title),
		logging.String(logging.FieldPath, path))
	return true
}

// Remove deletes the entry for the key if present. Used by the bulk removal
// action, never by the resolution pipeline.
func (s *Store) Remove(artist, title string) error {
	if artist == "" || title == "" {
		return nil
	}
	err := os.Remove(s.EntryPath(artist, title))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureRoot creates the cache root and any missing ancestors with 0755
// permissions. Pre-existing directories are not an error; any other failure
// is returned unchanged so callers see the underlying OS error.
func (s *Store) EnsureRoot() error {
	return mkpath(s.root, 0o755)
}

// mkpath walks the target path component by component from the first
// separator onward, creating each missing directory. Already-existing
// directories are skipped; any other failure aborts immediately with no
// rollback of directories already created.
func mkpath(path string, mode fs.FileMode) error {
	pos := 0
	for {
		idx := strings.IndexByte(path[pos:], os.PathSeparator)
		var dir string
		if idx < 0 {
			dir = path
		} else {
			dir = path[:pos+idx]
			pos += idx + 1
		}
		if dir != "" {
			if err := os.Mkdir(dir, mode); err != nil && !errors.Is(err, fs.ErrExist) {
				return err
			}
		}
		if idx < 0 {
			return nil
		}
	}
}

// Entry describes one cache file, as listed by Entries.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Entries lists the cache files under the root, newest first. A missing root
// yields an empty list.
func (s *Store) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || strings.HasSuffix(dirEntry.Name(), ".tmp") {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    dirEntry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Clear removes every entry under the root. The root itself is kept.
func (s *Store) Clear() error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(s.root, entry.Name)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
