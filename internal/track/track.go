package track

import (
	"sync"
)

// Well-known metadata field names.
const (
	FieldArtist = "artist"
	FieldTitle  = "title"
	FieldAlbum  = "album"
)

// Track is an opaque handle for a playable item. The zero value is invalid;
// handles are issued by a Library and stay valid for its lifetime.
type Track struct {
	id   int64
	path string
}

// Path returns the filesystem location of the track, if known.
func (t Track) Path() string { return t.path }

// Valid reports whether the handle was issued by a Library.
func (t Track) Valid() bool { return t.id != 0 }

// Library is a shared, read-mostly metadata store for tracks. Multiple
// resolution workers read it concurrently; all reads take the shared lock.
type Library struct {
	mu     sync.RWMutex
	nextID int64
	meta   map[int64]map[string]string
}

// NewLibrary returns an empty metadata library.
func NewLibrary() *Library {
	return &Library{meta: make(map[int64]map[string]string)}
}

// Add registers a track with the given metadata fields and returns its
// handle. The fields map is copied; empty values are dropped.
func (l *Library) Add(path string, fields map[string]string) Track {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	copied := make(map[string]string, len(fields))
	for key, value := range fields {
		if value == "" {
			continue
		}
		copied[key] = value
	}
	l.meta[l.nextID] = copied
	return Track{id: l.nextID, path: path}
}

// First returns the first present value among the named fields, checked in
// order. The read lock is held only for the lookup.
func (l *Library) First(t Track, fields ...string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	meta, ok := l.meta[t.id]
	if !ok {
		return "", false
	}
	for _, field := range fields {
		if value, present := meta[field]; present {
			return value, true
		}
	}
	return "", false
}

// Identity returns the track's artist and title under a single lock
// acquisition. ok is false when either field is absent.
func (l *Library) Identity(t Track) (artist, title string, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	meta, present := l.meta[t.id]
	if !present {
		return "", "", false
	}
	artist, hasArtist := meta[FieldArtist]
	title, hasTitle := meta[FieldTitle]
	return artist, title, hasArtist && hasTitle
}

// Fields returns a copy of the named fields (missing ones map to "") under a
// single lock acquisition. Callers use this to gather template inputs without
// holding the lock across evaluation.
func (l *Library) Fields(t Track, names ...string) map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]string, len(names))
	meta := l.meta[t.id]
	for _, name := range names {
		out[name] = meta[name]
	}
	return out
}
