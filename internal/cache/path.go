package cache

import (
	"os"
	"strings"
)

// sanitizeComponent makes a key component safe to embed in a file name by
// replacing every path separator with an underscore. Nothing else is escaped;
// unusual characters pass through and may still fail at the OS boundary,
// which the store treats as an ordinary I/O failure.
func sanitizeComponent(value string) string {
	value = strings.ReplaceAll(value, "/", "_")
	if os.PathSeparator != '/' {
		value = strings.ReplaceAll(value, string(os.PathSeparator), "_")
	}
	return value
}

// EntryPath derives the cache file location for a (artist, title) key.
// The derivation is total, stable, and injective for separator-free inputs;
// it is the single key function shared by lookups and writes.
func (s *Store) EntryPath(artist, title string) string {
	return s.root + string(os.PathSeparator) + sanitizeComponent(artist) + "-" + sanitizeComponent(title)
}
