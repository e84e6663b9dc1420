// Package cache stores resolved lyrics on disk, one flat file per song.
//
// Entries live at <root>/<artist>-<title>, where every path separator in
// artist and title is replaced with an underscore. No other normalization is
// applied: keys are matched by exact string equality, so the same derivation
// backs both lookups and writes. Only provider-sourced lyrics are persisted;
// lyrics found in track metadata are never written here.
//
// The default root is $XDG_CACHE_HOME/deadbeef/lyrics, shared with the
// original plugin so existing caches carry over. All I/O failures degrade to
// "not cached" with a logged diagnostic; nothing in this package is fatal to
// the caller except a structurally unusable root, which EnsureRoot surfaces.
package cache
