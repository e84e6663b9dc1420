// Package metadata surfaces lyrics already embedded in a track's tags.
package metadata

import (
	"lyricbar/internal/track"
)

// lyricFields are the synonym field names checked in priority order. They are
// case-variant spellings of the same semantic field as written by different
// taggers, so matching stays exact rather than case-folded.
var lyricFields = []string{"unsynced lyrics", "UNSYNCEDLYRICS", "lyrics"}

// FromTrack returns the first embedded lyrics value found on the track, read
// under the library's shared lock. ok is false when no synonym is present.
func FromTrack(library *track.Library, t track.Track) (string, bool) {
	return library.First(t, lyricFields...)
}

// Fields returns the synonym field names, primarily for tag loaders that
// need to know which keys carry lyrics.
func Fields() []string {
	out := make([]string, len(lyricFields))
	copy(out, lyricFields)
	return out
}
