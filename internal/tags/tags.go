// Package tags reads audio file metadata through taglib and registers the
// result in a track library, bridging on-disk files into the same metadata
// shape the host player exposes.
package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"

	"lyricbar/internal/metadata"
	"lyricbar/internal/track"
)

var audioExtensions = map[string]struct{}{
	".flac": {},
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".opus": {},
	".wv":   {},
	".ape":  {},
	".aiff": {},
	".wav":  {},
}

// IsAudioFile reports whether the path has a recognized audio extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := audioExtensions[ext]
	return ok
}

// fieldForProperty maps taglib property names onto the metadata field names
// the pipeline reads. taglib upper-cases property names, so each lyric
// synonym maps back to its original spelling and the priority order among
// them survives the mapping.
var fieldForProperty = map[string]string{
	taglib.Artist: track.FieldArtist,
	taglib.Title:  track.FieldTitle,
	taglib.Album:  track.FieldAlbum,
}

func init() {
	for _, field := range metadata.Fields() {
		fieldForProperty[strings.ToUpper(field)] = field
	}
}

func mapProperties(props map[string][]string) map[string]string {
	fields := make(map[string]string, len(fieldForProperty))
	for property, values := range props {
		field, ok := fieldForProperty[property]
		if !ok || len(values) == 0 {
			continue
		}
		if values[0] == "" {
			continue
		}
		fields[field] = values[0]
	}
	return fields
}

// Load reads the file's tags and registers the track in the library.
func Load(library *track.Library, path string) (track.Track, error) {
	props, err := taglib.ReadTags(path)
	if err != nil {
		return track.Track{}, fmt.Errorf("read tags from %s: %w", path, err)
	}
	return library.Add(path, mapProperties(props)), nil
}
