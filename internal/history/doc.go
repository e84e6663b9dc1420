// Package history records resolution outcomes in a local SQLite database so
// past lookups can be audited with `lyricbar history`. The journal is an
// observer: a write failure is logged by the caller and never alters the
// emitted lyrics.
package history
