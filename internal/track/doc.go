// Package track models the host player's side of the pipeline: opaque track
// handles and a metadata library read under a shared lock.
//
// The resolution pipeline never owns track metadata. It borrows a Track for
// one resolution and reads fields through Library accessors, each of which
// acquires the read lock only for the duration of that read — never across
// file I/O or a subprocess call.
package track
