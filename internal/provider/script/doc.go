// Package script runs a user-configured external command to look up lyrics.
//
// The command line is fully user-controlled and therefore untrusted: a
// malformed template, a failed spawn, a nonzero exit, empty output, or output
// that is not valid text all degrade to "no lyrics from this provider" with a
// logged diagnostic. One misconfigured command never crashes the pipeline or
// corrupts the cache.
package script
