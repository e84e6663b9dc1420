// Package logging builds slog loggers for the CLI and the resolution
// pipeline, with a human-oriented console handler and a JSON handler for
// non-interactive use. It also carries the shared attribute helpers and
// field-name constants so diagnostics stay uniform across packages.
package logging
