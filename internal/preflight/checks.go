// Package preflight verifies that the environment can support the lyrics
// pipeline before anything runs, powering `lyricbar doctor`.
package preflight

import (
	"fmt"
	"os/exec"
	"text/template"

	"golang.org/x/sys/unix"

	"lyricbar/internal/cache"
	"lyricbar/internal/config"
	"lyricbar/internal/history"
)

// Result captures one check outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckCacheRoot verifies the cache root can be created and written.
func CheckCacheRoot(store *cache.Store) Result {
	const name = "Cache directory"

	if err := store.EnsureRoot(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Root(), err)}
	}
	if err := unix.Access(store.Root(), unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", store.Root(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", store.Root())}
}

// CheckShell verifies the shell used to spawn lookup commands is available.
func CheckShell() Result {
	const name = "Shell"

	path, err := exec.LookPath("sh")
	if err != nil {
		return Result{Name: name, Detail: "sh not found on PATH"}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckScriptCommand verifies the configured lookup command template parses.
func CheckScriptCommand(cfg *config.Config) Result {
	const name = "Script command"

	if cfg.Script.Command == "" {
		return Result{Name: name, Passed: true, Detail: "external provider disabled"}
	}
	if _, err := template.New("command").Parse(cfg.Script.Command); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("template error: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Script.Command}
}

// CheckHistory verifies the journal database can be opened.
func CheckHistory(cfg *config.Config) Result {
	const name = "History database"

	if !cfg.History.Enabled {
		return Result{Name: name, Passed: true, Detail: "disabled"}
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.HistoryPath(), err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// RunAll executes every check against the given configuration.
func RunAll(cfg *config.Config, store *cache.Store) []Result {
	return []Result{
		CheckCacheRoot(store),
		CheckShell(),
		CheckScriptCommand(cfg),
		CheckHistory(cfg),
	}
}
