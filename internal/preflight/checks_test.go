package preflight

import (
	"path/filepath"
	"testing"

	"lyricbar/internal/cache"
	"lyricbar/internal/testsupport"
)

func TestCheckCacheRootCreatesDirectory(t *testing.T) {
	store := cache.NewStore(filepath.Join(t.TempDir(), "a", "lyrics"), true, nil)

	result := CheckCacheRoot(store)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckScriptCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	if result := CheckScriptCommand(cfg); !result.Passed {
		t.Fatalf("empty command should pass as disabled, got %+v", result)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithScriptCommand("fetch {{.Artist}}"))
	if result := CheckScriptCommand(cfg); !result.Passed {
		t.Fatalf("valid template should pass, got %+v", result)
	}

	cfg.Script.Command = "fetch {{.Artist"
	if result := CheckScriptCommand(cfg); result.Passed {
		t.Fatal("malformed template should fail")
	}
}

func TestCheckHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckHistory(cfg); !result.Passed {
		t.Fatalf("disabled history should pass, got %+v", result)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithHistory())
	result := CheckHistory(cfg)
	if !result.Passed {
		t.Fatalf("enabled history should open its database, got %+v", result)
	}
	if result.Detail != cfg.HistoryPath() {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := cache.NewStore(cfg.Paths.CacheDir, true, nil)

	results := RunAll(cfg, store)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	seen := map[string]struct{}{}
	for _, result := range results {
		if result.Name == "" {
			t.Fatalf("check missing name: %+v", result)
		}
		seen[result.Name] = struct{}{}
	}
	if len(seen) != len(results) {
		t.Fatal("check names must be unique")
	}
}
