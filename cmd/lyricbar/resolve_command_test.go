package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricbar/internal/cache"
)

func writeTestConfig(t *testing.T) (configPath, cacheDir string) {
	t.Helper()

	base := t.TempDir()
	cacheDir = filepath.Join(base, "lyrics")
	contents := fmt.Sprintf(`[paths]
cache_dir = %q
data_dir = %q

[history]
enabled = false

[logging]
format = "json"
level = "error"
`, cacheDir, filepath.Join(base, "data"))

	configPath = filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, cacheDir
}

func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCommand()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestResolveEmitsCachedLyrics(t *testing.T) {
	configPath, cacheDir := writeTestConfig(t)

	store := cache.NewStore(cacheDir, true, nil)
	if !store.Save("Foo", "Bar", "cached lyrics\n") {
		t.Fatal("seed cache entry")
	}

	stdout, _, err := runCommand(t, "--config", configPath, "resolve", "--artist", "Foo", "--title", "Bar")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(stdout, "cached lyrics") {
		t.Fatalf("stdout missing lyrics: %q", stdout)
	}
}

func TestResolveEmitsNotFoundWithoutSources(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	stdout, stderr, err := runCommand(t, "--config", configPath, "resolve", "--artist", "Foo", "--title", "Bar")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(stdout, "Lyrics not found") {
		t.Fatalf("stdout missing not-found marker: %q", stdout)
	}
	if !strings.Contains(stderr, "Loading...") {
		t.Fatalf("stderr missing interim indicator: %q", stderr)
	}
}

func TestResolveRequiresIdentityOrFile(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, _, err := runCommand(t, "--config", configPath, "resolve", "--artist", "Foo"); err == nil {
		t.Fatal("expected error without title")
	}
}

func TestCachePathPrintsRoot(t *testing.T) {
	configPath, cacheDir := writeTestConfig(t)

	stdout, _, err := runCommand(t, "--config", configPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if strings.TrimSpace(stdout) != cacheDir {
		t.Fatalf("cache path = %q, want %q", strings.TrimSpace(stdout), cacheDir)
	}
}

func TestCacheRemoveByKey(t *testing.T) {
	configPath, cacheDir := writeTestConfig(t)

	store := cache.NewStore(cacheDir, true, nil)
	if !store.Save("Foo", "Bar", "text") {
		t.Fatal("seed cache entry")
	}

	if _, _, err := runCommand(t, "--config", configPath, "cache", "remove", "--artist", "Foo", "--title", "Bar"); err != nil {
		t.Fatalf("cache remove failed: %v", err)
	}
	if store.Exists("Foo", "Bar") {
		t.Fatal("entry should be gone after removal")
	}
}

func TestCacheClearRequiresForce(t *testing.T) {
	configPath, cacheDir := writeTestConfig(t)

	store := cache.NewStore(cacheDir, true, nil)
	if !store.Save("Foo", "Bar", "text") {
		t.Fatal("seed cache entry")
	}

	if _, _, err := runCommand(t, "--config", configPath, "cache", "clear"); err == nil {
		t.Fatal("expected refusal without --force")
	}
	if _, _, err := runCommand(t, "--config", configPath, "cache", "clear", "--force"); err != nil {
		t.Fatalf("cache clear --force failed: %v", err)
	}
	if store.Exists("Foo", "Bar") {
		t.Fatal("cache should be empty after clear")
	}
}
