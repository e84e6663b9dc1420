package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "lyrics"), true, nil)
}

func TestEntryPathSanitizesSeparators(t *testing.T) {
	store := NewStore("/cache/root", true, nil)

	got := store.EntryPath("Foo/Bar", "Baz")
	want := "/cache/root/Foo_Bar-Baz"
	if got != want {
		t.Fatalf("EntryPath = %q, want %q", got, want)
	}
}

func TestEntryPathStableAndInjective(t *testing.T) {
	store := NewStore("/cache/root", true, nil)

	pairs := [][2]string{
		{"Foo", "Bar"},
		{"Foo", "Baz"},
		{"foo", "bar"},
		{"Foo Bar", "Baz"},
	}
	seen := map[string][2]string{}
	for _, pair := range pairs {
		first := store.EntryPath(pair[0], pair[1])
		second := store.EntryPath(pair[0], pair[1])
		if first != second {
			t.Fatalf("EntryPath unstable for %v: %q vs %q", pair, first, second)
		}
		if prev, dup := seen[first]; dup {
			t.Fatalf("EntryPath collision between %v and %v", prev, pair)
		}
		seen[first] = pair
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	lyrics := "la la\nsecond line\n"
	if !store.Save("Foo", "Bar", lyrics) {
		t.Fatal("Save failed")
	}

	got, ok := store.Load("Foo", "Bar")
	if !ok {
		t.Fatal("Load failed to find saved entry")
	}
	if got != lyrics {
		t.Fatalf("round trip mismatch: got %q want %q", got, lyrics)
	}
}

func TestExistsFollowsSaveAndRemove(t *testing.T) {
	store := newTestStore(t)

	if store.Exists("Foo", "Bar") {
		t.Fatal("entry should not exist before save")
	}
	if !store.Save("Foo", "Bar", "text") {
		t.Fatal("Save failed")
	}
	if !store.Exists("Foo", "Bar") {
		t.Fatal("entry should exist after save")
	}
	if err := store.Remove("Foo", "Bar"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists("Foo", "Bar") {
		t.Fatal("entry should not exist after remove")
	}
}

func TestMissingInputsDegradeToAbsent(t *testing.T) {
	store := newTestStore(t)

	if store.Exists("", "Bar") || store.Exists("Foo", "") {
		t.Fatal("Exists must be false for missing inputs")
	}
	if _, ok := store.Load("", "Bar"); ok {
		t.Fatal("Load must be absent for missing artist")
	}
	if store.Save("", "Bar", "text") {
		t.Fatal("Save must fail for missing artist")
	}
	if err := store.Remove("", "Bar"); err != nil {
		t.Fatalf("Remove with missing input should be a no-op, got %v", err)
	}
}

func TestLoadMissingEntry(t *testing.T) {
	store := newTestStore(t)
	if _, ok := store.Load("Nobody", "Nothing"); ok {
		t.Fatal("expected absent for missing entry")
	}
}

func TestLoadRejectsInvalidUTF8WhenValidating(t *testing.T) {
	root := filepath.Join(t.TempDir(), "lyrics")
	store := NewStore(root, true, nil)
	if err := store.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}

	path := store.EntryPath("Foo", "Bar")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'a'}, 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	if _, ok := store.Load("Foo", "Bar"); ok {
		t.Fatal("invalid UTF-8 entry should be treated as absent")
	}

	relaxed := NewStore(root, false, nil)
	if _, ok := relaxed.Load("Foo", "Bar"); !ok {
		t.Fatal("validation disabled should pass raw bytes through")
	}
}

func TestSaveOverwritesExistingEntry(t *testing.T) {
	store := newTestStore(t)

	if !store.Save("Foo", "Bar", "first") {
		t.Fatal("first Save failed")
	}
	if !store.Save("Foo", "Bar", "second") {
		t.Fatal("second Save failed")
	}
	got, ok := store.Load("Foo", "Bar")
	if !ok || got != "second" {
		t.Fatalf("expected overwrite, got %q ok=%v", got, ok)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	store := newTestStore(t)

	if !store.Save("Foo", "Bar", "text") {
		t.Fatal("Save failed")
	}
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestEnsureRootIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "lyrics")
	store := NewStore(root, true, nil)

	if err := store.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	if err := store.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot should tolerate existing directories: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestEnsureRootSurfacesOSError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	store := NewStore(filepath.Join(blocker, "lyrics"), true, nil)
	if err := store.EnsureRoot(); err == nil {
		t.Fatal("expected error when an ancestor is a regular file")
	}
}

func TestEntriesAndClear(t *testing.T) {
	store := newTestStore(t)

	store.Save("A", "One", "1")
	store.Save("B", "Two", "2")

	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err = store.Entries()
	if err != nil {
		t.Fatalf("Entries after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty cache after clear, got %d entries", len(entries))
	}
}

func TestEntriesMissingRoot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"), true, nil)
	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries on missing root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
