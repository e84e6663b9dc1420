package resolver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"lyricbar/internal/cache"
	"lyricbar/internal/history"
	"lyricbar/internal/provider"
	"lyricbar/internal/track"
)

type stubProvider struct {
	text  string
	ok    bool
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Fetch(context.Context, track.Track) (string, bool) {
	s.calls++
	return s.text, s.ok
}

type recordingConsumer struct {
	mu    sync.Mutex
	texts []string
}

func (c *recordingConsumer) SetLyrics(_ track.Track, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
}

func (c *recordingConsumer) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.texts...)
}

func (c *recordingConsumer) last() string {
	texts := c.all()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.NewStore(filepath.Join(t.TempDir(), "lyrics"), true, nil)
}

func TestMetadataHitSkipsCacheAndProviders(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo",
		track.FieldTitle:  "Bar",
		"unsynced lyrics": "la la",
	})

	store := newTestStore(t)
	prov := &stubProvider{text: "from provider", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, store, provider.Chain{prov}, consumer, nil)
	r.Resolve(context.Background(), tr)

	if got := consumer.all(); len(got) != 1 || got[0] != "la la" {
		t.Fatalf("expected single metadata emit, got %v", got)
	}
	if prov.calls != 0 {
		t.Fatal("provider must not run on a metadata hit")
	}
	if store.Exists("Foo", "Bar") {
		t.Fatal("metadata lyrics must never be cached")
	}
}

func TestMissingIdentityEmitsNotFound(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{track.FieldTitle: "Bar"})

	prov := &stubProvider{text: "text", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, newTestStore(t), provider.Chain{prov}, consumer, nil)
	r.Resolve(context.Background(), tr)

	if got := consumer.all(); len(got) != 1 || got[0] != NotFoundText {
		t.Fatalf("expected single not-found emit, got %v", got)
	}
	if prov.calls != 0 {
		t.Fatal("provider must not run without artist and title")
	}
}

func TestCacheHitSkipsProviders(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo",
		track.FieldTitle:  "Bar",
	})

	store := newTestStore(t)
	if !store.Save("Foo", "Bar", "cached text") {
		t.Fatal("seed cache entry")
	}

	prov := &stubProvider{text: "fresh", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, store, provider.Chain{prov}, consumer, nil)
	r.Resolve(context.Background(), tr)

	if got := consumer.all(); len(got) != 1 || got[0] != "cached text" {
		t.Fatalf("expected cache emit, got %v", got)
	}
	if prov.calls != 0 {
		t.Fatal("provider chain must not run on a cache hit")
	}
}

func TestProviderResultEmittedAndCached(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo/Bar",
		track.FieldTitle:  "Baz",
	})

	store := newTestStore(t)
	prov := &stubProvider{text: "text", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, store, provider.Chain{prov}, consumer, nil)
	r.Resolve(context.Background(), tr)

	got := consumer.all()
	if len(got) != 2 || got[0] != LoadingText || got[1] != "text" {
		t.Fatalf("expected loading then result, got %v", got)
	}

	entryPath := filepath.Join(store.Root(), "Foo_Bar-Baz")
	data, err := os.ReadFile(entryPath)
	if err != nil {
		t.Fatalf("expected cache file at %s: %v", entryPath, err)
	}
	if string(data) != "text" {
		t.Fatalf("cache content = %q, want %q", data, "text")
	}
}

func TestProviderExhaustionEmitsNotFound(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo",
		track.FieldTitle:  "Bar",
	})

	store := newTestStore(t)
	consumer := &recordingConsumer{}

	r := New(lib, store, provider.Chain{&stubProvider{}, &stubProvider{}}, consumer, nil)
	r.Resolve(context.Background(), tr)

	if consumer.last() != NotFoundText {
		t.Fatalf("expected not-found, got %q", consumer.last())
	}
	if store.Exists("Foo", "Bar") {
		t.Fatal("nothing should be cached without a provider result")
	}
}

func TestStalenessCheckSuppressesEmits(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo",
		track.FieldTitle:  "Bar",
	})

	store := newTestStore(t)
	prov := &stubProvider{text: "text", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, store, provider.Chain{prov}, consumer, nil,
		WithStalenessCheck(func(track.Track) bool { return false }))
	r.Resolve(context.Background(), tr)

	if got := consumer.all(); len(got) != 0 {
		t.Fatalf("stale track must not reach the consumer, got %v", got)
	}
	// The resolution itself still ran to completion and populated the cache.
	if !store.Exists("Foo", "Bar") {
		t.Fatal("resolution should complete even when stale")
	}
}

func TestJournalRecordsOutcome(t *testing.T) {
	lib := track.NewLibrary()
	tr := lib.Add("", map[string]string{
		track.FieldArtist: "Foo",
		track.FieldTitle:  "Bar",
	})

	journal, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	prov := &stubProvider{text: "text", ok: true}
	consumer := &recordingConsumer{}

	r := New(lib, newTestStore(t), provider.Chain{prov}, consumer, nil, WithJournal(journal))
	r.Resolve(context.Background(), tr)

	entries, err := journal.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal row, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Artist != "Foo" || entry.Title != "Bar" {
		t.Fatalf("journal identity mismatch: %+v", entry)
	}
	if entry.Source != "stub" || entry.Status != history.StatusFound {
		t.Fatalf("journal outcome mismatch: %+v", entry)
	}
	if entry.ID == "" {
		t.Fatal("journal row missing resolution id")
	}
}

func TestDispatchRunsConcurrently(t *testing.T) {
	lib := track.NewLibrary()
	store := newTestStore(t)
	consumer := &recordingConsumer{}

	r := New(lib, store, nil, consumer, nil)
	for i := 0; i < 8; i++ {
		tr := lib.Add("", map[string]string{
			track.FieldArtist: "Foo",
			track.FieldTitle:  string(rune('A' + i)),
		})
		r.Dispatch(tr)
	}
	r.Wait()

	var finals int
	for _, text := range consumer.all() {
		if text == NotFoundText {
			finals++
		}
	}
	if finals != 8 {
		t.Fatalf("expected 8 final emits, got %d", finals)
	}
}
