package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lyricbar/internal/cache"
	"lyricbar/internal/history"
	"lyricbar/internal/logging"
	"lyricbar/internal/metadata"
	"lyricbar/internal/provider"
	"lyricbar/internal/track"
)

// Texts emitted to the consumer besides actual lyrics.
const (
	LoadingText  = "Loading..."
	NotFoundText = "Lyrics not found"
)

// Consumer receives lyrics text updates for a track. It is invoked one to
// three times per resolution: an optional interim LoadingText, then the final
// lyrics or NotFoundText.
type Consumer interface {
	SetLyrics(t track.Track, text string)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(t track.Track, text string)

func (f ConsumerFunc) SetLyrics(t track.Track, text string) { f(t, text) }

// Option configures the resolver.
type Option func(*Resolver)

// WithJournal records every completed resolution in the history store.
func WithJournal(journal *history.Store) Option {
	return func(r *Resolver) { r.journal = journal }
}

// WithStalenessCheck suppresses emits for tracks that are no longer current.
// Resolutions still run to completion; only the consumer calls are skipped.
func WithStalenessCheck(isCurrent func(track.Track) bool) Option {
	return func(r *Resolver) { r.isCurrent = isCurrent }
}

// Resolver owns the resolution pipeline for a shared track library.
type Resolver struct {
	library   *track.Library
	cache     *cache.Store
	chain     provider.Chain
	consumer  Consumer
	journal   *history.Store
	logger    *slog.Logger
	isCurrent func(track.Track) bool

	wg sync.WaitGroup
}

// New constructs a resolver over the given collaborators.
func New(library *track.Library, store *cache.Store, chain provider.Chain, consumer Consumer, logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Resolver{
		library:  library,
		cache:    store,
		chain:    chain,
		consumer: consumer,
		logger:   logging.NewComponentLogger(logger, "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch runs one resolution on its own goroutine, the way the host fires
// a worker per track-change event. Overlapping resolutions for different
// tracks are independent; the shared library is the only common state.
func (r *Resolver) Dispatch(t track.Track) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Resolve(context.Background(), t)
	}()
}

// Wait blocks until all dispatched resolutions have completed.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Resolve performs one end-to-end resolution for the track. It never returns
// an error: every failure below it degrades to an absent value, and the
// consumer always receives a final text.
func (r *Resolver) Resolve(ctx context.Context, t track.Track) {
	started := time.Now()
	resolutionID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldResolutionID, resolutionID))

	if text, ok := metadata.FromTrack(r.library, t); ok {
		logger.Debug("lyrics found in track metadata")
		r.emit(t, text)
		r.record(ctx, resolutionID, t, history.SourceMetadata, history.StatusFound, started)
		return
	}

	artist, title, ok := r.library.Identity(t)
	if !ok {
		logger.Debug("track is missing artist or title")
		r.emit(t, NotFoundText)
		r.record(ctx, resolutionID, t, "", history.StatusNotFound, started)
		return
	}
	logger = logger.With(
		logging.String(logging.FieldArtist, artist),
		logging.String(logging.FieldTitle, title),
	)

	if text, ok := r.cache.Load(artist, title); ok {
		logger.Debug("lyrics found in cache")
		r.emit(t, text)
		r.record(ctx, resolutionID, t, history.SourceCache, history.StatusFound, started)
		return
	}

	// The provider chain can block on a subprocess; let the consumer show
	// progress instead of appearing frozen.
	r.emit(t, LoadingText)

	if text, name, ok := r.chain.Fetch(ctx, t); ok {
		logger.Info("lyrics resolved",
			logging.String(logging.FieldProvider, name),
			logging.Duration("elapsed", time.Since(started)))
		r.emit(t, text)
		if !r.cache.Save(artist, title, text) {
			// The store already logged the diagnostic; the emitted result
			// stands regardless.
			logger.Debug("cache population failed")
		}
		r.record(ctx, resolutionID, t, name, history.StatusFound, started)
		return
	}

	logger.Debug("no provider produced lyrics")
	r.emit(t, NotFoundText)
	r.record(ctx, resolutionID, t, "", history.StatusNotFound, started)
}

func (r *Resolver) emit(t track.Track, text string) {
	if r.isCurrent != nil && !r.isCurrent(t) {
		r.logger.Debug("suppressing emit for stale track")
		return
	}
	r.consumer.SetLyrics(t, text)
}

func (r *Resolver) record(ctx context.Context, id string, t track.Track, source, status string, started time.Time) {
	if r.journal == nil {
		return
	}
	artist, title, _ := r.library.Identity(t)
	entry := history.Entry{
		ID:       id,
		Artist:   artist,
		Title:    title,
		Source:   source,
		Status:   status,
		Duration: time.Since(started),
	}
	if err := r.journal.Record(ctx, entry); err != nil {
		r.logger.Warn("could not record resolution",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.Error(err))
	}
}
