// Package provider defines the lyrics provider capability and the ordered
// chain the resolver walks after metadata and cache both miss.
package provider

import (
	"context"

	"lyricbar/internal/track"
)

// Provider attempts to produce lyrics text for a track. ok is false when the
// provider has nothing; providers never return errors to the caller — every
// internal failure degrades to absent.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, t track.Track) (text string, ok bool)
}

// Chain is an ordered list of providers. The first success short-circuits
// the rest; results are never merged.
type Chain []Provider

// Fetch walks the chain in order and returns the first present result along
// with the name of the provider that produced it.
func (c Chain) Fetch(ctx context.Context, t track.Track) (text, name string, ok bool) {
	for _, p := range c {
		if ctx.Err() != nil {
			return "", "", false
		}
		if text, ok := p.Fetch(ctx, t); ok {
			return text, p.Name(), true
		}
	}
	return "", "", false
}
