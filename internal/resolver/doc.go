// Package resolver sequences one lyrics resolution: embedded metadata first,
// then the disk cache, then the ordered provider chain, ending in either
// lyrics text or a fixed "not found" marker. Cheaper local sources always run
// before the external-process provider, and only provider-sourced lyrics are
// written back to the cache.
package resolver
