package config

const (
	defaultDataDir        = "~/.local/share/lyricbar"
	defaultScriptTimeout  = 60
	defaultOutputEncoding = "utf-8"
	defaultLogLevel       = "info"
	defaultPrefetchWork   = 4

	// cacheSubpath is appended to the XDG cache base. The layout is shared
	// with the original lyricbar plugin so existing caches keep working.
	cacheSubpath = "deadbeef/lyrics"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Script: Script{
			Timeout:        defaultScriptTimeout,
			OutputEncoding: defaultOutputEncoding,
		},
		Cache: Cache{
			ValidateOnLoad: true,
		},
		History: History{
			Enabled: true,
		},
		Prefetch: Prefetch{
			Workers: defaultPrefetchWork,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
