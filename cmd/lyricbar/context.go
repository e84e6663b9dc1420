package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"lyricbar/internal/cache"
	"lyricbar/internal/config"
	"lyricbar/internal/history"
	"lyricbar/internal/logging"
	"lyricbar/internal/provider/script"
)

// commandContext shares lazily-initialized collaborators between commands.
type commandContext struct {
	configFlag *string

	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, resolvedPath, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	c.cfg = cfg
	c.cfgPath = resolvedPath
	c.logger = logger
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if format == "" {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			format = "console"
		} else {
			format = "json"
		}
	}

	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "lyricbar.log"))
	}

	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      format,
		OutputPaths: outputs,
	})
}

func (c *commandContext) cacheStore() *cache.Store {
	return cache.NewStore(c.cfg.Paths.CacheDir, c.cfg.Cache.ValidateOnLoad, c.logger)
}

// openHistory returns the journal store, or nil when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	if !c.cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(c.cfg.HistoryPath())
}

func scriptSettings(cfg *config.Config) script.Settings {
	return script.Settings{
		Command:        cfg.Script.Command,
		Timeout:        time.Duration(cfg.Script.Timeout) * time.Second,
		OutputEncoding: cfg.Script.OutputEncoding,
	}
}
