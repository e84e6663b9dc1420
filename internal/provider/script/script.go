package script

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"lyricbar/internal/logging"
	"lyricbar/internal/track"
)

// Settings configures the external lookup command.
type Settings struct {
	// Command is a template over track fields; empty disables the provider.
	Command string
	// Timeout bounds a single command run. Zero means no limit.
	Timeout time.Duration
	// OutputEncoding declares the command's stdout encoding. Latin-1 output
	// is transcoded to UTF-8 before validation; everything else is expected
	// to already be UTF-8.
	OutputEncoding string
}

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, commandLine string) (stdout []byte, exitCode int, err error)
}

// Option configures the provider.
type Option func(*Provider)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(p *Provider) {
		if r != nil {
			p.runner = r
		}
	}
}

// Provider shells out to the configured command for one track at a time.
type Provider struct {
	settings Settings
	library  *track.Library
	logger   *slog.Logger
	runner   Runner
}

// New constructs the script provider. The library supplies the template
// fields for each track.
func New(settings Settings, library *track.Library, logger *slog.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Provider{
		settings: settings,
		library:  library,
		logger:   logging.NewComponentLogger(logger, "script"),
		runner:   shellRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies this provider in logs and history rows.
func (p *Provider) Name() string { return "script" }

// templateData carries the fields available to the command template.
type templateData struct {
	Artist string
	Title  string
	Album  string
	Path   string
}

// Fetch renders the command template for the track, runs it synchronously,
// and returns validated stdout. Every failure mode yields ok=false.
func (p *Provider) Fetch(ctx context.Context, t track.Track) (string, bool) {
	if p.settings.Command == "" {
		return "", false
	}

	tmpl, err := template.New("command").Parse(p.settings.Command)
	if err != nil {
		p.logger.Warn("invalid script command template",
			logging.String(logging.FieldEventType, "script_template_invalid"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check script.command in the config file"))
		return "", false
	}

	fields := p.library.Fields(t, track.FieldArtist, track.FieldTitle, track.FieldAlbum)
	data := templateData{
		Artist: fields[track.FieldArtist],
		Title:  fields[track.FieldTitle],
		Album:  fields[track.FieldAlbum],
		Path:   t.Path(),
	}

	var commandLine bytes.Buffer
	if err := tmpl.Execute(&commandLine, data); err != nil {
		p.logger.Warn("could not evaluate script command template",
			logging.String(logging.FieldEventType, "script_template_eval_failed"),
			logging.Error(err))
		return "", false
	}

	runCtx := ctx
	if p.settings.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.settings.Timeout)
		defer cancel()
	}

	stdout, exitCode, err := p.runner.Run(runCtx, commandLine.String())
	if err != nil {
		p.logger.Warn("could not run script command",
			logging.String(logging.FieldEventType, "script_spawn_failed"),
			logging.Error(err))
		return "", false
	}
	if exitCode != 0 || len(stdout) == 0 {
		p.logger.Debug("script produced no lyrics",
			logging.Int("exit_code", exitCode),
			logging.Int("output_bytes", len(stdout)))
		return "", false
	}

	text, ok := p.decode(stdout)
	if !ok {
		p.logger.Warn("script output is not a valid text string",
			logging.String(logging.FieldEventType, "script_output_invalid"),
			logging.String(logging.FieldErrorHint, "check the command's output encoding"))
		return "", false
	}
	return text, true
}

func (p *Provider) decode(raw []byte) (string, bool) {
	switch strings.ToLower(p.settings.OutputEncoding) {
	case "latin-1", "latin1", "iso-8859-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		raw = decoded
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// shellRunner executes the rendered command line through the system shell,
// capturing stdout only. Stderr passes through to the process stderr so a
// failing command stays diagnosable.
type shellRunner struct{}

func (shellRunner) Run(ctx context.Context, commandLine string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", commandLine) //nolint:gosec
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, -1, err
	}
	return stdout.Bytes(), 0, nil
}
