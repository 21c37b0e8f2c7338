// Package commands implements the htmlgen command line.
package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/config"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/signaturit"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/store"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// Global carries state shared by every command.
type Global struct {
	Logger   *slog.Logger
	Out      io.Writer
	In       io.Reader
	Prompter Prompter
	Config   *config.Config
	Recorder metrics.Recorder

	// registry backs Recorder when metrics.textfile is configured.
	registry *prom.Registry
	// newStore is replaced in tests.
	newStore func(*config.Config, *slog.Logger, metrics.Recorder) (branding.Store, func() error, error)
}

// NewGlobal returns the production wiring.
func NewGlobal() *Global {
	return &Global{
		Logger:   slog.Default(),
		Out:      os.Stdout,
		In:       os.Stdin,
		Prompter: SurveyPrompter{},
		Recorder: metrics.NoopRecorder{},
		newStore: openStore,
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to ./htmlgen.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render    RenderCmd    `cmd:"" help:"Render a draft to an HTML email document"`
	Import    ImportCmd    `cmd:"" help:"Read an existing HTML template into a draft"`
	Validate  ValidateCmd  `cmd:"" help:"Check a document for the mandatory variables of a category"`
	Minify    MinifyCmd    `cmd:"" help:"Minify an HTML document"`
	Variables VariablesCmd `cmd:"" help:"List and edit the template variables"`
	Brandings BrandingsCmd `cmd:"" help:"List, pull and push brandings"`
	Relay     RelayCmd     `cmd:"" help:"Run the relay service"`
	Preview   PreviewCmd   `cmd:"" help:"Serve a live preview of a draft"`
	Init      InitCmd      `cmd:"" help:"Write an example configuration and a starter draft"`
}

// AfterApply runs after flag parsing: it loads the configuration and sets
// up logging once.
func (c *CLI) AfterApply(kctx *kong.Context, g *Global) error {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		// init must work before a valid configuration exists.
		if !strings.HasPrefix(kctx.Command(), "init") {
			return err
		}
		cfg = config.Default()
	}
	g.Config = cfg

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)

	if cfg.Metrics.Textfile != "" {
		g.registry = prom.NewRegistry()
		g.Recorder = metrics.NewPrometheusRecorder(g.registry)
	}
	return nil
}

// recorder never returns nil.
func (g *Global) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

// serverMetrics returns the registry a server should expose on /metrics and
// the recorder feeding it. The textfile registry is reused when present.
func (g *Global) serverMetrics(enabled bool) (*prom.Registry, metrics.Recorder) {
	if !enabled {
		return nil, g.recorder()
	}
	if g.registry != nil {
		return g.registry, g.recorder()
	}
	reg := prom.NewRegistry()
	return reg, metrics.NewPrometheusRecorder(reg)
}

// FlushMetrics writes the collected metrics to the configured textfile, in
// the format read by the node exporter textfile collector.
func (g *Global) FlushMetrics() error {
	if g.registry == nil || g.Config == nil || g.Config.Metrics.Textfile == "" {
		return nil
	}
	if err := prom.WriteToTextfile(g.Config.Metrics.Textfile, g.registry); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write metrics textfile").
			WithContext("path", g.Config.Metrics.Textfile).
			Build()
	}
	g.Logger.Debug("Wrote metrics", logfields.File(g.Config.Metrics.Textfile))
	return nil
}

// sessionOptions wires a session to the global logger, recorder and editor
// defaults. Later options override earlier ones.
func (g *Global) sessionOptions(extra ...editor.Option) []editor.Option {
	opts := []editor.Option{
		editor.WithLogger(g.Logger),
		editor.WithRecorder(g.recorder()),
		editor.WithCategory(g.Config.Editor.Category),
		editor.WithMinify(g.Config.Editor.Minify),
	}
	return append(opts, extra...)
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// configPath is where init writes the configuration.
func (c *CLI) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	return config.DefaultPath
}

// openStore builds the branding store selected by the configuration.
func openStore(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (branding.Store, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		client, err := signaturit.NewClient(cfg.Signaturit.RelayURL, cfg.Signaturit.Token, cfg.Signaturit.Environment,
			signaturit.WithHTTPClient(signaturit.NewHTTPClient(cfg.Signaturit.Timeout)),
			signaturit.WithRetryPolicy(cfg.Signaturit.Retry.Policy()),
			signaturit.WithLogger(logger),
			signaturit.WithRecorder(recorder))
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	}
}

// loadSession builds a session from the draft at path, or from the
// defaults when path is empty.
func loadSession(g *Global, s branding.Store, path string) (*editor.Session, error) {
	session := editor.NewSession(s, g.sessionOptions()...)
	if path == "" {
		return session, nil
	}
	d, err := editor.LoadDraft(path)
	if err != nil {
		return nil, err
	}
	if err := session.ApplyDraft(d); err != nil {
		return nil, err
	}
	return session, nil
}

// readInput reads a file, or standard input for "-".
func readInput(g *Global, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(g.In)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read standard input").Build()
		}
		return string(data), nil
	}
	// #nosec G304 -- input path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ferrors.NotFoundError("input file not found").WithContext("path", path).Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read input").Build()
	}
	return string(data), nil
}

// resolveCategory prefers an explicit flag over the configured default.
func resolveCategory(flag string, fallback variables.Category) (variables.Category, error) {
	if flag == "" {
		return fallback, nil
	}
	return variables.ParseCategory(flag)
}
