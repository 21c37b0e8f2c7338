package commands

import (
	"log/slog"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/httpserver"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/relay"
)

// RelayCmd implements 'htmlgen relay'.
type RelayCmd struct {
	Listen string `help:"Listen address (overrides configuration)"`
}

func (r *RelayCmd) Run(g *Global, _ *CLI) error {
	ctx, stop := commandContext()
	defer stop()

	cfg := g.Config.Relay
	opts := relay.Options{
		Path:           cfg.Path,
		AllowedOrigins: cfg.AllowedOrigins,
		Timeout:        g.Config.Signaturit.Timeout,
		Logger:         g.Logger,
	}
	opts.Registry, opts.Recorder = g.serverMetrics(cfg.Metrics)

	addr := cfg.Listen
	if r.Listen != "" {
		addr = r.Listen
	}
	g.Logger.Info("Starting relay", slog.String("addr", addr), logfields.Path(cfg.Path),
		slog.Bool("metrics", cfg.Metrics))
	return httpserver.Serve(ctx, addr, relay.New(opts))
}
