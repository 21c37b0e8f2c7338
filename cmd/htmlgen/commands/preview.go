package commands

import (
	"fmt"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/preview"
)

// PreviewCmd implements 'htmlgen preview'.
type PreviewCmd struct {
	Draft string `arg:"" type:"existingfile" help:"Draft file to watch"`
	Port  int    `help:"Port to serve on (overrides configuration)"`
}

func (p *PreviewCmd) Run(g *Global, _ *CLI) error {
	ctx, stop := commandContext()
	defer stop()

	port := g.Config.Preview.Port
	if p.Port > 0 {
		port = p.Port
	}
	reg, recorder := g.serverMetrics(g.Config.Preview.Metrics)
	srv := preview.New(p.Draft, preview.Options{Logger: g.Logger, Recorder: recorder, Registry: reg})
	g.Logger.Info("Starting preview", logfields.URL(fmt.Sprintf("http://localhost:%d/", port)), logfields.File(p.Draft))
	return srv.Run(ctx, fmt.Sprintf(":%d", port))
}
