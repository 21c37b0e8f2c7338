package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// RenderCmd implements 'htmlgen render'.
type RenderCmd struct {
	Draft    string `arg:"" optional:"" type:"existingfile" help:"Draft file (defaults to the built-in template)"`
	Body     string `name:"body" type:"existingfile" help:"Replace the body text with the contents of this file"`
	Category string `help:"Template category"`
	Minify   *bool  `negatable:"" help:"Minify the output (overrides draft and configuration)"`
	Text     bool   `help:"Render the text/plain alternative instead of HTML"`
	Output   string `short:"o" help:"Write to this file instead of standard output"`
	Force    bool   `short:"f" help:"Overwrite the output file"`
}

func (r *RenderCmd) Run(g *Global, _ *CLI) error {
	session, err := loadSession(g, nil, r.Draft)
	if err != nil {
		return err
	}
	if r.Category != "" {
		if err := session.SetCategory(variables.Category(r.Category)); err != nil {
			return err
		}
	}
	if r.Minify != nil {
		session.SetMinify(*r.Minify)
	}
	if r.Body != "" {
		body, err := readInput(g, r.Body)
		if err != nil {
			return err
		}
		session.SetBody(body)
	}

	if missing := session.Validate(); len(missing) > 0 {
		g.Logger.Warn("Document is missing mandatory variables",
			logfields.Category(string(session.Category())),
			slog.Any("missing", missing))
	}

	doc := session.Export()
	if r.Text {
		doc = session.ExportText()
	}
	return emit(g, doc, r.Output, r.Force)
}

// emit writes doc to path, or to standard output when path is empty.
func emit(g *Global, doc, path string, force bool) error {
	if path == "" {
		_, err := fmt.Fprintln(g.Out, doc)
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	written, err := templates.WriteExport(filepath.Dir(abs), filepath.Base(abs), doc, force)
	if err != nil {
		return err
	}
	g.Logger.Info("Wrote document", logfields.File(written), logfields.Bytes(len(doc)))
	return nil
}
