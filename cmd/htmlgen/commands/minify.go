package commands

import "github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"

// MinifyCmd implements 'htmlgen minify'.
type MinifyCmd struct {
	Input  string `arg:"" help:"HTML file to minify, or - for standard input"`
	Output string `short:"o" help:"Write to this file instead of standard output"`
	Force  bool   `short:"f" help:"Overwrite the output file"`
}

func (m *MinifyCmd) Run(g *Global, _ *CLI) error {
	doc, err := readInput(g, m.Input)
	if err != nil {
		return err
	}
	return emit(g, templates.Minify(doc), m.Output, m.Force)
}
