package commands

import (
	"fmt"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// ValidateCmd implements 'htmlgen validate'.
type ValidateCmd struct {
	Input    string `arg:"" help:"HTML file to check, or - for standard input"`
	Category string `help:"Template category whose mandatory variables apply"`
	Minify   bool   `help:"Check the minified document, as it would be saved"`
}

func (v *ValidateCmd) Run(g *Global, _ *CLI) error {
	doc, err := readInput(g, v.Input)
	if err != nil {
		return err
	}
	category, err := resolveCategory(v.Category, g.Config.Editor.Category)
	if err != nil {
		return err
	}
	if v.Minify {
		doc = templates.Minify(doc)
	}

	missing := templates.Validate(templates.Unescape(doc), category)
	g.recorder().IncValidation(string(category), len(missing) == 0)
	if len(missing) > 0 {
		return templates.ValidationError(category, missing)
	}
	required := variables.Mandatory(category)
	if len(required) == 0 {
		_, _ = fmt.Fprintf(g.Out, "%s: no mandatory variables\n", category)
		return nil
	}
	_, _ = fmt.Fprintf(g.Out, "%s: ok (%s)\n", category, joinFields(required))
	return nil
}
