package commands

import (
	"fmt"
	"strings"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// ImportCmd implements 'htmlgen import'.
type ImportCmd struct {
	Input    string `arg:"" help:"HTML file to import, or - for standard input"`
	Category string `help:"Template category the document belongs to"`
	Draft    string `short:"o" name:"draft" help:"Write the recovered state to this draft file"`
}

func (i *ImportCmd) Run(g *Global, _ *CLI) error {
	doc, err := readInput(g, i.Input)
	if err != nil {
		return err
	}
	category, err := resolveCategory(i.Category, g.Config.Editor.Category)
	if err != nil {
		return err
	}

	session := editor.NewSession(nil, g.sessionOptions(editor.WithCategory(category))...)
	res, err := session.Import(doc)
	if editor.IsRejected(err) {
		g.Logger.Warn("Input is the editor page itself, export the generated template instead")
		return err
	}
	if err != nil {
		return err
	}

	if advisory := res.Advisory(); advisory != nil {
		g.Logger.Warn("No template information could be extracted, edit manually")
	}
	_, _ = fmt.Fprintf(g.Out, "found:  %s\n", joinFields(res.Found))
	_, _ = fmt.Fprintf(g.Out, "missed: %s\n", joinFields(res.Misses))

	if i.Draft == "" {
		_, _ = fmt.Fprintf(g.Out, "\n%s\n", session.Body())
		return nil
	}
	if err := editor.SaveDraft(i.Draft, session.Draft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "draft written to %s\n", i.Draft)
	return nil
}

func joinFields[T ~string](fields []T) string {
	if len(fields) == 0 {
		return "-"
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return strings.Join(out, ", ")
}

// categoryNames lists every category for help output.
func categoryNames() string {
	return joinFields(variables.AllCategories())
}
