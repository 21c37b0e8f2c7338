package commands

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// VariablesCmd implements 'htmlgen variables'.
type VariablesCmd struct {
	List   VariablesListCmd   `cmd:"" default:"withargs" help:"List the template variables"`
	Add    VariablesAddCmd    `cmd:"" help:"Add a custom variable to a draft"`
	Remove VariablesRemoveCmd `cmd:"" help:"Remove a variable from a draft"`
}

// VariablesListCmd implements 'htmlgen variables list'.
type VariablesListCmd struct {
	Category   string `help:"Mark the mandatory variables of this category"`
	Categories bool   `help:"List the template categories instead"`
	Draft      string `type:"existingfile" help:"Include the variables of this draft"`
}

func (v *VariablesListCmd) Run(g *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if v.Categories {
		for _, c := range variables.AllCategories() {
			required := variables.Mandatory(c)
			label := "-"
			if len(required) > 0 {
				label = joinFields(required)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", c, label)
		}
		return nil
	}

	var required []string
	if v.Category != "" {
		c, err := variables.ParseCategory(v.Category)
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, categoryNames())
		}
		required = variables.Mandatory(c)
	}

	session, err := loadSession(g, nil, v.Draft)
	if err != nil {
		return err
	}
	registry := session.Registry()
	for _, name := range registry.Names() {
		token := variables.Token(name)
		var marks []string
		if slices.Contains(required, token) {
			marks = append(marks, "required")
		}
		if !variables.IsBuiltin(name) {
			marks = append(marks, "custom")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", token, registry.Describe(name), joinFields(marks))
	}
	return nil
}

// VariablesAddCmd implements 'htmlgen variables add'.
type VariablesAddCmd struct {
	Name        string `arg:"" help:"Variable name, without braces"`
	Description string `help:"Text shown next to the variable"`
	Draft       string `required:"" type:"existingfile" help:"Draft to update"`
}

func (a *VariablesAddCmd) Run(g *Global, _ *CLI) error {
	session, err := loadSession(g, nil, a.Draft)
	if err != nil {
		return err
	}
	if err := session.AddVariable(a.Name, a.Description); err != nil {
		return err
	}
	if err := editor.SaveDraft(a.Draft, session.Draft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "added %s to %s\n", variables.Token(a.Name), a.Draft)
	return nil
}

// VariablesRemoveCmd implements 'htmlgen variables remove'.
type VariablesRemoveCmd struct {
	Name  string `arg:"" help:"Variable name, without braces"`
	Draft string `required:"" type:"existingfile" help:"Draft to update"`
	Yes   bool   `short:"y" help:"Do not ask for confirmation"`
}

func (r *VariablesRemoveCmd) Run(g *Global, _ *CLI) error {
	session, err := loadSession(g, nil, r.Draft)
	if err != nil {
		return err
	}
	if !r.Yes {
		ok, err := g.Prompter.Confirm(fmt.Sprintf("Remove %s from %s?", variables.Token(r.Name), r.Draft), false)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	if err := session.RemoveVariable(r.Name); err != nil {
		return err
	}
	if err := editor.SaveDraft(r.Draft, session.Draft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "removed %s from %s\n", variables.Token(r.Name), r.Draft)
	return nil
}
