package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// BrandingsCmd groups the branding subcommands.
type BrandingsCmd struct {
	List BrandingsListCmd `cmd:"" help:"List the brandings of the account"`
	Pull BrandingsPullCmd `cmd:"" help:"Open a branding template into a draft"`
	Push BrandingsPushCmd `cmd:"" help:"Save a draft as a branding template"`
	Load BrandingsLoadCmd `cmd:"" help:"Switch a pulled draft to another template category of its branding"`
}

// BrandingsListCmd implements 'htmlgen brandings list'.
type BrandingsListCmd struct {
	Page    int `default:"1" help:"Page number"`
	PerPage int `name:"per-page" default:"10" help:"Brandings per page"`
}

func (l *BrandingsListCmd) Run(g *Global, _ *CLI) error {
	s, closeStore, err := g.newStore(g.Config, g.Logger, g.recorder())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	ctx, stop := commandContext()
	defer stop()
	all, err := s.List(ctx)
	if err != nil {
		return err
	}
	page := branding.Paginate(all, l.Page, l.PerPage)

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tTEMPLATES\tCREATED")
	for _, b := range page.Items {
		templates := "-"
		if configured := b.ConfiguredCategories(); len(configured) > 0 {
			templates = joinFields(configured)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.DisplayName(), templates, b.CreatedAt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "page %d of %d (%d brandings)\n", page.Number, page.Total, len(all))
	return nil
}

// BrandingsPullCmd implements 'htmlgen brandings pull'.
type BrandingsPullCmd struct {
	ID       string `arg:"" help:"Branding identifier"`
	Draft    string `arg:"" help:"Draft file to write"`
	Category string `help:"Preferred template category"`
}

func (p *BrandingsPullCmd) Run(g *Global, _ *CLI) error {
	category, err := resolveCategory(p.Category, g.Config.Editor.Category)
	if err != nil {
		return err
	}
	s, closeStore, err := g.newStore(g.Config, g.Logger, g.recorder())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	ctx, stop := commandContext()
	defer stop()
	session := editor.NewSession(s, g.sessionOptions(editor.WithCategory(category))...)
	if err := session.OpenExisting(ctx, p.ID); err != nil {
		return err
	}
	if err := editor.SaveDraft(p.Draft, session.Draft()); err != nil {
		return err
	}
	g.Logger.Info("Pulled branding",
		logfields.BrandingID(session.BrandingID()),
		logfields.Branding(session.Name()),
		logfields.Category(string(session.Category())),
		logfields.File(p.Draft))
	return nil
}

// BrandingsPushCmd implements 'htmlgen brandings push'.
type BrandingsPushCmd struct {
	Draft    string `arg:"" type:"existingfile" help:"Draft file to save"`
	Name     string `help:"Name for a new branding"`
	Category string `help:"Override the draft category"`
	Yes      bool   `short:"y" help:"Do not ask before overwriting an existing template"`
}

func (p *BrandingsPushCmd) Run(g *Global, _ *CLI) error {
	s, closeStore, err := g.newStore(g.Config, g.Logger, g.recorder())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	d, err := editor.LoadDraft(p.Draft)
	if err != nil {
		return err
	}
	session := editor.NewSession(s, g.sessionOptions()...)
	if err := session.ApplyDraft(d); err != nil {
		return err
	}
	if p.Category != "" {
		if err := session.SetCategory(variables.Category(p.Category)); err != nil {
			return err
		}
	}
	if p.Name != "" {
		session.SetName(p.Name)
	}

	if session.IsNew() && session.Name() == "" {
		name, err := g.Prompter.Input("Name for the new branding", "")
		if err != nil {
			return err
		}
		session.SetName(name)
	}
	if !session.IsNew() && !p.Yes {
		msg := fmt.Sprintf("Overwrite the %s template of branding %s?", session.Category(), session.BrandingID())
		ok, err := g.Prompter.Confirm(msg, false)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	ctx, stop := commandContext()
	defer stop()
	id, err := session.Save(ctx)
	if err != nil {
		return err
	}
	if err := editor.SaveDraft(p.Draft, session.Draft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "saved %s template to branding %s\n", session.Category(), id)
	return nil
}

// BrandingsLoadCmd implements 'htmlgen brandings load'.
type BrandingsLoadCmd struct {
	Draft    string `arg:"" type:"existingfile" help:"Draft bound to a branding"`
	Category string `arg:"" help:"Template category to load"`
}

func (l *BrandingsLoadCmd) Run(g *Global, _ *CLI) error {
	category, err := variables.ParseCategory(l.Category)
	if err != nil {
		return err
	}
	s, closeStore, err := g.newStore(g.Config, g.Logger, g.recorder())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	d, err := editor.LoadDraft(l.Draft)
	if err != nil {
		return err
	}
	session := editor.NewSession(s, g.sessionOptions()...)
	if err := session.ApplyDraft(d); err != nil {
		return err
	}
	if err := session.SetCategory(category); err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()
	if err := session.LoadTemplate(ctx); err != nil {
		return err
	}
	if err := editor.SaveDraft(l.Draft, session.Draft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "loaded %s template of branding %s\n", category, session.BrandingID())
	return nil
}
