package commands

import (
	"fmt"
	"os"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/config"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
)

// InitCmd implements 'htmlgen init'.
type InitCmd struct {
	Draft string `default:"draft.yaml" help:"Starter draft to create"`
	Force bool   `short:"f" help:"Overwrite an existing configuration"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.configPath()
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "wrote %s\n", path)

	if i.Draft == "" {
		return nil
	}
	if _, err := os.Stat(i.Draft); err == nil {
		g.Logger.Info("Keeping existing draft", logfields.File(i.Draft))
		return nil
	}
	if err := editor.SaveDraft(i.Draft, editor.NewDraft()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "wrote %s\n", i.Draft)
	return nil
}
