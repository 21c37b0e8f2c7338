// Command htmlgen builds, imports and publishes HTML email templates for
// Signaturit brandings.
package main

import (
	"github.com/alecthomas/kong"

	"github.com/MarcosLancellotti2225/HTMLgenerator/cmd/htmlgen/commands"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal()

	parser := kong.Parse(cli,
		kong.Name("htmlgen"),
		kong.Description("HTML email template generator for Signaturit brandings"),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(global, cli)
	if flushErr := global.FlushMetrics(); flushErr != nil {
		global.Logger.Warn("Metrics were not written", logfields.Error(flushErr))
	}
	if err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
