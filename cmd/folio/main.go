// Command folio serves and scaffolds folio sites.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// version is set at build time via ldflags.
var version = "dev"

// Global is passed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI holds the global flags and the commands.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"site.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" default:"1" help:"Serve the site"`
	Check    CheckCmd    `cmd:"" help:"Validate the configuration and import the content without serving"`
	Init     InitCmd     `cmd:"" help:"Create a starter site in a new directory"`
	Manifest ManifestCmd `cmd:"" help:"Print the web manifest as JSON"`
}

// AfterApply runs after flag parsing and sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("folio"),
		kong.Description("A personal blog and portfolio site built with Go, Echo and templ."),
		kong.Vars{"version": "folio " + version},
		kong.UsageOnError(),
	)
	err := ctx.Run(&Global{Logger: slog.Default()}, cli)
	ctx.FatalIfErrorf(err)
}
