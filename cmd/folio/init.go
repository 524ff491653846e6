package main

import (
	"fmt"

	"github.com/ashishthanki/folio/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" help:"Directory to create"`
	Title string `help:"Site title (default derived from the directory name)"`
	URL   string `help:"Public site URL" default:"http://localhost:3000"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	data := scaffold.NewData(i.Dir)
	if i.Title != "" {
		data.Title = i.Title
	}
	data.URL = i.URL

	fmt.Printf("Creating new folio site: %s\n\n", i.Dir)
	created, err := scaffold.Write(i.Dir, data)
	for _, f := range created {
		fmt.Printf("  created %s\n", f)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", i.Dir)
	fmt.Println("  folio serve --watch")
	fmt.Println()
	fmt.Println("Edit site.yaml and the Markdown under content/, then reload the page.")
	return nil
}
