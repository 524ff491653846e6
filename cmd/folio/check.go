package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ashishthanki/folio"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := folio.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	sum, err := folio.SummarizeContent(cfg.ContentDir)
	if err != nil {
		return err
	}
	g.Logger.Debug("content imported", "dir", cfg.ContentDir, "version", sum.Version)
	fmt.Printf("%s: ok\n", root.Config)
	fmt.Printf("  site:  %s (%s)\n", cfg.Website.Title, cfg.Website.URL)
	fmt.Printf("  posts: %d (%d drafts)\n", sum.Posts, sum.Drafts)
	fmt.Printf("  pages: %d\n", sum.Pages)
	fmt.Printf("  tags:  %d\n", len(sum.Tags))
	return nil
}

// ManifestCmd implements the 'manifest' command.
type ManifestCmd struct{}

func (m *ManifestCmd) Run(_ *Global, root *CLI) error {
	cfg, err := folio.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	var generated []int
	if icon := cfg.Plugins.Manifest.Icon; icon != "" {
		if _, err := os.Stat(icon); err == nil {
			generated = folio.IconSizes
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(folio.BuildManifest(cfg, generated))
}
