package folio

import (
	"fmt"
	"os"
	"path/filepath"
)

// ContentSummary describes what an import of a content directory publishes.
type ContentSummary struct {
	Version string
	Posts   int // published
	Drafts  int
	Pages   int
	Tags    []TagCount
}

// SummarizeContent imports dir into a throwaway store and reports the
// result, so store-level failures surface before a server is started.
func SummarizeContent(dir string) (ContentSummary, error) {
	c, err := LoadContent(dir)
	if err != nil {
		return ContentSummary{}, err
	}

	tmp, err := os.MkdirTemp("", "folio-check-*")
	if err != nil {
		return ContentSummary{}, fmt.Errorf("folio: check: %w", err)
	}
	defer os.RemoveAll(tmp)

	s, err := NewStore(filepath.Join(tmp, "check.db"))
	if err != nil {
		return ContentSummary{}, err
	}
	defer s.Close()

	if err := s.ReplacePosts(c.Posts); err != nil {
		return ContentSummary{}, fmt.Errorf("folio: check: import posts: %w", err)
	}
	all, err := s.ListAllPosts()
	if err != nil {
		return ContentSummary{}, fmt.Errorf("folio: check: list posts: %w", err)
	}
	published, err := s.CountPosts()
	if err != nil {
		return ContentSummary{}, fmt.Errorf("folio: check: count posts: %w", err)
	}
	tags, err := s.ListTags()
	if err != nil {
		return ContentSummary{}, fmt.Errorf("folio: check: list tags: %w", err)
	}
	return ContentSummary{
		Version: c.Version,
		Posts:   published,
		Drafts:  len(all) - published,
		Pages:   len(c.Pages),
		Tags:    tags,
	}, nil
}
