package folio

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ashishthanki/folio/markdown"
)

// ErrMissingClosingDelimiter is returned for a frontmatter block that is
// opened with "---" but never closed.
var ErrMissingClosingDelimiter = errors.New("frontmatter: missing closing ---")

// Content is one import of the content directory.
type Content struct {
	Posts   []BlogPost
	Pages   map[string]ContentPage
	Version string // hash of every imported file
}

// Page returns the page with slug, falling back to an empty page titled
// fallback when the content directory does not provide one.
func (c *Content) Page(slug, fallback string) ContentPage {
	if c != nil {
		if p, ok := c.Pages[slug]; ok {
			return p
		}
	}
	return ContentPage{Slug: slug, Title: fallback, Heading: fallback}
}

type frontmatter struct {
	Title       string   `yaml:"title"`
	Heading     string   `yaml:"heading"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Draft       bool     `yaml:"draft"`
}

// LoadContent reads <dir>/posts/*.md and <dir>/pages/*.md. Missing
// directories yield empty content; a malformed file fails the import with
// its path in the error.
func LoadContent(dir string) (*Content, error) {
	c := &Content{Pages: make(map[string]ContentPage)}
	h := sha256.New()

	postFiles, err := markdownFiles(filepath.Join(dir, "posts"))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string)
	for _, path := range postFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("folio: read %s: %w", path, err)
		}
		h.Write([]byte(path))
		h.Write(data)
		post, err := parsePost(path, data)
		if err != nil {
			return nil, fmt.Errorf("folio: %s: %w", path, err)
		}
		if prev, dup := seen[post.Slug]; dup {
			return nil, fmt.Errorf("folio: %s: slug %q already used by %s", path, post.Slug, prev)
		}
		seen[post.Slug] = path
		c.Posts = append(c.Posts, post)
	}

	pageFiles, err := markdownFiles(filepath.Join(dir, "pages"))
	if err != nil {
		return nil, err
	}
	for _, path := range pageFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("folio: read %s: %w", path, err)
		}
		h.Write([]byte(path))
		h.Write(data)
		page, err := parsePage(path, data)
		if err != nil {
			return nil, fmt.Errorf("folio: %s: %w", path, err)
		}
		c.Pages[page.Slug] = page
	}

	sort.SliceStable(c.Posts, func(i, j int) bool { return c.Posts[i].Date > c.Posts[j].Date })
	c.Version = hex.EncodeToString(h.Sum(nil))[:12]
	return c, nil
}

func markdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("folio: read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func parsePost(path string, data []byte) (BlogPost, error) {
	fm, body, err := parseDocument(data)
	if err != nil {
		return BlogPost{}, err
	}
	if strings.TrimSpace(fm.Title) == "" {
		return BlogPost{}, errors.New("title is required")
	}
	if _, err := time.Parse("2006-01-02", fm.Date); err != nil {
		return BlogPost{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", fm.Date)
	}
	slug := Slugify(fm.Slug)
	if slug == "" {
		slug = Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if slug == "" {
		slug = Slugify(fm.Title)
	}
	summary := fm.Summary
	if summary == "" {
		summary = fm.Description
	}
	if summary == "" {
		summary = markdown.Excerpt(string(body), 160)
	}
	var tags []string
	for _, t := range FilterEmpty(fm.Tags) {
		tags = append(tags, normalizeTag(t))
	}
	return BlogPost{
		Slug:      slug,
		Title:     strings.TrimSpace(fm.Title),
		Date:      fm.Date,
		Tags:      tags,
		Summary:   summary,
		Content:   string(body),
		Link:      "/blog/" + slug + "/",
		Published: !fm.Draft,
	}, nil
}

func parsePage(path string, data []byte) (ContentPage, error) {
	fm, body, err := parseDocument(data)
	if err != nil {
		return ContentPage{}, err
	}
	slug := Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	heading := fm.Heading
	if heading == "" {
		heading = fm.Title
	}
	return ContentPage{
		Slug:    slug,
		Title:   fm.Title,
		Heading: heading,
		Body:    string(body),
	}, nil
}

func parseDocument(data []byte) (frontmatter, []byte, error) {
	var fm frontmatter
	raw, body, err := splitFrontmatter(data)
	if err != nil {
		return fm, nil, err
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fm); err != nil {
			return fm, nil, fmt.Errorf("frontmatter: %w", err)
		}
	}
	return fm, body, nil
}

// splitFrontmatter separates a leading "---" delimited YAML block from the
// Markdown body. Documents without one are returned whole as body.
func splitFrontmatter(content []byte) ([]byte, []byte, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content, nil
	}
	rest := content[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[len("---\n"):], nil
	}
	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")+1], nil, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+len("\n---\n"):], nil
}
