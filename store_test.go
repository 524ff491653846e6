package folio

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPosts() []BlogPost {
	return []BlogPost{
		{Slug: "older", Title: "Older", Date: "2024-01-10", Tags: []string{"go"}, Summary: "s1", Content: "c1", Published: true},
		{Slug: "newer", Title: "Newer", Date: "2024-02-10", Tags: []string{"Go", "web"}, Summary: "s2", Content: "c2", Published: true},
		{Slug: "draft", Title: "Draft", Date: "2024-03-10", Tags: []string{"web"}, Summary: "s3", Content: "c3", Published: false},
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestReplacePostsStoresFields(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	got := posts[0]
	if got.Title != "Newer" {
		t.Errorf("Title = %q, want %q", got.Title, "Newer")
	}
	if got.Link != "/blog/newer/" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/newer/")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}
}

func TestDraftsOnlyInListAllPosts(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	web, err := s.ListPosts("web")
	if err != nil {
		t.Fatalf("ListPosts(web) failed: %v", err)
	}
	for _, p := range web {
		if p.Slug == "draft" {
			t.Fatal("ListPosts returned a draft")
		}
	}
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if all[0].Slug != "draft" || all[0].Published {
		t.Errorf("ListAllPosts[0] = %s (published %v), want unpublished draft", all[0].Slug, all[0].Published)
	}
}

func TestListPostsOrderAndTagFilter(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(posts))
	}
	if posts[0].Slug != "newer" || posts[1].Slug != "older" {
		t.Errorf("order = %s, %s; want newer, older", posts[0].Slug, posts[1].Slug)
	}

	web, err := s.ListPosts("WEB")
	if err != nil {
		t.Fatalf("ListPosts(web) failed: %v", err)
	}
	if len(web) != 1 || web[0].Slug != "newer" {
		t.Errorf("ListPosts(web) = %v, want only newer", web)
	}

	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAllPosts returned %d posts, want 3", len(all))
	}
}

func TestListTagsCountsPublishedOnly(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []TagCount{{Name: "go", Count: 2}, {Name: "web", Count: 1}}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %v, want %v", i, tags[i], want[i])
		}
	}
}

func TestReplacePostsSwapsWholeSet(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	if err := s.ReplacePosts([]BlogPost{{Slug: "only", Title: "Only", Date: "2025-01-01", Published: true}}); err != nil {
		t.Fatalf("second ReplacePosts failed: %v", err)
	}
	n, err := s.CountPosts()
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountPosts = %d, want 1", n)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{",", nil},
		{"", nil},
		{",single,", []string{"single"}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPostCache(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	c := NewPostCache(s, 0)
	c.ttl = 1 << 62

	latest, err := c.Latest(1)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(latest) != 1 || latest[0].Slug != "newer" {
		t.Errorf("Latest(1) = %v, want [newer]", latest)
	}

	if _, err := c.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(missing) error = %v, want ErrNotFound", err)
	}

	// Cached until invalidated.
	if err := s.ReplacePosts(nil); err != nil {
		t.Fatalf("ReplacePosts(nil) failed: %v", err)
	}
	posts, _ := c.ListPosts("")
	if len(posts) != 2 {
		t.Errorf("cached ListPosts = %d posts, want 2", len(posts))
	}
	c.Invalidate()
	posts, _ = c.ListPosts("")
	if len(posts) != 0 {
		t.Errorf("ListPosts after Invalidate = %d posts, want 0", len(posts))
	}
}

func TestPostCacheTagListings(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplacePosts(testPosts()); err != nil {
		t.Fatalf("ReplacePosts failed: %v", err)
	}
	c := NewPostCache(s, 1<<62)

	goPosts, err := c.ListPosts(" Go ")
	if err != nil {
		t.Fatalf("ListPosts(go) failed: %v", err)
	}
	if len(goPosts) != 2 || goPosts[0].Slug != "newer" {
		t.Errorf("ListPosts(go) = %v, want [newer older]", goPosts)
	}

	unknown, err := c.ListPosts("rust")
	if err != nil || unknown != nil {
		t.Errorf("ListPosts(rust) = %v, %v; want nil, nil", unknown, err)
	}

	// Tag listings are cached with the rest until invalidated.
	if web, _ := c.ListPosts("web"); len(web) != 1 {
		t.Fatalf("ListPosts(web) = %d posts, want 1", len(web))
	}
	if err := s.ReplacePosts(nil); err != nil {
		t.Fatalf("ReplacePosts(nil) failed: %v", err)
	}
	web, _ := c.ListPosts("web")
	if len(web) != 1 {
		t.Errorf("cached ListPosts(web) = %d posts, want 1", len(web))
	}
	c.Invalidate()
	web, _ = c.ListPosts("web")
	if len(web) != 0 {
		t.Errorf("ListPosts(web) after Invalidate = %d posts, want 0", len(web))
	}
}
