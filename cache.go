package folio

import (
	"database/sql"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache keeps the published posts and tag counts in memory for ttl, or
// until Invalidate is called after an import.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	tags    []TagCount
	byTag   map[string][]BlogPost
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.byTag = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	if posts == nil {
		// an empty site is still a loaded site
		posts = []BlogPost{}
	}
	c.posts = posts
	c.tags = tags
	c.byTag = make(map[string][]BlogPost)
	c.fetched = time.Now()
	return nil
}

// snapshot returns cached posts and tags, reloading under the write lock
// only when the read-locked check finds them stale.
func (c *PostCache) snapshot() ([]BlogPost, []TagCount, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// ListPosts returns published posts, optionally filtered by tag. A tag's
// listing is queried from the store on first use and kept until the cache
// expires. Unknown tags return nil without touching the store.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	posts, tags, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	tag = normalizeTag(tag)
	if !hasTag(tags, tag) {
		return nil, nil
	}

	c.mu.RLock()
	tagged, ok := c.byTag[tag]
	c.mu.RUnlock()
	if ok {
		return tagged, nil
	}

	tagged, err = c.store.ListPosts(tag)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.byTag != nil {
		c.byTag[tag] = tagged
	}
	c.mu.Unlock()
	return tagged, nil
}

func hasTag(tags []TagCount, name string) bool {
	for _, t := range tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ListTags returns all tags of published posts with their counts.
func (c *PostCache) ListTags() ([]TagCount, error) {
	_, tags, err := c.snapshot()
	return tags, err
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	posts, _, err := c.snapshot()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// Latest returns at most n published posts, newest first.
func (c *PostCache) Latest(n int) ([]BlogPost, error) {
	posts, _, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}
