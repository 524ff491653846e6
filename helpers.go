package folio

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsoluteURL resolves an href produced by ResolveHref against the site URL.
func AbsoluteURL(cfg *SiteConfig, href string) string {
	base, err := url.Parse(cfg.Website.URL)
	if err != nil {
		return cfg.Website.URL + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return cfg.Website.URL + href
	}
	return base.ResolveReference(ref).String()
}

// ResolveHref turns a link into the href rendered in the page. External
// targets and fragments are returned as-is. Site paths get the path prefix,
// and the base path unless the link opts out of it.
func ResolveHref(cfg *SiteConfig, l NavigationLink) string {
	if l.External() || strings.HasPrefix(l.Path, "#") {
		return l.Path
	}
	prefix, base := "/", ""
	if cfg != nil {
		prefix, base = cfg.PathPrefix, cfg.BasePath
	}
	if l.NoBasePath {
		base = ""
	}
	href := path.Join("/", prefix, base, l.Path)
	if strings.HasSuffix(l.Path, "/") && !strings.HasSuffix(href, "/") {
		href += "/"
	}
	return href
}

// SitePath resolves a path inside the blog mount (BasePath applies).
func SitePath(cfg *SiteConfig, p string) string {
	return ResolveHref(cfg, NavigationLink{Path: p})
}

// SitePrefixed resolves a root-level path such as a feed, icon or asset.
// Only PathPrefix applies.
func SitePrefixed(cfg *SiteConfig, p string) string {
	return ResolveHref(cfg, NavigationLink{Path: p, NoBasePath: true})
}

// stripPathPrefix maps a generated href back to the path the server routes.
func stripPathPrefix(cfg *SiteConfig, href string) string {
	prefix := path.Clean("/" + cfg.PathPrefix)
	if prefix == "/" {
		return href
	}
	rest := strings.TrimPrefix(href, prefix)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

// PostPath is the href of a post.
func PostPath(cfg *SiteConfig, slug string) string {
	return SitePath(cfg, "/blog/"+url.PathEscape(slug)+"/")
}

// TagPath is the href of a tag listing.
func TagPath(cfg *SiteConfig, tag string) string {
	return SitePath(cfg, "/tags/"+url.PathEscape(tag)+"/")
}

// PageTitle formats the <title> of a page: "<name> | <site title>".
func PageTitle(name string, cfg *SiteConfig) string {
	return name + " | " + cfg.Website.Title
}

// CopyrightLine is the footer copyright text for the given year.
func CopyrightLine(cfg *SiteConfig, year int) string {
	return cfg.Website.Copyright + " " + strconv.Itoa(year)
}

// SocialLinks lists the user's public profiles in a fixed order. It returns
// nil for a nil user.
func (u *User) SocialLinks() []NavigationLink {
	if u == nil {
		return nil
	}
	var links []NavigationLink
	if u.TwitterName != "" {
		links = append(links, NavigationLink{Label: "Twitter", Path: "https://twitter.com/" + strings.TrimPrefix(u.TwitterName, "@")})
	}
	if u.GitHub != "" {
		links = append(links, NavigationLink{Label: "GitHub", Path: profileURL("https://github.com/", u.GitHub)})
	}
	if u.LinkedIn != "" {
		links = append(links, NavigationLink{Label: "LinkedIn", Path: profileURL("https://www.linkedin.com/in/", u.LinkedIn)})
	}
	if u.Kaggle != "" {
		links = append(links, NavigationLink{Label: "Kaggle", Path: profileURL("https://www.kaggle.com/", u.Kaggle)})
	}
	if u.Email != "" {
		links = append(links, NavigationLink{Label: "Email", Path: "mailto:" + u.Email})
	}
	return links
}

// profileURL accepts either a bare handle or a full URL.
func profileURL(base, handle string) string {
	if isExternalURL(handle) {
		return handle
	}
	return base + strings.Trim(handle, "/")
}

func isExternalURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func isMailto(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "mailto:")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current BlogPost, posts []BlogPost) []BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []BlogPost
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func person(u *User) map[string]any {
	p := map[string]any{
		"@type": "Person",
		"name":  u.FullName(),
	}
	if u.ID != "" {
		p["identifier"] = u.ID
	}
	if u.Location != "" {
		p["homeLocation"] = u.Location
	}
	if u.Avatar != "" {
		p["image"] = u.Avatar
	}
	var sameAs []string
	for _, l := range u.SocialLinks() {
		if isExternalURL(l.Path) {
			sameAs = append(sameAs, l.Path)
		}
	}
	if len(sameAs) > 0 {
		p["sameAs"] = sameAs
	}
	return p
}

func publisher(cfg *SiteConfig) map[string]any {
	if cfg.Organization == nil {
		return map[string]any{"@type": "Organization", "name": cfg.Website.Name}
	}
	o := map[string]any{
		"@type": "Organization",
		"name":  cfg.Organization.Name,
	}
	if cfg.Organization.URL != "" {
		o["url"] = cfg.Organization.URL
	}
	if cfg.Organization.LogoURL != "" {
		o["logo"] = cfg.Organization.LogoURL
	}
	return o
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg *SiteConfig) string {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.Website.Title,
		"url":        BuildURL(cfg.Website.URL),
		"inLanguage": cfg.Website.Language,
		"publisher":  publisher(cfg),
	}
	if cfg.Website.Description != "" {
		data["description"] = cfg.Website.Description
	}
	if cfg.User != nil {
		data["author"] = person(cfg.User)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post BlogPost, cfg *SiteConfig) string {
	postURL := AbsoluteURL(cfg, PostPath(cfg, post.Slug))
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"publisher":     publisher(cfg),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.User != nil {
		data["author"] = person(cfg.User)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
