package folio

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// SiteConfig holds all configuration for a folio site. It is loaded once at
// startup and treated as read-only afterwards. User and Organization are
// optional; every consumer must handle them being nil.
type SiteConfig struct {
	Website      Website       `yaml:"website"`
	User         *User         `yaml:"user,omitempty"`
	Organization *Organization `yaml:"organization,omitempty"`

	PathPrefix string `yaml:"path_prefix"` // Prefix for every generated link (default "/")
	BasePath   string `yaml:"base_path"`   // Mount point for the blog pages (default "")
	ContentDir string `yaml:"content_dir"` // Markdown posts and pages (default "content")
	AssetDir   string `yaml:"asset_dir"`   // Static assets served under /public (default "static")

	EmbeddedImageWidth int `yaml:"embedded_image_width"` // default 768
	EmbeddedVideoWidth int `yaml:"embedded_video_width"` // default 920

	IconPath       string         `yaml:"icon_path"`
	IconList       []ManifestIcon `yaml:"icon_list"`
	IconCachePaths []string       `yaml:"icon_cache_paths"`

	Navigation   []NavigationLink   `yaml:"navigation"`
	FooterLinks  []NavigationLink   `yaml:"footer_links"`
	Certificates []CertificateEntry `yaml:"certificates"`

	Plugins Plugins      `yaml:"plugins"`
	Server  ServerConfig `yaml:"server"`
}

// Website describes the site itself.
type Website struct {
	Title             string `yaml:"title"`       // Required
	TitleShort        string `yaml:"title_short"` // Homescreen title, keep under 12 characters
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	Language          string `yaml:"language"`
	LogoURL           string `yaml:"logo_url"`
	URL               string `yaml:"url"` // Domain without the path prefix
	Copyright         string `yaml:"copyright"`
	RSS               string `yaml:"rss"` // Feed path (default "/rss.xml")
	RSSTitle          string `yaml:"rss_title"`
	GoogleAnalyticsID string `yaml:"google_analytics_id"`
	TwitterName       string `yaml:"twitter_name"`
	ThemeColor        string `yaml:"theme_color"`
	BackgroundColor   string `yaml:"background_color"`
}

// User is the site author.
type User struct {
	ID          string `yaml:"id"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	TwitterName string `yaml:"twitter_name"`
	LinkedIn    string `yaml:"linkedin"` // handle or full profile URL
	GitHub      string `yaml:"github"`
	Kaggle      string `yaml:"kaggle"`
	Email       string `yaml:"email"`
	Location    string `yaml:"location"`
	About       string `yaml:"about"`
	Avatar      string `yaml:"avatar"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Organization is used for SEO publisher metadata.
type Organization struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	LogoURL     string `yaml:"logo_url"`
	URL         string `yaml:"url"`
}

// Plugins is the fixed set of site-wide features that used to be generator
// plugins. Each is configured with static options.
type Plugins struct {
	GoogleAnalytics GoogleAnalyticsPlugin `yaml:"google_analytics"`
	Sitemap         SitemapPlugin         `yaml:"sitemap"`
	Manifest        ManifestPlugin        `yaml:"manifest"`
	Offline         OfflinePlugin         `yaml:"offline"`
	BundleAnalyser  BundleAnalyserPlugin  `yaml:"bundle_analyser"`
}

type GoogleAnalyticsPlugin struct {
	TrackingID string `yaml:"tracking_id"`
}

type SitemapPlugin struct {
	Disabled bool `yaml:"disabled"`
}

type ManifestPlugin struct {
	Disabled        bool   `yaml:"disabled"`
	Name            string `yaml:"name"`
	ShortName       string `yaml:"short_name"`
	Description     string `yaml:"description"`
	StartURL        string `yaml:"start_url"`
	BackgroundColor string `yaml:"background_color"`
	ThemeColor      string `yaml:"theme_color"`
	Display         string `yaml:"display"`
	Icon            string `yaml:"icon"` // Source image for generated icons
}

type OfflinePlugin struct {
	Enabled bool `yaml:"enabled"`
}

// BundleAnalyserPlugin serves a page-weight report. It is normally switched
// on with the ANALYSE_BUNDLE environment variable.
type BundleAnalyserPlugin struct {
	Enabled        bool   `yaml:"enabled"`
	ReportFilename string `yaml:"report_filename"` // default "_bundle.html"
}

// ServerConfig holds runtime settings that are not part of the site content.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string        `yaml:"database_path"` // SQLite path (default "data/folio.db")
	PostCacheTTL time.Duration `yaml:"post_cache_ttl"`
	Watch        bool          `yaml:"watch"` // Re-import content on change
}

func (c *SiteConfig) setDefaults() {
	w := &c.Website
	w.URL = strings.TrimSuffix(w.URL, "/")
	if w.URL == "" {
		w.URL = "http://localhost:3000"
	}
	if w.TitleShort == "" {
		w.TitleShort = w.Title
	}
	if w.Name == "" {
		w.Name = w.Title
	}
	if w.Language == "" {
		w.Language = "en"
	}
	if w.Copyright == "" {
		w.Copyright = "© " + w.Name
	}
	if w.RSS == "" {
		w.RSS = "/rss.xml"
	}
	if w.RSSTitle == "" {
		w.RSSTitle = w.Title + " RSS Feed"
	}
	if w.ThemeColor == "" {
		w.ThemeColor = "#6B46C1"
	}
	if w.BackgroundColor == "" {
		w.BackgroundColor = "#fff"
	}

	if c.PathPrefix == "" {
		c.PathPrefix = "/"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.AssetDir == "" {
		c.AssetDir = "static"
	}
	if c.EmbeddedImageWidth == 0 {
		c.EmbeddedImageWidth = 768
	}
	if c.EmbeddedVideoWidth == 0 {
		c.EmbeddedVideoWidth = 920
	}
	if len(c.Navigation) == 0 {
		c.Navigation = DefaultNavigation()
	}
	if len(c.FooterLinks) == 0 {
		c.FooterLinks = c.Navigation
	}

	p := &c.Plugins
	if p.GoogleAnalytics.TrackingID == "" {
		p.GoogleAnalytics.TrackingID = w.GoogleAnalyticsID
	}
	m := &p.Manifest
	if m.Name == "" {
		m.Name = w.Name
	}
	if m.ShortName == "" {
		m.ShortName = w.TitleShort
	}
	if m.Description == "" {
		m.Description = w.Description
	}
	if m.StartURL == "" {
		m.StartURL = c.PathPrefix
	}
	if m.BackgroundColor == "" {
		m.BackgroundColor = w.BackgroundColor
	}
	if m.ThemeColor == "" {
		m.ThemeColor = w.ThemeColor
	}
	if m.Display == "" {
		m.Display = "standalone"
	}
	if m.Icon == "" {
		m.Icon = c.IconPath
	}
	if p.BundleAnalyser.ReportFilename == "" {
		p.BundleAnalyser.ReportFilename = "_bundle.html"
	}

	s := &c.Server
	if s.Addr == "" {
		s.Addr = ":3000"
	}
	if s.DatabasePath == "" {
		s.DatabasePath = "data/folio.db"
	}
	if s.PostCacheTTL == 0 {
		s.PostCacheTTL = 5 * time.Minute
	}
}

// DefaultNavigation is the link list used when the config declares none.
func DefaultNavigation() []NavigationLink {
	return []NavigationLink{
		{Label: "Posts", Path: "/"},
		{Label: "About", Path: "/about/", NoBasePath: true},
		{Label: "Consultancy", Path: "/consultancy/", NoBasePath: true},
		{Label: "Certificates", Path: "/certificates/", NoBasePath: true},
		{Label: "Blog", Path: "/blog/"},
		{Label: "Tags", Path: "/tags/"},
	}
}

var reTrackingID = regexp.MustCompile(`^(UA-\d+-\d+|G-[A-Z0-9]+)$`)

// Validate reports every shape problem in the config at once. A missing
// optional section is not a problem.
func (c *SiteConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Website.Title) == "" {
		errs = append(errs, errors.New("website.title is required"))
	}
	if c.Website.URL != "" {
		if u, err := url.Parse(c.Website.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("website.url %q must be an absolute URL", c.Website.URL))
		}
	}
	if id := c.Plugins.GoogleAnalytics.TrackingID; id != "" && !reTrackingID.MatchString(id) {
		errs = append(errs, fmt.Errorf("plugins.google_analytics.tracking_id %q is not a valid tracking ID", id))
	}
	if len(c.Navigation) > 0 && c.Navigation[0].Path != "/" {
		errs = append(errs, fmt.Errorf("navigation[0] must target the site root, got %q", c.Navigation[0].Path))
	}
	errs = append(errs, validateLinks("navigation", c.Navigation)...)
	errs = append(errs, validateLinks("footer_links", c.FooterLinks)...)
	for i, cert := range c.Certificates {
		if strings.TrimSpace(cert.Label) == "" {
			errs = append(errs, fmt.Errorf("certificates[%d].label is required", i))
		}
		if !isExternalURL(cert.URL) {
			errs = append(errs, fmt.Errorf("certificates[%d].url %q must be an absolute http(s) URL", i, cert.URL))
		}
	}
	if c.Organization != nil && strings.TrimSpace(c.Organization.Name) == "" {
		errs = append(errs, errors.New("organization.name is required when organization is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("folio: config: %w", errors.Join(errs...))
	}
	return nil
}

func validateLinks(field string, links []NavigationLink) []error {
	var errs []error
	for i, l := range links {
		if strings.TrimSpace(l.Label) == "" {
			errs = append(errs, fmt.Errorf("%s[%d].label is required", field, i))
		}
		if strings.TrimSpace(l.Path) == "" {
			errs = append(errs, fmt.Errorf("%s[%d].path is required", field, i))
		}
	}
	return errs
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory served under /public (default AssetDir).
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the structured logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithClock replaces time.Now, mostly for tests of the footer year.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
