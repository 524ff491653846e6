package folio_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ashishthanki/folio"
	"github.com/ashishthanki/folio/views"
)

var fixedClock = folio.WithClock(func() time.Time {
	return time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
})

func writeSiteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestApp builds an App over a temporary site with two published posts,
// one draft and the three content pages. mutate adjusts the parsed config.
func newTestApp(t *testing.T, mutate func(dir string, cfg *folio.SiteConfig), opts ...folio.Option) (*folio.App, string) {
	t.Helper()
	t.Setenv("GOOGLE_ANALYTICS_ID", "")
	t.Setenv("SITE_URL", "")
	t.Setenv("FOLIO_ADDR", "")

	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	writeSiteFile(t, filepath.Join(content, "pages", "about.md"), "---\ntitle: About\nheading: About Ashish\n---\nData scientist in London.\n")
	writeSiteFile(t, filepath.Join(content, "pages", "consultancy.md"), "---\ntitle: Consultancy\nheading: Business & Data Science Consulting\n---\nSQL, Python and AWS.\n")
	writeSiteFile(t, filepath.Join(content, "pages", "certificates.md"), "---\ntitle: Certificates\nheading: Certifications\n---\nAchieved so far:\n")
	writeSiteFile(t, filepath.Join(content, "posts", "first.md"), "---\ntitle: First Post\ndate: \"2024-01-02\"\ntags: [go]\nsummary: The first one.\n---\nHello.\n")
	writeSiteFile(t, filepath.Join(content, "posts", "second.md"), "---\ntitle: Second Post\ndate: \"2024-02-03\"\ntags: [go, web]\n---\nAgain.\n")
	writeSiteFile(t, filepath.Join(content, "posts", "draft.md"), "---\ntitle: Secret Draft\ndate: \"2024-03-04\"\ndraft: true\n---\nNot yet.\n")

	cfg, err := folio.ParseConfig([]byte(fmt.Sprintf(`
website:
  title: X
  url: https://example.com
content_dir: %q
asset_dir: %q
server:
  database_path: %q
`, content, filepath.Join(dir, "static"), filepath.Join(dir, "data", "site.db"))))
	require.NoError(t, err)
	if mutate != nil {
		mutate(dir, cfg)
	}

	opts = append([]folio.Option{
		folio.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		fixedClock,
	}, opts...)
	app := folio.New(cfg, views.Funcs(), opts...)
	require.NoError(t, app.Setup())
	t.Cleanup(func() { app.Close() })
	return app, dir
}

func get(t *testing.T, app *folio.App, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

var (
	reTitle   = regexp.MustCompile(`<title>([^<]*)</title>`)
	reNavHref = regexp.MustCompile(`<a class="nav-button" href="([^"]*)"`)
)

func title(t *testing.T, body string) string {
	t.Helper()
	m := reTitle.FindStringSubmatch(body)
	require.NotNil(t, m, "no <title> in page")
	return m[1]
}

func TestPageTitles(t *testing.T) {
	app, _ := newTestApp(t, nil)
	tests := []struct {
		path string
		want string
	}{
		{"/", "Posts | X"},
		{"/about/", "About | X"},
		{"/consultancy/", "Consultancy | X"},
		{"/certificates/", "Certificates | X"},
		{"/blog/", "Blog | X"},
		{"/tags/", "Tags | X"},
		{"/blog/first/", "First Post | X"},
	}
	for _, tt := range tests {
		rec := get(t, app, tt.path)
		require.Equal(t, http.StatusOK, rec.Code, tt.path)
		require.Equal(t, tt.want, title(t, rec.Body.String()), tt.path)
	}
}

func TestNavigationRendersDeclaredLinksInOrder(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.Navigation = []folio.NavigationLink{
			{Label: "Posts", Path: "/"},
			{Label: "About", Path: "/about"},
		}
	})
	body := get(t, app, "/about/").Body.String()

	var hrefs []string
	for _, m := range reNavHref.FindAllStringSubmatch(body, -1) {
		hrefs = append(hrefs, m[1])
	}
	require.Equal(t, []string{"/", "/about"}, hrefs)
	require.Contains(t, body, `<span class="site-title">X</span>`)
}

func TestNavigationMarksCurrentPage(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/consultancy/").Body.String()
	require.Contains(t, body, `<a class="nav-button" href="/consultancy/" aria-current="page">Consultancy</a>`)
	require.NotContains(t, body, `href="/about/" aria-current`)
}

func TestFooterCopyrightUsesRenderYear(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/about/").Body.String()
	require.Contains(t, body, "<h3 class=\"h3\">LINKS</h3>")
	require.Contains(t, body, "© X 2031")
	require.Contains(t, body, " | ")
}

func TestCertificatesRendersOneAnchorPerEntry(t *testing.T) {
	certs := []folio.CertificateEntry{
		{Label: "Microsoft: Azure Fundamentals", URL: "https://www.youracclaim.com/badges/0edcedc7"},
		{Label: "Microsoft: Analyzing and Visualizing Data with Power BI", URL: "https://courses.edx.org/certificates/81bef9d1"},
		{Label: "MIT: Sustainable Building Design", URL: "https://courses.edx.org/certificates/fc93f8e5"},
	}
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.Certificates = certs
	})
	body := get(t, app, "/certificates/").Body.String()

	start := strings.Index(body, `<ol class="certificates">`)
	require.GreaterOrEqual(t, start, 0)
	list := body[start : start+strings.Index(body[start:], "</ol>")]
	hrefs := regexp.MustCompile(`href="([^"]*)"`).FindAllStringSubmatch(list, -1)
	require.Len(t, hrefs, len(certs))
	for i, c := range certs {
		require.Equal(t, c.URL, hrefs[i][1])
	}
	require.Contains(t, list, `rel="noopener noreferrer"`)
}

func TestAboutWithoutUser(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/about/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "About Ashish")
	require.NotContains(t, body, `class="bio"`)
	require.NotContains(t, body, `class="user-links"`)
}

func TestAboutWithUser(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.User = &folio.User{FirstName: "Ashish", LastName: "Thanki", GitHub: "ashishthanki", Location: "London"}
	})
	body := get(t, app, "/about/").Body.String()
	require.Contains(t, body, `<section class="bio">`)
	require.Contains(t, body, "<strong>Ashish Thanki</strong>")
	require.Contains(t, body, `href="https://github.com/ashishthanki"`)
}

func TestBlogListingHidesDrafts(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/blog/").Body.String()
	require.Contains(t, body, "First Post")
	require.Contains(t, body, "Second Post")
	require.NotContains(t, body, "Secret Draft")
	require.Less(t, strings.Index(body, "Second Post"), strings.Index(body, "First Post"))

	require.Equal(t, http.StatusNotFound, get(t, app, "/blog/draft/").Code)
}

func TestPostPage(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/blog/second/").Body.String()
	require.Contains(t, body, `"@type":"BlogPosting"`)
	require.Contains(t, body, `<meta property="og:type" content="article">`)
	require.Contains(t, body, "RELATED POSTS")
	require.Contains(t, body, `href="/blog/first/"`)
}

func TestTagPages(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/tags/").Body.String()
	require.Contains(t, body, "#go (2)")
	require.Contains(t, body, "#web (1)")

	rec := get(t, app, "/tags/web/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Second Post")
	require.NotContains(t, rec.Body.String(), "First Post</a>")

	require.Equal(t, http.StatusNotFound, get(t, app, "/tags/nothing/").Code)
}

func TestTagWithSlashResolves(t *testing.T) {
	app, _ := newTestApp(t, nil)
	writeSiteFile(t, filepath.Join(app.Config.ContentDir, "posts", "pipelines.md"), "---\ntitle: Pipelines\ndate: \"2024-04-05\"\ntags: [CI/CD]\n---\nBuild it.\n")
	require.NoError(t, app.Reload())

	href := folio.TagPath(app.Config, "ci/cd")
	require.Equal(t, "/tags/ci%2Fcd/", href)
	require.Contains(t, get(t, app, "/tags/").Body.String(), `href="`+href+`"`)
	require.Contains(t, get(t, app, "/sitemap.xml").Body.String(), "https://example.com"+href)

	rec := get(t, app, href)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Equal(t, "#ci/cd | X", title(t, body))
	require.Contains(t, body, "Pipelines")
	require.Contains(t, body, `<link rel="canonical" href="https://example.com`+href+`">`)
}

func TestNotFoundRendersView(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/blog/missing/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found | X", title(t, rec.Body.String()))
}

func TestHeadRequests(t *testing.T) {
	app, _ := newTestApp(t, nil)
	for _, target := range []string{"/", "/about/", "/blog/first/", "/tags/go/", "/sitemap.xml", "/rss.xml", "/robots.txt"} {
		req := httptest.NewRequest(http.MethodHead, target, nil)
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/about")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/about/", rec.Header().Get("Location"))
}

func TestSitemap(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, loc := range []string{
		"https://example.com/",
		"https://example.com/about/",
		"https://example.com/consultancy/",
		"https://example.com/certificates/",
		"https://example.com/blog/first/",
		"https://example.com/blog/second/",
	} {
		require.Contains(t, body, "<loc>"+loc+"</loc>")
	}
	require.NotContains(t, body, "draft")
}

func TestSitemapDisabled(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.Plugins.Sitemap.Disabled = true
	})
	require.Equal(t, http.StatusNotFound, get(t, app, "/sitemap.xml").Code)
	require.NotContains(t, get(t, app, "/robots.txt").Body.String(), "Sitemap:")
}

func TestRobots(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := get(t, app, "/robots.txt").Body.String()
	require.Contains(t, body, "Sitemap: https://example.com/sitemap.xml")
}

func TestFeed(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.User = &folio.User{FirstName: "Ashish", LastName: "Thanki", Email: "a@example.com"}
	})
	rec := get(t, app, "/rss.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	body := rec.Body.String()
	require.Contains(t, body, "<title>X RSS Feed</title>")
	require.Contains(t, body, "<link>https://example.com/blog/first/</link>")
	require.Contains(t, body, "<managingEditor>a@example.com (Ashish Thanki)</managingEditor>")
	require.NotContains(t, body, "Secret Draft")
}

func TestManifestAndIcons(t *testing.T) {
	app, _ := newTestApp(t, func(dir string, cfg *folio.SiteConfig) {
		img := image.NewRGBA(image.Rect(0, 0, 32, 32))
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		icon := filepath.Join(dir, "static", "icon.png")
		writeSiteFile(t, icon, buf.String())
		cfg.Plugins.Manifest.Icon = icon
	})

	rec := get(t, app, "/manifest.webmanifest")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/manifest+json", rec.Header().Get("Content-Type"))
	var m folio.WebManifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Equal(t, "X", m.Name)
	require.Len(t, m.Icons, len(folio.IconSizes))
	require.Equal(t, "/icons/icon-48x48.png", m.Icons[0].Src)

	icon := get(t, app, "/icons/icon-192x192.png")
	require.Equal(t, http.StatusOK, icon.Code)
	require.Equal(t, "image/png", icon.Header().Get("Content-Type"))
	require.Equal(t, http.StatusNotFound, get(t, app, "/icons/icon-100x100.png").Code)
}

func TestServiceWorker(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.Plugins.Offline.Enabled = true
	})
	rec := get(t, app, "/sw.js")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `const CACHE = "`+folio.CacheName(app.Config, app.Content().Version)+`"`)
	require.Contains(t, body, `"/about/"`)
	require.Contains(t, body, `"/public/theme.css"`)
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	page := get(t, app, "/").Body.String()
	require.Contains(t, page, `navigator.serviceWorker.register("/sw.js"`)
}

func TestServiceWorkerDisabled(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.Equal(t, http.StatusNotFound, get(t, app, "/sw.js").Code)
	require.NotContains(t, get(t, app, "/").Body.String(), "serviceWorker")
}

func TestGoogleAnalytics(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.Plugins.GoogleAnalytics.TrackingID = "UA-173551441-1"
	})
	rec := get(t, app, "/")
	require.Contains(t, rec.Body.String(), `gtag("config","UA-173551441-1"`)
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://www.googletagmanager.com")
}

func TestGoogleAnalyticsOff(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/")
	require.NotContains(t, rec.Body.String(), "gtag(")
	require.NotContains(t, rec.Header().Get("Content-Security-Policy"), "googletagmanager")
}

func TestBundleReportEnabledByEnv(t *testing.T) {
	t.Setenv("ANALYSE_BUNDLE", "1")
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/_bundle.html")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Equal(t, "Bundle report | X", title(t, body))
	require.Contains(t, body, "<td>/about/</td>")
	require.Contains(t, body, "<td>/public/theme.css</td>")

	entries, err := app.BuildReport()
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		require.GreaterOrEqual(t, entries[i-1].Bytes, entries[i].Bytes)
	}
	for _, e := range entries {
		require.Equal(t, http.StatusOK, e.Status, e.Path)
	}
}

func TestBundleReportOffByDefault(t *testing.T) {
	t.Setenv("ANALYSE_BUNDLE", "")
	app, _ := newTestApp(t, nil)
	require.Equal(t, http.StatusNotFound, get(t, app, "/_bundle.html").Code)
}

func TestStylesheet(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/public/theme.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	require.Contains(t, rec.Body.String(), "--color-primary: #6B46C1;")
	require.Contains(t, rec.Body.String(), "768px")
}

func TestFaviconFallsBackToEmbedded(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app, "/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<svg")
}

func TestWithStaticDir(t *testing.T) {
	assets := t.TempDir()
	writeSiteFile(t, filepath.Join(assets, "favicon.svg"), `<svg id="local"/>`)
	writeSiteFile(t, filepath.Join(assets, "notes.txt"), "served")
	app, _ := newTestApp(t, nil, folio.WithStaticDir(assets))

	require.Contains(t, get(t, app, "/favicon.svg").Body.String(), `id="local"`)
	rec := get(t, app, "/public/notes.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "served", rec.Body.String())
}

func TestWithCustomRoutes(t *testing.T) {
	app, _ := newTestApp(t, nil, folio.WithCustomRoutes(func(a *folio.App) {
		a.Echo.GET("/healthz/", func(c echo.Context) error {
			return c.String(http.StatusOK, a.Config.Website.Title)
		})
	}))
	rec := get(t, app, "/healthz/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "X", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	app, _ := newTestApp(t, nil)
	get(t, app, "/about/")
	body := get(t, app, "/metrics").Body.String()
	require.Contains(t, body, "folio_published_posts 2")
	require.Contains(t, body, `folio_content_reloads_total{result="ok"} 1`)
	require.Contains(t, body, `folio_view_renders_total{view="about"} 1`)
	require.Contains(t, body, "folio_http_requests_total")
}

func TestReloadPicksUpNewPosts(t *testing.T) {
	app, _ := newTestApp(t, nil)
	writeSiteFile(t, filepath.Join(app.Config.ContentDir, "posts", "third.md"), "---\ntitle: Third Post\ndate: \"2024-05-06\"\n---\nNew.\n")
	require.NoError(t, app.Reload())
	require.Equal(t, http.StatusOK, get(t, app, "/blog/third/").Code)
}

func TestReloadKeepsPreviousContentOnError(t *testing.T) {
	app, _ := newTestApp(t, nil)
	version := app.Content().Version
	writeSiteFile(t, filepath.Join(app.Config.ContentDir, "posts", "broken.md"), "---\ntitle: Broken\ndate: yesterday\n---\n")
	require.Error(t, app.Reload())
	require.Equal(t, version, app.Content().Version)
	require.Equal(t, http.StatusOK, get(t, app, "/blog/first/").Code)
}

func TestBasePathMountsBlogOnly(t *testing.T) {
	app, _ := newTestApp(t, func(_ string, cfg *folio.SiteConfig) {
		cfg.BasePath = "/writing"
	})
	require.Equal(t, http.StatusOK, get(t, app, "/writing/").Code)
	require.Equal(t, http.StatusOK, get(t, app, "/writing/blog/first/").Code)
	require.Equal(t, http.StatusOK, get(t, app, "/about/").Code)

	body := get(t, app, "/about/").Body.String()
	require.Contains(t, body, `<a class="nav-button" href="/writing/">Posts</a>`)
	require.Contains(t, body, `href="/about/"`)
}

func TestSetupRejectsIncompleteViews(t *testing.T) {
	cfg := &folio.SiteConfig{Website: folio.Website{Title: "X"}}
	app := folio.New(cfg, folio.ViewFuncs{})
	require.ErrorContains(t, app.Setup(), "folio: views: missing Home")
}

func TestNewLeavesConfigUntouched(t *testing.T) {
	cfg := &folio.SiteConfig{Website: folio.Website{Title: "X"}}
	app := folio.New(cfg, views.Funcs())
	require.Empty(t, cfg.Website.URL)
	require.Equal(t, "http://localhost:3000", app.Config.Website.URL)
}
