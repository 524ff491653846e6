// Package folio serves a personal blog and portfolio site built with Go,
// Echo and templ. Posts and pages are Markdown files imported into SQLite;
// the site shell (navigation, footer, About, Consultancy and Certificates
// pages) is driven entirely by a SiteConfig.
//
// Templates are supplied by the caller through ViewFuncs, and folio owns the
// handlers, middleware, content import and the generator features (sitemap,
// RSS, web manifest, offline worker, bundle report).
package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the App renders. Each view wraps
// itself in the site layout.
type ViewFuncs struct {
	Home         func(p PageData, intro ContentPage, posts []BlogPost) templ.Component
	Blog         func(p PageData, posts []BlogPost, activeTag string, tags []TagCount) templ.Component
	Post         func(p PageData, post BlogPost, related []BlogPost) templ.Component
	Tags         func(p PageData, tags []TagCount) templ.Component
	About        func(p PageData, page ContentPage) templ.Component
	Consultancy  func(p PageData, page ContentPage) templ.Component
	Certificates func(p PageData, page ContentPage) templ.Component
	BundleReport func(p PageData, entries []ReportEntry) templ.Component
	NotFound     func(p PageData) templ.Component
	ServerError  func(p PageData) templ.Component
	Stylesheet   func(cfg *SiteConfig) string
}

func (v ViewFuncs) validate() error {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("Home", v.Home != nil)
	check("Blog", v.Blog != nil)
	check("Post", v.Post != nil)
	check("Tags", v.Tags != nil)
	check("About", v.About != nil)
	check("Consultancy", v.Consultancy != nil)
	check("Certificates", v.Certificates != nil)
	check("BundleReport", v.BundleReport != nil)
	check("NotFound", v.NotFound != nil)
	check("ServerError", v.ServerError != nil)
	check("Stylesheet", v.Stylesheet != nil)
	if len(missing) > 0 {
		return fmt.Errorf("folio: views: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// App is the central folio application. It wires together the store, cache,
// content, handlers, middleware and the caller's templates.
type App struct {
	Config *SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	Logger *slog.Logger

	content      atomic.Pointer[Content]
	icons        map[int][]byte
	metrics      *Metrics
	watcher      *ContentWatcher
	stopWatch    context.CancelFunc
	now          func() time.Time
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App for a copy of cfg. Defaults are applied to the copy;
// cfg itself is left untouched.
func New(cfg *SiteConfig, views ViewFuncs, opts ...Option) *App {
	c := *cfg
	c.setDefaults()

	a := &App{
		Config:    &c,
		Echo:      echo.New(),
		Views:     views,
		Logger:    slog.Default(),
		now:       time.Now,
		staticDir: c.AssetDir,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup validates the config, opens the store, imports content and
// registers middleware and routes. It is called by Start; tests call it
// directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if err := a.Views.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.Server.PostCacheTTL)
	a.metrics = NewMetrics()

	if err := a.Reload(); err != nil {
		return err
	}
	if err := a.loadIcons(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up, starts the content watcher when enabled and serves
// until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if a.Config.Server.Watch {
		if err := a.startWatcher(); err != nil {
			return err
		}
	}
	a.Logger.Info("serving site", "addr", a.Config.Server.Addr, "url", a.Config.Website.URL)
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) startWatcher() error {
	w, err := NewContentWatcher(a.Config.ContentDir, a.Reload, a.Logger)
	if err != nil {
		return fmt.Errorf("folio: watch content: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watcher = w
	a.stopWatch = cancel
	go w.Run(ctx)
	return nil
}

// Reload imports the content directory, replaces the stored posts and
// swaps the page set. On error the previous content stays live.
func (a *App) Reload() error {
	var published int
	c, err := LoadContent(a.Config.ContentDir)
	if err == nil {
		err = a.Store.ReplacePosts(c.Posts)
	}
	if err == nil {
		published, err = a.Store.CountPosts()
	}
	a.metrics.observeReload(c, published, err)
	if err != nil {
		return fmt.Errorf("folio: import content: %w", err)
	}
	a.content.Store(c)
	a.Cache.Invalidate()
	a.Logger.Info("content imported", "posts", len(c.Posts), "published", published, "pages", len(c.Pages), "version", c.Version)
	return nil
}

// Content returns the current content import.
func (a *App) Content() *Content {
	return a.content.Load()
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// staticPages are the hrefs of the fixed pages, in navigation order.
func (a *App) staticPages() []string {
	cfg := a.Config
	return []string{
		SitePath(cfg, "/"),
		SitePrefixed(cfg, "/about/"),
		SitePrefixed(cfg, "/consultancy/"),
		SitePrefixed(cfg, "/certificates/"),
		SitePath(cfg, "/blog/"),
		SitePath(cfg, "/tags/"),
	}
}

// mount is the route of a blog path under BasePath.
func (a *App) mount(p string) string {
	r := path.Join("/", a.Config.BasePath, p)
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(r, "/") {
		r += "/"
	}
	return r
}

// route registers h for GET and HEAD.
func (a *App) route(p string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	a.Echo.Match([]string{http.MethodGet, http.MethodHead}, p, h, m...)
}

func (a *App) setupRoutes() {
	cfg := a.Config

	a.route("/public/theme.css", a.handleStylesheet)
	a.Echo.Static("/public", a.staticDir)
	a.route("/favicon.svg", a.handleFavicon)
	a.route("/robots.txt", a.handleRobots)
	a.route("/metrics", a.metrics.handler())

	a.route(a.mount("/"), a.handleHome)
	a.route(a.mount("/blog/"), a.handleBlog)
	a.route(a.mount("/blog/:slug/"), a.handlePost)
	a.route(a.mount("/tags/"), a.handleTags)
	a.route(a.mount("/tags/:tag/"), a.handleTag)
	a.route("/about/", a.handleAbout)
	a.route("/consultancy/", a.handleConsultancy)
	a.route("/certificates/", a.handleCertificates)

	a.route(path.Join("/", cfg.Website.RSS), a.handleFeed)
	if !cfg.Plugins.Sitemap.Disabled {
		a.route("/sitemap.xml", a.handleSitemap)
	}
	if !cfg.Plugins.Manifest.Disabled {
		a.route("/manifest.webmanifest", a.handleManifest)
		a.route("/icons/:file", a.handleIcon)
	}
	if cfg.Plugins.Offline.Enabled {
		a.route("/sw.js", a.handleServiceWorker)
	}
	if cfg.Plugins.BundleAnalyser.Enabled {
		a.route(path.Join("/", cfg.Plugins.BundleAnalyser.ReportFilename), a.handleReport,
			NewWindowLimiter(10, time.Minute).Middleware())
	}
}
