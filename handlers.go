package folio

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// pageData builds the PageData for the current request. name becomes the
// "<name> | <site title>" title; an empty description falls back to the
// site description.
func (a *App) pageData(c echo.Context, name, description string) PageData {
	cfg := a.Config
	if description == "" {
		description = cfg.Website.Description
	}
	href := SitePrefixed(cfg, c.Request().URL.EscapedPath())
	return PageData{
		Site: cfg,
		Meta: PageMeta{
			Title:       PageTitle(name, cfg),
			Description: description,
			URL:         AbsoluteURL(cfg, href),
			OGType:      "website",
			JSONLD:      WebsiteJsonLD(cfg),
		},
		Year: a.now().Year(),
		Path: href,
	}
}

func (a *App) handleHome(c echo.Context) error {
	intro := a.Content().Page("home", "Posts")
	posts, err := a.Cache.Latest(10)
	if err != nil {
		return err
	}
	p := a.pageData(c, "Posts", "")
	return a.render(c, http.StatusOK, "home", a.Views.Home(p, intro, posts))
}

func (a *App) handleBlog(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	p := a.pageData(c, "Blog", "")
	return a.render(c, http.StatusOK, "blog", a.Views.Blog(p, posts, tag, tags))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	p := a.pageData(c, post.Title, post.Summary)
	p.Meta.OGType = "article"
	p.Meta.JSONLD = BlogPostingJsonLD(post, a.Config)
	return a.render(c, http.StatusOK, "post", a.Views.Post(p, post, FilterRelatedPosts(post, posts)))
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	p := a.pageData(c, "Tags", "")
	return a.render(c, http.StatusOK, "tags", a.Views.Tags(p, tags))
}

func (a *App) handleTag(c echo.Context) error {
	// Echo routes on RawPath, so a tag such as "ci/cd" arrives escaped.
	raw, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return echo.ErrNotFound
	}
	tag := normalizeTag(raw)
	if tag == "" {
		return echo.ErrNotFound
	}
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	p := a.pageData(c, "#"+tag, "")
	return a.render(c, http.StatusOK, "tag", a.Views.Blog(p, posts, tag, tags))
}

func (a *App) handleAbout(c echo.Context) error {
	page := a.Content().Page("about", "About")
	p := a.pageData(c, "About", "")
	return a.render(c, http.StatusOK, "about", a.Views.About(p, page))
}

func (a *App) handleConsultancy(c echo.Context) error {
	page := a.Content().Page("consultancy", "Consultancy")
	p := a.pageData(c, "Consultancy", "")
	return a.render(c, http.StatusOK, "consultancy", a.Views.Consultancy(p, page))
}

func (a *App) handleCertificates(c echo.Context) error {
	page := a.Content().Page("certificates", "Certificates")
	p := a.pageData(c, "Certificates", "")
	return a.render(c, http.StatusOK, "certificates", a.Views.Certificates(p, page))
}

func (a *App) handleStylesheet(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(a.Views.Stylesheet(a.Config)))
}

func (a *App) handleFavicon(c echo.Context) error {
	local := filepath.Join(a.staticDir, "favicon.svg")
	if _, err := os.Stat(local); err == nil {
		return c.File(local)
	}
	icon, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", icon)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if !a.Config.Plugins.Sitemap.Disabled {
		b.WriteString("Sitemap: " + AbsoluteURL(a.Config, SitePrefixed(a.Config, "/sitemap.xml")) + "\n")
	}
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.render(c, http.StatusNotFound, "not_found", a.Views.NotFound(a.pageData(c, "Not Found", "")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		_ = a.render(c, code, "server_error", a.Views.ServerError(a.pageData(c, "Error", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
