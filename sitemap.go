package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists the static pages, every published post and every tag page.
func (a *App) buildSitemap(posts []BlogPost, tags []TagCount) sitemapURLSet {
	cfg := a.Config
	var urls []sitemapURL
	for _, p := range a.staticPages() {
		urls = append(urls, sitemapURL{Loc: AbsoluteURL(cfg, p)})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     AbsoluteURL(cfg, PostPath(cfg, p.Slug)),
			LastMod: p.Date,
		})
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: AbsoluteURL(cfg, TagPath(cfg, t.Name))})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(posts, tags))
}
