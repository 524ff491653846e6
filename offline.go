package folio

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var swTemplate = template.Must(template.New("sw.js.tmpl").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).ParseFS(EmbeddedAssets, "embedded/sw.js.tmpl"))

type serviceWorkerData struct {
	CacheName string
	Precache  []string
	Offline   string
}

// CacheName names the offline cache after the site and the content version,
// so every content import retires the previous cache.
func CacheName(cfg *SiteConfig, contentVersion string) string {
	return "folio-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(cfg.Website.URL+"#"+contentVersion)).String()
}

// precachePaths lists the site shell: static pages, stylesheet, favicon,
// manifest, generated icons and any assets matched by IconCachePaths.
func (a *App) precachePaths() []string {
	cfg := a.Config
	paths := append([]string{}, a.staticPages()...)
	paths = append(paths,
		SitePrefixed(cfg, "/public/theme.css"),
		SitePrefixed(cfg, "/favicon.svg"),
	)
	if !cfg.Plugins.Manifest.Disabled {
		paths = append(paths, SitePrefixed(cfg, "/manifest.webmanifest"))
		sizes := a.generatedIconSizes()
		sort.Ints(sizes)
		for _, n := range sizes {
			paths = append(paths, SitePrefixed(cfg, iconPath(n)))
		}
	}
	for _, pattern := range cfg.IconCachePaths {
		matches, err := filepath.Glob(filepath.Join(a.staticDir, pattern))
		if err != nil {
			a.Logger.Warn("invalid icon_cache_paths pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, m := range matches {
			rel, err := filepath.Rel(a.staticDir, m)
			if err != nil {
				continue
			}
			paths = append(paths, SitePrefixed(cfg, "/public/"+filepath.ToSlash(rel)))
		}
	}
	return paths
}

// ServiceWorker renders the service worker script for the current content.
func (a *App) ServiceWorker() ([]byte, error) {
	version := ""
	if c := a.content.Load(); c != nil {
		version = c.Version
	}
	var buf bytes.Buffer
	err := swTemplate.Execute(&buf, serviceWorkerData{
		CacheName: CacheName(a.Config, version),
		Precache:  a.precachePaths(),
		Offline:   SitePath(a.Config, "/"),
	})
	return buf.Bytes(), err
}

func (a *App) handleServiceWorker(c echo.Context) error {
	script, err := a.ServiceWorker()
	if err != nil {
		return err
	}
	c.Response().Header().Set("Service-Worker-Allowed", "/")
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", script)
}
