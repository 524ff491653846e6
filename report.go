package folio

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"sort"

	"github.com/labstack/echo/v4"
)

// BuildReport renders every static page, the stylesheet and the service
// worker through the router and records their raw and gzip sizes, largest
// first.
func (a *App) BuildReport() ([]ReportEntry, error) {
	targets := a.staticPages()
	targets = append(targets, SitePrefixed(a.Config, "/public/theme.css"))
	if a.Config.Plugins.Offline.Enabled {
		targets = append(targets, SitePrefixed(a.Config, "/sw.js"))
	}

	entries := make([]ReportEntry, 0, len(targets))
	for _, href := range targets {
		req := httptest.NewRequest(http.MethodGet, stripPathPrefix(a.Config, href), nil)
		rec := httptest.NewRecorder()
		a.Echo.ServeHTTP(rec, req)

		body := rec.Body.Bytes()
		var gz bytes.Buffer
		zw := gzip.NewWriter(&gz)
		if _, err := zw.Write(body); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		entries = append(entries, ReportEntry{
			Path:      href,
			Status:    rec.Code,
			Bytes:     len(body),
			GzipBytes: gz.Len(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Bytes > entries[j].Bytes })
	return entries, nil
}

func (a *App) handleReport(c echo.Context) error {
	entries, err := a.BuildReport()
	if err != nil {
		return err
	}
	return a.render(c, http.StatusOK, "bundle_report", a.Views.BundleReport(a.pageData(c, "Bundle report", ""), entries))
}
