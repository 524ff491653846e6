package folio

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
)

// WebManifest is the JSON document served at /manifest.webmanifest.
type WebManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	Lang            string         `json:"lang,omitempty"`
	StartURL        string         `json:"start_url"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Display         string         `json:"display"`
	Icons           []ManifestIcon `json:"icons"`
}

// BuildManifest assembles the manifest from config. An explicit IconList
// wins over generated icons, which are listed smallest first.
func BuildManifest(cfg *SiteConfig, generated []int) WebManifest {
	m := cfg.Plugins.Manifest
	icons := cfg.IconList
	if len(icons) == 0 {
		sizes := append([]int(nil), generated...)
		sort.Ints(sizes)
		for _, n := range sizes {
			icons = append(icons, ManifestIcon{
				Src:   SitePrefixed(cfg, iconPath(n)),
				Sizes: fmt.Sprintf("%dx%d", n, n),
				Type:  "image/png",
			})
		}
	}
	if icons == nil {
		icons = []ManifestIcon{}
	}
	return WebManifest{
		Name:            m.Name,
		ShortName:       m.ShortName,
		Description:     m.Description,
		Lang:            cfg.Website.Language,
		StartURL:        m.StartURL,
		BackgroundColor: m.BackgroundColor,
		ThemeColor:      m.ThemeColor,
		Display:         m.Display,
		Icons:           icons,
	}
}

func (a *App) generatedIconSizes() []int {
	sizes := make([]int, 0, len(a.icons))
	for n := range a.icons {
		sizes = append(sizes, n)
	}
	return sizes
}

func (a *App) handleManifest(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/manifest+json")
	return c.JSON(http.StatusOK, BuildManifest(a.Config, a.generatedIconSizes()))
}

func (a *App) handleIcon(c echo.Context) error {
	var w, h int
	if _, err := fmt.Sscanf(c.Param("file"), "icon-%dx%d.png", &w, &h); err != nil || w != h {
		return echo.ErrNotFound
	}
	data, ok := a.icons[w]
	if !ok || c.Param("file") != "icon-"+strconv.Itoa(w)+"x"+strconv.Itoa(h)+".png" {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
