package folio

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			a.Logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("ip", v.RemoteIP),
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(a.metrics.middleware())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/icons/") ||
				(strings.HasPrefix(p, "/public/") && p != "/public/theme.css")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy(a.Config),
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return isFileRoute(c.Request().URL.Path)
		},
	}))

	e.Use(a.cacheControlMiddleware)
}

// contentSecurityPolicy allows the Google tag only when a tracking ID is set.
func contentSecurityPolicy(cfg *SiteConfig) string {
	script := "script-src 'self' 'unsafe-inline'"
	connect := "connect-src 'self'"
	img := "img-src 'self' https: data:"
	if cfg.Plugins.GoogleAnalytics.TrackingID != "" {
		script += " https://www.googletagmanager.com"
		connect += " https://www.google-analytics.com https://*.google-analytics.com https://*.analytics.google.com"
	}
	return strings.Join([]string{
		"default-src 'self'",
		script,
		"style-src 'self' 'unsafe-inline'",
		img,
		"font-src 'self'",
		connect,
		"worker-src 'self'",
		"manifest-src 'self'",
		"media-src 'self' https:",
	}, "; ")
}

// isFileRoute reports paths whose last segment names a file. They are
// served without a trailing slash.
func isFileRoute(p string) bool {
	if strings.HasPrefix(p, "/public/") || strings.HasPrefix(p, "/icons/") || p == "/metrics" {
		return true
	}
	return strings.Contains(path.Base(p), ".")
}

func (a *App) cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case p == "/sw.js" || p == "/public/theme.css":
			h.Set("Cache-Control", "no-cache")
		case p == "/metrics" || p == path.Join("/", a.Config.Plugins.BundleAnalyser.ReportFilename):
			h.Set("Cache-Control", "no-store")
		case strings.HasPrefix(p, "/public/") || strings.HasPrefix(p, "/icons/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case isFileRoute(p):
			h.Set("Cache-Control", "public, max-age=86400")
		default:
			h.Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}
