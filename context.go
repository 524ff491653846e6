package folio

import "context"

type configKey struct{}

// WithConfig returns a copy of ctx carrying cfg. Render installs the App's
// config on every request so components can read it without globals.
func WithConfig(ctx context.Context, cfg *SiteConfig) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the active config, or nil when none is installed.
func ConfigFrom(ctx context.Context) *SiteConfig {
	cfg, _ := ctx.Value(configKey{}).(*SiteConfig)
	return cfg
}
