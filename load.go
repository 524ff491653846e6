package folio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML site config at path. Before parsing it loads
// .env and .env.local from the config's directory (existing environment
// variables win), so ${VAR} references in the file can be resolved.
func LoadConfig(path string) (*SiteConfig, error) {
	if err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("folio: configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("folio: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig expands environment variables in data, decodes it, applies
// environment overrides and defaults, and validates the result.
func ParseConfig(data []byte) (*SiteConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg SiteConfig
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("folio: parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(dir string) error {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("folio: load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnvOverrides lets deploy-time settings beat the file. The analytics ID
// is taken from GOOGLE_ANALYTICS_ID when present, otherwise from the file.
func applyEnvOverrides(cfg *SiteConfig) {
	if v := os.Getenv("GOOGLE_ANALYTICS_ID"); v != "" {
		cfg.Plugins.GoogleAnalytics.TrackingID = v
	}
	if truthy(os.Getenv("ANALYSE_BUNDLE")) {
		cfg.Plugins.BundleAnalyser.Enabled = true
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.Website.URL = v
	}
	cfg.Server.Addr = EnvOr("FOLIO_ADDR", cfg.Server.Addr)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
