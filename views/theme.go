package views

import (
	"strings"
	"text/template"

	"github.com/ashishthanki/folio"
)

// Tokens are the design values the stylesheet is generated from.
type Tokens struct {
	Primary     string
	Background  string
	Text        string
	Muted       string
	Border      string
	FontBody    string
	FontHeading string
	ImageWidth  int
	VideoWidth  int
	ContentMax  int
}

// DefaultTokens derives the tokens for a site. Colours follow the site's
// theme and background colours.
func DefaultTokens(cfg *folio.SiteConfig) Tokens {
	return Tokens{
		Primary:     cfg.Website.ThemeColor,
		Background:  cfg.Website.BackgroundColor,
		Text:        "#1a202c",
		Muted:       "#718096",
		Border:      "#e2e8f0",
		FontBody:    `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`,
		FontHeading: `"Montserrat", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif`,
		ImageWidth:  cfg.EmbeddedImageWidth,
		VideoWidth:  cfg.EmbeddedVideoWidth,
		ContentMax:  1024,
	}
}

var stylesheetTemplate = template.Must(template.New("theme.css").Parse(`:root {
  --color-primary: {{.Primary}};
  --color-bg: {{.Background}};
  --color-text: {{.Text}};
  --color-muted: {{.Muted}};
  --color-border: {{.Border}};
  --font-body: {{.FontBody}};
  --font-heading: {{.FontHeading}};
}
*, *::before, *::after { box-sizing: border-box; }
html { -webkit-text-size-adjust: 100%; }
body { margin: 0; background: var(--color-bg); color: var(--color-text); font-family: var(--font-body); line-height: 1.6; }
h1, h2, h3 { font-family: var(--font-heading); line-height: 1.25; }
a { color: var(--color-primary); }
img { max-width: min(100%, {{.ImageWidth}}px); height: auto; }
video, iframe { max-width: min(100%, {{.VideoWidth}}px); }
pre { overflow-x: auto; padding: 1rem; background: #f7fafc; border: 1px solid var(--color-border); border-radius: 4px; }

.site { display: flex; flex-direction: column; min-height: 100vh; }
.site-main { flex: 1; }
.wrapper { width: 100%; max-width: {{.ContentMax}}px; margin: 0 auto; padding: 32px; word-wrap: break-word; word-break: break-word; display: grid; grid-gap: 10px; }

.navigation { display: flex; flex-wrap: wrap; align-items: center; justify-content: space-between; gap: 16px; max-width: {{.ContentMax}}px; margin: 0 auto; padding: 16px 32px; }
.home-button { display: flex; align-items: center; gap: 8px; text-decoration: none; color: var(--color-text); }
.site-title { font-family: var(--font-heading); font-weight: 700; font-size: 1.25rem; }
.nav-grid { display: flex; flex-wrap: wrap; gap: 8px 20px; }
.nav-button { color: var(--color-text); text-decoration: none; font-weight: 600; }
.nav-button:hover, .nav-button[aria-current="page"] { color: var(--color-primary); }

.caption { display: block; color: var(--color-muted); font-size: 0.875rem; }
.h3 { margin: 0 0 8px; font-size: 1rem; letter-spacing: 0.12em; }
.animated-link { color: inherit; text-decoration: none; background-image: linear-gradient(var(--color-primary), var(--color-primary)); background-size: 0 2px; background-position: 0 100%; background-repeat: no-repeat; transition: background-size 0.2s ease-in-out; }
.animated-link:hover, .animated-link:focus { background-size: 100% 2px; }

.footer { display: grid; grid-template-columns: 1fr; gap: 24px; max-width: {{.ContentMax}}px; margin: 0 auto; padding: 32px; border-top: 1px solid var(--color-border); }
.link-grid { display: grid; grid-auto-flow: row; gap: 4px; }
.user-links { display: flex; flex-wrap: wrap; gap: 12px; }
.info { display: grid; gap: 8px; }
@media (min-width: 768px) { .footer { grid-template-columns: 1fr 2fr; } }

.bio { display: grid; grid-template-columns: auto 1fr; gap: 16px; align-items: center; }
.bio img { width: 96px; height: 96px; border-radius: 50%; }
.certificates li { margin: 4px 0; }
.post-list { list-style: none; padding: 0; }
.post-list li { margin: 0 0 20px; }
.post-date { color: var(--color-muted); font-size: 0.875rem; }
.tags { display: flex; flex-wrap: wrap; gap: 8px; padding: 0; list-style: none; }
.tag { display: inline-block; padding: 2px 10px; border: 1px solid var(--color-border); border-radius: 999px; font-size: 0.75rem; text-decoration: none; color: var(--color-text); }
.tag[aria-current="page"] { background: var(--color-primary); border-color: var(--color-primary); color: #fff; }
.report { border-collapse: collapse; width: 100%; }
.report th, .report td { padding: 4px 8px; border-bottom: 1px solid var(--color-border); text-align: left; }
`))

// Stylesheet renders the site stylesheet served at /public/theme.css.
func Stylesheet(cfg *folio.SiteConfig) string {
	var b strings.Builder
	if err := stylesheetTemplate.Execute(&b, DefaultTokens(cfg)); err != nil {
		return ""
	}
	return b.String()
}
