package views

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/ashishthanki/folio"
)

// Layout renders a full document: head, navigation, body and footer. The
// page's config is installed on the context unless one is already present.
func Layout(p folio.PageData, body templ.Component) templ.Component {
	doc := document(p, body)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if folio.ConfigFrom(ctx) == nil {
			ctx = folio.WithConfig(ctx, p.Site)
		}
		return doc.Render(ctx, w)
	})
}

func document(p folio.PageData, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", p.Site.Website.Language)
		h.raw(">")
		h.component(Head(p))
		h.raw(`<body><div class="site">`)
		h.component(Navigation(p))
		h.raw(`<main class="site-main">`)
		h.component(body)
		h.raw("</main>")
		h.component(Footer(p))
		h.raw("</div>")
		if p.Site.Plugins.Offline.Enabled {
			h.raw(`<script>if("serviceWorker" in navigator){navigator.serviceWorker.register(`)
			h.raw(jsString(folio.SitePrefixed(p.Site, "/sw.js")))
			h.raw(`,{scope:`)
			h.raw(jsString(folio.SitePrefixed(p.Site, "/")))
			h.raw(`})}</script>`)
		}
		h.raw("</body></html>")
	})
}

// Head renders the document <head> with SEO, social and app metadata.
func Head(p folio.PageData) templ.Component {
	return component(func(h *htmlWriter) {
		site := p.Site
		w := site.Website
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(p.Meta.Title)
		h.raw("</title>")
		meta(h, "name", "description", p.Meta.Description)
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", p.Meta.URL)
			h.raw(">")
		}
		meta(h, "property", "og:title", p.Meta.Title)
		meta(h, "property", "og:description", p.Meta.Description)
		meta(h, "property", "og:type", p.Meta.OGType)
		meta(h, "property", "og:url", p.Meta.URL)
		meta(h, "property", "og:site_name", w.Name)
		if w.LogoURL != "" {
			meta(h, "property", "og:image", folio.AbsoluteURL(site, w.LogoURL))
		}
		meta(h, "name", "twitter:card", "summary")
		meta(h, "name", "twitter:creator", w.TwitterName)
		meta(h, "name", "theme-color", w.ThemeColor)

		h.raw(`<link rel="icon" type="image/svg+xml"`)
		h.attr("href", folio.SitePrefixed(site, "/favicon.svg"))
		h.raw(">")
		if !site.Plugins.Manifest.Disabled {
			h.raw(`<link rel="manifest"`)
			h.attr("href", folio.SitePrefixed(site, "/manifest.webmanifest"))
			h.raw(">")
		}
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", w.RSSTitle)
		h.attr("href", folio.SitePrefixed(site, w.RSS))
		h.raw(">")
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", folio.SitePrefixed(site, "/public/theme.css"))
		h.raw(">")

		if p.Meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`)
			h.raw(scriptSafe(p.Meta.JSONLD))
			h.raw("</script>")
		}
		if id := site.Plugins.GoogleAnalytics.TrackingID; id != "" {
			h.raw(`<script async`)
			h.attr("src", "https://www.googletagmanager.com/gtag/js?id="+id)
			h.raw(`></script><script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag("js",new Date());gtag("config",`)
			h.raw(jsString(id))
			h.raw(`,{anonymize_ip:true});</script>`)
		}
		h.raw("</head>")
	})
}

func meta(h *htmlWriter, key, name, content string) {
	if content == "" {
		return
	}
	h.raw("<meta")
	h.attr(key, name)
	h.attr("content", content)
	h.raw(">")
}

// jsString encodes s as a JavaScript string literal safe inside <script>.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// scriptSafe keeps a JSON payload from closing its <script> element.
func scriptSafe(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}
