package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/ashishthanki/folio"
)

// Caption renders small secondary text.
func Caption(children ...templ.Component) templ.Component {
	return Element("small", "caption", children...)
}

// H3 renders a section heading in the theme's heading style.
func H3(label string) templ.Component {
	return Element("h3", "h3", Text(label))
}

// Wrapper is the centred page column.
func Wrapper(children ...templ.Component) templ.Component {
	return Element("div", "wrapper", children...)
}

// Group renders children in a named grid cell such as "link-grid" or "info".
func Group(class string, children ...templ.Component) templ.Component {
	return Element("div", class, children...)
}

// AnimatedLink renders a link with the underline animation. The href is
// resolved against the config installed on the render context.
func AnimatedLink(link folio.NavigationLink) templ.Component {
	return anchor(link, "animated-link", "")
}

// anchor writes an anchor for link. current marks it with aria-current when
// it equals the resolved href.
func anchor(link folio.NavigationLink, class, current string) templ.Component {
	return component(func(h *htmlWriter) {
		href := folio.ResolveHref(folio.ConfigFrom(h.ctx), link)
		h.raw("<a")
		h.attr("class", class)
		h.attr("href", href)
		if link.External() {
			h.attr("rel", "noopener noreferrer")
			if !strings.HasPrefix(link.Path, "mailto:") {
				h.attr("target", "_blank")
			}
		} else if current != "" && href == current {
			h.attr("aria-current", "page")
		}
		h.raw(">")
		h.text(link.Label)
		h.raw("</a>")
	})
}
