package views

import (
	"github.com/a-h/templ"

	"github.com/ashishthanki/folio"
)

// Navigation renders the home button with the short site title followed by
// the configured links in declared order.
func Navigation(p folio.PageData) templ.Component {
	return component(func(h *htmlWriter) {
		site := p.Site
		h.raw(`<header><nav class="navigation" aria-label="Main"><a class="home-button"`)
		h.attr("href", folio.SitePath(site, "/"))
		h.raw(`><span class="site-title">`)
		h.text(site.Website.TitleShort)
		h.raw(`</span></a><div class="nav-grid">`)
		for _, l := range site.Navigation {
			h.component(anchor(l, "nav-button", p.Path))
		}
		h.raw("</div></nav></header>")
	})
}

// Footer renders the LINKS block with the author's profiles, the footer
// links separated by " | " and the copyright line for the render year.
func Footer(p folio.PageData) templ.Component {
	return component(func(h *htmlWriter) {
		site := p.Site
		h.raw(`<footer class="footer">`)
		h.component(Group("link-grid", H3("LINKS"), UserLinks(site.User)))

		var links []templ.Component
		links = append(links, Text(" "))
		for i, l := range site.FooterLinks {
			if i > 0 {
				links = append(links, Text(" | "))
			}
			links = append(links, AnimatedLink(l))
		}
		copyright := Element("small", "caption copyright", Text(folio.CopyrightLine(site, p.Year)))
		h.component(Group("info", Caption(links...), copyright))
		h.raw("</footer>")
	})
}

// UserLinks renders the author's social profiles. It renders nothing when
// the site has no user.
func UserLinks(u *folio.User) templ.Component {
	return component(func(h *htmlWriter) {
		links := u.SocialLinks()
		if len(links) == 0 {
			return
		}
		h.raw(`<div class="user-links">`)
		for _, l := range links {
			h.component(AnimatedLink(l))
		}
		h.raw("</div>")
	})
}
