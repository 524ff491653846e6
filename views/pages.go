package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/ashishthanki/folio"
	"github.com/ashishthanki/folio/markdown"
)

func heading(text string) templ.Component {
	return Element("h1", "", Text(text))
}

func prose(body string) templ.Component {
	if body == "" {
		return nil
	}
	return Element("div", "prose", markdown.Markdown(body))
}

// About renders the about page: heading, author bio when a user is
// configured, and the page prose.
func About(p folio.PageData, page folio.ContentPage) templ.Component {
	return Layout(p, Wrapper(heading(page.Heading), Bio(p.Site.User), prose(page.Body)))
}

// Bio renders the author block. It renders nothing for a nil user.
func Bio(u *folio.User) templ.Component {
	return component(func(h *htmlWriter) {
		if u == nil {
			return
		}
		h.raw(`<section class="bio">`)
		if src := markdown.SafeURL(u.Avatar); src != "" {
			h.raw("<img")
			h.attr("src", src)
			h.attr("alt", u.FullName())
			h.raw(` width="96" height="96">`)
		}
		h.raw("<div><strong>")
		h.text(u.FullName())
		h.raw("</strong>")
		if u.Location != "" {
			h.component(Caption(Text(u.Location)))
		}
		if u.About != "" {
			h.raw("<p>")
			h.text(u.About)
			h.raw("</p>")
		}
		h.raw("</div></section>")
	})
}

// Consultancy renders the consultancy page prose.
func Consultancy(p folio.PageData, page folio.ContentPage) templ.Component {
	return Layout(p, Wrapper(heading(page.Heading), prose(page.Body)))
}

// Certificates renders the page prose followed by one external link per
// configured certificate, in declared order.
func Certificates(p folio.PageData, page folio.ContentPage) templ.Component {
	return Layout(p, Wrapper(heading(page.Heading), prose(page.Body), CertificateList(p.Site.Certificates)))
}

// CertificateList renders certificates as an ordered list of links.
func CertificateList(certs []folio.CertificateEntry) templ.Component {
	return component(func(h *htmlWriter) {
		if len(certs) == 0 {
			return
		}
		h.raw(`<ol class="certificates">`)
		for _, c := range certs {
			h.raw("<li>")
			h.component(AnimatedLink(folio.NavigationLink{Label: c.Label, Path: c.URL}))
			h.raw("</li>")
		}
		h.raw("</ol>")
	})
}

// Home renders the intro page above the latest posts.
func Home(p folio.PageData, intro folio.ContentPage, posts []folio.BlogPost) templ.Component {
	all := Element("p", "", AnimatedLink(folio.NavigationLink{Label: "All posts", Path: "/blog/"}))
	return Layout(p, Wrapper(heading(intro.Heading), prose(intro.Body), H3("LATEST POSTS"), PostList(p.Site, posts), all))
}

// Blog renders the post listing with the tag filter.
func Blog(p folio.PageData, posts []folio.BlogPost, activeTag string, tags []folio.TagCount) templ.Component {
	title := "Blog"
	if activeTag != "" {
		title = "Posts tagged #" + activeTag
	}
	return Layout(p, Wrapper(heading(title), TagList(p.Site, tags, activeTag, false), PostList(p.Site, posts)))
}

// Post renders a single post with its related posts.
func Post(p folio.PageData, post folio.BlogPost, related []folio.BlogPost) templ.Component {
	meta := component(func(h *htmlWriter) {
		h.raw(`<p class="post-date"><time`)
		h.attr("datetime", post.Date)
		h.raw(">")
		h.text(post.Date)
		h.raw("</time></p>")
	})
	body := []templ.Component{heading(post.Title), meta, postTags(p.Site, post.Tags), prose(post.Content)}
	if len(related) > 0 {
		body = append(body, H3("RELATED POSTS"), PostList(p.Site, related))
	}
	return Layout(p, Wrapper(Element("article", "post", body...)))
}

// Tags renders every tag with its post count.
func Tags(p folio.PageData, tags []folio.TagCount) templ.Component {
	return Layout(p, Wrapper(heading("Tags"), TagList(p.Site, tags, "", true)))
}

// PostList renders posts newest first as date, title and summary.
func PostList(site *folio.SiteConfig, posts []folio.BlogPost) templ.Component {
	return component(func(h *htmlWriter) {
		if len(posts) == 0 {
			h.raw(`<p class="caption">No posts yet.</p>`)
			return
		}
		h.raw(`<ul class="post-list">`)
		for _, post := range posts {
			h.raw(`<li><span class="post-date">`)
			h.text(post.Date)
			h.raw(`</span> <a class="post-title"`)
			h.attr("href", folio.PostPath(site, post.Slug))
			h.raw(">")
			h.text(post.Title)
			h.raw("</a>")
			if post.Summary != "" {
				h.raw("<p>")
				h.text(post.Summary)
				h.raw("</p>")
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
	})
}

func postTags(site *folio.SiteConfig, tags []string) templ.Component {
	counts := make([]folio.TagCount, 0, len(tags))
	for _, t := range tags {
		counts = append(counts, folio.TagCount{Name: t})
	}
	return TagList(site, counts, "", false)
}

// TagList renders tag pills linking to each tag page. The active tag is
// marked with aria-current.
func TagList(site *folio.SiteConfig, tags []folio.TagCount, active string, withCounts bool) templ.Component {
	return component(func(h *htmlWriter) {
		if len(tags) == 0 {
			return
		}
		h.raw(`<ul class="tags">`)
		for _, t := range tags {
			h.raw(`<li><a class="tag"`)
			h.attr("href", folio.TagPath(site, t.Name))
			if t.Name == active {
				h.attr("aria-current", "page")
			}
			h.raw(">#")
			h.text(t.Name)
			if withCounts {
				h.raw(" (" + strconv.Itoa(t.Count) + ")")
			}
			h.raw("</a></li>")
		}
		h.raw("</ul>")
	})
}

// BundleReport renders the page-weight table.
func BundleReport(p folio.PageData, entries []folio.ReportEntry) templ.Component {
	table := component(func(h *htmlWriter) {
		h.raw(`<table class="report"><thead><tr><th>Path</th><th>Status</th><th>Bytes</th><th>Gzip</th></tr></thead><tbody>`)
		for _, e := range entries {
			h.raw("<tr><td>")
			h.text(e.Path)
			h.raw("</td><td>" + strconv.Itoa(e.Status))
			h.raw("</td><td>" + strconv.Itoa(e.Bytes))
			h.raw("</td><td>" + strconv.Itoa(e.GzipBytes))
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table>")
	})
	return Layout(p, Wrapper(heading("Bundle report"), table))
}

// NotFound renders the 404 page.
func NotFound(p folio.PageData) templ.Component {
	home := Element("p", "", AnimatedLink(folio.NavigationLink{Label: "Back to posts", Path: "/"}))
	return Layout(p, Wrapper(heading("Page not found"), Element("p", "", Text("The page you are looking for does not exist.")), home))
}

// ServerError renders the 500 page.
func ServerError(p folio.PageData) templ.Component {
	return Layout(p, Wrapper(heading("Something went wrong"), Element("p", "", Text("Please try again in a moment."))))
}

// Funcs returns the views wired for a folio App.
func Funcs() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:         Home,
		Blog:         Blog,
		Post:         Post,
		Tags:         Tags,
		About:        About,
		Consultancy:  Consultancy,
		Certificates: Certificates,
		BundleReport: BundleReport,
		NotFound:     NotFound,
		ServerError:  ServerError,
		Stylesheet:   Stylesheet,
	}
}
