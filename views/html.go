// Package views holds the site's templ components: the theme primitives,
// the layout with its navigation and footer, and one view per page.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter is the small writer every component renders through. The first
// write error sticks and later writes are skipped.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component adapts a render function into a templ.Component.
func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

// Text renders s escaped.
func Text(s string) templ.Component {
	return component(func(h *htmlWriter) { h.text(s) })
}

// Element renders children inside <tag class="class">.
func Element(tag, class string, children ...templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<" + tag)
		if class != "" {
			h.attr("class", class)
		}
		h.raw(">")
		for _, c := range children {
			h.component(c)
		}
		h.raw("</" + tag + ">")
	})
}
