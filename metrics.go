package folio

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the App's Prometheus collectors. Each App owns its registry
// so several Apps (tests) can live in one process.
type Metrics struct {
	Registry *prom.Registry

	posts   prom.Gauge
	pages   prom.Gauge
	reloads *prom.CounterVec
	renders *prom.CounterVec
}

// NewMetrics constructs and registers the content collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prom.NewRegistry()
	m := &Metrics{
		Registry: reg,
		posts: prom.NewGauge(prom.GaugeOpts{
			Namespace: "folio",
			Name:      "published_posts",
			Help:      "Published posts in the current content import",
		}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: "folio",
			Name:      "content_pages",
			Help:      "Content pages in the current content import",
		}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "content_reloads_total",
			Help:      "Content imports by result",
		}, []string{"result"}),
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "view_renders_total",
			Help:      "Rendered views by name",
		}, []string{"view"}),
	}
	reg.MustRegister(m.posts, m.pages, m.reloads, m.renders)
	return m
}

func (m *Metrics) observeReload(c *Content, published int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("ok").Inc()
	m.posts.Set(float64(published))
	m.pages.Set(float64(len(c.Pages)))
}

func (m *Metrics) observeRender(view string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(view).Inc()
}

func (m *Metrics) middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "folio",
		Subsystem:  "http",
		Registerer: m.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

func (m *Metrics) handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Registry})
}
