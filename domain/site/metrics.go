package site

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const pageViewsMetric = "techsafi_page_views_total"

var (
	pageViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: pageViewsMetric,
		Help: "Successful public page views by route.",
	}, []string{"route"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "techsafi_page_render_seconds",
		Help:    "Time to render a public page.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"route"})
)

// countViews records a view for every successful GET, labelled with the chi
// route pattern so /blog/{slug} is one series.
func countViews(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if r.Method != http.MethodGet || ww.Status() >= 400 {
			return
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" || route == "/static/*" || route == "/sitemap.xml" {
			return
		}
		pageViews.WithLabelValues(route).Inc()
		renderDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// RouteViews is one row of the analytics table.
type RouteViews struct {
	Route string
	Views float64
}

// PageViews reads the page view counter from gatherer, busiest route first.
func PageViews(gatherer prometheus.Gatherer) ([]RouteViews, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}
	var out []RouteViews
	for _, mf := range families {
		if mf.GetName() != pageViewsMetric {
			continue
		}
		for _, m := range mf.GetMetric() {
			rv := RouteViews{Views: m.GetCounter().GetValue()}
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					rv.Route = l.GetValue()
				}
			}
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Route < out[j].Route
	})
	return out, nil
}
