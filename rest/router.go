package rest

import (
	"net/http"

	"github.com/datastax/urlquery/types"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MetricsPath = "/metrics"

// ApiRouter registers routes on a new router, along with the metrics of gatherer when it is not nil
func ApiRouter(routes []types.Route, gatherer prometheus.Gatherer) *httprouter.Router {
	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	if gatherer != nil {
		router.Handler(http.MethodGet, MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return router
}
