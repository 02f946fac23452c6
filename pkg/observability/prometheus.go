package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHandler returns an [http.Handler] serving the scrape endpoint for
// registry. Pass the Registry field of the Providers returned by Init.
func PrometheusHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
