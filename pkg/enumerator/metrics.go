package enumerator

import (
	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_enumerator_pages_total",
		Help: "Total collection pages fetched by enumerators by strategy",
	}, []string{"strategy"})

	fetchErrorsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_enumerator_fetch_errors_total",
		Help: "Total failed page fetches by strategy",
	}, []string{"strategy"})

	emptyPageStopsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "partnercenter_enumerator_empty_page_stops_total",
		Help: "Enumerations stopped by an empty page before reaching the reported total",
	}, []string{"strategy"})
)
