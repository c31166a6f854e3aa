package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	CartPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of best-effort session persistence failures",
	})

	FarmTagUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farm_tag_updates_total",
		Help: "Total number of farm tag updates",
	})

	OrdersComposedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_composed_total",
		Help: "Total number of order texts composed",
	})

	OrdersDispatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_dispatched_total",
		Help: "Total number of orders dispatched to the buyer",
	})

	OrderDispatchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_dispatch_failures_total",
		Help: "Total number of order dispatch failures",
	}, []string{"stage"})

	OrderFeedReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_feed_received_total",
		Help: "Total number of composed orders seen by the feed worker",
	})

	CatalogQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total number of catalog filter queries",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
