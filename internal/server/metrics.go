package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgtlink",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hgtlink",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	profilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgtlink",
		Subsystem: "profile",
		Name:      "computed_total",
		Help:      "Profiles computed by outcome",
	}, []string{"outcome"})

	profileSamples = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hgtlink",
		Subsystem: "profile",
		Name:      "samples",
		Help:      "Number of samples per computed profile",
		Buckets:   prometheus.ExponentialBuckets(2, 4, 8),
	})
)

// routes are the metric labels for known paths; anything else is "other".
var routes = map[string]string{
	"/":                    "/",
	"/favicon.svg":         "/favicon.svg",
	"/metrics":             "/metrics",
	"/api/tiles":           "/api/tiles",
	"/api/profile":         "/api/profile",
	"/api/profile.webp":    "/api/profile.image",
	"/api/profile.png":     "/api/profile.image",
	"/api/profile.geojson": "/api/profile.geojson",
}

func routeLabel(path string) string {
	if r, ok := routes[path]; ok {
		return r
	}
	return "other"
}
