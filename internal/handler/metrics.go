package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proxiedImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_proxied_images_total",
			Help: "Total number of image proxy requests by status.",
		},
		[]string{"status"},
	)

	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bedtime_active_story_streams",
		Help: "Number of open story reveal websockets.",
	})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bedtime_rate_limited_requests_total",
		Help: "Total number of requests rejected by the rate limiter.",
	})
)
