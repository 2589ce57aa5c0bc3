package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storiesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_stories_saved_total",
			Help: "Total number of story save attempts.",
		},
		[]string{"status"},
	)
	storiesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_stories_generated_total",
			Help: "Total number of story generations by kind.",
		},
		[]string{"kind", "status"},
	)
	imageFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bedtime_image_failures_total",
			Help: "Illustrations replaced by the placeholder after a failure.",
		},
	)
	pdfExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_pdf_exports_total",
			Help: "Total number of PDF exports.",
		},
		[]string{"status"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
