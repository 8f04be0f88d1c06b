package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Definition
var (
	framesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixellens_frames_analyzed_total",
			Help: "Total number of frames successfully analyzed per source.",
		},
		[]string{"source"},
	)
	framesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixellens_frames_failed_total",
			Help: "Total number of frames whose analysis was aborted per source.",
		},
		[]string{"source"},
	)
	frameAnalysisSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pixellens_frame_analysis_seconds",
			Help:    "Wall time of the full reduce run for one frame.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"source"},
	)
	frameSampleCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pixellens_frame_sample_count",
			Help: "Number of samples in the most recently analyzed frame.",
		},
		[]string{"source"},
	)
	frameMinimum = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pixellens_frame_minimum_value",
			Help: "Minimum sample value of the most recently analyzed frame.",
		},
		[]string{"source"},
	)
	frameMaximum = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pixellens_frame_maximum_value",
			Help: "Maximum sample value of the most recently analyzed frame.",
		},
		[]string{"source"},
	)
	frameMean = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pixellens_frame_mean_value",
			Help: "Mean sample value of the most recently analyzed frame.",
		},
		[]string{"source"},
	)
	frameSigma = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pixellens_frame_sigma_value",
			Help: "Standard deviation of the most recently analyzed frame.",
		},
		[]string{"source"},
	)
	frameThresholdViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixellens_frame_threshold_violations_total",
			Help: "Total number of threshold violations detected per source and check.",
		},
		[]string{"source", "check_type", "comparison"},
	)
)
