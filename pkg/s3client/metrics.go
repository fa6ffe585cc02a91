// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for outbound S3 requests
var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "s3bridge_s3_request_duration_seconds",
			Help:    "Duration of S3 API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3bridge_s3_requests_total",
			Help: "Total number of S3 API requests",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		requestDuration,
		requestTotal,
	)
}

func observeRequest(operation, status string, d time.Duration) {
	requestDuration.WithLabelValues(operation, status).Observe(d.Seconds())
	requestTotal.WithLabelValues(operation, status).Inc()
}
