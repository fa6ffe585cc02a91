// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package iamclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for outbound IAM requests
var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "s3bridge_iam_request_duration_seconds",
			Help:    "Duration of IAM API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"action", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3bridge_iam_requests_total",
			Help: "Total number of IAM API requests",
		},
		[]string{"action", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		requestDuration,
		requestTotal,
	)
}

func observeRequest(action, status string, d time.Duration) {
	requestDuration.WithLabelValues(action, status).Observe(d.Seconds())
	requestTotal.WithLabelValues(action, status).Inc()
}
