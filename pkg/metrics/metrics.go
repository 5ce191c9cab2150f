// Package metrics provides Prometheus metrics for the oracle aggregator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsTotal is a counter of accepted price submissions.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_submissions_total",
			Help: "Total number of price submissions accepted into the log",
		},
		[]string{"source", "reporter"},
	)

	// SubmissionRejectionsTotal is a counter of rejected submissions.
	SubmissionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_submission_rejections_total",
			Help: "Total number of price submissions rejected before aggregation",
		},
		[]string{"reason"},
	)

	// ImplausiblePricesTotal is a counter of prices flagged outside sanity bounds.
	ImplausiblePricesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "implausible_prices_total",
			Help: "Total number of prices accepted but flagged outside sanity bounds",
		},
		[]string{"bound"},
	)

	// ConsensusPrice is a gauge of the latest computed consensus price.
	ConsensusPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consensus_price",
			Help: "Latest median consensus price over the freshness window",
		},
	)

	// ConsensusSampleCount is a gauge of fresh samples in the last consensus.
	ConsensusSampleCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consensus_sample_count",
			Help: "Number of fresh submissions included in the last consensus",
		},
	)

	// ActiveReporters is a gauge of reporters seen within the liveness timeout.
	ActiveReporters = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_reporters",
			Help: "Number of reporters heard from within the liveness timeout",
		},
	)

	// AggregationDuration is a histogram of consensus computation duration.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_aggregation_duration_seconds",
			Help:    "Duration of consensus computations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint"},
	)

	// FetchAttemptsTotal is a counter of ingestion fetch attempts by outcome.
	FetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_attempts_total",
			Help: "Total number of market data fetch attempts",
		},
		[]string{"source", "outcome"},
	)

	// FetchRetriesTotal is a counter of ingestion retry waits.
	FetchRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_retries_total",
			Help: "Total number of backoff waits between fetch attempts",
		},
		[]string{"source"},
	)

	// FetchFailuresTotal is a counter of fetches that exhausted all retries.
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Total number of fetches that exhausted their retry budget",
		},
		[]string{"source"},
	)
)

// Init initializes Prometheus metrics registry.
func Init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionRejectionsTotal,
		ImplausiblePricesTotal,
		ConsensusPrice,
		ConsensusSampleCount,
		ActiveReporters,
		AggregationDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		FetchAttemptsTotal,
		FetchRetriesTotal,
		FetchFailuresTotal,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordSubmission records an accepted price submission.
func RecordSubmission(source, reporter string) {
	SubmissionsTotal.WithLabelValues(source, reporter).Inc()
}

// RecordRejection records a rejected submission.
func RecordRejection(reason string) {
	SubmissionRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordImplausiblePrice records a price flagged outside sanity bounds.
func RecordImplausiblePrice(bound string) {
	ImplausiblePricesTotal.WithLabelValues(bound).Inc()
}

// RecordConsensus records the result of a consensus computation.
func RecordConsensus(price float64, samples int, duration time.Duration) {
	ConsensusPrice.Set(price)
	ConsensusSampleCount.Set(float64(samples))
	AggregationDuration.Observe(duration.Seconds())
}

// RecordActiveReporters records the current number of live reporters.
func RecordActiveReporters(count int) {
	ActiveReporters.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordFetchAttempt records one market data fetch attempt.
func RecordFetchAttempt(source, outcome string) {
	FetchAttemptsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordFetchRetry records a backoff wait between fetch attempts.
func RecordFetchRetry(source string) {
	FetchRetriesTotal.WithLabelValues(source).Inc()
}

// RecordFetchFailure records a fetch that exhausted its retry budget.
func RecordFetchFailure(source string) {
	FetchFailuresTotal.WithLabelValues(source).Inc()
}
