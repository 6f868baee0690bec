package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	contactSubmissions   *prometheus.CounterVec
	contactNotifications *prometheus.CounterVec
	captchaVerifyLatency prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		contactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact submissions by terminal pipeline state.",
		}, []string{"outcome"})

		contactNotifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_notifications_total",
			Help: "Contact notification deliveries by notifier and result.",
		}, []string{"notifier", "result"})

		captchaVerifyLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "captcha_verify_seconds",
			Help:    "Round trip time of CAPTCHA verification calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, contactSubmissions, contactNotifications, captchaVerifyLatency)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ContactSubmissions counts pipeline outcomes.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissions
}

// ContactNotifications counts notifier deliveries.
func ContactNotifications() *prometheus.CounterVec {
	RegisterMetrics()
	return contactNotifications
}

// CaptchaVerifyLatency observes verification round trips.
func CaptchaVerifyLatency() prometheus.Histogram {
	RegisterMetrics()
	return captchaVerifyLatency
}
