package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	VideoViewsTotal    prometheus.Counter
	VideoUploadsTotal  prometheus.Counter
	VideoUploadErrors  prometheus.Counter
	UploadBytesTotal   prometheus.Counter
	LikeTogglesTotal   *prometheus.CounterVec
	CommentsTotal      prometheus.Counter
	SubscriptionsTotal *prometheus.CounterVec
	NotificationsSent  prometheus.Counter
	LoginsTotal        *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Default returns the process-wide instance. promauto registers against the
// global registry, so collectors must only be created once.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidspace_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vidspace_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		VideoViewsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_video_views_total",
			Help: "Total number of recorded video views",
		}),
		VideoUploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_video_uploads_total",
			Help: "Total number of successful video uploads",
		}),
		VideoUploadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_video_upload_errors_total",
			Help: "Total number of failed video uploads",
		}),
		UploadBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_upload_bytes_total",
			Help: "Bytes written to object storage",
		}),
		LikeTogglesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidspace_like_toggles_total",
				Help: "Like toggles by resulting state",
			},
			[]string{"result"},
		),
		CommentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_comments_total",
			Help: "Total number of comments created",
		}),
		SubscriptionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidspace_subscription_changes_total",
				Help: "Subscribe and unsubscribe operations",
			},
			[]string{"action"},
		),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidspace_notifications_total",
			Help: "Total number of notifications persisted",
		}),
		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidspace_logins_total",
				Help: "Completed logins by provider",
			},
			[]string{"provider"},
		),
	}
}

// Record methods are no-ops on a nil receiver.
func (m *Metrics) RecordRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordView() {
	if m == nil {
		return
	}
	m.VideoViewsTotal.Inc()
}

func (m *Metrics) RecordUpload(bytes int64) {
	if m == nil {
		return
	}
	m.VideoUploadsTotal.Inc()
	if bytes > 0 {
		m.UploadBytesTotal.Add(float64(bytes))
	}
}

func (m *Metrics) RecordUploadError() {
	if m == nil {
		return
	}
	m.VideoUploadErrors.Inc()
}

// RecordLikeToggle labels the outcome: "like", "dislike" or "removed".
func (m *Metrics) RecordLikeToggle(result string) {
	if m == nil {
		return
	}
	m.LikeTogglesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordComment() {
	if m == nil {
		return
	}
	m.CommentsTotal.Inc()
}

func (m *Metrics) RecordSubscription(action string) {
	if m == nil {
		return
	}
	m.SubscriptionsTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordNotification() {
	if m == nil {
		return
	}
	m.NotificationsSent.Inc()
}

func (m *Metrics) RecordLogin(provider string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(provider).Inc()
}
