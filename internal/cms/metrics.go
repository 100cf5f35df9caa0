package cms

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce     sync.Once
	requestDuration *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beam_website",
			Subsystem: "cms",
			Name:      "request_duration_seconds",
			Help:      "Duration of CMS API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"})
	})
}

func observeRequest(endpoint string, status int, took time.Duration) {
	if requestDuration == nil {
		return
	}
	requestDuration.WithLabelValues(endpoint, statusLabel(status)).Observe(took.Seconds())
}
