package sections

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce        sync.Once
	unknownSectionsVec *prometheus.CounterVec
)

func unknownSections() *prometheus.CounterVec {
	metricsOnce.Do(func() {
		unknownSectionsVec = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beam_website",
			Name:      "unknown_sections_total",
			Help:      "Sections skipped because no renderer is registered for their discriminator.",
		}, []string{"discriminator"})
	})
	return unknownSectionsVec
}
