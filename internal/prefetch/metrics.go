package prefetch

import "github.com/prometheus/client_golang/prometheus"

var (
	started = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "prefetch",
			Name:      "started_total",
			Help:      "Prefetch downloads started",
		},
	)

	startErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "prefetch",
			Name:      "start_errors_total",
			Help:      "Prefetch downloads the downloader refused to start",
		},
	)

	cancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "prefetch",
			Name:      "cancelled_total",
			Help:      "Prefetch downloads cancelled, by reason",
		},
		[]string{"reason"},
	)

	handoffs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "prefetch",
			Name:      "handoffs_total",
			Help:      "Prefetched downloads handed to playback",
		},
	)

	failedHandoffs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "prefetch",
			Name:      "failed_handoffs_total",
			Help:      "Prefetch targets reached by the queue after their download failed",
		},
	)
)

func init() {
	prometheus.MustRegister(started, startErrors, cancelled, handoffs, failedHandoffs)
}
