package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	bytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Total bytes written to cache files",
		},
	)

	bytesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "cache",
			Name:      "read_bytes_total",
			Help:      "Total bytes read from cache files",
		},
	)

	writeErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "streamq",
			Subsystem: "cache",
			Name:      "write_errors_total",
			Help:      "Cache writes that failed",
		},
	)

	writeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "streamq",
			Subsystem: "cache",
			Name:      "write_duration_seconds",
			Help:      "Duration of cache writes in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(bytesWritten, bytesRead, writeErrors, writeDuration)
}
