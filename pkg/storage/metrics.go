package storage

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	encodedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of encoded bytes written to the store",
			Name:      "encoded_bytes_total",
			Namespace: "binrw",
			Subsystem: "storage",
		},
	)
	decodedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of bytes successfully decoded from the store",
			Name:      "decoded_bytes_total",
			Namespace: "binrw",
			Subsystem: "storage",
		},
	)
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of collection reads served from the cache",
			Name:      "cache_hits_total",
			Namespace: "binrw",
			Subsystem: "storage",
		},
	)
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of collection reads that went to the store",
			Name:      "cache_misses_total",
			Namespace: "binrw",
			Subsystem: "storage",
		},
	)
)

func init() {
	prometheus.MustRegister(
		encodedBytes,
		decodedBytes,
		cacheHits,
		cacheMisses,
	)
}
