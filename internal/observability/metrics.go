package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	lookupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simctl",
			Subsystem: "optype",
			Name:      "lookup_failures_total",
			Help:      "Operation lookups against a sealed registry that found no variant.",
		},
		[]string{"kind"},
	)
	registryVariants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "simctl",
			Subsystem: "optype",
			Name:      "registry_variants",
			Help:      "Variants in the most recently sealed operation registry.",
		},
	)

	// Bound once so a failed lookup is a single atomic add.
	unknownIDLookups   = lookupFailures.WithLabelValues("id")
	unknownTypeLookups = lookupFailures.WithLabelValues("type")
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, lookupFailures, registryVariants)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordRegistry publishes the size of a freshly sealed registry.
func RecordRegistry(r *optype.Registry) {
	RegisterMetrics()
	registryVariants.Set(float64(r.Len()))
}

// LookupObserver counts registry lookup failures.
type LookupObserver struct{}

// NewLookupObserver registers the collectors and returns an observer for
// optype.WithObserver.
func NewLookupObserver() LookupObserver {
	RegisterMetrics()
	return LookupObserver{}
}

func (LookupObserver) UnknownIdentifier(int32) {
	unknownIDLookups.Inc()
}

func (LookupObserver) UnknownType(optype.Marker) {
	unknownTypeLookups.Inc()
}
