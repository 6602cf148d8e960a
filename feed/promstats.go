// promstats.go
//
// Prometheus projections of the feed counters.  The relaxed counters
// remain the source of truth for in-process reporting; these exist so a
// long-running receiver can be scraped.

package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hftbench",
		Subsystem: "feed",
		Name:      "messages_received_total",
		Help:      "Messages decoded and queued onto the ring.",
	})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hftbench",
		Subsystem: "feed",
		Name:      "messages_dropped_total",
		Help:      "Datagrams shed because the ring was full.",
	})
	malformedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hftbench",
		Subsystem: "feed",
		Name:      "messages_malformed_total",
		Help:      "Datagrams rejected by length or decode checks.",
	})
)
