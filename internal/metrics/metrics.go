package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LCURequests counts calls against the local control API by method and
	// outcome ("ok", "error").
	LCURequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "riftwatch",
		Subsystem: "lcu",
		Name:      "requests_total",
		Help:      "Counts requests issued against the local control API",
	}, []string{"method", "outcome"})

	// CacheOps counts cache interactions by cache name and result
	// ("hit", "miss", "evict").
	CacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "riftwatch",
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Counts match-history and identity cache operations",
	}, []string{"cache", "result"})

	// WatcherActions counts automation actions by watcher and action kind.
	WatcherActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "riftwatch",
		Subsystem: "watcher",
		Name:      "actions_total",
		Help:      "Counts actions taken by the background watchers",
	}, []string{"watcher", "action"})
)
