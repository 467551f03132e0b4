package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cache event labels.
const (
	CacheHit       = "hit"
	CacheMiss      = "miss"
	CacheExpired   = "expired"
	CacheCorrupt   = "corrupt"
	CacheSaved     = "saved"
	CacheSaveError = "save_error"
	CacheCleared   = "cleared"
)

// Metrics groups the editor and scene server collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Mutations    *prometheus.CounterVec
	MutationErrs *prometheus.CounterVec
	History      *prometheus.CounterVec
	Cache        *prometheus.CounterVec
	Picks        *prometheus.CounterVec
	Requests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when it is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "mutations_total",
			Help:      "Scene mutations applied, by operation.",
		}, []string{"op"}),
		MutationErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "mutation_errors_total",
			Help:      "Rejected scene mutations, by operation and error kind.",
		}, []string{"op", "kind"}),
		History: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "history_total",
			Help:      "Undo and redo requests, by action and outcome.",
		}, []string{"action", "outcome"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "cache_events_total",
			Help:      "Local persistence cache events.",
		}, []string{"event"}),
		Picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "picks_total",
			Help:      "Pointer picks, by result.",
		}, []string{"result"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomeditor",
			Name:      "scene_requests_total",
			Help:      "Scene endpoint requests, by method and status code.",
		}, []string{"method", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.Mutations, m.MutationErrs, m.History, m.Cache, m.Picks, m.Requests)
	}
	return m
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) MutationError(op, kind string) {
	if m == nil {
		return
	}
	m.MutationErrs.WithLabelValues(op, kind).Inc()
}

func (m *Metrics) HistoryStep(action string, applied bool) {
	if m == nil {
		return
	}
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	m.History.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) CacheEvent(event string) {
	if m == nil {
		return
	}
	m.Cache.WithLabelValues(event).Inc()
}

func (m *Metrics) Pick(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.Picks.WithLabelValues(result).Inc()
}

func (m *Metrics) Request(method, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
}
