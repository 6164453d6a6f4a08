package metrics

import (
	"sync"
	"time"
)

type CandidateStats struct {
	Probes        int64
	Successes     int64
	totalDuration time.Duration
}

type Metrics struct {
	mutex         sync.RWMutex
	candidates    map[string]*CandidateStats
	resolutions   map[string]int64
	invalidations int64
	lastAddress   string
	lastSource    string
}

func NewMetrics() *Metrics {
	return &Metrics{
		candidates:  make(map[string]*CandidateStats),
		resolutions: make(map[string]int64),
	}
}

func (m *Metrics) RecordProbe(candidate string, ok bool, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats, exists := m.candidates[candidate]
	if !exists {
		stats = &CandidateStats{}
		m.candidates[candidate] = stats
	}

	stats.Probes++
	stats.totalDuration += duration
	if ok {
		stats.Successes++
	}
}

func (m *Metrics) RecordResolution(address, source string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.resolutions[source]++
	m.lastAddress = address
	m.lastSource = source
}

func (m *Metrics) RecordInvalidation() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.invalidations++
}

type CandidateSnapshot struct {
	Probes     int64         `json:"probes"`
	Successes  int64         `json:"successes"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
}

// Snapshot is a point-in-time view of resolution activity. Resolutions is
// keyed by source (override, probed, fallback), so a growing "fallback"
// count is the signal that no candidate is reachable.
type Snapshot struct {
	Timestamp     time.Time                    `json:"timestamp"`
	LastAddress   string                       `json:"last_address,omitempty"`
	LastSource    string                       `json:"last_source,omitempty"`
	Resolutions   map[string]int64             `json:"resolutions"`
	Invalidations int64                        `json:"invalidations"`
	Candidates    map[string]CandidateSnapshot `json:"candidates"`
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Timestamp:     time.Now(),
		LastAddress:   m.lastAddress,
		LastSource:    m.lastSource,
		Resolutions:   make(map[string]int64, len(m.resolutions)),
		Invalidations: m.invalidations,
		Candidates:    make(map[string]CandidateSnapshot, len(m.candidates)),
	}

	for source, count := range m.resolutions {
		snap.Resolutions[source] = count
	}

	for candidate, stats := range m.candidates {
		cs := CandidateSnapshot{
			Probes:    stats.Probes,
			Successes: stats.Successes,
		}
		if stats.Probes > 0 {
			cs.AvgLatency = stats.totalDuration / time.Duration(stats.Probes)
		}
		snap.Candidates[candidate] = cs
	}

	return snap
}
