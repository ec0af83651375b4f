// Package observability aggregates session telemetry.
package observability

import "sync/atomic"

// SessionMetrics counts what happened to a chat session over its lifetime.
// All counters are atomic; a nil receiver is a no-op so wiring stays
// optional.
type SessionMetrics struct {
	LiveDelivered     uint64
	DuplicatesDropped uint64
	ForeignDropped    uint64
	HistoryLoads      uint64
	HistoryFailures   uint64
	SendFailures      uint64
	Reconnects        uint64
}

func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{}
}

func (m *SessionMetrics) IncrLiveDelivered() {
	if m != nil {
		atomic.AddUint64(&m.LiveDelivered, 1)
	}
}

func (m *SessionMetrics) IncrDuplicatesDropped() {
	if m != nil {
		atomic.AddUint64(&m.DuplicatesDropped, 1)
	}
}

func (m *SessionMetrics) IncrForeignDropped() {
	if m != nil {
		atomic.AddUint64(&m.ForeignDropped, 1)
	}
}

func (m *SessionMetrics) IncrHistoryLoads() {
	if m != nil {
		atomic.AddUint64(&m.HistoryLoads, 1)
	}
}

func (m *SessionMetrics) IncrHistoryFailures() {
	if m != nil {
		atomic.AddUint64(&m.HistoryFailures, 1)
	}
}

func (m *SessionMetrics) IncrSendFailures() {
	if m != nil {
		atomic.AddUint64(&m.SendFailures, 1)
	}
}

func (m *SessionMetrics) IncrReconnects() {
	if m != nil {
		atomic.AddUint64(&m.Reconnects, 1)
	}
}

// Snapshot returns a stable copy for logging.
func (m *SessionMetrics) Snapshot() map[string]uint64 {
	if m == nil {
		return nil
	}
	return map[string]uint64{
		"live_delivered":     atomic.LoadUint64(&m.LiveDelivered),
		"duplicates_dropped": atomic.LoadUint64(&m.DuplicatesDropped),
		"foreign_dropped":    atomic.LoadUint64(&m.ForeignDropped),
		"history_loads":      atomic.LoadUint64(&m.HistoryLoads),
		"history_failures":   atomic.LoadUint64(&m.HistoryFailures),
		"send_failures":      atomic.LoadUint64(&m.SendFailures),
		"reconnects":         atomic.LoadUint64(&m.Reconnects),
	}
}
