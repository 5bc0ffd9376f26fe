package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts what happened during a session. Counters are atomic and
// may be read from any goroutine.
type Metrics struct {
	// Key handling
	keyCount   atomic.Uint64
	keyTotalNs atomic.Int64
	invalid    atomic.Uint64

	// Multi-tap
	timeouts atomic.Uint64
	rejected atomic.Uint64

	// Clipboard
	yanks       atomic.Uint64
	yankFailure atomic.Uint64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	reloads atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordKey records the time spent handling one key press.
func (m *Metrics) RecordKey(duration time.Duration) {
	m.keyCount.Add(1)
	m.keyTotalNs.Add(duration.Nanoseconds())
}

// RecordInvalid records a key with no meaning on the keypad.
func (m *Metrics) RecordInvalid() {
	m.invalid.Add(1)
}

// RecordTimeout records a preview committed by the idle timer.
func (m *Metrics) RecordTimeout() {
	m.timeouts.Add(1)
}

// RecordRejected records an insert refused because the buffer was full.
func (m *Metrics) RecordRejected() {
	m.rejected.Add(1)
}

// RecordYank records a clipboard export and whether it failed.
func (m *Metrics) RecordYank(err error) {
	m.yanks.Add(1)
	if err != nil {
		m.yankFailure.Add(1)
	}
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Keys:         m.keyCount.Load(),
		Invalid:      m.invalid.Load(),
		Timeouts:     m.timeouts.Load(),
		Rejected:     m.rejected.Load(),
		Yanks:        m.yanks.Load(),
		YankFailures: m.yankFailure.Load(),
		Renders:      m.renderCount.Load(),
		Reloads:      m.reloads.Load(),
		Uptime:       time.Since(m.startTime),
	}
	if s.Keys > 0 {
		s.AvgKey = time.Duration(m.keyTotalNs.Load() / int64(s.Keys))
	}
	if s.Renders > 0 {
		s.AvgRender = time.Duration(m.renderTotalNs.Load() / int64(s.Renders))
	}
	return s
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Keys         uint64
	Invalid      uint64
	Timeouts     uint64
	Rejected     uint64
	Yanks        uint64
	YankFailures uint64
	Renders      uint64
	Reloads      uint64

	AvgKey    time.Duration
	AvgRender time.Duration
	Uptime    time.Duration
}

// String formats the snapshot for the log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("keys=%d invalid=%d timeouts=%d rejected=%d yanks=%d/%d renders=%d reloads=%d avg_key=%s avg_render=%s uptime=%s",
		s.Keys, s.Invalid, s.Timeouts, s.Rejected, s.Yanks-s.YankFailures, s.Yanks,
		s.Renders, s.Reloads, s.AvgKey, s.AvgRender, s.Uptime.Round(time.Second))
}

// Timer measures elapsed time for a single operation.
type Timer struct {
	start time.Time
}

// StartTimer starts a new timer.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
