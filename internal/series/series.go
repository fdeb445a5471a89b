package series

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/sparkline/internal/telemetry"
)

// Capacity bounds for the sample window. Requested capacities outside
// this range are clamped, never rejected.
const (
	MinCapacity     = 10
	MaxCapacity     = 1000
	DefaultCapacity = 50
)

// Observer receives threshold-entered notifications. The argument is the
// configured threshold, not the sample that crossed it. Observers are
// invoked outside the series lock and may call back into the series.
type Observer func(threshold float64)

// Series is a bounded, mutex-guarded window of float64 samples in
// insertion (chronological) order. When the window exceeds capacity the
// oldest samples are evicted first.
//
// All mutators re-evaluate the threshold monitor as part of the same
// critical section, so a mutation and its threshold check are atomic as
// a unit. Readers only ever receive independent copies.
type Series struct {
	mu        sync.Mutex
	id        uuid.UUID
	samples   []float64
	capacity  int
	threshold float64 // NaN means unset
	fired     bool

	observer Observer
	metrics  *telemetry.Metrics
}

// New creates a series with the given capacity, clamped into
// [MinCapacity, MaxCapacity].
func New(capacity int) *Series {
	return &Series{
		id:        uuid.New(),
		capacity:  clampCapacity(capacity),
		threshold: math.NaN(),
	}
}

// ID returns the instance identifier used in log events.
func (s *Series) ID() uuid.UUID { return s.id }

// OnThresholdEntered registers the observer notified when the window
// transitions from below-threshold to at-or-above-threshold. Only one
// observer is held; a nil fn unregisters.
func (s *Series) OnThresholdEntered(fn Observer) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// Instrument attaches telemetry collectors. Safe to skip entirely; the
// series runs identically without them. Call before the series is
// shared across goroutines.
func (s *Series) Instrument(m *telemetry.Metrics) {
	s.mu.Lock()
	s.metrics = m
	s.mu.Unlock()
}

// Append adds a single sample and evicts from the front if the window
// overflows. NaN samples are silently dropped; infinities are kept.
func (s *Series) Append(v float64) {
	if math.IsNaN(v) {
		s.metrics.RecordRejected(telemetry.ReasonNaN)
		log.Debug().Str("series", s.id.String()).Msg("dropping NaN sample")
		return
	}

	s.mu.Lock()
	s.samples = append(s.samples, v)
	evicted := s.trimLocked()
	notify, threshold := s.evaluateLocked()
	length := len(s.samples)
	s.mu.Unlock()

	s.metrics.RecordAppended(1)
	s.metrics.RecordEvicted(evicted)
	s.metrics.RecordWindowLength(length)
	s.deliver(notify, threshold)
}

// AppendAll appends each sample in order, dropping NaN entries, then
// trims once at the end. Nil or empty input is a no-op.
func (s *Series) AppendAll(values []float64) {
	if len(values) == 0 {
		s.metrics.RecordRejected(telemetry.ReasonEmpty)
		return
	}

	s.mu.Lock()
	appended := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		s.samples = append(s.samples, v)
		appended++
	}
	evicted := s.trimLocked()
	notify, threshold := s.evaluateLocked()
	length := len(s.samples)
	s.mu.Unlock()

	if dropped := len(values) - appended; dropped > 0 {
		log.Debug().Str("series", s.id.String()).Int("dropped", dropped).Msg("dropped NaN samples from batch")
	}
	s.metrics.RecordAppended(appended)
	s.metrics.RecordEvicted(evicted)
	s.metrics.RecordWindowLength(length)
	s.deliver(notify, threshold)
}

// Replace atomically swaps the window contents for the given values,
// keeping only the trailing capacity-sized window when the input is
// longer. Inputs with fewer than 2 elements are ignored. Unlike the
// append path, Replace does not filter NaN values.
func (s *Series) Replace(values []float64) {
	if len(values) < 2 {
		s.metrics.RecordRejected(telemetry.ReasonShort)
		log.Debug().Str("series", s.id.String()).Int("len", len(values)).Msg("ignoring short replace")
		return
	}

	s.mu.Lock()
	keep := values
	if len(keep) > s.capacity {
		keep = keep[len(keep)-s.capacity:]
	}
	s.samples = append(s.samples[:0], keep...)
	notify, threshold := s.evaluateLocked()
	length := len(s.samples)
	s.mu.Unlock()

	s.metrics.RecordAppended(length)
	s.metrics.RecordWindowLength(length)
	s.deliver(notify, threshold)
}

// SetCapacity changes the capacity bound, clamped into
// [MinCapacity, MaxCapacity]. On decrease the oldest samples are
// evicted immediately.
func (s *Series) SetCapacity(n int) {
	n = clampCapacity(n)

	s.mu.Lock()
	s.capacity = n
	evicted := s.trimLocked()
	notify, threshold := s.evaluateLocked()
	length := len(s.samples)
	s.mu.Unlock()

	s.metrics.RecordEvicted(evicted)
	s.metrics.RecordWindowLength(length)
	s.deliver(notify, threshold)
}

// SetThreshold configures the alert threshold and re-arms the monitor.
// A NaN value unsets the threshold entirely (same as ClearThreshold).
// No notification fires until the next mutation.
func (s *Series) SetThreshold(v float64) {
	s.mu.Lock()
	s.threshold = v
	s.fired = false
	s.mu.Unlock()
}

// ClearThreshold unsets the threshold; evaluation is skipped while unset.
func (s *Series) ClearThreshold() {
	s.SetThreshold(math.NaN())
}

// Threshold returns the configured threshold and whether one is set.
func (s *Series) Threshold() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if math.IsNaN(s.threshold) {
		return 0, false
	}
	return s.threshold, true
}

// Snapshot returns an independent copy of the window contents. The copy
// never aliases internal storage, so callers can hold it across
// concurrent mutation.
func (s *Series) Snapshot() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]float64, len(s.samples))
	copy(cp, s.samples)
	return cp
}

// Len returns the current number of samples in the window.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Capacity returns the current capacity bound.
func (s *Series) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// trimLocked evicts from the front until the window fits the capacity.
// Returns the number of samples evicted. Caller holds s.mu.
func (s *Series) trimLocked() int {
	excess := len(s.samples) - s.capacity
	if excess <= 0 {
		return 0
	}
	s.samples = append(s.samples[:0], s.samples[excess:]...)
	return excess
}

// evaluateLocked runs the edge-triggered threshold check. It returns
// whether a notification should be delivered once the lock is released,
// and the threshold to carry. Caller holds s.mu.
func (s *Series) evaluateLocked() (bool, float64) {
	if math.IsNaN(s.threshold) {
		return false, 0
	}

	hit := false
	for _, v := range s.samples {
		if v >= s.threshold {
			hit = true
			break
		}
	}

	if hit && !s.fired {
		s.fired = true
		return true, s.threshold
	}
	if !hit {
		// Excursion over: re-arm silently.
		s.fired = false
	}
	return false, 0
}

// deliver invokes the observer outside the lock so observers can safely
// call back into the series.
func (s *Series) deliver(notify bool, threshold float64) {
	if !notify {
		return
	}
	s.metrics.RecordCrossing()
	log.Info().Str("series", s.id.String()).Float64("threshold", threshold).Msg("threshold entered")

	s.mu.Lock()
	fn := s.observer
	s.mu.Unlock()
	if fn != nil {
		fn(threshold)
	}
}

func clampCapacity(n int) int {
	if n < MinCapacity {
		return MinCapacity
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}
