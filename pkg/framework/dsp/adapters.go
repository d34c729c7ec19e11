package dsp

// Switch wraps a processor that can be turned off without leaving the chain.
// Turning it back on resets the inner processor so stale state (a delay
// tail, a ramp) does not leak into the new signal.
type Switch struct {
	inner   Processor
	enabled bool
}

// NewSwitch wraps p with the given initial state.
func NewSwitch(p Processor, enabled bool) *Switch {
	return &Switch{inner: p, enabled: enabled}
}

// SetEnabled turns the wrapped processor on or off.
func (s *Switch) SetEnabled(enabled bool) {
	if enabled && !s.enabled {
		s.inner.Reset()
	}
	s.enabled = enabled
}

// Enabled reports whether the wrapped processor runs.
func (s *Switch) Enabled() bool {
	return s.enabled
}

// Inner returns the wrapped processor.
func (s *Switch) Inner() Processor {
	return s.inner
}

func (s *Switch) Process(buffer []float32) {
	if s.enabled {
		s.inner.Process(buffer)
	}
}

func (s *Switch) Reset() {
	s.inner.Reset()
}

// Meter is a processor that observes the signal without changing it, such
// as analysis.PeakMeter.
type Meter interface {
	Process(samples []float32)
	Reset()
}

// Tap passes audio through unchanged while feeding it to a set of meters.
type Tap struct {
	meters []Meter
}

// NewTap creates a tap feeding the given meters.
func NewTap(meters ...Meter) *Tap {
	return &Tap{meters: meters}
}

func (t *Tap) Process(buffer []float32) {
	for _, m := range t.meters {
		m.Process(buffer)
	}
}

func (t *Tap) Reset() {
	for _, m := range t.meters {
		m.Reset()
	}
}
