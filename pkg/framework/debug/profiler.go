package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects wall-clock timings for named sections of control-side
// work such as loading a score or encoding a file.
type Profiler struct {
	mu           sync.Mutex
	measurements map[string]*Measurement
	order        []string
	enabled      atomic.Bool
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	Name  string
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration
}

// NewProfiler creates an enabled profiler.
func NewProfiler() *Profiler {
	p := &Profiler{
		measurements: make(map[string]*Measurement),
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Time runs fn and records its duration under name. fn's error is
// returned unchanged.
func (p *Profiler) Time(name string, fn func() error) error {
	if !p.enabled.Load() {
		return fn()
	}
	start := time.Now()
	err := fn()
	p.Record(name, time.Since(start))
	return err
}

// Record adds one timing for name.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{Name: name, Min: elapsed, Max: elapsed}
		p.measurements[name] = m
		p.order = append(p.order, name)
	}

	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	if elapsed < m.Min {
		m.Min = elapsed
	}
	if elapsed > m.Max {
		m.Max = elapsed
	}
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (Measurement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return *m, true
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
	p.order = nil
}

// Report lists every section in first-recorded order.
func (p *Profiler) Report() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.order) == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	for _, name := range p.order {
		m := p.measurements[name]
		fmt.Fprintf(&sb, "%-12s count=%d total=%v avg=%v min=%v max=%v\n",
			name, m.Count, m.Total, m.Average(), m.Min, m.Max)
	}
	return sb.String()
}

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// recentBlocks is how many block timings RenderProfiler keeps for
// percentiles.
const recentBlocks = 512

// RenderProfiler times audio blocks against their real-time budget. A block
// of n frames at sample rate sr must render in n/sr seconds; anything slower
// is an overrun.
//
// Observe does not allocate, so it may be called from the render goroutine.
type RenderProfiler struct {
	mu         sync.Mutex
	sampleRate float64
	blocks     uint64
	frames     uint64
	total      time.Duration
	max        time.Duration
	last       time.Duration
	overruns   uint64
	recent     [recentBlocks]time.Duration
	next       int
	enabled    atomic.Bool
}

// RenderStats is a snapshot of a RenderProfiler.
type RenderStats struct {
	Blocks   uint64
	Frames   uint64
	Average  time.Duration
	Max      time.Duration
	Last     time.Duration
	Overruns uint64
	// Load is total render time over total audio time, 1.0 meaning render
	// takes exactly as long as playback.
	Load float64
}

// NewRenderProfiler creates an enabled profiler for the given sample rate.
func NewRenderProfiler(sampleRate float64) *RenderProfiler {
	r := &RenderProfiler{sampleRate: sampleRate}
	r.enabled.Store(true)
	return r
}

// SetEnabled enables or disables block timing.
func (r *RenderProfiler) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled reports whether block timing is on.
func (r *RenderProfiler) Enabled() bool {
	return r.enabled.Load()
}

// SetSampleRate changes the rate used for budgets. Existing statistics are
// kept.
func (r *RenderProfiler) SetSampleRate(sampleRate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampleRate = sampleRate
}

// Budget returns the real-time deadline for a block of frames.
func (r *RenderProfiler) Budget(frames int) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.budget(frames)
}

func (r *RenderProfiler) budget(frames int) time.Duration {
	if r.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / r.sampleRate * float64(time.Second))
}

// Observe records one rendered block and reports whether it overran.
// Empty blocks are ignored.
func (r *RenderProfiler) Observe(frames int, elapsed time.Duration) bool {
	if !r.enabled.Load() || frames <= 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.blocks++
	r.frames += uint64(frames)
	r.total += elapsed
	r.last = elapsed
	if elapsed > r.max {
		r.max = elapsed
	}
	r.recent[r.next] = elapsed
	r.next = (r.next + 1) % recentBlocks

	overran := elapsed > r.budget(frames)
	if overran {
		r.overruns++
	}
	return overran
}

// Stats returns a snapshot of the collected timings.
func (r *RenderProfiler) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := RenderStats{
		Blocks:   r.blocks,
		Frames:   r.frames,
		Max:      r.max,
		Last:     r.last,
		Overruns: r.overruns,
	}
	if r.blocks > 0 {
		s.Average = r.total / time.Duration(r.blocks)
	}
	if audio := r.budget(int(r.frames)); audio > 0 {
		s.Load = float64(r.total) / float64(audio)
	}
	return s
}

// Percentile returns the p-th percentile (0..100) of the most recent block
// timings.
func (r *RenderProfiler) Percentile(p float64) time.Duration {
	r.mu.Lock()
	n := int(r.blocks)
	if n > recentBlocks {
		n = recentBlocks
	}
	samples := make([]time.Duration, n)
	copy(samples, r.recent[:n])
	r.mu.Unlock()

	if n == 0 {
		return 0
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	return samples[int(float64(n-1)*p/100.0)]
}

// Reset clears all statistics.
func (r *RenderProfiler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blocks = 0
	r.frames = 0
	r.total = 0
	r.max = 0
	r.last = 0
	r.overruns = 0
	r.recent = [recentBlocks]time.Duration{}
	r.next = 0
}

// String summarizes the statistics on one line.
func (s RenderStats) String() string {
	return fmt.Sprintf("blocks=%d frames=%d avg=%v max=%v overruns=%d load=%.2f%%",
		s.Blocks, s.Frames, s.Average, s.Max, s.Overruns, s.Load*100)
}
