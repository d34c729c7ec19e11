package delay

import "github.com/justyntemme/polysynth/pkg/dsp/mix"

const (
	// EchoTime is the fixed echo delay in seconds
	EchoTime = 0.1
	// MaxFeedback keeps the feedback loop stable
	MaxFeedback = 0.95

	DefaultFeedback = 0.3
	DefaultWet      = 0.3
)

// Echo is a single feedback delay with a dry/wet mix
type Echo struct {
	line     *Line
	feedback float32
	wet      float32
}

// NewEcho creates an echo with a 100ms line at the given sample rate
func NewEcho(sampleRate float32) *Echo {
	return &Echo{
		line:     NewSeconds(EchoTime, sampleRate),
		feedback: DefaultFeedback,
		wet:      DefaultWet,
	}
}

// SetFeedback sets the feedback amount, clamped to [0, MaxFeedback]
func (e *Echo) SetFeedback(feedback float32) {
	e.feedback = clamp(feedback, 0, MaxFeedback)
}

func (e *Echo) Feedback() float32 {
	return e.feedback
}

// SetWet sets the wet mix, clamped to [0, 1]
func (e *Echo) SetWet(wet float32) {
	e.wet = clamp(wet, 0, 1)
}

func (e *Echo) Wet() float32 {
	return e.wet
}

// DelaySamples returns the length of the delay line
func (e *Echo) DelaySamples() int {
	return e.line.Len()
}

// Process runs the echo over buffer in place - no allocations
func (e *Echo) Process(buffer []float32) {
	for i, x := range buffer {
		delayed := e.line.Peek()
		e.line.Exchange(x + delayed*e.feedback)
		buffer[i] = mix.DryWet(x, delayed, e.wet)
	}
}

// Reset clears the delay line
func (e *Echo) Reset() {
	e.line.Reset()
}

func clamp(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
