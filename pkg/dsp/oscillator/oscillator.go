// Package oscillator provides the waveform table shared by the polyphonic
// voices and a standalone single-voice oscillator node.
package oscillator

import "github.com/chewxy/math32"

// Oscillator is a free-running single voice with its own frequency,
// amplitude and waveform
type Oscillator struct {
	sampleRate float32
	frequency  float32
	amplitude  float32
	waveform   Waveform
	phase      float32
	phaseInc   float32
}

// New creates a new oscillator at A4 (440 Hz), half amplitude, sine
func New(sampleRate float32) *Oscillator {
	o := &Oscillator{
		sampleRate: sampleRate,
		amplitude:  0.5,
		waveform:   Sine,
	}
	o.SetFrequency(440.0)
	return o
}

// SetFrequency sets the oscillator frequency in Hz
func (o *Oscillator) SetFrequency(freq float32) {
	o.frequency = freq
	o.phaseInc = PhaseIncrement(freq, o.sampleRate)
}

// Frequency returns the oscillator frequency in Hz
func (o *Oscillator) Frequency() float32 {
	return o.frequency
}

// SetAmplitude sets the output amplitude, clamped to [0, 1]
func (o *Oscillator) SetAmplitude(amp float32) {
	o.amplitude = math32.Max(0, math32.Min(1, amp))
}

// Amplitude returns the output amplitude
func (o *Oscillator) Amplitude() float32 {
	return o.amplitude
}

// SetWaveform selects the waveform by host selector index
func (o *Oscillator) SetWaveform(index int) {
	o.waveform = WaveformFromIndex(index)
}

// Waveform returns the current waveform
func (o *Oscillator) Waveform() Waveform {
	return o.waveform
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Next generates one sample and advances the phase
func (o *Oscillator) Next() float32 {
	sample := Sample(o.waveform, o.phase) * o.amplitude
	o.phase = Advance(o.phase, o.phaseInc)
	return sample
}

// Process fills buffer with the oscillator output - no allocations
func (o *Oscillator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = o.Next()
	}
}
