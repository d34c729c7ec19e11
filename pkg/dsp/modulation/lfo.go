// Package modulation provides the tempo-synced LFO used to modulate synth
// parameters once per block.
package modulation

import (
	"github.com/chewxy/math32"
	"github.com/justyntemme/polysynth/pkg/dsp/oscillator"
)

// Shape represents the LFO waveform shape
type Shape int

const (
	// ShapeSine produces a sine wave
	ShapeSine Shape = iota
	// ShapeTriangle produces a triangle wave starting at 0
	ShapeTriangle
	// ShapeSaw produces a rising ramp
	ShapeSaw
	// ShapeSquare produces a square wave
	ShapeSquare
)

// ShapeFromIndex maps a selector to a shape; unknown values give sine
func ShapeFromIndex(index int) Shape {
	switch Shape(index) {
	case ShapeTriangle, ShapeSaw, ShapeSquare:
		return Shape(index)
	default:
		return ShapeSine
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeSaw:
		return "saw"
	case ShapeSquare:
		return "square"
	default:
		return "sine"
	}
}

const (
	// DefaultBPM replaces a missing or invalid tempo
	DefaultBPM = 120.0
	// MinBeatsPerCycle keeps the cycle length positive
	MinBeatsPerCycle = 0.0001
)

// TempoLFO is a block-rate LFO whose cycle length is given in beats. The
// tempo is passed on every call so tempo changes take effect on the next
// block.
type TempoLFO struct {
	sampleRate    float32
	phase         float32
	shape         Shape
	beatsPerCycle float32
	phaseOffset   float32

	// Output shaping
	depth   float32
	offset  float32
	bipolar bool
}

// NewTempoLFO creates a sine LFO with one cycle per beat
func NewTempoLFO(sampleRate float32) *TempoLFO {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &TempoLFO{
		sampleRate:    sampleRate,
		shape:         ShapeSine,
		beatsPerCycle: 1,
		depth:         1,
		bipolar:       true,
	}
}

// SetParams sets the cycle length in beats (floored at MinBeatsPerCycle),
// the shape selector and the phase offset as a fraction of a cycle in [0, 1]
func (l *TempoLFO) SetParams(beatsPerCycle float32, shapeIndex int, phaseOffset float32) {
	if !(beatsPerCycle > MinBeatsPerCycle) {
		beatsPerCycle = MinBeatsPerCycle
	}
	l.beatsPerCycle = beatsPerCycle
	l.shape = ShapeFromIndex(shapeIndex)
	l.phaseOffset = clamp(phaseOffset, 0, 1)
}

// SetShaping sets depth in [0, 1], offset in [-1, 1] and polarity
func (l *TempoLFO) SetShaping(depth, offset float32, bipolar bool) {
	l.depth = clamp(depth, 0, 1)
	l.offset = clamp(offset, -1, 1)
	l.bipolar = bipolar
}

func (l *TempoLFO) BeatsPerCycle() float32 {
	return l.beatsPerCycle
}

func (l *TempoLFO) Shape() Shape {
	return l.shape
}

func (l *TempoLFO) PhaseOffset() float32 {
	return l.phaseOffset
}

// Phase returns the accumulated phase in radians
func (l *TempoLFO) Phase() float32 {
	return l.phase
}

// Frequency returns the cycle rate in Hz at the given tempo
func Frequency(bpm, beatsPerCycle float32) float32 {
	if !(bpm > 0) || math32.IsInf(bpm, 0) {
		bpm = DefaultBPM
	}
	return (bpm / 60) / beatsPerCycle
}

// NextValue returns the raw value in [-1, 1] at the start of the block and
// then advances the phase by blockSamples at the given tempo
func (l *TempoLFO) NextValue(blockSamples int, bpm float32) float32 {
	freq := Frequency(bpm, l.beatsPerCycle)

	at := l.phase + l.phaseOffset*oscillator.TwoPi
	for at >= oscillator.TwoPi {
		at -= oscillator.TwoPi
	}
	val := l.sample(at)

	l.phase = oscillator.Advance(l.phase, float32(blockSamples)*freq/l.sampleRate*oscillator.TwoPi)

	return clamp(val, -1, 1)
}

// Modulate applies polarity, depth and offset to a raw value
func (l *TempoLFO) Modulate(raw float32) float32 {
	v := raw
	if !l.bipolar {
		v = (v + 1) * 0.5
	}
	return clamp(v*l.depth+l.offset, -1, 1)
}

// Next is NextValue followed by Modulate
func (l *TempoLFO) Next(blockSamples int, bpm float32) float32 {
	return l.Modulate(l.NextValue(blockSamples, bpm))
}

// Reset returns the phase to the start of the cycle
func (l *TempoLFO) Reset() {
	l.phase = 0
}

func (l *TempoLFO) sample(phase float32) float32 {
	t := phase / oscillator.TwoPi
	switch l.shape {
	case ShapeTriangle:
		switch {
		case t < 0.25:
			return 4 * t
		case t < 0.75:
			return 2 - 4*t
		default:
			return 4*t - 4
		}
	case ShapeSaw:
		return 2*t - 1
	case ShapeSquare:
		if math32.Sin(phase) >= 0 {
			return 1
		}
		return -1
	default:
		return math32.Sin(phase)
	}
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
