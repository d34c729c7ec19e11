// Package gain provides decibel conversion and the output volume stage.
package gain

import "github.com/chewxy/math32"

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float32) float32 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math32.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float32) float32 {
	if db <= MinDB {
		return 0
	}
	return math32.Pow(10.0, db/20.0)
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// Fade applies a linear ramp from startGain to endGain across buffer.
func Fade(buffer []float32, startGain, endGain float32) {
	if len(buffer) == 0 {
		return
	}

	samples := float32(len(buffer) - 1)
	if samples <= 0 {
		buffer[0] *= endGain
		return
	}

	gainDelta := (endGain - startGain) / samples
	for i := range buffer {
		buffer[i] *= startGain + gainDelta*float32(i)
	}
}

// DefaultVolume is the initial output volume
const DefaultVolume = 0.8

// Output is the final volume and mute stage. A volume or mute change is
// ramped across the next block instead of stepping.
type Output struct {
	volume  float32
	muted   bool
	current float32
}

func NewOutput() *Output {
	return &Output{
		volume:  DefaultVolume,
		current: DefaultVolume,
	}
}

// SetVolume sets the linear volume, clamped to [0, 1]
func (o *Output) SetVolume(volume float32) {
	if !(volume >= 0) {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	o.volume = volume
}

func (o *Output) Volume() float32 {
	return o.volume
}

// VolumeDb returns the volume in decibels
func (o *Output) VolumeDb() float32 {
	return LinearToDb(o.volume)
}

func (o *Output) SetMuted(muted bool) {
	o.muted = muted
}

func (o *Output) Muted() bool {
	return o.muted
}

func (o *Output) target() float32 {
	if o.muted {
		return 0
	}
	return o.volume
}

// Process applies the stage to buffer in place - no allocations
func (o *Output) Process(buffer []float32) {
	target := o.target()
	if o.current == target {
		if target == 0 {
			for i := range buffer {
				buffer[i] = 0
			}
			return
		}
		ApplyBuffer(buffer, target)
		return
	}
	Fade(buffer, o.current, target)
	o.current = target
}

// Reset jumps to the target gain without a ramp
func (o *Output) Reset() {
	o.current = o.target()
}
