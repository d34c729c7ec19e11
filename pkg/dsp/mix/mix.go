// Package mix provides the voice-count normalizer and dry/wet mixing.
package mix

import "github.com/chewxy/math32"

// DefaultSmoothingTime is the time constant of the normalization gain in seconds
const DefaultSmoothingTime = 0.005

// DryWet performs a dry/wet mix between two signals.
// amount parameter: 0.0 = 100% dry, 1.0 = 100% wet
func DryWet(dry, wet, amount float32) float32 {
	return dry*(1.0-amount) + wet*amount
}

// DryWetBuffer performs in-place dry/wet mixing on audio buffers.
// amount parameter: 0.0 = 100% dry, 1.0 = 100% wet
func DryWetBuffer(dry, wet []float32, amount float32) {
	dryGain := 1.0 - amount
	wetGain := amount

	length := len(dry)
	if len(wet) < length {
		length = len(wet)
	}

	for i := 0; i < length; i++ {
		dry[i] = dry[i]*dryGain + wet[i]*wetGain
	}
}

// Normalizer scales a sum of voices by 1/N, where N is the number of voices
// contributing to the sample. The gain follows 1/N through a one-pole
// low-pass so voices starting and stopping never cause a step.
type Normalizer struct {
	gain  float32
	coeff float32
}

// NewNormalizer creates a normalizer with the given smoothing time constant.
// A non-positive tau makes the gain follow its target immediately.
func NewNormalizer(sampleRate, tau float32) Normalizer {
	n := Normalizer{gain: 1}
	n.SetTimeConstant(sampleRate, tau)
	return n
}

// SetTimeConstant recomputes the smoothing coefficient dt/(tau+dt)
func (n *Normalizer) SetTimeConstant(sampleRate, tau float32) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	dt := 1 / sampleRate
	if tau <= 0 {
		n.coeff = 1
		return
	}
	n.coeff = dt / (tau + dt)
}

// Target returns the unsmoothed gain for voicesOn contributing voices
func Target(voicesOn int) float32 {
	if voicesOn > 0 {
		return 1 / float32(voicesOn)
	}
	return 1
}

// Next advances the smoothed gain one sample toward Target(voicesOn) and
// returns it
func (n *Normalizer) Next(voicesOn int) float32 {
	n.gain += (Target(voicesOn) - n.gain) * n.coeff
	return n.gain
}

// Gain returns the current smoothed gain
func (n *Normalizer) Gain() float32 {
	return n.gain
}

// Coefficient returns the per-sample smoothing coefficient
func (n *Normalizer) Coefficient() float32 {
	return n.coeff
}

// Reset snaps the gain back to unity
func (n *Normalizer) Reset() {
	n.gain = 1
}

// Finalize applies master and normalization gain to a voice sum and
// sanitizes the result: non-finite values become silence and the rest is
// limited to [-1, 1].
func Finalize(sum, master, norm float32) float32 {
	s := sum * master * norm
	if math32.IsNaN(s) || math32.IsInf(s, 0) {
		return 0
	}
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
