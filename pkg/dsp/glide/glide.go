// Package glide implements portamento: a one-pole approach of a current
// frequency toward a target frequency.
package glide

import "github.com/chewxy/math32"

// Epsilon is the distance in Hz below which the current frequency snaps to
// the target
const Epsilon = 1e-6

// MinStartFrequency is the lowest frequency a newly claimed voice starts
// gliding from, so glides never begin sub-audio
const MinStartFrequency = 20.0

// Step moves current toward target by one sample of length dt seconds.
//
// timeSec is the time constant of the approach, not the total traversal
// time: each sample covers min(dt/timeSec, 1) of the remaining distance.
// A non-positive time constant disables glide.
func Step(current, target, timeSec, dt float32) float32 {
	if timeSec <= 0 || math32.Abs(current-target) < Epsilon {
		return target
	}
	coef := dt / timeSec
	if coef > 1 {
		coef = 1
	}
	return current + (target-current)*coef
}

// Start returns the frequency a freshly claimed voice should glide from.
// With glide disabled the voice starts on target; otherwise it keeps its
// previous frequency, floored at MinStartFrequency.
func Start(previous, target, timeSec float32) float32 {
	if timeSec <= 0 {
		return target
	}
	return math32.Max(previous, MinStartFrequency)
}

// TimeFromMillis converts a glide time in milliseconds to seconds, flooring
// negative or non-finite input at 0
func TimeFromMillis(ms float32) float32 {
	sec := ms / 1000
	if !(sec > 0) || math32.IsInf(sec, 0) {
		return 0
	}
	return sec
}
