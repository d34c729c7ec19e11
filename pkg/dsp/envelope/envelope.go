// Package envelope provides the linear ADSR envelope used by the synth voices
package envelope

import "github.com/chewxy/math32"

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "idle"
	}
}

// ADSR holds the time constants of an Attack-Decay-Sustain-Release envelope.
// Attack, Decay and Release are the seconds needed to traverse their full
// range; Sustain is a level in [0, 1].
//
// The envelope value itself lives with the caller (one per voice), so a
// single ADSR can drive any number of voices.
type ADSR struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

// Default returns the engine default envelope
func Default() ADSR {
	return ADSR{
		Attack:  0.005,
		Decay:   0.12,
		Sustain: 0.7,
		Release: 0.12,
	}
}

// New creates an envelope with negative times floored at 0 and sustain
// clamped to [0, 1]
func New(attack, decay, sustain, release float32) ADSR {
	return ADSR{
		Attack:  math32.Max(0, attack),
		Decay:   math32.Max(0, decay),
		Sustain: math32.Max(0, math32.Min(1, sustain)),
		Release: math32.Max(0, release),
	}
}

// Step advances the level env by one sample of length dt seconds and
// returns the new level, always in [0, 1].
//
// While gated a level below 1 rises and a level above sustain falls; once
// the gate drops it falls to 0. Attack is checked first on every sample, so
// a held note with sustain below 1 keeps re-entering attack as soon as decay
// moves it off full level and settles just under 1. A zero time constant
// makes its stage instantaneous.
func (e ADSR) Step(env float32, gate bool, dt float32) float32 {
	switch {
	case gate && env < 1:
		if e.Attack <= 0 {
			env = 1
		} else {
			env += dt / e.Attack
			if env > 1 {
				env = 1
			}
		}
	case gate && env > e.Sustain:
		if e.Decay <= 0 {
			env = e.Sustain
		} else {
			env -= dt * (1 - e.Sustain) / e.Decay
			if env < e.Sustain {
				env = e.Sustain
			}
		}
	case !gate:
		if e.Release <= 0 {
			env = 0
		} else {
			env -= dt / e.Release
			if env < 0 {
				env = 0
			}
		}
	}

	// NaN slips through every comparison above
	switch {
	case !(env >= 0):
		env = 0
	case env > 1:
		env = 1
	}
	return env
}

// StageOf reports which stage Step will run next for the given level
func (e ADSR) StageOf(env float32, gate bool) Stage {
	switch {
	case !gate && env <= 0:
		return StageIdle
	case !gate:
		return StageRelease
	case env < 1:
		return StageAttack
	case env > e.Sustain:
		return StageDecay
	default:
		return StageSustain
	}
}

// Process fills buffer with successive envelope levels starting from env
// and returns the final level - no allocations
func (e ADSR) Process(buffer []float32, env float32, gate bool, dt float32) float32 {
	for i := range buffer {
		env = e.Step(env, gate, dt)
		buffer[i] = env
	}
	return env
}
