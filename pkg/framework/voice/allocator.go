// Package voice implements the polyphonic voice pool: allocation and
// stealing, sustain pedal handling and the per-sample render loop.
package voice

import (
	"github.com/chewxy/math32"
	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/dsp/glide"
	"github.com/justyntemme/polysynth/pkg/dsp/mix"
	"github.com/justyntemme/polysynth/pkg/dsp/oscillator"
	"github.com/justyntemme/polysynth/pkg/midi"
)

const (
	// MinVoices is the smallest pool capacity
	MinVoices = 1
	// MaxVoices is the largest pool capacity
	MaxVoices = 32
	// DefaultVoices is the capacity of a new pool
	DefaultVoices = 8
	// DefaultGain is the initial master gain
	DefaultGain = 0.5
)

// Pool is an ordered, fixed-capacity set of voices plus the parameters they
// share. Slots live in a fixed array so that neither rendering nor resizing
// allocates.
//
// Pool is not safe for concurrent use. Control calls must be serialized with
// Process by the caller.
type Pool struct {
	sampleRate float32
	dt         float32

	voices [MaxVoices]Voice
	size   int

	waveform  oscillator.Waveform
	adsr      envelope.ADSR
	glideTime float32
	gain      float32
	sustain   bool

	normalizer mix.Normalizer
}

// NewPool creates a pool with all voices inactive. Capacity is clamped to
// [MinVoices, MaxVoices].
func NewPool(sampleRate float32, capacity int) *Pool {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Pool{
		sampleRate: sampleRate,
		dt:         1 / sampleRate,
		size:       clampCapacity(capacity),
		waveform:   oscillator.Sawtooth,
		adsr:       envelope.Default(),
		gain:       DefaultGain,
		normalizer: mix.NewNormalizer(sampleRate, mix.DefaultSmoothingTime),
	}
}

// SampleRate returns the rate the pool renders at
func (p *Pool) SampleRate() float32 {
	return p.sampleRate
}

// Capacity returns the number of voice slots
func (p *Pool) Capacity() int {
	return p.size
}

// SetWaveform selects the waveform for every voice from its index
// (0 sine, 1 square, 2 sawtooth, 3 triangle; anything else is sine)
func (p *Pool) SetWaveform(index int) {
	p.waveform = oscillator.WaveformFromIndex(index)
}

// SetWaveformType selects the waveform for every voice
func (p *Pool) SetWaveformType(w oscillator.Waveform) {
	p.waveform = w
}

func (p *Pool) Waveform() oscillator.Waveform {
	return p.waveform
}

// SetADSR sets the shared envelope. Times are floored at 0 and sustain is
// clamped to [0, 1].
func (p *Pool) SetADSR(attack, decay, sustain, release float32) {
	p.adsr = envelope.New(attack, decay, sustain, release)
}

func (p *Pool) ADSR() envelope.ADSR {
	return p.adsr
}

// SetGlideMillis sets the shared glide time constant
func (p *Pool) SetGlideMillis(ms float32) {
	p.glideTime = glide.TimeFromMillis(ms)
}

// GlideTime returns the glide time constant in seconds
func (p *Pool) GlideTime() float32 {
	return p.glideTime
}

// SetGain sets the master gain, clamped to [0, 1]
func (p *Pool) SetGain(gain float32) {
	if !(gain >= 0) {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	p.gain = gain
}

func (p *Pool) Gain() float32 {
	return p.gain
}

// SetMaxVoices changes the capacity, clamped to [MinVoices, MaxVoices].
// Slots below the new capacity keep their state; dropped slots are
// silenced and slots added later start inactive.
func (p *Pool) SetMaxVoices(capacity int) {
	capacity = clampCapacity(capacity)
	if capacity == p.size {
		return
	}
	for i := capacity; i < p.size; i++ {
		p.voices[i] = Voice{}
	}
	for i := p.size; i < capacity; i++ {
		p.voices[i] = Voice{}
	}
	p.size = capacity
}

// SustainPedal reports whether the sustain pedal is held
func (p *Pool) SustainPedal() bool {
	return p.sustain
}

// ProcessEvent applies a decoded MIDI event
func (p *Pool) ProcessEvent(event midi.Event) {
	switch e := event.(type) {
	case midi.NoteOnEvent:
		if e.Velocity > 0 {
			p.NoteOn(e.NoteNumber, e.Velocity)
		} else {
			// Note on with velocity 0 is treated as note off
			p.NoteOff(e.NoteNumber)
		}
	case midi.NoteOffEvent:
		p.NoteOff(e.NoteNumber)
	case midi.SustainEvent:
		p.SetSustainPedal(e.Down)
	case midi.ControlChangeEvent:
		switch e.Controller {
		case midi.CCSustain:
			p.SetSustainPedal(e.Value >= 64)
		case midi.CCAllSoundOff, midi.CCAllNotesOff:
			p.AllNotesOff()
		}
	}
}

// NoteOn starts note at the given velocity (0-127).
//
// A voice already holding the note is retriggered in place. Otherwise the
// first inactive slot is claimed, or, with every slot busy, the slot with the
// lowest envelope is stolen.
func (p *Pool) NoteOn(note uint8, velocity uint8) {
	note &= 0x7F
	freq := midi.NoteToFrequency(note, 0)
	vel := float32(velocity&0x7F) / 127

	if i := p.findNote(note); i >= 0 {
		v := &p.voices[i]
		v.KeyDown = true
		v.Gate = true
		v.FreqTarget = freq
		if p.glideTime <= 0 {
			v.FreqCurrent = freq
		}
		v.Env = 0
		v.Velocity = vel
		return
	}

	i := p.findFreeVoice()
	if i < 0 {
		i = p.stealVoice()
	}
	p.assign(i, note, freq, vel)
}

// NoteOff releases every active voice holding note. The gate stays up while
// the sustain pedal is held.
func (p *Pool) NoteOff(note uint8) {
	note &= 0x7F
	for i := 0; i < p.size; i++ {
		v := &p.voices[i]
		if !v.Active || v.Note != note {
			continue
		}
		v.KeyDown = false
		if !p.sustain {
			v.Gate = false
		}
	}
}

// SetSustainPedal updates the pedal. Releasing it drops the gate of every
// voice whose key is no longer held.
func (p *Pool) SetSustainPedal(down bool) {
	if down == p.sustain {
		return
	}
	p.sustain = down
	if down {
		return
	}
	for i := 0; i < p.size; i++ {
		v := &p.voices[i]
		if !v.KeyDown {
			v.Gate = false
		}
	}
}

// AllNotesOff releases every voice and clears the pedal. Voices fade out
// through their release stage.
func (p *Pool) AllNotesOff() {
	p.sustain = false
	for i := 0; i < p.size; i++ {
		p.voices[i].KeyDown = false
		p.voices[i].Gate = false
	}
}

// Reset silences every voice immediately
func (p *Pool) Reset() {
	p.sustain = false
	for i := range p.voices {
		p.voices[i] = Voice{}
	}
	p.normalizer.Reset()
}

// ActiveVoices returns the number of active slots
func (p *Pool) ActiveVoices() int {
	count := 0
	for i := 0; i < p.size; i++ {
		if p.voices[i].Active {
			count++
		}
	}
	return count
}

// Voice returns a copy of slot i. ok is false when i is out of range.
func (p *Pool) Voice(i int) (v Voice, ok bool) {
	if i < 0 || i >= p.size {
		return Voice{}, false
	}
	return p.voices[i], true
}

// MixGain returns the current smoothed normalization gain
func (p *Pool) MixGain() float32 {
	return p.normalizer.Gain()
}

// Process renders len(output) samples, overwriting output - no allocations
func (p *Pool) Process(output []float32) {
	dt := p.dt
	for n := range output {
		var acc float32
		voicesOn := 0

		for i := 0; i < p.size; i++ {
			v := &p.voices[i]
			if !v.Sounding() {
				continue
			}

			v.FreqCurrent = glide.Step(v.FreqCurrent, v.FreqTarget, p.glideTime, dt)

			v.Env = p.adsr.Step(v.Env, v.Gate, dt)
			if !v.Gate && v.Env <= 0 {
				v.Active = false
			}

			acc += oscillator.Sample(p.waveform, v.Phase) * v.Env * v.Velocity
			v.Phase = oscillator.Advance(v.Phase, oscillator.PhaseIncrement(v.FreqCurrent, p.sampleRate))

			if v.Sounding() {
				voicesOn++
			}
		}

		output[n] = mix.Finalize(acc, p.gain, p.normalizer.Next(voicesOn))
	}
}

func (p *Pool) assign(i int, note uint8, freq, vel float32) {
	v := &p.voices[i]
	v.Note = note
	v.Active = true
	v.KeyDown = true
	v.Gate = true
	v.FreqTarget = freq
	v.FreqCurrent = glide.Start(v.FreqCurrent, freq, p.glideTime)
	v.Phase = 0
	v.Env = 0
	v.Velocity = vel
}

func (p *Pool) findNote(note uint8) int {
	for i := 0; i < p.size; i++ {
		if p.voices[i].Active && p.voices[i].Note == note {
			return i
		}
	}
	return -1
}

func (p *Pool) findFreeVoice() int {
	for i := 0; i < p.size; i++ {
		if !p.voices[i].Active {
			return i
		}
	}
	return -1
}

// stealVoice returns the slot with the lowest envelope, first slot on ties
func (p *Pool) stealVoice() int {
	quietest := 0
	lowest := math32.Inf(1)
	for i := 0; i < p.size; i++ {
		if p.voices[i].Env < lowest {
			lowest = p.voices[i].Env
			quietest = i
		}
	}
	return quietest
}

func clampCapacity(n int) int {
	if n < MinVoices {
		return MinVoices
	}
	if n > MaxVoices {
		return MaxVoices
	}
	return n
}
