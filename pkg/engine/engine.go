// Package engine drives the voice pool from a control/render split: any
// goroutine may queue notes and change parameters, while a single render
// goroutine pulls audio blocks.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justyntemme/polysynth/pkg/config"
	"github.com/justyntemme/polysynth/pkg/dsp/analysis"
	"github.com/justyntemme/polysynth/pkg/dsp/delay"
	"github.com/justyntemme/polysynth/pkg/dsp/gain"
	"github.com/justyntemme/polysynth/pkg/dsp/mix"
	"github.com/justyntemme/polysynth/pkg/dsp/modulation"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/framework/dsp"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/voice"
	"github.com/justyntemme/polysynth/pkg/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Engine owns the voice pool and its effect chain.
//
// Render must only be called from one goroutine at a time. Every other
// method is safe for concurrent use; changes reach the audio at the start
// of the next Render call.
type Engine struct {
	sampleRate float32
	log        *debug.Logger

	params *param.Registry
	queue  *midi.EventQueue

	// control side
	ctlMu     sync.Mutex
	transpose *midi.Transpose

	// render side
	pool       *voice.Pool
	echo       *delay.Echo
	echoSwitch *dsp.Switch
	output     *gain.Output
	chain      *dsp.Chain
	lfo        *modulation.TempoLFO
	peak       *analysis.PeakMeter
	scratch    []midi.Event
	seenGen    uint64

	// values the LFO modulates around
	lfoTarget  int
	baseGain   float32
	baseVolume float32
	baseWet    float32
	tempo      float32

	profiler *debug.RenderProfiler
	blocks   atomic.Uint64
	active   atomic.Int32
	voices   atomic.Int32
	lfoValue atomic.Uint32
	peakBits atomic.Uint64
}

// Stats is a snapshot of the engine counters.
type Stats struct {
	ActiveVoices  int
	Polyphony     int
	Blocks        uint64
	DroppedEvents uint64
	Render        debug.RenderStats
}

// New creates an engine at cfg's sample rate with cfg applied.
func New(cfg config.Config, log *debug.Logger) (*Engine, error) {
	if log == nil {
		log = debug.Default()
	}
	sampleRate := float32(cfg.SampleRate)
	if sampleRate <= 0 {
		sampleRate = float32(config.Default().SampleRate)
	}

	e := &Engine{
		sampleRate: sampleRate,
		log:        log.Named("engine"),
		params:     param.NewRegistry(),
		queue:      midi.NewEventQueue(midi.DefaultQueueCapacity),
		transpose:  midi.NewTranspose(),
		pool:       voice.NewPool(sampleRate, cfg.Voices),
		echo:       delay.NewEcho(sampleRate),
		output:     gain.NewOutput(),
		lfo:        modulation.NewTempoLFO(sampleRate),
		peak:       analysis.NewPeakMeter(float64(sampleRate)),
		scratch:    make([]midi.Event, 0, midi.DefaultQueueCapacity),
		profiler:   debug.NewRenderProfiler(float64(sampleRate)),
	}
	if err := e.params.Add(newParameters()...); err != nil {
		return nil, fmt.Errorf("register parameters: %w", err)
	}

	e.echoSwitch = dsp.NewSwitch(e.echo, false)
	chain, err := dsp.NewBuilder("master").
		WithProcessor("echo", e.echoSwitch).
		WithProcessor("output", e.output).
		WithFunc("limit", limit).
		WithProcessor("meter", dsp.NewTap(e.peak)).
		Build()
	if err != nil {
		return nil, err
	}
	e.chain = chain

	if err := e.ApplyConfig(cfg); err != nil {
		e.log.Warn("config: %v", err)
	}
	e.seenGen = e.params.Generation()
	e.applyParams()
	e.output.Reset()
	e.voices.Store(int32(e.pool.Capacity()))

	e.log.Info("engine ready: %.0f Hz, %d voices", sampleRate, e.pool.Capacity())
	return e, nil
}

// SampleRate returns the rate Render produces.
func (e *Engine) SampleRate() float32 {
	return e.sampleRate
}

// Params returns the parameter registry. Stores into it are picked up by
// the next Render call.
func (e *Engine) Params() *param.Registry {
	return e.params
}

// Logger returns the engine logger.
func (e *Engine) Logger() *debug.Logger {
	return e.log
}

// HandleMIDI filters a raw MIDI message through the transpose stage and
// queues the resulting event. It reports whether an event was queued.
func (e *Engine) HandleMIDI(raw []byte) bool {
	e.ctlMu.Lock()
	e.transpose.SetParams(
		e.params.Get(ParamTranspose).Int(),
		e.params.Get(ParamTransposeLow).Int(),
		e.params.Get(ParamTransposeHigh).Int(),
		e.params.Get(ParamPassNonNote).Bool(),
	)
	msg := e.transpose.Transform(gomidi.Message(raw))
	e.ctlMu.Unlock()

	if msg == nil {
		e.log.Debug("dropped by filter: % X", raw)
		return false
	}
	event, ok := midi.Decode(msg)
	if !ok {
		e.log.Debug("ignored message: %s", msg)
		return false
	}
	return e.push(event)
}

// NoteOn queues a note-on. Velocity 0 acts as note-off.
func (e *Engine) NoteOn(note, velocity uint8) bool {
	return e.HandleMIDI(gomidi.NoteOn(0, note&0x7F, velocity&0x7F))
}

// NoteOff queues a note-off.
func (e *Engine) NoteOff(note uint8) bool {
	return e.HandleMIDI(gomidi.NoteOff(0, note&0x7F))
}

// SustainPedal queues a pedal state change. Direct pedal calls bypass the
// transpose stage's non-note filter.
func (e *Engine) SustainPedal(down bool) bool {
	return e.push(midi.SustainEvent{Down: down})
}

// AllNotesOff queues a release of every voice.
func (e *Engine) AllNotesOff() bool {
	return e.push(midi.ControlChangeEvent{Controller: midi.CCAllNotesOff})
}

func (e *Engine) push(event midi.Event) bool {
	if !e.queue.Push(event) {
		e.log.Warn("event queue full, dropped %s", event)
		return false
	}
	return true
}

// SetParam stores a plain value by parameter key. Waveform and LFO shape
// selectors outside 0-3 select sine.
func (e *Engine) SetParam(key string, plain float64) error {
	if key == "waveform" || key == "lfo_shape" {
		plain = shapeSelector(plain)
	}
	if err := e.params.SetPlain(key, plain); err != nil {
		return err
	}
	e.log.Debug("param %s = %g", key, plain)
	return nil
}

func shapeSelector(v float64) float64 {
	if v >= 0 && v < 4 {
		return math.Floor(v)
	}
	return 0
}

// SetParamString stores a parameter from its text form, such as
// "triangle" or "250 ms".
func (e *Engine) SetParamString(key, text string) error {
	if err := e.params.SetString(key, text); err != nil {
		return err
	}
	e.log.Debug("param %s = %s", key, text)
	return nil
}

// SetTempo sets the tempo the LFO follows, in beats per minute.
func (e *Engine) SetTempo(bpm float64) {
	e.params.Get(ParamTempo).SetPlainValue(bpm)
}

// Resize requests a new polyphony. It takes effect at the next block
// boundary, before any sample of that block.
func (e *Engine) Resize(voices int) {
	e.params.Get(ParamVoices).SetPlainValue(float64(voices))
	e.log.Debug("resize requested: %d voices", voices)
}

// ApplyConfig stores every setting in cfg as parameter values. Unknown
// names are reported together; the remaining settings are still applied.
// The sample rate is fixed at construction and is not changed.
func (e *Engine) ApplyConfig(cfg config.Config) error {
	var errs []error
	set := func(id uint32, v float64) {
		e.params.Get(id).SetPlainValue(v)
	}
	setBool := func(id uint32, on bool) {
		v := 0.0
		if on {
			v = 1
		}
		set(id, v)
	}
	setName := func(key, name string) {
		if err := e.params.SetString(key, name); err != nil {
			errs = append(errs, err)
		}
	}

	set(ParamVoices, float64(cfg.Voices))
	setName("waveform", cfg.Waveform)
	set(ParamAttack, cfg.Envelope.Attack)
	set(ParamDecay, cfg.Envelope.Decay)
	set(ParamSustain, cfg.Envelope.Sustain)
	set(ParamRelease, cfg.Envelope.Release)
	set(ParamGlide, cfg.GlideMs)
	set(ParamGain, cfg.Gain)

	setBool(ParamEcho, cfg.Echo.Enabled)
	set(ParamEchoFeedback, cfg.Echo.Feedback)
	set(ParamEchoWet, cfg.Echo.Wet)
	set(ParamVolume, cfg.Output.Volume)
	setBool(ParamMute, cfg.Output.Muted)

	set(ParamLFOBeats, cfg.LFO.BeatsPerCycle)
	setName("lfo_shape", cfg.LFO.Shape)
	set(ParamLFOPhase, cfg.LFO.PhaseOffset)
	set(ParamLFODepth, cfg.LFO.Depth)
	set(ParamLFOOffset, cfg.LFO.Offset)
	setBool(ParamLFOBipolar, cfg.LFO.Bipolar)
	if cfg.LFO.Enabled {
		setName("lfo_target", cfg.LFO.Target)
	} else {
		set(ParamLFOTarget, TargetNone)
	}
	set(ParamTempo, cfg.Tempo)

	set(ParamTranspose, float64(cfg.Transpose.Semitones))
	set(ParamTransposeLow, float64(cfg.Transpose.Low))
	set(ParamTransposeHigh, float64(cfg.Transpose.High))
	setBool(ParamPassNonNote, cfg.Transpose.PassNonNote)

	return errors.Join(errs...)
}

// Render fills out with the next block of audio. It applies pending
// parameter changes and queued events first, so everything queued before
// the call is heard from the block's first sample.
//
// Render does not allocate.
func (e *Engine) Render(out []float32) {
	start := time.Now()

	if gen := e.params.Generation(); gen != e.seenGen {
		e.seenGen = gen
		e.applyParams()
	}
	e.queue.ProcessEvents(e.pool, e.scratch)
	e.modulate(len(out))

	e.pool.Process(out)
	e.chain.Process(out)

	e.active.Store(int32(e.pool.ActiveVoices()))
	e.voices.Store(int32(e.pool.Capacity()))
	e.peakBits.Store(math.Float64bits(e.peak.Peak()))
	e.blocks.Add(1)
	e.profiler.Observe(len(out), time.Since(start))
}

// applyParams copies every parameter into the render-side components.
func (e *Engine) applyParams() {
	p := e.params.Get

	if n := p(ParamVoices).Int(); n != e.pool.Capacity() {
		e.pool.SetMaxVoices(n)
	}
	e.pool.SetWaveform(p(ParamWaveform).Int())
	e.pool.SetADSR(
		p(ParamAttack).Float32(),
		p(ParamDecay).Float32(),
		p(ParamSustain).Float32(),
		p(ParamRelease).Float32(),
	)
	e.pool.SetGlideMillis(p(ParamGlide).Float32())

	e.echoSwitch.SetEnabled(p(ParamEcho).Bool())
	e.echo.SetFeedback(p(ParamEchoFeedback).Float32())
	e.output.SetMuted(p(ParamMute).Bool())

	e.lfo.SetParams(
		p(ParamLFOBeats).Float32(),
		p(ParamLFOShape).Int(),
		p(ParamLFOPhase).Float32(),
	)
	e.lfo.SetShaping(
		p(ParamLFODepth).Float32(),
		p(ParamLFOOffset).Float32(),
		p(ParamLFOBipolar).Bool(),
	)
	e.lfoTarget = p(ParamLFOTarget).Int()
	e.tempo = p(ParamTempo).Float32()

	e.baseGain = p(ParamGain).Float32()
	e.baseVolume = p(ParamVolume).Float32()
	e.baseWet = p(ParamEchoWet).Float32()
	e.pool.SetGain(e.baseGain)
	e.output.SetVolume(e.baseVolume)
	e.echo.SetWet(e.baseWet)
}

// modulate advances the LFO by one block and offsets the routed
// parameter from its stored value. Setters clamp the result.
func (e *Engine) modulate(blockSamples int) {
	m := e.lfo.Next(blockSamples, e.tempo)
	e.lfoValue.Store(math.Float32bits(m))

	switch e.lfoTarget {
	case TargetGain:
		e.pool.SetGain(e.baseGain + m)
	case TargetVolume:
		e.output.SetVolume(e.baseVolume + m)
	case TargetEchoWet:
		e.echo.SetWet(e.baseWet + m)
	}
}

// limit keeps the chain output inside [-1, 1] after the echo feedback has
// added to it.
func limit(buffer []float32) {
	for i, x := range buffer {
		buffer[i] = mix.Finalize(x, 1, 1)
	}
}

// LFOValue returns the modulation value used for the last block.
func (e *Engine) LFOValue() float32 {
	return math.Float32frombits(e.lfoValue.Load())
}

// Peak returns the decaying output peak level as of the last block.
func (e *Engine) Peak() float64 {
	return math.Float64frombits(e.peakBits.Load())
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		ActiveVoices:  int(e.active.Load()),
		Polyphony:     int(e.voices.Load()),
		Blocks:        e.blocks.Load(),
		DroppedEvents: e.queue.Dropped(),
		Render:        e.profiler.Stats(),
	}
}

// Profiler returns the render timing profiler.
func (e *Engine) Profiler() *debug.RenderProfiler {
	return e.profiler
}
