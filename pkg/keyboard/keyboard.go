package keyboard

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/justyntemme/polysynth/pkg/framework/debug"
)

const (
	DefaultOctave   = 4
	DefaultVelocity = 100
	DefaultHold     = 300 * time.Millisecond
	MinOctave       = 0
	MaxOctave       = 8
)

// Synth is the engine surface the keyboard drives.
type Synth interface {
	NoteOn(note, velocity uint8) bool
	NoteOff(note uint8) bool
	SustainPedal(down bool) bool
	SetParam(key string, plain float64) error
}

// Keyboard maps key presses to synth calls. Terminals send no key-up, so
// every note is released after a fixed hold time; pressing the same key
// again restarts that time.
type Keyboard struct {
	synth    Synth
	log      *debug.Logger
	velocity uint8
	hold     time.Duration

	mu      sync.Mutex
	octave  int
	sustain bool
	timers  map[uint8]*time.Timer
	closed  bool
}

// New creates a keyboard starting at octave 4 (a plays middle C). A nil
// log uses the default logger.
func New(synth Synth, hold time.Duration, log *debug.Logger) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	if log == nil {
		log = debug.Default()
	}
	return &Keyboard{
		synth:    synth,
		log:      log.Named("keyboard"),
		velocity: DefaultVelocity,
		hold:     hold,
		octave:   DefaultOctave,
		timers:   make(map[uint8]*time.Timer),
	}
}

// Octave returns the current octave.
func (k *Keyboard) Octave() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.octave
}

// Sustain reports whether the pedal is held.
func (k *Keyboard) Sustain() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sustain
}

// Press handles one key and reports whether it asked to quit.
func (k *Keyboard) Press(key byte) bool {
	action := Lookup(key)

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return true
	}

	switch action.Kind {
	case KindNote:
		k.playLocked(uint8(12*(k.octave+1) + action.Value))
	case KindOctaveDown:
		if k.octave > MinOctave {
			k.octave--
		}
	case KindOctaveUp:
		if k.octave < MaxOctave {
			k.octave++
		}
	case KindSustain:
		k.sustain = !k.sustain
		k.synth.SustainPedal(k.sustain)
	case KindWaveform:
		if err := k.synth.SetParam("waveform", float64(action.Value)); err != nil {
			k.log.Debug("waveform %d: %v", action.Value, err)
		}
	case KindQuit:
		return true
	}
	return false
}

func (k *Keyboard) playLocked(note uint8) {
	if t, ok := k.timers[note]; ok {
		t.Stop()
	}
	k.synth.NoteOn(note, k.velocity)

	var t *time.Timer
	t = time.AfterFunc(k.hold, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		// A newer press owns the note now.
		if k.timers[note] != t {
			return
		}
		delete(k.timers, note)
		k.synth.NoteOff(note)
	})
	k.timers[note] = t
}

// Close releases every sounding note and the pedal. Later presses are
// ignored.
func (k *Keyboard) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true

	for note, t := range k.timers {
		t.Stop()
		k.synth.NoteOff(note)
		delete(k.timers, note)
	}
	if k.sustain {
		k.sustain = false
		k.synth.SustainPedal(false)
	}
}

// Run feeds bytes from in to Press until quit, end of input or ctx is
// done. A blocked read is abandoned rather than interrupted when ctx ends.
func (k *Keyboard) Run(ctx context.Context, in io.Reader) error {
	keys := make(chan byte)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				case <-done:
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key := <-keys:
			if k.Press(key) {
				return nil
			}
		case err := <-errc:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// MakeRaw puts f into raw mode when it is a terminal so single key
// presses arrive unbuffered and unechoed. The returned function restores
// the previous mode; for a non-terminal it does nothing.
func MakeRaw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, state) }, nil
}
