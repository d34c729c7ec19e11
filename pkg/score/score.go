// Package score runs Lua score scripts and renders them through the engine.
//
// A script schedules events by calling the globals below. Times are in
// beats from the start of the score and are converted to seconds with the
// score tempo.
//
//	tempo(bpm)                   set the score tempo (default 120)
//	note_on(t, note [, vel])     start a note, velocity defaults to 100
//	note_off(t, note)            release a note
//	play(t, note, vel, dur)      note_on at t and note_off at t+dur
//	pedal(t, down)               sustain pedal
//	param(t, name, value)        set a parameter by key; value may be a
//	                             number or its text form ("triangle")
package score

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ErrNoEvents is returned for a script that schedules nothing.
var ErrNoEvents = errors.New("score has no events")

// DefaultTempo is the tempo of a score that never calls tempo().
const DefaultTempo = 120.0

// Kind identifies a score event.
type Kind int

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindPedal
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindPedal:
		return "pedal"
	case KindParam:
		return "param"
	default:
		return "unknown"
	}
}

// Event is one scheduled action. Beat is its time in beats.
type Event struct {
	Beat     float64
	Kind     Kind
	Note     uint8
	Velocity uint8
	Down     bool
	Param    string
	Value    float64
	// Text holds a parameter value given as a string. It takes precedence
	// over Value when set.
	Text string
}

// Score is a parsed, time-ordered list of events.
type Score struct {
	Tempo  float64
	Events []Event
}

// Seconds converts a beat position to seconds at the score tempo.
func (s *Score) Seconds(beat float64) float64 {
	return beat * 60 / s.Tempo
}

// Length returns the time of the last event in seconds.
func (s *Score) Length() float64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Seconds(s.Events[len(s.Events)-1].Beat)
}

// Load reads and runs the script at path.
func Load(ctx context.Context, path string) (*Score, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	return Parse(ctx, path, string(src))
}

// Parse runs src and collects the events it schedules. name is used in
// error messages. Cancelling ctx aborts a running script.
func Parse(ctx context.Context, name, src string) (*Score, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	if err := openSafeLibs(L); err != nil {
		return nil, err
	}

	b := &builder{score: &Score{Tempo: DefaultTempo}}
	b.register(L)

	fn, err := L.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	s := b.score
	if len(s.Events) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoEvents)
	}
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].Beat < s.Events[j].Beat
	})
	return s, nil
}

// openSafeLibs opens the libraries a score needs. io, os and package are
// left out so scripts cannot touch the file system.
func openSafeLibs(L *lua.LState) error {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("open lua %s library: %w", lib.name, err)
		}
	}
	for _, unsafe := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(unsafe, lua.LNil)
	}
	return nil
}

type builder struct {
	score *Score
}

func (b *builder) register(L *lua.LState) {
	L.SetGlobal("tempo", L.NewFunction(b.tempo))
	L.SetGlobal("note_on", L.NewFunction(b.noteOn))
	L.SetGlobal("note_off", L.NewFunction(b.noteOff))
	L.SetGlobal("play", L.NewFunction(b.play))
	L.SetGlobal("pedal", L.NewFunction(b.pedal))
	L.SetGlobal("param", L.NewFunction(b.param))
}

func (b *builder) add(e Event) {
	b.score.Events = append(b.score.Events, e)
}

func (b *builder) tempo(L *lua.LState) int {
	bpm := float64(L.CheckNumber(1))
	if !(bpm > 0) {
		L.ArgError(1, "tempo must be positive")
	}
	b.score.Tempo = bpm
	return 0
}

func (b *builder) noteOn(L *lua.LState) int {
	b.add(Event{
		Beat:     checkBeat(L, 1),
		Kind:     KindNoteOn,
		Note:     checkMIDI(L, 2, "note"),
		Velocity: optVelocity(L, 3),
	})
	return 0
}

func (b *builder) noteOff(L *lua.LState) int {
	b.add(Event{
		Beat: checkBeat(L, 1),
		Kind: KindNoteOff,
		Note: checkMIDI(L, 2, "note"),
	})
	return 0
}

func (b *builder) play(L *lua.LState) int {
	t := checkBeat(L, 1)
	note := checkMIDI(L, 2, "note")
	vel := optVelocity(L, 3)
	dur := float64(L.CheckNumber(4))
	if !(dur > 0) {
		L.ArgError(4, "duration must be positive")
	}
	b.add(Event{Beat: t, Kind: KindNoteOn, Note: note, Velocity: vel})
	b.add(Event{Beat: t + dur, Kind: KindNoteOff, Note: note})
	return 0
}

func (b *builder) pedal(L *lua.LState) int {
	b.add(Event{
		Beat: checkBeat(L, 1),
		Kind: KindPedal,
		Down: L.ToBool(2),
	})
	return 0
}

func (b *builder) param(L *lua.LState) int {
	e := Event{
		Beat:  checkBeat(L, 1),
		Kind:  KindParam,
		Param: L.CheckString(2),
	}
	switch v := L.Get(3).(type) {
	case lua.LNumber:
		e.Value = float64(v)
	case lua.LString:
		e.Text = string(v)
	case lua.LBool:
		if v {
			e.Value = 1
		}
	default:
		L.ArgError(3, "number, string or boolean expected")
	}
	b.add(e)
	return 0
}

func checkBeat(L *lua.LState, n int) float64 {
	t := float64(L.CheckNumber(n))
	if !(t >= 0) {
		L.ArgError(n, "time must be >= 0")
	}
	return t
}

func checkMIDI(L *lua.LState, n int, what string) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 127 {
		L.ArgError(n, what+" must be in 0..127")
	}
	return uint8(v)
}

func optVelocity(L *lua.LState, n int) uint8 {
	if L.Get(n) == lua.LNil {
		return 100
	}
	return checkMIDI(L, n, "velocity")
}
