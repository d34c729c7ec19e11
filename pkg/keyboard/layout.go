// Package keyboard turns a computer keyboard into a note controller.
//
// Two rows form one octave from C:
//
//	 w e   t y u
//	a s d f g h j k
//
// z and x shift the octave, space toggles the sustain pedal, 1-4 pick the
// waveform and q or Ctrl-C quits.
package keyboard

// Kind is what a key does.
type Kind int

const (
	KindNone Kind = iota
	KindNote
	KindOctaveDown
	KindOctaveUp
	KindSustain
	KindWaveform
	KindQuit
)

// Action is the meaning of one key press. Value is the semitone above C
// for KindNote and the waveform index for KindWaveform.
type Action struct {
	Kind  Kind
	Value int
}

const ctrlC = 0x03

var noteKeys = []byte("awsedftgyhujk")

// Lookup returns the action bound to key. Letters are case-insensitive.
func Lookup(key byte) Action {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	for i, k := range noteKeys {
		if k == key {
			return Action{Kind: KindNote, Value: i}
		}
	}
	switch key {
	case 'z':
		return Action{Kind: KindOctaveDown}
	case 'x':
		return Action{Kind: KindOctaveUp}
	case ' ':
		return Action{Kind: KindSustain}
	case '1', '2', '3', '4':
		return Action{Kind: KindWaveform, Value: int(key - '1')}
	case 'q', ctrlC:
		return Action{Kind: KindQuit}
	}
	return Action{}
}

// Help describes the key bindings on one line.
func Help() string {
	return "keys: a-k play (w e t y u sharps), z/x octave, space sustain, 1-4 waveform, q quit"
}
