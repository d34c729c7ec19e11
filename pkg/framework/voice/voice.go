package voice

// Voice is one polyphonic slot. The pool owns voices by value; Voice(i)
// hands out copies.
type Voice struct {
	// Note is the key identity, meaningful only while Active
	Note uint8
	// Active is set from note-on until the released envelope reaches zero
	Active bool
	// KeyDown tracks the physical key independently of the sustain pedal
	KeyDown bool
	// Gate drives the envelope; it stays up after key release while the
	// pedal is held
	Gate bool

	FreqTarget  float32
	FreqCurrent float32

	// Env is the envelope level in [0, 1]
	Env float32
	// Phase is the oscillator phase in radians, kept in [0, 2π)
	Phase float32
	// Velocity scales the voice output, fixed at note-on
	Velocity float32
}

// Sounding reports whether the voice contributes to the mix
func (v *Voice) Sounding() bool {
	return v.Active || v.Env > 0
}

// Stage returns a short description of where the voice is in its lifecycle
func (v *Voice) Stage() string {
	switch {
	case !v.Sounding():
		return "free"
	case v.Gate && v.KeyDown:
		return "held"
	case v.Gate:
		return "sustained"
	default:
		return "releasing"
	}
}
