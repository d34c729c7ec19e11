// Package output delivers rendered audio to a sound device or a file.
package output

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned by operations on a closed player or writer.
	ErrClosed = errors.New("output closed")
	// ErrUnknownBackend is returned by Open for an unrecognised name.
	ErrUnknownBackend = errors.New("unknown output backend")
	// ErrBackendUnavailable is returned for a backend left out of the build.
	ErrBackendUnavailable = errors.New("backend not built in")
)

// Renderer produces the next block of mono audio. Real-time players call
// it from their own audio goroutine, one call at a time.
type Renderer interface {
	Render(out []float32)
}

// Player pulls audio from a Renderer in real time.
type Player interface {
	Start() error
	Close() error
}

// Sink accepts rendered audio, such as a file.
type Sink interface {
	Write(samples []float32) error
	Close() error
}

// Backends lists the names Open accepts.
func Backends() []string {
	return []string{"oto", "portaudio", "null"}
}

// Open creates the named real-time player. blockSize is a hint for the
// device buffer size in frames.
func Open(name string, r Renderer, sampleRate, blockSize int) (Player, error) {
	switch strings.ToLower(name) {
	case "oto", "":
		return NewOto(r, sampleRate, blockSize)
	case "portaudio":
		return NewPortAudio(r, sampleRate, blockSize)
	case "null":
		return NewNull(r, sampleRate, blockSize), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
