//go:build !portaudio

package output

import "fmt"

// NewPortAudio reports ErrBackendUnavailable. Build with -tags portaudio
// to link PortAudio.
func NewPortAudio(r Renderer, sampleRate, blockSize int) (Player, error) {
	return nil, fmt.Errorf("portaudio: %w (build with -tags portaudio)", ErrBackendUnavailable)
}
