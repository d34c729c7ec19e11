//go:build portaudio

package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioPlayer plays through the default PortAudio output stream. The
// stream callback renders straight into the device buffer.
type PortAudioPlayer struct {
	stream *portaudio.Stream
	mu     sync.Mutex
	closed bool
}

// NewPortAudio opens the default output device with a mono float32
// stream.
func NewPortAudio(r Renderer, sampleRate, blockSize int) (Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), blockSize, func(out []float32) {
		r.Render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open portaudio stream: %w", err)
	}
	return &PortAudioPlayer{stream: stream}, nil
}

func (p *PortAudioPlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	return p.stream.Start()
}

func (p *PortAudioPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.closed = true
	err := p.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
