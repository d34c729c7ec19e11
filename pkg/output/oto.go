package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays through the platform audio API via oto.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	reader *pcmReader
	mu     sync.Mutex
	closed bool
}

// NewOto opens the default output device as mono float32.
func NewOto(r Renderer, sampleRate, blockSize int) (*OtoPlayer, error) {
	if blockSize <= 0 {
		blockSize = 512
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(blockSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("open oto context: %w", err)
	}
	<-ready

	reader := newPCMReader(r, blockSize)
	return &OtoPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(reader),
		reader: reader,
	}, nil
}

// Start begins playback.
func (p *OtoPlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.player.Play()
	return nil
}

// Close stops playback. The oto context itself lives for the rest of the
// process.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.closed = true
	return p.player.Close()
}

// pcmReader adapts a Renderer to the io.Reader oto pulls from, encoding
// float32 little-endian samples.
type pcmReader struct {
	r   Renderer
	buf []float32
}

func newPCMReader(r Renderer, blockSize int) *pcmReader {
	return &pcmReader{r: r, buf: make([]float32, blockSize)}
}

func (pr *pcmReader) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	// Oto asks for more than one block at a time after a stall.
	if frames > len(pr.buf) {
		pr.buf = make([]float32, frames)
	}
	samples := pr.buf[:frames]
	pr.r.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 4, nil
}
