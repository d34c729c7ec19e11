package output

import (
	"sync"
	"time"
)

// NullPlayer renders at real-time pace and discards the audio. It stands
// in for a sound device on headless machines.
type NullPlayer struct {
	r        Renderer
	buf      []float32
	interval time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// NewNull creates a player that renders one block every blockSize frames'
// worth of wall time.
func NewNull(r Renderer, sampleRate, blockSize int) *NullPlayer {
	if blockSize <= 0 {
		blockSize = 512
	}
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &NullPlayer{
		r:        r,
		buf:      make([]float32, blockSize),
		interval: time.Duration(blockSize) * time.Second / time.Duration(sampleRate),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *NullPlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.started {
		return nil
	}
	p.started = true
	go p.loop()
	return nil
}

func (p *NullPlayer) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.r.Render(p.buf)
		}
	}
}

// Close stops rendering and waits for the last block to finish.
func (p *NullPlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()

	close(p.stop)
	if started {
		<-p.done
	}
	return nil
}
