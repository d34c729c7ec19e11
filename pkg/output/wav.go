package output

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag.
const wavFormatPCM = 1

// WAVWriter is a Sink that encodes mono integer PCM.
type WAVWriter struct {
	enc    *wav.Encoder
	file   *os.File
	buf    *audio.IntBuffer
	scale  float64
	frames int
	closed bool
}

// CreateWAV creates path and returns a writer for it. bitDepth must be 16
// or 24.
func CreateWAV(path string, sampleRate, bitDepth int) (*WAVWriter, error) {
	if err := checkBitDepth(bitDepth); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav: %w", err)
	}
	w := NewWAVWriter(f, sampleRate, bitDepth)
	w.file = f
	return w, nil
}

// NewWAVWriter encodes into ws. Closing the writer finalizes the header
// but does not close ws.
func NewWAVWriter(ws io.WriteSeeker, sampleRate, bitDepth int) *WAVWriter {
	if checkBitDepth(bitDepth) != nil {
		bitDepth = 16
	}
	return &WAVWriter{
		enc: wav.NewEncoder(ws, sampleRate, bitDepth, 1, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		scale: float64(int(1)<<(bitDepth-1) - 1),
	}
}

func checkBitDepth(bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	return nil
}

// Write appends samples, clipping them to [-1, 1].
func (w *WAVWriter) Write(samples []float32) error {
	if w.closed {
		return ErrClosed
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		v := float64(s)
		switch {
		case math.IsNaN(v):
			v = 0
		case v < -1:
			v = -1
		case v > 1:
			v = 1
		}
		w.buf.Data[i] = int(math.Round(v * w.scale))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	w.frames += len(samples)
	return nil
}

// Frames returns the number of frames written.
func (w *WAVWriter) Frames() int {
	return w.frames
}

// Close writes the final header and closes the file if the writer
// created it.
func (w *WAVWriter) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	err := w.enc.Close()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
