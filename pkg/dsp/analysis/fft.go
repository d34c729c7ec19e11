package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// ErrTooShort is returned when there are fewer samples than one FFT frame
var ErrTooShort = errors.New("analysis: not enough samples")

// WindowFunc represents a window function type
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	HammingWindow
	BlackmanWindow
)

// FFT computes magnitude spectra of real signals
type FFT struct {
	size       int
	plan       fft.FFT
	windowData []float64
	buf        []complex128
	magnitude  []float64
}

// NewFFT creates an FFT of the given size, which must be a power of two
func NewFFT(size int, window WindowFunc) (*FFT, error) {
	plan, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("fft size %d: %w", size, err)
	}
	f := &FFT{
		size:       size,
		plan:       plan,
		windowData: make([]float64, size),
		buf:        make([]complex128, size),
		magnitude:  make([]float64, size/2+1),
	}
	f.calculateWindow(window)
	return f, nil
}

func (f *FFT) calculateWindow(window WindowFunc) {
	n := float64(f.size)

	switch window {
	case HannWindow:
		for i := range f.windowData {
			f.windowData[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/(n-1.0)))
		}
	case HammingWindow:
		for i := range f.windowData {
			f.windowData[i] = 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/(n-1.0))
		}
	case BlackmanWindow:
		for i := range f.windowData {
			val := 0.42 - 0.5*math.Cos(2.0*math.Pi*float64(i)/(n-1.0)) +
				0.08*math.Cos(4.0*math.Pi*float64(i)/(n-1.0))
			if val < 0 {
				val = 0
			}
			f.windowData[i] = val
		}
	default:
		for i := range f.windowData {
			f.windowData[i] = 1.0
		}
	}
}

// Size returns the frame length
func (f *FFT) Size() int {
	return f.size
}

// Forward windows the first Size() samples of input and returns the
// magnitude of bins 0..Size()/2. The returned slice is reused by the next
// call. Missing input samples are treated as zero.
func (f *FFT) Forward(input []float32) []float64 {
	for i := range f.buf {
		var x float64
		if i < len(input) {
			x = float64(input[i])
		}
		f.buf[i] = complex(x*f.windowData[i], 0)
	}

	f.buf = f.plan.Transform(f.buf)

	for i := range f.magnitude {
		f.magnitude[i] = cmplx.Abs(f.buf[i])
	}
	return f.magnitude
}

// BinFrequency returns the center frequency of a bin
func (f *FFT) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}

// DominantFrequency estimates the strongest frequency in samples using a
// Hann-windowed FFT of the largest power of two that fits (capped at 65536).
// The peak bin is refined by parabolic interpolation of its neighbours.
func DominantFrequency(samples []float32, sampleRate float64) (float64, error) {
	size := 1
	for size*2 <= len(samples) && size < 65536 {
		size *= 2
	}
	if size < 64 {
		return 0, ErrTooShort
	}

	f, err := NewFFT(size, HannWindow)
	if err != nil {
		return 0, err
	}
	mag := f.Forward(samples[len(samples)-size:])

	peak := 1
	for i := 2; i < len(mag)-1; i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}
	if mag[peak] == 0 {
		return 0, nil
	}

	bin := float64(peak)
	if peak+1 < len(mag) {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return bin * sampleRate / float64(size), nil
}
