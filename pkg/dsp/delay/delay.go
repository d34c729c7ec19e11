// Package delay provides a fixed-length delay line and the echo effect built
// on it
package delay

// Line is a fixed-length circular delay line. A sample written now comes back
// out after exactly Len() calls to Exchange.
type Line struct {
	buffer   []float32
	writePos int
}

// New creates a delay line of the given length in samples, minimum 1
func New(samples int) *Line {
	if samples < 1 {
		samples = 1
	}
	return &Line{
		buffer: make([]float32, samples),
	}
}

// NewSeconds creates a delay line of int(seconds*sampleRate) samples
func NewSeconds(seconds, sampleRate float32) *Line {
	return New(int(seconds * sampleRate))
}

// Len returns the delay in samples
func (d *Line) Len() int {
	return len(d.buffer)
}

// Reset clears the delay buffer
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Peek returns the sample the next Exchange will return
func (d *Line) Peek() float32 {
	return d.buffer[d.writePos]
}

// Exchange returns the oldest sample, replaces it with sample and advances
func (d *Line) Exchange(sample float32) float32 {
	out := d.buffer[d.writePos]
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
	return out
}

// ProcessBuffer delays a buffer in place - no allocations
func (d *Line) ProcessBuffer(buffer []float32) {
	for i := range buffer {
		buffer[i] = d.Exchange(buffer[i])
	}
}
