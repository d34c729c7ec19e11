package analysis

import (
	"math"
	"sync"
)

// PeakMeter measures peak signal levels
type PeakMeter struct {
	peak       float64
	hold       float64
	holdTime   float64
	decayRate  float64
	sampleRate float64
	holdCount  int
	mu         sync.Mutex
}

// NewPeakMeter creates a new peak meter
func NewPeakMeter(sampleRate float64) *PeakMeter {
	return &PeakMeter{
		sampleRate: sampleRate,
		holdTime:   3.0,  // 3 seconds default
		decayRate:  20.0, // 20 dB/second
	}
}

// SetHoldTime sets the peak hold time in seconds
func (pm *PeakMeter) SetHoldTime(seconds float64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.holdTime = seconds
}

// SetDecayRate sets the peak decay rate in dB/second
func (pm *PeakMeter) SetDecayRate(dbPerSecond float64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.decayRate = dbPerSecond
}

// Process updates the meter with a block of samples
func (pm *PeakMeter) Process(samples []float32) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	blockPeak := 0.0
	for _, sample := range samples {
		if a := math.Abs(float64(sample)); a > blockPeak {
			blockPeak = a
		}
	}

	decayPerSample := pm.decayRate / pm.sampleRate / 20.0 * math.Ln10
	pm.peak *= math.Exp(-decayPerSample * float64(len(samples)))
	if blockPeak > pm.peak {
		pm.peak = blockPeak
	}

	if blockPeak > pm.hold {
		pm.hold = blockPeak
		pm.holdCount = int(pm.holdTime * pm.sampleRate)
	} else {
		pm.holdCount -= len(samples)
		if pm.holdCount <= 0 {
			pm.hold = pm.peak
			pm.holdCount = 0
		}
	}
}

// Peak returns the current peak level (linear)
func (pm *PeakMeter) Peak() float64 {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.peak
}

// Hold returns the held peak level (linear)
func (pm *PeakMeter) Hold() float64 {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.hold
}

// HoldDB returns the held peak level in decibels
func (pm *PeakMeter) HoldDB() float64 {
	return toDB(pm.Hold())
}

// Reset clears the peak and hold values
func (pm *PeakMeter) Reset() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peak = 0
	pm.hold = 0
	pm.holdCount = 0
}

// RMSMeter measures RMS (Root Mean Square) levels over a sliding window
type RMSMeter struct {
	buffer   []float64
	writePos int
	sum      float64
	count    int
	mu       sync.Mutex
}

// NewRMSMeter creates a new RMS meter with specified window size
func NewRMSMeter(windowSizeSamples int) *RMSMeter {
	if windowSizeSamples < 1 {
		windowSizeSamples = 1
	}
	return &RMSMeter{
		buffer: make([]float64, windowSizeSamples),
	}
}

// Process updates the RMS meter with new samples
func (rm *RMSMeter) Process(samples []float32) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for _, s := range samples {
		sample := float64(s)
		old := rm.buffer[rm.writePos]
		rm.sum -= old * old

		rm.buffer[rm.writePos] = sample
		rm.sum += sample * sample

		rm.writePos = (rm.writePos + 1) % len(rm.buffer)
		if rm.count < len(rm.buffer) {
			rm.count++
		}
	}
}

// RMS returns the current RMS level (linear)
func (rm *RMSMeter) RMS() float64 {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.count == 0 || rm.sum <= 0 {
		return 0
	}
	return math.Sqrt(rm.sum / float64(rm.count))
}

// RMSDB returns the current RMS level in decibels
func (rm *RMSMeter) RMSDB() float64 {
	return toDB(rm.RMS())
}

// Reset clears the RMS window
func (rm *RMSMeter) Reset() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for i := range rm.buffer {
		rm.buffer[i] = 0
	}
	rm.writePos = 0
	rm.sum = 0
	rm.count = 0
}

func toDB(linear float64) float64 {
	if linear > 0 {
		return 20.0 * math.Log10(linear)
	}
	return math.Inf(-1)
}
