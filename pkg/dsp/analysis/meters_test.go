package analysis

import (
	"math"
	"testing"
)

func TestPeakMeter(t *testing.T) {
	pm := NewPeakMeter(44100)

	pm.Process([]float32{0.1, 0.5, 0.3, -0.7, 0.2})

	if math.Abs(pm.Peak()-0.7) > 0.001 {
		t.Errorf("expected peak 0.7, got %f", pm.Peak())
	}
	if math.Abs(pm.Hold()-0.7) > 0.001 {
		t.Errorf("expected hold 0.7, got %f", pm.Hold())
	}
	expectedDB := 20.0 * math.Log10(0.7)
	if math.Abs(pm.HoldDB()-expectedDB) > 0.001 {
		t.Errorf("expected hold %f dB, got %f", expectedDB, pm.HoldDB())
	}
}

func TestPeakMeterDecay(t *testing.T) {
	sampleRate := 44100.0
	pm := NewPeakMeter(sampleRate)
	pm.SetDecayRate(20.0)

	pm.Process([]float32{1.0})
	pm.Process(make([]float32, int(0.1*sampleRate)))

	// 20 dB/s over 0.1s is 2 dB
	actualDB := 20.0 * math.Log10(pm.Peak())
	if math.Abs(actualDB+2.0) > 0.1 {
		t.Errorf("expected about -2 dB after decay, got %f dB", actualDB)
	}
	if pm.Hold() != 1.0 {
		t.Errorf("expected hold to keep 1.0 within hold time, got %f", pm.Hold())
	}
}

func TestPeakMeterHoldExpires(t *testing.T) {
	pm := NewPeakMeter(1000)
	pm.SetHoldTime(0.01)

	pm.Process([]float32{1.0})
	pm.Process(make([]float32, 20))

	if pm.Hold() != pm.Peak() {
		t.Errorf("expected hold to fall back to peak, got hold %f peak %f", pm.Hold(), pm.Peak())
	}

	pm.Reset()
	if pm.Peak() != 0 || pm.Hold() != 0 {
		t.Error("expected reset meter to read zero")
	}
	if !math.IsInf(pm.HoldDB(), -1) {
		t.Errorf("expected -Inf dB for silence, got %f", pm.HoldDB())
	}
}

func TestRMSMeter(t *testing.T) {
	rm := NewRMSMeter(960) // two whole periods at 100 Hz

	rm.Process(sine(100, 48000, 48000))

	expected := 1.0 / math.Sqrt2
	if math.Abs(rm.RMS()-expected) > 0.01 {
		t.Errorf("expected RMS %f, got %f", expected, rm.RMS())
	}
}

func TestRMSMeterWindow(t *testing.T) {
	rm := NewRMSMeter(4)

	rm.Process([]float32{1, 1, 1, 1})
	rm.Process([]float32{0, 0})

	expected := math.Sqrt(0.5)
	if math.Abs(rm.RMS()-expected) > 1e-9 {
		t.Errorf("expected RMS %f over the window, got %f", expected, rm.RMS())
	}

	rm.Reset()
	if rm.RMS() != 0 {
		t.Errorf("expected 0 after reset, got %f", rm.RMS())
	}
	if !math.IsInf(rm.RMSDB(), -1) {
		t.Errorf("expected -Inf dB after reset, got %f", rm.RMSDB())
	}
}
