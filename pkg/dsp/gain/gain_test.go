package gain

import (
	"math"
	"testing"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		linear float32
		db     float32
	}{
		{1.0, 0.0},
		{0.5, -6.0206},
		{0.1, -20.0},
		{2.0, 6.0206},
	}

	for _, tt := range tests {
		db := LinearToDb(tt.linear)
		if math.Abs(float64(db-tt.db)) > 0.001 {
			t.Errorf("LinearToDb(%f) = %f, want %f", tt.linear, db, tt.db)
		}
		linear := DbToLinear(tt.db)
		if math.Abs(float64(linear-tt.linear)) > 0.001 {
			t.Errorf("DbToLinear(%f) = %f, want %f", tt.db, linear, tt.linear)
		}
	}

	if LinearToDb(0) != MinDB {
		t.Errorf("expected MinDB for silence, got %f", LinearToDb(0))
	}
	if DbToLinear(MinDB) != 0 {
		t.Errorf("expected 0 for MinDB, got %f", DbToLinear(MinDB))
	}
}

func TestApplyBuffer(t *testing.T) {
	buffer := []float32{1.0, 0.5, -0.5, -1.0}
	ApplyBuffer(buffer, 0.5)

	expected := []float32{0.5, 0.25, -0.25, -0.5}
	for i, v := range buffer {
		if v != expected[i] {
			t.Errorf("buffer[%d] = %f, want %f", i, v, expected[i])
		}
	}
}

func TestFade(t *testing.T) {
	buffer := []float32{1.0, 1.0, 1.0, 1.0, 1.0}
	Fade(buffer, 0.0, 1.0)

	expected := []float32{0.0, 0.25, 0.5, 0.75, 1.0}
	for i, v := range buffer {
		if math.Abs(float64(v-expected[i])) > 1e-6 {
			t.Errorf("buffer[%d] = %f, want %f", i, v, expected[i])
		}
	}
}

func TestOutputDefaults(t *testing.T) {
	o := NewOutput()

	if o.Volume() != 0.8 {
		t.Errorf("expected volume 0.8, got %f", o.Volume())
	}
	if o.Muted() {
		t.Error("expected output unmuted")
	}

	buffer := []float32{1, -0.5}
	o.Process(buffer)
	if buffer[0] != 0.8 || buffer[1] != -0.4 {
		t.Errorf("expected volume applied, got %v", buffer)
	}
}

func TestOutputSetVolumeClamps(t *testing.T) {
	o := NewOutput()

	o.SetVolume(1.5)
	if o.Volume() != 1 {
		t.Errorf("expected volume clamped to 1, got %f", o.Volume())
	}
	o.SetVolume(-1)
	if o.Volume() != 0 {
		t.Errorf("expected volume clamped to 0, got %f", o.Volume())
	}
}

func TestOutputMute(t *testing.T) {
	o := NewOutput()
	o.SetMuted(true)

	// first block ramps down
	buffer := []float32{1, 1, 1, 1, 1}
	o.Process(buffer)
	if buffer[0] != 0.8 || buffer[4] != 0 {
		t.Errorf("expected ramp from 0.8 to 0, got %v", buffer)
	}

	buffer = []float32{1, -1, 0.5}
	o.Process(buffer)
	for i, v := range buffer {
		if v != 0 {
			t.Errorf("sample %d: expected silence while muted, got %f", i, v)
		}
	}

	o.SetMuted(false)
	o.Reset()
	buffer = []float32{1}
	o.Process(buffer)
	if buffer[0] != 0.8 {
		t.Errorf("expected volume restored after unmute, got %f", buffer[0])
	}
}

func BenchmarkDbToLinear(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DbToLinear(-6.0)
	}
}
