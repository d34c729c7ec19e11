package dsp

import (
	"strings"
	"testing"
)

// scaleProcessor multiplies every sample by a constant.
type scaleProcessor struct {
	multiplier float32
	processed  int
	resets     int
}

func (s *scaleProcessor) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] *= s.multiplier
	}
	s.processed++
}

func (s *scaleProcessor) Reset() {
	s.resets++
}

// sumMeter records the sum of everything it sees.
type sumMeter struct {
	sum float32
}

func (m *sumMeter) Process(samples []float32) {
	for _, s := range samples {
		m.sum += s
	}
}

func (m *sumMeter) Reset() {
	m.sum = 0
}

func TestChain(t *testing.T) {
	t.Run("Order", func(t *testing.T) {
		chain := NewChain("test")
		chain.Add("double", &scaleProcessor{multiplier: 2})
		chain.AddFunc("offset", func(buf []float32) {
			for i := range buf {
				buf[i] += 1
			}
		})

		buffer := []float32{1, 2, 3}
		chain.Process(buffer)

		// (x*2)+1, not (x+1)*2
		expected := []float32{3, 5, 7}
		for i, v := range buffer {
			if v != expected[i] {
				t.Errorf("sample %d: expected %f, got %f", i, expected[i], v)
			}
		}
		if chain.Count() != 2 {
			t.Errorf("expected 2 processors, got %d", chain.Count())
		}
		if strings.Join(chain.Names(), ",") != "double,offset" {
			t.Errorf("expected names double,offset, got %v", chain.Names())
		}
	})

	t.Run("Bypass", func(t *testing.T) {
		p := &scaleProcessor{multiplier: 0}
		chain := NewChain("bypass").Add("mute", p)
		chain.SetBypass(true)

		buffer := []float32{1, 1}
		chain.Process(buffer)
		if buffer[0] != 1 || p.processed != 0 {
			t.Errorf("expected bypassed chain to leave audio alone, got %v", buffer)
		}
		if !chain.Bypassed() {
			t.Error("expected chain to report bypass")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		a := &scaleProcessor{multiplier: 1}
		b := &scaleProcessor{multiplier: 1}
		chain := NewChain("reset").Add("a", a).Add("b", b)

		chain.Reset()
		if a.resets != 1 || b.resets != 1 {
			t.Errorf("expected every processor reset once, got %d %d", a.resets, b.resets)
		}
	})

	t.Run("Get", func(t *testing.T) {
		p := &scaleProcessor{multiplier: 1}
		chain := NewChain("get").Add("scale", p)

		got, ok := chain.Get("scale")
		if !ok || got != Processor(p) {
			t.Errorf("expected to find scale processor, got %v %t", got, ok)
		}
		if _, ok := chain.Get("missing"); ok {
			t.Error("expected missing processor lookup to fail")
		}
	})

	t.Run("NoAllocations", func(t *testing.T) {
		chain := NewChain("alloc").
			Add("a", &scaleProcessor{multiplier: 0.5}).
			Add("b", NewSwitch(&scaleProcessor{multiplier: 2}, true))
		buffer := make([]float32, 256)

		allocs := testing.AllocsPerRun(100, func() {
			chain.Process(buffer)
		})
		if allocs != 0 {
			t.Errorf("expected 0 allocations, got %f", allocs)
		}
	})
}

func TestBuilder(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*Chain, error)
		wantErr string
	}{
		{
			name: "valid",
			build: func() (*Chain, error) {
				return NewBuilder("ok").
					WithProcessor("scale", &scaleProcessor{multiplier: 1}).
					WithFunc("noop", func([]float32) {}).
					Build()
			},
		},
		{
			name: "empty",
			build: func() (*Chain, error) {
				return NewBuilder("none").Build()
			},
			wantErr: "empty",
		},
		{
			name: "nil processor",
			build: func() (*Chain, error) {
				return NewBuilder("nil").WithProcessor("x", nil).Build()
			},
			wantErr: "cannot be nil",
		},
		{
			name: "nil func",
			build: func() (*Chain, error) {
				return NewBuilder("nil").WithFunc("x", nil).Build()
			},
			wantErr: "cannot be nil",
		},
		{
			name: "duplicate",
			build: func() (*Chain, error) {
				return NewBuilder("dup").
					WithProcessor("x", &scaleProcessor{}).
					WithProcessor("x", &scaleProcessor{}).
					Build()
			},
			wantErr: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := tt.build()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if chain.Count() != 2 {
					t.Errorf("expected 2 processors, got %d", chain.Count())
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSwitch(t *testing.T) {
	p := &scaleProcessor{multiplier: 0}
	s := NewSwitch(p, false)

	buffer := []float32{1, 1}
	s.Process(buffer)
	if buffer[0] != 1 {
		t.Errorf("expected disabled switch to pass audio, got %f", buffer[0])
	}

	s.SetEnabled(true)
	if p.resets != 1 {
		t.Errorf("expected enabling to reset the inner processor, got %d resets", p.resets)
	}
	s.SetEnabled(true)
	if p.resets != 1 {
		t.Errorf("expected re-enabling to be a no-op, got %d resets", p.resets)
	}

	s.Process(buffer)
	if buffer[0] != 0 {
		t.Errorf("expected enabled switch to process, got %f", buffer[0])
	}
	if s.Inner() != Processor(p) || !s.Enabled() {
		t.Error("expected accessors to reflect wrapped processor")
	}
}

func TestTap(t *testing.T) {
	m1 := &sumMeter{}
	m2 := &sumMeter{}
	tap := NewTap(m1, m2)

	buffer := []float32{0.25, 0.5}
	tap.Process(buffer)
	if buffer[0] != 0.25 || buffer[1] != 0.5 {
		t.Errorf("expected tap to leave audio unchanged, got %v", buffer)
	}
	if m1.sum != 0.75 || m2.sum != 0.75 {
		t.Errorf("expected both meters to see 0.75, got %f %f", m1.sum, m2.sum)
	}

	tap.Reset()
	if m1.sum != 0 {
		t.Errorf("expected reset meters, got %f", m1.sum)
	}
}

func BenchmarkChain(b *testing.B) {
	chain := NewChain("bench").
		Add("a", &scaleProcessor{multiplier: 0.9}).
		Add("b", &scaleProcessor{multiplier: 1.1})
	buffer := make([]float32, 512)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chain.Process(buffer)
	}
}
