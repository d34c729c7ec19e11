package param

import (
	"math"
	"testing"
)

var modeOptions = []ChoiceOption{
	{Value: 0, Name: "Off", Aliases: []string{"disabled", "none"}},
	{Value: 1, Name: "Low", Aliases: []string{"lo"}},
	{Value: 2, Name: "Medium", Aliases: []string{"med", "mid"}},
	{Value: 3, Name: "High", Aliases: []string{"hi"}},
}

func TestChoice(t *testing.T) {
	param := Choice(100, "mode", "Mode", modeOptions).Build()

	if param.Flags&IsList == 0 {
		t.Error("expected choice to be flagged as a list")
	}

	t.Run("Formatter", func(t *testing.T) {
		for _, opt := range modeOptions {
			result := param.FormatValue(opt.Value / 3.0)
			if result != opt.Name {
				t.Errorf("FormatValue(%f) = %s, want %s", opt.Value, result, opt.Name)
			}
		}
	})

	t.Run("Parser", func(t *testing.T) {
		tests := []struct {
			input         string
			expectedPlain float64
		}{
			{"Off", 0},
			{"disabled", 0},
			{"low", 1},
			{"MID", 2},
			{"hi", 3},
			{"2", 2},
		}

		for _, test := range tests {
			normalized, err := param.ParseValue(test.input)
			if err != nil {
				t.Errorf("ParseValue(%s) error: %v", test.input, err)
				continue
			}
			if plain := param.Denormalize(normalized); plain != test.expectedPlain {
				t.Errorf("ParseValue(%s) = %f, want %f", test.input, plain, test.expectedPlain)
			}
		}

		if _, err := param.ParseValue("ultra"); err == nil {
			t.Error("expected error for unknown option")
		}
	})

	t.Run("Int", func(t *testing.T) {
		param.SetPlainValue(2.4)
		if param.Int() != 2 {
			t.Errorf("expected value to snap to option 2, got %d", param.Int())
		}
	})
}

func TestSecondsParameter(t *testing.T) {
	p := SecondsParameter(1, "attack", "Attack", 5, 0.005).Build()

	if math.Abs(p.GetPlainValue()-0.005) > 1e-9 {
		t.Errorf("expected default 0.005, got %f", p.GetPlainValue())
	}
	if p.String() != "5.0 ms" {
		t.Errorf("expected 5.0 ms, got %s", p.String())
	}

	normalized, err := p.ParseValue("1.5 s")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if math.Abs(p.Denormalize(normalized)-1.5) > 1e-9 {
		t.Errorf("expected 1.5 s, got %f", p.Denormalize(normalized))
	}
}

func TestMixParameter(t *testing.T) {
	p := MixParameter(2, "wet", "Wet", 0.3).Build()

	if p.String() != "30%" {
		t.Errorf("expected 30%%, got %s", p.String())
	}
	normalized, err := p.ParseValue("75%")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if math.Abs(normalized-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", normalized)
	}
}

func TestIntAndNoteParameters(t *testing.T) {
	voices := IntParameter(3, "voices", "Voices", 1, 32, 8).Build()
	if voices.Int() != 8 {
		t.Errorf("expected default 8 voices, got %d", voices.Int())
	}
	voices.SetPlainValue(40)
	if voices.Int() != 32 {
		t.Errorf("expected voices clamped to 32, got %d", voices.Int())
	}

	low := NoteParameter(4, "low", "Low Key", 36).Build()
	if low.String() != "C2" {
		t.Errorf("expected C2, got %s", low.String())
	}
	normalized, err := low.ParseValue("A4")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if low.Denormalize(normalized) != 69 {
		t.Errorf("expected A4 to be 69, got %f", low.Denormalize(normalized))
	}
}

func TestToggle(t *testing.T) {
	p := New(5, "mute", "Mute").Toggle(false).Build()
	if p.Bool() {
		t.Error("expected toggle off by default")
	}

	normalized, err := p.ParseValue("on")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	p.SetValue(normalized)
	if !p.Bool() || p.String() != "On" {
		t.Errorf("expected toggle on, got %s", p.String())
	}

	if !New(6, "pass", "Pass").Toggle(true).Build().Bool() {
		t.Error("expected toggle built on to read on")
	}
}
