package param

import (
	"fmt"
	"strconv"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter. Option
// values are expected to be consecutive integers.
func Choice(id uint32, key, name string, options []ChoiceOption) *Builder {
	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		str = strings.TrimSpace(str)
		for _, opt := range options {
			if strings.EqualFold(str, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(str, alias) {
					return opt.Value, nil
				}
			}
		}
		if v, err := parseFloat(str); err == nil {
			return v, nil
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal, maxVal := 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	b := New(id, key, name).
		Range(minVal, maxVal).
		Steps(int32(len(options) - 1)).
		Formatter(formatter, parser)
	b.param.Flags |= IsList
	if len(options) > 0 {
		b.Default(options[0].Value)
	}
	return b
}

// MixParameter creates a 0-1 amount shown as a percentage
func MixParameter(id uint32, key, name string, defaultVal float64) *Builder {
	return New(id, key, name).
		Range(0, 1).
		Default(defaultVal).
		Unit("%").
		Formatter(func(v float64) string {
			return PercentFormatter(v * 100)
		}, func(s string) (float64, error) {
			v, err := PercentParser(s)
			return v / 100, err
		})
}

// SecondsParameter creates a time parameter stored in seconds
func SecondsParameter(id uint32, key, name string, maxSec, defaultSec float64) *Builder {
	return New(id, key, name).
		Range(0, maxSec).
		Default(defaultSec).
		Unit("s").
		Formatter(func(v float64) string {
			return TimeFormatter(v * 1000)
		}, func(s string) (float64, error) {
			ms, err := TimeParser(s)
			return ms / 1000, err
		})
}

// MillisecondsParameter creates a time parameter stored in milliseconds
func MillisecondsParameter(id uint32, key, name string, maxMs, defaultMs float64) *Builder {
	return New(id, key, name).
		Range(0, maxMs).
		Default(defaultMs).
		Unit("ms").
		Formatter(TimeFormatter, TimeParser)
}

// IntParameter creates an integer parameter with one step per value
func IntParameter(id uint32, key, name string, min, max, defaultVal int) *Builder {
	return New(id, key, name).
		Range(float64(min), float64(max)).
		Steps(int32(max - min)).
		Default(float64(defaultVal))
}

// NoteParameter creates a MIDI key parameter shown as a note name
func NoteParameter(id uint32, key, name string, defaultNote int) *Builder {
	return IntParameter(id, key, name, 0, 127, defaultNote).
		Formatter(NoteFormatter, NoteParser)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
