package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter represents a synth parameter
type Parameter struct {
	ID           uint32
	Key          string
	Name         string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64
	StepCount    int32
	Flags        uint32

	// Atomic value for lock-free access in audio thread
	value atomic.Uint64

	// Bumped on every store when the parameter belongs to a registry
	generation *atomic.Uint64

	// Value formatting
	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1)
func (p *Parameter) SetValue(value float64) {
	if !(value >= 0) {
		value = 0
	} else if value > 1 {
		value = 1
	}

	p.value.Store(math.Float64bits(value))
	if p.generation != nil {
		p.generation.Add(1)
	}
}

// GetPlainValue converts normalized to plain value. Stepped parameters are
// rounded to the nearest step.
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Int returns the plain value rounded to an integer
func (p *Parameter) Int() int {
	return int(math.Round(p.GetPlainValue()))
}

// Bool reports whether a toggle parameter is on
func (p *Parameter) Bool() bool {
	return p.GetValue() >= 0.5
}

// Float32 returns the plain value as float32
func (p *Parameter) Float32() float32 {
	return float32(p.GetPlainValue())
}

// Reset restores the default value
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)

	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.3f", plain)
}

// String formats the current value
func (p *Parameter) String() string {
	return p.FormatValue(p.GetValue())
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min || math.IsNaN(plain) {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	plain := p.Min + normalized*(p.Max-p.Min)
	if p.StepCount > 0 {
		step := (p.Max - p.Min) / float64(p.StepCount)
		plain = p.Min + math.Round((plain-p.Min)/step)*step
	}
	return plain
}
