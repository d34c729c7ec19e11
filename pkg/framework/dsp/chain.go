// Package dsp chains mono block processors behind the voice pool.
package dsp

import (
	"fmt"
)

// Processor represents a DSP processor that can be chained.
type Processor interface {
	// Process processes audio in-place
	Process(buffer []float32)

	// Reset resets the processor state
	Reset()
}

// ProcessorFunc allows using a function as a Processor.
type ProcessorFunc func([]float32)

func (f ProcessorFunc) Process(buffer []float32) {
	f(buffer)
}

func (f ProcessorFunc) Reset() {}

// Chain runs its processors in insertion order over the same buffer.
// Processing never allocates; building the chain does.
type Chain struct {
	processors []Processor
	names      []string
	name       string
	bypass     bool
}

// NewChain creates a new DSP chain.
func NewChain(name string) *Chain {
	return &Chain{name: name}
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return c.name
}

// Add appends a named processor.
func (c *Chain) Add(name string, processor Processor) *Chain {
	c.processors = append(c.processors, processor)
	c.names = append(c.names, name)
	return c
}

// AddFunc appends a processing function.
func (c *Chain) AddFunc(name string, process func([]float32)) *Chain {
	return c.Add(name, ProcessorFunc(process))
}

// Process processes audio through the chain.
func (c *Chain) Process(buffer []float32) {
	if c.bypass {
		return
	}

	for _, processor := range c.processors {
		processor.Process(buffer)
	}
}

// Reset resets all processors in the chain.
func (c *Chain) Reset() {
	for _, processor := range c.processors {
		processor.Reset()
	}
}

// SetBypass sets the bypass state of the chain.
func (c *Chain) SetBypass(bypass bool) {
	c.bypass = bypass
}

// Bypassed reports whether the chain passes audio through untouched.
func (c *Chain) Bypassed() bool {
	return c.bypass
}

// IsEmpty returns true if the chain has no processors.
func (c *Chain) IsEmpty() bool {
	return len(c.processors) == 0
}

// Count returns the number of processors in the chain.
func (c *Chain) Count() int {
	return len(c.processors)
}

// Names returns the processor names in processing order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Get returns the processor registered under name.
func (c *Chain) Get(name string) (Processor, bool) {
	for i, n := range c.names {
		if n == name {
			return c.processors[i], true
		}
	}
	return nil, false
}

// Builder provides a fluent API for building DSP chains.
type Builder struct {
	chain  *Chain
	errors []error
}

// NewBuilder creates a new chain builder.
func NewBuilder(name string) *Builder {
	return &Builder{chain: NewChain(name)}
}

// WithProcessor adds a processor to the chain.
func (b *Builder) WithProcessor(name string, processor Processor) *Builder {
	if processor == nil {
		b.errors = append(b.errors, fmt.Errorf("processor %q cannot be nil", name))
		return b
	}
	if _, exists := b.chain.Get(name); exists {
		b.errors = append(b.errors, fmt.Errorf("duplicate processor name %q", name))
		return b
	}
	b.chain.Add(name, processor)
	return b
}

// WithFunc adds a processing function to the chain.
func (b *Builder) WithFunc(name string, process func([]float32)) *Builder {
	if process == nil {
		b.errors = append(b.errors, fmt.Errorf("process function %q cannot be nil", name))
		return b
	}
	return b.WithProcessor(name, ProcessorFunc(process))
}

// Build builds the chain and returns any errors.
func (b *Builder) Build() (*Chain, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("chain %s: build errors: %v", b.chain.name, b.errors)
	}
	if b.chain.IsEmpty() {
		return nil, fmt.Errorf("chain %s is empty", b.chain.name)
	}
	return b.chain, nil
}
