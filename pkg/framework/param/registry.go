package param

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrUnknownParameter is returned when a key or ID is not registered
var ErrUnknownParameter = errors.New("unknown parameter")

// Registry manages synth parameters.
//
// Lookups take a read lock; values themselves are atomic, so the audio
// thread can hold *Parameter references and read them without locking.
type Registry struct {
	params     map[uint32]*Parameter
	byKey      map[string]*Parameter
	order      []uint32 // Maintain order for indexed access
	generation atomic.Uint64
	mu         sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		byKey:  make(map[string]*Parameter),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters. Duplicate IDs or keys are an error.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter id %d already registered", p.ID)
		}
		key := strings.ToLower(p.Key)
		if key != "" {
			if _, exists := r.byKey[key]; exists {
				return fmt.Errorf("parameter key %q already registered", p.Key)
			}
			r.byKey[key] = p
		}
		p.generation = &r.generation
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// Lookup retrieves a parameter by key, ignoring case
func (r *Registry) Lookup(key string) (*Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byKey[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p, nil
}

// SetPlain sets a parameter by key from a plain value
func (r *Registry) SetPlain(key string, plain float64) error {
	p, err := r.Lookup(key)
	if err != nil {
		return err
	}
	p.SetPlainValue(plain)
	return nil
}

// SetString sets a parameter by key from its text form
func (r *Registry) SetString(key, text string) error {
	p, err := r.Lookup(key)
	if err != nil {
		return err
	}
	normalized, err := p.ParseValue(text)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", p.Key, err)
	}
	p.SetValue(normalized)
	return nil
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// Generation changes whenever any registered value is stored. Comparing it
// with a previously seen generation tells the audio thread whether it needs
// to re-read parameters.
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}

// ResetAll restores every parameter to its default
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
