// Package registry maps composition identifiers to their component, video
// settings and default props.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/ivlev/reelframe/internal/renderer"
)

// ErrUnknownComposition is returned by Lookup for unregistered ids.
var ErrUnknownComposition = errors.New("unknown composition")

// Component renders one frame of a composition.
type Component func(frame int, vc renderer.VideoConfig, props map[string]any) (*renderer.Frame, error)

// Composition binds a component to its fixed render context.
type Composition struct {
	renderer.VideoConfig
	DefaultProps map[string]any
	Component    Component
}

// Render evaluates frame with props merged over the defaults. Keys in props
// replace default keys; nil means defaults only.
func (c Composition) Render(frame int, props map[string]any) (*renderer.Frame, error) {
	if err := c.CheckFrame(frame); err != nil {
		return nil, err
	}
	return c.Component(frame, c.VideoConfig, c.MergeProps(props))
}

// MergeProps returns a fresh map with props layered over DefaultProps.
func (c Composition) MergeProps(props map[string]any) map[string]any {
	merged := make(map[string]any, len(c.DefaultProps)+len(props))
	maps.Copy(merged, c.DefaultProps)
	maps.Copy(merged, props)
	return merged
}

// Registry holds compositions in registration order.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Composition
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{items: make(map[string]Composition)}
}

// Register adds a composition. Ids are unique.
func (r *Registry) Register(c Composition) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Component == nil {
		return fmt.Errorf("%w: %s: nil component", renderer.ErrInvalidVideoConfig, c.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[c.ID]; exists {
		return fmt.Errorf("composition %q already registered", c.ID)
	}
	r.items[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

// Lookup returns the composition registered under id.
func (r *Registry) Lookup(id string) (Composition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return Composition{}, fmt.Errorf("%w: %q", ErrUnknownComposition, id)
	}
	return c, nil
}

// List returns all compositions in registration order.
func (r *Registry) List() []Composition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Composition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}
