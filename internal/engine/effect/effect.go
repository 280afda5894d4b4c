// Package effect defines rendering effects and their parameter sets. An
// effect names a shader family; the parameters configure one draw batch.
package effect

import (
	"sync"

	"github.com/kilnworks/kiln/internal/engine/geometry"
)

// Params is a set of named shader parameter values. A nil Params behaves
// as an empty set for reads.
type Params map[string]any

// Get returns the value for name, or nil.
func (p Params) Get(name string) any {
	return p[name]
}

// Lookup returns the value for name and whether it is present.
func (p Params) Lookup(name string) (any, bool) {
	v, ok := p[name]
	return v, ok
}

// Clone returns a shallow copy of the parameter set.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Effect is a named rendering technique. RequiredStreams lists the vertex
// streams a chunk must carry to be drawn with this effect.
type Effect struct {
	Name            string
	RequiredStreams []geometry.StreamType
}

// CanRender reports whether the chunk carries every stream this effect
// consumes.
func (e *Effect) CanRender(c *geometry.Chunk) bool {
	for _, typ := range e.RequiredStreams {
		if !c.HasVertexStream(typ) {
			return false
		}
	}
	return true
}

// Registry holds the known effects by name.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]*Effect
}

// NewRegistry returns an empty effect registry.
func NewRegistry() *Registry {
	return &Registry{effects: make(map[string]*Effect)}
}

// Register adds an effect, replacing any previous effect of the same name.
func (r *Registry) Register(e *Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[e.Name] = e
}

// Lookup returns the effect with the given name, or nil.
func (r *Registry) Lookup(name string) *Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.effects[name]
}

// DefaultRegistry holds the engine's built-in effects.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(&Effect{
		Name:            "BaseSurface",
		RequiredStreams: []geometry.StreamType{geometry.PositionStream},
	})
	DefaultRegistry.Register(&Effect{
		Name: "InternalGeometry",
		RequiredStreams: []geometry.StreamType{
			geometry.PositionStream,
			geometry.DiffuseTextureCoordinateStream,
			geometry.ColorStream,
		},
	})
	DefaultRegistry.Register(&Effect{
		Name: "InternalFont",
		RequiredStreams: []geometry.StreamType{
			geometry.PositionStream,
			geometry.DiffuseTextureCoordinateStream,
		},
	})
}
