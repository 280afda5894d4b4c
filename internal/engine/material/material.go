// Package material maps material names onto effects and parameter sets.
package material

import (
	"sync"

	"go.uber.org/zap"

	"github.com/kilnworks/kiln/internal/engine/effect"
	"github.com/kilnworks/kiln/internal/logger"
)

// Material binds a name to an effect and the parameter values that
// configure it.
type Material struct {
	Name   string
	Effect *effect.Effect
	Params effect.Params
}

// Library resolves material names. Unknown names resolve to a fallback
// material so a missing asset degrades to a visible default rather than a
// dropped draw.
type Library struct {
	mu        sync.RWMutex
	materials map[string]*Material
	fallback  *Material
	effects   *effect.Registry
}

// NewLibrary returns a library backed by the given effect registry. The
// fallback material uses the BaseSurface effect.
func NewLibrary(effects *effect.Registry) *Library {
	if effects == nil {
		effects = effect.DefaultRegistry
	}
	return &Library{
		materials: make(map[string]*Material),
		fallback: &Material{
			Name:   "Fallback",
			Effect: effects.Lookup("BaseSurface"),
			Params: effect.Params{},
		},
		effects: effects,
	}
}

// Add registers a material, replacing any previous one of the same name.
func (l *Library) Add(m *Material) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.materials[m.Name] = m
}

// Create builds and registers a material from an effect name.
func (l *Library) Create(name, effectName string, params effect.Params) *Material {
	e := l.effects.Lookup(effectName)
	if e == nil {
		logger.Warn("material references unknown effect",
			zap.String("material", name), zap.String("effect", effectName))
		e = l.fallback.Effect
	}
	if params == nil {
		params = effect.Params{}
	}
	m := &Material{Name: name, Effect: e, Params: params}
	l.Add(m)
	return m
}

// Get resolves a material name, returning the fallback for unknown names.
func (l *Library) Get(name string) *Material {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if m, ok := l.materials[name]; ok {
		return m
	}
	logger.Debug("unknown material, using fallback", zap.String("material", name))
	return l.fallback
}

// Has reports whether a material with the given name is registered.
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.materials[name]
	return ok
}

// Fallback returns the library's fallback material.
func (l *Library) Fallback() *Material {
	return l.fallback
}
