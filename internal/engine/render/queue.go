package render

import (
	"sort"

	"github.com/kilnworks/kiln/internal/engine/effect"
)

// TextureAnimation is a pending texture-frame update for one texture
// parameter, applied when the owning queue is flushed.
type TextureAnimation struct {
	Param string
	Frame int
}

// EffectQueue is a priority-ordered batch of render commands sharing one
// effect and one parameter set.
type EffectQueue struct {
	priority int
	effect   *effect.Effect

	// params starts out referring to an externally owned set. The first
	// custom write replaces it with a private copy; after that it never
	// refers to the external set again.
	params          effect.Params
	hasCustomParams bool

	// internalParams are engine-managed values such as bone matrices,
	// kept apart from material parameters.
	internalParams effect.Params

	// sortKey is an opaque value assigned by the effect's shader, used as
	// a secondary ordering hint to batch same-shader-variant draws.
	sortKey uint32

	items             ItemArray
	textureAnimations []TextureAnimation
}

// Priority returns the queue's sort priority.
func (q *EffectQueue) Priority() int { return q.priority }

// Effect returns the queue's effect.
func (q *EffectQueue) Effect() *effect.Effect { return q.effect }

// Items returns the queue's command list.
func (q *EffectQueue) Items() *ItemArray { return &q.items }

// Params returns the active parameter set. Callers must not mutate it;
// use SetCustomParameter.
func (q *EffectQueue) Params() effect.Params { return q.params }

// HasCustomParams reports whether the queue has diverged from its external
// parameter set.
func (q *EffectQueue) HasCustomParams() bool { return q.hasCustomParams }

// UseParams points the queue at an externally owned parameter set. It has
// no effect once custom parameters exist.
func (q *EffectQueue) UseParams(params effect.Params) {
	if q.hasCustomParams {
		return
	}
	q.params = params
}

// SetCustomParameter sets one parameter value, copying the external set on
// first write so the external owner never observes the change.
func (q *EffectQueue) SetCustomParameter(name string, value any) {
	if !q.hasCustomParams {
		q.params = q.params.Clone()
		q.hasCustomParams = true
	}
	q.params[name] = value
}

// InternalParams returns the engine-managed parameter set, or nil.
func (q *EffectQueue) InternalParams() effect.Params { return q.internalParams }

// SetInternalParameter sets one engine-managed parameter value.
func (q *EffectQueue) SetInternalParameter(name string, value any) {
	if q.internalParams == nil {
		q.internalParams = effect.Params{}
	}
	q.internalParams[name] = value
}

// SortKey returns the shader-assigned sort key.
func (q *EffectQueue) SortKey() uint32 { return q.sortKey }

// SetSortKey records the shader-assigned sort key.
func (q *EffectQueue) SetSortKey(key uint32) { q.sortKey = key }

// AddTextureAnimation queues a texture-frame update to apply at flush.
func (q *EffectQueue) AddTextureAnimation(param string, frame int) {
	q.textureAnimations = append(q.textureAnimations, TextureAnimation{Param: param, Frame: frame})
}

// TextureAnimations returns the pending texture-frame updates.
func (q *EffectQueue) TextureAnimations() []TextureAnimation {
	return q.textureAnimations
}

// ApplyTextureAnimations hands every pending update to apply and drains
// the list. The renderer calls this when flushing the queue.
func (q *EffectQueue) ApplyTextureAnimations(apply func(param string, frame int)) {
	for _, ta := range q.textureAnimations {
		apply(ta.Param, ta.Frame)
	}
	q.textureAnimations = q.textureAnimations[:0]
}

// EffectQueueArray is a list of effect queues kept sorted by ascending
// priority. Queues of equal priority stay in creation order.
type EffectQueueArray struct {
	queues []*EffectQueue
}

// Create inserts a new queue for the given priority and effect, keeping
// the array sorted. The new queue starts with an empty parameter set.
func (a *EffectQueueArray) Create(priority int, e *effect.Effect) *EffectQueue {
	q := &EffectQueue{
		priority: priority,
		effect:   e,
		params:   effect.Params{},
	}

	// Binary search for the insertion point after all queues of equal or
	// lower priority.
	at := sort.Search(len(a.queues), func(i int) bool {
		return a.queues[i].priority > priority
	})
	a.queues = append(a.queues, nil)
	copy(a.queues[at+1:], a.queues[at:])
	a.queues[at] = q
	return q
}

// Queues returns the queues in ascending priority order.
func (a *EffectQueueArray) Queues() []*EffectQueue {
	return a.queues
}

// Len returns the number of queues.
func (a *EffectQueueArray) Len() int {
	return len(a.queues)
}

// Clear removes every queue.
func (a *EffectQueueArray) Clear() {
	a.queues = nil
}
