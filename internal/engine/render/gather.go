package render

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/kilnworks/kiln/internal/engine/effect"
	"github.com/kilnworks/kiln/internal/engine/font"
	"github.com/kilnworks/kiln/internal/engine/geometry"
	"github.com/kilnworks/kiln/internal/engine/material"
	"github.com/kilnworks/kiln/internal/logger"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

// Materials every gather resolves internally.
const (
	FontMaterialName              = "Font"
	ImmediateGeometryMaterialName = "ImmediateGeometry"
)

// Gather collects geometry submissions from scene traversal into
// priority-sorted effect queues. Consecutive submissions sharing a material
// at the same priority coalesce into one queue to minimize state changes,
// and transform changes are only emitted once geometry is actually drawn.
type Gather struct {
	queues    EffectQueueArray
	materials *material.Library
	immediate *ImmediateBuffer

	cameraPosition kmath.Vec3

	// Shadow gathers additionally accumulate world-space extents of
	// shadow casters for the shadow map projection.
	shadowGather        bool
	shadowCasterExtents kmath.AABB

	priority int
	material *material.Material
	override effect.Params

	transform kmath.SimpleTransform
	scale     kmath.Vec3

	currentQueue *EffectQueue

	// Deferred transform emission: the transform is appended to a queue's
	// items only when geometry is added, and only if that queue has not
	// yet seen the current transform.
	transformCurrent bool
	transformQueue   *EffectQueue
}

// NewGather builds a gather over the given material library and shared
// immediate buffer.
func NewGather(materials *material.Library, immediate *ImmediateBuffer) *Gather {
	return &Gather{
		materials: materials,
		immediate: immediate,
		scale:     kmath.One,
		transform: kmath.TransformIdentity,
	}
}

// NewShadowGather builds a gather that also accumulates shadow-caster
// extents.
func NewShadowGather(materials *material.Library, immediate *ImmediateBuffer) *Gather {
	g := NewGather(materials, immediate)
	g.shadowGather = true
	return g
}

// Queues returns the gathered priority-sorted queue array.
func (g *Gather) Queues() *EffectQueueArray { return &g.queues }

// CameraPosition returns the camera position for this gather pass.
func (g *Gather) CameraPosition() kmath.Vec3 { return g.cameraPosition }

// SetCameraPosition records the camera position for this gather pass.
func (g *Gather) SetCameraPosition(p kmath.Vec3) { g.cameraPosition = p }

// IsShadowGeometryGather reports whether this pass gathers shadow casters.
func (g *Gather) IsShadowGeometryGather() bool { return g.shadowGather }

// AddShadowCasterExtents merges world-space extents of a shadow caster.
func (g *Gather) AddShadowCasterExtents(box kmath.AABB) {
	g.shadowCasterExtents.Merge(box)
}

// ShadowCasterExtents returns the merged shadow caster extents.
func (g *Gather) ShadowCasterExtents() kmath.AABB { return g.shadowCasterExtents }

// ChangePriority sets the priority for subsequent queue selection.
func (g *Gather) ChangePriority(priority int) {
	if priority == g.priority {
		return
	}
	g.priority = priority
	g.currentQueue = nil
}

// ChangeTransform sets the transform for subsequent draws. No command is
// emitted until geometry is actually added.
func (g *Gather) ChangeTransform(t kmath.SimpleTransform, scale kmath.Vec3) {
	g.transform = t
	g.scale = scale
	g.transformCurrent = false
}

// ChangeMaterial selects the material for subsequent draws. Submissions
// reuse an existing queue when one exists at the current priority with the
// same effect and untouched parameters; override parameters always force a
// fresh queue so they cannot leak into shared state.
func (g *Gather) ChangeMaterial(name string, override effect.Params) {
	m := g.materials.Get(name)
	g.changeMaterial(m, override)
}

func (g *Gather) changeMaterial(m *material.Material, override effect.Params) {
	g.material = m
	g.override = override
	g.currentQueue = nil

	if len(override) == 0 {
		for _, q := range g.queues.Queues() {
			if q.Priority() == g.priority && q.Effect() == m.Effect &&
				!q.HasCustomParams() && len(q.InternalParams()) == 0 &&
				sameParamSet(q.Params(), m.Params) {
				g.currentQueue = q
				return
			}
		}
	}
}

// sameParamSet reports whether both references name the same parameter set.
// Identity only: parameter values may be slices or other uncomparable
// types, so the maps are never compared element by element.
func sameParamSet(a, b effect.Params) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// NewMaterial selects a material directly, always creating a fresh queue,
// and installs engine-managed internal parameters on it. Scene code uses
// this for skeletal meshes whose bone matrices must not be shared.
func (g *Gather) NewMaterial(m *material.Material, internalParams effect.Params) {
	g.material = m
	g.override = nil
	q := g.queues.Create(g.priority, m.Effect)
	q.UseParams(m.Params)
	for name, value := range internalParams {
		q.SetInternalParameter(name, value)
	}
	g.currentQueue = q
}

// queue returns the active queue, creating one for the current material
// and override parameters if needed.
func (g *Gather) queue() *EffectQueue {
	if g.currentQueue != nil {
		return g.currentQueue
	}
	if g.material == nil {
		logger.Debug("geometry added with no material set, using fallback",
			zap.Int("priority", g.priority))
		g.material = g.materials.Fallback()
	}

	q := g.queues.Create(g.priority, g.material.Effect)
	q.UseParams(g.material.Params)
	for name, value := range g.override {
		q.SetCustomParameter(name, value)
	}
	g.currentQueue = q
	return q
}

// emitTransform appends a change-transform command if the queue has not
// seen the current transform yet.
func (g *Gather) emitTransform(q *EffectQueue) {
	if g.transformCurrent && g.transformQueue == q {
		return
	}
	q.Items().AddChangeTransform(g.transform, g.scale)
	g.transformCurrent = true
	g.transformQueue = q
}

// AddGeometryChunk submits one draw item of a chunk, or all of them when
// drawItemIndex is AllDrawItems.
func (g *Gather) AddGeometryChunk(c *geometry.Chunk, drawItemIndex int) {
	q := g.queue()
	g.emitTransform(q)
	q.Items().AddDrawChunk(c, drawItemIndex)
}

// AddRectangle submits an axis-aligned rectangle at the current transform.
func (g *Gather) AddRectangle(width, height float32) {
	q := g.queue()
	g.emitTransform(q)
	q.Items().AddDrawRectangle(width, height)
}

// AddText submits a text string, switching to the font material.
func (g *Gather) AddText(f *font.Font, size float32, text string, color kmath.Color) {
	g.ChangeMaterial(FontMaterialName, nil)
	q := g.queue()
	g.emitTransform(q)
	q.Items().AddDrawText(f, size, text, color)
}

// AddImmediateTriangles appends triangles to the frame's shared immediate
// buffer and submits the covering draw item under the immediate-geometry
// material.
func (g *Gather) AddImmediateTriangles(tris []ImmediateTriangle) error {
	drawItemIndex, err := g.immediate.Add(tris)
	if err != nil {
		return err
	}

	g.ChangeMaterial(ImmediateGeometryMaterialName, nil)
	q := g.queue()
	g.emitTransform(q)
	q.Items().AddDrawChunk(g.immediate.Chunk(), drawItemIndex)
	return nil
}

// AddImmediateTriangle submits a single immediate triangle.
func (g *Gather) AddImmediateTriangle(tri ImmediateTriangle) error {
	return g.AddImmediateTriangles([]ImmediateTriangle{tri})
}
