// Package renderer executes gathered effect queues against OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/kilnworks/kiln/internal/engine/geometry"
	"github.com/kilnworks/kiln/internal/engine/gpu"
	"github.com/kilnworks/kiln/internal/engine/gpu/glgpu"
	"github.com/kilnworks/kiln/internal/engine/render"
	"github.com/kilnworks/kiln/internal/engine/shader"
	"github.com/kilnworks/kiln/internal/logger"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

// Vertex attribute locations shared by all programs.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
	attribColor    = 3
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer draws priority-ordered effect queues. It owns the GL device
// chunks register against.
type Renderer struct {
	config Config
	device *glgpu.Device

	program *shader.Program
	vao     uint32

	view       kmath.Mat4
	projection kmath.Mat4
	model      kmath.Mat4

	rectVBO uint32
}

// New creates a renderer. The OpenGL context must be current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		device:     glgpu.NewDevice(),
		view:       kmath.Mat4Identity(),
		projection: kmath.Mat4Identity(),
		model:      kmath.Mat4Identity(),
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = shader.Compile(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling base program: %w", err)
	}

	// Core profile needs a VAO bound for any draw call. Attribute layout
	// is re-specified per chunk bind.
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	r.createRect()

	return r, nil
}

// Device returns the GL device chunks should register with.
func (r *Renderer) Device() gpu.Device { return r.device }

// Close releases renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.rectVBO != 0 {
		gl.DeleteBuffers(1, &r.rectVBO)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// SetCamera sets the view and projection matrices for this frame.
func (r *Renderer) SetCamera(view, projection kmath.Mat4) {
	r.view = view
	r.projection = projection
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.model = kmath.Mat4Identity()
}

// End finishes the current frame.
func (r *Renderer) End() {}

// RenderQueues draws every queue in priority order.
func (r *Renderer) RenderQueues(queues *render.EffectQueueArray) {
	r.program.Use()
	r.program.SetMat4("uView", r.view)
	r.program.SetMat4("uProjection", r.projection)
	r.program.SetMat4("uModel", r.model)
	r.program.SetVec4("uRectSize", 1, 1, 1, 1)

	for _, q := range queues.Queues() {
		r.renderQueue(q)
	}
}

func (r *Renderer) renderQueue(q *render.EffectQueue) {
	// Pending texture-frame updates are drained at flush. There are no
	// texture bindings here yet, so the frames only reach the log.
	q.ApplyTextureAnimations(func(param string, frame int) {
		logger.Debug("texture animation", zap.String("param", param), zap.Int("frame", frame))
	})

	for _, item := range q.Items().Items() {
		switch it := item.(type) {
		case render.ChangeTransform:
			r.model = it.Transform.Matrix(it.Scale)
			r.program.SetMat4("uModel", r.model)
		case render.DrawChunk:
			r.drawChunk(it.Chunk, it.DrawItemIndex)
		case render.DrawRectangle:
			r.drawRectangle(it.Width, it.Height)
		case render.DrawText:
			// Text runs through the font texture path, which lives in
			// the UI layer.
			logger.Debug("text item skipped", zap.String("text", it.Text))
		}
	}
}

func (r *Renderer) drawChunk(c *geometry.Chunk, drawItemIndex int) {
	if !c.IsRegistered() {
		if err := c.Register(r.device); err != nil {
			logger.Error("registering chunk", zap.Error(err))
			return
		}
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, glgpu.BufferID(c.VertexBuffer()))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, glgpu.BufferID(c.IndexBuffer()))
	r.bindStreams(c)

	hasColor := c.HasVertexStream(geometry.ColorStream)
	if hasColor {
		r.program.SetInt("uUseVertexColor", 1)
	} else {
		r.program.SetInt("uUseVertexColor", 0)
	}

	items := c.DrawItems()
	first, last := 0, len(items)
	if drawItemIndex != render.AllDrawItems {
		if drawItemIndex < 0 || drawItemIndex >= len(items) {
			logger.Error("draw item index out of range",
				zap.Int("index", drawItemIndex), zap.Int("count", len(items)))
			return
		}
		first, last = drawItemIndex, drawItemIndex+1
	}

	indexType := uint32(gl.UNSIGNED_SHORT)
	if c.IndexWidth() == geometry.Index32 {
		indexType = gl.UNSIGNED_INT
	}

	for i := first; i < last; i++ {
		item := &items[i]
		mode, ok := primitiveMode(item.Primitive)
		if !ok {
			continue
		}
		offset := int(item.IndexOffset) * c.IndexWidth().Bytes()
		gl.DrawElementsWithOffset(mode, int32(item.IndexCount), indexType, uintptr(offset))
	}
}

// bindStreams maps the chunk's vertex streams onto the fixed attribute
// locations. Streams without a known location are left unbound.
func (r *Renderer) bindStreams(c *geometry.Chunk) {
	for loc := uint32(attribPosition); loc <= attribColor; loc++ {
		gl.DisableVertexAttribArray(loc)
	}

	stride := int32(c.VertexSize())
	for _, s := range c.VertexStreams() {
		loc, ok := attribLocation(s.Type)
		if !ok {
			continue
		}
		glType, ok := glDataType(s.DataType)
		if !ok {
			continue
		}
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, int32(s.ComponentCount), glType,
			s.Normalize, stride, uintptr(s.Offset))
	}
}

func attribLocation(typ geometry.StreamType) (uint32, bool) {
	switch typ {
	case geometry.PositionStream:
		return attribPosition, true
	case geometry.NormalStream:
		return attribNormal, true
	case geometry.DiffuseTextureCoordinateStream:
		return attribTexCoord, true
	case geometry.ColorStream:
		return attribColor, true
	default:
		return 0, false
	}
}

func glDataType(t geometry.DataType) (uint32, bool) {
	switch t {
	case geometry.TypeInt8:
		return gl.BYTE, true
	case geometry.TypeUint8:
		return gl.UNSIGNED_BYTE, true
	case geometry.TypeInt16:
		return gl.SHORT, true
	case geometry.TypeUint16:
		return gl.UNSIGNED_SHORT, true
	case geometry.TypeInt32:
		return gl.INT, true
	case geometry.TypeUint32:
		return gl.UNSIGNED_INT, true
	case geometry.TypeFloat32:
		return gl.FLOAT, true
	default:
		return 0, false
	}
}

func primitiveMode(p geometry.PrimitiveType) (uint32, bool) {
	switch p {
	case geometry.TriangleList:
		return gl.TRIANGLES, true
	case geometry.TriangleStrip:
		return gl.TRIANGLE_STRIP, true
	case geometry.TriangleListAdjacency:
		return gl.TRIANGLES_ADJACENCY, true
	case geometry.TriangleStripAdjacency:
		return gl.TRIANGLE_STRIP_ADJACENCY, true
	case geometry.LineStrip:
		return gl.LINE_STRIP, true
	default:
		return 0, false
	}
}

// createRect builds the unit quad used by rectangle draw items. The quad is
// scaled in the vertex shader via uRectSize.
func (r *Renderer) createRect() {
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}

	gl.GenBuffers(1, &r.rectVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.rectVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) drawRectangle(width, height float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.rectVBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	for loc := uint32(attribPosition); loc <= attribColor; loc++ {
		gl.DisableVertexAttribArray(loc)
	}
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, 3*4, 0)

	r.program.SetInt("uUseVertexColor", 0)
	r.program.SetVec4("uRectSize", width, height, 1, 1)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	r.program.SetVec4("uRectSize", 1, 1, 1, 1)
}

const vertexShaderSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;
layout (location = 3) in vec4 aColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform vec4 uRectSize;

out vec3 vNormal;
out vec2 vTexCoord;
out vec4 vColor;

void main() {
	vec3 pos = aPos * uRectSize.xyz;
	gl_Position = uProjection * uView * uModel * vec4(pos, 1.0);
	vNormal = mat3(uModel) * aNormal;
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

const fragmentShaderSrc = `
#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;
in vec4 vColor;

uniform int uUseVertexColor;

out vec4 FragColor;

void main() {
	float light = 1.0;
	if (dot(vNormal, vNormal) > 0.0) {
		vec3 n = normalize(vNormal);
		light = 0.4 + 0.6 * max(dot(n, normalize(vec3(0.4, 0.8, 0.6))), 0.0);
	}
	vec4 base = uUseVertexColor != 0 ? vColor : vec4(0.8, 0.8, 0.8, 1.0);
	FragColor = vec4(base.rgb * light, base.a);
}
`
