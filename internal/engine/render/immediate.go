package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kilnworks/kiln/internal/engine/geometry"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

var byteOrder = binary.LittleEndian

// ImmediateVertex is one corner of an immediate-mode triangle.
type ImmediateVertex struct {
	Position kmath.Vec3
	TexCoord kmath.Vec2
	Color    kmath.Color
}

// ImmediateTriangle is a single transient triangle submitted outside any
// geometry chunk, e.g. for debug visualization.
type ImmediateTriangle [3]ImmediateVertex

// immediateVertexSize is Position (12) + TexCoord (8) + Color (4) bytes.
const immediateVertexSize = 24

// ImmediateBuffer accumulates every immediate triangle of a frame into one
// shared dynamic chunk, amortizing GPU buffer churn for transient geometry.
// The buffer is reset at frame begin and only ever grows within a session.
type ImmediateBuffer struct {
	chunk    *geometry.Chunk
	capacity int // triangles the chunk can hold
	count    int // triangles written this frame
}

// NewImmediateBuffer builds the shared triangle chunk with capacity for
// initialTriangles.
func NewImmediateBuffer(initialTriangles int) (*ImmediateBuffer, error) {
	if initialTriangles < 1 {
		initialTriangles = 1
	}

	c := geometry.NewChunk()
	c.SetDynamic(true)

	color := geometry.NewVertexStream(geometry.ColorStream, 4, geometry.TypeUint8)
	color.Normalize = true
	if err := c.SetVertexStreams([]geometry.VertexStream{
		geometry.NewVertexStream(geometry.PositionStream, 3, geometry.TypeFloat32),
		geometry.NewVertexStream(geometry.DiffuseTextureCoordinateStream, 2, geometry.TypeFloat32),
		color,
	}); err != nil {
		return nil, fmt.Errorf("building immediate chunk streams: %w", err)
	}

	b := &ImmediateBuffer{chunk: c}
	if err := b.grow(initialTriangles); err != nil {
		return nil, err
	}
	return b, nil
}

// Chunk returns the shared chunk that draw commands reference.
func (b *ImmediateBuffer) Chunk() *geometry.Chunk { return b.chunk }

// TriangleCount returns the number of triangles written this frame.
func (b *ImmediateBuffer) TriangleCount() int { return b.count }

// Capacity returns the triangle capacity of the backing chunk.
func (b *ImmediateBuffer) Capacity() int { return b.capacity }

// BeginFrame resets the buffer for a new frame: draw items are cleared and
// the triangle count returns to zero. Capacity is retained.
func (b *ImmediateBuffer) BeginFrame() {
	b.chunk.ClearDrawItems()
	b.count = 0
}

// grow resizes the chunk to hold at least needTriangles, keeping the
// identity index mapping and any draw items already appended this frame.
func (b *ImmediateBuffer) grow(needTriangles int) error {
	if needTriangles <= b.capacity {
		return nil
	}
	// Doubling-or-exact-fit: never grow by less than 2x.
	newCapacity := b.capacity * 2
	if needTriangles > newCapacity {
		newCapacity = needTriangles
	}

	if err := b.chunk.SetVertexCount(newCapacity*3, true); err != nil {
		return fmt.Errorf("growing immediate buffer to %d triangles: %w", newCapacity, err)
	}
	indices := make([]uint32, newCapacity*3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	items := append([]geometry.DrawItem(nil), b.chunk.DrawItems()...)
	if err := b.chunk.SetupIndexData(items, indices); err != nil {
		return fmt.Errorf("rebuilding immediate buffer indices: %w", err)
	}

	b.capacity = newCapacity
	return nil
}

// Add appends triangles to the frame's shared buffer and returns the index
// of the draw item covering exactly these triangles. Earlier triangles of
// the frame are never moved or overwritten.
func (b *ImmediateBuffer) Add(tris []ImmediateTriangle) (drawItemIndex int, err error) {
	if len(tris) == 0 {
		return 0, fmt.Errorf("no triangles to add")
	}
	if err := b.grow(b.count + len(tris)); err != nil {
		return 0, err
	}

	firstVertex := b.count * 3
	lock, err := b.chunk.LockVertexData()
	if err != nil {
		return 0, err
	}
	data := lock.Bytes()
	for i, tri := range tris {
		for corner, v := range tri {
			base := (firstVertex + i*3 + corner) * immediateVertexSize
			byteOrder.PutUint32(data[base:], math.Float32bits(v.Position.X))
			byteOrder.PutUint32(data[base+4:], math.Float32bits(v.Position.Y))
			byteOrder.PutUint32(data[base+8:], math.Float32bits(v.Position.Z))
			byteOrder.PutUint32(data[base+12:], math.Float32bits(v.TexCoord.X))
			byteOrder.PutUint32(data[base+16:], math.Float32bits(v.TexCoord.Y))
			byteOrder.PutUint32(data[base+20:], v.Color.RGBA8())
		}
	}
	if err := lock.Unlock(); err != nil {
		return 0, err
	}

	item := geometry.NewDrawItem(geometry.TriangleList, len(tris)*3, firstVertex)
	if err := b.chunk.AppendDrawItem(item); err != nil {
		return 0, err
	}
	b.count += len(tris)
	return len(b.chunk.DrawItems()) - 1, nil
}

// Close releases the backing chunk's resources.
func (b *ImmediateBuffer) Close() {
	b.chunk.Clear()
	b.capacity = 0
	b.count = 0
}
