package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	kmath "github.com/kilnworks/kiln/pkg/math"

	"github.com/kilnworks/kiln/internal/engine/gpu"
	"github.com/kilnworks/kiln/internal/logger"
)

var byteOrder = binary.LittleEndian

// Chunk errors.
var (
	ErrIndexOutOfRange     = errors.New("geometry: index out of range")
	ErrVertexDataLocked    = errors.New("geometry: vertex data is locked")
	ErrVertexDataNotLocked = errors.New("geometry: vertex data is not locked")
	ErrDuplicateStream     = errors.New("geometry: stream of this type already present")
	ErrStreamNotFound      = errors.New("geometry: stream not found")
	ErrChunkNotEmpty       = errors.New("geometry: chunk already has vertices")
	ErrFirstStreamPinned   = errors.New("geometry: cannot delete the first stream while others remain")
	ErrStreamShape         = errors.New("geometry: stream has wrong component count or data type")
	ErrNotRegistered       = errors.New("geometry: chunk is not registered with a device")
)

// IndexWidth is the storage width of the chunk's index buffer.
type IndexWidth uint8

const (
	Index16 IndexWidth = 16
	Index32 IndexWidth = 32
)

// Bytes returns the byte size of one index.
func (w IndexWidth) Bytes() int {
	if w == Index16 {
		return 2
	}
	return 4
}

// ChooseIndexWidth returns the narrowest index width that can address every
// vertex of a chunk with the given vertex count.
func ChooseIndexWidth(vertexCount int) IndexWidth {
	if vertexCount <= 65536 {
		return Index16
	}
	return Index32
}

// cacheSlot caches a derived value together with a dirty flag. The value is
// recomputed on demand after invalidation.
type cacheSlot[T any] struct {
	value T
	valid bool
}

func (s *cacheSlot[T]) get(recompute func() T) T {
	if !s.valid {
		s.value = recompute()
		s.valid = true
	}
	return s.value
}

func (s *cacheSlot[T]) set(v T) {
	s.value = v
	s.valid = true
}

func (s *cacheSlot[T]) invalidate() {
	s.valid = false
}

// Chunk owns interleaved vertex byte storage described by a list of vertex
// streams, a 16- or 32-bit index buffer shared by a list of draw items, and
// cached bounding volumes derived from the position stream. A chunk may be
// registered with a gpu.Device, which mirrors its vertex and index data into
// GPU buffers.
//
// Chunks are not safe for concurrent use.
type Chunk struct {
	registry *StreamRegistry

	streams     []VertexStream
	vertexCount int
	vertexSize  int
	vertexData  []byte

	indexWidth IndexWidth
	indexData  []byte
	drawItems  []DrawItem

	dynamic bool
	locked  bool

	aabb   cacheSlot[kmath.AABB]
	sphere cacheSlot[kmath.Sphere]
	plane  cacheSlot[kmath.Plane]

	device       gpu.Device
	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
}

// NewChunk returns an empty chunk using the default stream registry.
func NewChunk() *Chunk {
	return NewChunkWithRegistry(DefaultRegistry)
}

// NewChunkWithRegistry returns an empty chunk resolving stream names
// through the given registry.
func NewChunkWithRegistry(registry *StreamRegistry) *Chunk {
	return &Chunk{
		registry:   registry,
		indexWidth: Index16,
	}
}

// Registry returns the stream registry this chunk resolves names through.
func (c *Chunk) Registry() *StreamRegistry { return c.registry }

// VertexCount returns the number of vertices.
func (c *Chunk) VertexCount() int { return c.vertexCount }

// VertexSize returns the byte size of one interleaved vertex record.
func (c *Chunk) VertexSize() int { return c.vertexSize }

// VertexStreams returns the chunk's stream list. The returned slice must
// not be modified.
func (c *Chunk) VertexStreams() []VertexStream { return c.streams }

// VertexData returns the interleaved vertex bytes for reading. Use
// LockVertexData to mutate them.
func (c *Chunk) VertexData() []byte { return c.vertexData }

// IndexWidth returns the current index storage width.
func (c *Chunk) IndexWidth() IndexWidth { return c.indexWidth }

// IndexCount returns the number of indices in the shared index buffer.
func (c *Chunk) IndexCount() int {
	return len(c.indexData) / c.indexWidth.Bytes()
}

// DrawItems returns the chunk's draw items.
func (c *Chunk) DrawItems() []DrawItem { return c.drawItems }

// IsDynamic reports whether the chunk's vertex data is expected to change
// frequently.
func (c *Chunk) IsDynamic() bool { return c.dynamic }

// SetDynamic marks the chunk's vertex data as frequently changing, which
// selects a GPU buffer update strategy suited to rewrites. It must be set
// before registration to take effect.
func (c *Chunk) SetDynamic(dynamic bool) {
	c.dynamic = dynamic
}

// IsRegistered reports whether the chunk currently holds GPU buffers.
func (c *Chunk) IsRegistered() bool { return c.vertexBuffer != nil }

// VertexStream returns the stream with the given type, or nil.
func (c *Chunk) VertexStream(typ StreamType) *VertexStream {
	for i := range c.streams {
		if c.streams[i].Type == typ {
			return &c.streams[i]
		}
	}
	return nil
}

// HasVertexStream reports whether the chunk has a stream of the given type.
func (c *Chunk) HasVertexStream(typ StreamType) bool {
	return c.VertexStream(typ) != nil
}

// recomputeOffsets packs streams sequentially and updates vertexSize.
func (c *Chunk) recomputeOffsets() {
	offset := 0
	for i := range c.streams {
		c.streams[i].Offset = offset
		offset += c.streams[i].Size()
	}
	c.vertexSize = offset
}

// AddVertexStream appends a stream of the given shape. Existing vertex data
// is preserved; the new stream's region is zero-initialized in every vertex.
func (c *Chunk) AddVertexStream(stream VertexStream) error {
	if c.locked {
		return ErrVertexDataLocked
	}
	if c.HasVertexStream(stream.Type) {
		return fmt.Errorf("%w: %s", ErrDuplicateStream, c.registry.NameForType(stream.Type))
	}

	oldSize := c.vertexSize
	c.streams = append(c.streams, stream)
	c.recomputeOffsets()

	if c.vertexCount > 0 {
		newData := make([]byte, c.vertexCount*c.vertexSize)
		for v := 0; v < c.vertexCount; v++ {
			copy(newData[v*c.vertexSize:], c.vertexData[v*oldSize:(v+1)*oldSize])
		}
		c.vertexData = newData
	}

	c.onVertexDataResized()
	return nil
}

// DeleteVertexStream removes a stream and compacts the vertex data. The
// first stream cannot be removed while other streams remain.
func (c *Chunk) DeleteVertexStream(typ StreamType) error {
	if c.locked {
		return ErrVertexDataLocked
	}

	at := -1
	for i := range c.streams {
		if c.streams[i].Type == typ {
			at = i
			break
		}
	}
	if at < 0 {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, c.registry.NameForType(typ))
	}
	if at == 0 && len(c.streams) > 1 {
		return ErrFirstStreamPinned
	}

	removed := c.streams[at]
	oldSize := c.vertexSize
	c.streams = append(c.streams[:at], c.streams[at+1:]...)
	c.recomputeOffsets()

	if c.vertexCount > 0 {
		newData := make([]byte, c.vertexCount*c.vertexSize)
		for v := 0; v < c.vertexCount; v++ {
			src := c.vertexData[v*oldSize : (v+1)*oldSize]
			dst := newData[v*c.vertexSize:]
			n := copy(dst, src[:removed.Offset])
			copy(dst[n:], src[removed.Offset+removed.Size():])
		}
		c.vertexData = newData
	}

	c.onVertexDataResized()
	return nil
}

// SetVertexStreams replaces the whole stream list. It is only valid on a
// chunk with no vertices.
func (c *Chunk) SetVertexStreams(streams []VertexStream) error {
	if c.vertexCount > 0 {
		return ErrChunkNotEmpty
	}
	seen := make(map[StreamType]bool, len(streams))
	for _, s := range streams {
		if seen[s.Type] {
			return fmt.Errorf("%w: %s", ErrDuplicateStream, c.registry.NameForType(s.Type))
		}
		seen[s.Type] = true
	}
	c.streams = append([]VertexStream(nil), streams...)
	c.recomputeOffsets()
	return nil
}

// SetVertexCount resizes the vertex storage to n vertices. Shrinking fails
// without mutation if any index would reference a removed vertex. When
// preserve is true existing vertex bytes are kept; new vertices are
// zero-initialized.
func (c *Chunk) SetVertexCount(n int, preserve bool) error {
	if c.locked {
		return ErrVertexDataLocked
	}
	if n < 0 {
		return fmt.Errorf("%w: negative vertex count %d", ErrIndexOutOfRange, n)
	}

	if n < c.vertexCount {
		for i, count := 0, c.IndexCount(); i < count; i++ {
			if int(c.indexValue(i)) >= n {
				return fmt.Errorf("%w: index %d references vertex %d", ErrIndexOutOfRange, i, c.indexValue(i))
			}
		}
	}

	newData := make([]byte, n*c.vertexSize)
	if preserve {
		copy(newData, c.vertexData)
	}
	c.vertexData = newData
	c.vertexCount = n

	if w := ChooseIndexWidth(n); w != c.indexWidth {
		c.convertIndexWidth(w)
	}

	c.onVertexDataResized()
	return nil
}

// convertIndexWidth rewrites the index buffer at a new storage width. All
// index values must already fit the target width.
func (c *Chunk) convertIndexWidth(w IndexWidth) {
	count := c.IndexCount()
	newData := make([]byte, count*w.Bytes())
	for i := 0; i < count; i++ {
		v := c.indexValue(i)
		if w == Index16 {
			byteOrder.PutUint16(newData[i*2:], uint16(v))
		} else {
			byteOrder.PutUint32(newData[i*4:], v)
		}
	}
	c.indexWidth = w
	c.indexData = newData
}

// VertexLock is an exclusive borrow of a chunk's vertex bytes. Writes
// through Bytes are only guaranteed visible after Unlock.
type VertexLock struct {
	chunk *Chunk
	data  []byte
}

// Bytes returns the borrowed interleaved vertex data.
func (l *VertexLock) Bytes() []byte { return l.data }

// Unlock ends the borrow. Unless the chunk is dynamic, the cached bounding
// volumes are invalidated; if the chunk is registered, the vertex buffer is
// re-uploaded.
func (l *VertexLock) Unlock() error {
	c := l.chunk
	if c == nil || !c.locked {
		return ErrVertexDataNotLocked
	}
	c.locked = false
	l.chunk = nil
	l.data = nil

	if !c.dynamic {
		c.invalidateBounds()
	}
	if c.IsRegistered() {
		if err := c.device.UpdateBuffer(c.vertexBuffer, c.vertexData); err != nil {
			return fmt.Errorf("uploading vertex data: %w", err)
		}
	}
	return nil
}

// LockVertexData takes the exclusive vertex-data borrow. Only one lock may
// be outstanding at a time.
func (c *Chunk) LockVertexData() (*VertexLock, error) {
	if c.locked {
		return nil, ErrVertexDataLocked
	}
	c.locked = true
	return &VertexLock{chunk: c, data: c.vertexData}, nil
}

// indexValue reads index i without bounds checking.
func (c *Chunk) indexValue(i int) uint32 {
	if c.indexWidth == Index16 {
		return uint32(byteOrder.Uint16(c.indexData[i*2:]))
	}
	return byteOrder.Uint32(c.indexData[i*4:])
}

// IndexValue returns the value of index i.
func (c *Chunk) IndexValue(i int) (uint32, error) {
	if i < 0 || i >= c.IndexCount() {
		return 0, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, c.IndexCount())
	}
	return c.indexValue(i), nil
}

// SetIndexValue writes index i. The value must reference an existing
// vertex. Cached draw-item ranges are dropped; a registered chunk has its
// index buffer re-uploaded.
func (c *Chunk) SetIndexValue(i int, v uint32) error {
	if i < 0 || i >= c.IndexCount() {
		return fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, c.IndexCount())
	}
	if int(v) >= c.vertexCount {
		return fmt.Errorf("%w: value %d references vertex beyond count %d", ErrIndexOutOfRange, v, c.vertexCount)
	}

	if c.indexWidth == Index16 {
		byteOrder.PutUint16(c.indexData[i*2:], uint16(v))
	} else {
		byteOrder.PutUint32(c.indexData[i*4:], v)
	}
	for j := range c.drawItems {
		c.drawItems[j].invalidateRange()
	}
	if c.IsRegistered() {
		if err := c.device.UpdateBuffer(c.indexBuffer, c.indexData); err != nil {
			return fmt.Errorf("uploading index data: %w", err)
		}
	}
	return nil
}

// CopyIndexData returns the index buffer widened to uint32 values.
func (c *Chunk) CopyIndexData() []uint32 {
	out := make([]uint32, c.IndexCount())
	for i := range out {
		out[i] = c.indexValue(i)
	}
	return out
}

// SetupIndexData validates and installs a draw-item list and its flat index
// array in one step. Every index must reference an existing vertex, and
// every item's range must fit inside the index array. On any validation
// failure the chunk is unchanged. Index data is stored at the narrowest
// width the vertex count allows.
func (c *Chunk) SetupIndexData(items []DrawItem, indices []uint32) error {
	for i, v := range indices {
		if int(v) >= c.vertexCount {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrIndexOutOfRange, i, v, c.vertexCount)
		}
	}
	for i := range items {
		if items[i].IndexOffset < 0 || items[i].IndexCount < 0 ||
			items[i].IndexOffset+items[i].IndexCount > len(indices) {
			return fmt.Errorf("%w: draw item %d spans [%d,%d) of %d indices", ErrIndexOutOfRange,
				i, items[i].IndexOffset, items[i].IndexOffset+items[i].IndexCount, len(indices))
		}
	}

	c.indexWidth = ChooseIndexWidth(c.vertexCount)
	c.indexData = packIndices(indices, c.indexWidth)
	c.drawItems = make([]DrawItem, len(items))
	copy(c.drawItems, items)
	for i := range c.drawItems {
		c.drawItems[i].invalidateRange()
	}

	return c.reuploadIndexBuffer()
}

// packIndices encodes index values at the given width.
func packIndices(indices []uint32, w IndexWidth) []byte {
	out := make([]byte, len(indices)*w.Bytes())
	for i, v := range indices {
		if w == Index16 {
			byteOrder.PutUint16(out[i*2:], uint16(v))
		} else {
			byteOrder.PutUint32(out[i*4:], v)
		}
	}
	return out
}

// SetIndexDataStraight fills the index buffer with the identity mapping
// 0..vertexCount-1 and installs a single triangle-list draw item covering
// it. The vertex count must be a multiple of three.
func (c *Chunk) SetIndexDataStraight() error {
	if c.vertexCount%3 != 0 {
		return fmt.Errorf("%w: vertex count %d is not a multiple of 3", ErrIndexOutOfRange, c.vertexCount)
	}
	indices := make([]uint32, c.vertexCount)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, len(indices), 0)}, indices)
}

// AppendDrawItem adds a draw item over the existing index data.
func (c *Chunk) AppendDrawItem(item DrawItem) error {
	if item.IndexOffset < 0 || item.IndexCount < 0 ||
		item.IndexOffset+item.IndexCount > c.IndexCount() {
		return fmt.Errorf("%w: draw item spans [%d,%d) of %d indices", ErrIndexOutOfRange,
			item.IndexOffset, item.IndexOffset+item.IndexCount, c.IndexCount())
	}
	item.invalidateRange()
	c.drawItems = append(c.drawItems, item)
	return nil
}

// ClearDrawItems removes all draw items, keeping the index data.
func (c *Chunk) ClearDrawItems() {
	c.drawItems = c.drawItems[:0]
}

// Register mirrors the chunk's vertex and index data into GPU buffers on
// the given device. Registering an already-registered chunk is a no-op.
// Registration is all-or-nothing; on failure no buffer is retained.
func (c *Chunk) Register(dev gpu.Device) error {
	if c.IsRegistered() {
		return nil
	}

	vb, err := dev.CreateBuffer(gpu.VertexBuffer, len(c.vertexData), c.vertexData, c.dynamic)
	if err != nil {
		return fmt.Errorf("creating vertex buffer: %w", err)
	}
	ib, err := dev.CreateBuffer(gpu.IndexBuffer, len(c.indexData), c.indexData, c.dynamic)
	if err != nil {
		dev.DestroyBuffer(vb)
		return fmt.Errorf("creating index buffer: %w", err)
	}

	c.device = dev
	c.vertexBuffer = vb
	c.indexBuffer = ib
	return nil
}

// Unregister releases the chunk's GPU buffers. It is a no-op on an
// unregistered chunk.
func (c *Chunk) Unregister() {
	if !c.IsRegistered() {
		return
	}
	c.device.DestroyBuffer(c.vertexBuffer)
	c.device.DestroyBuffer(c.indexBuffer)
	c.vertexBuffer = nil
	c.indexBuffer = nil
	c.device = nil
}

// VertexBuffer returns the registered GPU vertex buffer, or nil.
func (c *Chunk) VertexBuffer() gpu.Buffer { return c.vertexBuffer }

// IndexBuffer returns the registered GPU index buffer, or nil.
func (c *Chunk) IndexBuffer() gpu.Buffer { return c.indexBuffer }

// onVertexDataResized reacts to a change in vertex storage size: bounds are
// recomputed on next access and GPU buffers are recreated at the new size.
func (c *Chunk) onVertexDataResized() {
	c.invalidateBounds()
	if c.IsRegistered() {
		dev := c.device
		c.Unregister()
		if err := c.Register(dev); err != nil {
			logger.Error("re-registering chunk after resize", zap.Error(err))
		}
	}
}

// reuploadIndexBuffer recreates the GPU index buffer after the index data
// was replaced, since its size may have changed.
func (c *Chunk) reuploadIndexBuffer() error {
	if !c.IsRegistered() {
		return nil
	}
	c.device.DestroyBuffer(c.indexBuffer)
	ib, err := c.device.CreateBuffer(gpu.IndexBuffer, len(c.indexData), c.indexData, c.dynamic)
	if err != nil {
		c.indexBuffer = nil
		c.device.DestroyBuffer(c.vertexBuffer)
		c.vertexBuffer = nil
		c.device = nil
		return fmt.Errorf("recreating index buffer: %w", err)
	}
	c.indexBuffer = ib
	return nil
}

// invalidateBounds drops the cached AABB, sphere and plane.
func (c *Chunk) invalidateBounds() {
	c.aabb.invalidate()
	c.sphere.invalidate()
	c.plane.invalidate()
}

// position returns vertex v's position, assuming a well-formed position
// stream at the given offset.
func (c *Chunk) position(v, offset int) kmath.Vec3 {
	base := v*c.vertexSize + offset
	return kmath.Vec3{
		X: math.Float32frombits(byteOrder.Uint32(c.vertexData[base:])),
		Y: math.Float32frombits(byteOrder.Uint32(c.vertexData[base+4:])),
		Z: math.Float32frombits(byteOrder.Uint32(c.vertexData[base+8:])),
	}
}

// positionStream returns the position stream if it is 3 x float32.
func (c *Chunk) positionStream() *VertexStream {
	s := c.VertexStream(PositionStream)
	if s == nil || s.DataType != TypeFloat32 || s.ComponentCount < 3 {
		return nil
	}
	return s
}

// AABB returns the axis-aligned bounding box of the position stream,
// computed on demand and cached until the vertex data changes.
func (c *Chunk) AABB() kmath.AABB {
	return c.aabb.get(func() kmath.AABB {
		var box kmath.AABB
		s := c.positionStream()
		if s == nil {
			return box
		}
		for v := 0; v < c.vertexCount; v++ {
			box.AddPoint(c.position(v, s.Offset))
		}
		return box
	})
}

// BoundingSphere returns a sphere centered on the AABB center enclosing
// every vertex position.
func (c *Chunk) BoundingSphere() kmath.Sphere {
	return c.sphere.get(func() kmath.Sphere {
		s := c.positionStream()
		if s == nil || c.vertexCount == 0 {
			return kmath.Sphere{}
		}
		center := c.AABB().Center()
		radius := float32(0)
		for v := 0; v < c.vertexCount; v++ {
			if d := center.Distance(c.position(v, s.Offset)); d > radius {
				radius = d
			}
		}
		return kmath.Sphere{Origin: center, Radius: radius}
	})
}

// Plane returns the plane through the chunk's first three vertices. It is
// only meaningful for planar geometry.
func (c *Chunk) Plane() kmath.Plane {
	return c.plane.get(func() kmath.Plane {
		s := c.positionStream()
		if s == nil || c.vertexCount < 3 {
			return kmath.Plane{}
		}
		return kmath.PlaneFromPoints(c.position(0, s.Offset), c.position(1, s.Offset), c.position(2, s.Offset))
	})
}

// TriangleCount returns the total triangle count over all draw items.
func (c *Chunk) TriangleCount() int {
	total := 0
	for i := range c.drawItems {
		total += c.drawItems[i].TriangleCount()
	}
	return total
}

// Triangles flattens every triangle draw item into explicit index triples.
// Strip parity is unrolled so each triple has the rendered winding.
// Adjacency and line topologies contribute the triangles they render
// directly or nothing.
func (c *Chunk) Triangles() [][3]uint32 {
	var out [][3]uint32
	for i := range c.drawItems {
		item := &c.drawItems[i]
		switch item.Primitive {
		case TriangleList:
			for j := 0; j+2 < item.IndexCount; j += 3 {
				out = append(out, [3]uint32{
					c.indexValue(item.IndexOffset + j),
					c.indexValue(item.IndexOffset + j + 1),
					c.indexValue(item.IndexOffset + j + 2),
				})
			}
		case TriangleStrip:
			for j := 0; j+2 < item.IndexCount; j++ {
				second, third := 1, 2
				if j&1 == 1 {
					second, third = 2, 1
				}
				out = append(out, [3]uint32{
					c.indexValue(item.IndexOffset + j),
					c.indexValue(item.IndexOffset + j + second),
					c.indexValue(item.IndexOffset + j + third),
				})
			}
		case TriangleListAdjacency:
			for j := 0; j+5 < item.IndexCount; j += 6 {
				out = append(out, [3]uint32{
					c.indexValue(item.IndexOffset + j),
					c.indexValue(item.IndexOffset + j + 2),
					c.indexValue(item.IndexOffset + j + 4),
				})
			}
		}
	}
	return out
}

// TransformVertexStream applies a 4x4 transform to every value of a
// 3 x float32 stream in place.
func (c *Chunk) TransformVertexStream(typ StreamType, m kmath.Mat4) error {
	if c.locked {
		return ErrVertexDataLocked
	}
	s := c.VertexStream(typ)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, c.registry.NameForType(typ))
	}
	if s.DataType != TypeFloat32 || s.ComponentCount != 3 {
		return fmt.Errorf("%w: %s is %dx%s", ErrStreamShape, c.registry.NameForType(typ), s.ComponentCount, s.DataType)
	}

	for v := 0; v < c.vertexCount; v++ {
		base := v*c.vertexSize + s.Offset
		p := kmath.Vec3{
			X: math.Float32frombits(byteOrder.Uint32(c.vertexData[base:])),
			Y: math.Float32frombits(byteOrder.Uint32(c.vertexData[base+4:])),
			Z: math.Float32frombits(byteOrder.Uint32(c.vertexData[base+8:])),
		}
		p = m.TransformPoint(p)
		byteOrder.PutUint32(c.vertexData[base:], math.Float32bits(p.X))
		byteOrder.PutUint32(c.vertexData[base+4:], math.Float32bits(p.Y))
		byteOrder.PutUint32(c.vertexData[base+8:], math.Float32bits(p.Z))
	}

	c.invalidateBounds()
	if c.IsRegistered() {
		if err := c.device.UpdateBuffer(c.vertexBuffer, c.vertexData); err != nil {
			return fmt.Errorf("uploading vertex data: %w", err)
		}
	}
	return nil
}

// maxVertexCoordinate bounds sane world-space position values.
const maxVertexCoordinate = 1e6

// ValidateVertexPositionData checks that every position component is finite
// and within sane world-space magnitude.
func (c *Chunk) ValidateVertexPositionData() error {
	s := c.positionStream()
	if s == nil {
		return fmt.Errorf("%w: no 3 x float32 position stream", ErrStreamNotFound)
	}
	for v := 0; v < c.vertexCount; v++ {
		p := c.position(v, s.Offset)
		if !p.IsFinite() {
			return fmt.Errorf("vertex %d has a non-finite position component", v)
		}
		if absf(p.X) > maxVertexCoordinate || absf(p.Y) > maxVertexCoordinate || absf(p.Z) > maxVertexCoordinate {
			return fmt.Errorf("vertex %d position exceeds coordinate limit %g", v, float64(maxVertexCoordinate))
		}
	}
	return nil
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Clear resets the chunk to its freshly constructed state, releasing any
// GPU buffers.
func (c *Chunk) Clear() {
	c.Unregister()
	c.streams = nil
	c.vertexCount = 0
	c.vertexSize = 0
	c.vertexData = nil
	c.indexWidth = Index16
	c.indexData = nil
	c.drawItems = nil
	c.dynamic = false
	c.locked = false
	c.invalidateBounds()
}
