package geometry

// PrimitiveType identifies the topology of a draw item's index range.
type PrimitiveType uint8

const (
	TriangleList PrimitiveType = iota
	TriangleStrip
	TriangleListAdjacency
	TriangleStripAdjacency
	LineStrip
)

func (p PrimitiveType) String() string {
	switch p {
	case TriangleList:
		return "triangle-list"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleListAdjacency:
		return "triangle-list-adjacency"
	case TriangleStripAdjacency:
		return "triangle-strip-adjacency"
	case LineStrip:
		return "line-strip"
	default:
		return "unknown"
	}
}

// DrawItem describes one indexed draw call within a chunk's shared index
// buffer. The lowest/highest index range is computed lazily and cached;
// the cache is dropped whenever the underlying index data changes.
type DrawItem struct {
	Primitive   PrimitiveType
	IndexCount  int
	IndexOffset int

	lowest     uint32
	highest    uint32
	rangeValid bool
}

// NewDrawItem builds a draw item covering indexCount indices starting at
// indexOffset.
func NewDrawItem(primitive PrimitiveType, indexCount, indexOffset int) DrawItem {
	return DrawItem{
		Primitive:   primitive,
		IndexCount:  indexCount,
		IndexOffset: indexOffset,
	}
}

// TriangleCount returns the number of triangles this item renders. It is
// zero for non-triangle topologies.
func (d *DrawItem) TriangleCount() int {
	switch d.Primitive {
	case TriangleList:
		return d.IndexCount / 3
	case TriangleStrip:
		if d.IndexCount < 3 {
			return 0
		}
		return d.IndexCount - 2
	case TriangleListAdjacency:
		return d.IndexCount / 6
	case TriangleStripAdjacency:
		if d.IndexCount > 5 {
			return d.IndexCount/2 - 2
		}
		return 0
	default:
		return 0
	}
}

// IndexRange returns the lowest and highest index value used by this item,
// scanning the chunk's index data once and caching the result. index is a
// reader for the shared index buffer.
func (d *DrawItem) IndexRange(index func(i int) uint32) (lowest, highest uint32) {
	if !d.rangeValid {
		d.updateIndexRange(index)
	}
	return d.lowest, d.highest
}

func (d *DrawItem) updateIndexRange(index func(i int) uint32) {
	d.lowest = 0
	d.highest = 0
	for i := 0; i < d.IndexCount; i++ {
		v := index(d.IndexOffset + i)
		if i == 0 || v < d.lowest {
			d.lowest = v
		}
		if v > d.highest {
			d.highest = v
		}
	}
	d.rangeValid = true
}

// invalidateRange drops the cached index range.
func (d *DrawItem) invalidateRange() {
	d.rangeValid = false
}

// setIndexRange installs a precomputed range, used when loading files that
// persist it.
func (d *DrawItem) setIndexRange(lowest, highest uint32) {
	d.lowest = lowest
	d.highest = highest
	d.rangeValid = true
}

// Equal reports whether two draw items describe the same draw call. The
// cached index range does not participate.
func (d *DrawItem) Equal(other *DrawItem) bool {
	return d.Primitive == other.Primitive &&
		d.IndexCount == other.IndexCount &&
		d.IndexOffset == other.IndexOffset
}
