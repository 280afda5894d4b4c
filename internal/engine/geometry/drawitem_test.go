package geometry

import "testing"

func TestDrawItemTriangleCount(t *testing.T) {
	tests := []struct {
		name       string
		primitive  PrimitiveType
		indexCount int
		want       int
	}{
		{"list of 9", TriangleList, 9, 3},
		{"list of 3", TriangleList, 3, 1},
		{"list of 0", TriangleList, 0, 0},
		{"strip of 5", TriangleStrip, 5, 3},
		{"strip of 3", TriangleStrip, 3, 1},
		{"strip of 2", TriangleStrip, 2, 0},
		{"strip of 0", TriangleStrip, 0, 0},
		{"list adjacency of 12", TriangleListAdjacency, 12, 2},
		{"strip adjacency of 8", TriangleStripAdjacency, 8, 2},
		{"strip adjacency of 5", TriangleStripAdjacency, 5, 0},
		{"line strip of 10", LineStrip, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewDrawItem(tt.primitive, tt.indexCount, 0)
			if got := item.TriangleCount(); got != tt.want {
				t.Errorf("expected %d triangles, got %d", tt.want, got)
			}
		})
	}
}

func TestDrawItemIndexRange(t *testing.T) {
	indices := []uint32{7, 3, 9, 1, 5}
	read := func(i int) uint32 { return indices[i] }

	item := NewDrawItem(TriangleList, 3, 1)
	lowest, highest := item.IndexRange(read)
	if lowest != 1 || highest != 9 {
		t.Errorf("expected range [1,9], got [%d,%d]", lowest, highest)
	}

	// The range is cached until invalidated.
	indices[3] = 100
	lowest, highest = item.IndexRange(read)
	if lowest != 1 || highest != 9 {
		t.Errorf("expected cached range [1,9], got [%d,%d]", lowest, highest)
	}

	item.invalidateRange()
	lowest, highest = item.IndexRange(read)
	if lowest != 3 || highest != 100 {
		t.Errorf("expected recomputed range [3,100], got [%d,%d]", lowest, highest)
	}
}

func TestDrawItemIndexRangeEmpty(t *testing.T) {
	item := NewDrawItem(TriangleList, 0, 0)
	lowest, highest := item.IndexRange(func(i int) uint32 {
		t.Fatal("index reader must not be called for an empty item")
		return 0
	})
	if lowest != 0 || highest != 0 {
		t.Errorf("expected [0,0] for empty item, got [%d,%d]", lowest, highest)
	}
}

func TestDrawItemEqual(t *testing.T) {
	a := NewDrawItem(TriangleStrip, 6, 12)
	b := NewDrawItem(TriangleStrip, 6, 12)

	// Differing cached ranges do not affect equality.
	a.setIndexRange(0, 5)
	b.setIndexRange(2, 9)
	if !a.Equal(&b) {
		t.Error("expected items with same primitive/count/offset to be equal")
	}

	c := NewDrawItem(TriangleList, 6, 12)
	if a.Equal(&c) {
		t.Error("expected items with different primitives to differ")
	}
	d := NewDrawItem(TriangleStrip, 6, 15)
	if a.Equal(&d) {
		t.Error("expected items with different offsets to differ")
	}
}
