package geometry

import (
	"context"
	"errors"
	"math"
	"testing"
)

// normalizeTriangle rotates a triangle so its smallest index comes first,
// preserving winding.
func normalizeTriangle(tri [3]uint32) [3]uint32 {
	at := 0
	for i := 1; i < 3; i++ {
		if tri[i] < tri[at] {
			at = i
		}
	}
	return [3]uint32{tri[at], tri[(at+1)%3], tri[(at+2)%3]}
}

// triangleSet counts triangles up to rotation.
func triangleSet(tris [][3]uint32) map[[3]uint32]int {
	set := make(map[[3]uint32]int, len(tris))
	for _, tri := range tris {
		set[normalizeTriangle(tri)]++
	}
	return set
}

// renderedPositions maps each triangle of the chunk to the positions of its
// corners, so triangle sets can be compared across index remapping.
func renderedPositions(t *testing.T, c *Chunk) map[[9]float32]int {
	t.Helper()
	s := c.positionStream()
	if s == nil {
		t.Fatal("chunk has no position stream")
	}
	set := make(map[[9]float32]int)
	for _, tri := range c.Triangles() {
		var key [9]float32
		for i, v := range tri {
			p := c.position(int(v), s.Offset)
			key[i*3+0], key[i*3+1], key[i*3+2] = p.X, p.Y, p.Z
		}
		set[key]++
	}
	return set
}

func TestOptimizeVertexDataDeduplicates(t *testing.T) {
	// Vertices 1 and 3 are bit-identical.
	c := newPositionChunk(t, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 0},
	})
	items := []DrawItem{NewDrawItem(TriangleList, 6, 0)}
	if err := c.SetupIndexData(items, []uint32{0, 1, 2, 2, 3, 0}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	before := renderedPositions(t, c)

	if err := c.OptimizeVertexData(context.Background(), nil); err != nil {
		t.Fatalf("optimizing: %v", err)
	}

	if c.VertexCount() != 3 {
		t.Errorf("expected 3 vertices after dedup, got %d", c.VertexCount())
	}
	for i, count := 0, c.IndexCount(); i < count; i++ {
		if int(c.indexValue(i)) >= c.VertexCount() {
			t.Errorf("index %d references vertex %d beyond count %d", i, c.indexValue(i), c.VertexCount())
		}
	}

	after := renderedPositions(t, c)
	if len(before) != len(after) {
		t.Fatalf("rendered triangle set changed: %d vs %d distinct triangles", len(before), len(after))
	}
	for key, n := range before {
		if after[key] != n {
			t.Errorf("triangle %v: expected %d occurrences, got %d", key, n, after[key])
		}
	}
}

func TestOptimizeVertexDataDropsUnreferenced(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {9, 9, 9},
	})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 3, 0)}, []uint32{0, 1, 2}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	if err := c.OptimizeVertexData(context.Background(), nil); err != nil {
		t.Fatalf("optimizing: %v", err)
	}
	if c.VertexCount() != 3 {
		t.Errorf("expected unreferenced vertex dropped, vertex count %d", c.VertexCount())
	}
}

func TestOptimizeVertexDataCancellation(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 0},
	})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 6, 0)}, []uint32{0, 1, 2, 2, 3, 0}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.OptimizeVertexData(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.VertexCount() != 4 || c.IndexCount() != 6 {
		t.Error("cancelled optimize must leave the chunk unchanged")
	}
}

func TestOptimizeVertexDataReportsProgress(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 3, 0)}, []uint32{0, 1, 2}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	var fractions []float32
	err := c.OptimizeVertexData(context.Background(), func(f float32) {
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatalf("optimizing: %v", err)
	}
	if len(fractions) == 0 || fractions[len(fractions)-1] != 1 {
		t.Errorf("expected progress ending at 1, got %v", fractions)
	}
}

func TestGenerateTriangleStripsPreservesTriangles(t *testing.T) {
	// A 3x3 grid of quads, each quad as two list triangles.
	var positions [][3]float32
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			positions = append(positions, [3]float32{float32(x), float32(y), 0})
		}
	}
	var indices []uint32
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			i := uint32(y*4 + x)
			indices = append(indices, i, i+1, i+4, i+1, i+5, i+4)
		}
	}

	c := newPositionChunk(t, positions)
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, len(indices), 0)}, indices); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	before := triangleSet(c.Triangles())
	if c.TriangleCount() != 18 {
		t.Fatalf("expected 18 triangles before stripping, got %d", c.TriangleCount())
	}

	if err := c.GenerateTriangleStrips(context.Background(), nil); err != nil {
		t.Fatalf("stripping: %v", err)
	}

	for i, item := range c.DrawItems() {
		if item.Primitive != TriangleStrip {
			t.Errorf("draw item %d: expected triangle strip, got %s", i, item.Primitive)
		}
	}
	if c.TriangleCount() != 18 {
		t.Errorf("expected 18 triangles after stripping, got %d", c.TriangleCount())
	}

	after := triangleSet(c.Triangles())
	if len(before) != len(after) {
		t.Fatalf("triangle set size changed: %d vs %d", len(before), len(after))
	}
	for tri, n := range before {
		if after[tri] != n {
			t.Errorf("triangle %v: expected %d occurrences after stripping, got %d", tri, n, after[tri])
		}
	}
}

func TestGenerateTriangleStripsKeepsOtherItems(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}})
	items := []DrawItem{
		NewDrawItem(TriangleList, 3, 0),
		NewDrawItem(LineStrip, 3, 3),
	}
	if err := c.SetupIndexData(items, []uint32{0, 1, 2, 0, 1, 3}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	if err := c.GenerateTriangleStrips(context.Background(), nil); err != nil {
		t.Fatalf("stripping: %v", err)
	}

	got := c.DrawItems()
	if len(got) != 2 {
		t.Fatalf("expected 2 draw items, got %d", len(got))
	}
	if got[0].Primitive != TriangleStrip {
		t.Errorf("expected first item to be a strip, got %s", got[0].Primitive)
	}
	last := got[len(got)-1]
	if last.Primitive != LineStrip || last.IndexCount != 3 {
		t.Fatalf("expected preserved line strip of 3 indices, got %+v", last)
	}
	for j, want := range []uint32{0, 1, 3} {
		if v := c.indexValue(last.IndexOffset + j); v != want {
			t.Errorf("line strip index %d: expected %d, got %d", j, want, v)
		}
	}
}

func TestGenerateTriangleStripsCancellation(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 3, 0)}, []uint32{0, 1, 2}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.GenerateTriangleStrips(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := c.DrawItems()[0].Primitive; got != TriangleList {
		t.Errorf("cancelled stripping must leave items unchanged, got %s", got)
	}
}

func TestCalculateTangentBases(t *testing.T) {
	c := NewChunk()
	if err := c.AddVertexStream(NewVertexStream(PositionStream, 3, TypeFloat32)); err != nil {
		t.Fatalf("adding position stream: %v", err)
	}
	if err := c.AddVertexStream(NewVertexStream(DiffuseTextureCoordinateStream, 2, TypeFloat32)); err != nil {
		t.Fatalf("adding texcoord stream: %v", err)
	}
	if err := c.SetVertexCount(3, false); err != nil {
		t.Fatalf("setting vertex count: %v", err)
	}

	// A triangle in the XY plane with texture coordinates aligned to it:
	// the tangent must come out along +X and the bitangent along +Y.
	lock, err := c.LockVertexData()
	if err != nil {
		t.Fatalf("locking: %v", err)
	}
	data := lock.Bytes()
	writeVertex := func(i int, px, py, u, v float32) {
		base := i * c.VertexSize()
		byteOrder.PutUint32(data[base:], math.Float32bits(px))
		byteOrder.PutUint32(data[base+4:], math.Float32bits(py))
		byteOrder.PutUint32(data[base+8:], math.Float32bits(0))
		byteOrder.PutUint32(data[base+12:], math.Float32bits(u))
		byteOrder.PutUint32(data[base+16:], math.Float32bits(v))
	}
	writeVertex(0, 0, 0, 0, 0)
	writeVertex(1, 1, 0, 1, 0)
	writeVertex(2, 1, 1, 1, 1)
	if err := lock.Unlock(); err != nil {
		t.Fatalf("unlocking: %v", err)
	}
	if err := c.SetupIndexData([]DrawItem{NewDrawItem(TriangleList, 3, 0)}, []uint32{0, 1, 2}); err != nil {
		t.Fatalf("setting up index data: %v", err)
	}

	if err := c.CalculateTangentBases(); err != nil {
		t.Fatalf("calculating tangent bases: %v", err)
	}

	if !c.HasVertexStream(TangentStream) || !c.HasVertexStream(BitangentStream) {
		t.Fatal("expected tangent and bitangent streams to be added")
	}

	tangent := c.VertexStream(TangentStream)
	bitangent := c.VertexStream(BitangentStream)
	for v := 0; v < 3; v++ {
		tan := c.position(v, tangent.Offset)
		bit := c.position(v, bitangent.Offset)
		if math.Abs(float64(tan.X-1)) > 1e-5 || math.Abs(float64(tan.Y)) > 1e-5 {
			t.Errorf("vertex %d: expected tangent +X, got %+v", v, tan)
		}
		if math.Abs(float64(bit.Y-1)) > 1e-5 || math.Abs(float64(bit.X)) > 1e-5 {
			t.Errorf("vertex %d: expected bitangent +Y, got %+v", v, bit)
		}
	}
}

func TestCalculateTangentBasesRequiresStreams(t *testing.T) {
	c := newPositionChunk(t, [][3]float32{{0, 0, 0}})
	if err := c.CalculateTangentBases(); !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound without texture coordinates, got %v", err)
	}
}
