package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kilnworks/kiln/internal/engine/geometry"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

func testTriangle(x float32) ImmediateTriangle {
	return ImmediateTriangle{
		{Position: kmath.Vec3{X: x, Y: 0}, TexCoord: kmath.Vec2{X: 0, Y: 0}, Color: kmath.ColorWhite},
		{Position: kmath.Vec3{X: x + 1, Y: 0}, TexCoord: kmath.Vec2{X: 1, Y: 0}, Color: kmath.ColorWhite},
		{Position: kmath.Vec3{X: x, Y: 1}, TexCoord: kmath.Vec2{X: 0, Y: 1}, Color: kmath.ColorWhite},
	}
}

func TestImmediateBufferAdd(t *testing.T) {
	b, err := NewImmediateBuffer(4)
	if err != nil {
		t.Fatalf("NewImmediateBuffer: %v", err)
	}
	defer b.Close()

	if b.Capacity() != 4 {
		t.Fatalf("Capacity() = %d, want 4", b.Capacity())
	}

	idx, err := b.Add([]ImmediateTriangle{testTriangle(0), testTriangle(10)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.TriangleCount() != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", b.TriangleCount())
	}

	item := b.Chunk().DrawItems()[idx]
	if item.Primitive != geometry.TriangleList || item.IndexCount != 6 {
		t.Fatalf("draw item = %v/%d indices, want TriangleList/6", item.Primitive, item.IndexCount)
	}
}

func TestImmediateBufferVertexLayout(t *testing.T) {
	b, err := NewImmediateBuffer(1)
	if err != nil {
		t.Fatalf("NewImmediateBuffer: %v", err)
	}
	defer b.Close()

	tri := ImmediateTriangle{
		{Position: kmath.Vec3{X: 1, Y: 2, Z: 3}, TexCoord: kmath.Vec2{X: 0.5, Y: 0.25}, Color: kmath.ColorRed},
		{},
		{},
	}
	if _, err := b.Add([]ImmediateTriangle{tri}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	data := b.Chunk().VertexData()
	if len(data) != 3*immediateVertexSize {
		t.Fatalf("vertex data length = %d, want %d", len(data), 3*immediateVertexSize)
	}

	at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	if at(0) != 1 || at(4) != 2 || at(8) != 3 {
		t.Fatalf("position = (%v, %v, %v), want (1, 2, 3)", at(0), at(4), at(8))
	}
	if at(12) != 0.5 || at(16) != 0.25 {
		t.Fatalf("texcoord = (%v, %v), want (0.5, 0.25)", at(12), at(16))
	}
	if got := binary.LittleEndian.Uint32(data[20:]); got != kmath.ColorRed.RGBA8() {
		t.Fatalf("color = %#x, want %#x", got, kmath.ColorRed.RGBA8())
	}
}

func TestImmediateBufferGrowth(t *testing.T) {
	b, err := NewImmediateBuffer(2)
	if err != nil {
		t.Fatalf("NewImmediateBuffer: %v", err)
	}
	defer b.Close()

	first, err := b.Add([]ImmediateTriangle{testTriangle(0)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Exceed capacity: 1 + 4 > 2 forces a grow to max(2*2, 5) = 5.
	if _, err := b.Add([]ImmediateTriangle{
		testTriangle(10), testTriangle(20), testTriangle(30), testTriangle(40),
	}); err != nil {
		t.Fatalf("Add past capacity: %v", err)
	}

	if b.Capacity() != 5 {
		t.Fatalf("Capacity() after grow = %d, want 5", b.Capacity())
	}
	if b.TriangleCount() != 5 {
		t.Fatalf("TriangleCount() = %d, want 5", b.TriangleCount())
	}

	// Small overflows double instead of exact fit.
	if _, err := b.Add([]ImmediateTriangle{testTriangle(50)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Capacity() != 10 {
		t.Fatalf("Capacity() after second grow = %d, want 10", b.Capacity())
	}

	// Growth preserves earlier vertex data and draw items.
	data := b.Chunk().VertexData()
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[0:]))
	if x != 0 {
		t.Fatalf("first vertex x = %v after grow, want 0", x)
	}
	item := b.Chunk().DrawItems()[first]
	if item.IndexOffset != 0 || item.IndexCount != 3 {
		t.Fatalf("first draw item offset/count = %d/%d, want 0/3", item.IndexOffset, item.IndexCount)
	}
}

func TestImmediateBufferBeginFrame(t *testing.T) {
	b, err := NewImmediateBuffer(2)
	if err != nil {
		t.Fatalf("NewImmediateBuffer: %v", err)
	}
	defer b.Close()

	if _, err := b.Add([]ImmediateTriangle{testTriangle(0), testTriangle(1), testTriangle(2)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	grown := b.Capacity()

	b.BeginFrame()

	if b.TriangleCount() != 0 {
		t.Fatalf("TriangleCount() after BeginFrame = %d, want 0", b.TriangleCount())
	}
	if n := len(b.Chunk().DrawItems()); n != 0 {
		t.Fatalf("draw item count after BeginFrame = %d, want 0", n)
	}
	// Capacity is monotonic across frames.
	if b.Capacity() != grown {
		t.Fatalf("Capacity() after BeginFrame = %d, want %d", b.Capacity(), grown)
	}
}
