package geometry

import (
	"context"
	"fmt"
	"math"

	kmath "github.com/kilnworks/kiln/pkg/math"
)

// ProgressFunc reports completion of a long-running chunk operation as a
// fraction in [0,1]. It may be nil.
type ProgressFunc func(fraction float32)

func report(progress ProgressFunc, fraction float32) {
	if progress != nil {
		progress(fraction)
	}
}

// cancelCheckInterval is how many work units pass between context checks.
const cancelCheckInterval = 4096

// OptimizeVertexData removes duplicate and unreferenced vertices, remapping
// every index accordingly. Vertices are duplicates when their interleaved
// bytes are identical across all streams. All work happens on staging
// copies; cancellation through ctx leaves the chunk unchanged and returns
// ctx.Err().
func (c *Chunk) OptimizeVertexData(ctx context.Context, progress ProgressFunc) error {
	if c.locked {
		return ErrVertexDataLocked
	}
	indexCount := c.IndexCount()
	if indexCount == 0 || c.vertexSize == 0 {
		return nil
	}

	remap := make(map[string]uint32)      // vertex bytes -> new index
	oldToNew := make(map[uint32]uint32)   // old index -> new index
	newVertexData := make([]byte, 0, len(c.vertexData))
	newIndices := make([]uint32, indexCount)
	next := uint32(0)

	for i := 0; i < indexCount; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			report(progress, float32(i)/float32(indexCount))
		}

		old := c.indexValue(i)
		if mapped, ok := oldToNew[old]; ok {
			newIndices[i] = mapped
			continue
		}

		bytes := c.vertexData[int(old)*c.vertexSize : (int(old)+1)*c.vertexSize]
		mapped, ok := remap[string(bytes)]
		if !ok {
			mapped = next
			next++
			remap[string(bytes)] = mapped
			newVertexData = append(newVertexData, bytes...)
		}
		oldToNew[old] = mapped
		newIndices[i] = mapped
	}

	c.vertexCount = int(next)
	c.vertexData = newVertexData
	c.indexWidth = ChooseIndexWidth(c.vertexCount)
	c.indexData = packIndices(newIndices, c.indexWidth)
	for i := range c.drawItems {
		c.drawItems[i].invalidateRange()
	}

	report(progress, 1)
	c.onVertexDataResized()
	return nil
}

// GenerateTriangleStrips re-encodes triangle-list and triangle-strip draw
// items as triangle strips built by greedy edge adjacency. The set of
// rendered triangles, including winding, is preserved exactly; only the
// index encoding changes. Non-triangle and adjacency draw items are kept
// as they are, re-appended after the strips. Cancellation through ctx
// leaves the chunk unchanged.
func (c *Chunk) GenerateTriangleStrips(ctx context.Context, progress ProgressFunc) error {
	if c.locked {
		return ErrVertexDataLocked
	}

	// Collect the triangles to restrip and the items to preserve.
	var tris [][3]uint32
	var keep []DrawItem
	for i := range c.drawItems {
		item := c.drawItems[i]
		switch item.Primitive {
		case TriangleList:
			for j := 0; j+2 < item.IndexCount; j += 3 {
				tris = append(tris, [3]uint32{
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
				tris = append(tris, [3]uint32{
					c.indexValue(item.IndexOffset + j),
					c.indexValue(item.IndexOffset + j + second),
					c.indexValue(item.IndexOffset + j + third),
				})
			}
		default:
			keep = append(keep, item)
		}
	}
	if len(tris) == 0 {
		return nil
	}

	strips, err := buildStrips(ctx, tris, progress)
	if err != nil {
		return err
	}

	// Assemble the new index array: strips first, preserved items after.
	var newIndices []uint32
	var newItems []DrawItem
	for _, strip := range strips {
		newItems = append(newItems, NewDrawItem(TriangleStrip, len(strip), len(newIndices)))
		newIndices = append(newIndices, strip...)
	}
	for _, item := range keep {
		offset := len(newIndices)
		for j := 0; j < item.IndexCount; j++ {
			newIndices = append(newIndices, c.indexValue(item.IndexOffset+j))
		}
		newItems = append(newItems, NewDrawItem(item.Primitive, item.IndexCount, offset))
	}

	c.indexWidth = ChooseIndexWidth(c.vertexCount)
	c.indexData = packIndices(newIndices, c.indexWidth)
	c.drawItems = newItems

	report(progress, 1)
	return c.reuploadIndexBuffer()
}

// sameWinding reports whether (a,b,c) is a cyclic rotation of tri, i.e.
// the same triangle rendered with the same winding.
func sameWinding(tri [3]uint32, a, b, c uint32) bool {
	return (tri[0] == a && tri[1] == b && tri[2] == c) ||
		(tri[0] == b && tri[1] == c && tri[2] == a) ||
		(tri[0] == c && tri[1] == a && tri[2] == b)
}

func edgeKey(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}

// buildStrips greedily chains triangles along shared edges. Each returned
// strip renders len(strip)-2 triangles; together the strips render exactly
// the input triangle set with input winding.
func buildStrips(ctx context.Context, tris [][3]uint32, progress ProgressFunc) ([][]uint32, error) {
	byEdge := make(map[[2]uint32][]int)
	for i, t := range tris {
		byEdge[edgeKey(t[0], t[1])] = append(byEdge[edgeKey(t[0], t[1])], i)
		byEdge[edgeKey(t[1], t[2])] = append(byEdge[edgeKey(t[1], t[2])], i)
		byEdge[edgeKey(t[2], t[0])] = append(byEdge[edgeKey(t[2], t[0])], i)
	}

	used := make([]bool, len(tris))
	consumed := 0
	var strips [][]uint32

	for start := range tris {
		if used[start] {
			continue
		}
		if consumed%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, float32(consumed)/float32(len(tris)))
		}

		t := tris[start]
		strip := []uint32{t[0], t[1], t[2]}
		used[start] = true
		consumed++

		// Extend while some unused triangle continues the strip with the
		// right winding for the next parity position.
		for {
			p := strip[len(strip)-2]
			q := strip[len(strip)-1]
			odd := (len(strip)-2)&1 == 1

			found := -1
			var appendVertex uint32
			for _, cand := range byEdge[edgeKey(p, q)] {
				if used[cand] {
					continue
				}
				r, ok := thirdVertex(tris[cand], p, q)
				if !ok {
					continue
				}
				if odd {
					if sameWinding(tris[cand], p, r, q) {
						found, appendVertex = cand, r
						break
					}
				} else {
					if sameWinding(tris[cand], p, q, r) {
						found, appendVertex = cand, r
						break
					}
				}
			}
			if found < 0 {
				break
			}
			strip = append(strip, appendVertex)
			used[found] = true
			consumed++
		}

		strips = append(strips, strip)
	}

	return strips, nil
}

// thirdVertex returns the vertex of tri that is neither p nor q.
func thirdVertex(tri [3]uint32, p, q uint32) (uint32, bool) {
	for i := 0; i < 3; i++ {
		if tri[i] != p && tri[i] != q {
			// The other two must be exactly p and q.
			a, b := tri[(i+1)%3], tri[(i+2)%3]
			if (a == p && b == q) || (a == q && b == p) {
				return tri[i], true
			}
		}
	}
	return 0, false
}

// CalculateTangentBases computes per-vertex tangent and bitangent vectors
// from the position and diffuse texture coordinate streams, adding Tangent
// and Bitangent streams when missing. Tangents are accumulated per triangle
// and orthogonalized against the normal stream when one is present.
func (c *Chunk) CalculateTangentBases() error {
	if c.locked {
		return ErrVertexDataLocked
	}
	pos := c.positionStream()
	if pos == nil {
		return fmt.Errorf("%w: no 3 x float32 position stream", ErrStreamNotFound)
	}
	tc := c.VertexStream(DiffuseTextureCoordinateStream)
	if tc == nil || tc.DataType != TypeFloat32 || tc.ComponentCount < 2 {
		return fmt.Errorf("%w: no 2 x float32 diffuse texture coordinate stream", ErrStreamNotFound)
	}

	if !c.HasVertexStream(TangentStream) {
		if err := c.AddVertexStream(NewVertexStream(TangentStream, 3, TypeFloat32)); err != nil {
			return err
		}
	}
	if !c.HasVertexStream(BitangentStream) {
		if err := c.AddVertexStream(NewVertexStream(BitangentStream, 3, TypeFloat32)); err != nil {
			return err
		}
	}
	// Offsets may have moved when streams were added.
	pos = c.positionStream()
	tc = c.VertexStream(DiffuseTextureCoordinateStream)
	tangent := c.VertexStream(TangentStream)
	bitangent := c.VertexStream(BitangentStream)

	tan := make([]kmath.Vec3, c.vertexCount)
	bit := make([]kmath.Vec3, c.vertexCount)

	for _, tri := range c.Triangles() {
		i0, i1, i2 := int(tri[0]), int(tri[1]), int(tri[2])
		p0 := c.position(i0, pos.Offset)
		p1 := c.position(i1, pos.Offset)
		p2 := c.position(i2, pos.Offset)
		t0 := c.texCoord(i0, tc.Offset)
		t1 := c.texCoord(i1, tc.Offset)
		t2 := c.texCoord(i2, tc.Offset)

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		du1, dv1 := t1.X-t0.X, t1.Y-t0.Y
		du2, dv2 := t2.X-t0.X, t2.Y-t0.Y

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1 / det
		sdir := kmath.Vec3{
			X: (dv2*e1.X - dv1*e2.X) * r,
			Y: (dv2*e1.Y - dv1*e2.Y) * r,
			Z: (dv2*e1.Z - dv1*e2.Z) * r,
		}
		tdir := kmath.Vec3{
			X: (du1*e2.X - du2*e1.X) * r,
			Y: (du1*e2.Y - du2*e1.Y) * r,
			Z: (du1*e2.Z - du2*e1.Z) * r,
		}

		for _, i := range []int{i0, i1, i2} {
			tan[i] = tan[i].Add(sdir)
			bit[i] = bit[i].Add(tdir)
		}
	}

	normal := c.VertexStream(NormalStream)
	hasNormal := normal != nil && normal.DataType == TypeFloat32 && normal.ComponentCount >= 3

	for v := 0; v < c.vertexCount; v++ {
		t := tan[v]
		if hasNormal {
			n := c.position(v, normal.Offset)
			t = t.Sub(n.Scale(n.Dot(t)))
		}
		c.putVec3(v, tangent.Offset, t.Normalize())
		c.putVec3(v, bitangent.Offset, bit[v].Normalize())
	}

	if c.IsRegistered() {
		if err := c.device.UpdateBuffer(c.vertexBuffer, c.vertexData); err != nil {
			return fmt.Errorf("uploading vertex data: %w", err)
		}
	}
	return nil
}

// texCoord reads a 2 x float32 value at the given stream offset.
func (c *Chunk) texCoord(v, offset int) kmath.Vec2 {
	base := v*c.vertexSize + offset
	return kmath.Vec2{
		X: math.Float32frombits(byteOrder.Uint32(c.vertexData[base:])),
		Y: math.Float32frombits(byteOrder.Uint32(c.vertexData[base+4:])),
	}
}

// putVec3 writes a 3 x float32 value at the given stream offset.
func (c *Chunk) putVec3(v, offset int, p kmath.Vec3) {
	base := v*c.vertexSize + offset
	byteOrder.PutUint32(c.vertexData[base:], math.Float32bits(p.X))
	byteOrder.PutUint32(c.vertexData[base+4:], math.Float32bits(p.Y))
	byteOrder.PutUint32(c.vertexData[base+8:], math.Float32bits(p.Z))
}
