package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	kmath "github.com/kilnworks/kiln/pkg/math"
)

// Chunk serialization errors.
var (
	ErrInvalidChunkMagic       = errors.New("invalid chunk magic: expected 'GEOC'")
	ErrUnsupportedChunkVersion = errors.New("unsupported chunk version")
	ErrTruncatedChunkData      = errors.New("truncated chunk data")
	ErrCorruptChunkData        = errors.New("corrupt chunk data")
)

var chunkMagic = [4]byte{'G', 'E', 'O', 'C'}

// ChunkVersion is the version of a chunk section.
type ChunkVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v ChunkVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentChunkVersion is the version written by Save. Minor version 3 added
// the per-stream normalize flag; files older than 1.2 are not readable.
var CurrentChunkVersion = ChunkVersion{Major: 1, Minor: 3}

// Save writes the chunk as a versioned binary section. The written bytes
// round-trip through Load: vertex bytes, index bytes, stream descriptions
// and draw items are reproduced exactly.
func (c *Chunk) Save(w io.Writer) error {
	if _, err := w.Write(chunkMagic[:]); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	// Version is stored as Minor, Major.
	if _, err := w.Write([]byte{CurrentChunkVersion.Minor, CurrentChunkVersion.Major}); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}

	// Vertex streams, identified by name since ids are process-local.
	if err := binary.Write(w, byteOrder, uint16(len(c.streams))); err != nil {
		return fmt.Errorf("writing stream count: %w", err)
	}
	for _, s := range c.streams {
		name := c.registry.NameForType(s.Type)
		if err := binary.Write(w, byteOrder, uint16(len(name))); err != nil {
			return fmt.Errorf("writing stream name length: %w", err)
		}
		if _, err := w.Write([]byte(name)); err != nil {
			return fmt.Errorf("writing stream name: %w", err)
		}
		normalize := uint8(0)
		if s.Normalize {
			normalize = 1
		}
		if err := binary.Write(w, byteOrder, struct {
			ComponentCount uint8
			DataType       uint8
			Offset         uint32
			Normalize      uint8
		}{uint8(s.ComponentCount), uint8(s.DataType), uint32(s.Offset), normalize}); err != nil {
			return fmt.Errorf("writing stream record: %w", err)
		}
	}

	// Vertex data.
	if err := binary.Write(w, byteOrder, uint32(c.vertexCount)); err != nil {
		return fmt.Errorf("writing vertex count: %w", err)
	}
	present := uint8(0)
	if len(c.vertexData) > 0 {
		present = 1
	}
	if err := binary.Write(w, byteOrder, present); err != nil {
		return fmt.Errorf("writing vertex data flag: %w", err)
	}
	if present == 1 {
		if _, err := w.Write(c.vertexData); err != nil {
			return fmt.Errorf("writing vertex data: %w", err)
		}
	}

	// Draw items, with their index ranges resolved so loading skips the
	// initial scan.
	if err := binary.Write(w, byteOrder, uint32(len(c.drawItems))); err != nil {
		return fmt.Errorf("writing draw item count: %w", err)
	}
	for i := range c.drawItems {
		item := &c.drawItems[i]
		lowest, highest := item.IndexRange(c.indexValue)
		if err := binary.Write(w, byteOrder, struct {
			Primitive   uint8
			IndexCount  uint32
			IndexOffset uint32
			Lowest      uint32
			Highest     uint32
		}{uint8(item.Primitive), uint32(item.IndexCount), uint32(item.IndexOffset), lowest, highest}); err != nil {
			return fmt.Errorf("writing draw item: %w", err)
		}
	}

	// Index data.
	if err := binary.Write(w, byteOrder, uint8(c.indexWidth)); err != nil {
		return fmt.Errorf("writing index width: %w", err)
	}
	if err := binary.Write(w, byteOrder, uint32(len(c.indexData))); err != nil {
		return fmt.Errorf("writing index data length: %w", err)
	}
	if _, err := w.Write(c.indexData); err != nil {
		return fmt.Errorf("writing index data: %w", err)
	}

	dynamic := uint8(0)
	if c.dynamic {
		dynamic = 1
	}
	if err := binary.Write(w, byteOrder, dynamic); err != nil {
		return fmt.Errorf("writing dynamic flag: %w", err)
	}

	// Bounding volumes, loaded back as clean caches.
	box := c.AABB()
	sphere := c.BoundingSphere()
	bounds := [10]float32{
		box.Min.X, box.Min.Y, box.Min.Z,
		box.Max.X, box.Max.Y, box.Max.Z,
		sphere.Origin.X, sphere.Origin.Y, sphere.Origin.Z, sphere.Radius,
	}
	if err := binary.Write(w, byteOrder, bounds); err != nil {
		return fmt.Errorf("writing bounding volumes: %w", err)
	}

	return nil
}

// Load reads a chunk section written by Save, resolving stream names in the
// default registry.
func Load(r io.Reader) (*Chunk, error) {
	return LoadWithRegistry(r, DefaultRegistry)
}

// LoadWithRegistry reads a chunk section, interning stream names in the
// given registry.
func LoadWithRegistry(r io.Reader, registry *StreamRegistry) (*Chunk, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedChunkData)
	}
	if header[0] != 'G' || header[1] != 'E' || header[2] != 'O' || header[3] != 'C' {
		return nil, ErrInvalidChunkMagic
	}

	// Version is stored as Minor, Major.
	version := ChunkVersion{Major: header[5], Minor: header[4]}
	if version.Major != CurrentChunkVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChunkVersion, version)
	}
	if version.Minor < 2 {
		return nil, fmt.Errorf("%w: %s (too old)", ErrUnsupportedChunkVersion, version)
	}

	c := NewChunkWithRegistry(registry)

	// Vertex streams.
	var streamCount uint16
	if err := binary.Read(r, byteOrder, &streamCount); err != nil {
		return nil, fmt.Errorf("%w: reading stream count", ErrTruncatedChunkData)
	}
	for i := 0; i < int(streamCount); i++ {
		var nameLen uint16
		if err := binary.Read(r, byteOrder, &nameLen); err != nil {
			return nil, fmt.Errorf("%w: reading stream %d name length", ErrTruncatedChunkData, i)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("%w: reading stream %d name", ErrTruncatedChunkData, i)
		}

		var rec struct {
			ComponentCount uint8
			DataType       uint8
			Offset         uint32
		}
		if err := binary.Read(r, byteOrder, &rec); err != nil {
			return nil, fmt.Errorf("%w: reading stream %d record", ErrTruncatedChunkData, i)
		}
		if DataType(rec.DataType) > TypeFloat64 {
			return nil, fmt.Errorf("%w: stream %q has unknown data type %d", ErrCorruptChunkData, name, rec.DataType)
		}

		typ := registry.TypeForName(string(name))
		stream := NewVertexStream(typ, int(rec.ComponentCount), DataType(rec.DataType))

		if version.Minor >= 3 {
			var normalize uint8
			if err := binary.Read(r, byteOrder, &normalize); err != nil {
				return nil, fmt.Errorf("%w: reading stream %d normalize flag", ErrTruncatedChunkData, i)
			}
			stream.Normalize = normalize != 0
		} else {
			// Files predating the flag normalize everything except bone
			// indices.
			stream.Normalize = typ != registry.TypeForName("Bones")
		}

		c.streams = append(c.streams, stream)
	}
	// Stored offsets are advisory; the packed layout is authoritative.
	c.recomputeOffsets()

	// Vertex data.
	var vertexCount uint32
	if err := binary.Read(r, byteOrder, &vertexCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedChunkData)
	}
	var present uint8
	if err := binary.Read(r, byteOrder, &present); err != nil {
		return nil, fmt.Errorf("%w: reading vertex data flag", ErrTruncatedChunkData)
	}
	c.vertexCount = int(vertexCount)
	c.vertexData = make([]byte, c.vertexCount*c.vertexSize)
	if present != 0 {
		if _, err := io.ReadFull(r, c.vertexData); err != nil {
			return nil, fmt.Errorf("%w: reading vertex data", ErrTruncatedChunkData)
		}
	}

	// Draw items.
	var itemCount uint32
	if err := binary.Read(r, byteOrder, &itemCount); err != nil {
		return nil, fmt.Errorf("%w: reading draw item count", ErrTruncatedChunkData)
	}
	for i := 0; i < int(itemCount); i++ {
		var rec struct {
			Primitive   uint8
			IndexCount  uint32
			IndexOffset uint32
			Lowest      uint32
			Highest     uint32
		}
		if err := binary.Read(r, byteOrder, &rec); err != nil {
			return nil, fmt.Errorf("%w: reading draw item %d", ErrTruncatedChunkData, i)
		}
		item := NewDrawItem(PrimitiveType(rec.Primitive), int(rec.IndexCount), int(rec.IndexOffset))
		item.setIndexRange(rec.Lowest, rec.Highest)
		c.drawItems = append(c.drawItems, item)
	}

	// Index data.
	var widthTag uint8
	if err := binary.Read(r, byteOrder, &widthTag); err != nil {
		return nil, fmt.Errorf("%w: reading index width", ErrTruncatedChunkData)
	}
	if IndexWidth(widthTag) != Index16 && IndexWidth(widthTag) != Index32 {
		return nil, fmt.Errorf("%w: unknown index width %d", ErrCorruptChunkData, widthTag)
	}
	c.indexWidth = IndexWidth(widthTag)

	var indexBytes uint32
	if err := binary.Read(r, byteOrder, &indexBytes); err != nil {
		return nil, fmt.Errorf("%w: reading index data length", ErrTruncatedChunkData)
	}
	if int(indexBytes)%c.indexWidth.Bytes() != 0 {
		return nil, fmt.Errorf("%w: index byte length %d not a multiple of index size", ErrCorruptChunkData, indexBytes)
	}
	c.indexData = make([]byte, indexBytes)
	if _, err := io.ReadFull(r, c.indexData); err != nil {
		return nil, fmt.Errorf("%w: reading index data", ErrTruncatedChunkData)
	}

	var dynamic uint8
	if err := binary.Read(r, byteOrder, &dynamic); err != nil {
		return nil, fmt.Errorf("%w: reading dynamic flag", ErrTruncatedChunkData)
	}
	c.dynamic = dynamic != 0

	var bounds [10]float32
	if err := binary.Read(r, byteOrder, &bounds); err != nil {
		return nil, fmt.Errorf("%w: reading bounding volumes", ErrTruncatedChunkData)
	}

	// Validate before trusting the data.
	for i, count := 0, c.IndexCount(); i < count; i++ {
		if int(c.indexValue(i)) >= c.vertexCount {
			return nil, fmt.Errorf("%w: index %d references vertex %d of %d", ErrCorruptChunkData, i, c.indexValue(i), c.vertexCount)
		}
	}
	for i := range c.drawItems {
		item := &c.drawItems[i]
		if item.IndexOffset+item.IndexCount > c.IndexCount() {
			return nil, fmt.Errorf("%w: draw item %d spans [%d,%d) of %d indices", ErrCorruptChunkData,
				i, item.IndexOffset, item.IndexOffset+item.IndexCount, c.IndexCount())
		}
	}

	// The saved bounding volumes seed the caches.
	if c.vertexCount > 0 && !math.IsNaN(float64(bounds[0])) {
		box := kmath.NewAABB(
			kmath.Vec3{X: bounds[0], Y: bounds[1], Z: bounds[2]},
			kmath.Vec3{X: bounds[3], Y: bounds[4], Z: bounds[5]},
		)
		c.aabb.set(box)
		c.sphere.set(kmath.Sphere{
			Origin: kmath.Vec3{X: bounds[6], Y: bounds[7], Z: bounds[8]},
			Radius: bounds[9],
		})
	}

	return c, nil
}

// SaveFile writes the chunk to a .geo file.
func (c *Chunk) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chunk file: %w", err)
	}
	defer f.Close()
	if err := c.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads a chunk from a .geo file.
func LoadFile(path string) (*Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chunk file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
