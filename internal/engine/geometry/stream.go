// Package geometry implements packed vertex/index storage for rendering:
// vertex streams, draw items, geometry chunks, bounding-volume caches, GPU
// buffer registration and versioned binary persistence.
package geometry

import (
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kilnworks/kiln/internal/logger"
)

// DataType identifies the scalar type of a vertex stream component.
type DataType uint8

const (
	TypeInt8 DataType = iota
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
)

// Size returns the size of one component in bytes.
func (t DataType) Size() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

func (t DataType) String() string {
	switch t {
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeUint16:
		return "uint16"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// StreamType is an interned stream name id. Ids are allocated by a
// StreamRegistry, are 1-based and process-local; zero means "no stream".
// Files store stream names, never ids.
type StreamType int

// StreamRegistry interns vertex stream names. Lookups are case-insensitive
// and legacy names from old files map onto their current equivalents.
type StreamRegistry struct {
	mu      sync.RWMutex
	byName  map[string]StreamType // lowercased name -> id
	names   []string              // id -> canonical name, index 0 unused
	aliases map[string]string     // lowercased legacy name -> current name
}

// NewStreamRegistry returns an empty registry seeded with the legacy
// texture-coordinate aliases used by old geometry files.
func NewStreamRegistry() *StreamRegistry {
	return &StreamRegistry{
		byName: make(map[string]StreamType),
		names:  []string{""},
		aliases: map[string]string{
			"tcdiffuse":          "DiffuseTextureCoordinate",
			"tclightmap":         "LightmapTextureCoordinate",
			"tcambientocclusion": "AmbientOcclusionTextureCoordinate",
			"tcdecal":            "DecalTextureCoordinate",
		},
	}
}

// TypeForName interns name and returns its id, allocating a new id for
// names not seen before. Legacy aliases resolve to their current name.
func (r *StreamRegistry) TypeForName(name string) StreamType {
	key := strings.ToLower(name)

	r.mu.RLock()
	if current, ok := r.aliases[key]; ok {
		name = current
		key = strings.ToLower(current)
	}
	if id, ok := r.byName[key]; ok {
		r.mu.RUnlock()
		return id
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[key]; ok {
		return id
	}
	id := StreamType(len(r.names))
	r.names = append(r.names, name)
	r.byName[key] = id
	return id
}

// NameForType returns the canonical name for an id, or "" if the id was
// never allocated.
func (r *StreamRegistry) NameForType(id StreamType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id <= 0 || int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

// DefaultRegistry is the registry used by chunks unless one is supplied
// explicitly. The well-known stream ids below are allocated from it.
var DefaultRegistry = NewStreamRegistry()

// Well-known vertex stream ids.
var (
	PositionStream                          = DefaultRegistry.TypeForName("Position")
	ColorStream                             = DefaultRegistry.TypeForName("Color")
	NormalStream                            = DefaultRegistry.TypeForName("Normal")
	TangentStream                           = DefaultRegistry.TypeForName("Tangent")
	BitangentStream                         = DefaultRegistry.TypeForName("Bitangent")
	DiffuseTextureCoordinateStream          = DefaultRegistry.TypeForName("DiffuseTextureCoordinate")
	LightmapTextureCoordinateStream         = DefaultRegistry.TypeForName("LightmapTextureCoordinate")
	AmbientOcclusionTextureCoordinateStream = DefaultRegistry.TypeForName("AmbientOcclusionTextureCoordinate")
	DecalTextureCoordinateStream            = DefaultRegistry.TypeForName("DecalTextureCoordinate")
	BonesStream                             = DefaultRegistry.TypeForName("Bones")
	WeightsStream                           = DefaultRegistry.TypeForName("Weights")
)

// VertexStream describes one named, typed attribute slot within a packed
// vertex record. Offsets are assigned by the owning chunk.
type VertexStream struct {
	Type           StreamType
	ComponentCount int
	DataType       DataType
	Normalize      bool // fixed-point values are normalized to [0,1] / [-1,1]
	Offset         int
}

// NewVertexStream builds a stream description. The component count is
// clamped into [1,4].
func NewVertexStream(typ StreamType, componentCount int, dataType DataType) VertexStream {
	if componentCount < 1 {
		componentCount = 1
	} else if componentCount > 4 {
		componentCount = 4
	}
	return VertexStream{
		Type:           typ,
		ComponentCount: componentCount,
		DataType:       dataType,
	}
}

// Size returns the byte size of this stream within one vertex record.
func (s VertexStream) Size() int {
	return s.ComponentCount * s.DataType.Size()
}

// InterpolateVertex linearly interpolates between the vertex records a and b
// into out, component by component. Only float32 and uint8 streams are
// interpolated; other data types are copied from a with a warning.
func InterpolateVertex(streams []VertexStream, a, b, out []byte, t float32) {
	for _, s := range streams {
		switch s.DataType {
		case TypeFloat32:
			for c := 0; c < s.ComponentCount; c++ {
				off := s.Offset + c*4
				va := math.Float32frombits(byteOrder.Uint32(a[off:]))
				vb := math.Float32frombits(byteOrder.Uint32(b[off:]))
				byteOrder.PutUint32(out[off:], math.Float32bits(va+(vb-va)*t))
			}
		case TypeUint8:
			for c := 0; c < s.ComponentCount; c++ {
				off := s.Offset + c
				va := float32(a[off])
				vb := float32(b[off])
				out[off] = uint8(va + (vb-va)*t)
			}
		default:
			copy(out[s.Offset:s.Offset+s.Size()], a[s.Offset:s.Offset+s.Size()])
			logger.Warn("vertex interpolation unsupported for data type",
				zap.String("dataType", s.DataType.String()))
		}
	}
}
