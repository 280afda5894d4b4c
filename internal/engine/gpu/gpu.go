// Package gpu abstracts GPU buffer allocation so geometry code can be
// registered with a renderer without depending on a specific graphics API.
package gpu

import "errors"

// BufferKind selects which binding point a buffer is created for.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	default:
		return "unknown"
	}
}

// Buffer is an opaque handle to a GPU-side buffer allocation.
type Buffer interface {
	// Size returns the allocation size in bytes.
	Size() int
}

// ErrBufferTooSmall is returned by Update when the upload does not fit
// inside the existing allocation.
var ErrBufferTooSmall = errors.New("gpu: update exceeds buffer allocation")

// Device creates and updates GPU buffers. Implementations are not safe for
// concurrent use; all calls must come from the render thread.
type Device interface {
	// CreateBuffer allocates a buffer and uploads data into it. A dynamic
	// buffer is expected to be rewritten frequently. data may be nil, in
	// which case the allocation is left uninitialized.
	CreateBuffer(kind BufferKind, size int, data []byte, dynamic bool) (Buffer, error)

	// UpdateBuffer replaces the first len(data) bytes of an existing
	// allocation. The buffer is not resized.
	UpdateBuffer(b Buffer, data []byte) error

	// DestroyBuffer releases a buffer. Destroying a nil buffer is a no-op.
	DestroyBuffer(b Buffer)
}
