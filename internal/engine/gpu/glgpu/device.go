// Package glgpu implements the gpu.Device interface on top of OpenGL.
// All calls must be made from the thread that owns the GL context.
package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/kilnworks/kiln/internal/engine/gpu"
)

// Device allocates OpenGL buffer objects.
type Device struct{}

// NewDevice returns a Device. The GL context must already be current.
func NewDevice() *Device {
	return &Device{}
}

type glBuffer struct {
	id     uint32
	target uint32
	size   int
}

func (b *glBuffer) Size() int { return b.size }

func target(kind gpu.BufferKind) uint32 {
	if kind == gpu.IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// CreateBuffer creates a buffer object and uploads data with glBufferData.
func (d *Device) CreateBuffer(kind gpu.BufferKind, size int, data []byte, dynamic bool) (gpu.Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("glgpu: negative buffer size %d", size)
	}

	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	buf := &glBuffer{target: target(kind), size: size}
	gl.GenBuffers(1, &buf.id)
	gl.BindBuffer(buf.target, buf.id)

	if len(data) > 0 {
		gl.BufferData(buf.target, size, gl.Ptr(data), usage)
	} else {
		gl.BufferData(buf.target, size, nil, usage)
	}
	gl.BindBuffer(buf.target, 0)

	return buf, nil
}

// UpdateBuffer rewrites the front of an allocation with glBufferSubData.
func (d *Device) UpdateBuffer(b gpu.Buffer, data []byte) error {
	buf := b.(*glBuffer)
	if len(data) > buf.size {
		return gpu.ErrBufferTooSmall
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(buf.target, buf.id)
	gl.BufferSubData(buf.target, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(buf.target, 0)
	return nil
}

// DestroyBuffer deletes the buffer object.
func (d *Device) DestroyBuffer(b gpu.Buffer) {
	if b == nil {
		return
	}
	buf := b.(*glBuffer)
	if buf.id != 0 {
		gl.DeleteBuffers(1, &buf.id)
		buf.id = 0
	}
}

// BufferID exposes the underlying GL object name for binding at draw time.
func BufferID(b gpu.Buffer) uint32 {
	if b == nil {
		return 0
	}
	return b.(*glBuffer).id
}
