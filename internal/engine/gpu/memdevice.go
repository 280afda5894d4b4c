package gpu

// MemDevice is a Device backed by plain memory. It is used by headless
// tools and tests, where geometry needs to be registered but no graphics
// context exists.
type MemDevice struct {
	created   int
	destroyed int
}

// NewMemDevice returns an empty in-memory device.
func NewMemDevice() *MemDevice {
	return &MemDevice{}
}

type memBuffer struct {
	kind    BufferKind
	data    []byte
	dynamic bool
}

func (b *memBuffer) Size() int { return len(b.data) }

// CreateBuffer allocates a byte slice of the requested size and copies
// data into it.
func (d *MemDevice) CreateBuffer(kind BufferKind, size int, data []byte, dynamic bool) (Buffer, error) {
	buf := &memBuffer{
		kind:    kind,
		data:    make([]byte, size),
		dynamic: dynamic,
	}
	copy(buf.data, data)
	d.created++
	return buf, nil
}

// UpdateBuffer copies data into the front of the allocation.
func (d *MemDevice) UpdateBuffer(b Buffer, data []byte) error {
	buf := b.(*memBuffer)
	if len(data) > len(buf.data) {
		return ErrBufferTooSmall
	}
	copy(buf.data, data)
	return nil
}

// DestroyBuffer releases the buffer's memory.
func (d *MemDevice) DestroyBuffer(b Buffer) {
	if b == nil {
		return
	}
	buf := b.(*memBuffer)
	buf.data = nil
	d.destroyed++
}

// LiveBuffers returns the number of buffers created but not yet destroyed.
func (d *MemDevice) LiveBuffers() int {
	return d.created - d.destroyed
}

// Bytes exposes the stored contents of a buffer created by this device.
func (d *MemDevice) Bytes(b Buffer) []byte {
	return b.(*memBuffer).data
}
