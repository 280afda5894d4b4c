package gpu

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemDeviceCreateAndUpdate(t *testing.T) {
	dev := NewMemDevice()

	buf, err := dev.CreateBuffer(VertexBuffer, 8, []byte{1, 2, 3, 4}, false)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	if buf.Size() != 8 {
		t.Errorf("expected size 8, got %d", buf.Size())
	}
	if !bytes.Equal(dev.Bytes(buf), []byte{1, 2, 3, 4, 0, 0, 0, 0}) {
		t.Errorf("unexpected initial contents: %v", dev.Bytes(buf))
	}

	if err := dev.UpdateBuffer(buf, []byte{9, 8}); err != nil {
		t.Fatalf("UpdateBuffer failed: %v", err)
	}
	if !bytes.Equal(dev.Bytes(buf)[:2], []byte{9, 8}) {
		t.Errorf("update not applied: %v", dev.Bytes(buf))
	}
}

func TestMemDeviceUpdateTooLarge(t *testing.T) {
	dev := NewMemDevice()

	buf, err := dev.CreateBuffer(IndexBuffer, 2, nil, true)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}

	err = dev.UpdateBuffer(buf, []byte{1, 2, 3})
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("expected ErrBufferTooSmall, got %v", err)
	}
}

func TestMemDeviceLiveBuffers(t *testing.T) {
	dev := NewMemDevice()

	a, _ := dev.CreateBuffer(VertexBuffer, 4, nil, false)
	b, _ := dev.CreateBuffer(IndexBuffer, 4, nil, false)
	if dev.LiveBuffers() != 2 {
		t.Fatalf("expected 2 live buffers, got %d", dev.LiveBuffers())
	}

	dev.DestroyBuffer(a)
	dev.DestroyBuffer(nil) // no-op
	if dev.LiveBuffers() != 1 {
		t.Errorf("expected 1 live buffer, got %d", dev.LiveBuffers())
	}

	dev.DestroyBuffer(b)
	if dev.LiveBuffers() != 0 {
		t.Errorf("expected 0 live buffers, got %d", dev.LiveBuffers())
	}
}
