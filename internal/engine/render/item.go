// Package render implements the per-frame render submission structure:
// priority-sorted effect queues of render commands, the geometry gather
// producer API, and the shared immediate-triangle buffer.
package render

import (
	"github.com/kilnworks/kiln/internal/engine/font"
	"github.com/kilnworks/kiln/internal/engine/geometry"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

// AllDrawItems selects every draw item of a chunk in a DrawChunk command.
const AllDrawItems = -1

// Item is one render command in a queue. It is a closed sum over the four
// command kinds; consumers switch exhaustively on the concrete type.
type Item interface {
	isRenderItem()
}

// ChangeTransform sets the model transform for subsequent draw commands.
type ChangeTransform struct {
	Transform kmath.SimpleTransform
	Scale     kmath.Vec3
}

// DrawChunk draws one draw item of a geometry chunk, or all of them when
// DrawItemIndex is AllDrawItems.
type DrawChunk struct {
	Chunk         *geometry.Chunk
	DrawItemIndex int
}

// DrawRectangle draws an axis-aligned rectangle of the given size at the
// current transform.
type DrawRectangle struct {
	Width  float32
	Height float32
}

// DrawText draws a string with a bitmap font at the current transform.
type DrawText struct {
	Font  *font.Font
	Size  float32
	Text  string
	Color kmath.Color
}

func (ChangeTransform) isRenderItem() {}
func (DrawChunk) isRenderItem()       {}
func (DrawRectangle) isRenderItem()   {}
func (DrawText) isRenderItem()        {}

// ItemArray is an ordered sequence of render commands. Order is
// significant; commands execute in sequence.
type ItemArray struct {
	items []Item
}

// AddChangeTransform appends a change-transform command.
func (a *ItemArray) AddChangeTransform(t kmath.SimpleTransform, scale kmath.Vec3) {
	a.items = append(a.items, ChangeTransform{Transform: t, Scale: scale})
}

// AddDrawChunk appends a draw-chunk command.
func (a *ItemArray) AddDrawChunk(c *geometry.Chunk, drawItemIndex int) {
	a.items = append(a.items, DrawChunk{Chunk: c, DrawItemIndex: drawItemIndex})
}

// AddDrawRectangle appends a draw-rectangle command.
func (a *ItemArray) AddDrawRectangle(width, height float32) {
	a.items = append(a.items, DrawRectangle{Width: width, Height: height})
}

// AddDrawText appends a draw-text command.
func (a *ItemArray) AddDrawText(f *font.Font, size float32, text string, color kmath.Color) {
	a.items = append(a.items, DrawText{Font: f, Size: size, Text: text, Color: color})
}

// Items returns the commands in submission order.
func (a *ItemArray) Items() []Item {
	return a.items
}

// Len returns the number of commands.
func (a *ItemArray) Len() int {
	return len(a.items)
}

// Clear removes all commands.
func (a *ItemArray) Clear() {
	a.items = a.items[:0]
}
