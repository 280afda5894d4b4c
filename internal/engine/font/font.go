// Package font loads AngelCode bitmap font descriptors for text rendering.
package font

import (
	"fmt"

	"github.com/fzipp/bmfont"
)

// Font wraps a bitmap font descriptor. Draw-text render items reference a
// Font; the renderer resolves glyph quads against its atlas pages.
type Font struct {
	desc *bmfont.Descriptor
}

// Load reads a .fnt descriptor file.
func Load(path string) (*Font, error) {
	d, err := bmfont.LoadDescriptor(path)
	if err != nil {
		return nil, fmt.Errorf("loading font descriptor: %w", err)
	}
	return &Font{desc: d}, nil
}

// Name returns the font face name.
func (f *Font) Name() string {
	return f.desc.Info.Face
}

// Size returns the font size the atlas was generated at.
func (f *Font) Size() int {
	return f.desc.Info.Size
}

// LineHeight returns the vertical advance between text lines in atlas
// pixels.
func (f *Font) LineHeight() int {
	return f.desc.Common.LineHeight
}

// PageFiles returns the atlas image file names.
func (f *Font) PageFiles() []string {
	files := make([]string, 0, len(f.desc.Pages))
	for _, p := range f.desc.Pages {
		files = append(files, p.File)
	}
	return files
}

// Glyph returns the descriptor for a rune and whether the font covers it.
func (f *Font) Glyph(r rune) (bmfont.Char, bool) {
	c, ok := f.desc.Chars[r]
	return c, ok
}

// Measure returns the width and height in atlas pixels of a single line of
// text, applying kerning pairs.
func (f *Font) Measure(text string) (width, height int) {
	var prev rune
	first := true
	for _, r := range text {
		c, ok := f.desc.Chars[r]
		if !ok {
			continue
		}
		width += c.XAdvance
		if !first {
			if k, ok := f.desc.Kerning[bmfont.CharPair{First: prev, Second: r}]; ok {
				width += k.Amount
			}
		}
		prev = r
		first = false
	}
	return width, f.desc.Common.LineHeight
}
