package math

// Color is an RGBA color with float components in the 0.0 to 1.0 range.
type Color struct {
	R, G, B, A float32
}

// Basic colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// RGBA8 packs the color into a 32-bit value with one byte per component,
// red in the lowest byte. Components are clamped to 0-1 first.
func (c Color) RGBA8() uint32 {
	clamp := func(v float32) uint32 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint32(v*255 + 0.5)
	}
	return clamp(c.R) | clamp(c.G)<<8 | clamp(c.B)<<16 | clamp(c.A)<<24
}
