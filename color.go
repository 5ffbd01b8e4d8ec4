package scenic

// Color is a floating-point RGBA color with components in [0, 1].
// Scene-graph colors are unpremultiplied (spec.md §3); premultiplication
// happens only at the moment a quad's vertices are written into the
// batcher's vertex arena (see packRGBA, called from quad.go's putVertex).
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default, fully-opaque tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent black.
var ColorTransparent = Color{}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// packRGBA packs a Color, already multiplied by worldAlpha, into the
// premultiplied uint32 the vertex arena stores (spec.md §6: a_color is
// read as 4 normalized unsigned bytes).
func packRGBA(c Color) uint32 {
	a := clamp01(c.A)
	r := uint8(clamp01(c.R*a)*255 + 0.5)
	g := uint8(clamp01(c.G*a)*255 + 0.5)
	b := uint8(clamp01(c.B*a)*255 + 0.5)
	av := uint8(a*255 + 0.5)
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(av)<<24
}

// CornerColors holds the four independently-settable per-corner colors
// a node may carry (spec.md §3: colorTl/Tr/Bl/Br).
type CornerColors struct {
	TL, TR, BL, BR Color
}

// SolidCornerColors returns CornerColors with all four corners set to c.
func SolidCornerColors(c Color) CornerColors {
	return CornerColors{TL: c, TR: c, BL: c, BR: c}
}

// SetTop sets the top two corners (TL, TR) to c.
func (cc *CornerColors) SetTop(c Color) { cc.TL, cc.TR = c, c }

// SetBottom sets the bottom two corners (BL, BR) to c.
func (cc *CornerColors) SetBottom(c Color) { cc.BL, cc.BR = c, c }

// SetLeft sets the left two corners (TL, BL) to c.
func (cc *CornerColors) SetLeft(c Color) { cc.TL, cc.BL = c, c }

// SetRight sets the right two corners (TR, BR) to c.
func (cc *CornerColors) SetRight(c Color) { cc.TR, cc.BR = c, c }

// SetAll sets all four corners to c.
func (cc *CornerColors) SetAll(c Color) { *cc = SolidCornerColors(c) }

// IsTransparent reports whether all four corners have zero alpha.
func (cc CornerColors) IsTransparent() bool {
	return cc.TL.A == 0 && cc.TR.A == 0 && cc.BL.A == 0 && cc.BR.A == 0
}

// colorRGBA8 implements color.Color for ebiten.Image.Fill calls.
type colorRGBA8 struct{ R, G, B, A uint8 }

func (c colorRGBA8) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// toImageColor converts a Color (unpremultiplied) to the premultiplied
// color.Color ebiten's Fill expects.
func (c Color) toImageColor() colorRGBA8 {
	a := clamp01(c.A)
	return colorRGBA8{
		R: uint8(clamp01(c.R*a)*255 + 0.5),
		G: uint8(clamp01(c.G*a)*255 + 0.5),
		B: uint8(clamp01(c.B*a)*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}
