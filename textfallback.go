package scenic

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TTFFallback renders glyphs missing from an SDF atlas via Ebitengine's
// text/v2 GoTextFace, caching one small standalone texture per distinct
// codepoint so repeated characters only pay the rasterization cost once.
// Grounded on the teacher's TTFFont/emitTTFTextCommand (text.go), adapted
// from "whole string rendered as one cached image" to "one cached image
// per missing glyph," since scenic's SDF layout composes per-glyph quads
// rather than treating a text node as a single opaque sprite — matching
// the auxiliary-text-source role SPEC_FULL.md assigns this path.
type TTFFallback struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	lh     float64
	cache  map[rune]*Texture
}

// LoadTTFFallback parses raw TTF/OTF data at the given point size.
func LoadTTFFallback(ttfData []byte, size float64) (*TTFFallback, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, newErr(ErrFontFaceUnresolved, "failed to parse TTF fallback data", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &TTFFallback{
		face:  face,
		lh:    m.HAscent + m.HDescent + m.HLineGap,
		cache: make(map[rune]*Texture),
	}, nil
}

// Glyph rasterizes (or returns the cached rasterization of) r, reporting
// an advance-width GlyphInfo sized to exactly cover the rasterized image
// plus the standalone Texture it lives in. Reports false for a codepoint
// the face has no outline for (e.g. an unmapped private-use codepoint).
func (f *TTFFallback) Glyph(r rune) (GlyphInfo, *Texture, bool) {
	if tex, ok := f.cache[r]; ok {
		// The texture's dimensions stay zero until it is first acquired, so
		// report the measured size, the same as the first call did.
		w, h := text.Measure(string(r), f.face, f.lh)
		return GlyphInfo{XAdvance: w, Width: w, Height: h}, tex, true
	}
	w, h := text.Measure(string(r), f.face, f.lh)
	if w <= 0 || h <= 0 {
		return GlyphInfo{}, nil, false
	}
	iw, ih := int(w)+1, int(h)+1

	img := ebiten.NewImage(iw, ih)
	op := &text.DrawOptions{}
	op.ColorScale.Scale(1, 1, 1, 1)
	op.LineSpacing = f.lh
	text.Draw(img, string(r), f.face, op)

	tex := NewImageTexture(func() ([]byte, TextureDimensions, error) {
		return readImagePixels(img, iw, ih), TextureDimensions{W: iw, H: ih}, nil
	})
	f.cache[r] = tex
	return GlyphInfo{XAdvance: w, Width: w, Height: h}, tex, true
}

// readImagePixels reads img's pixels into a tightly packed, already-
// premultiplied RGBA8 buffer suitable for GpuCapability.UploadTexture.
func readImagePixels(img *ebiten.Image, w, h int) []byte {
	pix := make([]byte, 4*w*h)
	img.ReadPixels(pix)
	return pix
}
