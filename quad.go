package scenic

import (
	"encoding/binary"
	"math"
)

// quadSpillSentinel signals "no room in this op's texture slot set, start a
// new op" (spec.md §4.2: "Adding a texture to an op... else returns
// sentinel 0xFFFFFFFF").
const quadSpillSentinel = 0xFFFFFFFF

// quadVertexFloats is 4 vertices x 6 floats per quad (spec.md §4.2's fixed
// vertex layout).
const quadVertexFloats = 24
const quadVertexBytes = quadVertexFloats * 4
const quadIndicesPerQuad = 6

// RenderOp captures a contiguous run of quads sharing a shader, clipping
// rect and texture-unit assignment (spec.md §4.2). Drained within the
// frame it was built in, never retained across frames.
type RenderOp struct {
	Shader      *Shader
	ShaderProps ShaderProps

	ClippingRect Bound
	Dimensions   [2]float64 // last-patched width/height for $dimensions
	Alpha        float64

	ParentHasRenderTexture bool
	FramebufferDimensions  TextureDimensions

	BufferIdxStart int
	NumQuads       int

	textures    []*Texture
	maxTextures int

	rttBoundary bool
}

// textureSlot returns tex's 0-based slot index within the op, appending it
// if there is room, or quadSpillSentinel if the op's texture set is full
// (spec.md §4.2: "Adding a texture to an op").
func (op *RenderOp) textureSlot(tex *Texture) uint32 {
	for i, t := range op.textures {
		if t == tex {
			return uint32(i)
		}
	}
	if len(op.textures) >= op.maxTextures {
		return quadSpillSentinel
	}
	op.textures = append(op.textures, tex)
	return uint32(len(op.textures) - 1)
}

// QuadParams carries addQuad's per-quad parameters (spec.md §4.2's
// addQuad(params) contract).
type QuadParams struct {
	X, Y, Width, Height float64
	Colors              CornerColors
	Transform           AffineTransform

	Texture        *Texture
	TextureOptions TextureOptions
	Shader         *Shader
	ShaderProps    ShaderProps
	Alpha          float64

	ClippingRect Bound

	ParentHasRenderTexture bool
	FramebufferDimensions  TextureDimensions

	// RttBoundary forces a fresh op regardless of batching compatibility
	// (spec.md §4.2's render-to-texture rule: "RTT-subtree draw commands
	// always start a fresh op").
	RttBoundary bool
}

// Batcher accumulates quads into a shared vertex arena and a sequence of
// RenderOps, grounded on the teacher's appendSpriteQuad/flushSpriteBatch
// (batch.go) generalized from "same atlas page" batching to spec.md
// §4.2's shader + clippingRect + texture-slot compatibility rule, and
// from immediate-mode ebiten.Vertex slices to the wire-exact byte arena
// spec.md §4.2 and §6 require.
type Batcher struct {
	gpu GpuCapability

	vertexBuf []byte
	bufferIdx int

	indexBuf []byte

	ops     []*RenderOp
	current *RenderOp

	whiteTexture *Texture

	vbHandle BufferHandle
	ibHandle BufferHandle
}

// NewBatcher creates a batcher with a vertex arena of the given byte size
// (engine option bufferMemory per spec.md §4.2) and a shared index buffer
// sized for the same quad capacity.
func NewBatcher(gpu GpuCapability, bufferMemory int, whiteTexture *Texture) *Batcher {
	numQuads := bufferMemory / quadVertexBytes
	idx := make([]uint16, 0, numQuads*quadIndicesPerQuad)
	for i := 0; i < numQuads; i++ {
		base := uint16(i * 4)
		idx = append(idx, base+0, base+1, base+2, base+2, base+1, base+3)
	}
	idxBytes := make([]byte, len(idx)*2)
	for i, v := range idx {
		binary.LittleEndian.PutUint16(idxBytes[i*2:], v)
	}
	return &Batcher{
		gpu:          gpu,
		vertexBuf:    make([]byte, bufferMemory),
		indexBuf:     idxBytes,
		whiteTexture: whiteTexture,
		vbHandle:     gpu.CreateBuffer(bufferMemory),
		ibHandle:     gpu.CreateBuffer(len(idxBytes)),
	}
}

// Reset clears the batcher's ops and write cursor, called once before
// traversing each framebuffer target (screen or an RTT subtree, per
// spec.md §2's per-frame control flow step 3/4).
func (b *Batcher) Reset() {
	b.bufferIdx = 0
	b.ops = b.ops[:0]
	b.current = nil
}

// AddQuad implements spec.md §4.2's addQuad(params) contract.
func (b *Batcher) AddQuad(p QuadParams) error {
	tex := p.Texture
	if tex == nil {
		tex = b.whiteTexture
	}
	u1, v1, u2, v2 := tex.UV(p.TextureOptions)
	return b.addQuadWithUV(p, tex, u1, v1, u2, v2)
}

// AddGlyphQuad is AddQuad with an explicit UV rectangle rather than one
// resolved from the texture's own SubTexture geometry, since a single SDF
// atlas packs many unrelated glyph rectangles the texture type itself
// knows nothing about (sdftext.go's per-glyph emission, spec.md §4.4
// step 8).
func (b *Batcher) AddGlyphQuad(p QuadParams, u1, v1, u2, v2 float64) error {
	tex := p.Texture
	if tex == nil {
		tex = b.whiteTexture
	}
	return b.addQuadWithUV(p, tex, u1, v1, u2, v2)
}

func (b *Batcher) addQuadWithUV(p QuadParams, tex *Texture, u1, v1, u2, v2 float64) error {
	p.Texture = tex

	if p.Shader != nil && p.Shader.HasDimensions {
		// step 1: patch the $dimensions property slot.
		if p.ShaderProps == nil {
			p.ShaderProps = ShaderProps{}
		}
		p.ShaderProps["$dimensions"] = [2]float64{p.Width, p.Height}
	}

	maxTex := 1
	if p.Shader != nil && p.Shader.MaxTextures > 0 {
		maxTex = p.Shader.MaxTextures
	}

	if !b.canAcceptInCurrent(p, maxTex) {
		b.closeCurrent()
		b.current = &RenderOp{
			Shader:                 p.Shader,
			ShaderProps:            p.ShaderProps,
			ClippingRect:           p.ClippingRect,
			Alpha:                  p.Alpha,
			ParentHasRenderTexture: p.ParentHasRenderTexture,
			FramebufferDimensions:  p.FramebufferDimensions,
			BufferIdxStart:         b.bufferIdx,
			maxTextures:            maxTex,
			rttBoundary:            p.RttBoundary,
		}
		b.ops = append(b.ops, b.current)
	}
	op := b.current
	op.Dimensions = [2]float64{p.Width, p.Height}

	slot := op.textureSlot(tex)
	if slot == quadSpillSentinel {
		return newErr(ErrTooManyTexturesForShader, "texture does not fit in a fresh render-op", nil)
	}

	if b.bufferIdx+quadVertexBytes > len(b.vertexBuf) {
		return newErr(ErrTooManyTexturesForShader, "vertex arena exhausted", nil)
	}

	b.writeQuadVertices(p, slot, u1, v1, u2, v2)
	b.bufferIdx += quadVertexBytes
	op.NumQuads++
	return nil
}

// canAcceptInCurrent implements step 3's batching decision.
func (b *Batcher) canAcceptInCurrent(p QuadParams, maxTex int) bool {
	op := b.current
	if op == nil {
		return false
	}
	if p.RttBoundary || op.rttBoundary {
		return false
	}
	if op.Shader != p.Shader {
		return false
	}
	if op.ClippingRect != p.ClippingRect {
		return false
	}
	if op.Shader != nil && op.Shader.CanBatch != nil {
		if !op.Shader.CanBatch(op.ShaderProps, p.ShaderProps) {
			return false
		}
	} else if op.Shader != nil {
		return false
	}
	tex := p.Texture
	if tex == nil {
		tex = b.whiteTexture
	}
	haveSlot := false
	for _, t := range op.textures {
		if t == tex {
			haveSlot = true
			break
		}
	}
	if !haveSlot && len(op.textures) >= maxTex {
		return false
	}
	if b.bufferIdx+quadVertexBytes > len(b.vertexBuf) {
		return false
	}
	return true
}

func (b *Batcher) closeCurrent() {
	// no-op placeholder: ops are drained by Render(); kept separate from
	// AddQuad's control flow so a future pre-flush hook has a seam.
}

// writeQuadVertices resolves corners (rotated via the full affine, or the
// axis-aligned shortcut) and writes 4 vertices into the arena
// (spec.md §4.2 step 6), each carrying its own corner color.
func (b *Batcher) writeQuadVertices(p QuadParams, texSlot uint32, u1, v1, u2, v2 float64) {
	t := p.Transform
	w, h := p.Width, p.Height

	var x0, y0, x1, y1, x2, y2, x3, y3 float64
	if t[1] != 0 || t[2] != 0 {
		x0, y0 = TransformPoint(t, 0, 0)
		x1, y1 = TransformPoint(t, w, 0)
		x2, y2 = TransformPoint(t, 0, h)
		x3, y3 = TransformPoint(t, w, h)
	} else {
		x0, y0 = t[4], t[5]
		x1, y1 = t[4]+w*t[0], t[5]
		x2, y2 = t[4], t[5]+h*t[3]
		x3, y3 = t[4]+w*t[0], t[5]+h*t[3]
	}

	const vertexStride = quadVertexBytes / 4 // 24 bytes per vertex
	base := b.bufferIdx
	b.putVertex(base+0*vertexStride, x0, y0, u1, v1, p.Colors.TL, p.Alpha, texSlot)
	b.putVertex(base+1*vertexStride, x1, y1, u2, v1, p.Colors.TR, p.Alpha, texSlot)
	b.putVertex(base+2*vertexStride, x2, y2, u1, v2, p.Colors.BL, p.Alpha, texSlot)
	b.putVertex(base+3*vertexStride, x3, y3, u2, v2, p.Colors.BR, p.Alpha, texSlot)
}

// putVertex writes one 24-byte vertex at byte offset off within the arena:
// position.x, position.y, texCoord.x, texCoord.y, packed RGBA, textureIndex.
func (b *Batcher) putVertex(off int, x, y, u, v float64, c Color, alpha float64, texIndex uint32) {
	putF32(b.vertexBuf, off+0, float32(x))
	putF32(b.vertexBuf, off+4, float32(y))
	putF32(b.vertexBuf, off+8, float32(u))
	putF32(b.vertexBuf, off+12, float32(v))
	packed := packRGBA(Color{R: c.R, G: c.G, B: c.B, A: c.A * alpha})
	binary.LittleEndian.PutUint32(b.vertexBuf[off+16:], packed)
	putF32(b.vertexBuf, off+20, float32(texIndex))
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// Ops returns the accumulated render-ops for this framebuffer pass.
func (b *Batcher) Ops() []*RenderOp { return b.ops }

// VertexArena returns the written prefix of the vertex arena.
func (b *Batcher) VertexArena() []byte { return b.vertexBuf[:b.bufferIdx] }
