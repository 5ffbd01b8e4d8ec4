package scenic

import (
	"encoding/binary"
	"image"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenGpu is the GpuCapability implementation backed by ebitengine. It is
// the only file in the module that imports ebiten directly outside of
// textfallback.go and fps.go — every other component is written against
// the GpuCapability interface in gpu.go.
//
// ebiten has no notion of a persistent GPU vertex/index buffer object the
// way raw GLES2/3 does: DrawTriangles(32) takes vertex/index slices
// directly every call. CreateBuffer/UploadBuffer therefore model the
// vertex arena as a plain Go byte slice that DrawElements decodes
// according to the attribute layout VertexAttribPointer registered,
// matching spec.md §6's wire-exact stride/offset table exactly.
type ebitenGpu struct {
	nextBuffer BufferHandle
	buffers    map[BufferHandle][]byte

	nextTexture TextureHandle
	textures    map[TextureHandle]*ebiten.Image

	screen  *ebiten.Image
	bound   *ebiten.Image // current framebuffer: the screen image (BindScreen / BindFramebuffer(0)) or an RTT target; nil until a screen is bound
	boundFB TextureHandle

	shaderSrc map[ShaderHandle]string
	nextShad  ShaderHandle

	programs       map[ProgramHandle]*ebiten.Shader
	programUniform map[ProgramHandle]map[string]any
	nextProgram    ProgramHandle
	currentProgram ProgramHandle

	activeUnit    int
	boundTextures [4]TextureHandle

	attribs map[AttribLocation]attribLayout

	boundVertexBuf BufferHandle
	boundIndexBuf  BufferHandle

	scissorEnabled bool
	scissorRect    image.Rectangle
	blend          ebiten.Blend

	canvasW, canvasH int
}

type attribLayout struct {
	size       int
	stride     int
	offset     int
	normalized bool
}

// NewEbitenCapability creates a GpuCapability backed by the given logical
// canvas size. The screen target is bound by default (BindFramebuffer with
// the zero TextureHandle).
func NewEbitenCapability(canvasW, canvasH int) GpuCapability {
	return &ebitenGpu{
		buffers:        make(map[BufferHandle][]byte),
		textures:       make(map[TextureHandle]*ebiten.Image),
		shaderSrc:      make(map[ShaderHandle]string),
		programs:       make(map[ProgramHandle]*ebiten.Shader),
		programUniform: make(map[ProgramHandle]map[string]any),
		attribs:        make(map[AttribLocation]attribLayout),
		blend:          ebiten.BlendSourceOver,
		canvasW:        canvasW,
		canvasH:        canvasH,
	}
}

// BindScreen associates the ebiten screen image for this frame; called by
// the engine once per Draw before issuing any render-op commands.
func (g *ebitenGpu) BindScreen(screen *ebiten.Image) {
	g.screen = screen
	if g.boundFB == 0 {
		g.bound = screen
	}
}

func (g *ebitenGpu) CreateBuffer(sizeBytes int) BufferHandle {
	g.nextBuffer++
	g.buffers[g.nextBuffer] = make([]byte, sizeBytes)
	return g.nextBuffer
}

func (g *ebitenGpu) UploadBuffer(buf BufferHandle, data []byte) {
	dst, ok := g.buffers[buf]
	if !ok {
		return
	}
	n := copy(dst, data)
	_ = n
}

func (g *ebitenGpu) BindVertexBuffer(buf BufferHandle) { g.boundVertexBuf = buf }
func (g *ebitenGpu) BindIndexBuffer(buf BufferHandle)  { g.boundIndexBuf = buf }

func (g *ebitenGpu) CreateTexture(w, h int) TextureHandle {
	g.nextTexture++
	g.textures[g.nextTexture] = ebiten.NewImage(w, h)
	return g.nextTexture
}

func (g *ebitenGpu) UploadTexture(tex TextureHandle, pixels []byte, w, h int) {
	img, ok := g.textures[tex]
	if !ok {
		return
	}
	img.WritePixels(pixels)
	_ = w
	_ = h
}

func (g *ebitenGpu) DeleteTexture(tex TextureHandle) {
	if img, ok := g.textures[tex]; ok {
		img.Deallocate()
		delete(g.textures, tex)
	}
}

func (g *ebitenGpu) CreateShader(kind ShaderStageKind, src string) (ShaderHandle, error) {
	g.nextShad++
	g.shaderSrc[g.nextShad] = src
	_ = kind
	return g.nextShad, nil
}

// CreateProgram compiles the fragment stage as a Kage shader via
// ebiten.NewShader. Kage programs carry both Vertex and Fragment entry
// points in one source file, so the vertex-stage handle is accepted for
// interface symmetry with spec.md §4.5 but its source is not separately
// compiled — this is the one seam where the capability abstraction and
// ebiten's actual shader model diverge.
func (g *ebitenGpu) CreateProgram(vs, fs ShaderHandle) (ProgramHandle, error) {
	src, ok := g.shaderSrc[fs]
	if !ok {
		return 0, newErr(ErrLinkFailed, "unknown fragment shader handle", nil)
	}
	shader, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return 0, newErr(ErrLinkFailed, "kage shader compile failed", err)
	}
	g.nextProgram++
	g.programs[g.nextProgram] = shader
	g.programUniform[g.nextProgram] = make(map[string]any)
	_ = vs
	return g.nextProgram, nil
}

func (g *ebitenGpu) UseProgram(p ProgramHandle) { g.currentProgram = p }

func (g *ebitenGpu) Uniform1f(p ProgramHandle, name string, v float32) {
	g.setUniform(p, name, v)
}
func (g *ebitenGpu) Uniform2f(p ProgramHandle, name string, x, y float32) {
	g.setUniform(p, name, [2]float32{x, y})
}
func (g *ebitenGpu) Uniform4fv(p ProgramHandle, name string, v [4]float32) {
	g.setUniform(p, name, v)
}

func (g *ebitenGpu) setUniform(p ProgramHandle, name string, v any) {
	m, ok := g.programUniform[p]
	if !ok {
		return
	}
	// Kage uniforms are exported identifiers, so a GL-style "u_alpha"
	// name is stored as "Alpha" (and "u_distanceRange" as "DistanceRange").
	if rest, found := strings.CutPrefix(name, "u_"); found && rest != "" {
		name = strings.ToUpper(rest[:1]) + rest[1:]
	}
	m[name] = v
}

func (g *ebitenGpu) ActiveTexture(unit int) { g.activeUnit = unit }

func (g *ebitenGpu) BindTexture(tex TextureHandle) {
	if g.activeUnit >= 0 && g.activeUnit < len(g.boundTextures) {
		g.boundTextures[g.activeUnit] = tex
	}
}

func (g *ebitenGpu) VertexAttribPointer(attr AttribLocation, size int, stride, offset int, normalized bool) {
	g.attribs[attr] = attribLayout{size: size, stride: stride, offset: offset, normalized: normalized}
}

func (g *ebitenGpu) EnableVertexAttribArray(attr AttribLocation) {
	// No-op: ebiten has no attribute-array enable/disable state, the
	// decode path in DrawElements always reads every registered attribute.
	_ = attr
}

func (g *ebitenGpu) Scissor(x, y, w, h int) {
	g.scissorRect = image.Rect(x, y, x+w, y+h)
}

func (g *ebitenGpu) SetScissorTest(enabled bool) { g.scissorEnabled = enabled }

// DrawElements decodes the bound vertex/index arenas per the registered
// attribute layout and submits a single DrawTriangles(Shader) call.
func (g *ebitenGpu) DrawElements(count int, byteOffset int) {
	if g.bound == nil || count <= 0 {
		return
	}
	vbytes := g.buffers[g.boundVertexBuf]
	ibytes := g.buffers[g.boundIndexBuf]
	if vbytes == nil || ibytes == nil {
		return
	}

	posA := g.attribs[AttribPosition]
	uvA := g.attribs[AttribTextureCoords]
	colA := g.attribs[AttribColor]
	stride := posA.stride
	if stride == 0 {
		stride = 24
	}
	numVerts := len(vbytes) / stride

	verts := make([]ebiten.Vertex, numVerts)
	for i := 0; i < numVerts; i++ {
		base := i * stride
		px := readF32(vbytes, base+posA.offset)
		py := readF32(vbytes, base+posA.offset+4)
		u := readF32(vbytes, base+uvA.offset)
		v := readF32(vbytes, base+uvA.offset+4)
		packed := binary.LittleEndian.Uint32(vbytes[base+colA.offset : base+colA.offset+4])
		verts[i] = ebiten.Vertex{
			DstX: px, DstY: py,
			SrcX: u, SrcY: v,
			ColorR: float32(packed&0xFF) / 255,
			ColorG: float32((packed>>8)&0xFF) / 255,
			ColorB: float32((packed>>16)&0xFF) / 255,
			ColorA: float32((packed>>24)&0xFF) / 255,
		}
	}

	idxStart := byteOffset / 2
	idxCount := count
	if idxStart+idxCount > len(ibytes)/2 {
		idxCount = len(ibytes)/2 - idxStart
	}
	if idxCount <= 0 {
		return
	}
	indices := make([]uint16, idxCount)
	for i := 0; i < idxCount; i++ {
		off := (idxStart + i) * 2
		indices[i] = binary.LittleEndian.Uint16(ibytes[off : off+2])
	}

	src := g.resolveTextureImage()
	if src == nil {
		return
	}

	var scissorTarget *ebiten.Image = g.bound
	if g.scissorEnabled {
		// scissorRect is bottom-origin (gpu.go's Scissor contract); ebiten
		// images are top-origin, so flip it against the target's height.
		tb := scissorTarget.Bounds()
		r := g.scissorRect
		flipped := image.Rect(r.Min.X, tb.Dy()-r.Max.Y, r.Max.X, tb.Dy()-r.Min.Y).Add(tb.Min)
		clamped := flipped.Intersect(tb)
		if clamped.Empty() {
			return
		}
		scissorTarget = scissorTarget.SubImage(clamped).(*ebiten.Image)
	}

	if shader, ok := g.programs[g.currentProgram]; ok {
		var op ebiten.DrawTrianglesShaderOptions
		op.Blend = g.blend
		op.Uniforms = g.programUniform[g.currentProgram]
		op.Images[0] = src
		scissorTarget.DrawTrianglesShader(verts, indices, shader, &op)
		return
	}

	var op ebiten.DrawTrianglesOptions
	op.Blend = g.blend
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	scissorTarget.DrawTriangles32(verts, indices, src, &op)
}

func (g *ebitenGpu) resolveTextureImage() *ebiten.Image {
	tex := g.boundTextures[0]
	if img, ok := g.textures[tex]; ok {
		return img
	}
	return whitePixelImage()
}

func readF32(b []byte, off int) float32 {
	bits := binary.LittleEndian.Uint32(b[off : off+4])
	return math.Float32frombits(bits)
}

func (g *ebitenGpu) BindFramebuffer(target TextureHandle) {
	g.boundFB = target
	if target == 0 {
		g.bound = g.screen
		return
	}
	if img, ok := g.textures[target]; ok {
		g.bound = img
	}
}

func (g *ebitenGpu) Viewport(x, y, w, h int) {
	g.canvasW, g.canvasH = w, h
	_ = x
	_ = y
}

func (g *ebitenGpu) Clear(r, g2, b, a float32) {
	if g.bound == nil {
		return
	}
	g.bound.Fill(colorRGBA8{
		R: uint8(clamp01(float64(r)) * 255),
		G: uint8(clamp01(float64(g2)) * 255),
		B: uint8(clamp01(float64(b)) * 255),
		A: uint8(clamp01(float64(a)) * 255),
	})
}

func (g *ebitenGpu) GetParameter(name string) int {
	switch name {
	case "GL_MAX_TEXTURE_IMAGE_UNITS", "MAX_TEXTURE_IMAGE_UNITS":
		return 4
	case "GL_MAX_TEXTURE_SIZE", "MAX_TEXTURE_SIZE":
		return 4096
	default:
		return 0
	}
}

func (g *ebitenGpu) IsWebGl2() bool { return true }

var whitePixelSingleton *ebiten.Image

// whitePixelImage returns a lazily-created 1x1 opaque white image, the
// default texture addQuad substitutes when a quad carries no texture
// (spec.md §4.2 step 2).
func whitePixelImage() *ebiten.Image {
	if whitePixelSingleton == nil {
		whitePixelSingleton = ebiten.NewImage(1, 1)
		whitePixelSingleton.Fill(colorRGBA8{255, 255, 255, 255})
	}
	return whitePixelSingleton
}
