package scenic

import "encoding/binary"

// fakeGpu is a minimal in-memory GpuCapability for exercising batch.go
// and texture.go without an ebitengine context. It tracks just enough
// state (handle counters, copies of uploaded bytes) for assertions; it
// performs no actual rasterization.
type fakeGpu struct {
	nextBuffer  BufferHandle
	nextTexture TextureHandle
	nextShader  ShaderHandle
	nextProgram ProgramHandle

	uploadedBuffers map[BufferHandle][]byte
	uploadedTexture map[TextureHandle][]byte

	boundVertexBuffer BufferHandle
	boundIndexBuffer  BufferHandle
	boundFramebuffer  TextureHandle

	// framebufferBinds records every BindFramebuffer target in call order,
	// so a test can distinguish an RTT pass's framebuffer bind from the
	// screen pass's restore-to-default (handle 0) bind.
	framebufferBinds []TextureHandle

	drawCalls int
	// draws records every DrawElements call's (count, byteOffset) pair
	// plus the vertex indices the currently bound index buffer holds at
	// that offset, so a test can catch a batcher bug that computes the
	// wrong byte offset for any op after the first in a frame.
	draws []fakeDrawCall
}

// fakeDrawCall is one recorded DrawElements invocation.
type fakeDrawCall struct {
	count      int
	byteOffset int
	// indices is the slice of 16-bit vertex indices the bound index
	// buffer holds at [byteOffset : byteOffset+count*2], decoded from
	// whatever was last uploaded to boundIndexBuffer.
	indices []uint16
}

func newFakeGpu() *fakeGpu {
	return &fakeGpu{
		uploadedBuffers: make(map[BufferHandle][]byte),
		uploadedTexture: make(map[TextureHandle][]byte),
	}
}

func (g *fakeGpu) CreateBuffer(sizeBytes int) BufferHandle {
	g.nextBuffer++
	return g.nextBuffer
}

func (g *fakeGpu) UploadBuffer(buf BufferHandle, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	g.uploadedBuffers[buf] = cp
}

func (g *fakeGpu) BindVertexBuffer(buf BufferHandle) { g.boundVertexBuffer = buf }
func (g *fakeGpu) BindIndexBuffer(buf BufferHandle)  { g.boundIndexBuffer = buf }

func (g *fakeGpu) CreateTexture(w, h int) TextureHandle {
	g.nextTexture++
	return g.nextTexture
}

func (g *fakeGpu) UploadTexture(tex TextureHandle, pixels []byte, w, h int) {
	cp := make([]byte, len(pixels))
	copy(cp, pixels)
	g.uploadedTexture[tex] = cp
}

func (g *fakeGpu) DeleteTexture(tex TextureHandle) { delete(g.uploadedTexture, tex) }

func (g *fakeGpu) CreateShader(kind ShaderStageKind, src string) (ShaderHandle, error) {
	g.nextShader++
	return g.nextShader, nil
}

func (g *fakeGpu) CreateProgram(vs, fs ShaderHandle) (ProgramHandle, error) {
	g.nextProgram++
	return g.nextProgram, nil
}

func (g *fakeGpu) UseProgram(p ProgramHandle) {}

func (g *fakeGpu) Uniform1f(p ProgramHandle, name string, v float32)         {}
func (g *fakeGpu) Uniform2f(p ProgramHandle, name string, x, y float32)      {}
func (g *fakeGpu) Uniform4fv(p ProgramHandle, name string, v [4]float32)     {}

func (g *fakeGpu) ActiveTexture(unit int)          {}
func (g *fakeGpu) BindTexture(tex TextureHandle)   {}

func (g *fakeGpu) VertexAttribPointer(attr AttribLocation, size int, stride, offset int, normalized bool) {
}
func (g *fakeGpu) EnableVertexAttribArray(attr AttribLocation) {}

func (g *fakeGpu) Scissor(x, y, w, h int)        {}
func (g *fakeGpu) SetScissorTest(enabled bool)   {}

func (g *fakeGpu) DrawElements(count int, byteOffset int) {
	g.drawCalls++

	raw := g.uploadedBuffers[g.boundIndexBuffer]
	end := byteOffset + count*2
	var indices []uint16
	if byteOffset >= 0 && end <= len(raw) {
		indices = make([]uint16, count)
		for i := range indices {
			indices[i] = binary.LittleEndian.Uint16(raw[byteOffset+i*2:])
		}
	}
	g.draws = append(g.draws, fakeDrawCall{count: count, byteOffset: byteOffset, indices: indices})
}

func (g *fakeGpu) BindFramebuffer(target TextureHandle) {
	g.boundFramebuffer = target
	g.framebufferBinds = append(g.framebufferBinds, target)
}

// boundFramebuffers returns every BindFramebuffer target observed so far,
// in call order.
func (g *fakeGpu) boundFramebuffers() []TextureHandle { return g.framebufferBinds }
func (g *fakeGpu) Viewport(x, y, w, h int)              {}
func (g *fakeGpu) Clear(r, g2, b, a float32)            {}

func (g *fakeGpu) GetParameter(name string) int {
	if name == "GL_MAX_TEXTURE_IMAGE_UNITS" {
		return 8
	}
	return 0
}
func (g *fakeGpu) IsWebGl2() bool { return true }

// newFakeWhiteTexture returns a 1x1 loaded Texture suitable as a
// batcher's whiteTexture without going through TextureManager.
func newFakeWhiteTexture() *Texture {
	tex := NewImageTexture(func() ([]byte, TextureDimensions, error) {
		return []byte{255, 255, 255, 255}, TextureDimensions{W: 1, H: 1}, nil
	})
	tex.state = TextureLoaded
	tex.dimensions = TextureDimensions{W: 1, H: 1}
	tex.handle = 1
	return tex
}
