package scenic

// GpuCapability is the capability boundary the batcher and texture manager
// are written against (spec.md §4.5). It exists so the engine's rendering
// logic never depends on a specific graphics API: scenic ships one
// implementation, gpu_ebiten.go, backed by ebitengine, but nothing in
// quad.go/batch.go/texture.go imports ebiten directly.
type GpuCapability interface {
	// CreateBuffer allocates a vertex/index arena of the given byte size.
	CreateBuffer(sizeBytes int) BufferHandle
	// UploadBuffer uploads data[:n] into buf starting at byte offset 0.
	UploadBuffer(buf BufferHandle, data []byte)
	// BindVertexBuffer/BindIndexBuffer select which uploaded arena
	// subsequent VertexAttribPointer/DrawElements calls read from.
	BindVertexBuffer(buf BufferHandle)
	BindIndexBuffer(buf BufferHandle)

	// CreateTexture allocates a GPU texture of (w, h) RGBA8 texels.
	CreateTexture(w, h int) TextureHandle
	// UploadTexture uploads RGBA8 pixel data into an existing texture.
	UploadTexture(tex TextureHandle, pixels []byte, w, h int)
	// DeleteTexture releases a GPU texture.
	DeleteTexture(tex TextureHandle)

	// CreateShader compiles a shader stage from source. Fatal on failure
	// (spec.md §7: ShaderCompileFailed).
	CreateShader(kind ShaderStageKind, src string) (ShaderHandle, error)
	// CreateProgram links vertex+fragment shaders into a program. Fatal on
	// failure (spec.md §7: LinkFailed).
	CreateProgram(vs, fs ShaderHandle) (ProgramHandle, error)
	// UseProgram binds a program as current.
	UseProgram(p ProgramHandle)

	Uniform1f(p ProgramHandle, name string, v float32)
	Uniform2f(p ProgramHandle, name string, x, y float32)
	Uniform4fv(p ProgramHandle, name string, v [4]float32)

	// ActiveTexture selects the texture unit subsequent BindTexture calls
	// affect.
	ActiveTexture(unit int)
	// BindTexture binds tex to the currently active texture unit.
	BindTexture(tex TextureHandle)

	// VertexAttribPointer describes one vertex attribute's layout within
	// the currently bound vertex buffer (spec.md §6's wire-exact layout).
	VertexAttribPointer(attr AttribLocation, size int, stride, offset int, normalized bool)
	EnableVertexAttribArray(attr AttribLocation)

	// Scissor sets the scissor rectangle in framebuffer pixels,
	// bottom-origin per spec.md §4.2's render() step.
	Scissor(x, y, w, h int)
	SetScissorTest(enabled bool)

	// DrawElements issues an indexed draw call: count indices, starting at
	// byteOffset into the bound index buffer.
	DrawElements(count int, byteOffset int)

	// BindFramebuffer binds a render-to-texture target, or the default
	// (screen) framebuffer when target is the zero TextureHandle.
	BindFramebuffer(target TextureHandle)
	Viewport(x, y, w, h int)
	Clear(r, g, b, a float32)

	// GetParameter reports a capability limit (e.g. GL_MAX_TEXTURE_IMAGE_UNITS).
	GetParameter(name string) int
	// IsWebGl2 reports whether the underlying capability is a WebGL2-class
	// (vs. WebGL1/GLES2-class) backend. Named to match spec.md §4.5's
	// external-interface contract literally.
	IsWebGl2() bool
}

// BufferHandle, TextureHandle, ShaderHandle, and ProgramHandle are opaque
// capability-side resource identities. The zero value of each means
// "none"/"default."
type (
	BufferHandle   uint32
	TextureHandle  uint32
	ShaderHandle   uint32
	ProgramHandle  uint32
	AttribLocation uint8
)

// ShaderStageKind distinguishes vertex vs. fragment shader stages.
type ShaderStageKind uint8

const (
	ShaderStageVertex ShaderStageKind = iota
	ShaderStageFragment
)

// Recognized vertex attribute locations, matching spec.md §6's wire-exact
// layout.
const (
	AttribPosition AttribLocation = iota
	AttribTextureCoords
	AttribColor
	AttribTextureIndex
)
