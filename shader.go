package scenic

// ShaderProps is an opaque per-node bag of shader-side properties keyed
// by name: the same plain map for built-in and custom shaders, read by
// each shader's CanBatch and Update.
type ShaderProps map[string]any

// Shader pairs a compiled program identity with its attribute layout and
// uniform setters (spec.md §3: "a pairing of (program identity, attribute
// layout, uniform setters). Properties are opaque records passed through
// to the program at bind time").
type Shader struct {
	Name    string
	Program ProgramHandle

	// HasDimensions/HasAlpha report whether the program declares the
	// optional $dimensions / u_alpha uniform slots addQuad patches
	// (spec.md §4.2 step 1 and render() step 2).
	HasDimensions bool
	HasAlpha      bool

	// MaxTextures bounds how many texture units a single render-op using
	// this shader may bind (spec.md §4.2: "maxTextures (GPU limit for
	// vertex texture units, or 1 if the shader does not support indexed
	// textures)").
	MaxTextures int

	// CanBatch reports whether two props values from this shader may
	// share a render-op. Defaults to false for any non-default shader
	// per spec.md §4.2 step 4's batching rule; nil means "never batches."
	CanBatch func(a, b ShaderProps) bool

	// Update pushes props' uniforms into the given (already-bound) program
	// via gpu. A prop that is absent or of the wrong type is skipped
	// without error; nothing is logged.
	Update func(gpu GpuCapability, program ProgramHandle, props ShaderProps)
}

// defaultCanBatch is the built-in default shader's batching predicate:
// spec.md §4.2 step 4 calls out "true for the built-in default shader"
// unconditionally, since it carries no props that would force a split.
func defaultCanBatch(a, b ShaderProps) bool { return true }

// NewDefaultShader builds the built-in textured-quad shader: premultiplied
// source-over blend, a single bound texture, u_resolution/u_pixelRatio/
// u_alpha uniforms, grounded on the teacher's single hard-coded sprite
// shader (batch.go's immediate DrawImage path has no shader abstraction at
// all; this generalizes it into the first concrete Shader value).
func NewDefaultShader(gpu GpuCapability, vsSrc, fsSrc string) (*Shader, error) {
	vs, err := gpu.CreateShader(ShaderStageVertex, vsSrc)
	if err != nil {
		return nil, newErr(ErrShaderCompileFailed, "default vertex shader", err)
	}
	fs, err := gpu.CreateShader(ShaderStageFragment, fsSrc)
	if err != nil {
		return nil, newErr(ErrShaderCompileFailed, "default fragment shader", err)
	}
	prog, err := gpu.CreateProgram(vs, fs)
	if err != nil {
		return nil, newErr(ErrLinkFailed, "default shader program", err)
	}
	return &Shader{
		Name:        "default",
		Program:     prog,
		HasAlpha:    true,
		MaxTextures: 1,
		CanBatch:    defaultCanBatch,
		Update:      func(GpuCapability, ProgramHandle, ShaderProps) {},
	}, nil
}

// defaultKageSource is the Kage (ebiten shader language) source for the
// built-in shader: samples one bound texture, multiplies by the Alpha
// uniform (the u_alpha value, renamed by gpu_ebiten.go's setUniform).
// It is compiled once by the ebiten capability; CreateShader's vertex-stage
// call is accepted for interface symmetry but its source is unused by Kage
// (see gpu_ebiten.go).
const defaultKageSource = `
//kage:unit pixels
package main

var Alpha float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := imageSrc0At(srcPos) * color
	return c * Alpha
}
`

// NewSdfShader builds the font-atlas shader the SDF text engine shares
// across every font face: one bound glyph-atlas texture unit, a
// DistanceRange uniform controlling antialiasing width and an Alpha
// uniform for worldAlpha (spec.md §4.4's "SDF fragment shader blends the
// atlas distance field with the color and the worldAlpha"). Grounded on
// the teacher's text.go TTF rendering path, which has no SDF shader at
// all — TTF text there is pre-rasterized to a cached ebiten.Image and
// drawn like any other sprite, so this is new rather than adapted.
func NewSdfShader(gpu GpuCapability) (*Shader, error) {
	vs, err := gpu.CreateShader(ShaderStageVertex, sdfKageSource)
	if err != nil {
		return nil, newErr(ErrShaderCompileFailed, "sdf text vertex shader", err)
	}
	fs, err := gpu.CreateShader(ShaderStageFragment, sdfKageSource)
	if err != nil {
		return nil, newErr(ErrShaderCompileFailed, "sdf text fragment shader", err)
	}
	prog, err := gpu.CreateProgram(vs, fs)
	if err != nil {
		return nil, newErr(ErrLinkFailed, "sdf text shader program", err)
	}
	return &Shader{
		Name:        "sdf-text",
		Program:     prog,
		HasAlpha:    true,
		MaxTextures: 1,
		CanBatch:    sdfCanBatch,
		Update:      sdfUpdate,
	}, nil
}

// sdfCanBatch lets two glyph quads share an op only when their
// distanceRange props are equal. Props are pushed once per op and
// distanceRange scales with fontSize, so text of two different font sizes
// lands in separate ops; whether both quads fit the op's texture slots is
// checked by the batcher, not here.
func sdfCanBatch(a, b ShaderProps) bool {
	return a["distanceRange"] == b["distanceRange"]
}

func sdfUpdate(gpu GpuCapability, program ProgramHandle, props ShaderProps) {
	if dr, ok := props["distanceRange"].(float64); ok {
		gpu.Uniform1f(program, "u_distanceRange", float32(dr))
	}
}

// sdfKageSource renders a signed-distance-field glyph atlas: the median
// of three channels gives a smooth coverage value thresholded at 0.5,
// with distanceRange controlling the antialiasing width in output pixels.
const sdfKageSource = `
//kage:unit pixels
package main

var Alpha float
var DistanceRange float

func median(r, g, b float) float {
	return max(min(r, g), min(max(r, g), b))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	sample := imageSrc0At(srcPos)
	sd := median(sample.r, sample.g, sample.b)
	screenPxRange := DistanceRange
	if screenPxRange <= 0 {
		screenPxRange = 2
	}
	dist := (sd - 0.5) * screenPxRange
	coverage := clamp(dist+0.5, 0, 1)
	return color * coverage * Alpha
}
`
