package scenic

import "math"

// CanvasDimensions is the on-screen canvas size in device pixels.
type CanvasDimensions struct {
	W, H int
}

// Render implements spec.md §4.2's render() dispatch: upload the written
// vertex-arena prefix once, then for each op bind its shader, uniforms,
// textures and scissor, and issue one drawElements call. Grounded on the
// teacher's drawWithCamera/submitBatchesCoalesced (scene.go) for the
// upload-then-iterate shape, replacing its per-call immediate DrawImage/
// DrawTriangles32 submission with the spec's explicit RenderOp sequence.
func Render(gpu GpuCapability, b *Batcher, canvas CanvasDimensions, pixelRatio float64) {
	arena := b.VertexArena()
	if len(arena) == 0 {
		return
	}
	gpu.BindVertexBuffer(b.vbHandle)
	gpu.UploadBuffer(b.vbHandle, arena)
	gpu.BindIndexBuffer(b.ibHandle)
	gpu.UploadBuffer(b.ibHandle, b.indexBuf)

	gpu.VertexAttribPointer(AttribPosition, 2, quadVertexBytes/4, 0, false)
	gpu.VertexAttribPointer(AttribTextureCoords, 2, quadVertexBytes/4, 8, false)
	gpu.VertexAttribPointer(AttribColor, 4, quadVertexBytes/4, 16, true)
	gpu.VertexAttribPointer(AttribTextureIndex, 1, quadVertexBytes/4, 20, false)
	gpu.EnableVertexAttribArray(AttribPosition)
	gpu.EnableVertexAttribArray(AttribTextureCoords)
	gpu.EnableVertexAttribArray(AttribColor)
	gpu.EnableVertexAttribArray(AttribTextureIndex)

	var boundProgram ProgramHandle
	var programBound bool

	for _, op := range b.Ops() {
		if op.Shader == nil {
			continue
		}
		if !programBound || boundProgram != op.Shader.Program {
			gpu.UseProgram(op.Shader.Program)
			boundProgram = op.Shader.Program
			programBound = true
		}

		effectivePR := pixelRatio
		var resW, resH float32
		if op.ParentHasRenderTexture {
			resW, resH = float32(op.FramebufferDimensions.W), float32(op.FramebufferDimensions.H)
			effectivePR = 1.0
		} else {
			resW, resH = float32(canvas.W), float32(canvas.H)
		}
		gpu.Uniform2f(op.Shader.Program, "u_resolution", resW, resH)
		gpu.Uniform1f(op.Shader.Program, "u_pixelRatio", float32(effectivePR))
		if op.Shader.HasAlpha {
			gpu.Uniform1f(op.Shader.Program, "u_alpha", float32(op.Alpha))
		}
		if op.Shader.HasDimensions {
			gpu.Uniform2f(op.Shader.Program, "u_dimensions", float32(op.Dimensions[0]), float32(op.Dimensions[1]))
		}
		if op.Shader.Update != nil {
			op.Shader.Update(gpu, op.Shader.Program, op.ShaderProps)
		}

		for i, tex := range op.textures {
			gpu.ActiveTexture(i)
			gpu.BindTexture(tex.Root().handle)
		}

		if op.ClippingRect.Valid {
			r := op.ClippingRect.ToRect()
			x := int(math.Round(r.X * effectivePR))
			y := int(math.Round(float64(resH) - (r.Y+r.Height)*effectivePR))
			w := int(math.Round(r.Width * effectivePR))
			h := int(math.Round(r.Height * effectivePR))
			gpu.Scissor(x, y, w, h)
			gpu.SetScissorTest(true)
		} else {
			gpu.SetScissorTest(false)
		}

		byteOffset := (op.BufferIdxStart / quadVertexBytes) * 12
		gpu.DrawElements(quadIndicesPerQuad*op.NumQuads, byteOffset)
	}
}

// RenderToTexturePass binds target's framebuffer, clears it, runs
// buildOps (which resets b and re-emits quads for target's subtree),
// calls Render, then restores the default framebuffer. Grounded on the
// teacher's renderSpecialNode bind/clear/restore pattern for RTT subtrees
// (render.go), generalized from the teacher's immediate-compositing cache
// pass to scenic's explicit op-per-framebuffer model.
func RenderToTexturePass(gpu GpuCapability, b *Batcher, target *Texture, clear Color, buildOps func()) {
	gpu.BindFramebuffer(target.handle)
	dims := target.Dimensions()
	gpu.Viewport(0, 0, dims.W, dims.H)
	gpu.Clear(float32(clear.R), float32(clear.G), float32(clear.B), float32(clear.A))

	b.Reset()
	buildOps()
	Render(gpu, b, CanvasDimensions{W: dims.W, H: dims.H}, 1.0)

	gpu.BindFramebuffer(0)
}
