package scenic

import "time"

// EngineOptions configures a new Engine, mirroring the teacher's RunConfig
// (scene.go) but trimmed to the knobs spec.md §2's control flow actually
// consumes: canvas size, device pixel ratio, vertex-arena size and texture
// residency budget.
type EngineOptions struct {
	CanvasWidth  int
	CanvasHeight int
	PixelRatio   float64

	// BufferMemory sizes the batcher's vertex arena in bytes (spec.md
	// §4.2's bufferMemory engine option). Defaults to room for 2048 quads
	// if zero.
	BufferMemory int

	// TextureBudgetBytes bounds resident GPU texture memory (spec.md
	// §4.3). Zero means unbounded.
	TextureBudgetBytes int

	// Debug gates the teacher-style stage-timing log lines in debug.go
	// (SPEC_FULL.md §2's ambient logging convention: gated, and silent
	// unless Debug is set).
	Debug bool
}

func (o EngineOptions) bufferMemory() int {
	if o.BufferMemory > 0 {
		return o.BufferMemory
	}
	return 2048 * quadVertexBytes
}

// Engine owns one scene graph and drives its per-frame pipeline: traversal,
// RTT subtree passes, screen pass, texture eviction. Grounded on the
// teacher's Scene (scene.go), which bundles the same responsibilities
// behind Update/Draw; Engine collapses those into the single Frame call
// spec.md §2 describes, since scenic has no teacher-style fixed/variable
// timestep split to preserve.
type Engine struct {
	Root     *Node
	Queue    *EventQueue
	Gpu      GpuCapability
	Textures *TextureManager
	Batcher  *Batcher

	traversal  *UpdateTraversal
	canvas     CanvasDimensions
	pixelRatio float64

	whiteTexture  *Texture
	defaultShader *Shader
	sdfShader     *Shader
}

// NewEngine wires a root node, event queue, GPU capability, texture
// manager and batcher into an Engine, force-loading a 1x1 white texture
// the batcher substitutes for untextured quads (quad.go's AddQuad
// fallback), following the teacher's NewScene (scene.go) construction
// order: GPU capability first, then the resource managers that depend on
// it, then the scene graph itself.
func NewEngine(gpu GpuCapability, opts EngineOptions) (*Engine, error) {
	pr := opts.PixelRatio
	if pr <= 0 {
		pr = 1
	}

	textures := NewTextureManager(gpu, opts.TextureBudgetBytes)
	white := NewImageTexture(func() ([]byte, TextureDimensions, error) {
		return []byte{0xff, 0xff, 0xff, 0xff}, TextureDimensions{W: 1, H: 1}, nil
	})
	if err := textures.ForceLoad(white); err != nil {
		return nil, err
	}

	debugEnabled = opts.Debug

	batcher := NewBatcher(gpu, opts.bufferMemory(), white)
	queue := NewEventQueue()
	root := NewNode(queue, NodeConfig{Width: float64(opts.CanvasWidth), Height: float64(opts.CanvasHeight), Alpha: 1})
	root.updateType = UpdateAll
	// The root is a container, not a drawable: NewNode would otherwise give
	// it opaque white corners and a full-canvas quad of its own.
	root.Colors = SolidCornerColors(ColorTransparent)

	defaultShader, err := NewDefaultShader(gpu, defaultKageSource, defaultKageSource)
	if err != nil {
		return nil, err
	}
	sdfShader, err := NewSdfShader(gpu)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Root:          root,
		Queue:         queue,
		Gpu:           gpu,
		Textures:      textures,
		Batcher:       batcher,
		traversal:     NewUpdateTraversal(Viewport{W: float64(opts.CanvasWidth), H: float64(opts.CanvasHeight)}),
		canvas:        CanvasDimensions{W: opts.CanvasWidth, H: opts.CanvasHeight},
		pixelRatio:    pr,
		whiteTexture:  white,
		defaultShader: defaultShader,
		sdfShader:     sdfShader,
	}, nil
}

// Resize updates the canvas size and root viewport, marking the root
// subtree's render-bounds dirty so the next Frame re-evaluates visibility
// against the new dimensions.
func (e *Engine) Resize(w, h int) {
	e.canvas = CanvasDimensions{W: w, H: h}
	e.traversal.SetViewport(Viewport{W: float64(w), H: float64(h)})
	e.Root.Width, e.Root.Height = float64(w), float64(h)
	e.Root.markDirty(UpdateRenderBounds | UpdateClipping)
	var markBounds func(n *Node)
	markBounds = func(n *Node) {
		for _, c := range n.children {
			c.markDirty(UpdateRenderBounds)
			markBounds(c)
		}
	}
	markBounds(e.Root)
}

// Frame runs spec.md §2's per-frame control flow: traverse to settle
// dirty derived state, render every RTT subtree bottom-up into its
// texture, render the screen pass from the settled tree, then let the
// texture manager evict anything over budget. It returns the lifecycle
// events queued during the frame (spec.md §5/§6), draining the queue.
func (e *Engine) Frame() []Event {
	var stats FrameStats
	traverseStart := time.Now()
	e.traversal.Run(e.Root)
	stats.TraverseTime = time.Since(traverseStart)

	batchStart := time.Now()
	var rtts []*Node
	collectRttPostOrder(e.Root, &rtts)
	for _, n := range rtts {
		node := n
		// The render target gets its GPU handle on first Acquire; take it
		// here so the pass never draws into an unallocated target.
		if err := e.Textures.Acquire(node.Texture, node); err != nil {
			continue
		}
		RenderToTexturePass(e.Gpu, e.Batcher, node.Texture, ColorTransparent, func() {
			for _, c := range node.SortedChildren() {
				e.emitNode(c)
			}
		})
	}

	e.Batcher.Reset()
	e.emitNode(e.Root)
	stats.BatchTime = time.Since(batchStart)

	submitStart := time.Now()
	Render(e.Gpu, e.Batcher, e.canvas, e.pixelRatio)
	stats.SubmitTime = time.Since(submitStart)

	for _, op := range e.Batcher.Ops() {
		stats.OpCount++
		stats.QuadCount += op.NumQuads
	}
	LogFrameStats(stats)

	e.Textures.evictIfOverBudget()

	return e.Queue.Drain()
}

// collectRttPostOrder gathers every Rtt node in the subtree rooted at n,
// innermost-first, so a render-to-texture node nested inside another is
// rendered before its host (spec.md §4.1's nested-RTT framebuffer-dims
// propagation relies on the inner texture already being current).
func collectRttPostOrder(n *Node, out *[]*Node) {
	for _, c := range n.children {
		collectRttPostOrder(c, out)
	}
	if n.Rtt && n.Texture != nil {
		*out = append(*out, n)
	}
}

// emitNode walks n depth-first in draw order, issuing one addQuad call per
// renderable node (spec.md §4.2's traversal-to-batch step) and stopping
// short of recursing into an Rtt node's own children, since those were
// already flattened into n.Texture by a prior RenderToTexturePass.
func (e *Engine) emitNode(n *Node) {
	if n.isRenderable {
		e.emitQuad(n)
	}
	if n.Text != nil {
		e.emitTextQuads(n)
	}
	if n.Rtt {
		return
	}
	for _, c := range n.SortedChildren() {
		e.emitNode(c)
	}
}

// emitQuad submits n's own rectangle as a single addQuad call, resolving
// n.Texture's residency through the manager (the node itself is the
// texture's renderable owner for as long as it draws, spec.md §4.3) and
// falling back to the batcher's 1x1 white texture for untextured/color-only
// nodes.
func (e *Engine) emitQuad(n *Node) {
	tex := n.Texture
	if tex != nil {
		if err := e.Textures.Acquire(tex, n); err != nil {
			return
		}
	}

	shader := n.Shader
	if shader == nil {
		shader = e.defaultShader
	}
	props := n.ShaderProps

	_ = e.Batcher.AddQuad(QuadParams{
		X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		Colors:                 n.Colors,
		Transform:              n.worldTransform,
		Texture:                tex,
		TextureOptions:         n.TextureOptions,
		Shader:                 shader,
		ShaderProps:            props,
		Alpha:                  n.worldAlpha,
		ClippingRect:           n.clippingRect,
		ParentHasRenderTexture: n.parentHasRenderTexture,
		FramebufferDimensions:  n.parentFramebufferDimensions,
		RttBoundary:            n.Rtt,
	})
}

// emitTextQuads lays n.Text out (always a full relayout: computing the
// exact scrolled render window per spec.md §4.4 step 4 would need the
// node's own scroll state threaded through the traversal, which scenic
// does not yet track — see DESIGN.md) and emits one glyph quad per laid-
// out glyph, sharing the font's atlas texture and the engine's single SDF
// shader across all of them so they batch into one render-op per atlas.
func (e *Engine) emitTextQuads(n *Node) {
	ts := n.Text
	if err := ts.Relayout(Bound{Valid: false}); err != nil || ts.Failed() {
		return
	}
	atlas := ts.face.AtlasTexture()
	if atlas == nil {
		return
	}
	if err := e.Textures.Acquire(atlas, n); err != nil {
		return
	}

	ratio := ts.Params.FontSize / ts.face.InfoSize()
	props := ShaderProps{"distanceRange": ts.face.DistanceRange() * ratio}
	dim := atlas.Dimensions()
	if dim.W == 0 || dim.H == 0 {
		return
	}

	for _, g := range ts.glyphs {
		glyphTransform := Multiplied(n.worldTransform, Translate(g.x, g.y-ts.Params.ScrollY))

		// A fallback-rasterized glyph is a standalone plain-RGBA image, not
		// a sub-rectangle of the SDF atlas: sample it whole with the
		// default textured-quad shader instead of the distance-field one.
		tex, shader, quadProps := atlas, e.sdfShader, props
		u1, v1, u2, v2 := g.info.U, g.info.V, g.info.U+g.info.UW, g.info.V+g.info.VH
		if g.fallbackTex != nil {
			if err := e.Textures.Acquire(g.fallbackTex, n); err != nil {
				continue
			}
			tex, shader, quadProps = g.fallbackTex, e.defaultShader, nil
			u1, v1, u2, v2 = 0, 0, 1, 1
		}

		_ = e.Batcher.AddGlyphQuad(QuadParams{
			Width: g.info.Width, Height: g.info.Height,
			Colors:                 n.Colors,
			Transform:              glyphTransform,
			Texture:                tex,
			Shader:                 shader,
			ShaderProps:            quadProps,
			Alpha:                  n.worldAlpha,
			ClippingRect:           n.clippingRect,
			ParentHasRenderTexture: n.parentHasRenderTexture,
			FramebufferDimensions:  n.parentFramebufferDimensions,
		}, u1, v1, u2, v2)
	}
}
