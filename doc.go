// Package scenic is a retained-mode 2D scene-graph renderer for
// GPU-accelerated UI composition on set-top-box class devices, built on
// top of [Ebitengine].
//
// scenic owns a node tree, a dirty-bit-driven per-frame traversal, a
// shader/clip/texture-slot draw batcher, a byte-budgeted texture
// residency manager, and an SDF-atlas text layout engine. It does not
// own input handling, 3D projection, arbitrary mesh rendering as a
// batcher primitive, or application/component framework concerns —
// those stay outside the engine boundary, same as a set-top UI
// compositor's own native renderer.
//
// # Quick start
//
//	gpu := scenic.NewEbitenCapability(1920, 1080)
//	engine, err := scenic.NewEngine(gpu, scenic.EngineOptions{
//		CanvasWidth: 1920, CanvasHeight: 1080,
//	})
//
//	box := scenic.NewNode(engine.Queue, scenic.NodeConfig{
//		Parent: engine.Root,
//		Width:  200, Height: 80,
//		Colors: scenic.SolidCornerColors(scenic.Color{R: 0.3, G: 0.7, B: 1, A: 1}),
//	})
//
//	events := engine.Frame()
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Engine.Root]; children inherit their parent's transform, alpha and
// clipping rect. Create a node with [NewNode] and a [NodeConfig], attach
// it with [Node.AddChild] (or set NodeConfig.Parent), and mutate it
// through its Set* methods — each marks the right dirty bits for the
// next [Engine.Frame] traversal to pick up.
//
// # Key features
//
// scenic includes an optional [Camera] (follow/scroll-to/zoom-independent
// of the traversal's own visibility culling), an SDF text layout engine
// ([TextState], [FontRegistry]) with TTF glyph fallback, a pluggable
// [Animator] interface backed by [gween] tweens, and render-to-texture
// subtrees via [Node.SetRtt]. Arbitrary triangle-mesh rendering is out of
// scope; the batcher only ever emits indexed quads.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package scenic
