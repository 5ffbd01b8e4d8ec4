package scenic

// UpdateFlag is a dirty-bit mask on Node.updateType (spec.md §3/§4.1).
type UpdateFlag uint32

const (
	UpdateLocal               UpdateFlag = 1 << iota // local transform needs recompute
	UpdateGlobal                                     // world transform/alpha need recompute
	UpdateParentRenderTexture                        // parentHasRenderTexture/framebuffer dims stale
	UpdateScaleRotate                                // scale/rotation/skew-dependent derived state stale
	UpdateClipping                                    // clippingRect needs recompute
	UpdateRenderBounds                                // world AABB / viewport test needs recompute
	UpdateZIndexChildren                              // children need re-sort by (zIndex, zIndexLocked)
	UpdateIsRenderable                                // isRenderable needs recompute
)

// UpdateAll sets every recognized dirty bit (spec.md: "All sets every bit").
const UpdateAll = UpdateLocal | UpdateGlobal | UpdateParentRenderTexture |
	UpdateScaleRotate | UpdateClipping | UpdateRenderBounds |
	UpdateZIndexChildren | UpdateIsRenderable

// RenderState classifies a node's current viewport relationship
// (spec.md §3).
type RenderState uint8

const (
	RenderStateOutOfBounds RenderState = iota // world AABB does not intersect viewport/framebuffer
	RenderStateInBounds                       // intersects, but not necessarily fully visible
	RenderStateInViewport                     // fully inside the current viewport/framebuffer
)

// BlendMode names compositing operations. No Node field or batcher path
// reads it: every quad is drawn with premultiplied source-over
// (ONE / ONE_MINUS_SRC_ALPHA, spec.md §6's default-shader blend factors).
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // premultiplied source-over (spec.md §6 default)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply destination
	BlendScreen                    // screen (brightening)
	BlendErase                     // destination-out (punch holes)
	BlendNone                      // opaque copy, skip blending
)

// TextAlign controls horizontal alignment of laid-out text lines.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// VerticalAlign controls vertical placement of the laid-out text block
// within its bounded rectangle.
type VerticalAlign uint8

const (
	VerticalAlignTop VerticalAlign = iota
	VerticalAlignMiddle
	VerticalAlignBottom
)

// ContainMode controls whether text layout is bounded by width/height.
type ContainMode uint8

const (
	ContainNone  ContainMode = iota // no word wrap, no vertical clamp
	ContainWidth                    // word wrap to width; height is unconstrained
	ContainBoth                     // word wrap to width; vertical align within height
)

// WordBreak selects the line-wrapping strategy (spec.md §4.4).
type WordBreak uint8

const (
	WordBreakNormal   WordBreak = iota // break only at whitespace/ZWSP; long words may overflow
	WordBreakWord                      // prefer whitespace break; break within an overlong word
	WordBreakAll                       // break at any grapheme boundary
)

// TextureOptions carries the recognized texture-sampling flags from
// spec.md §3.
type TextureOptions struct {
	FlipX bool
	FlipY bool
}

// EventType identifies a kind of lifecycle event emitted by the engine's
// centralized event queue (spec.md §6, §5).
type EventType uint8

const (
	EventLoaded EventType = iota
	EventFailed
	EventParentChanged
	EventChildAdded
	EventChildRemoved
	EventDestroyed
)

// ResourceKind distinguishes what kind of resource a Loaded/Failed event
// describes (spec.md §6: "{type:'texture', dimensions}" or
// "{type:'text', dimensions}").
type ResourceKind uint8

const (
	ResourceTexture ResourceKind = iota
	ResourceText
)
