package scenic

// nodeIDCounter is a plain counter; scenic's traversal is single-threaded
// per engine instance (no atomic), matching the teacher's nodeIDCounter.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph's sole entity type: a flat struct holding every
// recognized attribute from spec.md §3 rather than a type hierarchy, so the
// update traversal and batcher never pay interface dispatch on the hot
// path (grounded on the teacher's node.go, which makes the identical
// choice for the same reason).
type Node struct {
	ID uint32

	Parent   *Node
	children []*Node

	// Spatial
	X, Y           float64
	Width, Height  float64
	ScaleX, ScaleY float64
	Rotation       float64
	PivotX, PivotY float64
	MountX, MountY float64

	// Visual
	Colors CornerColors
	Alpha  float64

	// Composition
	Clipping     bool
	ZIndex       int
	ZIndexLocked int
	Rtt          bool

	// Resources
	Texture        *Texture
	Shader         *Shader
	ShaderProps    ShaderProps
	TextureOptions TextureOptions

	// Text (set via AttachText; nil for non-text nodes)
	Text *TextState

	// Derived state, recomputed by traverse.go — never set directly.
	localTransform AffineTransform
	worldTransform AffineTransform
	worldAlpha     float64

	clippingRect Bound

	renderState RenderState

	parentHasRenderTexture      bool
	parentRenderTexture         *Texture
	parentFramebufferDimensions TextureDimensions

	isRenderable bool

	// drawOrder is the stable-sorted index into children used by the
	// traversal/batcher; children itself stays in insertion order
	// (spec.md §4.1: "Children are not physically reordered... only a
	// parallel draw-order index is updated").
	drawOrder       []int
	childOrderDirty bool

	// insertSeq records the insertion sequence for this node among its
	// current siblings, used as the z-sort tie-break key.
	insertSeq int

	updateType UpdateFlag

	destroyed bool

	queue *EventQueue
}

// NodeConfig carries the recognized constructor options from spec.md
// §4.1's createNode(props).
type NodeConfig struct {
	Parent *Node

	X, Y           float64
	Width, Height  float64
	ScaleX, ScaleY float64
	Rotation       float64
	PivotX, PivotY float64
	MountX, MountY float64

	Colors CornerColors
	Alpha  float64

	Clipping     bool
	ZIndex       int
	ZIndexLocked int
	Rtt          bool

	Texture        *Texture
	Shader         *Shader
	ShaderProps    ShaderProps
	TextureOptions TextureOptions
}

var nextInsertSeq int

// NewNode creates a node with resolved defaults and attaches it to
// cfg.Parent (spec.md §4.1: "createNode(props) → node... Sets updateType
// = All"). queue may be nil for a detached, test-only node.
func NewNode(queue *EventQueue, cfg NodeConfig) *Node {
	n := &Node{
		ID:             nextNodeID(),
		ScaleX:         orDefault(cfg.ScaleX, 1),
		ScaleY:         orDefault(cfg.ScaleY, 1),
		Alpha:          orDefault(cfg.Alpha, 1),
		Colors:         cfg.Colors,
		X:              cfg.X,
		Y:              cfg.Y,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Rotation:       cfg.Rotation,
		PivotX:         cfg.PivotX,
		PivotY:         cfg.PivotY,
		MountX:         cfg.MountX,
		MountY:         cfg.MountY,
		Clipping:       cfg.Clipping,
		ZIndex:         cfg.ZIndex,
		ZIndexLocked:   cfg.ZIndexLocked,
		Rtt:            cfg.Rtt,
		Texture:        cfg.Texture,
		Shader:         cfg.Shader,
		ShaderProps:    cfg.ShaderProps,
		TextureOptions: cfg.TextureOptions,
		worldAlpha:     1,
		localTransform: IdentityTransform,
		worldTransform: IdentityTransform,
		updateType:     UpdateAll,
		queue:          queue,
	}
	if cfg.Colors == (CornerColors{}) {
		n.Colors = SolidCornerColors(ColorWhite)
	}
	if cfg.Parent != nil {
		cfg.Parent.AddChild(n)
	}
	return n
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// --- Property → dirty-bit setters (spec.md §4.1's table) ---

func (n *Node) markDirty(bits UpdateFlag) { n.updateType |= bits }

func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateRenderBounds)
}

func (n *Node) SetSize(w, h float64) {
	n.Width, n.Height = w, h
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateRenderBounds | UpdateClipping)
}

func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateScaleRotate | UpdateRenderBounds)
}

func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateScaleRotate | UpdateRenderBounds)
}

func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateScaleRotate | UpdateRenderBounds)
}

func (n *Node) SetMount(mx, my float64) {
	n.MountX, n.MountY = mx, my
	n.markDirty(UpdateLocal | UpdateGlobal | UpdateScaleRotate | UpdateRenderBounds)
}

func (n *Node) SetAlpha(a float64) {
	n.Alpha = clamp01(a)
	n.markDirty(UpdateGlobal | UpdateIsRenderable)
}

func (n *Node) SetColors(c CornerColors) {
	n.Colors = c
	n.markDirty(UpdateIsRenderable)
}

func (n *Node) SetClipping(enabled bool) {
	n.Clipping = enabled
	n.markDirty(UpdateClipping | UpdateRenderBounds)
}

// SetZIndex updates this node's draw-order primary key and marks the
// parent's children for re-sort (spec.md's dirty table: "zIndex,
// zIndexLocked | ZIndexChildren on parent").
func (n *Node) SetZIndex(z int) {
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.markDirty(UpdateZIndexChildren)
	}
}

func (n *Node) SetZIndexLocked(z int) {
	n.ZIndexLocked = z
	if n.Parent != nil {
		n.Parent.markDirty(UpdateZIndexChildren)
	}
}

func (n *Node) SetTexture(t *Texture) {
	n.Texture = t
	n.markDirty(UpdateIsRenderable)
}

func (n *Node) SetShader(s *Shader, props ShaderProps) {
	n.Shader = s
	n.ShaderProps = props
	n.markDirty(UpdateIsRenderable)
}

// AttachText sets n.Text, marking n dirty so the next traversal
// re-evaluates isRenderable from the text's presence. n.Width/n.Height
// still come from the node itself (its layout box), not from the
// text's own measured dimensions. Pass nil to detach.
func (n *Node) AttachText(ts *TextState) {
	n.Text = ts
	n.markDirty(UpdateIsRenderable)
}

// SetRtt toggles this node as a render-to-texture root, marking itself and
// every descendant's ParentRenderTexture bit dirty.
func (n *Node) SetRtt(enabled bool) {
	n.Rtt = enabled
	markSubtreeParentRTTDirty(n)
}

func markSubtreeParentRTTDirty(n *Node) {
	n.markDirty(UpdateParentRenderTexture)
	for _, c := range n.children {
		markSubtreeParentRTTDirty(c)
	}
}

// MarkDirty ORs arbitrary bits into this node's dirty mask; callers
// mutating a field with no dedicated setter use this directly.
func (n *Node) MarkDirty(bits UpdateFlag) { n.markDirty(bits) }

// --- Tree mutation ---

// AddChild appends child as this node's last child, reparenting it if it
// already has a parent. Rejects cycles with InvalidTopology.
func (n *Node) AddChild(child *Node) {
	n.addChildAtInternal(child, len(n.children))
}

// AddChildAt inserts child at the given index, same reparenting/cycle
// behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if index < 0 || index > len(n.children) {
		panic(newErr(ErrInvalidTopology, "child index out of range", nil))
	}
	n.addChildAtInternal(child, index)
}

func (n *Node) addChildAtInternal(child *Node, index int) {
	if child == nil {
		panic(newErr(ErrInvalidTopology, "cannot add nil child", nil))
	}
	if isAncestor(child, n) {
		panic(newErr(ErrInvalidTopology, "adding child would create a cycle", nil))
	}
	debugCheckDestroyed(n, "AddChild")
	debugCheckDestroyed(child, "AddChild")
	oldParent := child.Parent
	if oldParent != nil {
		oldParent.removeChildByPtr(child)
	}

	child.Parent = n
	nextInsertSeq++
	child.insertSeq = nextInsertSeq

	if index >= len(n.children) {
		n.children = append(n.children, child)
	} else {
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	}
	n.childOrderDirty = true

	child.markDirty(UpdateAll)
	markSubtreeParentRTTDirty(child)
	n.markDirty(UpdateZIndexChildren | UpdateRenderBounds)
	if oldParent != nil {
		oldParent.markDirty(UpdateZIndexChildren | UpdateRenderBounds)
	}

	n.queue.push(Event{Type: EventParentChanged, Node: child, OldParent: oldParent, NewParent: n})

	debugCheckTreeDepth(child)
	debugCheckChildCount(n)
}

// RemoveChild detaches child from this node. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic(newErr(ErrInvalidTopology, "child's parent is not this node", nil))
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childOrderDirty = true
	n.markDirty(UpdateZIndexChildren | UpdateRenderBounds)
	n.queue.push(Event{Type: EventChildRemoved, Node: n, Child: child})
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic(newErr(ErrInvalidTopology, "child index out of range", nil))
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent; no-op if none.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children without destroying them.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.Parent = nil
		n.queue.push(Event{Type: EventChildRemoved, Node: n, Child: c})
	}
	n.children = n.children[:0]
	n.drawOrder = n.drawOrder[:0]
	n.childOrderDirty = false
}

// Children returns the node's children in insertion order, not draw order.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func isAncestor(candidate, node *Node) bool {
	for cur := node; cur != nil; cur = cur.Parent {
		if cur == candidate {
			return true
		}
	}
	return false
}

// Destroy detaches this node, releases texture ownership, recursively
// destroys children, and emits EventDestroyed (spec.md §3's Node
// lifecycle). Idempotent.
func (n *Node) Destroy(mgr *TextureManager) {
	if n.destroyed {
		return
	}
	n.destroyed = true
	// Each child's Destroy removes it from n.children, so walk a copy.
	children := append([]*Node(nil), n.children...)
	for _, c := range children {
		c.Destroy(mgr)
	}
	n.children = nil
	if n.Texture != nil && mgr != nil {
		mgr.Release(n.Texture, n)
	}
	n.RemoveFromParent()
	n.queue.push(Event{Type: EventDestroyed, Node: n})
}

// IsDestroyed reports whether Destroy has been called on this node.
func (n *Node) IsDestroyed() bool { return n.destroyed }

// WorldTransform/WorldAlpha/ClippingRect/RenderState/IsRenderable expose
// traverse.go's derived state read-only, matching spec.md §3's "derived,
// never directly set" fields.
func (n *Node) WorldTransform() AffineTransform { return n.worldTransform }
func (n *Node) WorldAlpha() float64             { return n.worldAlpha }
func (n *Node) ClippingRect() Bound             { return n.clippingRect }
func (n *Node) RenderState() RenderState        { return n.renderState }
func (n *Node) IsRenderable() bool              { return n.isRenderable }
func (n *Node) ParentHasRenderTexture() bool    { return n.parentHasRenderTexture }
