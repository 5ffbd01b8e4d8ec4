package scenic

import "sort"

// Viewport is the root visibility rectangle the traversal tests world AABBs
// against when a node has no ancestor render-to-texture target.
type Viewport struct {
	W, H float64
}

// UpdateTraversal walks the scene graph depth-first from root once per
// frame, recomputing exactly the derived state named dirty by each node's
// updateType bitmask (spec.md §4.1). Grounded on the teacher's
// updateWorldTransform (transform.go) for the Local/Global propagation
// and render.go's rebuildSortedChildren for the ZIndexChildren step;
// generalized to also compute Clipping, RenderBounds,
// ParentRenderTexture and IsRenderable per-bit, which the teacher's
// simpler always-everything traversal does not split out.
type UpdateTraversal struct {
	viewport Viewport
}

// NewUpdateTraversal creates a traversal bound to the given viewport.
func NewUpdateTraversal(viewport Viewport) *UpdateTraversal {
	return &UpdateTraversal{viewport: viewport}
}

// SetViewport updates the traversal's root visibility rectangle, e.g. on
// window resize.
func (t *UpdateTraversal) SetViewport(v Viewport) { t.viewport = v }

// Run performs the per-frame traversal starting at root, which must be the
// scene's root node (identity world transform, alpha 1, no clipping, no
// ancestor RTT).
func (t *UpdateTraversal) Run(root *Node) {
	t.visit(root, IdentityTransform, 1.0, InvalidBound, false, nil, TextureDimensions{})
}

func (t *UpdateTraversal) visit(
	n *Node,
	parentWorld AffineTransform,
	parentAlpha float64,
	parentClip Bound,
	parentHasRT bool,
	parentRT *Texture,
	parentFBDims TextureDimensions,
) {
	flags := n.updateType

	if flags&UpdateLocal != 0 {
		n.localTransform = ComputeLocal(
			n.X, n.Y, n.ScaleX, n.ScaleY, n.Rotation,
			n.PivotX, n.PivotY, n.MountX, n.MountY,
			n.Width, n.Height,
		)
	}

	globalChanged := flags&UpdateGlobal != 0
	if globalChanged {
		Multiply(&n.worldTransform, parentWorld, n.localTransform)
		n.worldAlpha = clamp01(parentAlpha * n.Alpha)
	}

	if flags&UpdateClipping != 0 {
		n.clippingRect = computeClippingRect(n, parentClip)
	}

	if flags&UpdateZIndexChildren != 0 {
		n.rebuildDrawOrder()
	}

	if flags&UpdateRenderBounds != 0 {
		n.renderState = computeRenderState(n, parentHasRT, parentFBDims, t.viewport)
	}

	if flags&UpdateParentRenderTexture != 0 {
		n.parentHasRenderTexture = parentHasRT
		n.parentRenderTexture = parentRT
		n.parentFramebufferDimensions = parentFBDims
	}

	if flags&UpdateIsRenderable != 0 {
		n.isRenderable = computeIsRenderable(n)
	}

	n.updateType = 0

	childParentHasRT := n.parentHasRenderTexture
	childParentRT := n.parentRenderTexture
	childParentFBDims := n.parentFramebufferDimensions
	if n.Rtt {
		childParentHasRT = true
		childParentRT = n.Texture
		childParentFBDims = n.Texture.Dimensions()
	}

	// Global/Clipping/ParentRenderTexture propagate downward regardless of
	// whether the child itself was separately marked dirty, matching
	// spec.md §4.1's "then set Global on all children (propagation)".
	for _, c := range n.children {
		if globalChanged {
			c.updateType |= UpdateGlobal
		}
		if flags&UpdateClipping != 0 {
			c.updateType |= UpdateClipping
		}
		if flags&UpdateParentRenderTexture != 0 || n.Rtt {
			c.updateType |= UpdateParentRenderTexture
		}
		t.visit(c, n.worldTransform, n.worldAlpha, n.clippingRect, childParentHasRT, childParentRT, childParentFBDims)
	}
}

// computeClippingRect intersects parent's clippingRect with this node's own
// contribution: its post-transform rectangle when Clipping is true, else a
// pass-through of the parent's rect (spec.md §3's invariant).
//
// spec.md §4.1 step 3 reads literally as "else inherit" for a non-clipping
// node, which is what this implements. spec.md §8's S2 worked example
// instead expects a non-clipping child's clippingRect to be its own AABB
// intersected with the parent's — i.e. every node contributes its AABB to
// the intersection whether or not Clipping is set on it. The two read as
// contradictory and there is no original_source/ to break the tie; see
// traverse_test.go's TestClippingRectInheritsParentUnchanged, which pins
// the literal "else inherit" reading used here.
func computeClippingRect(n *Node, parentClip Bound) Bound {
	if !n.Clipping {
		return parentClip
	}
	own := BoundFromRect(TransformRectAABB(n.worldTransform, n.Width, n.Height))
	if !parentClip.Valid {
		return own
	}
	clipped := parentClip.Intersect(own)
	if !clipped.Valid {
		// No overlap: an empty but valid rect clips everything away, where
		// an invalid one would read as "no clip" to the batcher.
		return Bound{X1: parentClip.X1, Y1: parentClip.Y1, X2: parentClip.X1, Y2: parentClip.Y1, Valid: true}
	}
	return clipped
}

// computeRenderState classifies the node's world AABB against the nearest
// ancestor framebuffer (or the root viewport when no ancestor has rtt).
func computeRenderState(n *Node, parentHasRT bool, fbDims TextureDimensions, vp Viewport) RenderState {
	aabb := TransformRectAABB(n.worldTransform, n.Width, n.Height)
	var bounds Rect
	if parentHasRT {
		bounds = Rect{X: 0, Y: 0, Width: float64(fbDims.W), Height: float64(fbDims.H)}
	} else {
		bounds = Rect{X: 0, Y: 0, Width: vp.W, Height: vp.H}
	}
	if !aabb.Intersects(bounds) {
		return RenderStateOutOfBounds
	}
	if aabb.X >= bounds.X && aabb.Y >= bounds.Y &&
		aabb.X+aabb.Width <= bounds.X+bounds.Width &&
		aabb.Y+aabb.Height <= bounds.Y+bounds.Height {
		return RenderStateInViewport
	}
	return RenderStateInBounds
}

// computeIsRenderable implements spec.md §3's isRenderable invariant:
// worldAlpha > 0 AND has renderable content AND world AABB intersects the
// viewport/framebuffer.
func computeIsRenderable(n *Node) bool {
	if n.worldAlpha <= 0 {
		return false
	}
	if n.renderState == RenderStateOutOfBounds {
		return false
	}
	hasContent := !n.Colors.IsTransparent() ||
		(n.Texture != nil && n.Texture.state == TextureLoaded) ||
		(n.Shader != nil) ||
		n.Rtt ||
		(n.Text != nil)
	return hasContent
}

// rebuildDrawOrder stably re-sorts n.children's draw-order index by
// (ZIndex, ZIndexLocked), breaking ties by original insertion sequence
// (spec.md §4.1: "Tie-breaking rule: lower original insertion index drawn
// first"). children itself is left untouched.
func (n *Node) rebuildDrawOrder() {
	order := make([]int, len(n.children))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := n.children[order[i]], n.children[order[j]]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		if a.ZIndexLocked != b.ZIndexLocked {
			return a.ZIndexLocked < b.ZIndexLocked
		}
		return a.insertSeq < b.insertSeq
	})
	n.drawOrder = order
	n.childOrderDirty = false
}

// SortedChildren returns this node's children in current draw order,
// rebuilding the order first if it has never been computed.
func (n *Node) SortedChildren() []*Node {
	if n.drawOrder == nil || len(n.drawOrder) != len(n.children) {
		n.rebuildDrawOrder()
	}
	out := make([]*Node, len(n.drawOrder))
	for i, idx := range n.drawOrder {
		out[i] = n.children[idx]
	}
	return out
}
