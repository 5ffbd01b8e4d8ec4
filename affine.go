package scenic

import "math"

// AffineTransform is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type AffineTransform [6]float64

// IdentityTransform is the identity affine matrix.
var IdentityTransform = AffineTransform{1, 0, 0, 1, 0, 0}

// ComputeLocal derives a node's local affine transform from its spatial
// properties, following spec.md §3's composition order:
//
//	Translate(-PivotX,-PivotY) -> Scale -> Rotate -> Translate(X,Y)
//
// mountX/mountY additionally offset the node by -mountX*width,-mountY*height
// before the pivot translation, matching spec.md's mount-point semantics
// (0 = top-left anchor, 1 = bottom-right anchor).
func ComputeLocal(x, y, scaleX, scaleY, rotation, pivotX, pivotY, mountX, mountY, width, height float64) AffineTransform {
	sin, cos := math.Sincos(rotation)

	// Scale * Translate(-pivot - mount*size)
	a := scaleX
	d := scaleY
	px := pivotX + mountX*width
	py := pivotY + mountY*height
	preTx := -px * scaleX
	preTy := -py * scaleY

	// Rotate
	ra := cos * a
	rb := sin * a
	rc := -sin * d
	rd := cos * d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// Translate(X, Y)
	return AffineTransform{ra, rb, rc, rd, rtx + x, rty + y}
}

// Multiply computes parent * child, writing into a caller-provided out
// matrix to permit scratch-matrix reuse in hot paths (spec.md §4.5).
func Multiply(out *AffineTransform, parent, child AffineTransform) {
	*out = AffineTransform{
		parent[0]*child[0] + parent[2]*child[1],
		parent[1]*child[0] + parent[3]*child[1],
		parent[0]*child[2] + parent[2]*child[3],
		parent[1]*child[2] + parent[3]*child[3],
		parent[0]*child[4] + parent[2]*child[5] + parent[4],
		parent[1]*child[4] + parent[3]*child[5] + parent[5],
	}
}

// Translate returns a pure-translation matrix by (dx, dy).
func Translate(dx, dy float64) AffineTransform {
	return AffineTransform{1, 0, 0, 1, dx, dy}
}

// Multiplied returns parent * child as a new matrix.
func Multiplied(parent, child AffineTransform) AffineTransform {
	var out AffineTransform
	Multiply(&out, parent, child)
	return out
}

// Invert computes the inverse of m. Returns the identity matrix if m is
// singular (determinant within 1e-12 of zero).
func Invert(m AffineTransform) AffineTransform {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return AffineTransform{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// TransformPoint applies m to the point (x, y).
func TransformPoint(m AffineTransform, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRectAABB returns the axis-aligned bounding box of the rectangle
// {(0,0), (w,0), (0,h), (w,h)} after applying m.
func TransformRectAABB(m AffineTransform, w, h float64) Rect {
	x0, y0 := TransformPoint(m, 0, 0)
	x1, y1 := TransformPoint(m, w, 0)
	x2, y2 := TransformPoint(m, 0, h)
	x3, y3 := TransformPoint(m, w, h)
	minX := minF(minF(x0, x1), minF(x2, x3))
	maxX := maxF(maxF(x0, x1), maxF(x2, x3))
	minY := minF(minF(y0, y1), minF(y2, y3))
	maxY := maxF(maxF(y0, y1), maxF(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsAxisAligned reports whether m has no rotation/skew component, i.e. the
// batcher can use the axis-aligned quad shortcut (spec.md §4.2 step 6).
func (m AffineTransform) IsAxisAligned() bool {
	return m[1] == 0 && m[2] == 0
}

// GetFloat6Array returns the matrix's six components in column-major
// [a,b,c,d,tx,ty] order, the form spec.md §4.5 names explicitly.
func (m AffineTransform) GetFloat6Array() [6]float64 {
	return [6]float64(m)
}
