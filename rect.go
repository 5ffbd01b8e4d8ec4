package scenic

// Rect is an axis-aligned rectangle in local or world pixel space, origin
// at top-left, Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Edge points count as inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap, including shared edges.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width && r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height && r.Y+r.Height >= other.Y
}

// Bound is a rectangle expressed as two corners plus an explicit validity
// flag (spec.md §3). Intersecting an invalid Bound with anything produces
// an invalid Bound. An invalid clipping rect means "no clip"; traverse.go's
// computeClippingRect represents "clipped to nothing" as a valid,
// zero-area Bound so the two stay distinct.
type Bound struct {
	X1, Y1, X2, Y2 float64
	Valid          bool
}

// InvalidBound is the canonical "no bound" value.
var InvalidBound = Bound{}

// BoundFromRect converts a Rect to a valid Bound.
func BoundFromRect(r Rect) Bound {
	return Bound{X1: r.X, Y1: r.Y, X2: r.X + r.Width, Y2: r.Y + r.Height, Valid: true}
}

// ToRect converts a valid Bound back to a Rect. Invalid bounds convert to
// the zero Rect.
func (b Bound) ToRect() Rect {
	if !b.Valid {
		return Rect{}
	}
	return Rect{X: b.X1, Y: b.Y1, Width: b.X2 - b.X1, Height: b.Y2 - b.Y1}
}

// Intersect returns the intersection of b and other. If either is invalid,
// or the rectangles do not overlap, the result is invalid.
func (b Bound) Intersect(other Bound) Bound {
	if !b.Valid || !other.Valid {
		return InvalidBound
	}
	x1 := maxF(b.X1, other.X1)
	y1 := maxF(b.Y1, other.Y1)
	x2 := minF(b.X2, other.X2)
	y2 := minF(b.Y2, other.Y2)
	if x2 < x1 || y2 < y1 {
		return InvalidBound
	}
	return Bound{X1: x1, Y1: y1, X2: x2, Y2: y2, Valid: true}
}

// ContainsBound reports whether other lies entirely within b. An invalid
// b contains nothing; an invalid other is trivially contained by any
// valid b (there is nothing outside it to violate containment).
func (b Bound) ContainsBound(other Bound) bool {
	if !b.Valid {
		return false
	}
	if !other.Valid {
		return true
	}
	return other.X1 >= b.X1 && other.Y1 >= b.Y1 && other.X2 <= b.X2 && other.Y2 <= b.Y2
}

// Intersects reports whether two valid bounds overlap. An invalid bound
// never intersects anything.
func (b Bound) Intersects(other Bound) bool {
	if !b.Valid || !other.Valid {
		return false
	}
	return b.X1 <= other.X2 && b.X2 >= other.X1 && b.Y1 <= other.Y2 && b.Y2 >= other.Y1
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
