package scenic

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator is the pluggable tweening seam: the engine itself imports
// gween only here and in camera.go's ScrollTo, so an application can swap in a
// different easing library by implementing Update against its own
// state instead of a *gweenAnimator.
type Animator interface {
	// Update advances the animation by dt seconds and reports whether it
	// has finished. A finished Animator may still be called again; it
	// should keep returning true and stop mutating its target.
	Update(dt float32) (done bool)
}

// gweenAnimator is the default Animator, driving up to 4 float64 target
// fields with independent gween.Tweens sharing one duration/easing pair.
// Grounded on teacher animation.go's TweenGroup, generalized behind the
// Animator interface so application code can supply its own tweening
// engine without touching engine.go.
type gweenAnimator struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
}

// Update advances every tween by dt, writes the results into their
// target fields and marks the node dirty, matching TweenGroup's
// dirty-on-write contract. A destroyed target stops the animation
// immediately without touching the dangling fields.
func (a *gweenAnimator) Update(dt float32) bool {
	if a.target != nil && a.target.IsDestroyed() {
		return true
	}

	allDone := true
	for i := 0; i < a.count; i++ {
		val, finished := a.tweens[i].Update(dt)
		*a.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}

	if a.target != nil {
		a.target.MarkDirty(UpdateLocal | UpdateGlobal | UpdateScaleRotate | UpdateRenderBounds)
	}
	return allDone
}

// TweenPosition returns an Animator moving node.X/node.Y to (toX, toY)
// over duration seconds using fn.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) Animator {
	a := &gweenAnimator{count: 2, target: node}
	a.tweens[0] = gween.New(float32(node.X), float32(toX), duration, fn)
	a.tweens[1] = gween.New(float32(node.Y), float32(toY), duration, fn)
	a.fields[0] = &node.X
	a.fields[1] = &node.Y
	return a
}

// TweenScale returns an Animator moving node.ScaleX/node.ScaleY to
// (toSX, toSY) over duration seconds using fn.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) Animator {
	a := &gweenAnimator{count: 2, target: node}
	a.tweens[0] = gween.New(float32(node.ScaleX), float32(toSX), duration, fn)
	a.tweens[1] = gween.New(float32(node.ScaleY), float32(toSY), duration, fn)
	a.fields[0] = &node.ScaleX
	a.fields[1] = &node.ScaleY
	return a
}

// TweenColor returns an Animator moving the top-left corner of
// node.Colors from its current color to to over duration seconds using
// fn. The other three corners are left unchanged.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) Animator {
	from := node.Colors.TL
	a := &gweenAnimator{count: 4, target: node}
	a.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	a.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	a.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	a.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	a.fields[0] = &node.Colors.TL.R
	a.fields[1] = &node.Colors.TL.G
	a.fields[2] = &node.Colors.TL.B
	a.fields[3] = &node.Colors.TL.A
	return a
}

// TweenAlpha returns an Animator moving node.Alpha to to over duration
// seconds using fn.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) Animator {
	a := &gweenAnimator{count: 1, target: node}
	a.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	a.fields[0] = &node.Alpha
	return a
}

// TweenRotation returns an Animator moving node.Rotation to to over
// duration seconds using fn.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) Animator {
	a := &gweenAnimator{count: 1, target: node}
	a.tweens[0] = gween.New(float32(node.Rotation), float32(to), duration, fn)
	a.fields[0] = &node.Rotation
	return a
}
