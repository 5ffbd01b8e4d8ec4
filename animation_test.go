package scenic

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionLinear(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	n.X, n.Y = 0, 0

	anim := TweenPosition(n, 100, 50, 1.0, ease.Linear)

	if done := anim.Update(0.5); done {
		t.Error("should not be done at t=0.5 of duration 1.0")
	}
	if n.X < 49 || n.X > 51 {
		t.Errorf("X at midpoint = %v, want ~50", n.X)
	}
	if n.Y < 24 || n.Y > 26 {
		t.Errorf("Y at midpoint = %v, want ~25", n.Y)
	}

	done := anim.Update(0.5)
	if !done {
		t.Error("should be done after full duration elapses")
	}
	if n.X != 100 || n.Y != 50 {
		t.Errorf("final position = (%v, %v), want (100, 50)", n.X, n.Y)
	}
}

func TestTweenPositionMarksNodeDirty(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	n.updateType = 0

	anim := TweenPosition(n, 10, 10, 1.0, ease.Linear)
	anim.Update(0.1)

	if n.updateType&UpdateLocal == 0 || n.updateType&UpdateGlobal == 0 {
		t.Error("Update should mark UpdateLocal and UpdateGlobal dirty")
	}
}

func TestTweenScale(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})

	anim := TweenScale(n, 2.0, 2.0, 1.0, ease.Linear)
	anim.Update(1.0)

	if n.ScaleX != 2.0 || n.ScaleY != 2.0 {
		t.Errorf("scale = (%v, %v), want (2, 2)", n.ScaleX, n.ScaleY)
	}
}

func TestTweenAlpha(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	n.Alpha = 1.0

	anim := TweenAlpha(n, 0.0, 1.0, ease.Linear)
	done := anim.Update(1.0)

	if !done {
		t.Error("should be done after full duration")
	}
	if n.Alpha != 0 {
		t.Errorf("Alpha = %v, want 0", n.Alpha)
	}
}

func TestTweenRotation(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	n.Rotation = 0

	anim := TweenRotation(n, 3.14159, 1.0, ease.Linear)
	anim.Update(1.0)

	if n.Rotation < 3.14 || n.Rotation > 3.15 {
		t.Errorf("Rotation = %v, want ~3.14159", n.Rotation)
	}
}

func TestTweenColorMovesTopLeftCorner(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	n.Colors = SolidCornerColors(Color{R: 0, G: 0, B: 0, A: 1})

	anim := TweenColor(n, Color{R: 1, G: 1, B: 1, A: 1}, 1.0, ease.Linear)
	anim.Update(1.0)

	if n.Colors.TL.R != 1 || n.Colors.TL.G != 1 || n.Colors.TL.B != 1 {
		t.Errorf("TL = %+v, want all-white", n.Colors.TL)
	}
}

func TestAnimatorStopsOnDestroyedTarget(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	anim := TweenPosition(n, 100, 100, 1.0, ease.Linear)

	n.Destroy(nil)

	done := anim.Update(0.1)
	if !done {
		t.Error("animator targeting a destroyed node should report done immediately")
	}
	if n.X != 0 {
		t.Errorf("X should be untouched after target destroyed, got %v", n.X)
	}
}

func TestAnimatorRepeatedCallsAfterDoneStayDone(t *testing.T) {
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 10, Height: 10})
	anim := TweenAlpha(n, 0.0, 0.25, ease.Linear)

	anim.Update(1.0)
	done := anim.Update(1.0)
	if !done {
		t.Error("calling Update again after finishing should keep reporting done")
	}
}

// customAnimator exercises the Animator seam with a type the engine
// itself never constructs, confirming nothing in the tree depends on
// the concrete gweenAnimator type.
type customAnimator struct {
	calls int
}

func (c *customAnimator) Update(dt float32) bool {
	c.calls++
	return c.calls >= 3
}

func TestCustomAnimatorImplementsInterface(t *testing.T) {
	var a Animator = &customAnimator{}
	a.Update(0.1)
	a.Update(0.1)
	if done := a.Update(0.1); !done {
		t.Error("custom animator should report done on third call")
	}
}
