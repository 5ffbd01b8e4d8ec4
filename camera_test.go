package scenic

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const cameraEpsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestNewCameraDefaults(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	cam := NewCamera(vp)

	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %v, want 1.0", cam.Zoom)
	}
	if cam.Viewport != vp {
		t.Errorf("Viewport = %+v, want %+v", cam.Viewport, vp)
	}
	if cam.BoundsEnabled {
		t.Error("BoundsEnabled should default to false")
	}
}

func TestCameraWorldToScreenIdentity(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	cam := NewCamera(vp)

	sx, sy := cam.WorldToScreen(0, 0)
	if !approxEqual(sx, 960, cameraEpsilon) || !approxEqual(sy, 540, cameraEpsilon) {
		t.Errorf("WorldToScreen(0,0) = (%v, %v), want viewport center (960, 540)", sx, sy)
	}
}

func TestCameraWorldToScreenRoundTrip(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	cam := NewCamera(vp)
	cam.X, cam.Y = 100, 200
	cam.Zoom = 2.0
	cam.MarkDirty()

	sx, sy := cam.WorldToScreen(50, 75)
	wx, wy := cam.ScreenToWorld(sx, sy)

	if !approxEqual(wx, 50, cameraEpsilon) || !approxEqual(wy, 75, cameraEpsilon) {
		t.Errorf("round trip = (%v, %v), want (50, 75)", wx, wy)
	}
}

func TestCameraZoomAffectsScreenDistance(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	cam := NewCamera(vp)
	cam.Zoom = 1.0

	sx1, _ := cam.WorldToScreen(100, 0)
	cam.Zoom = 2.0
	cam.MarkDirty()
	sx2, _ := cam.WorldToScreen(100, 0)

	d1 := math.Abs(sx1 - 960)
	d2 := math.Abs(sx2 - 960)
	if d2 <= d1 {
		t.Errorf("doubling zoom should double screen distance from center: d1=%v d2=%v", d1, d2)
	}
}

func TestCameraFollowLerpsTowardTarget(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	cam := NewCamera(vp)

	q := NewEventQueue()
	target := NewNode(q, NodeConfig{Width: 10, Height: 10})
	target.X, target.Y = 500, 500
	target.worldTransform = AffineTransform{1, 0, 0, 1, 500, 500}

	cam.Follow(target, 0, 0, 0.5)
	cam.Update(1.0 / 60)

	if cam.X <= 0 || cam.X >= 500 {
		t.Errorf("camera X = %v, expected partial progress toward 500", cam.X)
	}
}

func TestCameraFollowSnapsWithLerpOne(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	cam := NewCamera(vp)

	q := NewEventQueue()
	target := NewNode(q, NodeConfig{Width: 10, Height: 10})
	target.X, target.Y = 300, 150
	target.worldTransform = AffineTransform{1, 0, 0, 1, 300, 150}

	cam.Follow(target, 0, 0, 1.0)
	cam.Update(1.0 / 60)

	if !approxEqual(cam.X, 300, 0.01) || !approxEqual(cam.Y, 150, 0.01) {
		t.Errorf("camera should snap to (300, 150), got (%v, %v)", cam.X, cam.Y)
	}
}

func TestCameraUnfollowStopsTracking(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	cam := NewCamera(vp)

	q := NewEventQueue()
	target := NewNode(q, NodeConfig{Width: 10, Height: 10})
	target.X, target.Y = 300, 150
	target.worldTransform = AffineTransform{1, 0, 0, 1, 300, 150}

	cam.Follow(target, 0, 0, 1.0)
	cam.Update(1.0 / 60)
	cam.Unfollow()

	target.X, target.Y = 900, 900
	target.worldTransform = AffineTransform{1, 0, 0, 1, 900, 900}
	cam.Update(1.0 / 60)

	if approxEqual(cam.X, 900, 1) {
		t.Error("camera should not keep tracking target after Unfollow")
	}
}

func TestCameraScrollToAnimates(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	cam := NewCamera(vp)
	cam.X, cam.Y = 0, 0

	cam.ScrollTo(100, 0, 1.0, ease.Linear)
	cam.Update(0.5)

	if cam.X < 45 || cam.X > 55 {
		t.Errorf("X at midpoint of scroll = %v, want ~50", cam.X)
	}

	cam.Update(0.5)
	if !approxEqual(cam.X, 100, 0.1) {
		t.Errorf("X after full scroll = %v, want ~100", cam.X)
	}
}

func TestCameraScrollToTile(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	cam := NewCamera(vp)

	cam.ScrollToTile(2, 3, 64, 64, 0, ease.Linear)
	cam.Update(0)

	wantX := 2*64 + 32.0
	wantY := 3*64 + 32.0
	if !approxEqual(cam.X, wantX, 1) || !approxEqual(cam.Y, wantY, 1) {
		t.Errorf("camera = (%v, %v), want (%v, %v)", cam.X, cam.Y, wantX, wantY)
	}
}

func TestCameraBoundsClamping(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	cam := NewCamera(vp)
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 200, Height: 200})

	cam.X, cam.Y = -500, -500
	cam.ClampToBounds()

	if cam.X < 0 || cam.Y < 0 {
		t.Errorf("camera should be clamped within bounds, got (%v, %v)", cam.X, cam.Y)
	}
}

func TestCameraClearBoundsDisablesClamping(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	cam := NewCamera(vp)
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 200, Height: 200})
	cam.ClearBounds()

	cam.X, cam.Y = -500, -500
	cam.ClampToBounds() // no-op since BoundsEnabled is false

	if cam.X != -500 || cam.Y != -500 {
		t.Errorf("camera should not be clamped after ClearBounds, got (%v, %v)", cam.X, cam.Y)
	}
}

func TestCameraVisibleBounds(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 200, Height: 100}
	cam := NewCamera(vp)
	cam.X, cam.Y = 50, 50
	cam.MarkDirty()

	vb := cam.VisibleBounds()
	if !approxEqual(vb.Width, 200, 1) || !approxEqual(vb.Height, 100, 1) {
		t.Errorf("VisibleBounds size = (%v, %v), want (200, 100)", vb.Width, vb.Height)
	}
	if !approxEqual(vb.X, -50, 1) || !approxEqual(vb.Y, 0, 1) {
		t.Errorf("VisibleBounds origin = (%v, %v), want (-50, 0)", vb.X, vb.Y)
	}
}

func TestCameraMarkDirtyForcesRecompute(t *testing.T) {
	vp := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	cam := NewCamera(vp)
	cam.computeViewMatrix()

	cam.X = 1000
	cam.MarkDirty()
	m := cam.computeViewMatrix()

	sx, _ := TransformPoint(m, 1000, 0)
	if !approxEqual(sx, 960, 1) {
		t.Errorf("after MarkDirty and moving camera to target X, screen x should recenter to 960, got %v", sx)
	}
}
