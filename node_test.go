package scenic

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

func newTestNode(q *EventQueue) *Node {
	return NewNode(q, NodeConfig{Width: 10, Height: 10})
}

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if n.Colors.IsTransparent() {
		t.Error("default Colors should not be transparent (white)")
	}
	if n.IsDestroyed() {
		t.Error("fresh node should not be destroyed")
	}
	if n.updateType != UpdateAll {
		t.Errorf("updateType = %v, want UpdateAll", n.updateType)
	}
}

func TestNewNodeUniqueIDs(t *testing.T) {
	q := NewEventQueue()
	a := newTestNode(q)
	b := newTestNode(q)
	c := newTestNode(q)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

func TestNewNodeWithParent(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	child := NewNode(q, NodeConfig{Parent: parent, Width: 5, Height: 5})
	if child.Parent != parent {
		t.Error("child.Parent should be set via NodeConfig.Parent")
	}
	if len(parent.Children()) != 1 {
		t.Errorf("parent children = %d, want 1", len(parent.Children()))
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if len(parent.Children()) != 1 || parent.Children()[0] != child {
		t.Error("parent.Children() should contain child")
	}
}

func TestAddChildReparent(t *testing.T) {
	q := NewEventQueue()
	p1 := newTestNode(q)
	p2 := newTestNode(q)
	child := newTestNode(q)

	p1.AddChild(child)
	if len(p1.Children()) != 1 {
		t.Fatal("p1 should have 1 child")
	}

	p2.AddChild(child)
	if len(p1.Children()) != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if len(p2.Children()) != 1 {
		t.Error("p2 should have 1 child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	grandchild := newTestNode(q)
	parent.AddChild(child)
	child.AddChild(grandchild)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	grandchild.AddChild(parent)
}

func TestAddChildSelfPanics(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for self-add, got none")
		}
	}()
	n.AddChild(n)
}

func TestAddChildNilPanics(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	n.AddChild(nil)
}

func TestAddChildAt(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	a, b, c := newTestNode(q), newTestNode(q), newTestNode(q)
	parent.AddChild(a)
	parent.AddChild(c)
	parent.AddChildAt(b, 1)

	kids := parent.Children()
	if len(kids) != 3 || kids[0] != a || kids[1] != b || kids[2] != c {
		t.Error("children order should be [a, b, c]")
	}
}

func TestAddChildAtOutOfRangePanics(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range index, got none")
		}
	}()
	parent.AddChildAt(newTestNode(q), 5)
}

// --- RemoveChild / RemoveChildAt / RemoveFromParent / RemoveChildren ---

func TestRemoveChild(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	parent.AddChild(child)
	parent.RemoveChild(child)

	if len(parent.Children()) != 0 {
		t.Error("parent should have 0 children")
	}
	if child.Parent != nil {
		t.Error("child.Parent should be nil")
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	q := NewEventQueue()
	p1 := newTestNode(q)
	p2 := newTestNode(q)
	child := newTestNode(q)
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for wrong parent, got none")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveChildAt(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	a, b, c := newTestNode(q), newTestNode(q), newTestNode(q)
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	removed := parent.RemoveChildAt(1)
	if removed != b {
		t.Error("removed should be b")
	}
	kids := parent.Children()
	if len(kids) != 2 || kids[0] != a || kids[1] != c {
		t.Error("remaining children should be [a, c]")
	}
}

func TestRemoveFromParentNoOp(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	n.RemoveFromParent() // should not panic
	if n.Parent != nil {
		t.Error("Parent should remain nil")
	}
}

func TestRemoveChildren(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	a, b := newTestNode(q), newTestNode(q)
	parent.AddChild(a)
	parent.AddChild(b)
	parent.RemoveChildren()

	if len(parent.Children()) != 0 {
		t.Error("parent should have 0 children")
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("detached children should have nil Parent")
	}
}

// --- Destroy ---

func TestDestroyCascades(t *testing.T) {
	q := NewEventQueue()
	root := newTestNode(q)
	parent := newTestNode(q)
	child := newTestNode(q)
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Destroy(nil)

	if !parent.IsDestroyed() || !child.IsDestroyed() {
		t.Error("parent and child should both be destroyed")
	}
	if len(root.Children()) != 0 {
		t.Error("root should have 0 children after destroying parent")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	n.Destroy(nil)
	n.Destroy(nil) // should not panic
	if !n.IsDestroyed() {
		t.Error("should still be destroyed")
	}
}

// --- Dirty propagation ---

func TestAddChildMarksDirty(t *testing.T) {
	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	child.updateType = 0

	parent.AddChild(child)

	if child.updateType&UpdateAll != UpdateAll {
		t.Error("child should be fully dirty after AddChild")
	}
}

func TestAttachTextMarksIsRenderableDirty(t *testing.T) {
	q := NewEventQueue()
	n := newTestNode(q)
	n.updateType = 0
	registry := NewFontRegistry()
	ts := NewTextState(registry, TextParams{Text: "hi", FontFamily: "missing", FontSize: 16})

	n.AttachText(ts)

	if n.Text != ts {
		t.Error("AttachText should set n.Text")
	}
	if n.updateType&UpdateIsRenderable == 0 {
		t.Error("AttachText should mark UpdateIsRenderable dirty")
	}
}

// --- Debug-mode sanity checks ---

func TestDebugCheckDestroyedPanics(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	child.Destroy(nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with destroyed node, got none")
		}
		if !strings.Contains(fmt.Sprint(r), "destroyed") {
			t.Errorf("panic message should mention 'destroyed', got: %v", r)
		}
	}()
	parent.AddChild(child)
}

func TestDebugCheckDestroyedNoOpWhenDisabled(t *testing.T) {
	debugEnabled = false
	q := NewEventQueue()
	parent := newTestNode(q)
	child := newTestNode(q)
	child.Destroy(nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("should not panic with debug disabled, got: %v", r)
		}
	}()
	// AddChild still runs its own cycle/nil checks, but not the destroyed check.
	parent.AddChild(child)
}

func TestDebugCheckTreeDepthWarns(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	q := NewEventQueue()
	root := newTestNode(q)
	current := root
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := newTestNode(q)
		current.AddChild(child)
		current = child
	}

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", buf.String())
	}
}

func TestDebugCheckChildCountWarns(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	q := NewEventQueue()
	parent := newTestNode(q)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(newTestNode(q))
	}

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "children") {
		t.Errorf("expected child count warning in stderr, got: %q", buf.String())
	}
}
