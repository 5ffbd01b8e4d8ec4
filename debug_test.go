package scenic

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestLogFrameStatsSilentWhenDisabled(t *testing.T) {
	debugEnabled = false

	out := captureStderr(t, func() {
		LogFrameStats(FrameStats{
			TraverseTime: time.Millisecond,
			BatchTime:    time.Millisecond,
			SubmitTime:   time.Millisecond,
			OpCount:      3,
			QuadCount:    12,
		})
	})

	if out != "" {
		t.Errorf("expected no stderr output with debug disabled, got: %q", out)
	}
}

func TestLogFrameStatsPrintsWhenEnabled(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	out := captureStderr(t, func() {
		LogFrameStats(FrameStats{
			TraverseTime: 2 * time.Millisecond,
			BatchTime:    3 * time.Millisecond,
			SubmitTime:   1 * time.Millisecond,
			OpCount:      7,
			QuadCount:    40,
		})
	})

	if !strings.Contains(out, "traverse:") || !strings.Contains(out, "batch:") || !strings.Contains(out, "submit:") {
		t.Errorf("expected stage timing labels in output, got: %q", out)
	}
	if !strings.Contains(out, "ops: 7") || !strings.Contains(out, "quads: 40") {
		t.Errorf("expected op/quad counts in output, got: %q", out)
	}
}

func TestDebugEnabledDefaultsFalse(t *testing.T) {
	// debugEnabled starts false unless some earlier test left it flipped;
	// every test above restores it, so a fresh run should see it off.
	if debugEnabled {
		t.Skip("debugEnabled left true by a concurrently run test")
	}
}

func TestDebugCheckDestroyedNoOpWithoutDebug(t *testing.T) {
	debugEnabled = false
	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 1, Height: 1})
	n.Destroy(nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("debugCheckDestroyed should no-op when debugEnabled is false, panicked with: %v", r)
		}
	}()
	debugCheckDestroyed(n, "test-op")
}

func TestDebugCheckDestroyedPanicsWithDebug(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	q := NewEventQueue()
	n := NewNode(q, NodeConfig{Width: 1, Height: 1})
	n.Destroy(nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "test-op") || !strings.Contains(msg, "destroyed") {
			t.Errorf("panic value = %v, want string mentioning op name and 'destroyed'", r)
		}
	}()
	debugCheckDestroyed(n, "test-op")
}

func TestDebugCheckTreeDepthSilentUnderThreshold(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	q := NewEventQueue()
	root := NewNode(q, NodeConfig{Width: 1, Height: 1})
	current := root
	for i := 0; i < debugMaxTreeDepth-2; i++ {
		child := NewNode(q, NodeConfig{Width: 1, Height: 1})
		current.AddChild(child)
		current = child
	}

	out := captureStderr(t, func() {
		debugCheckTreeDepth(current)
	})
	if out != "" {
		t.Errorf("expected no warning under threshold, got: %q", out)
	}
}

func TestDebugCheckChildCountSilentUnderThreshold(t *testing.T) {
	debugEnabled = true
	defer func() { debugEnabled = false }()

	q := NewEventQueue()
	parent := NewNode(q, NodeConfig{Width: 1, Height: 1})
	for i := 0; i < 5; i++ {
		parent.AddChild(NewNode(q, NodeConfig{Width: 1, Height: 1}))
	}

	out := captureStderr(t, func() {
		debugCheckChildCount(parent)
	})
	if out != "" {
		t.Errorf("expected no warning under threshold, got: %q", out)
	}
}
