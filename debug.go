package scenic

import (
	"fmt"
	"os"
	"time"
)

// debugEnabled gates the stage-timing log lines and the tree-depth/
// child-count sanity warnings below. NewEngine sets it from
// EngineOptions.Debug; it is intentionally a package-level switch
// rather than a per-node field, since the teacher's own debug mode was
// a single Scene-wide flag, not something individual nodes opted into.
var debugEnabled bool

// FrameStats holds one frame's stage timings and op counts, filled in
// by Engine.Frame when debugEnabled is true. Grounded on the teacher's
// debugStats (debug.go), retargeted at this engine's three pipeline
// stages (traverse / RTT-and-screen batch / submit) instead of the
// teacher's traverse/sort/batch/submit split, since traverse.go folds
// sorting into the same dirty-bit pass.
type FrameStats struct {
	TraverseTime time.Duration
	BatchTime    time.Duration
	SubmitTime   time.Duration
	OpCount      int
	QuadCount    int
}

// LogFrameStats prints stage timings and op/quad counts to stderr. No-op
// unless debugEnabled (set via EngineOptions.Debug).
func LogFrameStats(stats FrameStats) {
	if !debugEnabled {
		return
	}
	total := stats.TraverseTime + stats.BatchTime + stats.SubmitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[scenic] traverse: %v | batch: %v | submit: %v | total: %v\n",
		stats.TraverseTime, stats.BatchTime, stats.SubmitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[scenic] ops: %d | quads: %d\n", stats.OpCount, stats.QuadCount)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed
// node is used in a tree operation. Callers always invoke it; it returns
// at once unless debugEnabled is set.
func debugCheckDestroyed(n *Node, op string) {
	if !debugEnabled {
		return
	}
	if n.IsDestroyed() {
		panic(fmt.Sprintf("scenic debug: %s on destroyed node (id %d)", op, n.ID))
	}
}

// debugMaxTreeDepth is the depth past which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns on stderr if n's ancestor chain exceeds
// debugMaxTreeDepth. No-op unless debugEnabled.
func debugCheckTreeDepth(n *Node) {
	if !debugEnabled {
		return
	}
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[scenic] warning: tree depth %d exceeds %d (node id %d)\n",
			depth, debugMaxTreeDepth, n.ID)
	}
}

// debugMaxChildCount is the child count past which debugCheckChildCount warns.
const debugMaxChildCount = 1000

// debugCheckChildCount warns on stderr if n has more than
// debugMaxChildCount children. No-op unless debugEnabled.
func debugCheckChildCount(n *Node) {
	if !debugEnabled {
		return
	}
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[scenic] warning: node id %d has %d children (threshold %d)\n",
			n.ID, len(n.children), debugMaxChildCount)
	}
}
