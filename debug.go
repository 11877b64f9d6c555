package catkin

import (
	"fmt"
	"io"
	"os"
)

// debugOutput receives debug-mode diagnostics. Tests swap it for a buffer.
var debugOutput io.Writer = os.Stderr

// globalDebug mirrors the most recently set Stage debug flag so that node
// operations (which lack a Stage pointer) can check it cheaply. Gesture
// classifiers take the flag from their own stage instead. Only valid with a single Stage; multiple Stages with differing
// debug modes will reflect whichever called SetDebugMode last.
var globalDebug bool

// debugf prints one prefixed line to debugOutput.
func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(debugOutput, "[catkin] "+format+"\n", args...)
}

// reportError hands err to the stage's error hook, or logs it in debug mode
// when there is no stage.
func reportError(s *Stage, err error) {
	if s != nil {
		s.reportError(err)
		return
	}
	if globalDebug {
		debugf("error: %v", err)
	}
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("catkin debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugf("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugf("warning: node %q has %d children (threshold %d)", n.Name, len(n.children), debugMaxChildCount)
	}
}

// debugStats counts what a stage did with the samples of one frame.
// Only populated when the stage is in debug mode.
type debugStats struct {
	samples   int
	consumed  int
	fired     int
	focusHits int
}

func (s *Stage) debugLogFrame() {
	st := s.stats
	s.stats = debugStats{}
	if !s.debug || st.samples == 0 {
		return
	}
	debugf("samples: %d | consumed: %d | events fired: %d | touch focus deliveries: %d",
		st.samples, st.consumed, st.fired, st.focusHits)
}
