package catkin

import "sync"

// SampleKind identifies the raw input occurrence a Sample describes.
type SampleKind uint8

const (
	SampleTouchDown    SampleKind = iota // pointer pressed
	SampleTouchUp                        // pointer released
	SampleTouchDragged                   // pointer moved while pressed
	SampleMouseMoved                     // pointer moved with no button held
	SampleScrolled                       // wheel or trackpad scroll
	SampleKeyDown                        // key pressed
	SampleKeyUp                          // key released
	SampleKeyTyped                       // character produced
)

// String returns the sample kind name.
func (k SampleKind) String() string {
	switch k {
	case SampleTouchDown:
		return "touchDown"
	case SampleTouchUp:
		return "touchUp"
	case SampleTouchDragged:
		return "touchDragged"
	case SampleMouseMoved:
		return "mouseMoved"
	case SampleScrolled:
		return "scrolled"
	case SampleKeyDown:
		return "keyDown"
	case SampleKeyUp:
		return "keyUp"
	case SampleKeyTyped:
		return "keyTyped"
	default:
		return "unknown"
	}
}

// Sample is one raw input occurrence produced by a backend. Coordinates are
// screen pixels, origin top-left, Y down. Positive ScrollY scrolls down and
// positive ScrollX scrolls right. TimeNanos is a monotonic event clock with
// an undefined base.
type Sample struct {
	Kind      SampleKind
	X, Y      float64
	Pointer   int
	Button    Button
	Key       Key
	Char      rune
	ScrollX   float64
	ScrollY   float64
	TimeNanos int64
}

// InputProcessor consumes raw samples. Each method reports whether the
// sample was consumed. Embed InputAdapter to implement only some of them.
type InputProcessor interface {
	KeyDown(s Sample) bool
	KeyUp(s Sample) bool
	KeyTyped(s Sample) bool
	TouchDown(s Sample) bool
	TouchUp(s Sample) bool
	TouchDragged(s Sample) bool
	MouseMoved(s Sample) bool
	Scrolled(s Sample) bool
}

// InputAdapter is an InputProcessor that consumes nothing.
type InputAdapter struct{}

func (InputAdapter) KeyDown(Sample) bool      { return false }
func (InputAdapter) KeyUp(Sample) bool        { return false }
func (InputAdapter) KeyTyped(Sample) bool     { return false }
func (InputAdapter) TouchDown(Sample) bool    { return false }
func (InputAdapter) TouchUp(Sample) bool      { return false }
func (InputAdapter) TouchDragged(Sample) bool { return false }
func (InputAdapter) MouseMoved(Sample) bool   { return false }
func (InputAdapter) Scrolled(Sample) bool     { return false }

// DispatchSample routes s to the InputProcessor method matching its kind.
func DispatchSample(p InputProcessor, s Sample) bool {
	switch s.Kind {
	case SampleTouchDown:
		return p.TouchDown(s)
	case SampleTouchUp:
		return p.TouchUp(s)
	case SampleTouchDragged:
		return p.TouchDragged(s)
	case SampleMouseMoved:
		return p.MouseMoved(s)
	case SampleScrolled:
		return p.Scrolled(s)
	case SampleKeyDown:
		return p.KeyDown(s)
	case SampleKeyUp:
		return p.KeyUp(s)
	case SampleKeyTyped:
		return p.KeyTyped(s)
	}
	return false
}

// SampleSink receives samples from a backend. *SampleQueue is one.
type SampleSink interface {
	Push(s Sample)
}

// SampleQueue buffers samples produced on backend callback goroutines until
// the frame thread drains them. Push is safe for concurrent use; Drain must
// only be called from the frame thread.
type SampleQueue struct {
	mu      sync.Mutex
	pending []Sample
	work    []Sample
}

// Push appends a sample to the queue.
func (q *SampleQueue) Push(s Sample) {
	q.mu.Lock()
	q.pending = append(q.pending, s)
	q.mu.Unlock()
}

// Len returns the number of queued samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain delivers every queued sample to p in arrival order and returns how
// many were consumed. Samples pushed while draining wait for the next call.
func (q *SampleQueue) Drain(p InputProcessor) int {
	q.mu.Lock()
	q.work, q.pending = q.pending, q.work[:0]
	q.mu.Unlock()

	consumed := 0
	for i := range q.work {
		if DispatchSample(p, q.work[i]) {
			consumed++
		}
	}
	clear(q.work)
	q.work = q.work[:0]
	return consumed
}
