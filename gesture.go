package catkin

// GestureHandler receives gestures classified by a GestureClassifier.
// Coordinates are in whatever space the classifier was fed. Return values
// report whether the gesture was consumed; only LongPress changes the
// classifier's behavior (see GestureClassifier).
type GestureHandler interface {
	TouchDown(x, y float64, pointer int, button Button) bool
	Tap(x, y float64, count int, button Button) bool
	LongPress(x, y float64) bool
	Fling(velocityX, velocityY float64, button Button) bool
	Pan(x, y, deltaX, deltaY float64) bool
	PanStop(x, y float64, pointer int, button Button) bool
	Zoom(initialDistance, distance float64) bool
	Pinch(initialPointer1, initialPointer2, pointer1, pointer2 Vec2) bool
	PinchStop()
}

// NopGestureHandler consumes nothing. Embed it to implement only some
// GestureHandler methods.
type NopGestureHandler struct{}

func (NopGestureHandler) TouchDown(x, y float64, pointer int, button Button) bool { return false }
func (NopGestureHandler) Tap(x, y float64, count int, button Button) bool         { return false }
func (NopGestureHandler) LongPress(x, y float64) bool                             { return false }
func (NopGestureHandler) Fling(velocityX, velocityY float64, button Button) bool  { return false }
func (NopGestureHandler) Pan(x, y, deltaX, deltaY float64) bool                   { return false }
func (NopGestureHandler) PanStop(x, y float64, pointer int, button Button) bool   { return false }
func (NopGestureHandler) Zoom(initialDistance, distance float64) bool             { return false }
func (NopGestureHandler) Pinch(i1, i2, p1, p2 Vec2) bool                          { return false }
func (NopGestureHandler) PinchStop()                                              {}

// gesturePhase is the classifier's position in the touch state machine.
type gesturePhase uint8

const (
	phaseIdle gesturePhase = iota
	phaseTapCandidate
	phasePanning
	phasePinching
)

func (p gesturePhase) String() string {
	switch p {
	case phaseTapCandidate:
		return "tapCandidate"
	case phasePanning:
		return "panning"
	case phasePinching:
		return "pinching"
	default:
		return "idle"
	}
}

// gesturePointers is the number of contacts a classifier tracks: the
// gesture pointer and one pinch partner.
const gesturePointers = 2

// GestureClassifier turns touch down, drag and up samples for pointers 0 and
// 1 into taps, long presses, flings, pans and pinch/zoom gestures.
//
// A press that stays inside the tap rectangle and is released is a tap;
// consecutive taps with the same button and pointer, close in time and
// position, increment the tap count. Holding past the long-press delay
// fires LongPress from the scheduler; if the handler returns true, the rest
// of that touch is ignored. Leaving the tap rectangle starts a pan, and
// releasing shortly after the last drag flings. A second contact switches to
// pinching until either contact lifts.
//
// Configuration changes take effect when the next gesture starts.
type GestureClassifier struct {
	handler   GestureHandler
	scheduler Scheduler

	config GestureConfig // pending; copied into active on touch down
	active GestureConfig

	tracker VelocityTracker

	pointer1, pointer2               Vec2
	initialPointer1, initialPointer2 Vec2
	down                             [gesturePointers]bool

	phase          gesturePhase
	longPressFired bool
	longPressTask  *Task

	tapCenterX, tapCenterY float64
	tapCount               int
	lastTapNanos           int64
	lastTapX, lastTapY     float64
	lastTapButton          Button
	lastTapPointer         int

	gestureStartNanos int64

	debug bool
}

// NewGestureClassifier creates a classifier with DefaultGestureConfig.
// Long presses are scheduled on s; a nil scheduler disables them.
func NewGestureClassifier(h GestureHandler, s Scheduler) *GestureClassifier {
	if h == nil {
		h = NopGestureHandler{}
	}
	cfg := DefaultGestureConfig()
	return &GestureClassifier{
		handler:        h,
		scheduler:      s,
		config:         cfg,
		active:         cfg,
		lastTapPointer: -1,
		lastTapButton:  ButtonNone,
	}
}

// Handler returns the gesture handler.
func (c *GestureClassifier) Handler() GestureHandler { return c.handler }

// SetHandler replaces the gesture handler.
func (c *GestureClassifier) SetHandler(h GestureHandler) {
	if h == nil {
		h = NopGestureHandler{}
	}
	c.handler = h
}

// SetScheduler replaces the long-press scheduler. A pending long press on
// the old scheduler is cancelled.
func (c *GestureClassifier) SetScheduler(s Scheduler) {
	c.longPressTask.Cancel()
	c.longPressTask = nil
	c.scheduler = s
}

// SetDebug turns on logging of recognized gestures. A GestureAdapter
// follows its stage's debug mode.
func (c *GestureClassifier) SetDebug(enabled bool) { c.debug = enabled }

// Config returns the configuration the next gesture will use.
func (c *GestureClassifier) Config() GestureConfig { return c.config }

// SetConfig replaces the configuration for subsequent gestures.
func (c *GestureClassifier) SetConfig(cfg GestureConfig) { c.config = cfg }

// SetTapRectangleSize sets the half width and half height of the tap rectangle.
func (c *GestureClassifier) SetTapRectangleSize(halfWidth, halfHeight float64) {
	c.config.TapHalfWidth = halfWidth
	c.config.TapHalfHeight = halfHeight
}

// SetTapCountInterval sets the maximum gap between taps that count together.
func (c *GestureClassifier) SetTapCountInterval(seconds float64) {
	c.config.TapCountInterval = seconds
}

// SetLongPressSeconds sets how long a press must be held to fire LongPress.
func (c *GestureClassifier) SetLongPressSeconds(seconds float64) {
	c.config.LongPressSeconds = seconds
}

// SetMaxFlingDelay sets how soon after the last drag a release must come to
// fling.
func (c *GestureClassifier) SetMaxFlingDelay(seconds float64) {
	c.config.MaxFlingDelay = seconds
}

// TouchDown feeds a press. It returns the handler's TouchDown result, or
// false for pointers other than 0 and 1.
func (c *GestureClassifier) TouchDown(x, y float64, pointer int, button Button, nanos int64) bool {
	if pointer < 0 || pointer >= gesturePointers {
		return false
	}
	c.down[pointer] = true

	if pointer == 0 {
		c.pointer1 = Vec2{x, y}
		c.gestureStartNanos = nanos
		c.tracker.Start(x, y, nanos)
		if c.down[1] {
			c.startPinch()
		} else {
			c.active = c.config
			c.phase = phaseTapCandidate
			c.longPressFired = false
			c.tapCenterX = x
			c.tapCenterY = y
			c.scheduleLongPress()
		}
	} else {
		c.pointer2 = Vec2{x, y}
		c.startPinch()
	}
	return c.handler.TouchDown(x, y, pointer, button)
}

func (c *GestureClassifier) startPinch() {
	c.phase = phasePinching
	c.initialPointer1 = c.pointer1
	c.initialPointer2 = c.pointer2
	c.longPressTask.Cancel()
	if c.debug {
		debugf("gesture: pinch start %v %v", c.pointer1, c.pointer2)
	}
}

func (c *GestureClassifier) scheduleLongPress() {
	if c.scheduler == nil || c.longPressTask.IsScheduled() {
		return
	}
	c.longPressTask = c.scheduler.Schedule(c.fireLongPress, c.active.LongPressSeconds)
}

// fireLongPress runs from the scheduler.
func (c *GestureClassifier) fireLongPress() {
	if c.longPressFired {
		return
	}
	c.longPressFired = c.handler.LongPress(c.pointer1.X, c.pointer1.Y)
	if c.debug {
		debugf("gesture: long press (%.1f, %.1f) consumed=%t", c.pointer1.X, c.pointer1.Y, c.longPressFired)
	}
}

// TouchDragged feeds a move of a pressed pointer.
func (c *GestureClassifier) TouchDragged(x, y float64, pointer int, nanos int64) bool {
	if pointer < 0 || pointer >= gesturePointers {
		return false
	}
	if c.longPressFired {
		return false
	}

	if pointer == 0 {
		c.pointer1 = Vec2{x, y}
	} else {
		c.pointer2 = Vec2{x, y}
	}

	if c.phase == phasePinching {
		pinched := c.handler.Pinch(c.initialPointer1, c.initialPointer2, c.pointer1, c.pointer2)
		zoomed := c.handler.Zoom(c.initialPointer1.Dst(c.initialPointer2), c.pointer1.Dst(c.pointer2))
		return pinched || zoomed
	}

	c.tracker.Update(x, y, nanos)

	if c.phase == phaseTapCandidate && !c.withinTapRectangle(x, y, c.tapCenterX, c.tapCenterY) {
		c.longPressTask.Cancel()
		c.phase = phasePanning
	}
	if c.phase != phasePanning {
		return false
	}
	dx, dy := c.tracker.Delta()
	return c.handler.Pan(x, y, dx, dy)
}

// TouchUp feeds a release.
func (c *GestureClassifier) TouchUp(x, y float64, pointer int, button Button, nanos int64) bool {
	if pointer < 0 || pointer >= gesturePointers {
		return false
	}
	c.down[pointer] = false

	if c.phase == phaseTapCandidate && !c.withinTapRectangle(x, y, c.tapCenterX, c.tapCenterY) {
		c.phase = phaseIdle
	}
	wasPanning := c.phase == phasePanning
	c.longPressTask.Cancel()

	if c.longPressFired {
		c.phase = phaseIdle
		c.gestureStartNanos = 0
		return false
	}

	switch c.phase {
	case phaseTapCandidate:
		c.phase = phaseIdle
		return c.tap(x, y, pointer, button, nanos)

	case phasePinching:
		c.handler.PinchStop()
		if c.debug {
			debugf("gesture: pinch stop")
		}
		// Pan again with whichever contact remains.
		c.phase = phasePanning
		if pointer == 0 {
			c.tracker.Start(c.pointer2.X, c.pointer2.Y, nanos)
		} else {
			c.tracker.Start(c.pointer1.X, c.pointer1.Y, nanos)
		}
		return false
	}

	c.phase = phaseIdle
	handled := false
	if wasPanning {
		handled = c.handler.PanStop(x, y, pointer, button)
	}
	if nanos-c.tracker.LastTime() <= secondsToNanos(c.active.MaxFlingDelay) {
		c.tracker.Update(x, y, nanos)
		vx, vy := c.tracker.Velocity()
		if c.debug {
			debugf("gesture: fling (%.1f, %.1f)", vx, vy)
		}
		handled = c.handler.Fling(vx, vy, button) || handled
	}
	c.gestureStartNanos = 0
	return handled
}

func (c *GestureClassifier) tap(x, y float64, pointer int, button Button, nanos int64) bool {
	if c.lastTapButton != button || c.lastTapPointer != pointer ||
		nanos-c.lastTapNanos > secondsToNanos(c.active.TapCountInterval) ||
		!c.withinTapRectangle(x, y, c.lastTapX, c.lastTapY) {
		c.tapCount = 0
	}
	c.tapCount++
	c.lastTapNanos = nanos
	c.lastTapX = x
	c.lastTapY = y
	c.lastTapButton = button
	c.lastTapPointer = pointer
	c.gestureStartNanos = 0
	if c.debug {
		debugf("gesture: tap (%.1f, %.1f) count=%d button=%s", x, y, c.tapCount, button)
	}
	return c.handler.Tap(x, y, c.tapCount, button)
}

func (c *GestureClassifier) withinTapRectangle(x, y, cx, cy float64) bool {
	dx := x - cx
	dy := y - cy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx < c.active.TapHalfWidth && dy < c.active.TapHalfHeight
}

// Cancel ends recognition of the current touch without reporting anything
// more for it. The next touch down starts fresh.
func (c *GestureClassifier) Cancel() {
	c.longPressTask.Cancel()
	c.longPressFired = true
}

// Reset abandons the in-flight gesture and forgets which pointers are down.
// The tap count survives, so a following tap can still coalesce.
func (c *GestureClassifier) Reset() {
	c.longPressTask.Cancel()
	c.gestureStartNanos = 0
	c.phase = phaseIdle
	c.down = [gesturePointers]bool{}
	c.tracker = VelocityTracker{}
}

// IsLongPressed reports whether the current press has been held longer than
// the long-press delay at time nanos.
func (c *GestureClassifier) IsLongPressed(nanos int64) bool {
	return c.IsLongPressedFor(c.active.LongPressSeconds, nanos)
}

// IsLongPressedFor reports whether the current press has been held longer
// than seconds at time nanos.
func (c *GestureClassifier) IsLongPressedFor(seconds float64, nanos int64) bool {
	if c.gestureStartNanos == 0 {
		return false
	}
	return nanos-c.gestureStartNanos > secondsToNanos(seconds)
}

// IsPanning reports whether the current touch is panning.
func (c *GestureClassifier) IsPanning() bool { return c.phase == phasePanning }

// IsPinching reports whether two contacts are pinching.
func (c *GestureClassifier) IsPinching() bool { return c.phase == phasePinching }

// TapCount returns the count reported with the most recent tap.
func (c *GestureClassifier) TapCount() int { return c.tapCount }

// Processor returns an InputProcessor feeding raw samples to c, so a
// classifier can sit in an InputMultiplexer ahead of a Stage.
func (c *GestureClassifier) Processor() InputProcessor {
	return gestureProcessor{c: c}
}

type gestureProcessor struct {
	InputAdapter
	c *GestureClassifier
}

func (p gestureProcessor) TouchDown(s Sample) bool {
	return p.c.TouchDown(s.X, s.Y, s.Pointer, s.Button, s.TimeNanos)
}

func (p gestureProcessor) TouchDragged(s Sample) bool {
	return p.c.TouchDragged(s.X, s.Y, s.Pointer, s.TimeNanos)
}

func (p gestureProcessor) TouchUp(s Sample) bool {
	return p.c.TouchUp(s.X, s.Y, s.Pointer, s.Button, s.TimeNanos)
}
