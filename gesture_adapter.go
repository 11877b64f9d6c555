package catkin

// ElementGestures receives gestures recognized on a node, in that node's
// local coordinates. e is the input event that completed the gesture.
type ElementGestures interface {
	TouchDown(e *InputEvent, x, y float64, pointer int, button Button)
	TouchUp(e *InputEvent, x, y float64, pointer int, button Button)
	Tap(e *InputEvent, x, y float64, count int, button Button)
	// LongPress fires from the stage timer, so there is no event. Returning
	// true ends gesture recognition for the touch: no tap, pan or fling
	// follows it.
	LongPress(n *Node, x, y float64) bool
	Fling(e *InputEvent, velocityX, velocityY float64, button Button)
	Pan(e *InputEvent, x, y, deltaX, deltaY float64)
	PanStop(e *InputEvent, x, y float64, pointer int, button Button)
	Zoom(e *InputEvent, initialDistance, distance float64)
	Pinch(e *InputEvent, initialPointer1, initialPointer2, pointer1, pointer2 Vec2)
	PinchStop(e *InputEvent)
}

// NopElementGestures ignores every gesture. Embed it to implement only some
// ElementGestures methods.
type NopElementGestures struct{}

func (NopElementGestures) TouchDown(e *InputEvent, x, y float64, pointer int, button Button) {}
func (NopElementGestures) TouchUp(e *InputEvent, x, y float64, pointer int, button Button)   {}
func (NopElementGestures) Tap(e *InputEvent, x, y float64, count int, button Button)         {}
func (NopElementGestures) LongPress(n *Node, x, y float64) bool                              { return false }
func (NopElementGestures) Fling(e *InputEvent, vx, vy float64, button Button)                {}
func (NopElementGestures) Pan(e *InputEvent, x, y, deltaX, deltaY float64)                   {}
func (NopElementGestures) PanStop(e *InputEvent, x, y float64, pointer int, button Button)   {}
func (NopElementGestures) Zoom(e *InputEvent, initialDistance, distance float64)             {}
func (NopElementGestures) Pinch(e *InputEvent, i1, i2, p1, p2 Vec2)                          {}
func (NopElementGestures) PinchStop(e *InputEvent)                                           {}

// GestureAdapter is an EventListener that recognizes gestures on the node it
// is added to. It feeds touch events to a GestureClassifier in stage
// coordinates and converts the results into the node's local space. Deltas
// and velocities are converted as vectors, so the node's translation does
// not leak into them.
//
// Because it handles touch down, the adapter receives the rest of the touch
// through the stage's touch focus even after the pointer leaves the node.
type GestureAdapter struct {
	handler    ElementGestures
	classifier *GestureClassifier

	// UseStageConfig makes the classifier adopt the stage's gesture config
	// at each touch down. SetConfig turns it off.
	UseStageConfig bool

	event  *InputEvent
	node   *Node // listener node of the current touch
	target *Node // node hit by the touch down
	sched  Scheduler
}

// NewGestureAdapter creates an adapter reporting to h.
func NewGestureAdapter(h ElementGestures) *GestureAdapter {
	if h == nil {
		h = NopElementGestures{}
	}
	a := &GestureAdapter{handler: h, UseStageConfig: true}
	a.classifier = NewGestureClassifier(adapterGestures{a}, nil)
	return a
}

// Classifier returns the underlying classifier.
func (a *GestureAdapter) Classifier() *GestureClassifier {
	return a.classifier
}

// SetConfig gives the adapter its own gesture config, overriding the stage's.
func (a *GestureAdapter) SetConfig(cfg GestureConfig) {
	a.UseStageConfig = false
	a.classifier.SetConfig(cfg)
}

// Node returns the node the current or last touch was delivered to.
func (a *GestureAdapter) Node() *Node { return a.node }

// TouchDownTarget returns the node hit by the current or last touch down.
func (a *GestureAdapter) TouchDownTarget() *Node { return a.target }

// Handle implements EventListener.
func (a *GestureAdapter) Handle(ev Event) bool {
	e, ok := ev.(*InputEvent)
	if !ok {
		return false
	}
	switch e.Type {
	case InputTouchDown:
		a.node = e.ListenerNode()
		a.target = e.Target()
		a.bind(e.Stage())
		a.event = e
		a.classifier.TouchDown(e.StageX, e.StageY, e.Pointer, e.Button, e.TimeNanos)
		x, y := a.toLocal(e.StageX, e.StageY)
		a.handler.TouchDown(e, x, y, e.Pointer, e.Button)
		a.event = nil
		return true

	case InputTouchUp:
		if e.IsTouchFocusCancel() {
			a.classifier.Reset()
			return false
		}
		a.node = e.ListenerNode()
		a.event = e
		a.classifier.TouchUp(e.StageX, e.StageY, e.Pointer, e.Button, e.TimeNanos)
		x, y := a.toLocal(e.StageX, e.StageY)
		a.handler.TouchUp(e, x, y, e.Pointer, e.Button)
		a.event = nil
		return true

	case InputTouchDragged:
		a.node = e.ListenerNode()
		a.event = e
		a.classifier.TouchDragged(e.StageX, e.StageY, e.Pointer, e.TimeNanos)
		a.event = nil
		return true
	}
	return false
}

// bind points the classifier at the stage's timer and config.
func (a *GestureAdapter) bind(s *Stage) {
	if s == nil {
		return
	}
	if a.sched != Scheduler(s.timer) {
		a.sched = s.timer
		a.classifier.SetScheduler(s.timer)
	}
	if a.UseStageConfig {
		a.classifier.SetConfig(s.config.Gesture)
	}
	a.classifier.SetDebug(s.debug)
}

func (a *GestureAdapter) toLocal(x, y float64) (float64, float64) {
	if a.node == nil {
		return x, y
	}
	return a.node.StageToLocal(x, y)
}

func (a *GestureAdapter) toLocalVector(x, y float64) (float64, float64) {
	if a.node == nil {
		return x, y
	}
	return a.node.StageToLocalVector(x, y)
}

func (a *GestureAdapter) emit(ev GestureEvent) {
	if a.node == nil {
		return
	}
	a.node.Stage().emitGesture(a.node, ev)
}

// adapterGestures receives classifier output in stage space.
type adapterGestures struct {
	a *GestureAdapter
}

func (g adapterGestures) TouchDown(x, y float64, pointer int, button Button) bool {
	return false
}

func (g adapterGestures) Tap(x, y float64, count int, button Button) bool {
	lx, ly := g.a.toLocal(x, y)
	g.a.handler.Tap(g.a.event, lx, ly, count, button)
	g.a.emit(GestureEvent{Type: GestureTap, LocalX: lx, LocalY: ly, StageX: x, StageY: y, Count: count, Button: button})
	return true
}

func (g adapterGestures) LongPress(x, y float64) bool {
	lx, ly := g.a.toLocal(x, y)
	g.a.emit(GestureEvent{Type: GestureLongPress, LocalX: lx, LocalY: ly, StageX: x, StageY: y})
	return g.a.handler.LongPress(g.a.node, lx, ly)
}

func (g adapterGestures) Fling(vx, vy float64, button Button) bool {
	lvx, lvy := g.a.toLocalVector(vx, vy)
	g.a.handler.Fling(g.a.event, lvx, lvy, button)
	g.a.emit(GestureEvent{Type: GestureFling, DeltaX: lvx, DeltaY: lvy, Button: button})
	return true
}

func (g adapterGestures) Pan(x, y, dx, dy float64) bool {
	lx, ly := g.a.toLocal(x, y)
	ldx, ldy := g.a.toLocalVector(dx, dy)
	g.a.handler.Pan(g.a.event, lx, ly, ldx, ldy)
	g.a.emit(GestureEvent{Type: GesturePan, LocalX: lx, LocalY: ly, StageX: x, StageY: y, DeltaX: ldx, DeltaY: ldy})
	return true
}

func (g adapterGestures) PanStop(x, y float64, pointer int, button Button) bool {
	lx, ly := g.a.toLocal(x, y)
	g.a.handler.PanStop(g.a.event, lx, ly, pointer, button)
	g.a.emit(GestureEvent{Type: GesturePanStop, LocalX: lx, LocalY: ly, StageX: x, StageY: y, Pointer: pointer, Button: button})
	return true
}

func (g adapterGestures) Zoom(initialDistance, distance float64) bool {
	g.a.handler.Zoom(g.a.event, initialDistance, distance)
	g.a.emit(GestureEvent{Type: GestureZoom, InitialDistance: initialDistance, Distance: distance})
	return true
}

func (g adapterGestures) Pinch(i1, i2, p1, p2 Vec2) bool {
	var li1, li2, lp1, lp2 Vec2
	li1.X, li1.Y = g.a.toLocal(i1.X, i1.Y)
	li2.X, li2.Y = g.a.toLocal(i2.X, i2.Y)
	lp1.X, lp1.Y = g.a.toLocal(p1.X, p1.Y)
	lp2.X, lp2.Y = g.a.toLocal(p2.X, p2.Y)
	g.a.handler.Pinch(g.a.event, li1, li2, lp1, lp2)
	g.a.emit(GestureEvent{
		Type:            GesturePinch,
		InitialDistance: i1.Dst(i2),
		Distance:        p1.Dst(p2),
		StageX:          (p1.X + p2.X) / 2,
		StageY:          (p1.Y + p2.Y) / 2,
	})
	return true
}

func (g adapterGestures) PinchStop() {
	g.a.handler.PinchStop(g.a.event)
	g.a.emit(GestureEvent{Type: GesturePinchStop})
}
