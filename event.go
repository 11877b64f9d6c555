package catkin

import "math"

// Event is anything that can be fired through the scene graph. Custom event
// types embed SceneEvent.
type Event interface {
	Base() *SceneEvent
}

// SceneEvent carries the propagation state shared by all events. Events are
// owned by a pool and reset before each use; listeners must not retain them
// after returning.
type SceneEvent struct {
	stage        *Stage
	target       *Node
	listenerNode *Node
	capture      bool
	bubbles      bool
	handled      bool
	stopped      bool
	cancelled    bool
}

// Base returns e. It satisfies Event for every type embedding SceneEvent.
func (e *SceneEvent) Base() *SceneEvent { return e }

// Reset restores the defaults: bubbling enabled, every other flag cleared,
// and no node references.
func (e *SceneEvent) Reset() {
	*e = SceneEvent{bubbles: true}
}

// Stage returns the stage the event was fired on, or nil.
func (e *SceneEvent) Stage() *Stage { return e.stage }

// Target returns the node the event was fired on.
func (e *SceneEvent) Target() *Node { return e.target }

// ListenerNode returns the node whose listener is currently being notified.
func (e *SceneEvent) ListenerNode() *Node { return e.listenerNode }

// IsCapture reports whether the current listener is a capture listener.
func (e *SceneEvent) IsCapture() bool { return e.capture }

// Bubbles reports whether the event continues to ancestors after the target.
func (e *SceneEvent) Bubbles() bool { return e.bubbles }

// SetBubbles enables or disables the bubble phase.
func (e *SceneEvent) SetBubbles(b bool) { e.bubbles = b }

// Handle marks the event as handled. Propagation continues.
func (e *SceneEvent) Handle() { e.handled = true }

// IsHandled reports whether any listener handled the event.
func (e *SceneEvent) IsHandled() bool { return e.handled }

// Stop ends propagation after the current node's listeners.
func (e *SceneEvent) Stop() { e.stopped = true }

// IsStopped reports whether propagation was stopped.
func (e *SceneEvent) IsStopped() bool { return e.stopped }

// Cancel stops and handles the event and asks the firing code to undo the
// action that triggered it. Firing code must check the result of Fire.
func (e *SceneEvent) Cancel() {
	e.cancelled = true
	e.stopped = true
	e.handled = true
}

// IsCancelled reports whether a listener cancelled the event.
func (e *SceneEvent) IsCancelled() bool { return e.cancelled }

// InputEventType identifies the kind of an InputEvent.
type InputEventType uint8

const (
	InputTouchDown    InputEventType = iota // pointer pressed over the target
	InputTouchUp                            // pointer released
	InputTouchDragged                       // pointer moved while pressed
	InputMouseMoved                         // pointer moved with no button held
	InputEnter                              // pointer moved over the target
	InputExit                               // pointer moved out of the target
	InputScrolled                           // wheel scrolled
	InputKeyDown                            // key pressed
	InputKeyUp                              // key released
	InputKeyTyped                           // character typed
)

// String returns the event type name.
func (t InputEventType) String() string {
	switch t {
	case InputTouchDown:
		return "touchDown"
	case InputTouchUp:
		return "touchUp"
	case InputTouchDragged:
		return "touchDragged"
	case InputMouseMoved:
		return "mouseMoved"
	case InputEnter:
		return "enter"
	case InputExit:
		return "exit"
	case InputScrolled:
		return "scrolled"
	case InputKeyDown:
		return "keyDown"
	case InputKeyUp:
		return "keyUp"
	case InputKeyTyped:
		return "keyTyped"
	default:
		return "unknown"
	}
}

// focusCancelCoord is the StageX/StageY value of a synthetic touch up sent to
// listeners whose touch focus was cancelled.
const focusCancelCoord = math.MinInt32

// InputEvent is a raw pointer or keyboard event routed through the scene.
type InputEvent struct {
	SceneEvent

	Type           InputEventType
	StageX, StageY float64
	Pointer        int
	Button         Button
	ScrollAmountX  float64
	ScrollAmountY  float64
	KeyCode        Key
	Character      rune
	Modifiers      KeyModifiers
	TimeNanos      int64

	// RelatedNode is the node the pointer came from (enter) or went to (exit).
	RelatedNode *Node

	noTouchFocus bool
}

// Reset restores the event to its pooled state.
func (e *InputEvent) Reset() {
	*e = InputEvent{}
	e.SceneEvent.Reset()
	e.Pointer = -1
	e.Button = ButtonNone
}

// TouchFocus reports whether a listener handling this touch down should
// receive the rest of the touch through the stage's touch focus.
func (e *InputEvent) TouchFocus() bool { return !e.noTouchFocus }

// SetTouchFocus controls touch focus registration for a touch down.
func (e *InputEvent) SetTouchFocus(focus bool) { e.noTouchFocus = !focus }

// IsTouchFocusCancel reports whether this is the synthetic touch up sent when
// touch focus is cancelled. Its coordinates are not a pointer position.
func (e *InputEvent) IsTouchFocusCancel() bool {
	return e.StageX == focusCancelCoord && e.StageY == focusCancelCoord
}

// ToCoordinates returns the event's stage position in n's local space.
func (e *InputEvent) ToCoordinates(n *Node) (x, y float64) {
	return n.StageToLocal(e.StageX, e.StageY)
}

// ChangeEvent is fired by a node whose value changed. Cancelling it asks the
// node to revert the change.
type ChangeEvent struct {
	SceneEvent
}

// Reset restores the event to its pooled state.
func (e *ChangeEvent) Reset() {
	e.SceneEvent.Reset()
}

// FocusType identifies which focus a FocusEvent reports.
type FocusType uint8

const (
	FocusKeyboard FocusType = iota // keyboard focus
	FocusScroll                    // scroll-wheel focus
)

// FocusEvent is fired on a node that gains or loses keyboard or scroll focus.
// Cancelling it prevents the focus change.
type FocusEvent struct {
	SceneEvent

	Type    FocusType
	Focused bool

	// RelatedNode is the node losing focus (when gaining) or gaining focus
	// (when losing). It may be nil.
	RelatedNode *Node
}

// Reset restores the event to its pooled state.
func (e *FocusEvent) Reset() {
	*e = FocusEvent{}
	e.SceneEvent.Reset()
}

// resettable constrains EventPool element pointers.
type resettable[T any] interface {
	*T
	Reset()
}

// defaultPoolMax bounds how many released events a pool keeps.
const defaultPoolMax = 64

// EventPool recycles events of one type. Acquire always returns a reset
// event; Release resets it again so pooled events hold no node references.
type EventPool[T any, P resettable[T]] struct {
	free []P
	max  int
}

// Acquire returns a reset event.
func (p *EventPool[T, P]) Acquire() P {
	var e P
	if n := len(p.free); n > 0 {
		e = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		e = P(new(T))
	}
	e.Reset()
	return e
}

// Release returns e to the pool. e must not be used afterwards.
func (p *EventPool[T, P]) Release(e P) {
	if e == nil {
		return
	}
	e.Reset()
	max := p.max
	if max <= 0 {
		max = defaultPoolMax
	}
	if len(p.free) < max {
		p.free = append(p.free, e)
	}
}

// Free returns the number of pooled events.
func (p *EventPool[T, P]) Free() int {
	return len(p.free)
}
