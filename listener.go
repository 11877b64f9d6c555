package catkin

// EventListener receives events fired on the node it is registered with.
// Returning true marks the event handled; it does not stop propagation.
type EventListener interface {
	Handle(e Event) bool
}

type funcListener struct {
	fn func(Event) bool
}

func (l *funcListener) Handle(e Event) bool { return l.fn(e) }

// ListenerFunc adapts fn to an EventListener. Each call returns a distinct
// listener, so keep the result to remove it later.
func ListenerFunc(fn func(Event) bool) EventListener {
	if fn == nil {
		return nil
	}
	return &funcListener{fn: fn}
}

// Capability interfaces for InputListener. Coordinates are in the listener
// node's local space, except for the touch focus cancel touch up, which
// carries the raw cancel marker.

// TouchCapable receives press, drag and release.
type TouchCapable interface {
	// TouchDown returns true to handle the press and receive the rest of the
	// touch through touch focus.
	TouchDown(e *InputEvent, x, y float64, pointer int, button Button) bool
	TouchDragged(e *InputEvent, x, y float64, pointer int)
	TouchUp(e *InputEvent, x, y float64, pointer int, button Button)
}

// HoverCapable receives pointer movement without a press.
type HoverCapable interface {
	MouseMoved(e *InputEvent, x, y float64) bool
	// Enter is called when the pointer moves over the listener node or a
	// descendant. from is the node it left, possibly nil.
	Enter(e *InputEvent, x, y float64, pointer int, from *Node)
	// Exit is called when the pointer leaves. to is the node it moved to.
	Exit(e *InputEvent, x, y float64, pointer int, to *Node)
}

// KeyCapable receives keyboard events.
type KeyCapable interface {
	KeyDown(e *InputEvent, key Key) bool
	KeyUp(e *InputEvent, key Key) bool
	KeyTyped(e *InputEvent, ch rune) bool
}

// ScrollCapable receives wheel events.
type ScrollCapable interface {
	Scrolled(e *InputEvent, x, y, amountX, amountY float64) bool
}

// InputListener translates InputEvents into calls on whichever capability
// interfaces its handler implements. Other event types are ignored.
type InputListener struct {
	touch  TouchCapable
	hover  HoverCapable
	key    KeyCapable
	scroll ScrollCapable
}

// NewInputListener wraps h. h should implement at least one of TouchCapable,
// HoverCapable, KeyCapable or ScrollCapable.
func NewInputListener(h any) *InputListener {
	l := &InputListener{}
	l.touch, _ = h.(TouchCapable)
	l.hover, _ = h.(HoverCapable)
	l.key, _ = h.(KeyCapable)
	l.scroll, _ = h.(ScrollCapable)
	return l
}

// Handle implements EventListener.
func (l *InputListener) Handle(ev Event) bool {
	e, ok := ev.(*InputEvent)
	if !ok {
		return false
	}

	switch e.Type {
	case InputKeyDown:
		return l.key != nil && l.key.KeyDown(e, e.KeyCode)
	case InputKeyUp:
		return l.key != nil && l.key.KeyUp(e, e.KeyCode)
	case InputKeyTyped:
		return l.key != nil && l.key.KeyTyped(e, e.Character)
	}

	x, y := listenerCoords(e)
	switch e.Type {
	case InputTouchDown:
		return l.touch != nil && l.touch.TouchDown(e, x, y, e.Pointer, e.Button)
	case InputTouchUp:
		if l.touch == nil {
			return false
		}
		l.touch.TouchUp(e, x, y, e.Pointer, e.Button)
		return true
	case InputTouchDragged:
		if l.touch == nil {
			return false
		}
		l.touch.TouchDragged(e, x, y, e.Pointer)
		return true
	case InputMouseMoved:
		return l.hover != nil && l.hover.MouseMoved(e, x, y)
	case InputScrolled:
		return l.scroll != nil && l.scroll.Scrolled(e, x, y, e.ScrollAmountX, e.ScrollAmountY)
	case InputEnter:
		if l.hover != nil {
			l.hover.Enter(e, x, y, e.Pointer, e.RelatedNode)
		}
	case InputExit:
		if l.hover != nil {
			l.hover.Exit(e, x, y, e.Pointer, e.RelatedNode)
		}
	}
	return false
}

// listenerCoords returns e's position in the listener node's space.
func listenerCoords(e *InputEvent) (float64, float64) {
	if e.IsTouchFocusCancel() || e.ListenerNode() == nil {
		return e.StageX, e.StageY
	}
	return e.ToCoordinates(e.ListenerNode())
}

// InputFuncs implements every capability interface with optional callbacks.
// Nil callbacks do nothing and report false.
type InputFuncs struct {
	OnTouchDown    func(e *InputEvent, x, y float64, pointer int, button Button) bool
	OnTouchDragged func(e *InputEvent, x, y float64, pointer int)
	OnTouchUp      func(e *InputEvent, x, y float64, pointer int, button Button)
	OnMouseMoved   func(e *InputEvent, x, y float64) bool
	OnEnter        func(e *InputEvent, x, y float64, pointer int, from *Node)
	OnExit         func(e *InputEvent, x, y float64, pointer int, to *Node)
	OnKeyDown      func(e *InputEvent, key Key) bool
	OnKeyUp        func(e *InputEvent, key Key) bool
	OnKeyTyped     func(e *InputEvent, ch rune) bool
	OnScrolled     func(e *InputEvent, x, y, amountX, amountY float64) bool
}

func (f *InputFuncs) TouchDown(e *InputEvent, x, y float64, pointer int, button Button) bool {
	return f.OnTouchDown != nil && f.OnTouchDown(e, x, y, pointer, button)
}

func (f *InputFuncs) TouchDragged(e *InputEvent, x, y float64, pointer int) {
	if f.OnTouchDragged != nil {
		f.OnTouchDragged(e, x, y, pointer)
	}
}

func (f *InputFuncs) TouchUp(e *InputEvent, x, y float64, pointer int, button Button) {
	if f.OnTouchUp != nil {
		f.OnTouchUp(e, x, y, pointer, button)
	}
}

func (f *InputFuncs) MouseMoved(e *InputEvent, x, y float64) bool {
	return f.OnMouseMoved != nil && f.OnMouseMoved(e, x, y)
}

func (f *InputFuncs) Enter(e *InputEvent, x, y float64, pointer int, from *Node) {
	if f.OnEnter != nil {
		f.OnEnter(e, x, y, pointer, from)
	}
}

func (f *InputFuncs) Exit(e *InputEvent, x, y float64, pointer int, to *Node) {
	if f.OnExit != nil {
		f.OnExit(e, x, y, pointer, to)
	}
}

func (f *InputFuncs) KeyDown(e *InputEvent, key Key) bool {
	return f.OnKeyDown != nil && f.OnKeyDown(e, key)
}

func (f *InputFuncs) KeyUp(e *InputEvent, key Key) bool {
	return f.OnKeyUp != nil && f.OnKeyUp(e, key)
}

func (f *InputFuncs) KeyTyped(e *InputEvent, ch rune) bool {
	return f.OnKeyTyped != nil && f.OnKeyTyped(e, ch)
}

func (f *InputFuncs) Scrolled(e *InputEvent, x, y, amountX, amountY float64) bool {
	return f.OnScrolled != nil && f.OnScrolled(e, x, y, amountX, amountY)
}
