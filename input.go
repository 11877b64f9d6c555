package catkin

// --- Constants ---

// maxPointers bounds the pointer ids a stage tracks: 0 is the mouse or first
// touch, higher ids are further touches.
const maxPointers = 10

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Per-pointer state ---

type pointerState struct {
	touched bool
	x, y    float64 // last stage position
	over    *Node   // node under the pointer, for enter/exit
}

// --- Touch focus ---

// TouchFocus routes the drags and release of one pointer to the listener
// that handled its touch down, regardless of what is under the pointer.
type TouchFocus struct {
	Listener     EventListener
	ListenerNode *Node
	Target       *Node
	Pointer      int
	Button       Button
}

// AddTouchFocus routes the rest of a touch to listener. Node.Fire calls it
// for listeners that handle a touch down; call it directly only for touches
// a listener claims later.
func (s *Stage) AddTouchFocus(listener EventListener, listenerNode, target *Node, pointer int, button Button) {
	for i := 0; i < s.touchFocus.Len(); i++ {
		f := s.touchFocus.At(i)
		if f.Listener == listener && f.ListenerNode == listenerNode && f.Pointer == pointer && f.Button == button {
			return
		}
	}
	_ = s.touchFocus.Add(&TouchFocus{
		Listener:     listener,
		ListenerNode: listenerNode,
		Target:       target,
		Pointer:      pointer,
		Button:       button,
	})
}

// RemoveTouchFocus removes the matching entry without notifying its listener.
func (s *Stage) RemoveTouchFocus(listener EventListener, listenerNode, target *Node, pointer int, button Button) {
	for i := s.touchFocus.Len() - 1; i >= 0; i-- {
		f := s.touchFocus.At(i)
		if f.Listener == listener && f.ListenerNode == listenerNode && f.Target == target &&
			f.Pointer == pointer && f.Button == button {
			_, _ = s.touchFocus.RemoveAt(i)
		}
	}
}

// CancelTouchFocus removes every entry whose listener node is listenerNode,
// or every entry when listenerNode is nil, and sends each listener a touch
// up carrying the cancel marker (see InputEvent.IsTouchFocusCancel).
func (s *Stage) CancelTouchFocus(listenerNode *Node) {
	s.cancelTouchFocusWhere(func(f *TouchFocus) bool {
		return listenerNode == nil || f.ListenerNode == listenerNode
	})
}

// CancelTouchFocusExcept cancels every entry except those belonging to
// listener on listenerNode. Use it when a listener takes over a touch, such
// as a scroll pane that starts dragging.
func (s *Stage) CancelTouchFocusExcept(listener EventListener, listenerNode *Node) {
	s.cancelTouchFocusWhere(func(f *TouchFocus) bool {
		return f.Listener != listener || f.ListenerNode != listenerNode
	})
}

// TouchFocusCount returns the number of touch focus entries.
func (s *Stage) TouchFocusCount() int {
	return s.touchFocus.Len()
}

func (s *Stage) cancelTouchFocusWhere(match func(*TouchFocus) bool) {
	err := s.touchFocus.Notify(func(f *TouchFocus) {
		if !match(f) || !s.touchFocus.Remove(f) {
			return
		}
		e := s.NewInputEvent()
		e.Type = InputTouchUp
		e.StageX = focusCancelCoord
		e.StageY = focusCancelCoord
		e.Pointer = f.Pointer
		e.Button = f.Button
		e.Modifiers = s.mods
		e.TimeNanos = s.clock
		e.target = f.Target
		e.listenerNode = f.ListenerNode
		f.Listener.Handle(e)
		s.FreeInputEvent(e)
	})
	if err != nil {
		s.reportError(err)
	}
}

// deliverTouchFocus sends e to the focus entries for e.Pointer. On touch up
// the entries are removed before their listener runs.
func (s *Stage) deliverTouchFocus(e *InputEvent) {
	release := e.Type == InputTouchUp
	err := s.touchFocus.Notify(func(f *TouchFocus) {
		if f.Pointer != e.Pointer {
			return
		}
		if release {
			if f.Button != e.Button || !s.touchFocus.Remove(f) {
				return
			}
		} else if !s.touchFocus.Contains(f) {
			// Removed by an earlier listener in this pass.
			return
		}
		e.target = f.Target
		e.listenerNode = f.ListenerNode
		e.capture = false
		s.stats.focusHits++
		if f.Listener.Handle(e) {
			e.handled = true
		}
	})
	if err != nil {
		s.reportError(err)
	}
}

// --- Coordinates ---

// screenToStage converts sample coordinates through the stage camera.
func (s *Stage) screenToStage(x, y float64) (float64, float64) {
	if s.camera != nil {
		return s.camera.ScreenToWorld(x, y)
	}
	return x, y
}

// PointerPosition returns the last stage position of pointer.
func (s *Stage) PointerPosition(pointer int) (x, y float64) {
	if pointer < 0 || pointer >= maxPointers {
		return 0, 0
	}
	return s.pointers[pointer].x, s.pointers[pointer].y
}

// IsTouched reports whether pointer is currently pressed.
func (s *Stage) IsTouched(pointer int) bool {
	return pointer >= 0 && pointer < maxPointers && s.pointers[pointer].touched
}

// Modifiers returns the modifier keys currently held.
func (s *Stage) Modifiers() KeyModifiers {
	return s.mods
}

// --- InputProcessor ---

// fireInput fires a pooled InputEvent, filled by fill, on target and reports
// whether it was handled.
func (s *Stage) fireInput(target *Node, fill func(e *InputEvent)) bool {
	e := s.NewInputEvent()
	e.Modifiers = s.mods
	fill(e)
	e.target = target
	target.Fire(e)
	s.stats.fired++
	handled := e.IsHandled()
	s.FreeInputEvent(e)
	return handled
}

// TouchDown fires a touch down on the node under the pointer, or on the root
// when nothing is hit.
func (s *Stage) TouchDown(in Sample) bool {
	if in.Pointer < 0 || in.Pointer >= maxPointers {
		return false
	}
	s.stats.samples++
	x, y := s.screenToStage(in.X, in.Y)
	ps := &s.pointers[in.Pointer]
	ps.touched = true
	ps.x, ps.y = x, y
	s.updateOver(in.Pointer, x, y, in.TimeNanos)

	target := s.root.Hit(x, y)
	if target == nil {
		target = s.root
	}
	return s.fireInput(target, func(e *InputEvent) {
		e.Type = InputTouchDown
		e.StageX, e.StageY = x, y
		e.Pointer = in.Pointer
		e.Button = in.Button
		e.TimeNanos = in.TimeNanos
	})
}

// TouchDragged delivers the move to the pointer's touch focus.
func (s *Stage) TouchDragged(in Sample) bool {
	if in.Pointer < 0 || in.Pointer >= maxPointers {
		return false
	}
	s.stats.samples++
	x, y := s.screenToStage(in.X, in.Y)
	ps := &s.pointers[in.Pointer]
	ps.x, ps.y = x, y
	if in.Pointer == 0 {
		s.mouseX, s.mouseY = x, y
	}
	if s.touchFocus.Len() == 0 {
		return false
	}

	e := s.NewInputEvent()
	e.Type = InputTouchDragged
	e.StageX, e.StageY = x, y
	e.Pointer = in.Pointer
	e.Modifiers = s.mods
	e.TimeNanos = in.TimeNanos
	s.deliverTouchFocus(e)
	handled := e.IsHandled()
	s.FreeInputEvent(e)
	return handled
}

// TouchUp delivers the release to the pointer's touch focus and removes it.
func (s *Stage) TouchUp(in Sample) bool {
	if in.Pointer < 0 || in.Pointer >= maxPointers {
		return false
	}
	s.stats.samples++
	x, y := s.screenToStage(in.X, in.Y)
	ps := &s.pointers[in.Pointer]
	ps.touched = false
	ps.x, ps.y = x, y

	handled := false
	if s.touchFocus.Len() > 0 {
		e := s.NewInputEvent()
		e.Type = InputTouchUp
		e.StageX, e.StageY = x, y
		e.Pointer = in.Pointer
		e.Button = in.Button
		e.Modifiers = s.mods
		e.TimeNanos = in.TimeNanos
		s.deliverTouchFocus(e)
		handled = e.IsHandled()
		s.FreeInputEvent(e)
	}

	// A lifted touch is no longer over anything; the mouse still is.
	if in.Pointer > 0 {
		s.setOver(in.Pointer, nil, x, y, in.TimeNanos)
	}
	return handled
}

// MouseMoved fires enter/exit as the hovered node changes, then a mouse
// moved on the node under the pointer.
func (s *Stage) MouseMoved(in Sample) bool {
	s.stats.samples++
	x, y := s.screenToStage(in.X, in.Y)
	s.mouseX, s.mouseY = x, y
	s.pointers[0].x, s.pointers[0].y = x, y
	s.updateOver(0, x, y, in.TimeNanos)

	target := s.root.Hit(x, y)
	if target == nil {
		target = s.root
	}
	return s.fireInput(target, func(e *InputEvent) {
		e.Type = InputMouseMoved
		e.StageX, e.StageY = x, y
		e.Pointer = 0
		e.TimeNanos = in.TimeNanos
	})
}

// Scrolled fires on the scroll focus, or the root.
func (s *Stage) Scrolled(in Sample) bool {
	s.stats.samples++
	target := s.scrollFocus
	if target == nil {
		target = s.root
	}
	return s.fireInput(target, func(e *InputEvent) {
		e.Type = InputScrolled
		e.StageX, e.StageY = s.mouseX, s.mouseY
		e.ScrollAmountX = in.ScrollX
		e.ScrollAmountY = in.ScrollY
		e.TimeNanos = in.TimeNanos
	})
}

// KeyDown fires on the keyboard focus, or the root. Modifier keys update
// the stage's modifier state first.
func (s *Stage) KeyDown(in Sample) bool {
	s.stats.samples++
	s.mods |= in.Key.Modifier()
	return s.fireKey(InputKeyDown, in)
}

// KeyUp fires on the keyboard focus, or the root.
func (s *Stage) KeyUp(in Sample) bool {
	s.stats.samples++
	s.mods &^= in.Key.Modifier()
	return s.fireKey(InputKeyUp, in)
}

// KeyTyped fires on the keyboard focus, or the root.
func (s *Stage) KeyTyped(in Sample) bool {
	s.stats.samples++
	return s.fireKey(InputKeyTyped, in)
}

func (s *Stage) fireKey(t InputEventType, in Sample) bool {
	target := s.keyboardFocus
	if target == nil {
		target = s.root
	}
	return s.fireInput(target, func(e *InputEvent) {
		e.Type = t
		e.KeyCode = in.Key
		e.Character = in.Char
		e.TimeNanos = in.TimeNanos
	})
}

// updateOver fires exit on the previously hovered node and enter on the new
// one when the node under pointer changes.
func (s *Stage) updateOver(pointer int, x, y float64, nanos int64) {
	s.setOver(pointer, s.root.Hit(x, y), x, y, nanos)
}

// setOver makes over the node under pointer, firing exit and enter at the
// stage point (x, y). A nil over only exits.
func (s *Stage) setOver(pointer int, over *Node, x, y float64, nanos int64) {
	ps := &s.pointers[pointer]
	last := ps.over
	if over == last {
		return
	}
	ps.over = over
	if last != nil {
		s.fireInput(last, func(e *InputEvent) {
			e.Type = InputExit
			e.StageX, e.StageY = x, y
			e.Pointer = pointer
			e.RelatedNode = over
			e.TimeNanos = nanos
		})
	}
	if over != nil {
		s.fireInput(over, func(e *InputEvent) {
			e.Type = InputEnter
			e.StageX, e.StageY = x, y
			e.Pointer = pointer
			e.RelatedNode = last
			e.TimeNanos = nanos
		})
	}
}

// --- Keyboard and scroll focus ---

// KeyboardFocus returns the node receiving key events, or nil.
func (s *Stage) KeyboardFocus() *Node { return s.keyboardFocus }

// ScrollFocus returns the node receiving scroll events, or nil.
func (s *Stage) ScrollFocus() *Node { return s.scrollFocus }

// SetKeyboardFocus moves keyboard focus to n (nil clears it). The old and
// new holders receive FocusEvents; if either is cancelled the focus stays
// where it was and SetKeyboardFocus returns false.
func (s *Stage) SetKeyboardFocus(n *Node) bool {
	return s.setFocus(FocusKeyboard, &s.keyboardFocus, n)
}

// SetScrollFocus moves scroll focus to n. See SetKeyboardFocus.
func (s *Stage) SetScrollFocus(n *Node) bool {
	return s.setFocus(FocusScroll, &s.scrollFocus, n)
}

func (s *Stage) setFocus(t FocusType, holder **Node, n *Node) bool {
	old := *holder
	if old == n {
		return true
	}
	if old != nil && s.fireFocus(old, t, false, n) {
		return false
	}
	*holder = n
	if n != nil && s.fireFocus(n, t, true, old) {
		*holder = old
		return false
	}
	return true
}

// fireFocus reports whether the FocusEvent was cancelled.
func (s *Stage) fireFocus(n *Node, t FocusType, focused bool, related *Node) bool {
	e := s.focusEvents.Acquire()
	e.stage = s
	e.Type = t
	e.Focused = focused
	e.RelatedNode = related
	cancelled := n.Fire(e)
	s.focusEvents.Release(e)
	return cancelled
}

// Unfocus clears keyboard and scroll focus held by n or its descendants.
func (s *Stage) Unfocus(n *Node) {
	if s.keyboardFocus != nil && s.keyboardFocus.IsDescendantOf(n) {
		s.SetKeyboardFocus(nil)
	}
	if s.scrollFocus != nil && s.scrollFocus.IsDescendantOf(n) {
		s.SetScrollFocus(nil)
	}
}

// forgetSubtree drops every reference the stage holds into n's subtree
// before n is disposed.
func (s *Stage) forgetSubtree(n *Node) {
	s.cancelTouchFocusWhere(func(f *TouchFocus) bool {
		return f.ListenerNode.IsDescendantOf(n) || (f.Target != nil && f.Target.IsDescendantOf(n))
	})
	if s.keyboardFocus != nil && s.keyboardFocus.IsDescendantOf(n) {
		s.keyboardFocus = nil
	}
	if s.scrollFocus != nil && s.scrollFocus.IsDescendantOf(n) {
		s.scrollFocus = nil
	}
	for i := range s.pointers {
		if o := s.pointers[i].over; o != nil && o.IsDescendantOf(n) {
			s.pointers[i].over = nil
		}
	}
}
