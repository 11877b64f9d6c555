package catkin

// FocusListener reacts to FocusEvents fired on its node or, through
// bubbling, its descendants.
type FocusListener struct {
	OnKeyboardFocusChanged func(e *FocusEvent, n *Node, focused bool)
	OnScrollFocusChanged   func(e *FocusEvent, n *Node, focused bool)
}

// Handle implements EventListener. It never handles the event, so focus
// changes keep propagating.
func (l *FocusListener) Handle(ev Event) bool {
	e, ok := ev.(*FocusEvent)
	if !ok {
		return false
	}
	switch e.Type {
	case FocusKeyboard:
		if l.OnKeyboardFocusChanged != nil {
			l.OnKeyboardFocusChanged(e, e.Target(), e.Focused)
		}
	case FocusScroll:
		if l.OnScrollFocusChanged != nil {
			l.OnScrollFocusChanged(e, e.Target(), e.Focused)
		}
	}
	return false
}

// ChangeListener reacts to ChangeEvents. OnChanged may call e.Cancel to
// make the firing node revert the change.
type ChangeListener struct {
	OnChanged func(e *ChangeEvent, n *Node)
}

// Handle implements EventListener.
func (l *ChangeListener) Handle(ev Event) bool {
	e, ok := ev.(*ChangeEvent)
	if !ok || l.OnChanged == nil {
		return false
	}
	l.OnChanged(e, e.Target())
	return false
}

// Toggle is a checkable element: clicking its node flips the checked state
// and fires a ChangeEvent. A cancelled ChangeEvent reverts the flip.
type Toggle struct {
	Node *Node

	// Disabled toggles ignore clicks. SetChecked still works.
	Disabled bool

	// ProgrammaticChangeEvents controls whether SetChecked fires
	// ChangeEvents. Clicks always do.
	ProgrammaticChangeEvents bool

	checked bool
	click   *ClickListener
}

// NewToggle creates a toggle over a w×h node.
func NewToggle(name string, w, h float64) *Toggle {
	t := &Toggle{
		Node:                     NewSizedNode(name, w, h),
		ProgrammaticChangeEvents: true,
	}
	t.click = NewClickListener(func(e *InputEvent, x, y float64) {
		if t.Disabled {
			return
		}
		t.setChecked(!t.checked, true)
	})
	if err := t.Node.AddListener(t.click); err != nil {
		panic("catkin: " + err.Error())
	}
	return t
}

// IsChecked reports the checked state.
func (t *Toggle) IsChecked() bool { return t.checked }

// SetChecked sets the checked state. It reports whether the state is now
// checked; a cancelled ChangeEvent leaves it unchanged.
func (t *Toggle) SetChecked(checked bool) bool {
	return t.setChecked(checked, t.ProgrammaticChangeEvents)
}

// Toggle flips the checked state.
func (t *Toggle) Toggle() bool {
	return t.SetChecked(!t.checked)
}

func (t *Toggle) setChecked(checked, fire bool) bool {
	if t.checked == checked {
		return t.checked
	}
	t.checked = checked
	if fire && FireChange(t.Node) {
		t.checked = !checked
	}
	return t.checked
}

// ClickListener returns the listener that flips the toggle.
func (t *Toggle) ClickListener() *ClickListener { return t.click }
