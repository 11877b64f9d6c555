package catkin

// visualPressedSeconds is how long IsVisualPressed stays true after a quick
// click, so a tap is visible for at least a frame or two.
const visualPressedSeconds = 0.1

// ClickListener detects clicks: a press and release over the listener node
// with a matching button. Drags that leave the node cancel the click, and
// clicks in quick succession are counted.
type ClickListener struct {
	// Button is the button that clicks; ButtonNone accepts any.
	Button Button

	// OnClick is called with the release position in the listener node's
	// local space.
	OnClick func(e *InputEvent, x, y float64)

	// UseStageConfig reads tap square size and tap count interval from the
	// stage config at each press. SetConfig turns it off.
	UseStageConfig bool

	config ClickConfig

	pressed        bool
	over           bool
	cancelled      bool
	pressedPointer int
	pressedButton  Button
	touchDownX     float64
	touchDownY     float64
	tapCount       int
	lastTapNanos   int64
	hasTapped      bool
	visualUntil    int64

	input *InputListener
}

// NewClickListener creates a listener for left-button clicks.
func NewClickListener(onClick func(e *InputEvent, x, y float64)) *ClickListener {
	l := &ClickListener{
		Button:         ButtonLeft,
		OnClick:        onClick,
		UseStageConfig: true,
		config:         DefaultClickConfig(),
	}
	l.reset()
	return l
}

// SetConfig sets the listener's own thresholds.
func (l *ClickListener) SetConfig(cfg ClickConfig) {
	l.UseStageConfig = false
	l.config = cfg
}

// Config returns the thresholds used for the current press.
func (l *ClickListener) Config() ClickConfig { return l.config }

// Handle implements EventListener.
func (l *ClickListener) Handle(ev Event) bool {
	if l.input == nil {
		l.input = NewInputListener(l)
	}
	return l.input.Handle(ev)
}

func (l *ClickListener) TouchDown(e *InputEvent, x, y float64, pointer int, button Button) bool {
	if l.pressed {
		return false
	}
	if pointer == 0 && l.Button != ButtonNone && button != l.Button {
		return false
	}
	if l.UseStageConfig {
		if s := e.Stage(); s != nil {
			l.config = s.config.Click
		}
	}
	l.pressed = true
	l.pressedPointer = pointer
	l.pressedButton = button
	l.touchDownX = x
	l.touchDownY = y
	l.visualUntil = 0
	return true
}

func (l *ClickListener) TouchDragged(e *InputEvent, x, y float64, pointer int) {
	if pointer != l.pressedPointer || l.cancelled {
		return
	}
	l.pressed = l.isOverNode(e.ListenerNode(), x, y)
	if !l.pressed {
		l.InvalidateTapSquare()
	}
}

func (l *ClickListener) TouchUp(e *InputEvent, x, y float64, pointer int, button Button) {
	if pointer != l.pressedPointer {
		return
	}
	if !l.cancelled && !e.IsTouchFocusCancel() {
		over := l.isOverNode(e.ListenerNode(), x, y)
		if over && pointer == 0 && l.Button != ButtonNone && button != l.Button {
			over = false
		}
		if over {
			if !l.hasTapped || e.TimeNanos-l.lastTapNanos > secondsToNanos(l.config.TapCountInterval) {
				l.tapCount = 0
			}
			l.tapCount++
			l.lastTapNanos = e.TimeNanos
			l.hasTapped = true
			l.visualUntil = e.TimeNanos + secondsToNanos(visualPressedSeconds)
			if l.OnClick != nil {
				l.OnClick(e, x, y)
			}
		}
	}
	l.reset()
}

func (l *ClickListener) MouseMoved(e *InputEvent, x, y float64) bool { return false }

func (l *ClickListener) Enter(e *InputEvent, x, y float64, pointer int, from *Node) {
	if pointer == 0 && !l.cancelled {
		l.over = true
	}
}

func (l *ClickListener) Exit(e *InputEvent, x, y float64, pointer int, to *Node) {
	if pointer == 0 && !l.cancelled && (to == nil || !to.IsDescendantOf(e.ListenerNode())) {
		l.over = false
	}
}

func (l *ClickListener) reset() {
	l.pressed = false
	l.cancelled = false
	l.pressedPointer = -1
	l.pressedButton = ButtonNone
}

// Cancel abandons the current press so its release does not click.
func (l *ClickListener) Cancel() {
	if l.pressedPointer == -1 {
		return
	}
	l.cancelled = true
	l.pressed = false
}

// InvalidateTapSquare makes InTapSquare false until the next press.
func (l *ClickListener) InvalidateTapSquare() {
	l.touchDownX = -1
	l.touchDownY = -1
}

// InTapSquare reports whether (x, y) is still within the tap square around
// the press position.
func (l *ClickListener) InTapSquare(x, y float64) bool {
	if l.touchDownX == -1 && l.touchDownY == -1 {
		return false
	}
	return abs(x-l.touchDownX) < l.config.TapSquareSize && abs(y-l.touchDownY) < l.config.TapSquareSize
}

// isOverNode reports whether local point (x, y) hits n or a descendant, or
// is still inside the tap square.
func (l *ClickListener) isOverNode(n *Node, x, y float64) bool {
	if n != nil {
		sx, sy := n.LocalToStage(x, y)
		if hit := n.Hit(sx, sy); hit != nil && hit.IsDescendantOf(n) {
			return true
		}
	}
	return l.InTapSquare(x, y)
}

// IsPressed reports whether a press is in progress over the node.
func (l *ClickListener) IsPressed() bool { return l.pressed }

// IsOver reports whether the mouse hovers the node or a press is in progress.
func (l *ClickListener) IsOver() bool { return l.over || l.pressed }

// IsVisualPressed reports whether the node should look pressed at nanos:
// while pressed, and briefly after a click.
func (l *ClickListener) IsVisualPressed(nanos int64) bool {
	return l.pressed || nanos < l.visualUntil
}

// TapCount returns the number of clicks in the current multi-click run.
func (l *ClickListener) TapCount() int { return l.tapCount }

// SetTapCount overrides the click count, e.g. to reset it after a
// double-click was consumed.
func (l *ClickListener) SetTapCount(n int) { l.tapCount = n }

// PressedButton returns the button of the press in progress, or ButtonNone.
func (l *ClickListener) PressedButton() Button { return l.pressedButton }

// PressedPointer returns the pointer of the press in progress, or -1.
func (l *ClickListener) PressedPointer() int { return l.pressedPointer }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
