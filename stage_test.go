package catkin

import (
	"errors"
	"sync"
	"testing"
)

func TestNewStage(t *testing.T) {
	s := NewStage()
	if s.Root() == nil || s.Root().Stage() != s {
		t.Fatal("root should belong to the stage")
	}
	if s.Config().Gesture != DefaultGestureConfig() || s.Config().Click != DefaultClickConfig() {
		t.Errorf("config = %+v", s.Config())
	}
	if s.Timer() == nil || s.KeyBindings() == nil || s.Queue() == nil {
		t.Error("stage services should be created")
	}
	if s.Camera() != nil || s.EntityStore() != nil {
		t.Error("camera and entity store are optional")
	}

	n := NewNode("n")
	s.AddNode(n)
	if n.Stage() != s || n.Parent != s.Root() {
		t.Error("AddNode should attach to the root")
	}
}

// touchLog records InputFuncs touch callbacks.
type touchLog struct {
	calls  []string
	x, y   float64
	cancel bool
}

func (l *touchLog) funcs(handleDown bool) *InputFuncs {
	return &InputFuncs{
		OnTouchDown: func(e *InputEvent, x, y float64, pointer int, button Button) bool {
			l.calls = append(l.calls, "down")
			l.x, l.y = x, y
			return handleDown
		},
		OnTouchDragged: func(e *InputEvent, x, y float64, pointer int) {
			l.calls = append(l.calls, "dragged")
			l.x, l.y = x, y
		},
		OnTouchUp: func(e *InputEvent, x, y float64, pointer int, button Button) {
			l.calls = append(l.calls, "up")
			l.x, l.y = x, y
			l.cancel = e.IsTouchFocusCancel()
		},
	}
}

func TestTouchFocusFollowsPointer(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	n.SetPosition(100, 100)
	s.AddNode(n)
	log := &touchLog{}
	_ = n.AddListener(NewInputListener(log.funcs(true)))

	if !press(s, SampleTouchDown, 110, 120, 0) {
		t.Fatal("touch down not handled")
	}
	if log.x != 10 || log.y != 20 {
		t.Errorf("down at (%v,%v), want local (10,20)", log.x, log.y)
	}
	if !s.IsTouched(0) || s.TouchFocusCount() != 1 {
		t.Fatalf("touched=%t focus=%d", s.IsTouched(0), s.TouchFocusCount())
	}

	// Far outside the node: still delivered, in local coordinates.
	if !press(s, SampleTouchDragged, 400, 300, 1) {
		t.Error("drag not handled")
	}
	if log.x != 300 || log.y != 200 {
		t.Errorf("drag at (%v,%v), want (300,200)", log.x, log.y)
	}
	if x, y := s.PointerPosition(0); x != 400 || y != 300 {
		t.Errorf("PointerPosition = (%v,%v)", x, y)
	}

	press(s, SampleTouchUp, 400, 300, 2)
	if !equalStrings(log.calls, []string{"down", "dragged", "up"}) {
		t.Errorf("calls = %v", log.calls)
	}
	if log.cancel {
		t.Error("real release reported as cancel")
	}
	if s.IsTouched(0) || s.TouchFocusCount() != 0 {
		t.Error("release should clear touch state and focus")
	}
}

func TestTouchDownUnhandledGetsNoFocus(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	s.AddNode(n)
	log := &touchLog{}
	_ = n.AddListener(NewInputListener(log.funcs(false)))

	if press(s, SampleTouchDown, 10, 10, 0) {
		t.Error("unhandled touch down reported as handled")
	}
	press(s, SampleTouchDragged, 20, 20, 1)
	press(s, SampleTouchUp, 20, 20, 2)
	if !equalStrings(log.calls, []string{"down"}) {
		t.Errorf("calls = %v", log.calls)
	}
}

func TestSetTouchFocusFalse(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	s.AddNode(n)
	_ = n.AddListener(ListenerFunc(func(ev Event) bool {
		if e, ok := ev.(*InputEvent); ok && e.Type == InputTouchDown {
			e.SetTouchFocus(false)
			return true
		}
		return false
	}))

	if !press(s, SampleTouchDown, 10, 10, 0) {
		t.Error("touch down should still be handled")
	}
	if s.TouchFocusCount() != 0 {
		t.Errorf("focus = %d, want 0", s.TouchFocusCount())
	}
}

func TestTouchFocusPerPointerAndButton(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	s.AddNode(n)
	log := &touchLog{}
	_ = n.AddListener(NewInputListener(log.funcs(true)))

	press(s, SampleTouchDown, 10, 10, 0)
	// Another pointer's drag does not reach pointer 0's focus.
	DispatchSample(s, Sample{Kind: SampleTouchDragged, X: 20, Y: 20, Pointer: 1})
	// A release with another button keeps the entry.
	DispatchSample(s, Sample{Kind: SampleTouchUp, X: 20, Y: 20, Button: ButtonRight})
	if !equalStrings(log.calls, []string{"down"}) || s.TouchFocusCount() != 1 {
		t.Fatalf("calls = %v, focus = %d", log.calls, s.TouchFocusCount())
	}
	press(s, SampleTouchUp, 20, 20, 3)
	if s.TouchFocusCount() != 0 {
		t.Error("matching release should remove focus")
	}
}

func TestTouchFocusBubbledListener(t *testing.T) {
	s := NewStage()
	parent := NewNode("parent")
	child := NewSizedNode("child", 50, 50)
	child.SetPosition(10, 0)
	parent.AddChild(child)
	s.AddNode(parent)

	var target, listenerNode *Node
	_ = parent.AddListener(ListenerFunc(func(ev Event) bool {
		e := ev.(*InputEvent)
		if e.Type == InputTouchUp {
			target, listenerNode = e.Target(), e.ListenerNode()
		}
		return e.Type == InputTouchDown
	}))

	press(s, SampleTouchDown, 20, 10, 0)
	press(s, SampleTouchUp, 500, 500, 1)
	if target != child || listenerNode != parent {
		t.Errorf("touch up target=%v listener=%v, want child parent", nodeName(target), nodeName(listenerNode))
	}
}

func TestCancelTouchFocus(t *testing.T) {
	s := NewStage()
	a := NewSizedNode("a", 50, 50)
	b := NewSizedNode("b", 50, 50)
	a.AddChild(b)
	s.AddNode(a)
	logA, logB := &touchLog{}, &touchLog{}
	_ = a.AddListener(NewInputListener(logA.funcs(true)))
	_ = b.AddListener(NewInputListener(logB.funcs(true)))

	press(s, SampleTouchDown, 10, 10, 0)
	if s.TouchFocusCount() != 2 {
		t.Fatalf("focus = %d, want 2", s.TouchFocusCount())
	}

	s.CancelTouchFocus(b)
	if !logB.cancel || logB.x != focusCancelCoord {
		t.Errorf("b cancel = %t at %v, want marker", logB.cancel, logB.x)
	}
	if len(logA.calls) != 1 || s.TouchFocusCount() != 1 {
		t.Errorf("a calls = %v, focus = %d", logA.calls, s.TouchFocusCount())
	}

	s.CancelTouchFocus(nil)
	if !logA.cancel || s.TouchFocusCount() != 0 {
		t.Error("CancelTouchFocus(nil) should cancel everything")
	}
}

func TestCancelTouchFocusExcept(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	s.AddNode(n)
	keep := &touchLog{}
	drop := &touchLog{}
	keepL := NewInputListener(keep.funcs(true))
	_ = n.AddListener(keepL)
	_ = n.AddListener(NewInputListener(drop.funcs(true)))

	press(s, SampleTouchDown, 10, 10, 0)
	s.CancelTouchFocusExcept(keepL, n)
	if keep.cancel || !drop.cancel {
		t.Errorf("keep cancelled=%t drop cancelled=%t", keep.cancel, drop.cancel)
	}

	press(s, SampleTouchUp, 10, 10, 1)
	if !equalStrings(keep.calls, []string{"down", "up"}) {
		t.Errorf("keep calls = %v", keep.calls)
	}
}

func TestRemoveTouchFocusFromListener(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	s.AddNode(n)
	var drags int
	var self EventListener
	self = ListenerFunc(func(ev Event) bool {
		e := ev.(*InputEvent)
		switch e.Type {
		case InputTouchDown:
			return true
		case InputTouchDragged:
			drags++
			s.RemoveTouchFocus(self, n, n, 0, ButtonLeft)
		}
		return false
	})
	_ = n.AddListener(self)

	press(s, SampleTouchDown, 10, 10, 0)
	press(s, SampleTouchDragged, 11, 10, 1)
	press(s, SampleTouchDragged, 12, 10, 2)
	if drags != 1 || s.TouchFocusCount() != 0 {
		t.Errorf("drags = %d, focus = %d", drags, s.TouchFocusCount())
	}
}

// --- Enter / exit ---

func TestEnterExit(t *testing.T) {
	s := NewStage()
	a := NewSizedNode("a", 50, 50)
	b := NewSizedNode("b", 50, 50)
	b.SetPosition(100, 0)
	s.AddNode(a)
	s.AddNode(b)

	var log []string
	for _, n := range []*Node{a, b} {
		name := n.Name
		_ = n.AddListener(NewInputListener(&InputFuncs{
			OnEnter: func(e *InputEvent, x, y float64, pointer int, from *Node) {
				log = append(log, "enter "+name+" from "+nodeName(from))
			},
			OnExit: func(e *InputEvent, x, y float64, pointer int, to *Node) {
				log = append(log, "exit "+name+" to "+nodeName(to))
			},
		}))
	}

	move := func(x, y float64) { DispatchSample(s, Sample{Kind: SampleMouseMoved, X: x, Y: y}) }
	move(10, 10)
	move(20, 10)
	move(110, 10)
	move(300, 300)

	want := []string{
		"enter a from <nil>",
		"exit a to b",
		"enter b from a",
		"exit b to <nil>",
	}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestLiftedTouchExits(t *testing.T) {
	s := NewStage()
	n := NewSizedNode("n", 50, 50)
	n.SetPosition(5, 5)
	s.AddNode(n)
	var exits int
	var exitX, exitY float64
	var cancel bool
	to := n
	_ = n.AddListener(NewInputListener(&InputFuncs{
		OnExit: func(e *InputEvent, x, y float64, pointer int, related *Node) {
			exits++
			exitX, exitY = x, y
			cancel = e.IsTouchFocusCancel()
			to = related
		},
	}))

	DispatchSample(s, Sample{Kind: SampleTouchDown, X: 10, Y: 10, Pointer: 1, Button: ButtonLeft})
	DispatchSample(s, Sample{Kind: SampleTouchUp, X: 20, Y: 30, Pointer: 1, Button: ButtonLeft})
	if exits != 1 {
		t.Fatalf("exits = %d, want 1", exits)
	}
	// The exit is reported where the touch lifted, not as a focus cancel.
	if exitX != 15 || exitY != 25 {
		t.Errorf("exit at local (%v,%v), want (15,25)", exitX, exitY)
	}
	if cancel {
		t.Error("exit carries the focus-cancel marker")
	}
	if to != nil {
		t.Errorf("exit related node = %v, want nil", to)
	}
}

// --- Keyboard and scroll ---

func TestKeyboardFocus(t *testing.T) {
	s := NewStage()
	field := NewNode("field")
	s.AddNode(field)

	var focusLog []string
	_ = s.Root().AddListener(&FocusListener{
		OnKeyboardFocusChanged: func(e *FocusEvent, n *Node, focused bool) {
			if focused {
				focusLog = append(focusLog, "gain "+n.Name)
			} else {
				focusLog = append(focusLog, "lose "+n.Name)
			}
		},
	})
	var keys []Key
	_ = field.AddListener(NewInputListener(&InputFuncs{
		OnKeyDown: func(e *InputEvent, k Key) bool { keys = append(keys, k); return true },
	}))

	if !s.SetKeyboardFocus(field) || s.KeyboardFocus() != field {
		t.Fatal("focus not set")
	}
	if !DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyA}) {
		t.Error("key down not handled by the focused node")
	}
	s.SetKeyboardFocus(nil)
	DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyB})

	if len(keys) != 1 || keys[0] != KeyA {
		t.Errorf("keys = %v", keys)
	}
	if !equalStrings(focusLog, []string{"gain field", "lose field"}) {
		t.Errorf("focus log = %v", focusLog)
	}
}

func TestFocusChangeCancelled(t *testing.T) {
	s := NewStage()
	a := NewNode("a")
	b := NewNode("b")
	s.AddNode(a)
	s.AddNode(b)
	s.SetKeyboardFocus(a)

	// a refuses to give up focus.
	_ = a.AddListener(ListenerFunc(func(ev Event) bool {
		if e, ok := ev.(*FocusEvent); ok && !e.Focused {
			e.Cancel()
		}
		return false
	}))
	if s.SetKeyboardFocus(b) {
		t.Error("SetKeyboardFocus should report the cancel")
	}
	if s.KeyboardFocus() != a {
		t.Errorf("focus = %v, want a", nodeName(s.KeyboardFocus()))
	}

	// b refuses to take scroll focus.
	_ = b.AddListener(ListenerFunc(func(ev Event) bool {
		if e, ok := ev.(*FocusEvent); ok && e.Type == FocusScroll && e.Focused {
			e.Cancel()
		}
		return false
	}))
	if s.SetScrollFocus(b) || s.ScrollFocus() != nil {
		t.Error("scroll focus should stay empty")
	}
}

func TestScrollFocus(t *testing.T) {
	s := NewStage()
	pane := NewNode("pane")
	s.AddNode(pane)
	var amount float64
	_ = pane.AddListener(NewInputListener(&InputFuncs{
		OnScrolled: func(e *InputEvent, x, y, ax, ay float64) bool { amount += ay; return true },
	}))

	DispatchSample(s, Sample{Kind: SampleScrolled, ScrollY: 1})
	s.SetScrollFocus(pane)
	if !DispatchSample(s, Sample{Kind: SampleScrolled, ScrollY: 3}) {
		t.Error("scroll not handled")
	}
	if amount != 3 {
		t.Errorf("amount = %v, want 3", amount)
	}
}

func TestUnfocus(t *testing.T) {
	s := NewStage()
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	s.AddNode(parent)
	s.SetKeyboardFocus(child)
	s.SetScrollFocus(child)

	s.Unfocus(parent)
	if s.KeyboardFocus() != nil || s.ScrollFocus() != nil {
		t.Error("Unfocus should clear focus held by descendants")
	}
}

func TestModifiers(t *testing.T) {
	s := NewStage()
	var mods KeyModifiers
	_ = s.Root().AddListener(NewInputListener(&InputFuncs{
		OnKeyDown: func(e *InputEvent, k Key) bool { mods = e.Modifiers; return false },
	}))

	DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyControl})
	DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyZ})
	if mods != ModCtrl || s.Modifiers() != ModCtrl {
		t.Errorf("mods = %v, want ctrl", mods)
	}
	DispatchSample(s, Sample{Kind: SampleKeyUp, Key: KeyControl})
	if s.Modifiers() != 0 {
		t.Errorf("mods after release = %v", s.Modifiers())
	}
}

func TestKeyBindingListener(t *testing.T) {
	s := NewStage()
	cfg := DefaultConfig()
	cfg.Keys = map[string][]string{"undo": {"ctrl+z"}}
	if err := s.ApplyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	var actions []string
	_ = s.Root().AddListener(&KeyBindingListener{
		OnAction: func(action string, e *InputEvent) bool {
			actions = append(actions, action)
			return true
		},
	})

	DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyZ})
	DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyControl})
	if !DispatchSample(s, Sample{Kind: SampleKeyDown, Key: KeyZ}) {
		t.Error("bound chord not handled")
	}
	if !equalStrings(actions, []string{"undo"}) {
		t.Errorf("actions = %v", actions)
	}
}

// --- Dispose ---

func TestDisposeForgetsSubtree(t *testing.T) {
	s := NewStage()
	panel := NewNode("panel")
	button := NewSizedNode("button", 50, 50)
	panel.AddChild(button)
	s.AddNode(panel)

	log := &touchLog{}
	_ = button.AddListener(NewInputListener(log.funcs(true)))
	DispatchSample(s, Sample{Kind: SampleMouseMoved, X: 10, Y: 10})
	press(s, SampleTouchDown, 10, 10, 0)
	s.SetKeyboardFocus(button)
	s.SetScrollFocus(button)

	panel.Dispose()

	if !log.cancel {
		t.Error("disposed listener should get a focus cancel")
	}
	if s.TouchFocusCount() != 0 || s.KeyboardFocus() != nil || s.ScrollFocus() != nil {
		t.Error("stage still references the disposed subtree")
	}
	if s.pointers[0].over != nil {
		t.Error("hover state still references the disposed subtree")
	}

	// Later input must not touch the disposed nodes.
	press(s, SampleTouchUp, 10, 10, 1)
	if len(log.calls) != 2 {
		t.Errorf("calls = %v", log.calls)
	}
}

// --- Change events ---

func TestFireChange(t *testing.T) {
	n := NewNode("detached")
	var got *Node
	_ = n.AddListener(&ChangeListener{OnChanged: func(e *ChangeEvent, target *Node) { got = target }})
	if FireChange(n) {
		t.Error("uncancelled change reported as cancelled")
	}
	if got != n {
		t.Error("ChangeListener not called")
	}

	s := NewStage()
	s.AddNode(n)
	_ = s.Root().AddListener(&ChangeListener{OnChanged: func(e *ChangeEvent, target *Node) { e.Cancel() }})
	if !FireChange(n) {
		t.Error("cancel on the root should reach FireChange")
	}
	if s.changeEvents.Free() != 1 {
		t.Errorf("pooled change events = %d, want 1", s.changeEvents.Free())
	}
}

// --- Queue ---

func TestQueueDrainedByUpdate(t *testing.T) {
	s := NewStage()
	var got []Sample
	s.SetInputProcessor(&sampleRecorder{out: &got})

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 25 {
				s.Queue().Push(Sample{Kind: SampleTouchDragged, X: float64(i), Y: float64(j)})
			}
		}()
	}
	wg.Wait()

	s.Update(frame)
	if len(got) != 100 || s.Queue().Len() != 0 {
		t.Errorf("drained %d, left %d", len(got), s.Queue().Len())
	}
}

func TestSetInputProcessorNil(t *testing.T) {
	s := NewStage()
	s.SetInputProcessor(nil)
	s.Queue().Push(Sample{Kind: SampleTouchDown, X: 1, Y: 1, Button: ButtonLeft})
	s.Update(frame)
	if !s.IsTouched(0) {
		t.Error("nil processor should route samples to the stage itself")
	}
}

func TestStageWithMultiplexer(t *testing.T) {
	s := NewStage()
	c, rec, _ := newTestClassifier()
	m := NewInputMultiplexer(c.Processor(), s)
	s.SetInputProcessor(m)

	s.Queue().Push(Sample{Kind: SampleTouchDown, X: 10, Y: 10, Button: ButtonLeft})
	s.Update(frame)
	if rec.count("touchDown 0") != 1 {
		t.Errorf("classifier calls = %v", rec.calls)
	}
	// The classifier did not consume the touch down, so the stage saw it too.
	if !s.IsTouched(0) {
		t.Error("stage did not receive the sample")
	}
}

func TestApplyConfigInvalid(t *testing.T) {
	s := NewStage()
	cfg := DefaultConfig()
	cfg.Gesture.LongPressSeconds = 0
	if err := s.ApplyConfig(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if s.Config().Gesture.LongPressSeconds != 1.1 {
		t.Error("invalid config should not be applied")
	}
}
