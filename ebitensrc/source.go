// Package ebitensrc turns Ebitengine's polled input state into catkin
// samples.
//
// Call Source.Poll once per ebiten Update, before Stage.Update:
//
//	func (g *Game) Update() error {
//		g.src.Poll(g.stage.Queue())
//		g.stage.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
package ebitensrc

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/catkin"
)

// maxPointers matches the stage's pointer limit.
const maxPointers = 10

// touchPoint is one active touch in a frame.
type touchPoint struct {
	id   ebiten.TouchID
	x, y int
}

// frame is the input state read from ebiten for one tick.
type frame struct {
	cursorX, cursorY int
	buttons          [5]bool // indexed by catkin.Button
	wheelX, wheelY   float64
	touches          []touchPoint
	pressed          []ebiten.Key
	released         []ebiten.Key
	chars            []rune
	nanos            int64
}

// Source diffs ebiten's input state between frames and emits samples for
// the changes. The mouse is pointer 0. Touches take the lowest free
// pointer slots, so the first finger is also pointer 0 and a second finger
// is pointer 1; the mouse is ignored while any touch is active.
type Source struct {
	start time.Time

	// mouse
	mouseDown   bool
	mouseButton catkin.Button
	lastX       int
	lastY       int
	mouseSeen   bool

	// touches
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchPos  [maxPointers][2]int

	cur frame
}

// NewSource creates a Source whose sample timestamps start at zero.
func NewSource() *Source {
	return &Source{start: time.Now(), mouseButton: catkin.ButtonNone}
}

// Poll reads the current ebiten input state and pushes samples for what
// changed since the previous call.
func (s *Source) Poll(sink catkin.SampleSink) {
	f := &s.cur
	f.cursorX, f.cursorY = ebiten.CursorPosition()
	f.buttons[catkin.ButtonLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	f.buttons[catkin.ButtonRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	f.buttons[catkin.ButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	f.buttons[catkin.ButtonBack] = ebiten.IsMouseButtonPressed(ebiten.MouseButton3)
	f.buttons[catkin.ButtonForward] = ebiten.IsMouseButtonPressed(ebiten.MouseButton4)
	f.wheelX, f.wheelY = ebiten.Wheel()

	var ids []ebiten.TouchID
	ids = ebiten.AppendTouchIDs(ids)
	f.touches = f.touches[:0]
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		f.touches = append(f.touches, touchPoint{id: id, x: x, y: y})
	}

	f.pressed = inpututil.AppendJustPressedKeys(f.pressed[:0])
	f.released = inpututil.AppendJustReleasedKeys(f.released[:0])
	f.chars = ebiten.AppendInputChars(f.chars[:0])
	f.nanos = time.Since(s.start).Nanoseconds()

	s.apply(f, sink)
}

// apply emits samples for f relative to the previous frame.
func (s *Source) apply(f *frame, sink catkin.SampleSink) {
	s.applyKeys(f, sink)
	if len(f.touches) > 0 || s.anyTouch() {
		s.applyTouches(f, sink)
	} else {
		s.applyMouse(f, sink)
	}
	if f.wheelX != 0 || f.wheelY != 0 {
		sink.Push(catkin.Sample{
			Kind:      catkin.SampleScrolled,
			X:         float64(f.cursorX),
			Y:         float64(f.cursorY),
			Button:    catkin.ButtonNone,
			ScrollX:   -f.wheelX,
			ScrollY:   -f.wheelY,
			TimeNanos: f.nanos,
		})
	}
}

func (s *Source) applyKeys(f *frame, sink catkin.SampleSink) {
	for _, k := range f.pressed {
		if key, ok := keyMap[k]; ok {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyDown, Key: key, Button: catkin.ButtonNone, TimeNanos: f.nanos})
		}
	}
	for _, ch := range f.chars {
		sink.Push(catkin.Sample{Kind: catkin.SampleKeyTyped, Char: ch, Button: catkin.ButtonNone, TimeNanos: f.nanos})
	}
	for _, k := range f.released {
		if key, ok := keyMap[k]; ok {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyUp, Key: key, Button: catkin.ButtonNone, TimeNanos: f.nanos})
		}
	}
}

// applyMouse handles mouse input (pointer 0). The button that started a
// press stays the press button until it is released.
func (s *Source) applyMouse(f *frame, sink catkin.SampleSink) {
	x, y := float64(f.cursorX), float64(f.cursorY)
	moved := !s.mouseSeen || f.cursorX != s.lastX || f.cursorY != s.lastY
	s.mouseSeen = true
	s.lastX, s.lastY = f.cursorX, f.cursorY

	if s.mouseDown {
		if moved {
			sink.Push(catkin.Sample{Kind: catkin.SampleTouchDragged, X: x, Y: y, Button: catkin.ButtonNone, TimeNanos: f.nanos})
		}
		if !f.buttons[s.mouseButton] {
			sink.Push(catkin.Sample{Kind: catkin.SampleTouchUp, X: x, Y: y, Button: s.mouseButton, TimeNanos: f.nanos})
			s.mouseDown = false
			s.mouseButton = catkin.ButtonNone
		}
		return
	}

	if moved {
		sink.Push(catkin.Sample{Kind: catkin.SampleMouseMoved, X: x, Y: y, Button: catkin.ButtonNone, TimeNanos: f.nanos})
	}
	for b, down := range f.buttons {
		if down {
			s.mouseDown = true
			s.mouseButton = catkin.Button(b)
			sink.Push(catkin.Sample{Kind: catkin.SampleTouchDown, X: x, Y: y, Button: s.mouseButton, TimeNanos: f.nanos})
			return
		}
	}
}

// applyTouches emits down, drag and up samples for touch contacts.
func (s *Source) applyTouches(f *frame, sink catkin.SampleSink) {
	var active [maxPointers]bool

	// Lift first so a finger replacing another in the same frame can reuse
	// its slot.
	for i := 0; i < maxPointers; i++ {
		if !s.touchUsed[i] || hasTouch(f.touches, s.touchMap[i]) {
			continue
		}
		sink.Push(catkin.Sample{
			Kind:      catkin.SampleTouchUp,
			X:         float64(s.touchPos[i][0]),
			Y:         float64(s.touchPos[i][1]),
			Pointer:   i,
			Button:    catkin.ButtonLeft,
			TimeNanos: f.nanos,
		})
		s.touchUsed[i] = false
		s.touchMap[i] = 0
	}

	for _, t := range f.touches {
		slot, isNew := s.touchSlot(t.id)
		if slot < 0 {
			continue
		}
		active[slot] = true
		x, y := float64(t.x), float64(t.y)
		switch {
		case isNew:
			sink.Push(catkin.Sample{Kind: catkin.SampleTouchDown, X: x, Y: y, Pointer: slot, Button: catkin.ButtonLeft, TimeNanos: f.nanos})
		case s.touchPos[slot][0] != t.x || s.touchPos[slot][1] != t.y:
			sink.Push(catkin.Sample{Kind: catkin.SampleTouchDragged, X: x, Y: y, Pointer: slot, Button: catkin.ButtonNone, TimeNanos: f.nanos})
		}
		s.touchPos[slot] = [2]int{t.x, t.y}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (0-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Source) touchSlot(tid ebiten.TouchID) (slot int, isNew bool) {
	// Check existing mapping.
	for i := 0; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i, false
		}
	}
	// Allocate new slot.
	for i := 0; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i, true
		}
	}
	return -1, false
}

func (s *Source) anyTouch() bool {
	for _, used := range s.touchUsed {
		if used {
			return true
		}
	}
	return false
}

func hasTouch(touches []touchPoint, id ebiten.TouchID) bool {
	for _, t := range touches {
		if t.id == id {
			return true
		}
	}
	return false
}

var keyMap = map[ebiten.Key]catkin.Key{
	ebiten.KeyA: catkin.KeyA, ebiten.KeyB: catkin.KeyB, ebiten.KeyC: catkin.KeyC,
	ebiten.KeyD: catkin.KeyD, ebiten.KeyE: catkin.KeyE, ebiten.KeyF: catkin.KeyF,
	ebiten.KeyG: catkin.KeyG, ebiten.KeyH: catkin.KeyH, ebiten.KeyI: catkin.KeyI,
	ebiten.KeyJ: catkin.KeyJ, ebiten.KeyK: catkin.KeyK, ebiten.KeyL: catkin.KeyL,
	ebiten.KeyM: catkin.KeyM, ebiten.KeyN: catkin.KeyN, ebiten.KeyO: catkin.KeyO,
	ebiten.KeyP: catkin.KeyP, ebiten.KeyQ: catkin.KeyQ, ebiten.KeyR: catkin.KeyR,
	ebiten.KeyS: catkin.KeyS, ebiten.KeyT: catkin.KeyT, ebiten.KeyU: catkin.KeyU,
	ebiten.KeyV: catkin.KeyV, ebiten.KeyW: catkin.KeyW, ebiten.KeyX: catkin.KeyX,
	ebiten.KeyY: catkin.KeyY, ebiten.KeyZ: catkin.KeyZ,

	ebiten.KeyDigit0: catkin.Key0, ebiten.KeyDigit1: catkin.Key1, ebiten.KeyDigit2: catkin.Key2,
	ebiten.KeyDigit3: catkin.Key3, ebiten.KeyDigit4: catkin.Key4, ebiten.KeyDigit5: catkin.Key5,
	ebiten.KeyDigit6: catkin.Key6, ebiten.KeyDigit7: catkin.Key7, ebiten.KeyDigit8: catkin.Key8,
	ebiten.KeyDigit9: catkin.Key9,

	ebiten.KeyF1: catkin.KeyF1, ebiten.KeyF2: catkin.KeyF2, ebiten.KeyF3: catkin.KeyF3,
	ebiten.KeyF4: catkin.KeyF4, ebiten.KeyF5: catkin.KeyF5, ebiten.KeyF6: catkin.KeyF6,
	ebiten.KeyF7: catkin.KeyF7, ebiten.KeyF8: catkin.KeyF8, ebiten.KeyF9: catkin.KeyF9,
	ebiten.KeyF10: catkin.KeyF10, ebiten.KeyF11: catkin.KeyF11, ebiten.KeyF12: catkin.KeyF12,

	ebiten.KeyArrowUp:    catkin.KeyUp,
	ebiten.KeyArrowDown:  catkin.KeyDown,
	ebiten.KeyArrowLeft:  catkin.KeyLeft,
	ebiten.KeyArrowRight: catkin.KeyRight,
	ebiten.KeyEnter:      catkin.KeyEnter,
	ebiten.KeyEscape:     catkin.KeyEscape,
	ebiten.KeySpace:      catkin.KeySpace,
	ebiten.KeyTab:        catkin.KeyTab,
	ebiten.KeyBackspace:  catkin.KeyBackspace,
	ebiten.KeyDelete:     catkin.KeyDelete,
	ebiten.KeyInsert:     catkin.KeyInsert,
	ebiten.KeyHome:       catkin.KeyHome,
	ebiten.KeyEnd:        catkin.KeyEnd,
	ebiten.KeyPageUp:     catkin.KeyPageUp,
	ebiten.KeyPageDown:   catkin.KeyPageDown,
	ebiten.KeyMinus:      catkin.KeyMinus,
	ebiten.KeyEqual:      catkin.KeyEqual,
	ebiten.KeyComma:      catkin.KeyComma,
	ebiten.KeyPeriod:     catkin.KeyPeriod,
	ebiten.KeySlash:      catkin.KeySlash,

	ebiten.KeyShiftLeft:    catkin.KeyShift,
	ebiten.KeyShiftRight:   catkin.KeyShift,
	ebiten.KeyControlLeft:  catkin.KeyControl,
	ebiten.KeyControlRight: catkin.KeyControl,
	ebiten.KeyAltLeft:      catkin.KeyAlt,
	ebiten.KeyAltRight:     catkin.KeyAlt,
	ebiten.KeyMetaLeft:     catkin.KeyMeta,
	ebiten.KeyMetaRight:    catkin.KeyMeta,
}
