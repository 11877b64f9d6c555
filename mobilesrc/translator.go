// Package mobilesrc translates golang.org/x/mobile events into catkin
// samples.
//
//	for e := range a.Events() {
//		if tr.Translate(e, stage.Queue()) {
//			continue
//		}
//		switch e := a.Filter(e).(type) {
//		...
//		}
//	}
package mobilesrc

import (
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/phanxgames/catkin"
)

const maxPointers = 10

// Translator converts touch, mouse and key events. Touch sequences are
// mapped to the lowest free pointer slot, so the first finger is pointer 0.
// The mouse is pointer 0.
type Translator struct {
	// Now returns the sample timestamp. x/mobile events carry no time, so
	// the default is the time since NewTranslator.
	Now func() int64

	seq  [maxPointers]touch.Sequence
	used [maxPointers]bool

	mouseButton catkin.Button
}

// NewTranslator creates a translator stamping samples with a monotonic
// clock.
func NewTranslator() *Translator {
	start := time.Now()
	return &Translator{
		Now:         func() int64 { return time.Since(start).Nanoseconds() },
		mouseButton: catkin.ButtonNone,
	}
}

// Translate pushes the samples for e and reports whether e was an input
// event it understands.
func (t *Translator) Translate(e any, sink catkin.SampleSink) bool {
	switch e := e.(type) {
	case touch.Event:
		t.touch(e, sink)
	case mouse.Event:
		t.mouse(e, sink)
	case key.Event:
		t.key(e, sink)
	default:
		return false
	}
	return true
}

func (t *Translator) touch(e touch.Event, sink catkin.SampleSink) {
	s := catkin.Sample{X: float64(e.X), Y: float64(e.Y), Button: catkin.ButtonNone, TimeNanos: t.Now()}
	switch e.Type {
	case touch.TypeBegin:
		slot := t.alloc(e.Sequence)
		if slot < 0 {
			return
		}
		s.Kind, s.Pointer, s.Button = catkin.SampleTouchDown, slot, catkin.ButtonLeft
	case touch.TypeMove:
		slot := t.find(e.Sequence)
		if slot < 0 {
			return
		}
		s.Kind, s.Pointer = catkin.SampleTouchDragged, slot
	case touch.TypeEnd:
		slot := t.find(e.Sequence)
		if slot < 0 {
			return
		}
		t.used[slot] = false
		s.Kind, s.Pointer, s.Button = catkin.SampleTouchUp, slot, catkin.ButtonLeft
	default:
		return
	}
	sink.Push(s)
}

func (t *Translator) alloc(seq touch.Sequence) int {
	if i := t.find(seq); i >= 0 {
		return i
	}
	for i := range t.used {
		if !t.used[i] {
			t.used[i] = true
			t.seq[i] = seq
			return i
		}
	}
	return -1
}

func (t *Translator) find(seq touch.Sequence) int {
	for i := range t.used {
		if t.used[i] && t.seq[i] == seq {
			return i
		}
	}
	return -1
}

func (t *Translator) mouse(e mouse.Event, sink catkin.SampleSink) {
	s := catkin.Sample{X: float64(e.X), Y: float64(e.Y), Button: catkin.ButtonNone, TimeNanos: t.Now()}
	switch e.Direction {
	case mouse.DirStep:
		switch e.Button {
		case mouse.ButtonWheelUp:
			s.ScrollY = -1
		case mouse.ButtonWheelDown:
			s.ScrollY = 1
		case mouse.ButtonWheelLeft:
			s.ScrollX = -1
		case mouse.ButtonWheelRight:
			s.ScrollX = 1
		default:
			return
		}
		s.Kind = catkin.SampleScrolled
	case mouse.DirPress:
		b, ok := mouseButtons[e.Button]
		if !ok || t.mouseButton != catkin.ButtonNone {
			return
		}
		t.mouseButton = b
		s.Kind, s.Button = catkin.SampleTouchDown, b
	case mouse.DirRelease:
		b, ok := mouseButtons[e.Button]
		if !ok || b != t.mouseButton {
			return
		}
		t.mouseButton = catkin.ButtonNone
		s.Kind, s.Button = catkin.SampleTouchUp, b
	case mouse.DirNone:
		if t.mouseButton != catkin.ButtonNone {
			s.Kind = catkin.SampleTouchDragged
		} else {
			s.Kind = catkin.SampleMouseMoved
		}
	default:
		return
	}
	sink.Push(s)
}

var mouseButtons = map[mouse.Button]catkin.Button{
	mouse.ButtonLeft:   catkin.ButtonLeft,
	mouse.ButtonRight:  catkin.ButtonRight,
	mouse.ButtonMiddle: catkin.ButtonMiddle,
}

func (t *Translator) key(e key.Event, sink catkin.SampleSink) {
	now := t.Now()
	k := keyMap[e.Code]
	switch e.Direction {
	case key.DirPress:
		if k != catkin.KeyUnknown {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyDown, Key: k, Button: catkin.ButtonNone, TimeNanos: now})
		}
		if e.Rune > 0 {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyTyped, Key: k, Char: e.Rune, Button: catkin.ButtonNone, TimeNanos: now})
		}
	case key.DirNone:
		// auto-repeat
		if e.Rune > 0 {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyTyped, Key: k, Char: e.Rune, Button: catkin.ButtonNone, TimeNanos: now})
		}
	case key.DirRelease:
		if k != catkin.KeyUnknown {
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyUp, Key: k, Button: catkin.ButtonNone, TimeNanos: now})
		}
	}
}

var keyMap = map[key.Code]catkin.Key{
	key.CodeA: catkin.KeyA, key.CodeB: catkin.KeyB, key.CodeC: catkin.KeyC,
	key.CodeD: catkin.KeyD, key.CodeE: catkin.KeyE, key.CodeF: catkin.KeyF,
	key.CodeG: catkin.KeyG, key.CodeH: catkin.KeyH, key.CodeI: catkin.KeyI,
	key.CodeJ: catkin.KeyJ, key.CodeK: catkin.KeyK, key.CodeL: catkin.KeyL,
	key.CodeM: catkin.KeyM, key.CodeN: catkin.KeyN, key.CodeO: catkin.KeyO,
	key.CodeP: catkin.KeyP, key.CodeQ: catkin.KeyQ, key.CodeR: catkin.KeyR,
	key.CodeS: catkin.KeyS, key.CodeT: catkin.KeyT, key.CodeU: catkin.KeyU,
	key.CodeV: catkin.KeyV, key.CodeW: catkin.KeyW, key.CodeX: catkin.KeyX,
	key.CodeY: catkin.KeyY, key.CodeZ: catkin.KeyZ,

	key.Code0: catkin.Key0, key.Code1: catkin.Key1, key.Code2: catkin.Key2,
	key.Code3: catkin.Key3, key.Code4: catkin.Key4, key.Code5: catkin.Key5,
	key.Code6: catkin.Key6, key.Code7: catkin.Key7, key.Code8: catkin.Key8,
	key.Code9: catkin.Key9,

	key.CodeF1: catkin.KeyF1, key.CodeF2: catkin.KeyF2, key.CodeF3: catkin.KeyF3,
	key.CodeF4: catkin.KeyF4, key.CodeF5: catkin.KeyF5, key.CodeF6: catkin.KeyF6,
	key.CodeF7: catkin.KeyF7, key.CodeF8: catkin.KeyF8, key.CodeF9: catkin.KeyF9,
	key.CodeF10: catkin.KeyF10, key.CodeF11: catkin.KeyF11, key.CodeF12: catkin.KeyF12,

	key.CodeUpArrow:         catkin.KeyUp,
	key.CodeDownArrow:       catkin.KeyDown,
	key.CodeLeftArrow:       catkin.KeyLeft,
	key.CodeRightArrow:      catkin.KeyRight,
	key.CodeReturnEnter:     catkin.KeyEnter,
	key.CodeEscape:          catkin.KeyEscape,
	key.CodeSpacebar:        catkin.KeySpace,
	key.CodeTab:             catkin.KeyTab,
	key.CodeDeleteBackspace: catkin.KeyBackspace,
	key.CodeDeleteForward:   catkin.KeyDelete,
	key.CodeHome:            catkin.KeyHome,
	key.CodeEnd:             catkin.KeyEnd,
	key.CodePageUp:          catkin.KeyPageUp,
	key.CodePageDown:        catkin.KeyPageDown,
	key.CodeHyphenMinus:     catkin.KeyMinus,
	key.CodeEqualSign:       catkin.KeyEqual,
	key.CodeComma:           catkin.KeyComma,
	key.CodeFullStop:        catkin.KeyPeriod,
	key.CodeSlash:           catkin.KeySlash,

	key.CodeLeftShift:    catkin.KeyShift,
	key.CodeRightShift:   catkin.KeyShift,
	key.CodeLeftControl:  catkin.KeyControl,
	key.CodeRightControl: catkin.KeyControl,
	key.CodeLeftAlt:      catkin.KeyAlt,
	key.CodeRightAlt:     catkin.KeyAlt,
	key.CodeLeftGUI:      catkin.KeyMeta,
	key.CodeRightGUI:     catkin.KeyMeta,
}
