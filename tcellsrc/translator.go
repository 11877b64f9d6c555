// Package tcellsrc translates tcell terminal events into catkin samples, so
// a stage can be driven from a terminal UI. Cells are converted to stage
// units with CellWidth and CellHeight.
package tcellsrc

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/catkin"
)

// Translator converts *tcell.EventMouse and *tcell.EventKey. The mouse is
// pointer 0. Terminals report no key releases, so each key event becomes a
// press, an optional typed character and a release, wrapped in presses and
// releases of the modifier keys it carried.
type Translator struct {
	// CellWidth and CellHeight scale cell positions. Zero means 1.
	CellWidth, CellHeight float64

	start   time.Time
	buttons tcell.ButtonMask
	button  catkin.Button
	lastX   int
	lastY   int
	seen    bool
}

// NewTranslator creates a translator whose timestamps count from now.
func NewTranslator() *Translator {
	return &Translator{start: time.Now(), button: catkin.ButtonNone}
}

// Translate pushes the samples for ev and reports whether it was a mouse or
// key event.
func (t *Translator) Translate(ev tcell.Event, sink catkin.SampleSink) bool {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		t.mouse(e, sink)
	case *tcell.EventKey:
		t.key(e, sink)
	default:
		return false
	}
	return true
}

func (t *Translator) nanos(ev tcell.Event) int64 {
	return ev.When().Sub(t.start).Nanoseconds()
}

func (t *Translator) scale(x, y int) (float64, float64) {
	cw, ch := t.CellWidth, t.CellHeight
	if cw == 0 {
		cw = 1
	}
	if ch == 0 {
		ch = 1
	}
	return float64(x) * cw, float64(y) * ch
}

const buttonMask = tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle

func (t *Translator) mouse(e *tcell.EventMouse, sink catkin.SampleSink) {
	cx, cy := e.Position()
	x, y := t.scale(cx, cy)
	now := t.nanos(e)
	moved := !t.seen || cx != t.lastX || cy != t.lastY
	t.seen = true
	t.lastX, t.lastY = cx, cy

	mask := e.Buttons()
	s := catkin.Sample{X: x, Y: y, Button: catkin.ButtonNone, TimeNanos: now}

	if wx, wy := wheel(mask); wx != 0 || wy != 0 {
		s.Kind, s.ScrollX, s.ScrollY = catkin.SampleScrolled, wx, wy
		sink.Push(s)
	}

	held := mask & buttonMask
	pressed := held &^ t.buttons
	t.buttons = held

	if t.button != catkin.ButtonNone {
		if moved {
			s.Kind = catkin.SampleTouchDragged
			sink.Push(s)
		}
		if held&fromButton(t.button) == 0 {
			s.Kind, s.Button = catkin.SampleTouchUp, t.button
			sink.Push(s)
			t.button = catkin.ButtonNone
		}
		return
	}

	if b := toButton(pressed); b != catkin.ButtonNone {
		t.button = b
		s.Kind, s.Button = catkin.SampleTouchDown, b
		sink.Push(s)
		return
	}
	if moved {
		s.Kind = catkin.SampleMouseMoved
		sink.Push(s)
	}
}

func wheel(m tcell.ButtonMask) (x, y float64) {
	switch {
	case m&tcell.WheelUp != 0:
		y = -1
	case m&tcell.WheelDown != 0:
		y = 1
	}
	switch {
	case m&tcell.WheelLeft != 0:
		x = -1
	case m&tcell.WheelRight != 0:
		x = 1
	}
	return x, y
}

func toButton(m tcell.ButtonMask) catkin.Button {
	switch {
	case m&tcell.ButtonPrimary != 0:
		return catkin.ButtonLeft
	case m&tcell.ButtonSecondary != 0:
		return catkin.ButtonRight
	case m&tcell.ButtonMiddle != 0:
		return catkin.ButtonMiddle
	}
	return catkin.ButtonNone
}

func fromButton(b catkin.Button) tcell.ButtonMask {
	switch b {
	case catkin.ButtonLeft:
		return tcell.ButtonPrimary
	case catkin.ButtonRight:
		return tcell.ButtonSecondary
	case catkin.ButtonMiddle:
		return tcell.ButtonMiddle
	}
	return 0
}

var modKeys = []struct {
	mod tcell.ModMask
	key catkin.Key
}{
	{tcell.ModCtrl, catkin.KeyControl},
	{tcell.ModShift, catkin.KeyShift},
	{tcell.ModAlt, catkin.KeyAlt},
	{tcell.ModMeta, catkin.KeyMeta},
}

func (t *Translator) key(e *tcell.EventKey, sink catkin.SampleSink) {
	now := t.nanos(e)
	k, mods, ch := convertKey(e)

	push := func(kind catkin.SampleKind, key catkin.Key, ch rune) {
		sink.Push(catkin.Sample{Kind: kind, Key: key, Char: ch, Button: catkin.ButtonNone, TimeNanos: now})
	}
	for _, m := range modKeys {
		if mods&m.mod != 0 {
			push(catkin.SampleKeyDown, m.key, 0)
		}
	}
	if k != catkin.KeyUnknown {
		push(catkin.SampleKeyDown, k, 0)
	}
	if ch != 0 {
		push(catkin.SampleKeyTyped, k, ch)
	}
	if k != catkin.KeyUnknown {
		push(catkin.SampleKeyUp, k, 0)
	}
	for i := len(modKeys) - 1; i >= 0; i-- {
		if mods&modKeys[i].mod != 0 {
			push(catkin.SampleKeyUp, modKeys[i].key, 0)
		}
	}
}

// convertKey returns the key, the modifiers held and the character typed,
// if any. Control letters report the letter with ModCtrl.
func convertKey(e *tcell.EventKey) (catkin.Key, tcell.ModMask, rune) {
	mods := e.Modifiers()
	switch e.Key() {
	case tcell.KeyRune:
		r := e.Rune()
		k, err := catkin.ParseKey(string(r))
		if err != nil {
			k = catkin.KeyUnknown
		}
		if r == ' ' {
			k = catkin.KeySpace
		}
		return k, mods, r
	case tcell.KeyEscape:
		return catkin.KeyEscape, mods, 0
	case tcell.KeyEnter:
		return catkin.KeyEnter, mods, '\n'
	case tcell.KeyTab:
		return catkin.KeyTab, mods, '\t'
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return catkin.KeyBackspace, mods, 0
	}
	if k, ok := specialKeys[e.Key()]; ok {
		return k, mods, 0
	}
	if k, ok := ctrlKeys[e.Key()]; ok {
		return k, mods | tcell.ModCtrl, 0
	}
	return catkin.KeyUnknown, mods, 0
}

var specialKeys = map[tcell.Key]catkin.Key{
	tcell.KeyDelete: catkin.KeyDelete,
	tcell.KeyInsert: catkin.KeyInsert,
	tcell.KeyHome:   catkin.KeyHome,
	tcell.KeyEnd:    catkin.KeyEnd,
	tcell.KeyPgUp:   catkin.KeyPageUp,
	tcell.KeyPgDn:   catkin.KeyPageDown,
	tcell.KeyUp:     catkin.KeyUp,
	tcell.KeyDown:   catkin.KeyDown,
	tcell.KeyLeft:   catkin.KeyLeft,
	tcell.KeyRight:  catkin.KeyRight,
	tcell.KeyF1:     catkin.KeyF1,
	tcell.KeyF2:     catkin.KeyF2,
	tcell.KeyF3:     catkin.KeyF3,
	tcell.KeyF4:     catkin.KeyF4,
	tcell.KeyF5:     catkin.KeyF5,
	tcell.KeyF6:     catkin.KeyF6,
	tcell.KeyF7:     catkin.KeyF7,
	tcell.KeyF8:     catkin.KeyF8,
	tcell.KeyF9:     catkin.KeyF9,
	tcell.KeyF10:    catkin.KeyF10,
	tcell.KeyF11:    catkin.KeyF11,
	tcell.KeyF12:    catkin.KeyF12,
}

// ctrlKeys maps control codes to letters. Built at init because some
// control codes share values with named keys, which the switch in
// convertKey catches first.
var ctrlKeys = func() map[tcell.Key]catkin.Key {
	codes := []tcell.Key{
		tcell.KeyCtrlA, tcell.KeyCtrlB, tcell.KeyCtrlC, tcell.KeyCtrlD, tcell.KeyCtrlE,
		tcell.KeyCtrlF, tcell.KeyCtrlG, tcell.KeyCtrlH, tcell.KeyCtrlI, tcell.KeyCtrlJ,
		tcell.KeyCtrlK, tcell.KeyCtrlL, tcell.KeyCtrlM, tcell.KeyCtrlN, tcell.KeyCtrlO,
		tcell.KeyCtrlP, tcell.KeyCtrlQ, tcell.KeyCtrlR, tcell.KeyCtrlS, tcell.KeyCtrlT,
		tcell.KeyCtrlU, tcell.KeyCtrlV, tcell.KeyCtrlW, tcell.KeyCtrlX, tcell.KeyCtrlY,
		tcell.KeyCtrlZ,
	}
	m := make(map[tcell.Key]catkin.Key, len(codes))
	for i, c := range codes {
		if _, dup := m[c]; !dup {
			m[c] = catkin.KeyA + catkin.Key(i)
		}
	}
	return m
}()
