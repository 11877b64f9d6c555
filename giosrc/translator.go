// Package giosrc translates Gio pointer and key events into catkin samples.
// Positions are taken as delivered, so register the input area in screen
// space (no transform) to get screen coordinates.
package giosrc

import (
	"time"
	"unicode/utf8"

	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/phanxgames/catkin"
)

const maxPointers = 10

// Translator converts gio events. Mouse input is pointer 0; touch pointer
// IDs are mapped to the lowest free pointer slot.
type Translator struct {
	// Now stamps key samples, which carry no time in gio. Pointer samples
	// use the event's own Time.
	Now func() int64

	ids  [maxPointers]pointer.ID
	used [maxPointers]bool
	last [maxPointers]catkin.Sample

	buttons     pointer.Buttons
	mouseButton catkin.Button
	mods        key.Modifiers
}

// NewTranslator creates a translator.
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
	case pointer.Event:
		t.pointer(e, sink)
	case key.Event:
		t.key(e, sink)
	case key.EditEvent:
		now := t.Now()
		for s := e.Text; s != ""; {
			r, n := utf8.DecodeRuneInString(s)
			s = s[n:]
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyTyped, Char: r, Button: catkin.ButtonNone, TimeNanos: now})
		}
	default:
		return false
	}
	return true
}

func (t *Translator) pointer(e pointer.Event, sink catkin.SampleSink) {
	s := catkin.Sample{
		X:         float64(e.Position.X),
		Y:         float64(e.Position.Y),
		Button:    catkin.ButtonNone,
		TimeNanos: e.Time.Nanoseconds(),
	}
	if e.Source == pointer.Touch {
		t.touch(e, s, sink)
		return
	}

	switch e.Type {
	case pointer.Press:
		pressed := e.Buttons &^ t.buttons
		t.buttons = e.Buttons
		if t.mouseButton != catkin.ButtonNone {
			return
		}
		b := toButton(pressed)
		if b == catkin.ButtonNone {
			return
		}
		t.mouseButton = b
		s.Kind, s.Button = catkin.SampleTouchDown, b
	case pointer.Release:
		released := t.buttons &^ e.Buttons
		t.buttons = e.Buttons
		if t.mouseButton == catkin.ButtonNone || released&fromButton(t.mouseButton) == 0 {
			return
		}
		s.Kind, s.Button = catkin.SampleTouchUp, t.mouseButton
		t.mouseButton = catkin.ButtonNone
	case pointer.Move, pointer.Drag:
		if t.mouseButton != catkin.ButtonNone {
			s.Kind = catkin.SampleTouchDragged
		} else {
			s.Kind = catkin.SampleMouseMoved
		}
	case pointer.Scroll:
		s.Kind = catkin.SampleScrolled
		s.ScrollX = float64(e.Scroll.X)
		s.ScrollY = float64(e.Scroll.Y)
	case pointer.Cancel:
		t.buttons = 0
		if t.mouseButton == catkin.ButtonNone {
			return
		}
		s.Kind, s.Button = catkin.SampleTouchUp, t.mouseButton
		t.mouseButton = catkin.ButtonNone
	default:
		return
	}
	sink.Push(s)
}

// touch handles touch contacts. A cancel lifts every active contact at its
// last position.
func (t *Translator) touch(e pointer.Event, s catkin.Sample, sink catkin.SampleSink) {
	switch e.Type {
	case pointer.Press:
		slot := t.alloc(e.PointerID)
		if slot < 0 {
			return
		}
		s.Kind, s.Pointer, s.Button = catkin.SampleTouchDown, slot, catkin.ButtonLeft
	case pointer.Drag, pointer.Move:
		slot := t.find(e.PointerID)
		if slot < 0 {
			return
		}
		s.Kind, s.Pointer = catkin.SampleTouchDragged, slot
	case pointer.Release:
		slot := t.find(e.PointerID)
		if slot < 0 {
			return
		}
		t.used[slot] = false
		s.Kind, s.Pointer, s.Button = catkin.SampleTouchUp, slot, catkin.ButtonLeft
	case pointer.Cancel:
		for i := range t.used {
			if !t.used[i] {
				continue
			}
			t.used[i] = false
			up := t.last[i]
			up.Kind, up.Button, up.TimeNanos = catkin.SampleTouchUp, catkin.ButtonLeft, s.TimeNanos
			sink.Push(up)
		}
		return
	default:
		return
	}
	t.last[s.Pointer] = s
	sink.Push(s)
}

func (t *Translator) alloc(id pointer.ID) int {
	if i := t.find(id); i >= 0 {
		return i
	}
	for i := range t.used {
		if !t.used[i] {
			t.used[i] = true
			t.ids[i] = id
			return i
		}
	}
	return -1
}

func (t *Translator) find(id pointer.ID) int {
	for i := range t.used {
		if t.used[i] && t.ids[i] == id {
			return i
		}
	}
	return -1
}

func toButton(b pointer.Buttons) catkin.Button {
	switch {
	case b&pointer.ButtonPrimary != 0:
		return catkin.ButtonLeft
	case b&pointer.ButtonSecondary != 0:
		return catkin.ButtonRight
	case b&pointer.ButtonTertiary != 0:
		return catkin.ButtonMiddle
	}
	return catkin.ButtonNone
}

func fromButton(b catkin.Button) pointer.Buttons {
	switch b {
	case catkin.ButtonLeft:
		return pointer.ButtonPrimary
	case catkin.ButtonRight:
		return pointer.ButtonSecondary
	case catkin.ButtonMiddle:
		return pointer.ButtonTertiary
	}
	return 0
}

// key emits a press and release for e. Gio reports modifiers as state on
// each key event, so modifier keys are pressed and released as that state
// changes.
func (t *Translator) key(e key.Event, sink catkin.SampleSink) {
	now := t.Now()
	for _, m := range modKeys {
		had, has := t.mods.Contain(m.mod), e.Modifiers.Contain(m.mod)
		switch {
		case has && !had:
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyDown, Key: m.key, Button: catkin.ButtonNone, TimeNanos: now})
		case had && !has:
			sink.Push(catkin.Sample{Kind: catkin.SampleKeyUp, Key: m.key, Button: catkin.ButtonNone, TimeNanos: now})
		}
	}
	t.mods = e.Modifiers

	k := keyFromName(e.Name)
	if k == catkin.KeyUnknown {
		return
	}
	sink.Push(catkin.Sample{Kind: catkin.SampleKeyDown, Key: k, Button: catkin.ButtonNone, TimeNanos: now})
	sink.Push(catkin.Sample{Kind: catkin.SampleKeyUp, Key: k, Button: catkin.ButtonNone, TimeNanos: now})
}

var modKeys = []struct {
	mod key.Modifiers
	key catkin.Key
}{
	{key.ModCtrl, catkin.KeyControl},
	{key.ModShift, catkin.KeyShift},
	{key.ModAlt, catkin.KeyAlt},
	{key.ModCommand, catkin.KeyMeta},
}

var specialKeys = map[string]catkin.Key{
	key.NameLeftArrow:      catkin.KeyLeft,
	key.NameRightArrow:     catkin.KeyRight,
	key.NameUpArrow:        catkin.KeyUp,
	key.NameDownArrow:      catkin.KeyDown,
	key.NameReturn:         catkin.KeyEnter,
	key.NameEnter:          catkin.KeyEnter,
	key.NameEscape:         catkin.KeyEscape,
	key.NameHome:           catkin.KeyHome,
	key.NameEnd:            catkin.KeyEnd,
	key.NameDeleteBackward: catkin.KeyBackspace,
	key.NameDeleteForward:  catkin.KeyDelete,
	key.NamePageUp:         catkin.KeyPageUp,
	key.NamePageDown:       catkin.KeyPageDown,
	key.NameTab:            catkin.KeyTab,
	"Space":                catkin.KeySpace,
}

// keyFromName maps a gio key name. Letters arrive upper case and function
// keys as "F1".."F12", which catkin.ParseKey already understands.
func keyFromName(name string) catkin.Key {
	if k, ok := specialKeys[name]; ok {
		return k
	}
	k, err := catkin.ParseKey(name)
	if err != nil {
		return catkin.KeyUnknown
	}
	return k
}
