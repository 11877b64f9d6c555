package giosrc

import (
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/phanxgames/catkin"
)

type sink []catkin.Sample

func (s *sink) Push(smp catkin.Sample) { *s = append(*s, smp) }

func at(x, y float32) f32.Point { return f32.Point{X: x, Y: y} }

func TestMousePressDragRelease(t *testing.T) {
	tr := NewTranslator()
	var out sink

	for _, e := range []pointer.Event{
		{Type: pointer.Move, Source: pointer.Mouse, Position: at(1, 1), Time: 1 * time.Millisecond},
		{Type: pointer.Press, Source: pointer.Mouse, Buttons: pointer.ButtonSecondary, Position: at(1, 1), Time: 2 * time.Millisecond},
		{Type: pointer.Press, Source: pointer.Mouse, Buttons: pointer.ButtonSecondary | pointer.ButtonPrimary, Position: at(1, 1)},
		{Type: pointer.Drag, Source: pointer.Mouse, Buttons: pointer.ButtonSecondary | pointer.ButtonPrimary, Position: at(4, 1)},
		{Type: pointer.Release, Source: pointer.Mouse, Buttons: pointer.ButtonSecondary, Position: at(4, 1)},
		{Type: pointer.Release, Source: pointer.Mouse, Position: at(4, 1)},
	} {
		if !tr.Translate(e, &out) {
			t.Fatalf("Translate(%+v) = false", e)
		}
	}

	want := []catkin.SampleKind{
		catkin.SampleMouseMoved,
		catkin.SampleTouchDown,
		catkin.SampleTouchDragged,
		catkin.SampleTouchUp,
	}
	if len(out) != len(want) {
		t.Fatalf("got %d samples: %+v", len(out), out)
	}
	for i, k := range want {
		if out[i].Kind != k {
			t.Errorf("sample %d kind = %v, want %v", i, out[i].Kind, k)
		}
	}
	if out[1].Button != catkin.ButtonRight || out[3].Button != catkin.ButtonRight {
		t.Errorf("buttons = %v/%v, want right", out[1].Button, out[3].Button)
	}
	if out[1].TimeNanos != int64(2*time.Millisecond) {
		t.Errorf("TimeNanos = %d", out[1].TimeNanos)
	}
}

func TestTouchAndCancel(t *testing.T) {
	tr := NewTranslator()
	var out sink

	for _, e := range []pointer.Event{
		{Type: pointer.Press, Source: pointer.Touch, PointerID: 5, Position: at(10, 10)},
		{Type: pointer.Press, Source: pointer.Touch, PointerID: 6, Position: at(50, 10)},
		{Type: pointer.Drag, Source: pointer.Touch, PointerID: 6, Position: at(60, 10)},
		{Type: pointer.Cancel, Source: pointer.Touch},
	} {
		tr.Translate(e, &out)
	}

	if len(out) != 5 {
		t.Fatalf("got %d samples: %+v", len(out), out)
	}
	if out[0].Pointer != 0 || out[1].Pointer != 1 || out[2].Pointer != 1 {
		t.Errorf("pointers = %d,%d,%d", out[0].Pointer, out[1].Pointer, out[2].Pointer)
	}
	for _, up := range out[3:] {
		if up.Kind != catkin.SampleTouchUp {
			t.Errorf("cancel produced %v", up.Kind)
		}
		if up.Pointer == 1 && up.X != 60 {
			t.Errorf("pointer 1 lifted at %v, want last position 60", up.X)
		}
	}
}

func TestScroll(t *testing.T) {
	tr := NewTranslator()
	var out sink
	tr.Translate(pointer.Event{Type: pointer.Scroll, Source: pointer.Mouse, Scroll: at(0, 3)}, &out)
	if len(out) != 1 || out[0].Kind != catkin.SampleScrolled || out[0].ScrollY != 3 {
		t.Errorf("got %+v", out)
	}
}

func TestKeyModifiers(t *testing.T) {
	tr := NewTranslator()
	var out sink

	tr.Translate(key.Event{Name: "Z", Modifiers: key.ModCtrl}, &out)
	tr.Translate(key.Event{Name: key.NameEscape}, &out)

	tests := []struct {
		kind catkin.SampleKind
		key  catkin.Key
	}{
		{catkin.SampleKeyDown, catkin.KeyControl},
		{catkin.SampleKeyDown, catkin.KeyZ},
		{catkin.SampleKeyUp, catkin.KeyZ},
		{catkin.SampleKeyUp, catkin.KeyControl},
		{catkin.SampleKeyDown, catkin.KeyEscape},
		{catkin.SampleKeyUp, catkin.KeyEscape},
	}
	if len(out) != len(tests) {
		t.Fatalf("got %d samples: %+v", len(out), out)
	}
	for i, tt := range tests {
		if out[i].Kind != tt.kind || out[i].Key != tt.key {
			t.Errorf("sample %d = %v %v, want %v %v", i, out[i].Kind, out[i].Key, tt.kind, tt.key)
		}
	}
}

func TestEditEvent(t *testing.T) {
	tr := NewTranslator()
	var out sink
	tr.Translate(key.EditEvent{Text: "hé"}, &out)
	if len(out) != 2 || out[0].Char != 'h' || out[1].Char != 'é' {
		t.Errorf("got %+v", out)
	}
}

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		want catkin.Key
	}{
		{"A", catkin.KeyA},
		{"7", catkin.Key7},
		{"F5", catkin.KeyF5},
		{key.NameTab, catkin.KeyTab},
		{"Space", catkin.KeySpace},
		{"?", catkin.KeyUnknown},
	}
	for _, tt := range tests {
		if got := keyFromName(tt.name); got != tt.want {
			t.Errorf("keyFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
