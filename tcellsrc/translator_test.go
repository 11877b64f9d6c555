package tcellsrc

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/catkin"
)

type sink []catkin.Sample

func (s *sink) Push(smp catkin.Sample) { *s = append(*s, smp) }

func TestMouseClickAndDrag(t *testing.T) {
	tr := NewTranslator()
	tr.CellWidth, tr.CellHeight = 8, 16
	var out sink

	for _, e := range []*tcell.EventMouse{
		tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone),
		tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone),
		tcell.NewEventMouse(3, 1, tcell.ButtonPrimary, tcell.ModNone),
		tcell.NewEventMouse(3, 1, tcell.ButtonNone, tcell.ModNone),
	} {
		if !tr.Translate(e, &out) {
			t.Fatalf("Translate(%v) = false", e)
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
	if out[1].X != 8 || out[1].Y != 16 || out[1].Button != catkin.ButtonLeft {
		t.Errorf("down = %+v", out[1])
	}
	if out[2].X != 24 {
		t.Errorf("drag X = %v, want 24", out[2].X)
	}
}

func TestWheel(t *testing.T) {
	tr := NewTranslator()
	var out sink
	tr.Translate(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone), &out)

	var scrolls []catkin.Sample
	for _, s := range out {
		if s.Kind == catkin.SampleScrolled {
			scrolls = append(scrolls, s)
		}
	}
	if len(scrolls) != 1 || scrolls[0].ScrollY != 1 {
		t.Errorf("scrolls = %+v", scrolls)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want []catkin.Sample
	}{
		{
			name: "rune",
			ev:   tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone),
			want: []catkin.Sample{
				{Kind: catkin.SampleKeyDown, Key: catkin.KeyA},
				{Kind: catkin.SampleKeyTyped, Key: catkin.KeyA, Char: 'a'},
				{Kind: catkin.SampleKeyUp, Key: catkin.KeyA},
			},
		},
		{
			name: "ctrl letter",
			ev:   tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl),
			want: []catkin.Sample{
				{Kind: catkin.SampleKeyDown, Key: catkin.KeyControl},
				{Kind: catkin.SampleKeyDown, Key: catkin.KeyZ},
				{Kind: catkin.SampleKeyUp, Key: catkin.KeyZ},
				{Kind: catkin.SampleKeyUp, Key: catkin.KeyControl},
			},
		},
		{
			name: "function key",
			ev:   tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone),
			want: []catkin.Sample{
				{Kind: catkin.SampleKeyDown, Key: catkin.KeyF5},
				{Kind: catkin.SampleKeyUp, Key: catkin.KeyF5},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator()
			var out sink
			tr.Translate(tt.ev, &out)
			if len(out) != len(tt.want) {
				t.Fatalf("got %d samples: %+v", len(out), out)
			}
			for i, w := range tt.want {
				g := out[i]
				if g.Kind != w.Kind || g.Key != w.Key || g.Char != w.Char {
					t.Errorf("sample %d = %v %v %q, want %v %v %q", i, g.Kind, g.Key, g.Char, w.Kind, w.Key, w.Char)
				}
			}
		})
	}
}

func TestKeyBindingFromTerminal(t *testing.T) {
	stage := catkin.NewStage()
	if err := stage.KeyBindings().Bind("undo", "ctrl+z"); err != nil {
		t.Fatal(err)
	}
	var fired []string
	err := stage.Root().AddListener(&catkin.KeyBindingListener{
		OnAction: func(action string, e *catkin.InputEvent) bool {
			fired = append(fired, action)
			return true
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTranslator()
	tr.Translate(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), stage.Queue())
	stage.Update(0)

	if len(fired) != 1 || fired[0] != "undo" {
		t.Errorf("fired = %v, want [undo]", fired)
	}
	if stage.Modifiers() != 0 {
		t.Errorf("modifiers left held: %v", stage.Modifiers())
	}
}
