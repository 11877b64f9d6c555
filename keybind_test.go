package catkin

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr error
	}{
		{"a", KeyA, nil},
		{"Z", KeyZ, nil},
		{"7", Key7, nil},
		{"F12", KeyF12, nil},
		{" enter ", KeyEnter, nil},
		{"return", KeyEnter, nil},
		{"esc", KeyEscape, nil},
		{"cmd", KeyMeta, nil},
		{"/", KeySlash, nil},
		{"", KeyUnknown, ErrEmptyKey},
		{"hyper", KeyUnknown, ErrUnknownKey},
		{"unknown", KeyUnknown, ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyStringRoundTrip(t *testing.T) {
	for k := KeyA; k < keyCount; k++ {
		got, err := ParseKey(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKey(%q) = %v, %v, want %v", k.String(), got, err, k)
		}
	}
	if Key(9999).String() != "unknown" {
		t.Error("out of range key should be unknown")
	}
}

func TestParseKeyChord(t *testing.T) {
	tests := []struct {
		in      string
		want    KeyChord
		str     string
		wantErr bool
	}{
		{"z", KeyChord{Key: KeyZ}, "z", false},
		{"ctrl+z", KeyChord{Key: KeyZ, Mods: ModCtrl}, "ctrl+z", false},
		{"Shift+Ctrl+Z", KeyChord{Key: KeyZ, Mods: ModCtrl | ModShift}, "ctrl+shift+z", false},
		{"cmd+alt+f5", KeyChord{Key: KeyF5, Mods: ModMeta | ModAlt}, "alt+meta+f5", false},
		{"a+z", KeyChord{}, "", true},
		{"ctrl+", KeyChord{}, "", true},
		{"ctrl+nope", KeyChord{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyChord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKey) && !errors.Is(err, ErrEmptyKey) {
					t.Errorf("err = %v should wrap a key error", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("chord = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestKeyBindings(t *testing.T) {
	b := NewKeyBindings()
	if err := b.Bind("undo", "ctrl+z"); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind("undo", "cmd+z"); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind("redo", "ctrl+shift+z"); err != nil {
		t.Fatal(err)
	}
	if err := b.Bind("bad", "ctrl+?"); err == nil {
		t.Error("expected error for unknown key")
	}

	if a, ok := b.Action(KeyZ, ModCtrl); !ok || a != "undo" {
		t.Errorf("Action(ctrl+z) = %q, %t", a, ok)
	}
	if a, _ := b.Action(KeyZ, ModCtrl|ModShift); a != "redo" {
		t.Errorf("Action(ctrl+shift+z) = %q", a)
	}
	if _, ok := b.Action(KeyZ, 0); ok {
		t.Error("bare z should not be bound")
	}

	chords := b.Chords("undo")
	if len(chords) != 2 || chords[0].Mods != ModCtrl || chords[1].Mods != ModMeta {
		t.Errorf("Chords(undo) = %v", chords)
	}

	b.Unbind("undo")
	if _, ok := b.Action(KeyZ, ModCtrl); ok {
		t.Error("Unbind left a chord")
	}
	b.Clear()
	if _, ok := b.Action(KeyZ, ModCtrl|ModShift); ok {
		t.Error("Clear left a chord")
	}
}

func TestKeyBindingsLoad(t *testing.T) {
	b := NewKeyBindings()
	_ = b.Bind("keep", "f1")

	err := b.Load(map[string][]string{"zoom": {"ctrl+=", "bogus+x"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if a, ok := b.Action(KeyF1, 0); !ok || a != "keep" {
		t.Error("failed Load should keep the old bindings")
	}

	if err := b.Load(map[string][]string{"zoom": {"ctrl+=", "ctrl+plus"}}); err == nil {
		t.Fatal("plus is not a key name")
	}
	if err := b.Load(map[string][]string{"zoom": {"ctrl+="}, "quit": {"esc"}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Action(KeyF1, 0); ok {
		t.Error("Load should replace old bindings")
	}
	if a, _ := b.Action(KeyEqual, ModCtrl); a != "zoom" {
		t.Errorf("Action(ctrl+=) = %q", a)
	}
}

func TestKeyBindingsLoadDuplicateChord(t *testing.T) {
	tests := []struct {
		name    string
		table   map[string][]string
		wantErr bool
	}{
		{"two actions", map[string][]string{"redo": {"ctrl+y"}, "undo": {"ctrl+z", "ctrl+y"}}, true},
		{"alias spelling", map[string][]string{"undo": {"cmd+z"}, "zap": {"meta+z"}}, true},
		{"repeated in one action", map[string][]string{"undo": {"ctrl+z", "Ctrl+Z"}}, false},
		{"distinct", map[string][]string{"undo": {"ctrl+z"}, "redo": {"ctrl+shift+z"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map order varies between runs; every run must agree.
			for range 20 {
				b := NewKeyBindings()
				_ = b.Bind("keep", "f1")
				err := b.Load(tt.table)
				if (err != nil) != tt.wantErr {
					t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
				}
				if !tt.wantErr {
					continue
				}
				if !errors.Is(err, ErrDuplicateChord) {
					t.Fatalf("err = %v, want ErrDuplicateChord", err)
				}
				if a, ok := b.Action(KeyF1, 0); !ok || a != "keep" {
					t.Fatal("rejected table replaced the old bindings")
				}
			}
		})
	}
}

func TestKeyBindingListenerOwnTable(t *testing.T) {
	b := NewKeyBindings()
	_ = b.Bind("save", "ctrl+s")
	var got string
	l := &KeyBindingListener{Bindings: b, OnAction: func(action string, e *InputEvent) bool {
		got = action
		return true
	}}

	var e InputEvent
	e.Reset()
	e.Type = InputKeyDown
	e.KeyCode = KeyS
	e.Modifiers = ModCtrl
	if !l.Handle(&e) || got != "save" {
		t.Errorf("Handle = %q", got)
	}

	e.Type = InputKeyUp
	got = ""
	if l.Handle(&e) || got != "" {
		t.Error("key up should not fire actions")
	}
}
