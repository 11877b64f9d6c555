package catkin

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a physical key. Backends translate their own key codes to
// these values.
type Key uint16

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeySpace
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyMinus
	KeyEqual
	KeyComma
	KeyPeriod
	KeySlash

	KeyShift
	KeyControl
	KeyAlt
	KeyMeta

	keyCount
)

var keyNames = func() [keyCount]string {
	var names [keyCount]string
	names[KeyUnknown] = "unknown"
	for k := KeyA; k <= KeyZ; k++ {
		names[k] = string(rune('a' + int(k-KeyA)))
	}
	for k := Key0; k <= Key9; k++ {
		names[k] = string(rune('0' + int(k-Key0)))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		names[k] = fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	for k, name := range map[Key]string{
		KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
		KeyEnter: "enter", KeyEscape: "escape", KeySpace: "space", KeyTab: "tab",
		KeyBackspace: "backspace", KeyDelete: "delete", KeyInsert: "insert",
		KeyHome: "home", KeyEnd: "end", KeyPageUp: "pageup", KeyPageDown: "pagedown",
		KeyMinus: "minus", KeyEqual: "equal", KeyComma: "comma", KeyPeriod: "period",
		KeySlash: "slash",
		KeyShift: "shift", KeyControl: "ctrl", KeyAlt: "alt", KeyMeta: "meta",
	} {
		names[k] = name
	}
	return names
}()

// keyAliases are extra spellings accepted by ParseKey.
var keyAliases = map[string]Key{
	"esc":       KeyEscape,
	"return":    KeyEnter,
	"del":       KeyDelete,
	"pgup":      KeyPageUp,
	"pgdn":      KeyPageDown,
	"control":   KeyControl,
	"option":    KeyAlt,
	"cmd":       KeyMeta,
	"command":   KeyMeta,
	"super":     KeyMeta,
	"-":         KeyMinus,
	"=":         KeyEqual,
	",":         KeyComma,
	".":         KeyPeriod,
	"/":         KeySlash,
	"arrowup":   KeyUp,
	"arrowdown": KeyDown,
}

// String returns the lower-case key name used by ParseKey.
func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey returns the key with the given name. Matching is case-insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeyUnknown, fmt.Errorf("parse key: %w", ErrEmptyKey)
	}
	if k, ok := keyAliases[name]; ok {
		return k, nil
	}
	for k := KeyA; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("parse key %q: %w", name, ErrUnknownKey)
}

// Modifier returns the modifier flag a modifier key sets, or 0.
func (k Key) Modifier() KeyModifiers {
	switch k {
	case KeyShift:
		return ModShift
	case KeyControl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	}
	return 0
}

// KeyChord is a key together with the modifiers that must be held.
type KeyChord struct {
	Key  Key
	Mods KeyModifiers
}

// ParseKeyChord parses chords such as "ctrl+shift+z" or "F5".
func ParseKeyChord(s string) (KeyChord, error) {
	parts := strings.Split(s, "+")
	var c KeyChord
	for i, p := range parts {
		k, err := ParseKey(p)
		if err != nil {
			return KeyChord{}, fmt.Errorf("parse chord %q: %w", s, err)
		}
		if i < len(parts)-1 {
			m := k.Modifier()
			if m == 0 {
				return KeyChord{}, fmt.Errorf("parse chord %q: %q is not a modifier: %w", s, p, ErrUnknownKey)
			}
			c.Mods |= m
			continue
		}
		c.Key = k
	}
	return c, nil
}

// String formats the chord the way ParseKeyChord reads it.
func (c KeyChord) String() string {
	var b strings.Builder
	for _, m := range [...]struct {
		flag KeyModifiers
		name string
	}{{ModCtrl, "ctrl"}, {ModShift, "shift"}, {ModAlt, "alt"}, {ModMeta, "meta"}} {
		if c.Mods&m.flag != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.Key.String())
	return b.String()
}

// KeyBindings maps key chords to named actions. Each Stage owns one.
type KeyBindings struct {
	actions map[KeyChord]string
}

// NewKeyBindings creates an empty binding table.
func NewKeyBindings() *KeyBindings {
	return &KeyBindings{actions: make(map[KeyChord]string)}
}

// Bind parses chord and binds it to action, replacing any previous binding of
// the same chord.
func (b *KeyBindings) Bind(action, chord string) error {
	c, err := ParseKeyChord(chord)
	if err != nil {
		return err
	}
	b.BindChord(action, c)
	return nil
}

// BindChord binds c to action.
func (b *KeyBindings) BindChord(action string, c KeyChord) {
	if b.actions == nil {
		b.actions = make(map[KeyChord]string)
	}
	b.actions[c] = action
}

// Unbind removes every chord bound to action.
func (b *KeyBindings) Unbind(action string) {
	for c, a := range b.actions {
		if a == action {
			delete(b.actions, c)
		}
	}
}

// Clear removes all bindings.
func (b *KeyBindings) Clear() {
	clear(b.actions)
}

// Action returns the action bound to key with exactly mods held.
func (b *KeyBindings) Action(key Key, mods KeyModifiers) (string, bool) {
	a, ok := b.actions[KeyChord{Key: key, Mods: mods}]
	return a, ok
}

// Chords returns the chords bound to action in a stable order.
func (b *KeyBindings) Chords(action string) []KeyChord {
	var out []KeyChord
	for c, a := range b.actions {
		if a == action {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Mods < out[j].Mods
	})
	return out
}

// Load replaces the bindings with the action → chords table from a Config.
// A chord listed under two actions is an error. On error the existing
// bindings are left unchanged.
func (b *KeyBindings) Load(table map[string][]string) error {
	next, err := parseBindingTable(table)
	if err != nil {
		return err
	}
	b.actions = next
	return nil
}

// parseBindingTable walks actions in name order so the reported error does
// not depend on map iteration.
func parseBindingTable(table map[string][]string) (map[KeyChord]string, error) {
	names := make([]string, 0, len(table))
	for action := range table {
		names = append(names, action)
	}
	sort.Strings(names)

	next := make(map[KeyChord]string)
	for _, action := range names {
		for _, s := range table[action] {
			c, err := ParseKeyChord(s)
			if err != nil {
				return nil, fmt.Errorf("key binding %q: %w", action, err)
			}
			if prev, ok := next[c]; ok && prev != action {
				return nil, fmt.Errorf("key binding %q: %s already bound to %q: %w", action, c, prev, ErrDuplicateChord)
			}
			next[c] = action
		}
	}
	return next, nil
}

// KeyBindingListener fires bound actions on key down. It looks chords up in
// Bindings, or in the stage's bindings when Bindings is nil.
type KeyBindingListener struct {
	Bindings *KeyBindings

	// OnAction is called with the bound action. Returning true handles the
	// event.
	OnAction func(action string, e *InputEvent) bool
}

// Handle implements EventListener.
func (l *KeyBindingListener) Handle(ev Event) bool {
	e, ok := ev.(*InputEvent)
	if !ok || e.Type != InputKeyDown || l.OnAction == nil {
		return false
	}
	b := l.Bindings
	if b == nil {
		if s := e.Stage(); s != nil {
			b = s.KeyBindings()
		}
	}
	if b == nil {
		return false
	}
	action, ok := b.Action(e.KeyCode, e.Modifiers)
	if !ok {
		return false
	}
	return l.OnAction(action, e)
}
