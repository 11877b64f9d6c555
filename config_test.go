package catkin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
debug = true

[gesture]
tap_half_width = 8
long_press_seconds = 0.5

[click]
tap_square_size = 20

[keys]
undo = ["ctrl+z", "cmd+z"]
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gesture.TapHalfWidth != 8 || cfg.Gesture.LongPressSeconds != 0.5 {
		t.Errorf("gesture = %+v", cfg.Gesture)
	}
	// Omitted keys keep their defaults.
	if cfg.Gesture.TapHalfHeight != 20 || cfg.Gesture.MaxFlingDelay != 0.15 {
		t.Errorf("defaults lost: %+v", cfg.Gesture)
	}
	if cfg.Click.TapSquareSize != 20 || cfg.Click.TapCountInterval != 0.4 {
		t.Errorf("click = %+v", cfg.Click)
	}
	if len(cfg.Keys["undo"]) != 2 || !cfg.Debug {
		t.Errorf("keys = %v debug = %t", cfg.Keys, cfg.Debug)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"syntax", `[gesture`, false},
		{"wrong type", `[gesture]
tap_half_width = "wide"`, false},
		{"zero tap rectangle", `[gesture]
tap_half_width = 0`, true},
		{"negative interval", `[gesture]
tap_count_interval = -1`, true},
		{"zero long press", `[gesture]
long_press_seconds = 0`, true},
		{"negative fling delay", `[gesture]
max_fling_delay = -0.1`, true},
		{"negative tap square", `[click]
tap_square_size = -1`, true},
		{"bad chord", `[keys]
undo = ["ctrl+nope"]`, false},
		{"duplicate chord", `[keys]
undo = ["ctrl+z"]
zap = ["ctrl+z"]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.toml")
	if _, err := LoadConfig(path); err == nil {
		t.Error("missing file should fail")
	}
	writeFile(t, path, "[gesture]\nmax_fling_delay = 0.2\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gesture.MaxFlingDelay != 0.2 {
		t.Errorf("max_fling_delay = %v", cfg.Gesture.MaxFlingDelay)
	}
}

func TestConfigWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.toml")
	writeFile(t, path, "[gesture]\ntap_half_width = 10\n")

	w, err := WatchConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	replaceFile(t, path, "[gesture]\ntap_half_width = 30\n")
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-w.Configs():
			reloaded = cfg.Gesture.TapHalfWidth == 30
		case err := <-w.Errors():
			t.Fatalf("watch error: %v", err)
		case <-timeout:
			t.Fatal("no reload")
		}
	}

	replaceFile(t, path, "[gesture]\ntap_half_width = -1\n")
	select {
	case err := <-w.Errors():
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("err = %v, want ErrInvalidConfig", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestStageWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.toml")
	writeFile(t, path, "[keys]\nquit = [\"esc\"]\n")

	s := NewStage()
	defer s.Close()
	if err := s.WatchConfig(path); err != nil {
		t.Fatal(err)
	}
	if a, ok := s.KeyBindings().Action(KeyEscape, 0); !ok || a != "quit" {
		t.Fatalf("initial bindings not applied: %q %t", a, ok)
	}

	replaceFile(t, path, "[gesture]\ntap_half_width = 5\n")
	deadline := time.Now().Add(5 * time.Second)
	for s.Config().Gesture.TapHalfWidth != 5 {
		if time.Now().After(deadline) {
			t.Fatal("reload never applied by Update")
		}
		time.Sleep(10 * time.Millisecond)
		s.Update(0)
	}
	if _, ok := s.KeyBindings().Action(KeyEscape, 0); ok {
		t.Error("reload should replace key bindings")
	}
}

func TestStageWatchConfigErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewStage()
	defer s.Close()
	if err := s.WatchConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}

	path := filepath.Join(dir, "input.toml")
	writeFile(t, path, "debug = false\n")
	if err := s.WatchConfig(path); err != nil {
		t.Fatal(err)
	}
	errs := make(chan error, 4)
	s.OnError = func(err error) { errs <- err }

	replaceFile(t, path, "[click]\ntap_square_size = -3\n")
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.Update(0)
		select {
		case err := <-errs:
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v", err)
			}
			if s.Config().Click.TapSquareSize != 14 {
				t.Error("bad reload replaced the config")
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("reload error never reported")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// replaceFile writes data next to path and renames it over path, so a
// watcher never reads a half-written file.
func replaceFile(t *testing.T, path, data string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, data)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}
