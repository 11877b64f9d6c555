package catkin

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// GestureConfig holds the GestureClassifier thresholds. Durations are in
// seconds; sizes are in the classifier's input space.
type GestureConfig struct {
	TapHalfWidth     float64 `toml:"tap_half_width"`
	TapHalfHeight    float64 `toml:"tap_half_height"`
	TapCountInterval float64 `toml:"tap_count_interval"`
	LongPressSeconds float64 `toml:"long_press_seconds"`
	MaxFlingDelay    float64 `toml:"max_fling_delay"`
}

// DefaultGestureConfig returns the standard thresholds: a 40×40 tap
// rectangle, 0.4 s between counted taps, 1.1 s long press and 0.15 s fling
// window.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapHalfWidth:     20,
		TapHalfHeight:    20,
		TapCountInterval: 0.4,
		LongPressSeconds: 1.1,
		MaxFlingDelay:    0.15,
	}
}

// ClickConfig holds the ClickListener thresholds.
type ClickConfig struct {
	TapSquareSize    float64 `toml:"tap_square_size"`
	TapCountInterval float64 `toml:"tap_count_interval"`
}

// DefaultClickConfig returns a 14 pixel tap square and a 0.4 s multi-click
// interval.
func DefaultClickConfig() ClickConfig {
	return ClickConfig{
		TapSquareSize:    14,
		TapCountInterval: 0.4,
	}
}

// Config is the stage-wide input configuration.
type Config struct {
	Gesture GestureConfig `toml:"gesture"`
	Click   ClickConfig   `toml:"click"`

	// Keys maps action names to key chords, e.g. undo = ["ctrl+z"].
	Keys map[string][]string `toml:"keys"`

	Debug bool `toml:"debug"`
}

// DefaultConfig returns the default configuration with no key bindings.
func DefaultConfig() Config {
	return Config{
		Gesture: DefaultGestureConfig(),
		Click:   DefaultClickConfig(),
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	g := c.Gesture
	switch {
	case g.TapHalfWidth <= 0 || g.TapHalfHeight <= 0:
		return fmt.Errorf("gesture tap rectangle %gx%g: %w", g.TapHalfWidth, g.TapHalfHeight, ErrInvalidConfig)
	case g.TapCountInterval < 0:
		return fmt.Errorf("gesture tap_count_interval %g: %w", g.TapCountInterval, ErrInvalidConfig)
	case g.LongPressSeconds <= 0:
		return fmt.Errorf("gesture long_press_seconds %g: %w", g.LongPressSeconds, ErrInvalidConfig)
	case g.MaxFlingDelay < 0:
		return fmt.Errorf("gesture max_fling_delay %g: %w", g.MaxFlingDelay, ErrInvalidConfig)
	case c.Click.TapSquareSize < 0:
		return fmt.Errorf("click tap_square_size %g: %w", c.Click.TapSquareSize, ErrInvalidConfig)
	case c.Click.TapCountInterval < 0:
		return fmt.Errorf("click tap_count_interval %g: %w", c.Click.TapCountInterval, ErrInvalidConfig)
	}
	_, err := parseBindingTable(c.Keys)
	return err
}

// ParseConfig decodes TOML on top of DefaultConfig, so omitted keys keep
// their defaults.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a TOML file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigWatcher reloads a config file when it changes on disk. Reloads are
// delivered on Configs; only the newest unread config is kept. Failed
// reloads are delivered on Errors and the previous config stays in effect.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher

	configs chan Config
	errors  chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	done      sync.WaitGroup
}

// WatchConfig starts watching path. The file's directory is watched so that
// editors that replace the file on save are still seen.
func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	w := &ConfigWatcher{
		path:    abs,
		watcher: fsw,
		configs: make(chan Config, 1),
		errors:  make(chan error, 8),
		closeCh: make(chan struct{}),
	}
	w.done.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *ConfigWatcher) Path() string { return w.path }

// Configs delivers reloaded configurations.
func (w *ConfigWatcher) Configs() <-chan Config { return w.configs }

// Errors delivers reload and watch failures.
func (w *ConfigWatcher) Errors() <-chan error { return w.errors }

// Close stops watching. It is safe to call more than once.
func (w *ConfigWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.done.Wait()
		err = w.watcher.Close()
	})
	return err
}

func (w *ConfigWatcher) processLoop() {
	defer w.done.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.sendError(err)
		return
	}
	// Replace any unread config with the newer one.
	select {
	case <-w.configs:
	default:
	}
	select {
	case w.configs <- cfg:
	default:
	}
}

func (w *ConfigWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}
