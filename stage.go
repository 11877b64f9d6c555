package catkin

// EntityStore is the interface for optional ECS integration.
// When set on a Stage, gestures recognized on nodes with an EntityID are
// forwarded to the ECS.
type EntityStore interface {
	EmitGesture(event GestureEvent)
}

// GestureEvent carries a recognized gesture for the ECS bridge.
type GestureEvent struct {
	Type     GestureType
	EntityID uint32

	// Position in the node's local space and in stage space.
	LocalX, LocalY float64
	StageX, StageY float64

	// Pan deltas or fling velocity, in local space.
	DeltaX, DeltaY float64

	Count   int // tap count
	Button  Button
	Pointer int

	// Zoom distances, in stage space.
	InitialDistance float64
	Distance        float64
}

// Stage is the top-level object that owns the node tree, routes input
// samples into it, and owns the per-stage services its listeners share:
// event pools, the long-press timer, key bindings and configuration.
//
// Stage implements InputProcessor. Feed it samples directly, through an
// InputMultiplexer, or by pushing them onto Queue and calling Update once per
// frame.
type Stage struct {
	root   *Node
	camera *Camera
	store  EntityStore
	debug  bool
	stats  debugStats

	// OnError receives dispatch failures. Nil logs them in debug mode.
	OnError func(error)

	config   Config
	watcher  *ConfigWatcher
	bindings *KeyBindings
	timer    *Timer
	tweens   []*TweenGroup

	inputEvents  EventPool[InputEvent, *InputEvent]
	focusEvents  EventPool[FocusEvent, *FocusEvent]
	changeEvents EventPool[ChangeEvent, *ChangeEvent]

	// Input state
	input         InputProcessor
	queue         SampleQueue
	touchFocus    Chain[*TouchFocus]
	pointers      [maxPointers]pointerState
	mouseX        float64
	mouseY        float64
	mods          KeyModifiers
	keyboardFocus *Node
	scrollFocus   *Node

	// Synthetic input
	clock       int64
	injectQueue []injected
	testRunner  *TestRunner
}

// NewStage creates a stage with a pre-created root node and DefaultConfig.
func NewStage() *Stage {
	root := NewNode("root")
	s := &Stage{
		root:     root,
		config:   DefaultConfig(),
		bindings: NewKeyBindings(),
		timer:    NewTimer(),
	}
	root.stage = s
	s.input = s
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// AddNode adds n as a child of the root.
func (s *Stage) AddNode(n *Node) {
	s.root.AddChild(n)
}

// Hit returns the topmost touchable node at the stage point, or nil.
func (s *Stage) Hit(x, y float64) *Node {
	return s.root.Hit(x, y)
}

// Timer returns the frame-driven scheduler advanced by Update.
func (s *Stage) Timer() *Timer {
	return s.timer
}

// KeyBindings returns the stage's key binding table.
func (s *Stage) KeyBindings() *KeyBindings {
	return s.bindings
}

// Queue returns the thread-safe sample queue drained by Update.
func (s *Stage) Queue() *SampleQueue {
	return &s.queue
}

// SetInputProcessor sets where Update delivers queued and injected samples.
// Use it to put a multiplexer with other processors in front of the stage.
// Nil restores the stage itself.
func (s *Stage) SetInputProcessor(p InputProcessor) {
	if p == nil {
		p = s
	}
	s.input = p
}

// SetCamera sets the camera used to convert sample screen coordinates to
// stage coordinates. Nil means screen and stage coordinates are the same.
func (s *Stage) SetCamera(cam *Camera) {
	s.camera = cam
}

// Camera returns the stage camera, or nil.
func (s *Stage) Camera() *Camera {
	return s.camera
}

// SetEntityStore sets the optional ECS bridge.
func (s *Stage) SetEntityStore(store EntityStore) {
	s.store = store
}

// EntityStore returns the ECS bridge, or nil.
func (s *Stage) EntityStore() EntityStore {
	return s.store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// recognized gestures, dispatch errors and per-frame sample counts are
// logged to stderr.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Config returns the active configuration.
func (s *Stage) Config() Config {
	return s.config
}

// ApplyConfig validates cfg and makes it the active configuration: key
// bindings are replaced and debug mode follows cfg.Debug. Gesture and click
// listeners created with the stage read it when their next gesture starts.
func (s *Stage) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.bindings.Load(cfg.Keys); err != nil {
		return err
	}
	s.config = cfg
	s.SetDebugMode(cfg.Debug)
	if s.debug {
		debugf("config applied: gesture=%+v click=%+v keys=%d", cfg.Gesture, cfg.Click, len(cfg.Keys))
	}
	return nil
}

// WatchConfig loads path, applies it, and reloads it on change. Reloads are
// applied by Update on the frame thread.
func (s *Stage) WatchConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if err := s.ApplyConfig(cfg); err != nil {
		return err
	}
	w, err := WatchConfig(path)
	if err != nil {
		return err
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.watcher = w
	return nil
}

// Close releases the config watcher, if any.
func (s *Stage) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// AddTween registers g to be advanced by Update until it is done.
func (s *Stage) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens = append(s.tweens, g)
	}
}

// Update runs one frame: applies config reloads, feeds injected and queued
// samples to the input processor, runs due timers, and advances the camera
// and tweens. dt is the frame time in seconds.
func (s *Stage) Update(dt float64) {
	s.pollConfig()

	if dt > 0 {
		s.clock += secondsToNanos(dt)
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()
	s.stats.consumed += s.queue.Drain(s.input)

	s.timer.Update(dt)

	if s.camera != nil {
		s.camera.update(float32(dt))
	}
	s.updateTweens(float32(dt))

	s.debugLogFrame()
}

// Now returns the stage clock in nanoseconds. It advances only in Update and
// stamps injected samples.
func (s *Stage) Now() int64 {
	return s.clock
}

func (s *Stage) pollConfig() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case cfg := <-s.watcher.Configs():
			if err := s.ApplyConfig(cfg); err != nil {
				s.reportError(err)
			}
		case err := <-s.watcher.Errors():
			s.reportError(err)
		default:
			return
		}
	}
}

func (s *Stage) updateTweens(dt float32) {
	kept := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			kept = append(kept, g)
		}
	}
	clear(s.tweens[len(kept):])
	s.tweens = kept
}

func (s *Stage) reportError(err error) {
	if s.OnError != nil {
		s.OnError(err)
		return
	}
	if s.debug {
		debugf("error: %v", err)
	}
}

// --- Event pools ---

// NewInputEvent returns a reset InputEvent from the stage pool. Return it
// with FreeInputEvent after firing.
func (s *Stage) NewInputEvent() *InputEvent {
	e := s.inputEvents.Acquire()
	e.stage = s
	return e
}

// FreeInputEvent returns e to the pool.
func (s *Stage) FreeInputEvent(e *InputEvent) {
	s.inputEvents.Release(e)
}

// NewChangeEvent returns a reset ChangeEvent from the stage pool.
func (s *Stage) NewChangeEvent() *ChangeEvent {
	e := s.changeEvents.Acquire()
	e.stage = s
	return e
}

// FreeChangeEvent returns e to the pool.
func (s *Stage) FreeChangeEvent(e *ChangeEvent) {
	s.changeEvents.Release(e)
}

// FireChange fires a ChangeEvent on n and reports whether a listener
// cancelled it. It works for nodes that are not on a stage.
func FireChange(n *Node) bool {
	s := n.Stage()
	if s == nil {
		var e ChangeEvent
		e.Reset()
		return n.Fire(&e)
	}
	e := s.NewChangeEvent()
	cancelled := n.Fire(e)
	s.FreeChangeEvent(e)
	return cancelled
}

// emitGesture forwards a gesture recognized on n to the entity store.
func (s *Stage) emitGesture(n *Node, ev GestureEvent) {
	if s == nil || s.store == nil || n == nil || n.EntityID == 0 {
		return
	}
	ev.EntityID = n.EntityID
	s.store.EmitGesture(ev)
}
