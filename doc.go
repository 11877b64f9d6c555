// Package catkin is an input-event and gesture-recognition pipeline for a
// retained 2D scene graph.
//
// Backends turn platform input into [Sample] values (screen pixels plus a
// monotonic timestamp). A [Stage] consumes them as an [InputProcessor]: it hit
// tests its [Node] tree, fires [InputEvent]s through capture, target and
// bubble phases, and keeps touch focus so a listener that handles a touch
// down receives the rest of that touch even after the pointer leaves its
// node. Backend adapters live in ebitensrc, mobilesrc, giosrc and tcellsrc.
//
// # Quick start
//
//	stage := catkin.NewStage()
//	box := catkin.NewSizedNode("box", 120, 80)
//	box.SetPosition(40, 40)
//	stage.AddNode(box)
//
//	box.AddListener(catkin.NewClickListener(func(e *catkin.InputEvent, x, y float64) {
//		fmt.Println("clicked at", x, y)
//	}))
//
//	// each frame
//	src.Poll(stage.Queue())
//	stage.Update(dt)
//
// # Listeners
//
// Anything with a Handle(Event) bool method is an [EventListener]. Returning
// true marks the event handled. Listeners are kept in a [Chain], which
// iterates over a snapshot, so adding or removing listeners while an event
// is being delivered only affects later dispatches.
//
// [InputListener] splits input events into typed callbacks; [InputFuncs]
// lets you supply only the callbacks you need. [ClickListener], [Toggle],
// [FocusListener], [ChangeListener] and [KeyBindingListener] build on it.
//
// # Gestures
//
// A [GestureClassifier] turns touch samples into taps (with multi-tap
// counting), long presses, flings, pans, zooms and pinches. Feed it directly
// from an [InputMultiplexer] via [GestureClassifier.Processor], or add a
// [GestureAdapter] to a node to receive gestures in that node's local
// coordinates. Long presses are scheduled on the stage's [Timer], which
// advances in [Stage.Update].
//
// Thresholds come from [GestureConfig] and [ClickConfig], which can be loaded
// from a TOML file and hot reloaded with [Stage.WatchConfig].
//
// # Camera
//
// A [Camera] maps screen samples to stage space before hit testing. A
// [CameraController] is a [GestureHandler] that pans, zooms and flings the
// camera, animated with [gween].
//
// # Testing
//
// [Stage.InjectTap], [Stage.InjectDrag], [Stage.InjectLongPress] and
// [Stage.InjectPinch] queue synthetic samples stamped with the stage clock.
// A [TestRunner] replays the same actions from a JSON script.
//
// Gestures recognized on nodes with an EntityID are forwarded to an
// [EntityStore]; the ecs package provides one for [Donburi].
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package catkin
