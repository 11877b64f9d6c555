package catkin

import "errors"

// Sentinel errors for listener registries and dispatch.
var (
	// ErrReentrantIterationLimit is returned when a chain is iterated more
	// deeply than it has snapshot buffers, for example when a listener
	// dispatches on the chain that is delivering to it, and that nested
	// dispatch does the same again.
	ErrReentrantIterationLimit = errors.New("catkin: reentrant iteration limit exceeded")

	// ErrNilListener is returned when a nil listener is registered.
	ErrNilListener = errors.New("catkin: listener cannot be nil")

	// ErrIndexOutOfRange is returned by positional registry operations.
	ErrIndexOutOfRange = errors.New("catkin: index out of range")
)

// Key parsing errors.
var (
	// ErrEmptyKey is returned when a key name is blank.
	ErrEmptyKey = errors.New("catkin: empty key name")

	// ErrUnknownKey is returned for unrecognized key or modifier names.
	ErrUnknownKey = errors.New("catkin: unknown key")

	// ErrDuplicateChord is returned when a key binding table binds one chord
	// to two actions.
	ErrDuplicateChord = errors.New("catkin: chord bound to more than one action")
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("catkin: invalid config")
