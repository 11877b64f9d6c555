package catkin

import "math"

// Vec2 is a 2D vector used for positions, deltas, and velocities throughout
// the API.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Dst returns the Euclidean distance between v and o.
func (v Vec2) Dst(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Button identifies a mouse button. Touch contacts report ButtonLeft.
type Button int8

const (
	ButtonLeft    Button = iota // primary (left) mouse button
	ButtonRight                 // secondary (right) mouse button
	ButtonMiddle                // middle mouse button (scroll wheel click)
	ButtonBack                  // back navigation button
	ButtonForward               // forward navigation button
)

// ButtonNone marks samples without a button (hover, keys). Filters treat it
// as "any button".
const ButtonNone Button = -1

// String returns the lower-case button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "none"
	}
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Touchable controls whether a node and its children receive pointer input.
type Touchable uint8

const (
	TouchEnabled        Touchable = iota // node and children are hit tested
	TouchDisabled                        // neither node nor children are hit tested
	TouchChildrenOnly                    // only children are hit tested
)

// GestureType identifies a classified gesture reported to an EntityStore.
type GestureType uint8

const (
	GestureTap       GestureType = iota // one or more quick presses in place
	GestureLongPress                    // press held past the long-press delay
	GestureFling                        // release while moving fast
	GesturePan                          // drag outside the tap rectangle
	GesturePanStop                      // release after panning
	GestureZoom                         // two-pointer distance change
	GesturePinch                        // two-pointer position change
	GesturePinchStop                    // one of two pinch pointers lifted
)

// String returns the gesture name.
func (g GestureType) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureLongPress:
		return "longPress"
	case GestureFling:
		return "fling"
	case GesturePan:
		return "pan"
	case GesturePanStop:
		return "panStop"
	case GestureZoom:
		return "zoom"
	case GesturePinch:
		return "pinch"
	case GesturePinchStop:
		return "pinchStop"
	default:
		return "unknown"
	}
}
