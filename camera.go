package catkin

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps screen coordinates to stage coordinates: position, zoom,
// rotation, and viewport. A Stage with a camera converts every sample
// through it before hit testing.
type Camera struct {
	// X and Y are the stage-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle the camera covers.
	Viewport Rect

	followTarget  *Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the stage-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewCamera creates a Camera with default values and the given viewport.
// The camera starts centered on the viewport, so screen and stage
// coordinates coincide until it moves.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow makes the camera track a target node with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given stage position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// StopScroll cancels a ScrollTo in progress, leaving the camera where it is.
func (c *Camera) StopScroll() {
	c.scrollTween = nil
}

// IsScrolling reports whether a ScrollTo is in progress.
func (c *Camera) IsScrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. Call this after modifying X/Y directly (e.g. in a
// pan callback). No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.dirty = true
}

// update advances follow, scroll, and bounds clamping. Called from Stage.Update().
func (c *Camera) update(dt float32) {
	prevX, prevY := c.X, c.Y
	prevZoom, prevRot := c.Zoom, c.Rotation

	// Follow target
	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		tx, ty := c.followTarget.LocalToStage(0, 0)
		targetX := tx + c.followOffsetX
		targetY := ty + c.followOffsetY
		c.X += (targetX - c.X) * c.followLerp
		c.Y += (targetY - c.Y) * c.followLerp
	}

	// Scroll animation
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	// Bounds clamping
	if c.BoundsEnabled {
		c.clampToBounds()
	}

	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	c.viewMatrix = [6]float64{a, cc, b, d, tx, ty}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts stage coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to stage coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// ScreenToWorldVector converts a screen-space delta or velocity to stage
// space, ignoring the camera position.
func (c *Camera) ScreenToWorldVector(vx, vy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformVector(c.invViewMatrix, vx, vy)
	return
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in stage space.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	inv := c.invViewMatrix

	vx := c.Viewport.X
	vy := c.Viewport.Y
	vr := vx + c.Viewport.Width
	vb := vy + c.Viewport.Height

	// Transform the four viewport corners to stage space.
	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// --- Gesture control ---

// CameraController is a GestureHandler that drives a Camera: pan drags the
// view, zoom scales it, and fling glides it to a stop. Feed it screen
// coordinates, typically by putting its classifier's Processor in an
// InputMultiplexer after the Stage so it only sees unhandled samples.
type CameraController struct {
	Camera *Camera

	// MinZoom and MaxZoom bound pinch zoom. Zero means unbounded.
	MinZoom, MaxZoom float64

	// FlingSeconds is how long a fling glide lasts; FlingEase shapes it.
	FlingSeconds float32
	FlingEase    ease.TweenFunc

	startZoom float64
	zooming   bool
}

// NewCameraController creates a controller with a 0.5 s ease-out fling.
func NewCameraController(cam *Camera) *CameraController {
	return &CameraController{
		Camera:       cam,
		FlingSeconds: 0.5,
		FlingEase:    ease.OutQuad,
	}
}

func (cc *CameraController) TouchDown(x, y float64, pointer int, button Button) bool {
	cc.Camera.StopScroll()
	return false
}

func (cc *CameraController) Tap(x, y float64, count int, button Button) bool { return false }

func (cc *CameraController) LongPress(x, y float64) bool { return false }

// Fling glides in the fling direction. An ease-out quad starting at speed v
// covers v*T/2 over duration T, so the glide starts at the release speed.
func (cc *CameraController) Fling(vx, vy float64, button Button) bool {
	wx, wy := cc.Camera.ScreenToWorldVector(vx, vy)
	t := float64(cc.FlingSeconds)
	cc.Camera.ScrollTo(cc.Camera.X-wx*t/2, cc.Camera.Y-wy*t/2, cc.FlingSeconds, cc.FlingEase)
	return true
}

func (cc *CameraController) Pan(x, y, dx, dy float64) bool {
	wx, wy := cc.Camera.ScreenToWorldVector(dx, dy)
	cc.Camera.X -= wx
	cc.Camera.Y -= wy
	cc.Camera.ClampToBounds()
	return true
}

func (cc *CameraController) PanStop(x, y float64, pointer int, button Button) bool { return false }

func (cc *CameraController) Zoom(initialDistance, distance float64) bool {
	if !cc.zooming {
		cc.zooming = true
		cc.startZoom = cc.Camera.Zoom
	}
	if initialDistance <= 0 {
		return false
	}
	z := cc.startZoom * distance / initialDistance
	if cc.MinZoom > 0 {
		z = math.Max(z, cc.MinZoom)
	}
	if cc.MaxZoom > 0 {
		z = math.Min(z, cc.MaxZoom)
	}
	cc.Camera.Zoom = z
	cc.Camera.ClampToBounds()
	return true
}

func (cc *CameraController) Pinch(i1, i2, p1, p2 Vec2) bool { return false }

func (cc *CameraController) PinchStop() {
	cc.zooming = false
}
