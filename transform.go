package catkin

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the node's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) [6]float64 {
	sx := n.ScaleX
	sy := n.ScaleY

	sin, cos := math.Sincos(n.Rotation)

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(n.SkewY)
	}

	// After Scale * Translate(-pivot) and Skew:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := n.PivotX
	py := n.PivotY
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	return [6]float64{ra, rb, rc, rd, rtx + n.X, rty + n.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformVector applies the linear part of an affine matrix to a vector.
// Translation does not affect deltas or velocities.
func transformVector(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// local returns n's cached local matrix, recomputing it when dirty.
func (n *Node) local() [6]float64 {
	if n.transformDirty {
		n.localTransform = computeLocalTransform(n)
		n.transformDirty = false
	}
	return n.localTransform
}

// StageTransform returns the matrix mapping n's local space to stage space.
// It is recomputed from the ancestor chain on every call, so it is always
// current even mid-dispatch.
func (n *Node) StageTransform() [6]float64 {
	if n.Parent == nil {
		return n.local()
	}
	return multiplyAffine(n.Parent.StageTransform(), n.local())
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// MoveBy offsets the node's local position.
func (n *Node) MoveBy(dx, dy float64) {
	n.SetPosition(n.X+dx, n.Y+dy)
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetRotation sets the node's rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetSkew sets the node's SkewX and SkewY and marks it dirty.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX = sx
	n.SkewY = sy
	n.transformDirty = true
}

// SetPivot sets the node's PivotX and PivotY and marks it dirty.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.transformDirty = true
}

// SetSize sets the node's hit bounds.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
}

// MarkDirty marks the node's transform as dirty, forcing recomputation.
// Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// StageToLocal converts a stage-space point to this node's local coordinate space.
func (n *Node) StageToLocal(sx, sy float64) (lx, ly float64) {
	inv := invertAffine(n.StageTransform())
	return transformPoint(inv, sx, sy)
}

// LocalToStage converts a local-space point to stage space.
func (n *Node) LocalToStage(lx, ly float64) (sx, sy float64) {
	return transformPoint(n.StageTransform(), lx, ly)
}

// StageToLocalVector converts a stage-space delta or velocity to local space.
// It equals StageToLocal(v) - StageToLocal(0, 0).
func (n *Node) StageToLocalVector(vx, vy float64) (lx, ly float64) {
	inv := invertAffine(n.StageTransform())
	return transformVector(inv, vx, vy)
}

// ParentToLocal converts a point in the parent's space to this node's space.
func (n *Node) ParentToLocal(px, py float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.local()), px, py)
}
