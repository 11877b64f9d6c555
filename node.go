package catkin

import "fmt"

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// --- ID counter ---

// nodeIDCounter is a plain counter; catkin is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is an element of the scene graph that receives input. A single flat
// struct is used for every element; behavior is attached with listeners.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node
	stage    *Stage // set on the root only

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Width and Height give the local hit bounds (0,0)-(Width,Height) when
	// HitShape is nil. A node with neither is never hit itself.
	Width, Height float64

	// Cached local matrix, recomputed when transformDirty is set.
	localTransform [6]float64
	transformDirty bool

	// Visibility & interaction
	Visible   bool
	Touchable Touchable

	// Ordering; higher ZIndex children are hit first.
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Hit testing
	HitShape HitShape

	listeners        Chain[EventListener]
	captureListeners Chain[EventListener]

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted hit order
}

// NewNode creates a node with no hit area. Give it a HitShape or a size to
// make it hittable; without either it still routes events for its children.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
	return n
}

// NewSizedNode creates a node hittable over (0,0)-(w,h) in local space.
func NewSizedNode(name string, w, h float64) *Node {
	n := NewNode(name)
	n.Width = w
	n.Height = h
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("catkin: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("catkin: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("catkin: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("catkin: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("catkin: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("catkin: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("catkin: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childrenSorted = false
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("catkin: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("catkin: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.childrenSorted = false
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// IsDescendantOf reports whether n is a or one of a's descendants.
func (n *Node) IsDescendantOf(a *Node) bool {
	return isAncestor(a, n)
}

// Root returns the topmost ancestor of n (n itself when it has no parent).
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Stage returns the stage whose root n descends from, or nil.
func (n *Node) Stage() *Stage {
	return n.Root().stage
}

// --- Listeners ---

// AddListener registers l for the target and bubble phases.
func (n *Node) AddListener(l EventListener) error {
	if err := n.listeners.Add(l); err != nil {
		return fmt.Errorf("node %q: %w", n.Name, err)
	}
	return nil
}

// RemoveListener unregisters l. Reports whether it was registered.
func (n *Node) RemoveListener(l EventListener) bool {
	return n.listeners.Remove(l)
}

// AddCaptureListener registers l for the capture phase. Capture listeners
// on the target itself run before its regular listeners.
func (n *Node) AddCaptureListener(l EventListener) error {
	if err := n.captureListeners.Add(l); err != nil {
		return fmt.Errorf("node %q: %w", n.Name, err)
	}
	return nil
}

// RemoveCaptureListener unregisters a capture listener.
func (n *Node) RemoveCaptureListener(l EventListener) bool {
	return n.captureListeners.Remove(l)
}

// ClearListeners unregisters every listener and capture listener.
func (n *Node) ClearListeners() {
	n.listeners.Clear()
	n.captureListeners.Clear()
}

// NumListeners returns the number of regular listeners.
func (n *Node) NumListeners() int {
	return n.listeners.Len()
}

// --- Event propagation ---

// maxInlineAncestors sizes the on-stack ancestor buffer used by Fire.
const maxInlineAncestors = 16

// Fire sends ev to this node's listeners and its ancestors' listeners:
// capture listeners from the root down to the parent, then this node's
// capture and regular listeners, then, if the event bubbles, regular
// listeners from the parent up to the root. Stop ends propagation after the
// current node. Fire returns whether the event was cancelled.
func (n *Node) Fire(ev Event) bool {
	e := ev.Base()
	if e.stage == nil {
		e.stage = n.Stage()
	}
	if e.target == nil {
		e.target = n
	}

	var buf [maxInlineAncestors]*Node
	ancestors := buf[:0]
	for p := n.Parent; p != nil; p = p.Parent {
		ancestors = append(ancestors, p)
	}

	defer func() {
		e.listenerNode = nil
		e.capture = false
	}()

	// Capture: root first.
	for i := len(ancestors) - 1; i >= 0; i-- {
		ancestors[i].notify(ev, true)
		if e.stopped {
			return e.cancelled
		}
	}

	n.notify(ev, true)
	if e.stopped {
		return e.cancelled
	}
	n.notify(ev, false)
	if !e.bubbles || e.stopped {
		return e.cancelled
	}

	// Bubble: parent first.
	for _, p := range ancestors {
		p.notify(ev, false)
		if e.stopped {
			return e.cancelled
		}
	}
	return e.cancelled
}

// notify delivers ev to one of n's listener chains. A listener returning true
// handles the event; a handled touch down also registers that listener for
// the pointer's touch focus.
func (n *Node) notify(ev Event, capture bool) bool {
	e := ev.Base()
	chain := &n.listeners
	if capture {
		chain = &n.captureListeners
	}
	if chain.Len() == 0 {
		return e.cancelled
	}
	e.listenerNode = n
	e.capture = capture

	err := chain.Notify(func(l EventListener) {
		if !l.Handle(ev) {
			return
		}
		e.handled = true
		in, ok := ev.(*InputEvent)
		if ok && in.Type == InputTouchDown && in.TouchFocus() && e.stage != nil {
			e.stage.AddTouchFocus(l, n, e.target, in.Pointer, in.Button)
		}
	})
	if err != nil {
		reportError(e.stage, fmt.Errorf("notify %s on %q: %w", eventName(ev), n.Name, err))
	}
	return e.cancelled
}

// eventName describes ev for error messages and debug output.
func eventName(ev Event) string {
	switch e := ev.(type) {
	case *InputEvent:
		return e.Type.String()
	case *ChangeEvent:
		return "change"
	case *FocusEvent:
		return "focus"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

// --- Hit testing ---

// Hit returns the deepest touchable node under the stage point (sx, sy),
// searching children topmost first, or nil.
func (n *Node) Hit(sx, sy float64) *Node {
	if !n.Visible || n.Touchable == TouchDisabled {
		return nil
	}
	children := n.children
	if len(children) > 1 {
		if !n.childrenSorted {
			n.rebuildSortedChildren()
		}
		if n.sortedChildren != nil {
			children = n.sortedChildren
		}
	}
	for i := len(children) - 1; i >= 0; i-- {
		if hit := children[i].Hit(sx, sy); hit != nil {
			return hit
		}
	}
	if n.Touchable == TouchChildrenOnly {
		return nil
	}
	lx, ly := n.StageToLocal(sx, sy)
	if nodeContainsLocal(n, lx, ly) {
		return n
	}
	return nil
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's Width and Height.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// rebuildSortedChildren fills sortedChildren with a stable ZIndex ordering.
func (n *Node) rebuildSortedChildren() {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	// Stable insertion sort by ZIndex.
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants. Any stage focus held by the subtree
// is released first.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if s := n.Stage(); s != nil {
		s.forgetSubtree(n)
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.UserData = nil
	n.ClearListeners()
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
