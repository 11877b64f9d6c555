package catkin

import "reflect"

// chainBuffers is the number of snapshot buffers a Chain owns, and therefore
// the deepest nesting of Dispatch/Notify calls it supports.
const chainBuffers = 2

// Chain is an ordered listener registry. Iteration works on a snapshot taken
// when it begins, so listeners may add or remove entries (including
// themselves) while being called; the change is seen by the next iteration.
//
// A listener may start a nested iteration of the same chain. Each active
// iteration holds one of two snapshot buffers; a third concurrent iteration
// fails with ErrReentrantIterationLimit and leaves the others untouched.
type Chain[T comparable] struct {
	items []T
	bufs  [chainBuffers][]T
	inUse [chainBuffers]bool
}

// Len returns the number of registered listeners.
func (c *Chain[T]) Len() int {
	return len(c.items)
}

// At returns the listener at index i.
func (c *Chain[T]) At(i int) T {
	return c.items[i]
}

// Contains reports whether l is registered.
func (c *Chain[T]) Contains(l T) bool {
	return c.indexOf(l) >= 0
}

// Add appends l to the end of the chain.
func (c *Chain[T]) Add(l T) error {
	if isNil(l) {
		return ErrNilListener
	}
	c.items = append(c.items, l)
	return nil
}

// AddAt inserts l at index, shifting later listeners back.
func (c *Chain[T]) AddAt(index int, l T) error {
	if isNil(l) {
		return ErrNilListener
	}
	if index < 0 || index > len(c.items) {
		return ErrIndexOutOfRange
	}
	var zero T
	c.items = append(c.items, zero)
	copy(c.items[index+1:], c.items[index:])
	c.items[index] = l
	return nil
}

// Remove unregisters the first occurrence of l. Reports whether it was found.
func (c *Chain[T]) Remove(l T) bool {
	i := c.indexOf(l)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// RemoveAt unregisters the listener at index and returns it.
func (c *Chain[T]) RemoveAt(index int) (T, error) {
	if index < 0 || index >= len(c.items) {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	l := c.items[index]
	c.removeAt(index)
	return l, nil
}

// Clear unregisters every listener.
func (c *Chain[T]) Clear() {
	clear(c.items)
	c.items = c.items[:0]
}

// Dispatch calls fn for each listener in registration order until one
// returns true. It reports whether any listener handled the call.
func (c *Chain[T]) Dispatch(fn func(T) bool) (bool, error) {
	slot, snap, err := c.begin()
	if err != nil {
		return false, err
	}
	defer c.end(slot)
	for _, l := range snap {
		if fn(l) {
			return true, nil
		}
	}
	return false, nil
}

// Notify calls fn for every listener in registration order.
func (c *Chain[T]) Notify(fn func(T)) error {
	slot, snap, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(slot)
	for _, l := range snap {
		fn(l)
	}
	return nil
}

// begin checks out a free snapshot buffer filled with the current listeners.
func (c *Chain[T]) begin() (int, []T, error) {
	for i := range c.bufs {
		if c.inUse[i] {
			continue
		}
		c.inUse[i] = true
		c.bufs[i] = append(c.bufs[i][:0], c.items...)
		return i, c.bufs[i], nil
	}
	return -1, nil, ErrReentrantIterationLimit
}

// end returns a snapshot buffer, dropping its references.
func (c *Chain[T]) end(slot int) {
	clear(c.bufs[slot])
	c.bufs[slot] = c.bufs[slot][:0]
	c.inUse[slot] = false
}

func (c *Chain[T]) indexOf(l T) int {
	for i, x := range c.items {
		if x == l {
			return i
		}
	}
	return -1
}

// removeAt uses copy+zero to avoid retaining a dangling reference in the
// backing array.
func (c *Chain[T]) removeAt(i int) {
	copy(c.items[i:], c.items[i+1:])
	var zero T
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
}

// isNil reports whether l is a nil interface or a typed nil pointer, map,
// slice, func or channel.
func isNil[T comparable](l T) bool {
	v := reflect.ValueOf(&l).Elem()
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
