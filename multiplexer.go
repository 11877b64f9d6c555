package catkin

import "fmt"

// InputMultiplexer forwards each sample to its processors in registration
// order until one consumes it. It is itself an InputProcessor, so
// multiplexers can be nested.
type InputMultiplexer struct {
	processors Chain[InputProcessor]

	// OnError receives dispatch failures such as
	// ErrReentrantIterationLimit. The failing sample is reported as not
	// consumed. Nil discards the error.
	OnError func(error)
}

// NewInputMultiplexer creates a multiplexer with the given processors.
// Nil processors are skipped.
func NewInputMultiplexer(processors ...InputProcessor) *InputMultiplexer {
	m := &InputMultiplexer{}
	for _, p := range processors {
		_ = m.processors.Add(p)
	}
	return m
}

// Add appends a processor.
func (m *InputMultiplexer) Add(p InputProcessor) error {
	return m.processors.Add(p)
}

// AddAt inserts a processor at index.
func (m *InputMultiplexer) AddAt(index int, p InputProcessor) error {
	return m.processors.AddAt(index, p)
}

// Remove removes a processor. Reports whether it was registered.
func (m *InputMultiplexer) Remove(p InputProcessor) bool {
	return m.processors.Remove(p)
}

// RemoveAt removes and returns the processor at index.
func (m *InputMultiplexer) RemoveAt(index int) (InputProcessor, error) {
	return m.processors.RemoveAt(index)
}

// Clear removes all processors.
func (m *InputMultiplexer) Clear() {
	m.processors.Clear()
}

// Len returns the number of processors.
func (m *InputMultiplexer) Len() int {
	return m.processors.Len()
}

// Process routes s through the chain by its Kind. The error is non-nil only
// when the chain could not be iterated.
func (m *InputMultiplexer) Process(s Sample) (bool, error) {
	return m.dispatch(s, func(p InputProcessor) bool {
		return DispatchSample(p, s)
	})
}

func (m *InputMultiplexer) dispatch(s Sample, fn func(InputProcessor) bool) (bool, error) {
	handled, err := m.processors.Dispatch(fn)
	if err != nil {
		return false, fmt.Errorf("dispatch %s: %w", s.Kind, err)
	}
	return handled, nil
}

func (m *InputMultiplexer) route(s Sample, fn func(InputProcessor) bool) bool {
	handled, err := m.dispatch(s, fn)
	if err != nil && m.OnError != nil {
		m.OnError(err)
	}
	return handled
}

func (m *InputMultiplexer) KeyDown(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.KeyDown(s) })
}

func (m *InputMultiplexer) KeyUp(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.KeyUp(s) })
}

func (m *InputMultiplexer) KeyTyped(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.KeyTyped(s) })
}

func (m *InputMultiplexer) TouchDown(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.TouchDown(s) })
}

func (m *InputMultiplexer) TouchUp(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.TouchUp(s) })
}

func (m *InputMultiplexer) TouchDragged(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.TouchDragged(s) })
}

func (m *InputMultiplexer) MouseMoved(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.MouseMoved(s) })
}

func (m *InputMultiplexer) Scrolled(s Sample) bool {
	return m.route(s, func(p InputProcessor) bool { return p.Scrolled(s) })
}
