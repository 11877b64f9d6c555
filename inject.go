package catkin

// injected is one frame's worth of synthetic input. Samples use screen
// coordinates, exactly like backend samples, and are stamped with the stage
// clock when dispatched. An entry with no samples is an idle frame.
type injected struct {
	samples [2]Sample
	n       int
}

func (s *Stage) inject(samples ...Sample) {
	var in injected
	in.n = copy(in.samples[:], samples)
	s.injectQueue = append(s.injectQueue, in)
}

// InjectPress queues a left-button press of pointer 0 at the given screen
// coordinates. The sample is dispatched on the next Update.
func (s *Stage) InjectPress(x, y float64) {
	s.inject(Sample{Kind: SampleTouchDown, X: x, Y: y, Button: ButtonLeft})
}

// InjectMove queues a drag of pointer 0 to the given screen coordinates.
// Use it between InjectPress and InjectRelease.
func (s *Stage) InjectMove(x, y float64) {
	s.inject(Sample{Kind: SampleTouchDragged, X: x, Y: y})
}

// InjectRelease queues a left-button release of pointer 0.
func (s *Stage) InjectRelease(x, y float64) {
	s.inject(Sample{Kind: SampleTouchUp, X: x, Y: y, Button: ButtonLeft})
}

// InjectIdle queues frames in which no input arrives.
func (s *Stage) InjectIdle(frames int) {
	for range frames {
		s.inject()
	}
}

// InjectTap queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Stage) InjectTap(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.InjectMove(x, y)
	}
	s.InjectRelease(toX, toY)
}

// InjectLongPress queues a press, frames-2 idle frames, and a release at
// the same point. Whether it is recognized as a long press depends on the
// frame times passed to Update.
func (s *Stage) InjectLongPress(x, y float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(x, y)
	s.InjectIdle(frames - 2)
	s.InjectRelease(x, y)
}

// InjectPinch queues a two-finger pinch centered on (cx, cy). Pointers 0 and
// 1 start fromDist apart on a horizontal line, move apart or together until
// they are toDist apart, and lift. Consumes frames frames, minimum 3.
func (s *Stage) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	h := fromDist / 2
	s.inject(Sample{Kind: SampleTouchDown, X: cx - h, Y: cy, Button: ButtonLeft})
	s.inject(Sample{Kind: SampleTouchDown, X: cx + h, Y: cy, Pointer: 1, Button: ButtonLeft})
	steps := frames - 3
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		h = (fromDist + (toDist-fromDist)*t) / 2
		s.inject(
			Sample{Kind: SampleTouchDragged, X: cx - h, Y: cy},
			Sample{Kind: SampleTouchDragged, X: cx + h, Y: cy, Pointer: 1},
		)
	}
	s.inject(
		Sample{Kind: SampleTouchUp, X: cx + h, Y: cy, Pointer: 1, Button: ButtonLeft},
		Sample{Kind: SampleTouchUp, X: cx - h, Y: cy, Button: ButtonLeft},
	)
}

// InjectKey queues a key press, with a typed character when ch is not 0,
// and the release on the following frame.
func (s *Stage) InjectKey(key Key, ch rune) {
	if ch != 0 {
		s.inject(Sample{Kind: SampleKeyDown, Key: key}, Sample{Kind: SampleKeyTyped, Key: key, Char: ch})
	} else {
		s.inject(Sample{Kind: SampleKeyDown, Key: key})
	}
	s.inject(Sample{Kind: SampleKeyUp, Key: key})
}

// PendingInjections returns the number of queued frames of synthetic input.
func (s *Stage) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one frame from the inject queue and dispatches
// its samples to the input processor, stamped with the stage clock.
func (s *Stage) processInjectedInput() {
	if len(s.injectQueue) == 0 {
		return
	}
	in := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	for i := 0; i < in.n; i++ {
		smp := in.samples[i]
		smp.TimeNanos = s.clock
		if DispatchSample(s.input, smp) {
			s.stats.consumed++
		}
	}
}
