package catkin

// velocitySamples is the size of the VelocityTracker ring buffer.
const velocitySamples = 10

// VelocityTracker estimates pointer velocity from the most recent movement
// samples. Velocity is the mean displacement divided by the mean sample
// interval, in pixels per second.
type VelocityTracker struct {
	lastX, lastY float64
	dx, dy       float64 // displacement of the latest sample
	lastTime     int64   // nanoseconds
	numSamples   int
	meanX        [velocitySamples]float64
	meanY        [velocitySamples]float64
	meanTime     [velocitySamples]int64
}

// Start resets the tracker at position (x, y) and time nanos.
func (v *VelocityTracker) Start(x, y float64, nanos int64) {
	*v = VelocityTracker{lastX: x, lastY: y, lastTime: nanos}
}

// Update records a move to (x, y) at time nanos.
func (v *VelocityTracker) Update(x, y float64, nanos int64) {
	v.dx = x - v.lastX
	v.dy = y - v.lastY
	v.lastX = x
	v.lastY = y
	dt := nanos - v.lastTime
	v.lastTime = nanos
	i := v.numSamples % velocitySamples
	v.meanX[i] = v.dx
	v.meanY[i] = v.dy
	v.meanTime[i] = dt
	v.numSamples++
}

// Delta returns the displacement recorded by the latest Update.
func (v *VelocityTracker) Delta() (dx, dy float64) {
	return v.dx, v.dy
}

// LastTime returns the timestamp of the latest Start or Update.
func (v *VelocityTracker) LastTime() int64 {
	return v.lastTime
}

// Velocity returns the current velocity estimate in pixels per second. It is
// zero before any Update and when the recorded intervals average to zero.
func (v *VelocityTracker) Velocity() (vx, vy float64) {
	n := min(v.numSamples, velocitySamples)
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY float64
	var sumT int64
	for i := 0; i < n; i++ {
		sumX += v.meanX[i]
		sumY += v.meanY[i]
		sumT += v.meanTime[i]
	}
	meanT := float64(sumT) / float64(n) / 1e9
	if meanT == 0 {
		return 0, 0
	}
	return sumX / float64(n) / meanT, sumY / float64(n) / meanT
}
