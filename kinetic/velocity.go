package kinetic

import "time"

// Sample is one pointer position at a point in time.
type Sample struct {
	T time.Duration
	Y float64
}

// EstimateVelocity fits a line through the samples by ordinary least squares
// and returns its slope in px/ms. Fewer than two samples, or samples that
// all share one timestamp, yield 0.
func EstimateVelocity(samples []Sample) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}

	var meanT, meanY float64
	for _, s := range samples {
		meanT += ms(s.T)
		meanY += s.Y
	}
	meanT /= float64(n)
	meanY /= float64(n)

	var num, den float64
	for _, s := range samples {
		dt := ms(s.T) - meanT
		num += dt * (s.Y - meanY)
		den += dt * dt
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// VelocityTracker buffers the samples of the active gesture, dropping those
// older than the window but always keeping the last two.
type VelocityTracker struct {
	samples []Sample
}

// Reset drops all samples.
func (v *VelocityTracker) Reset() {
	v.samples = v.samples[:0]
}

// Add appends a sample and trims the buffer to window.
func (v *VelocityTracker) Add(t time.Duration, y float64, window time.Duration) {
	v.samples = append(v.samples, Sample{T: t, Y: y})
	drop := 0
	for len(v.samples)-drop > 2 && t-v.samples[drop].T > window {
		drop++
	}
	if drop > 0 {
		v.samples = append(v.samples[:0], v.samples[drop:]...)
	}
}

// Len returns the number of buffered samples.
func (v *VelocityTracker) Len() int {
	return len(v.samples)
}

// Estimate returns the current velocity estimate in px/ms.
func (v *VelocityTracker) Estimate() float64 {
	return EstimateVelocity(v.samples)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
