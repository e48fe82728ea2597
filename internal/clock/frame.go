package clock

import "time"

// FrameClock advances by wall-clock time between ticks. It is used when no
// audio drives playback, so the media carousel keeps cycling.
type FrameClock struct {
	elapsed   float64
	last      time.Time
	suspended bool
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Tick adds the time since the previous tick and returns the elapsed total.
// The first tick after construction, Resume or Reset only records now.
func (f *FrameClock) Tick(now time.Time) float64 {
	if f.suspended {
		return f.elapsed
	}
	if !f.last.IsZero() && now.After(f.last) {
		f.elapsed += now.Sub(f.last).Seconds()
	}
	f.last = now
	return f.elapsed
}

func (f *FrameClock) Now() float64 {
	return f.elapsed
}

func (f *FrameClock) Suspended() bool {
	return f.suspended
}

func (f *FrameClock) Suspend() {
	f.suspended = true
	f.last = time.Time{}
}

func (f *FrameClock) Resume() {
	f.suspended = false
	f.last = time.Time{}
}

func (f *FrameClock) Reset() {
	f.elapsed = 0
	f.last = time.Time{}
}
