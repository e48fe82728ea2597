// Package clock holds the single authoritative playback time source. While an
// audio resource is attached, time is read from it; otherwise a wall-clock
// frame clock advances. The two are never summed.
package clock

import "fmt"

type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state_%d", int(s))
	}
}

// Clock is the audio-driven clock. It is not safe for concurrent use; the
// playback controller serializes access.
type Clock struct {
	state    State
	resource AudioResource
	last     float64
}

func New() *Clock {
	return &Clock{}
}

func (c *Clock) State() State {
	return c.state
}

func (c *Clock) Resource() AudioResource {
	return c.resource
}

// Start moves the clock to Running with time read from res.
func (c *Clock) Start(res AudioResource) {
	c.resource = res
	c.state = Running
	c.last = res.CurrentPosition()
}

// Pause freezes time at the last observed position.
func (c *Clock) Pause() {
	if c.state != Running {
		return
	}
	c.last = c.resource.CurrentPosition()
	c.state = Paused
}

func (c *Clock) Resume() {
	if c.state != Paused {
		return
	}
	c.state = Running
}

// Stop resets time to zero and detaches the resource. The resource is not released.
func (c *Clock) Stop() {
	c.state = Stopped
	c.resource = nil
	c.last = 0
}

// Observe records a position reported by the resource's progress callback.
func (c *Clock) Observe(position float64) {
	if c.state == Running {
		c.last = position
	}
}

// Now returns the current playback time in seconds.
func (c *Clock) Now() float64 {
	switch c.state {
	case Running:
		c.last = c.resource.CurrentPosition()
		return c.last
	case Paused:
		return c.last
	default:
		return 0
	}
}
