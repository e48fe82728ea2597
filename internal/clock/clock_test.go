package clock

import (
	"testing"
	"time"
)

type fakeResource struct {
	position float64
	paused   bool
}

func (f *fakeResource) CurrentPosition() float64 { return f.position }
func (f *fakeResource) Duration() float64 { return 0 }
func (f *fakeResource) OnProgress(func(float64)) {}
func (f *fakeResource) OnEnded(func()) {}
func (f *fakeResource) OnError(func(error)) {}
func (f *fakeResource) Play() error { f.paused = false; return nil }
func (f *fakeResource) Pause() error { f.paused = true; return nil }
func (f *fakeResource) Paused() bool { return f.paused }
func (f *fakeResource) Seek(position float64) error { f.position = position; return nil }
func (f *fakeResource) Release() {}

func TestClock_Transitions(t *testing.T) {
	c := New()
	if c.State() != Stopped || c.Now() != 0 {
		t.Fatalf("new clock = %s at %v, want stopped at 0", c.State(), c.Now())
	}

	res := &fakeResource{}
	c.Start(res)
	if c.State() != Running {
		t.Fatalf("State() = %s, want running", c.State())
	}

	res.position = 1.5
	if got := c.Now(); got != 1.5 {
		t.Errorf("Now() = %v, want 1.5 read from resource", got)
	}

	c.Pause()
	res.position = 9
	if got := c.Now(); got != 1.5 {
		t.Errorf("paused Now() = %v, want frozen 1.5", got)
	}

	c.Resume()
	if got := c.Now(); got != 9 {
		t.Errorf("resumed Now() = %v, want 9", got)
	}

	c.Stop()
	if c.State() != Stopped || c.Now() != 0 || c.Resource() != nil {
		t.Errorf("after Stop() state = %s, now = %v", c.State(), c.Now())
	}
}

func TestClock_IgnoresInvalidTransitions(t *testing.T) {
	c := New()
	c.Pause()
	c.Resume()
	if c.State() != Stopped {
		t.Errorf("State() = %s, want stopped", c.State())
	}

	c.Observe(3)
	if c.Now() != 0 {
		t.Errorf("Observe() while stopped changed time to %v", c.Now())
	}
}

func TestClock_ObserveWhilePaused(t *testing.T) {
	res := &fakeResource{position: 2}
	c := New()
	c.Start(res)
	c.Pause()
	c.Observe(5)
	if got := c.Now(); got != 2 {
		t.Errorf("Now() = %v, want 2", got)
	}
}

func TestFrameClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFrameClock()

	if got := f.Tick(base); got != 0 {
		t.Errorf("first Tick() = %v, want 0", got)
	}
	if got := f.Tick(base.Add(500 * time.Millisecond)); got != 0.5 {
		t.Errorf("Tick() = %v, want 0.5", got)
	}

	f.Suspend()
	if got := f.Tick(base.Add(10 * time.Second)); got != 0.5 {
		t.Errorf("suspended Tick() = %v, want 0.5", got)
	}

	// the suspended interval is not counted after resume
	f.Resume()
	f.Tick(base.Add(20 * time.Second))
	if got := f.Tick(base.Add(21 * time.Second)); got != 1.5 {
		t.Errorf("Tick() after resume = %v, want 1.5", got)
	}

	// clock going backwards is ignored
	if got := f.Tick(base.Add(20 * time.Second)); got != 1.5 {
		t.Errorf("Tick() backwards = %v, want 1.5", got)
	}

	f.Reset()
	if f.Now() != 0 {
		t.Errorf("Now() after Reset() = %v", f.Now())
	}
}
