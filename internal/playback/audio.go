package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/reelforge/reelforge-agent/internal/clock"
)

var ErrReleased = errors.New("audio resource released")

type callbacks struct {
	progress func(float64)
	ended    func()
	fail     func(error)
}

// VirtualAudio plays a track of known length against the wall clock. It lets
// the agent preview narration without an audio device.
type VirtualAudio struct {
	mu        sync.Mutex
	duration  float64
	offset    float64
	startedAt time.Time
	playing   bool
	released  bool
	stop      chan struct{}
	interval  time.Duration
	now       func() time.Time
	cb        callbacks
}

var _ clock.AudioResource = (*VirtualAudio)(nil)

func NewVirtualAudio(duration float64) *VirtualAudio {
	return &VirtualAudio{
		duration: duration,
		interval: 50 * time.Millisecond,
		now:      time.Now,
	}
}

func (v *VirtualAudio) CurrentPosition() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.positionLocked()
}

func (v *VirtualAudio) positionLocked() float64 {
	pos := v.offset
	if v.playing {
		pos += v.now().Sub(v.startedAt).Seconds()
	}
	if pos > v.duration {
		pos = v.duration
	}
	return pos
}

func (v *VirtualAudio) Duration() float64 {
	return v.duration
}

func (v *VirtualAudio) OnProgress(fn func(float64)) {
	v.mu.Lock()
	v.cb.progress = fn
	v.mu.Unlock()
}

func (v *VirtualAudio) OnEnded(fn func()) {
	v.mu.Lock()
	v.cb.ended = fn
	v.mu.Unlock()
}

func (v *VirtualAudio) OnError(fn func(error)) {
	v.mu.Lock()
	v.cb.fail = fn
	v.mu.Unlock()
}

func (v *VirtualAudio) Play() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.released {
		return ErrReleased
	}
	if v.playing {
		return nil
	}
	if v.offset >= v.duration {
		v.offset = 0
	}
	v.playing = true
	v.startedAt = v.now()
	v.stop = make(chan struct{})
	go v.loop(v.stop)
	return nil
}

func (v *VirtualAudio) Pause() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.playing {
		return nil
	}
	v.offset = v.positionLocked()
	v.playing = false
	close(v.stop)
	return nil
}

func (v *VirtualAudio) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.playing
}

func (v *VirtualAudio) Seek(position float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.released {
		return ErrReleased
	}
	if position < 0 {
		position = 0
	}
	if position > v.duration {
		position = v.duration
	}
	v.offset = position
	if v.playing {
		v.startedAt = v.now()
	}
	return nil
}

func (v *VirtualAudio) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.playing {
		close(v.stop)
		v.playing = false
	}
	v.released = true
	v.cb = callbacks{}
}

func (v *VirtualAudio) loop(stop chan struct{}) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.poll()
		}
	}
}

// poll reports progress and detects the end of the track. Callbacks run
// after the lock is dropped.
func (v *VirtualAudio) poll() {
	v.mu.Lock()
	if !v.playing {
		v.mu.Unlock()
		return
	}
	pos := v.positionLocked()
	finished := pos >= v.duration
	if finished {
		v.offset = v.duration
		v.playing = false
		close(v.stop)
	}
	cb := v.cb
	v.mu.Unlock()

	if cb.progress != nil {
		cb.progress(pos)
	}
	if finished && cb.ended != nil {
		cb.ended()
	}
}

// RemoteAudio mirrors an audio element playing in the browser. The editor
// reports position, end and failure; between reports the position is
// extrapolated while playing.
type RemoteAudio struct {
	mu         sync.Mutex
	position   float64
	duration   float64
	paused     bool
	released   bool
	reportedAt time.Time
	now        func() time.Time
	cb         callbacks
}

var _ clock.AudioResource = (*RemoteAudio)(nil)

func NewRemoteAudio() *RemoteAudio {
	return &RemoteAudio{paused: true, now: time.Now}
}

func (r *RemoteAudio) CurrentPosition() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos := r.position
	if !r.paused && !r.reportedAt.IsZero() {
		pos += r.now().Sub(r.reportedAt).Seconds()
	}
	if r.duration > 0 && pos > r.duration {
		pos = r.duration
	}
	return pos
}

func (r *RemoteAudio) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

func (r *RemoteAudio) OnProgress(fn func(float64)) {
	r.mu.Lock()
	r.cb.progress = fn
	r.mu.Unlock()
}

func (r *RemoteAudio) OnEnded(fn func()) {
	r.mu.Lock()
	r.cb.ended = fn
	r.mu.Unlock()
}

func (r *RemoteAudio) OnError(fn func(error)) {
	r.mu.Lock()
	r.cb.fail = fn
	r.mu.Unlock()
}

func (r *RemoteAudio) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if r.paused {
		r.paused = false
		r.reportedAt = r.now()
	}
	return nil
}

func (r *RemoteAudio) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.paused {
		r.position += r.now().Sub(r.reportedAt).Seconds()
		r.paused = true
	}
	return nil
}

func (r *RemoteAudio) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *RemoteAudio) Seek(position float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if position < 0 {
		position = 0
	}
	r.position = position
	r.reportedAt = r.now()
	return nil
}

func (r *RemoteAudio) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
	r.paused = true
	r.cb = callbacks{}
}

// Report records a progress update from the browser.
func (r *RemoteAudio) Report(position, duration float64, paused bool) {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.position = position
	if duration > 0 {
		r.duration = duration
	}
	r.paused = paused
	r.reportedAt = r.now()
	cb := r.cb
	r.mu.Unlock()

	if cb.progress != nil {
		cb.progress(position)
	}
}

func (r *RemoteAudio) Ended() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.paused = true
	r.position = r.duration
	cb := r.cb
	r.mu.Unlock()

	if cb.ended != nil {
		cb.ended()
	}
}

func (r *RemoteAudio) Fail(err error) {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.paused = true
	cb := r.cb
	r.mu.Unlock()

	if cb.fail != nil {
		cb.fail(err)
	}
}
