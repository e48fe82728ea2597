// Package playback drives caption and media selection from a single clock and
// publishes the resulting state to observers.
package playback

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/clock"
	"github.com/reelforge/reelforge-agent/internal/logging"
	"github.com/reelforge/reelforge-agent/internal/media"
	"github.com/reelforge/reelforge-agent/internal/tts"
)

// ErrSuperseded is returned to a Generate call whose result arrived after a
// newer request was made. The result is discarded.
var ErrSuperseded = errors.New("narration request superseded by a newer one")

// reconcileTolerance is the relative duration mismatch that triggers a rescale.
const reconcileTolerance = 0.01

// ResourceFactory builds the playable resource for a freshly synthesized track.
type ResourceFactory func(track *AudioTrack) clock.AudioResource

func VirtualResources(track *AudioTrack) clock.AudioResource {
	return NewVirtualAudio(track.EstimatedDurationSeconds)
}

func RemoteResources(track *AudioTrack) clock.AudioResource {
	return NewRemoteAudio()
}

type Options struct {
	Builder          *captions.Builder
	MediaItemSeconds float64
	Bitrate          int
	FrameInterval    time.Duration
	NewResource      ResourceFactory
	Logger           *slog.Logger
}

type observer struct {
	id int
	fn func(State)
}

type Controller struct {
	synth       tts.Synthesizer
	builder     *captions.Builder
	newResource ResourceFactory
	perItem     float64
	bitrate     int
	interval    time.Duration
	logger      *slog.Logger
	running     atomic.Bool

	mu            sync.Mutex
	clock         *clock.Clock
	frame         *clock.FrameClock
	resource      clock.AudioResource
	track         *AudioTrack
	timeline      *captions.Timeline
	timelineID    string
	items         []media.Item
	generation    uint64
	cancelPending context.CancelFunc
	reconciled    bool
	lastErr       *apperrors.Error
	state         State
	observers     []observer
	nextObserver  int
}

func NewController(synth tts.Synthesizer, opts Options) *Controller {
	if opts.Builder == nil {
		opts.Builder = captions.NewBuilder(captions.SegmentOptions{}, captions.DefaultAllocatorConfig())
	}
	if opts.MediaItemSeconds <= 0 {
		opts.MediaItemSeconds = media.DefaultDisplayDurationSeconds
	}
	if opts.Bitrate <= 0 {
		opts.Bitrate = tts.DefaultBitrate
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 33 * time.Millisecond
	}
	if opts.NewResource == nil {
		opts.NewResource = VirtualResources
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		synth:       synth,
		builder:     opts.Builder,
		newResource: opts.NewResource,
		perItem:     opts.MediaItemSeconds,
		bitrate:     opts.Bitrate,
		interval:    opts.FrameInterval,
		logger:      opts.Logger,
		clock:       clock.New(),
		frame:       clock.NewFrameClock(),
	}
	c.state = c.snapshotLocked(time.Now())
	return c
}

// Generate synthesizes req, rebuilds the timeline from the estimated audio
// length and starts playback. A synthesis failure leaves the previous track
// and timeline playable.
func (c *Controller) Generate(ctx context.Context, req tts.NarrationRequest) (State, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return c.State(), apperrors.Input("add at least one image or clip before generating a preview").WithField("media")
	}
	if c.cancelPending != nil {
		c.cancelPending()
	}
	c.generation++
	gen := c.generation
	synthCtx, cancel := context.WithCancel(ctx)
	c.cancelPending = cancel
	c.mu.Unlock()

	defer cancel()

	c.logger.Info("synthesizing narration", "generation", gen, "voice_id", req.VoiceID, "words", len(strings.Fields(req.Text)))
	res, err := c.synth.Synthesize(synthCtx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Info("discarding stale narration", "generation", gen, "current", c.generation)
		return c.state, ErrSuperseded
	}
	c.cancelPending = nil

	if err == nil && (res == nil || len(res.Data) == 0) {
		err = errors.New("provider returned no audio")
	}
	if err != nil {
		appErr := synthesisError(err)
		c.logger.Error("narration synthesis failed", "generation", gen, "error", err)
		c.lastErr = appErr
		c.refreshLocked(time.Now())
		return c.state, appErr
	}

	c.installLocked(req, NewAudioTrack(res, c.bitrate))
	if err := c.startLocked(); err != nil {
		return c.state, err
	}
	return c.state, nil
}

func synthesisError(err error) *apperrors.Error {
	var apiErr *tts.APIError
	if errors.As(err, &apiErr) {
		return apperrors.Synthesis(apiErr.Error()).Wrap(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Synthesis("speech synthesis timed out").Wrap(err)
	}
	return apperrors.Synthesis("speech synthesis failed").Wrap(err).WithInternal("%v", err)
}

// installLocked replaces the track and timeline. The old resource is released
// before the new one is attached.
func (c *Controller) installLocked(req tts.NarrationRequest, track *AudioTrack) {
	if c.resource != nil {
		c.resource.Release()
	}
	c.clock.Stop()
	c.frame.Reset()

	c.track = track
	c.timeline = c.builder.Build(req.Text, track.EstimatedDurationSeconds, req.Speed)
	c.timelineID = uuid.NewString()
	c.reconciled = false
	c.lastErr = nil

	res := c.newResource(track)
	res.OnProgress(func(pos float64) { c.handleProgress(res, pos) })
	res.OnEnded(func() { c.handleEnded(res) })
	res.OnError(func(err error) { c.handleError(res, err) })
	c.resource = res

	logging.WithTimelineID(c.logger, c.timelineID).Info("timeline installed",
		"track_id", track.ID,
		"chunks", c.timeline.Len(),
		"estimated_s", track.EstimatedDurationSeconds,
	)
}

// startLocked plays the resource and moves the clock to Running.
func (c *Controller) startLocked() error {
	if err := c.resource.Play(); err != nil {
		c.clock.Stop()
		c.frame.Resume()
		c.lastErr = apperrors.PlaybackResource("audio playback could not start").Wrap(err)
		c.logger.Error("audio playback failed", "error", err)
		c.refreshLocked(time.Now())
		return c.lastErr
	}

	switch c.clock.State() {
	case clock.Stopped:
		c.clock.Start(c.resource)
	case clock.Paused:
		c.clock.Resume()
	}
	c.frame.Suspend()
	c.lastErr = nil
	c.refreshLocked(time.Now())
	return nil
}

func (c *Controller) Play() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resource == nil {
		return c.state, apperrors.Input("generate a narration preview first")
	}
	if c.clock.State() == clock.Running && !c.resource.Paused() {
		return c.state, nil
	}
	err := c.startLocked()
	return c.state, err
}

func (c *Controller) Pause() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resource == nil {
		return c.state, nil
	}
	err := c.pauseLocked()
	return c.state, err
}

func (c *Controller) pauseLocked() error {
	if !c.resource.Paused() {
		if err := c.resource.Pause(); err != nil {
			c.lastErr = apperrors.PlaybackResource("audio could not be paused").Wrap(err)
			c.refreshLocked(time.Now())
			return c.lastErr
		}
	}
	c.clock.Pause()
	c.refreshLocked(time.Now())
	return nil
}

// Toggle flips between playing and paused based on the resource's actual state.
func (c *Controller) Toggle() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resource == nil {
		return c.state, apperrors.Input("generate a narration preview first")
	}
	var err error
	if c.clock.State() == clock.Running && !c.resource.Paused() {
		err = c.pauseLocked()
	} else {
		err = c.startLocked()
	}
	return c.state, err
}

// Stop halts playback and rewinds to the beginning.
func (c *Controller) Stop() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resource != nil {
		if err := c.resource.Pause(); err != nil {
			c.logger.Warn("failed to pause audio on stop", "error", err)
		}
		if err := c.resource.Seek(0); err != nil {
			c.logger.Warn("failed to rewind audio on stop", "error", err)
		}
	}
	c.resetLocked()
	c.refreshLocked(time.Now())
	return c.state
}

func (c *Controller) resetLocked() {
	c.clock.Stop()
	c.frame.Reset()
	c.frame.Resume()
}

// Tick advances one animation frame.
func (c *Controller) Tick(now time.Time) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked(now)
	return c.state
}

// Run ticks the controller at the frame interval until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	if c.running.Swap(true) {
		return
	}
	defer c.running.Store(false)

	c.logger.Info("playback loop started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("playback loop stopping")
			c.shutdown()
			return
		case now := <-ticker.C:
			c.Tick(now)
		}
	}
}

func (c *Controller) IsRunning() bool {
	return c.running.Load()
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
	if c.resource != nil {
		c.resource.Release()
		c.resource = nil
	}
	c.clock.Stop()
}

// SetMedia replaces the media sequence the scheduler reads. Items are copied.
func (c *Controller) SetMedia(items []media.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]media.Item(nil), items...)
	c.refreshLocked(time.Now())
}

// Subscribe registers fn for every visible state change. fn runs with the
// controller locked and must not call back into it.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextObserver++
	id := c.nextObserver
	c.observers = append(c.observers, observer{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Timeline returns a copy of the current timeline and its id, or nil.
func (c *Controller) Timeline() (*captions.Timeline, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeline == nil {
		return nil, ""
	}
	return c.timeline.Clone(), c.timelineID
}

func (c *Controller) Track() *AudioTrack {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track
}

// Resource returns the attached audio resource, or nil.
func (c *Controller) Resource() clock.AudioResource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource
}

// Media returns a copy of the media sequence last handed to SetMedia.
func (c *Controller) Media() []media.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]media.Item(nil), c.items...)
}

// Preview segments and allocates text without touching playback.
func (c *Controller) Preview(text string, totalSeconds, speed float64) *captions.Timeline {
	return c.builder.Build(text, totalSeconds, speed)
}

func (c *Controller) handleProgress(res clock.AudioResource, pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res != c.resource {
		return
	}
	c.clock.Observe(pos)
	c.refreshLocked(time.Now())
}

func (c *Controller) handleEnded(res clock.AudioResource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res != c.resource {
		return
	}
	c.logger.Info("narration finished", "timeline_id", c.timelineID)
	if err := res.Seek(0); err != nil {
		c.logger.Warn("failed to rewind audio", "error", err)
	}
	c.resetLocked()
	c.refreshLocked(time.Now())
}

func (c *Controller) handleError(res clock.AudioResource, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res != c.resource {
		return
	}
	c.logger.Error("audio resource failed", "timeline_id", c.timelineID, "error", err)
	c.resetLocked()
	c.lastErr = apperrors.PlaybackResource("audio playback failed").Wrap(err)
	c.refreshLocked(time.Now())
}

// refreshLocked recomputes the snapshot and publishes it when it changed visibly.
func (c *Controller) refreshLocked(now time.Time) {
	if c.resource != nil {
		switch c.clock.State() {
		case clock.Running:
			if c.resource.Paused() {
				c.clock.Pause()
			}
		case clock.Paused:
			if !c.resource.Paused() {
				c.clock.Resume()
			}
		}
	}
	c.reconcileLocked()

	next := c.snapshotLocked(now)
	changed := next.differs(c.state)
	c.state = next
	if changed {
		for _, o := range c.observers {
			o.fn(next)
		}
	}
}

// reconcileLocked rescales the timeline once the resource knows the real duration.
func (c *Controller) reconcileLocked() {
	if c.reconciled || c.resource == nil || c.timeline.Len() == 0 {
		return
	}
	actual := c.resource.Duration()
	if actual <= 0 {
		return
	}
	c.reconciled = true

	estimated := c.timeline.End()
	if math.Abs(actual-estimated) > reconcileTolerance*estimated {
		c.timeline.Rescale(actual)
		c.logger.Info("timeline rescaled to audio duration",
			"timeline_id", c.timelineID,
			"estimated_s", estimated,
			"actual_s", actual,
		)
	}
}

func (c *Controller) snapshotLocked(now time.Time) State {
	s := State{
		ClockState: c.clock.State().String(),
		TimelineID: c.timelineID,
		Mode:       ModeIdle,
	}
	if c.track != nil {
		s.TrackID = c.track.ID
	}
	if c.timeline != nil {
		s.DurationSeconds = c.timeline.End()
	}

	var mediaTime float64
	switch c.clock.State() {
	case clock.Running, clock.Paused:
		s.Mode = ModeAudio
		s.IsPlaying = c.clock.State() == clock.Running
		s.CurrentTimeSeconds = c.clock.Now()
		if i, ok := c.timeline.Select(s.CurrentTimeSeconds); ok {
			s.ActiveChunkIndex = intPtr(i)
			s.ActiveCaption = c.timeline.Chunks[i].Text
		}
		mediaTime = s.CurrentTimeSeconds
	default:
		if len(c.items) > 0 {
			s.Mode = ModeFrame
			mediaTime = c.frame.Tick(now)
			s.CurrentTimeSeconds = mediaTime
		}
	}

	if i, ok := media.SelectItems(c.items, mediaTime, c.perItem); ok {
		s.ActiveMediaIndex = intPtr(i)
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Message
		s.LastErrorCode = c.lastErr.Code.String()
	}
	return s
}
