package clock

// AudioResource is the playable audio handle the clock reads time from.
// Implementations must invoke callbacks without holding their own locks.
type AudioResource interface {
	// CurrentPosition is the playback position in seconds.
	CurrentPosition() float64
	// Duration is the real track length in seconds, or 0 while unknown.
	Duration() float64
	OnProgress(fn func(position float64))
	OnEnded(fn func())
	OnError(fn func(err error))
	Play() error
	Pause() error
	Paused() bool
	Seek(position float64) error
	Release()
}
