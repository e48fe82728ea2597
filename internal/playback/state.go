package playback

type Mode string

const (
	// ModeIdle means nothing drives time: no audio and no media.
	ModeIdle Mode = "idle"
	// ModeFrame means the wall-clock frame clock cycles the media carousel.
	ModeFrame Mode = "frame"
	// ModeAudio means time is read from the audio resource.
	ModeAudio Mode = "audio"
)

// State is the snapshot published to observers. A nil index means none.
type State struct {
	IsPlaying          bool    `json:"is_playing"`
	CurrentTimeSeconds float64 `json:"current_time_s"`
	ActiveChunkIndex   *int    `json:"active_chunk_index"`
	ActiveMediaIndex   *int    `json:"active_media_index"`
	ActiveCaption      string  `json:"active_caption"`
	Mode               Mode    `json:"mode"`
	ClockState         string  `json:"clock_state"`
	TimelineID         string  `json:"timeline_id,omitempty"`
	TrackID            string  `json:"track_id,omitempty"`
	DurationSeconds    float64 `json:"duration_s"`
	LastError          string  `json:"last_error,omitempty"`
	LastErrorCode      string  `json:"last_error_code,omitempty"`
}

// differs reports a change observers care about. Time alone does not count.
func (s State) differs(o State) bool {
	return s.IsPlaying != o.IsPlaying ||
		!sameIndex(s.ActiveChunkIndex, o.ActiveChunkIndex) ||
		!sameIndex(s.ActiveMediaIndex, o.ActiveMediaIndex) ||
		s.Mode != o.Mode ||
		s.ClockState != o.ClockState ||
		s.TimelineID != o.TimelineID ||
		s.LastError != o.LastError
}

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(i int) *int {
	return &i
}
