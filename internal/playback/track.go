package playback

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelforge/reelforge-agent/internal/tts"
)

// AudioTrack is one synthesized narration held in memory for the session.
type AudioTrack struct {
	ID                       string
	EstimatedDurationSeconds float64
	Data                     []byte
	ContentType              string
	CreatedAt                time.Time
}

func NewAudioTrack(res *tts.Result, bitrate int) *AudioTrack {
	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &AudioTrack{
		ID:                       uuid.NewString(),
		EstimatedDurationSeconds: tts.EstimateDuration(res.Data, bitrate),
		Data:                     res.Data,
		ContentType:              contentType,
		CreatedAt:                time.Now().UTC(),
	}
}
