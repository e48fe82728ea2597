// Package tts turns narration text into audio through a speech provider.
package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
)

const (
	MinSpeed = 0.8
	MaxSpeed = 1.5
	MinPitch = -20.0
	MaxPitch = 20.0

	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
)

// NarrationRequest is what the editor submits when the user asks for a preview.
type NarrationRequest struct {
	Text    string  `json:"text"`
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Pitch   float64 `json:"pitch"`
}

// Normalize fills the defaults for an unset voice and speed.
func (r NarrationRequest) Normalize() NarrationRequest {
	r.Text = strings.TrimSpace(r.Text)
	r.VoiceID = strings.TrimSpace(r.VoiceID)
	if r.VoiceID == "" {
		r.VoiceID = DefaultVoiceID
	}
	if r.Speed == 0 {
		r.Speed = 1
	}
	return r
}

func (r NarrationRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return apperrors.Input("narration text is required").WithField("text")
	}
	if r.Speed < MinSpeed || r.Speed > MaxSpeed {
		return apperrors.Input(fmt.Sprintf("speed must be between %.1f and %.1f", MinSpeed, MaxSpeed)).WithField("speed")
	}
	if r.Pitch < MinPitch || r.Pitch > MaxPitch {
		return apperrors.Input(fmt.Sprintf("pitch must be between %.0f and %.0f", MinPitch, MaxPitch)).WithField("pitch")
	}
	return nil
}

// Result is the synthesized audio. ContentType is a MIME type such as audio/mpeg.
type Result struct {
	Data        []byte
	ContentType string
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req NarrationRequest) (*Result, error)
}
