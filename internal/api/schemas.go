package api

import (
	"time"

	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/media"
	"github.com/reelforge/reelforge-agent/internal/playback"
	"github.com/reelforge/reelforge-agent/internal/style"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeS    int64  `json:"uptime_s"`
	InstanceID string `json:"instance_id"`
}

type StatusResponse struct {
	State       string         `json:"state"`
	LastError   string         `json:"last_error,omitempty"`
	MediaCount  int            `json:"media_count"`
	Synthesizer string         `json:"synthesizer"`
	AudioMode   string         `json:"audio_mode"`
	Ticking     bool           `json:"ticking"`
	Playback    playback.State `json:"playback"`
}

type AddMediaRequest struct {
	Kind             string  `json:"kind,omitempty"`
	Name             string  `json:"name"`
	DisplayDurationS float64 `json:"display_duration_s,omitempty"`
}

type MediaResponse struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	Name             string  `json:"name"`
	DisplayDurationS float64 `json:"display_duration_s"`
	Position         int     `json:"position"`
	CreatedAt        string  `json:"created_at"`
}

type MediaListResponse struct {
	Items []MediaResponse `json:"items"`
}

type ReorderMediaRequest struct {
	IDs []string `json:"ids"`
}

type NarrationRequest struct {
	Text    string  `json:"text"`
	VoiceID string  `json:"voice_id,omitempty"`
	Speed   float64 `json:"speed,omitempty"`
	Pitch   float64 `json:"pitch,omitempty"`
}

type NarrationResponse struct {
	State    playback.State    `json:"state"`
	Timeline *TimelineResponse `json:"timeline"`
}

type ChunkResponse struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	StartS float64 `json:"start_s"`
	EndS   float64 `json:"end_s"`
}

type TimelineResponse struct {
	ID          string          `json:"id,omitempty"`
	Chunks      []ChunkResponse `json:"chunks"`
	TotalS      float64         `json:"total_s"`
	Approximate bool            `json:"approximate"`
	Strategy    string          `json:"strategy"`
}

type PreviewRequest struct {
	Text      string  `json:"text"`
	DurationS float64 `json:"duration_s"`
	Speed     float64 `json:"speed,omitempty"`
}

type ProgressReport struct {
	PositionS float64 `json:"position_s"`
	DurationS float64 `json:"duration_s"`
	Paused    bool    `json:"paused"`
}

type ErrorReport struct {
	Message string `json:"message"`
}

type StylesResponse struct {
	Styles []style.Style `json:"styles"`
}

type ExportCaptionsRequest struct {
	ProjectName string       `json:"project_name"`
	Format      string       `json:"format"`
	OutputDir   string       `json:"output_dir,omitempty"`
	FrameRate   float64      `json:"frame_rate,omitempty"`
	StylePreset string       `json:"style_preset,omitempty"`
	Style       *style.Style `json:"style,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func MediaToResponse(it media.Item) MediaResponse {
	return MediaResponse{
		ID:               it.ID,
		Kind:             string(it.Kind),
		Name:             it.Name,
		DisplayDurationS: it.DisplayDurationSeconds,
		Position:         it.Position,
		CreatedAt:        it.CreatedAt.Format(time.RFC3339),
	}
}

func TimelineToResponse(tl *captions.Timeline, id string) *TimelineResponse {
	if tl == nil {
		return nil
	}
	resp := &TimelineResponse{
		ID:          id,
		Chunks:      make([]ChunkResponse, len(tl.Chunks)),
		TotalS:      tl.TotalSeconds,
		Approximate: tl.Approximate,
		Strategy:    string(tl.Strategy),
	}
	for i, c := range tl.Chunks {
		resp.Chunks[i] = ChunkResponse{Index: i, Text: c.Text, StartS: c.StartSeconds, EndS: c.EndSeconds}
	}
	return resp
}
