package tui

import (
	"time"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/export"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

// TickMsg drives state polling.
type TickMsg struct {
	Time time.Time
}

type StateMsg struct {
	State *playback.State
	Err   error
}

type TimelineMsg struct {
	Timeline *api.TimelineResponse
	Err      error
}

type MediaMsg struct {
	Items []api.MediaResponse
	Err   error
}

// ActionMsg reports the outcome of a transport or narration request.
type ActionMsg struct {
	Action string
	State  *playback.State
	Err    error
}

type ExportMsg struct {
	Result *export.Result
	Err    error
}
