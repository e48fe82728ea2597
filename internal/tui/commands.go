package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/export"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

const (
	pollInterval   = 250 * time.Millisecond
	requestTimeout = 5 * time.Second
	// narration waits on the speech provider
	narrationTimeout = 90 * time.Second
)

// Agent is the part of the agent API the terminal client uses.
type Agent interface {
	State(ctx context.Context) (*playback.State, error)
	Timeline(ctx context.Context) (*api.TimelineResponse, error)
	ListMedia(ctx context.Context) ([]api.MediaResponse, error)
	Narrate(ctx context.Context, req api.NarrationRequest) (*api.NarrationResponse, error)
	Toggle(ctx context.Context) (*playback.State, error)
	Stop(ctx context.Context) (*playback.State, error)
	ExportCaptions(ctx context.Context, req api.ExportCaptionsRequest) (*export.Result, error)
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func pollState(agent Agent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := agent.State(ctx)
		return StateMsg{State: st, Err: err}
	}
}

func fetchTimeline(agent Agent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tl, err := agent.Timeline(ctx)
		return TimelineMsg{Timeline: tl, Err: err}
	}
}

func fetchMedia(agent Agent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := agent.ListMedia(ctx)
		return MediaMsg{Items: items, Err: err}
	}
}

func toggle(agent Agent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := agent.Toggle(ctx)
		return ActionMsg{Action: "toggle", State: st, Err: err}
	}
}

func stop(agent Agent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := agent.Stop(ctx)
		return ActionMsg{Action: "stop", State: st, Err: err}
	}
}

func narrate(agent Agent, req api.NarrationRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), narrationTimeout)
		defer cancel()
		resp, err := agent.Narrate(ctx, req)
		if err != nil {
			return ActionMsg{Action: "narrate", Err: err}
		}
		return ActionMsg{Action: "narrate", State: &resp.State}
	}
}

func exportCaptions(agent Agent, format string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := agent.ExportCaptions(ctx, api.ExportCaptionsRequest{Format: format})
		return ExportMsg{Result: res, Err: err}
	}
}
