// Package tui is the terminal client: transport keys plus a live view of the
// caption and media the agent is showing.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

const maxLogs = 5

type Model struct {
	Agent  Agent
	Script api.NarrationRequest

	State     playback.State
	Timeline  *api.TimelineResponse
	Media     []api.MediaResponse
	Connected bool
	Busy      bool
	Err       error
	Logs      []string
}

// NewModel builds the client model. script.Text may be empty, in which case
// narration cannot be started from the terminal.
func NewModel(agent Agent, script api.NarrationRequest) Model {
	return Model{
		Agent:  agent,
		Script: script,
		State:  playback.State{Mode: playback.ModeIdle},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollState(m.Agent),
		fetchTimeline(m.Agent),
		fetchMedia(m.Agent),
		tickCmd(),
	)
}

func (m Model) AddLog(format string, args ...any) Model {
	line := time.Now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}
