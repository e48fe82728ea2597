package tui

import (
	"errors"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelforge/reelforge-agent/internal/client"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollState(m.Agent), tickCmd())
	case StateMsg:
		return m.handleState(msg)
	case TimelineMsg:
		return m.handleTimeline(msg)
	case MediaMsg:
		return m.handleMedia(msg)
	case ActionMsg:
		return m.handleAction(msg)
	case ExportMsg:
		return m.handleExport(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "p":
		return m, toggle(m.Agent)
	case "s":
		return m, stop(m.Agent)
	case "g":
		if m.Busy {
			return m, nil
		}
		if strings.TrimSpace(m.Script.Text) == "" {
			return m.AddLog("no narration script loaded (start with -script)"), nil
		}
		m.Busy = true
		return m.AddLog("generating narration..."), narrate(m.Agent, m.Script)
	case "r":
		return m, tea.Batch(fetchTimeline(m.Agent), fetchMedia(m.Agent))
	case "e":
		return m, exportCaptions(m.Agent, "srt")
	case "v":
		return m, exportCaptions(m.Agent, "vtt")
	}
	return m, nil
}

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		return m, nil
	}
	m.Connected = true
	m.Err = nil

	prev := m.State
	m.State = *msg.State

	var cmds []tea.Cmd
	if m.State.TimelineID != "" && (m.Timeline == nil || m.Timeline.ID != m.State.TimelineID) {
		cmds = append(cmds, fetchTimeline(m.Agent))
	}
	if m.State.LastError != "" && m.State.LastError != prev.LastError {
		m = m.AddLog("agent error: %s", m.State.LastError)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTimeline(msg TimelineMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// a 404 just means nothing was generated yet
		var apiErr *client.APIError
		if !errors.As(msg.Err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			m = m.AddLog("timeline: %v", msg.Err)
		}
		return m, nil
	}
	m.Timeline = msg.Timeline
	return m, nil
}

func (m Model) handleMedia(msg MediaMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.AddLog("media: %v", msg.Err), nil
	}
	m.Media = msg.Items
	return m, nil
}

func (m Model) handleAction(msg ActionMsg) (tea.Model, tea.Cmd) {
	if msg.Action == "narrate" {
		m.Busy = false
	}
	if msg.Err != nil {
		if client.IsUnauthorized(msg.Err) {
			m.Connected = false
		}
		return m.AddLog("%s failed: %v", msg.Action, msg.Err), nil
	}
	if msg.State != nil {
		m.State = *msg.State
	}
	if msg.Action == "narrate" {
		m = m.AddLog("narration ready")
		return m, tea.Batch(fetchTimeline(m.Agent), fetchMedia(m.Agent))
	}
	return m, nil
}

func (m Model) handleExport(msg ExportMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.AddLog("export failed: %v", msg.Err), nil
	}
	return m.AddLog("exported %d entries to %s", msg.Result.EntryCount, msg.Result.OutputPath), nil
}
