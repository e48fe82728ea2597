package tui

import (
	"fmt"
	"strings"
)

const (
	progressWidth = 40
	captionWindow = 2
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("reelforge"))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.Connected {
		b.WriteString(m.progressLine())
		b.WriteString("\n\n")

		caption := m.State.ActiveCaption
		if caption == "" {
			caption = InfoStyle.Render("·")
		}
		b.WriteString(CaptionStyle.Render(caption))
		b.WriteString("\n\n")

		if lines := m.captionLines(); len(lines) > 0 {
			b.WriteString(InfoStyle.Render("Captions"))
			b.WriteString("\n")
			b.WriteString(strings.Join(lines, "\n"))
			b.WriteString("\n\n")
		}

		if len(m.Media) > 0 {
			b.WriteString(InfoStyle.Render("Media"))
			b.WriteString("\n")
			b.WriteString(strings.Join(m.mediaLines(), "\n"))
			b.WriteString("\n\n")
		}
	}

	if len(m.Logs) > 0 {
		for _, l := range m.Logs {
			b.WriteString(InfoStyle.Render("  " + l))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render("space toggle · s stop · g generate · e srt · v vtt · r refresh · q quit"))
	return b.String()
}

func (m Model) statusLine() string {
	if !m.Connected {
		msg := "not connected to agent"
		if m.Err != nil {
			msg += ": " + m.Err.Error()
		}
		return ErrorStyle.Render(msg)
	}

	state := "stopped"
	switch {
	case m.Busy:
		state = "generating"
	case m.State.IsPlaying:
		state = "playing"
	case m.State.ClockState == "paused":
		state = "paused"
	}
	line := StatusStyle.Render(state) + InfoStyle.Render(fmt.Sprintf("  mode %s", m.State.Mode))
	if m.State.LastError != "" {
		line += "  " + ErrorStyle.Render(m.State.LastError)
	}
	return line
}

func (m Model) progressLine() string {
	total := m.State.DurationSeconds
	cur := m.State.CurrentTimeSeconds
	filled := 0
	if total > 0 {
		filled = int(cur / total * progressWidth)
		filled = max(0, min(filled, progressWidth))
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	return fmt.Sprintf("%s %s / %s", bar, clockText(cur), clockText(total))
}

// captionLines lists the chunks around the active one.
func (m Model) captionLines() []string {
	if m.Timeline == nil || len(m.Timeline.Chunks) == 0 {
		return nil
	}
	active := -1
	if m.State.ActiveChunkIndex != nil {
		active = *m.State.ActiveChunkIndex
	}

	center := max(active, 0)
	from := max(0, center-captionWindow)
	to := min(len(m.Timeline.Chunks), center+captionWindow+1)

	lines := make([]string, 0, to-from)
	for _, c := range m.Timeline.Chunks[from:to] {
		text := fmt.Sprintf("%s  %s", clockText(c.StartS), c.Text)
		if c.Index == active {
			lines = append(lines, ActiveStyle.Render(text))
		} else {
			lines = append(lines, "  "+text)
		}
	}
	return lines
}

func (m Model) mediaLines() []string {
	active := -1
	if m.State.ActiveMediaIndex != nil {
		active = *m.State.ActiveMediaIndex
	}
	lines := make([]string, len(m.Media))
	for i, it := range m.Media {
		text := fmt.Sprintf("%d. %s (%s, %.1fs)", i+1, it.Name, it.Kind, it.DisplayDurationS)
		if i == active {
			lines[i] = ActiveStyle.Render(text)
		} else {
			lines[i] = "  " + text
		}
	}
	return lines
}

func clockText(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds * 10)
	return fmt.Sprintf("%d:%02d.%d", total/600, (total/10)%60, total%10)
}
