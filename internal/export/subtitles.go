package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/style"
)

// GenerateSRT renders the timeline as SubRip. Bold and italic styles become
// <b> and <i> tags, which most players honor.
func GenerateSRT(tl *captions.Timeline, st *style.Style) string {
	var b strings.Builder
	for i, c := range tl.Chunks {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(c.StartSeconds, ','), formatTimestamp(c.EndSeconds, ','))
		fmt.Fprintf(&b, "%s\n\n", decorate(c.Text, st))
	}
	return b.String()
}

// GenerateVTT renders the timeline as WebVTT with the style position mapped to
// a cue line setting.
func GenerateVTT(tl *captions.Timeline, st *style.Style) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	settings := cueSettings(st)
	for i, c := range tl.Chunks {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s%s\n", formatTimestamp(c.StartSeconds, '.'), formatTimestamp(c.EndSeconds, '.'), settings)
		fmt.Fprintf(&b, "%s\n\n", decorate(escapeVTT(c.Text), st))
	}
	return b.String()
}

func decorate(text string, st *style.Style) string {
	if st == nil {
		return text
	}
	if st.Italic {
		text = "<i>" + text + "</i>"
	}
	if st.Bold {
		text = "<b>" + text + "</b>"
	}
	return text
}

func cueSettings(st *style.Style) string {
	if st == nil {
		return ""
	}
	switch st.Position {
	case style.PositionTop:
		return " line:10%"
	case style.PositionMiddle:
		return " line:50%"
	case style.PositionBottom:
		return " line:90%"
	}
	return ""
}

var vttEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeVTT(s string) string {
	return vttEscaper.Replace(s)
}

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm, rounded to the millisecond.
func formatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	secs := (total / 1000) % 60
	minutes := (total / 60000) % 60
	hours := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
