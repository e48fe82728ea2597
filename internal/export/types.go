package export

import (
	"fmt"
	"strings"

	"github.com/reelforge/reelforge-agent/internal/style"
)

type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatEDL Format = "edl"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSRT, FormatVTT, FormatEDL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// Extension is the file extension written for the format.
func (f Format) Extension() string {
	return "." + string(f)
}

type Request struct {
	ProjectName string       `json:"project_name"`
	Format      string       `json:"format"`
	OutputDir   string       `json:"output_dir"`
	FrameRate   float64      `json:"frame_rate"`
	Style       *style.Style `json:"style,omitempty"`
}

type Result struct {
	Status     string `json:"status"`
	Format     Format `json:"format"`
	OutputPath string `json:"output_path"`
	EntryCount int    `json:"entry_count"`
}
