package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/media"
)

const maxNameLength = 80

// Source is what an export reads: the current timeline and media sequence.
type Source struct {
	Timeline       *captions.Timeline
	Items          []media.Item
	PerItemSeconds float64
}

// Write renders req.Format from src and writes it into req.OutputDir.
func Write(req Request, src Source) (*Result, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, apperrors.Input(err.Error()).WithField("format")
	}
	if err := ValidateOutputDir(req.OutputDir); err != nil {
		return nil, err
	}

	name := SanitizeName(req.ProjectName, maxNameLength)
	if name == "" {
		name = "narration"
	}

	if src.Timeline.Len() == 0 {
		return nil, apperrors.Input("nothing to export, generate a narration preview first")
	}
	if req.Style != nil {
		if err := req.Style.Validate(); err != nil {
			return nil, err
		}
	}

	var body string
	var count int
	switch format {
	case FormatSRT:
		body, count = GenerateSRT(src.Timeline, req.Style), src.Timeline.Len()
	case FormatVTT:
		body, count = GenerateVTT(src.Timeline, req.Style), src.Timeline.Len()
	case FormatEDL:
		if len(src.Items) == 0 {
			return nil, apperrors.Input("no media to place in the edit list").WithField("media")
		}
		events := BuildCarousel(src.Items, src.Timeline.End(), src.PerItemSeconds)
		body, count = GenerateEDL(events, name, req.FrameRate), len(events)
	}

	outPath := filepath.Join(req.OutputDir, name+format.Extension())
	if err := os.WriteFile(outPath, []byte(body), 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	return &Result{
		Status:     "ok",
		Format:     format,
		OutputPath: outPath,
		EntryCount: count,
	}, nil
}
