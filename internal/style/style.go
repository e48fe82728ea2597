// Package style describes how captions look. Styles are cosmetic: they never
// affect timing or selection.
package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
)

type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

const (
	MinSizePx = 8
	MaxSizePx = 200
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

type Style struct {
	Name     string   `json:"name,omitempty" yaml:"name"`
	Font     string   `json:"font" yaml:"font"`
	SizePx   int      `json:"size_px" yaml:"size_px"`
	Color    string   `json:"color" yaml:"color"`
	Position Position `json:"position" yaml:"position"`
	Opacity  float64  `json:"opacity" yaml:"opacity"`
	Bold     bool     `json:"bold" yaml:"bold"`
	Italic   bool     `json:"italic" yaml:"italic"`
}

func Default() Style {
	return Style{
		Name:     "default",
		Font:     "Inter",
		SizePx:   48,
		Color:    "#FFFFFF",
		Position: PositionBottom,
		Opacity:  1,
	}
}

// Validate normalizes the position and reports the first invalid field.
func (s *Style) Validate() error {
	s.Position = Position(strings.ToLower(strings.TrimSpace(string(s.Position))))
	if s.Position == "" {
		s.Position = PositionBottom
	}

	switch {
	case strings.TrimSpace(s.Font) == "":
		return apperrors.Input("font is required").WithField("font")
	case s.SizePx < MinSizePx || s.SizePx > MaxSizePx:
		return apperrors.Input(fmt.Sprintf("size must be between %d and %d px", MinSizePx, MaxSizePx)).WithField("size_px")
	case !hexColor.MatchString(s.Color):
		return apperrors.Input("color must be a hex value like #FFFFFF").WithField("color")
	case s.Opacity < 0 || s.Opacity > 1:
		return apperrors.Input("opacity must be between 0 and 1").WithField("opacity")
	}

	switch s.Position {
	case PositionTop, PositionMiddle, PositionBottom:
		return nil
	default:
		return apperrors.Input("position must be top, middle or bottom").WithField("position")
	}
}
