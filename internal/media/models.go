package media

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

const DefaultDisplayDurationSeconds = 5.0

// Item is one background image or clip in the user-ordered carousel.
type Item struct {
	ID                     string    `json:"id"`
	Kind                   Kind      `json:"kind"`
	Name                   string    `json:"name"`
	DisplayDurationSeconds float64   `json:"display_duration_s"`
	Position               int       `json:"position"`
	CreatedAt              time.Time `json:"created_at"`
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
}

func NewID() string {
	return uuid.NewString()
}

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindImage:
		return KindImage, true
	case KindVideo:
		return KindVideo, true
	}
	return "", false
}

// KindFromFilename guesses the media kind from the file extension.
func KindFromFilename(name string) (Kind, bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(name[i:])
	switch {
	case imageExtensions[ext]:
		return KindImage, true
	case videoExtensions[ext]:
		return KindVideo, true
	}
	return "", false
}
