package playback

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// AudioServer streams the in-memory narration track to the editor's audio element.
type AudioServer struct {
	logger *slog.Logger
}

func NewAudioServer(logger *slog.Logger) *AudioServer {
	return &AudioServer{logger: logger}
}

// ServeTrack writes track with Range support. A nil track is a 404.
func (s *AudioServer) ServeTrack(w http.ResponseWriter, r *http.Request, track *AudioTrack) {
	if track == nil {
		http.Error(w, "no narration audio", http.StatusNotFound)
		return
	}

	size := int64(len(track.Data))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", track.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", strconv.Quote(track.ID))

	span, err := ParseRange(r.Header.Get("Range"), size)
	switch {
	case err == ErrUnsatisfiable:
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	case err != nil:
		// malformed ranges are ignored and the whole track is sent
		if s.logger != nil {
			s.logger.Debug("ignoring malformed range", "range", r.Header.Get("Range"))
		}
		span = nil
	}

	if span == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(track.Data)
		}
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(span.Length(), 10))
	w.Header().Set("Content-Range", span.Header(size))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method != http.MethodHead {
		w.Write(track.Data[span.First : span.Last+1])
	}
}
