package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/playback"
	"github.com/reelforge/reelforge-agent/internal/tts"
)

// eventKeepAlive is how often an idle event stream gets a comment line.
const eventKeepAlive = 15 * time.Second

func narrationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NarrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		st, err := cfg.Controller.Generate(r.Context(), tts.NarrationRequest{
			Text:    req.Text,
			VoiceID: req.VoiceID,
			Speed:   req.Speed,
			Pitch:   req.Pitch,
		})
		if err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		tl, id := cfg.Controller.Timeline()
		WriteJSON(w, http.StatusOK, NarrationResponse{State: st, Timeline: TimelineToResponse(tl, id)})
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tl, id := cfg.Controller.Timeline()
		if tl == nil {
			WriteError(w, http.StatusNotFound, "no narration generated yet", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, TimelineToResponse(tl, id))
	}
}

func previewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			WriteAppError(w, cfg.Logger, apperrors.Input("text is required").WithField("text"))
			return
		}
		if req.Speed != 0 && (req.Speed < tts.MinSpeed || req.Speed > tts.MaxSpeed) {
			WriteAppError(w, cfg.Logger, apperrors.Input(
				fmt.Sprintf("speed must be between %.1f and %.1f", tts.MinSpeed, tts.MaxSpeed)).WithField("speed"))
			return
		}

		tl := cfg.Controller.Preview(req.Text, req.DurationS, req.Speed)
		WriteJSON(w, http.StatusOK, TimelineToResponse(tl, ""))
	}
}

func stateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Controller.State())
	}
}

func transportHandler(cfg ServerConfig, op func() (playback.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := op()
		if err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}

func stopHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Controller.Stop())
	}
}

// eventsHandler streams every published state as a server-sent event. A slow
// client skips states rather than holding up the controller.
func eventsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteError(w, http.StatusInternalServerError, "streaming unsupported", "INTERNAL_ERROR")
			return
		}

		updates := make(chan playback.State, 16)
		unsubscribe := cfg.Controller.Subscribe(func(st playback.State) {
			select {
			case updates <- st:
			default:
			}
		})
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := writeEvent(w, cfg.Controller.State()); err != nil {
			return
		}
		flusher.Flush()

		keepAlive := time.NewTicker(eventKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case st := <-updates:
				if err := writeEvent(w, st); err != nil {
					cfg.Logger.Debug("event stream closed", "error", err)
					return
				}
				flusher.Flush()
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, st playback.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return err
}

func audioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.AudioServer.ServeTrack(w, r, cfg.Controller.Track())
	}
}

func remoteAudio(cfg ServerConfig, w http.ResponseWriter) (*playback.RemoteAudio, bool) {
	res, ok := cfg.Controller.Resource().(*playback.RemoteAudio)
	if !ok {
		WriteAppError(w, cfg.Logger, apperrors.PlaybackResource("no browser audio element is attached"))
		return nil, false
	}
	return res, true
}

func progressHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProgressReport
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.PositionS < 0 || req.DurationS < 0 {
			WriteAppError(w, cfg.Logger, apperrors.Input("position and duration must not be negative").WithField("position_s"))
			return
		}

		res, ok := remoteAudio(cfg, w)
		if !ok {
			return
		}
		res.Report(req.PositionS, req.DurationS, req.Paused)
		WriteJSON(w, http.StatusOK, cfg.Controller.State())
	}
}

func endedHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := remoteAudio(cfg, w)
		if !ok {
			return
		}
		res.Ended()
		WriteJSON(w, http.StatusOK, cfg.Controller.State())
	}
}

func resourceErrorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ErrorReport
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Message == "" {
			req.Message = "audio element error"
		}

		res, ok := remoteAudio(cfg, w)
		if !ok {
			return
		}
		res.Fail(errors.New(req.Message))
		WriteJSON(w, http.StatusOK, cfg.Controller.State())
	}
}
