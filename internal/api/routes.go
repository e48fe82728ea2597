package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	// media elements cannot send an Authorization header
	r.Group(func(r chi.Router) {
		r.Use(LoopbackGuard())

		r.Get("/playback/audio", audioHandler(cfg))
		r.Head("/playback/audio", audioHandler(cfg))
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/media", listMediaHandler(cfg))
		r.Post("/media", addMediaHandler(cfg))
		r.Delete("/media/{id}", deleteMediaHandler(cfg))
		r.Put("/media/order", reorderMediaHandler(cfg))

		r.Post("/narration", narrationHandler(cfg))
		r.Get("/timeline", timelineHandler(cfg))
		r.Post("/timeline/preview", previewHandler(cfg))

		r.Get("/playback/state", stateHandler(cfg))
		r.Get("/playback/events", eventsHandler(cfg))
		r.Post("/playback/play", transportHandler(cfg, cfg.Controller.Play))
		r.Post("/playback/pause", transportHandler(cfg, cfg.Controller.Pause))
		r.Post("/playback/toggle", transportHandler(cfg, cfg.Controller.Toggle))
		r.Post("/playback/stop", stopHandler(cfg))

		r.Get("/styles", stylesHandler(cfg))
		r.Post("/export/captions", exportCaptionsHandler(cfg))

		r.Group(func(r chi.Router) {
			r.Use(LoopbackGuard())

			r.Post("/playback/progress", progressHandler(cfg))
			r.Post("/playback/ended", endedHandler(cfg))
			r.Post("/playback/error", resourceErrorHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			Version:    cfg.Version,
			UptimeS:    uptime,
			InstanceID: cfg.InstanceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := cfg.Controller.State()

		state := "idle"
		switch {
		case st.LastError != "":
			state = "error"
		case st.IsPlaying:
			state = "playing"
		case st.TrackID != "":
			state = "paused"
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:       state,
			LastError:   st.LastError,
			MediaCount:  len(cfg.Controller.Media()),
			Synthesizer: cfg.Synthesizer,
			AudioMode:   cfg.AudioMode,
			Ticking:     cfg.Controller.IsRunning(),
			Playback:    st,
		})
	}
}
