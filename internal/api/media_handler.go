package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelforge/reelforge-agent/internal/media"
)

func listMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := cfg.MediaService.ListItems(r.Context())
		if err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		resp := MediaListResponse{Items: make([]MediaResponse, len(items))}
		for i, it := range items {
			resp.Items[i] = MediaToResponse(it)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		item, err := cfg.MediaService.AddItem(r.Context(), media.Kind(req.Kind), req.Name, req.DisplayDurationS)
		if err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		WriteJSON(w, http.StatusCreated, MediaToResponse(*item))
	}
}

func deleteMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "media id required", "BAD_REQUEST")
			return
		}

		if err := cfg.MediaService.RemoveItem(r.Context(), id); err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func reorderMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := cfg.MediaService.Reorder(r.Context(), req.IDs); err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		listMediaHandler(cfg).ServeHTTP(w, r)
	}
}
