package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/export"
	"github.com/reelforge/reelforge-agent/internal/logging"
)

func stylesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, StylesResponse{Styles: cfg.Styles.List()})
	}
}

func exportCaptionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportCaptionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		outDir := req.OutputDir
		if outDir == "" {
			outDir = cfg.ExportDir
			if err := os.MkdirAll(outDir, 0755); err != nil {
				cfg.Logger.Error("failed to create export directory", "error", err, "dir", outDir)
				WriteError(w, http.StatusInternalServerError, "failed to prepare export directory", "INTERNAL_ERROR")
				return
			}
		}

		st := req.Style
		if st == nil && req.StylePreset != "" {
			preset, ok := cfg.Styles.Get(req.StylePreset)
			if !ok {
				WriteAppError(w, cfg.Logger, apperrors.Input("unknown style preset").WithField("style_preset"))
				return
			}
			st = &preset
		}

		tl, timelineID := cfg.Controller.Timeline()
		result, err := export.Write(export.Request{
			ProjectName: req.ProjectName,
			Format:      req.Format,
			OutputDir:   outDir,
			FrameRate:   req.FrameRate,
			Style:       st,
		}, export.Source{
			Timeline:       tl,
			Items:          cfg.Controller.Media(),
			PerItemSeconds: cfg.MediaItemSeconds,
		})
		if err != nil {
			WriteAppError(w, cfg.Logger, err)
			return
		}

		cfg.Logger.Info("captions exported",
			"format", result.Format,
			"entries", result.EntryCount,
			"path", logging.SanitizePath(result.OutputPath),
			"timeline_id", timelineID,
		)
		WriteJSON(w, http.StatusOK, result)
	}
}
