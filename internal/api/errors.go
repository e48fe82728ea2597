package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

// WriteAppError maps err onto a status code and the error envelope. Messages
// of unclassified errors are not shown to the client.
func WriteAppError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, playback.ErrSuperseded) {
		WriteError(w, http.StatusConflict, err.Error(), "SUPERSEDED")
		return
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		logger.Error("request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch appErr.Code {
	case apperrors.CodeInput:
		status, code = http.StatusBadRequest, "BAD_REQUEST"
	case apperrors.CodeSynthesis:
		status, code = http.StatusBadGateway, "SYNTHESIS_FAILED"
	case apperrors.CodePlaybackResource:
		status, code = http.StatusConflict, "PLAYBACK_RESOURCE"
	case apperrors.CodeNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case apperrors.CodeUnauthorized:
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	}

	if status >= 500 {
		logger.Error("request failed", "error", err, "internal", appErr.Internal)
	} else if appErr.Internal != "" {
		logger.Debug("request rejected", "error", err, "internal", appErr.Internal)
	}

	message := appErr.Message
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code, Field: appErr.Field})
}
