package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/fhuszti/upload-relay-go/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	logFailure(ctx, status, msg, err)
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(ctx, w, status, ErrorResponse{Error: msg})
}

// WriteText answers with a short plain-text message, the format the upload form expects.
func WriteText(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	logFailure(ctx, status, msg, err)
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, wErr := w.Write([]byte(msg)); wErr != nil {
		logger.Errorf(ctx, "❌  Failed to write response: %v", wErr)
	}
}

func RespondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(ctx, "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondHTML(ctx context.Context, w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		logger.Errorf(ctx, "❌  Failed to render template %q: %v", tmpl.Name(), err)
	}
}

func logFailure(ctx context.Context, status int, msg string, err error) {
	switch {
	case status < http.StatusInternalServerError && err != nil:
		logger.Warnf(ctx, "⚠️  %s: %v", msg, err)
	case status < http.StatusInternalServerError:
		logger.Warn(ctx, "⚠️  "+msg)
	case err != nil:
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	default:
		logger.Error(ctx, "❌  "+msg)
	}
}
