package httputil

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

type ErrorBody struct {
	Error string `json:"error"`
}

// FieldErrorsBody carries per-field validation failures.
type FieldErrorsBody[T any] struct {
	Errors []T `json:"errors"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode json response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}

func WriteFieldErrors[T any](w http.ResponseWriter, errs []T) {
	WriteJSON(w, http.StatusBadRequest, FieldErrorsBody[T]{Errors: errs})
}

// RenderHTML executes tmpl into a buffer first so a template failure
// produces a clean 500 instead of a half-written page.
func RenderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("failed to render page", "template", tmpl.Name(), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
