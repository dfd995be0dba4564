package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/victorprouff/envrac/internal/apperr"
	"github.com/victorprouff/envrac/internal/digest"
)

// Handler holds the trigger route handlers.
type Handler struct {
	svc *digest.Service
}

// NewHandler creates a new Handler around the pipeline service.
func NewHandler(svc *digest.Service) *Handler {
	return &Handler{svc: svc}
}

// Publish handles POST /en-vrac: runs the full pipeline and commits the
// digest. Callers get a generic failure; the detailed upstream report goes
// to the log.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	published, err := h.svc.Run(r.Context())
	if err != nil {
		logPipelineError("publish", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	slog.Info("digest published", slog.String("path", published))
	writeJSON(w, http.StatusOK, map[string]string{"published": published})
}

// DryRun handles POST /dry-run: same pipeline, nothing committed, the
// composed article is returned for inspection.
func (h *Handler) DryRun(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.Compose(r.Context())
	if err != nil {
		logPipelineError("dry-run", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(article))
}

// Healthcheck handles GET /healthcheck.
func (h *Handler) Healthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logPipelineError records the full upstream detail (status and remote body)
// for operator diagnosis.
func logPipelineError(op string, err error) {
	var upstream *apperr.UpstreamError
	var publish *apperr.PublishError
	switch {
	case errors.As(err, &upstream):
		slog.Error("pipeline upstream failure",
			slog.String("op", op),
			slog.String("service", upstream.Service),
			slog.Int("status", upstream.Status),
			slog.String("body", upstream.Body),
			slog.Bool("timeout", upstream.Timeout()),
			slog.String("error", err.Error()))
	case errors.As(err, &publish):
		slog.Error("pipeline publish failure",
			slog.String("op", op),
			slog.Int("status", publish.Status),
			slog.String("body", publish.Body),
			slog.String("error", err.Error()))
	case errors.Is(err, apperr.ErrInsufficientHistory):
		slog.Error("pipeline precondition failure",
			slog.String("op", op),
			slog.String("error", err.Error()))
	default:
		slog.Error("pipeline failure",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
}
