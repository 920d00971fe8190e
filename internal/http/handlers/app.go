package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/infra"
)

// Jobs is the job pipeline as seen by the transport layer.
type Jobs interface {
	Submit(ctx context.Context, sub domain.Submission) (domain.Result, error)
	Fetch(ctx context.Context, jobID, fileName string) ([]byte, error)
}

type App struct {
	Jobs           Jobs
	Logger         infra.Logger
	MaxUploadBytes int64
}

func NewApp(jobs Jobs, logger infra.Logger, maxUploadBytes int64) *App {
	return &App{Jobs: jobs, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorResponse{Error: kind, Message: message})
}

// fail renders err using its domain kind.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.ErrorKind(err)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, kind, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, kind, "artifact not found")
	default:
		a.logger(r).Error().Err(err).Str("kind", kind).Msg("request failed")
		a.error(w, http.StatusInternalServerError, kind, "storage failure")
	}
}

// logger returns the request scoped logger installed by the logging
// middleware, falling back to the application logger.
func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

func jsonDecode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
