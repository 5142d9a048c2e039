package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"github.com/fabianroy/Bistro-Boss-Server/internal/service"
)

const (
	kindValidation        = "validation_failure"
	kindNotFound          = "not_found"
	kindUpstream          = "upstream_failure"
	kindRateLimited       = "rate_limited"
	kindImportUnavailable = "import_unavailable"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, kindUpstream, "the server encountered a problem")
}

func (app *application) badGatewayResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("upstream error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadGateway, kindUpstream, "the payment provider could not process the request")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, kindValidation, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, kindNotFound, "not found")
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("service unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusServiceUnavailable, kindImportUnavailable, err.Error())
}

// Auth failures answer with short plain text; the reason only goes to the log.
func (app *application) unauthorizedResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeText(w, http.StatusUnauthorized, "Unauthorized Request")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request, reason string) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path, "reason", reason)

	writeText(w, http.StatusForbidden, "Forbidden Request")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path, "retry_after", retryAfter.String())

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))

	writeJSONError(w, http.StatusTooManyRequests, kindRateLimited, "rate limit exceeded, retry after "+strconv.Itoa(seconds)+"s")
}

// errorResponse maps service and storage errors to the matching response.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repo.ErrInvalidID):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, repo.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, service.ErrPaymentProvider):
		app.badGatewayResponse(w, r, err)
	case errors.Is(err, service.ErrImportUnavailable):
		app.serviceUnavailableResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
