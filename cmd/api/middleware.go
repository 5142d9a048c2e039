package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/fabianroy/Bistro-Boss-Server/internal/auth"
	"github.com/go-chi/chi"
)

func (app *application) requireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			app.unauthorizedResponse(w, r, auth.ErrMissingToken)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			app.unauthorizedResponse(w, r, errors.New("malformed authorization header"))
			return
		}

		claims, err := app.tokens.Verify(token)
		if err != nil {
			app.unauthorizedResponse(w, r, err)
			return
		}

		ctx := auth.WithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must be mounted after requireAuthenticated; it trusts the
// identity already on the context.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFrom(r.Context())
		if identity == nil {
			app.unauthorizedResponse(w, r, auth.ErrMissingToken)
			return
		}

		isAdmin, err := app.userService.IsAdmin(r.Context(), identity.Email)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}

		if !isAdmin {
			app.forbiddenResponse(w, r, "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireSelf rejects requests whose email parameter names someone other
// than the authenticated user.
func (app *application) requireSelf(email func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFrom(r.Context())
			if identity == nil {
				app.unauthorizedResponse(w, r, auth.ErrMissingToken)
				return
			}

			if email(r) != identity.Email {
				app.forbiddenResponse(w, r, "email does not match token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func emailFromPath(r *http.Request) string {
	return chi.URLParam(r, "email")
}

func emailFromQuery(r *http.Request) string {
	return r.URL.Query().Get("email")
}

type peerKey struct{}

// peerHost records the connection's own address before middleware.RealIP
// replaces RemoteAddr with client-supplied forwarding headers.
func peerHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), peerKey{}, host)))
	})
}

func clientKey(r *http.Request) string {
	if host, ok := r.Context().Value(peerKey{}).(string); ok {
		return host
	}
	return r.RemoteAddr
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientKey(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func identityEmail(r *http.Request) string {
	if identity := auth.IdentityFrom(r.Context()); identity != nil {
		return identity.Email
	}
	return ""
}
