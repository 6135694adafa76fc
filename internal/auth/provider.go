// Package auth implements the panel's cookie-session login and the
// middleware that fences the admin API behind it.
package auth

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tierraquerida/tq-admin/internal/model"
)

var authLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

type AuthProvider interface {
	// WithAdminAuthorization resolves the session cookie and, when valid,
	// stores the admin in the request context. Requests without a valid
	// session are rejected.
	WithAdminAuthorization() func(http.Handler) http.Handler

	GetAdminFromSession(r *http.Request) (model.Admin, error)

	HandleLogin(w http.ResponseWriter, r *http.Request)
	HandleLogout(w http.ResponseWriter, r *http.Request)
	HandleMe(w http.ResponseWriter, r *http.Request)
}
