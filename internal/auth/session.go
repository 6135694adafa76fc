package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// SessionAuthProvider implements AuthProvider with opaque tokens stored
// server-side and handed to the browser in an HttpOnly cookie.
type SessionAuthProvider struct {
	admins       *repository.AdminRepository
	cookieName   string
	sessionDays  int
	cookieSecure bool
}

func NewSessionAuthProvider(admins *repository.AdminRepository, cfg config.AuthConfig) *SessionAuthProvider {
	return &SessionAuthProvider{
		admins:       admins,
		cookieName:   cfg.CookieName,
		sessionDays:  cfg.SessionDays,
		cookieSecure: cfg.CookieSecure,
	}
}

func newSessionToken() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (p *SessionAuthProvider) WithAdminAuthorization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(p.cookieName)
			if err != nil || cookie.Value == "" {
				writeAuthError(w, http.StatusUnauthorized, config.ErrNotAuthorized)
				return
			}

			admin, err := p.admins.AdminByToken(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, repository.ErrNoSuchRecord) {
					authLogger.Error().Err(err).Msg("Session lookup failed")
				}
				p.clearCookie(w)
				writeAuthError(w, http.StatusUnauthorized, config.ErrNotAuthorized)
				return
			}

			ctx := ContextWithAdmin(r.Context(), admin)
			ctx = ContextWithSessionToken(ctx, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (p *SessionAuthProvider) GetAdminFromSession(r *http.Request) (model.Admin, error) {
	admin, ok := AdminFromContext(r.Context())
	if !ok {
		return model.Admin{}, errors.New("no admin in context")
	}
	return admin, nil
}

// HandleLogin verifies credentials and issues a fresh session cookie.
func (p *SessionAuthProvider) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAuthError(w, http.StatusMethodNotAllowed, config.ErrMethodSpanish)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAuthError(w, http.StatusBadRequest, config.ErrInvalidLogin)
		return
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	admin, err := p.admins.AdminByEmail(r.Context(), body.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNoSuchRecord) {
			authLogger.Error().Err(err).Msg("Login lookup failed")
			writeAuthError(w, http.StatusInternalServerError, config.ErrSessionFailure)
			return
		}
		writeAuthError(w, http.StatusUnauthorized, config.ErrInvalidLogin)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)) != nil {
		writeAuthError(w, http.StatusUnauthorized, config.ErrInvalidLogin)
		return
	}

	token, err := newSessionToken()
	if err != nil {
		authLogger.Error().Err(err).Msg("Token generation failed")
		writeAuthError(w, http.StatusInternalServerError, config.ErrSessionFailure)
		return
	}

	session := model.Session{
		Token:     token,
		AdminID:   admin.ID,
		ExpiresAt: time.Now().AddDate(0, 0, p.sessionDays),
	}
	if err := p.admins.CreateSession(r.Context(), session); err != nil {
		authLogger.Error().Err(err).Msg("Session insert failed")
		writeAuthError(w, http.StatusInternalServerError, config.ErrSessionFailure)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   p.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	authLogger.Info().Str("email", admin.Email).Msg("Admin logged in")
	writeAuthJSON(w, http.StatusOK, map[string]any{"ok": true, "admin": admin})
}

// HandleLogout revokes the current session and clears the cookie. It is
// safe to call without a valid session.
func (p *SessionAuthProvider) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(p.cookieName); err == nil && cookie.Value != "" {
		if err := p.admins.DeleteSession(r.Context(), cookie.Value); err != nil {
			authLogger.Error().Err(err).Msg("Session delete failed")
		}
	}
	p.clearCookie(w)
	writeAuthJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleMe echoes the logged-in admin so the panel can restore state on
// reload. Runs behind WithAdminAuthorization.
func (p *SessionAuthProvider) HandleMe(w http.ResponseWriter, r *http.Request) {
	admin, err := p.GetAdminFromSession(r)
	if err != nil {
		writeAuthError(w, http.StatusUnauthorized, config.ErrNotAuthorized)
		return
	}
	writeAuthJSON(w, http.StatusOK, map[string]any{"ok": true, "admin": admin})
}

// PurgeExpiredSessions is wired to the maintenance scheduler.
func (p *SessionAuthProvider) PurgeExpiredSessions(ctx context.Context) {
	n, err := p.admins.PurgeExpired(ctx)
	if err != nil {
		authLogger.Error().Err(err).Msg("Session purge failed")
		return
	}
	if n > 0 {
		authLogger.Info().Int64("purged", n).Msg("Expired sessions removed")
	}
}

func (p *SessionAuthProvider) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeAuthJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		authLogger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeAuthJSON(w, status, map[string]any{"ok": false, "error": msg})
}
