package auth

import (
	"context"

	"github.com/tierraquerida/tq-admin/internal/model"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeyAdmin ContextKey = "admin"

// ContextKeySessionToken keys the raw session token so handlers can
// scope per-session state (editor drafts) without re-reading cookies.
const ContextKeySessionToken ContextKey = "sessionToken"

func ContextWithAdmin(ctx context.Context, a model.Admin) context.Context {
	return context.WithValue(ctx, ContextKeyAdmin, a)
}

func AdminFromContext(ctx context.Context) (model.Admin, bool) {
	a, ok := ctx.Value(ContextKeyAdmin).(model.Admin)
	return a, ok
}

func ContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeySessionToken, token)
}

func SessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeySessionToken).(string)
	return token
}
