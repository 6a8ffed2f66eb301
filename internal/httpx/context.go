package httpx

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	requestIDKey
)

// Principal is the authenticated caller attached by AuthMiddleware.
type Principal struct {
	UserID string
	Role   string
}

func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, principalKey, Principal{UserID: userID, Role: role})
}

// PrincipalFrom reports the caller, if the request went through AuthMiddleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.UserID != ""
}

// UserIDFrom is "" on unauthenticated requests.
func UserIDFrom(r *http.Request) string {
	p, _ := PrincipalFrom(r.Context())
	return p.UserID
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

// RequestIDFromContext lets code below the handler layer tag its logs.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
