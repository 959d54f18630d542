package api

import (
	"context"
	"errors"

	"github.com/promptlib/backend/services"
)

type keyType string

const (
	sessionKey keyType = "session"
)

// ctxWithSession adds the verified session claims to the context
func ctxWithSession(ctx context.Context, claims *services.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// ctxGetSession retrieves the session claims from the context
func ctxGetSession(ctx context.Context) (*services.SessionClaims, error) {
	value := ctx.Value(sessionKey)
	if value == nil {
		return nil, errors.New("no session in context")
	}
	claims, ok := value.(*services.SessionClaims)
	if !ok {
		return nil, errors.New("session value has unexpected type")
	}
	return claims, nil
}
