package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Viewer is the authenticated caller.
type Viewer struct {
	ID string
}

type viewerKey struct{}

// WithViewer returns a copy of ctx carrying v.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom reports the authenticated caller stored in ctx, if any.
func ViewerFrom(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	if !ok || v.ID == "" {
		return Viewer{}, false
	}
	return v, true
}

// GetUserID extracts the subject from the JWT claims stored by the jwt middleware.
func GetUserID(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}

	return sub, nil
}

// Context returns the request's user context with the JWT subject attached as viewer.
// Requests without a valid token get a context without a viewer.
func Context(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, err := GetUserID(c); err == nil {
		ctx = WithViewer(ctx, Viewer{ID: id})
	}
	return ctx
}
