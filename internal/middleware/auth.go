package middleware

import (
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/auth"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/logging"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// Viewer moves the JWT subject, the request id and the request's Sentry hub
// into c.UserContext(), which is what the services read.
func Viewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := auth.Context(c)
		if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
			ctx = logging.WithRequestID(ctx, id)
		}
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			if id, err := auth.GetUserID(c); err == nil {
				hub.Scope().SetUser(sentry.User{ID: id})
			}
			ctx = sentry.SetHubOnContext(ctx, hub)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
