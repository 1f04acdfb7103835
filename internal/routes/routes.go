package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Notifications *handlers.NotificationHandler
	Reports       *handlers.ReportHandler
	Moderation    *handlers.ModerationHandler
	Content       *handlers.ContentHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// per-IP sliding window, RATE_LIMIT requests per minute
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// JWT middleware is attached per route so public routes stay public
	requireJWT := middleware.JWTProtected(cfg)
	viewer := middleware.Viewer()

	api.Post("/posts", requireJWT, viewer, h.Content.CreatePost)
	api.Put("/posts/:id", requireJWT, viewer, h.Content.UpdatePost)
	api.Post("/posts/:id/comments", requireJWT, viewer, h.Content.CreateComment)
	api.Put("/comments/:id", requireJWT, viewer, h.Content.UpdateComment)

	api.Get("/notifications", requireJWT, viewer, h.Notifications.List)
	api.Post("/notifications/:id/read", requireJWT, viewer, h.Notifications.MarkAsRead)

	api.Post("/reports", requireJWT, viewer, h.Reports.FileReport)
	api.Post("/blocks", requireJWT, viewer, h.Moderation.BlockUser)
	api.Delete("/blocks/:id", requireJWT, viewer, h.Moderation.UnblockUser)

	admin := api.Group("/admin", requireJWT, viewer, middleware.AdminRequired(db, cfg))
	admin.Get("/reports", h.Reports.List)
	admin.Post("/reviews", h.Moderation.Review)
}
