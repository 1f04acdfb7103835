package routes

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&[]models.User{
		{ID: "mod", Name: "Moderator", Role: models.RoleAdmin},
		{ID: "you", Name: "You", Role: models.RoleUser},
	}).Error)

	cfg := &config.Config{JWTSecret: "routes-secret", RateLimit: 1000}
	notifications := services.NewNotificationService(db)
	app := fiber.New()
	Setup(app, cfg, db, Handlers{
		Health:        handlers.NewHealthHandler(db),
		Notifications: handlers.NewNotificationHandler(notifications),
		Reports:       handlers.NewReportHandler(services.NewReportService(db, notifications)),
		Moderation:    handlers.NewModerationHandler(services.NewModerationService(db)),
		Content:       handlers.NewContentHandler(services.NewContentService(db, notifications)),
	})
	return app, cfg
}

func request(t *testing.T, app *fiber.App, cfg *config.Config, method, path, sub string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if sub != "" {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": sub,
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestRouteProtection(t *testing.T) {
	app, cfg := setupApp(t)

	cases := []struct {
		name   string
		method string
		path   string
		sub    string
		want   int
	}{
		{"health is public", "GET", "/api/health", "", fiber.StatusOK},
		{"notifications need a token", "GET", "/api/notifications", "", fiber.StatusUnauthorized},
		{"notifications with a token", "GET", "/api/notifications", "you", fiber.StatusOK},
		{"admin list needs admin", "GET", "/api/admin/reports", "you", fiber.StatusForbidden},
		{"admin list for admins", "GET", "/api/admin/reports", "mod", fiber.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, _ := request(t, app, cfg, c.method, c.path, c.sub)
			assert.Equal(t, c.want, status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, cfg := setupApp(t)

	// touch a service so at least one custom series exists
	status, _ := request(t, app, cfg, "GET", "/api/notifications", "you")
	require.Equal(t, fiber.StatusOK, status)

	status, body := request(t, app, cfg, "GET", "/metrics", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.Contains(body, "service_tx_duration_seconds"), "custom histogram is exported")
}
