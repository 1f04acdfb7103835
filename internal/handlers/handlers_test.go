package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/auth"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

// newTestApp wires the handlers like the server does, with the viewer taken
// from the X-User header instead of a JWT.
func newTestApp(t *testing.T) *testApp {
	db := testutil.NewDB(t)
	notifications := services.NewNotificationService(db)
	reports := NewReportHandler(services.NewReportService(db, notifications))
	moderation := NewModerationHandler(services.NewModerationService(db))
	content := NewContentHandler(services.NewContentService(db, notifications))
	notifs := NewNotificationHandler(notifications)

	app := fiber.New()
	app.Get("/health", NewHealthHandler(db).Check)

	api := app.Group("/api", func(c *fiber.Ctx) error {
		if id := c.Get("X-User"); id != "" {
			c.SetUserContext(auth.WithViewer(c.UserContext(), auth.Viewer{ID: id}))
		}
		return c.Next()
	})
	api.Post("/posts", content.CreatePost)
	api.Put("/posts/:id", content.UpdatePost)
	api.Post("/posts/:id/comments", content.CreateComment)
	api.Put("/comments/:id", content.UpdateComment)
	api.Get("/notifications", notifs.List)
	api.Post("/notifications/:id/read", notifs.MarkAsRead)
	api.Post("/reports", reports.FileReport)
	api.Post("/blocks", moderation.BlockUser)
	api.Delete("/blocks/:id", moderation.UnblockUser)
	api.Get("/admin/reports", reports.List)
	api.Post("/admin/reviews", moderation.Review)

	return &testApp{t: t, app: app, db: db}
}

func (a *testApp) user(id string) {
	a.t.Helper()
	require.NoError(a.t, a.db.Create(&models.User{ID: id, Name: id}).Error)
}

func (a *testApp) do(method, path, user string, payload any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}

	resp, err := a.app.Test(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	status, body := a.do("GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["db"])
}

func TestMentionFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	a.user("author")
	a.user("you")

	status, post := a.do("POST", "/api/posts", "author", map[string]string{"title": "Hi", "content": "hello @you"})
	require.Equal(t, fiber.StatusCreated, status)
	postID := post["id"].(string)

	status, body := a.do("GET", "/api/notifications?read=false&orderBy=createdAt_asc", "you", nil)
	require.Equal(t, fiber.StatusOK, status)
	list := body["notifications"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "mentioned_in_post", first["reason"])
	assert.Equal(t, false, first["read"])
	from := first["from"].(map[string]any)
	assert.Equal(t, "Post", from["type"])
	assert.Equal(t, postID, from["id"])

	status, body = a.do("POST", "/api/notifications/"+postID+"/read", "you", nil)
	require.Equal(t, fiber.StatusOK, status)
	marked := body["notification"].(map[string]any)
	assert.Equal(t, true, marked["read"])

	status, body = a.do("POST", "/api/notifications/"+postID+"/read", "you", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, body["notification"])

	status, body = a.do("GET", "/api/notifications?read=false", "you", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["notifications"])
}

func TestCommentRoutes(t *testing.T) {
	a := newTestApp(t)
	a.user("author")
	a.user("commenter")

	_, post := a.do("POST", "/api/posts", "author", map[string]string{"title": "Hi", "content": "content"})
	postID := post["id"].(string)

	status, comment := a.do("POST", "/api/posts/"+postID+"/comments", "commenter", map[string]string{"content": "nice"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Comment", comment["type"])

	status, _ = a.do("PUT", "/api/comments/"+comment["id"].(string), "author", map[string]string{"content": "mine now"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := a.do("GET", "/api/notifications", "author", nil)
	require.Equal(t, fiber.StatusOK, status)
	list := body["notifications"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "commented_on_post", list[0].(map[string]any)["reason"])
}

func TestReportRoutes(t *testing.T) {
	a := newTestApp(t)
	a.user("you")
	a.user("mod")
	a.user("bad")

	status, body := a.do("POST", "/api/reports", "you", map[string]string{
		"resourceId": "bad", "reasonCategory": "doxing", "reasonDescription": "posted my address",
	})
	require.Equal(t, fiber.StatusCreated, status)
	report := body["report"].(map[string]any)
	assert.Equal(t, "Report", report["type"])
	assert.Equal(t, false, report["closed"])
	filed := report["filed"].([]any)
	require.Len(t, filed, 1)
	assert.Equal(t, "posted my address", filed[0].(map[string]any)["reasonDescription"])

	status, body = a.do("POST", "/api/reports", "ghost", map[string]string{"resourceId": "bad", "reasonCategory": "other"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, body["report"])

	status, body = a.do("GET", "/api/admin/reports?reviewed=false", "mod", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["reports"], 1)

	status, body = a.do("POST", "/api/admin/reviews", "mod", map[string]any{"resourceId": "bad", "disable": true, "closed": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["closed"])
	assert.Len(t, body["reviewed"], 1)

	status, body = a.do("GET", "/api/admin/reports?closed=true&reviewed=false", "mod", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["reports"], 1)

	status, _ = a.do("POST", "/api/admin/reviews", "mod", map[string]any{"resourceId": "bad", "closed": true})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestErrorStatusCodes(t *testing.T) {
	a := newTestApp(t)
	a.user("you")
	a.user("other")

	cases := []struct {
		name    string
		method  string
		path    string
		user    string
		payload any
		want    int
	}{
		{"no viewer", "GET", "/api/notifications", "", nil, fiber.StatusUnauthorized},
		{"bad read filter", "GET", "/api/notifications?read=maybe", "you", nil, fiber.StatusBadRequest},
		{"bad ordering", "GET", "/api/notifications?orderBy=name_asc", "you", nil, fiber.StatusBadRequest},
		{"bad paging", "GET", "/api/admin/reports?first=ten", "you", nil, fiber.StatusBadRequest},
		{"negative paging", "GET", "/api/admin/reports?offset=-1", "you", nil, fiber.StatusBadRequest},
		{"bad category", "POST", "/api/reports", "you", map[string]string{"resourceId": "other", "reasonCategory": "meh"}, fiber.StatusBadRequest},
		{"unknown resource", "POST", "/api/reports", "you", map[string]string{"resourceId": "nope", "reasonCategory": "other"}, fiber.StatusNotFound},
		{"empty post", "POST", "/api/posts", "you", map[string]string{"content": ""}, fiber.StatusBadRequest},
		{"missing post", "PUT", "/api/posts/nope", "you", map[string]string{"content": "x"}, fiber.StatusNotFound},
		{"self block", "POST", "/api/blocks", "you", map[string]string{"blockedId": "you"}, fiber.StatusConflict},
		{"missing block target", "POST", "/api/blocks", "you", map[string]string{}, fiber.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, body := a.do(c.method, c.path, c.user, c.payload)
			assert.Equal(t, c.want, status)
			assert.Equal(t, true, body["error"])
		})
	}

	status, _ := a.do("POST", "/api/blocks", "you", map[string]string{"blockedId": "other"})
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = a.do("POST", "/api/blocks", "you", map[string]string{"blockedId": "other"})
	assert.Equal(t, fiber.StatusConflict, status)
	status, _ = a.do("DELETE", "/api/blocks/other", "you", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
