package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/auth"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	t          *testing.T
	db         *gorm.DB
	clock      *testClock
	notifs     *NotificationService
	reports    *ReportService
	content    *ContentService
	moderation *ModerationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	clock := &testClock{t: time.Date(2020, 1, 15, 16, 33, 48, 0, time.UTC)}

	notifs := NewNotificationService(db)
	notifs.now = clock.Now
	reports := NewReportService(db, notifs)
	reports.now = clock.Now
	content := NewContentService(db, notifs)
	content.now = clock.Now
	moderation := NewModerationService(db)
	moderation.now = clock.Now

	return &testEnv{
		t:          t,
		db:         db,
		clock:      clock,
		notifs:     notifs,
		reports:    reports,
		content:    content,
		moderation: moderation,
	}
}

func as(userID string) context.Context {
	return auth.WithViewer(context.Background(), auth.Viewer{ID: userID})
}

func (e *testEnv) user(id, name string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&models.User{ID: id, Name: name}).Error)
}

func (e *testEnv) post(id, authorID, title, content string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&models.Post{
		ID: id, AuthorID: authorID, Title: title, Content: content,
		CreatedAt: e.clock.Now(), UpdatedAt: e.clock.Now(),
	}).Error)
}

func (e *testEnv) comment(id, authorID, postID, content string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&models.Comment{
		ID: id, AuthorID: authorID, PostID: postID, Content: content,
		CreatedAt: e.clock.Now(), UpdatedAt: e.clock.Now(),
	}).Error)
}

func (e *testEnv) block(blockerID, blockedID string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID}).Error)
}

func (e *testEnv) edges(sourceID string) []models.Notification {
	e.t.Helper()
	var out []models.Notification
	require.NoError(e.t, e.db.Where("source_id = ?", sourceID).Order("user_id").Find(&out).Error)
	return out
}

func (e *testEnv) allEdges() []models.Notification {
	e.t.Helper()
	var out []models.Notification
	require.NoError(e.t, e.db.Order("id").Find(&out).Error)
	return out
}

func recipients(edges []models.Notification) []string {
	out := make([]string, len(edges))
	for i, n := range edges {
		out[i] = n.UserID
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
