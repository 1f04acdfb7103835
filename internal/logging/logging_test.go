package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandlerStoresErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := newPGHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("not stored")
	logger.Error("side effect failed",
		"operation", "notifyMention",
		"error", "boom",
		"user_id", "u1",
		"resource_id", "p1",
		"reason", "mentioned_in_post",
	)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "side effect failed", entry.Message)
	assert.Equal(t, "notifyMention", entry.Operation)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "boom", entry.Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u1", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "p1", *entry.ResourceID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, map[string]any{"reason": "mentioned_in_post"}, extra)
}

func TestPGHandlerGroupsPrefixExtraKeys(t *testing.T) {
	db := testutil.NewDB(t)
	h := newPGHandler(db, time.Hour)
	slog.New(h).WithGroup("req").Error("failed", "path", "/notifications")
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"req.path":"/notifications"}`, string(logs[0].Extra))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(m).With("operation", "markAsRead")

	assert.False(t, m.Enabled(context.Background(), slog.LevelDebug))
	logger.Info("hello")
	logger.Error("failed")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))
	assert.Contains(t, errs.String(), `"operation":"markAsRead"`)
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.Add(-48 * time.Hour), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now, Level: "ERROR", Message: "new"},
	}).Error)

	deleted, err := PurgeOlderThan(db, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "new", left[0].Message)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level("development"))
	assert.Equal(t, slog.LevelInfo, Level("production"))
}

func TestContextHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "handled")
	logger.Info("no context")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"request_id":"req-42"`)
	assert.NotContains(t, string(lines[1]), "request_id")
}
