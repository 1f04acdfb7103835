package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/database"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowedReasons is the fixed set of (source type, reason) pairs an edge may carry.
var allowedReasons = map[models.NodeType][]models.Reason{
	models.NodePost:    {models.ReasonMentionedInPost},
	models.NodeComment: {models.ReasonMentionedInComment, models.ReasonCommentedOnPost},
	models.NodeReport:  {models.ReasonFiledReportOnResource},
}

// recipientFunc computes who receives an edge from sourceID. It runs inside
// the write transaction that stores the edges.
type recipientFunc func(tx *gorm.DB, sourceID string, candidates []string, actingUserID string) ([]string, error)

var recipientStrategies = map[models.Reason]recipientFunc{
	models.ReasonMentionedInPost:       mentionedInPostRecipients,
	models.ReasonMentionedInComment:    mentionedInCommentRecipients,
	models.ReasonCommentedOnPost:       commentedOnPostRecipients,
	models.ReasonFiledReportOnResource: reportFilerRecipients,
}

type NotificationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// NotifyMention upserts one edge per recipient from the source node. The
// acting user is the authenticated viewer. It returns how many recipients
// were notified.
func (s *NotificationService) NotifyMention(ctx context.Context, sourceType models.NodeType, sourceID string, candidates []string, reason models.Reason) (int, error) {
	const op = "notifyMention"
	defer observe(op, time.Now())

	viewer, err := requireViewer(ctx)
	if err != nil {
		return 0, fail(ctx, op, err, "source_id", sourceID)
	}
	if !slices.Contains(allowedReasons[sourceType], reason) {
		return 0, fail(ctx, op, fmt.Errorf("%w: reason %s is not allowed for %s", ErrValidation, reason, sourceType),
			"source_id", sourceID)
	}
	recipientsOf, ok := recipientStrategies[reason]
	if !ok {
		return 0, fail(ctx, op, fmt.Errorf("%w: no recipients for reason %s", ErrValidation, reason))
	}

	var notified int
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		recipients, err := recipientsOf(tx, sourceID, uniq(candidates), viewer.ID)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			return nil
		}

		now := s.now()
		edges := make([]models.Notification, 0, len(recipients))
		for _, userID := range recipients {
			edges = append(edges, models.Notification{
				SourceID:   sourceID,
				SourceType: sourceType,
				UserID:     userID,
				Reason:     reason,
				Read:       false,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}

		// created_at is left alone on conflict so a retrigger keeps the first notification time
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "user_id"}, {Name: "reason"}},
			DoUpdates: clause.AssignmentColumns([]string{"read", "updated_at"}),
		}).Create(&edges).Error; err != nil {
			return err
		}
		notified = len(edges)
		return nil
	})
	if err != nil {
		return 0, fail(ctx, op, err, "source_id", sourceID, "reason", reason.String())
	}

	metrics.NotificationsUpserted.WithLabelValues(reason.String()).Add(float64(notified))
	return notified, nil
}

// NotifyReportFiler tells the viewer that their filing on reportID was received.
func (s *NotificationService) NotifyReportFiler(ctx context.Context, reportID string) (int, error) {
	return s.NotifyMention(ctx, models.NodeReport, reportID, nil, models.ReasonFiledReportOnResource)
}

// Notifications lists the edges pointing at the viewer.
func (s *NotificationService) Notifications(ctx context.Context, filter NotificationFilter) ([]dto.NotificationResponse, error) {
	const op = "notifications"
	defer observe(op, time.Now())

	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err)
	}

	var out []dto.NotificationResponse
	err = database.ReadTx(ctx, s.db, func(tx *gorm.DB) error {
		q := tx.Where("user_id = ?", viewer.ID)
		if filter.Read != nil {
			q = q.Where(map[string]any{"read": *filter.Read})
		}

		var rows []models.Notification
		if err := q.Order(filter.OrderBy.column("notifications")).Order("notifications.id ASC").Find(&rows).Error; err != nil {
			return err
		}

		out, err = hydrateNotifications(tx, rows, viewer.ID)
		return err
	})
	if err != nil {
		return nil, fail(ctx, op, err, "user_id", viewer.ID)
	}
	return out, nil
}

// MarkAsRead flips the viewer's unread edges from node id to read and returns
// the most recently updated of them. It returns nil without error when there
// is no such edge or it was already read. An edge whose source node is gone
// is left untouched and reported as ErrNotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*dto.NotificationResponse, error) {
	const op = "markAsRead"
	defer observe(op, time.Now())

	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "source_id", id)
	}

	var out *dto.NotificationResponse
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var unread []models.Notification
		if err := tx.Where("source_id = ? AND user_id = ?", id, viewer.ID).
			Where(map[string]any{"read": false}).
			Order("updated_at DESC").Order("id DESC").
			Find(&unread).Error; err != nil {
			return err
		}
		if len(unread) == 0 {
			return nil
		}

		edge := unread[0]
		edge.Read = true
		hydrated, err := hydrateNotifications(tx, []models.Notification{edge}, viewer.ID)
		if err != nil {
			return err
		}
		if len(hydrated) != 1 {
			return fmt.Errorf("%w: source %s of notification", ErrNotFound, id)
		}

		ids := make([]uint, 0, len(unread))
		for _, n := range unread {
			ids = append(ids, n.ID)
		}
		if err := tx.Model(&models.Notification{}).
			Where("id IN ?", ids).
			UpdateColumn("read", true).Error; err != nil {
			return err
		}
		out = &hydrated[0]
		return nil
	})
	if err != nil {
		return nil, fail(ctx, op, err, "source_id", id, "user_id", viewer.ID)
	}
	return out, nil
}

func findPost(tx *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	if err := tx.Where("id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &post, nil
}

// findComment returns the comment together with the post it belongs to.
func findComment(tx *gorm.DB, id string) (*models.Comment, *models.Post, error) {
	var comment models.Comment
	if err := tx.Where("id = ?", id).Take(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: comment %s", ErrNotFound, id)
		}
		return nil, nil, err
	}
	post, err := findPost(tx, comment.PostID)
	if err != nil {
		return nil, nil, err
	}
	return &comment, post, nil
}

const notBlockedWith = `NOT EXISTS (SELECT 1 FROM blocks WHERE
	(blocks.blocker_id = users.id AND blocks.blocked_id = ?) OR
	(blocks.blocker_id = ? AND blocks.blocked_id = users.id))`

// unblockedUsers keeps the candidates that exist, are not excluded and share
// no block in either direction with any of guards. Candidate order is kept.
func unblockedUsers(tx *gorm.DB, candidates, exclude []string, guards ...string) ([]string, error) {
	candidates = slices.DeleteFunc(slices.Clone(candidates), func(id string) bool {
		return slices.Contains(exclude, id)
	})
	if len(candidates) == 0 {
		return nil, nil
	}

	q := tx.Model(&models.User{}).Where("users.id IN ?", candidates)
	for _, g := range guards {
		q = q.Where(notBlockedWith, g, g)
	}
	var found []string
	if err := q.Pluck("users.id", &found).Error; err != nil {
		return nil, err
	}

	out := make([]string, 0, len(found))
	for _, id := range candidates {
		if slices.Contains(found, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func mentionedInPostRecipients(tx *gorm.DB, postID string, candidates []string, _ string) ([]string, error) {
	post, err := findPost(tx, postID)
	if err != nil {
		return nil, err
	}
	return unblockedUsers(tx, candidates, nil, post.AuthorID)
}

// mentionedInCommentRecipients never includes the post author: they hear about
// the comment through commented_on_post instead.
func mentionedInCommentRecipients(tx *gorm.DB, commentID string, candidates []string, _ string) ([]string, error) {
	comment, post, err := findComment(tx, commentID)
	if err != nil {
		return nil, err
	}
	return unblockedUsers(tx, candidates, []string{post.AuthorID}, comment.AuthorID, post.AuthorID)
}

func commentedOnPostRecipients(tx *gorm.DB, commentID string, _ []string, actingUserID string) ([]string, error) {
	comment, post, err := findComment(tx, commentID)
	if err != nil {
		return nil, err
	}
	if actingUserID == post.AuthorID {
		return nil, nil
	}
	return unblockedUsers(tx, []string{post.AuthorID}, nil, comment.AuthorID)
}

func reportFilerRecipients(tx *gorm.DB, reportID string, _ []string, actingUserID string) ([]string, error) {
	var report models.Report
	if err := tx.Where("id = ?", reportID).Take(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
		}
		return nil, err
	}
	switch report.ResourceType {
	case models.NodeUser, models.NodePost, models.NodeComment:
	default:
		return nil, nil
	}

	var filings int64
	if err := tx.Model(&models.FiledReport{}).
		Where("report_id = ? AND submitter_id = ?", reportID, actingUserID).
		Count(&filings).Error; err != nil {
		return nil, err
	}
	if filings == 0 {
		return nil, nil
	}
	return []string{actingUserID}, nil
}
