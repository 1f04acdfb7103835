package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/database"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/mentions"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService writes posts and comments. Each mutation commits first; the
// notifications it triggers run afterwards in their own transaction.
type ContentService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewContentService(db *gorm.DB, notifications *NotificationService) *ContentService {
	return &ContentService{
		db:            db,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContentService) CreatePost(ctx context.Context, title, content string) (*dto.ResourceResponse, error) {
	const op = "createPost"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fail(ctx, op, fmt.Errorf("%w: content is required", ErrValidation))
	}
	mentioned := mentions.Extract(content)

	now := s.now()
	post := models.Post{
		ID:        uuid.NewString(),
		AuthorID:  viewer.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var author *models.User
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if author, err = findUser(tx, viewer.ID); err != nil {
			return err
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, fail(ctx, op, err, "user_id", viewer.ID)
	}

	s.notifyPostMentions(ctx, post.ID, mentioned)
	return postResponse(&post, author), nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id, title, content string) (*dto.ResourceResponse, error) {
	const op = "updatePost"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "post_id", id)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fail(ctx, op, fmt.Errorf("%w: content is required", ErrValidation), "post_id", id)
	}
	mentioned := mentions.Extract(content)

	var (
		post   *models.Post
		author *models.User
	)
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if post, err = findPost(tx, id); err != nil {
			return err
		}
		if post.AuthorID != viewer.ID {
			return fmt.Errorf("%w: post %s belongs to another user", ErrForbidden, id)
		}
		if author, err = findUser(tx, viewer.ID); err != nil {
			return err
		}
		post.Title, post.Content, post.UpdatedAt = title, content, s.now()
		return tx.Model(post).UpdateColumns(map[string]any{
			"title":      post.Title,
			"content":    post.Content,
			"updated_at": post.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, fail(ctx, op, err, "post_id", id, "user_id", viewer.ID)
	}

	s.notifyPostMentions(ctx, post.ID, mentioned)
	return postResponse(post, author), nil
}

func (s *ContentService) CreateComment(ctx context.Context, postID, content string) (*dto.ResourceResponse, error) {
	const op = "createComment"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "post_id", postID)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fail(ctx, op, fmt.Errorf("%w: content is required", ErrValidation), "post_id", postID)
	}
	mentioned := mentions.Extract(content)

	now := s.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		AuthorID:  viewer.ID,
		PostID:    postID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var (
		post   *models.Post
		author *models.User
	)
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if post, err = findPost(tx, postID); err != nil {
			return err
		}
		if author, err = findUser(tx, viewer.ID); err != nil {
			return err
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, fail(ctx, op, err, "post_id", postID, "user_id", viewer.ID)
	}

	s.notifyCommentParticipants(ctx, comment.ID, post.AuthorID, mentioned)
	return commentResponse(&comment, author, postResponse(post, nil)), nil
}

func (s *ContentService) UpdateComment(ctx context.Context, id, content string) (*dto.ResourceResponse, error) {
	const op = "updateComment"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "comment_id", id)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fail(ctx, op, fmt.Errorf("%w: content is required", ErrValidation), "comment_id", id)
	}
	mentioned := mentions.Extract(content)

	var (
		comment *models.Comment
		post    *models.Post
		author  *models.User
	)
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if comment, post, err = findComment(tx, id); err != nil {
			return err
		}
		if comment.AuthorID != viewer.ID {
			return fmt.Errorf("%w: comment %s belongs to another user", ErrForbidden, id)
		}
		if author, err = findUser(tx, viewer.ID); err != nil {
			return err
		}
		comment.Content, comment.UpdatedAt = content, s.now()
		return tx.Model(comment).UpdateColumns(map[string]any{
			"content":    comment.Content,
			"updated_at": comment.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, fail(ctx, op, err, "comment_id", id, "user_id", viewer.ID)
	}

	s.notifyCommentParticipants(ctx, comment.ID, post.AuthorID, mentioned)
	return commentResponse(comment, author, postResponse(post, nil)), nil
}

func (s *ContentService) notifyPostMentions(ctx context.Context, postID string, mentioned []string) {
	if len(mentioned) == 0 {
		return
	}
	runSideEffect(ctx, "notifyMention", func(ctx context.Context) error {
		_, err := s.notifications.NotifyMention(ctx, models.NodePost, postID, mentioned, models.ReasonMentionedInPost)
		return err
	}, "post_id", postID)
}

// notifyCommentParticipants tells mentioned users about the comment and the
// post author that their post got a comment. The post author is never
// notified twice for the same comment.
func (s *ContentService) notifyCommentParticipants(ctx context.Context, commentID, postAuthorID string, mentioned []string) {
	mentioned = slices.DeleteFunc(mentioned, func(id string) bool { return id == postAuthorID })
	if len(mentioned) > 0 {
		runSideEffect(ctx, "notifyMention", func(ctx context.Context) error {
			_, err := s.notifications.NotifyMention(ctx, models.NodeComment, commentID, mentioned, models.ReasonMentionedInComment)
			return err
		}, "comment_id", commentID)
	}

	if viewer, ok := viewerID(ctx); ok && viewer != postAuthorID {
		runSideEffect(ctx, "notifyCommentedOnPost", func(ctx context.Context) error {
			_, err := s.notifications.NotifyMention(ctx, models.NodeComment, commentID, []string{postAuthorID}, models.ReasonCommentedOnPost)
			return err
		}, "comment_id", commentID)
	}
}

func findUser(tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := tx.Where("id = ?", id).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func viewerID(ctx context.Context) (string, bool) {
	v, err := requireViewer(ctx)
	return v.ID, err == nil
}
