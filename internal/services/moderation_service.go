package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/database"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModerationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ModerationService) BlockUser(ctx context.Context, blockedID string) error {
	const op = "blockUser"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return fail(ctx, op, err)
	}
	if viewer.ID == blockedID {
		return fail(ctx, op, ErrSelfBlock, "user_id", viewer.ID)
	}

	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", blockedID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: user %s", ErrNotFound, blockedID)
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Block{
			BlockerID: viewer.ID,
			BlockedID: blockedID,
			CreatedAt: s.now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyBlocked
		}
		return nil
	})
	if err != nil {
		return fail(ctx, op, err, "user_id", viewer.ID, "blocked_id", blockedID)
	}
	return nil
}

func (s *ModerationService) UnblockUser(ctx context.Context, blockedID string) error {
	const op = "unblockUser"
	viewer, err := requireViewer(ctx)
	if err != nil {
		return fail(ctx, op, err)
	}

	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		return tx.Where("blocker_id = ? AND blocked_id = ?", viewer.ID, blockedID).
			Delete(&models.Block{}).Error
	})
	if err != nil {
		return fail(ctx, op, err, "user_id", viewer.ID, "blocked_id", blockedID)
	}
	return nil
}

// GetBlockedIDs lists users separated from userID by a block in either direction.
func (s *ModerationService) GetBlockedIDs(ctx context.Context, userID string) ([]string, error) {
	var blocks []models.Block
	err := database.ReadTx(ctx, s.db, func(tx *gorm.DB) error {
		return tx.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Find(&blocks).Error
	})
	if err != nil {
		return nil, fail(ctx, "getBlockedIDs", err, "user_id", userID)
	}

	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockerID == userID {
			ids = append(ids, b.BlockedID)
		} else {
			ids = append(ids, b.BlockerID)
		}
	}
	return uniq(ids), nil
}

// Review records the viewer's decision on the open report of a resource.
// Closing the report makes the next filing open a new one.
func (s *ModerationService) Review(ctx context.Context, resourceID string, disable, closed bool) (*dto.ReportResponse, error) {
	const op = "review"
	defer observe(op, time.Now())

	moderator, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "resource_id", resourceID)
	}

	var out *dto.ReportResponse
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", moderator.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: moderator %s", ErrNotFound, moderator.ID)
		}

		var report models.Report
		if err := tx.Where("resource_id = ?", resourceID).
			Where(map[string]any{"closed": false}).
			Take(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no open report for %s", ErrNotFound, resourceID)
			}
			return err
		}

		now := s.now()
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "moderator_id"}, {Name: "report_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"disable", "closed", "updated_at"}),
		}).Create(&models.ReportReview{
			ModeratorID: moderator.ID,
			ReportID:    report.ID,
			Disable:     disable,
			Closed:      closed,
			CreatedAt:   now,
			UpdatedAt:   now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&report).UpdateColumns(map[string]any{
			"closed":     closed,
			"disable":    disable,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		report.Closed, report.Disable, report.UpdatedAt = closed, disable, now

		var resource any
		switch report.ResourceType {
		case models.NodeUser:
			resource = &models.User{}
		case models.NodePost:
			resource = &models.Post{}
		case models.NodeComment:
			resource = &models.Comment{}
		default:
			return fmt.Errorf("%w: report %s has unsupported resource type %s", ErrValidation, report.ID, report.ResourceType)
		}
		if err := tx.Model(resource).Where("id = ?", resourceID).UpdateColumn("disabled", disable).Error; err != nil {
			return err
		}

		hydrated, err := hydrateReports(tx, []models.Report{report}, "")
		if err != nil {
			return err
		}
		out = hydrated[0]
		return nil
	})
	if err != nil {
		return nil, fail(ctx, op, err, "resource_id", resourceID, "user_id", moderator.ID)
	}
	return out, nil
}
