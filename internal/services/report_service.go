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
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ReasonCategories = []string{
	"other",
	"discrimination_etc",
	"pornographic_content_links",
	"glorific_trivia_of_cruel_inhuman_acts",
	"doxing",
	"intentional_intimidation_stalking_persecution",
	"advert_products_services_commercial",
	"criminal_behavior_violation_german_law",
}

const maxReasonDescription = 1000

// openReportConflict targets the partial unique index on open reports.
var openReportConflict = clause.OnConflict{
	Columns:     []clause.Column{{Name: "resource_id"}},
	TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "closed = false"}}},
	DoNothing:   true,
}

type ReportService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewReportService(db *gorm.DB, notifications *NotificationService) *ReportService {
	return &ReportService{
		db:            db,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// FileReport adds the viewer's filing to the open report of a resource,
// opening one if there is none. The submitter is notified afterwards in a
// separate transaction whose failure does not affect the result. A nil report
// without error means the submitter is unknown.
func (s *ReportService) FileReport(ctx context.Context, resourceID, reasonCategory, reasonDescription string) (*dto.ReportResponse, error) {
	const op = "fileReport"
	defer observe(op, time.Now())

	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, fail(ctx, op, err, "resource_id", resourceID)
	}
	if !slices.Contains(ReasonCategories, reasonCategory) {
		return nil, fail(ctx, op, fmt.Errorf("%w: unknown reason category %q", ErrValidation, reasonCategory),
			"resource_id", resourceID)
	}
	if len(reasonDescription) > maxReasonDescription {
		return nil, fail(ctx, op, fmt.Errorf("%w: reason description exceeds %d characters", ErrValidation, maxReasonDescription),
			"resource_id", resourceID)
	}

	var (
		out     *dto.ReportResponse
		created bool
	)
	err = database.WriteTx(ctx, s.db, func(tx *gorm.DB) error {
		var submitter models.User
		if err := tx.Select("id").Where("id = ?", viewer.ID).Take(&submitter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		resourceType, disabled, err := resolveResource(tx, resourceID)
		if err != nil {
			return err
		}

		now := s.now()
		candidate := models.Report{
			ID:           uuid.NewString(),
			ResourceID:   resourceID,
			ResourceType: resourceType,
			Closed:       false,
			Disable:      disabled,
			Rule:         models.RuleLatestReview,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		res := tx.Clauses(openReportConflict).Create(&candidate)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1

		var report models.Report
		if err := tx.Where("resource_id = ?", resourceID).
			Where(map[string]any{"closed": false}).
			Take(&report).Error; err != nil {
			return err
		}
		if !created {
			if err := tx.Model(&report).UpdateColumn("updated_at", now).Error; err != nil {
				return err
			}
			report.UpdatedAt = now
		}

		if err := tx.Create(&models.FiledReport{
			SubmitterID:       viewer.ID,
			ReportID:          report.ID,
			ReasonCategory:    reasonCategory,
			ReasonDescription: reasonDescription,
			CreatedAt:         now,
		}).Error; err != nil {
			return err
		}

		hydrated, err := hydrateReports(tx, []models.Report{report}, viewer.ID)
		if err != nil {
			return err
		}
		out = hydrated[0]
		return nil
	})
	if err != nil {
		return nil, fail(ctx, op, err, "resource_id", resourceID, "user_id", viewer.ID)
	}
	if out == nil {
		return nil, nil
	}

	if created {
		metrics.ReportsFiled.WithLabelValues("created").Inc()
	} else {
		metrics.ReportsFiled.WithLabelValues("joined").Inc()
	}

	runSideEffect(ctx, "notifyReportFiler", func(ctx context.Context) error {
		_, err := s.notifications.NotifyReportFiler(ctx, out.ID)
		return err
	}, "report_id", out.ID, "user_id", viewer.ID)

	return out, nil
}

const reviewedExists = "EXISTS (SELECT 1 FROM report_reviews WHERE report_reviews.report_id = reports.id)"

// Reports lists reports on users, posts and comments for moderation.
func (s *ReportService) Reports(ctx context.Context, filter ReportFilter) ([]*dto.ReportResponse, error) {
	const op = "reports"
	defer observe(op, time.Now())

	if _, err := requireViewer(ctx); err != nil {
		return nil, fail(ctx, op, err)
	}
	if filter.Offset < 0 || filter.First < 0 {
		return nil, fail(ctx, op, fmt.Errorf("%w: offset and first must not be negative", ErrValidation))
	}

	var out []*dto.ReportResponse
	err := database.ReadTx(ctx, s.db, func(tx *gorm.DB) error {
		q := tx.Model(&models.Report{}).
			Where("reports.resource_type IN ?", []models.NodeType{models.NodeUser, models.NodePost, models.NodeComment})

		switch {
		case filter.Closed != nil && *filter.Closed:
			q = q.Where(map[string]any{"closed": true})
		default:
			if filter.Closed != nil {
				q = q.Where(map[string]any{"closed": false})
			}
			if filter.Reviewed != nil {
				if *filter.Reviewed {
					q = q.Where(reviewedExists)
				} else {
					q = q.Where("NOT " + reviewedExists)
				}
			}
		}

		q = q.Order(filter.OrderBy.column("reports")).Order("reports.id ASC")
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
		if filter.First > 0 {
			q = q.Limit(filter.First)
		}

		var reports []models.Report
		if err := q.Find(&reports).Error; err != nil {
			return err
		}

		var err error
		out, err = hydrateReports(tx, reports, "")
		return err
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return out, nil
}
