package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"gorm.io/gorm"
)

type nodeRef struct {
	Type models.NodeType
	ID   string
}

// resolveResource finds which reportable node carries id.
func resolveResource(tx *gorm.DB, id string) (models.NodeType, bool, error) {
	var user models.User
	err := tx.Select("id", "disabled").Where("id = ?", id).Take(&user).Error
	if err == nil {
		return models.NodeUser, user.Disabled, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	var post models.Post
	err = tx.Select("id", "disabled").Where("id = ?", id).Take(&post).Error
	if err == nil {
		return models.NodePost, post.Disabled, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	var comment models.Comment
	err = tx.Select("id", "disabled").Where("id = ?", id).Take(&comment).Error
	if err == nil {
		return models.NodeComment, comment.Disabled, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}
	return "", false, fmt.Errorf("%w: resource %s", ErrNotFound, id)
}

func loadUsers(tx *gorm.DB, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := tx.Where("id IN ?", uniq(ids)).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func loadPosts(tx *gorm.DB, ids []string) (map[string]*models.Post, error) {
	out := make(map[string]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []models.Post
	if err := tx.Where("id IN ?", uniq(ids)).Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		out[posts[i].ID] = &posts[i]
	}
	return out, nil
}

func loadComments(tx *gorm.DB, ids []string) (map[string]*models.Comment, error) {
	out := make(map[string]*models.Comment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var comments []models.Comment
	if err := tx.Where("id IN ?", uniq(ids)).Find(&comments).Error; err != nil {
		return nil, err
	}
	for i := range comments {
		out[comments[i].ID] = &comments[i]
	}
	return out, nil
}

func userResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{ID: u.ID, Name: u.Name, Disabled: u.Disabled}
}

func postResponse(p *models.Post, author *models.User) *dto.ResourceResponse {
	createdAt := p.CreatedAt
	return &dto.ResourceResponse{
		Type:      string(models.NodePost),
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Disabled:  p.Disabled,
		CreatedAt: &createdAt,
		Author:    userResponse(author),
	}
}

func commentResponse(c *models.Comment, author *models.User, post *dto.ResourceResponse) *dto.ResourceResponse {
	createdAt := c.CreatedAt
	return &dto.ResourceResponse{
		Type:      string(models.NodeComment),
		ID:        c.ID,
		Content:   c.Content,
		Disabled:  c.Disabled,
		CreatedAt: &createdAt,
		Author:    userResponse(author),
		Post:      post,
	}
}

// hydrateResources materialises User, Post and Comment nodes together with
// their author and, for comments, the commented post. Missing nodes are left
// out of the result.
func hydrateResources(tx *gorm.DB, refs []nodeRef) (map[string]*dto.ResourceResponse, error) {
	var userIDs, postIDs, commentIDs []string
	for _, r := range refs {
		switch r.Type {
		case models.NodeUser:
			userIDs = append(userIDs, r.ID)
		case models.NodePost:
			postIDs = append(postIDs, r.ID)
		case models.NodeComment:
			commentIDs = append(commentIDs, r.ID)
		}
	}

	comments, err := loadComments(tx, commentIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		postIDs = append(postIDs, c.PostID)
	}
	posts, err := loadPosts(tx, postIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		userIDs = append(userIDs, p.AuthorID)
	}
	for _, c := range comments {
		userIDs = append(userIDs, c.AuthorID)
	}
	users, err := loadUsers(tx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*dto.ResourceResponse, len(refs))
	for _, r := range refs {
		switch r.Type {
		case models.NodeUser:
			if u, ok := users[r.ID]; ok {
				out[r.ID] = &dto.ResourceResponse{
					Type:     string(models.NodeUser),
					ID:       u.ID,
					Name:     u.Name,
					Disabled: u.Disabled,
				}
			}
		case models.NodePost:
			if p, ok := posts[r.ID]; ok {
				out[r.ID] = postResponse(p, users[p.AuthorID])
			}
		case models.NodeComment:
			c, ok := comments[r.ID]
			if !ok {
				continue
			}
			var parent *dto.ResourceResponse
			if p, ok := posts[c.PostID]; ok {
				parent = postResponse(p, users[p.AuthorID])
			}
			out[r.ID] = commentResponse(c, users[c.AuthorID], parent)
		}
	}
	return out, nil
}

// hydrateReports attaches resource, filings and reviews to reports. When
// filedBy is set only that submitter's filings are included.
func hydrateReports(tx *gorm.DB, reports []models.Report, filedBy string) ([]*dto.ReportResponse, error) {
	if len(reports) == 0 {
		return []*dto.ReportResponse{}, nil
	}

	ids := make([]string, len(reports))
	refs := make([]nodeRef, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
		refs[i] = nodeRef{Type: r.ResourceType, ID: r.ResourceID}
	}

	filedQuery := tx.Where("report_id IN ?", ids)
	if filedBy != "" {
		filedQuery = filedQuery.Where("submitter_id = ?", filedBy)
	}
	var filed []models.FiledReport
	if err := filedQuery.Order("created_at ASC").Order("id ASC").Find(&filed).Error; err != nil {
		return nil, err
	}

	var reviews []models.ReportReview
	if err := tx.Where("report_id IN ?", ids).Order("updated_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	var people []string
	for _, f := range filed {
		people = append(people, f.SubmitterID)
	}
	for _, r := range reviews {
		people = append(people, r.ModeratorID)
	}
	users, err := loadUsers(tx, people)
	if err != nil {
		return nil, err
	}

	resources, err := hydrateResources(tx, refs)
	if err != nil {
		return nil, err
	}

	filedByReport := make(map[string][]dto.FiledResponse)
	for _, f := range filed {
		var description *string
		if f.ReasonDescription != "" {
			d := f.ReasonDescription
			description = &d
		}
		filedByReport[f.ReportID] = append(filedByReport[f.ReportID], dto.FiledResponse{
			CreatedAt:         f.CreatedAt,
			ReasonCategory:    f.ReasonCategory,
			ReasonDescription: description,
			Submitter:         userResponse(users[f.SubmitterID]),
		})
	}
	reviewsByReport := make(map[string][]dto.ReviewResponse)
	for _, r := range reviews {
		reviewsByReport[r.ReportID] = append(reviewsByReport[r.ReportID], dto.ReviewResponse{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Disable:   r.Disable,
			Closed:    r.Closed,
			Moderator: userResponse(users[r.ModeratorID]),
		})
	}

	out := make([]*dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		resp := &dto.ReportResponse{
			Type:      string(models.NodeReport),
			ID:        r.ID,
			Closed:    r.Closed,
			Disable:   r.Disable,
			Rule:      r.Rule,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Resource:  resources[r.ResourceID],
			Filed:     filedByReport[r.ID],
			Reviewed:  reviewsByReport[r.ID],
		}
		if resp.Filed == nil {
			resp.Filed = []dto.FiledResponse{}
		}
		if resp.Reviewed == nil {
			resp.Reviewed = []dto.ReviewResponse{}
		}
		out = append(out, resp)
	}
	return out, nil
}

// hydrateNotifications materialises the source of each edge. Edges whose
// source no longer exists are dropped.
func hydrateNotifications(tx *gorm.DB, rows []models.Notification, viewerID string) ([]dto.NotificationResponse, error) {
	var contentRefs []nodeRef
	var reportIDs []string
	for _, n := range rows {
		if n.SourceType == models.NodeReport {
			reportIDs = append(reportIDs, n.SourceID)
		} else {
			contentRefs = append(contentRefs, nodeRef{Type: n.SourceType, ID: n.SourceID})
		}
	}

	content, err := hydrateResources(tx, contentRefs)
	if err != nil {
		return nil, err
	}

	reports := make(map[string]*dto.ReportResponse)
	if len(reportIDs) > 0 {
		var reportRows []models.Report
		if err := tx.Where("id IN ?", uniq(reportIDs)).Find(&reportRows).Error; err != nil {
			return nil, err
		}
		hydrated, err := hydrateReports(tx, reportRows, viewerID)
		if err != nil {
			return nil, err
		}
		for _, r := range hydrated {
			reports[r.ID] = r
		}
	}

	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		var from dto.Node
		if n.SourceType == models.NodeReport {
			if r, ok := reports[n.SourceID]; ok {
				from = r
			}
		} else if c, ok := content[n.SourceID]; ok {
			from = c
		}
		if from == nil {
			continue
		}
		out = append(out, dto.NotificationResponse{
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
			Read:      n.Read,
			Reason:    n.Reason.String(),
			From:      from,
		})
	}
	return out, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
