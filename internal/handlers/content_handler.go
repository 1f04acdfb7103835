package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) CreatePost(c *fiber.Ctx) error {
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	post, err := h.contentService.CreatePost(c.UserContext(), req.Title, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *ContentHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	post, err := h.contentService.UpdatePost(c.UserContext(), c.Params("id"), req.Title, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(post)
}

func (h *ContentHandler) CreateComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := h.contentService.CreateComment(c.UserContext(), c.Params("id"), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *ContentHandler) UpdateComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := h.contentService.UpdateComment(c.UserContext(), c.Params("id"), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(comment)
}
