package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil || req.BlockedID == "" {
		return badBody(c)
	}

	if err := h.moderationService.BlockUser(c.UserContext(), req.BlockedID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User blocked successfully"})
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	if err := h.moderationService.UnblockUser(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked successfully"})
}

func (h *ModerationHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil || req.ResourceID == "" {
		return badBody(c)
	}

	report, err := h.moderationService.Review(c.UserContext(), req.ResourceID, req.Disable, req.Closed)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
