package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/middleware"
	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// AnnouncementHandler handles course announcement endpoints.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Register wires routes for announcements.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/unread-count", h.unreadCount)
	router.Post("", middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleStaff}))
	router.Get("/:id", h.get)
	router.Post("/:id/read", h.markRead)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	ctx := withRequestContext(c)
	viewer := currentViewer(c)

	var items []dto.AnnouncementResponse
	if limit > 0 {
		items, err = h.service.ListRecent(ctx, viewer, limit)
	} else {
		items, err = h.service.ListVisible(ctx, viewer)
	}
	if err != nil {
		return respondError(c, h.logger, err, "failed to list announcements")
	}

	return utils.SendSuccess(c, "announcements retrieved", items)
}

func (h *AnnouncementHandler) unreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(withRequestContext(c), currentViewer(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to count unread announcements")
	}
	return utils.SendSuccess(c, "unread announcements counted", fiber.Map{"unread": count})
}

func (h *AnnouncementHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Get(withRequestContext(c), currentViewer(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load announcement")
	}
	return utils.SendSuccess(c, "announcement retrieved", item)
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Create(withRequestContext(c), currentViewer(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create announcement")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement created", item)
}

func (h *AnnouncementHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)
	viewer := currentViewer(c)
	// Get reports out-of-scope announcements as missing and marks students' reads itself.
	item, err := h.service.Get(ctx, viewer, id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to mark announcement read")
	}
	if !item.IsRead {
		if err := h.service.MarkRead(ctx, id, viewer.ID); err != nil {
			return respondError(c, h.logger, err, "failed to mark announcement read")
		}
	}

	return utils.SendSuccess(c, "announcement marked as read", fiber.Map{"announcement_id": id, "is_read": true})
}
