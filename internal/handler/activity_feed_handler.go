package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// ActivityFeedHandler serves the authenticated user's own audit trail.
type ActivityFeedHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityFeedHandler constructs the handler instance.
func NewActivityFeedHandler(service service.ActivityService, logger zerolog.Logger) *ActivityFeedHandler {
	return &ActivityFeedHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_feed_handler").Logger(),
	}
}

// Register wires the activity feed routes.
func (h *ActivityFeedHandler) Register(router fiber.Router) {
	router.Get("", h.mine)
}

func (h *ActivityFeedHandler) mine(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	viewer := currentViewer(c)
	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    viewer.ID,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	result, err := h.service.List(withRequestContext(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch activities")
	}

	return utils.SendSuccess(c, "activities retrieved", result)
}
