package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// DashboardHandler exposes the role-specific dashboard endpoint.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.getDashboard)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	viewer := currentViewer(c)

	dashboard, err := h.service.Get(withRequestContext(c), viewer)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}

	c.Set("X-Cache-Hit", strconv.FormatBool(dashboard.CacheHit))
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
