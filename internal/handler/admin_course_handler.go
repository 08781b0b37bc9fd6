package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// AdminCourseHandler wires administrator course management endpoints.
type AdminCourseHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewAdminCourseHandler constructs the handler.
func NewAdminCourseHandler(service service.CatalogService, logger zerolog.Logger) *AdminCourseHandler {
	return &AdminCourseHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_course_handler").Logger(),
	}
}

// Register attaches course admin routes to the router group.
func (h *AdminCourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminCourseHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		activeOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid active filter")
		}
	}

	response, err := h.service.ListCourses(withRequestContext(c), dto.CourseListRequest{
		ActiveOnly: activeOnly,
		Search:     c.Query("search"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", response)
}

func (h *AdminCourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.CreateCourse(withRequestContext(c), currentViewer(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *AdminCourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.UpdateCourse(withRequestContext(c), currentViewer(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update course")
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *AdminCourseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCourse(withRequestContext(c), currentViewer(c), id); err != nil {
		return respondError(c, h.logger, err, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", nil)
}
