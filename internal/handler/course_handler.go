package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/middleware"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/service"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// CourseHandler exposes course browsing, enrollment and assignment endpoints.
type CourseHandler struct {
	catalog     service.CatalogService
	enrollments service.EnrollmentService
	logger      zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(catalog service.CatalogService, enrollments service.EnrollmentService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		catalog:     catalog,
		enrollments: enrollments,
		logger:      logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires course routes. enrollGuards run ahead of the enroll endpoint.
func (h *CourseHandler) Register(router fiber.Router, enrollGuards ...fiber.Handler) {
	student := middleware.AuthOptions{Role: middleware.AuthRoleStudent}
	staff := middleware.AuthOptions{Role: middleware.AuthRoleStaff}

	router.Get("", h.list)
	router.Get("/available", middleware.WithAuth(h.available, student))
	router.Patch("/assignments/:id", middleware.WithAuth(h.updateAssignment, staff))
	router.Get("/:id", h.get)

	enroll := append(append([]fiber.Handler{}, enrollGuards...), middleware.WithAuth(h.enroll, student))
	router.Post("/:id/enroll", enroll...)
	router.Post("/:id/drop", middleware.WithAuth(h.drop, student))
	router.Get("/:id/roster", middleware.WithAuth(h.roster, staff))
	router.Get("/:id/assignments", h.listAssignments)
	router.Post("/:id/assignments", middleware.WithAuth(h.createAssignment, staff))
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.enrollments.ListCoursesFor(withRequestContext(c), currentViewer(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list courses")
	}
	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) available(c *fiber.Ctx) error {
	viewer := currentViewer(c)
	courses, err := h.enrollments.ListAvailableCourses(withRequestContext(c), viewer.ID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list available courses")
	}
	return utils.SendSuccess(c, "available courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.catalog.GetCourse(withRequestContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load course")
	}
	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) enroll(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	viewer := currentViewer(c)
	enrollment, err := h.enrollments.Enroll(withRequestContext(c), viewer.ID, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to enroll")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

func (h *CourseHandler) drop(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	viewer := currentViewer(c)
	enrollment, err := h.enrollments.Drop(withRequestContext(c), viewer.ID, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to drop course")
	}
	return utils.SendSuccess(c, "course dropped", enrollment)
}

func (h *CourseHandler) roster(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)
	viewer := currentViewer(c)
	if viewer.Role.Scope() != models.ScopeAll {
		course, err := h.catalog.GetCourse(ctx, courseID)
		if err != nil {
			return respondError(c, h.logger, err, "failed to load course")
		}
		if course.InstructorID == nil || *course.InstructorID != viewer.ID {
			return respondError(c, h.logger, service.ErrNotCourseInstructor, "failed to load roster")
		}
	}

	students, err := h.enrollments.Roster(ctx, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load roster")
	}
	return utils.SendSuccess(c, "roster retrieved", students)
}

func (h *CourseHandler) listAssignments(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.catalog.ListAssignments(withRequestContext(c), currentViewer(c), courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list assignments")
	}
	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *CourseHandler) createAssignment(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.catalog.CreateAssignment(withRequestContext(c), currentViewer(c), courseID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create assignment")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *CourseHandler) updateAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.catalog.UpdateAssignment(withRequestContext(c), currentViewer(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update assignment")
	}
	return utils.SendSuccess(c, "assignment updated", assignment)
}
