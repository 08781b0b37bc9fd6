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

// GradeHandler exposes grade recording and reporting endpoints.
type GradeHandler struct {
	grades  service.GradeBookService
	catalog service.CatalogService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(grades service.GradeBookService, catalog service.CatalogService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		grades:  grades,
		catalog: catalog,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register wires grade routes.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("", middleware.WithAuth(h.record, middleware.AuthOptions{Role: middleware.AuthRoleStaff}))
	router.Get("/me", middleware.WithAuth(h.mine, middleware.AuthOptions{Role: middleware.AuthRoleStudent}))
	router.Get("/enrollments/:id", h.listForEnrollment)
	router.Get("/enrollments/:id/percentage", h.percentage)
}

func (h *GradeHandler) record(c *fiber.Ctx) error {
	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.grades.RecordGrade(withRequestContext(c), currentViewer(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record grade")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade recorded", grade)
}

func (h *GradeHandler) mine(c *fiber.Ctx) error {
	viewer := currentViewer(c)
	grades, err := h.grades.ListStudentGrades(withRequestContext(c), viewer.ID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load grades")
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) percentage(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)
	result, err := h.grades.EnrollmentPercentage(ctx, id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute percentage")
	}
	if err := h.authorizeEnrollment(c, result.StudentID, result.CourseID); err != nil {
		return respondError(c, h.logger, err, "failed to compute percentage")
	}

	return utils.SendSuccess(c, "percentage computed", result)
}

func (h *GradeHandler) listForEnrollment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)
	summary, err := h.grades.EnrollmentPercentage(ctx, id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load grades")
	}
	if err := h.authorizeEnrollment(c, summary.StudentID, summary.CourseID); err != nil {
		return respondError(c, h.logger, err, "failed to load grades")
	}

	grades, err := h.grades.ListGrades(ctx, id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load grades")
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

// authorizeEnrollment hides enrollments outside the viewer's scope behind a not-found error.
func (h *GradeHandler) authorizeEnrollment(c *fiber.Ctx, studentID, courseID uint) error {
	viewer := currentViewer(c)
	switch viewer.Role.Scope() {
	case models.ScopeAll:
		return nil
	case models.ScopeEnrolled:
		if viewer.ID == studentID {
			return nil
		}
	case models.ScopeTaught:
		course, err := h.catalog.GetCourse(withRequestContext(c), courseID)
		if err != nil {
			return err
		}
		if course.InstructorID != nil && *course.InstructorID == viewer.ID {
			return nil
		}
	}
	return service.ErrEnrollmentNotFound
}
