package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/handler"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/service"
)

func newCourseApp(userID uint, role models.Role, catalog *mockCatalogService, enrollments *mockEnrollmentService) *fiber.App {
	app, group := newApp("/api/v1/courses", userID, role)
	handler.NewCourseHandler(catalog, enrollments, zerolog.Nop()).Register(group)
	return app
}

func TestCourseHandler_EnrollCreated(t *testing.T) {
	enrollments := &mockEnrollmentService{}
	app := newCourseApp(7, models.RoleStudent, &mockCatalogService{}, enrollments)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/courses/3/enroll", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body envelope[dto.EnrollmentResponse]
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, uint(7), body.Data.StudentID)
	require.Equal(t, uint(3), body.Data.CourseID)
	require.Equal(t, [][2]uint{{7, 3}}, enrollments.enrolled)
}

func TestCourseHandler_EnrollErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "duplicate", err: service.ErrAlreadyEnrolled, status: fiber.StatusConflict},
		{name: "missing course", err: service.ErrCourseNotFound, status: fiber.StatusNotFound},
		{name: "not a student", err: service.ErrNotAStudent, status: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newCourseApp(7, models.RoleStudent, &mockCatalogService{}, &mockEnrollmentService{err: tc.err})

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/courses/3/enroll", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var body envelope[any]
			decodeResponse(t, resp, &body)
			require.False(t, body.Success)
			require.Equal(t, tc.err.Error(), body.Message)
		})
	}
}

func TestCourseHandler_EnrollRequiresStudent(t *testing.T) {
	enrollments := &mockEnrollmentService{}
	app := newCourseApp(2, models.RoleInstructor, &mockCatalogService{}, enrollments)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/courses/3/enroll", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Empty(t, enrollments.enrolled)
}

func TestCourseHandler_EnrollGuardsRunFirst(t *testing.T) {
	enrollments := &mockEnrollmentService{}
	app, group := newApp("/api/v1/courses", 7, models.RoleStudent)
	guard := func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTooManyRequests)
	}
	handler.NewCourseHandler(&mockCatalogService{}, enrollments, zerolog.Nop()).Register(group, guard)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/courses/3/enroll", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	require.Empty(t, enrollments.enrolled)
}

func TestCourseHandler_InvalidIdentifier(t *testing.T) {
	app := newCourseApp(7, models.RoleStudent, &mockCatalogService{}, &mockEnrollmentService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCourseHandler_AvailableRoutesBeforeID(t *testing.T) {
	enrollments := &mockEnrollmentService{courses: []dto.CourseResponse{{ID: 4, Code: "CS101"}}}
	app := newCourseApp(7, models.RoleStudent, &mockCatalogService{}, enrollments)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/available", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[[]dto.CourseResponse]
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, "CS101", body.Data[0].Code)
}

func TestCourseHandler_RosterScopedToInstructor(t *testing.T) {
	catalog := &mockCatalogService{course: dto.CourseResponse{ID: 3, InstructorID: ptrUint(99)}}
	enrollments := &mockEnrollmentService{roster: []dto.UserResponse{{ID: 7}}}
	app := newCourseApp(2, models.RoleInstructor, catalog, enrollments)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/3/roster", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, enrollments.rosterHits)

	catalog.course.InstructorID = ptrUint(2)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/3/roster", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, enrollments.rosterHits)
}

func TestCourseHandler_AdminRosterSkipsOwnershipCheck(t *testing.T) {
	catalog := &mockCatalogService{courseErr: service.ErrCourseNotFound}
	enrollments := &mockEnrollmentService{roster: []dto.UserResponse{}}
	app := newCourseApp(1, models.RoleAdmin, catalog, enrollments)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/3/roster", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, enrollments.rosterHits)
}

func TestCourseHandler_CreateAssignmentValidation(t *testing.T) {
	catalog := service.NewCatalogService(service.CatalogDependencies{Validator: testValidator()}, zerolog.Nop())
	app, group := newApp("/api/v1/courses", 2, models.RoleInstructor)
	handler.NewCourseHandler(catalog, &mockEnrollmentService{}, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses/3/assignments", jsonBody(`{"max_score":10}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope[any]
	decodeResponse(t, resp, &body)
	require.Equal(t, "validation failed", body.Message)
	require.Contains(t, body.Details, "Title")
}

func TestCourseHandler_AssignmentsPassViewer(t *testing.T) {
	catalog := &mockCatalogService{assignments: []dto.AssignmentResponse{{ID: 1, Title: "Essay"}}}
	app := newCourseApp(7, models.RoleStudent, catalog, &mockEnrollmentService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/courses/3/assignments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.Viewer{ID: 7, Role: models.RoleStudent}, catalog.lastViewer)
	require.Equal(t, uint(3), catalog.lastCourseID)
}

func TestCourseHandler_UpdateAssignmentBelowRecordedScore(t *testing.T) {
	catalog := &mockCatalogService{err: service.ErrMaxBelowRecordedScore}
	app := newCourseApp(2, models.RoleInstructor, catalog, &mockEnrollmentService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/courses/assignments/5", jsonBody(`{"max_score":50}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
