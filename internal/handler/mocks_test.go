package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/models"
)

type envelope[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

// newApp returns an app whose routes under prefix run as the given user.
func newApp(prefix string, userID uint, role models.Role) (*fiber.App, fiber.Router) {
	app := fiber.New()
	group := app.Group(prefix, func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", string(role))
		return c.Next()
	})
	return app, group
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func jsonBody(payload string) io.Reader {
	return strings.NewReader(payload)
}

type mockCatalogService struct {
	course       dto.CourseResponse
	courseErr    error
	assignments  []dto.AssignmentResponse
	assignment   dto.AssignmentResponse
	err          error
	lastViewer   models.Viewer
	lastCourseID uint
	lastList     dto.CourseListRequest
	deleted      []uint
}

func (m *mockCatalogService) CreateCourse(_ context.Context, actor models.Viewer, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	m.lastViewer = actor
	if m.err != nil {
		return dto.CourseResponse{}, m.err
	}
	return dto.CourseResponse{ID: 1, Code: payload.Code, Name: payload.Name}, nil
}

func (m *mockCatalogService) UpdateCourse(_ context.Context, actor models.Viewer, id uint, _ dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	m.lastViewer = actor
	m.lastCourseID = id
	return m.course, m.err
}

func (m *mockCatalogService) DeleteCourse(_ context.Context, actor models.Viewer, id uint) error {
	m.lastViewer = actor
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogService) GetCourse(_ context.Context, id uint) (dto.CourseResponse, error) {
	m.lastCourseID = id
	return m.course, m.courseErr
}

func (m *mockCatalogService) ListCourses(_ context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error) {
	m.lastList = req
	if m.err != nil {
		return dto.CourseListResponse{}, m.err
	}
	return dto.CourseListResponse{Items: []dto.CourseResponse{m.course}}, nil
}

func (m *mockCatalogService) CreateAssignment(_ context.Context, actor models.Viewer, courseID uint, _ dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	m.lastViewer = actor
	m.lastCourseID = courseID
	return m.assignment, m.err
}

func (m *mockCatalogService) UpdateAssignment(_ context.Context, actor models.Viewer, _ uint, _ dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	m.lastViewer = actor
	return m.assignment, m.err
}

func (m *mockCatalogService) ListAssignments(_ context.Context, viewer models.Viewer, courseID uint) ([]dto.AssignmentResponse, error) {
	m.lastViewer = viewer
	m.lastCourseID = courseID
	return m.assignments, m.err
}

type mockEnrollmentService struct {
	enrollment dto.EnrollmentResponse
	courses    []dto.CourseResponse
	roster     []dto.UserResponse
	err        error
	enrolled   [][2]uint
	rosterHits int
}

func (m *mockEnrollmentService) Enroll(_ context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error) {
	if m.err != nil {
		return dto.EnrollmentResponse{}, m.err
	}
	m.enrolled = append(m.enrolled, [2]uint{studentID, courseID})
	return dto.EnrollmentResponse{ID: 1, StudentID: studentID, CourseID: courseID, IsActive: true}, nil
}

func (m *mockEnrollmentService) Drop(_ context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error) {
	if m.err != nil {
		return dto.EnrollmentResponse{}, m.err
	}
	return dto.EnrollmentResponse{ID: 1, StudentID: studentID, CourseID: courseID}, nil
}

func (m *mockEnrollmentService) ListAvailableCourses(context.Context, uint) ([]dto.CourseResponse, error) {
	return m.courses, m.err
}

func (m *mockEnrollmentService) ListCoursesFor(context.Context, models.Viewer) ([]dto.CourseResponse, error) {
	return m.courses, m.err
}

func (m *mockEnrollmentService) Roster(context.Context, uint) ([]dto.UserResponse, error) {
	m.rosterHits++
	return m.roster, m.err
}

type mockGradeBookService struct {
	grade      dto.GradeResponse
	percentage dto.EnrollmentPercentageResponse
	grades     []dto.GradeResponse
	student    dto.StudentGradesResponse
	err        error
	lastActor  models.Viewer
	lastGrade  dto.GradeCreateRequest
}

func (m *mockGradeBookService) RecordGrade(_ context.Context, actor models.Viewer, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	m.lastActor = actor
	m.lastGrade = payload
	return m.grade, m.err
}

func (m *mockGradeBookService) EnrollmentPercentage(context.Context, uint) (dto.EnrollmentPercentageResponse, error) {
	return m.percentage, m.err
}

func (m *mockGradeBookService) CourseAverages(context.Context, uint) (map[uint]*float64, error) {
	return m.student.CourseAverages, m.err
}

func (m *mockGradeBookService) ListGrades(context.Context, uint) ([]dto.GradeResponse, error) {
	return m.grades, m.err
}

func (m *mockGradeBookService) ListStudentGrades(context.Context, uint) (dto.StudentGradesResponse, error) {
	return m.student, m.err
}

type mockAnnouncementService struct {
	item       dto.AnnouncementResponse
	items      []dto.AnnouncementResponse
	unread     int64
	err        error
	lastLimit  int
	markedRead []uint
	created    dto.AnnouncementCreateRequest
}

func (m *mockAnnouncementService) Create(_ context.Context, _ models.Viewer, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	m.created = payload
	return m.item, m.err
}

func (m *mockAnnouncementService) MarkRead(_ context.Context, announcementID, _ uint) error {
	if m.err != nil {
		return m.err
	}
	m.markedRead = append(m.markedRead, announcementID)
	return nil
}

func (m *mockAnnouncementService) Get(context.Context, models.Viewer, uint) (dto.AnnouncementResponse, error) {
	return m.item, m.err
}

func (m *mockAnnouncementService) ListVisible(context.Context, models.Viewer) ([]dto.AnnouncementResponse, error) {
	m.lastLimit = 0
	return m.items, m.err
}

func (m *mockAnnouncementService) ListRecent(_ context.Context, _ models.Viewer, limit int) ([]dto.AnnouncementResponse, error) {
	m.lastLimit = limit
	return m.items, m.err
}

func (m *mockAnnouncementService) UnreadCount(context.Context, models.Viewer) (int64, error) {
	return m.unread, m.err
}

type mockUserService struct {
	user     dto.UserResponse
	list     dto.UserListResponse
	err      error
	lastList dto.UserListRequest
	lastID   uint
}

func (m *mockUserService) Create(_ context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return dto.UserResponse{ID: 1, Username: payload.Username, Role: payload.Role}, nil
}

func (m *mockUserService) Get(_ context.Context, id uint) (dto.UserResponse, error) {
	m.lastID = id
	return m.user, m.err
}

func (m *mockUserService) List(_ context.Context, req dto.UserListRequest) (dto.UserListResponse, error) {
	m.lastList = req
	return m.list, m.err
}

func (m *mockUserService) UpdateProfile(_ context.Context, id uint, _ dto.UserProfileUpdateRequest) (dto.UserResponse, error) {
	m.lastID = id
	return m.user, m.err
}

type mockDashboardService struct {
	response   dto.DashboardResponse
	err        error
	lastViewer models.Viewer
}

func (m *mockDashboardService) Invalidate(context.Context, ...uint) {}

func (m *mockDashboardService) Get(_ context.Context, viewer models.Viewer) (dto.DashboardResponse, error) {
	m.lastViewer = viewer
	return m.response, m.err
}

func ptrUint(v uint) *uint {
	return &v
}

func ptrFloat(v float64) *float64 {
	return &v
}
