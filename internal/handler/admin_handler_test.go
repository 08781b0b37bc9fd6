package handler_test

import (
	"context"
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

func TestAdminCourseHandler_ListFilters(t *testing.T) {
	catalog := &mockCatalogService{course: dto.CourseResponse{ID: 1, Code: "CS101"}}
	app, group := newApp("/api/v1/admin/courses", 1, models.RoleAdmin)
	handler.NewAdminCourseHandler(catalog, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/courses?active=true&search=cs&page=2&page_size=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.CourseListRequest{ActiveOnly: true, Search: "cs", Page: 2, PageSize: 5}, catalog.lastList)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/courses?active=maybe", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminCourseHandler_CreateConflict(t *testing.T) {
	catalog := &mockCatalogService{err: service.ErrCourseCodeTaken}
	app, group := newApp("/api/v1/admin/courses", 1, models.RoleAdmin)
	handler.NewAdminCourseHandler(catalog, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/courses", jsonBody(`{"code":"cs101","name":"Intro"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, models.Viewer{ID: 1, Role: models.RoleAdmin}, catalog.lastViewer)
}

func TestAdminCourseHandler_Delete(t *testing.T) {
	catalog := &mockCatalogService{}
	app, group := newApp("/api/v1/admin/courses", 1, models.RoleAdmin)
	handler.NewAdminCourseHandler(catalog, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/courses/9", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []uint{9}, catalog.deleted)

	catalog.err = service.ErrCourseNotFound
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/courses/10", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminUserHandler_CreateAndList(t *testing.T) {
	users := &mockUserService{list: dto.UserListResponse{Items: []dto.UserResponse{{ID: 1}}}}
	app, group := newApp("/api/v1/admin/users", 1, models.RoleAdmin)
	handler.NewAdminUserHandler(users, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", jsonBody(`{"username":"ada","email":"ada@example.com","role":"student"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created envelope[dto.UserResponse]
	decodeResponse(t, resp, &created)
	require.Equal(t, "ada", created.Data.Username)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users?role=student&search=ad", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "student", users.lastList.Role)
	require.Equal(t, "ad", users.lastList.Search)
}

func TestAdminUserHandler_CreateDuplicate(t *testing.T) {
	users := &mockUserService{err: service.ErrUserExists}
	app, group := newApp("/api/v1/admin/users", 1, models.RoleAdmin)
	handler.NewAdminUserHandler(users, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", jsonBody(`{"username":"ada","email":"ada@example.com","role":"student"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAdminActivityHandler_RejectsNegativeActor(t *testing.T) {
	app, group := newApp("/api/v1/admin/activity", 1, models.RoleAdmin)
	handler.NewAdminActivityHandler(nil, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activity?actor_id=-4", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProfileHandler_UsesAuthenticatedUser(t *testing.T) {
	users := &mockUserService{user: dto.UserResponse{ID: 7, Username: "ada"}}
	app, group := newApp("/api/v1/me", 7, models.RoleStudent)
	handler.NewProfileHandler(users, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), users.lastID)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/me", jsonBody(`{"bio":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProfileHandler_InvalidBody(t *testing.T) {
	app, group := newApp("/api/v1/me", 7, models.RoleStudent)
	handler.NewProfileHandler(&mockUserService{}, zerolog.Nop()).Register(group)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/me", jsonBody(`{"bio":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type stubActivityService struct {
	lastList dto.ActivityListRequest
}

func (s *stubActivityService) Record(context.Context, service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, nil
}

func (s *stubActivityService) List(_ context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	s.lastList = req
	return dto.ActivityListResponse{Items: []dto.ActivityResponse{}}, nil
}

func TestActivityFeedHandler_ScopedToViewer(t *testing.T) {
	svc := &stubActivityService{}
	app, group := newApp("/api/v1/me/activity", 7, models.RoleStudent)
	handler.NewActivityFeedHandler(svc, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/me/activity?actor_id=1&action=enrollment.created", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.lastList.ActorID)
	require.Equal(t, "enrollment.created", svc.lastList.Action)
}
