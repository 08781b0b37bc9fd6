package router_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/app"
	"github.com/noah-isme/campus-portal-api/internal/config"
	"github.com/noah-isme/campus-portal-api/internal/database"
	"github.com/noah-isme/campus-portal-api/internal/middleware"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/router"
)

const secret = "router-secret"

type portal struct {
	t     *testing.T
	app   *fiber.App
	admin string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newPortal(t *testing.T, cfg config.Config) *portal {
	t.Helper()

	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	admin := models.User{Username: "root", Email: "root@example.edu", Role: models.RoleAdmin, Language: "en", Timezone: "UTC"}
	require.NoError(t, db.Create(&admin).Error)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	cfg.AppName = "Campus Portal API"
	cfg.JWTSecret = secret
	if cfg.DashboardCacheTTL == 0 {
		cfg.DashboardCacheTTL = time.Minute
	}
	if cfg.EnrollRateLimit == 0 {
		cfg.EnrollRateLimit = 100
	}
	if cfg.EnrollRateWindow == 0 {
		cfg.EnrollRateWindow = time.Minute
	}

	logger := zerolog.Nop()
	infra := app.Infrastructure{DB: db, Redis: cache}
	services := app.NewServices(cfg, infra, logger)

	server := fiber.New()
	middleware.Register(server, middleware.Config{Logger: &logger})
	router.Register(server, cfg, app.RouterDependencies(services, infra, logger))

	return &portal{t: t, app: server, admin: tokenFor(t, admin.ID, models.RoleAdmin)}
}

func tokenFor(t *testing.T, id uint, role models.Role) string {
	t.Helper()
	token, err := middleware.IssueToken(secret, models.Viewer{ID: id, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (p *portal) do(method, path, token, body string, out interface{}) int {
	p.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.app.Test(req, -1)
	require.NoError(p.t, err)
	defer resp.Body.Close()

	if out != nil {
		var env envelope
		require.NoError(p.t, json.NewDecoder(resp.Body).Decode(&env))
		if resp.StatusCode < 300 {
			require.NoError(p.t, json.Unmarshal(env.Data, out))
		}
	}
	return resp.StatusCode
}

type idOnly struct {
	ID uint `json:"id"`
}

func (p *portal) createUser(username string, role models.Role) (uint, string) {
	p.t.Helper()
	var created idOnly
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.edu","role":%q}`, username, username, role)
	require.Equal(p.t, fiber.StatusCreated, p.do(http.MethodPost, "/api/v1/admin/users", p.admin, body, &created))
	return created.ID, tokenFor(p.t, created.ID, role)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	p := newPortal(t, config.Config{})

	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/health", "", "", nil))
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/metrics", "", "", nil))
	require.Equal(t, fiber.StatusUnauthorized, p.do(http.MethodGet, "/api/v1/courses", "", "", nil))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	p := newPortal(t, config.Config{})
	_, studentToken := p.createUser("lin", models.RoleStudent)

	require.Equal(t, fiber.StatusForbidden, p.do(http.MethodGet, "/api/v1/admin/users", studentToken, "", nil))
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/admin/activity", p.admin, "", nil))
}

func TestGradingFlow(t *testing.T) {
	p := newPortal(t, config.Config{})
	instructorID, instructorToken := p.createUser("ada", models.RoleInstructor)
	studentID, studentToken := p.createUser("lin", models.RoleStudent)

	var course idOnly
	body := fmt.Sprintf(`{"code":"cs101","name":"Intro","instructor_id":%d,"is_active":true}`, instructorID)
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, "/api/v1/admin/courses", p.admin, body, &course))

	var available []idOnly
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/courses/available", studentToken, "", &available))
	require.Len(t, available, 1)

	var enrollment struct {
		ID        uint `json:"id"`
		StudentID uint `json:"student_id"`
	}
	enrollPath := fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID)
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, enrollPath, studentToken, "", &enrollment))
	require.Equal(t, studentID, enrollment.StudentID)
	require.Equal(t, fiber.StatusConflict, p.do(http.MethodPost, enrollPath, studentToken, "", &struct{}{}))

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	var first, second idOnly
	assignmentsPath := fmt.Sprintf("/api/v1/courses/%d/assignments", course.ID)
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, assignmentsPath, instructorToken,
		fmt.Sprintf(`{"title":"Essay","due_date":%q,"max_score":100}`, due), &first))
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, assignmentsPath, instructorToken,
		fmt.Sprintf(`{"title":"Quiz","due_date":%q,"max_score":100}`, due), &second))

	grade := func(assignmentID uint, score float64) int {
		return p.do(http.MethodPost, "/api/v1/grades", instructorToken,
			fmt.Sprintf(`{"enrollment_id":%d,"assignment_id":%d,"score":%g}`, enrollment.ID, assignmentID, score), &struct{}{})
	}
	require.Equal(t, fiber.StatusBadRequest, grade(first.ID, 101))
	require.Equal(t, fiber.StatusCreated, grade(first.ID, 80))
	require.Equal(t, fiber.StatusConflict, grade(first.ID, 70))
	require.Equal(t, fiber.StatusCreated, grade(second.ID, 90))

	var percentage struct {
		Percentage *float64 `json:"percentage"`
		HasData    bool     `json:"has_data"`
	}
	percentagePath := fmt.Sprintf("/api/v1/grades/enrollments/%d/percentage", enrollment.ID)
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, percentagePath, studentToken, "", &percentage))
	require.True(t, percentage.HasData)
	require.InDelta(t, 85.0, *percentage.Percentage, 0.001)

	var dashboard struct {
		Student struct {
			AverageGrade   *float64 `json:"average_grade"`
			CompletionRate int      `json:"completion_rate"`
		} `json:"student"`
		CacheHit bool `json:"cache_hit"`
	}
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/dashboard", studentToken, "", &dashboard))
	require.False(t, dashboard.CacheHit)
	require.InDelta(t, 85.0, *dashboard.Student.AverageGrade, 0.001)
	require.Equal(t, 100, dashboard.Student.CompletionRate)

	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/dashboard", studentToken, "", &dashboard))
	require.True(t, dashboard.CacheHit)

	var announcement idOnly
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, "/api/v1/announcements", instructorToken,
		fmt.Sprintf(`{"course_id":%d,"title":"Exam","content":"<p>Room 4</p>"}`, course.ID), &announcement))

	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/dashboard", studentToken, "", &dashboard))
	require.False(t, dashboard.CacheHit)

	var unread struct {
		Unread int64 `json:"unread"`
	}
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/announcements/unread-count", studentToken, "", &unread))
	require.Equal(t, int64(1), unread.Unread)
	require.Equal(t, fiber.StatusOK, p.do(http.MethodPost, fmt.Sprintf("/api/v1/announcements/%d/read", announcement.ID), studentToken, "", &struct{}{}))
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/announcements/unread-count", studentToken, "", &unread))
	require.Zero(t, unread.Unread)

	var roster []idOnly
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/roster", course.ID), instructorToken, "", &roster))
	require.Len(t, roster, 1)

	require.Equal(t, fiber.StatusOK, p.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/courses/%d", course.ID), p.admin, "", &struct{}{}))
	require.Equal(t, fiber.StatusNotFound, p.do(http.MethodGet, percentagePath, studentToken, "", &struct{}{}))
}

func TestEnrollIsRateLimited(t *testing.T) {
	p := newPortal(t, config.Config{EnrollRateLimit: 2})
	_, studentToken := p.createUser("lin", models.RoleStudent)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		statuses = append(statuses, p.do(http.MethodPost, "/api/v1/courses/999/enroll", studentToken, "", nil))
	}
	require.Equal(t, []int{fiber.StatusNotFound, fiber.StatusNotFound, fiber.StatusTooManyRequests}, statuses)
}

func TestProfileRoundTrip(t *testing.T) {
	p := newPortal(t, config.Config{})
	_, studentToken := p.createUser("lin", models.RoleStudent)

	var profile struct {
		Bio      *string `json:"bio"`
		Username string  `json:"username"`
	}
	require.Equal(t, fiber.StatusOK, p.do(http.MethodPatch, "/api/v1/me", studentToken, `{"bio":"hi"}`, &profile))
	require.Equal(t, "lin", profile.Username)
	require.NotNil(t, profile.Bio)
	require.Equal(t, "hi", *profile.Bio)
}

func TestOwnActivityFeed(t *testing.T) {
	p := newPortal(t, config.Config{})
	instructorID, _ := p.createUser("ada", models.RoleInstructor)
	_, studentToken := p.createUser("lin", models.RoleStudent)

	var course idOnly
	body := fmt.Sprintf(`{"code":"cs102","name":"Data","instructor_id":%d,"is_active":true}`, instructorID)
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, "/api/v1/admin/courses", p.admin, body, &course))
	require.Equal(t, fiber.StatusCreated, p.do(http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), studentToken, "", &struct{}{}))

	var feed struct {
		Items []struct {
			Action string `json:"action"`
		} `json:"items"`
	}
	require.Equal(t, fiber.StatusOK, p.do(http.MethodGet, "/api/v1/me/activity", studentToken, "", &feed))
	require.Len(t, feed.Items, 1)
	require.Equal(t, "enrollment.created", feed.Items[0].Action)
}
