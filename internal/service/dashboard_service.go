package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/observability"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

const recentAnnouncementLimit = 5

// DashboardService assembles the role-specific overview for a user.
type DashboardService interface {
	DashboardInvalidator
	Get(ctx context.Context, viewer models.Viewer) (dto.DashboardResponse, error)
}

// DashboardDependencies groups the sources a dashboard is built from.
type DashboardDependencies struct {
	Users         repository.UserRepository
	Courses       repository.CourseRepository
	Assignments   repository.AssignmentRepository
	Enrollments   repository.EnrollmentRepository
	Grades        repository.GradeRepository
	Announcements AnnouncementService
	Cache         *redis.Client
	CacheTTL      time.Duration
}

type dashboardService struct {
	invalidator   *dashboardInvalidator
	users         repository.UserRepository
	courses       repository.CourseRepository
	assignments   repository.AssignmentRepository
	enrollments   repository.EnrollmentRepository
	grades        repository.GradeRepository
	announcements AnnouncementService
	cache         *redis.Client
	ttl           time.Duration
	logger        zerolog.Logger
}

// NewDashboardService constructs the dashboard service. A nil cache disables caching.
func NewDashboardService(deps DashboardDependencies, logger zerolog.Logger) DashboardService {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &dashboardService{
		invalidator:   newDashboardInvalidator(deps.Cache, logger),
		users:         deps.Users,
		courses:       deps.Courses,
		assignments:   deps.Assignments,
		enrollments:   deps.Enrollments,
		grades:        deps.Grades,
		announcements: deps.Announcements,
		cache:         deps.Cache,
		ttl:           ttl,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
	}
}

type dashboardInvalidator struct {
	cache  *redis.Client
	logger zerolog.Logger
}

// NewDashboardInvalidator returns an invalidator for the Redis dashboard cache.
// It lets mutating services drop cached dashboards without depending on the
// dashboard service itself.
func NewDashboardInvalidator(cache *redis.Client, logger zerolog.Logger) DashboardInvalidator {
	return newDashboardInvalidator(cache, logger)
}

func newDashboardInvalidator(cache *redis.Client, logger zerolog.Logger) *dashboardInvalidator {
	return &dashboardInvalidator{
		cache:  cache,
		logger: logger.With().Str("component", "dashboard_cache").Logger(),
	}
}

// Invalidate drops the cached dashboards of the given users.
func (i *dashboardInvalidator) Invalidate(ctx context.Context, userIDs ...uint) {
	if i.cache == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, DashboardCacheKey(id))
	}
	if err := i.cache.Del(ctx, keys...).Err(); err != nil {
		i.logger.Warn().Err(err).Int("keys", len(keys)).Msg("failed to invalidate dashboard cache")
	}
}

// Invalidate drops the cached dashboards of the given users.
func (s *dashboardService) Invalidate(ctx context.Context, userIDs ...uint) {
	s.invalidator.Invalidate(ctx, userIDs...)
}

// DashboardCacheKey returns the cache key holding a user's dashboard.
func DashboardCacheKey(userID uint) string {
	return fmt.Sprintf("dashboard:user:%d", userID)
}

func (s *dashboardService) Get(ctx context.Context, viewer models.Viewer) (dto.DashboardResponse, error) {
	cacheKey := DashboardCacheKey(viewer.ID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil && response.Role == string(viewer.Role) {
				response.CacheHit = true
				observability.DashboardCache().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if err != redis.Nil {
			observability.DashboardCache().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Uint("user_id", viewer.ID).Msg("failed to read dashboard cache")
		}
	}

	response := dto.DashboardResponse{Role: string(viewer.Role)}
	var err error
	switch viewer.Role {
	case models.RoleStudent:
		response.Student, err = s.buildStudent(ctx, viewer)
	case models.RoleInstructor:
		response.Instructor, err = s.buildInstructor(ctx, viewer)
	case models.RoleAdmin:
		response.Admin, err = s.buildAdmin(ctx)
	default:
		return dto.DashboardResponse{}, ErrInvalidRole
	}
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	observability.DashboardCache().WithLabelValues("miss").Inc()

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Uint("user_id", viewer.ID).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildStudent(ctx context.Context, viewer models.Viewer) (*dto.StudentDashboard, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, viewer.ID, true)
	if err != nil {
		return nil, err
	}

	enrollmentIDs := make([]uint, 0, len(enrollments))
	courseIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		enrollmentIDs = append(enrollmentIDs, enrollment.ID)
		courseIDs = append(courseIDs, enrollment.CourseID)
	}

	grades, err := s.grades.ListByEnrollments(ctx, enrollmentIDs)
	if err != nil {
		return nil, err
	}

	totalAssignments, err := s.assignments.CountActiveForCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	unread, err := s.announcements.UnreadCount(ctx, viewer)
	if err != nil {
		return nil, err
	}

	recent, err := s.announcements.ListRecent(ctx, viewer, recentAnnouncementLimit)
	if err != nil {
		return nil, err
	}

	return &dto.StudentDashboard{
		EnrolledCourses:     dto.NewEnrollmentResponseSlice(enrollments),
		AverageGrade:        percentagePtr(MeanGradePercentage(grades)),
		CompletionRate:      CompletionRate(countActiveGraded(grades), totalAssignments),
		UnreadAnnouncements: unread,
		RecentAnnouncements: recent,
	}, nil
}

func (s *dashboardService) buildInstructor(ctx context.Context, viewer models.Viewer) (*dto.InstructorDashboard, error) {
	courses, err := s.courses.ListVisible(ctx, viewer)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	students, err := s.enrollments.CountActiveForCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	recent, err := s.announcements.ListRecent(ctx, viewer, recentAnnouncementLimit)
	if err != nil {
		return nil, err
	}

	return &dto.InstructorDashboard{
		TeachingCourses:     dto.NewCourseResponseSlice(courses),
		TotalStudents:       students,
		RecentAnnouncements: recent,
	}, nil
}

func (s *dashboardService) buildAdmin(ctx context.Context) (*dto.AdminDashboard, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	activeCourses, err := s.courses.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.Count(ctx)
	if err != nil {
		return nil, err
	}

	users := map[string]int64{
		string(models.RoleStudent):    0,
		string(models.RoleInstructor): 0,
		string(models.RoleAdmin):      0,
	}
	for role, total := range byRole {
		users[string(role)] = total
	}

	return &dto.AdminDashboard{
		UsersByRole:   users,
		ActiveCourses: activeCourses,
		Enrollments:   enrollments,
	}, nil
}

// CompletionRate returns int(100*graded/total), or 0 when there is nothing to complete.
func CompletionRate(graded int, total int64) int {
	if total <= 0 {
		return 0
	}
	rate := int(100 * int64(graded) / total)
	if rate > 100 {
		return 100
	}
	return rate
}

func countActiveGraded(grades []models.Grade) int {
	count := 0
	for _, grade := range grades {
		if grade.Assignment != nil && grade.Assignment.IsActive {
			count++
		}
	}
	return count
}
